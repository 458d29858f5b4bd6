package corpuscsv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"persona-orchestrator/internal/domain"
)

// Loader reads labeled persona records from a directory of semicolon-delimited
// CSV files. Every row from the designated official file is prefixed with the
// OFFICIAL provenance marker; rows from any other file get the USER_OPINION
// marker. Per-file and per-row problems are logged and skipped, never fatal.
type Loader struct {
	officialFilename string
	logger           *slog.Logger
}

// NewLoader creates a loader. officialFilename is the reserved filename whose
// rows carry authoritative provenance (e.g. "info_oficial.csv").
func NewLoader(officialFilename string, logger *slog.Logger) *Loader {
	return &Loader{
		officialFilename: officialFilename,
		logger:           logger,
	}
}

// Load enumerates CSV files under dir and returns the union of their valid
// records. A missing directory yields an empty corpus, not an error. Files
// are visited in lexical order so the result is deterministic.
func (l *Loader) Load(dir string) (*domain.Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("corpus_dir_missing", slog.String("dir", dir))
			return domain.NewCorpus(nil), nil
		}
		return nil, fmt.Errorf("failed to read corpus dir %s: %w", dir, err)
	}

	var records []domain.Record
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(strings.ToLower(entry.Name()), ".csv") {
			continue
		}
		fileRecords, err := l.loadFile(filepath.Join(dir, entry.Name()), entry.Name())
		if err != nil {
			l.logger.Warn("corpus_file_skipped",
				slog.String("file", entry.Name()),
				slog.String("reason", err.Error()))
			continue
		}
		records = append(records, fileRecords...)
	}

	corpus := domain.NewCorpus(records)
	l.logger.Info("corpus_loaded",
		slog.String("dir", dir),
		slog.Int("record_count", corpus.Len()),
		slog.String("version", corpus.Version()))
	return corpus, nil
}

func (l *Loader) loadFile(path, name string) ([]domain.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	textCol, productCol := -1, -1
	for i, col := range header {
		switch strings.TrimSpace(col) {
		case "text":
			textCol = i
		case "product":
			productCol = i
		}
	}
	if textCol < 0 || productCol < 0 {
		return nil, fmt.Errorf("required columns text/product not found (is the separator ';'?)")
	}

	prefix := domain.ProvenanceUserOpinion
	if name == l.officialFilename {
		prefix = domain.ProvenanceOfficial
	}

	var records []domain.Record
	rowNum := 1
	for {
		rowNum++
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			l.logger.Warn("corpus_row_skipped",
				slog.String("file", name),
				slog.Int("row", rowNum),
				slog.String("reason", err.Error()))
			continue
		}
		if textCol >= len(row) || productCol >= len(row) {
			l.logger.Warn("corpus_row_skipped",
				slog.String("file", name),
				slog.Int("row", rowNum),
				slog.String("reason", "missing text or product field"))
			continue
		}
		text := strings.TrimSpace(row[textCol])
		product := strings.TrimSpace(row[productCol])
		if text == "" || product == "" {
			l.logger.Warn("corpus_row_skipped",
				slog.String("file", name),
				slog.Int("row", rowNum),
				slog.String("reason", "empty text or product field"))
			continue
		}
		records = append(records, domain.Record{
			Text:    prefix + ": " + text,
			Product: product,
		})
	}

	l.logger.Info("corpus_file_loaded",
		slog.String("file", name),
		slog.Int("record_count", len(records)),
		slog.Bool("official", prefix == domain.ProvenanceOfficial))
	return records, nil
}
