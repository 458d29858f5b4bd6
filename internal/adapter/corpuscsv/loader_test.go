package corpuscsv_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"persona-orchestrator/internal/adapter/corpuscsv"
	"persona-orchestrator/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoader_ProvenancePrefixes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "info_oficial.csv",
		"text;product\n"+
			"O curso dura 6 meses;Product Management\n"+
			"A grade cobre discovery;UX Design\n")
	writeFile(t, dir, "opinioes.csv",
		"text;product\n"+
			"Achei o curso puxado;Product Management\n"+
			"Valeu muito a pena;Data Analytics\n"+
			"Os professores são ótimos;UX Design\n")

	loader := corpuscsv.NewLoader("info_oficial.csv", discardLogger())
	corpus, err := loader.Load(dir)
	require.NoError(t, err)
	require.Equal(t, 5, corpus.Len())

	records := corpus.Records()
	// Files load in lexical order, rows in file order.
	assert.Equal(t, domain.ProvenanceOfficial+": O curso dura 6 meses", records[0].Text)
	assert.Equal(t, "Product Management", records[0].Product)
	assert.Equal(t, domain.ProvenanceOfficial+": A grade cobre discovery", records[1].Text)
	for _, r := range records[2:] {
		assert.True(t, strings.HasPrefix(r.Text, domain.ProvenanceUserOpinion+": "))
	}
}

func TestLoader_SkipsInvalidRows(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "opinioes.csv",
		"text;product\n"+
			";Product Management\n"+
			"sem produto;\n"+
			"só texto\n"+
			"válido;UX Design\n")

	loader := corpuscsv.NewLoader("info_oficial.csv", discardLogger())
	corpus, err := loader.Load(dir)
	require.NoError(t, err)
	require.Equal(t, 1, corpus.Len())
	assert.Equal(t, domain.ProvenanceUserOpinion+": válido", corpus.Records()[0].Text)
}

func TestLoader_SkipsFileMissingColumns(t *testing.T) {
	dir := t.TempDir()
	// Comma-separated header: the semicolon reader sees one column and the
	// whole file is skipped, not fatal.
	writeFile(t, dir, "broken.csv", "text,product\nfoo,bar\n")
	writeFile(t, dir, "ok.csv", "text;product\nfoo;bar\n")

	loader := corpuscsv.NewLoader("info_oficial.csv", discardLogger())
	corpus, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, corpus.Len())
}

func TestLoader_IgnoresNonCSVEntries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.txt", "not a csv")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.csv"), 0o755))
	writeFile(t, dir, "data.csv", "text;product\nfoo;bar\n")

	loader := corpuscsv.NewLoader("info_oficial.csv", discardLogger())
	corpus, err := loader.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, corpus.Len())
}

func TestLoader_MissingDirYieldsEmptyCorpus(t *testing.T) {
	loader := corpuscsv.NewLoader("info_oficial.csv", discardLogger())
	corpus, err := loader.Load(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.True(t, corpus.IsEmpty())
}

func TestLoader_ExtraColumnsTolerated(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "data.csv",
		"id;text;product;extra\n"+
			"1;conteúdo;UX Design;whatever\n")

	loader := corpuscsv.NewLoader("info_oficial.csv", discardLogger())
	corpus, err := loader.Load(dir)
	require.NoError(t, err)
	require.Equal(t, 1, corpus.Len())
	assert.Equal(t, domain.ProvenanceUserOpinion+": conteúdo", corpus.Records()[0].Text)
}
