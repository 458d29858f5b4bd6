package domain

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// Provenance markers prepended to record text at load time. The marker is
// part of the text from that point on and is never stripped downstream.
const (
	ProvenanceOfficial    = "[FONTE OFICIAL]"
	ProvenanceUserOpinion = "[OPINIÃO DE USUÁRIO]"
)

// Record is one corpus entry: provenance-prefixed text plus the product
// (topic) it belongs to. Both fields are guaranteed non-empty for records
// retained by the loader.
type Record struct {
	Text    string
	Product string
}

// Corpus is the union of all records loaded for one deployment. It is
// immutable after construction and safe for concurrent reads.
type Corpus struct {
	records []Record
	version string
}

// NewCorpus builds a corpus from records in load order and computes its
// version fingerprint, used as part of index cache keys.
func NewCorpus(records []Record) *Corpus {
	h := fnv.New64a()
	for _, r := range records {
		_, _ = h.Write([]byte(r.Product))
		_, _ = h.Write([]byte{0})
		_, _ = h.Write([]byte(r.Text))
		_, _ = h.Write([]byte{0})
	}
	return &Corpus{
		records: records,
		version: fmt.Sprintf("%016x", h.Sum64()),
	}
}

// Records returns the corpus entries in load order. Callers must not mutate
// the returned slice.
func (c *Corpus) Records() []Record {
	return c.records
}

// Version returns a fingerprint of the corpus contents.
func (c *Corpus) Version() string {
	return c.version
}

// Len reports the number of records.
func (c *Corpus) Len() int {
	return len(c.records)
}

// IsEmpty reports whether the corpus holds no records at all.
func (c *Corpus) IsEmpty() bool {
	return len(c.records) == 0
}

// FilterByProduct returns the records whose product matches the given topic,
// compared case-insensitively. Relative order is preserved.
func (c *Corpus) FilterByProduct(topic string) []Record {
	want := strings.ToLower(strings.TrimSpace(topic))
	var matched []Record
	for _, r := range c.records {
		if strings.ToLower(r.Product) == want {
			matched = append(matched, r)
		}
	}
	return matched
}
