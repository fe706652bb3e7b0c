// Package manifest persists the metadata a binary index archive doesn't
// carry: which sequence each seqId refers to. spec.md 6 only specifies the
// binary component stream (OccTable, then CSA); a deployment still needs a
// way to turn a locate hit's bare seqId back into something a human (or a
// caller) recognizes, the gap this package fills.
package manifest

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// SequenceEntry records one indexed sequence's identity and length.
type SequenceEntry struct {
	Name   string `json:"name"`
	Length uint64 `json:"length"`
}

// Manifest is the JSON sidecar written alongside an index's binary
// component stream.
type Manifest struct {
	CreatedOn   time.Time       `json:"created_on"`
	CreatedWith string          `json:"created_with"`
	Sigma       int             `json:"sigma"`
	Sequences   []SequenceEntry `json:"sequences"`
}

// New builds a Manifest from the sequence entries in seqId order. createdOn
// is taken as a parameter rather than read from time.Now so construction
// stays deterministic and testable.
func New(sigma int, createdWith string, createdOn time.Time, entries []SequenceEntry) Manifest {
	return Manifest{
		CreatedOn:   createdOn,
		CreatedWith: createdWith,
		Sigma:       sigma,
		Sequences:   entries,
	}
}

// SeqName returns the name recorded for seqId, or an error if it is out of
// range.
func (m Manifest) SeqName(seqID uint64) (string, error) {
	if seqID >= uint64(len(m.Sequences)) {
		return "", fmt.Errorf("manifest: seqId %d out of range [0,%d)", seqID, len(m.Sequences))
	}
	return m.Sequences[seqID].Name, nil
}

// Write serializes m as indented JSON to w.
func (m Manifest) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// Read deserializes a Manifest previously written by Write.
func Read(r io.Reader) (Manifest, error) {
	var m Manifest
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return Manifest{}, fmt.Errorf("manifest: %w", err)
	}
	return m, nil
}
