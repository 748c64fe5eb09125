// Package feature reads annotated features and their reference sequences.
package feature

import "strings"

// Feature is one annotated record as supplied by upstream feature parsing.
// Location holds the raw grammar text; interpreting it is left to callers.
type Feature struct {
	ID             string // Feature identifier (e.g., locus tag or protein ID)
	Kind           string // Feature key (CDS, gene, rRNA, tRNA, ...)
	SeqID          string // Reference sequence the location is drawn against
	Location       string // Raw location text
	CircularLength int    // Length of the circular reference, 0 if linear
	GeneticCode    int    // Per-feature genetic code override, 0 for the default
	Line           int    // Source line number, for error reports
}

// IsCoding returns true for features whose residues are read as codons.
func (f *Feature) IsCoding() bool {
	return strings.EqualFold(f.Kind, "CDS")
}

// IsCircular returns true if the feature is drawn against a circular sequence.
func (f *Feature) IsCircular() bool {
	return f.CircularLength > 0
}
