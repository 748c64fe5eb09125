// Package sequence materializes and translates the residues a location
// covers on a reference sequence.
package sequence

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bebop/poly/transform"

	"github.com/inodb/genoloc/internal/codon"
	"github.com/inodb/genoloc/internal/location"
)

// ExtractionError reports segment bounds that do not fit the sequence.
type ExtractionError struct {
	Start, End     int
	SequenceLength int
	Message        string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extract %d..%d from sequence of length %d: %s", e.Start, e.End, e.SequenceLength, e.Message)
}

// Extract returns the nucleotides covered by loc. Segments are concatenated
// in flattened order and the whole concatenation is reverse complemented
// once for negative-strand locations.
func Extract(seq string, loc location.Location) (string, error) {
	if loc.IsEmpty() {
		return "", &ExtractionError{SequenceLength: len(seq), Message: "empty location"}
	}

	var b strings.Builder
	b.Grow(loc.Length())
	for _, s := range location.Flatten(loc) {
		if err := appendSegment(&b, seq, s); err != nil {
			return "", err
		}
	}

	if loc.Strand() == location.Negative {
		return transform.ReverseComplement(b.String()), nil
	}
	return b.String(), nil
}

func appendSegment(b *strings.Builder, seq string, s location.Segment) error {
	start, end := s.Start.Coordinate, s.End.Coordinate
	if s.Length() < 1 {
		return &ExtractionError{Start: start, End: end, SequenceLength: len(seq), Message: "segment length below 1"}
	}
	if s.IsCircular() && s.CircularLength != len(seq) {
		return &ExtractionError{Start: start, End: end, SequenceLength: len(seq),
			Message: fmt.Sprintf("circular length %d does not match sequence", s.CircularLength)}
	}

	pieces := s.Pieces()
	if s.Wraps() {
		// read from the start through the origin
		pieces[0], pieces[1] = pieces[1], pieces[0]
	}
	for _, p := range pieces {
		if p[0] < 1 || p[1] > len(seq) || p[0] > p[1] {
			return &ExtractionError{Start: start, End: end, SequenceLength: len(seq), Message: "segment outside sequence"}
		}
		b.WriteString(seq[p[0]-1 : p[1]])
	}
	return nil
}

// Translate extracts and translates loc.
func Translate(seq string, loc location.Location, g *codon.GeneticCode) (string, error) {
	nt, err := Extract(seq, loc)
	if err != nil {
		return "", err
	}
	return codon.Translate(nt, g)
}

// Reconstruct returns the protein implied by a resolved location: the
// translation of its residues with each insertion's protein fragment
// spliced back in at the junction it was removed from.
func Reconstruct(seq string, al location.AnnotatedLocation, g *codon.GeneticCode) (string, error) {
	protein, err := Translate(seq, al.Location(), g)
	if err != nil {
		return "", err
	}

	ins := al.Insertions()
	sort.SliceStable(ins, func(i, j int) bool { return ins[i].Offset < ins[j].Offset })

	var b strings.Builder
	b.Grow(len(protein) + len(ins))
	prev := 0
	for _, in := range ins {
		if in.Offset%3 != 0 {
			return "", &codon.TranslationError{Message: fmt.Sprintf("insertion %d..%d is not codon aligned", in.Start, in.Stop)}
		}
		at := in.Offset / 3
		if at > len(protein) {
			at = len(protein)
		}
		b.WriteString(protein[prev:at])
		b.WriteString(in.ProteinFragment)
		prev = at
	}
	b.WriteString(protein[prev:])
	return b.String(), nil
}
