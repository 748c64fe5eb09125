package location

import (
	"fmt"
	"strings"
)

// MappingState records how confidently a location was mapped. Higher
// values mean lower confidence.
type MappingState int

const (
	Annotated MappingState = iota
	AnnotatedDisagreement
	Mapped
	MappedFailure
)

var mappingStateNames = [...]string{"ANNOTATED", "ANNOTATED_DISAGREEMENT", "MAPPED", "MAPPED_FAILURE"}

func (s MappingState) String() string {
	if s < 0 || int(s) >= len(mappingStateNames) {
		return fmt.Sprintf("MappingState(%d)", int(s))
	}
	return mappingStateNames[s]
}

// ParseMappingState converts a state name back to a MappingState.
func ParseMappingState(name string) (MappingState, error) {
	for i, n := range mappingStateNames {
		if strings.EqualFold(n, name) {
			return MappingState(i), nil
		}
	}
	return Annotated, fmt.Errorf("unknown mapping state %q", name)
}

// Consensus returns the worse of two states.
func Consensus(a, b MappingState) MappingState {
	for s := MappedFailure; s > Annotated; s-- {
		if a == s || b == s {
			return s
		}
	}
	return Annotated
}

// Insertion records residues removed at a junction during overlap
// resolution. Start > Stop means the run crosses the origin of a circular
// sequence.
type Insertion struct {
	Start int // first sequence coordinate of the removed run
	Stop  int // last sequence coordinate of the removed run
	// ProteinFragment is the translation of the removed run; empty for
	// non-coding features.
	ProteinFragment string
	// Offset is the position, in nucleotides of the resolved feature's
	// reading order, at which the removed run sat.
	Offset int
}

func (i Insertion) String() string {
	return fmt.Sprintf("%d..%d:%s@%d", i.Start, i.Stop, i.ProteinFragment, i.Offset)
}

// Exception records a translation discrepancy unrelated to overlap.
type Exception struct {
	Position        int
	OriginalResidue string
	ObservedResidue string
}

func (e Exception) String() string {
	return fmt.Sprintf("%d:%s>%s", e.Position, e.OriginalResidue, e.ObservedResidue)
}

// AnnotatedLocation decorates a Location with a mapping state and
// append-only insertion and exception logs. Values are immutable; every
// modifier returns a new value.
type AnnotatedLocation struct {
	location   Location
	state      MappingState
	insertions []Insertion
	exceptions []Exception
}

// NewAnnotatedLocation wraps a freshly parsed location in the Annotated state.
func NewAnnotatedLocation(l Location) AnnotatedLocation {
	return AnnotatedLocation{location: l, state: Annotated}
}

func (a AnnotatedLocation) Location() Location { return a.location }
func (a AnnotatedLocation) State() MappingState { return a.state }

// Insertions returns a copy of the insertion log in resolution order.
func (a AnnotatedLocation) Insertions() []Insertion {
	return append([]Insertion(nil), a.insertions...)
}

// Exceptions returns a copy of the exception log.
func (a AnnotatedLocation) Exceptions() []Exception {
	return append([]Exception(nil), a.exceptions...)
}

// WithState returns a copy in the given state.
func (a AnnotatedLocation) WithState(s MappingState) AnnotatedLocation {
	a.state = s
	return a
}

// WithLocation returns a copy carrying a replacement location. The logs
// are kept.
func (a AnnotatedLocation) WithLocation(l Location) AnnotatedLocation {
	a.location = l
	return a
}

// AddInsertion returns a copy with ins appended to the insertion log.
func (a AnnotatedLocation) AddInsertion(ins ...Insertion) AnnotatedLocation {
	a.insertions = append(a.insertions[:len(a.insertions):len(a.insertions)], ins...)
	return a
}

// AddException returns a copy with e appended to the exception log.
func (a AnnotatedLocation) AddException(e ...Exception) AnnotatedLocation {
	a.exceptions = append(a.exceptions[:len(a.exceptions):len(a.exceptions)], e...)
	return a
}

func (a AnnotatedLocation) String() string {
	var b strings.Builder
	b.WriteString(Format(a.location))
	b.WriteString(" [")
	b.WriteString(a.state.String())
	b.WriteString("]")
	for _, ins := range a.insertions {
		b.WriteString(" ins=")
		b.WriteString(ins.String())
	}
	for _, e := range a.exceptions {
		b.WriteString(" exc=")
		b.WriteString(e.String())
	}
	return b.String()
}
