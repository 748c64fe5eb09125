// Package location provides the EMBL/GenBank location model, its textual
// grammar, and circular-aware interval geometry.
package location

import "fmt"

// Position is a single 1-based coordinate.
// Fuzzy marks "at or before" for a start and "at or after" for an end; it
// never changes the value used in arithmetic.
type Position struct {
	Coordinate int
	Fuzzy      bool
}

// Exact returns a non-fuzzy position.
func Exact(c int) Position {
	return Position{Coordinate: c}
}

// Fuzzy returns a fuzzy position.
func Fuzzy(c int) Position {
	return Position{Coordinate: c, Fuzzy: true}
}

// Strand is the orientation of a location.
type Strand int8

const (
	Unknown  Strand = 0
	Positive Strand = 1
	Negative Strand = -1
)

func (s Strand) String() string {
	switch s {
	case Positive:
		return "+"
	case Negative:
		return "-"
	default:
		return "."
	}
}

// Segment is a contiguous range, the atomic unit of a Location.
type Segment struct {
	Start  Position
	End    Position
	Strand Strand
	Rank   int
	// CircularLength is the length of the circular sequence the segment is
	// drawn against, or 0 for linear sequences.
	CircularLength int
}

// NewSegment returns a linear, exact segment on the given strand.
func NewSegment(start, end int, strand Strand) Segment {
	return Segment{Start: Exact(start), End: Exact(end), Strand: strand}
}

// IsCircular returns true if the segment is drawn against a circular sequence.
func (s Segment) IsCircular() bool {
	return s.CircularLength > 0
}

// Wraps returns true if the segment crosses the origin of a circular
// sequence, i.e. its start is after its end.
func (s Segment) Wraps() bool {
	return s.IsCircular() && s.Start.Coordinate > s.End.Coordinate
}

// Length returns the number of residues covered by the segment.
func (s Segment) Length() int {
	if s.Wraps() {
		return s.CircularLength - s.Start.Coordinate + 1 + s.End.Coordinate
	}
	return s.End.Coordinate - s.Start.Coordinate + 1
}

// Pieces returns the closed linear intervals occupied by the segment in
// ascending coordinate order. A wrapping segment yields [1, end] and
// [start, length].
func (s Segment) Pieces() [][2]int {
	if s.Wraps() {
		return [][2]int{
			{1, s.End.Coordinate},
			{s.Start.Coordinate, s.CircularLength},
		}
	}
	return [][2]int{{s.Start.Coordinate, s.End.Coordinate}}
}

// readingPieces returns the pieces in the order they are read on the
// segment's strand.
func (s Segment) readingPieces() [][2]int {
	p := s.Pieces()
	if len(p) == 2 && s.Strand != Negative {
		p[0], p[1] = p[1], p[0]
	}
	return p
}

func (s Segment) String() string {
	return formatRange(s)
}

func (s Segment) validate() error {
	if s.Start.Coordinate < 1 || s.End.Coordinate < 1 {
		return &GeometryError{Message: fmt.Sprintf("segment %s has a coordinate below 1", s)}
	}
	if s.IsCircular() {
		if s.Start.Coordinate > s.CircularLength || s.End.Coordinate > s.CircularLength {
			return &GeometryError{Message: fmt.Sprintf("segment %s exceeds circular length %d", s, s.CircularLength)}
		}
		return nil
	}
	if s.Start.Coordinate > s.End.Coordinate {
		return &GeometryError{Message: fmt.Sprintf("segment %s has start after end", s)}
	}
	return nil
}
