package location

import "fmt"

// Location is an ordered, immutable list of one or more segments with an
// overall strand. A single segment is a simple range; several segments
// form a join.
type Location struct {
	segments []Segment
	strand   Strand
}

// Construct builds a Location from an explicit segment list. Segments are
// re-ranked sequentially from 1. All segments must share a strand.
func Construct(segments []Segment) (Location, error) {
	if len(segments) == 0 {
		return Location{}, &GeometryError{Message: "location has no segments"}
	}

	strand := segments[0].Strand
	segs := make([]Segment, len(segments))
	for i, s := range segments {
		if s.Strand != strand {
			return Location{}, &GeometryError{Message: fmt.Sprintf("segment %d strand %s differs from %s", i+1, s.Strand, strand)}
		}
		if err := s.validate(); err != nil {
			return Location{}, err
		}
		s.Rank = i + 1
		segs[i] = s
	}

	return Location{segments: segs, strand: strand}, nil
}

// MustConstruct is like Construct but panics on error.
func MustConstruct(segments ...Segment) Location {
	loc, err := Construct(segments)
	if err != nil {
		panic(err)
	}
	return loc
}

// Segments returns a copy of the segments in declared rank order.
func (l Location) Segments() []Segment {
	out := make([]Segment, len(l.segments))
	copy(out, l.segments)
	return out
}

// Len returns the number of segments.
func (l Location) Len() int {
	return len(l.segments)
}

// Segment returns the i-th segment in rank order.
func (l Location) Segment(i int) Segment {
	return l.segments[i]
}

// Strand returns the overall strand.
func (l Location) Strand() Strand {
	return l.strand
}

// IsEmpty returns true for the zero Location.
func (l Location) IsEmpty() bool {
	return len(l.segments) == 0
}

// IsComposite returns true if the location is a join of several segments.
func (l Location) IsComposite() bool {
	return len(l.segments) > 1
}

// CircularLength returns the circular sequence length shared by the
// segments, or 0 for linear locations.
func (l Location) CircularLength() int {
	for _, s := range l.segments {
		if s.CircularLength > 0 {
			return s.CircularLength
		}
	}
	return 0
}

// IsCircular returns true if the location is drawn against a circular sequence.
func (l Location) IsCircular() bool {
	return l.CircularLength() > 0
}

// Min returns the minimum start coordinate across segments.
func (l Location) Min() int {
	if len(l.segments) == 0 {
		return 0
	}
	m := l.segments[0].Start.Coordinate
	for _, s := range l.segments[1:] {
		if s.Start.Coordinate < m {
			m = s.Start.Coordinate
		}
	}
	return m
}

// Max returns the maximum end coordinate across segments.
func (l Location) Max() int {
	if len(l.segments) == 0 {
		return 0
	}
	m := l.segments[0].End.Coordinate
	for _, s := range l.segments[1:] {
		if s.End.Coordinate > m {
			m = s.End.Coordinate
		}
	}
	return m
}

// Start returns the first position of the first segment.
func (l Location) Start() Position {
	return l.segments[0].Start
}

// End returns the last position of the last segment.
func (l Location) End() Position {
	return l.segments[len(l.segments)-1].End
}

// Length returns the total number of residues covered by all segments.
func (l Location) Length() int {
	n := 0
	for _, s := range l.segments {
		n += s.Length()
	}
	return n
}

// Equal reports structural equality: same segment count, order,
// coordinates, fuzzy flags, strand and circular length.
func (l Location) Equal(o Location) bool {
	if l.strand != o.strand || len(l.segments) != len(o.segments) {
		return false
	}
	for i := range l.segments {
		a, b := l.segments[i], o.segments[i]
		if a.Start != b.Start || a.End != b.End || a.Strand != b.Strand || a.CircularLength != b.CircularLength {
			return false
		}
	}
	return true
}

// String returns the location in canonical grammar form.
func (l Location) String() string {
	return Format(l)
}
