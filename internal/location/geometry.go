package location

// Overlaps returns true if any segment of a shares at least one coordinate
// with any segment of b. Segments wrapping the origin occupy [start, length]
// and [1, end].
func Overlaps(a, b Location) bool {
	for _, sa := range a.segments {
		for _, pa := range sa.Pieces() {
			for _, sb := range b.segments {
				for _, pb := range sb.Pieces() {
					if pa[0] <= pb[1] && pb[0] <= pa[1] {
						return true
					}
				}
			}
		}
	}
	return false
}

// framedPiece is a linear piece of a location whose reading frame at
// coordinate p is (base + p) mod 3 on the positive strand and
// (base - p) mod 3 on the negative strand.
type framedPiece struct {
	lo, hi int
	base   int
}

// framedPieces walks the location in reading order and assigns each piece
// the frame offset of its residues relative to the first residue read.
func framedPieces(l Location) []framedPiece {
	segs := Flatten(l)
	if l.strand == Negative {
		for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
			segs[i], segs[j] = segs[j], segs[i]
		}
	}

	var out []framedPiece
	offset := 0
	for _, s := range segs {
		for _, p := range s.readingPieces() {
			fp := framedPiece{lo: p[0], hi: p[1]}
			if l.strand == Negative {
				fp.base = offset + p[1]
			} else {
				fp.base = offset - p[0]
			}
			out = append(out, fp)
			offset += p[1] - p[0] + 1
		}
	}
	return out
}

// OverlapsInFrame returns true if a and b share at least one coordinate
// that both read in the same codon position. Locations on opposite strands
// are never in frame.
//
// On a circular sequence of length 12, 11..4 and 2..4 are in frame while
// 11..4 and 1..3 overlap out of frame.
func OverlapsInFrame(a, b Location) bool {
	if normalizeStrand(a.strand) != normalizeStrand(b.strand) {
		return false
	}
	pa, pb := framedPieces(a), framedPieces(b)
	for _, x := range pa {
		for _, y := range pb {
			if x.lo > y.hi || y.lo > x.hi {
				continue
			}
			if mod3(x.base-y.base) == 0 {
				return true
			}
		}
	}
	return false
}

func normalizeStrand(s Strand) Strand {
	if s == Negative {
		return Negative
	}
	return Positive
}

func mod3(n int) int {
	m := n % 3
	if m < 0 {
		m += 3
	}
	return m
}

// Flatten returns the segments in rank order, except that a circular
// location whose last segment ends at the origin while its first segment
// starts at position 1 is rotated so the last segment comes first: the
// feature starts at the wrap point, not at position 1.
func Flatten(l Location) []Segment {
	segs := l.Segments()
	n := len(segs)
	if n < 2 {
		return segs
	}
	circ := l.CircularLength()
	first, last := segs[0], segs[n-1]
	if circ > 0 && last.End.Coordinate == circ && first.Start.Coordinate == 1 && first.Strand == last.Strand {
		out := make([]Segment, 0, n)
		out = append(out, last)
		out = append(out, segs[:n-1]...)
		return out
	}
	return segs
}

// Encloses returns true if outer and inner have the same number of
// segments and each outer segment contains the inner segment at the same
// flattened index.
func Encloses(outer, inner Location) bool {
	o, in := Flatten(outer), Flatten(inner)
	if len(o) != len(in) {
		return false
	}
	for i := range o {
		if o[i].Start.Coordinate > in[i].Start.Coordinate || in[i].End.Coordinate > o[i].End.Coordinate {
			return false
		}
	}
	return true
}
