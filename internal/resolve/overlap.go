// Package resolve trims self-overlapping segments out of feature locations
// and records what was removed.
package resolve

import (
	"fmt"

	"github.com/bebop/poly/transform"

	"github.com/inodb/genoloc/internal/codon"
	"github.com/inodb/genoloc/internal/location"
	"github.com/inodb/genoloc/internal/sequence"
)

// OverlapResolutionError reports an overlap that cannot be trimmed.
type OverlapResolutionError struct {
	Location string
	Start    int // genomic bounds of the offending junction
	Stop     int
	Message  string
}

func (e *OverlapResolutionError) Error() string {
	return fmt.Sprintf("resolve overlap in %s at %d..%d: %s", e.Location, e.Start, e.Stop, e.Message)
}

// span is a segment in reading space: coordinates increase in reading
// direction. Negative-strand coordinates are mirrored and circular
// coordinates are shifted past the origin so adjacent segments compare
// linearly.
type span struct {
	lo, hi     int
	firstFuzzy bool
	lastFuzzy  bool
}

func (s span) length() int {
	return s.hi - s.lo + 1
}

type readingFrame struct {
	loc      location.Location
	negative bool
	circular int
	spans    []span
}

func newReadingFrame(loc location.Location) *readingFrame {
	r := &readingFrame{
		loc:      loc,
		negative: loc.Strand() == location.Negative,
		circular: loc.CircularLength(),
	}

	segs := location.Flatten(loc)
	if r.negative {
		for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
			segs[i], segs[j] = segs[j], segs[i]
		}
	}

	shift := 0
	for _, s := range segs {
		sp := span{
			lo:         s.Start.Coordinate,
			hi:         s.End.Coordinate,
			firstFuzzy: s.Start.Fuzzy,
			lastFuzzy:  s.End.Fuzzy,
		}
		if s.Wraps() {
			sp.hi += r.circular
		}
		if r.negative {
			sp.lo, sp.hi = -sp.hi, -sp.lo
			sp.firstFuzzy, sp.lastFuzzy = sp.lastFuzzy, sp.firstFuzzy
		}
		sp.lo += shift
		sp.hi += shift
		if n := len(r.spans); r.circular > 0 && n > 0 && sp.lo < r.spans[n-1].lo {
			shift += r.circular
			sp.lo += r.circular
			sp.hi += r.circular
		}
		r.spans = append(r.spans, sp)
	}
	return r
}

// genomic maps a reading-space coordinate back to a 1-based sequence coordinate.
func (r *readingFrame) genomic(x int) int {
	if r.negative {
		x = -x
	}
	if r.circular > 0 {
		x = ((x-1)%r.circular+r.circular)%r.circular + 1
	}
	return x
}

func (r *readingFrame) segment(s span) location.Segment {
	first := location.Position{Coordinate: r.genomic(s.lo), Fuzzy: s.firstFuzzy}
	last := location.Position{Coordinate: r.genomic(s.hi), Fuzzy: s.lastFuzzy}
	if r.negative {
		first, last = last, first
	}
	return location.Segment{
		Start:          first,
		End:            last,
		Strand:         r.loc.Strand(),
		CircularLength: r.circular,
	}
}

func (r *readingFrame) build(spans []span) (location.Location, error) {
	segs := make([]location.Segment, len(spans))
	for i, s := range spans {
		segs[i] = r.segment(s)
	}
	if r.negative {
		for i, j := 0, len(segs)-1; i < j; i, j = i+1, j-1 {
			segs[i], segs[j] = segs[j], segs[i]
		}
	}
	return location.Construct(segs)
}

// run returns the first and last sequence coordinates covered by spans,
// in ascending sequence order. Start > Stop means the run crosses the origin.
func (r *readingFrame) run(spans ...span) (int, int) {
	lo, hi := spans[0].lo, spans[0].hi
	for _, s := range spans[1:] {
		lo = min(lo, s.lo)
		hi = max(hi, s.hi)
	}
	if r.negative {
		return r.genomic(hi), r.genomic(lo)
	}
	return r.genomic(lo), r.genomic(hi)
}

// residues returns the nucleotides of spans in reading order.
func (r *readingFrame) residues(seq string, spans ...span) (string, error) {
	var pos []int
	for _, s := range spans {
		for x := s.lo; x <= s.hi; x++ {
			pos = append(pos, r.genomic(x))
		}
	}

	buf := make([]byte, len(pos))
	for i, p := range pos {
		if p < 1 || p > len(seq) {
			return "", &sequence.ExtractionError{Start: p, End: p, SequenceLength: len(seq), Message: "position outside sequence"}
		}
		if r.negative {
			// collect in ascending genomic order, reverse complemented below
			buf[len(pos)-1-i] = seq[p-1]
		} else {
			buf[i] = seq[p-1]
		}
	}
	if r.negative {
		return transform.ReverseComplement(string(buf)), nil
	}
	return string(buf), nil
}

func (r *readingFrame) fail(msg string, spans ...span) error {
	lo, hi := r.run(spans...)
	return &OverlapResolutionError{Location: location.Format(r.loc), Start: lo, Stop: hi, Message: msg}
}

func totalLength(spans []span) int {
	n := 0
	for _, s := range spans {
		n += s.length()
	}
	return n
}

// HasSelfOverlap returns true if any two segments adjacent in reading
// order share a coordinate.
func HasSelfOverlap(loc location.Location) bool {
	if loc.Len() < 2 {
		return false
	}
	spans := newReadingFrame(loc).spans
	for i := 1; i < len(spans); i++ {
		x, y := spans[i-1], spans[i]
		if y.lo <= x.hi && x.lo <= y.hi {
			return true
		}
	}
	return false
}

// ResolveOverlap trims overlapping adjacent segments of a coding location
// back to codon boundaries. Each partially overlapping junction loses a
// codon-aligned run, recorded as an Insertion carrying its translation, so
// the resolved location plus insertions encodes the original protein.
// The trailing partial codon, if any, is trimmed so the total length is a
// multiple of 3.
func ResolveOverlap(seq string, g *codon.GeneticCode, loc location.Location) (location.Location, []location.Insertion, error) {
	if g == nil {
		return location.Location{}, nil, &codon.ConfigurationError{Err: fmt.Errorf("no genetic code")}
	}
	return resolve(seq, g, loc)
}

// ResolveNoncodingOverlap trims overlapping adjacent segments by exactly
// the overlap length, without regard to reading frame.
func ResolveNoncodingOverlap(seq string, loc location.Location) (location.Location, []location.Insertion, error) {
	return resolve(seq, nil, loc)
}

func resolve(seq string, g *codon.GeneticCode, loc location.Location) (location.Location, []location.Insertion, error) {
	if loc.IsEmpty() {
		return location.Location{}, nil, &location.GeometryError{Message: "empty location"}
	}
	if _, err := sequence.Extract(seq, loc); err != nil {
		return location.Location{}, nil, err
	}

	coding := g != nil
	r := newReadingFrame(loc)
	out := []span{r.spans[0]}
	var insertions []location.Insertion
	changed := false

	for _, y := range r.spans[1:] {
		x := &out[len(out)-1]
		if y.lo > x.hi || y.hi < x.lo {
			out = append(out, y)
			continue
		}
		changed = true

		switch {
		case y.lo == x.lo && y.hi == x.hi:
			// duplicated segment
			offset := totalLength(out)
			frag := ""
			if coding {
				if y.length()%3 != 0 || offset%3 != 0 {
					return location.Location{}, nil, r.fail("duplicated segment is not codon aligned", y)
				}
				nt, err := r.residues(seq, y)
				if err != nil {
					return location.Location{}, nil, err
				}
				if frag, err = codon.Translate(nt, g); err != nil {
					return location.Location{}, nil, err
				}
			}
			lo, hi := r.run(y)
			insertions = append(insertions, location.Insertion{Start: lo, Stop: hi, ProteinFragment: frag, Offset: offset})

		case x.lo <= y.lo && y.hi <= x.hi:
			// enclosed by the previous segment

		case y.lo <= x.lo && x.hi <= y.hi:
			if n := len(out); n > 1 && y.lo <= out[n-2].hi && out[n-2].lo <= y.hi {
				return location.Location{}, nil, r.fail("enclosing segment overlaps an earlier segment", out[n-2], y)
			}
			*x = y

		case y.lo < x.lo:
			return location.Location{}, nil, r.fail("segment overlaps against reading direction", *x, y)

		default:
			trimmed, ins, err := r.trimJunction(seq, g, out, y)
			if err != nil {
				return location.Location{}, nil, err
			}
			out = append(out, trimmed)
			insertions = append(insertions, ins)
		}
	}

	if coding {
		if rem := totalLength(out) % 3; rem > 0 {
			last := &out[len(out)-1]
			if last.length() <= rem {
				return location.Location{}, nil, r.fail("no residues left after trimming partial codon", *last)
			}
			last.hi -= rem
			last.lastFuzzy = false
			changed = true
		}
	}

	if !changed {
		return loc, nil, nil
	}

	resolved, err := r.build(out)
	if err != nil {
		return location.Location{}, nil, err
	}
	return resolved, insertions, nil
}

// trimJunction resolves a partial overlap between the last kept span and y.
// The previous span loses its trailing partial codon and y loses its
// leading residues up to the first codon boundary past the overlap.
func (r *readingFrame) trimJunction(seq string, g *codon.GeneticCode, out []span, y span) (span, location.Insertion, error) {
	x := &out[len(out)-1]
	overlap := x.hi - y.lo + 1
	through := totalLength(out)

	tail, head := 0, overlap
	if g != nil {
		tail = through % 3
		head = overlap + (3-(through+overlap)%3)%3
	}
	if tail >= x.length() {
		return span{}, location.Insertion{}, r.fail("no residues left in earlier segment", *x, y)
	}
	if head >= y.length() {
		return span{}, location.Insertion{}, r.fail("no codon boundary within later segment", *x, y)
	}

	var removed []span
	if tail > 0 {
		removed = append(removed, span{lo: x.hi - tail + 1, hi: x.hi})
	}
	removed = append(removed, span{lo: y.lo, hi: y.lo + head - 1})

	frag := ""
	if g != nil {
		nt, err := r.residues(seq, removed...)
		if err != nil {
			return span{}, location.Insertion{}, err
		}
		if frag, err = codon.Translate(nt, g); err != nil {
			return span{}, location.Insertion{}, err
		}
	}

	if tail > 0 {
		x.hi -= tail
		x.lastFuzzy = false
	}
	y.lo += head
	y.firstFuzzy = false

	lo, hi := r.run(removed...)
	ins := location.Insertion{
		Start:           lo,
		Stop:            hi,
		ProteinFragment: frag,
		Offset:          totalLength(out),
	}
	return y, ins, nil
}
