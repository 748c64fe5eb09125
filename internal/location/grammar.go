package location

import (
	"strconv"
	"strings"
	"unicode"
)

// Parse parses location text against a linear sequence.
//
// Accepted forms:
//
//	5  <5  >5                 single point
//	1..10  <1..>10            range with optional fuzzy bounds
//	join(1..10,20..30)        composite, also order(...) or a bare list
//	complement(...)           negative strand wrapping any of the above
//
// Ranks are assigned left to right starting at 1.
func Parse(text string) (Location, error) {
	return parse(text, 0)
}

// ParseCircular parses location text against a circular sequence of the
// given length. Ranges whose start is after their end wrap the origin.
func ParseCircular(text string, length int) (Location, error) {
	if length < 1 {
		return Location{}, &GrammarError{Text: text, Message: "circular length must be positive"}
	}
	return parse(text, length)
}

// MustParse is like Parse but panics on error. Intended for tests and
// static tables.
func MustParse(text string) Location {
	loc, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return loc
}

func parse(text string, circular int) (Location, error) {
	s := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	if s == "" {
		return Location{}, &GrammarError{Text: text, Message: "empty location"}
	}

	strand := Positive
	inner, ok, err := unwrap(text, s, "complement")
	if err != nil {
		return Location{}, err
	}
	if ok {
		strand = Negative
		s = inner
	}

	for _, op := range []string{"join", "order"} {
		inner, ok, err := unwrap(text, s, op)
		if err != nil {
			return Location{}, err
		}
		if ok {
			if inner == "" {
				return Location{}, &GrammarError{Text: text, Message: "empty " + op}
			}
			s = inner
			break
		}
	}

	if strings.ContainsAny(s, "()") {
		return Location{}, &GrammarError{Text: text, Message: "unexpected or mismatched parenthesis"}
	}

	parts := strings.Split(s, ",")
	segs := make([]Segment, 0, len(parts))
	for _, p := range parts {
		seg, err := parseRange(text, p)
		if err != nil {
			return Location{}, err
		}
		seg.Strand = strand
		seg.CircularLength = circular
		if circular == 0 && seg.Start.Coordinate > seg.End.Coordinate {
			return Location{}, &GrammarError{Text: text, Message: "range " + p + " has start after end"}
		}
		if circular > 0 && (seg.Start.Coordinate > circular || seg.End.Coordinate > circular) {
			return Location{}, &GrammarError{Text: text, Message: "range " + p + " exceeds circular length " + strconv.Itoa(circular)}
		}
		segs = append(segs, seg)
	}

	loc, err := Construct(segs)
	if err != nil {
		return Location{}, &GrammarError{Text: text, Message: err.Error()}
	}
	return loc, nil
}

// unwrap strips "name(" ... ")" from s.
func unwrap(text, s, name string) (string, bool, error) {
	if !strings.HasPrefix(s, name+"(") {
		return s, false, nil
	}
	if !strings.HasSuffix(s, ")") {
		return "", false, &GrammarError{Text: text, Message: "unterminated " + name + "("}
	}
	return s[len(name)+1 : len(s)-1], true, nil
}

func parseRange(text, p string) (Segment, error) {
	if p == "" {
		return Segment{}, &GrammarError{Text: text, Message: "empty range"}
	}

	if a, b, ok := strings.Cut(p, ".."); ok {
		start, err := parseBound(text, a)
		if err != nil {
			return Segment{}, err
		}
		end, err := parseBound(text, b)
		if err != nil {
			return Segment{}, err
		}
		return Segment{Start: start, End: end}, nil
	}

	pos, err := parseBound(text, p)
	if err != nil {
		return Segment{}, err
	}
	if p[0] == '>' {
		return Segment{Start: Exact(pos.Coordinate), End: pos}, nil
	}
	return Segment{Start: pos, End: Exact(pos.Coordinate)}, nil
}

func parseBound(text, b string) (Position, error) {
	var pos Position
	if b != "" && (b[0] == '<' || b[0] == '>') {
		pos.Fuzzy = true
		b = b[1:]
	}
	if b == "" {
		return Position{}, &GrammarError{Text: text, Message: "missing coordinate"}
	}
	for i := 0; i < len(b); i++ {
		if b[i] < '0' || b[i] > '9' {
			return Position{}, &GrammarError{Text: text, Message: "non-numeric bound " + strconv.Quote(b)}
		}
	}
	n, err := strconv.Atoi(b)
	if err != nil {
		return Position{}, &GrammarError{Text: text, Message: err.Error()}
	}
	if n < 1 {
		return Position{}, &GrammarError{Text: text, Message: "coordinate must be at least 1"}
	}
	pos.Coordinate = n
	return pos, nil
}

// Format renders a location as canonical grammar text. Composite locations
// always render as join(...); negative strand wraps in complement(...).
func Format(l Location) string {
	if l.IsEmpty() {
		return ""
	}

	ranges := make([]string, len(l.segments))
	for i, s := range l.segments {
		ranges[i] = formatRange(s)
	}

	inner := ranges[0]
	if len(ranges) > 1 {
		inner = "join(" + strings.Join(ranges, ",") + ")"
	}
	if l.strand == Negative {
		return "complement(" + inner + ")"
	}
	return inner
}

func formatRange(s Segment) string {
	start := strconv.Itoa(s.Start.Coordinate)
	if s.Start.Fuzzy {
		start = "<" + start
	}
	if s.Start.Coordinate == s.End.Coordinate && !(s.Start.Fuzzy && s.End.Fuzzy) {
		if s.End.Fuzzy {
			return ">" + strconv.Itoa(s.End.Coordinate)
		}
		return start
	}
	end := strconv.Itoa(s.End.Coordinate)
	if s.End.Fuzzy {
		end = ">" + end
	}
	return start + ".." + end
}
