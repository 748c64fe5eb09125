package location

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FuzzyPoint(t *testing.T) {
	loc, err := Parse("<1")
	require.NoError(t, err)

	assert.Equal(t, 1, loc.Min())
	assert.Equal(t, 1, loc.Max())
	assert.True(t, loc.Start().Fuzzy)
	assert.False(t, loc.End().Fuzzy)
	assert.Equal(t, Positive, loc.Strand())
	assert.Equal(t, "<1", Format(loc))
}

func TestParse_ComplementFuzzyRange(t *testing.T) {
	loc, err := Parse("complement(<1..>3)")
	require.NoError(t, err)

	assert.Equal(t, 1, loc.Min())
	assert.Equal(t, 3, loc.Max())
	assert.Equal(t, Negative, loc.Strand())
	assert.True(t, loc.Start().Fuzzy)
	assert.True(t, loc.End().Fuzzy)
	assert.Equal(t, Negative, loc.Segment(0).Strand)
	assert.Equal(t, "complement(<1..>3)", Format(loc))
}

func TestParse_Join(t *testing.T) {
	loc, err := Parse("join(1..10, 20..30,40)")
	require.NoError(t, err)

	require.Equal(t, 3, loc.Len())
	for i, s := range loc.Segments() {
		assert.Equal(t, i+1, s.Rank)
		assert.Equal(t, Positive, s.Strand)
	}
	assert.Equal(t, 1, loc.Min())
	assert.Equal(t, 40, loc.Max())
	assert.Equal(t, 22, loc.Length())
	assert.Equal(t, "join(1..10,20..30,40)", Format(loc))
}

func TestParse_BareListIsJoin(t *testing.T) {
	loc, err := Parse("1..6,6..11")
	require.NoError(t, err)
	assert.Equal(t, 2, loc.Len())
	assert.Equal(t, "join(1..6,6..11)", Format(loc))
}

func TestParse_OrderIsJoin(t *testing.T) {
	a := MustParse("order(1..6,9..11)")
	b := MustParse("join(1..6,9..11)")
	assert.True(t, a.Equal(b))
}

func TestParse_ComplementJoin(t *testing.T) {
	loc, err := Parse("complement(join(1..5,8..>12))")
	require.NoError(t, err)

	assert.Equal(t, Negative, loc.Strand())
	assert.Equal(t, 2, loc.Len())
	assert.True(t, loc.End().Fuzzy)
	assert.Equal(t, "complement(join(1..5,8..>12))", Format(loc))
}

func TestParse_PointWithFuzzyEnd(t *testing.T) {
	loc, err := Parse(">7")
	require.NoError(t, err)
	assert.False(t, loc.Start().Fuzzy)
	assert.True(t, loc.End().Fuzzy)
	assert.Equal(t, ">7", Format(loc))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"unterminated complement", "complement(1..3"},
		{"unterminated join", "join(1..3,5..6"},
		{"empty join", "join()"},
		{"stray paren", "1..3)"},
		{"nested join", "join(complement(1..3),5..6)"},
		{"non-numeric", "1..abc"},
		{"signed", "+1..3"},
		{"zero", "0..3"},
		{"missing end", "1.."},
		{"empty range", "join(1..3,,5..6)"},
		{"reversed linear", "10..3"},
		{"bare marker", "<"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			require.Error(t, err)
			var gerr *GrammarError
			assert.True(t, errors.As(err, &gerr), "want GrammarError, got %T", err)
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	inputs := []string{
		"1",
		"<1",
		">5",
		"<5..>5",
		"1..10",
		"<1..10",
		"1..>10",
		"complement(3..9)",
		"join(1..6,6..11)",
		"join( 1..6 , <9..11 )",
		"complement(join(<1..4,7..9,12..>20))",
		"order(2..5,10..20)",
		"1..6,6..11",
	}

	for _, s := range inputs {
		t.Run(s, func(t *testing.T) {
			first, err := Parse(s)
			require.NoError(t, err)
			second, err := Parse(Format(first))
			require.NoError(t, err)
			assert.True(t, first.Equal(second), "%q -> %q", s, Format(first))
		})
	}
}

func TestParseCircular(t *testing.T) {
	loc, err := ParseCircular("11..4", 12)
	require.NoError(t, err)

	seg := loc.Segment(0)
	assert.True(t, seg.Wraps())
	assert.Equal(t, 12, loc.CircularLength())
	assert.Equal(t, 6, loc.Length())
	assert.Equal(t, "11..4", Format(loc))

	_, err = ParseCircular("11..13", 12)
	assert.Error(t, err)

	_, err = ParseCircular("1..3", 0)
	assert.Error(t, err)
}

func TestConstruct(t *testing.T) {
	loc, err := Construct([]Segment{
		{Start: Exact(20), End: Exact(30), Strand: Positive, Rank: 7},
		{Start: Fuzzy(1), End: Exact(5), Strand: Positive, Rank: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, loc.Segment(0).Rank)
	assert.Equal(t, 2, loc.Segment(1).Rank)
	assert.Equal(t, 1, loc.Min())
	assert.Equal(t, 30, loc.Max())

	_, err = Construct(nil)
	var gerr *GeometryError
	assert.True(t, errors.As(err, &gerr))

	_, err = Construct([]Segment{NewSegment(1, 5, Positive), NewSegment(7, 9, Negative)})
	assert.True(t, errors.As(err, &gerr))
}

func TestLocation_SegmentsIsCopy(t *testing.T) {
	loc := MustParse("join(1..3,5..7)")
	segs := loc.Segments()
	segs[0].Start = Exact(2)
	assert.Equal(t, 1, loc.Segment(0).Start.Coordinate)
}
