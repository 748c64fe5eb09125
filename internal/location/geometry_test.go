package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func circ(t *testing.T, text string, length int) Location {
	t.Helper()
	loc, err := ParseCircular(text, length)
	require.NoError(t, err)
	return loc
}

func TestOverlaps_Linear(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"1..10", "5..20", true},
		{"1..10", "10..20", true},
		{"1..10", "11..20", false},
		{"join(1..5,20..30)", "10..15", false},
		{"join(1..5,20..30)", "10..20", true},
		{"complement(1..10)", "3..4", true},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			a, b := MustParse(tt.a), MustParse(tt.b)
			assert.Equal(t, tt.want, Overlaps(a, b))
			assert.Equal(t, tt.want, Overlaps(b, a))
		})
	}
}

func TestOverlapsInFrame_Circular(t *testing.T) {
	tests := []struct {
		a, b     string
		overlaps bool
		inFrame  bool
	}{
		{"11..4", "1..3", true, false},
		{"11..4", "2..4", true, true},
		{"10..3", "1..3", true, true},
		{"10..3", "2..4", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			a, b := circ(t, tt.a, 12), circ(t, tt.b, 12)
			assert.Equal(t, tt.overlaps, Overlaps(a, b))
			assert.Equal(t, tt.inFrame, OverlapsInFrame(a, b))
			assert.Equal(t, tt.inFrame, OverlapsInFrame(b, a), "symmetry")
		})
	}
}

func TestOverlapsInFrame_Linear(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"1..30", "4..9", true},
		{"1..30", "5..9", false},
		{"1..30", "40..50", false},
		// second exon of a reads 20..25 at offset 10, so 20 is frame 1
		{"join(1..10,20..30)", "21..26", false},
		{"join(1..10,20..30)", "22..27", true},
		{"complement(1..30)", "complement(1..27)", true},
		{"complement(1..30)", "complement(1..28)", false},
		{"complement(1..30)", "1..30", false},
	}

	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			a, b := MustParse(tt.a), MustParse(tt.b)
			assert.Equal(t, tt.want, OverlapsInFrame(a, b))
			assert.Equal(t, tt.want, OverlapsInFrame(b, a))
		})
	}
}

func TestFlatten_OriginSpanning(t *testing.T) {
	loc := circ(t, "join(1..3,10..12)", 12)
	segs := Flatten(loc)
	require.Len(t, segs, 2)
	assert.Equal(t, 10, segs[0].Start.Coordinate)
	assert.Equal(t, 1, segs[1].Start.Coordinate)

	// declared rank order is untouched
	assert.Equal(t, 1, loc.Segment(0).Start.Coordinate)
	assert.Equal(t, 1, loc.Segment(0).Rank)
}

func TestFlatten_NoReorder(t *testing.T) {
	tests := []struct {
		name string
		loc  Location
	}{
		{"linear", MustParse("join(1..3,10..12)")},
		{"circular not at origin", circ(t, "join(1..3,9..11)", 12)},
		{"circular not from 1", circ(t, "join(2..3,10..12)", 12)},
		{"single", circ(t, "1..12", 12)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := Flatten(tt.loc)
			assert.Equal(t, tt.loc.Segments(), segs)
		})
	}
}

func TestEncloses(t *testing.T) {
	assert.True(t, Encloses(MustParse("1..10"), MustParse("2..8")))
	assert.False(t, Encloses(MustParse("2..8"), MustParse("1..10")))

	outer := MustParse("join(1..10,15..20)")
	inner := MustParse("join(2..10,15..18)")
	assert.True(t, Encloses(outer, inner))
	assert.False(t, Encloses(inner, outer))

	assert.False(t, Encloses(MustParse("1..100"), MustParse("join(2..8,10..20)")), "segment count differs")
}

func TestEncloses_Reflexive(t *testing.T) {
	for _, s := range []string{"1", "1..10", "join(1..10,15..20)", "complement(join(<1..4,7..>9))"} {
		loc := MustParse(s)
		assert.True(t, Encloses(loc, loc), s)
	}
}

func TestEncloses_Antisymmetric(t *testing.T) {
	a := MustParse("join(1..10,15..20)")
	b := MustParse("join(<1..10,15..>20)")
	require.True(t, Encloses(a, b))
	require.True(t, Encloses(b, a))
	for i := range a.Segments() {
		assert.Equal(t, a.Segment(i).Start.Coordinate, b.Segment(i).Start.Coordinate)
		assert.Equal(t, a.Segment(i).End.Coordinate, b.Segment(i).End.Coordinate)
	}
}
