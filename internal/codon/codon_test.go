package codon

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	for _, id := range []int{Standard, 2, 4, Bacterial} {
		g, err := Load(id)
		require.NoError(t, err, "table %d", id)
		assert.Equal(t, id, g.ID())
	}
}

func TestLoad_Unknown(t *testing.T) {
	for _, id := range []int{0, 99, -1} {
		_, err := Load(id)
		require.Error(t, err, "table %d", id)
		var cerr *ConfigurationError
		assert.True(t, errors.As(err, &cerr))
		assert.Equal(t, id, cerr.GeneticCode)
	}
}

func TestTranslateCodon(t *testing.T) {
	g := MustLoad(Standard)

	tests := []struct {
		name  string
		codon string
		want  byte
		ok    bool
	}{
		{"ATG -> Met (start)", "ATG", 'M', true},
		{"GGT -> Gly", "GGT", 'G', true},
		{"TGT -> Cys", "TGT", 'C', true},
		{"TAA -> Stop", "TAA", '*', true},
		{"TAG -> Stop", "TAG", '*', true},
		{"TGA -> Stop", "TGA", '*', true},
		{"lowercase atg", "atg", 'M', true},
		{"too short", "AT", 0, false},
		{"too long", "ATGG", 0, false},
		{"ambiguous base", "ANG", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := g.TranslateCodon(tt.codon)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, string(tt.want), string(got))
			}
		})
	}
}

func TestGeneticCode_TableDifferences(t *testing.T) {
	// TGA is Trp in the vertebrate mitochondrial code
	mito := MustLoad(2)
	aa, ok := mito.TranslateCodon("TGA")
	require.True(t, ok)
	assert.Equal(t, "W", string(aa))
	assert.False(t, mito.IsStopCodon("TGA"))

	std := MustLoad(Standard)
	assert.True(t, std.IsStopCodon("TGA"))
}

func TestIsStartCodon(t *testing.T) {
	g := MustLoad(Bacterial)
	assert.True(t, g.IsStartCodon("ATG"))
	assert.True(t, g.IsStartCodon("gtg"))
	assert.False(t, g.IsStartCodon("TAA"))
}

func TestTranslate(t *testing.T) {
	g := MustLoad(Bacterial)

	got, err := Translate("ATGATGGATGAT", g)
	require.NoError(t, err)
	assert.Equal(t, "MMDD", got)

	got, err = Translate("atgggtcgataa", g)
	require.NoError(t, err)
	assert.Equal(t, "MGR*", got)
}

func TestTranslate_Errors(t *testing.T) {
	g := MustLoad(Standard)

	tests := []struct {
		name string
		seq  string
	}{
		{"empty", ""},
		{"not triplet", "ATGA"},
		{"unresolvable", "ATGNNN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Translate(tt.seq, g)
			var terr *TranslationError
			require.True(t, errors.As(err, &terr), "got %v", err)
		})
	}

	_, err := Translate("ATGNNN", g)
	var terr *TranslationError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, 4, terr.Position)
	assert.Equal(t, "NNN", terr.Codon)
}

func TestCheckNoInternalStop(t *testing.T) {
	tests := []struct {
		protein string
		want    bool
	}{
		{"MMDD", true},
		{"MMDD*", true},
		{"MM*DD", false},
		{"*", true},
		{"**", false},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.protein, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckNoInternalStop(tt.protein))
		})
	}

	assert.Equal(t, []int{3, 5}, InternalStops("MM*D*K*"))
	assert.Empty(t, InternalStops("MK*"))
}

func TestThreeLetter(t *testing.T) {
	assert.Equal(t, "MetGlyTer", ThreeLetter("MG*"))
	assert.Equal(t, "Xaa", ThreeLetter("B"))
}
