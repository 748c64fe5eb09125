package feature

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleFASTA = `>NC_000913.3 Escherichia coli K-12
ATGATGATGA
T
>plasmid1|circular
atgcccaaag
gg
`

func TestParseHeader(t *testing.T) {
	tests := []struct {
		header   string
		expected string
	}{
		{">NC_000913.3 Escherichia coli", "NC_000913.3"},
		{">plasmid1|circular", "plasmid1"},
		{">chr1", "chr1"},
		{">chr1\tdesc", "chr1"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseHeader(tt.header))
		})
	}
}

func TestFASTALoader_LoadFrom(t *testing.T) {
	l := NewFASTALoader("")
	require.NoError(t, l.LoadFrom(strings.NewReader(sampleFASTA)))

	assert.Equal(t, 2, l.SequenceCount())
	assert.Equal(t, "ATGATGATGAT", l.GetSequence("NC_000913.3"))
	assert.Equal(t, "ATGCCCAAAGGG", l.GetSequence("plasmid1"), "uppercased and joined")
	assert.Equal(t, []string{"NC_000913.3", "plasmid1"}, l.IDs())
	assert.True(t, l.HasSequence("plasmid1"))
	assert.False(t, l.HasSequence("chr1"))
	assert.Equal(t, "", l.GetSequence("chr1"))
}

func TestFASTALoader_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ref.fa.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(sampleFASTA))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	l := NewFASTALoader(path)
	require.NoError(t, l.Load())
	assert.Equal(t, 2, l.SequenceCount())
}

func TestFASTALoader_Missing(t *testing.T) {
	l := NewFASTALoader(filepath.Join(t.TempDir(), "missing.fa"))
	assert.Error(t, l.Load())
}
