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

const sampleTable = `# exported features
id	kind	seq_id	location	circular_length
prfB	CDS	NC_000913	join(1..6,6..11)	12
rrnA	rRNA	NC_000913	complement(20..40)	.
orf1	cds	plasmid1	<1..>30
`

func TestReader_ReadAll(t *testing.T) {
	r, err := NewReaderFromReader(strings.NewReader(sampleTable))
	require.NoError(t, err)

	features, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, features, 3)

	assert.Equal(t, "prfB", features[0].ID)
	assert.Equal(t, "join(1..6,6..11)", features[0].Location)
	assert.Equal(t, 12, features[0].CircularLength)
	assert.True(t, features[0].IsCoding())
	assert.True(t, features[0].IsCircular())
	assert.Equal(t, 3, features[0].Line)

	assert.False(t, features[1].IsCoding())
	assert.Equal(t, 0, features[1].CircularLength)

	assert.True(t, features[2].IsCoding(), "kind is case-insensitive")
	assert.Equal(t, "plasmid1", features[2].SeqID)
}

func TestReader_NextAtEOF(t *testing.T) {
	r, err := NewReaderFromReader(strings.NewReader("id\tseq_id\tlocation\n"))
	require.NoError(t, err)

	f, err := r.Next()
	require.NoError(t, err)
	assert.Nil(t, f)
}

func TestReader_MissingColumn(t *testing.T) {
	_, err := NewReaderFromReader(strings.NewReader("id\tkind\tlocation\n"))
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Message, "seq_id")
}

func TestReader_NoHeader(t *testing.T) {
	_, err := NewReaderFromReader(strings.NewReader("# only comments\n"))
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestReader_BadCircularLength(t *testing.T) {
	r, err := NewReaderFromReader(strings.NewReader("id\tseq_id\tlocation\tcircular_length\nf1\ts1\t1..3\tabc\n"))
	require.NoError(t, err)
	_, err = r.Next()
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 2, perr.Line)
}

func TestReader_EmptyLocation(t *testing.T) {
	r, err := NewReaderFromReader(strings.NewReader("id\tseq_id\tlocation\nf1\ts1\t\n"))
	require.NoError(t, err)
	_, err = r.Next()
	assert.Error(t, err)
}

func TestNewReader_Gzip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features.tsv.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(sampleTable))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	r, err := NewReader(path)
	require.NoError(t, err)
	defer r.Close()

	features, err := r.ReadAll()
	require.NoError(t, err)
	assert.Len(t, features, 3)
}

func TestNewReader_Missing(t *testing.T) {
	_, err := NewReader(filepath.Join(t.TempDir(), "nope.tsv"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
