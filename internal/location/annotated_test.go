package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsensus(t *testing.T) {
	states := []MappingState{Annotated, AnnotatedDisagreement, Mapped, MappedFailure}
	for _, a := range states {
		for _, b := range states {
			want := a
			if b > a {
				want = b
			}
			assert.Equal(t, want, Consensus(a, b), "%s/%s", a, b)
			assert.Equal(t, Consensus(a, b), Consensus(b, a))
		}
	}
}

func TestMappingState_String(t *testing.T) {
	assert.Equal(t, "ANNOTATED", Annotated.String())
	assert.Equal(t, "MAPPED_FAILURE", MappedFailure.String())
	assert.Equal(t, "MappingState(9)", MappingState(9).String())

	s, err := ParseMappingState("mapped")
	require.NoError(t, err)
	assert.Equal(t, Mapped, s)

	_, err = ParseMappingState("bogus")
	assert.Error(t, err)
}

func TestAnnotatedLocation_Defaults(t *testing.T) {
	al := NewAnnotatedLocation(MustParse("1..9"))
	assert.Equal(t, Annotated, al.State())
	assert.Empty(t, al.Insertions())
	assert.Empty(t, al.Exceptions())
	assert.Equal(t, "1..9", Format(al.Location()))
}

func TestAnnotatedLocation_CopyOnWrite(t *testing.T) {
	base := NewAnnotatedLocation(MustParse("join(1..6,9..11)")).
		AddInsertion(Insertion{Start: 6, Stop: 8, ProteinFragment: "D", Offset: 6})

	a := base.AddInsertion(Insertion{Start: 20, Stop: 22, ProteinFragment: "K"})
	b := base.AddInsertion(Insertion{Start: 30, Stop: 32, ProteinFragment: "R"})

	require.Len(t, base.Insertions(), 1)
	require.Len(t, a.Insertions(), 2)
	require.Len(t, b.Insertions(), 2)
	assert.Equal(t, "K", a.Insertions()[1].ProteinFragment)
	assert.Equal(t, "R", b.Insertions()[1].ProteinFragment)

	mapped := a.WithState(Mapped)
	assert.Equal(t, Annotated, a.State())
	assert.Equal(t, Mapped, mapped.State())

	withExc := mapped.AddException(Exception{Position: 12, OriginalResidue: "M", ObservedResidue: "V"})
	assert.Empty(t, mapped.Exceptions())
	assert.Len(t, withExc.Exceptions(), 1)

	ins := withExc.Insertions()
	ins[0].ProteinFragment = "X"
	assert.Equal(t, "D", withExc.Insertions()[0].ProteinFragment, "returned log is a copy")
}

func TestAnnotatedLocation_String(t *testing.T) {
	al := NewAnnotatedLocation(MustParse("join(1..6,9..11)")).
		AddInsertion(Insertion{Start: 6, Stop: 8, ProteinFragment: "D", Offset: 6})
	assert.Equal(t, "join(1..6,9..11) [ANNOTATED] ins=6..8:D@6", al.String())
}
