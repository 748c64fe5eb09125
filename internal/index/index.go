// Package index finds overlaps between distinct features drawn against the
// same reference sequence.
package index

import (
	"fmt"
	"sort"

	"github.com/biogo/store/interval"
	"go.uber.org/zap"

	"github.com/inodb/genoloc/internal/location"
)

// Entry is one indexed feature.
type Entry struct {
	ID       string
	SeqID    string
	Location location.Location
}

// Pair is two overlapping features on the same sequence.
type Pair struct {
	SeqID   string
	A, B    string
	InFrame bool
}

// piece is one linear run of a segment in half-open, zero-based coordinates.
type piece struct {
	start, end int
	uid        uintptr
	entry      int
}

func (p piece) Overlap(b interval.IntRange) bool {
	return p.end > b.Start && p.start < b.End
}

func (p piece) ID() uintptr {
	return p.uid
}

func (p piece) Range() interval.IntRange {
	return interval.IntRange{Start: p.start, End: p.end}
}

// Index is an interval tree per sequence over the pieces of every feature
// segment. Not safe for concurrent use while adding.
type Index struct {
	trees   map[string]*interval.IntTree
	entries []Entry
	nextUID uintptr
	logger  *zap.Logger
}

// New creates an empty index.
func New() *Index {
	return &Index{
		trees:  make(map[string]*interval.IntTree),
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for debug messages.
func (x *Index) SetLogger(l *zap.Logger) {
	x.logger = l
}

// Len returns the number of indexed features.
func (x *Index) Len() int {
	return len(x.entries)
}

// Add indexes a feature location.
func (x *Index) Add(id, seqID string, loc location.Location) error {
	if loc.IsEmpty() {
		return fmt.Errorf("index %s: empty location", id)
	}

	tree, ok := x.trees[seqID]
	if !ok {
		tree = &interval.IntTree{}
		x.trees[seqID] = tree
	}

	n := len(x.entries)
	for _, p := range pieces(loc) {
		x.nextUID++
		if err := tree.Insert(piece{start: p[0], end: p[1], uid: x.nextUID, entry: n}, false); err != nil {
			return fmt.Errorf("index %s: %w", id, err)
		}
	}
	x.entries = append(x.entries, Entry{ID: id, SeqID: seqID, Location: loc})
	return nil
}

func pieces(loc location.Location) [][2]int {
	var out [][2]int
	for _, s := range loc.Segments() {
		for _, p := range s.Pieces() {
			out = append(out, [2]int{p[0] - 1, p[1]})
		}
	}
	return out
}

// candidates returns the indices of entries with a piece intersecting a
// piece of loc, in ascending order.
func (x *Index) candidates(seqID string, loc location.Location) []int {
	tree, ok := x.trees[seqID]
	if !ok {
		return nil
	}
	seen := make(map[int]bool)
	var out []int
	for _, p := range pieces(loc) {
		for _, hit := range tree.Get(piece{start: p[0], end: p[1]}) {
			e := hit.(piece).entry
			if !seen[e] {
				seen[e] = true
				out = append(out, e)
			}
		}
	}
	sort.Ints(out)
	return out
}

// Query returns the indexed features on seqID that overlap loc.
func (x *Index) Query(seqID string, loc location.Location) []Entry {
	var out []Entry
	for _, i := range x.candidates(seqID, loc) {
		if location.Overlaps(x.entries[i].Location, loc) {
			out = append(out, x.entries[i])
		}
	}
	return out
}

// Pairs returns every pair of distinct overlapping features, in the order
// the first member was added.
func (x *Index) Pairs() []Pair {
	var out []Pair
	for i, a := range x.entries {
		for _, j := range x.candidates(a.SeqID, a.Location) {
			if j <= i {
				continue
			}
			b := x.entries[j]
			if !location.Overlaps(a.Location, b.Location) {
				continue
			}
			out = append(out, Pair{
				SeqID:   a.SeqID,
				A:       a.ID,
				B:       b.ID,
				InFrame: location.OverlapsInFrame(a.Location, b.Location),
			})
		}
	}
	x.logger.Debug("overlap pairs",
		zap.Int("features", len(x.entries)),
		zap.Int("sequences", len(x.trees)),
		zap.Int("pairs", len(out)))
	return out
}
