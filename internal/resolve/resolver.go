package resolve

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/inodb/genoloc/internal/codon"
	"github.com/inodb/genoloc/internal/feature"
	"github.com/inodb/genoloc/internal/location"
	"github.com/inodb/genoloc/internal/sequence"
)

// SequenceLookup returns the reference sequence for an ID, or "" if unknown.
type SequenceLookup interface {
	GetSequence(id string) string
}

// CacheKey identifies a resolution result independent of feature ID.
type CacheKey struct {
	SeqID          string
	Location       string
	CircularLength int
	Coding         bool
	GeneticCode    int
}

// Cache looks up previously resolved locations.
type Cache interface {
	Lookup(k CacheKey) (location.AnnotatedLocation, bool, error)
}

// Result is the outcome of resolving one feature.
type Result struct {
	Feature  *feature.Feature
	Key      CacheKey
	Original location.Location
	Location location.AnnotatedLocation
	// Resolved is true if the location had self-overlapping segments.
	Resolved bool
	// Protein is the reconstructed translation of coding features.
	Protein      string
	InternalStop bool
	FromCache    bool
}

// Resolver resolves feature locations against reference sequences.
type Resolver struct {
	seqs   SequenceLookup
	code   *codon.GeneticCode
	codes  map[int]*codon.GeneticCode
	cache  Cache
	logger *zap.Logger
}

// NewResolver creates a resolver using code as the default genetic code.
func NewResolver(seqs SequenceLookup, code *codon.GeneticCode) *Resolver {
	return &Resolver{
		seqs:   seqs,
		code:   code,
		codes:  map[int]*codon.GeneticCode{code.ID(): code},
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for warning and info messages.
func (r *Resolver) SetLogger(l *zap.Logger) {
	r.logger = l
}

// SetCache enables lookups of previously resolved locations.
func (r *Resolver) SetCache(c Cache) {
	r.cache = c
}

// AddGeneticCode registers an additional table that features may select
// through their GeneticCode field. Must be called before resolving.
func (r *Resolver) AddGeneticCode(g *codon.GeneticCode) {
	r.codes[g.ID()] = g
}

func (r *Resolver) geneticCode(f *feature.Feature) (*codon.GeneticCode, error) {
	if f.GeneticCode == 0 {
		return r.code, nil
	}
	g, ok := r.codes[f.GeneticCode]
	if !ok {
		return nil, &codon.ConfigurationError{GeneticCode: f.GeneticCode, Err: fmt.Errorf("table not loaded")}
	}
	return g, nil
}

// Resolve parses the feature location, trims self-overlapping segments and,
// for coding features, reconstructs the protein.
func (r *Resolver) Resolve(f *feature.Feature) (*Result, error) {
	seq := r.seqs.GetSequence(f.SeqID)
	if seq == "" {
		return nil, fmt.Errorf("sequence %q not found", f.SeqID)
	}

	g, err := r.geneticCode(f)
	if err != nil {
		return nil, err
	}

	var loc location.Location
	if f.IsCircular() {
		loc, err = location.ParseCircular(f.Location, f.CircularLength)
	} else {
		loc, err = location.Parse(f.Location)
	}
	if err != nil {
		return nil, err
	}

	res := &Result{
		Feature:  f,
		Original: loc,
		Location: location.NewAnnotatedLocation(loc),
		Key: CacheKey{
			SeqID:          f.SeqID,
			Location:       location.Format(loc),
			CircularLength: f.CircularLength,
			Coding:         f.IsCoding(),
		},
	}
	if res.Key.Coding {
		res.Key.GeneticCode = g.ID()
	}

	cached := false
	if r.cache != nil {
		al, ok, err := r.cache.Lookup(res.Key)
		if err != nil {
			r.logger.Warn("cache lookup failed", zap.String("feature", f.ID), zap.Error(err))
		} else if ok {
			res.Location = al
			res.Resolved = len(al.Insertions()) > 0 || !al.Location().Equal(loc)
			res.FromCache = true
			cached = true
		}
	}

	if !cached && HasSelfOverlap(loc) {
		var resolved location.Location
		var ins []location.Insertion
		if res.Key.Coding {
			resolved, ins, err = ResolveOverlap(seq, g, loc)
		} else {
			resolved, ins, err = ResolveNoncodingOverlap(seq, loc)
		}
		if err != nil {
			return nil, err
		}
		res.Location = res.Location.WithLocation(resolved).AddInsertion(ins...)
		res.Resolved = true
		r.logger.Debug("resolved self-overlap",
			zap.String("feature", f.ID),
			zap.String("location", res.Key.Location),
			zap.String("resolved", location.Format(resolved)),
			zap.Int("insertions", len(ins)))
	}

	if res.Key.Coding && res.Location.Location().Length()%3 != 0 {
		// partial CDS; a resolved location always covers whole codons
		r.logger.Warn("coding length is not a multiple of 3",
			zap.String("feature", f.ID),
			zap.String("location", res.Key.Location))
	} else if res.Key.Coding {
		protein, err := sequence.Reconstruct(seq, res.Location, g)
		if err != nil {
			return nil, err
		}
		res.Protein = protein
		if !codon.CheckNoInternalStop(protein) {
			res.InternalStop = true
			r.logger.Warn("internal stop codon",
				zap.String("feature", f.ID),
				zap.String("location", res.Key.Location),
				zap.Ints("positions", codon.InternalStops(protein)))
		}
	}

	return res, nil
}
