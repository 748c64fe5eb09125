// Package codon provides NCBI genetic code tables and nucleotide translation.
package codon

import (
	"fmt"
	"strings"

	polycodon "github.com/bebop/poly/synthesis/codon"
)

// Standard and Bacterial are the most common NCBI table identifiers.
const (
	Standard  = 1
	Bacterial = 11
)

// StopSymbol is the residue emitted for stop codons.
const StopSymbol = '*'

// ConfigurationError reports an unknown genetic code identifier.
type ConfigurationError struct {
	GeneticCode int
	Err         error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("unknown genetic code %d: %v", e.GeneticCode, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// TranslationError reports a nucleotide string that cannot be translated.
type TranslationError struct {
	Position int    // 1-based nucleotide position of the offending codon, 0 if not codon specific
	Codon    string // offending codon, if any
	Message  string
}

func (e *TranslationError) Error() string {
	if e.Codon != "" {
		return fmt.Sprintf("translation error at %d (%s): %s", e.Position, e.Codon, e.Message)
	}
	return "translation error: " + e.Message
}

// GeneticCode is an immutable codon to amino acid table. Build one with
// Load and share it freely between goroutines.
type GeneticCode struct {
	id     int
	table  map[string]byte
	starts map[string]bool
}

// Load builds the genetic code with the given NCBI identifier.
func Load(id int) (*GeneticCode, error) {
	t, err := polycodon.NewTranslationTable(id)
	if err != nil {
		return nil, &ConfigurationError{GeneticCode: id, Err: err}
	}
	if t == nil || len(t.TranslationMap) == 0 {
		return nil, &ConfigurationError{GeneticCode: id, Err: fmt.Errorf("empty translation table")}
	}

	g := &GeneticCode{
		id:     id,
		table:  make(map[string]byte, len(t.TranslationMap)),
		starts: make(map[string]bool, len(t.StartCodons)),
	}
	for c, aa := range t.TranslationMap {
		if len(c) != 3 || len(aa) != 1 {
			continue
		}
		g.table[strings.ToUpper(c)] = aa[0]
	}
	for _, c := range t.StartCodons {
		g.starts[strings.ToUpper(c)] = true
	}
	return g, nil
}

// MustLoad is like Load but panics on error.
func MustLoad(id int) *GeneticCode {
	g, err := Load(id)
	if err != nil {
		panic(err)
	}
	return g
}

// ID returns the NCBI table identifier.
func (g *GeneticCode) ID() int {
	return g.id
}

// TranslateCodon translates a codon to its amino acid.
// Returns false if the codon cannot be resolved.
func (g *GeneticCode) TranslateCodon(codon string) (byte, bool) {
	if len(codon) != 3 {
		return 0, false
	}
	aa, ok := g.table[strings.ToUpper(codon)]
	return aa, ok
}

// IsStopCodon returns true if the codon is a stop codon in this table.
func (g *GeneticCode) IsStopCodon(codon string) bool {
	aa, ok := g.TranslateCodon(codon)
	return ok && aa == StopSymbol
}

// IsStartCodon returns true if the codon can initiate translation in this table.
func (g *GeneticCode) IsStartCodon(codon string) bool {
	return g.starts[strings.ToUpper(codon)]
}

// Translate translates a nucleotide string to amino acids. The length must
// be a multiple of 3 and every codon must resolve.
func Translate(seq string, g *GeneticCode) (string, error) {
	n := len(seq)
	if n == 0 {
		return "", &TranslationError{Message: "empty sequence"}
	}
	if n%3 != 0 {
		return "", &TranslationError{Message: fmt.Sprintf("length %d is not a multiple of 3", n)}
	}

	var result strings.Builder
	result.Grow(n / 3)

	for i := 0; i < n; i += 3 {
		c := seq[i : i+3]
		aa, ok := g.TranslateCodon(c)
		if !ok {
			return "", &TranslationError{Position: i + 1, Codon: c, Message: "unresolvable codon"}
		}
		result.WriteByte(aa)
	}

	return result.String(), nil
}

// CheckNoInternalStop returns false if a stop symbol occurs anywhere but
// the final residue.
func CheckNoInternalStop(protein string) bool {
	i := strings.IndexByte(protein, StopSymbol)
	return i < 0 || i == len(protein)-1
}

// InternalStops returns the 1-based residue positions of stops that are not
// the final residue.
func InternalStops(protein string) []int {
	var out []int
	for i := 0; i < len(protein)-1; i++ {
		if protein[i] == StopSymbol {
			out = append(out, i+1)
		}
	}
	return out
}

// AminoAcidSingleToThree converts single letter amino acid to three letter code.
var AminoAcidSingleToThree = map[byte]string{
	'A': "Ala", 'C': "Cys", 'D': "Asp", 'E': "Glu",
	'F': "Phe", 'G': "Gly", 'H': "His", 'I': "Ile",
	'K': "Lys", 'L': "Leu", 'M': "Met", 'N': "Asn",
	'P': "Pro", 'Q': "Gln", 'R': "Arg", 'S': "Ser",
	'T': "Thr", 'V': "Val", 'W': "Trp", 'Y': "Tyr",
	'*': "Ter", 'X': "Xaa",
}

// ThreeLetter renders a protein using three letter residue codes.
func ThreeLetter(protein string) string {
	var b strings.Builder
	b.Grow(len(protein) * 3)
	for i := 0; i < len(protein); i++ {
		if s, ok := AminoAcidSingleToThree[protein[i]]; ok {
			b.WriteString(s)
		} else {
			b.WriteString("Xaa")
		}
	}
	return b.String()
}
