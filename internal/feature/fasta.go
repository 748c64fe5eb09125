package feature

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// FASTALoader loads reference sequences from a FASTA file.
type FASTALoader struct {
	path      string
	sequences map[string]string // sequence id -> uppercase sequence
	order     []string
}

// NewFASTALoader creates a new FASTA loader.
func NewFASTALoader(path string) *FASTALoader {
	return &FASTALoader{
		path:      path,
		sequences: make(map[string]string),
	}
}

// Load parses the FASTA file and stores sequences indexed by ID.
func (l *FASTALoader) Load() error {
	f, err := os.Open(l.path)
	if err != nil {
		return fmt.Errorf("open FASTA file: %w", err)
	}
	defer f.Close()

	var reader io.Reader = f

	// Handle gzipped files
	if strings.HasSuffix(l.path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return l.parseFASTA(reader)
}

// LoadFrom parses FASTA content from r.
func (l *FASTALoader) LoadFrom(r io.Reader) error {
	return l.parseFASTA(r)
}

func (l *FASTALoader) parseFASTA(reader io.Reader) error {
	scanner := bufio.NewScanner(reader)
	// Chromosome-scale lines are possible in unwrapped FASTA
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 256*1024*1024)

	var currentID string
	var currentSeq strings.Builder

	save := func() {
		if currentID == "" {
			return
		}
		if _, dup := l.sequences[currentID]; !dup {
			l.order = append(l.order, currentID)
		}
		l.sequences[currentID] = strings.ToUpper(currentSeq.String())
	}

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, ">") {
			save()
			currentID = parseHeader(line)
			currentSeq.Reset()
		} else {
			currentSeq.WriteString(strings.TrimSpace(line))
		}
	}
	save()

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan FASTA: %w", err)
	}

	return nil
}

// parseHeader extracts the sequence ID: the first word of the header, or
// the first field of a pipe-delimited header.
func parseHeader(header string) string {
	header = strings.TrimPrefix(header, ">")
	if idx := strings.IndexAny(header, "| \t"); idx != -1 {
		return header[:idx]
	}
	return header
}

// GetSequence returns the sequence for an ID, or "" if unknown.
func (l *FASTALoader) GetSequence(id string) string {
	return l.sequences[id]
}

// HasSequence checks if a sequence exists for the given ID.
func (l *FASTALoader) HasSequence(id string) bool {
	_, ok := l.sequences[id]
	return ok
}

// SequenceCount returns the number of loaded sequences.
func (l *FASTALoader) SequenceCount() int {
	return len(l.sequences)
}

// IDs returns sequence IDs in file order.
func (l *FASTALoader) IDs() []string {
	return append([]string(nil), l.order...)
}
