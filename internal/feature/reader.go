package feature

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Feature table column names
const (
	ColID             = "id"
	ColKind           = "kind"
	ColSeqID          = "seq_id"
	ColLocation       = "location"
	ColCircularLength = "circular_length"
	ColGeneticCode    = "genetic_code"
)

// ColumnIndices holds the indices of feature table columns.
type ColumnIndices struct {
	ID             int
	Kind           int
	SeqID          int
	Location       int
	CircularLength int
	GeneticCode    int
}

// Reader reads features from a tab-delimited feature table. Lines starting
// with '#' are comments; the first other line is the header.
type Reader struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	columns    ColumnIndices
}

// NewReader opens a feature table. Supports both plain and gzipped files.
func NewReader(path string) (*Reader, error) {
	if path == "-" {
		return NewReaderFromReader(os.Stdin)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open feature table: %w", err)
	}

	r := &Reader{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		file.Close()
		return nil, fmt.Errorf("read feature table header: %w", err)
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek feature table: %w", err)
	}

	if n == 2 && buf[0] == 0x1f && buf[1] == 0x8b {
		r.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		r.reader = bufio.NewReader(r.gzipReader)
	} else {
		r.reader = bufio.NewReader(file)
	}

	if err := r.parseHeader(); err != nil {
		r.Close()
		return nil, err
	}

	return r, nil
}

// NewReaderFromReader creates a reader from an io.Reader (e.g., stdin).
func NewReaderFromReader(rd io.Reader) (*Reader, error) {
	r := &Reader{
		reader: bufio.NewReader(rd),
	}

	if err := r.parseHeader(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Reader) parseHeader() error {
	for {
		line, err := r.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return &ParseError{Line: r.lineNumber, Message: "no header line found"}
			}
			return fmt.Errorf("read header: %w", err)
		}
		r.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		r.columns = ColumnIndices{-1, -1, -1, -1, -1, -1}
		for i, name := range strings.Split(line, "\t") {
			switch strings.ToLower(strings.TrimSpace(name)) {
			case ColID:
				r.columns.ID = i
			case ColKind:
				r.columns.Kind = i
			case ColSeqID:
				r.columns.SeqID = i
			case ColLocation:
				r.columns.Location = i
			case ColCircularLength:
				r.columns.CircularLength = i
			case ColGeneticCode:
				r.columns.GeneticCode = i
			}
		}

		for _, req := range []struct {
			idx  int
			name string
		}{
			{r.columns.ID, ColID},
			{r.columns.SeqID, ColSeqID},
			{r.columns.Location, ColLocation},
		} {
			if req.idx == -1 {
				return &ParseError{Line: r.lineNumber, Message: fmt.Sprintf("required column '%s' not found in header", req.name)}
			}
		}
		return nil
	}
}

// Next reads the next feature.
// Returns nil, nil when there are no more features.
func (r *Reader) Next() (*Feature, error) {
	for {
		line, err := r.reader.ReadString('\n')
		if err != nil && (err != io.EOF || line == "") {
			if err == io.EOF {
				return nil, nil
			}
			return nil, fmt.Errorf("read line %d: %w", r.lineNumber+1, err)
		}
		r.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return r.parseLine(line)
	}
}

func (r *Reader) parseLine(line string) (*Feature, error) {
	fields := strings.Split(line, "\t")
	get := func(idx int) string {
		if idx < 0 || idx >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[idx])
	}

	f := &Feature{
		ID:       get(r.columns.ID),
		Kind:     get(r.columns.Kind),
		SeqID:    get(r.columns.SeqID),
		Location: get(r.columns.Location),
		Line:     r.lineNumber,
	}
	if f.ID == "" || f.SeqID == "" || f.Location == "" {
		return nil, &ParseError{Line: r.lineNumber, Message: "id, seq_id and location must not be empty"}
	}

	var err error
	if f.CircularLength, err = parseOptionalInt(get(r.columns.CircularLength)); err != nil {
		return nil, &ParseError{Line: r.lineNumber, Message: "invalid circular_length: " + err.Error()}
	}
	if f.GeneticCode, err = parseOptionalInt(get(r.columns.GeneticCode)); err != nil {
		return nil, &ParseError{Line: r.lineNumber, Message: "invalid genetic_code: " + err.Error()}
	}
	return f, nil
}

func parseOptionalInt(s string) (int, error) {
	if s == "" || s == "." || s == "-" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative value %d", n)
	}
	return n, nil
}

// ReadAll reads all remaining features.
func (r *Reader) ReadAll() ([]*Feature, error) {
	var out []*Feature
	for {
		f, err := r.Next()
		if err != nil {
			return nil, err
		}
		if f == nil {
			return out, nil
		}
		out = append(out, f)
	}
}

// LineNumber returns the current line number being processed.
func (r *Reader) LineNumber() int {
	return r.lineNumber
}

// Close closes the reader and releases resources.
func (r *Reader) Close() error {
	if r.gzipReader != nil {
		r.gzipReader.Close()
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// ParseError represents an error parsing a feature table.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("feature table parse error at line %d: %s", e.Line, e.Message)
}
