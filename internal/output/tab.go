// Package output provides resolution output formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/genoloc/internal/feature"
	"github.com/inodb/genoloc/internal/index"
	"github.com/inodb/genoloc/internal/location"
	"github.com/inodb/genoloc/internal/resolve"
)

// Status column values.
const (
	StatusOK       = "OK"
	StatusResolved = "RESOLVED"
	StatusCached   = "CACHED"
	StatusFailed   = "FAILED"
)

// TabWriter writes resolution results in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Feature",
			"Kind",
			"SeqID",
			"Location",
			"Resolved",
			"State",
			"Insertions",
			"Protein",
			"Internal_stop",
			"Status",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes one row. A non-nil err is reported in the Status column.
func (tw *TabWriter) Write(f *feature.Feature, res *resolve.Result, err error) error {
	values := []string{
		f.ID,
		orDash(f.Kind),
		f.SeqID,
		f.Location,
		"-",
		"-",
		"-",
		"-",
		"-",
		"",
	}

	if err != nil {
		values[9] = StatusFailed + ": " + sanitize(err.Error())
	} else {
		values[4] = location.Format(res.Location.Location())
		values[5] = res.Location.State().String()
		values[6] = formatInsertions(res.Location.Insertions())
		values[7] = orDash(res.Protein)
		if res.Feature.IsCoding() && res.Protein != "" {
			values[8] = strconv.FormatBool(res.InternalStop)
		}
		switch {
		case res.FromCache:
			values[9] = StatusCached
		case res.Resolved:
			values[9] = StatusResolved
		default:
			values[9] = StatusOK
		}
	}

	_, werr := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return werr
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func formatInsertions(ins []location.Insertion) string {
	if len(ins) == 0 {
		return "-"
	}
	parts := make([]string, len(ins))
	for i, in := range ins {
		parts[i] = in.String()
	}
	return strings.Join(parts, ";")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// sanitize keeps error text on a single tab-free line.
func sanitize(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", " ").Replace(s)
}

// PairWriter writes feature overlap pairs in tab-delimited format.
type PairWriter struct {
	w *bufio.Writer
}

// NewPairWriter creates a new overlap pair writer.
func NewPairWriter(w io.Writer) *PairWriter {
	return &PairWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the header line.
func (pw *PairWriter) WriteHeader() error {
	_, err := pw.w.WriteString("#SeqID\tFeature_A\tFeature_B\tIn_frame\n")
	return err
}

// Write writes a single pair.
func (pw *PairWriter) Write(p index.Pair) error {
	_, err := pw.w.WriteString(strings.Join([]string{p.SeqID, p.A, p.B, strconv.FormatBool(p.InFrame)}, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (pw *PairWriter) Flush() error {
	return pw.w.Flush()
}
