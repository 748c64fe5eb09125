package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/genoloc/internal/location"
	"github.com/inodb/genoloc/internal/resolve"
)

// WriteResults batch-inserts resolution results into DuckDB using the Appender API.
// Results served from the cache are skipped and duplicate keys are written once.
func (s *Store) WriteResults(results []*resolve.Result) error {
	seen := make(map[resolve.CacheKey]bool, len(results))
	deduped := make([]*resolve.Result, 0, len(results))
	for _, r := range results {
		if r == nil || r.FromCache || seen[r.Key] {
			continue
		}
		seen[r.Key] = true
		deduped = append(deduped, r)
	}
	if len(deduped) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	resAppender, err := newAppender(conn, "resolutions")
	if err != nil {
		return err
	}
	defer resAppender.Close()

	insAppender, err := newAppender(conn, "insertions")
	if err != nil {
		return err
	}
	defer insAppender.Close()

	for _, r := range deduped {
		k := r.Key
		if err := resAppender.AppendRow(
			k.SeqID, k.Location, int64(k.CircularLength), k.Coding, int64(k.GeneticCode),
			location.Format(r.Location.Location()), r.Location.State().String(),
		); err != nil {
			return fmt.Errorf("append resolution: %w", err)
		}
		for i, in := range r.Location.Insertions() {
			if err := insAppender.AppendRow(
				k.SeqID, k.Location, int64(k.CircularLength), k.Coding, int64(k.GeneticCode),
				int64(i), int64(in.Start), int64(in.Stop), in.ProteinFragment, int64(in.Offset),
			); err != nil {
				return fmt.Errorf("append insertion: %w", err)
			}
		}
	}

	if err := resAppender.Flush(); err != nil {
		return fmt.Errorf("flush resolutions: %w", err)
	}
	return insAppender.Flush()
}

func newAppender(conn *sql.Conn, table string) (*goduckdb.Appender, error) {
	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", table)
		return err
	}); err != nil {
		return nil, fmt.Errorf("create %s appender: %w", table, err)
	}
	return appender, nil
}

// ClearResults removes all cached resolutions.
func (s *Store) ClearResults() error {
	if _, err := s.db.Exec("DELETE FROM insertions"); err != nil {
		return err
	}
	_, err := s.db.Exec("DELETE FROM resolutions")
	return err
}

// CountResults returns the number of cached resolutions.
func (s *Store) CountResults() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT count(*) FROM resolutions").Scan(&n); err != nil {
		return 0, fmt.Errorf("count resolutions: %w", err)
	}
	return n, nil
}

// Lookup returns the cached resolution for k. It implements resolve.Cache.
func (s *Store) Lookup(k resolve.CacheKey) (location.AnnotatedLocation, bool, error) {
	args := []any{k.SeqID, k.Location, int64(k.CircularLength), k.Coding, int64(k.GeneticCode)}

	var resolved, state string
	err := s.db.QueryRow(`SELECT resolved, state FROM resolutions
		WHERE seq_id=? AND location=? AND circular_length=? AND coding=? AND genetic_code=?`,
		args...).Scan(&resolved, &state)
	if errors.Is(err, sql.ErrNoRows) {
		return location.AnnotatedLocation{}, false, nil
	}
	if err != nil {
		return location.AnnotatedLocation{}, false, fmt.Errorf("query resolution: %w", err)
	}

	var loc location.Location
	if k.CircularLength > 0 {
		loc, err = location.ParseCircular(resolved, k.CircularLength)
	} else {
		loc, err = location.Parse(resolved)
	}
	if err != nil {
		return location.AnnotatedLocation{}, false, fmt.Errorf("cached location: %w", err)
	}
	ms, err := location.ParseMappingState(state)
	if err != nil {
		return location.AnnotatedLocation{}, false, fmt.Errorf("cached state: %w", err)
	}

	rows, err := s.db.Query(`SELECT start_pos, stop_pos, protein_fragment, reading_offset
		FROM insertions
		WHERE seq_id=? AND location=? AND circular_length=? AND coding=? AND genetic_code=?
		ORDER BY ordinal`, args...)
	if err != nil {
		return location.AnnotatedLocation{}, false, fmt.Errorf("query insertions: %w", err)
	}
	defer rows.Close()

	var ins []location.Insertion
	for rows.Next() {
		var in location.Insertion
		if err := rows.Scan(&in.Start, &in.Stop, &in.ProteinFragment, &in.Offset); err != nil {
			return location.AnnotatedLocation{}, false, fmt.Errorf("scan insertion: %w", err)
		}
		ins = append(ins, in)
	}
	if err := rows.Err(); err != nil {
		return location.AnnotatedLocation{}, false, fmt.Errorf("iterate insertions: %w", err)
	}

	al := location.NewAnnotatedLocation(loc).WithState(ms).AddInsertion(ins...)
	return al, true, nil
}
