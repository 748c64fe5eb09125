package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"
)

// FileFingerprint holds stat-based identity for a file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// SyncSource records the reference file the cached results were computed
// against. If a different fingerprint was recorded, all cached results are
// cleared and stale is true.
func (s *Store) SyncSource(fp FileFingerprint) (stale bool, err error) {
	var size int64
	var modTime time.Time
	err = s.db.QueryRow("SELECT size, mod_time FROM sources WHERE path=?", fp.Path).Scan(&size, &modTime)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		n, err := s.CountResults()
		if err != nil {
			return false, err
		}
		// results from another reference are not reusable
		stale = n > 0
	case err != nil:
		return false, fmt.Errorf("query source: %w", err)
	default:
		if size == fp.Size && modTime.Equal(fp.ModTime.UTC().Truncate(time.Microsecond)) {
			return false, nil
		}
		stale = true
	}

	if stale {
		if err := s.ClearResults(); err != nil {
			return false, fmt.Errorf("clear stale results: %w", err)
		}
	}
	if _, err := s.db.Exec("DELETE FROM sources"); err != nil {
		return false, fmt.Errorf("reset sources: %w", err)
	}
	if _, err := s.db.Exec("INSERT INTO sources VALUES (?, ?, ?)",
		fp.Path, fp.Size, fp.ModTime.UTC().Truncate(time.Microsecond)); err != nil {
		return false, fmt.Errorf("record source: %w", err)
	}
	return stale, nil
}
