// Package store persists plays and their denormalized track, album, and
// artist metadata in a local SQLite database.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
)

// ErrDuplicate is returned when an insert collides with an existing primary
// key. Callers treat it as "already done", not as a failure.
var ErrDuplicate = errors.New("duplicate key")

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(createTables); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// translateErr maps primary-key and unique violations onto ErrDuplicate so
// call sites can errors.Is them without knowing the driver. Other
// constraint failures pass through unchanged.
func translateErr(err error) error {
	var serr sqlite3.Error
	if errors.As(err, &serr) &&
		(serr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey ||
			serr.ExtendedCode == sqlite3.ErrConstraintUnique) {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}

func joinGenres(genres []string) string {
	return strings.Join(genres, ",")
}

func splitGenres(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}
