// Package store persists brand profiles and analysis history in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/hazyhaar/uxrefactor/dbopen"
	"github.com/hazyhaar/uxrefactor/idgen"
)

// ErrNotFound is returned when a record to read or delete does not exist.
var ErrNotFound = errors.New("store: not found")

// ProfilePrefix marks brand profile identifiers.
const ProfilePrefix = "bp_"

// Store is the database handle.
type Store struct {
	DB    *sql.DB
	newID idgen.Generator
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string, opts ...dbopen.Option) (*Store, error) {
	all := append([]dbopen.Option{
		dbopen.WithMkdirAll(),
		dbopen.WithSchema(Schema),
	}, opts...)
	db, err := dbopen.Open(path, all...)
	if err != nil {
		return nil, err
	}
	return New(db), nil
}

// Init applies the schema to an open database and wraps it.
func Init(ctx context.Context, db *sql.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return New(db), nil
}

// New wraps an open database whose schema is already applied.
func New(db *sql.DB) *Store {
	return &Store{DB: db, newID: idgen.Prefixed(ProfilePrefix, idgen.Default)}
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}
