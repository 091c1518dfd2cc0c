package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hazyhaar/uxrefactor/brand"
	"github.com/hazyhaar/uxrefactor/dbopen"
)

// GetDefault returns the oldest stored profile. With none stored, the
// built-in default is saved and returned.
func (s *Store) GetDefault(ctx context.Context) (brand.Profile, error) {
	var raw string
	err := s.DB.QueryRowContext(ctx,
		`SELECT profile FROM brand_profiles ORDER BY created_at, rowid LIMIT 1`).Scan(&raw)
	if err == nil {
		return decodeProfile(raw)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return brand.Profile{}, fmt.Errorf("store: default profile: %w", err)
	}
	p := brand.Default()
	if err := s.SaveProfile(ctx, &p); err != nil {
		return brand.Profile{}, err
	}
	return p, nil
}

// SaveProfile normalizes and validates p, assigns an ID when empty and
// inserts or replaces it. p is updated in place.
func (s *Store) SaveProfile(ctx context.Context, p *brand.Profile) error {
	*p = p.Normalize()
	if err := p.Validate(); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = s.newID()
	}
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("store: encode profile: %w", err)
	}
	now := time.Now().UnixMilli()
	_, err = dbopen.Exec(ctx, s.DB, `
		INSERT INTO brand_profiles (id, name, profile, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			profile = excluded.profile,
			updated_at = excluded.updated_at`,
		p.ID, p.Name, string(data), now, now)
	if err != nil {
		return fmt.Errorf("store: save profile %s: %w", p.ID, err)
	}
	return nil
}

// GetProfile returns the profile with id, or nil when there is none.
func (s *Store) GetProfile(ctx context.Context, id string) (*brand.Profile, error) {
	var raw string
	err := s.DB.QueryRowContext(ctx, `SELECT profile FROM brand_profiles WHERE id = ?`, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: get profile %s: %w", id, err)
	}
	p, err := decodeProfile(raw)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProfiles returns every profile, oldest first.
func (s *Store) ListProfiles(ctx context.Context) ([]brand.Profile, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT profile FROM brand_profiles ORDER BY created_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("store: list profiles: %w", err)
	}
	defer rows.Close()

	out := []brand.Profile{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		p, err := decodeProfile(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// DeleteProfile removes a profile. Analyses that used it keep its ID.
func (s *Store) DeleteProfile(ctx context.Context, id string) error {
	res, err := dbopen.Exec(ctx, s.DB, `DELETE FROM brand_profiles WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete profile %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func decodeProfile(raw string) (brand.Profile, error) {
	var p brand.Profile
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return brand.Profile{}, fmt.Errorf("store: decode profile: %w", err)
	}
	return p, nil
}
