package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hazyhaar/uxrefactor/dbopen"
	"github.com/hazyhaar/uxrefactor/pipeline"
)

// Summary is one line of the history listing.
type Summary struct {
	ID         string    `json:"id"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Level      string    `json:"level"`
	ProfileID  string    `json:"profile_id"`
	SourceHash string    `json:"source_hash"`
	Findings   int       `json:"findings"`
	Changes    int       `json:"changes"`
	CreatedAt  time.Time `json:"created_at"`
}

// SaveAnalysis records an analysis in history.
func (s *Store) SaveAnalysis(ctx context.Context, a *pipeline.Analysis) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("store: encode analysis: %w", err)
	}
	ts := a.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err = dbopen.Exec(ctx, s.DB, `
		INSERT OR REPLACE INTO analyses
			(id, url, title, level, profile_id, source_hash, findings, changes, analysis, screenshot, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.URL, a.Title, string(a.Level), a.ProfileID, a.SourceHash,
		len(a.Findings), len(a.Diff.Changes), string(data), a.Screenshot, ts.UnixMilli())
	if err != nil {
		return fmt.Errorf("store: save analysis %s: %w", a.ID, err)
	}
	return nil
}

// GetAnalysis returns a stored analysis with its screenshot.
func (s *Store) GetAnalysis(ctx context.Context, id string) (*pipeline.Analysis, error) {
	var raw string
	var shot []byte
	err := s.DB.QueryRowContext(ctx,
		`SELECT analysis, screenshot FROM analyses WHERE id = ?`, id).Scan(&raw, &shot)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get analysis %s: %w", id, err)
	}
	a := &pipeline.Analysis{}
	if err := json.Unmarshal([]byte(raw), a); err != nil {
		return nil, fmt.Errorf("store: decode analysis %s: %w", id, err)
	}
	a.Screenshot = shot
	return a, nil
}

// ListAnalyses returns the most recent summaries first. limit <= 0 lists all.
func (s *Store) ListAnalyses(ctx context.Context, limit int) ([]Summary, error) {
	query := `SELECT id, url, title, level, profile_id, source_hash, findings, changes, created_at
	          FROM analyses ORDER BY created_at DESC, rowid DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: list analyses: %w", err)
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var sm Summary
		var created int64
		if err := rows.Scan(&sm.ID, &sm.URL, &sm.Title, &sm.Level, &sm.ProfileID,
			&sm.SourceHash, &sm.Findings, &sm.Changes, &created); err != nil {
			return nil, err
		}
		sm.CreatedAt = time.UnixMilli(created).UTC()
		out = append(out, sm)
	}
	return out, rows.Err()
}

// LastHash returns the source hash of the latest analysis of pageURL, or ""
// when it was never analyzed.
func (s *Store) LastHash(ctx context.Context, pageURL string) (string, error) {
	var h string
	err := s.DB.QueryRowContext(ctx,
		`SELECT source_hash FROM analyses WHERE url = ? ORDER BY created_at DESC, rowid DESC LIMIT 1`,
		pageURL).Scan(&h)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return h, err
}

// DeleteAnalysis removes one analysis.
func (s *Store) DeleteAnalysis(ctx context.Context, id string) error {
	res, err := dbopen.Exec(ctx, s.DB, `DELETE FROM analyses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete analysis %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Prune keeps the newest keep analyses and deletes the rest.
func (s *Store) Prune(ctx context.Context, keep int) (int64, error) {
	if keep <= 0 {
		return 0, nil
	}
	res, err := dbopen.Exec(ctx, s.DB, `
		DELETE FROM analyses WHERE id NOT IN (
			SELECT id FROM analyses ORDER BY created_at DESC, rowid DESC LIMIT ?
		)`, keep)
	if err != nil {
		return 0, fmt.Errorf("store: prune: %w", err)
	}
	return res.RowsAffected()
}

// Clear deletes the whole history. Profiles are kept.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := dbopen.Exec(ctx, s.DB, `DELETE FROM analyses`); err != nil {
		return fmt.Errorf("store: clear history: %w", err)
	}
	return nil
}
