package history

import (
	"context"
	"database/sql"
	"fmt"
)

// Run is one recorded sort.
type Run struct {
	ID         string `json:"id" yaml:"id"`
	Seq        int64  `json:"seq" yaml:"seq"`
	Source     string `json:"source" yaml:"source"`
	Algorithm  string `json:"algorithm" yaml:"algorithm"`
	Class      string `json:"class" yaml:"class"`
	TokenCount int    `json:"token_count" yaml:"token_count"`
	Digest     string `json:"digest" yaml:"digest"`
}

// Record appends a run. ID and Seq are assigned here; any values set by the
// caller are overwritten. The stored run is returned.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}
	defer tx.Rollback()

	var last sql.NullInt64
	if err := tx.QueryRowContext(ctx, `SELECT MAX(seq) FROM runs`).Scan(&last); err != nil {
		return Run{}, fmt.Errorf("record run: read seq: %w", err)
	}

	run.ID = s.ids.Generate()
	run.Seq = last.Int64 + 1

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, source, algorithm, class, token_count, digest)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Seq,
		run.Source,
		run.Algorithm,
		run.Class,
		run.TokenCount,
		run.Digest,
	)
	if err != nil {
		return Run{}, fmt.Errorf("record run: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("record run: commit: %w", err)
	}
	return run, nil
}

// Runs lists recorded runs in seq order. A non-empty source restricts the
// list to that path. Returns an empty slice (not nil) when nothing matches.
func (s *Store) Runs(ctx context.Context, source string) ([]Run, error) {
	query := `
		SELECT id, seq, source, algorithm, class, token_count, digest
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`
	var args []any
	if source != "" {
		query = `
		SELECT id, seq, source, algorithm, class, token_count, digest
		FROM runs
		WHERE source = ?
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`
		args = append(args, source)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Seq, &r.Source, &r.Algorithm, &r.Class, &r.TokenCount, &r.Digest); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, nil
}
