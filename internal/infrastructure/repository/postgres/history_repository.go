package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/cmgfi/tellcmg-api/internal/core/domain"
)

// HistoryRepository is the shared-database variant of the history and
// settings stores, for deployments where artifacts must outlive a single
// container. Settings live in a one-row table keyed by a fixed id.
type HistoryRepository struct {
	db *sql.DB
}

func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func OpenDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("sql open: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return db, nil
}

func (r *HistoryRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across replica startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026052301)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS idea_history (
	id TEXT PRIMARY KEY,
	created_at TIMESTAMPTZ NOT NULL,
	raw_text TEXT NOT NULL,
	final_document TEXT NOT NULL,
	category_tag TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_idea_history_created_at ON idea_history(created_at DESC);

CREATE TABLE IF NOT EXISTS composer_settings (
	id TEXT PRIMARY KEY,
	document JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

// Append inserts the entry and trims anything past the cap in the same
// transaction so two concurrent structurings cannot leave the table over
// the limit.
func (r *HistoryRepository) Append(ctx context.Context, entry domain.HistoryEntry) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin history tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	_, err = tx.ExecContext(ctx, `
INSERT INTO idea_history (id, created_at, raw_text, final_document, category_tag)
VALUES ($1,$2,$3,$4,$5)
`, entry.ID, entry.CreatedAt, entry.RawText, entry.FinalDocument, entry.CategoryTag)
	if err != nil {
		return fmt.Errorf("insert history entry: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
DELETE FROM idea_history
WHERE id NOT IN (
	SELECT id FROM idea_history ORDER BY created_at DESC LIMIT $1
)
`, domain.HistoryCap)
	if err != nil {
		return fmt.Errorf("trim history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit history tx: %w", err)
	}
	return nil
}

func (r *HistoryRepository) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT id, created_at, raw_text, final_document, category_tag
FROM idea_history
ORDER BY created_at DESC
`)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var entry domain.HistoryEntry
		if err := rows.Scan(&entry.ID, &entry.CreatedAt, &entry.RawText, &entry.FinalDocument, &entry.CategoryTag); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history: %w", err)
	}
	return entries, nil
}

func (r *HistoryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM idea_history WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete history entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete history entry rows affected: %w", err)
	}
	if affected == 0 {
		return domain.WrapError(domain.ErrNotFound, "delete history entry", fmt.Errorf("entry %s not found", id))
	}
	return nil
}

func (r *HistoryRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM idea_history`); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
