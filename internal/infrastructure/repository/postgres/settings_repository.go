package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmgfi/tellcmg-api/internal/core/domain"
)

// settingsRowID keys the single composer settings document.
const settingsRowID = "composer"

type SettingsRepository struct {
	db *sql.DB
}

func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) Load(ctx context.Context) (domain.Settings, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT document FROM composer_settings WHERE id = $1`, settingsRowID)

	var raw []byte
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Settings{}, nil
		}
		return domain.Settings{}, fmt.Errorf("scan settings: %w", err)
	}

	var settings domain.Settings
	if err := json.Unmarshal(raw, &settings); err != nil {
		return domain.Settings{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	return settings, nil
}

func (r *SettingsRepository) Save(ctx context.Context, settings domain.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO composer_settings (id, document, updated_at)
VALUES ($1,$2,$3)
ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at
`, settingsRowID, raw, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("upsert settings: %w", err)
	}
	return nil
}
