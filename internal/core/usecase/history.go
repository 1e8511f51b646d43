package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/cmgfi/tellcmg-api/internal/core/domain"
	"github.com/cmgfi/tellcmg-api/internal/core/ports"
)

// HistoryUseCase owns the capped structuring history and the last-used
// composer settings. Both flows record through it so the invariant lives in
// one place: an entry exists only for a non-empty final document.
type HistoryUseCase struct {
	store    ports.HistoryStore
	settings ports.SettingsStore
}

func NewHistoryUseCase(store ports.HistoryStore, settings ports.SettingsStore) *HistoryUseCase {
	return &HistoryUseCase{store: store, settings: settings}
}

// Record appends one successful structuring. The store evicts beyond
// domain.HistoryCap, oldest first.
func (uc *HistoryUseCase) Record(ctx context.Context, rawText, document, categoryTag string) (domain.HistoryEntry, error) {
	if document == "" {
		return domain.HistoryEntry{}, domain.WrapError(domain.ErrInvalidInput, "record history",
			fmt.Errorf("final document is empty"))
	}
	if categoryTag == "" {
		categoryTag = "general"
	}
	entry := domain.HistoryEntry{
		ID:            uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
		RawText:       rawText,
		FinalDocument: document,
		CategoryTag:   categoryTag,
	}
	if err := uc.store.Append(ctx, entry); err != nil {
		return domain.HistoryEntry{}, fmt.Errorf("append history: %w", err)
	}
	return entry, nil
}

func (uc *HistoryUseCase) List(ctx context.Context) ([]domain.HistoryEntry, error) {
	return uc.store.List(ctx)
}

func (uc *HistoryUseCase) Delete(ctx context.Context, id string) error {
	return uc.store.Delete(ctx, id)
}

func (uc *HistoryUseCase) Clear(ctx context.Context) error {
	return uc.store.Clear(ctx)
}

// Settings loads the persisted composer preferences, migrating the legacy
// single-category field.
func (uc *HistoryUseCase) Settings(ctx context.Context) (domain.Settings, error) {
	settings, err := uc.settings.Load(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	settings.Normalize()
	return settings, nil
}

// SaveSettings replaces the settings document as a whole.
func (uc *HistoryUseCase) SaveSettings(ctx context.Context, settings domain.Settings) error {
	settings.Normalize()
	return uc.settings.Save(ctx, settings)
}
