package usecase

import (
	"context"
	"testing"

	"github.com/cmgfi/tellcmg-api/internal/core/domain"
)

func TestRecordRejectsEmptyDocument(t *testing.T) {
	uc := NewHistoryUseCase(&historyStoreFake{}, &settingsStoreFake{})

	_, err := uc.Record(context.Background(), "raw", "", "doc-mgmt")
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty document, got %v", err)
	}
}

func TestRecordFillsIdentityAndDefaults(t *testing.T) {
	store := &historyStoreFake{}
	uc := NewHistoryUseCase(store, &settingsStoreFake{})

	entry, err := uc.Record(context.Background(), "raw idea", "## Doc", "")
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if entry.ID == "" {
		t.Fatalf("entry ID must be assigned")
	}
	if entry.CreatedAt.IsZero() {
		t.Fatalf("entry timestamp must be assigned")
	}
	if entry.CategoryTag != "general" {
		t.Fatalf("empty tag should default to general, got %q", entry.CategoryTag)
	}
	if len(store.entries) != 1 {
		t.Fatalf("expected one stored entry, got %d", len(store.entries))
	}
}

func TestRecordAssignsUniqueIDs(t *testing.T) {
	uc := NewHistoryUseCase(&historyStoreFake{}, &settingsStoreFake{})

	a, _ := uc.Record(context.Background(), "raw", "## A", "sla")
	b, _ := uc.Record(context.Background(), "raw", "## B", "sla")
	if a.ID == b.ID {
		t.Fatalf("entries share ID %q", a.ID)
	}
}

func TestSettingsLoadMigratesLegacyMode(t *testing.T) {
	uc := NewHistoryUseCase(&historyStoreFake{}, &settingsStoreFake{
		loadData: domain.Settings{LegacyMode: "doc-mgmt"},
	})

	settings, err := uc.Settings(context.Background())
	if err != nil {
		t.Fatalf("Settings() error = %v", err)
	}
	if len(settings.Categories) != 1 || settings.Categories[0] != "doc-mgmt" {
		t.Fatalf("legacy mode not migrated: %+v", settings)
	}
	if settings.LegacyMode != "" {
		t.Fatalf("legacy field must be cleared after migration")
	}
}

func TestSaveSettingsNormalizesBeforePersisting(t *testing.T) {
	store := &settingsStoreFake{}
	uc := NewHistoryUseCase(&historyStoreFake{}, store)

	err := uc.SaveSettings(context.Background(), domain.Settings{LegacyMode: "sla"})
	if err != nil {
		t.Fatalf("SaveSettings() error = %v", err)
	}
	if len(store.saved.Categories) != 1 || store.saved.Categories[0] != "sla" {
		t.Fatalf("saved settings not normalized: %+v", store.saved)
	}
}

func TestDeleteMissingEntryIsNotFound(t *testing.T) {
	uc := NewHistoryUseCase(&historyStoreFake{}, &settingsStoreFake{})

	err := uc.Delete(context.Background(), "missing")
	if !domain.IsKind(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
