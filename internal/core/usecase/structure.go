package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cmgfi/tellcmg-api/internal/core/domain"
	"github.com/cmgfi/tellcmg-api/internal/core/ports"
)

// StructureUseCase orchestrates one-shot structuring: validate, assemble,
// generate (or fall back when no credential is configured), record history.
type StructureUseCase struct {
	assembler *PromptAssembler
	fallback  *FallbackGenerator
	generator ports.ChatGenerator // nil means no credential configured
	extractor ports.AttachmentExtractor
	fetcher   ports.PageFetcher
	recorder  *HistoryUseCase
	opts      ports.GenerationOptions

	// One outstanding generation per draft. An idempotent guard, not a queue.
	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewStructureUseCase(
	assembler *PromptAssembler,
	fallback *FallbackGenerator,
	generator ports.ChatGenerator,
	extractor ports.AttachmentExtractor,
	fetcher ports.PageFetcher,
	recorder *HistoryUseCase,
	opts ports.GenerationOptions,
) *StructureUseCase {
	return &StructureUseCase{
		assembler: assembler,
		fallback:  fallback,
		generator: generator,
		extractor: extractor,
		fetcher:   fetcher,
		recorder:  recorder,
		opts:      opts,
		inFlight:  make(map[string]struct{}),
	}
}

// Source names the generation path this use case will take, for metrics.
func (uc *StructureUseCase) Source() string {
	if uc.generator == nil {
		return "fallback"
	}
	return "llm"
}

// Structure produces the final document for a draft. A cancelled context
// aborts the LLM call and records nothing.
func (uc *StructureUseCase) Structure(ctx context.Context, draft domain.IdeaDraft) (string, error) {
	if strings.TrimSpace(draft.RawText) == "" {
		return "", domain.WrapError(domain.ErrInvalidInput, "structure idea", fmt.Errorf("transcript is required"))
	}

	if draft.ID != "" {
		if !uc.acquire(draft.ID) {
			return "", domain.WrapError(domain.ErrBusy, "structure idea",
				fmt.Errorf("generation already in flight for draft %s", draft.ID))
		}
		defer uc.release(draft.ID)
	}

	draft = uc.enrich(ctx, draft)

	document, err := uc.generate(ctx, draft)
	if err != nil {
		return "", err
	}

	uc.record(ctx, draft, document)
	return document, nil
}

// enrich replaces attachment contents with extracted text and fills empty
// URL-reference contents from the live page. Failures degrade to whatever the
// client sent; they never abort structuring.
func (uc *StructureUseCase) enrich(ctx context.Context, draft domain.IdeaDraft) domain.IdeaDraft {
	if uc.extractor != nil && len(draft.Attachments) > 0 {
		attachments := make([]domain.Attachment, len(draft.Attachments))
		copy(attachments, draft.Attachments)
		for i, att := range attachments {
			text, err := uc.extractor.Extract(ctx, att.Name, attachmentBytes(att.Name, att.Content))
			if err != nil {
				slog.Warn("attachment_extract_failed", "name", att.Name, "error", err)
				continue
			}
			attachments[i].Content = text
		}
		draft.Attachments = attachments
	}

	if uc.fetcher != nil && len(draft.URLReferences) > 0 {
		refs := make([]domain.URLReference, len(draft.URLReferences))
		copy(refs, draft.URLReferences)
		for i, ref := range refs {
			if strings.TrimSpace(ref.Content) != "" || strings.TrimSpace(ref.URL) == "" {
				continue
			}
			title, text, err := uc.fetcher.FetchText(ctx, ref.URL)
			if err != nil {
				slog.Warn("reference_fetch_failed", "url", ref.URL, "error", err)
				continue
			}
			refs[i].Content = text
			if refs[i].Title == "" {
				refs[i].Title = title
			}
		}
		draft.URLReferences = refs
	}

	return draft
}

// PDF uploads arrive base64-encoded because JSON cannot carry their bytes.
// Everything else is already text.
func attachmentBytes(name, content string) []byte {
	if strings.EqualFold(filepath.Ext(name), ".pdf") {
		if raw, err := base64.StdEncoding.DecodeString(content); err == nil {
			return raw
		}
	}
	return []byte(content)
}

func (uc *StructureUseCase) generate(ctx context.Context, draft domain.IdeaDraft) (string, error) {
	if uc.generator == nil {
		return uc.fallback.Generate(draft), nil
	}

	document, err := uc.generator.Chat(ctx, uc.assembler.Messages(draft), uc.opts)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", err
		}
		return "", domain.WrapError(domain.ErrTemporary, "generate structured idea", err)
	}
	if strings.TrimSpace(document) == "" {
		return "", domain.WrapError(domain.ErrTemporary, "generate structured idea", fmt.Errorf("empty completion"))
	}
	return document, nil
}

// record appends a history entry. History failure is logged, never surfaced:
// the user already has their document.
func (uc *StructureUseCase) record(ctx context.Context, draft domain.IdeaDraft, document string) {
	if uc.recorder == nil {
		return
	}
	tag := "general"
	if len(draft.Categories) > 0 {
		tag = draft.Categories[0]
	}
	if _, err := uc.recorder.Record(ctx, draft.RawText, document, tag); err != nil {
		slog.Warn("history_record_failed", "error", err)
	}
}

func (uc *StructureUseCase) acquire(draftID string) bool {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if _, busy := uc.inFlight[draftID]; busy {
		return false
	}
	uc.inFlight[draftID] = struct{}{}
	return true
}

func (uc *StructureUseCase) release(draftID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	delete(uc.inFlight, draftID)
}
