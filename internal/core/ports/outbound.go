package ports

import (
	"context"

	"github.com/cmgfi/tellcmg-api/internal/core/domain"
)

// ChatGenerator is the narrow LLM capability the core depends on. It is a
// black-box single-shot completion: no retry, no streaming.
type ChatGenerator interface {
	Chat(ctx context.Context, messages []domain.ChatMessage, opts GenerationOptions) (string, error)
}

// GenerationOptions tune one completion request.
type GenerationOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// MailSender delivers a finished submission to the fixed recipient.
type MailSender interface {
	Send(ctx context.Context, msg SubmissionMail) error
}

// SubmissionMail is the rendered message handed to the mail transport.
type SubmissionMail struct {
	Subject   string
	PlainText string
	HTML      string
	ReplyTo   string
}

// HistoryStore persists structuring history. Implementations keep at most
// domain.HistoryCap entries, evicting the oldest first.
type HistoryStore interface {
	Append(ctx context.Context, entry domain.HistoryEntry) error
	List(ctx context.Context) ([]domain.HistoryEntry, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}

// SettingsStore persists the last-used composer preferences as one document.
type SettingsStore interface {
	Load(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, settings domain.Settings) error
}

// PageFetcher retrieves the readable text of a cited web page.
type PageFetcher interface {
	FetchText(ctx context.Context, url string) (title, text string, err error)
}

// AttachmentExtractor converts an uploaded file into plain text.
type AttachmentExtractor interface {
	Extract(ctx context.Context, filename string, data []byte) (string, error)
}
