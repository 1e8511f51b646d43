package ports

import (
	"context"

	"github.com/cmgfi/tellcmg-api/internal/core/domain"
)

// IdeaStructurer is the inbound contract for one-shot structuring.
type IdeaStructurer interface {
	Structure(ctx context.Context, draft domain.IdeaDraft) (string, error)
}

// Interviewer is the inbound contract for the conversational flow.
type Interviewer interface {
	Step(ctx context.Context, req domain.InterviewRequest) (domain.InterviewReply, error)
}

// IdeaSubmitter is the inbound contract for mailing a finished submission.
type IdeaSubmitter interface {
	Submit(ctx context.Context, document string, categories []string, submitterEmail string) error
}

// HistoryService is the inbound read/maintenance model for past structurings.
type HistoryService interface {
	List(ctx context.Context) ([]domain.HistoryEntry, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context) error
}
