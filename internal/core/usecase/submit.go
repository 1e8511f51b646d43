package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmgfi/tellcmg-api/internal/core/domain"
	"github.com/cmgfi/tellcmg-api/internal/core/ports"
)

// SubmitUseCase validates a finished submission and hands it to the mail
// renderer/transport. There is no fallback for delivery: an unconfigured
// sender is a distinct configuration error.
type SubmitUseCase struct {
	sender   ports.MailSender // nil means SMTP credentials absent
	renderer SubmissionRenderer
	catalog  *domain.Catalog
}

// SubmissionRenderer turns a markdown document plus metadata into the
// HTML and plain-text renderings of one mail message.
type SubmissionRenderer interface {
	Render(document, categoryList, submitterEmail string) (ports.SubmissionMail, error)
}

func NewSubmitUseCase(sender ports.MailSender, renderer SubmissionRenderer, catalog *domain.Catalog) *SubmitUseCase {
	return &SubmitUseCase{sender: sender, renderer: renderer, catalog: catalog}
}

// Submit mails the document to the fixed recipient. An empty document is a
// validation error and never reaches the transport.
func (uc *SubmitUseCase) Submit(ctx context.Context, document string, categories []string, submitterEmail string) error {
	if strings.TrimSpace(document) == "" {
		return domain.WrapError(domain.ErrInvalidInput, "submit idea", fmt.Errorf("no idea content provided"))
	}
	if uc.sender == nil {
		return domain.WrapError(domain.ErrNotConfigured, "submit idea", fmt.Errorf("mail transport credentials missing"))
	}

	msg, err := uc.renderer.Render(document, uc.categoryList(categories), submitterEmail)
	if err != nil {
		return fmt.Errorf("render submission mail: %w", err)
	}

	if err := uc.sender.Send(ctx, msg); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return domain.WrapError(domain.ErrTemporary, "deliver submission mail", err)
	}
	return nil
}

func (uc *SubmitUseCase) categoryList(categories []string) string {
	if len(categories) == 0 {
		return "General"
	}
	labels := make([]string, 0, len(categories))
	for _, id := range categories {
		labels = append(labels, uc.catalog.LabelOf(id))
	}
	return strings.Join(labels, ", ")
}
