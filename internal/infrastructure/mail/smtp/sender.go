package smtp

import (
	"context"
	"fmt"

	mail "github.com/wneessen/go-mail"

	"github.com/cmgfi/tellcmg-api/internal/core/ports"
)

// Config carries the SMTP transport settings. Recipient is fixed: every
// submission goes to the IT Product intake inbox.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	Recipient string
}

// Sender delivers rendered submissions over authenticated SMTP with
// mandatory STARTTLS.
type Sender struct {
	client    *mail.Client
	from      string
	recipient string
}

func NewSender(cfg Config) (*Sender, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &Sender{
		client:    client,
		from:      cfg.Username,
		recipient: cfg.Recipient,
	}, nil
}

func (s *Sender) Send(ctx context.Context, msg ports.SubmissionMail) error {
	m := mail.NewMsg()
	if err := m.FromFormat("TellCMG", s.from); err != nil {
		return fmt.Errorf("set mail sender: %w", err)
	}
	if err := m.To(s.recipient); err != nil {
		return fmt.Errorf("set mail recipient: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return fmt.Errorf("set mail reply-to: %w", err)
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.PlainText)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("deliver submission mail: %w", err)
	}
	return nil
}
