package smtp

import (
	"bytes"
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/cmgfi/tellcmg-api/internal/core/ports"
)

const (
	brandAccent = "#9bc53d"
	brandInk    = "#f0f4f8"
	brandMuted  = "#64748b"
)

// Renderer turns a finished markdown document into the branded submission
// mail. The HTML alternative exists for mail clients; the plain-text part is
// the canonical record.
type Renderer struct {
	md  goldmark.Markdown
	now func() time.Time
}

func NewRenderer() *Renderer {
	return &Renderer{
		md:  goldmark.New(),
		now: time.Now,
	}
}

func (r *Renderer) Render(document, categoryList, submitterEmail string) (ports.SubmissionMail, error) {
	var body bytes.Buffer
	if err := r.md.Convert([]byte(document), &body); err != nil {
		return ports.SubmissionMail{}, fmt.Errorf("render submission markdown: %w", err)
	}

	subject := "TellCMG Idea Submission"
	if submitterEmail != "" {
		subject += " from " + submitterEmail
	}
	subject += " — " + categoryList

	when := r.now().UTC()

	var plain strings.Builder
	plain.WriteString("TellCMG Idea Submission\n\n")
	if submitterEmail != "" {
		plain.WriteString("From: " + submitterEmail + "\n")
	}
	plain.WriteString("Category: " + categoryList + "\n")
	plain.WriteString("Date: " + when.Format("Monday, January 2, 2006 3:04 PM MST") + "\n\n")
	plain.WriteString(document)

	return ports.SubmissionMail{
		Subject:   subject,
		PlainText: plain.String(),
		HTML:      r.wrap(body.String(), categoryList, submitterEmail, when),
		ReplyTo:   submitterEmail,
	}, nil
}

// wrap places the converted document inside the CMG-branded shell. Styles are
// inline because mail clients strip style sheets.
func (r *Renderer) wrap(bodyHTML, categoryList, submitterEmail string, when time.Time) string {
	submitterLine := ""
	if submitterEmail != "" {
		submitterLine = fmt.Sprintf(
			`<p style="font-size:14px;color:%s;margin:0 0 4px 0;">Submitted by: <strong style="color:%s;">%s</strong></p>`,
			brandMuted, brandInk, html.EscapeString(submitterEmail))
	}

	var b strings.Builder
	b.WriteString(`<div style="font-family:'Segoe UI',Arial,sans-serif;max-width:700px;margin:0 auto;background:#1a2332;border-radius:12px;overflow:hidden;border:1px solid rgba(155,197,61,0.2);">`)

	b.WriteString(fmt.Sprintf(`<div style="background:#2b3e50;padding:24px 32px;border-bottom:3px solid %s;">`, brandAccent))
	b.WriteString(fmt.Sprintf(`<span style="font-size:28px;font-weight:800;color:%s;">CMG</span> `, brandAccent))
	b.WriteString(fmt.Sprintf(`<span style="font-size:18px;font-weight:700;color:%s;">TellCMG</span>`, brandInk))
	b.WriteString(`</div>`)

	b.WriteString(`<div style="padding:20px 32px;background:#1f2b3d;">`)
	b.WriteString(submitterLine)
	b.WriteString(fmt.Sprintf(`<p style="font-size:14px;color:%s;margin:0 0 4px 0;">Category: <strong style="color:%s;">%s</strong></p>`,
		brandMuted, brandAccent, html.EscapeString(categoryList)))
	b.WriteString(fmt.Sprintf(`<p style="font-size:12px;color:%s;margin:0;">Submitted: %s</p>`,
		brandMuted, when.Format("Monday, January 2, 2006 3:04 PM MST")))
	b.WriteString(`</div>`)

	b.WriteString(fmt.Sprintf(`<div style="padding:28px 32px;color:#94a3b8;line-height:1.7;">%s</div>`, bodyHTML))

	b.WriteString(fmt.Sprintf(`<div style="padding:16px 32px;background:#1f2b3d;text-align:center;"><p style="font-size:11px;color:%s;margin:0;">Submitted via <strong style="color:%s;">TellCMG</strong> &mdash; Voice Your Ideas</p></div>`,
		brandMuted, brandAccent))

	b.WriteString(`</div>`)
	return b.String()
}
