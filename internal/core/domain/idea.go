package domain

import "time"

// Attachment is a file the user supplied alongside the idea. Content is the
// already-extracted plain text, not the raw bytes.
type Attachment struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// URLReference is a web page the user cited. Content holds the fetched text.
type URLReference struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
	Kind    string `json:"type"`
}

// IdeaDraft is everything the user composed before asking for structuring.
// It is a value object owned by the single active session; it is never
// persisted, only the resulting HistoryEntry is.
type IdeaDraft struct {
	ID            string
	RawText       string
	Categories    []string
	DetailLevel   DetailLevel
	OutputFormat  OutputFormat
	Modifiers     []string
	Context       string
	Attachments   []Attachment
	URLReferences []URLReference
}

// ChatMessage is one turn of an LLM conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// HistoryEntry records one successful structuring. At most HistoryCap entries
// are retained, oldest evicted first. FinalDocument is never empty and never
// contains the completion sentinel.
type HistoryEntry struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"createdAt"`
	RawText       string    `json:"rawText"`
	FinalDocument string    `json:"finalDocument"`
	CategoryTag   string    `json:"categoryTag"`
}

// HistoryCap bounds the retained history, matching the client-side cap the
// original browser store enforced.
const HistoryCap = 50

// Settings are the last-used composer preferences, replaced as a whole
// document on every change.
type Settings struct {
	Categories   []string     `json:"modes"`
	LegacyMode   string       `json:"mode,omitempty"`
	DetailLevel  DetailLevel  `json:"detailLevel"`
	OutputFormat OutputFormat `json:"outputFormat"`
	Modifiers    []string     `json:"modifiers"`
}

// Normalize migrates the legacy single-category field into Categories and
// clears it. Safe to call repeatedly.
func (s *Settings) Normalize() {
	if len(s.Categories) == 0 && s.LegacyMode != "" {
		s.Categories = []string{s.LegacyMode}
	}
	s.LegacyMode = ""
}
