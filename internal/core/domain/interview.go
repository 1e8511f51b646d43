package domain

import "strings"

// InterviewMode selects the dialogue's content policy.
type InterviewMode string

const (
	// InterviewNewIdea interviews toward a brand-new submission.
	InterviewNewIdea InterviewMode = "new-idea"
	// InterviewEnhance refines an already-generated submission.
	InterviewEnhance InterviewMode = "enhance"
)

// InterviewAction is the caller-requested step of the dialogue.
type InterviewAction string

const (
	ActionStart    InterviewAction = "start"
	ActionContinue InterviewAction = "continue"
	ActionGenerate InterviewAction = "generate"
)

// InterviewPhase is the dialogue state machine's position.
type InterviewPhase string

const (
	PhaseStart       InterviewPhase = "start"
	PhaseQuestioning InterviewPhase = "questioning"
	PhaseCompleting  InterviewPhase = "completing"
	PhaseDone        InterviewPhase = "done"
)

// InterviewTurn is one logged utterance. Role is assistant or user.
type InterviewTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// InterviewRequest carries one dialogue step from the client. Messages is the
// full turn log so far; the server keeps no per-session state.
type InterviewRequest struct {
	Action        InterviewAction
	Transcript    string
	Category      string
	Messages      []InterviewTurn
	ExistingDraft string
}

// Mode derives the content policy: a present base draft means enhancement.
func (r InterviewRequest) Mode() InterviewMode {
	if strings.TrimSpace(r.ExistingDraft) != "" {
		return InterviewEnhance
	}
	return InterviewNewIdea
}

// AssistantTurns counts the clarifying questions already asked.
func (r InterviewRequest) AssistantTurns() int {
	n := 0
	for _, t := range r.Messages {
		if t.Role == RoleAssistant {
			n++
		}
	}
	return n
}

// UserAnswers returns the user-authored turn contents in order.
func (r InterviewRequest) UserAnswers() []string {
	var out []string
	for _, t := range r.Messages {
		if t.Role == RoleUser {
			out = append(out, t.Content)
		}
	}
	return out
}

// InterviewReply is the tagged outcome of one dialogue step: either an
// ordinary assistant message or a terminal completed document.
type InterviewReply struct {
	Complete      bool
	Message       string
	FinalDocument string
}
