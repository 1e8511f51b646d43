package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmgfi/tellcmg-api/internal/core/domain"
	"github.com/cmgfi/tellcmg-api/internal/core/ports"
)

// QuestionThreshold bounds the interview length: once this many clarifying
// questions have been asked, the next user answer triggers completion. A
// design constant, not user-configurable.
const QuestionThreshold = 2

const interviewSystemPromptNew = `You are an expert idea refinement assistant at CMG Financial. Employees submit ideas to the IT Product team through you. Your goal is to help them articulate a compelling business case by asking 2-4 focused questions, then generating a structured submission.

When starting an interview:
1. Greet the employee warmly
2. Acknowledge their initial idea (if provided)
3. Ask your first clarifying question

Good questions to ask:
- What specific problem or pain point does this solve in your day-to-day work?
- How does this affect you, your team, or your borrowers today?
- Who else would benefit from this — which teams, roles, or borrower segments?
- What does the ideal outcome look like? How would you measure success?
- How often does this issue come up? Can you estimate time lost or errors caused?

Rules:
- Ask only 1 question at a time
- Keep questions concise and friendly
- Focus on business value, stakeholders, ROI, and wins — NOT technical implementation
- After 2-4 questions (when you have enough context), generate the final idea submission
- When ready to complete, respond with EXACTLY this format:

[COMPLETE]
<your structured idea submission here>
[/COMPLETE]

The idea submission should include these sections:
- Problem or Opportunity
- Proposed Solution (the "what," not the "how")
- Business Case & ROI
- Stakeholders & Who Benefits
- Value & Quick Wins
Do NOT include implementation details, technical architecture, phases, or timelines. Use markdown formatting.`

const interviewSystemPromptEnhance = `You are an expert idea refinement assistant at CMG Financial. The employee already has a generated idea submission and wants to enhance it for the IT Product team. Ask 2-3 clarifying questions to strengthen the business case, then merge everything into an improved version.

When starting an enhancement:
1. Acknowledge their existing submission
2. Ask what they'd like to add, change, or strengthen
3. Focus on business value, ROI, stakeholders, or wins that may be missing

Good questions:
- What would you like to add or change in this submission?
- Can you estimate the business impact — time saved, errors reduced, revenue affected?
- Are there other teams or stakeholders who would benefit that we should mention?
- Are there specific metrics or outcomes you want to highlight?

Rules:
- Ask only 1 question at a time
- After 2-3 questions, merge new information with the existing submission
- PRESERVE the good parts of the existing submission
- Focus on strengthening the business case, NOT adding technical details
- When ready, respond with:

[COMPLETE]
<your merged/enhanced submission here>
[/COMPLETE]`

// InterviewDialogue drives the turn-based clarifying conversation. The server
// keeps no session state: each request carries the full turn log, and the
// phase is derived from it.
//
// With a configured generator the assistant side is LLM-authored; without one,
// or when the generator fails, a deterministic scripted sequence guarantees
// the dialogue still reaches a finished document.
type InterviewDialogue struct {
	generator ports.ChatGenerator // nil means no credential configured
	opts      ports.GenerationOptions
}

func NewInterviewDialogue(generator ports.ChatGenerator, opts ports.GenerationOptions) *InterviewDialogue {
	return &InterviewDialogue{generator: generator, opts: opts}
}

// Phase derives the state machine position for an incoming request.
func Phase(req domain.InterviewRequest) domain.InterviewPhase {
	switch {
	case req.Action == domain.ActionStart:
		return domain.PhaseStart
	case req.Action == domain.ActionGenerate || req.AssistantTurns() >= QuestionThreshold:
		return domain.PhaseCompleting
	default:
		return domain.PhaseQuestioning
	}
}

// Step advances the dialogue by one turn. The reply is tagged: either an
// ordinary assistant message (the dialogue stays open) or a terminal
// non-empty final document.
func (d *InterviewDialogue) Step(ctx context.Context, req domain.InterviewRequest) (domain.InterviewReply, error) {
	switch req.Action {
	case domain.ActionStart, domain.ActionContinue, domain.ActionGenerate:
	default:
		return domain.InterviewReply{}, domain.WrapError(domain.ErrInvalidInput, "interview step",
			fmt.Errorf("unknown action %q", req.Action))
	}

	if d.generator == nil {
		return d.scripted(req), nil
	}

	raw, err := d.generator.Chat(ctx, d.messages(req), d.opts)
	if err != nil {
		// Cancellation is the caller's doing, not a dialogue failure.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return domain.InterviewReply{}, err
		}
		slog.Warn("interview_llm_fallback", "action", string(req.Action), "error", err)
		return d.scripted(req), nil
	}

	result := ParseCompletion(raw)
	if result.Complete {
		return domain.InterviewReply{Complete: true, FinalDocument: result.Document}, nil
	}
	return domain.InterviewReply{Message: result.Message}, nil
}

// messages assembles the LLM conversation for one step.
func (d *InterviewDialogue) messages(req domain.InterviewRequest) []domain.ChatMessage {
	system := interviewSystemPromptNew
	if req.Mode() == domain.InterviewEnhance {
		system = interviewSystemPromptEnhance
	}
	msgs := []domain.ChatMessage{{Role: domain.RoleSystem, Content: system}}

	intro := d.contextMessage(req)
	switch req.Action {
	case domain.ActionStart:
		var instruction string
		switch {
		case req.Mode() == domain.InterviewEnhance:
			instruction = "Acknowledge their submission and ask what they'd like to improve."
		case strings.TrimSpace(req.Transcript) != "":
			instruction = "Greet them and ask your first clarifying question."
		default:
			instruction = "Welcome them warmly and ask what idea they'd like to explore. Be enthusiastic and open-ended."
		}
		msgs = append(msgs, domain.ChatMessage{Role: domain.RoleUser, Content: intro + "\n\n" + instruction})

	case domain.ActionContinue:
		msgs = append(msgs, domain.ChatMessage{Role: domain.RoleUser, Content: intro})
		for _, turn := range req.Messages {
			msgs = append(msgs, domain.ChatMessage{Role: turn.Role, Content: turn.Content})
		}

	case domain.ActionGenerate:
		msgs = append(msgs, domain.ChatMessage{Role: domain.RoleUser, Content: intro})
		for _, turn := range req.Messages {
			msgs = append(msgs, domain.ChatMessage{Role: turn.Role, Content: turn.Content})
		}
		instruction := "Generate the final idea submission now. Respond with:\n\n[COMPLETE]\n<submission>\n[/COMPLETE]"
		if req.Mode() == domain.InterviewEnhance {
			instruction = "Merge the new information with the existing submission. Respond with:\n\n[COMPLETE]\n<merged submission>\n[/COMPLETE]"
		}
		msgs = append(msgs, domain.ChatMessage{Role: domain.RoleUser, Content: instruction})
	}

	return msgs
}

func (d *InterviewDialogue) contextMessage(req domain.InterviewRequest) string {
	hasTranscript := strings.TrimSpace(req.Transcript) != ""
	switch {
	case req.Mode() == domain.InterviewEnhance:
		return fmt.Sprintf("A loan officer wants to enhance their %q idea. Their initial description: %q\n\nExisting submission:\n\n---EXISTING---\n%s\n---END---\n\nHelp them improve it.",
			req.Category, req.Transcript, req.ExistingDraft)
	case hasTranscript:
		return fmt.Sprintf("A loan officer has an idea about %q. Their description:\n\n%q", req.Category, req.Transcript)
	case req.Category != "":
		return fmt.Sprintf("A loan officer wants to brainstorm a new idea in the %q category. They haven't written anything yet — help them discover and articulate their idea through conversation.", req.Category)
	default:
		return "A loan officer wants to brainstorm a new idea. They haven't written anything yet — help them discover and articulate their idea through conversation."
	}
}

// scripted is the deterministic no-LLM path: fixed greetings, an ordered
// question list indexed by turn count, and a templated transcript merge once
// the threshold is reached. It always terminates.
func (d *InterviewDialogue) scripted(req domain.InterviewRequest) domain.InterviewReply {
	enhance := req.Mode() == domain.InterviewEnhance

	if req.Action == domain.ActionStart {
		switch {
		case enhance:
			return domain.InterviewReply{Message: "I see you already have an idea submission. Let me help you refine it!\n\nWhat would you like to add, change, or clarify?"}
		case strings.TrimSpace(req.Transcript) == "":
			return domain.InterviewReply{Message: "Welcome! I'm here to help you brainstorm and develop an idea for CMG.\n\nWhat's on your mind? Tell me about a challenge, pain point, or improvement you'd like to see."}
		default:
			topic := "improving our processes"
			if req.Category != "" {
				topic = strings.ReplaceAll(req.Category, "-", " ")
			}
			return domain.InterviewReply{Message: fmt.Sprintf("Great idea about %s! Let me help you flesh it out.\n\nWhat specific problem or pain point does this solve for you or your borrowers?", topic)}
		}
	}

	answers := strings.Join(req.UserAnswers(), "\n- ")

	if req.AssistantTurns() >= QuestionThreshold {
		if enhance {
			return domain.InterviewReply{
				Complete:      true,
				FinalDocument: req.ExistingDraft + "\n\n## Additional Details from Interview\n- " + answers,
			}
		}
		category := "General Improvement"
		if req.Category != "" {
			category = domain.TitleCaseID(req.Category)
		}
		return domain.InterviewReply{
			Complete: true,
			FinalDocument: "## Idea Category\n" + category +
				"\n\n## Idea Description\n" + req.Transcript +
				"\n\n## Additional Context from Interview\n- " + answers +
				"\n\n## Expected Benefits\nPlease evaluate this idea for potential impact on efficiency, borrower experience, and business growth.",
		}
	}

	if req.Action == domain.ActionGenerate {
		if answers == "" {
			answers = "No additional context provided"
		}
		if enhance {
			return domain.InterviewReply{
				Complete:      true,
				FinalDocument: req.ExistingDraft + "\n\n## Additional Details\n- " + answers,
			}
		}
		category := req.Category
		if category == "" {
			category = "General"
		}
		transcript := req.Transcript
		if strings.TrimSpace(transcript) == "" {
			transcript = "Idea submission"
		}
		return domain.InterviewReply{
			Complete: true,
			FinalDocument: "## Idea Category\n" + category +
				"\n\n## Description\n" + transcript +
				"\n\n## Interview Context\n- " + answers +
				"\n\n## Next Steps\nPlease evaluate for feasibility and impact.",
		}
	}

	questions := scriptedQuestionsNew
	if enhance {
		questions = scriptedQuestionsEnhance
	}
	idx := req.AssistantTurns()
	if idx >= len(questions) {
		idx = 0
	}
	return domain.InterviewReply{Message: questions[idx]}
}

var scriptedQuestionsNew = []string{
	"Which teams or systems would this affect the most?",
	"What does success look like — how would you measure the improvement?",
	"Is there anything else leadership should know about this idea?",
}

var scriptedQuestionsEnhance = []string{
	"What specific section would you like to expand or modify?",
	"Are there any edge cases or scenarios you want to add?",
	"Should we adjust the priority or scope of any part?",
}
