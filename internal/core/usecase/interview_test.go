package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cmgfi/tellcmg-api/internal/core/domain"
	"github.com/cmgfi/tellcmg-api/internal/core/ports"
)

type chatFake struct {
	reply string
	err   error
	calls int
	last  []domain.ChatMessage
}

func (f *chatFake) Chat(_ context.Context, messages []domain.ChatMessage, _ ports.GenerationOptions) (string, error) {
	f.calls++
	f.last = messages
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func scriptedDialogue() *InterviewDialogue {
	return NewInterviewDialogue(nil, ports.GenerationOptions{})
}

func turns(pairs ...string) []domain.InterviewTurn {
	out := make([]domain.InterviewTurn, 0, len(pairs))
	for i, content := range pairs {
		role := domain.RoleAssistant
		if i%2 == 1 {
			role = domain.RoleUser
		}
		out = append(out, domain.InterviewTurn{Role: role, Content: content})
	}
	return out
}

func TestScriptedStartEnhanceGreeting(t *testing.T) {
	reply, err := scriptedDialogue().Step(context.Background(), domain.InterviewRequest{
		Action:        domain.ActionStart,
		ExistingDraft: "## Existing\nsubmission",
	})
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if reply.Complete {
		t.Fatalf("start must not complete")
	}
	if !strings.Contains(reply.Message, "already have an idea submission") {
		t.Fatalf("expected enhance greeting, got %q", reply.Message)
	}
}

func TestScriptedStartOpenEndedGreeting(t *testing.T) {
	reply, err := scriptedDialogue().Step(context.Background(), domain.InterviewRequest{Action: domain.ActionStart})
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if !strings.Contains(reply.Message, "Welcome!") {
		t.Fatalf("expected open-ended welcome, got %q", reply.Message)
	}
}

func TestScriptedStartAcknowledgesIdea(t *testing.T) {
	reply, err := scriptedDialogue().Step(context.Background(), domain.InterviewRequest{
		Action:     domain.ActionStart,
		Transcript: "automate adverse action letters",
		Category:   "doc-mgmt",
	})
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if !strings.Contains(reply.Message, "doc mgmt") {
		t.Fatalf("greeting should mention the category topic, got %q", reply.Message)
	}
	if !strings.Contains(reply.Message, "What specific problem") {
		t.Fatalf("greeting should ask the first clarifying question, got %q", reply.Message)
	}
}

// A full scripted run: exactly QuestionThreshold assistant questions are
// asked after the greeting before the dialogue completes.
func TestScriptedRunCompletesAtThreshold(t *testing.T) {
	d := scriptedDialogue()
	ctx := context.Background()

	start, err := d.Step(ctx, domain.InterviewRequest{Action: domain.ActionStart, Transcript: "idea", Category: "sla"})
	if err != nil {
		t.Fatalf("start error = %v", err)
	}

	log := []domain.InterviewTurn{{Role: domain.RoleAssistant, Content: start.Message}}
	questions := 0
	for i := 0; i < 10; i++ {
		log = append(log, domain.InterviewTurn{Role: domain.RoleUser, Content: "answer"})
		reply, err := d.Step(ctx, domain.InterviewRequest{
			Action:     domain.ActionContinue,
			Transcript: "idea",
			Category:   "sla",
			Messages:   log,
		})
		if err != nil {
			t.Fatalf("continue error = %v", err)
		}
		if reply.Complete {
			if reply.FinalDocument == "" {
				t.Fatalf("completed with empty document")
			}
			if questions+1 != QuestionThreshold {
				t.Fatalf("expected %d follow-up questions before completion, got %d", QuestionThreshold-1, questions)
			}
			if !strings.Contains(reply.FinalDocument, "## Idea Description\nidea") {
				t.Fatalf("final document missing idea description:\n%s", reply.FinalDocument)
			}
			if !strings.Contains(reply.FinalDocument, "## Idea Category\nSla") {
				t.Fatalf("final document missing category section:\n%s", reply.FinalDocument)
			}
			return
		}
		questions++
		log = append(log, domain.InterviewTurn{Role: domain.RoleAssistant, Content: reply.Message})
	}
	t.Fatalf("scripted interview never completed")
}

func TestScriptedEnhanceMergePreservesExisting(t *testing.T) {
	existing := "## Problem\nturn times\n\n## Proposed Solution\nalerting"
	reply, err := scriptedDialogue().Step(context.Background(), domain.InterviewRequest{
		Action:        domain.ActionContinue,
		ExistingDraft: existing,
		Messages:      turns("q1", "a1", "q2", "a2"),
	})
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if !reply.Complete {
		t.Fatalf("expected completion at threshold")
	}
	if !strings.HasPrefix(reply.FinalDocument, existing) {
		t.Fatalf("merge must preserve prior content:\n%s", reply.FinalDocument)
	}
	if !strings.Contains(reply.FinalDocument, "- a1") || !strings.Contains(reply.FinalDocument, "- a2") {
		t.Fatalf("merge must include interview answers:\n%s", reply.FinalDocument)
	}
}

func TestScriptedGenerateActionCompletesEarly(t *testing.T) {
	reply, err := scriptedDialogue().Step(context.Background(), domain.InterviewRequest{
		Action:     domain.ActionGenerate,
		Transcript: "idea",
		Messages:   turns("q1", "a1"),
	})
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if !reply.Complete || reply.FinalDocument == "" {
		t.Fatalf("generate action should always complete, got %+v", reply)
	}
}

func TestLLMCompletionSentinelExtracted(t *testing.T) {
	gen := &chatFake{reply: "[COMPLETE]\n## Final\nmerged\n[/COMPLETE]"}
	d := NewInterviewDialogue(gen, ports.GenerationOptions{})

	reply, err := d.Step(context.Background(), domain.InterviewRequest{
		Action:   domain.ActionGenerate,
		Messages: turns("q1", "a1", "q2", "a2"),
	})
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if !reply.Complete || reply.FinalDocument != "## Final\nmerged" {
		t.Fatalf("sentinel extraction failed: %+v", reply)
	}
}

func TestLLMMissingSentinelStaysNonTerminal(t *testing.T) {
	gen := &chatFake{reply: "One more thing: who reviews these today?"}
	d := NewInterviewDialogue(gen, ports.GenerationOptions{})

	reply, err := d.Step(context.Background(), domain.InterviewRequest{
		Action:   domain.ActionGenerate,
		Messages: turns("q1", "a1", "q2", "a2"),
	})
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if reply.Complete {
		t.Fatalf("missing sentinel must not complete the dialogue")
	}
	if reply.Message != gen.reply {
		t.Fatalf("raw response should surface as assistant message")
	}
}

func TestLLMErrorFallsBackToScript(t *testing.T) {
	gen := &chatFake{err: errors.New("upstream 502")}
	d := NewInterviewDialogue(gen, ports.GenerationOptions{})

	reply, err := d.Step(context.Background(), domain.InterviewRequest{
		Action:     domain.ActionContinue,
		Transcript: "idea",
		Messages:   turns("q1", "a1"),
	})
	if err != nil {
		t.Fatalf("LLM failure must not surface: %v", err)
	}
	if reply.Complete {
		t.Fatalf("one answered question should not complete")
	}
	if reply.Message == "" {
		t.Fatalf("scripted question expected")
	}
}

func TestLLMCancellationSurfaces(t *testing.T) {
	gen := &chatFake{err: context.Canceled}
	d := NewInterviewDialogue(gen, ports.GenerationOptions{})

	_, err := d.Step(context.Background(), domain.InterviewRequest{Action: domain.ActionStart})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("cancellation should propagate, got %v", err)
	}
}

func TestLLMEnhanceModeUsesEnhanceSystemPrompt(t *testing.T) {
	gen := &chatFake{reply: "ok"}
	d := NewInterviewDialogue(gen, ports.GenerationOptions{})

	_, err := d.Step(context.Background(), domain.InterviewRequest{
		Action:        domain.ActionStart,
		ExistingDraft: "## Existing",
	})
	if err != nil {
		t.Fatalf("Step() error = %v", err)
	}
	if len(gen.last) == 0 || gen.last[0].Role != domain.RoleSystem {
		t.Fatalf("first message must be the system prompt")
	}
	if !strings.Contains(gen.last[0].Content, "wants to enhance it") {
		t.Fatalf("enhance mode should select the enhancement system prompt")
	}
}

func TestPhaseDerivation(t *testing.T) {
	cases := []struct {
		name string
		req  domain.InterviewRequest
		want domain.InterviewPhase
	}{
		{"start", domain.InterviewRequest{Action: domain.ActionStart}, domain.PhaseStart},
		{"questioning", domain.InterviewRequest{Action: domain.ActionContinue, Messages: turns("q1", "a1")}, domain.PhaseQuestioning},
		{"threshold", domain.InterviewRequest{Action: domain.ActionContinue, Messages: turns("q1", "a1", "q2", "a2")}, domain.PhaseCompleting},
		{"generate", domain.InterviewRequest{Action: domain.ActionGenerate}, domain.PhaseCompleting},
	}
	for _, tc := range cases {
		if got := Phase(tc.req); got != tc.want {
			t.Fatalf("%s: expected phase %s, got %s", tc.name, tc.want, got)
		}
	}
}

func TestStepRejectsUnknownAction(t *testing.T) {
	_, err := scriptedDialogue().Step(context.Background(), domain.InterviewRequest{Action: "interrogate"})
	if !domain.IsKind(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
