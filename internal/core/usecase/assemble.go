package usecase

import (
	"strings"

	"github.com/cmgfi/tellcmg-api/internal/core/domain"
)

// Truncation bounds keep the assembled instruction within a predictable
// request size. Over-limit content is cut silently, never rejected.
const (
	attachmentRuneLimit   = 10000
	urlReferenceRuneLimit = 15000
)

// StructuringSystemPrompt is the fixed instruction sent with every one-shot
// structuring request.
const StructuringSystemPrompt = `You are an expert idea refinement assistant for CMG Financial. Your job is to take a loan officer's rough idea and transform it into a well-structured, actionable idea submission that leadership and product teams can evaluate.

Given the user's input and their selected preferences, generate a detailed, actionable idea submission that:
1. Clearly states the problem or opportunity
2. Describes the proposed solution or improvement
3. Explains expected benefits and impact
4. Identifies affected teams, systems, and stakeholders
5. Includes implementation considerations

Output ONLY the structured idea — no meta-commentary. Be thorough, specific, and include mortgage industry context.`

// PromptAssembler deterministically serializes an IdeaDraft into a single
// instruction document. Section order is part of the contract: downstream
// models are sensitive to structure, so tests pin it.
type PromptAssembler struct {
	catalog *domain.Catalog
}

func NewPromptAssembler(catalog *domain.Catalog) *PromptAssembler {
	return &PromptAssembler{catalog: catalog}
}

// Assemble builds the user-role instruction document for a draft. The draft's
// RawText must be non-empty after trimming; callers validate before assembly.
func (a *PromptAssembler) Assemble(draft domain.IdeaDraft) string {
	var b strings.Builder

	b.WriteString("Transform this loan officer's idea into a structured submission:\n\n")
	b.WriteString(`IDEA: "` + draft.RawText + `"` + "\n\n")
	b.WriteString("CATEGORIES: " + a.categoryList(draft.Categories) + "\n\n")
	b.WriteString("DETAIL: " + domain.DetailInstruction(draft.DetailLevel) + "\n")
	b.WriteString("FORMAT: " + domain.FormatInstruction(draft.OutputFormat) + "\n")

	if draft.Context != "" {
		b.WriteString("\nCONTEXT: " + draft.Context + "\n")
	}

	if len(draft.Attachments) > 0 {
		b.WriteString("\n\nATTACHED FILES:\n")
		for i, att := range draft.Attachments {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("--- " + att.Name + " ---\n")
			b.WriteString(truncateRunes(att.Content, attachmentRuneLimit))
			b.WriteString("\n")
		}
	}

	if len(draft.URLReferences) > 0 {
		b.WriteString("\n\nREFERENCED URLS:\n")
		for i, ref := range draft.URLReferences {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("--- " + ref.Title + " (" + ref.URL + ") ---\n")
			b.WriteString(truncateRunes(ref.Content, urlReferenceRuneLimit))
			b.WriteString("\n")
		}
	}

	if req := a.requirements(draft.Modifiers); req != "" {
		b.WriteString("\nREQUIREMENTS:\n- " + req)
	}

	b.WriteString("\n\nGenerate a detailed, well-structured idea submission.")
	return b.String()
}

// Messages pairs the fixed system instruction with the assembled document.
func (a *PromptAssembler) Messages(draft domain.IdeaDraft) []domain.ChatMessage {
	return []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: StructuringSystemPrompt},
		{Role: domain.RoleUser, Content: a.Assemble(draft)},
	}
}

func (a *PromptAssembler) categoryList(ids []string) string {
	if len(ids) == 0 {
		return "general improvement idea"
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, id+" ("+a.catalog.Describe(id)+")")
	}
	return strings.Join(parts, " + ")
}

// requirements resolves modifier ids to instruction phrases, silently
// dropping ids the catalog does not know.
func (a *PromptAssembler) requirements(ids []string) string {
	var phrases []string
	for _, id := range ids {
		if phrase := a.catalog.ModifierInstruction(id); phrase != "" {
			phrases = append(phrases, phrase)
		}
	}
	return strings.Join(phrases, "\n- ")
}

func truncateRunes(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
