package usecase

import (
	"strings"

	"github.com/cmgfi/tellcmg-api/internal/core/domain"
)

// FallbackGenerator produces a structured submission without calling the LLM.
// It is the only output path when no API key is configured, so the document
// has to be presentable as-is, not a degraded stub. Pure function of its
// input: identical drafts yield byte-identical documents.
type FallbackGenerator struct {
	catalog *domain.Catalog
}

func NewFallbackGenerator(catalog *domain.Catalog) *FallbackGenerator {
	return &FallbackGenerator{catalog: catalog}
}

// Generate renders the templated markdown submission. Sections appear in a
// fixed order: title, Overview, Category, Context (if present), Detail Level,
// Requirements (if any modifiers), Evaluation Criteria.
func (g *FallbackGenerator) Generate(draft domain.IdeaDraft) string {
	var b strings.Builder

	b.WriteString("# " + g.title(draft.Categories) + " Idea\n\n")
	b.WriteString("## Overview\n" + draft.RawText + "\n\n")
	b.WriteString("## Category\nFocused on " + g.categoryContext(draft.Categories) + ".\n\n")

	if draft.Context != "" {
		b.WriteString("## Context\n" + draft.Context + "\n\n")
	}

	b.WriteString("## Detail Level\n" + domain.DetailInstruction(draft.DetailLevel) + "\n\n")

	if req := g.requirements(draft.Modifiers); req != "" {
		b.WriteString("## Requirements\n- " + req + "\n\n")
	}

	b.WriteString("## Evaluation Criteria\n" +
		"- Problem/opportunity clearly stated\n" +
		"- Solution is specific and actionable\n" +
		"- Benefits quantified where possible")

	return b.String()
}

func (g *FallbackGenerator) title(categories []string) string {
	if len(categories) == 0 {
		return "General"
	}
	labels := make([]string, 0, len(categories))
	for _, id := range categories {
		labels = append(labels, g.catalog.LabelOf(id))
	}
	return strings.Join(labels, " + ")
}

func (g *FallbackGenerator) categoryContext(categories []string) string {
	if len(categories) == 0 {
		return "improving CMG tools and processes"
	}
	parts := make([]string, 0, len(categories))
	for _, id := range categories {
		desc := g.catalog.Describe(id)
		if desc == "general" {
			desc = "improving CMG processes"
		}
		parts = append(parts, desc)
	}
	return strings.Join(parts, "; ")
}

func (g *FallbackGenerator) requirements(ids []string) string {
	var phrases []string
	for _, id := range ids {
		if phrase := g.catalog.ModifierInstruction(id); phrase != "" {
			phrases = append(phrases, phrase)
		}
	}
	return strings.Join(phrases, "\n- ")
}
