package usecase

import (
	"regexp"
	"strings"
)

// Completion sentinel literals. The interview LLM wraps its final document in
// these markers; everything else is an ordinary mid-dialogue message. The
// literals are a wire contract shared with the interview system prompts.
const (
	CompletionOpen  = "[COMPLETE]"
	CompletionClose = "[/COMPLETE]"
)

// First-match, non-greedy: only the text between the first opening marker and
// the first closing marker after it counts.
var completionPattern = regexp.MustCompile(`(?s)\[COMPLETE\](.*?)\[/COMPLETE\]`)

// CompletionResult is the tagged outcome of scanning an interview response.
type CompletionResult struct {
	Complete bool
	// Document is the trimmed text between the sentinels when Complete.
	Document string
	// Message is the raw response when not Complete.
	Message string
}

// ParseCompletion scans a response for the sentinel pair. A missing pair, or a
// pair wrapping only whitespace, yields a mid-dialogue message rather than an
// error: a malformed completion must not silently produce a broken terminal
// state, and the caller may simply re-prompt.
func ParseCompletion(raw string) CompletionResult {
	match := completionPattern.FindStringSubmatch(raw)
	if match == nil {
		return CompletionResult{Message: raw}
	}
	doc := strings.TrimSpace(match[1])
	if doc == "" {
		return CompletionResult{Message: raw}
	}
	return CompletionResult{Complete: true, Document: doc}
}
