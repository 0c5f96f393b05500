package llm

import (
	"strings"
	"unicode"
)

// basePrompt describes the required JSON output shape. Every analyze call
// starts from this instruction; constraint clauses are appended per config.
const basePrompt = `You are an exam question assistant. Analyze the question in the user message and reply with exactly one JSON object:
{"question": "<the question as shown>", "questionType": "<the question type>", "answer": "<the answer>", "options": ["<option A>", "<option B>", ...]}
Use "single-choice", "multiple-choice", "fill-in-the-blank" or "essay" as the question type unless told otherwise. Include "options" only when the question lists options. Reply with the JSON object only, no other text.`

// BuildSystemPrompt assembles the system prompt: the base instruction, then
// an optional question-type clause, then an optional topic-scope clause, in
// that order, separated by blank lines.
func BuildSystemPrompt(questionTypes []string, scope string) string {
	var clauses []string
	if len(questionTypes) > 0 {
		clauses = append(clauses,
			"Treat the question only as one of the following types: "+
				strings.Join(questionTypes, typeSeparator(questionTypes))+
				". When none apply, answer it as an essay question.")
	}
	if strings.TrimSpace(scope) != "" {
		clauses = append(clauses,
			"The question is restricted to the following topic scope: "+strings.TrimSpace(scope)+".")
	}
	if len(clauses) == 0 {
		return basePrompt
	}
	return basePrompt + "\n\n" + strings.Join(clauses, "\n\n")
}

// typeSeparator joins type labels with the enumeration comma when every
// label is CJK, matching how the labels read in that locale.
func typeSeparator(types []string) string {
	for _, t := range types {
		if !containsHan(t) {
			return ", "
		}
	}
	return "、"
}

func containsHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}
