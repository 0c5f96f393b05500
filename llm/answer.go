package llm

import "strings"

// QuestionTypeEssay is the generic fallback type used when the model's
// output cannot be parsed into a structured answer.
const QuestionTypeEssay = "essay"

// Answer is the structured result parsed from the model's reply.
type Answer struct {
	Question     string   `json:"question"`
	QuestionType string   `json:"questionType"`
	Answer       string   `json:"answer"`
	Options      []string `json:"options,omitempty"`
}

// Format renders the answer for display. Question and options blocks are
// gated on the answer-card flags; the answer body is always present.
func (a Answer) Format(showQuestion, showOptions bool) string {
	var b strings.Builder
	if showQuestion && a.Question != "" {
		b.WriteString("[Question]\n")
		b.WriteString(a.Question)
		b.WriteString("\n\n")
	}
	if showOptions && len(a.Options) > 0 {
		b.WriteString("[Options]\n")
		for _, opt := range a.Options {
			b.WriteString(opt)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString("[Answer]\n")
	b.WriteString(a.Answer)
	return b.String()
}
