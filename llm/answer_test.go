package llm

import "testing"

func TestAnswerFormat(t *testing.T) {
	answer := Answer{
		Question:     "2+2=?",
		QuestionType: "single-choice",
		Answer:       "4",
		Options:      []string{"A. 3", "B. 4"},
	}

	tests := []struct {
		name         string
		showQuestion bool
		showOptions  bool
		expected     string
	}{
		{"all blocks", true, true, "[Question]\n2+2=?\n\n[Options]\nA. 3\nB. 4\n\n[Answer]\n4"},
		{"answer only", false, false, "[Answer]\n4"},
		{"question only", true, false, "[Question]\n2+2=?\n\n[Answer]\n4"},
		{"options only", false, true, "[Options]\nA. 3\nB. 4\n\n[Answer]\n4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := answer.Format(tt.showQuestion, tt.showOptions)
			if got != tt.expected {
				t.Errorf("Format(%v, %v) = %q, expected %q", tt.showQuestion, tt.showOptions, got, tt.expected)
			}
		})
	}
}

func TestAnswerFormatEmptyBlocks(t *testing.T) {
	// Enabled blocks with no content are dropped entirely.
	answer := Answer{QuestionType: QuestionTypeEssay, Answer: "Paris"}
	got := answer.Format(true, true)
	if got != "[Answer]\nParis" {
		t.Errorf("Expected bare answer block, got %q", got)
	}
}
