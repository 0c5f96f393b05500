package llm

import "testing"

func TestExtractJSONPayload(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			"bare object",
			`{"answer": "4"}`,
			`{"answer": "4"}`,
		},
		{
			"fenced json block",
			"Sure! Here you go:\n```json\n{\"answer\": \"4\"}\n```\nHope that helps.",
			`{"answer": "4"}`,
		},
		{
			"fenced block without language tag",
			"```\n[1, 2, 3]\n```",
			"[1, 2, 3]",
		},
		{
			"object embedded in prose",
			`The result is {"answer": "4"} as computed.`,
			`{"answer": "4"}`,
		},
		{
			"nested object with brace in string",
			`Here is the answer: {"a": {"b": "}\"}"}} done`,
			`{"a": {"b": "}\"}"}}`,
		},
		{
			"array embedded in prose",
			`Values: ["a", "b"] only.`,
			`["a", "b"]`,
		},
		{
			"no brackets falls back to trimmed input",
			"  just plain text  ",
			"just plain text",
		},
		{
			"unbalanced braces fall back to trimmed input",
			`broken {"answer": `,
			`broken {"answer":`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractJSONPayload(tt.content)
			if got != tt.expected {
				t.Errorf("ExtractJSONPayload(%q) = %q, expected %q", tt.content, got, tt.expected)
			}
		})
	}
}
