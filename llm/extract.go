package llm

import (
	"regexp"
	"strings"
)

// Models rarely return the bare JSON object they were asked for: the payload
// arrives inside a fenced code block, or embedded in explanatory prose.
var fencedPayload = regexp.MustCompile("(?s)```[a-zA-Z0-9]*\\s*([{\\[].*[}\\]])\\s*```")

// ExtractJSONPayload pulls the JSON document out of raw model output.
// Precedence: the inner payload of a fenced code block, then the first
// balanced brace/bracket run, then the trimmed input unchanged.
func ExtractJSONPayload(content string) string {
	if m := fencedPayload.FindStringSubmatch(content); m != nil {
		return m[1]
	}
	if payload, ok := scanBalanced(content); ok {
		return payload
	}
	return strings.TrimSpace(content)
}

// scanBalanced finds the earliest '{' or '[' and walks forward tracking the
// nesting depth of that bracket type, skipping quoted strings so braces
// inside string values (including escaped quotes) don't end the scan early.
func scanBalanced(s string) (string, bool) {
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", false
	}
	open := s[start]
	closing := byte('}')
	if open == '[' {
		closing = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
