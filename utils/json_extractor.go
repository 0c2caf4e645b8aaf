package utils

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSONFound is returned when no JSON array is present in a model reply.
var ErrNoJSONFound = errors.New("no JSON array found in response")

// UnwrapCodeFence strips a surrounding ``` fence. The opening line (which
// may carry a language tag) is always dropped when the text starts with a
// fence; the closing line is dropped when it is a fence.
func UnwrapCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	lines := strings.Split(s, "\n")
	lines = lines[1:]
	if n := len(lines); n > 0 && strings.HasPrefix(strings.TrimSpace(lines[n-1]), "```") {
		lines = lines[:n-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ExtractJSONArray returns the JSON array text embedded in a model reply.
// Fences are removed first; when the remainder does not start with '[' the
// slice from the first '[' to the last ']' is returned. The result is not
// validated; callers decode it and handle syntax errors.
func ExtractJSONArray(response string) (string, error) {
	text := UnwrapCodeFence(response)
	if strings.HasPrefix(text, "[") {
		return text, nil
	}

	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("%w: response length=%d", ErrNoJSONFound, len(response))
	}
	return text[start : end+1], nil
}
