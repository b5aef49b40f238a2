// Package script turns raw prompt prose into an ordered list of scene sentences.
package script

import (
	"regexp"
	"strings"
)

// Runs of sentence terminators or newlines collapse into a single boundary.
var boundary = regexp.MustCompile(`[.!?\r\n]+`)

// Segment splits text into trimmed, non-empty sentences, preserving order.
// Whitespace-only input yields an empty slice.
func Segment(text string) []string {
	parts := boundary.Split(text, -1)
	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			sentences = append(sentences, p)
		}
	}
	return sentences
}
