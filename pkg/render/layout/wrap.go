package layout

import (
	"strings"

	"github.com/matzehuels/topicsheet/pkg/fonts"
	"github.com/matzehuels/topicsheet/pkg/render/metrics"
)

// Wrap breaks text into lines no wider than maxWidth using greedy word
// packing. Words are maximal runs of non-whitespace; they are joined with a
// single space and never split. A word wider than maxWidth on its own is
// kept on a line of its own and overflows.
//
// Empty or whitespace-only text yields no lines.
func Wrap(m metrics.Measurer, text string, maxWidth float64, face fonts.Face) ([]string, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	var lines []string
	cur := ""
	for _, word := range words {
		candidate := word
		if cur != "" {
			candidate = cur + " " + word
		}
		w, err := m.Width(candidate, face)
		if err != nil {
			return nil, err
		}
		if w <= maxWidth || cur == "" {
			cur = candidate
			continue
		}
		lines = append(lines, cur)
		cur = word
	}
	return append(lines, cur), nil
}

// Oversized returns the lines wider than maxWidth. After [Wrap] these are
// always single words.
func Oversized(m metrics.Measurer, lines []string, maxWidth float64, face fonts.Face) ([]string, error) {
	var out []string
	for _, line := range lines {
		w, err := m.Width(line, face)
		if err != nil {
			return nil, err
		}
		if w > maxWidth {
			out = append(out, line)
		}
	}
	return out, nil
}
