package condense

import (
	"regexp"
	"strings"
	"unicode"
)

//nolint:gochecknoglobals // compiled once
var trailingRun = regexp.MustCompile(`[\s.,;:!?\-–—]+$`)

// tidySummary is the cosmetic pass. It touches only the end of the summary: trailing whitespace and
// separators are removed and a run of closing punctuation is squeezed to its last terminal mark.
// Wording is never changed.
func tidySummary(s string) (out string) {
	out = strings.TrimSpace(s)

	run := trailingRun.FindString(out)
	if run == "" {
		return out
	}

	out = out[:len(out)-len(run)]
	if i := strings.LastIndexAny(run, ".!?"); i != -1 {
		out += run[i : i+1]
	}

	return out
}

// firstSentences keeps the first n sentences of s. A sentence ends at '.', '!' or '?' followed by
// whitespace or the end of the text.
func firstSentences(s string, n int) (out string) {
	sentences := splitSentences(s)
	if len(sentences) <= n {
		out = s
		return out
	}
	out = strings.Join(sentences[:n], " ")
	return out
}

func splitSentences(s string) (sentences []string) {
	runes := []rune(strings.TrimSpace(s))
	start := 0

	for i, r := range runes {
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if i+1 < len(runes) && !unicode.IsSpace(runes[i+1]) {
			continue
		}
		sentence := strings.TrimSpace(string(runes[start : i+1]))
		if sentence != "" {
			sentences = append(sentences, sentence)
		}
		start = i + 1
	}

	if tail := strings.TrimSpace(string(runes[start:])); tail != "" {
		sentences = append(sentences, tail)
	}

	return sentences
}
