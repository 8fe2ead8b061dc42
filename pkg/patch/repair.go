package patch

import "strings"

// stripCodeFences removes a surrounding markdown code fence with any language tag.
func stripCodeFences(text string) (cleaned string) {
	cleaned = strings.TrimSpace(text)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	nl := strings.IndexByte(cleaned, '\n')
	if nl == -1 {
		return cleaned
	}
	body := cleaned[nl+1:]

	body = strings.TrimRight(body, " \t\r\n")
	if !strings.HasSuffix(body, "```") {
		return cleaned
	}

	cleaned = strings.TrimSpace(strings.TrimSuffix(body, "```"))
	return cleaned
}

// largestObjectSpan returns the longest balanced {...} span in text in a single pass, skipping
// braces inside JSON strings. Text outside any object is not scanned for strings. ok is false when
// no balanced span exists.
func largestObjectSpan(text string) (span string, ok bool) {
	bestStart, bestEnd := -1, -1
	var open []int
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = len(open) > 0
		case '{':
			open = append(open, i)
		case '}':
			if len(open) == 0 {
				continue
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			if i-start > bestEnd-bestStart {
				bestStart, bestEnd = start, i
			}
		}
	}

	if bestStart == -1 {
		return span, ok
	}

	span = text[bestStart : bestEnd+1]
	ok = true
	return span, ok
}
