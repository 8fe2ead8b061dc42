package jd

import (
	"sort"
	"strings"
	"unicode"

	"github.com/nikogura/onepage-tailor/pkg/resume"
)

// DefaultKeywordLimit caps how many keywords a target carries.
const DefaultKeywordLimit = 25

//nolint:gochecknoglobals // Read-only lookup table
var stopWords = map[string]bool{
	"a": true, "about": true, "above": true, "across": true, "after": true, "all": true, "also": true,
	"an": true, "and": true, "any": true, "are": true, "as": true, "at": true, "be": true, "because": true,
	"been": true, "benefits": true, "best": true, "both": true, "but": true, "by": true, "can": true,
	"candidate": true, "company": true, "could": true, "day": true, "do": true, "each": true, "etc": true,
	"experience": true, "for": true, "from": true, "get": true, "has": true, "have": true, "help": true,
	"how": true, "if": true, "in": true, "including": true, "into": true, "is": true, "it": true, "its": true,
	"job": true, "join": true, "just": true, "like": true, "looking": true, "make": true, "may": true,
	"more": true, "most": true, "must": true, "new": true, "not": true, "of": true, "on": true, "one": true,
	"or": true, "other": true, "our": true, "out": true, "over": true, "own": true, "plus": true,
	"preferred": true, "required": true, "requirements": true, "responsibilities": true, "role": true,
	"should": true, "skills": true, "so": true, "some": true, "strong": true, "such": true, "team": true,
	"than": true, "that": true, "the": true, "their": true, "them": true, "there": true, "these": true,
	"they": true, "this": true, "to": true, "up": true, "us": true, "using": true, "very": true,
	"want": true, "we": true, "well": true, "were": true, "what": true, "when": true, "where": true,
	"which": true, "while": true, "who": true, "will": true, "with": true, "work": true, "working": true,
	"would": true, "year": true, "years": true, "you": true, "your": true,
}

// ExtractKeywords returns up to limit distinct lower-case keywords from text, most frequent first.
// Ties keep first-appearance order. Tokens such as "c++", "ci/cd" and "node.js" survive intact.
func ExtractKeywords(text string, limit int) (keywords []string) {
	if limit <= 0 {
		limit = DefaultKeywordLimit
	}

	counts := make(map[string]int)
	var order []string

	for _, token := range tokenize(text) {
		if len([]rune(token)) < 2 || stopWords[token] || isNumber(token) {
			continue
		}
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > limit {
		order = order[:limit]
	}

	keywords = order
	return keywords
}

// NewTarget builds a job target from a description, extracting its keywords.
func NewTarget(description string, limit int) (target resume.JobTarget) {
	target = resume.NewJobTarget(description, ExtractKeywords(description, limit))
	return target
}

// Tokenize splits text into lower-case word tokens.
func Tokenize(text string) (tokens []string) {
	tokens = tokenize(text)
	return tokens
}

func tokenize(text string) (tokens []string) {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || strings.ContainsRune("+#./-", r))
	})

	for _, field := range fields {
		token := strings.Trim(field, ".-/")
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}

func isNumber(token string) (numeric bool) {
	numeric = strings.IndexFunc(token, func(r rune) bool { return !unicode.IsDigit(r) && r != '.' }) < 0
	return numeric
}
