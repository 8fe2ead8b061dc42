// Package scorer rates a tailored resume against a job target without calling a model.
package scorer

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/nikogura/onepage-tailor/pkg/jd"
	"github.com/nikogura/onepage-tailor/pkg/resume"
)

// Violation is one failed rule.
type Violation struct {
	Rule     string `json:"rule"`
	Severity string `json:"severity"`
	Detail   string `json:"detail"`
}

// Report is the result of scoring a candidate.
type Report struct {
	Score      int         `json:"score"`
	Band       string      `json:"band"`
	Coverage   int         `json:"coverage"`
	Matched    []string    `json:"matched"`
	Missing    []string    `json:"missing"`
	Violations []Violation `json:"violations,omitempty"`
}

// Scorer calculates fit scores.
type Scorer struct{}

// NewScorer creates a new scorer instance.
func NewScorer() (scorer *Scorer) {
	scorer = &Scorer{}
	return scorer
}

// Score rates candidate for job. Coverage is the share of job keywords present in the candidate;
// fidelity rules compare the candidate against master and deduct for content that was not there.
func (s *Scorer) Score(master, candidate resume.Document, job resume.JobTarget) (report Report) {
	report.Matched, report.Missing = s.coverage(candidate, job.Keywords())

	total := len(report.Matched) + len(report.Missing)
	report.Coverage = 100
	if total > 0 {
		report.Coverage = len(report.Matched) * 100 / total
	}

	report.Violations = append(report.Violations, s.skillViolations(master, candidate)...)
	report.Violations = append(report.Violations, s.metricViolations(master, candidate)...)
	if strings.TrimSpace(candidate.Summary) == "" {
		report.Violations = append(report.Violations, violation(RuleEmptySummary, "summary"))
	}

	score := report.Coverage
	for _, v := range report.Violations {
		score -= ScoringRules[v.Rule].Weight
	}
	if score < 0 {
		score = 0
	}

	report.Score = score
	report.Band = BandFor(score)
	return report
}

func (s *Scorer) coverage(doc resume.Document, keywords []string) (matched, missing []string) {
	present := make(map[string]bool)
	for _, token := range jd.Tokenize(documentText(doc)) {
		present[token] = true
	}

	matched = []string{}
	missing = []string{}
	for _, kw := range keywords {
		if present[strings.ToLower(kw)] {
			matched = append(matched, kw)
			continue
		}
		missing = append(missing, kw)
	}
	return matched, missing
}

func (s *Scorer) skillViolations(master, candidate resume.Document) (violations []Violation) {
	known := make(map[string]bool)
	for _, skill := range master.Skills {
		known[normalize(skill)] = true
	}
	masterText := strings.ToLower(documentText(master))

	for _, skill := range candidate.Skills {
		if known[normalize(skill)] || strings.Contains(masterText, normalize(skill)) {
			continue
		}
		violations = append(violations, violation(RuleSkillFabrication, skill))
	}
	return violations
}

//nolint:gochecknoglobals // Compiled once
var metricPattern = regexp.MustCompile(`[$€£]?\d[\d,.]*(?:%|\+|[xkKmMbB]\b)?`)

func (s *Scorer) metricViolations(master, candidate resume.Document) (violations []Violation) {
	known := make(map[string]bool)
	for _, m := range metricPattern.FindAllString(documentText(master), -1) {
		known[metricKey(m)] = true
	}

	seen := make(map[string]bool)
	var invented []string
	for _, m := range metricPattern.FindAllString(tailoredText(candidate), -1) {
		key := metricKey(m)
		if known[key] || seen[key] {
			continue
		}
		seen[key] = true
		invented = append(invented, strings.TrimRight(strings.TrimSpace(m), ".,"))
	}

	sort.Strings(invented)
	for _, m := range invented {
		violations = append(violations, violation(RuleMetricFabrication, m))
	}
	return violations
}

func violation(rule, detail string) (v Violation) {
	v = Violation{Rule: rule, Severity: ScoringRules[rule].Severity, Detail: detail}
	return v
}

// Lessons turns a report into short advice lines.
func (s *Scorer) Lessons(report Report) (lessons []string) {
	lessons = []string{}

	for _, v := range report.Violations {
		if v.Severity == "critical" {
			lessons = append(lessons, "Unsupported content: "+v.Rule+" - "+v.Detail)
		}
	}

	if len(report.Missing) > 0 {
		n := len(report.Missing)
		if n > 5 {
			n = 5
		}
		lessons = append(lessons, fmt.Sprintf("Missing keywords: %s", strings.Join(report.Missing[:n], ", ")))
	}

	if report.Score < 70 {
		lessons = append(lessons, "Fit below a strong match - review gaps before applying")
	}

	return lessons
}

func normalize(s string) (out string) {
	out = strings.ToLower(strings.Join(strings.Fields(s), ""))
	return out
}

func metricKey(m string) (key string) {
	key = strings.TrimRight(normalize(m), ".,")
	return key
}

// tailoredText is the text a generator may have rewritten.
func tailoredText(doc resume.Document) (text string) {
	parts := []string{doc.Summary}
	parts = append(parts, doc.Skills...)
	for _, entry := range doc.Experience {
		parts = append(parts, entry.Bullets...)
	}
	text = strings.Join(parts, "\n")
	return text
}

func documentText(doc resume.Document) (text string) {
	parts := []string{tailoredText(doc)}
	for _, entry := range doc.Experience {
		parts = append(parts, entry.Title, entry.Organization, entry.DateRange)
	}
	for _, edu := range doc.Education {
		parts = append(parts, edu.Institution, edu.Credential, edu.DateRange)
	}
	text = strings.Join(parts, "\n")
	return text
}
