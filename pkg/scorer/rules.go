package scorer

// Rule represents a check applied to a tailored resume.
type Rule struct {
	Name        string
	Category    string // fidelity, coverage
	Severity    string // critical, major, minor
	Description string
	Weight      int // Points deducted per violation
}

// Rule names.
const (
	RuleSkillFabrication  = "SKILL_FABRICATION"
	RuleMetricFabrication = "METRIC_FABRICATION"
	RuleEmptySummary      = "EMPTY_SUMMARY"
)

//nolint:gochecknoglobals // Scoring configuration constants
var ScoringRules = map[string]Rule{
	RuleSkillFabrication: {
		Name:        RuleSkillFabrication,
		Category:    "fidelity",
		Severity:    "critical",
		Description: "Skill listed that is not in the master resume",
		Weight:      15,
	},
	RuleMetricFabrication: {
		Name:        RuleMetricFabrication,
		Category:    "fidelity",
		Severity:    "critical",
		Description: "Number or metric that does not appear anywhere in the master resume",
		Weight:      20,
	},
	RuleEmptySummary: {
		Name:        RuleEmptySummary,
		Category:    "coverage",
		Severity:    "minor",
		Description: "Summary is empty so keywords only appear in bullets",
		Weight:      5,
	},
}

// Band is a labelled score range.
type Band struct {
	Min   int
	Label string
}

//nolint:gochecknoglobals // Scoring configuration constants
var Bands = []Band{
	{Min: 85, Label: "Excellent"},
	{Min: 70, Label: "Strong"},
	{Min: 55, Label: "Moderate"},
	{Min: 40, Label: "Weak"},
	{Min: 0, Label: "Poor"},
}

// BandFor returns the label for score.
func BandFor(score int) (label string) {
	for _, band := range Bands {
		if score >= band.Min {
			label = band.Label
			return label
		}
	}
	label = Bands[len(Bands)-1].Label
	return label
}
