package llm

import (
	"strings"
	"testing"

	"github.com/nikogura/onepage-tailor/pkg/resume"
)

func promptMaster() (doc resume.Document) {
	doc = resume.Document{
		Contact: resume.Contact{Name: "Jane Doe", Email: "jane@example.com", Phone: "555-0100"},
		Summary: "Platform engineer with a decade of Go.",
		Skills:  []string{"Go", "Kubernetes"},
		Experience: []resume.ExperienceEntry{
			{Title: "Staff Engineer", Organization: "Initech", DateRange: "2020 - Present", Bullets: []string{"Built the deploy pipeline"}},
			{Title: "Engineer", Organization: "Globex", DateRange: "2015 - 2020", Bullets: []string{"Wrote billing services"}},
		},
	}
	return doc
}

func TestBuildTailoringPrompt(t *testing.T) {
	jd := "We are looking for a Staff Engineer with Go experience at Acme Corp."
	job := resume.NewJobTarget(jd, []string{"go", "terraform"})

	prompt := BuildTailoringPrompt(promptMaster(), job)

	if prompt == "" {
		t.Fatal("Expected non-empty prompt")
	}

	// Should contain job description.
	if !strings.Contains(prompt, jd) {
		t.Error("Prompt should contain job description")
	}

	// Should contain keywords.
	if !strings.Contains(prompt, "go, terraform") {
		t.Error("Prompt should list priority keywords")
	}

	// Should contain every entry identity and bullet.
	for _, want := range []string{"Staff Engineer", "Initech", "2020 - Present", "Globex", "Built the deploy pipeline", "Wrote billing services"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt should contain %q", want)
		}
	}

	// Should describe the reply shape.
	for _, key := range []string{`"summary"`, `"skills"`, `"experience"`, `"organization"`, `"date_range"`, `"bullets"`} {
		if !strings.Contains(prompt, key) {
			t.Errorf("Prompt should specify %s in response format", key)
		}
	}

	// Should include anti-fabrication rules.
	if !strings.Contains(prompt, "NEVER fabricate") {
		t.Error("Prompt should forbid fabrication")
	}
}

func TestBuildTailoringPromptWithoutKeywords(t *testing.T) {
	job := resume.NewJobTarget("Any role", nil)

	prompt := BuildTailoringPrompt(promptMaster(), job)

	if !strings.Contains(prompt, "(none extracted)") {
		t.Error("Prompt should note missing keywords")
	}
}

func TestBuildTailoringPromptDoesNotIncludeContact(t *testing.T) {
	job := resume.NewJobTarget("Any role", nil)

	prompt := BuildTailoringPrompt(promptMaster(), job)

	if strings.Contains(prompt, "jane@example.com") {
		t.Error("Prompt should not include contact details")
	}
}
