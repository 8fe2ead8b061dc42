package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nikogura/onepage-tailor/pkg/resume"
)

// promptEntry is the view of an experience entry sent to the model. Identity fields are echoed back
// so the reply can be matched to the master.
type promptEntry struct {
	Title        string   `json:"title"`
	Organization string   `json:"organization"`
	DateRange    string   `json:"date_range"`
	Bullets      []string `json:"bullets"`
}

type promptResume struct {
	Summary    string        `json:"summary"`
	Skills     []string      `json:"skills"`
	Experience []promptEntry `json:"experience"`
}

// BuildTailoringPrompt builds the request that asks a model to rewrite the tailorable fields of master
// for job. The reply is expected to be a single JSON object holding only the changed fields.
//
//nolint:funlen // Prompt template is long but straightforward
func BuildTailoringPrompt(master resume.Document, job resume.JobTarget) (prompt string) {
	view := promptResume{
		Summary:    master.Summary,
		Skills:     master.Skills,
		Experience: make([]promptEntry, 0, len(master.Experience)),
	}
	for _, entry := range master.Experience {
		view.Experience = append(view.Experience, promptEntry{
			Title:        entry.Title,
			Organization: entry.Organization,
			DateRange:    entry.DateRange,
			Bullets:      entry.Bullets,
		})
	}

	// Marshalling plain strings and slices cannot fail.
	resumeJSON, _ := json.MarshalIndent(view, "", "  ")

	keywords := "(none extracted)"
	if kw := job.Keywords(); len(kw) > 0 {
		keywords = strings.Join(kw, ", ")
	}

	prompt = fmt.Sprintf(`You are an expert resume writer tailoring a resume to a specific job posting.

JOB DESCRIPTION:
%s

PRIORITY KEYWORDS:
%s

CURRENT RESUME (tailorable fields only):
%s

TASK:
Rewrite the summary, the skills list and the bullets of each experience entry so the resume speaks
directly to this job.

CRITICAL RULES - NEVER VIOLATE THESE:
1. NEVER fabricate experience, employers, titles, dates, metrics or technologies.
2. ONLY reword, reorder and emphasise what is already in the resume.
3. Keep every title, organization and date_range exactly as given. They identify the entry and cannot be changed.
4. Do NOT add or remove experience entries. Omit an entry from your reply to leave its bullets unchanged.
5. Every bullet must be a non-empty string. Every replaced entry must keep at least one bullet.
6. Keep the summary to at most two sentences. The finished resume must fit on one page.
7. Use keywords from the job description naturally where the resume already supports them.

OUTPUT FORMAT:
Return ONLY a JSON object, no prose and no markdown fences, with this shape. Every key is optional:
{
  "summary": "rewritten summary",
  "skills": ["skill", "skill"],
  "experience": [
    {
      "title": "exact title from the resume",
      "organization": "exact organization from the resume",
      "date_range": "exact date_range from the resume",
      "bullets": ["rewritten bullet", "rewritten bullet"]
    }
  ]
}`, strings.TrimSpace(job.Description()), keywords, string(resumeJSON))

	return prompt
}
