package merge

import (
	"testing"

	"github.com/nikogura/onepage-tailor/pkg/patch"
	"github.com/nikogura/onepage-tailor/pkg/resume"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func master() (doc resume.Document) {
	doc = resume.Document{
		Contact: resume.Contact{Name: "Test User", Email: "t@example.com", Phone: "555", Links: []string{"https://example.com"}},
		Summary: "Original summary.",
		Skills:  []string{"Go", "SQL"},
		Experience: []resume.ExperienceEntry{
			{Title: "Staff Engineer", Organization: "Acme Corp", DateRange: "2020 - Present", Bullets: []string{"a", "b", "c"}},
			{Title: "Engineer", Organization: "Initech", DateRange: "2015 - 2019", Bullets: []string{"d"}},
		},
		Education: []resume.EducationEntry{
			{Institution: "State", Credential: "BSc", DateRange: "2011 - 2015"},
		},
	}
	return doc
}

func TestMergeReplacesOnlyPatchedFields(t *testing.T) {
	m := master()
	summary := "Tailored."
	p := patch.Patch{
		Summary: &summary,
		Bullets: []patch.BulletOverride{
			{Key: resume.EntryKey{Title: "Engineer", Organization: "Initech"}, Bullets: []string{"d1", "d2"}},
		},
	}

	candidate := Merge(m, p)
	require.NoError(t, resume.Validate(candidate))

	assert.Equal(t, "Tailored.", candidate.Summary)
	assert.Equal(t, []string{"d1", "d2"}, candidate.Experience[1].Bullets)

	// Everything else is identical to master.
	assert.Equal(t, m.Contact, candidate.Contact)
	assert.Equal(t, m.Skills, candidate.Skills)
	assert.Equal(t, m.Education, candidate.Education)
	assert.Equal(t, m.Experience[0], candidate.Experience[0])
	for i := range m.Experience {
		assert.Equal(t, m.Experience[i].Title, candidate.Experience[i].Title)
		assert.Equal(t, m.Experience[i].Organization, candidate.Experience[i].Organization)
		assert.Equal(t, m.Experience[i].DateRange, candidate.Experience[i].DateRange)
	}

	// Master untouched.
	assert.Equal(t, master(), m)
}

func TestMergeEmptyPatchIsClone(t *testing.T) {
	m := master()

	candidate := Merge(m, patch.Patch{})
	assert.Equal(t, m, candidate)

	candidate.Experience[0].Bullets[0] = "changed"
	candidate.Skills[0] = "changed"
	assert.Equal(t, master(), m)
}

func TestMergeDoesNotAliasPatch(t *testing.T) {
	skills := []string{"Go", "Kubernetes"}
	bullets := []string{"x"}
	p := patch.Patch{
		Skills: skills,
		Bullets: []patch.BulletOverride{
			{Key: resume.EntryKey{Title: "Staff Engineer", Organization: "Acme Corp"}, Bullets: bullets},
		},
	}

	candidate := Merge(master(), p)
	skills[0] = "Java"
	bullets[0] = "y"

	assert.Equal(t, []string{"Go", "Kubernetes"}, candidate.Skills)
	assert.Equal(t, []string{"x"}, candidate.Experience[0].Bullets)
}

func TestMergeFromParsedPatch(t *testing.T) {
	m := master()
	raw := `{"skills": ["Go", "Kubernetes", "Terraform"], "experience": [{"title": "Staff Engineer", "organization": "Acme Corp", "bullets": ["Led migration"]}]}`

	p, err := patch.ParsePatch(raw, m)
	require.NoError(t, err)

	candidate := Merge(m, p)
	require.NoError(t, resume.Validate(candidate))
	assert.Equal(t, m.Summary, candidate.Summary)
	assert.Equal(t, []string{"Go", "Kubernetes", "Terraform"}, candidate.Skills)
	assert.Equal(t, []string{"Led migration"}, candidate.Experience[0].Bullets)
	assert.Equal(t, m.Experience[1], candidate.Experience[1])
}

func TestMergeIsDeterministic(t *testing.T) {
	summary := "Same."
	p := patch.Patch{Summary: &summary, Skills: []string{"Go"}}

	assert.Equal(t, Merge(master(), p), Merge(master(), p))
}

func TestMergeRepeatedIdentity(t *testing.T) {
	m := master()
	m.Experience = append(m.Experience, resume.ExperienceEntry{
		Title: "Engineer", Organization: "Initech", DateRange: "2008 - 2011", Bullets: []string{"e"},
	})

	p := patch.Patch{
		Bullets: []patch.BulletOverride{
			{Key: m.Experience[2].Key(), Bullets: []string{"e1"}},
		},
	}

	candidate := Merge(m, p)
	assert.Equal(t, []string{"d"}, candidate.Experience[1].Bullets)
	assert.Equal(t, []string{"e1"}, candidate.Experience[2].Bullets)
}
