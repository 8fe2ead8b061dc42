package tailor

import (
	"context"
	"testing"

	"github.com/nikogura/onepage-tailor/pkg/condense"
	"github.com/nikogura/onepage-tailor/pkg/llm"
	"github.com/nikogura/onepage-tailor/pkg/patch"
	"github.com/nikogura/onepage-tailor/pkg/resume"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func master() (doc resume.Document) {
	doc = resume.Document{
		Contact: resume.Contact{Name: "Jane Doe", Email: "jane@example.com", Phone: "555-0100"},
		Summary: "Platform engineer. Builds things. Likes Go.",
		Skills:  []string{"Go", "Kubernetes", "Terraform"},
		Experience: []resume.ExperienceEntry{
			{Title: "Staff Engineer", Organization: "Initech", DateRange: "2020 - Present", Bullets: []string{"a", "b"}},
			{Title: "Engineer", Organization: "Globex", DateRange: "2015 - 2020", Bullets: []string{"c"}},
		},
		Education: []resume.EducationEntry{{Institution: "State U", Credential: "BSc", DateRange: "2011 - 2015"}},
	}
	return doc
}

// bulletBudget fits while the document carries at most max bullets.
func bulletBudget(maxBullets int) (m condense.Measurer) {
	m = condense.MeasurerFunc(func(_ context.Context, doc resume.Document) (condense.Measurement, error) {
		n := doc.BulletCount()
		pages := 1
		if n > maxBullets {
			pages = 2
		}
		return condense.Measurement{Fits: n <= maxBullets, PageCount: pages}, nil
	})
	return m
}

func reply(text string) (gen llm.Generator) {
	gen = llm.GeneratorFunc(func(_ context.Context, _ string) (string, error) {
		return text, nil
	})
	return gen
}

func TestTailorHappyPath(t *testing.T) {
	raw := `{"summary": "Go platform engineer.", "skills": ["Go", "Terraform"],
		"experience": [{"title": "Staff Engineer", "organization": "Initech", "bullets": ["x", "y", "z"]}]}`

	m := master()
	tl := New(reply(raw), condense.New(bulletBudget(3)))

	result, err := tl.Tailor(context.Background(), m, resume.NewJobTarget("Go job", []string{"go"}))
	require.NoError(t, err)

	assert.Equal(t, condense.Fits, result.Status)
	assert.Equal(t, "Go platform engineer.", result.Candidate.Summary)
	assert.Equal(t, []string{"Go", "Terraform"}, result.Candidate.Skills)
	assert.Equal(t, 3, result.Candidate.BulletCount())
	assert.Equal(t, m.Contact, result.Candidate.Contact)
	assert.Equal(t, m.Education, result.Candidate.Education)

	// Master untouched.
	assert.Equal(t, master(), m)
}

func TestTailorCondensesAfterMerge(t *testing.T) {
	raw := `{"experience": [{"title": "Staff Engineer", "organization": "Initech", "bullets": ["1", "2", "3", "4"]}]}`

	tl := New(reply(raw), condense.New(bulletBudget(3)))

	result, err := tl.Tailor(context.Background(), master(), resume.NewJobTarget("job", nil))
	require.NoError(t, err)

	assert.Equal(t, condense.Fits, result.Status)
	assert.Equal(t, []string{"1", "2"}, result.Candidate.Experience[0].Bullets)
	assert.NotEmpty(t, result.Outcome.Steps)
}

func TestTailorExhaustedIsNotAnError(t *testing.T) {
	never := condense.MeasurerFunc(func(_ context.Context, _ resume.Document) (condense.Measurement, error) {
		return condense.Measurement{PageCount: 2}, nil
	})
	tl := New(reply(`{}`), condense.New(never))

	result, err := tl.Tailor(context.Background(), master(), resume.NewJobTarget("job", nil))
	require.NoError(t, err)

	assert.Equal(t, condense.Exhausted, result.Status)
	assert.True(t, result.Outcome.Overflow())
	for _, entry := range result.Candidate.Experience {
		assert.NotEmpty(t, entry.Bullets)
	}
}

func TestTailorPlainProseIsParseError(t *testing.T) {
	prose := "I'd be happy to help tailor your resume! Here are some thoughts."
	tl := New(reply(prose), condense.New(bulletBudget(10)))

	result, err := tl.Tailor(context.Background(), master(), resume.NewJobTarget("job", nil))
	require.Error(t, err)

	var parseErr *patch.ParseError
	require.True(t, errors.As(err, &parseErr))
	assert.Equal(t, prose, parseErr.Raw)
	assert.Empty(t, result.Candidate.Experience)
}

func TestTailorShapeErrorAborts(t *testing.T) {
	raw := `{"experience": [{"title": "CEO", "organization": "Hooli", "bullets": ["x"]}]}`
	tl := New(reply(raw), condense.New(bulletBudget(10)))

	_, err := tl.Tailor(context.Background(), master(), resume.NewJobTarget("job", nil))

	var shapeErr *patch.ShapeError
	require.True(t, errors.As(err, &shapeErr))
}

func TestTailorGenerationError(t *testing.T) {
	gen := llm.GeneratorFunc(func(_ context.Context, _ string) (string, error) {
		return "", &llm.IOError{Kind: llm.RateLimited, Provider: "fake", StatusCode: 429, Cause: errors.New("slow down")}
	})
	tl := New(gen, condense.New(bulletBudget(10)))

	_, err := tl.Tailor(context.Background(), master(), resume.NewJobTarget("job", nil))

	var ioErr *llm.IOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, llm.RateLimited, ioErr.Kind)
}

func TestTailorInvalidMaster(t *testing.T) {
	called := false
	gen := llm.GeneratorFunc(func(_ context.Context, _ string) (string, error) {
		called = true
		return "{}", nil
	})
	bad := master()
	bad.Experience[0].Bullets = nil

	_, err := New(gen, condense.New(bulletBudget(10))).Tailor(context.Background(), bad, resume.NewJobTarget("job", nil))

	var validationErr *resume.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.False(t, called)
}

func TestTailorUsesPromptBuilder(t *testing.T) {
	var seen string
	gen := llm.GeneratorFunc(func(_ context.Context, prompt string) (string, error) {
		seen = prompt
		return "{}", nil
	})
	builder := func(_ resume.Document, job resume.JobTarget) string { return "custom: " + job.Description() }

	_, err := New(gen, condense.New(bulletBudget(10)), WithPromptBuilder(builder)).
		Tailor(context.Background(), master(), resume.NewJobTarget("SRE", nil))
	require.NoError(t, err)

	assert.Equal(t, "custom: SRE", seen)
}

func TestTailorCancelledDuringFit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gen := llm.GeneratorFunc(func(_ context.Context, _ string) (string, error) {
		cancel()
		return "{}", nil
	})

	result, err := New(gen, condense.New(bulletBudget(0))).Tailor(ctx, master(), resume.NewJobTarget("job", nil))
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, condense.Exhausted, result.Status)
}
