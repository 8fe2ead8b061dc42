package condense

import (
	"fmt"

	"github.com/nikogura/onepage-tailor/pkg/resume"
)

// Action names a ladder edit.
type Action string

const (
	// TrimSummary removes trailing whitespace and redundant punctuation from the summary.
	TrimSummary Action = "trim_summary"
	// ShortenSummary caps the summary at a fixed number of sentences.
	ShortenSummary Action = "shorten_summary"
	// DropBullet removes the last bullet of the entry holding the most bullets.
	DropBullet Action = "drop_bullet"
	// DropSkill removes the last skill.
	DropSkill Action = "drop_skill"
	// DropEducation removes the oldest education entry, once per pass.
	DropEducation Action = "drop_education"
)

type phase int

const (
	phaseTrimSummary phase = iota
	phaseShortenSummary
	phaseBullets
	phaseSkills
	phaseEducation
	phaseDone
)

// edit is a fully built candidate. It is committed whole or discarded.
type edit struct {
	action Action
	target string
	doc    resume.Document
}

// ladder walks the reduction phases in order. Single-shot phases advance as soon as they are
// visited; repeating phases stay put until they have nothing left to remove.
type ladder struct {
	phase            phase
	produced         phase
	summarySentences int
}

func newLadder(summarySentences int) (l *ladder) {
	l = &ladder{phase: phaseTrimSummary, summarySentences: summarySentences}
	return l
}

// skipPhase abandons the phase that produced the last edit, used after that edit is rolled back.
// Single-shot phases have already advanced, so only a repeating phase moves here.
func (l *ladder) skipPhase() {
	if l.phase == l.produced && l.phase < phaseDone {
		l.phase++
	}
}

// next returns the next edit that changes doc, or false when the ladder is exhausted.
// Edits that would be no-ops are skipped without being returned.
func (l *ladder) next(doc resume.Document) (e edit, ok bool) {
	for l.phase < phaseDone {
		l.produced = l.phase
		switch l.phase {
		case phaseTrimSummary:
			l.phase++
			trimmed := tidySummary(doc.Summary)
			if trimmed != doc.Summary {
				e = summaryEdit(doc, TrimSummary, trimmed)
				ok = true
				return e, ok
			}

		case phaseShortenSummary:
			l.phase++
			short := firstSentences(doc.Summary, l.summarySentences)
			if short != doc.Summary {
				e = summaryEdit(doc, ShortenSummary, short)
				ok = true
				return e, ok
			}

		case phaseBullets:
			idx := bulletVictim(doc)
			if idx == -1 {
				l.phase++
				continue
			}
			e = dropBulletEdit(doc, idx)
			ok = true
			return e, ok

		case phaseSkills:
			if len(doc.Skills) <= 1 {
				l.phase++
				continue
			}
			e = dropSkillEdit(doc)
			ok = true
			return e, ok

		case phaseEducation:
			l.phase++
			if len(doc.Education) > 1 {
				e = dropEducationEdit(doc, oldestEducation(doc.Education))
				ok = true
				return e, ok
			}

		case phaseDone:
		}
	}

	return e, ok
}

func summaryEdit(doc resume.Document, action Action, summary string) (e edit) {
	out := resume.Clone(doc)
	out.Summary = summary
	e = edit{action: action, target: "summary", doc: out}
	return e
}

func dropBulletEdit(doc resume.Document, idx int) (e edit) {
	out := resume.Clone(doc)
	entry := &out.Experience[idx]
	entry.Bullets = entry.Bullets[:len(entry.Bullets)-1]
	e = edit{
		action: DropBullet,
		target: fmt.Sprintf("%s (bullet %d)", entry.Key().String(), len(entry.Bullets)+1),
		doc:    out,
	}
	return e
}

func dropSkillEdit(doc resume.Document) (e edit) {
	out := resume.Clone(doc)
	last := out.Skills[len(out.Skills)-1]
	out.Skills = out.Skills[:len(out.Skills)-1]
	e = edit{action: DropSkill, target: last, doc: out}
	return e
}

func dropEducationEdit(doc resume.Document, idx int) (e edit) {
	out := resume.Clone(doc)
	dropped := out.Education[idx]
	out.Education = append(out.Education[:idx], out.Education[idx+1:]...)
	e = edit{action: DropEducation, target: dropped.Credential + " @ " + dropped.Institution, doc: out}
	return e
}

// bulletVictim picks the entry with the most bullets among those holding more than one.
// Ties go to the oldest date range, then to the entry further down the resume.
func bulletVictim(doc resume.Document) (idx int) {
	idx = -1
	var bestKey resume.DateKey

	for i, entry := range doc.Experience {
		n := len(entry.Bullets)
		if n <= 1 {
			continue
		}

		key := resume.ParseDateRange(entry.DateRange)
		if idx == -1 {
			idx, bestKey = i, key
			continue
		}

		best := len(doc.Experience[idx].Bullets)
		switch {
		case n > best:
			idx, bestKey = i, key
		case n == best && !bestKey.Older(key):
			idx, bestKey = i, key
		}
	}

	return idx
}

// oldestEducation returns the index of the oldest entry, preferring the later one on ties.
func oldestEducation(entries []resume.EducationEntry) (idx int) {
	bestKey := resume.ParseDateRange(entries[0].DateRange)
	for i := 1; i < len(entries); i++ {
		key := resume.ParseDateRange(entries[i].DateRange)
		if !bestKey.Older(key) {
			idx, bestKey = i, key
		}
	}
	return idx
}
