// Package merge applies a parsed tailoring patch over a master resume.
package merge

import (
	"github.com/nikogura/onepage-tailor/pkg/patch"
	"github.com/nikogura/onepage-tailor/pkg/resume"
)

// Merge returns a new candidate built from master with the patch's fields replaced.
// Fields absent from the patch are copied from master unchanged. Bullet overrides replace
// an entry's bullets wholesale. The master is never modified.
func Merge(master resume.Document, p patch.Patch) (candidate resume.Document) {
	candidate = resume.Clone(master)

	if p.Summary != nil {
		candidate.Summary = *p.Summary
	}

	if p.Skills != nil {
		candidate.Skills = append(make([]string, 0, len(p.Skills)), p.Skills...)
	}

	for _, override := range p.Bullets {
		idx := candidate.EntryIndex(override.Key)
		if idx == -1 {
			// Parse rejects overrides for unknown entries.
			continue
		}
		candidate.Experience[idx].Bullets = append(make([]string, 0, len(override.Bullets)), override.Bullets...)
	}

	return candidate
}
