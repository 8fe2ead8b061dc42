package resume

import "strings"

// Document is the canonical structured resume.
type Document struct {
	Contact    Contact           `json:"contact" yaml:"contact"`
	Summary    string            `json:"summary" yaml:"summary"`
	Skills     []string          `json:"skills" yaml:"skills"`
	Experience []ExperienceEntry `json:"experience" yaml:"experience"`
	Education  []EducationEntry  `json:"education" yaml:"education"`
}

// Contact holds the header details of a resume.
type Contact struct {
	Name  string   `json:"name" yaml:"name"`
	Email string   `json:"email" yaml:"email"`
	Phone string   `json:"phone" yaml:"phone"`
	Links []string `json:"links,omitempty" yaml:"links,omitempty"`
}

// ExperienceEntry is a single position. Bullets are ordered most important first.
type ExperienceEntry struct {
	Title        string   `json:"title" yaml:"title"`
	Organization string   `json:"organization" yaml:"organization"`
	DateRange    string   `json:"date_range" yaml:"date_range"`
	Bullets      []string `json:"bullets" yaml:"bullets"`
}

// EducationEntry is a single credential.
type EducationEntry struct {
	Institution string `json:"institution" yaml:"institution"`
	Credential  string `json:"credential" yaml:"credential"`
	DateRange   string `json:"date_range" yaml:"date_range"`
}

// EntryKey identifies an experience entry independent of its position. DateRange is optional and
// only used to tell apart entries sharing a title and organization.
type EntryKey struct {
	Title        string
	Organization string
	DateRange    string
}

// Key returns the identity of the entry.
func (e ExperienceEntry) Key() (key EntryKey) {
	key = EntryKey{Title: e.Title, Organization: e.Organization, DateRange: e.DateRange}
	return key
}

// Matches reports whether two keys name the same entry, ignoring case and surrounding whitespace.
// Dates are compared only when both keys carry one.
func (k EntryKey) Matches(other EntryKey) (ok bool) {
	ok = normalize(k.Title) == normalize(other.Title) &&
		normalize(k.Organization) == normalize(other.Organization)
	if ok && k.DateRange != "" && other.DateRange != "" {
		ok = normalize(k.DateRange) == normalize(other.DateRange)
	}
	return ok
}

// String renders the key for error messages.
func (k EntryKey) String() (s string) {
	s = k.Title + " @ " + k.Organization
	return s
}

// EntryIndex returns the position of the first experience entry matching key, or -1.
func (d Document) EntryIndex(key EntryKey) (idx int) {
	for i, entry := range d.Experience {
		if entry.Key().Matches(key) {
			idx = i
			return idx
		}
	}
	idx = -1
	return idx
}

// EntryIndexes returns the positions of every experience entry matching key.
func (d Document) EntryIndexes(key EntryKey) (idxs []int) {
	for i, entry := range d.Experience {
		if entry.Key().Matches(key) {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

// BulletCount is the total number of bullets across all experience entries.
func (d Document) BulletCount() (count int) {
	for _, entry := range d.Experience {
		count += len(entry.Bullets)
	}
	return count
}

// JobTarget is the job being applied for. It is read-only once built.
type JobTarget struct {
	description string
	keywords    []string
}

// NewJobTarget builds a JobTarget, copying keywords so callers cannot mutate it afterwards.
func NewJobTarget(description string, keywords []string) (target JobTarget) {
	target = JobTarget{
		description: description,
		keywords:    append([]string(nil), keywords...),
	}
	return target
}

// Description returns the raw job description text.
func (j JobTarget) Description() (description string) {
	description = j.description
	return description
}

// Keywords returns a copy of the extracted keywords.
func (j JobTarget) Keywords() (keywords []string) {
	keywords = append([]string(nil), j.keywords...)
	return keywords
}

func normalize(s string) (n string) {
	n = strings.ToLower(strings.Join(strings.Fields(s), " "))
	return n
}
