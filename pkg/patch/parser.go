package patch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/nikogura/onepage-tailor/pkg/resume"
	"github.com/pkg/errors"
)

// Top-level keys a patch may carry.
const (
	fieldSummary    = "summary"
	fieldSkills     = "skills"
	fieldExperience = "experience"
)

// Keys allowed inside an experience item. Only bullets is editable; the rest identify the entry.
const (
	fieldTitle        = "title"
	fieldOrganization = "organization"
	fieldCompany      = "company"
	fieldDateRange    = "date_range"
	fieldBullets      = "bullets"
)

// Parse turns raw generator output into a Patch checked against the master resume.
// It attempts a strict decode, then a single repair pass extracting the largest balanced
// object span. It never fills in or drops content on the generator's behalf.
func Parse(raw string, master resume.Document) (result Result) {
	obj, decodeErr := decodeObject(stripCodeFences(raw))
	if decodeErr != nil {
		span, found := largestObjectSpan(raw)
		if !found {
			result = Result{Status: ParseFailed, Err: &ParseError{Raw: raw, Cause: decodeErr}}
			return result
		}

		var repairErr error
		obj, repairErr = decodeObject(span)
		if repairErr != nil {
			result = Result{Status: ParseFailed, Err: &ParseError{Raw: raw, Cause: repairErr}}
			return result
		}
		result.Repaired = true
	}

	p, shapeErr := buildPatch(obj, master)
	if shapeErr != nil {
		result.Status = ShapeInvalid
		result.Err = shapeErr
		return result
	}

	result.Status = OK
	result.Patch = p
	return result
}

// ParsePatch is Parse with a conventional error return.
func ParsePatch(raw string, master resume.Document) (p Patch, err error) {
	result := Parse(raw, master)
	p = result.Patch
	err = result.Err
	return p, err
}

// decodeObject decodes exactly one JSON object with nothing but whitespace after it.
func decodeObject(text string) (obj map[string]json.RawMessage, err error) {
	dec := json.NewDecoder(strings.NewReader(text))

	err = dec.Decode(&obj)
	if err != nil {
		err = errors.Wrap(err, "strict decode failed")
		return obj, err
	}

	if obj == nil {
		err = errors.New("payload is null, expected an object")
		return obj, err
	}

	var extra json.RawMessage
	if trailingErr := dec.Decode(&extra); !errors.Is(trailingErr, io.EOF) {
		obj = nil
		err = errors.New("unexpected data after object")
		return obj, err
	}

	return obj, err
}

func buildPatch(obj map[string]json.RawMessage, master resume.Document) (p Patch, err error) {
	for _, key := range sortedKeys(obj) {
		switch key {
		case fieldSummary, fieldSkills, fieldExperience:
		default:
			err = &ShapeError{Field: key, Reason: "field is not editable"}
			return p, err
		}
	}

	if raw, ok := obj[fieldSummary]; ok {
		summary, isString := decodeString(raw)
		if !isString {
			err = &ShapeError{Field: fieldSummary, Reason: "expected a string"}
			return p, err
		}
		p.Summary = &summary
	}

	if raw, ok := obj[fieldSkills]; ok {
		p.Skills, err = decodeStringList(raw, fieldSkills)
		if err != nil {
			return p, err
		}
	}

	if raw, ok := obj[fieldExperience]; ok {
		p.Bullets, err = decodeOverrides(raw, master)
		if err != nil {
			return p, err
		}
	}

	return p, err
}

func decodeOverrides(raw json.RawMessage, master resume.Document) (overrides []BulletOverride, err error) {
	var items []json.RawMessage
	if !isKind(raw, '[') || json.Unmarshal(raw, &items) != nil {
		err = &ShapeError{Field: fieldExperience, Reason: "expected an array"}
		return overrides, err
	}

	if len(items) > len(master.Experience) {
		err = &ShapeError{
			Field:  fieldExperience,
			Reason: fmt.Sprintf("%d entries given but master resume has %d", len(items), len(master.Experience)),
		}
		return overrides, err
	}

	seen := make([]bool, len(master.Experience))
	overrides = make([]BulletOverride, 0, len(items))

	for i, item := range items {
		var override BulletOverride
		var idx int
		override, idx, err = decodeOverride(i, item, master)
		if err != nil {
			overrides = nil
			return overrides, err
		}

		if seen[idx] {
			overrides = nil
			err = &ShapeError{Field: fmt.Sprintf("%s[%d]", fieldExperience, i), Reason: "duplicate override for " + override.Key.String()}
			return overrides, err
		}
		seen[idx] = true

		overrides = append(overrides, override)
	}

	return overrides, err
}

func decodeOverride(i int, raw json.RawMessage, master resume.Document) (override BulletOverride, idx int, err error) {
	prefix := fmt.Sprintf("%s[%d]", fieldExperience, i)

	var fields map[string]json.RawMessage
	if !isKind(raw, '{') || json.Unmarshal(raw, &fields) != nil {
		err = &ShapeError{Field: prefix, Reason: "expected an object"}
		return override, idx, err
	}

	for _, key := range sortedKeys(fields) {
		switch key {
		case fieldTitle, fieldOrganization, fieldCompany, fieldDateRange, fieldBullets:
		default:
			err = &ShapeError{Field: prefix + "." + key, Reason: "field is not editable"}
			return override, idx, err
		}
	}

	var key resume.EntryKey
	key, err = decodeIdentity(prefix, fields)
	if err != nil {
		return override, idx, err
	}

	if raw, ok := fields[fieldDateRange]; ok {
		dates, isString := decodeString(raw)
		if !isString || strings.TrimSpace(dates) == "" {
			err = &ShapeError{Field: prefix + "." + fieldDateRange, Reason: "expected a non-empty string"}
			return override, idx, err
		}
		if master.EntryIndex(key) != -1 && master.EntryIndex(resume.EntryKey{Title: key.Title, Organization: key.Organization, DateRange: dates}) == -1 {
			err = &ShapeError{Field: prefix + "." + fieldDateRange, Reason: "dates cannot be changed"}
			return override, idx, err
		}
		key.DateRange = dates
	}

	matches := master.EntryIndexes(key)
	switch {
	case len(matches) == 0:
		err = &ShapeError{Field: prefix, Reason: "no experience entry " + key.String() + " in master resume"}
		return override, idx, err
	case len(matches) > 1:
		err = &ShapeError{Field: prefix + "." + fieldDateRange, Reason: "required to choose between entries named " + key.String()}
		return override, idx, err
	}
	idx = matches[0]
	entry := master.Experience[idx]

	rawBullets, ok := fields[fieldBullets]
	if !ok {
		err = &ShapeError{Field: prefix + "." + fieldBullets, Reason: "missing"}
		return override, idx, err
	}

	var bullets []string
	bullets, err = decodeStringList(rawBullets, prefix+"."+fieldBullets)
	if err != nil {
		return override, idx, err
	}
	if len(bullets) == 0 {
		err = &ShapeError{Field: prefix + "." + fieldBullets, Reason: "must contain at least one bullet"}
		return override, idx, err
	}

	override = BulletOverride{Key: entry.Key(), Bullets: bullets}
	return override, idx, err
}

func decodeIdentity(prefix string, fields map[string]json.RawMessage) (key resume.EntryKey, err error) {
	raw, ok := fields[fieldTitle]
	if !ok {
		err = &ShapeError{Field: prefix + "." + fieldTitle, Reason: "missing"}
		return key, err
	}
	title, isString := decodeString(raw)
	if !isString || strings.TrimSpace(title) == "" {
		err = &ShapeError{Field: prefix + "." + fieldTitle, Reason: "expected a non-empty string"}
		return key, err
	}

	var org string
	var haveOrg bool
	for _, name := range []string{fieldOrganization, fieldCompany} {
		raw, ok = fields[name]
		if !ok {
			continue
		}
		value, valueIsString := decodeString(raw)
		if !valueIsString || strings.TrimSpace(value) == "" {
			err = &ShapeError{Field: prefix + "." + name, Reason: "expected a non-empty string"}
			return key, err
		}
		if haveOrg && !sameText(org, value) {
			err = &ShapeError{Field: prefix + "." + name, Reason: "conflicts with organization"}
			return key, err
		}
		org = value
		haveOrg = true
	}

	if !haveOrg {
		err = &ShapeError{Field: prefix + "." + fieldOrganization, Reason: "missing"}
		return key, err
	}

	key = resume.EntryKey{Title: title, Organization: org}
	return key, err
}

func decodeStringList(raw json.RawMessage, field string) (list []string, err error) {
	var items []json.RawMessage
	if !isKind(raw, '[') || json.Unmarshal(raw, &items) != nil {
		err = &ShapeError{Field: field, Reason: "expected an array of strings"}
		return list, err
	}

	list = make([]string, 0, len(items))
	for i, item := range items {
		s, ok := decodeString(item)
		if !ok {
			list = nil
			err = &ShapeError{Field: fmt.Sprintf("%s[%d]", field, i), Reason: "expected a string"}
			return list, err
		}
		if strings.TrimSpace(s) == "" {
			list = nil
			err = &ShapeError{Field: fmt.Sprintf("%s[%d]", field, i), Reason: "empty string"}
			return list, err
		}
		list = append(list, s)
	}

	return list, err
}

// decodeString reports false for anything but a JSON string, including null.
func decodeString(raw json.RawMessage) (s string, ok bool) {
	if !isKind(raw, '"') {
		return s, ok
	}
	ok = json.Unmarshal(raw, &s) == nil
	return s, ok
}

func isKind(raw json.RawMessage, first byte) (ok bool) {
	trimmed := bytes.TrimSpace(raw)
	ok = len(trimmed) > 0 && trimmed[0] == first
	return ok
}

func sameText(a, b string) (same bool) {
	same = strings.EqualFold(strings.Join(strings.Fields(a), " "), strings.Join(strings.Fields(b), " "))
	return same
}

func sortedKeys(m map[string]json.RawMessage) (keys []string) {
	keys = make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
