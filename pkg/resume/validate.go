package resume

import (
	"fmt"
	"strings"
)

// ValidationErrorKind classifies a ValidationError.
type ValidationErrorKind string

const (
	// MissingField means a required collection is absent.
	MissingField ValidationErrorKind = "missing_field"
	// WrongType means a field could not be decoded as the expected type.
	WrongType ValidationErrorKind = "wrong_type"
	// EmptyRequired means a required scalar is blank.
	EmptyRequired ValidationErrorKind = "empty_required"
)

// ValidationError reports a malformed resume document.
type ValidationError struct {
	Kind  ValidationErrorKind
	Field string
}

func (e *ValidationError) Error() (msg string) {
	msg = fmt.Sprintf("invalid resume: %s: %s", e.Kind, e.Field)
	return msg
}

// Validate checks that the document is structurally complete. Summary may be empty.
func Validate(doc Document) (err error) {
	err = validateContact(doc.Contact)
	if err != nil {
		return err
	}

	for i, skill := range doc.Skills {
		if blank(skill) {
			err = &ValidationError{Kind: EmptyRequired, Field: fmt.Sprintf("skills[%d]", i)}
			return err
		}
	}

	if len(doc.Experience) == 0 {
		err = &ValidationError{Kind: MissingField, Field: "experience"}
		return err
	}

	for i, entry := range doc.Experience {
		err = validateExperience(i, entry)
		if err != nil {
			return err
		}
	}

	for i, edu := range doc.Education {
		prefix := fmt.Sprintf("education[%d]", i)
		switch {
		case blank(edu.Institution):
			err = &ValidationError{Kind: EmptyRequired, Field: prefix + ".institution"}
		case blank(edu.Credential):
			err = &ValidationError{Kind: EmptyRequired, Field: prefix + ".credential"}
		case blank(edu.DateRange):
			err = &ValidationError{Kind: EmptyRequired, Field: prefix + ".date_range"}
		}
		if err != nil {
			return err
		}
	}

	return err
}

func validateContact(c Contact) (err error) {
	switch {
	case blank(c.Name):
		err = &ValidationError{Kind: EmptyRequired, Field: "contact.name"}
	case blank(c.Email):
		err = &ValidationError{Kind: EmptyRequired, Field: "contact.email"}
	case blank(c.Phone):
		err = &ValidationError{Kind: EmptyRequired, Field: "contact.phone"}
	}
	if err != nil {
		return err
	}

	for i, link := range c.Links {
		if blank(link) {
			err = &ValidationError{Kind: EmptyRequired, Field: fmt.Sprintf("contact.links[%d]", i)}
			return err
		}
	}

	return err
}

func validateExperience(i int, entry ExperienceEntry) (err error) {
	prefix := fmt.Sprintf("experience[%d]", i)
	switch {
	case blank(entry.Title):
		err = &ValidationError{Kind: EmptyRequired, Field: prefix + ".title"}
	case blank(entry.Organization):
		err = &ValidationError{Kind: EmptyRequired, Field: prefix + ".organization"}
	case blank(entry.DateRange):
		err = &ValidationError{Kind: EmptyRequired, Field: prefix + ".date_range"}
	case len(entry.Bullets) == 0:
		err = &ValidationError{Kind: MissingField, Field: prefix + ".bullets"}
	}
	if err != nil {
		return err
	}

	for j, bullet := range entry.Bullets {
		if blank(bullet) {
			err = &ValidationError{Kind: EmptyRequired, Field: fmt.Sprintf("%s.bullets[%d]", prefix, j)}
			return err
		}
	}

	return err
}

func blank(s string) (ok bool) {
	ok = strings.TrimSpace(s) == ""
	return ok
}
