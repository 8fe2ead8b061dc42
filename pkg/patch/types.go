package patch

import (
	"fmt"

	"github.com/nikogura/onepage-tailor/pkg/resume"
)

// Patch is the set of content replacements proposed by the generator.
// Nil fields are absent and leave the master value untouched.
type Patch struct {
	Summary *string
	Skills  []string
	Bullets []BulletOverride
}

// BulletOverride replaces the bullets of the master entry identified by Key.
type BulletOverride struct {
	Key     resume.EntryKey
	Bullets []string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() (empty bool) {
	empty = p.Summary == nil && p.Skills == nil && len(p.Bullets) == 0
	return empty
}

// Status tags the outcome of Parse.
type Status int

const (
	// OK means the payload decoded and passed shape validation.
	OK Status = iota
	// ParseFailed means no structured object could be decoded, even after repair.
	ParseFailed
	// ShapeInvalid means an object decoded but violates the patch schema.
	ShapeInvalid
)

func (s Status) String() (name string) {
	switch s {
	case OK:
		name = "ok"
	case ParseFailed:
		name = "parse_failed"
	case ShapeInvalid:
		name = "shape_invalid"
	default:
		name = fmt.Sprintf("status(%d)", int(s))
	}
	return name
}

// Result is the tagged outcome of Parse. Err is a *ParseError or *ShapeError when Status is not OK.
type Result struct {
	Status   Status
	Patch    Patch
	Repaired bool
	Err      error
}

// ParseError means the generator output held no decodable object.
type ParseError struct {
	Raw   string
	Cause error
}

func (e *ParseError) Error() (msg string) {
	msg = fmt.Sprintf("generation output is not a valid patch object: %v (raw: %s)", e.Cause, Excerpt(e.Raw, 200))
	return msg
}

// Unwrap returns the underlying decode error.
func (e *ParseError) Unwrap() (err error) {
	err = e.Cause
	return err
}

// ShapeError means the decoded object does not fit the patch schema.
type ShapeError struct {
	Field  string
	Reason string
}

func (e *ShapeError) Error() (msg string) {
	msg = fmt.Sprintf("generation output has invalid shape at %s: %s", e.Field, e.Reason)
	return msg
}

// Excerpt truncates s to at most n runes for diagnostics.
func Excerpt(s string, n int) (out string) {
	runes := []rune(s)
	if len(runes) <= n {
		out = s
		return out
	}
	out = string(runes[:n]) + "..."
	return out
}
