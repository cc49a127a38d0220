package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoLanguages is returned when a scene declares no languages.
	ErrNoLanguages = errors.New("scene declares no languages")
	// ErrEmptyLanguage is returned for a blank language tag.
	ErrEmptyLanguage = errors.New("language tag is empty")
	// ErrNoGenerator is returned when a scene has no generation capability.
	ErrNoGenerator = errors.New("scene has no generator")
	// ErrInvalidDirection is returned for a translation direction other than ltr/rtl.
	ErrInvalidDirection = errors.New("invalid text direction")
	// ErrEmptyTag is returned for a markup element without a tag name.
	ErrEmptyTag = errors.New("element tag is empty")
	// ErrTimestampOrder is returned when generated start offsets decrease.
	ErrTimestampOrder = errors.New("token start offsets are not in order")
	// ErrInvalidDuration is returned for a negative duration other than UnknownDuration.
	ErrInvalidDuration = errors.New("invalid token duration")
	// ErrRecordNotFound is returned when a render record cannot be found in the store.
	ErrRecordNotFound = errors.New("record not found")
)

// ValidationError reports a child that is not allowed inside its parent.
type ValidationError struct {
	Parent  Kind // Kind of the node being composed
	Child   any  // The offending value
	Allowed []Kind
}

func (e *ValidationError) Error() string {
	if len(e.Allowed) == 1 {
		return fmt.Sprintf("invalid child for %s: %s. Only %s allowed",
			e.Parent, Describe(e.Child), e.Allowed[0])
	}
	names := make([]string, len(e.Allowed))
	for i, k := range e.Allowed {
		names[i] = k.String()
	}
	return fmt.Sprintf("invalid child for %s: %s (allowed: %s)",
		e.Parent, Describe(e.Child), strings.Join(names, ", "))
}

// Describe renders a value for error messages: nodes by kind, everything
// else by Go type and value.
func Describe(v any) string {
	switch n := v.(type) {
	case nil:
		return "<nil>"
	case Text:
		return fmt.Sprintf("Text(%q)", string(n))
	case Node:
		return n.Kind().String()
	default:
		return fmt.Sprintf("%T(%v)", v, v)
	}
}
