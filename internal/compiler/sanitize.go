package compiler

import (
	"bytes"
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"
)

var (
	ErrDocumentTooLarge = errors.New("document exceeds maximum allowed size")
	ErrInvalidUTF8      = errors.New("document contains invalid UTF-8 sequences")
)

// Sanitize enforces the size limit (when positive), validates UTF-8 and
// strips control characters other than newline, tab and carriage return, so
// narration never carries ANSI escapes into logs or terminals.
func Sanitize(data []byte, limit int) ([]byte, error) {
	if limit > 0 && len(data) > limit {
		return nil, fmt.Errorf("%w: size=%d limit=%d", ErrDocumentTooLarge, len(data), limit)
	}
	if !utf8.Valid(data) {
		return nil, ErrInvalidUTF8
	}

	clean := true
	for _, r := range string(data) {
		if unicode.IsControl(r) && !isSafeControl(r) {
			clean = false
			break
		}
	}
	if clean {
		return data, nil
	}

	var b bytes.Buffer
	b.Grow(len(data))
	for _, r := range string(data) {
		if !unicode.IsControl(r) || isSafeControl(r) {
			b.WriteRune(r)
		}
	}
	return b.Bytes(), nil
}

func isSafeControl(r rune) bool {
	return r == '\n' || r == '\t' || r == '\r'
}
