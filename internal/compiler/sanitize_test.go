package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "name: a\nscenes: []\n", "name: a\nscenes: []\n"},
		{"keeps tabs and CR", "a\tb\r\n", "a\tb\r\n"},
		{"strips escapes", "Hello \x1b[31mred\x1b[0m\x00", "Hello [31mred[0m"},
		{"keeps non-latin", "مرحبًا", "مرحبًا"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Sanitize([]byte(tt.in), 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestSanitize_Rejects(t *testing.T) {
	_, err := Sanitize([]byte("0123456789"), 4)
	assert.ErrorIs(t, err, ErrDocumentTooLarge)

	_, err = Sanitize([]byte{'a', 0xff, 'b'}, 0)
	assert.ErrorIs(t, err, ErrInvalidUTF8)
}

func TestCompile_MaxSize(t *testing.T) {
	doc := []byte("scenes: [{languages: [en], children: [hi]}]")
	_, err := New(nil, WithMaxSize(8)).Compile(doc, FormatYAML)
	assert.ErrorIs(t, err, ErrDocumentTooLarge)
}
