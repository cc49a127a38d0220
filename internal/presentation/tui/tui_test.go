package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/libretto/internal/presentation/tui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf, "0.3.0\n")

	out := buf.String()
	assert.Contains(t, out, "v0.3.0")
	assert.Contains(t, out, "|_|_|_.__/")
}

func TestStatus(t *testing.T) {
	var buf bytes.Buffer
	// A bytes.Buffer is not a terminal, so no escape codes are emitted.
	assert.Equal(t, "ok", tui.Status(&buf, true, "ok"))
	assert.Equal(t, "failed", tui.Status(&buf, false, "failed"))
}

func TestNewRenderer(t *testing.T) {
	render, err := tui.NewRenderer(80)
	require.NoError(t, err)

	out, err := render("# Page\n\n- Scene 0")
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "Page"), out)
	assert.True(t, strings.Contains(out, "Scene 0"), out)
}
