package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the libretto banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{" _ _ _            _   _        ", "#818cf8"},
		{"| (_) |__  _ __ _| |_| |_ ___  ", "#a78bfa"},
		{"| | | '_ \\| '__/ -_)  _|  _/ _ \\", "#c084fc"},
		{"|_|_|_.__/|_|  \\___|\\__|\\__\\___/", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, out.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}

// Status colours a short status word for terminal output.
func Status(w io.Writer, ok bool, text string) string {
	out := termenv.NewOutput(w)
	color := "#22c55e"
	if !ok {
		color = "#ef4444"
	}
	return out.String(text).Foreground(out.Color(color)).Bold().String()
}
