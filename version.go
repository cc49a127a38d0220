package libretto

import _ "embed"

// Version is the library and CLI version, taken from the VERSION file.
//
//go:embed VERSION
var Version string
