// Package export renders page trees as documents: a Markdown outline for
// review and a sanitized HTML page for publishing.
package export
