// Package ui holds the terminal styling used by command output.
//
// A single [Palette] defines the accent, success, error, warning, and help
// styles built with lipgloss; the exported render helpers ([Title], [OK],
// [Err], [Warn], [Help]) apply them to status lines and history listings.
package ui
