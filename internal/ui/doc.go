// Package ui renders chatstate's terminal output.
//
// # Styles
//
// All styles are defined in styles.go using Lipgloss. The palette is the
// purple and cyan scheme:
//   - ColorPrimary (#7C3AED): titles and section headers
//   - ColorSecondary (#06B6D4): keys and table headers
//   - ColorTextMuted (#B0B8C4): unset values and hints
//
// # Layout
//
// KeyValues renders a titled two-column block; Table renders a column-aligned
// table. Widths are measured in terminal cells on text with ANSI escapes
// stripped, and Truncate never splits a grapheme cluster.
//
// # Highlighting
//
// HighlightJSON runs stored values through chroma with the monokai style and
// the terminal256 formatter.
//
// Call SetPlain(true) to render without escapes, for example when output is
// piped or --json is requested.
package ui
