package ui

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// Ellipsis marks truncated text.
const Ellipsis = "…"

// KV is one row of a KeyValues block. An empty Value renders as Unset.
type KV struct {
	Key   string
	Value string
}

// Unset is shown for empty values.
const Unset = "(unset)"

// Width returns the display width of s in terminal cells, ignoring ANSI escapes.
func Width(s string) int {
	return runewidth.StringWidth(ansi.Strip(s))
}

// Truncate shortens s to at most width cells, ending in Ellipsis when cut.
// Grapheme clusters (emoji sequences, combining marks) are kept whole.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}

	limit := width - runewidth.StringWidth(Ellipsis)
	var b strings.Builder
	used := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		cluster := gr.Str()
		w := runewidth.StringWidth(cluster)
		if used+w > limit {
			break
		}
		b.WriteString(cluster)
		used += w
	}
	b.WriteString(Ellipsis)
	return b.String()
}

// PadRight pads s with spaces to width cells. Styled input is measured
// without its escapes.
func PadRight(s string, width int) string {
	if gap := width - Width(s); gap > 0 {
		return s + strings.Repeat(" ", gap)
	}
	return s
}

// KeyValues renders a title followed by aligned key/value rows.
func KeyValues(title string, rows []KV) string {
	keyWidth := 0
	for _, r := range rows {
		if w := runewidth.StringWidth(r.Key); w > keyWidth {
			keyWidth = w
		}
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(Title(title))
		b.WriteString("\n")
	}
	for _, r := range rows {
		key := PadRight(render(KeyStyle, r.Key), keyWidth)
		value := render(ValueStyle, r.Value)
		if r.Value == "" {
			value = render(UnsetStyle, Unset)
		}
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString("  ")
		b.WriteString(value)
		b.WriteString("\n")
	}
	return b.String()
}

// Table renders headers and rows as aligned columns. Cells wider than
// maxCell are truncated; maxCell <= 0 disables truncation.
func Table(headers []string, rows [][]string, maxCell int) string {
	cells := make([][]string, 0, len(rows))
	for _, row := range rows {
		out := make([]string, len(headers))
		for i := range headers {
			if i < len(row) {
				out[i] = row[i]
			}
			if maxCell > 0 {
				out[i] = Truncate(out[i], maxCell)
			}
		}
		cells = append(cells, out)
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range cells {
		for i, c := range row {
			if w := runewidth.StringWidth(c); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	writeRow := func(row []string, header bool) {
		for i, c := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			if header {
				c = render(TableHeaderStyle, c)
			}
			if i < len(row)-1 {
				c = PadRight(c, widths[i])
			}
			b.WriteString(c)
		}
		b.WriteString("\n")
	}

	writeRow(headers, true)
	rule := make([]string, len(widths))
	for i, w := range widths {
		rule[i] = render(TableRuleStyle, strings.Repeat("─", w))
	}
	writeRow(rule, false)
	for _, row := range cells {
		writeRow(row, false)
	}
	return b.String()
}

// HighlightJSON syntax-highlights a JSON document for the terminal.
func HighlightJSON(s string) string {
	if plain.Load() {
		return s
	}
	return highlightCode(s, "json")
}

// highlightCode applies syntax highlighting to code using chroma
func highlightCode(code, language string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := styles.Get("monokai")
	if style == nil {
		style = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}

	return buf.String()
}
