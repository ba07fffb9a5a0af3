package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
)

func usePlain(t *testing.T) {
	t.Helper()
	SetPlain(true)
	t.Cleanup(func() { SetPlain(false) })
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 5, "hello"},
		{"cut", "hello world", 6, "hello…"},
		{"zero width", "hello", 0, ""},
		{"one cell", "hello", 1, "…"},
		{"combining marks kept whole", "e\u0301e\u0301e\u0301e\u0301", 3, "e\u0301e\u0301…"},
		{"wide runes", "日本語テキスト", 7, "日本語…"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.width); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestWidth_IgnoresEscapes(t *testing.T) {
	styled := KeyStyle.Render("abc")
	if got := Width(styled); got != 3 {
		t.Errorf("Width(%q) = %d, want 3", styled, got)
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 4); got != "ab  " {
		t.Errorf("PadRight = %q", got)
	}
	if got := PadRight("abcdef", 4); got != "abcdef" {
		t.Errorf("PadRight should not cut, got %q", got)
	}
	styled := PadRight(KeyStyle.Render("ab"), 4)
	if ansi.Strip(styled) != "ab  " {
		t.Errorf("styled PadRight = %q", ansi.Strip(styled))
	}
}

func TestKeyValues_Plain(t *testing.T) {
	usePlain(t)

	got := KeyValues("Model", []KV{
		{Key: "model", Value: "gpt-4o"},
		{Key: "kid", Value: ""},
	})
	want := "Model\n  model  gpt-4o\n  kid    (unset)\n"
	if got != want {
		t.Errorf("KeyValues =\n%q\nwant\n%q", got, want)
	}
}

func TestTable_Plain(t *testing.T) {
	usePlain(t)

	got := Table([]string{"GID", "NAME"}, [][]string{
		{"a", "Writer"},
		{"bbbb", "x"},
	}, 0)
	want := strings.Join([]string{
		"GID   NAME",
		"────  ──────",
		"a     Writer",
		"bbbb  x",
		"",
	}, "\n")
	if got != want {
		t.Errorf("Table =\n%s\nwant\n%s", got, want)
	}
}

func TestTable_TruncatesAndFillsMissingCells(t *testing.T) {
	usePlain(t)

	got := Table([]string{"A", "B"}, [][]string{{"a very long value"}}, 6)
	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), got)
	}
	if !strings.HasPrefix(lines[2], "a ver…") {
		t.Errorf("row = %q, want truncated cell", lines[2])
	}
}

func TestTable_StyledAlignment(t *testing.T) {
	got := Table([]string{"GID", "NAME"}, [][]string{{"bbbb", "x"}}, 0)
	lines := strings.Split(ansi.Strip(got), "\n")
	if lines[0] != "GID   NAME" {
		t.Errorf("styled header = %q", lines[0])
	}
}

func TestHighlightJSON(t *testing.T) {
	in := `{"model": "gpt-4o", "max_tokens": 1024}`

	out := HighlightJSON(in)
	if !strings.Contains(out, "\x1b[") {
		t.Error("expected ANSI escapes in highlighted output")
	}
	if stripped := ansi.Strip(out); !strings.Contains(stripped, `"gpt-4o"`) {
		t.Errorf("highlighted text lost content: %q", stripped)
	}

	usePlain(t)
	if got := HighlightJSON(in); got != in {
		t.Errorf("plain HighlightJSON = %q, want input unchanged", got)
	}
}

func TestStatusHelpers_Plain(t *testing.T) {
	usePlain(t)

	if got := Success("saved"); got != "✓ saved" {
		t.Errorf("Success = %q", got)
	}
	if got := Warning("careful"); got != "! careful" {
		t.Errorf("Warning = %q", got)
	}
	if got := Title("Model"); got != "Model" {
		t.Errorf("Title = %q", got)
	}
}
