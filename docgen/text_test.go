package docgen

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestWrapText_EightyFiveCharacters(t *testing.T) {
	text := strings.Repeat("abcd ", 16) + "abcde"
	if utf8.RuneCountInString(text) != 85 {
		t.Fatalf("fixture should be 85 characters, got %d", utf8.RuneCountInString(text))
	}

	lines := WrapText(text, 40)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), lines)
	}
	for _, line := range lines {
		if utf8.RuneCountInString(line) > 40 {
			t.Fatalf("line exceeds 40 characters: %q", line)
		}
	}
	if strings.Join(lines, " ") != text {
		t.Fatalf("wrapping altered words: %q", lines)
	}
}

func TestWrapText_LongWordKeepsOwnLine(t *testing.T) {
	long := strings.Repeat("x", 50)
	lines := WrapText("short "+long+" tail", 40)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", lines)
	}
	if lines[1] != long {
		t.Fatalf("expected long word alone on its line, got %q", lines[1])
	}
}

func TestWrapText_Empty(t *testing.T) {
	if lines := WrapText("   ", 40); len(lines) != 0 {
		t.Fatalf("expected no lines, got %q", lines)
	}
}

func TestWrapText_DeterministicAccents(t *testing.T) {
	text := "Expectativa de safra recorde impulsiona mercado de milho e soja na região"
	first := WrapText(text, DefaultWrapWidth)
	second := WrapText(text, DefaultWrapWidth)
	if strings.Join(first, "|") != strings.Join(second, "|") {
		t.Fatalf("wrap is not deterministic")
	}
	for _, line := range first {
		if utf8.RuneCountInString(line) > DefaultWrapWidth {
			t.Fatalf("line too long: %q", line)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("expected untouched text, got %q", got)
	}
	got := Truncate("ESPAÇADOR FISHER PRICE HC188 MULTILASER", 20)
	if utf8.RuneCountInString(got) != 20 {
		t.Fatalf("expected 20 characters, got %d (%q)", utf8.RuneCountInString(got), got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis, got %q", got)
	}
}

func TestObjectList_SkipsNonObjects(t *testing.T) {
	data := Data{"itens": []any{map[string]any{"descricao": "a"}, "oops", 3}}
	items := ObjectList(data, "itens")
	if len(items) != 1 {
		t.Fatalf("expected 1 object, got %d", len(items))
	}
	if ObjectList(data, "missing") != nil {
		t.Fatalf("expected nil for missing list")
	}
}
