package docgen

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// DefaultWrapWidth is the character budget per line for wrapped text.
const DefaultWrapWidth = 40

// WrapText greedily packs whitespace separated words into lines of at most
// width characters. Words are never split; a word longer than width gets a
// line of its own.
func WrapText(text string, width int) []string {
	if width <= 0 {
		width = DefaultWrapWidth
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	lines := make([]string, 0, len(words)/4+1)
	current := words[0]
	currentLen := utf8.RuneCountInString(current)
	for _, word := range words[1:] {
		wordLen := utf8.RuneCountInString(word)
		if currentLen+1+wordLen <= width {
			current += " " + word
			currentLen += 1 + wordLen
			continue
		}
		lines = append(lines, current)
		current = word
		currentLen = wordLen
	}
	return append(lines, current)
}

// Truncate shortens text to at most limit characters, ending with "..."
// when anything was cut.
func Truncate(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	if limit <= 3 {
		return string(runes[:limit])
	}
	return string(runes[:limit-3]) + "..."
}

// StringValue renders a payload value as display text. Nil becomes "".
func StringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	case float64:
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return fmt.Sprintf("%g", v)
	default:
		return fmt.Sprint(v)
	}
}

// Lookup returns a display string for key in data.
func Lookup(data Data, key string) string {
	if data == nil {
		return ""
	}
	return StringValue(data[key])
}

// ObjectList returns the entries of a list valued field that are objects.
// Non object entries are skipped; a missing field yields nil.
func ObjectList(data Data, key string) []map[string]any {
	if data == nil {
		return nil
	}
	return asObjects(data[key])
}

func asObjects(value any) []map[string]any {
	switch list := value.(type) {
	case []map[string]any:
		return list
	case []any:
		out := make([]map[string]any, 0, len(list))
		for _, entry := range list {
			if obj, ok := entry.(map[string]any); ok {
				out = append(out, obj)
			}
		}
		return out
	default:
		return nil
	}
}
