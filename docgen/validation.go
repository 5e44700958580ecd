package docgen

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Validate checks data against the template's required fields and list
// entry constraints. Every problem is reported; the returned error lists the
// offending field names.
func Validate(spec TemplateSpec, data Data) error {
	var (
		messages []string
		fields   []string
	)

	for _, field := range spec.RequiredFields {
		value, ok := data[field]
		switch {
		case !ok:
			messages = append(messages, fmt.Sprintf("required field %q not provided", field))
			fields = append(fields, field)
		case isEmpty(value):
			messages = append(messages, fmt.Sprintf("required field %q is empty", field))
			fields = append(fields, field)
		}
	}

	for _, lf := range spec.ListFields {
		value, ok := data[lf.Field]
		if !ok || value == nil {
			continue
		}
		entries, isList := value.([]any)
		if !isList {
			if typed, ok := value.([]map[string]any); ok {
				entries = make([]any, len(typed))
				for i, entry := range typed {
					entries[i] = entry
				}
				isList = true
			}
		}
		if !isList {
			messages = append(messages, fmt.Sprintf("field %q must be a list", lf.Field))
			fields = append(fields, lf.Field)
			continue
		}
		for i, entry := range entries {
			name := fmt.Sprintf("%s[%d]", lf.Field, i+1)
			obj, ok := entry.(map[string]any)
			if !ok {
				messages = append(messages, fmt.Sprintf("item %d of %q must be an object", i+1, lf.Field))
				fields = append(fields, name)
				continue
			}
			var missing []string
			for _, key := range lf.Required {
				if _, ok := obj[key]; !ok {
					missing = append(missing, key)
				}
			}
			if len(missing) > 0 {
				messages = append(messages, fmt.Sprintf("item %d of %q must contain %s", i+1, lf.Field, quoteJoin(missing)))
				fields = append(fields, name)
			}
		}
	}

	for _, field := range outOfRangeNumbers("", data) {
		messages = append(messages, fmt.Sprintf("field %q is not a valid amount", field))
		fields = append(fields, field)
	}

	if len(messages) == 0 {
		return nil
	}
	return NewValidationError(strings.Join(messages, "; "), fields...)
}

// outOfRangeNumbers returns the paths of numeric values ToDecimal rejects,
// in sorted order.
func outOfRangeNumbers(prefix string, value any) []string {
	var out []string
	switch v := value.(type) {
	case map[string]any:
		for key, child := range v {
			path := key
			if prefix != "" {
				path = prefix + "." + key
			}
			out = append(out, outOfRangeNumbers(path, child)...)
		}
		sort.Strings(out)
	case []any:
		for i, child := range v {
			out = append(out, outOfRangeNumbers(fmt.Sprintf("%s[%d]", prefix, i+1), child)...)
		}
	case []map[string]any:
		for i, child := range v {
			out = append(out, outOfRangeNumbers(fmt.Sprintf("%s[%d]", prefix, i+1), child)...)
		}
	default:
		if IsNumber(v) {
			if _, ok := ToDecimal(v); !ok {
				out = append(out, prefix)
			}
		}
	}
	return out
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	default:
		return false
	}
}

func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return strings.Join(quoted, " and ")
}
