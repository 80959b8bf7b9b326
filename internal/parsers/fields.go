package parsers

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
)

// Loose-typed accessors over decoded JSON. Scanner schemas are wildly
// inconsistent, so adapters work on map[string]any and pull fields through
// these tolerant helpers instead of rigid structs.

// decodeObject unmarshals content into a JSON object. ok is false for
// anything that is not a syntactically valid object.
func decodeObject(content string) (map[string]any, bool) {
	var m map[string]any
	if err := json.Unmarshal([]byte(content), &m); err != nil {
		return nil, false
	}
	return m, true
}

// decodeArray unmarshals content into a top-level JSON array.
func decodeArray(content string) ([]any, bool) {
	var s []any
	if err := json.Unmarshal([]byte(content), &s); err != nil {
		return nil, false
	}
	return s, true
}

// asMap returns v as an object, or an empty map, so call chains never nil-check.
func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

// asSlice returns v as an array, or nil.
func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}

// str returns the value under key rendered as a string. Numbers are
// formatted, everything else non-string yields "".
func str(m map[string]any, key string) string {
	return toString(m[key])
}

// firstStr tries keys in order and returns the first non-empty string value.
func firstStr(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := toString(m[k]); s != "" {
			return s
		}
	}
	return ""
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}

// num returns the value under key as a float64 when it is numeric or a
// numeric string.
func num(m map[string]any, key string) (float64, bool) {
	switch t := m[key].(type) {
	case float64:
		return t, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// intval returns the value under key as an int, tolerating numeric strings.
func intval(m map[string]any, key string) int {
	if f, ok := num(m, key); ok {
		return int(f)
	}
	return 0
}

// firstOf tries keys in order and returns the first present value, untyped.
func firstOf(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// parseFloat wraps strconv for the string-typed score fields CSV exports carry.
func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f, err == nil
}

// has reports whether any of the given keys is present in the object,
// mirroring the key-presence sniffing the Detect probes rely on.
func has(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

// cweNumber extracts the numeric part of a CWE identifier in any of the
// shapes scanners use: 79, "79", "CWE-79", ["CWE-79", ...].
func cweNumber(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		s := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(t)), "CWE-")
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0
		}
		return n
	case []any:
		if len(t) > 0 {
			return cweNumber(t[0])
		}
	}
	return 0
}

// stringList coerces a value into a list of strings: a single string becomes
// a one-element list, arrays keep their stringable elements, anything else
// yields nil.
func stringList(v any) []string {
	switch t := v.(type) {
	case string:
		if t == "" {
			return nil
		}
		return []string{t}
	case []any:
		var out []string
		for _, e := range t {
			if s := toString(e); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// splitTags handles tag fields that arrive either as arrays or as a single
// comma-separated string.
func splitTags(v any) []string {
	if s, ok := v.(string); ok {
		if s == "" {
			return nil
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return stringList(v)
}

// truncate caps s at n runes; titles from free-form fields can be huge.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// nonEmpty returns s, or fallback when s is empty.
func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// csvRows parses headered CSV into one map per row keyed by the original
// header names. Rows are collected until the first read error, so a
// truncated file still yields its intact prefix.
func csvRows(content string) []map[string]string {
	r := csv.NewReader(strings.NewReader(content))
	r.FieldsPerRecord = -1

	headers, err := r.Read()
	if err != nil {
		return nil
	}

	var rows []map[string]string
	for {
		rec, err := r.Read()
		if err == io.EOF || (err != nil && len(rec) == 0) {
			break
		}
		row := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(rec) {
				row[h] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}

// csvField returns the first non-empty value among candidate header names,
// matched case-insensitively.
func csvField(row map[string]string, keys ...string) string {
	for _, k := range keys {
		for h, v := range row {
			if strings.EqualFold(h, k) && v != "" {
				return v
			}
		}
	}
	return ""
}

// rawRow converts a CSV row into the raw-data map shape findings carry.
func rawRow(row map[string]string) map[string]any {
	m := make(map[string]any, len(row))
	for k, v := range row {
		m[k] = v
	}
	return m
}

// lines splits content into trimmed lines, for line-delimited JSON formats.
func lines(content string) []string {
	raw := strings.Split(strings.TrimSpace(content), "\n")
	out := make([]string, 0, len(raw))
	for _, l := range raw {
		out = append(out, strings.TrimSpace(l))
	}
	return out
}
