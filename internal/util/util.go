// Package util provides small helpers shared by the dispatcher handlers and the CLI.
package util

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"unicode"
)

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// FixEscapeQuotes replaces escaped double quotes ("") with single double quotes (").
func FixEscapeQuotes(s string) string {
	return strings.ReplaceAll(s, `""`, `"`)
}

// Unquote trims surrounding quotes and unescapes doubled quotes.
func Unquote(s string) string {
	return FixEscapeQuotes(TrimQuotes(strings.TrimSpace(s)))
}

// Contains reports whether str is in slice.
func Contains(slice []string, str string) bool {
	for _, s := range slice {
		if s == str {
			return true
		}
	}
	return false
}

// RequireArgs returns an error unless args has at least n entries.
func RequireArgs(args []string, n int) error {
	if len(args) < n {
		return fmt.Errorf("expected at least %d args, got %d", n, len(args))
	}
	return nil
}

// FloatArg parses args[i] as a float.
func FloatArg(args []string, i int) (float64, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing arg %d", i)
	}
	v, err := strconv.ParseFloat(Unquote(args[i]), 64)
	if err != nil {
		return 0, fmt.Errorf("arg %d: %w", i, err)
	}
	return v, nil
}

// IntArg parses args[i] as an int.
func IntArg(args []string, i int) (int, error) {
	if i >= len(args) {
		return 0, fmt.Errorf("missing arg %d", i)
	}
	v, err := strconv.Atoi(Unquote(args[i]))
	if err != nil {
		return 0, fmt.Errorf("arg %d: %w", i, err)
	}
	return v, nil
}

// XYArgs parses args[i] and args[i+1] as a coordinate pair.
func XYArgs(args []string, i int) (x, y float64, err error) {
	if x, err = FloatArg(args, i); err != nil {
		return 0, 0, err
	}
	if y, err = FloatArg(args, i+1); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// BoolArg reports whether args[i] is a true value. Missing args are false.
func BoolArg(args []string, i int) bool {
	if i >= len(args) {
		return false
	}
	v, err := strconv.ParseBool(Unquote(args[i]))
	return err == nil && v
}

// KeyValues parses "key=value" args into a map. Args without '=' are rejected.
func KeyValues(args []string) (map[string]string, error) {
	out := make(map[string]string, len(args))
	for _, arg := range args {
		k, v, ok := strings.Cut(Unquote(arg), "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("malformed field %q, expected key=value", arg)
		}
		out[k] = v
	}
	return out, nil
}

// SplitCommandLine splits a script line into fields. Double-quoted fields may
// contain spaces; a doubled quote inside them is a literal quote.
func SplitCommandLine(line string) ([]string, error) {
	var (
		fields  []string
		b       strings.Builder
		quoted  bool
		inField bool
	)
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"' && quoted && i+1 < len(runes) && runes[i+1] == '"':
			b.WriteRune('"')
			i++
		case r == '"':
			quoted = !quoted
			inField = true
		case unicode.IsSpace(r) && !quoted:
			if inField {
				fields = append(fields, b.String())
				b.Reset()
				inField = false
			}
		default:
			b.WriteRune(r)
			inField = true
		}
	}
	if quoted {
		return nil, fmt.Errorf("unterminated quote in %q", line)
	}
	if inField {
		fields = append(fields, b.String())
	}
	return fields, nil
}

// SanitizeFilename turns a document title into a safe file base name.
// An empty result falls back to "session".
func SanitizeFilename(title string) string {
	var b strings.Builder
	lastDash := false
	for _, r := range strings.TrimSpace(title) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(unicode.ToLower(r))
			lastDash = false
		case r == '-' || r == '_' || unicode.IsSpace(r):
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	name := strings.TrimRight(b.String(), "-")
	if name == "" {
		name = "session"
	}
	return filepath.Base(name)
}
