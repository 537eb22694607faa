// Package validation collects field-level form violations. Handlers supply
// the user-facing message so the package stays agnostic of wording.
package validation

import (
	"regexp"
	"strconv"
	"strings"
)

// Violations maps a form field to its first validation message.
type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// Add records msg for field unless an earlier check already flagged it.
func (v Violations) Add(field, msg string) {
	if _, seen := v[field]; !seen {
		v[field] = msg
	}
}

// List returns the messages in no particular order, for templates that show
// a flat alert block.
func (v Violations) List() []string {
	out := make([]string, 0, len(v))
	for _, msg := range v {
		out = append(out, msg)
	}
	return out
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func Required(field, value, msg string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v.Add(field, msg)
	}
}

func Email(field, value, msg string, v Violations) {
	if !emailPattern.MatchString(strings.TrimSpace(value)) {
		v.Add(field, msg)
	}
}

// MinChars counts runes, not bytes; accented form input is common here.
func MinChars(field, value string, n int, msg string, v Violations) {
	if len([]rune(value)) < n {
		v.Add(field, msg)
	}
}

func MaxChars(field, value string, n int, msg string, v Violations) {
	if len([]rune(value)) > n {
		v.Add(field, msg)
	}
}

// Numeric requires a base-10 integer, the shape of select values and counts.
func Numeric(field, value, msg string, v Violations) {
	if _, err := strconv.Atoi(strings.TrimSpace(value)); err != nil {
		v.Add(field, msg)
	}
}

func Equals(field, value, other, msg string, v Violations) {
	if value != other {
		v.Add(field, msg)
	}
}
