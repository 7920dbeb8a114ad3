// Package mapping converts questions to and from external store schemas
// and encodes respondent answers as store records.
package mapping

import (
	"regexp"
	"strconv"
	"strings"

	"surveyforge/internal/model"
)

// Reserved property names; Key never produces them.
const (
	KeyResponseID  = "Response ID"
	KeySubmittedAt = "Submitted At"
	KeyCreatedAt   = "Created At"
	KeyEmail       = "Email"
)

var reservedKeys = map[string]bool{
	KeyResponseID:  true,
	KeySubmittedAt: true,
	KeyCreatedAt:   true,
	KeyEmail:       true,
}

// Notion rejects commas in property and option names.
var sanitizer = strings.NewReplacer(",", ";")

var keyPattern = regexp.MustCompile(`^Q(\d+): (.+)$`)

// Key returns the property name for the question at 0-based index.
func Key(index int, text string) string {
	return "Q" + strconv.Itoa(index+1) + ": " + Sanitize(text)
}

// PropertyName returns the property a question is stored under: its Key
// when it was read from a schema, otherwise the positional Key.
func PropertyName(index int, q model.Question) string {
	if q.Key != "" {
		return q.Key
	}
	return Key(index, q.Text)
}

// Sanitize replaces characters the store forbids in names. It is lossy.
func Sanitize(s string) string {
	return sanitizer.Replace(strings.TrimSpace(s))
}

// IsReserved reports whether key is one of the fixed respondent properties.
func IsReserved(key string) bool {
	return reservedKeys[key]
}

// ParseKey splits a Key back into its 0-based index and sanitized text.
func ParseKey(key string) (int, string, bool) {
	m := keyPattern.FindStringSubmatch(key)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 {
		return 0, "", false
	}
	return n - 1, m[2], true
}
