package screening

import (
	"regexp"
	"strings"
	"time"
)

// dateLayout is the only date format accepted across all documents.
const dateLayout = "2006-01-02"

// parseDate strictly parses a document date. Malformed input is classified,
// never an error.
func parseDate(s string) (time.Time, bool) {
	t, err := time.Parse(dateLayout, s)
	return t, err == nil
}

var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+`)

// emailShaped applies the deliberately permissive local@domain.tld structural
// check used for dossier fields. Full RFC validation rejects addresses the
// upstream document generator produces, so it is not used here.
func emailShaped(s string) bool {
	return emailPattern.MatchString(s)
}

// phoneShaped reports whether the value is all decimal digits once "+" and
// spaces are stripped.
func phoneShaped(s string) bool {
	stripped := strings.ReplaceAll(strings.ReplaceAll(s, "+", ""), " ", "")
	if stripped == "" {
		return false
	}
	for _, r := range stripped {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var passportNumberPattern = regexp.MustCompile(`^[A-Z0-9]+$`)

// passportNumberShaped reports whether the value matches the upper-case
// alphanumeric passport number format.
func passportNumberShaped(s string) bool {
	return passportNumberPattern.MatchString(s)
}

// squashName removes all whitespace and lower-cases, so that composed names
// compare independent of spacing and case.
func squashName(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}
