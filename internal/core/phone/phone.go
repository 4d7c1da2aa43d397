// Package phone normalizes Ecuadorian phone numbers to the local dialing
// format used as the canonical customer key ("0" + 9 digits for mobiles).
package phone

import "strings"

const countryCode = "593"

// digitsOf strips every non-digit character.
func digitsOf(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Normalize converts a phone number in any of the usual typed forms
// (+593987654321, 593987654321, 987654321, 0987654321) to the canonical
// local format 0987654321. Inputs that do not look Ecuadorian are returned
// digit-stripped but otherwise untouched.
func Normalize(raw string) string {
	d := digitsOf(raw)
	if strings.HasPrefix(d, countryCode) && len(d) >= 11 {
		d = d[len(countryCode):]
	}
	if (len(d) == 8 || len(d) == 9) && !strings.HasPrefix(d, "0") {
		d = "0" + d
	}
	return d
}

// Candidates returns the lookup variants for a typed phone query, in the
// order they should be tried against the customer index: as typed, locally
// normalized, country-code-stripped, and the 9-digit-with-leading-zero form.
// Duplicates are removed, order preserved.
func Candidates(raw string) []string {
	var out []string
	seen := make(map[string]bool)
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}

	add(strings.TrimSpace(raw))
	add(Normalize(raw))

	d := digitsOf(raw)
	if strings.HasPrefix(d, countryCode) && len(d) >= 10 {
		stripped := d[len(countryCode):]
		add(stripped)
		if len(stripped) == 9 {
			add("0" + stripped)
		}
	}

	return out
}

// IsPhoneLike reports whether a free-text query should be treated as a phone
// number: at least 7 digits, no letters, only digits and common separators.
func IsPhoneLike(query string) bool {
	digits := 0
	for _, r := range strings.TrimSpace(query) {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+' || r == '-' || r == ' ' || r == '(' || r == ')' || r == '.':
			// separator, fine
		default:
			return false
		}
	}
	return digits >= 7
}
