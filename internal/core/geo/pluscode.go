package geo

import (
	"regexp"
	"strings"
)

// PlusCodePrefix marks a stored coordinate string as a Plus Code. Plus Codes
// are kept verbatim and never geocoded to lat/lng.
const PlusCodePrefix = "pluscode:"

// A Plus Code token: alphanumeric with an embedded '+', at least 3 characters
// before it and 2 after. Validated by shape only.
var rePlusCode = regexp.MustCompile(`(?i)\b[A-Z0-9]{3,10}\+[A-Z0-9]{2,3}\b`)

// IsPlusCode reports whether the whole trimmed input is a Plus Code.
func IsPlusCode(raw string) bool {
	s := strings.TrimSpace(raw)
	return rePlusCode.FindString(s) == s && s != ""
}

// ExtractPlusCode returns the first Plus Code token embedded in free text,
// or "" when none is present. Codes are upper-cased for storage.
func ExtractPlusCode(raw string) string {
	return strings.ToUpper(rePlusCode.FindString(raw))
}
