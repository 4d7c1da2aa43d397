package geo

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Coordinate patterns found in shared Google Maps links, in the order they
// are tried: explicit query (?q=lat,lng), place path (/place/lat,lng), and
// the viewport marker (@lat,lng,zoom). First match wins.
var (
	reMapsQuery = regexp.MustCompile(`[?&]q=(-?\d{1,3}(?:\.\d+)?),\s*(-?\d{1,3}(?:\.\d+)?)`)
	reMapsPlace = regexp.MustCompile(`/place/(-?\d{1,3}(?:\.\d+)?),\s*(-?\d{1,3}(?:\.\d+)?)`)
	reMapsAt    = regexp.MustCompile(`@(-?\d{1,3}(?:\.\d+)?),(-?\d{1,3}(?:\.\d+)?)`)
)

// IsMapsURL reports whether the raw input looks like a shared maps link.
func IsMapsURL(raw string) bool {
	s := strings.ToLower(strings.TrimSpace(raw))
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") ||
		strings.Contains(s, "google.com/maps") || strings.Contains(s, "maps.app.goo.gl")
}

// ExtractFromMapsURL pulls a coordinate pair out of a Google Maps URL.
// Returns false when no known pattern matches or the pair is out of range.
func ExtractFromMapsURL(raw string) (Point, bool) {
	s := strings.TrimSpace(raw)
	if decoded, err := url.QueryUnescape(s); err == nil {
		s = decoded
	}

	for _, re := range []*regexp.Regexp{reMapsQuery, reMapsPlace, reMapsAt} {
		m := re.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		lat, err1 := strconv.ParseFloat(m[1], 64)
		lng, err2 := strconv.ParseFloat(m[2], 64)
		if err1 != nil || err2 != nil {
			continue
		}
		p := Point{Lat: lat, Lng: lng}
		if Validate(p) != nil {
			continue
		}
		return p, true
	}
	return Point{}, false
}
