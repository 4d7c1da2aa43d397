// Package geo parses the raw location formats operators paste into the
// dashboard (decimal coordinates, Google Maps links, Plus Codes) and provides
// the distance math behind delivery-zone fee lookups.
package geo

import (
	"fmt"
	"strconv"
	"strings"
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Typed minus signs (U+2212, U+2013) show up when coordinates are copied out
// of rendered pages.
var minusReplacer = strings.NewReplacer("−", "-", "–", "-")

// ParseCoordinates parses a "lat,lng" string. Non-English locales write the
// decimal separator as a comma, so the raw text may carry 1, 2 or 3 commas:
//
//	1 comma:  -1.87,-79.97          (already correct)
//	3 commas: -1,87,-79,97          (both halves use a decimal comma)
//	2 commas: -1,87,-79.97          (one half does; ambiguous, best effort)
func ParseCoordinates(raw string) (Point, error) {
	s := minusReplacer.Replace(strings.TrimSpace(raw))
	s = strings.ReplaceAll(s, " ", "")

	parts := strings.Split(s, ",")
	switch len(parts) {
	case 2:
		return buildPoint(parts[0], parts[1])
	case 4:
		return buildPoint(parts[0]+"."+parts[1], parts[2]+"."+parts[3])
	case 3:
		// Try the decimal comma on the left half first; range validation
		// rejects the wrong guess for most real-world inputs.
		if p, err := buildPoint(parts[0]+"."+parts[1], parts[2]); err == nil {
			return p, nil
		}
		return buildPoint(parts[0], parts[1]+"."+parts[2])
	default:
		return Point{}, fmt.Errorf("unrecognized coordinate format: %q", raw)
	}
}

func buildPoint(latStr, lngStr string) (Point, error) {
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid latitude %q", latStr)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(lngStr), 64)
	if err != nil {
		return Point{}, fmt.Errorf("invalid longitude %q", lngStr)
	}
	p := Point{Lat: lat, Lng: lng}
	if err := Validate(p); err != nil {
		return Point{}, err
	}
	return p, nil
}

// Validate checks WGS84 ranges.
func Validate(p Point) error {
	if p.Lat < -90 || p.Lat > 90 {
		return fmt.Errorf("latitude %v out of range [-90,90]", p.Lat)
	}
	if p.Lng < -180 || p.Lng > 180 {
		return fmt.Errorf("longitude %v out of range [-180,180]", p.Lng)
	}
	return nil
}

// FormatCoordinates serializes a point back to the canonical "lat,lng" form.
func FormatCoordinates(p Point) string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}
