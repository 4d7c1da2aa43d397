package geo

import (
	"fmt"
	"strings"
)

// CoordinateKind tags the three mutually exclusive raw location formats.
type CoordinateKind int

const (
	KindEmpty CoordinateKind = iota
	KindLatLng
	KindPlusCode
)

// LocationInput is the parsed form of whatever the operator pasted into the
// location field.
type LocationInput struct {
	Kind     CoordinateKind
	Point    Point
	PlusCode string
}

// ParseLocationInput classifies and parses raw location text. Empty input is
// valid (a location may carry only reference text).
func ParseLocationInput(raw string) (LocationInput, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return LocationInput{Kind: KindEmpty}, nil
	}

	if IsMapsURL(s) {
		p, ok := ExtractFromMapsURL(s)
		if !ok {
			return LocationInput{}, fmt.Errorf("no coordinates found in maps link")
		}
		return LocationInput{Kind: KindLatLng, Point: p}, nil
	}

	if code := ExtractPlusCode(s); code != "" {
		return LocationInput{Kind: KindPlusCode, PlusCode: code}, nil
	}

	p, err := ParseCoordinates(s)
	if err != nil {
		return LocationInput{}, err
	}
	return LocationInput{Kind: KindLatLng, Point: p}, nil
}

// Canonical returns the storage form: "" for empty, "lat,lng" for
// coordinates, "pluscode:CODE" for Plus Codes.
func (in LocationInput) Canonical() string {
	switch in.Kind {
	case KindLatLng:
		return FormatCoordinates(in.Point)
	case KindPlusCode:
		return PlusCodePrefix + in.PlusCode
	default:
		return ""
	}
}

// DecodeStored parses a canonical stored coordinate string back into a
// LocationInput. Used when rehydrating order snapshots and recomputing fees.
func DecodeStored(stored string) (LocationInput, error) {
	s := strings.TrimSpace(stored)
	if s == "" {
		return LocationInput{Kind: KindEmpty}, nil
	}
	if strings.HasPrefix(s, PlusCodePrefix) {
		return LocationInput{Kind: KindPlusCode, PlusCode: strings.TrimPrefix(s, PlusCodePrefix)}, nil
	}
	p, err := ParseCoordinates(s)
	if err != nil {
		return LocationInput{}, err
	}
	return LocationInput{Kind: KindLatLng, Point: p}, nil
}
