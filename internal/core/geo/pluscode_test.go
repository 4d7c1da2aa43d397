package geo

import "testing"

func TestIsPlusCode(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"8FVC9G8F+5W", true},
		{"9G8F+5W", true},
		{"8FVC9G8F+5W extra", false}, // whole string must be the code
		{"-1.87,-79.97", false},
		{"calle 10 + av 5", false},
		{"ab+cd", false}, // too few chars before '+'
		{"", false},
	}
	for _, tt := range tests {
		if got := IsPlusCode(tt.in); got != tt.want {
			t.Errorf("IsPlusCode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestExtractPlusCode(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"8FVC9G8F+5W", "8FVC9G8F+5W"},
		{"8FVC9G8F+5W reference text", "8FVC9G8F+5W"},
		{"frente al parque 8fvc9g8f+5w", "8FVC9G8F+5W"},
		{"no code here", ""},
	}
	for _, tt := range tests {
		if got := ExtractPlusCode(tt.in); got != tt.want {
			t.Errorf("ExtractPlusCode(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseLocationInput(t *testing.T) {
	tests := []struct {
		in        string
		kind      CoordinateKind
		canonical string
		wantErr   bool
	}{
		{"", KindEmpty, "", false},
		{"-1,8732619,-79,9795561", KindLatLng, "-1.8732619,-79.9795561", false},
		{"8FVC9G8F+5W", KindPlusCode, "pluscode:8FVC9G8F+5W", false},
		{"https://maps.google.com/?q=-1.5,-79.5", KindLatLng, "-1.5,-79.5", false},
		{"https://maps.app.goo.gl/NoCoords", 0, "", true},
		{"91,10", 0, "", true},
	}
	for _, tt := range tests {
		in, err := ParseLocationInput(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseLocationInput(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseLocationInput(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if in.Kind != tt.kind || in.Canonical() != tt.canonical {
			t.Errorf("ParseLocationInput(%q) = kind %v canonical %q, want kind %v canonical %q",
				tt.in, in.Kind, in.Canonical(), tt.kind, tt.canonical)
		}
	}
}

func TestDecodeStored(t *testing.T) {
	in, err := DecodeStored("pluscode:8FVC9G8F+5W")
	if err != nil || in.Kind != KindPlusCode || in.PlusCode != "8FVC9G8F+5W" {
		t.Errorf("DecodeStored(pluscode) = %+v, %v", in, err)
	}
	in, err = DecodeStored("-1.87,-79.97")
	if err != nil || in.Kind != KindLatLng {
		t.Errorf("DecodeStored(latlng) = %+v, %v", in, err)
	}
	in, err = DecodeStored("")
	if err != nil || in.Kind != KindEmpty {
		t.Errorf("DecodeStored(empty) = %+v, %v", in, err)
	}
}
