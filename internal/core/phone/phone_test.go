package phone

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+593987654321", "0987654321"},
		{"593987654321", "0987654321"},
		{"987654321", "0987654321"},
		{"0987654321", "0987654321"},
		{"+593 98 765 4321", "0987654321"},
		{"09-8765-4321", "0987654321"},
		{"+593 2 234 5678", "022345678"},
		{"022345678", "022345678"},
		{"2345678", "2345678"}, // short landline, left alone
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeEquivalence(t *testing.T) {
	// All typed variants of the same mobile number collapse to one key.
	forms := []string{"+593987654321", "593987654321", "987654321", "0987654321"}
	for _, f := range forms {
		if got := Normalize(f); got != "0987654321" {
			t.Errorf("Normalize(%q) = %q, want 0987654321", f, got)
		}
	}
}

func TestCandidates(t *testing.T) {
	got := Candidates("+593987654321")
	want := []string{"+593987654321", "0987654321", "987654321"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates(+593987654321) = %v, want %v", got, want)
	}

	// Already-canonical input collapses to a single candidate.
	got = Candidates("0987654321")
	want = []string{"0987654321"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Candidates(0987654321) = %v, want %v", got, want)
	}
}

func TestIsPhoneLike(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"0987654321", true},
		{"+593 98 765 4321", true},
		{"(09) 8765-4321", true},
		{"2345678", true},
		{"234567", false},    // too few digits
		{"Juan Pérez", false}, // letters
		{"p1 0987654", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsPhoneLike(tt.in); got != tt.want {
			t.Errorf("IsPhoneLike(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
