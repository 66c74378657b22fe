package match

import (
	"reflect"
	"testing"
)

func TestNormalizeInput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  Amoxicillin  ", "Amoxicillin"},
		{"Paracetamol \t 500mg", "Paracetamol 500mg"},
		{"   ", ""},
	}
	for _, tc := range tests {
		if got := NormalizeInput(tc.in); got != tc.want {
			t.Fatalf("NormalizeInput(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestLikePattern(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Amoxicillin", "%amoxicillin%"},
		{"50%_off", "%50!%!_off%"},
		{"a!b", "%a!!b%"},
	}
	for _, tc := range tests {
		if got := LikePattern(tc.in); got != tc.want {
			t.Fatalf("LikePattern(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestContainsFold(t *testing.T) {
	if !ContainsFold("Nimesulide Formulation", "nimesulide") {
		t.Fatal("expected case-insensitive match")
	}
	// Substring matching is deliberately loose: a shorter name matches longer combinations.
	if !ContainsFold("Amoxicillin-Clavulanate", "Amoxicillin") {
		t.Fatal("expected substring match")
	}
	if ContainsFold("anything", "") {
		t.Fatal("empty needle must not match")
	}
}

func TestSplitComposition(t *testing.T) {
	got := SplitComposition("Paracetamol, Propyphenazone,Caffeine, ")
	want := []string{"Paracetamol", "Propyphenazone", "Caffeine"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
	if got := SplitComposition(""); len(got) != 0 {
		t.Fatalf("expected empty slice, got %v", got)
	}
}
