package domain

import (
	"testing"
	"time"
)

func TestCanonicalInstallmentID(t *testing.T) {
	cases := []struct {
		raw      string
		position int
		want     string
	}{
		{"tranche1", 0, "tranche1"},
		{"tranche2-1699999999999", 1, "tranche2"},
		{"Tranche 3", 2, "tranche3"},
		{"tranche03", 2, "tranche3"},
		{"1699999999999", 0, "tranche1"},
		{"", 3, "tranche4"},
		{"whatever", 1, "tranche2"},
	}
	for _, tc := range cases {
		if got := CanonicalInstallmentID(tc.raw, tc.position); got != tc.want {
			t.Errorf("CanonicalInstallmentID(%q, %d) = %q, want %q", tc.raw, tc.position, got, tc.want)
		}
	}
}

func TestNormalizeInstallmentsRepairsLegacyIDs(t *testing.T) {
	due := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	in := []Installment{
		{ID: "tranche1-1712345678901", Amount: 75000, DueDate: due},
		{ID: "1712345678902", Name: "Deuxième tranche", Amount: 75000, DueDate: due},
	}

	out := NormalizeInstallments(in)
	if out[0].ID != "tranche1" {
		t.Fatalf("expected tranche1, got %q", out[0].ID)
	}
	if out[0].Name != "Tranche 1" {
		t.Fatalf("expected default name Tranche 1, got %q", out[0].Name)
	}
	if out[1].ID != "tranche2" {
		t.Fatalf("expected tranche2, got %q", out[1].ID)
	}
	if out[1].Name != "Deuxième tranche" {
		t.Fatalf("expected name preserved, got %q", out[1].Name)
	}

	// Input must not be mutated.
	if in[0].ID != "tranche1-1712345678901" {
		t.Fatalf("input mutated: %q", in[0].ID)
	}
}

func TestNormalizeInstallmentsResolvesDuplicates(t *testing.T) {
	in := []Installment{
		{ID: "tranche1-a", Amount: 1},
		{ID: "tranche1-b", Amount: 2},
	}

	out := NormalizeInstallments(in)
	if out[0].ID != "tranche1" {
		t.Fatalf("expected tranche1, got %q", out[0].ID)
	}
	if out[1].ID == out[0].ID {
		t.Fatalf("duplicate ids after normalization: %q", out[1].ID)
	}
	if out[1].ID != "tranche2" {
		t.Fatalf("expected tranche2, got %q", out[1].ID)
	}
}

func TestNormalizeInstallmentsIdempotent(t *testing.T) {
	in := []Installment{
		{ID: "tranche2-1699999999999", Amount: 10},
		{ID: "", Amount: 20},
		{ID: "tranche9", Name: "Solde", Amount: 30},
	}

	once := NormalizeInstallments(in)
	twice := NormalizeInstallments(once)
	for i := range once {
		if once[i] != twice[i] {
			t.Fatalf("normalization not idempotent at %d: %+v vs %+v", i, once[i], twice[i])
		}
	}
}
