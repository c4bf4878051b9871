package domain

import (
	"errors"
	"testing"
)

func quartiles() []Band {
	return []Band{
		{Name: "q0", Min: 0, Max: 25},
		{Name: "q1", Min: 25, Max: 50},
		{Name: "q2", Min: 50, Max: 75},
		{Name: "q3", Min: 75, Max: 100},
	}
}

func TestClassifyBandEdges(t *testing.T) {
	cases := []struct {
		rate float64
		want string
	}{
		{0, "q0"},
		{24.999, "q0"},
		{25, "q1"},
		{49.999, "q1"},
		{75, "q3"},
		{100, "q3"},
	}
	for _, tc := range cases {
		band, err := Classify(tc.rate, quartiles())
		if err != nil {
			t.Fatalf("Classify(%v): %v", tc.rate, err)
		}
		if band.Name != tc.want {
			t.Errorf("Classify(%v) = %q, want %q", tc.rate, band.Name, tc.want)
		}
	}
}

func TestClassifyRejectsOutOfRange(t *testing.T) {
	if _, err := Classify(150, quartiles()); !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}
	if _, err := Classify(-1, quartiles()); !errors.Is(err, ErrInvalidRate) {
		t.Fatalf("expected ErrInvalidRate, got %v", err)
	}
}

func TestClassifyGapReturnsUnclassified(t *testing.T) {
	gapped := []Band{
		{Name: "low", Min: 0, Max: 40},
		{Name: "high", Min: 60, Max: 100},
	}
	if _, err := Classify(50, gapped); !errors.Is(err, ErrUnclassified) {
		t.Fatalf("expected ErrUnclassified, got %v", err)
	}

	// Values inside declared bands still classify.
	band, err := Classify(30, gapped)
	if err != nil || band.Name != "low" {
		t.Fatalf("Classify(30) = %v, %v", band, err)
	}
}

func TestClassifyNoBands(t *testing.T) {
	if _, err := Classify(50, nil); !errors.Is(err, ErrNoBands) {
		t.Fatalf("expected ErrNoBands, got %v", err)
	}
}

func TestClampRate(t *testing.T) {
	if got := ClampRate(150); got != 100 {
		t.Fatalf("ClampRate(150) = %v", got)
	}
	if got := ClampRate(-5); got != 0 {
		t.Fatalf("ClampRate(-5) = %v", got)
	}
	if got := ClampRate(42.5); got != 42.5 {
		t.Fatalf("ClampRate(42.5) = %v", got)
	}
}
