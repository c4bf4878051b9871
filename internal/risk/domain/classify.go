package domain

// Classify selects the first band whose range contains the rate. Ranges are
// half-open [min, max) except the last band, whose max is inclusive so that
// exactly 100% classifies. Rates outside [0,100] are rejected; callers clamp
// overpayment before classifying. Gaps in the configuration yield
// ErrUnclassified rather than a guessed tier.
func Classify(rate float64, bands []Band) (Band, error) {
	if rate < 0 || rate > 100 {
		return Band{}, ErrInvalidRate
	}
	if len(bands) == 0 {
		return Band{}, ErrNoBands
	}

	last := len(bands) - 1
	for i, band := range bands {
		if rate < band.Min {
			continue
		}
		if rate < band.Max || (i == last && rate <= band.Max) {
			return band, nil
		}
	}
	return Band{}, ErrUnclassified
}

// ClampRate bounds a raw payment rate into the classifiable [0,100] range.
// Overpaid students classify as exactly 100%.
func ClampRate(rate float64) float64 {
	if rate < 0 {
		return 0
	}
	if rate > 100 {
		return 100
	}
	return rate
}

// DefaultBands is the bootstrap configuration seeded when no settings row
// exists yet.
func DefaultBands() []Band {
	return []Band{
		{Name: "Critique", Min: 0, Max: 25, Color: "#d32f2f"},
		{Name: "À risque", Min: 25, Max: 50, Color: "#f57c00"},
		{Name: "Modéré", Min: 50, Max: 75, Color: "#fbc02d"},
		{Name: "Solvable", Min: 75, Max: 100, Color: "#388e3c"},
	}
}
