package domain

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

// Band is one named payment-rate range used to label solvency. Bands are
// ordered and assumed by callers to cover [0,100] without gaps; the system
// does not enforce coverage on write.
type Band struct {
	Name  string  `json:"name"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	Color string  `json:"color"`
}

// Settings is the single active risk configuration row.
type Settings struct {
	ID        int64                     `gorm:"primaryKey"`
	Levels    datatypes.JSONSlice[Band] `gorm:"type:jsonb;not null;default:'[]'"`
	UpdatedAt time.Time                 `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Settings) TableName() string { return "finance_risk_settings" }

// StudentRisk labels one student's payment rate.
type StudentRisk struct {
	StudentID   string  `json:"studentId"`
	FullName    string  `json:"fullName"`
	ClassName   string  `json:"className"`
	PaymentRate float64 `json:"paymentRate"`
	Band        *Band   `json:"band,omitempty"`
	// Unclassified is set when the configured bands leave the rate uncovered.
	Unclassified bool `json:"unclassified,omitempty"`
}

// Distribution counts students per band across a class or the whole school.
type Distribution struct {
	ClassName    string         `json:"className,omitempty"`
	SchoolYear   string         `json:"schoolYear"`
	StudentCount int            `json:"studentCount"`
	PerBand      map[string]int `json:"perBand"`
	Unclassified int            `json:"unclassified"`
	Students     []StudentRisk  `json:"students,omitempty"`
}

var (
	ErrInvalidRate  = errors.New("invalid_rate")
	ErrUnclassified = errors.New("unclassified_rate")
	ErrNoBands      = errors.New("no_risk_bands_configured")
	ErrInvalidBand  = errors.New("invalid_band")
)
