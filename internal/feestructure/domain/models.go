package domain

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

// Installment is one scheduled partial payment (tranche) within a class's
// tuition for a school year. IDs are canonical "trancheN" strings, unique
// within a structure, and never derived from wall-clock time.
type Installment struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	Amount  int64     `json:"amount"`
	DueDate time.Time `json:"dueDate"`
}

// FeeStructure is the full schedule owed by any student of a class for a
// school year. Amounts are in whole francs (no minor unit).
type FeeStructure struct {
	ClassName       string                           `gorm:"primaryKey;type:text"`
	SchoolYear      string                           `gorm:"primaryKey;type:text"`
	RegistrationFee int64                            `gorm:"not null"`
	Total           int64                            `gorm:"not null"`
	Installments    datatypes.JSONSlice[Installment] `gorm:"type:jsonb;not null;default:'[]'"`
	CreatedAt       time.Time                        `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time                        `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (FeeStructure) TableName() string { return "fee_structures" }

// InstallmentsDue sums the installment amounts, excluding the registration fee.
func (f FeeStructure) InstallmentsDue() int64 {
	var total int64
	for _, inst := range f.Installments {
		total += inst.Amount
	}
	return total
}

var (
	ErrNotFound           = errors.New("fee_structure_not_found")
	ErrInvalidClassName   = errors.New("invalid_class_name")
	ErrInvalidSchoolYear  = errors.New("invalid_school_year")
	ErrNegativeAmount     = errors.New("negative_amount")
	ErrTotalMismatch      = errors.New("total_mismatch")
	ErrInvalidInstallment = errors.New("invalid_installment")
)
