package domain

import (
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Method is the cashier-facing payment channel.
type Method string

const (
	MethodCash         Method = "cash"
	MethodOrangeMoney  Method = "orange_money"
	MethodMTNMoney     Method = "mtn_money"
	MethodCheque       Method = "cheque"
	MethodBankTransfer Method = "bank_transfer"
)

// Valid reports whether the method is one of the accepted channels.
func (m Method) Valid() bool {
	switch m {
	case MethodCash, MethodOrangeMoney, MethodMTNMoney, MethodCheque, MethodBankTransfer:
		return true
	}
	return false
}

// AllocationEntry ties part of a payment to a specific installment id.
type AllocationEntry struct {
	InstallmentID string `json:"installmentId"`
	Amount        int64  `json:"amount"`
}

// Payment is one cashier-recorded receipt. Rows are append-only; the only
// mutation is an administrative correction that preserves the id.
type Payment struct {
	ID               snowflake.ID                         `gorm:"primaryKey"`
	StudentID        string                               `gorm:"type:text;not null;index:idx_payments_student_year"`
	SchoolYear       string                               `gorm:"type:text;not null;index:idx_payments_student_year"`
	Amount           int64                                `gorm:"not null"`
	PaidAt           time.Time                            `gorm:"not null"`
	Method           Method                               `gorm:"type:text;not null"`
	Reason           string                               `gorm:"type:text"`
	Cashier          string                               `gorm:"type:text"`
	CashierUsername  string                               `gorm:"type:text"`
	InstallmentsPaid datatypes.JSONSlice[AllocationEntry] `gorm:"type:jsonb"`
	CreatedAt        time.Time                            `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt        time.Time                            `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }

// HasExplicitAllocation reports whether the cashier recorded a per-installment
// split for this payment.
func (p Payment) HasExplicitAllocation() bool {
	return len(p.InstallmentsPaid) > 0
}

// AllocatedTotal sums the explicit allocation entries.
func (p Payment) AllocatedTotal() int64 {
	var total int64
	for _, entry := range p.InstallmentsPaid {
		total += entry.Amount
	}
	return total
}

var (
	ErrPaymentNotFound      = errors.New("payment_not_found")
	ErrInvalidStudent       = errors.New("invalid_student")
	ErrInvalidSchoolYear    = errors.New("invalid_school_year")
	ErrInvalidAmount        = errors.New("invalid_amount")
	ErrInvalidMethod        = errors.New("invalid_method")
	ErrAllocationExceedsPay = errors.New("allocation_exceeds_payment")
	ErrInvalidAllocation    = errors.New("invalid_allocation")
)
