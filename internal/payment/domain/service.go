package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
)

// RecordRequest is a cashier's payment entry.
type RecordRequest struct {
	StudentID        string
	SchoolYear       string
	Amount           int64
	Method           Method
	Reason           string
	Cashier          string
	CashierUsername  string
	PaidAt           *time.Time
	InstallmentsPaid []AllocationEntry
}

// UpdateRequest is an administrative correction. Nil fields are left as
// recorded. ClearAllocation removes the explicit split outright.
type UpdateRequest struct {
	Amount           *int64
	Method           *Method
	Reason           *string
	InstallmentsPaid []AllocationEntry
	ClearAllocation  bool
}

// Service is the append-mostly payment ledger.
type Service interface {
	Record(ctx context.Context, req RecordRequest) (*Payment, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateRequest) (*Payment, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Payment, error)
	ListByStudent(ctx context.Context, studentID, schoolYear string) ([]Payment, error)
	// FindRegistrationPayment locates the payment covering the registration
	// fee, used to gate the pre-registered to active status transition.
	FindRegistrationPayment(ctx context.Context, studentID, schoolYear string) (*Payment, error)
}
