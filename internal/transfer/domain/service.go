package domain

import (
	"context"
	"errors"
)

// Request describes a class change for one student.
type Request struct {
	StudentID string
	NewClass  string
	// MigratePayments clears explicit installment allocations so they
	// re-match heuristically against the new class's structure. When false,
	// payments are left exactly as recorded: their old-class installment ids
	// simply stop matching and the money counts as unassigned paid. Either
	// way the student's total paid never changes.
	MigratePayments bool
}

// Result reports what the transfer touched.
type Result struct {
	StudentID        string `json:"studentId"`
	FromClass        string `json:"fromClass"`
	ToClass          string `json:"toClass"`
	SchoolYear       string `json:"schoolYear"`
	ClearedPayments  int64  `json:"clearedPayments"`
	MigratedPayments bool   `json:"migratedPayments"`
}

// Service moves a student between classes, transactionally.
type Service interface {
	ChangeClass(ctx context.Context, req Request) (*Result, error)
}

var (
	ErrInvalidClass = errors.New("invalid_class")
	ErrSameClass    = errors.New("same_class")
	// ErrMissingFeeStructure marks an administrative setup defect: the target
	// class has no fee structure for the student's year, so the transfer
	// would silently zero the amount due and mis-classify risk.
	ErrMissingFeeStructure = errors.New("target_fee_structure_missing")
)
