package domain

import (
	"errors"
	"time"
)

// InstallmentStatus is the payment state of one installment.
type InstallmentStatus string

const (
	StatusPaid    InstallmentStatus = "paid"
	StatusPending InstallmentStatus = "pending"
	StatusOverdue InstallmentStatus = "overdue"
)

// InstallmentBalance is the derived position of one installment.
type InstallmentBalance struct {
	InstallmentID string            `json:"installmentId"`
	Name          string            `json:"name"`
	Due           int64             `json:"due"`
	Paid          int64             `json:"paid"`
	Remaining     int64             `json:"remaining"`
	DueDate       time.Time         `json:"dueDate"`
	Status        InstallmentStatus `json:"status"`
}

// StudentFinancialSummary is the derived, never-stored position of a student
// for a school year. TotalPaid is the raw ledger sum, independent of how
// much of it could be attributed to installments.
type StudentFinancialSummary struct {
	StudentID      string               `json:"studentId"`
	FullName       string               `json:"fullName"`
	ClassName      string               `json:"className"`
	SchoolYear     string               `json:"schoolYear"`
	TotalDue       int64                `json:"totalDue"`
	TotalPaid      int64                `json:"totalPaid"`
	Outstanding    int64                `json:"outstanding"`
	UnassignedPaid int64                `json:"unassignedPaid"`
	PaymentRate    float64              `json:"paymentRate"`
	LastPaymentAt  *time.Time           `json:"lastPaymentAt,omitempty"`
	LastPaymentAmt int64                `json:"lastPaymentAmount"`
	PerInstallment []InstallmentBalance `json:"perInstallment"`
}

// ClassSummary folds the per-student summaries of one class.
type ClassSummary struct {
	ClassName          string                    `json:"className"`
	SchoolYear         string                    `json:"schoolYear"`
	StudentCount       int                       `json:"studentCount"`
	TotalDue           int64                     `json:"totalDue"`
	TotalPaid          int64                     `json:"totalPaid"`
	Outstanding        int64                     `json:"outstanding"`
	AveragePaymentRate float64                   `json:"averagePaymentRate"`
	Students           []StudentFinancialSummary `json:"students,omitempty"`
}

// OverallSummary folds every class of a school year.
type OverallSummary struct {
	SchoolYear         string         `json:"schoolYear"`
	StudentCount       int            `json:"studentCount"`
	TotalDue           int64          `json:"totalDue"`
	TotalPaid          int64          `json:"totalPaid"`
	Outstanding        int64          `json:"outstanding"`
	AveragePaymentRate float64        `json:"averagePaymentRate"`
	Classes            []ClassSummary `json:"classes"`
}

var (
	ErrInvalidSchoolYear = errors.New("invalid_school_year")
	ErrInvalidClassName  = errors.New("invalid_class_name")
)
