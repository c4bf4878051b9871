package domain

import "context"

// UpsertRequest carries a full structure write. The whole structure is
// written in one transaction so readers never observe a partial edit.
type UpsertRequest struct {
	ClassName       string
	SchoolYear      string
	RegistrationFee int64
	Total           int64
	Installments    []Installment
}

// Service is the source of truth for "amount due".
type Service interface {
	Get(ctx context.Context, className, schoolYear string) (*FeeStructure, error)
	Upsert(ctx context.Context, req UpsertRequest) (*FeeStructure, error)
	// EnsureDefaults creates a zero placeholder structure for every class of
	// the year that lacks one. Idempotent.
	EnsureDefaults(ctx context.Context, schoolYear string) (int, error)
	// RepairInstallmentIDs persists the id canonicalization for every
	// structure of the year. Idempotent maintenance operation; the read path
	// never mutates stored data.
	RepairInstallmentIDs(ctx context.Context, schoolYear string) (int, error)
}
