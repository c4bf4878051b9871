package domain

import "context"

// Service derives balances on read. Nothing here maintains running
// counters: concurrent payment inserts are reconciled by simply recomputing
// from the full payment set.
type Service interface {
	Summarize(ctx context.Context, studentID, schoolYear string) (*StudentFinancialSummary, error)
	ClassSummary(ctx context.Context, className, schoolYear string) (*ClassSummary, error)
	OverallSummary(ctx context.Context, schoolYear string) (*OverallSummary, error)
}
