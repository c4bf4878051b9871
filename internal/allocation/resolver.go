// Package allocation reconciles a student's payments against the class fee
// structure. Explicit cashier allocations are honored verbatim; legacy
// payments without one fall back to heuristic reason matching. Every franc of
// every payment ends up either attributed to an installment or in Unassigned,
// exactly: sum(PerInstallment) + Unassigned == sum(payment amounts).
package allocation

import (
	feestructuredomain "github.com/james21411/Projet-scolapp-sub004/internal/feestructure/domain"
	paymentdomain "github.com/james21411/Projet-scolapp-sub004/internal/payment/domain"
)

// Result is the per-installment attribution for one student and year.
type Result struct {
	// PerInstallment maps canonical installment ids to the amount credited.
	PerInstallment map[string]int64
	// Unassigned is money received but not attributable to any installment.
	// It still counts toward the student's total paid.
	Unassigned int64
}

// Paid returns the amount credited to an installment id.
func (r Result) Paid(installmentID string) int64 {
	return r.PerInstallment[installmentID]
}

// Total returns the conserved sum of attributed and unassigned money.
func (r Result) Total() int64 {
	total := r.Unassigned
	for _, amount := range r.PerInstallment {
		total += amount
	}
	return total
}

// Resolve attributes each payment across the structure's installments.
// Installment ids are canonicalized on a working copy first; stored data is
// never touched here. A nil matchers slice uses DefaultMatchers.
func Resolve(payments []paymentdomain.Payment, structure feestructuredomain.FeeStructure, matchers []Matcher) Result {
	if matchers == nil {
		matchers = DefaultMatchers()
	}

	installments := feestructuredomain.NormalizeInstallments(structure.Installments)
	known := make(map[string]struct{}, len(installments))
	for _, inst := range installments {
		known[inst.ID] = struct{}{}
	}

	result := Result{PerInstallment: make(map[string]int64, len(installments))}
	for _, payment := range payments {
		if payment.HasExplicitAllocation() {
			result.Unassigned += creditExplicit(&result, payment, known)
			continue
		}
		result.Unassigned += creditHeuristic(&result, payment, installments, matchers)
	}
	return result
}

// creditExplicit applies the cashier's split and returns the leftover. Each
// entry is capped by what remains of the payment so malformed legacy rows
// (split exceeding the amount) cannot break conservation. Entries naming an
// id absent from the structure fall through to unassigned; this is what keeps
// stale old-class allocations harmless after an unmigrated transfer.
func creditExplicit(result *Result, payment paymentdomain.Payment, known map[string]struct{}) int64 {
	remaining := payment.Amount
	for _, entry := range payment.InstallmentsPaid {
		if remaining <= 0 {
			break
		}
		if _, ok := known[entry.InstallmentID]; !ok {
			continue
		}
		credit := entry.Amount
		if credit > remaining {
			credit = remaining
		}
		if credit <= 0 {
			continue
		}
		result.PerInstallment[entry.InstallmentID] += credit
		remaining -= credit
	}
	return remaining
}

// creditHeuristic runs the matcher chain in precedence order and credits the
// whole payment to the first installment that matches. No match leaves the
// payment unassigned; under-counting an installment is acceptable,
// over-counting never is.
func creditHeuristic(result *Result, payment paymentdomain.Payment, installments []feestructuredomain.Installment, matchers []Matcher) int64 {
	for _, matcher := range matchers {
		for position, inst := range installments {
			if matcher.Match(payment, inst, position) {
				result.PerInstallment[inst.ID] += payment.Amount
				return 0
			}
		}
	}
	return payment.Amount
}
