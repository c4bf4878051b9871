package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Legacy data generated installment ids from wall-clock timestamps, which
// broke heuristic matching and stable references. Any id carrying "tranche"
// followed by digits is canonicalized to "trancheN"; anything else is
// regenerated from the installment's position. The pass is idempotent.
var trancheIDPattern = regexp.MustCompile(`(?i)tranche\s*0*([0-9]+)`)

// CanonicalInstallmentID repairs a single raw id. position is the
// installment's zero-based index in the ordered list.
func CanonicalInstallmentID(raw string, position int) string {
	if match := trancheIDPattern.FindStringSubmatch(raw); match != nil {
		if n, err := strconv.Atoi(match[1]); err == nil && n > 0 {
			return fmt.Sprintf("tranche%d", n)
		}
	}
	return fmt.Sprintf("tranche%d", position+1)
}

// NormalizeInstallments returns a repaired copy of the list: canonical ids,
// uniqueness restored in order, and default display names filled in. The
// input is never mutated; callers that want the repair persisted must write
// the copy back explicitly.
func NormalizeInstallments(installments []Installment) []Installment {
	out := make([]Installment, len(installments))
	seen := make(map[string]struct{}, len(installments))

	for i, inst := range installments {
		id := CanonicalInstallmentID(inst.ID, i)
		if _, taken := seen[id]; taken {
			id = nextFreeID(seen, i+1)
		}
		seen[id] = struct{}{}

		name := strings.TrimSpace(inst.Name)
		if name == "" {
			name = displayName(id, i)
		}

		out[i] = Installment{
			ID:      id,
			Name:    name,
			Amount:  inst.Amount,
			DueDate: inst.DueDate,
		}
	}
	return out
}

func nextFreeID(seen map[string]struct{}, start int) string {
	for n := start; ; n++ {
		id := fmt.Sprintf("tranche%d", n)
		if _, taken := seen[id]; !taken {
			return id
		}
	}
}

func displayName(id string, position int) string {
	if match := trancheIDPattern.FindStringSubmatch(id); match != nil {
		return "Tranche " + match[1]
	}
	return fmt.Sprintf("Tranche %d", position+1)
}
