package allocation

import (
	"fmt"
	"strings"

	feestructuredomain "github.com/james21411/Projet-scolapp-sub004/internal/feestructure/domain"
	paymentdomain "github.com/james21411/Projet-scolapp-sub004/internal/payment/domain"
)

// Matcher decides whether a legacy payment's free-text reason designates an
// installment. Matchers run in a fixed precedence chain; the first hit wins
// and receives the full payment amount.
type Matcher interface {
	Match(payment paymentdomain.Payment, installment feestructuredomain.Installment, position int) bool
}

// NameMatcher matches the installment's display name ("Tranche 2") as a
// case-insensitive substring of the reason.
type NameMatcher struct{}

func (NameMatcher) Match(payment paymentdomain.Payment, installment feestructuredomain.Installment, _ int) bool {
	return containsFold(payment.Reason, installment.Name)
}

// IDMatcher matches the installment's canonical id ("tranche2").
type IDMatcher struct{}

func (IDMatcher) Match(payment paymentdomain.Payment, installment feestructuredomain.Installment, _ int) bool {
	return containsFold(payment.Reason, installment.ID)
}

// PositionMatcher matches the literal "tranche N" pattern, N being the
// installment's 1-based display position. This rule assumes the French
// labeling of the source data; dropping it from the chain disables it.
type PositionMatcher struct{}

func (PositionMatcher) Match(payment paymentdomain.Payment, _ feestructuredomain.Installment, position int) bool {
	return containsFold(payment.Reason, fmt.Sprintf("tranche %d", position+1))
}

// DefaultMatchers returns the precedence chain: display name, canonical id,
// then positional "tranche N" literal.
func DefaultMatchers() []Matcher {
	return []Matcher{NameMatcher{}, IDMatcher{}, PositionMatcher{}}
}

func containsFold(haystack, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
