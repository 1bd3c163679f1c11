package ledger

import "github.com/shopspring/decimal"

// Amounts is a debit/credit pair
type Amounts struct {
	Debit  decimal.Decimal `json:"debit"`
	Credit decimal.Decimal `json:"credit"`
}

// NewAmounts creates an Amounts from a debit and a credit
func NewAmounts(debit, credit decimal.Decimal) Amounts {
	return Amounts{Debit: debit, Credit: credit}
}

// Add returns the element-wise sum of both pairs
func (a Amounts) Add(other Amounts) Amounts {
	return Amounts{
		Debit:  a.Debit.Add(other.Debit),
		Credit: a.Credit.Add(other.Credit),
	}
}

// Toggle nets the pair onto its natural side: a debit-heavy pair becomes
// (debit-credit, 0), anything else becomes (0, credit-debit).
func (a Amounts) Toggle() Amounts {
	net := a.Net()
	if net.IsPositive() {
		return Amounts{Debit: net, Credit: decimal.Zero}
	}
	return Amounts{Debit: decimal.Zero, Credit: net.Neg()}
}

// Net returns debit minus credit
func (a Amounts) Net() decimal.Decimal {
	return a.Debit.Sub(a.Credit)
}

// IsZero reports whether both sides are zero
func (a Amounts) IsZero() bool {
	return a.Debit.IsZero() && a.Credit.IsZero()
}
