package report

import (
	"github.com/erp/ledgerreport/internal/domain/ledger"
)

// BalanceKey identifies one aggregation bucket. Party is empty unless rows
// are grouped by party.
type BalanceKey struct {
	Project string
	Party   string
}

// KeyFor derives the aggregation key of a (project, party) pair for a grouping mode
func KeyFor(groupBy GroupBy, project, party string) BalanceKey {
	if groupBy == GroupByParty {
		return BalanceKey{Project: project, Party: party}
	}
	return BalanceKey{Project: project}
}

// Balances maps aggregation keys to debit/credit totals
type Balances map[BalanceKey]ledger.Amounts

// NewBalances folds keyed sums into a map, keyed per grouping mode.
// Sums landing on the same key are added, and the result is toggled when
// toggle is set.
func NewBalances(groupBy GroupBy, sums []ledger.KeyedAmounts, toggle bool) Balances {
	b := make(Balances, len(sums))
	for _, s := range sums {
		key := KeyFor(groupBy, s.Project, s.Party)
		b[key] = b[key].Add(s.Amounts)
	}
	if toggle {
		for k, v := range b {
			b[k] = v.Toggle()
		}
	}
	return b
}

// Get returns the amounts for a key, zero when absent
func (b Balances) Get(key BalanceKey) ledger.Amounts {
	if v, ok := b[key]; ok {
		return v
	}
	return ledger.Amounts{}
}

// RunningBalance accumulates debit and credit across the entries of a
// detailed statement, starting from the opening balance.
type RunningBalance struct {
	total ledger.Amounts
}

// NewRunningBalance starts an accumulator at opening
func NewRunningBalance(opening ledger.Amounts) *RunningBalance {
	return &RunningBalance{total: opening}
}

// Post adds one entry and returns the toggled closing balance
func (r *RunningBalance) Post(entry ledger.Amounts) ledger.Amounts {
	r.total = r.total.Add(entry)
	return r.total.Toggle()
}
