package report

import (
	"testing"

	"github.com/erp/ledgerreport/internal/domain/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func amt(debit, credit int64) ledger.Amounts {
	return ledger.NewAmounts(decimal.NewFromInt(debit), decimal.NewFromInt(credit))
}

func TestKeyFor(t *testing.T) {
	assert.Equal(t, BalanceKey{Project: "P1"}, KeyFor(GroupByProject, "P1", "C1"))
	assert.Equal(t, BalanceKey{Project: "P1"}, KeyFor(GroupByNone, "P1", "C1"))
	assert.Equal(t, BalanceKey{Project: "P1", Party: "C1"}, KeyFor(GroupByParty, "P1", "C1"))
}

func TestNewBalances(t *testing.T) {
	sums := []ledger.KeyedAmounts{
		{Project: "P1", Party: "C1", Amounts: amt(100, 30)},
		{Project: "P1", Party: "C2", Amounts: amt(10, 50)},
	}

	t.Run("grouped by party keeps parties apart", func(t *testing.T) {
		b := NewBalances(GroupByParty, sums, true)
		assert.Equal(t, amt(70, 0).Debit.String(), b.Get(BalanceKey{"P1", "C1"}).Debit.String())
		assert.Equal(t, "40", b.Get(BalanceKey{"P1", "C2"}).Credit.String())
	})

	t.Run("grouped by project folds parties", func(t *testing.T) {
		b := NewBalances(GroupByProject, sums, false)
		got := b.Get(BalanceKey{Project: "P1"})
		assert.Equal(t, "110", got.Debit.String())
		assert.Equal(t, "80", got.Credit.String())
	})

	t.Run("missing key is zero", func(t *testing.T) {
		b := NewBalances(GroupByProject, nil, true)
		assert.True(t, b.Get(BalanceKey{Project: "nope"}).IsZero())
	})
}

func TestRunningBalance(t *testing.T) {
	r := NewRunningBalance(amt(100, 0))

	closing := r.Post(amt(0, 30))
	assert.Equal(t, "70", closing.Debit.String())
	assert.True(t, closing.Credit.IsZero())

	closing = r.Post(amt(0, 100))
	assert.True(t, closing.Debit.IsZero())
	assert.Equal(t, "30", closing.Credit.String())

	closing = r.Post(amt(30, 0))
	assert.True(t, closing.IsZero())
}

func TestRowClone(t *testing.T) {
	r := Row{"project": "P1"}
	c := r.Clone()
	c["project"] = "P2"
	assert.Equal(t, "P1", r.String("project"))
	assert.Equal(t, "", r.String("missing"))
}
