package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherTypePeriodClosing moves a closed year's profit and loss into equity
const VoucherTypePeriodClosing = "Period Closing Voucher"

// GLEntry is one posting of the general ledger. Amounts are kept both in
// company currency and in the account's own currency.
type GLEntry struct {
	Name                    string
	Company                 string
	Account                 string
	CostCenter              string
	Project                 string
	PartyType               PartyType
	Party                   string
	PostingDate             time.Time
	VoucherType             string
	VoucherNo               string
	Debit                   decimal.Decimal
	Credit                  decimal.Decimal
	DebitInAccountCurrency  decimal.Decimal
	CreditInAccountCurrency decimal.Decimal
	IsOpening               bool
	IsCancelled             bool
	Modified                time.Time
}

// AmountsIn returns the posting's debit/credit in company currency when
// baseCurrency is set, otherwise in account currency.
func (e GLEntry) AmountsIn(baseCurrency bool) Amounts {
	if baseCurrency {
		return NewAmounts(e.Debit, e.Credit)
	}
	return NewAmounts(e.DebitInAccountCurrency, e.CreditInAccountCurrency)
}

// Posting is the projection of a GL entry used by statement rows
type Posting struct {
	PostingDate time.Time
	Project     string
	PartyType   PartyType
	Party       string
	VoucherType string
	VoucherNo   string
	Amounts
}

// KeyedAmounts is a debit/credit total for one (project[, party]) group
type KeyedAmounts struct {
	Project string
	Party   string
	Amounts
}
