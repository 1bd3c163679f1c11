package report

import (
	"context"
	"sort"
	"time"

	"github.com/erp/ledgerreport/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// memStore is an in-memory implementation of the dimension, ledger and
// lookup repositories
type memStore struct {
	companies   []ledger.Company
	accounts    []ledger.Account
	costCenters []ledger.CostCenter
	projects    []ledger.Project
	parties     []ledger.Party
	fiscalYears []ledger.FiscalYear
	entries     []ledger.GLEntry

	hasSubject     bool
	namingBySeries map[ledger.PartyType]bool

	ledgerCalls int
}

var _ ledger.DimensionRepository = (*memStore)(nil)
var _ ledger.LedgerRepository = (*memStore)(nil)
var _ ledger.LookupRepository = (*memStore)(nil)

func (m *memStore) ListAccounts(_ context.Context, q ledger.AccountQuery) ([]ledger.Account, error) {
	var out []ledger.Account
	for _, a := range m.accounts {
		if a.IsGroup || a.Company != q.Company {
			continue
		}
		if q.RootType != "" && a.RootType != q.RootType {
			continue
		}
		if q.ReportType != "" && a.ReportType != q.ReportType {
			continue
		}
		if q.ParentAccount != "" && a.ParentAccount != q.ParentAccount {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) ListCostCenters(_ context.Context, q ledger.CostCenterQuery) ([]ledger.CostCenter, error) {
	var out []ledger.CostCenter
	for _, c := range m.costCenters {
		if c.IsGroup || c.Company != q.Company {
			continue
		}
		if q.ParentCostCenter != "" && c.ParentCostCenter != q.ParentCostCenter {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) ListProjects(_ context.Context, q ledger.ProjectQuery) ([]ledger.Project, error) {
	var out []ledger.Project
	for _, p := range m.projects {
		if len(q.Names) > 0 && !contains(q.Names, p.Name) {
			continue
		}
		if !q.WithSubject {
			p.Subject = ""
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) ListParties(_ context.Context, q ledger.PartyQuery) ([]ledger.Party, error) {
	var out []ledger.Party
	for _, p := range m.parties {
		if p.Type != q.PartyType {
			continue
		}
		if len(q.Names) > 0 && !contains(q.Names, p.Name) {
			continue
		}
		if !q.WithDisplayName {
			p.DisplayName = ""
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (m *memStore) CostCenterWithDescendants(_ context.Context, names []string) ([]string, error) {
	out := append([]string(nil), names...)
	for i := 0; i < len(out); i++ {
		for _, c := range m.costCenters {
			if c.ParentCostCenter == out[i] && !contains(out, c.Name) {
				out = append(out, c.Name)
			}
		}
	}
	return out, nil
}

func (m *memStore) BalanceOn(_ context.Context, q ledger.BalanceQuery) (decimal.Decimal, error) {
	m.ledgerCalls++
	total := decimal.Zero
	for _, e := range m.entries {
		if e.IsCancelled || e.Account != q.Account || e.Company != q.Company {
			continue
		}
		if q.CostCenter != "" && e.CostCenter != q.CostCenter {
			continue
		}
		if !q.AsOf.IsZero() && e.PostingDate.After(q.AsOf) {
			continue
		}
		total = total.Add(e.DebitInAccountCurrency).Sub(e.CreditInAccountCurrency)
	}
	return total, nil
}

func (m *memStore) SumByKey(_ context.Context, q ledger.EntryQuery, byParty bool) ([]ledger.KeyedAmounts, error) {
	m.ledgerCalls++
	type key struct{ project, party string }
	sums := map[key]ledger.Amounts{}
	var order []key
	for _, e := range m.match(q) {
		k := key{project: e.Project}
		if byParty {
			k.party = e.Party
		}
		if _, ok := sums[k]; !ok {
			order = append(order, k)
		}
		sums[k] = sums[k].Add(e.AmountsIn(q.BaseCurrency))
	}
	out := make([]ledger.KeyedAmounts, 0, len(order))
	for _, k := range order {
		out = append(out, ledger.KeyedAmounts{Project: k.project, Party: k.party, Amounts: sums[k]})
	}
	return out, nil
}

func (m *memStore) ListEntries(_ context.Context, q ledger.EntryQuery) ([]ledger.Posting, error) {
	m.ledgerCalls++
	matched := m.match(q)
	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].PostingDate.Equal(matched[j].PostingDate) {
			return matched[i].PostingDate.Before(matched[j].PostingDate)
		}
		return matched[i].Modified.Before(matched[j].Modified)
	})
	out := make([]ledger.Posting, 0, len(matched))
	for _, e := range matched {
		out = append(out, ledger.Posting{
			PostingDate: e.PostingDate,
			Project:     e.Project,
			PartyType:   e.PartyType,
			Party:       e.Party,
			VoucherType: e.VoucherType,
			VoucherNo:   e.VoucherNo,
			Amounts:     e.AmountsIn(q.BaseCurrency),
		})
	}
	return out, nil
}

func (m *memStore) match(q ledger.EntryQuery) []ledger.GLEntry {
	var out []ledger.GLEntry
	for _, e := range m.entries {
		if e.IsCancelled || e.Company != q.Company || e.Account != q.Account {
			continue
		}
		if len(q.Projects) > 0 && !contains(q.Projects, e.Project) {
			continue
		}
		if q.PartyType != "" && e.PartyType != q.PartyType {
			continue
		}
		if len(q.Parties) > 0 && !contains(q.Parties, e.Party) {
			continue
		}
		if len(q.CostCenters) > 0 && !contains(q.CostCenters, e.CostCenter) {
			continue
		}
		if e.PostingDate.After(q.ToDate) {
			continue
		}
		switch q.Window {
		case ledger.WindowOpening:
			if !e.PostingDate.Before(q.FromDate) && !e.IsOpening {
				continue
			}
		case ledger.WindowPeriod:
			if e.PostingDate.Before(q.FromDate) || e.IsOpening {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

func (m *memStore) CompanyCurrency(_ context.Context, company string) (string, error) {
	for _, c := range m.companies {
		if c.Name == company {
			return c.DefaultCurrency, nil
		}
	}
	return "", nil
}

func (m *memStore) AccountCurrency(_ context.Context, account string) (string, error) {
	for _, a := range m.accounts {
		if a.Name == account {
			return a.Currency, nil
		}
	}
	return "", nil
}

func (m *memStore) PartyDisplayName(_ context.Context, partyType ledger.PartyType, party string) (string, error) {
	for _, p := range m.parties {
		if p.Type == partyType && p.Name == party {
			return p.DisplayName, nil
		}
	}
	return "", nil
}

func (m *memStore) FiscalYear(_ context.Context, name string) (*ledger.FiscalYear, error) {
	for _, fy := range m.fiscalYears {
		if fy.Name == name {
			fy := fy
			return &fy, nil
		}
	}
	return nil, nil
}

func (m *memStore) HasProjectSubject(context.Context) (bool, error) {
	return m.hasSubject, nil
}

func (m *memStore) PartyNamingBySeries(_ context.Context, partyType ledger.PartyType) (bool, error) {
	return m.namingBySeries[partyType], nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// entry builds a posting in a single-currency company
func entry(project string, posted time.Time, debit, credit string) ledger.GLEntry {
	return ledger.GLEntry{
		Company:                 "ACME",
		Account:                 "A-100",
		CostCenter:              "Main",
		Project:                 project,
		PostingDate:             posted,
		Debit:                   dec(debit),
		Credit:                  dec(credit),
		DebitInAccountCurrency:  dec(debit),
		CreditInAccountCurrency: dec(credit),
		Modified:                posted,
	}
}
