package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPartyTypeRegistry_NameField(t *testing.T) {
	r := NewPartyTypeRegistry()

	tests := []struct {
		partyType PartyType
		expected  string
	}{
		{PartyTypeCustomer, "customer_name"},
		{PartyTypeSupplier, "supplier_name"},
		{PartyTypeEmployee, "employee_name"},
		{PartyTypeMember, "member_name"},
		{PartyTypeStudent, "first_name"},
		{PartyTypeShareholder, "title"},
		{PartyType("Bank"), "name"},
	}

	for _, tc := range tests {
		t.Run(string(tc.partyType), func(t *testing.T) {
			assert.Equal(t, tc.expected, r.NameField(tc.partyType))
		})
	}
}

func TestPartyTypeRegistry_RegisterSpecs(t *testing.T) {
	r := NewPartyTypeRegistry()

	require.NoError(t, r.RegisterSpecs([]string{"Bank: banks", "Agent:agents"}))

	spec, ok := r.Lookup("Bank")
	require.True(t, ok)
	assert.Equal(t, "banks", spec.Table)
	assert.False(t, spec.HasDisplayName())
	assert.Contains(t, r.Types(), PartyType("Agent"))

	t.Run("duplicate", func(t *testing.T) {
		assert.Error(t, r.Register(PartyTypeCustomer, "clients"))
	})
	t.Run("missing separator", func(t *testing.T) {
		assert.Error(t, r.RegisterSpecs([]string{"Broker"}))
	})
	t.Run("unsafe table name", func(t *testing.T) {
		assert.Error(t, r.Register("Broker", "brokers; drop table x"))
		assert.Error(t, r.Register("Broker", "1brokers"))
	})
}

func TestPartyTypeRegistry_TypesSorted(t *testing.T) {
	types := NewPartyTypeRegistry().Types()
	require.Len(t, types, 6)
	assert.Equal(t, PartyTypeCustomer, types[0])
	assert.Equal(t, PartyTypeSupplier, types[len(types)-1])
}

func TestFiscalYear_Contains(t *testing.T) {
	fy := FiscalYear{
		Name:      "2024",
		StartDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}
	assert.True(t, fy.Contains(fy.StartDate))
	assert.True(t, fy.Contains(fy.EndDate))
	assert.False(t, fy.Contains(fy.EndDate.AddDate(0, 0, 1)))
	assert.False(t, fy.Contains(fy.StartDate.AddDate(0, 0, -1)))
}

func TestRootAndReportType_IsValid(t *testing.T) {
	assert.True(t, RootTypeIncome.IsValid())
	assert.False(t, RootType("Other").IsValid())
	assert.True(t, ReportTypeProfitLoss.IsValid())
	assert.False(t, ReportType("").IsValid())
}
