package ledger

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// PartyType names the master a party belongs to (Customer, Supplier, ...)
type PartyType string

const (
	PartyTypeCustomer    PartyType = "Customer"
	PartyTypeSupplier    PartyType = "Supplier"
	PartyTypeEmployee    PartyType = "Employee"
	PartyTypeMember      PartyType = "Member"
	PartyTypeStudent     PartyType = "Student"
	PartyTypeShareholder PartyType = "Shareholder"
)

// String returns the string representation
func (p PartyType) String() string {
	return string(p)
}

// IdentifierField is the column holding a party's own identifier. Party types
// without a distinct display name resolve their name to it.
const IdentifierField = "name"

// PartyTypeSpec describes where parties of one type are stored and which
// column carries their human-readable name.
type PartyTypeSpec struct {
	Type      PartyType
	Table     string
	NameField string
}

// HasDisplayName reports whether the party type has a name distinct from its identifier
func (s PartyTypeSpec) HasDisplayName() bool {
	return s.NameField != IdentifierField
}

// PartyTypeRegistry maps party type tags to their storage and display-name
// strategy. It is safe for concurrent use.
type PartyTypeRegistry struct {
	mu    sync.RWMutex
	specs map[PartyType]PartyTypeSpec
}

// NewPartyTypeRegistry returns a registry preloaded with the built-in party types
func NewPartyTypeRegistry() *PartyTypeRegistry {
	r := &PartyTypeRegistry{specs: make(map[PartyType]PartyTypeSpec)}
	for _, spec := range []PartyTypeSpec{
		{Type: PartyTypeCustomer, Table: "customers", NameField: "customer_name"},
		{Type: PartyTypeSupplier, Table: "suppliers", NameField: "supplier_name"},
		{Type: PartyTypeEmployee, Table: "employees", NameField: "employee_name"},
		{Type: PartyTypeMember, Table: "members", NameField: "member_name"},
		{Type: PartyTypeStudent, Table: "students", NameField: "first_name"},
		{Type: PartyTypeShareholder, Table: "shareholders", NameField: "title"},
	} {
		r.specs[spec.Type] = spec
	}
	return r
}

// Register adds a party type stored in table. Extra party types have no
// display name of their own.
func (r *PartyTypeRegistry) Register(partyType PartyType, table string) error {
	if partyType == "" || table == "" {
		return fmt.Errorf("party type and table are required")
	}
	if !isIdentifier(table) {
		return fmt.Errorf("invalid table name %q for party type %s", table, partyType)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.specs[partyType]; exists {
		return fmt.Errorf("party type %s is already registered", partyType)
	}
	r.specs[partyType] = PartyTypeSpec{Type: partyType, Table: table, NameField: IdentifierField}
	return nil
}

// RegisterSpecs parses "Type:table" pairs, as found in configuration
func (r *PartyTypeRegistry) RegisterSpecs(specs []string) error {
	for _, s := range specs {
		partyType, table, ok := strings.Cut(s, ":")
		if !ok {
			return fmt.Errorf("party type spec %q must look like Type:table", s)
		}
		if err := r.Register(PartyType(strings.TrimSpace(partyType)), strings.TrimSpace(table)); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the spec for a party type
func (r *PartyTypeRegistry) Lookup(partyType PartyType) (PartyTypeSpec, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	spec, ok := r.specs[partyType]
	return spec, ok
}

// NameField resolves the display-name column for a party type. Unknown
// party types fall back to the identifier.
func (r *PartyTypeRegistry) NameField(partyType PartyType) string {
	if spec, ok := r.Lookup(partyType); ok {
		return spec.NameField
	}
	return IdentifierField
}

// Types lists the registered party types in name order
func (r *PartyTypeRegistry) Types() []PartyType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]PartyType, 0, len(r.specs))
	for t := range r.specs {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func isIdentifier(s string) bool {
	for i, c := range s {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return s != ""
}

// Party is a counterparty of a ledger posting. DisplayName is empty when it
// was not requested or the party type has none.
type Party struct {
	Type        PartyType
	Name        string
	DisplayName string
}

// Project is a project dimension value
type Project struct {
	Name        string
	ProjectName string
	Subject     string
}
