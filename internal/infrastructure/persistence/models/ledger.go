package models

import (
	"time"

	"github.com/erp/ledgerreport/internal/domain/ledger"
	"github.com/shopspring/decimal"
)

// Opening flag values of gl_entries.is_opening
const (
	OpeningYes = "Yes"
	OpeningNo  = "No"
)

// CompanyModel is the persistence model for a company.
type CompanyModel struct {
	Name            string `gorm:"type:varchar(140);primaryKey"`
	DefaultCurrency string `gorm:"type:varchar(10);not null"`
}

// TableName returns the table name for GORM
func (CompanyModel) TableName() string {
	return "companies"
}

// AccountModel is a node of the chart of accounts.
type AccountModel struct {
	Name            string `gorm:"type:varchar(140);primaryKey"`
	Company         string `gorm:"type:varchar(140);not null;index"`
	AccountCurrency string `gorm:"type:varchar(10)"`
	IsGroup         bool   `gorm:"not null;default:false"`
	RootType        string `gorm:"type:varchar(20)"`
	ReportType      string `gorm:"type:varchar(20)"`
	ParentAccount   string `gorm:"type:varchar(140);index"`
}

// TableName returns the table name for GORM
func (AccountModel) TableName() string {
	return "accounts"
}

// ToDomain converts the persistence model to a domain Account
func (m *AccountModel) ToDomain() ledger.Account {
	return ledger.Account{
		Name:          m.Name,
		Company:       m.Company,
		Currency:      m.AccountCurrency,
		IsGroup:       m.IsGroup,
		RootType:      ledger.RootType(m.RootType),
		ReportType:    ledger.ReportType(m.ReportType),
		ParentAccount: m.ParentAccount,
	}
}

// CostCenterModel is a node of the cost center tree.
type CostCenterModel struct {
	Name             string `gorm:"type:varchar(140);primaryKey"`
	Company          string `gorm:"type:varchar(140);not null;index"`
	IsGroup          bool   `gorm:"not null;default:false"`
	ParentCostCenter string `gorm:"type:varchar(140);index"`
}

// TableName returns the table name for GORM
func (CostCenterModel) TableName() string {
	return "cost_centers"
}

// ToDomain converts the persistence model to a domain CostCenter
func (m *CostCenterModel) ToDomain() ledger.CostCenter {
	return ledger.CostCenter{
		Name:             m.Name,
		Company:          m.Company,
		IsGroup:          m.IsGroup,
		ParentCostCenter: m.ParentCostCenter,
	}
}

// FiscalYearModel bounds a financial year.
type FiscalYearModel struct {
	Name          string    `gorm:"type:varchar(140);primaryKey"`
	YearStartDate time.Time `gorm:"type:date;not null"`
	YearEndDate   time.Time `gorm:"type:date;not null"`
}

// TableName returns the table name for GORM
func (FiscalYearModel) TableName() string {
	return "fiscal_years"
}

// ToDomain converts the persistence model to a domain FiscalYear
func (m *FiscalYearModel) ToDomain() *ledger.FiscalYear {
	return &ledger.FiscalYear{
		Name:      m.Name,
		StartDate: m.YearStartDate,
		EndDate:   m.YearEndDate,
	}
}

// ProjectModel is a project. The subject column is optional in the schema;
// it is only selected when the column exists.
type ProjectModel struct {
	Name        string `gorm:"type:varchar(140);primaryKey"`
	ProjectName string `gorm:"type:varchar(140)"`
	Subject     string `gorm:"type:varchar(140)"`
}

// TableName returns the table name for GORM
func (ProjectModel) TableName() string {
	return "projects"
}

// ToDomain converts the persistence model to a domain Project
func (m *ProjectModel) ToDomain() ledger.Project {
	return ledger.Project{Name: m.Name, ProjectName: m.ProjectName, Subject: m.Subject}
}

// PartyRow is the projection of any party table: its identifier plus the
// column chosen as display name.
type PartyRow struct {
	Name        string
	DisplayName string
}

// CustomerModel is a customer master.
type CustomerModel struct {
	Name         string `gorm:"type:varchar(140);primaryKey"`
	CustomerName string `gorm:"type:varchar(140)"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// SupplierModel is a supplier master.
type SupplierModel struct {
	Name         string `gorm:"type:varchar(140);primaryKey"`
	SupplierName string `gorm:"type:varchar(140)"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// EmployeeModel is an employee master.
type EmployeeModel struct {
	Name         string `gorm:"type:varchar(140);primaryKey"`
	EmployeeName string `gorm:"type:varchar(140)"`
}

// TableName returns the table name for GORM
func (EmployeeModel) TableName() string {
	return "employees"
}

// MemberModel is a member master.
type MemberModel struct {
	Name       string `gorm:"type:varchar(140);primaryKey"`
	MemberName string `gorm:"type:varchar(140)"`
}

// TableName returns the table name for GORM
func (MemberModel) TableName() string {
	return "members"
}

// StudentModel is a student master. Students are shown by first name.
type StudentModel struct {
	Name      string `gorm:"type:varchar(140);primaryKey"`
	FirstName string `gorm:"type:varchar(140)"`
	LastName  string `gorm:"type:varchar(140)"`
}

// TableName returns the table name for GORM
func (StudentModel) TableName() string {
	return "students"
}

// ShareholderModel is a shareholder master.
type ShareholderModel struct {
	Name  string `gorm:"type:varchar(140);primaryKey"`
	Title string `gorm:"type:varchar(140)"`
}

// TableName returns the table name for GORM
func (ShareholderModel) TableName() string {
	return "shareholders"
}

// PartyNamingSettingModel records how parties of a type get their identifier:
// "Naming Series" or by their own name.
type PartyNamingSettingModel struct {
	PartyType string `gorm:"type:varchar(40);primaryKey"`
	NamingBy  string `gorm:"type:varchar(40);not null"`
}

// TableName returns the table name for GORM
func (PartyNamingSettingModel) TableName() string {
	return "party_naming_settings"
}

// NamingSeries is the NamingBy value of series-numbered party types
const NamingSeries = "Naming Series"

// GLEntryModel is one posting of the general ledger.
type GLEntryModel struct {
	Name                    string          `gorm:"type:varchar(140);primaryKey"`
	Company                 string          `gorm:"type:varchar(140);not null;index:idx_gl_company_account,priority:1"`
	Account                 string          `gorm:"type:varchar(140);not null;index:idx_gl_company_account,priority:2"`
	CostCenter              string          `gorm:"type:varchar(140);index"`
	Project                 string          `gorm:"type:varchar(140);index"`
	PartyType               string          `gorm:"type:varchar(40)"`
	Party                   string          `gorm:"type:varchar(140);index"`
	PostingDate             time.Time       `gorm:"type:date;not null;index"`
	VoucherType             string          `gorm:"type:varchar(140)"`
	VoucherNo               string          `gorm:"type:varchar(140)"`
	Debit                   decimal.Decimal `gorm:"type:decimal(21,9);not null;default:0"`
	Credit                  decimal.Decimal `gorm:"type:decimal(21,9);not null;default:0"`
	DebitInAccountCurrency  decimal.Decimal `gorm:"type:decimal(21,9);not null;default:0"`
	CreditInAccountCurrency decimal.Decimal `gorm:"type:decimal(21,9);not null;default:0"`
	IsOpening               string          `gorm:"type:varchar(3);default:'No'"`
	IsCancelled             bool            `gorm:"not null;default:false"`
	Modified                time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (GLEntryModel) TableName() string {
	return "gl_entries"
}

// FromDomain populates the model from a domain GLEntry
func (m *GLEntryModel) FromDomain(e ledger.GLEntry) {
	m.Name = e.Name
	m.Company = e.Company
	m.Account = e.Account
	m.CostCenter = e.CostCenter
	m.Project = e.Project
	m.PartyType = string(e.PartyType)
	m.Party = e.Party
	m.PostingDate = e.PostingDate
	m.VoucherType = e.VoucherType
	m.VoucherNo = e.VoucherNo
	m.Debit = e.Debit
	m.Credit = e.Credit
	m.DebitInAccountCurrency = e.DebitInAccountCurrency
	m.CreditInAccountCurrency = e.CreditInAccountCurrency
	m.IsOpening = OpeningNo
	if e.IsOpening {
		m.IsOpening = OpeningYes
	}
	m.IsCancelled = e.IsCancelled
	m.Modified = e.Modified
}

// AllModels lists the models of the ledger schema, for AutoMigrate in tests
// and development databases.
func AllModels() []any {
	return []any{
		&CompanyModel{},
		&AccountModel{},
		&CostCenterModel{},
		&FiscalYearModel{},
		&ProjectModel{},
		&CustomerModel{},
		&SupplierModel{},
		&EmployeeModel{},
		&MemberModel{},
		&StudentModel{},
		&ShareholderModel{},
		&PartyNamingSettingModel{},
		&GLEntryModel{},
	}
}
