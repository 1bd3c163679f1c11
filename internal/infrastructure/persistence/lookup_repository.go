package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/erp/ledgerreport/internal/domain/ledger"
	"github.com/erp/ledgerreport/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLookupRepository implements ledger.LookupRepository. Missing records
// resolve to zero values, as a scalar lookup of an absent row would.
type GormLookupRepository struct {
	db      *gorm.DB
	parties *ledger.PartyTypeRegistry
}

var _ ledger.LookupRepository = (*GormLookupRepository)(nil)

// NewGormLookupRepository creates a new GormLookupRepository
func NewGormLookupRepository(db *gorm.DB, parties *ledger.PartyTypeRegistry) *GormLookupRepository {
	if parties == nil {
		parties = ledger.NewPartyTypeRegistry()
	}
	return &GormLookupRepository{db: db, parties: parties}
}

// CompanyCurrency returns the default currency of company
func (r *GormLookupRepository) CompanyCurrency(ctx context.Context, company string) (string, error) {
	return r.scalar(ctx, &models.CompanyModel{}, "default_currency", company)
}

// AccountCurrency returns the currency of account
func (r *GormLookupRepository) AccountCurrency(ctx context.Context, account string) (string, error) {
	return r.scalar(ctx, &models.AccountModel{}, "account_currency", account)
}

// PartyDisplayName returns the display name of party. Party types without a
// distinct name column answer with the identifier itself.
func (r *GormLookupRepository) PartyDisplayName(ctx context.Context, partyType ledger.PartyType, party string) (string, error) {
	spec, ok := r.parties.Lookup(partyType)
	if !ok || !spec.HasDisplayName() {
		return party, nil
	}

	var names []sql.NullString
	if err := r.db.WithContext(ctx).Table(spec.Table).
		Where("name = ?", party).
		Limit(1).
		Pluck(spec.NameField, &names).Error; err != nil {
		return "", fmt.Errorf("get %s name of %s: %w", partyType, party, err)
	}
	if len(names) == 0 {
		return "", nil
	}
	return names[0].String, nil
}

// FiscalYear returns the named fiscal year, or nil when it does not exist
func (r *GormLookupRepository) FiscalYear(ctx context.Context, name string) (*ledger.FiscalYear, error) {
	var fy models.FiscalYearModel
	err := r.db.WithContext(ctx).Where("name = ?", name).Take(&fy).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get fiscal year %s: %w", name, err)
	}
	return fy.ToDomain(), nil
}

// HasProjectSubject inspects the live schema for projects.subject
func (r *GormLookupRepository) HasProjectSubject(ctx context.Context) (bool, error) {
	return r.db.WithContext(ctx).Migrator().HasColumn(&models.ProjectModel{}, "subject"), nil
}

// PartyNamingBySeries reports whether parties of the type are numbered by a
// naming series. Types without a setting are named by their own name.
func (r *GormLookupRepository) PartyNamingBySeries(ctx context.Context, partyType ledger.PartyType) (bool, error) {
	namingBy, err := r.scalar(ctx, &models.PartyNamingSettingModel{}, "naming_by", string(partyType), "party_type")
	if err != nil {
		return false, err
	}
	return namingBy == models.NamingSeries, nil
}

// scalar reads one column of the row whose key (default "name") equals value
func (r *GormLookupRepository) scalar(ctx context.Context, model any, column, value string, key ...string) (string, error) {
	keyColumn := "name"
	if len(key) > 0 {
		keyColumn = key[0]
	}

	var values []sql.NullString
	if err := r.db.WithContext(ctx).Model(model).
		Where(keyColumn+" = ?", value).
		Limit(1).
		Pluck(column, &values).Error; err != nil {
		return "", fmt.Errorf("get %s of %s: %w", column, value, err)
	}
	if len(values) == 0 {
		return "", nil
	}
	return values[0].String, nil
}
