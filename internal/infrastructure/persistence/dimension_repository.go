package persistence

import (
	"context"
	"fmt"
	"sort"

	"github.com/erp/ledgerreport/internal/domain/ledger"
	"github.com/erp/ledgerreport/internal/domain/shared"
	"github.com/erp/ledgerreport/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormDimensionRepository implements ledger.DimensionRepository using GORM
type GormDimensionRepository struct {
	db      *gorm.DB
	parties *ledger.PartyTypeRegistry
}

var _ ledger.DimensionRepository = (*GormDimensionRepository)(nil)

// NewGormDimensionRepository creates a new GormDimensionRepository. Party
// tables and display-name columns are resolved through parties.
func NewGormDimensionRepository(db *gorm.DB, parties *ledger.PartyTypeRegistry) *GormDimensionRepository {
	if parties == nil {
		parties = ledger.NewPartyTypeRegistry()
	}
	return &GormDimensionRepository{db: db, parties: parties}
}

// ListAccounts returns leaf accounts of the company ordered by name
func (r *GormDimensionRepository) ListAccounts(ctx context.Context, q ledger.AccountQuery) ([]ledger.Account, error) {
	query := r.db.WithContext(ctx).
		Where("company = ? AND is_group = ?", q.Company, false)
	if q.RootType != "" {
		query = query.Where("root_type = ?", string(q.RootType))
	}
	if q.ReportType != "" {
		query = query.Where("report_type = ?", string(q.ReportType))
	}
	if q.ParentAccount != "" {
		query = query.Where("parent_account = ?", q.ParentAccount)
	}

	var rows []models.AccountModel
	if err := query.Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	accounts := make([]ledger.Account, len(rows))
	for i := range rows {
		accounts[i] = rows[i].ToDomain()
	}
	return accounts, nil
}

// ListCostCenters returns leaf cost centers of the company ordered by name
func (r *GormDimensionRepository) ListCostCenters(ctx context.Context, q ledger.CostCenterQuery) ([]ledger.CostCenter, error) {
	query := r.db.WithContext(ctx).
		Where("company = ? AND is_group = ?", q.Company, false)
	if q.ParentCostCenter != "" {
		query = query.Where("parent_cost_center = ?", q.ParentCostCenter)
	}

	var rows []models.CostCenterModel
	if err := query.Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list cost centers: %w", err)
	}

	costCenters := make([]ledger.CostCenter, len(rows))
	for i := range rows {
		costCenters[i] = rows[i].ToDomain()
	}
	return costCenters, nil
}

// ListProjects returns projects ordered by name. The subject column is only
// read when requested, since older schemas do not have it.
func (r *GormDimensionRepository) ListProjects(ctx context.Context, q ledger.ProjectQuery) ([]ledger.Project, error) {
	columns := []string{"name", "project_name"}
	if q.WithSubject {
		columns = append(columns, "subject")
	}
	query := r.db.WithContext(ctx).Model(&models.ProjectModel{}).Select(columns)
	if len(q.Names) > 0 {
		query = query.Where("name IN ?", q.Names)
	}

	var rows []models.ProjectModel
	if err := query.Order("name").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	projects := make([]ledger.Project, len(rows))
	for i := range rows {
		projects[i] = rows[i].ToDomain()
	}
	return projects, nil
}

// ListParties returns parties of one type ordered by name
func (r *GormDimensionRepository) ListParties(ctx context.Context, q ledger.PartyQuery) ([]ledger.Party, error) {
	spec, ok := r.parties.Lookup(q.PartyType)
	if !ok {
		return nil, shared.NewValidationError("Unknown Party Type %s", q.PartyType)
	}

	selectSQL := "name, '' AS display_name"
	if q.WithDisplayName {
		// the registry only accepts identifier-shaped table and column names
		selectSQL = fmt.Sprintf("name, COALESCE(%s, '') AS display_name", spec.NameField)
	}
	query := r.db.WithContext(ctx).Table(spec.Table).Select(selectSQL)
	if len(q.Names) > 0 {
		query = query.Where("name IN ?", q.Names)
	}

	var rows []models.PartyRow
	if err := query.Order("name").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("list %s parties: %w", q.PartyType, err)
	}

	parties := make([]ledger.Party, len(rows))
	for i, row := range rows {
		parties[i] = ledger.Party{Type: q.PartyType, Name: row.Name, DisplayName: row.DisplayName}
	}
	return parties, nil
}

const costCenterTreeSQL = `
WITH RECURSIVE tree(name) AS (
	SELECT name FROM cost_centers WHERE name IN ?
	UNION
	SELECT c.name FROM cost_centers c JOIN tree t ON c.parent_cost_center = t.name
)
SELECT name FROM tree`

// CostCenterWithDescendants expands names to themselves plus every cost
// center below them. Names that do not exist are kept as given so the
// resulting filter never widens.
func (r *GormDimensionRepository) CostCenterWithDescendants(ctx context.Context, names []string) ([]string, error) {
	if len(names) == 0 {
		return nil, nil
	}

	var found []string
	if err := r.db.WithContext(ctx).Raw(costCenterTreeSQL, names).Scan(&found).Error; err != nil {
		return nil, fmt.Errorf("expand cost centers: %w", err)
	}

	seen := make(map[string]struct{}, len(names)+len(found))
	out := make([]string, 0, len(names)+len(found))
	for _, name := range append(append([]string(nil), names...), found...) {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}
