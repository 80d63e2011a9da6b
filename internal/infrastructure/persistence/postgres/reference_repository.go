package postgres

import (
	"context"
	stderrors "errors"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/domain/repository"
	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
)

// ReferenceRepoImpl implements ReferenceRepository on GORM.
type ReferenceRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewReferenceRepository creates the database-backed reference repository.
func NewReferenceRepository(db *gorm.DB, log logger.Logger) repository.ReferenceRepository {
	return &ReferenceRepoImpl{
		db:     db,
		logger: log.WithComponent("reference_repository"),
	}
}

// UpsertCatalog seeds or refreshes catalog entries keyed on
// (framework, code, version). Re-seeding the same catalog updates the
// descriptive columns and never duplicates rows.
func (r *ReferenceRepoImpl) UpsertCatalog(ctx context.Context, items []*models.ReferenceItem) error {
	if len(items) == 0 {
		return nil
	}

	rows := make([]*referenceItemDBM, 0, len(items))
	for _, item := range items {
		rows = append(rows, newReferenceItemDBM(item))
	}

	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "framework"}, {Name: "code"}, {Name: "version"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title", "description", "category", "effective_from", "deprecated_at", "updated_at",
			}),
		}).
		Create(&rows).Error
	if err != nil {
		r.logger.Error(ctx, "Failed to upsert catalog", err, logger.Int("items", len(items)))
		return errors.ErrDatabase.WithError(err)
	}

	r.logger.Info(ctx, "Catalog upserted", logger.Int("items", len(items)))
	return nil
}

// ListByFramework returns a framework catalog in natural code order.
func (r *ReferenceRepoImpl) ListByFramework(ctx context.Context, framework constants.Framework) ([]*models.ReferenceItem, error) {
	var rows []referenceItemDBM
	err := r.db.WithContext(ctx).
		Where("framework = ?", string(framework)).
		Find(&rows).Error
	if err != nil {
		r.logger.Error(ctx, "Failed to list catalog", err,
			logger.String("framework", string(framework)),
		)
		return nil, errors.ErrDatabase.WithError(err)
	}

	items := make([]*models.ReferenceItem, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].toDomain())
	}
	sort.Slice(items, func(i, j int) bool {
		return codeLess(items[i].Code, items[j].Code)
	})
	return items, nil
}

// GetByID returns one catalog entry.
func (r *ReferenceRepoImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.ReferenceItem, error) {
	var m referenceItemDBM
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound.WithMessagef("reference item %s not found", id)
		}
		r.logger.Error(ctx, "Failed to get reference item", err,
			logger.String("reference_id", id.String()),
		)
		return nil, errors.ErrDatabase.WithError(err)
	}
	return m.toDomain(), nil
}

// GetByCode returns the newest version of a catalog entry.
func (r *ReferenceRepoImpl) GetByCode(ctx context.Context, framework constants.Framework, code string) (*models.ReferenceItem, error) {
	var m referenceItemDBM
	err := r.db.WithContext(ctx).
		Where("framework = ? AND code = ?", string(framework), code).
		Order("effective_from DESC").
		First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound.WithMessagef("reference item %s/%s not found", framework, code)
		}
		r.logger.Error(ctx, "Failed to get reference item by code", err,
			logger.String("framework", string(framework)),
			logger.String("code", code),
		)
		return nil, errors.ErrDatabase.WithError(err)
	}
	return m.toDomain(), nil
}

// MapRisk links a reference item to a risk. The unique pair index turns
// a second identical mapping into a duplicate_mapping conflict.
func (r *ReferenceRepoImpl) MapRisk(ctx context.Context, mapping *models.RiskMapping) error {
	if err := r.db.WithContext(ctx).Create(newRiskMappingDBM(mapping)).Error; err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.ErrDuplicateMapping.WithMessagef(
				"risk %s is already mapped to reference %s", mapping.RiskID, mapping.ReferenceID)
		}
		r.logger.Error(ctx, "Failed to map risk", err,
			logger.String("reference_id", mapping.ReferenceID.String()),
			logger.String("risk_id", mapping.RiskID.String()),
		)
		return errors.ErrDatabase.WithError(err)
	}
	return nil
}

// UnmapRisk removes a reference-risk link.
func (r *ReferenceRepoImpl) UnmapRisk(ctx context.Context, referenceID, riskID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("reference_id = ? AND risk_id = ?", referenceID, riskID).
		Delete(&riskMappingDBM{})
	if result.Error != nil {
		r.logger.Error(ctx, "Failed to unmap risk", result.Error,
			logger.String("reference_id", referenceID.String()),
			logger.String("risk_id", riskID.String()),
		)
		return errors.ErrDatabase.WithError(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound.WithMessage("mapping not found")
	}
	return nil
}

// MapAction links a reference item to an action.
func (r *ReferenceRepoImpl) MapAction(ctx context.Context, mapping *models.ActionMapping) error {
	if err := r.db.WithContext(ctx).Create(newActionMappingDBM(mapping)).Error; err != nil {
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return errors.ErrDuplicateMapping.WithMessagef(
				"action %s is already mapped to reference %s", mapping.ActionID, mapping.ReferenceID)
		}
		r.logger.Error(ctx, "Failed to map action", err,
			logger.String("reference_id", mapping.ReferenceID.String()),
			logger.String("action_id", mapping.ActionID.String()),
		)
		return errors.ErrDatabase.WithError(err)
	}
	return nil
}

// UnmapAction removes a reference-action link.
func (r *ReferenceRepoImpl) UnmapAction(ctx context.Context, referenceID, actionID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("reference_id = ? AND action_id = ?", referenceID, actionID).
		Delete(&actionMappingDBM{})
	if result.Error != nil {
		r.logger.Error(ctx, "Failed to unmap action", result.Error,
			logger.String("reference_id", referenceID.String()),
			logger.String("action_id", actionID.String()),
		)
		return errors.ErrDatabase.WithError(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound.WithMessage("mapping not found")
	}
	return nil
}

// ListMappingsForRisk returns every reference mapping of one risk.
func (r *ReferenceRepoImpl) ListMappingsForRisk(ctx context.Context, riskID uuid.UUID) ([]*models.RiskMapping, error) {
	var rows []riskMappingDBM
	err := r.db.WithContext(ctx).
		Where("risk_id = ?", riskID).
		Order("created_at, id").
		Find(&rows).Error
	if err != nil {
		r.logger.Error(ctx, "Failed to list mappings for risk", err,
			logger.String("risk_id", riskID.String()),
		)
		return nil, errors.ErrDatabase.WithError(err)
	}

	mappings := make([]*models.RiskMapping, 0, len(rows))
	for i := range rows {
		mappings = append(mappings, rows[i].toDomain())
	}
	return mappings, nil
}

// ListMappingsForReference returns every risk mapping of one catalog entry.
func (r *ReferenceRepoImpl) ListMappingsForReference(ctx context.Context, referenceID uuid.UUID) ([]*models.RiskMapping, error) {
	var rows []riskMappingDBM
	err := r.db.WithContext(ctx).
		Where("reference_id = ?", referenceID).
		Order("created_at, id").
		Find(&rows).Error
	if err != nil {
		r.logger.Error(ctx, "Failed to list mappings for reference", err,
			logger.String("reference_id", referenceID.String()),
		)
		return nil, errors.ErrDatabase.WithError(err)
	}

	mappings := make([]*models.RiskMapping, 0, len(rows))
	for i := range rows {
		mappings = append(mappings, rows[i].toDomain())
	}
	return mappings, nil
}

// LiveMappedReferenceIDs returns the catalog entries of a framework that
// are mapped to at least one live risk. A mapping to a closed or deleted
// risk does not put its reference in the set.
func (r *ReferenceRepoImpl) LiveMappedReferenceIDs(ctx context.Context, framework constants.Framework) (map[uuid.UUID]struct{}, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT rm.reference_id
		FROM risk_mappings rm
		JOIN risks r ON r.id = rm.risk_id
		JOIN reference_items ri ON ri.id = rm.reference_id
		WHERE ri.framework = ?
		  AND r.deleted_at IS NULL
		  AND r.status <> ?`,
		string(framework), string(constants.RiskStatusClosed),
	).Scan(&ids).Error
	if err != nil {
		r.logger.Error(ctx, "Failed to resolve live mapped references", err,
			logger.String("framework", string(framework)),
		)
		return nil, errors.ErrDatabase.WithError(err)
	}

	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// codeLess orders catalog codes naturally, so 2.9 sorts before 2.10.
// Codes are compared number run by number run; ties fall back to the
// plain string order.
func codeLess(a, b string) bool {
	an, bn := codeNumbers(a), codeNumbers(b)
	for i := 0; i < len(an) && i < len(bn); i++ {
		if an[i] != bn[i] {
			return an[i] < bn[i]
		}
	}
	if len(an) != len(bn) {
		return len(an) < len(bn)
	}
	return a < b
}

func codeNumbers(code string) []int {
	var nums []int
	n, inRun := 0, false
	for _, r := range code {
		if r >= '0' && r <= '9' {
			n = n*10 + int(r-'0')
			inRun = true
			continue
		}
		if inRun {
			nums = append(nums, n)
			n, inRun = 0, false
		}
	}
	if inRun {
		nums = append(nums, n)
	}
	return nums
}
