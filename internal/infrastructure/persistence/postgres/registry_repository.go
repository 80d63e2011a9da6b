package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/domain/repository"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
)

// ProjectRepoImpl implements ProjectRepository on GORM.
type ProjectRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewProjectRepository creates the database-backed project repository.
func NewProjectRepository(db *gorm.DB, log logger.Logger) repository.ProjectRepository {
	return &ProjectRepoImpl{
		db:     db,
		logger: log.WithComponent("project_repository"),
	}
}

func (r *ProjectRepoImpl) Create(ctx context.Context, project *models.Project) error {
	if err := r.db.WithContext(ctx).Create(newProjectDBM(project)).Error; err != nil {
		r.logger.Error(ctx, "Failed to create project", err,
			logger.String("project_id", project.ID.String()),
		)
		return errors.ErrDatabase.WithError(err)
	}
	return nil
}

func (r *ProjectRepoImpl) Update(ctx context.Context, project *models.Project) error {
	result := r.db.WithContext(ctx).
		Model(&projectDBM{}).
		Where("id = ?", project.ID).
		Select("*").
		Updates(newProjectDBM(project))

	if result.Error != nil {
		r.logger.Error(ctx, "Failed to update project", result.Error,
			logger.String("project_id", project.ID.String()),
		)
		return errors.ErrDatabase.WithError(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound.WithMessagef("project %s not found", project.ID)
	}
	return nil
}

func (r *ProjectRepoImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var m projectDBM
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound.WithMessagef("project %s not found", id)
		}
		r.logger.Error(ctx, "Failed to get project", err, logger.String("project_id", id.String()))
		return nil, errors.ErrDatabase.WithError(err)
	}
	return m.toDomain(), nil
}

// List returns a page of projects ordered by name.
func (r *ProjectRepoImpl) List(ctx context.Context, limit, offset int) ([]*models.Project, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&projectDBM{}).Count(&total).Error; err != nil {
		r.logger.Error(ctx, "Failed to count projects", err)
		return nil, 0, errors.ErrDatabase.WithError(err)
	}

	var rows []projectDBM
	err := r.db.WithContext(ctx).
		Order("name, id").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		r.logger.Error(ctx, "Failed to list projects", err)
		return nil, 0, errors.ErrDatabase.WithError(err)
	}

	projects := make([]*models.Project, 0, len(rows))
	for i := range rows {
		projects = append(projects, rows[i].toDomain())
	}
	return projects, total, nil
}

// AssetRepoImpl implements AssetRepository on GORM.
type AssetRepoImpl struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewAssetRepository creates the database-backed asset repository.
func NewAssetRepository(db *gorm.DB, log logger.Logger) repository.AssetRepository {
	return &AssetRepoImpl{
		db:     db,
		logger: log.WithComponent("asset_repository"),
	}
}

func (r *AssetRepoImpl) Create(ctx context.Context, asset *models.Asset) error {
	if err := r.db.WithContext(ctx).Create(newAssetDBM(asset)).Error; err != nil {
		r.logger.Error(ctx, "Failed to create asset", err,
			logger.String("asset_id", asset.ID.String()),
			logger.String("project_id", asset.ProjectID.String()),
		)
		return errors.ErrDatabase.WithError(err)
	}
	return nil
}

func (r *AssetRepoImpl) Update(ctx context.Context, asset *models.Asset) error {
	result := r.db.WithContext(ctx).
		Model(&assetDBM{}).
		Where("id = ?", asset.ID).
		Select("*").
		Updates(newAssetDBM(asset))

	if result.Error != nil {
		r.logger.Error(ctx, "Failed to update asset", result.Error,
			logger.String("asset_id", asset.ID.String()),
		)
		return errors.ErrDatabase.WithError(result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.ErrNotFound.WithMessagef("asset %s not found", asset.ID)
	}
	return nil
}

func (r *AssetRepoImpl) GetByID(ctx context.Context, id uuid.UUID) (*models.Asset, error) {
	var m assetDBM
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrNotFound.WithMessagef("asset %s not found", id)
		}
		r.logger.Error(ctx, "Failed to get asset", err, logger.String("asset_id", id.String()))
		return nil, errors.ErrDatabase.WithError(err)
	}
	return m.toDomain(), nil
}

// List returns assets ordered by name, optionally narrowed to one project.
func (r *AssetRepoImpl) List(ctx context.Context, projectID *uuid.UUID, limit, offset int) ([]*models.Asset, int64, error) {
	query := r.db.WithContext(ctx).Model(&assetDBM{})
	if projectID != nil {
		query = query.Where("project_id = ?", *projectID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		r.logger.Error(ctx, "Failed to count assets", err)
		return nil, 0, errors.ErrDatabase.WithError(err)
	}

	var rows []assetDBM
	err := query.
		Order("name, id").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		r.logger.Error(ctx, "Failed to list assets", err)
		return nil, 0, errors.ErrDatabase.WithError(err)
	}

	assets := make([]*models.Asset, 0, len(rows))
	for i := range rows {
		assets = append(assets, rows[i].toDomain())
	}
	return assets, total, nil
}
