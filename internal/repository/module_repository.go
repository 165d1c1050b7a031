package repository

import (
	"context"

	"gorm.io/gorm"

	"worktrack/internal/model"
)

// ModuleRepository defines module persistence operations.
type ModuleRepository interface {
	Create(ctx context.Context, module *model.Module) error
	Update(ctx context.Context, module *model.Module) error
	FindByID(ctx context.Context, id uint) (*model.Module, error)
	ListByProject(ctx context.Context, projectID uint) ([]model.Module, error)
	ListByAssignee(ctx context.Context, userID uint) ([]model.Module, error)
	CountByStatusForAssignee(ctx context.Context, userID uint) (map[model.ModuleStatus]int64, error)
}

type moduleRepository struct {
	db *gorm.DB
}

// NewModuleRepository builds a GORM-backed repository.
func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) Create(ctx context.Context, module *model.Module) error {
	return r.db.WithContext(ctx).Create(module).Error
}

func (r *moduleRepository) Update(ctx context.Context, module *model.Module) error {
	return r.db.WithContext(ctx).Save(module).Error
}

func (r *moduleRepository) FindByID(ctx context.Context, id uint) (*model.Module, error) {
	var module model.Module
	if err := r.db.WithContext(ctx).Preload("Project").First(&module, id).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *moduleRepository) ListByProject(ctx context.Context, projectID uint) ([]model.Module, error) {
	var modules []model.Module
	if err := r.db.WithContext(ctx).Preload("Assignee").
		Where("project_id = ?", projectID).Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *moduleRepository) ListByAssignee(ctx context.Context, userID uint) ([]model.Module, error) {
	var modules []model.Module
	if err := r.db.WithContext(ctx).Preload("Project").
		Where("assigned_to = ?", userID).Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}

func (r *moduleRepository) CountByStatusForAssignee(ctx context.Context, userID uint) (map[model.ModuleStatus]int64, error) {
	type statusCount struct {
		Status model.ModuleStatus
		Count  int64
	}
	var rows []statusCount
	if err := r.db.WithContext(ctx).Model(&model.Module{}).
		Select("status, count(*) as count").
		Where("assigned_to = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[model.ModuleStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
