package repository

import (
	"context"

	"gorm.io/gorm"

	"sizechart_dev_v1/internal/model"
)

// ==================== 接口定义 ====================

// AssignmentRepository 商品关联仓储接口
type AssignmentRepository interface {
	Create(ctx context.Context, assign *model.ProductAssignment) error
	Delete(ctx context.Context, id int64) error
	ListByTemplate(ctx context.Context, templateID int64) ([]model.ProductAssignment, error)
	ListByProduct(ctx context.Context, shops []string, productID string) ([]model.ProductAssignment, error)
	CountByTemplate(ctx context.Context, templateID int64) (int64, error)
	CountByShop(ctx context.Context, shops []string) (int64, error)

	// 同类型冲突查询：该商品是否已有其他模板的同类型关联
	// (shop, product_id, chart_type) 走索引，单次查询即权威判定
	FindSameType(ctx context.Context, shops []string, productID string, chartType model.ChartType, excludeTemplateID int64) (*model.ProductAssignment, error)

	// 批量清除
	DeleteByTemplate(ctx context.Context, tx *gorm.DB, templateID int64) error
	DeleteByShop(ctx context.Context, tx *gorm.DB, shops []string) error

	WithTx(tx *gorm.DB) AssignmentRepository
}

// ==================== 仓储实现 ====================

type assignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepository 创建商品关联仓储
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: db}
}

func (r *assignmentRepo) WithTx(tx *gorm.DB) AssignmentRepository {
	return &assignmentRepo{db: tx}
}

func (r *assignmentRepo) Create(ctx context.Context, assign *model.ProductAssignment) error {
	return r.db.WithContext(ctx).Create(assign).Error
}

func (r *assignmentRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.ProductAssignment{}, id).Error
}

func (r *assignmentRepo) ListByTemplate(ctx context.Context, templateID int64) ([]model.ProductAssignment, error) {
	var assigns []model.ProductAssignment
	err := r.db.WithContext(ctx).
		Where("template_id = ?", templateID).
		Order("created_at ASC").
		Find(&assigns).Error
	return assigns, err
}

func (r *assignmentRepo) ListByProduct(ctx context.Context, shops []string, productID string) ([]model.ProductAssignment, error) {
	var assigns []model.ProductAssignment
	err := r.db.WithContext(ctx).
		Preload("Template").
		Where("shop IN ? AND product_id = ?", shops, productID).
		Find(&assigns).Error
	return assigns, err
}

func (r *assignmentRepo) CountByTemplate(ctx context.Context, templateID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ProductAssignment{}).
		Where("template_id = ?", templateID).
		Count(&count).Error
	return count, err
}

func (r *assignmentRepo) CountByShop(ctx context.Context, shops []string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ProductAssignment{}).
		Where("shop IN ?", shops).
		Count(&count).Error
	return count, err
}

func (r *assignmentRepo) FindSameType(ctx context.Context, shops []string, productID string, chartType model.ChartType, excludeTemplateID int64) (*model.ProductAssignment, error) {
	var assign model.ProductAssignment
	err := r.db.WithContext(ctx).
		Preload("Template").
		Where("shop IN ? AND product_id = ? AND chart_type = ?", shops, productID, chartType).
		Where("template_id != ?", excludeTemplateID).
		First(&assign).Error
	if err != nil {
		return nil, err
	}
	return &assign, nil
}

func (r *assignmentRepo) DeleteByTemplate(ctx context.Context, tx *gorm.DB, templateID int64) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).
		Unscoped().
		Where("template_id = ?", templateID).
		Delete(&model.ProductAssignment{}).Error
}

func (r *assignmentRepo) DeleteByShop(ctx context.Context, tx *gorm.DB, shops []string) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).
		Unscoped().
		Where("shop IN ?", shops).
		Delete(&model.ProductAssignment{}).Error
}
