package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"sizechart_dev_v1/internal/model"
)

// ==================== 接口定义 ====================

// TemplateRepository 模板仓储接口
type TemplateRepository interface {
	Create(ctx context.Context, tpl *model.Template) error
	GetByID(ctx context.Context, id int64, shops []string) (*model.Template, error)
	Update(ctx context.Context, tpl *model.Template) error
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter TemplateFilter) ([]model.Template, int64, error)

	// 重名检查：同店铺未删除记录中是否已有同名模板（excludeID 排除自身）
	ExistsByName(ctx context.Context, shops []string, name string, excludeID int64) (bool, error)

	// 用量统计（套餐限额用）
	CountByShop(ctx context.Context, shops []string) (int64, error)

	// GDPR 清除
	DeleteByShop(ctx context.Context, tx *gorm.DB, shops []string) error

	WithTx(tx *gorm.DB) TemplateRepository
}

// ==================== 过滤条件 ====================

// TemplateFilter 模板查询条件
type TemplateFilter struct {
	Shops     []string // 店铺等价形式集合
	ChartType model.ChartType
	Gender    string
	Category  string
	Active    *bool
	Keyword   string
	Page      int
	PageSize  int
}

// ==================== 仓储实现 ====================

type templateRepo struct {
	db *gorm.DB
}

// NewTemplateRepository 创建模板仓储
func NewTemplateRepository(db *gorm.DB) TemplateRepository {
	return &templateRepo{db: db}
}

func (r *templateRepo) WithTx(tx *gorm.DB) TemplateRepository {
	return &templateRepo{db: tx}
}

func (r *templateRepo) Create(ctx context.Context, tpl *model.Template) error {
	return r.db.WithContext(ctx).Create(tpl).Error
}

func (r *templateRepo) GetByID(ctx context.Context, id int64, shops []string) (*model.Template, error) {
	var tpl model.Template
	query := r.db.WithContext(ctx)
	if len(shops) > 0 {
		query = query.Where("shop IN ?", shops)
	}
	if err := query.First(&tpl, id).Error; err != nil {
		return nil, err
	}
	return &tpl, nil
}

func (r *templateRepo) Update(ctx context.Context, tpl *model.Template) error {
	return r.db.WithContext(ctx).Save(tpl).Error
}

func (r *templateRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Template{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *templateRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Template{}, id).Error
}

func (r *templateRepo) List(ctx context.Context, filter TemplateFilter) ([]model.Template, int64, error) {
	var templates []model.Template
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Template{})

	if len(filter.Shops) > 0 {
		query = query.Where("shop IN ?", filter.Shops)
	}
	if filter.ChartType != "" {
		query = query.Where("chart_type = ?", filter.ChartType)
	}
	if filter.Gender != "" {
		query = query.Where("gender = ?", filter.Gender)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.Keyword != "" {
		query = query.Where("name LIKE ?", "%"+filter.Keyword+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	offset := (filter.Page - 1) * filter.PageSize
	err := query.
		Order("created_at DESC").
		Limit(filter.PageSize).
		Offset(offset).
		Find(&templates).Error

	return templates, total, err
}

func (r *templateRepo) ExistsByName(ctx context.Context, shops []string, name string, excludeID int64) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&model.Template{}).
		Where("shop IN ?", shops).
		Where("name = ?", strings.TrimSpace(name))
	if excludeID > 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *templateRepo) CountByShop(ctx context.Context, shops []string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Template{}).
		Where("shop IN ?", shops).
		Count(&count).Error
	return count, err
}

func (r *templateRepo) DeleteByShop(ctx context.Context, tx *gorm.DB, shops []string) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.WithContext(ctx).
		Unscoped().
		Where("shop IN ?", shops).
		Delete(&model.Template{}).Error
}
