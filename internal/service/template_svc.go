package service

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"sizechart_dev_v1/internal/apperr"
	"sizechart_dev_v1/internal/model"
	"sizechart_dev_v1/internal/repository"
	"sizechart_dev_v1/pkg/shopid"
)

// 删除被拒时随错误返回的商品标题数量上限
const blockingTitleLimit = 5

// ==================== 入参 ====================

// TemplateInput 创建/更新模板的入参
type TemplateInput struct {
	Name        string
	Gender      string
	Category    string
	Description string
	ChartType   model.ChartType
	TableData   *model.TableChartData
	Fields      *model.MeasurementFieldList
}

// GuideImageUpload 随表单上传的量体示意图
// FieldIndex 指向 Fields 中的条目
type GuideImageUpload struct {
	FieldIndex  int
	Filename    string
	ContentType string
	Data        []byte
}

// ==================== 服务实现 ====================

// TemplateService 模板增删改查
type TemplateService struct {
	TemplateRepo    repository.TemplateRepository
	AssignmentRepo  repository.AssignmentRepository
	SubscriptionSvc *SubscriptionService
	Storage         *StorageService
}

func NewTemplateService(
	templateRepo repository.TemplateRepository,
	assignmentRepo repository.AssignmentRepository,
	subscriptionSvc *SubscriptionService,
	storage *StorageService,
) *TemplateService {
	return &TemplateService{
		TemplateRepo:    templateRepo,
		AssignmentRepo:  assignmentRepo,
		SubscriptionSvc: subscriptionSvc,
		Storage:         storage,
	}
}

// ==================== 创建 ====================

// Create 创建模板
// 先上传示意图再落库，载荷中只会出现最终 URL
func (s *TemplateService) Create(ctx context.Context, shop string, input *TemplateInput, uploads []GuideImageUpload) (*model.Template, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	shops := shopid.ShopCandidates(shop)
	name := strings.TrimSpace(input.Name)

	exists, err := s.TemplateRepo.ExistsByName(ctx, shops, name, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &apperr.ErrDuplicateName{Name: name}
	}

	// 套餐限额
	if s.SubscriptionSvc != nil {
		if err := s.SubscriptionSvc.CheckTemplateLimit(ctx, shop); err != nil {
			return nil, err
		}
	}

	fields := input.Fields
	if input.ChartType == model.ChartTypeMeasurement {
		fields, err = s.resolveGuideImages(ctx, fields, uploads)
		if err != nil {
			return nil, err
		}
	}

	tpl := &model.Template{
		Shop:        shopid.NormalizeShop(shop),
		Name:        name,
		Gender:      input.Gender,
		Category:    input.Category,
		Description: input.Description,
		Active:      true,
		ChartType:   input.ChartType,
		TableData:   input.TableData,
		Fields:      fields,
	}
	if err := s.TemplateRepo.Create(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// ==================== 更新 ====================

// Update 部分更新模板，重名检查排除自身
func (s *TemplateService) Update(ctx context.Context, shop string, id int64, input *TemplateInput, uploads []GuideImageUpload) (*model.Template, error) {
	shops := shopid.ShopCandidates(shop)

	tpl, err := s.TemplateRepo.GetByID(ctx, id, shops)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.ErrNotFound{Resource: "模板", ID: strconv.FormatInt(id, 10)}
		}
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" && name != tpl.Name {
		exists, err := s.TemplateRepo.ExistsByName(ctx, shops, name, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &apperr.ErrDuplicateName{Name: name}
		}
		tpl.Name = name
	}

	if input.Gender != "" {
		tpl.Gender = input.Gender
	}
	if input.Category != "" {
		tpl.Category = input.Category
	}
	if input.Description != "" {
		tpl.Description = input.Description
	}
	if input.TableData != nil && tpl.ChartType == model.ChartTypeTable {
		tpl.TableData = input.TableData
	}
	if input.Fields != nil && tpl.ChartType == model.ChartTypeMeasurement {
		fields, err := s.resolveGuideImages(ctx, input.Fields, uploads)
		if err != nil {
			return nil, err
		}
		tpl.Fields = fields
	}

	if err := s.TemplateRepo.Update(ctx, tpl); err != nil {
		return nil, err
	}
	return tpl, nil
}

// ==================== 启停 ====================

// ToggleActive 翻转启用标志，不影响商品关联
func (s *TemplateService) ToggleActive(ctx context.Context, shop string, id int64) (*model.Template, error) {
	shops := shopid.ShopCandidates(shop)

	tpl, err := s.TemplateRepo.GetByID(ctx, id, shops)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.ErrNotFound{Resource: "模板", ID: strconv.FormatInt(id, 10)}
		}
		return nil, err
	}

	tpl.Active = !tpl.Active
	if err := s.TemplateRepo.UpdateFields(ctx, id, map[string]interface{}{"active": tpl.Active}); err != nil {
		return nil, err
	}
	return tpl, nil
}

// ==================== 删除 ====================

// Delete 删除模板
// 仍有商品关联时拒绝；示意图清理尽力而为，失败只记日志
func (s *TemplateService) Delete(ctx context.Context, shop string, id int64) error {
	shops := shopid.ShopCandidates(shop)

	tpl, err := s.TemplateRepo.GetByID(ctx, id, shops)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &apperr.ErrNotFound{Resource: "模板", ID: strconv.FormatInt(id, 10)}
		}
		return err
	}

	count, err := s.AssignmentRepo.CountByTemplate(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		assigns, err := s.AssignmentRepo.ListByTemplate(ctx, id)
		if err != nil {
			return err
		}
		titles := make([]string, 0, blockingTitleLimit)
		for _, a := range assigns {
			if len(titles) >= blockingTitleLimit {
				break
			}
			titles = append(titles, a.ProductTitle)
		}
		return &apperr.ErrHasAssignments{Count: count, Titles: titles}
	}

	if s.Storage != nil {
		for _, url := range tpl.GuideImageURLs() {
			if err := s.Storage.Delete(ctx, url); err != nil {
				log.Printf("[Template] 示意图删除失败 (忽略): %s: %v", url, err)
			}
		}
	}

	return s.TemplateRepo.Delete(ctx, id)
}

// ==================== 查询 ====================

// Get 按 ID 查询模板
func (s *TemplateService) Get(ctx context.Context, shop string, id int64) (*model.Template, error) {
	tpl, err := s.TemplateRepo.GetByID(ctx, id, shopid.ShopCandidates(shop))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.ErrNotFound{Resource: "模板", ID: strconv.FormatInt(id, 10)}
		}
		return nil, err
	}
	return tpl, nil
}

// ListFilter 列表查询条件（controller 层透传）
type ListFilter struct {
	Gender   string
	Category string
	Active   *bool
	Keyword  string
	Page     int
	PageSize int
}

// TemplateListing 按变体类型分组的列表结果
type TemplateListing struct {
	TableTemplates       []model.Template `json:"table_templates"`
	MeasurementTemplates []model.Template `json:"measurement_templates"`
	Total                int64            `json:"total"`
}

// List 查询模板并按变体类型分组，创建时间倒序
func (s *TemplateService) List(ctx context.Context, shop string, filter ListFilter) (*TemplateListing, error) {
	templates, total, err := s.TemplateRepo.List(ctx, repository.TemplateFilter{
		Shops:    shopid.ShopCandidates(shop),
		Gender:   filter.Gender,
		Category: filter.Category,
		Active:   filter.Active,
		Keyword:  filter.Keyword,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	})
	if err != nil {
		return nil, err
	}

	listing := &TemplateListing{
		TableTemplates:       []model.Template{},
		MeasurementTemplates: []model.Template{},
		Total:                total,
	}
	for _, tpl := range templates {
		if tpl.IsTable() {
			listing.TableTemplates = append(listing.TableTemplates, tpl)
		} else {
			listing.MeasurementTemplates = append(listing.MeasurementTemplates, tpl)
		}
	}
	return listing, nil
}

// ==================== 内部方法 ====================

// resolveGuideImages 上传示意图并把最终 URL 写回字段列表
func (s *TemplateService) resolveGuideImages(ctx context.Context, fields *model.MeasurementFieldList, uploads []GuideImageUpload) (*model.MeasurementFieldList, error) {
	if fields == nil || len(uploads) == 0 {
		return fields, nil
	}
	if s.Storage == nil {
		log.Println("[Template] 存储服务未配置，跳过示意图上传")
		return fields, nil
	}

	resolved := make(model.MeasurementFieldList, len(*fields))
	copy(resolved, *fields)

	for _, up := range uploads {
		if up.FieldIndex < 0 || up.FieldIndex >= len(resolved) {
			continue
		}
		url, err := s.Storage.Upload(ctx, up.Data, up.Filename, up.ContentType)
		if err != nil {
			return nil, err
		}
		resolved[up.FieldIndex].GuideImageURL = url
	}
	return &resolved, nil
}

func validateInput(input *TemplateInput) error {
	if input == nil {
		return &apperr.ErrValidation{Message: "缺少模板内容"}
	}
	if strings.TrimSpace(input.Name) == "" {
		return &apperr.ErrValidation{Message: "模板名称不能为空"}
	}
	if !input.ChartType.Valid() {
		return &apperr.ErrValidation{Message: "未知的模板类型: " + string(input.ChartType)}
	}
	if input.ChartType == model.ChartTypeTable && input.TableData == nil {
		return &apperr.ErrValidation{Message: "表格型模板缺少表格数据"}
	}
	if input.ChartType == model.ChartTypeMeasurement && (input.Fields == nil || len(*input.Fields) == 0) {
		return &apperr.ErrValidation{Message: "量体模板至少需要一个字段"}
	}
	return nil
}
