package service

import (
	"context"
	"errors"
	"log"
	"strconv"

	"gorm.io/gorm"

	"sizechart_dev_v1/internal/apperr"
	"sizechart_dev_v1/internal/model"
	"sizechart_dev_v1/internal/repository"
	"sizechart_dev_v1/pkg/shopid"
)

// ==================== 结果结构 ====================

// AssignmentConflict 同类型模板关联冲突
// 商品原本挂在另一个同类型模板上，本次提交将其顶替
type AssignmentConflict struct {
	ProductID        string `json:"product_id"`
	ProductTitle     string `json:"product_title"`
	PreviousTemplate string `json:"previous_template"`
}

// ReconcileResult 关联对账结果
type ReconcileResult struct {
	Added     int                  `json:"added"`
	Removed   int                  `json:"removed"`
	Conflicts []AssignmentConflict `json:"conflicts"`
}

// ==================== 服务实现 ====================

// AssignmentService 商品关联对账
// 输入为期望的完整商品集合（非增量），与当前关联做差集
type AssignmentService struct {
	db              *gorm.DB
	TemplateRepo    repository.TemplateRepository
	AssignmentRepo  repository.AssignmentRepository
	SessionSvc      *SessionService
	Shopify         *ShopifyService
	SubscriptionSvc *SubscriptionService
}

func NewAssignmentService(
	db *gorm.DB,
	templateRepo repository.TemplateRepository,
	assignmentRepo repository.AssignmentRepository,
	sessionSvc *SessionService,
	shopify *ShopifyService,
	subscriptionSvc *SubscriptionService,
) *AssignmentService {
	return &AssignmentService{
		db:              db,
		TemplateRepo:    templateRepo,
		AssignmentRepo:  assignmentRepo,
		SessionSvc:      sessionSvc,
		Shopify:         shopify,
		SubscriptionSvc: subscriptionSvc,
	}
}

// Reconcile 将模板的商品关联对齐到期望集合
// 整个差集落库在一个事务内完成；商品标题查询失败的条目单独跳过
func (s *AssignmentService) Reconcile(ctx context.Context, shop string, templateID int64, desiredProductIDs []string) (*ReconcileResult, error) {
	shops := shopid.ShopCandidates(shop)

	tpl, err := s.TemplateRepo.GetByID(ctx, templateID, shops)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.ErrNotFound{Resource: "模板", ID: strconv.FormatInt(templateID, 10)}
		}
		return nil, err
	}

	// 1. 规范化期望集合（去重）
	desired := make(map[string]struct{}, len(desiredProductIDs))
	for _, id := range desiredProductIDs {
		normalized := shopid.NormalizeProductID(id)
		if normalized == "" {
			continue
		}
		desired[normalized] = struct{}{}
	}

	// 2. 当前关联
	current, err := s.AssignmentRepo.ListByTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	currentByProduct := make(map[string]model.ProductAssignment, len(current))
	for _, assign := range current {
		currentByProduct[assign.ProductID] = assign
	}

	// 3. 差集
	var toAdd []string
	for productID := range desired {
		if _, ok := currentByProduct[productID]; !ok {
			toAdd = append(toAdd, productID)
		}
	}
	var toRemove []model.ProductAssignment
	for productID, assign := range currentByProduct {
		if _, ok := desired[productID]; !ok {
			toRemove = append(toRemove, assign)
		}
	}

	// 4. 套餐限额（按净增量判断）
	if s.SubscriptionSvc != nil && len(toAdd) > len(toRemove) {
		if err := s.SubscriptionSvc.CheckAssignmentLimit(ctx, shop, len(toAdd)-len(toRemove)); err != nil {
			return nil, err
		}
	}

	// 5. 商品标题预查（外部调用放在事务外）
	titles := s.resolveTitles(ctx, shop, toAdd)

	result := &ReconcileResult{Conflicts: []AssignmentConflict{}}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txRepo := s.AssignmentRepo.WithTx(tx)

		for _, assign := range toRemove {
			if err := txRepo.Delete(ctx, assign.ID); err != nil {
				return err
			}
			result.Removed++
		}

		for _, productID := range toAdd {
			title, ok := titles[productID]
			if !ok {
				// 商品已不在目录中，静默跳过
				continue
			}

			// 同类型冲突：单次索引查询即权威判定
			existing, err := txRepo.FindSameType(ctx, shops, productID, tpl.ChartType, templateID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			if existing != nil {
				prevName := ""
				if existing.Template != nil {
					prevName = existing.Template.Name
				}
				result.Conflicts = append(result.Conflicts, AssignmentConflict{
					ProductID:        productID,
					ProductTitle:     title,
					PreviousTemplate: prevName,
				})
				if err := txRepo.Delete(ctx, existing.ID); err != nil {
					return err
				}
			}

			if err := txRepo.Create(ctx, &model.ProductAssignment{
				Shop:         tpl.Shop,
				TemplateID:   templateID,
				ProductID:    productID,
				ProductTitle: title,
				ChartType:    tpl.ChartType,
			}); err != nil {
				return err
			}
			result.Added++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ListByTemplate 查询模板当前的商品关联
func (s *AssignmentService) ListByTemplate(ctx context.Context, shop string, templateID int64) ([]model.ProductAssignment, error) {
	if _, err := s.TemplateRepo.GetByID(ctx, templateID, shopid.ShopCandidates(shop)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &apperr.ErrNotFound{Resource: "模板", ID: strconv.FormatInt(templateID, 10)}
		}
		return nil, err
	}
	return s.AssignmentRepo.ListByTemplate(ctx, templateID)
}

// resolveTitles 从商品目录取标题，取不到的商品不参与本次新增
func (s *AssignmentService) resolveTitles(ctx context.Context, shop string, productIDs []string) map[string]string {
	titles := make(map[string]string, len(productIDs))

	if s.Shopify == nil || s.SessionSvc == nil {
		// 目录不可用时保留关联能力，标题留空
		for _, id := range productIDs {
			titles[id] = ""
		}
		return titles
	}

	session, err := s.SessionSvc.ActiveSession(ctx, shop)
	if err != nil {
		log.Printf("[Assignment] 店铺凭证不可用，标题留空: %v", err)
		for _, id := range productIDs {
			titles[id] = ""
		}
		return titles
	}

	for _, id := range productIDs {
		title, err := s.Shopify.GetProductTitle(ctx, shop, session.AccessToken, id)
		if err != nil {
			var notFound *apperr.ErrNotFound
			if errors.As(err, &notFound) {
				log.Printf("[Assignment] 商品已下架，跳过: %s", id)
				continue
			}
			log.Printf("[Assignment] 商品标题查询失败，跳过: %s: %v", id, err)
			continue
		}
		titles[id] = title
	}
	return titles
}
