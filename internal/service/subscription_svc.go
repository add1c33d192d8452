package service

import (
	"context"

	"sizechart_dev_v1/internal/apperr"
	"sizechart_dev_v1/internal/model"
	"sizechart_dev_v1/internal/repository"
	"sizechart_dev_v1/pkg/shopid"
)

// ==================== 用量结构 ====================

// UsageSummary 店铺用量与限额
type UsageSummary struct {
	PlanCode        string `json:"plan_code"`
	PlanName        string `json:"plan_name"`
	TemplatesUsed   int64  `json:"templates_used"`
	TemplatesLimit  int    `json:"templates_limit"`
	AssignmentsUsed int64  `json:"assignments_used"`
	AssignmentsMax  int    `json:"assignments_limit"`
	CustomOrders    bool   `json:"allow_custom_orders"`
}

// ==================== 服务实现 ====================

// SubscriptionService 套餐与限额
type SubscriptionService struct {
	SubscriptionRepo repository.SubscriptionRepository
	TemplateRepo     repository.TemplateRepository
	AssignmentRepo   repository.AssignmentRepository
}

func NewSubscriptionService(
	subscriptionRepo repository.SubscriptionRepository,
	templateRepo repository.TemplateRepository,
	assignmentRepo repository.AssignmentRepository,
) *SubscriptionService {
	return &SubscriptionService{
		SubscriptionRepo: subscriptionRepo,
		TemplateRepo:     templateRepo,
		AssignmentRepo:   assignmentRepo,
	}
}

// PlanFor 取店铺当前套餐，首次访问落一条 free 订阅
func (s *SubscriptionService) PlanFor(ctx context.Context, shop string) (*model.Plan, error) {
	sub, err := s.SubscriptionRepo.GetOrCreate(ctx, shopid.NormalizeShop(shop), shopid.ShopCandidates(shop))
	if err != nil {
		return nil, err
	}
	return s.SubscriptionRepo.GetPlan(ctx, sub.PlanCode)
}

// CheckTemplateLimit 创建模板前的限额检查
func (s *SubscriptionService) CheckTemplateLimit(ctx context.Context, shop string) error {
	plan, err := s.PlanFor(ctx, shop)
	if err != nil {
		return err
	}
	used, err := s.TemplateRepo.CountByShop(ctx, shopid.ShopCandidates(shop))
	if err != nil {
		return err
	}
	if !plan.Allows(plan.MaxTemplates, used) {
		return &apperr.ErrPlanLimit{Resource: "模板数量", Limit: plan.MaxTemplates}
	}
	return nil
}

// CheckAssignmentLimit 新增关联前的限额检查，delta 为净增条数
func (s *SubscriptionService) CheckAssignmentLimit(ctx context.Context, shop string, delta int) error {
	plan, err := s.PlanFor(ctx, shop)
	if err != nil {
		return err
	}
	used, err := s.AssignmentRepo.CountByShop(ctx, shopid.ShopCandidates(shop))
	if err != nil {
		return err
	}
	if plan.MaxAssignments != model.LimitUnlimited && used+int64(delta) > int64(plan.MaxAssignments) {
		return &apperr.ErrPlanLimit{Resource: "商品关联数量", Limit: plan.MaxAssignments}
	}
	return nil
}

// Usage 店铺用量汇总
func (s *SubscriptionService) Usage(ctx context.Context, shop string) (*UsageSummary, error) {
	plan, err := s.PlanFor(ctx, shop)
	if err != nil {
		return nil, err
	}
	shops := shopid.ShopCandidates(shop)

	templatesUsed, err := s.TemplateRepo.CountByShop(ctx, shops)
	if err != nil {
		return nil, err
	}
	assignmentsUsed, err := s.AssignmentRepo.CountByShop(ctx, shops)
	if err != nil {
		return nil, err
	}

	return &UsageSummary{
		PlanCode:        plan.Code,
		PlanName:        plan.Name,
		TemplatesUsed:   templatesUsed,
		TemplatesLimit:  plan.MaxTemplates,
		AssignmentsUsed: assignmentsUsed,
		AssignmentsMax:  plan.MaxAssignments,
		CustomOrders:    plan.AllowCustomOrders,
	}, nil
}
