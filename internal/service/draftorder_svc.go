package service

import (
	"context"
	"log"
	"sort"
	"strconv"
	"strings"

	"gorm.io/datatypes"

	"sizechart_dev_v1/internal/apperr"
	"sizechart_dev_v1/internal/model"
	"sizechart_dev_v1/internal/repository"
	"sizechart_dev_v1/pkg/shopid"
)

// 定制订单统一打的标签
const customOrderTag = "custom-order"

// ==================== 入参/出参 ====================

// DraftOrderRequest 顾客提交的定制下单请求
type DraftOrderRequest struct {
	ProductID    string            `json:"productId"`
	VariantID    string            `json:"variantId,omitempty"`
	Quantity     int               `json:"quantity,omitempty"`
	Measurements map[string]string `json:"measurements"`
}

// DraftOrderResult 下单结果
type DraftOrderResult struct {
	DraftOrderID   int64  `json:"draftOrderId"`
	DraftOrderName string `json:"draftOrderName"`
	InvoiceURL     string `json:"invoiceUrl"`
}

// ==================== 服务实现 ====================

// DraftOrderService 定制草稿订单
type DraftOrderService struct {
	SessionSvc     *SessionService
	Shopify        *ShopifyService
	AssignmentRepo repository.AssignmentRepository
	TemplateRepo   repository.TemplateRepository
	LogRepo        repository.DraftOrderLogRepository
}

func NewDraftOrderService(
	sessionSvc *SessionService,
	shopify *ShopifyService,
	assignmentRepo repository.AssignmentRepository,
	templateRepo repository.TemplateRepository,
	logRepo repository.DraftOrderLogRepository,
) *DraftOrderService {
	return &DraftOrderService{
		SessionSvc:     sessionSvc,
		Shopify:        shopify,
		AssignmentRepo: assignmentRepo,
		TemplateRepo:   templateRepo,
		LogRepo:        logRepo,
	}
}

// Create 根据量体数据创建草稿订单
// 支付条件固定留空；支付方式交由店铺发货配置决定，这里不做任何控制
func (s *DraftOrderService) Create(ctx context.Context, shop string, req *DraftOrderRequest) (*DraftOrderResult, error) {
	if req == nil || strings.TrimSpace(req.ProductID) == "" {
		return nil, &apperr.ErrValidation{Message: "缺少商品 ID"}
	}
	if len(req.Measurements) == 0 {
		return nil, &apperr.ErrValidation{Message: "缺少量体数据"}
	}

	session, err := s.SessionSvc.ActiveSession(ctx, shop)
	if err != nil {
		return nil, err
	}

	productID := shopid.NormalizeProductID(req.ProductID)
	product, err := s.Shopify.GetProduct(ctx, shop, session.AccessToken, productID)
	if err != nil {
		return nil, err
	}

	// 变体：未指定时取商品第一个变体
	variantID := int64(0)
	if req.VariantID != "" {
		variantID, _ = strconv.ParseInt(shopid.NormalizeProductID(req.VariantID), 10, 64)
	}
	if variantID == 0 && len(product.Variants) > 0 {
		variantID = product.Variants[0].ID
	}
	if variantID == 0 {
		return nil, &apperr.ErrNotFound{Resource: "商品变体", ID: productID}
	}

	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}

	properties := s.buildProperties(ctx, shop, productID, req.Measurements)

	draft, raw, err := s.Shopify.CreateDraftOrder(ctx, shop, session.AccessToken, &DraftOrderInput{
		LineItems: []DraftOrderLineItem{{
			VariantID:  variantID,
			Quantity:   quantity,
			Properties: properties,
		}},
		Tags: customOrderTag,
	})
	if err != nil {
		return nil, err
	}

	// 下单记录，失败不影响主流程
	if s.LogRepo != nil {
		measurements := datatypes.JSONMap{}
		for k, v := range req.Measurements {
			measurements[k] = v
		}
		logEntry := &model.DraftOrderLog{
			Shop:           shopid.NormalizeShop(shop),
			ProductID:      productID,
			VariantID:      strconv.FormatInt(variantID, 10),
			Quantity:       quantity,
			DraftOrderID:   draft.ID,
			DraftOrderName: draft.Name,
			InvoiceURL:     draft.InvoiceURL,
			Measurements:   measurements,
			RawResponse:    datatypes.JSON(raw),
		}
		if err := s.LogRepo.Create(ctx, logEntry); err != nil {
			log.Printf("[DraftOrder] 下单记录写入失败 (忽略): %v", err)
		}
	}

	return &DraftOrderResult{
		DraftOrderID:   draft.ID,
		DraftOrderName: draft.Name,
		InvoiceURL:     draft.InvoiceURL,
	}, nil
}

// buildProperties 量体数据转为有序的行项目属性
// 顺序优先按模板字段定义，兜底按字段名排序，保证同一提交结果稳定
func (s *DraftOrderService) buildProperties(ctx context.Context, shop, productID string, measurements map[string]string) []LineItemProperty {
	order := s.fieldOrder(ctx, shop, productID)

	names := make([]string, 0, len(measurements))
	for name := range measurements {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		oi, iok := order[names[i]]
		oj, jok := order[names[j]]
		switch {
		case iok && jok:
			if oi != oj {
				return oi < oj
			}
			return names[i] < names[j]
		case iok:
			return true
		case jok:
			return false
		default:
			return names[i] < names[j]
		}
	})

	properties := make([]LineItemProperty, 0, len(names))
	for _, name := range names {
		properties = append(properties, LineItemProperty{
			Name:  FormatMeasurementName(name),
			Value: measurements[name],
		})
	}
	return properties
}

// fieldOrder 取商品关联的量体模板的字段顺序
func (s *DraftOrderService) fieldOrder(ctx context.Context, shop, productID string) map[string]int {
	order := map[string]int{}
	if s.AssignmentRepo == nil {
		return order
	}
	assigns, err := s.AssignmentRepo.ListByProduct(ctx, shopid.ShopCandidates(shop), productID)
	if err != nil {
		return order
	}
	for _, assign := range assigns {
		if assign.Template == nil || assign.Template.ChartType != model.ChartTypeMeasurement || assign.Template.Fields == nil {
			continue
		}
		for _, f := range *assign.Template.Fields {
			order[f.Name] = f.SortOrder
		}
		break
	}
	return order
}

// FormatMeasurementName 量体字段名转展示名
// 按 "/" 分段逐段首字母大写，段间以 " / " 连接
// "chest/bust" -> "Chest / Bust"
func FormatMeasurementName(name string) string {
	segments := strings.Split(name, "/")
	for i, segment := range segments {
		segments[i] = titleCase(strings.TrimSpace(segment))
	}
	return strings.Join(segments, " / ")
}

// titleCase 每个空格分隔的单词首字母大写
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
