package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"sizechart_dev_v1/internal/apperr"
	"sizechart_dev_v1/pkg/shopid"
)

// ==================== 配置 ====================

type ShopifyConfig struct {
	APIVersion string        // 默认 2024-10
	Timeout    time.Duration // 默认 30s
	RetryCount int           // 默认 2
}

// ==================== 数据结构 ====================

// CatalogProduct 商品目录条目
type CatalogProduct struct {
	ID       int64            `json:"id"`
	Title    string           `json:"title"`
	Status   string           `json:"status"`
	Variants []CatalogVariant `json:"variants"`
}

type CatalogVariant struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Price string `json:"price"`
}

// LineItemProperty 草稿订单行项目属性（有序）
type LineItemProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// DraftOrderLineItem 草稿订单行项目
type DraftOrderLineItem struct {
	VariantID  int64              `json:"variant_id,omitempty"`
	Title      string             `json:"title,omitempty"`
	Price      string             `json:"price,omitempty"`
	Quantity   int                `json:"quantity"`
	Properties []LineItemProperty `json:"properties,omitempty"`
}

// DraftOrderInput 创建草稿订单的入参
type DraftOrderInput struct {
	LineItems []DraftOrderLineItem `json:"line_items"`
	Tags      string               `json:"tags,omitempty"`
	Note      string               `json:"note,omitempty"`
	// 支付条件固定留空，立即付款；支付方式由店铺的发货配置决定，代码不干预
	PaymentTerms interface{} `json:"payment_terms"`
}

// DraftOrder 平台返回的草稿订单
type DraftOrder struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	InvoiceURL string `json:"invoice_url"`
	Status     string `json:"status"`
}

// ==================== 服务实现 ====================

// ShopifyService Admin REST API 客户端
type ShopifyService struct {
	Config *ShopifyConfig
	client *resty.Client
}

func NewShopifyService(cfg *ShopifyConfig) *ShopifyService {
	if cfg == nil {
		cfg = &ShopifyConfig{}
	}
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2024-10"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.RetryCount == 0 {
		cfg.RetryCount = 2
	}

	client := resty.New()
	client.SetTimeout(cfg.Timeout)
	client.SetRetryCount(cfg.RetryCount)
	client.SetRetryWaitTime(500 * time.Millisecond)

	return &ShopifyService{
		Config: cfg,
		client: client,
	}
}

// baseURL 拼接 Admin API 地址
func (s *ShopifyService) baseURL(shop string) string {
	return fmt.Sprintf("https://%s/admin/api/%s", shopid.NormalizeShop(shop), s.Config.APIVersion)
}

// ==================== 商品目录 ====================

// GetProduct 查询单个商品，平台端 404 返回 ErrNotFound
func (s *ShopifyService) GetProduct(ctx context.Context, shop, accessToken, productID string) (*CatalogProduct, error) {
	numericID := shopid.NormalizeProductID(productID)

	var result struct {
		Product CatalogProduct `json:"product"`
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("X-Shopify-Access-Token", accessToken).
		SetResult(&result).
		Get(fmt.Sprintf("%s/products/%s.json", s.baseURL(shop), numericID))

	if err != nil {
		return nil, fmt.Errorf("商品查询请求失败: %w", err)
	}
	if resp.StatusCode() == 404 {
		return nil, &apperr.ErrNotFound{Resource: "商品", ID: numericID}
	}
	if resp.IsError() {
		return nil, &apperr.ErrUpstream{Operation: "GetProduct", StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return &result.Product, nil
}

// GetProductTitle 仅取商品标题（关联时缓存标题用）
func (s *ShopifyService) GetProductTitle(ctx context.Context, shop, accessToken, productID string) (string, error) {
	product, err := s.GetProduct(ctx, shop, accessToken, productID)
	if err != nil {
		return "", err
	}
	return product.Title, nil
}

// ListProducts 分页拉取商品目录（后台关联选择器用）
func (s *ShopifyService) ListProducts(ctx context.Context, shop, accessToken string, limit int) ([]CatalogProduct, error) {
	if limit <= 0 || limit > 250 {
		limit = 50
	}

	var result struct {
		Products []CatalogProduct `json:"products"`
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("X-Shopify-Access-Token", accessToken).
		SetQueryParam("limit", fmt.Sprintf("%d", limit)).
		SetResult(&result).
		Get(fmt.Sprintf("%s/products.json", s.baseURL(shop)))

	if err != nil {
		return nil, fmt.Errorf("商品列表请求失败: %w", err)
	}
	if resp.IsError() {
		return nil, &apperr.ErrUpstream{Operation: "ListProducts", StatusCode: resp.StatusCode(), Body: resp.String()}
	}
	return result.Products, nil
}

// ==================== 草稿订单 ====================

// CreateDraftOrder 创建草稿订单，返回订单与原始响应体
func (s *ShopifyService) CreateDraftOrder(ctx context.Context, shop, accessToken string, input *DraftOrderInput) (*DraftOrder, json.RawMessage, error) {
	if input == nil || len(input.LineItems) == 0 {
		return nil, nil, errors.New("草稿订单至少需要一个行项目")
	}

	body := map[string]interface{}{"draft_order": input}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("X-Shopify-Access-Token", accessToken).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(fmt.Sprintf("%s/draft_orders.json", s.baseURL(shop)))

	if err != nil {
		return nil, nil, fmt.Errorf("草稿订单请求失败: %w", err)
	}
	if resp.IsError() {
		return nil, nil, &apperr.ErrUpstream{Operation: "CreateDraftOrder", StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	var result struct {
		DraftOrder DraftOrder `json:"draft_order"`
	}
	raw := resp.Body()
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, nil, fmt.Errorf("草稿订单响应解析失败: %w", err)
	}
	return &result.DraftOrder, raw, nil
}
