package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"sizechart_dev_v1/internal/model"
	"sizechart_dev_v1/internal/repository"
	"sizechart_dev_v1/pkg/shopid"
)

// ==================== 结果结构 ====================

// AppURLResult 应用 URL 探测结果
type AppURLResult struct {
	URL      string `json:"app_url"`
	Strategy string `json:"strategy"` // 命中的探测策略
	Detected bool   `json:"detected"`
}

// ChartAvailability 商品可用的尺码表类型
type ChartAvailability struct {
	HasTableTemplate  bool `json:"hasTableTemplate"`
	HasCustomTemplate bool `json:"hasCustomTemplate"`
}

// ==================== 服务实现 ====================

// StorefrontService 店面公开读取
type StorefrontService struct {
	AssignmentRepo repository.AssignmentRepository
	SettingsSvc    *SettingsService
	EnvAppURL      string // 环境变量指定的应用 URL，优先级最高
	AppProxyPath   string // 应用代理路径，兜底拼接用
}

func NewStorefrontService(
	assignmentRepo repository.AssignmentRepository,
	settingsSvc *SettingsService,
	envAppURL string,
	appProxyPath string,
) *StorefrontService {
	if appProxyPath == "" {
		appProxyPath = "/apps/size-chart"
	}
	return &StorefrontService{
		AssignmentRepo: assignmentRepo,
		SettingsSvc:    settingsSvc,
		EnvAppURL:      envAppURL,
		AppProxyPath:   appProxyPath,
	}
}

// ==================== 应用 URL 探测 ====================

// ResolveAppURL 逐级探测应用自身的对外 URL
// 顺序: 环境变量 -> 店铺配置 -> 转发头 -> 请求地址 -> Host -> Origin -> Referer -> 应用代理兜底
// 指向平台自身域名的候选一律跳过
func (s *StorefrontService) ResolveAppURL(ctx context.Context, req *http.Request, shop string) *AppURLResult {
	if result := validCandidate(s.EnvAppURL, "env"); result != nil {
		return result
	}

	if s.SettingsSvc != nil && shop != "" {
		settings, err := s.SettingsSvc.Get(ctx, shop)
		if err == nil && settings.AppURL != "" {
			if result := validCandidate(settings.AppURL, "settings"); result != nil {
				return result
			}
		}
	}

	if req != nil {
		if host := req.Header.Get("X-Forwarded-Host"); host != "" {
			scheme := req.Header.Get("X-Forwarded-Proto")
			if scheme == "" {
				scheme = "https"
			}
			if result := validCandidate(scheme+"://"+host, "forwarded"); result != nil {
				return result
			}
		}

		if req.URL != nil && req.URL.Host != "" {
			scheme := req.URL.Scheme
			if scheme == "" {
				scheme = "https"
			}
			if result := validCandidate(scheme+"://"+req.URL.Host, "request-url"); result != nil {
				return result
			}
		}

		if req.Host != "" {
			if result := validCandidate("https://"+req.Host, "host-header"); result != nil {
				return result
			}
		}

		if origin := req.Header.Get("Origin"); origin != "" {
			if result := validCandidate(origin, "origin"); result != nil {
				return result
			}
		}

		if referer := req.Header.Get("Referer"); referer != "" {
			if u, err := url.Parse(referer); err == nil && u.Host != "" {
				if result := validCandidate(u.Scheme+"://"+u.Host, "referer"); result != nil {
					return result
				}
			}
		}
	}

	// 兜底：通过店铺域名走应用代理
	if shop != "" {
		proxyURL := fmt.Sprintf("https://%s%s", shopid.NormalizeShop(shop), s.AppProxyPath)
		return &AppURLResult{URL: proxyURL, Strategy: "app-proxy", Detected: true}
	}

	return &AppURLResult{Detected: false}
}

// validCandidate 校验候选 URL，平台域名直接淘汰
func validCandidate(raw, strategy string) *AppURLResult {
	raw = strings.TrimSpace(strings.TrimSuffix(raw, "/"))
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil
	}
	if shopid.IsPlatformHost(u.Host) {
		return nil
	}
	return &AppURLResult{URL: raw, Strategy: strategy, Detected: true}
}

// ==================== 尺码表可用性 ====================

// ChartTypes 查询商品当前可用的尺码表类型
// 只统计启用中的模板
func (s *StorefrontService) ChartTypes(ctx context.Context, shop, productID string) (*ChartAvailability, error) {
	assigns, err := s.AssignmentRepo.ListByProduct(ctx, shopid.ShopCandidates(shop), shopid.NormalizeProductID(productID))
	if err != nil {
		return nil, err
	}

	availability := &ChartAvailability{}
	for _, assign := range assigns {
		if assign.Template == nil || !assign.Template.Active {
			continue
		}
		switch assign.Template.ChartType {
		case model.ChartTypeTable:
			availability.HasTableTemplate = true
		case model.ChartTypeMeasurement:
			availability.HasCustomTemplate = true
		}
	}
	return availability, nil
}

// Settings 店面用的展示配置
func (s *StorefrontService) Settings(ctx context.Context, shop string) (*model.ShopSettings, error) {
	return s.SettingsSvc.Get(ctx, shop)
}
