package router

import (
	controller2 "sizechart_dev_v1/internal/controller"
	"sizechart_dev_v1/internal/middleware"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "sizechart_dev_v1/docs"
)

// InitRoutes 注册所有路由
func InitRoutes(r *gin.Engine,
	appSecret string,
	templateCtl *controller2.TemplateController,
	settingsCtl *controller2.SettingsController,
	subscriptionCtl *controller2.SubscriptionController,
	storefrontCtl *controller2.StorefrontController,
	draftOrderCtl *controller2.DraftOrderController,
	catalogCtl *controller2.CatalogController,
	webhookCtl *controller2.WebhookController) {
	// 1. Swagger 文档路由
	// 访问 http://localhost:8080/swagger/index.html 即可查看
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 2. 后台 API 路由组（嵌入应用，需要会话令牌）
	api := r.Group("/api")
	api.Use(middleware.SessionAuth())
	{
		// templates 模板维护
		templates := api.Group("/templates")
		{
			// GET /api/templates
			templates.GET("", templateCtl.GetTemplateList)
			templates.GET("/:id", templateCtl.GetTemplateDetail)
			templates.GET("/:id/assignments", templateCtl.GetTemplateAssignments)
			// POST /api/templates/action
			// 表单 intent 分发：create / update / toggle-active / delete / assign-products
			templates.POST("/action", templateCtl.HandleAction)
		}
		// settings 店铺外观设置
		settings := api.Group("/settings")
		{
			settings.GET("", settingsCtl.GetSettings)
			settings.PUT("", settingsCtl.UpdateSettings)
		}
		// subscription 订阅与用量
		subscription := api.Group("/subscription")
		{
			// GET /api/subscription/usage
			subscription.GET("/usage", subscriptionCtl.GetUsage)
		}
		// products 商品目录（关联选择器）
		products := api.Group("/products")
		{
			products.GET("", catalogCtl.GetProducts)
		}
	}

	// 3. 店面公开路由组（storefront 跨域匿名访问）
	public := r.Group("/public")
	public.Use(middleware.PublicCORS())
	{
		public.GET("/app-url", storefrontCtl.GetAppURL)
		public.GET("/chart-types", storefrontCtl.GetChartTypes)
		public.GET("/settings", storefrontCtl.GetSettings)
		// POST /public/draft-orders
		public.POST("/draft-orders", draftOrderCtl.CreateDraftOrder)
	}

	// 4. 合规 webhook 路由组（HMAC 校验）
	webhooks := r.Group("/webhooks")
	webhooks.Use(middleware.WebhookVerify(appSecret))
	{
		webhooks.POST("/shop/redact", webhookCtl.HandleShopRedact)
		webhooks.POST("/customers/redact", webhookCtl.HandleCustomersRedact)
		webhooks.POST("/customers/data_request", webhookCtl.HandleCustomersDataRequest)
	}
}
