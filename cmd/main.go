package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sizechart_dev_v1/internal/controller"
	"sizechart_dev_v1/internal/middleware"
	"sizechart_dev_v1/internal/model"
	"sizechart_dev_v1/internal/repository"
	"sizechart_dev_v1/internal/router"
	"sizechart_dev_v1/internal/service"
	"sizechart_dev_v1/internal/task"
	"sizechart_dev_v1/pkg/database"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// @title Size Chart App API
// @version 1.0
// @description 尺码表应用后端 API 文档
// @host localhost:8080
// @BasePath /
func main() {
	// 1. 初始化数据库
	db := initDatabase()

	// 2. 初始化依赖
	deps := initDependencies(db)

	// 3. 启动定时任务
	initTasks(deps)

	// 4. 初始化路由
	r := gin.Default()
	router.InitRoutes(r,
		getEnv("SHOPIFY_API_SECRET", ""),
		deps.Controllers.Template,
		deps.Controllers.Settings,
		deps.Controllers.Subscription,
		deps.Controllers.Storefront,
		deps.Controllers.DraftOrder,
		deps.Controllers.Catalog,
		deps.Controllers.Webhook,
	)

	// 5. 启动服务
	startServer(r)
}

// ==================== 依赖容器 ====================

// Dependencies 依赖容器
type Dependencies struct {
	DB          *gorm.DB
	Repos       *Repositories
	Services    *Services
	Controllers *Controllers
}

// Repositories 仓库集合
type Repositories struct {
	Template      repository.TemplateRepository
	Assignment    repository.AssignmentRepository
	Settings      repository.SettingsRepository
	Subscription  repository.SubscriptionRepository
	Session       repository.SessionRepository
	DraftOrderLog repository.DraftOrderLogRepository
}

// Services 服务集合
type Services struct {
	Session      *service.SessionService
	Shopify      *service.ShopifyService
	Storage      *service.StorageService
	Subscription *service.SubscriptionService
	Template     *service.TemplateService
	Assignment   *service.AssignmentService
	Settings     *service.SettingsService
	Storefront   *service.StorefrontService
	DraftOrder   *service.DraftOrderService
	Redact       *service.RedactService
}

// Controllers 控制器集合
type Controllers struct {
	Template     *controller.TemplateController
	Settings     *controller.SettingsController
	Subscription *controller.SubscriptionController
	Storefront   *controller.StorefrontController
	DraftOrder   *controller.DraftOrderController
	Catalog      *controller.CatalogController
	Webhook      *controller.WebhookController
}

// ==================== 初始化函数 ====================

// initDatabase 初始化数据库
func initDatabase() *gorm.DB {
	db := database.InitDB(
		getEnv("DATABASE_URL", "host=localhost user=postgres password=postgres dbname=sizechart port=5432 sslmode=disable"),
		// Template
		&model.Template{}, &model.ProductAssignment{},
		// Shop
		&model.ShopSettings{}, &model.Session{},
		// Billing
		&model.Plan{}, &model.Subscription{},
		// Order
		&model.DraftOrderLog{},
	)

	// 预置套餐数据
	subscriptionRepo := repository.NewSubscriptionRepository(db)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := subscriptionRepo.SeedPlans(ctx); err != nil {
		log.Fatalf("套餐数据初始化失败: %v", err)
	}

	return db
}

// initDependencies 初始化所有依赖
func initDependencies(db *gorm.DB) *Dependencies {
	// -------- Repo 层 --------
	repos := initRepositories(db)

	// -------- 会话认证配置 --------
	middleware.SetSessionAuthConfig(&middleware.SessionAuthConfig{
		AppSecret: getEnv("SHOPIFY_API_SECRET", ""),
		AppKey:    getEnv("SHOPIFY_API_KEY", ""),
	})

	// -------- 基础服务 --------
	sessionSvc := service.NewSessionService(repos.Session)
	shopifySvc := service.NewShopifyService(&service.ShopifyConfig{
		APIVersion: getEnv("SHOPIFY_API_VERSION", "2024-10"),
	})
	storageSvc := initStorageService()

	// -------- 业务服务 --------
	services := &Services{
		Session: sessionSvc,
		Shopify: shopifySvc,
		Storage: storageSvc,
	}

	services.Subscription = service.NewSubscriptionService(repos.Subscription, repos.Template, repos.Assignment)
	services.Template = service.NewTemplateService(repos.Template, repos.Assignment, services.Subscription, storageSvc)
	services.Assignment = service.NewAssignmentService(db, repos.Template, repos.Assignment, sessionSvc, shopifySvc, services.Subscription)
	services.Settings = service.NewSettingsService(repos.Settings)
	services.Storefront = service.NewStorefrontService(
		repos.Assignment, services.Settings,
		getEnv("SHOPIFY_APP_URL", ""), getEnv("APP_PROXY_PATH", "/apps/size-chart"),
	)
	services.DraftOrder = service.NewDraftOrderService(sessionSvc, shopifySvc, repos.Assignment, repos.Template, repos.DraftOrderLog)
	services.Redact = service.NewRedactService(
		db, repos.Template, repos.Assignment, repos.Settings,
		repos.Subscription, repos.Session, repos.DraftOrderLog,
	)

	// -------- Controller 层 --------
	controllers := initControllers(services)

	return &Dependencies{
		DB:          db,
		Repos:       repos,
		Services:    services,
		Controllers: controllers,
	}
}

// initRepositories 初始化所有仓库
func initRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Template:      repository.NewTemplateRepository(db),
		Assignment:    repository.NewAssignmentRepository(db),
		Settings:      repository.NewSettingsRepository(db),
		Subscription:  repository.NewSubscriptionRepository(db),
		Session:       repository.NewSessionRepository(db),
		DraftOrderLog: repository.NewDraftOrderLogRepository(db),
	}
}

// initStorageService 初始化存储服务
func initStorageService() *service.StorageService {
	storageSvc, err := service.NewStorageService(&service.StorageConfig{
		Provider:  getEnv("STORAGE_PROVIDER", "s3"),
		Bucket:    getEnv("AWS_BUCKET", ""),
		Region:    getEnv("AWS_REGION", ""),
		AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		CDNDomain: getEnv("AWS_CDN_DOMAIN", ""),
		BasePath:  getEnv("STORAGE_BASE_PATH", "size-chart"),
		LocalDir:  getEnv("STORAGE_LOCAL_DIR", "uploads"),
		LocalURL:  getEnv("STORAGE_LOCAL_URL", "/uploads"),
	})
	if err != nil {
		log.Printf("警告: 存储服务初始化失败: %v", err)
		return nil
	}
	return storageSvc
}

// initControllers 初始化所有控制器
func initControllers(svc *Services) *Controllers {
	return &Controllers{
		Template:     controller.NewTemplateController(svc.Template, svc.Assignment),
		Settings:     controller.NewSettingsController(svc.Settings),
		Subscription: controller.NewSubscriptionController(svc.Subscription),
		Storefront:   controller.NewStorefrontController(svc.Storefront),
		DraftOrder:   controller.NewDraftOrderController(svc.DraftOrder),
		Catalog:      controller.NewCatalogController(svc.Session, svc.Shopify),
		Webhook:      controller.NewWebhookController(svc.Redact),
	}
}

// ==================== 定时任务 ====================

// initTasks 初始化定时任务
func initTasks(deps *Dependencies) {
	// 过期会话清理
	sessionTask := task.NewSessionTask(deps.Services.Session)
	sessionTask.Start()

	log.Println("定时任务已启动")
}

// ==================== 服务启动 ====================

// startServer 启动服务
func startServer(r *gin.Engine) {
	port := getEnv("SERVER_PORT", "8080")

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// 异步启动服务
	go func() {
		log.Printf("服务启动在 :%s", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("正在关闭服务...")

	// 优雅关闭
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("服务强制关闭: %v", err)
	}

	log.Println("服务已退出")
}

// ==================== 工具函数 ====================

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
