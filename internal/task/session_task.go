package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"sizechart_dev_v1/internal/service"
)

// SessionTask 定期清理已过期的会话记录
// 过期会话保留没有意义，且会拖慢按店铺查会话的路径
type SessionTask struct {
	SessionService *service.SessionService
	Cron           *cron.Cron
}

func NewSessionTask(sessionService *service.SessionService) *SessionTask {
	return &SessionTask{
		SessionService: sessionService,
		Cron:           cron.New(cron.WithSeconds()), // 支持秒级控制
	}
}

// Start 启动定时任务
func (t *SessionTask) Start() {
	// 首次执行
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		log.Println("[Task] 服务启动，正在执行首次会话清理...")
		t.purgeJob(ctx)
	}()

	// 每小时整点清理一次
	_, err := t.Cron.AddFunc("0 0 * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()

		t.purgeJob(ctx)
	})

	if err != nil {
		log.Fatalf("无法启动会话清理定时任务: %v", err)
	}

	t.Cron.Start()
	log.Println("会话清理任务已启动 (每小时一次)")
}

// Stop 停止定时任务
func (t *SessionTask) Stop() {
	if t.Cron != nil {
		t.Cron.Stop()
	}
}

func (t *SessionTask) purgeJob(ctx context.Context) {
	removed, err := t.SessionService.PurgeExpired(ctx)
	if err != nil {
		log.Printf("[Cron] 过期会话清理失败: %v", err)
		return
	}
	if removed > 0 {
		log.Printf("[Cron] 已清理 %d 条过期会话", removed)
	}
}
