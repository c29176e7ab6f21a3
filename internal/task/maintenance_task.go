package task

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"review_import_v1_202509/internal/repository"
)

// ==================== 维护任务 ====================

// processing 状态超过该时长视为残骸
const staleJobDeadline = 30 * time.Minute

// MaintenanceTask 定时维护
// 1. 清理卡死的导入任务（进程中途退出留下的 processing 残骸）
// 2. 夜间按实际行数校准各店铺的 reviews_imported 计数
type MaintenanceTask struct {
	ShopRepo   repository.ShopRepository
	ImportRepo repository.ImportJobRepository
	Cron       *cron.Cron
}

// NewMaintenanceTask 创建维护任务
func NewMaintenanceTask(shopRepo repository.ShopRepository, importRepo repository.ImportJobRepository) *MaintenanceTask {
	return &MaintenanceTask{
		ShopRepo:   shopRepo,
		ImportRepo: importRepo,
		Cron:       cron.New(),
	}
}

// Start 注册并启动定时任务
func (t *MaintenanceTask) Start() {
	// 每 10 分钟清理一次卡死任务
	if _, err := t.Cron.AddFunc("*/10 * * * *", t.reapStaleJobs); err != nil {
		log.Printf("注册任务清理失败: %v", err)
	}
	// 每天凌晨 3 点对账
	if _, err := t.Cron.AddFunc("0 3 * * *", t.reconcileCounters); err != nil {
		log.Printf("注册计数对账失败: %v", err)
	}
	t.Cron.Start()
	log.Println("维护任务已启动")
}

// Stop 停止任务并等待在跑的执行完
func (t *MaintenanceTask) Stop() {
	<-t.Cron.Stop().Done()
}

func (t *MaintenanceTask) reapStaleJobs() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := t.ImportRepo.MarkStaleFailed(ctx, time.Now().Add(-staleJobDeadline))
	if err != nil {
		log.Printf("清理卡死导入任务失败: %v", err)
		return
	}
	if n > 0 {
		log.Printf("已清理 %d 个卡死的导入任务", n)
	}
}

func (t *MaintenanceTask) reconcileCounters() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	shops, err := t.ShopRepo.ListActive(ctx)
	if err != nil {
		log.Printf("对账读取店铺失败: %v", err)
		return
	}

	for _, shop := range shops {
		if err := t.ShopRepo.RecountImported(ctx, shop.ID); err != nil {
			log.Printf("店铺 %d 计数校准失败: %v", shop.ID, err)
		}
	}
	log.Printf("计数对账完成，共 %d 个店铺", len(shops))
}
