package model

import (
	"time"
)

// ImportJob 状态常量
// pending -> processing -> completed/failed，终态后不可再变更
const (
	ImportStatusPending    = "pending"
	ImportStatusProcessing = "processing"
	ImportStatusCompleted  = "completed"
	ImportStatusFailed     = "failed"
)

// ImportJob 一次批量导入的记录
type ImportJob struct {
	BaseModel
	ShopID    int64 `gorm:"index"`
	ProductID int64 `gorm:"index"`

	SourcePlatform  string `gorm:"size:20"`
	SourceProductID string `gorm:"size:64"`

	// 过滤参数快照
	FilterMinScore  float64 `gorm:"type:decimal(4,1);default:0"`
	FilterMinRating int     `gorm:"default:0"`
	RequirePhotos   bool    `gorm:"default:false"`

	// 计数器
	TotalFound    int `gorm:"default:0"`
	TotalImported int `gorm:"default:0"`
	TotalFailed   int `gorm:"default:0"`
	TotalSkipped  int `gorm:"default:0"`

	Status     string `gorm:"size:20;index;default:'pending'"`
	ErrorMsg   string `gorm:"size:1024"`
	FinishedAt *time.Time
}

// IsTerminal 是否已到终态
func (j *ImportJob) IsTerminal() bool {
	return j.Status == ImportStatusCompleted || j.Status == ImportStatusFailed
}
