package model

// 媒体类型常量
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// ReviewMedia 评论附带的图片/视频
type ReviewMedia struct {
	BaseModel
	ReviewID  int64  `gorm:"index"`
	MediaType string `gorm:"size:10;default:'image'"`
	URL       string `gorm:"size:1024"`
	ThumbURL  string `gorm:"size:1024"`
	Width     int
	Height    int
	SizeBytes int64
	DurationS int `gorm:"comment:视频时长(秒)"`
}
