package service

import (
	"errors"
)

// ==================== 错误类型 ====================

// 导入链路的错误分类，控制器按类别映射 HTTP 状态码
var (
	// ErrExtractionFailed 从输入中无法恢复商品 ID
	ErrExtractionFailed = errors.New("无法从页面中提取商品ID")
	// ErrQuotaExceeded 免费版配额已满
	ErrQuotaExceeded = errors.New("评论配额已用完，请升级套餐")
	// ErrDuplicate 去重三元组冲突，批量导入中视为跳过而非失败
	ErrDuplicate = errors.New("该评论已导入过")
	// ErrFilteredOut 未达到过滤阈值
	ErrFilteredOut = errors.New("评论未通过过滤条件")
	// ErrSkipped 操作者已标记跳过
	ErrSkipped = errors.New("评论已被标记跳过")
	// ErrInvalidRating 星级超出 1-5 范围
	ErrInvalidRating = errors.New("星级必须在 1-5 之间")
	// ErrShopNotFound 店铺不存在或已卸载
	ErrShopNotFound = errors.New("店铺不存在")
	// ErrProductNotFound 平台侧商品不存在
	ErrProductNotFound = errors.New("商品不存在")
)
