package service

import (
	"sync"
	"time"
)

// ==================== 跳过登记 ====================

// 会话默认存活时长，超时惰性清除
// 登记表只存在于进程内，不要求跨重启存活
const skipSessionTTL = 24 * time.Hour

// SkipRegistry 操作者标记"跳过"的评论 ID 登记表
// 按会话隔离；会话标识由书签脚本自由选择，视为不可信的不透明字符串，
// 绝不能当授权凭据使用。使用 sync.Map 保证并发安全
type SkipRegistry struct {
	sessions sync.Map // sessionID -> *skipSession
}

type skipSession struct {
	mu         sync.Mutex
	reviewIDs  map[string]struct{}
	expiration int64
}

// NewSkipRegistry 创建登记表
func NewSkipRegistry() *SkipRegistry {
	return &SkipRegistry{}
}

// Mark 登记一条跳过记录
func (r *SkipRegistry) Mark(sessionID, reviewID string) {
	if sessionID == "" || reviewID == "" {
		return
	}

	actual, _ := r.sessions.LoadOrStore(sessionID, &skipSession{
		reviewIDs:  make(map[string]struct{}),
		expiration: time.Now().Add(skipSessionTTL).Unix(),
	})
	session := actual.(*skipSession)

	session.mu.Lock()
	defer session.mu.Unlock()
	session.reviewIDs[reviewID] = struct{}{}
	session.expiration = time.Now().Add(skipSessionTTL).Unix()
}

// IsSkipped 查询某会话是否已跳过该评论
func (r *SkipRegistry) IsSkipped(sessionID, reviewID string) bool {
	if sessionID == "" || reviewID == "" {
		return false
	}

	val, ok := r.sessions.Load(sessionID)
	if !ok {
		return false
	}
	session := val.(*skipSession)

	session.mu.Lock()
	defer session.mu.Unlock()

	// 懒删除过期会话
	if time.Now().Unix() > session.expiration {
		r.sessions.Delete(sessionID)
		return false
	}

	_, skipped := session.reviewIDs[reviewID]
	return skipped
}

// ClearSession 清空某会话的全部跳过记录
func (r *SkipRegistry) ClearSession(sessionID string) {
	r.sessions.Delete(sessionID)
}
