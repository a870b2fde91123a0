package service

import "sync"

// Sequencer 记录每个校验流最近一次的请求序号
// 客户端按递增序号发起校验，响应中 stale=true 的结果应被丢弃
type Sequencer struct {
	mu     sync.Mutex
	latest map[string]int64
}

// NewSequencer 创建序号记录器
func NewSequencer() *Sequencer {
	return &Sequencer{latest: make(map[string]int64)}
}

// Observe 记录序号，只保留最大值。seq <= 0 表示不参与排序
func (s *Sequencer) Observe(key string, seq int64) {
	if seq <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq > s.latest[key] {
		s.latest[key] = seq
	}
}

// IsLatest seq 是否仍是该流的最新请求
func (s *Sequencer) IsLatest(key string, seq int64) bool {
	if seq <= 0 {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return seq >= s.latest[key]
}
