package room

import (
	"sync"
	"time"
)

// ManualScheduler 手动驱动的定时器调度器，测试里用它代替真实 time.AfterFunc，
// 让流程推进完全可控、可复现
type ManualScheduler struct {
	mu      sync.Mutex
	pending []*manualTask
}

type manualTask struct {
	delay     time.Duration
	fn        func()
	cancelled bool
}

// NewManualScheduler 创建手动调度器
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// After 注册任务但不触发，等测试调用 RunNext/RunAll
func (s *ManualScheduler) After(d time.Duration, fn func()) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	task := &manualTask{delay: d, fn: fn}
	s.pending = append(s.pending, task)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		task.cancelled = true
	}
}

// RunNext 按注册顺序执行下一个未取消的任务，没有任务时返回 false
func (s *ManualScheduler) RunNext() bool {
	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.mu.Unlock()
			return false
		}
		task := s.pending[0]
		s.pending = s.pending[1:]
		s.mu.Unlock()

		if task.cancelled {
			continue
		}
		task.fn()
		return true
	}
}

// RunAll 反复执行任务直到队列清空（包括任务执行时新注册的任务）
func (s *ManualScheduler) RunAll() {
	for s.RunNext() {
	}
}

// PendingCount 返回未执行任务数（含已取消的）
func (s *ManualScheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}
