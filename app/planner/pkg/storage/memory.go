package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

// MemoryStore 进程内报告列表，服务重启后丢失
type MemoryStore struct {
	mu      sync.RWMutex
	reports []*model.Report
}

// NewMemoryStore 创建内存存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// SaveReport 追加一份报告，ID 从 1 开始递增
func (s *MemoryStore) SaveReport(_ context.Context, report *model.Report) (int, error) {
	if report == nil {
		return 0, fmt.Errorf("report is required")
	}
	cp := report.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports = append(s.reports, cp)
	return len(s.reports), nil
}

// ListReports 按保存时间倒序分页
func (s *MemoryStore) ListReports(_ context.Context, page, pageSize int) ([]*model.ReportSummary, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.reports)
	start, end := pageBounds(total, page, pageSize)
	out := make([]*model.ReportSummary, 0, end-start)
	for i := start; i < end; i++ {
		id := total - i
		out = append(out, Summarize(id, s.reports[id-1]))
	}
	return out, total, nil
}

// GetReport 按 ID 获取报告
func (s *MemoryStore) GetReport(_ context.Context, id int) (*model.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id < 1 || id > len(s.reports) {
		return nil, ErrNotFound
	}
	return s.reports[id-1].Clone(), nil
}

// Close 实现 Store 接口
func (s *MemoryStore) Close() error {
	return nil
}
