package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

// ErrNotFound 报告不存在
var ErrNotFound = errors.New("report not found")

// Store 报告持久化接口，SaveReport 为追加语义
type Store interface {
	SaveReport(ctx context.Context, report *model.Report) (int, error)
	ListReports(ctx context.Context, page, pageSize int) ([]*model.ReportSummary, int, error)
	GetReport(ctx context.Context, id int) (*model.Report, error)
	Close() error
}

// 支持的存储驱动
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
)

// Open 按驱动名打开存储，driver 为空时使用内存存储
func Open(driver, source string) (Store, error) {
	switch driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverPostgres:
		return NewPostgresStore(source)
	default:
		return nil, fmt.Errorf("unknown storage driver: %s", driver)
	}
}

// Summarize 生成报告摘要
func Summarize(id int, r *model.Report) *model.ReportSummary {
	s := &model.ReportSummary{
		ID:          id,
		Title:       r.Title(),
		GeneratedAt: r.GeneratedAt.Format("2006-01-02 15:04:05"),
	}
	if r.Analysis != nil {
		s.OverallScore = r.Analysis.Community.OverallScore
	}
	if r.Plan != nil {
		s.ProjectCount = len(r.Plan.Projects)
		s.TotalCost = r.Plan.TotalCost()
	}
	return s
}

func pageBounds(total, page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	start := (page - 1) * pageSize
	if start > total {
		start = total
	}
	end := start + pageSize
	if end > total {
		end = total
	}
	return start, end
}
