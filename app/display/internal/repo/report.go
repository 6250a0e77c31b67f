package repo

import (
	"context"

	"github.com/iWorld-y/zhujingtong/app/display/internal/domain"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

// ReportRepo 报告仓库接口
type ReportRepo interface {
	// SaveReport 追加保存报告，返回新 ID
	SaveReport(ctx context.Context, report *model.Report) (int, error)
	// ListReports 分页获取报告摘要列表
	ListReports(ctx context.Context, page, pageSize int) ([]*model.ReportSummary, int, error)
	// GetReport 根据 ID 获取报告
	GetReport(ctx context.Context, id int) (*model.Report, error)
}

// SessionRepo 会话仓库接口
type SessionRepo interface {
	// Create 分配 ID 并保存会话
	Create(ctx context.Context, s *domain.Session) error
	// Get 获取会话，不存在时返回 NotFound
	Get(ctx context.Context, id string) (*domain.Session, error)
}
