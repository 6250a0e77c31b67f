package data

import (
	"context"
	stderrors "errors"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/zhujingtong/app/display/internal/repo"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/storage"
)

type reportRepo struct {
	data *Data
	log  *log.Helper
}

func NewReportRepo(data *Data, logger log.Logger) repo.ReportRepo {
	return &reportRepo{
		data: data,
		log:  log.NewHelper(logger),
	}
}

func (r *reportRepo) SaveReport(ctx context.Context, report *model.Report) (int, error) {
	id, err := r.data.store.SaveReport(ctx, report)
	if err != nil {
		return 0, err
	}
	r.log.WithContext(ctx).Infof("report saved: id=%d title=%s", id, report.Title())
	return id, nil
}

func (r *reportRepo) ListReports(ctx context.Context, page, pageSize int) ([]*model.ReportSummary, int, error) {
	return r.data.store.ListReports(ctx, page, pageSize)
}

func (r *reportRepo) GetReport(ctx context.Context, id int) (*model.Report, error) {
	report, err := r.data.store.GetReport(ctx, id)
	if err != nil {
		if stderrors.Is(err, storage.ErrNotFound) {
			return nil, errors.NotFound("REPORT_NOT_FOUND", "report not found")
		}
		return nil, err
	}
	return report, nil
}
