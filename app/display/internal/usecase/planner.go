package usecase

import (
	"context"

	"github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/zhujingtong/app/display/internal/domain"
	"github.com/iWorld-y/zhujingtong/app/display/internal/repo"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/detector"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/engine"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

// ReasonPreconditionFailed 前置步骤未完成
const ReasonPreconditionFailed = "PRECONDITION_FAILED"

func preconditionFailed(format string, args ...interface{}) error {
	return errors.Newf(412, ReasonPreconditionFailed, format, args...)
}

// PlannerUseCase 规划流程业务逻辑：录入 → 分析 → 方案 → 报告
type PlannerUseCase struct {
	sessions repo.SessionRepo
	reports  repo.ReportRepo
	eng      *engine.Engine
	topics   []string
	log      *log.Helper
}

// NewPlannerUseCase 创建规划业务逻辑实例
func NewPlannerUseCase(sessions repo.SessionRepo, reports repo.ReportRepo, eng *engine.Engine, logger log.Logger) *PlannerUseCase {
	return &PlannerUseCase{
		sessions: sessions,
		reports:  reports,
		eng:      eng,
		topics:   eng.Config().Votes.Topics,
		log:      log.NewHelper(logger),
	}
}

// withSession 取出会话并在会话锁内执行 fn
func withSession(ctx context.Context, sessions repo.SessionRepo, id string, fn func(s *domain.Session) error) error {
	s, err := sessions.Get(ctx, id)
	if err != nil {
		return err
	}
	s.Lock()
	defer s.Unlock()
	return fn(s)
}

// CreateSession 新建规划会话
func (uc *PlannerUseCase) CreateSession(ctx context.Context) (*domain.SessionInfo, error) {
	s := domain.NewSession(uc.eng.Now, uc.topics, uc.eng.ExpertOpinions())
	if err := uc.sessions.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.log.WithContext(ctx).Infof("session created: %s", s.ID)
	return s.Info(), nil
}

// GetSession 查看会话进度
func (uc *PlannerUseCase) GetSession(ctx context.Context, id string) (info *domain.SessionInfo, err error) {
	err = withSession(ctx, uc.sessions, id, func(s *domain.Session) error {
		info = s.Info()
		return nil
	})
	return info, err
}

// SaveCommunity 保存社区录入数据，重复保存以最后一次为准
func (uc *PlannerUseCase) SaveCommunity(ctx context.Context, id string, data *model.CommunityData) (*domain.SessionInfo, error) {
	if data == nil || data.Name == "" {
		return nil, errors.BadRequest("INVALID_PARAMETERS", "community name is required")
	}
	var info *domain.SessionInfo
	err := withSession(ctx, uc.sessions, id, func(s *domain.Session) error {
		s.Community = data
		info = s.Info()
		return nil
	})
	return info, err
}

// AddImages 追加上传的设施图片
func (uc *PlannerUseCase) AddImages(ctx context.Context, id string, images []detector.Image) (*domain.SessionInfo, error) {
	if len(images) == 0 {
		return nil, errors.BadRequest("INVALID_PARAMETERS", "no images uploaded")
	}
	var info *domain.SessionInfo
	err := withSession(ctx, uc.sessions, id, func(s *domain.Session) error {
		s.Images = append(s.Images, images...)
		info = s.Info()
		return nil
	})
	return info, err
}

// Analyze 对会话图片执行检测与汇总；records 非空时直接汇总给定的检测结果。
// 新的分析结果会使已有方案失效。
func (uc *PlannerUseCase) Analyze(ctx context.Context, id string, records []model.DetectionRecord) (*model.AnalysisResult, error) {
	var result *model.AnalysisResult
	err := withSession(ctx, uc.sessions, id, func(s *domain.Session) error {
		var err error
		switch {
		case len(records) > 0:
			result, err = uc.eng.Summarize(records)
		case len(s.Images) > 0:
			result, err = uc.eng.Analyze(ctx, s.Images, engine.AnalyzeOptions{
				ProgressCallback: func(status string, progress int) {
					uc.log.WithContext(ctx).Debugf("session %s analyze: %s (%d%%)", s.ID, status, progress)
				},
			})
		default:
			return preconditionFailed("session %s has no images to analyze", s.ID)
		}
		if err != nil {
			return err
		}
		s.Analysis = result
		s.Plan = nil
		return nil
	})
	return result, err
}

// GeneratePlan 根据分析结果生成方案
func (uc *PlannerUseCase) GeneratePlan(ctx context.Context, id string, params model.PlanParameters) (*model.Plan, error) {
	if err := uc.eng.ValidateParameters(params); err != nil {
		return nil, err
	}
	var plan *model.Plan
	err := withSession(ctx, uc.sessions, id, func(s *domain.Session) error {
		if s.Analysis == nil {
			return preconditionFailed("session %s has no analysis result", s.ID)
		}
		p, err := uc.eng.Plan(s.Analysis, params)
		if err != nil {
			return err
		}
		s.Plan = p
		plan = p.Clone()
		return nil
	})
	return plan, err
}

// EditProject 调整方案中的单个项目
func (uc *PlannerUseCase) EditProject(ctx context.Context, id string, index int, edit engine.ProjectEdit) (*model.Plan, error) {
	var plan *model.Plan
	err := withSession(ctx, uc.sessions, id, func(s *domain.Session) error {
		if s.Plan == nil {
			return preconditionFailed("session %s has no plan", s.ID)
		}
		if err := uc.eng.Edit(s.Plan, index, edit); err != nil {
			return err
		}
		plan = s.Plan.Clone()
		return nil
	})
	return plan, err
}

// CompileOptions 报告编译选项
type CompileOptions struct {
	Format string `json:"format"`
	Save   bool   `json:"save"`
}

// CompileReport 生成报告，可选导出预览与保存
func (uc *PlannerUseCase) CompileReport(ctx context.Context, id string, opts CompileOptions) (*domain.CompiledReport, error) {
	var out *domain.CompiledReport
	err := withSession(ctx, uc.sessions, id, func(s *domain.Session) error {
		if s.Analysis == nil || s.Plan == nil {
			return preconditionFailed("session %s needs analysis and plan before compiling", s.ID)
		}
		report, err := uc.eng.Compile(s.Community, s.Analysis, s.Plan)
		if err != nil {
			return err
		}
		out = &domain.CompiledReport{Report: report}

		if opts.Format != "" {
			res, err := uc.eng.Export(ctx, report, opts.Format)
			if err != nil {
				return err
			}
			out.Export = res
		}
		if opts.Save {
			reportID, err := uc.reports.SaveReport(ctx, report)
			if err != nil {
				uc.log.WithContext(ctx).Errorf("save report failed: %v", err)
				return err
			}
			out.ID = reportID
			s.ReportID = reportID
		}
		s.Report = report
		return nil
	})
	return out, err
}

// ListReports 分页列出已保存报告
func (uc *PlannerUseCase) ListReports(ctx context.Context, page, pageSize int) (*domain.ReportPage, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}
	reports, total, err := uc.reports.ListReports(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	return &domain.ReportPage{Reports: reports, Total: total, Page: page, PageSize: pageSize}, nil
}

// GetReport 根据 ID 获取已保存报告
func (uc *PlannerUseCase) GetReport(ctx context.Context, id int) (*model.Report, error) {
	return uc.reports.GetReport(ctx, id)
}
