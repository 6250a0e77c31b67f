package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/iWorld-y/zhujingtong/app/planner/pkg/config"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/detector"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/export"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/logger"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

// Engine 规划流水线：检测 → 汇总 → 方案生成 → 调整 → 报告
type Engine struct {
	cfg      *config.Config
	detector detector.Detector
	exporter export.Exporter
	compiler *Compiler
	now      func() time.Time
}

// Option 引擎可选项
type Option func(*Engine)

// WithClock 替换时钟
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) {
		e.now = clock
	}
}

// NewEngine 创建引擎实例
func NewEngine(cfg *config.Config, det detector.Detector, exp export.Exporter, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if det == nil {
		return nil, fmt.Errorf("detector is required")
	}
	if exp == nil {
		exp = export.NewStubExporter(nil)
	}

	e := &Engine{
		cfg:      cfg,
		detector: det,
		exporter: exp,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.compiler = NewCompiler(e.now)
	return e, nil
}

// Config 返回引擎配置
func (e *Engine) Config() *config.Config {
	return e.cfg
}

// Now 返回引擎时钟的当前时间
func (e *Engine) Now() time.Time {
	return e.now()
}

// AnalyzeOptions 分析选项
type AnalyzeOptions struct {
	ProgressCallback func(status string, progress int)
}

// Analyze 逐张检测图片并汇总为社区报告
func (e *Engine) Analyze(ctx context.Context, images []detector.Image, opts AnalyzeOptions) (*model.AnalysisResult, error) {
	logger.Log.Infof("开始分析 %d 张设施图片", len(images))
	if opts.ProgressCallback != nil {
		opts.ProgressCallback("starting", 0)
	}

	records := make([]model.DetectionRecord, 0, len(images))
	for i, img := range images {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rec, err := e.detector.Detect(ctx, i, img)
		if err != nil {
			logger.Log.Errorf("检测图片失败 [%d:%s]: %v", i, img.Name, err)
			return nil, fmt.Errorf("detect image %d: %w", i, err)
		}
		records = append(records, rec)
		if opts.ProgressCallback != nil {
			progress := int(float64(i+1) / float64(len(images)) * 90)
			opts.ProgressCallback(fmt.Sprintf("analyzed image: %d", i+1), progress)
		}
	}

	result, err := e.Summarize(records)
	if err != nil {
		return nil, err
	}
	if opts.ProgressCallback != nil {
		opts.ProgressCallback("completed", 100)
	}
	return result, nil
}

// Summarize 汇总已有检测结果
func (e *Engine) Summarize(records []model.DetectionRecord) (*model.AnalysisResult, error) {
	report, err := Aggregate(records)
	if err != nil {
		logger.Log.Errorf("汇总检测结果失败: %v", err)
		return nil, err
	}
	if len(records) == 0 {
		logger.Log.Warn("没有检测结果，生成空报告")
	}

	detailed := make([]model.DetectionRecord, len(records))
	for i, r := range records {
		detailed[i] = r.Normalize()
	}
	logger.Log.Infof("分析完成: 总体合规分数 %.1f, 问题 %d 类, 优先区域 %d 处",
		report.OverallScore, report.ProblemDistribution.Len(), len(report.PriorityAreas))
	return &model.AnalysisResult{Detailed: detailed, Community: *report}, nil
}

// ValidateParameters 检查规划参数是否在配置的预算区间内
func (e *Engine) ValidateParameters(params model.PlanParameters) error {
	lo, hi := e.cfg.Planner.BudgetMin, e.cfg.Planner.BudgetMax
	if params.Budget < lo || params.Budget > hi {
		return fmt.Errorf("%w: budget %v not in [%v,%v]", ErrInvalidParameters, params.Budget, lo, hi)
	}
	return nil
}

// Plan 基于分析结果生成方案
func (e *Engine) Plan(analysis *model.AnalysisResult, params model.PlanParameters) (*model.Plan, error) {
	if analysis == nil {
		return nil, fmt.Errorf("%w: analysis result is required", ErrInvalidParameters)
	}
	plan, err := Synthesize(&analysis.Community, params)
	if err != nil {
		logger.Log.Errorf("生成方案失败: %v", err)
		return nil, err
	}
	logger.Log.Infof("方案生成完成: %d 个项目, 总预算 %.2f 万元", len(plan.Projects), plan.TotalCost())
	return plan, nil
}

// Edit 调整方案中的单个项目
func (e *Engine) Edit(plan *model.Plan, index int, edit ProjectEdit) error {
	if err := EditProject(plan, index, edit); err != nil {
		logger.Log.Warnf("调整项目失败 [%d]: %v", index, err)
		return err
	}
	logger.Log.Debugf("项目 [%d] 已调整: %+v", index, plan.Projects[index])
	return nil
}

// Compile 生成完整报告
func (e *Engine) Compile(community *model.CommunityData, analysis *model.AnalysisResult, plan *model.Plan) (*model.Report, error) {
	report, err := e.compiler.Compile(community, analysis, plan)
	if err != nil {
		logger.Log.Errorf("生成报告失败: %v", err)
		return nil, err
	}
	logger.Log.Infof("报告生成完成: %s", report.GeneratedAt.Format("2006-01-02 15:04:05"))
	return report, nil
}

// Export 交给导出子系统处理
func (e *Engine) Export(ctx context.Context, report *model.Report, format string) (*export.Result, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidParameters, err)
	}
	return e.exporter.Export(ctx, report, f)
}

// FeedbackSummary 计算反馈平均分，阈值取自配置
func (e *Engine) FeedbackSummary(log *FeedbackLog) (map[string]float64, error) {
	return AverageRatings(log.Entries(), e.cfg.Feedback.MinEntries)
}

// Participation 按配置目标统计社区参与度
func (e *Engine) Participation(log *FeedbackLog) []ParticipationMetric {
	return Participation(log.Entries(), ParticipationTargets{
		Responses:    e.cfg.Feedback.TargetResponses,
		Satisfaction: e.cfg.Feedback.TargetSatisfaction,
	})
}

// ExpertOpinions 配置中预置的专家意见副本
func (e *Engine) ExpertOpinions() []model.ExpertOpinion {
	return append([]model.ExpertOpinion(nil), e.cfg.Experts...)
}
