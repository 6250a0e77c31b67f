package server

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/zhujingtong/app/display/internal/conf"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/config"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/detector"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/engine"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/export"
	plannerLogger "github.com/iWorld-y/zhujingtong/app/planner/pkg/logger"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/narrative"
)

// plannerConfig 将 internal/conf.Planner 转换为 pkg/config.Config，未配置的字段保留默认值
func plannerConfig(c *conf.Planner) *config.Config {
	cfg := config.Default()
	if c == nil {
		return cfg
	}
	if c.Llm != nil {
		cfg.LLM = config.LLMConfig{
			BaseURL: c.Llm.BaseUrl,
			APIKey:  c.Llm.ApiKey,
			Model:   c.Llm.Model,
		}
	}
	if c.Log != nil && c.Log.Level != "" {
		cfg.Log = config.LogConfig{Level: c.Log.Level, File: c.Log.File}
	}
	if c.Concurrency != nil {
		if c.Concurrency.Qps > 0 {
			cfg.Concurrency.QPS = int(c.Concurrency.Qps)
		}
		if c.Concurrency.Rpm > 0 {
			cfg.Concurrency.RPM = int(c.Concurrency.Rpm)
		}
	}
	if c.Budget != nil && c.Budget.Min > 0 && c.Budget.Max > c.Budget.Min {
		cfg.Planner.BudgetMin = c.Budget.Min
		cfg.Planner.BudgetMax = c.Budget.Max
	}
	if c.Feedback != nil {
		if c.Feedback.MinEntries > 0 {
			cfg.Feedback.MinEntries = int(c.Feedback.MinEntries)
		}
		if c.Feedback.TargetResponses > 0 {
			cfg.Feedback.TargetResponses = int(c.Feedback.TargetResponses)
		}
		if c.Feedback.TargetSatisfaction > 0 {
			cfg.Feedback.TargetSatisfaction = c.Feedback.TargetSatisfaction
		}
	}
	for _, e := range c.Experts {
		if e == nil {
			continue
		}
		cfg.Experts = append(cfg.Experts, model.ExpertOpinion{
			Expert:  e.Name,
			Field:   e.Field,
			Opinion: e.Opinion,
			Score:   e.Score,
			Date:    e.Date,
		})
	}
	cfg.Votes.Topics = c.VoteTopics
	config.ApplyEnv(cfg)
	return cfg
}

// NewPlannerEngine 初始化规划引擎
func NewPlannerEngine(c *conf.Planner, logger log.Logger) (*engine.Engine, func(), error) {
	cfg := plannerConfig(c)
	helper := log.NewHelper(logger)

	// 初始化日志
	if err := plannerLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		helper.Errorf("Failed to init planner logger: %v", err)
		_ = plannerLogger.InitLogger("info", "") // 降级处理
	}

	var narrator narrative.Narrator = narrative.NewTemplateNarrator()
	if cfg.LLM.Enabled() {
		llm, err := narrative.NewLLMNarrator(context.Background(), cfg.LLM, cfg.Concurrency)
		if err != nil {
			helper.Errorf("Failed to init LLM narrator, falling back to template: %v", err)
		} else {
			narrator = llm
		}
	}

	eng, err := engine.NewEngine(cfg, detector.NewMockDetector(), export.NewStubExporter(narrator))
	if err != nil {
		helper.Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	cleanup := func() {
		helper.Info("Cleaning up planner engine")
	}
	return eng, cleanup, nil
}
