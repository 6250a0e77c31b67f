package server

import (
	"testing"

	"github.com/iWorld-y/zhujingtong/app/display/internal/conf"
)

func TestPlannerConfig(t *testing.T) {
	cfg := plannerConfig(nil)
	if cfg.Feedback.TargetResponses != 50 || cfg.Feedback.TargetSatisfaction != 4.5 || len(cfg.Experts) != 0 {
		t.Errorf("plannerConfig(nil) = %+v", cfg.Feedback)
	}

	cfg = plannerConfig(&conf.Planner{
		Budget:     &conf.Budget{Min: 20, Max: 200},
		Feedback:   &conf.Feedback{MinEntries: 5, TargetResponses: 30},
		VoteTopics: []string{"是否同意增设电梯？"},
		Experts: []*conf.Expert{
			{Name: "王教授", Field: "无障碍设计", Opinion: "建议增加触觉引导系统的设计", Score: 8.5, Date: "2024-01-15"},
			nil,
		},
	})
	if cfg.Planner.BudgetMin != 20 || cfg.Planner.BudgetMax != 200 {
		t.Errorf("Planner = %+v", cfg.Planner)
	}
	if cfg.Feedback.MinEntries != 5 || cfg.Feedback.TargetResponses != 30 || cfg.Feedback.TargetSatisfaction != 4.5 {
		t.Errorf("Feedback = %+v", cfg.Feedback)
	}
	if len(cfg.Votes.Topics) != 1 {
		t.Errorf("Votes = %+v", cfg.Votes)
	}
	if len(cfg.Experts) != 1 || cfg.Experts[0].Expert != "王教授" || cfg.Experts[0].Score != 8.5 {
		t.Errorf("Experts = %+v", cfg.Experts)
	}
}
