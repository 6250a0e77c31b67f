package engine

import (
	"errors"
	"math"
	"testing"

	"github.com/iWorld-y/zhujingtong/app/planner/pkg/config"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/detector"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

func TestParticipation(t *testing.T) {
	targets := ParticipationTargets{Responses: 2, Satisfaction: 4.5}

	empty := Participation(nil, targets)
	if len(empty) != 2 || empty[0].Metric != MetricResponses || empty[1].Metric != MetricSatisfaction {
		t.Fatalf("Participation(nil) = %+v", empty)
	}
	if empty[0].Value != 0 || empty[1].Value != 0 || empty[0].Reached || empty[1].Reached {
		t.Errorf("Participation(nil) = %+v, want zero values", empty)
	}

	entries := []model.FeedbackEntry{
		entry(map[string]int{"出行便利": 4, "安全": 5}),
		entry(map[string]int{"出行便利": 3, "安全": 4}),
		entry(map[string]int{"出行便利": 5, "安全": 4}),
	}
	got := Participation(entries, targets)
	if got[0].Value != 3 || got[0].Target != 2 || !got[0].Reached {
		t.Errorf("responses = %+v", got[0])
	}
	// (4+5+3+4+5+4)/6 = 4.1666
	if got[1].Value != 4.2 || got[1].Target != 4.5 || got[1].Reached {
		t.Errorf("satisfaction = %+v, want 4.2 below target 4.5", got[1])
	}
}

func TestExpertOpinions(t *testing.T) {
	ops := []model.ExpertOpinion{
		{Expert: "王教授", Field: "无障碍设计", Opinion: "建议增加触觉引导系统的设计", Score: 8.5, Date: "2024-01-15"},
		{Expert: "李工程师", Field: "建筑工程", Opinion: "注意雨季施工安排", Score: 8.0, Date: "2024-01-18"},
		{Expert: "张主任", Field: "社区治理", Opinion: "居民参与机制需要进一步完善", Score: 7.5, Date: "2024-01-20"},
	}
	for _, op := range ops {
		if err := ValidateExpertOpinion(op); err != nil {
			t.Errorf("ValidateExpertOpinion(%s) error = %v", op.Expert, err)
		}
	}
	if got := AverageExpertScore(ops); got != 8.0 {
		t.Errorf("AverageExpertScore() = %v, want 8.0", got)
	}
	if got := AverageExpertScore(nil); got != 0 {
		t.Errorf("AverageExpertScore(nil) = %v, want 0", got)
	}

	invalid := []model.ExpertOpinion{
		{Opinion: "缺少专家", Score: 5},
		{Expert: "王教授", Score: 5},
		{Expert: "王教授", Opinion: "超出范围", Score: 11},
		{Expert: "王教授", Opinion: "负分", Score: -1},
		{Expert: "王教授", Opinion: "非数字", Score: math.NaN()},
	}
	for _, op := range invalid {
		if err := ValidateExpertOpinion(op); !errors.Is(err, ErrInvalidParameters) {
			t.Errorf("ValidateExpertOpinion(%+v) error = %v, want ErrInvalidParameters", op, err)
		}
	}

	cfg := config.Default()
	cfg.Experts = ops
	e, err := NewEngine(cfg, detector.NewMockDetector(), nil)
	if err != nil {
		t.Fatal(err)
	}
	got := e.ExpertOpinions()
	got[0].Score = 0
	if e.ExpertOpinions()[0].Score != 8.5 {
		t.Error("ExpertOpinions() should return a copy")
	}
}

func TestEngine_Participation(t *testing.T) {
	e := newTestEngine(t, detector.NewMockDetector())
	log := NewFeedbackLog(fixedClock)
	if _, err := log.Append(entry(map[string]int{"安全": 5})); err != nil {
		t.Fatal(err)
	}
	got := e.Participation(log)
	if got[0].Value != 1 || got[0].Target != 50 {
		t.Errorf("responses = %+v, want 1 of 50", got[0])
	}
	if got[1].Value != 5 || got[1].Target != 4.5 || !got[1].Reached {
		t.Errorf("satisfaction = %+v", got[1])
	}
}
