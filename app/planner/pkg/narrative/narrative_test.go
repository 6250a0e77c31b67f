package narrative

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	dm "github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

func sampleReport() *dm.Report {
	return &dm.Report{
		Community: &dm.CommunityData{Name: "阳光花园社区"},
		Analysis: &dm.AnalysisResult{
			Community: dm.CommunityReport{
				OverallScore:    79,
				TotalFacilities: 3,
				ProblemDistribution: dm.ProblemDistribution{
					{Problem: dm.ProblemSlope, Count: 2},
				},
				PriorityAreas: []dm.PriorityArea{{Area: "主入口坡道", Priority: dm.PriorityHigh}},
			},
		},
		Plan: &dm.Plan{
			Projects: []dm.Project{
				{Name: "主出入口坡道改造", Description: "改造现有坡道", Cost: 15, Duration: "2周"},
			},
			ExpectedBenefits: []dm.Benefit{{Metric: "安全隐患减少", Value: "1处"}},
		},
		GeneratedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

func TestTemplateNarrator_Summarize(t *testing.T) {
	out, err := NewTemplateNarrator().Summarize(context.Background(), sampleReport())
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	for _, want := range []string{
		"阳光花园社区",
		"总体合规分数 79.0/100",
		"- 主入口坡道（优先级：高）",
		"1. 主出入口坡道改造：改造现有坡道（15.0万元，2周）",
		"- 安全隐患减少：1处",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestTemplateNarrator_Incomplete(t *testing.T) {
	if _, err := NewTemplateNarrator().Summarize(context.Background(), &dm.Report{}); err == nil {
		t.Error("Summarize() on incomplete report should fail")
	}
}

type fakeChatModel struct {
	reply string
	err   error
	calls int
}

func (f *fakeChatModel) Generate(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &schema.Message{Role: schema.Assistant, Content: f.reply}, nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, errors.New("not supported")
}

func TestLLMNarrator_Polished(t *testing.T) {
	cm := &fakeChatModel{reply: "```markdown\n润色后的摘要\n```"}
	n := newLLMNarrator(cm, rate.NewLimiter(rate.Inf, 1))

	out, err := n.Summarize(context.Background(), sampleReport())
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if out != "润色后的摘要\n" {
		t.Errorf("Summarize() = %q", out)
	}
}

func TestLLMNarrator_FallbackOnError(t *testing.T) {
	cm := &fakeChatModel{err: errors.New("connection refused")}
	n := newLLMNarrator(cm, rate.NewLimiter(rate.Inf, 1))

	out, err := n.Summarize(context.Background(), sampleReport())
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if !strings.Contains(out, "执行摘要") {
		t.Errorf("expected template fallback, got %q", out)
	}
	if cm.calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on non-429)", cm.calls)
	}
}

func TestLLMNarrator_RetriesOn429(t *testing.T) {
	cm := &fakeChatModel{err: errors.New("status 429: too many requests")}
	n := newLLMNarrator(cm, rate.NewLimiter(rate.Inf, 1))
	n.baseDelay = time.Millisecond

	out, err := n.Summarize(context.Background(), sampleReport())
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if cm.calls != n.maxRetries+1 {
		t.Errorf("calls = %d, want %d", cm.calls, n.maxRetries+1)
	}
	if !strings.Contains(out, "执行摘要") {
		t.Errorf("expected template fallback, got %q", out)
	}
}

func TestLLMNarrator_LimiterFailureKeepsDraft(t *testing.T) {
	cm := &fakeChatModel{reply: "不应被调用"}
	// burst 为 0 时 Wait 立即失败
	n := newLLMNarrator(cm, rate.NewLimiter(1, 0))

	out, err := n.Summarize(context.Background(), sampleReport())
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}
	if !strings.Contains(out, "执行摘要") {
		t.Errorf("expected template draft, got %q", out)
	}
	if cm.calls != 0 {
		t.Errorf("calls = %d, want 0", cm.calls)
	}
}
