package engine

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

const epsilon = 1e-9

func approx(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func fullReport() *model.CommunityReport {
	return &model.CommunityReport{
		OverallScore:    72.5,
		TotalFacilities: 4,
		ProblemDistribution: model.ProblemDistribution{
			{Problem: model.ProblemSlope, Count: 2},
			{Problem: model.ProblemNoHandrail, Count: 1},
			{Problem: model.ProblemWidth, Count: 3},
		},
	}
}

func TestSynthesize(t *testing.T) {
	plan, err := Synthesize(fullReport(), model.PlanParameters{Budget: 50, Timeframe: "6个月", Phase: "一期"})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}

	wantNames := []string{"主出入口坡道改造", "楼道扶手加装", "无障碍标识系统", "休息座椅设置"}
	wantCosts := []float64{15.0, 7.5, 5.0, 2.5}
	if len(plan.Projects) != len(wantNames) {
		t.Fatalf("got %d projects, want %d", len(plan.Projects), len(wantNames))
	}
	for i, p := range plan.Projects {
		if p.Name != wantNames[i] {
			t.Errorf("project[%d].Name = %s, want %s", i, p.Name, wantNames[i])
		}
		if !approx(p.Cost, wantCosts[i]) {
			t.Errorf("project[%d].Cost = %v, want %v", i, p.Cost, wantCosts[i])
		}
	}

	sum := 0.0
	for _, c := range plan.CostBreakdown {
		sum += c.Amount
	}
	if !approx(sum, 30.0) {
		t.Errorf("cost breakdown sums to %v, want 30.0", sum)
	}
	if plan.CostBreakdown[0].Item != "工程费用" || !approx(plan.CostBreakdown[0].Amount, 21) {
		t.Errorf("CostBreakdown[0] = %+v, want 工程费用 21", plan.CostBreakdown[0])
	}
	if plan.BasicInfo.Budget != 50 || plan.BasicInfo.Phase != "一期" {
		t.Errorf("BasicInfo = %+v", plan.BasicInfo)
	}
}

func TestSynthesize_CostCap(t *testing.T) {
	for _, budget := range []float64{10, 50, 100, 500} {
		plan, err := Synthesize(fullReport(), model.PlanParameters{Budget: budget})
		if err != nil {
			t.Fatalf("budget %v: Synthesize() error = %v", budget, err)
		}
		for i, p := range plan.Projects {
			rule := ProjectRules[i]
			want := math.Min(rule.Cap, budget*rule.Fraction)
			if !approx(p.Cost, want) {
				t.Errorf("budget %v: %s cost = %v, want %v", budget, p.Name, p.Cost, want)
			}
			if p.Cost > rule.Cap {
				t.Errorf("budget %v: %s cost %v exceeds cap %v", budget, p.Name, p.Cost, rule.Cap)
			}
		}
	}
}

func TestSynthesize_RulesNotTriggered(t *testing.T) {
	report := &model.CommunityReport{
		ProblemDistribution: model.ProblemDistribution{{Problem: model.ProblemLighting, Count: 1}},
	}
	plan, err := Synthesize(report, model.PlanParameters{Budget: 100})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if len(plan.Projects) != 2 {
		t.Fatalf("got %d projects, want 2 unconditional projects", len(plan.Projects))
	}
	if plan.Projects[0].Name != "无障碍标识系统" || plan.Projects[1].Name != "休息座椅设置" {
		t.Errorf("projects = %v", plan.Projects)
	}
}

func TestSynthesize_InvalidBudget(t *testing.T) {
	for _, budget := range []float64{0, -10, math.NaN()} {
		if _, err := Synthesize(fullReport(), model.PlanParameters{Budget: budget}); !errors.Is(err, ErrInvalidParameters) {
			t.Errorf("budget %v: error = %v, want ErrInvalidParameters", budget, err)
		}
	}
	if _, err := Synthesize(nil, model.PlanParameters{Budget: 10}); !errors.Is(err, ErrInvalidParameters) {
		t.Errorf("nil report: error = %v, want ErrInvalidParameters", err)
	}
}

func TestSynthesize_Timeline(t *testing.T) {
	plan, err := Synthesize(fullReport(), model.PlanParameters{Budget: 100})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	want := []model.Milestone{
		{Week: 1, Task: "现场勘察与设计"},
		{Week: 2, Task: "材料采购与准备"},
		{Week: 3, Task: "坡道改造施工"},
		{Week: 5, Task: "扶手安装"},
		{Week: 8, Task: "标识系统安装"},
		{Week: 9, Task: "休息座椅安装"},
		{Week: 10, Task: "验收与调试"},
	}
	if !reflect.DeepEqual(plan.Timeline, want) {
		t.Errorf("Timeline = %v, want %v", plan.Timeline, want)
	}
}

func TestSynthesize_BenefitCaps(t *testing.T) {
	dist := model.ProblemDistribution{{Problem: model.ProblemWidth, Count: 9}}
	for _, k := range []model.ProblemKind{
		model.ProblemHeight, model.ProblemSurface, model.ProblemSlope,
		model.ProblemSlippery, model.ProblemLighting, model.ProblemNoHandrail,
		"台阶过高",
	} {
		dist = append(dist, model.ProblemCount{Problem: k, Count: 1})
	}

	plan, err := Synthesize(&model.CommunityReport{ProblemDistribution: dist}, model.PlanParameters{Budget: 100})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	want := []model.Benefit{
		{Metric: "无障碍覆盖率提升", Value: "40%"},
		{Metric: "受益居民增加", Value: "200人"},
		{Metric: "安全隐患减少", Value: "8处"},
		{Metric: "居民满意度提升", Value: "预计提升25%"},
	}
	if !reflect.DeepEqual(plan.ExpectedBenefits, want) {
		t.Errorf("ExpectedBenefits = %v, want %v", plan.ExpectedBenefits, want)
	}
}

func TestSynthesize_Deterministic(t *testing.T) {
	params := model.PlanParameters{Budget: 80, PriorityFocus: []string{"出入口", "楼道"}}
	a, err := Synthesize(fullReport(), params)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	b, err := Synthesize(fullReport(), params)
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("Synthesize() not deterministic:\n%+v\n%+v", a, b)
	}

	params.PriorityFocus[0] = "changed"
	if a.BasicInfo.PriorityFocus[0] != "出入口" {
		t.Error("plan shares PriorityFocus with caller")
	}
}
