package engine

import (
	"errors"
	"testing"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

func TestAggregate(t *testing.T) {
	records := []model.DetectionRecord{
		{ImageID: 0, Location: "东门", ComplianceScore: 60, ProblemsFound: []model.ProblemKind{model.ProblemSlope}},
		{ImageID: 1, Location: "3号楼", ComplianceScore: 95},
		{ImageID: 2, Location: "活动中心", ComplianceScore: 82, ProblemsFound: []model.ProblemKind{model.ProblemWidth, model.ProblemLighting}},
	}

	report, err := Aggregate(records)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if report.OverallScore != 79.0 {
		t.Errorf("OverallScore = %v, want 79.0", report.OverallScore)
	}
	if report.TotalFacilities != 3 {
		t.Errorf("TotalFacilities = %d, want 3", report.TotalFacilities)
	}
	if got := report.ProblemDistribution.Total(); got != 3 {
		t.Errorf("distribution total = %d, want 3", got)
	}
	wantOrder := []model.ProblemKind{model.ProblemSlope, model.ProblemWidth, model.ProblemLighting}
	for i, want := range wantOrder {
		if report.ProblemDistribution[i].Problem != want {
			t.Errorf("distribution[%d] = %s, want %s", i, report.ProblemDistribution[i].Problem, want)
		}
	}

	wantAreas := []model.PriorityArea{
		{Area: "东门", Priority: model.PriorityHigh},
		{Area: "活动中心", Priority: model.PriorityMedium},
	}
	if len(report.PriorityAreas) != len(wantAreas) {
		t.Fatalf("PriorityAreas = %v, want %v", report.PriorityAreas, wantAreas)
	}
	for i, want := range wantAreas {
		if report.PriorityAreas[i] != want {
			t.Errorf("PriorityAreas[%d] = %v, want %v", i, report.PriorityAreas[i], want)
		}
	}
}

func TestAggregate_Empty(t *testing.T) {
	report, err := Aggregate(nil)
	if err != nil {
		t.Fatalf("Aggregate(nil) error = %v", err)
	}
	if report.OverallScore != 0 || report.TotalFacilities != 0 {
		t.Errorf("report = %+v, want zero values", report)
	}
	if report.ProblemDistribution == nil || report.ProblemDistribution.Len() != 0 {
		t.Errorf("ProblemDistribution = %v, want empty", report.ProblemDistribution)
	}
	if report.PriorityAreas == nil || len(report.PriorityAreas) != 0 {
		t.Errorf("PriorityAreas = %v, want empty", report.PriorityAreas)
	}
}

func TestAggregate_InvalidScore(t *testing.T) {
	for _, score := range []int{-1, 101} {
		_, err := Aggregate([]model.DetectionRecord{{ComplianceScore: score}})
		if !errors.Is(err, ErrInvalidParameters) {
			t.Errorf("score %d: error = %v, want ErrInvalidParameters", score, err)
		}
	}
}

func TestAggregate_DuplicateProblems(t *testing.T) {
	records := []model.DetectionRecord{
		{ComplianceScore: 80, ProblemsFound: []model.ProblemKind{model.ProblemWidth, model.ProblemWidth, ""}},
		{ComplianceScore: 70, ProblemsFound: []model.ProblemKind{model.ProblemWidth}},
	}
	report, err := Aggregate(records)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if got := report.ProblemDistribution.Count(model.ProblemWidth); got != 2 {
		t.Errorf("count(%s) = %d, want 2", model.ProblemWidth, got)
	}
	if report.ProblemDistribution.Len() != 1 {
		t.Errorf("distribution = %v, want one kind", report.ProblemDistribution)
	}
}

func TestAggregate_Rounding(t *testing.T) {
	records := []model.DetectionRecord{
		{ComplianceScore: 70},
		{ComplianceScore: 71},
		{ComplianceScore: 71},
	}
	report, err := Aggregate(records)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if report.OverallScore != 70.7 {
		t.Errorf("OverallScore = %v, want 70.7", report.OverallScore)
	}
}

func TestAggregate_PriorityOrdering(t *testing.T) {
	records := []model.DetectionRecord{
		{ImageID: 0, ComplianceScore: 90, ProblemsFound: []model.ProblemKind{model.ProblemLighting}},
		{ImageID: 1, ComplianceScore: 80, ProblemsFound: []model.ProblemKind{model.ProblemHeight}},
		{ImageID: 2, ComplianceScore: 92, ProblemsFound: []model.ProblemKind{model.ProblemSurface}},
	}
	report, err := Aggregate(records)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	want := []model.PriorityArea{
		{Area: "图片3", Priority: model.PriorityHigh},
		{Area: "图片2", Priority: model.PriorityMedium},
		{Area: "图片1", Priority: model.PriorityLow},
	}
	if len(report.PriorityAreas) != len(want) {
		t.Fatalf("PriorityAreas = %v, want %v", report.PriorityAreas, want)
	}
	for i := range want {
		if report.PriorityAreas[i] != want[i] {
			t.Errorf("PriorityAreas[%d] = %v, want %v", i, report.PriorityAreas[i], want[i])
		}
	}
}

// 随机批次下分布合计等于各记录去重后问题数之和，分数落在 [0,100]
func TestAggregate_RandomBatches(t *testing.T) {
	faker := gofakeit.New(42)
	kinds := []string{
		string(model.ProblemHeight), string(model.ProblemWidth), string(model.ProblemSurface),
		string(model.ProblemSlope), string(model.ProblemSlippery), string(model.ProblemLighting),
	}

	for iter := 0; iter < 200; iter++ {
		n := faker.Number(1, 20)
		records := make([]model.DetectionRecord, n)
		wantTotal := 0
		for i := range records {
			seen := map[string]bool{}
			var problems []model.ProblemKind
			for j := faker.Number(0, 4); j > 0; j-- {
				p := faker.RandomString(kinds)
				problems = append(problems, model.ProblemKind(p))
				if !seen[p] {
					seen[p] = true
					wantTotal++
				}
			}
			records[i] = model.DetectionRecord{
				ImageID:         i,
				Location:        faker.RandomString([]string{"", "东门", "北门", "车库"}),
				ComplianceScore: faker.Number(0, 100),
				ProblemsFound:   problems,
			}
		}

		report, err := Aggregate(records)
		if err != nil {
			t.Fatalf("iter %d: Aggregate() error = %v", iter, err)
		}
		if got := report.ProblemDistribution.Total(); got != wantTotal {
			t.Fatalf("iter %d: distribution total = %d, want %d", iter, got, wantTotal)
		}
		if report.OverallScore < 0 || report.OverallScore > 100 {
			t.Fatalf("iter %d: OverallScore = %v out of range", iter, report.OverallScore)
		}
		if report.TotalFacilities != n {
			t.Fatalf("iter %d: TotalFacilities = %d, want %d", iter, report.TotalFacilities, n)
		}
		for i := 1; i < len(report.PriorityAreas); i++ {
			if report.PriorityAreas[i-1].Priority.Rank() > report.PriorityAreas[i].Priority.Rank() {
				t.Fatalf("iter %d: PriorityAreas not sorted: %v", iter, report.PriorityAreas)
			}
		}
	}
}

func TestRoundScore(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{79, 79},
		{70.66666, 70.7},
		{70.25, 70.3},
		{0.04, 0},
		{100, 100},
	}
	for _, tt := range tests {
		if got := RoundScore(tt.in); got != tt.want {
			t.Errorf("RoundScore(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
