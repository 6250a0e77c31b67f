package engine

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

func roundTrip[T any](t *testing.T, in T) T {
	t.Helper()
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	return out
}

func TestPlan_JSONRoundTrip(t *testing.T) {
	records := []model.DetectionRecord{
		{ImageID: 0, Location: "东门", ComplianceScore: 58, ProblemsFound: []model.ProblemKind{model.ProblemSlope, model.ProblemWidth}},
		{ImageID: 1, Location: "3号楼", ComplianceScore: 74, ProblemsFound: []model.ProblemKind{model.ProblemNoHandrail}},
		{ImageID: 2, Location: "活动中心", ComplianceScore: 81, ProblemsFound: []model.ProblemKind{model.ProblemLighting, model.ProblemWidth}},
		{ImageID: 3, ComplianceScore: 96},
	}
	report, err := Aggregate(records)
	if err != nil {
		t.Fatalf("Aggregate() error = %v", err)
	}
	if report.ProblemDistribution.Len() < 3 || len(report.PriorityAreas) < 2 {
		t.Fatalf("report too small to check ordering: %+v", report)
	}

	gotReport := roundTrip(t, *report)
	if !reflect.DeepEqual(gotReport, *report) {
		t.Errorf("community report after round trip = %+v, want %+v", gotReport, *report)
	}

	plan, err := Synthesize(report, model.PlanParameters{Budget: 50, PriorityFocus: []string{"出入口", "楼道"}})
	if err != nil {
		t.Fatalf("Synthesize() error = %v", err)
	}
	if len(plan.Timeline) < 5 {
		t.Fatalf("Timeline has %d entries, want at least 5", len(plan.Timeline))
	}

	gotPlan := roundTrip(t, *plan)
	if !reflect.DeepEqual(gotPlan, *plan) {
		t.Errorf("plan after round trip = %+v, want %+v", gotPlan, *plan)
	}
	for i := range plan.Projects {
		if gotPlan.Projects[i].Name != plan.Projects[i].Name {
			t.Errorf("Projects[%d] = %s, want %s", i, gotPlan.Projects[i].Name, plan.Projects[i].Name)
		}
	}
}
