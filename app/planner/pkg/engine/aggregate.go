package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

// 出现即视为高优先级的安全类问题
var criticalProblems = map[model.ProblemKind]bool{
	model.ProblemSlope:    true,
	model.ProblemSurface:  true,
	model.ProblemSlippery: true,
}

// RoundScore 四舍五入到一位小数（0.5 远离零进位）
func RoundScore(v float64) float64 {
	return math.Round(v*10) / 10
}

// Aggregate 将逐图检测结果汇总为社区报告。空输入返回全零报告。
func Aggregate(records []model.DetectionRecord) (*model.CommunityReport, error) {
	report := &model.CommunityReport{
		ProblemDistribution: model.ProblemDistribution{},
		PriorityAreas:       []model.PriorityArea{},
	}
	if len(records) == 0 {
		return report, nil
	}

	normalized := make([]model.DetectionRecord, len(records))
	for i, r := range records {
		if r.ComplianceScore < 0 || r.ComplianceScore > 100 {
			return nil, fmt.Errorf("%w: record %d compliance score %d not in [0,100]",
				ErrInvalidParameters, i, r.ComplianceScore)
		}
		normalized[i] = r.Normalize()
	}

	sum := 0
	index := make(map[model.ProblemKind]int)
	for _, r := range normalized {
		sum += r.ComplianceScore
		for _, p := range r.ProblemsFound {
			if pos, ok := index[p]; ok {
				report.ProblemDistribution[pos].Count++
				continue
			}
			index[p] = len(report.ProblemDistribution)
			report.ProblemDistribution = append(report.ProblemDistribution, model.ProblemCount{Problem: p, Count: 1})
		}
	}

	report.OverallScore = RoundScore(float64(sum) / float64(len(normalized)))
	report.TotalFacilities = len(normalized)
	report.PriorityAreas = derivePriorityAreas(normalized)

	return report, nil
}

type areaStat struct {
	name     string
	scoreSum int
	records  int
	problems map[model.ProblemKind]bool
	critical bool
}

func areaName(r model.DetectionRecord) string {
	if r.Location != "" {
		return r.Location
	}
	return fmt.Sprintf("图片%d", r.ImageID+1)
}

// derivePriorityAreas 按区域汇总问题，只列出存在问题的区域
func derivePriorityAreas(records []model.DetectionRecord) []model.PriorityArea {
	stats := make(map[string]*areaStat)
	var ordered []*areaStat
	for _, r := range records {
		name := areaName(r)
		st, ok := stats[name]
		if !ok {
			st = &areaStat{name: name, problems: make(map[model.ProblemKind]bool)}
			stats[name] = st
			ordered = append(ordered, st)
		}
		st.scoreSum += r.ComplianceScore
		st.records++
		for _, p := range r.ProblemsFound {
			st.problems[p] = true
			if criticalProblems[p] {
				st.critical = true
			}
		}
	}

	areas := make([]model.PriorityArea, 0, len(ordered))
	for _, st := range ordered {
		if len(st.problems) == 0 {
			continue
		}
		areas = append(areas, model.PriorityArea{Area: st.name, Priority: st.priority()})
	}
	sort.SliceStable(areas, func(i, j int) bool {
		return areas[i].Priority.Rank() < areas[j].Priority.Rank()
	})
	return areas
}

func (s *areaStat) priority() model.Priority {
	mean := float64(s.scoreSum) / float64(s.records)
	switch {
	case mean < 70 || s.critical:
		return model.PriorityHigh
	case mean < 85 || len(s.problems) >= 2:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}
