package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

// 参与度指标
const (
	MetricResponses    = "反馈人数"
	MetricSatisfaction = "平均满意度"
)

// ParticipationTargets 参与度目标值
type ParticipationTargets struct {
	Responses    int
	Satisfaction float64
}

// ParticipationMetric 单项参与度指标
type ParticipationMetric struct {
	Metric  string  `json:"metric"`
	Value   float64 `json:"value"`
	Target  float64 `json:"target"`
	Reached bool    `json:"reached"`
}

// MeanSatisfaction 所有评分项的平均分，保留一位小数，无反馈时为 0
func MeanSatisfaction(entries []model.FeedbackEntry) float64 {
	sum, n := 0, 0
	for _, e := range entries {
		for _, v := range e.Ratings {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return RoundScore(float64(sum) / float64(n))
}

// Participation 统计反馈人数和平均满意度，并与目标对比
func Participation(entries []model.FeedbackEntry, targets ParticipationTargets) []ParticipationMetric {
	count := float64(len(entries))
	mean := MeanSatisfaction(entries)
	return []ParticipationMetric{
		{
			Metric:  MetricResponses,
			Value:   count,
			Target:  float64(targets.Responses),
			Reached: targets.Responses > 0 && count >= float64(targets.Responses),
		},
		{
			Metric:  MetricSatisfaction,
			Value:   mean,
			Target:  targets.Satisfaction,
			Reached: targets.Satisfaction > 0 && mean >= targets.Satisfaction,
		},
	}
}

// ValidateExpertOpinion 专家姓名和意见不能为空，评分在 [0,10] 内
func ValidateExpertOpinion(op model.ExpertOpinion) error {
	if strings.TrimSpace(op.Expert) == "" {
		return fmt.Errorf("%w: expert is required", ErrInvalidParameters)
	}
	if strings.TrimSpace(op.Opinion) == "" {
		return fmt.Errorf("%w: opinion is required", ErrInvalidParameters)
	}
	if math.IsNaN(op.Score) || op.Score < 0 || op.Score > 10 {
		return fmt.Errorf("%w: score %v not in [0,10]", ErrInvalidParameters, op.Score)
	}
	return nil
}

// AverageExpertScore 专家平均评分，无意见时为 0
func AverageExpertScore(ops []model.ExpertOpinion) float64 {
	if len(ops) == 0 {
		return 0
	}
	sum := 0.0
	for _, op := range ops {
		sum += op.Score
	}
	return RoundScore(sum / float64(len(ops)))
}
