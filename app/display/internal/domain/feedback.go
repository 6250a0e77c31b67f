package domain

import "github.com/iWorld-y/zhujingtong/app/planner/pkg/model"

// FeedbackSummary 反馈统计，条数不足阈值时 Averages 为空
type FeedbackSummary struct {
	Count     int                `json:"count"`
	Threshold int                `json:"threshold"`
	Averages  map[string]float64 `json:"averages,omitempty"`
}

// ExpertReview 专家评审意见及平均分
type ExpertReview struct {
	Opinions     []model.ExpertOpinion `json:"opinions"`
	AverageScore float64               `json:"average_score"`
}

// Ready 是否已达到统计阈值
func (s *FeedbackSummary) Ready() bool {
	return s.Count >= s.Threshold
}
