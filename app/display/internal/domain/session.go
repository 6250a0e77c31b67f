package domain

import (
	"sync"
	"time"

	"github.com/iWorld-y/zhujingtong/app/planner/pkg/detector"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/engine"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

// Session 单个用户的规划上下文，按流程逐步填充
type Session struct {
	mu sync.Mutex

	ID        string
	CreatedAt time.Time

	Community *model.CommunityData
	Images    []detector.Image
	Analysis  *model.AnalysisResult
	Plan      *model.Plan
	Report    *model.Report
	ReportID  int

	Feedback *engine.FeedbackLog
	Votes    *engine.VoteTally
	Experts  []model.ExpertOpinion
}

// NewSession 创建空会话，ID 由仓库分配
func NewSession(now func() time.Time, voteTopics []string, experts []model.ExpertOpinion) *Session {
	return &Session{
		CreatedAt: now(),
		Feedback:  engine.NewFeedbackLog(now),
		Votes:     engine.NewVoteTally(voteTopics),
		Experts:   append([]model.ExpertOpinion(nil), experts...),
	}
}

// Lock 会话内各步骤串行执行
func (s *Session) Lock() { s.mu.Lock() }

// Unlock 释放会话锁
func (s *Session) Unlock() { s.mu.Unlock() }

// SessionInfo 会话状态概览
type SessionInfo struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	HasData     bool      `json:"has_community_data"`
	ImageCount  int       `json:"image_count"`
	HasAnalysis bool      `json:"has_analysis"`
	HasPlan     bool      `json:"has_plan"`
	ReportID    int       `json:"report_id,omitempty"`
	Feedback    int       `json:"feedback_count"`
}

// Info 调用方需持有锁
func (s *Session) Info() *SessionInfo {
	return &SessionInfo{
		ID:          s.ID,
		CreatedAt:   s.CreatedAt,
		HasData:     s.Community != nil,
		ImageCount:  len(s.Images),
		HasAnalysis: s.Analysis != nil,
		HasPlan:     s.Plan != nil,
		ReportID:    s.ReportID,
		Feedback:    s.Feedback.Len(),
	}
}
