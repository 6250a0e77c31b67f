package usecase

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/zhujingtong/app/display/internal/domain"
	"github.com/iWorld-y/zhujingtong/app/display/internal/repo"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/engine"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

// FeedbackUseCase 居民反馈与在线投票
type FeedbackUseCase struct {
	sessions repo.SessionRepo
	eng      *engine.Engine
	log      *log.Helper
}

// NewFeedbackUseCase 创建反馈业务逻辑实例
func NewFeedbackUseCase(sessions repo.SessionRepo, eng *engine.Engine, logger log.Logger) *FeedbackUseCase {
	return &FeedbackUseCase{sessions: sessions, eng: eng, log: log.NewHelper(logger)}
}

// Submit 追加一条反馈
func (uc *FeedbackUseCase) Submit(ctx context.Context, id string, entry model.FeedbackEntry) (saved model.FeedbackEntry, err error) {
	err = withSession(ctx, uc.sessions, id, func(s *domain.Session) error {
		saved, err = s.Feedback.Append(entry)
		return err
	})
	if err == nil {
		uc.log.WithContext(ctx).Infof("feedback received for session %s from %s", id, entry.ResidentType)
	}
	return saved, err
}

// Summary 统计反馈平均分
func (uc *FeedbackUseCase) Summary(ctx context.Context, id string) (*domain.FeedbackSummary, error) {
	var out *domain.FeedbackSummary
	err := withSession(ctx, uc.sessions, id, func(s *domain.Session) error {
		avg, err := uc.eng.FeedbackSummary(s.Feedback)
		if err != nil {
			return err
		}
		out = &domain.FeedbackSummary{
			Count:     s.Feedback.Len(),
			Threshold: uc.eng.Config().Feedback.MinEntries,
			Averages:  avg,
		}
		return nil
	})
	return out, err
}

// Vote 记一票并返回最新统计
func (uc *FeedbackUseCase) Vote(ctx context.Context, id, topic string, choice engine.VoteChoice) ([]engine.TopicResult, error) {
	var results []engine.TopicResult
	err := withSession(ctx, uc.sessions, id, func(s *domain.Session) error {
		if err := s.Votes.Cast(topic, choice); err != nil {
			return err
		}
		results = s.Votes.Results()
		return nil
	})
	return results, err
}

// VoteResults 当前投票统计
func (uc *FeedbackUseCase) VoteResults(ctx context.Context, id string) ([]engine.TopicResult, error) {
	var results []engine.TopicResult
	err := withSession(ctx, uc.sessions, id, func(s *domain.Session) error {
		results = s.Votes.Results()
		return nil
	})
	return results, err
}

// History 全部历史反馈，按提交顺序排列
func (uc *FeedbackUseCase) History(ctx context.Context, id string) ([]model.FeedbackEntry, error) {
	var entries []model.FeedbackEntry
	err := withSession(ctx, uc.sessions, id, func(s *domain.Session) error {
		entries = s.Feedback.Entries()
		return nil
	})
	return entries, err
}

// Participation 社区参与度统计
func (uc *FeedbackUseCase) Participation(ctx context.Context, id string) ([]engine.ParticipationMetric, error) {
	var metrics []engine.ParticipationMetric
	err := withSession(ctx, uc.sessions, id, func(s *domain.Session) error {
		metrics = uc.eng.Participation(s.Feedback)
		return nil
	})
	return metrics, err
}

// Experts 专家评审意见
func (uc *FeedbackUseCase) Experts(ctx context.Context, id string) (*domain.ExpertReview, error) {
	var out *domain.ExpertReview
	err := withSession(ctx, uc.sessions, id, func(s *domain.Session) error {
		out = expertReview(s.Experts)
		return nil
	})
	return out, err
}

// AddExpertOpinion 追加一条专家意见
func (uc *FeedbackUseCase) AddExpertOpinion(ctx context.Context, id string, op model.ExpertOpinion) (*domain.ExpertReview, error) {
	if err := engine.ValidateExpertOpinion(op); err != nil {
		return nil, err
	}
	var out *domain.ExpertReview
	err := withSession(ctx, uc.sessions, id, func(s *domain.Session) error {
		s.Experts = append(s.Experts, op)
		out = expertReview(s.Experts)
		return nil
	})
	if err == nil {
		uc.log.WithContext(ctx).Infof("expert opinion added for session %s by %s", id, op.Expert)
	}
	return out, err
}

func expertReview(ops []model.ExpertOpinion) *domain.ExpertReview {
	return &domain.ExpertReview{
		Opinions:     append([]model.ExpertOpinion{}, ops...),
		AverageScore: engine.AverageExpertScore(ops),
	}
}
