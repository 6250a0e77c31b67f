package engine

import "fmt"

// VoteChoice 投票选项
type VoteChoice string

const (
	VoteAgree    VoteChoice = "同意"
	VoteDisagree VoteChoice = "反对"
	VoteAbstain  VoteChoice = "弃权"
)

// DefaultVoteTopics 默认在线投票议题
var DefaultVoteTopics = []string{
	"是否同意优先改造主出入口？",
	"是否愿意为无障碍改造分摊部分费用？",
	"施工期间是否能接受暂时不便？",
	"是否愿意参与监督小组？",
}

// TopicResult 单个议题的投票结果
type TopicResult struct {
	Topic        string  `json:"topic"`
	Agree        int     `json:"agree"`
	Disagree     int     `json:"disagree"`
	Abstain      int     `json:"abstain"`
	Total        int     `json:"total"`
	ApprovalRate float64 `json:"approval_rate"`
}

// VoteTally 按议题统计投票
type VoteTally struct {
	topics []string
	counts map[string]map[VoteChoice]int
}

// NewVoteTally 创建投票统计，topics 为空时使用默认议题
func NewVoteTally(topics []string) *VoteTally {
	if len(topics) == 0 {
		topics = DefaultVoteTopics
	}
	t := &VoteTally{
		topics: append([]string(nil), topics...),
		counts: make(map[string]map[VoteChoice]int, len(topics)),
	}
	for _, topic := range t.topics {
		t.counts[topic] = map[VoteChoice]int{}
	}
	return t
}

// Cast 记一票
func (t *VoteTally) Cast(topic string, choice VoteChoice) error {
	c, ok := t.counts[topic]
	if !ok {
		return fmt.Errorf("%w: unknown topic %q", ErrInvalidParameters, topic)
	}
	switch choice {
	case VoteAgree, VoteDisagree, VoteAbstain:
	default:
		return fmt.Errorf("%w: unknown choice %q", ErrInvalidParameters, choice)
	}
	c[choice]++
	return nil
}

// Results 按议题顺序返回统计结果
func (t *VoteTally) Results() []TopicResult {
	out := make([]TopicResult, 0, len(t.topics))
	for _, topic := range t.topics {
		c := t.counts[topic]
		r := TopicResult{
			Topic:    topic,
			Agree:    c[VoteAgree],
			Disagree: c[VoteDisagree],
			Abstain:  c[VoteAbstain],
		}
		r.Total = r.Agree + r.Disagree + r.Abstain
		if r.Total > 0 {
			r.ApprovalRate = float64(r.Agree) / float64(r.Total)
		}
		out = append(out, r)
	}
	return out
}
