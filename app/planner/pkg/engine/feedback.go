package engine

import (
	"fmt"
	"maps"
	"time"

	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

// DefaultFeedbackThreshold 计算平均分所需的最少反馈条数
const DefaultFeedbackThreshold = 3

// FeedbackLog 只追加的反馈记录，不加锁，并发访问由调用方串行化
type FeedbackLog struct {
	entries []model.FeedbackEntry
	now     func() time.Time
}

// NewFeedbackLog 创建反馈记录，clock 为 nil 时使用 time.Now
func NewFeedbackLog(clock func() time.Time) *FeedbackLog {
	if clock == nil {
		clock = time.Now
	}
	return &FeedbackLog{now: clock}
}

// Append 校验并追加一条反馈，时间戳为空时补当前时间
func (l *FeedbackLog) Append(entry model.FeedbackEntry) (model.FeedbackEntry, error) {
	if len(entry.Ratings) == 0 {
		return model.FeedbackEntry{}, fmt.Errorf("%w: ratings are required", ErrInvalidParameters)
	}
	ratings := make(map[string]int, len(entry.Ratings))
	for k, v := range entry.Ratings {
		if v < 1 || v > 5 {
			return model.FeedbackEntry{}, fmt.Errorf("%w: rating %q=%d not in [1,5]", ErrInvalidParameters, k, v)
		}
		ratings[k] = v
	}
	if entry.Urgency < 1 || entry.Urgency > 10 {
		return model.FeedbackEntry{}, fmt.Errorf("%w: urgency %d not in [1,10]", ErrInvalidParameters, entry.Urgency)
	}

	entry.Ratings = ratings
	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.now()
	}
	l.entries = append(l.entries, entry)
	return entry, nil
}

// Entries 返回全部反馈的副本
func (l *FeedbackLog) Entries() []model.FeedbackEntry {
	out := make([]model.FeedbackEntry, len(l.entries))
	for i, e := range l.entries {
		e.Ratings = maps.Clone(e.Ratings)
		out[i] = e
	}
	return out
}

// Len 反馈条数
func (l *FeedbackLog) Len() int {
	return len(l.entries)
}

// AverageRatings 计算各评分项的平均分。
// 条数少于 threshold 时返回 nil, nil；各条反馈评分项不一致时返回 ErrInconsistentSchema。
func AverageRatings(entries []model.FeedbackEntry, threshold int) (map[string]float64, error) {
	if threshold < 1 {
		threshold = 1
	}
	if len(entries) < threshold {
		return nil, nil
	}

	criteria := entries[0].Ratings
	sums := make(map[string]int, len(criteria))
	for i, e := range entries {
		if len(e.Ratings) != len(criteria) {
			return nil, fmt.Errorf("%w: entry %d has %d criteria, want %d", ErrInconsistentSchema, i, len(e.Ratings), len(criteria))
		}
		for k := range criteria {
			v, ok := e.Ratings[k]
			if !ok {
				return nil, fmt.Errorf("%w: entry %d is missing criterion %q", ErrInconsistentSchema, i, k)
			}
			sums[k] += v
		}
	}

	avg := make(map[string]float64, len(sums))
	for k, s := range sums {
		avg[k] = float64(s) / float64(len(entries))
	}
	return avg, nil
}
