package narrative

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/time/rate"

	"github.com/iWorld-y/zhujingtong/app/planner/pkg/config"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/logger"
	dm "github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

// LLMNarrator 调用 LLM 润色执行摘要，失败时回退到模板结果
type LLMNarrator struct {
	chatModel  model.BaseChatModel
	limiter    *rate.Limiter
	fallback   Narrator
	maxRetries int
	baseDelay  time.Duration
}

// NewLLMNarrator 根据配置创建 LLM 摘要生成器
func NewLLMNarrator(ctx context.Context, cfg config.LLMConfig, cc config.ConcurrencyConfig) (*LLMNarrator, error) {
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}

	limit := rate.Limit(float64(cc.RPM) / 60.0)
	return newLLMNarrator(chatModel, rate.NewLimiter(limit, cc.QPS)), nil
}

func newLLMNarrator(cm model.BaseChatModel, limiter *rate.Limiter) *LLMNarrator {
	return &LLMNarrator{
		chatModel:  cm,
		limiter:    limiter,
		fallback:   NewTemplateNarrator(),
		maxRetries: 3,
		baseDelay:  2 * time.Second,
	}
}

const polishPrompt = `你是一名无障碍社区改造规划师。下面是一份由规则生成的改造方案执行摘要，请在不改变任何数字、项目名称和优先级的前提下，
将其润色为面向社区居民的正式文字，保持 Markdown 格式，300字以内。只输出润色后的摘要。

%s`

// Summarize 实现 Narrator 接口
func (n *LLMNarrator) Summarize(ctx context.Context, report *dm.Report) (string, error) {
	draft, err := n.fallback.Summarize(ctx, report)
	if err != nil {
		return "", err
	}

	var lastErr error
	for i := 0; i <= n.maxRetries; i++ {
		if err := n.limiter.Wait(ctx); err != nil {
			logger.Log.Warnf("限流等待失败，使用模板摘要: %v", err)
			return draft, nil
		}

		messages := []*schema.Message{
			{Role: schema.System, Content: "你是一个严谨的中文公文写作助手。"},
			{Role: schema.User, Content: fmt.Sprintf(polishPrompt, draft)},
		}

		resp, err := n.chatModel.Generate(ctx, messages)
		if err != nil {
			if strings.Contains(err.Error(), "429") || strings.Contains(strings.ToLower(err.Error()), "too many requests") {
				lastErr = err
				if i < n.maxRetries {
					delay := n.baseDelay * time.Duration(1<<i)
					logger.Log.Warnf("触发 429 限流，等待 %v 后重试 (%d/%d)...", delay, i+1, n.maxRetries)
					select {
					case <-ctx.Done():
						logger.Log.Warnf("等待重试时上下文结束，使用模板摘要: %v", ctx.Err())
						return draft, nil
					case <-time.After(delay):
						continue
					}
				}
			}
			logger.Log.Errorf("LLM 润色摘要失败，使用模板摘要: %v", err)
			return draft, nil
		}

		content := strings.TrimSpace(resp.Content)
		content = strings.TrimPrefix(content, "```markdown")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
		if content == "" {
			return draft, nil
		}
		return content + "\n", nil
	}

	logger.Log.Errorf("LLM 润色摘要重试耗尽，使用模板摘要: %v", lastErr)
	return draft, nil
}
