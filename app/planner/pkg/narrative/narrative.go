package narrative

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

// Narrator 为报告撰写执行摘要
type Narrator interface {
	Summarize(ctx context.Context, report *model.Report) (string, error)
}

const summaryTpl = `### 执行摘要

**项目名称：** 无障碍社区改造项目
**实施社区：** {{ communityName . }}
**核心目标：** 创建全龄友好、无障碍通达的宜居社区

**现状评估：** 共分析 {{ .Analysis.Community.TotalFacilities }} 处设施，总体合规分数 {{ printf "%.1f" .Analysis.Community.OverallScore }}/100，发现 {{ .Analysis.Community.ProblemDistribution.Len }} 类问题。
{{- with .Analysis.Community.PriorityAreas }}

**优先改造区域：**
{{- range . }}
- {{ .Area }}（优先级：{{ .Priority }}）
{{- end }}
{{- end }}

**主要改造内容：**
{{- range $i, $p := .Plan.Projects }}
{{ inc $i }}. {{ $p.Name }}：{{ $p.Description }}（{{ printf "%.1f" $p.Cost }}万元，{{ $p.Duration }}）
{{- end }}

**预期成效：**
{{- range .Plan.ExpectedBenefits }}
- {{ .Metric }}：{{ .Value }}
{{- end }}
`

var tpl = template.Must(template.New("summary").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"communityName": func(r *model.Report) string {
		if r.Community != nil && r.Community.Name != "" {
			return r.Community.Name
		}
		return "未命名社区"
	},
}).Parse(summaryTpl))

// TemplateNarrator 基于模板生成摘要，输出稳定
type TemplateNarrator struct{}

// NewTemplateNarrator 创建模板摘要生成器
func NewTemplateNarrator() *TemplateNarrator {
	return &TemplateNarrator{}
}

// Summarize 实现 Narrator 接口
func (n *TemplateNarrator) Summarize(_ context.Context, report *model.Report) (string, error) {
	if report == nil || report.Analysis == nil || report.Plan == nil {
		return "", fmt.Errorf("report is incomplete")
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, report); err != nil {
		return "", fmt.Errorf("render summary: %w", err)
	}
	return strings.TrimSpace(buf.String()) + "\n", nil
}
