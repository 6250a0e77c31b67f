package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"github.com/iWorld-y/zhujingtong/app/planner/pkg/logger"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/narrative"
)

// Format 导出格式
type Format string

const (
	FormatPDF     Format = "pdf"
	FormatDOCX    Format = "docx"
	FormatDrawing Format = "drawing"
)

// ParseFormat 解析导出格式
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatPDF, FormatDOCX, FormatDrawing:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// 导出状态
const (
	StatusPending = "pending"
)

// Result 导出结果
type Result struct {
	Format  Format `json:"format"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Preview string `json:"preview,omitempty"` // Markdown 预览
}

// Exporter 报告导出接口
type Exporter interface {
	Export(ctx context.Context, report *model.Report, format Format) (*Result, error)
}

var pendingMessages = map[Format]string{
	FormatPDF:     "PDF导出功能准备中...",
	FormatDOCX:    "Word导出功能准备中...",
	FormatDrawing: "图纸导出功能准备中...",
}

// StubExporter 只生成 Markdown 预览，真实文件导出尚未接入
type StubExporter struct {
	narrator narrative.Narrator
}

// NewStubExporter 创建导出器，narrator 为 nil 时使用模板摘要
func NewStubExporter(n narrative.Narrator) *StubExporter {
	if n == nil {
		n = narrative.NewTemplateNarrator()
	}
	return &StubExporter{narrator: n}
}

// Export 实现 Exporter 接口
func (e *StubExporter) Export(ctx context.Context, report *model.Report, format Format) (*Result, error) {
	msg, ok := pendingMessages[format]
	if !ok {
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
	if report == nil || report.Plan == nil {
		return nil, fmt.Errorf("report is incomplete")
	}

	summary, err := e.narrator.Summarize(ctx, report)
	if err != nil {
		if summary == "" {
			return nil, fmt.Errorf("summarize report: %w", err)
		}
		logger.Log.Warnf("摘要生成出错，使用已有草稿: %v", err)
	}
	preview, err := RenderMarkdown(report, summary)
	if err != nil {
		return nil, err
	}

	logger.Log.Infof("报告导出请求已受理 [%s]，共 %d 个项目", format, len(report.Plan.Projects))
	return &Result{
		Format:  format,
		Status:  StatusPending,
		Message: msg,
		Preview: preview,
	}, nil
}

// StandardSection 技术标准条目
type StandardSection struct {
	Title string
	Items []string
}

// TechnicalStandards 报告中列出的改造技术标准
var TechnicalStandards = []StandardSection{
	{"坡道改造技术标准", []string{"坡度：不大于1:12", "宽度：不小于1.2米", "防滑：采用防滑地砖或防滑条", "扶手：双侧设置，高度0.65-0.85米"}},
	{"扶手安装规范", []string{"材质：防锈防腐材料", "直径：35-45mm", "连续性：全程无间断", "末端处理：圆弧状延伸"}},
	{"标识系统设计", []string{"符合国家无障碍标识标准", "中英文对照", "夜间反光处理", "触觉标识辅助"}},
}

// DrawingLegend 施工图纸图例
var DrawingLegend = []string{"红色：改造区域", "蓝色：新增设施", "绿色：保留设施", "虚线：建议路线"}

const markdownTpl = `# 无障碍社区改造方案报告

生成时间：{{ .Report.GeneratedAt.Format "2006-01-02 15:04:05" }}

{{ .Summary }}
### 技术方案
{{ range $i, $sec := .Standards }}
**{{ inc $i }}. {{ $sec.Title }}**
{{- range $sec.Items }}
- {{ . }}
{{- end }}
{{ end }}
### 施工图纸

**图例说明：**
{{- range .Legend }}
- {{ . }}
{{- end }}

### 预算明细

| 项目 | 优先级 | 预算(万元) | 工期 |
|---|---|---|---|
{{- range .Report.Plan.Projects }}
| {{ .Name }} | {{ .Priority }} | {{ printf "%.2f" .Cost }} | {{ .Duration }} |
{{- end }}

| 费用类别 | 金额(万元) |
|---|---|
{{- range .Report.Plan.CostBreakdown }}
| {{ .Item }} | {{ printf "%.2f" .Amount }} |
{{- end }}

### 实施计划

{{- range .Report.Plan.Timeline }}
- 第{{ .Week }}周：{{ .Task }}
{{- end }}
`

var mdTpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(markdownTpl))

// RenderMarkdown 将报告渲染为 Markdown
func RenderMarkdown(report *model.Report, summary string) (string, error) {
	var buf bytes.Buffer
	err := mdTpl.Execute(&buf, struct {
		Report    *model.Report
		Summary   string
		Standards []StandardSection
		Legend    []string
	}{report, summary, TechnicalStandards, DrawingLegend})
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}
