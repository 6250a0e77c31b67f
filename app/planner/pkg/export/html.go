package export

import (
	"fmt"
	"html/template"
	"io"

	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

// HTMLData 用于模板渲染的数据
type HTMLData struct {
	Title   string
	Date    string
	Summary string
	Report  *model.Report
}

const htmlTpl = `<!DOCTYPE html>
<html lang="zh-CN">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{ .Title }}</title>
    <style>
        :root {
            --primary-color: #2563eb;
            --bg-color: #f8fafc;
            --card-bg: #ffffff;
            --text-main: #1e293b;
            --text-secondary: #64748b;
            --border-color: #e2e8f0;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            background-color: var(--bg-color);
            color: var(--text-main);
            line-height: 1.6;
            margin: 0;
            padding: 20px;
        }
        .container { max-width: 900px; margin: 0 auto; }
        header { text-align: center; margin-bottom: 32px; }
        .date-info { color: var(--text-secondary); }
        .card {
            background: var(--card-bg);
            border-radius: 12px;
            padding: 24px;
            margin-bottom: 24px;
            border: 1px solid var(--border-color);
        }
        .summary { white-space: pre-wrap; }
        .score { font-size: 2rem; font-weight: 800; color: var(--primary-color); }
        table { width: 100%; border-collapse: collapse; }
        th, td { text-align: left; padding: 8px; border-bottom: 1px solid var(--border-color); }
        .p-高 { color: #991b1b; font-weight: bold; }
        .p-中 { color: #92400e; }
        .p-低 { color: #166534; }
    </style>
</head>
<body>
<div class="container">
    <header>
        <h1>{{ .Title }}</h1>
        <div class="date-info">生成时间：{{ .Date }}</div>
    </header>

    <div class="card">
        <div class="summary">{{ .Summary }}</div>
    </div>

    {{ with .Report.Analysis }}
    <div class="card">
        <h2>现状分析</h2>
        <div class="score">{{ printf "%.1f" .Community.OverallScore }}</div>
        <table>
            <tr><th>问题类型</th><th>出现次数</th></tr>
            {{ range .Community.ProblemDistribution }}
            <tr><td>{{ .Problem }}</td><td>{{ .Count }}</td></tr>
            {{ end }}
        </table>
        <h3>优先改造区域</h3>
        <ul>
            {{ range .Community.PriorityAreas }}
            <li>{{ .Area }} <span class="p-{{ .Priority }}">{{ .Priority }}</span></li>
            {{ end }}
        </ul>
    </div>
    {{ end }}

    {{ with .Report.Plan }}
    <div class="card">
        <h2>改造项目</h2>
        <table>
            <tr><th>项目</th><th>优先级</th><th>预算(万元)</th><th>工期</th></tr>
            {{ range .Projects }}
            <tr>
                <td>{{ .Name }}<br><small>{{ .Description }}</small></td>
                <td class="p-{{ .Priority }}">{{ .Priority }}</td>
                <td>{{ printf "%.2f" .Cost }}</td>
                <td>{{ .Duration }}</td>
            </tr>
            {{ end }}
        </table>
    </div>

    <div class="card">
        <h2>实施计划</h2>
        <ul>
            {{ range .Timeline }}
            <li>第{{ .Week }}周：{{ .Task }}</li>
            {{ end }}
        </ul>
    </div>
    {{ end }}
</div>
</body>
</html>
`

var htmlReport = template.Must(template.New("report").Parse(htmlTpl))

// WriteHTML 将报告渲染为单页 HTML
func WriteHTML(w io.Writer, report *model.Report, summary string) error {
	if report == nil {
		return fmt.Errorf("report is required")
	}
	data := HTMLData{
		Title:   report.Title(),
		Date:    report.GeneratedAt.Format("2006-01-02 15:04:05"),
		Summary: summary,
		Report:  report,
	}
	if err := htmlReport.Execute(w, data); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}
