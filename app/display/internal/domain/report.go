package domain

import (
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/export"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

// ReportPage 报告分页结果
type ReportPage struct {
	Reports  []*model.ReportSummary `json:"reports"`
	Total    int                    `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
}

// CompiledReport 编译结果，ID 为 0 表示未保存
type CompiledReport struct {
	ID     int            `json:"id,omitempty"`
	Report *model.Report  `json:"report"`
	Export *export.Result `json:"export,omitempty"`
}
