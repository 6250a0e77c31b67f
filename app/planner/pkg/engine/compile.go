package engine

import (
	"fmt"
	"time"

	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

// Compiler 汇总社区数据、分析结果与方案，生成可导出的报告
type Compiler struct {
	now func() time.Time
}

// NewCompiler 创建报告编译器，clock 为 nil 时使用 time.Now
func NewCompiler(clock func() time.Time) *Compiler {
	if clock == nil {
		clock = time.Now
	}
	return &Compiler{now: clock}
}

// Compile 生成报告。方案与分析结果均为深拷贝，之后对方案的修改不影响已生成的报告。
func (c *Compiler) Compile(community *model.CommunityData, analysis *model.AnalysisResult, plan *model.Plan) (*model.Report, error) {
	generatedAt := c.now()

	if analysis == nil {
		return nil, fmt.Errorf("%w: analysis result is required", ErrInvalidParameters)
	}
	if plan == nil {
		return nil, fmt.Errorf("%w: plan is required", ErrInvalidParameters)
	}

	return &model.Report{
		Community:   community.Clone(),
		Analysis:    analysis.Clone(),
		Plan:        plan.Clone(),
		GeneratedAt: generatedAt,
	}, nil
}
