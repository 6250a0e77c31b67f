package engine

import (
	"fmt"
	"math"

	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

// ProjectEdit 对单个项目的修改，nil 字段保持不变
type ProjectEdit struct {
	Priority *model.Priority `json:"priority,omitempty"`
	Cost     *float64        `json:"cost,omitempty"`
}

// EditProject 原地修改第 index 个项目的优先级和/或预算。
// 成本分解、预期效益和时间线保持生成时的值，不随修改重算；
// 修改后的预算也不再受规则上限约束。
func EditProject(plan *model.Plan, index int, edit ProjectEdit) error {
	if plan == nil {
		return fmt.Errorf("%w: plan is required", ErrInvalidParameters)
	}
	if index < 0 || index >= len(plan.Projects) {
		return fmt.Errorf("%w: project %d, plan has %d projects", ErrIndexOutOfRange, index, len(plan.Projects))
	}
	if edit.Priority != nil && !edit.Priority.Valid() {
		return fmt.Errorf("%w: unknown priority %q", ErrInvalidParameters, *edit.Priority)
	}
	if edit.Cost != nil && (math.IsNaN(*edit.Cost) || math.IsInf(*edit.Cost, 0) || *edit.Cost < 0) {
		return fmt.Errorf("%w: cost must be a non-negative number, got %v", ErrInvalidParameters, *edit.Cost)
	}

	p := &plan.Projects[index]
	if edit.Priority != nil {
		p.Priority = *edit.Priority
	}
	if edit.Cost != nil {
		p.Cost = *edit.Cost
	}
	return nil
}
