package engine

import (
	"fmt"
	"math"
	"strings"

	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

// ProjectRule 项目生成规则。Keywords 为空表示无条件生成。
type ProjectRule struct {
	Keywords      []string
	Name          string
	Description   string
	Cap           float64 // 万元
	Fraction      float64 // 占总预算比例
	Priority      model.Priority
	Beneficiaries []string
	Weeks         int
	Task          string // 时间线中的施工任务
}

// Matches 判断问题分布中是否存在命中关键字的问题
func (r ProjectRule) Matches(dist model.ProblemDistribution) bool {
	if len(r.Keywords) == 0 {
		return true
	}
	for _, pc := range dist {
		for _, kw := range r.Keywords {
			if strings.Contains(string(pc.Problem), kw) {
				return true
			}
		}
	}
	return false
}

// Cost 按预算计算项目费用：min(cap, budget*fraction)
func (r ProjectRule) Cost(budget float64) float64 {
	return math.Min(r.Cap, budget*r.Fraction)
}

// ProjectRules 规则表，顺序即项目顺序
var ProjectRules = []ProjectRule{
	{
		Keywords:      []string{"坡"},
		Name:          "主出入口坡道改造",
		Description:   "改造现有坡道，符合无障碍规范",
		Cap:           15,
		Fraction:      0.30,
		Priority:      model.PriorityHigh,
		Beneficiaries: []string{"轮椅使用者", "老年人", "婴儿车"},
		Weeks:         2,
		Task:          "坡道改造施工",
	},
	{
		Keywords:      []string{"扶手", "栏杆"},
		Name:          "楼道扶手加装",
		Description:   "在主要楼道加装连续性扶手",
		Cap:           8,
		Fraction:      0.15,
		Priority:      model.PriorityHigh,
		Beneficiaries: []string{"老年人", "临时行动不便者"},
		Weeks:         3,
		Task:          "扶手安装",
	},
	{
		Name:          "无障碍标识系统",
		Description:   "建立完整的无障碍导向标识",
		Cap:           5,
		Fraction:      0.10,
		Priority:      model.PriorityMedium,
		Beneficiaries: []string{"视障人士", "老年人", "访客"},
		Weeks:         1,
		Task:          "标识系统安装",
	},
	{
		Name:          "休息座椅设置",
		Description:   "在关键节点设置休息座椅",
		Cap:           3,
		Fraction:      0.05,
		Priority:      model.PriorityLow,
		Beneficiaries: []string{"老年人", "孕妇", "儿童"},
		Weeks:         1,
		Task:          "休息座椅安装",
	},
}

// CostShares 成本分解比例，合计为 1
var CostShares = []struct {
	Item  string
	Share float64
}{
	{"工程费用", 0.7},
	{"设计费用", 0.1},
	{"管理费用", 0.1},
	{"预备费用", 0.1},
}

// 效益估算上限
const (
	coverageUpliftCap  = 40
	coveragePerProblem = 10
	beneficiaryCap     = 200
	beneficiaryPerKind = 30
	satisfactionUplift = "预计提升25%"
)

// Synthesize 根据社区报告和规划参数生成改造方案。相同输入得到相同输出。
func Synthesize(report *model.CommunityReport, params model.PlanParameters) (*model.Plan, error) {
	if report == nil {
		return nil, fmt.Errorf("%w: community report is required", ErrInvalidParameters)
	}
	if math.IsNaN(params.Budget) || params.Budget <= 0 {
		return nil, fmt.Errorf("%w: budget must be positive, got %v", ErrInvalidParameters, params.Budget)
	}

	plan := &model.Plan{
		BasicInfo: params,
		Projects:  []model.Project{},
	}
	plan.BasicInfo.PriorityFocus = append([]string(nil), params.PriorityFocus...)

	var applied []ProjectRule
	for _, rule := range ProjectRules {
		if !rule.Matches(report.ProblemDistribution) {
			continue
		}
		applied = append(applied, rule)
		plan.Projects = append(plan.Projects, model.Project{
			Name:          rule.Name,
			Description:   rule.Description,
			Cost:          rule.Cost(params.Budget),
			Priority:      rule.Priority,
			Beneficiaries: append([]string(nil), rule.Beneficiaries...),
			Duration:      fmt.Sprintf("%d周", rule.Weeks),
		})
	}

	plan.CostBreakdown = breakdown(plan.TotalCost())
	plan.ExpectedBenefits = expectedBenefits(report.ProblemDistribution)
	plan.Timeline = buildTimeline(applied)

	return plan, nil
}

func breakdown(total float64) []model.CostItem {
	items := make([]model.CostItem, 0, len(CostShares))
	for _, s := range CostShares {
		items = append(items, model.CostItem{Item: s.Item, Amount: total * s.Share})
	}
	return items
}

// expectedBenefits 启发式效益估算，每项均有上限
func expectedBenefits(dist model.ProblemDistribution) []model.Benefit {
	coverage := min(coverageUpliftCap, dist.Count(model.ProblemWidth)*coveragePerProblem)
	residents := min(beneficiaryCap, dist.Len()*beneficiaryPerKind)
	return []model.Benefit{
		{Metric: "无障碍覆盖率提升", Value: fmt.Sprintf("%d%%", coverage)},
		{Metric: "受益居民增加", Value: fmt.Sprintf("%d人", residents)},
		{Metric: "安全隐患减少", Value: fmt.Sprintf("%d处", dist.Len())},
		{Metric: "居民满意度提升", Value: satisfactionUplift},
	}
}

// buildTimeline 勘察、采购之后按项目顺序依次施工，最后验收
func buildTimeline(rules []ProjectRule) []model.Milestone {
	timeline := []model.Milestone{
		{Week: 1, Task: "现场勘察与设计"},
		{Week: 2, Task: "材料采购与准备"},
	}
	week := 3
	for _, r := range rules {
		timeline = append(timeline, model.Milestone{Week: week, Task: r.Task})
		week += max(r.Weeks, 1)
	}
	return append(timeline, model.Milestone{Week: week, Task: "验收与调试"})
}
