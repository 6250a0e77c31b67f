package engine

import "fmt"

// 通达性模拟的起点与理想终点（%）
const (
	baselineCoverage = 65.0
	idealCoverage    = 95.0
	simulationMonths = 12
)

// CoverageSimulation 无障碍覆盖率逐月模拟
type CoverageSimulation struct {
	Months  []int     `json:"months"`
	Current []float64 `json:"current"`
	Ideal   []float64 `json:"ideal"`
}

// SimulateCoverage 在 12 个月内从基线线性逼近目标覆盖率，target 取值 [50,100]
func SimulateCoverage(target float64) (*CoverageSimulation, error) {
	if target < 50 || target > 100 {
		return nil, fmt.Errorf("%w: target coverage %v not in [50,100]", ErrInvalidParameters, target)
	}
	sim := &CoverageSimulation{
		Months:  make([]int, simulationMonths),
		Current: make([]float64, simulationMonths),
		Ideal:   make([]float64, simulationMonths),
	}
	for i := 0; i < simulationMonths; i++ {
		sim.Months[i] = i + 1
		sim.Current[i] = baselineCoverage + float64(i)*(target-baselineCoverage)/simulationMonths
		sim.Ideal[i] = baselineCoverage + float64(i)*(idealCoverage-baselineCoverage)/simulationMonths
	}
	return sim, nil
}

// GroupSatisfaction 单个群体改造前后满意度
type GroupSatisfaction struct {
	Group  string `json:"group"`
	Before int    `json:"before"`
	After  int    `json:"after"`
}

var satisfactionBaseline = []GroupSatisfaction{
	{Group: "老年人", Before: 60},
	{Group: "轮椅使用者", Before: 55},
	{Group: "视障人士", Before: 50},
	{Group: "全体居民", Before: 65},
}

// SimulateSatisfaction 各群体满意度统一提升 improvement 分，取值 [0,50]
func SimulateSatisfaction(improvement int) ([]GroupSatisfaction, error) {
	if improvement < 0 || improvement > 50 {
		return nil, fmt.Errorf("%w: improvement %d not in [0,50]", ErrInvalidParameters, improvement)
	}
	out := make([]GroupSatisfaction, len(satisfactionBaseline))
	for i, g := range satisfactionBaseline {
		g.After = g.Before + improvement
		out[i] = g
	}
	return out, nil
}

// DefaultCosts 与 DefaultBenefits 为五年周期的默认成本与效益（万元）
var (
	DefaultCosts    = []float64{50, 10, 8, 7, 6}
	DefaultBenefits = []float64{30, 40, 50, 55, 60}
)

// CostBenefitAnalysis 成本效益分析结果
type CostBenefitAnalysis struct {
	Years        []string  `json:"years"`
	Costs        []float64 `json:"costs"`
	Benefits     []float64 `json:"benefits"`
	TotalCost    float64   `json:"total_cost"`
	TotalBenefit float64   `json:"total_benefit"`
	ROI          float64   `json:"roi"` // 百分比
}

// CostBenefit 计算投资回报率 (总效益-总成本)/总成本*100。两组数据均为空时使用默认五年数据。
func CostBenefit(costs, benefits []float64) (*CostBenefitAnalysis, error) {
	if len(costs) == 0 && len(benefits) == 0 {
		costs, benefits = DefaultCosts, DefaultBenefits
	}
	if len(costs) != len(benefits) {
		return nil, fmt.Errorf("%w: %d cost years vs %d benefit years", ErrInvalidParameters, len(costs), len(benefits))
	}

	a := &CostBenefitAnalysis{
		Years:    make([]string, len(costs)),
		Costs:    append([]float64(nil), costs...),
		Benefits: append([]float64(nil), benefits...),
	}
	for i := range costs {
		a.Years[i] = fmt.Sprintf("第%d年", i+1)
		a.TotalCost += costs[i]
		a.TotalBenefit += benefits[i]
	}
	if a.TotalCost <= 0 {
		return nil, fmt.Errorf("%w: total cost must be positive", ErrInvalidParameters)
	}
	a.ROI = (a.TotalBenefit - a.TotalCost) / a.TotalCost * 100
	return a, nil
}
