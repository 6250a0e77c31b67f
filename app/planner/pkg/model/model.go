package model

import "time"

// FacilityKind 设施类型
type FacilityKind string

// ProblemKind 问题类型
type ProblemKind string

// Priority 优先级
type Priority string

const (
	PriorityHigh   Priority = "高"
	PriorityMedium Priority = "中"
	PriorityLow    Priority = "低"
)

// Rank 返回优先级排序值，越小越优先；未知优先级排在最后
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	default:
		return 3
	}
}

// Valid 是否为合法优先级
func (p Priority) Valid() bool {
	return p.Rank() < 3
}

// 已知设施类型
const (
	FacilityRamp     FacilityKind = "坡道"
	FacilityHandrail FacilityKind = "扶手"
	FacilityTactile  FacilityKind = "盲道"
	FacilityElevator FacilityKind = "电梯"
	FacilityToilet   FacilityKind = "卫生间"
	FacilityParking  FacilityKind = "车位"
	FacilitySignage  FacilityKind = "标识"
)

// 已知问题类型
const (
	ProblemHeight     ProblemKind = "高度不符"
	ProblemWidth      ProblemKind = "宽度不足"
	ProblemSurface    ProblemKind = "表面破损"
	ProblemSlope      ProblemKind = "坡度超标"
	ProblemSlippery   ProblemKind = "缺乏防滑"
	ProblemLighting   ProblemKind = "照明不足"
	ProblemNoHandrail ProblemKind = "扶手缺失"
)

// DetectionRecord 单张图片的检测结果
type DetectionRecord struct {
	ImageID         int            `json:"image_id" yaml:"image_id"`
	Location        string         `json:"location,omitempty" yaml:"location"`
	FacilitiesFound []FacilityKind `json:"facilities_found" yaml:"facilities_found"`
	ProblemsFound   []ProblemKind  `json:"problems_found" yaml:"problems_found"`
	ComplianceScore int            `json:"compliance_score" yaml:"compliance_score"`
	Recommendations []string       `json:"recommendations" yaml:"recommendations"`
}

// Normalize 去除集合字段中的重复项与空值，保留首次出现的顺序
func (r DetectionRecord) Normalize() DetectionRecord {
	out := r
	out.FacilitiesFound = dedupe(r.FacilitiesFound)
	out.ProblemsFound = dedupe(r.ProblemsFound)
	out.Recommendations = append([]string(nil), r.Recommendations...)
	return out
}

func dedupe[T ~string](in []T) []T {
	seen := make(map[T]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, v := range in {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// ProblemCount 问题频次
type ProblemCount struct {
	Problem ProblemKind `json:"problem"`
	Count   int         `json:"count"`
}

// ProblemDistribution 按首次出现顺序排列的问题频次表
type ProblemDistribution []ProblemCount

// Count 返回某类问题的出现次数
func (d ProblemDistribution) Count(kind ProblemKind) int {
	for _, pc := range d {
		if pc.Problem == kind {
			return pc.Count
		}
	}
	return 0
}

// Total 所有问题的出现次数之和
func (d ProblemDistribution) Total() int {
	total := 0
	for _, pc := range d {
		total += pc.Count
	}
	return total
}

// Len 问题种类数
func (d ProblemDistribution) Len() int {
	return len(d)
}

// PriorityArea 优先改造区域
type PriorityArea struct {
	Area     string   `json:"area"`
	Priority Priority `json:"priority"`
}

// CommunityReport 社区整体分析报告
type CommunityReport struct {
	OverallScore        float64             `json:"overall_score"`
	TotalFacilities     int                 `json:"total_facilities"`
	ProblemDistribution ProblemDistribution `json:"problem_distribution"`
	PriorityAreas       []PriorityArea      `json:"priority_areas"`
}

// AnalysisResult 一次分析的明细与汇总
type AnalysisResult struct {
	Detailed  []DetectionRecord `json:"detailed"`
	Community CommunityReport   `json:"community"`
}

// Clone 深拷贝
func (a *AnalysisResult) Clone() *AnalysisResult {
	if a == nil {
		return nil
	}
	out := &AnalysisResult{
		Detailed: make([]DetectionRecord, len(a.Detailed)),
		Community: CommunityReport{
			OverallScore:        a.Community.OverallScore,
			TotalFacilities:     a.Community.TotalFacilities,
			ProblemDistribution: append(ProblemDistribution(nil), a.Community.ProblemDistribution...),
			PriorityAreas:       append([]PriorityArea(nil), a.Community.PriorityAreas...),
		},
	}
	for i, r := range a.Detailed {
		c := r
		c.FacilitiesFound = append([]FacilityKind(nil), r.FacilitiesFound...)
		c.ProblemsFound = append([]ProblemKind(nil), r.ProblemsFound...)
		c.Recommendations = append([]string(nil), r.Recommendations...)
		out.Detailed[i] = c
	}
	return out
}

// PlanParameters 规划参数
type PlanParameters struct {
	Budget        float64  `json:"budget" yaml:"budget"` // 万元
	Timeframe     string   `json:"timeframe" yaml:"timeframe"`
	PriorityFocus []string `json:"priority_focus" yaml:"priority_focus"`
	Phase         string   `json:"phase" yaml:"phase"`
}

// Project 改造项目
type Project struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Cost          float64  `json:"cost"`
	Priority      Priority `json:"priority"`
	Beneficiaries []string `json:"beneficiaries"`
	Duration      string   `json:"duration"`
}

// CostItem 成本分项
type CostItem struct {
	Item   string  `json:"item"`
	Amount float64 `json:"amount"`
}

// Benefit 预期效益指标
type Benefit struct {
	Metric string `json:"metric"`
	Value  string `json:"value"`
}

// Milestone 实施时间节点
type Milestone struct {
	Week int    `json:"week"`
	Task string `json:"task"`
}

// Plan 改造规划方案
type Plan struct {
	BasicInfo        PlanParameters `json:"basic_info"`
	Projects         []Project      `json:"projects"`
	CostBreakdown    []CostItem     `json:"cost_breakdown"`
	ExpectedBenefits []Benefit      `json:"expected_benefits"`
	Timeline         []Milestone    `json:"timeline"`
}

// TotalCost 所有项目预算之和
func (p *Plan) TotalCost() float64 {
	total := 0.0
	for _, pr := range p.Projects {
		total += pr.Cost
	}
	return total
}

// Clone 深拷贝
func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	out := &Plan{
		BasicInfo:        p.BasicInfo,
		Projects:         make([]Project, len(p.Projects)),
		CostBreakdown:    append([]CostItem(nil), p.CostBreakdown...),
		ExpectedBenefits: append([]Benefit(nil), p.ExpectedBenefits...),
		Timeline:         append([]Milestone(nil), p.Timeline...),
	}
	out.BasicInfo.PriorityFocus = append([]string(nil), p.BasicInfo.PriorityFocus...)
	for i, pr := range p.Projects {
		c := pr
		c.Beneficiaries = append([]string(nil), pr.Beneficiaries...)
		out.Projects[i] = c
	}
	return out
}

// BasicInfo 社区基础信息
type BasicInfo struct {
	TotalArea         float64 `json:"total_area" yaml:"total_area"`
	BuildingCount     int     `json:"building_count" yaml:"building_count"`
	RoadLength        float64 `json:"road_length" yaml:"road_length"`
	EstablishmentYear int     `json:"establishment_year" yaml:"establishment_year"`
	PropertyType      string  `json:"property_type" yaml:"property_type"`
	ManagementType    string  `json:"management_type" yaml:"management_type"`
}

// FacilityStock 现有无障碍设施数量
type FacilityStock struct {
	Name     string `json:"name" yaml:"name"`
	Quantity int    `json:"quantity" yaml:"quantity"`
	Unit     string `json:"unit" yaml:"unit"`
}

// Population 人口结构与需求
type Population struct {
	TotalResidents    int      `json:"total_residents" yaml:"total_residents"`
	ElderlyCount      int      `json:"elderly_count" yaml:"elderly_count"`
	DisabledCount     int      `json:"disabled_count" yaml:"disabled_count"`
	ChildrenCount     int      `json:"children_count" yaml:"children_count"`
	PregnantCount     int      `json:"pregnant_count" yaml:"pregnant_count"`
	TemporaryDisabled int      `json:"temporary_disabled" yaml:"temporary_disabled"`
	Needs             []string `json:"needs" yaml:"needs"`
	Urgency           int      `json:"urgency" yaml:"urgency"`
}

// CommunityData 社区录入数据，编译报告时原样透传
type CommunityData struct {
	Name       string          `json:"name" yaml:"name"`
	Type       string          `json:"type" yaml:"type"`
	BasicInfo  BasicInfo       `json:"basic_info" yaml:"basic_info"`
	Facilities []FacilityStock `json:"facilities" yaml:"facilities"`
	Population *Population     `json:"population,omitempty" yaml:"population"`
}

// Clone 深拷贝
func (c *CommunityData) Clone() *CommunityData {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Facilities = append([]FacilityStock(nil), c.Facilities...)
	if c.Population != nil {
		pop := *c.Population
		pop.Needs = append([]string(nil), c.Population.Needs...)
		cp.Population = &pop
	}
	return &cp
}

// Report 可导出的完整方案报告
type Report struct {
	Community   *CommunityData  `json:"community"`
	Analysis    *AnalysisResult `json:"analysis"`
	Plan        *Plan           `json:"plan"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// Clone 深拷贝
func (r *Report) Clone() *Report {
	if r == nil {
		return nil
	}
	return &Report{
		Community:   r.Community.Clone(),
		Analysis:    r.Analysis.Clone(),
		Plan:        r.Plan.Clone(),
		GeneratedAt: r.GeneratedAt,
	}
}

// Title 报告标题
func (r *Report) Title() string {
	name := "未命名社区"
	if r.Community != nil && r.Community.Name != "" {
		name = r.Community.Name
	}
	return name + "无障碍改造方案"
}

// ReportSummary 已保存报告的摘要
type ReportSummary struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	GeneratedAt  string  `json:"generated_at"`
	OverallScore float64 `json:"overall_score"`
	ProjectCount int     `json:"project_count"`
	TotalCost    float64 `json:"total_cost"`
}

// FeedbackEntry 居民反馈
type FeedbackEntry struct {
	Timestamp    time.Time      `json:"timestamp"`
	ResidentType string         `json:"resident_type"`
	AgeGroup     string         `json:"age_group"`
	Ratings      map[string]int `json:"ratings"`
	Suggestions  string         `json:"suggestions"`
	Concerns     string         `json:"concerns"`
	Urgency      int            `json:"urgency"`
	ContactPref  string         `json:"contact_pref"`
}

// ExpertOpinion 专家评审意见，Score 为 10 分制
type ExpertOpinion struct {
	Expert  string  `json:"expert" yaml:"expert"`
	Field   string  `json:"field" yaml:"field"`
	Opinion string  `json:"opinion" yaml:"opinion"`
	Score   float64 `json:"score" yaml:"score"`
	Date    string  `json:"date" yaml:"date"`
}
