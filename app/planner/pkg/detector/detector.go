package detector

import (
	"context"
	"hash/fnv"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

// Image 上传的设施图片，Data 为原始字节，仅用作检测种子
type Image struct {
	Name     string `json:"name" yaml:"name"`
	Location string `json:"location" yaml:"location"`
	Data     []byte `json:"data" yaml:"-"`
}

// Detector 逐图检测接口
type Detector interface {
	Detect(ctx context.Context, imageID int, img Image) (model.DetectionRecord, error)
}

var (
	facilityPool = []string{
		string(model.FacilityRamp), string(model.FacilityHandrail), string(model.FacilityTactile),
		string(model.FacilityElevator), string(model.FacilityToilet), string(model.FacilityParking),
		string(model.FacilitySignage),
	}
	problemPool = []string{
		string(model.ProblemHeight), string(model.ProblemWidth), string(model.ProblemSurface),
		string(model.ProblemSlope), string(model.ProblemSlippery), string(model.ProblemLighting),
		string(model.ProblemNoHandrail),
	}
	recommendationPool = []string{
		"建议增加防滑处理",
		"宽度需扩大至1.2米",
		"建议增加夜间照明",
	}
)

// MockDetector 以图片内容为种子生成模拟检测结果，同一图片结果固定
type MockDetector struct{}

// NewMockDetector 创建模拟检测器
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// Seed 由图片内容计算随机种子
func Seed(data []byte) int64 {
	h := fnv.New32a()
	h.Write(data)
	return int64(h.Sum32() % 10000)
}

// Detect 实现 Detector 接口
func (d *MockDetector) Detect(ctx context.Context, imageID int, img Image) (model.DetectionRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.DetectionRecord{}, err
	}

	faker := gofakeit.New(Seed(img.Data))

	facilities := pick(faker, facilityPool, faker.Number(2, 4))
	problems := pick(faker, problemPool, faker.Number(1, 2))
	score := faker.Number(60, 94)
	recs := recommendationPool[:faker.Number(1, 2)]

	record := model.DetectionRecord{
		ImageID:         imageID,
		Location:        img.Location,
		ComplianceScore: score,
		Recommendations: append([]string(nil), recs...),
	}
	for _, f := range facilities {
		record.FacilitiesFound = append(record.FacilitiesFound, model.FacilityKind(f))
	}
	for _, p := range problems {
		record.ProblemsFound = append(record.ProblemsFound, model.ProblemKind(p))
	}
	return record, nil
}

// pick 不放回地抽取 n 个元素
func pick(faker *gofakeit.Faker, pool []string, n int) []string {
	shuffled := append([]string(nil), pool...)
	faker.ShuffleStrings(shuffled)
	return shuffled[:n]
}
