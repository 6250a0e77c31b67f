package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/zhujingtong/app/planner/pkg/config"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/detector"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/engine"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/export"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/logger"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/narrative"
	"github.com/iWorld-y/zhujingtong/app/planner/pkg/storage"
)

// Input 批处理输入文件
type Input struct {
	Community *model.CommunityData    `yaml:"community"`
	Images    []ImageInput            `yaml:"images"`
	Records   []model.DetectionRecord `yaml:"records"` // 非空时跳过图片检测
	Params    model.PlanParameters    `yaml:"params"`
	Edits     []EditInput             `yaml:"edits"`
}

// ImageInput 图片路径相对输入文件所在目录
type ImageInput struct {
	Name     string `yaml:"name"`
	Path     string `yaml:"path"`
	Location string `yaml:"location"`
}

// EditInput 生成方案后的项目调整
type EditInput struct {
	Index    int             `yaml:"index"`
	Priority *model.Priority `yaml:"priority"`
	Cost     *float64        `yaml:"cost"`
}

// Output 输出的 JSON 文件内容
type Output struct {
	ReportID int            `json:"report_id,omitempty"`
	Report   *model.Report  `json:"report"`
	Export   *export.Result `json:"export,omitempty"`
}

var (
	flagConf   string
	flagInput  string
	flagOut    string
	flagFormat string
	flagHTML   string
)

func init() {
	flag.StringVar(&flagConf, "conf", "configs/config.yaml", "config path")
	flag.StringVar(&flagInput, "input", "configs/input.example.yaml", "community input path")
	flag.StringVar(&flagOut, "out", "report.json", "output path")
	flag.StringVar(&flagFormat, "format", "", "export format: pdf|docx|drawing")
	flag.StringVar(&flagHTML, "html", "", "optional html report path, eg: output/index.html")
}

func main() {
	flag.Parse()

	// 1. 加载配置
	cfg, err := config.LoadConfig(flagConf)
	if err != nil {
		log.Fatalf("无法加载配置文件: %v", err)
	}

	// 2. 初始化日志
	if err = logger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.Fatalf("无法初始化日志: %v", err)
	}
	logger.Log.Info("启动无障碍改造规划...")

	in, err := loadInput(flagInput)
	if err != nil {
		logger.Log.Fatalf("无法读取输入文件: %v", err)
	}

	ctx := context.Background()

	// 3. 初始化存储，数据库不可用时退回内存存储
	store := openStore(cfg)
	defer store.Close()

	// 4. 初始化摘要生成器
	var narrator narrative.Narrator = narrative.NewTemplateNarrator()
	if cfg.LLM.Enabled() {
		llm, err := narrative.NewLLMNarrator(ctx, cfg.LLM, cfg.Concurrency)
		if err != nil {
			logger.Log.Errorf("LLM 初始化失败，使用模板摘要: %v", err)
		} else {
			narrator = llm
		}
	}

	eng, err := engine.NewEngine(cfg, detector.NewMockDetector(), export.NewStubExporter(narrator))
	if err != nil {
		logger.Log.Fatalf("引擎初始化失败: %v", err)
	}

	out, err := run(ctx, eng, store, in)
	if err != nil {
		logger.Log.Fatalf("规划失败: %v", err)
	}

	if err := writeOutput(flagOut, out); err != nil {
		logger.Log.Fatalf("写入结果失败: %v", err)
	}
	logger.Log.Infof("报告已生成: %s", flagOut)

	if flagHTML != "" {
		if err := writeHTML(ctx, flagHTML, narrator, out.Report); err != nil {
			logger.Log.Errorf("生成 HTML 报告失败: %v", err)
		} else {
			logger.Log.Infof("HTML 报告: %s", flagHTML)
		}
	}
}

func run(ctx context.Context, eng *engine.Engine, store storage.Store, in *Input) (*Output, error) {
	// 5. 检测与汇总
	var analysis *model.AnalysisResult
	var err error
	if len(in.Records) > 0 {
		analysis, err = eng.Summarize(in.Records)
	} else {
		images, loadErr := in.loadImages(filepath.Dir(flagInput))
		if loadErr != nil {
			return nil, loadErr
		}
		bar := progressbar.Default(100, "分析设施图片")
		analysis, err = eng.Analyze(ctx, images, engine.AnalyzeOptions{
			ProgressCallback: func(status string, progress int) {
				_ = bar.Set(progress)
			},
		})
		_ = bar.Finish()
	}
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}

	// 6. 生成并调整方案
	if err := eng.ValidateParameters(in.Params); err != nil {
		return nil, err
	}
	plan, err := eng.Plan(analysis, in.Params)
	if err != nil {
		return nil, err
	}
	for _, e := range in.Edits {
		if err := eng.Edit(plan, e.Index, engine.ProjectEdit{Priority: e.Priority, Cost: e.Cost}); err != nil {
			return nil, fmt.Errorf("edit project %d: %w", e.Index, err)
		}
	}

	// 7. 编译报告
	report, err := eng.Compile(in.Community, analysis, plan)
	if err != nil {
		return nil, err
	}
	out := &Output{Report: report}

	if flagFormat != "" {
		res, err := eng.Export(ctx, report, flagFormat)
		if err != nil {
			return nil, err
		}
		out.Export = res
		logger.Log.Info(res.Message)
	}

	id, err := store.SaveReport(ctx, report)
	if err != nil {
		logger.Log.Errorf("保存报告失败: %v", err)
	} else {
		out.ReportID = id
		logger.Log.Infof("报告已保存，ID: %d", id)
	}
	return out, nil
}

func openStore(cfg *config.Config) storage.Store {
	if cfg.DB.Host == "" {
		logger.Log.Info("未配置数据库信息，报告仅保存在内存中")
		return storage.NewMemoryStore()
	}
	s, err := storage.Open(storage.DriverPostgres, cfg.DB.DSN())
	if err != nil {
		logger.Log.Errorf("无法连接数据库: %v. 报告仅保存在内存中。", err)
		return storage.NewMemoryStore()
	}
	logger.Log.Info("已成功连接到数据库")
	return s
}

func loadInput(path string) (*Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var in Input
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, err
	}
	if len(in.Images) == 0 && len(in.Records) == 0 {
		return nil, fmt.Errorf("input has neither images nor records")
	}
	return &in, nil
}

func (in *Input) loadImages(dir string) ([]detector.Image, error) {
	images := make([]detector.Image, 0, len(in.Images))
	for _, img := range in.Images {
		path := img.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read image %s: %w", img.Path, err)
		}
		name := img.Name
		if name == "" {
			name = filepath.Base(img.Path)
		}
		images = append(images, detector.Image{Name: name, Location: img.Location, Data: data})
	}
	return images, nil
}

func writeOutput(path string, out *Output) error {
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	if out.Export != nil && out.Export.Preview != "" {
		mdPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".md"
		if err := os.WriteFile(mdPath, []byte(out.Export.Preview), 0o644); err != nil {
			return err
		}
		logger.Log.Infof("Markdown 预览: %s", mdPath)
	}
	return nil
}

func writeHTML(ctx context.Context, path string, n narrative.Narrator, report *model.Report) error {
	summary, err := n.Summarize(ctx, report)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return export.WriteHTML(f, report, summary)
}
