package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

// Config 项目配置结构体
type Config struct {
	Log         LogConfig         `yaml:"log"`
	LLM         LLMConfig         `yaml:"llm"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	DB          DBConfig          `yaml:"db"`
	Planner     PlannerConfig     `yaml:"planner"`
	Feedback    FeedbackConfig    `yaml:"feedback"`
	Votes       VoteConfig        `yaml:"votes"`
	// Experts 新会话预置的专家评审意见
	Experts []model.ExpertOpinion `yaml:"experts"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// LLMConfig LLM 相关配置，BaseURL 为空时使用模板生成摘要
type LLMConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	Model   string `yaml:"model"`
}

// Enabled 是否配置了 LLM
func (c LLMConfig) Enabled() bool {
	return c.BaseURL != "" && c.Model != ""
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// DBConfig 数据库相关配置，Host 为空时使用内存存储
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
}

// DSN 返回 lib/pq 连接串
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.Host, c.Port, c.User, c.Password, c.Name)
}

// PlannerConfig 规划参数边界
type PlannerConfig struct {
	BudgetMin float64 `yaml:"budget_min"`
	BudgetMax float64 `yaml:"budget_max"`
}

// FeedbackConfig 反馈统计配置
type FeedbackConfig struct {
	MinEntries         int     `yaml:"min_entries"`
	TargetResponses    int     `yaml:"target_responses"`    // 参与度目标：反馈人数
	TargetSatisfaction float64 `yaml:"target_satisfaction"` // 参与度目标：平均满意度（5分制）
}

// VoteConfig 在线投票议题，为空时使用默认议题
type VoteConfig struct {
	Topics []string `yaml:"topics"`
}

// Default 返回带默认值的配置
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Concurrency: ConcurrencyConfig{
			QPS: 1,
			RPM: 30,
		},
		DB: DBConfig{Port: 5432},
		Planner: PlannerConfig{
			BudgetMin: 10,
			BudgetMax: 500,
		},
		Feedback: FeedbackConfig{
			MinEntries:         3,
			TargetResponses:    50,
			TargetSatisfaction: 4.5,
		},
	}
}

// LoadConfig 从指定路径加载配置
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	cfg.fillDefaults()
	ApplyEnv(cfg)

	return cfg, nil
}

// 环境变量覆盖项
const (
	EnvLogLevel   = "PLANNER_LOG_LEVEL"
	EnvLLMAPIKey  = "PLANNER_LLM_API_KEY"
	EnvDBHost     = "PLANNER_DB_HOST"
	EnvDBPassword = "PLANNER_DB_PASSWORD"
)

// ApplyEnv 加载 .env 文件（若存在）并用环境变量覆盖敏感配置
func ApplyEnv(cfg *Config) {
	for _, path := range []string{"configs/.env", ".env"} {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				break
			}
		}
	}

	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv(EnvLLMAPIKey); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv(EnvDBHost); v != "" {
		cfg.DB.Host = v
	}
	if v := os.Getenv(EnvDBPassword); v != "" {
		cfg.DB.Password = v
	}
}

// yaml 中显式写 0 的字段回退到默认值
func (c *Config) fillDefaults() {
	def := Default()
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Concurrency.QPS <= 0 {
		c.Concurrency.QPS = def.Concurrency.QPS
	}
	if c.Concurrency.RPM <= 0 {
		c.Concurrency.RPM = def.Concurrency.RPM
	}
	if c.DB.Port == 0 {
		c.DB.Port = def.DB.Port
	}
	if c.Planner.BudgetMin <= 0 {
		c.Planner.BudgetMin = def.Planner.BudgetMin
	}
	if c.Planner.BudgetMax <= c.Planner.BudgetMin {
		c.Planner.BudgetMax = def.Planner.BudgetMax
	}
	if c.Feedback.MinEntries <= 0 {
		c.Feedback.MinEntries = def.Feedback.MinEntries
	}
	if c.Feedback.TargetResponses <= 0 {
		c.Feedback.TargetResponses = def.Feedback.TargetResponses
	}
	if c.Feedback.TargetSatisfaction <= 0 {
		c.Feedback.TargetSatisfaction = def.Feedback.TargetSatisfaction
	}
}
