package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
log:
  level: debug
db:
  host: db.local
  user: planner
  name: zhujingtong
planner:
  budget_min: 20
  budget_max: 300
feedback:
  min_entries: 5
  target_responses: 80
experts:
  - expert: 王教授
    field: 无障碍设计
    opinion: 建议增加触觉引导系统的设计
    score: 8.5
    date: "2024-01-15"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
	if cfg.DB.Port != 5432 {
		t.Errorf("DB.Port = %d, want default 5432", cfg.DB.Port)
	}
	if cfg.Planner.BudgetMin != 20 || cfg.Planner.BudgetMax != 300 {
		t.Errorf("Planner = %+v", cfg.Planner)
	}
	if cfg.Feedback.MinEntries != 5 {
		t.Errorf("Feedback.MinEntries = %d, want 5", cfg.Feedback.MinEntries)
	}
	if cfg.Feedback.TargetResponses != 80 || cfg.Feedback.TargetSatisfaction != 4.5 {
		t.Errorf("Feedback targets = %+v, want 80 and default 4.5", cfg.Feedback)
	}
	if len(cfg.Experts) != 1 || cfg.Experts[0].Score != 8.5 || cfg.Experts[0].Date != "2024-01-15" {
		t.Errorf("Experts = %+v", cfg.Experts)
	}
	want := "host=db.local port=5432 user=planner password= dbname=zhujingtong sslmode=disable"
	if got := cfg.DB.DSN(); got != want {
		t.Errorf("DSN() = %q, want %q", got, want)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, "llm:\n  model: qwen\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
	if cfg.Planner.BudgetMin != 10 || cfg.Planner.BudgetMax != 500 {
		t.Errorf("Planner = %+v, want 10..500", cfg.Planner)
	}
	if cfg.Feedback.MinEntries != 3 {
		t.Errorf("Feedback.MinEntries = %d, want 3", cfg.Feedback.MinEntries)
	}
	if cfg.LLM.Enabled() {
		t.Error("LLM should be disabled without base_url")
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := writeConfig(t, "db:\n  password: from-file\n")
	t.Setenv(EnvDBPassword, "from-env")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.DB.Password != "from-env" {
		t.Errorf("DB.Password = %q, want from-env", cfg.DB.Password)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want warn", cfg.Log.Level)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("LoadConfig() on missing file should fail")
	}
}
