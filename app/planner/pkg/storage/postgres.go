package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"github.com/iWorld-y/zhujingtong/app/planner/pkg/model"
)

// PostgresStore 将报告以 JSONB 形式保存到 PostgreSQL
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore 连接数据库并初始化表结构
func NewPostgresStore(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// Close 关闭连接
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) initSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS saved_reports (
		id SERIAL PRIMARY KEY,
		title TEXT NOT NULL,
		overall_score DOUBLE PRECISION,
		project_count INTEGER,
		total_cost DOUBLE PRECISION,
		payload JSONB NOT NULL,
		generated_at TIMESTAMP NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

// SaveReport 追加一份报告
func (s *PostgresStore) SaveReport(ctx context.Context, report *model.Report) (int, error) {
	if report == nil {
		return 0, fmt.Errorf("report is required")
	}
	payload, err := json.Marshal(report)
	if err != nil {
		return 0, fmt.Errorf("marshal report: %w", err)
	}
	// jsonb 不接受 \u0000 转义
	doc := strings.ReplaceAll(string(payload), `\u0000`, "")

	sum := Summarize(0, report)
	var id int
	err = s.db.QueryRowContext(ctx,
		`INSERT INTO saved_reports (title, overall_score, project_count, total_cost, payload, generated_at)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		sum.Title, sum.OverallScore, sum.ProjectCount, sum.TotalCost, doc, report.GeneratedAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// ListReports 按保存时间倒序分页
func (s *PostgresStore) ListReports(ctx context.Context, page, pageSize int) ([]*model.ReportSummary, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM saved_reports`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, overall_score, project_count, total_cost, generated_at
		 FROM saved_reports ORDER BY id DESC LIMIT $1 OFFSET $2`,
		pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*model.ReportSummary
	for rows.Next() {
		var (
			sum model.ReportSummary
			ts  sql.NullTime
		)
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.OverallScore, &sum.ProjectCount, &sum.TotalCost, &ts); err != nil {
			return nil, 0, err
		}
		if ts.Valid {
			sum.GeneratedAt = ts.Time.Format("2006-01-02 15:04:05")
		}
		out = append(out, &sum)
	}
	return out, total, rows.Err()
}

// GetReport 按 ID 获取报告
func (s *PostgresStore) GetReport(ctx context.Context, id int) (*model.Report, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM saved_reports WHERE id = $1`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var report model.Report
	if err := json.Unmarshal(payload, &report); err != nil {
		return nil, fmt.Errorf("unmarshal report %d: %w", id, err)
	}
	return &report, nil
}
