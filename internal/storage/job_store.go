package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"job-hunter-go/internal/types"
)

// JobStore 岗位信息的SQLite存储
type JobStore struct {
	db *sql.DB
}

// NewJobStore 打开（或创建）岗位数据库
func NewJobStore(dbPath string) (*JobStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("创建数据库目录失败: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("打开SQLite数据库失败: %w", err)
	}
	// SQLite: single writer
	db.SetMaxOpenConns(1)

	if err := initJobSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("初始化岗位表失败: %w", err)
	}
	return &JobStore{db: db}, nil
}

func initJobSchema(db *sql.DB) error {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS jobs (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL,
		company     TEXT NOT NULL,
		location    TEXT,
		description TEXT,
		url         TEXT,
		salary_min  REAL,
		salary_max  REAL,
		job_type    TEXT,
		date_posted TEXT,
		source      TEXT,
		scraped_at  TEXT NOT NULL,
		status      TEXT NOT NULL DEFAULT 'new',
		notes       TEXT
	)`)
	return err
}

// Close 关闭数据库连接
func (s *JobStore) Close() error {
	return s.db.Close()
}

// SaveJobs 批量保存抓取结果
// 主键是内容哈希，重复岗位用INSERT OR IGNORE静默跳过，返回实际新增条数
func (s *JobStore) SaveJobs(ctx context.Context, jobs []types.JobListing) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("开启事务失败: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR IGNORE INTO jobs
		 (id, title, company, location, description, url, salary_min, salary_max, job_type, date_posted, source, scraped_at, status, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("准备插入语句失败: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, job := range jobs {
		status := job.Status
		if status == "" {
			status = string(types.JobStatusNew)
		}
		scrapedAt := job.ScrapedAt
		if scrapedAt == "" {
			scrapedAt = time.Now().UTC().Format(time.RFC3339)
		}
		res, err := stmt.ExecContext(ctx,
			job.ID, job.Title, job.Company, job.Location, job.Description, job.URL,
			job.SalaryMin, job.SalaryMax, job.JobType, job.DatePosted, job.Source,
			scrapedAt, status, job.Notes)
		if err != nil {
			return 0, fmt.Errorf("插入岗位 %s 失败: %w", job.ID, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("提交事务失败: %w", err)
	}
	return inserted, nil
}

// GetJob 按ID查询单个岗位
// 不存在时返回 (nil, nil)
func (s *JobStore) GetJob(ctx context.Context, id string) (*types.JobListing, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, title, company, location, description, url, salary_min, salary_max,
		        job_type, date_posted, source, scraped_at, status, notes
		 FROM jobs WHERE id = ?`, id)
	job, err := scanJob(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("查询岗位失败: %w", err)
	}
	return job, nil
}

// ListJobs 查询岗位列表，支持按状态和关键词过滤
// keyword同时匹配标题、公司和描述，空条件返回全部（按抓取时间倒序）
func (s *JobStore) ListJobs(ctx context.Context, status string, keyword string, limit int) ([]types.JobListing, error) {
	query := `SELECT id, title, company, location, description, url, salary_min, salary_max,
	                 job_type, date_posted, source, scraped_at, status, notes
	          FROM jobs WHERE 1=1`
	var args []interface{}

	if status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}
	if keyword != "" {
		query += " AND (title LIKE ? OR company LIKE ? OR description LIKE ?)"
		like := "%" + keyword + "%"
		args = append(args, like, like, like)
	}
	query += " ORDER BY scraped_at DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("查询岗位列表失败: %w", err)
	}
	defer rows.Close()

	var jobs []types.JobListing
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("读取岗位记录失败: %w", err)
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

// UpdateStatus 更新岗位申请状态和备注
func (s *JobStore) UpdateStatus(ctx context.Context, id string, status string, notes string) error {
	if !types.ValidJobStatus(status) {
		return fmt.Errorf("无效的岗位状态: %q (可选: new, applied, interviewing, rejected, offer)", status)
	}

	res, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, notes = CASE WHEN ? != '' THEN ? ELSE notes END WHERE id = ?`,
		status, notes, notes, id)
	if err != nil {
		return fmt.Errorf("更新岗位状态失败: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("岗位不存在: %s", id)
	}
	return nil
}

// Stats 汇总岗位统计
func (s *JobStore) Stats(ctx context.Context) (*types.JobStats, error) {
	stats := &types.JobStats{
		ByStatus: make(map[string]int),
		BySource: make(map[string]int),
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs`).Scan(&stats.Total); err != nil {
		return nil, fmt.Errorf("统计岗位总数失败: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM jobs GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("按状态统计失败: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	srcRows, err := s.db.QueryContext(ctx, `SELECT COALESCE(source, ''), COUNT(*) FROM jobs GROUP BY source`)
	if err != nil {
		return nil, fmt.Errorf("按来源统计失败: %w", err)
	}
	defer srcRows.Close()
	for srcRows.Next() {
		var source string
		var count int
		if err := srcRows.Scan(&source, &count); err != nil {
			return nil, err
		}
		if source != "" {
			stats.BySource[source] = count
		}
	}
	if err := srcRows.Err(); err != nil {
		return nil, err
	}

	var last sql.NullString
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(scraped_at) FROM jobs`).Scan(&last); err == nil && last.Valid {
		stats.LastUpdated = last.String
	}
	return stats, nil
}

// scanner 兼容 *sql.Row 和 *sql.Rows 的Scan
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row scanner) (*types.JobListing, error) {
	var job types.JobListing
	var location, description, url, jobType, datePosted, source, notes sql.NullString
	var salaryMin, salaryMax sql.NullFloat64

	err := row.Scan(&job.ID, &job.Title, &job.Company, &location, &description, &url,
		&salaryMin, &salaryMax, &jobType, &datePosted, &source,
		&job.ScrapedAt, &job.Status, &notes)
	if err != nil {
		return nil, err
	}

	job.Location = location.String
	job.Description = description.String
	job.URL = url.String
	job.JobType = jobType.String
	job.DatePosted = datePosted.String
	job.Source = source.String
	job.Notes = notes.String
	job.SalaryMin = salaryMin.Float64
	job.SalaryMax = salaryMax.Float64
	return &job, nil
}
