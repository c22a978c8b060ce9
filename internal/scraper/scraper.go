package scraper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"job-hunter-go/internal/config"
	"job-hunter-go/internal/types"
	"job-hunter-go/pkg/utils"
)

// JobScraper 岗位聚合服务的HTTP客户端
// 聚合服务在各招聘站点上做实际抓取，这里只负责查询和结果落地前的整形
type JobScraper struct {
	baseURL    string
	sites      []string
	location   string
	wanted     int
	hoursOld   int
	httpClient *http.Client
	logger     *log.Logger
}

// ScraperOption 抓取客户端的配置选项
type ScraperOption func(*JobScraper)

// WithScraperLogger 配置自定义日志记录器
func WithScraperLogger(logger *log.Logger) ScraperOption {
	return func(s *JobScraper) {
		s.logger = logger
	}
}

// WithScraperHTTPClient 配置自定义HTTP客户端
func WithScraperHTTPClient(client *http.Client) ScraperOption {
	return func(s *JobScraper) {
		s.httpClient = client
	}
}

// NewJobScraper 创建抓取客户端
func NewJobScraper(cfg *config.ScraperConfig, options ...ScraperOption) *JobScraper {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	s := &JobScraper{
		baseURL:    cfg.BaseURL,
		sites:      cfg.Sites,
		location:   cfg.DefaultLocation,
		wanted:     cfg.ResultsWanted,
		hoursOld:   cfg.HoursOld,
		httpClient: &http.Client{Timeout: timeout},
		logger:     log.New(io.Discard, "", 0),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// SearchRequest 一次岗位搜索的参数
type SearchRequest struct {
	SearchTerm    string   `json:"search_term"`
	Location      string   `json:"location,omitempty"`
	Sites         []string `json:"site_name,omitempty"`
	ResultsWanted int      `json:"results_wanted,omitempty"`
	HoursOld      int      `json:"hours_old,omitempty"`
}

// 聚合服务返回的单条岗位记录
type scrapedJob struct {
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	JobURL      string  `json:"job_url"`
	MinAmount   float64 `json:"min_amount"`
	MaxAmount   float64 `json:"max_amount"`
	JobType     string  `json:"job_type"`
	DatePosted  string  `json:"date_posted"`
	Site        string  `json:"site"`
}

type searchResponse struct {
	Jobs []scrapedJob `json:"jobs"`
}

// Search 查询聚合服务并把结果整形为内部岗位记录
// ID是 title+company+url 的内容哈希，同一岗位重复抓取得到相同ID
func (s *JobScraper) Search(ctx context.Context, req SearchRequest) ([]types.JobListing, error) {
	if req.SearchTerm == "" {
		return nil, fmt.Errorf("搜索关键词不能为空")
	}
	if req.Location == "" {
		req.Location = s.location
	}
	if len(req.Sites) == 0 {
		req.Sites = s.sites
	}
	if req.ResultsWanted <= 0 {
		req.ResultsWanted = s.wanted
	}
	if req.HoursOld <= 0 {
		req.HoursOld = s.hoursOld
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("序列化搜索请求失败: %w", err)
	}

	url := s.baseURL + "/api/v1/search_jobs"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := s.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("请求岗位聚合服务失败: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取聚合服务响应失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("聚合服务返回错误状态 %d: %s", resp.StatusCode, string(body))
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("解析聚合服务响应失败: %w", err)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	jobs := make([]types.JobListing, 0, len(parsed.Jobs))
	for _, j := range parsed.Jobs {
		if j.Title == "" && j.Company == "" {
			continue
		}
		jobs = append(jobs, types.JobListing{
			ID:          utils.ContentID(j.Title, j.Company, j.JobURL),
			Title:       j.Title,
			Company:     j.Company,
			Location:    j.Location,
			Description: j.Description,
			URL:         j.JobURL,
			SalaryMin:   j.MinAmount,
			SalaryMax:   j.MaxAmount,
			JobType:     j.JobType,
			DatePosted:  j.DatePosted,
			Source:      j.Site,
			ScrapedAt:   now,
			Status:      string(types.JobStatusNew),
		})
	}

	s.logger.Printf("岗位搜索完成: %q 返回 %d 条 (用时 %.2f秒)", req.SearchTerm, len(jobs), time.Since(start).Seconds())
	return jobs, nil
}
