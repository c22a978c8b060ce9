package handler

import (
	"context"
	"fmt"

	"job-hunter-go/internal/logger"
	"job-hunter-go/internal/scraper"
	"job-hunter-go/internal/storage"
	"job-hunter-go/internal/tailor"
	"job-hunter-go/internal/typeset"
	"job-hunter-go/internal/types"
)

// JobHandler 岗位搜索、跟踪和定制
type JobHandler struct {
	store      *storage.Storage
	scraper    *scraper.JobScraper
	tailor     *tailor.ResumeTailor
	typesetter *typeset.Typesetter
}

// NewJobHandler 创建岗位处理器
func NewJobHandler(store *storage.Storage, jobScraper *scraper.JobScraper, resumeTailor *tailor.ResumeTailor, typesetter *typeset.Typesetter) *JobHandler {
	return &JobHandler{
		store:      store,
		scraper:    jobScraper,
		tailor:     resumeTailor,
		typesetter: typesetter,
	}
}

// JobSearchResponse 岗位搜索响应
type JobSearchResponse struct {
	Found int                `json:"found"`
	Saved int                `json:"saved"`
	Jobs  []types.JobListing `json:"jobs"`
}

// SearchJobs 抓取岗位并保存，重复岗位静默去重
func (h *JobHandler) SearchJobs(ctx context.Context, req scraper.SearchRequest) (*JobSearchResponse, error) {
	if h.scraper == nil {
		return nil, fmt.Errorf("岗位聚合服务未配置")
	}

	jobs, err := h.scraper.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	saved, err := h.store.Jobs.SaveJobs(ctx, jobs)
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info().
		Str("term", req.SearchTerm).
		Int("found", len(jobs)).
		Int("saved", saved).
		Msg("岗位搜索完成")

	return &JobSearchResponse{Found: len(jobs), Saved: saved, Jobs: jobs}, nil
}

// ListJobs 按条件查询已保存岗位
func (h *JobHandler) ListJobs(ctx context.Context, status string, keyword string, limit int) ([]types.JobListing, error) {
	return h.store.Jobs.ListJobs(ctx, status, keyword, limit)
}

// GetJob 查询单个岗位，不存在时返回 (nil, nil)
func (h *JobHandler) GetJob(ctx context.Context, id string) (*types.JobListing, error) {
	return h.store.Jobs.GetJob(ctx, id)
}

// UpdateJobStatus 更新岗位申请状态
func (h *JobHandler) UpdateJobStatus(ctx context.Context, id string, status string, notes string) error {
	return h.store.Jobs.UpdateStatus(ctx, id, status, notes)
}

// JobStats 已保存岗位的统计
func (h *JobHandler) JobStats(ctx context.Context) (*types.JobStats, error) {
	return h.store.Jobs.Stats(ctx)
}

// TailorResume 为岗位生成定制简历
func (h *JobHandler) TailorResume(ctx context.Context, jobID string) (*types.TailoredResume, error) {
	if h.tailor == nil {
		return nil, fmt.Errorf("简历定制功能未启用 (需要LLM)")
	}
	return h.tailor.TailorFullResume(ctx, jobID)
}

// TypesetResume 为岗位生成定制简历并排版为PDF，返回PDF路径
func (h *JobHandler) TypesetResume(ctx context.Context, jobID string) (string, error) {
	if h.typesetter == nil {
		return "", fmt.Errorf("排版功能未配置")
	}

	resume, err := h.TailorResume(ctx, jobID)
	if err != nil {
		return "", err
	}
	return h.typesetter.TypesetPDF(ctx, resume)
}
