package handler

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gofrs/uuid/v5"

	"job-hunter-go/internal/config"
	"job-hunter-go/internal/logger"
	"job-hunter-go/internal/processor"
	"job-hunter-go/internal/types"
)

// ResumeHandler 简历上传处理器，负责落盘和流水线调度
type ResumeHandler struct {
	cfg      *config.Config
	pipeline *processor.ResumePipeline
}

// NewResumeHandler 创建简历上传处理器
func NewResumeHandler(cfg *config.Config, pipeline *processor.ResumePipeline) *ResumeHandler {
	return &ResumeHandler{
		cfg:      cfg,
		pipeline: pipeline,
	}
}

// ResumeUploadResponse 简历上传响应
type ResumeUploadResponse struct {
	Status    string   `json:"status"`
	UsedAI    bool     `json:"used_ai"`
	Warnings  []string `json:"warnings,omitempty"`
	Positions int      `json:"positions"`
	Education int      `json:"education"`
}

// HandleResumeUpload 处理简历上传请求
// 文件先存到上传目录的临时文件，流水线负责处理后删除
func (h *ResumeHandler) HandleResumeUpload(ctx context.Context, reader io.Reader, fileSize int64,
	filename string, modeStr string, useAI bool) (*ResumeUploadResponse, error) {

	if err := processor.ValidateUpload(filename, fileSize); err != nil {
		return nil, err
	}

	uuidV7, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("生成UUIDv7失败: %w", err)
	}

	if err := os.MkdirAll(h.cfg.Data.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}

	ext := filepath.Ext(filename)
	tempPath := filepath.Join(h.cfg.Data.UploadDir, uuidV7.String()+ext)
	out, err := os.Create(tempPath)
	if err != nil {
		return nil, fmt.Errorf("创建临时文件失败: %w", err)
	}

	written, err := io.Copy(out, io.LimitReader(reader, fileSize+1))
	closeErr := out.Close()
	if err != nil || closeErr != nil {
		os.Remove(tempPath)
		if err == nil {
			err = closeErr
		}
		return nil, fmt.Errorf("写入临时文件失败: %w", err)
	}
	if written != fileSize {
		os.Remove(tempPath)
		return nil, fmt.Errorf("上传内容与声明的大小不一致")
	}

	mode := types.ParseMergeMode(modeStr)
	result, err := h.pipeline.ProcessUpload(ctx, tempPath, filename, mode, useAI)
	if err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info().
		Str("filename", filename).
		Bool("used_ai", result.UsedAI).
		Int("warnings", len(result.Warnings)).
		Msg("简历上传处理完成")

	return &ResumeUploadResponse{
		Status:    "ok",
		UsedAI:    result.UsedAI,
		Warnings:  result.Warnings,
		Positions: len(result.Profile.Experience),
		Education: len(result.Profile.Education),
	}, nil
}
