package processor

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"job-hunter-go/internal/agent"
	"job-hunter-go/internal/constants"
	"job-hunter-go/internal/logger"
	"job-hunter-go/internal/parser"
	"job-hunter-go/internal/storage"
	"job-hunter-go/internal/types"
)

var tracer = otel.Tracer("processor")

// ResumePipeline 简历上传处理流水线
// 校验 -> 提取文本 -> 结构化 -> 规范化 -> 合并 -> 持久化
type ResumePipeline struct {
	extractor  *parser.TextExtractor
	structurer *parser.LLMStructurer
	model      *agent.OllamaChatModel // 可为nil：纯降级模式
	store      *storage.Storage
}

// PipelineResult 一次上传处理的完整结果
type PipelineResult struct {
	Profile *types.CandidateProfile
	// UsedAI 本次结构化是否真的走了模型
	UsedAI bool
	// Warnings 过程中积累的用户可见降级说明
	Warnings []string
}

// NewResumePipeline 创建简历处理流水线
func NewResumePipeline(extractor *parser.TextExtractor, structurer *parser.LLMStructurer, model *agent.OllamaChatModel, store *storage.Storage) *ResumePipeline {
	return &ResumePipeline{
		extractor:  extractor,
		structurer: structurer,
		model:      model,
		store:      store,
	}
}

// ValidateUpload 上传前置校验：扩展名白名单和大小上限
// 纯函数，handler在落盘前调用
func ValidateUpload(filename string, size int64) error {
	ext := parser.FileExtension(filename)
	if !constants.AllowedExtensions[ext] {
		return fmt.Errorf("不支持的文件格式: .%s (支持 pdf/docx/txt/json)", ext)
	}
	if size > constants.MaxUploadSize {
		return fmt.Errorf("文件超过大小上限 %dMB", constants.MaxUploadSize/(1024*1024))
	}
	if size == 0 {
		return fmt.Errorf("文件内容为空")
	}
	return nil
}

// ProcessUpload 处理已落盘的上传文件并更新主档案
// filePath是临时文件，处理结束后无论成败都会删除
func (p *ResumePipeline) ProcessUpload(ctx context.Context, filePath string, originalName string, mode types.MergeMode, useAI bool) (*PipelineResult, error) {
	ctx, span := tracer.Start(ctx, "ProcessUpload")
	defer span.End()
	defer os.Remove(filePath)

	span.SetAttributes(
		attribute.String("upload.filename", originalName),
		attribute.String("merge.mode", string(mode)),
		attribute.Bool("upload.use_ai", useAI),
	)

	log := logger.Ctx(ctx)
	result := &PipelineResult{}

	// JSON上传且已是结构化档案时跳过提取和结构化
	var extracted *types.ExtractedProfile
	if parser.FileExtension(originalName) == "json" {
		if data, err := os.ReadFile(filePath); err == nil && parser.LooksLikeProfile(data) {
			decoded, err := parser.DecodeProfileJSON(filePath)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, "JSON档案解析失败")
				return nil, err
			}
			log.Info().Str("file", originalName).Msg("JSON已是结构化档案，跳过LLM结构化")
			extracted = decoded
		}
	}

	if extracted == nil {
		// 1. 文本提取
		extractCtx, extractSpan := tracer.Start(ctx, "ExtractText")
		text, warning, err := p.extractor.Extract(extractCtx, filePath)
		extractSpan.End()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "文本提取失败")
			return nil, err
		}
		if strings.TrimSpace(text) == "" {
			err := fmt.Errorf("could not extract text from %s: %s", originalName, warning)
			span.RecordError(err)
			span.SetStatus(codes.Error, "提取结果为空")
			return nil, err
		}
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		// 2. 结构化，模型不可用或全部失败时降级为正则提取
		extracted = p.structure(ctx, text, useAI, result)
	}

	// 3. 规范化
	NormalizeExtracted(extracted)

	// 4. 合并并原子持久化
	// 整个读-改-写在存储层的锁内完成，并发上传互相不会覆盖
	var merged *types.CandidateProfile
	err := p.store.Profile.Update(func(master *types.CandidateProfile) (*types.CandidateProfile, error) {
		merged = Merge(extracted, master, mode)
		return merged, nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "更新主档案失败")
		return nil, fmt.Errorf("更新主档案失败: %w", err)
	}

	result.Profile = merged
	log.Info().
		Str("file", originalName).
		Str("mode", string(mode)).
		Bool("used_ai", result.UsedAI).
		Int("positions", len(merged.Experience)).
		Msg("简历处理完成")
	return result, nil
}

// structure 带活性探测和降级的结构化步骤
func (p *ResumePipeline) structure(ctx context.Context, text string, useAI bool, result *PipelineResult) *types.ExtractedProfile {
	ctx, span := tracer.Start(ctx, "StructureResume")
	defer span.End()

	log := logger.Ctx(ctx)

	if !useAI || p.structurer == nil || p.model == nil {
		result.Warnings = append(result.Warnings, "AI structuring disabled. Only basic extraction performed.")
		span.SetAttributes(attribute.String("structure.path", "regex"))
		return parser.FallbackExtract(text)
	}

	// 调用前先探测，服务器不在线时立即降级而不是等四次超时
	if err := p.model.Ping(ctx); err != nil {
		log.Warn().Err(err).Msg("Ollama探测失败，降级为正则提取")
		result.Warnings = append(result.Warnings, fmt.Sprintf("AI extraction failed: %v", err))
		span.SetAttributes(attribute.String("structure.path", "regex"))
		return parser.FallbackExtract(text)
	}

	extracted, sections := p.structurer.StructureResume(ctx, text)

	failed := 0
	for _, s := range sections {
		if !s.OK {
			failed++
			log.Warn().Str("section", s.Section).Str("reason", s.Warning).Msg("节提取失败")
			result.Warnings = append(result.Warnings, fmt.Sprintf("Section %q degraded: %s", s.Section, s.Warning))
		}
	}

	// 四个节全军覆没等同于模型不可用，保留原始文本兜底
	if failed == len(sections) {
		cause := sections[0].Warning
		result.Warnings = append(result.Warnings, fmt.Sprintf("AI extraction failed: %s", cause))
		span.SetAttributes(attribute.String("structure.path", "regex"))
		fallback := parser.FallbackExtract(text)
		return fallback
	}

	span.SetAttributes(attribute.String("structure.path", "llm"))
	result.UsedAI = true
	return extracted
}
