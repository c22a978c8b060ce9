package parser

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
)

// StrategyStatus 单个提取策略的结果标签
// "后端不可用"与"跑了但没有产出"对外表现相同，诊断上必须可区分
type StrategyStatus int

const (
	// StrategyOK 提取成功且有非空文本
	StrategyOK StrategyStatus = iota
	// StrategyUnavailable 后端未配置或未安装，根本没有运行
	StrategyUnavailable
	// StrategyEmpty 后端运行了，但没有提取到任何文本
	StrategyEmpty
	// StrategyFailed 后端运行出错
	StrategyFailed
)

// StrategyOutcome 单个提取策略的带标签结果
type StrategyOutcome struct {
	Status StrategyStatus
	Text   string
	Detail string // 失败或为空时的诊断信息
}

// extractStrategy 一个具名的文本提取策略
type extractStrategy struct {
	Name string
	Run  func(ctx context.Context, path string) StrategyOutcome
}

// TextExtractor 按扩展名分发到各格式策略的文本提取器
// PDF/DOCX 各自持有一条有序策略链：主后端失败或为空时落到备用后端
type TextExtractor struct {
	tika   *TikaExtractor     // 可为nil：未配置Tika服务器
	eino   *EinoPDFExtractor  // 可为nil：本地PDF后端初始化失败
	logger *log.Logger
}

// TextExtractorOption 文本提取器的配置选项
type TextExtractorOption func(*TextExtractor)

// WithTika 配置Tika主后端
func WithTika(tika *TikaExtractor) TextExtractorOption {
	return func(e *TextExtractor) {
		e.tika = tika
	}
}

// WithEinoPDF 配置本地PDF备用后端
func WithEinoPDF(eino *EinoPDFExtractor) TextExtractorOption {
	return func(e *TextExtractor) {
		e.eino = eino
	}
}

// WithExtractorLogger 配置自定义日志记录器
func WithExtractorLogger(logger *log.Logger) TextExtractorOption {
	return func(e *TextExtractor) {
		e.logger = logger
	}
}

// NewTextExtractor 创建文本提取器
func NewTextExtractor(options ...TextExtractorOption) *TextExtractor {
	e := &TextExtractor{
		logger: log.New(io.Discard, "", 0),
	}
	for _, option := range options {
		option(e)
	}
	return e
}

// FileExtension 返回文件名最后一个'.'之后的小写扩展名
func FileExtension(filename string) string {
	ext := filepath.Ext(filename)
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// Extract 从文件中提取线性文本
// 返回 (文本, 警告, 错误)：可恢复的降级以警告形式附在结果上，
// 不支持的扩展名是硬错误
func (e *TextExtractor) Extract(ctx context.Context, path string) (string, string, error) {
	switch FileExtension(path) {
	case "pdf":
		text, warning := e.runChain(ctx, path, []extractStrategy{
			{Name: "tika", Run: e.tikaStrategy("application/pdf")},
			{Name: "eino-pdf", Run: e.einoStrategy},
		})
		return text, warning, nil
	case "docx":
		text, warning := e.runChain(ctx, path, []extractStrategy{
			{Name: "tika", Run: e.tikaStrategy("application/vnd.openxmlformats-officedocument.wordprocessingml.document")},
			{Name: "ooxml", Run: ooxmlStrategy},
		})
		return text, warning, nil
	case "txt":
		text, warning := extractPlainText(path)
		return text, warning, nil
	case "json":
		return extractJSONPreview(path)
	default:
		return "", "", fmt.Errorf("不支持的文件格式: %s", FileExtension(path))
	}
}

// runChain 按顺序尝试策略，遇到第一个非空成功即停止
// 链条耗尽时返回空文本和描述性警告，每个策略的标签结果都会记录下来
func (e *TextExtractor) runChain(ctx context.Context, path string, strategies []extractStrategy) (string, string) {
	var attempts []string
	for _, s := range strategies {
		outcome := s.Run(ctx, path)
		switch outcome.Status {
		case StrategyOK:
			return outcome.Text, ""
		case StrategyUnavailable:
			e.logger.Printf("[%s] 后端不可用: %s", s.Name, outcome.Detail)
			attempts = append(attempts, fmt.Sprintf("%s: unavailable", s.Name))
		case StrategyEmpty:
			e.logger.Printf("[%s] 后端运行但输出为空: %s", s.Name, outcome.Detail)
			attempts = append(attempts, fmt.Sprintf("%s: empty output", s.Name))
		case StrategyFailed:
			e.logger.Printf("[%s] 后端出错: %s", s.Name, outcome.Detail)
			attempts = append(attempts, fmt.Sprintf("%s: %s", s.Name, outcome.Detail))
		}
	}
	warning := fmt.Sprintf("Could not extract text (may be image-based or protected). Attempts: %s",
		strings.Join(attempts, "; "))
	return "", warning
}

// tikaStrategy 把Tika后端包装成一个提取策略
func (e *TextExtractor) tikaStrategy(contentType string) func(ctx context.Context, path string) StrategyOutcome {
	return func(ctx context.Context, path string) StrategyOutcome {
		if e.tika == nil {
			return StrategyOutcome{Status: StrategyUnavailable, Detail: "Tika服务器未配置"}
		}
		text, err := e.tika.ExtractFile(ctx, path, contentType)
		if err != nil {
			return StrategyOutcome{Status: StrategyFailed, Detail: err.Error()}
		}
		if strings.TrimSpace(text) == "" {
			return StrategyOutcome{Status: StrategyEmpty, Detail: "Tika返回了空文本"}
		}
		return StrategyOutcome{Status: StrategyOK, Text: strings.TrimSpace(text)}
	}
}

// einoStrategy 把本地eino PDF解析器包装成一个提取策略
func (e *TextExtractor) einoStrategy(ctx context.Context, path string) StrategyOutcome {
	if e.eino == nil {
		return StrategyOutcome{Status: StrategyUnavailable, Detail: "本地PDF解析器未初始化"}
	}
	text, err := e.eino.ExtractFile(ctx, path)
	if err != nil {
		return StrategyOutcome{Status: StrategyFailed, Detail: err.Error()}
	}
	if strings.TrimSpace(text) == "" {
		return StrategyOutcome{Status: StrategyEmpty, Detail: "解析器返回了空文本"}
	}
	return StrategyOutcome{Status: StrategyOK, Text: strings.TrimSpace(text)}
}
