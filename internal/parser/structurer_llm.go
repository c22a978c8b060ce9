package parser

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"

	"job-hunter-go/internal/constants"
	"job-hunter-go/internal/types"
)

// LLMStructurer 使用LLM把线性简历文本结构化为候选人档案
// 四个节各自独立调用，单节解析失败只降级该节，不影响其它节
type LLMStructurer struct {
	llmModel model.ToolCallingChatModel
	logger   *log.Logger
}

// LLMStructurerOption 结构化器的配置选项
type LLMStructurerOption func(*LLMStructurer)

// WithStructurerLogger 配置自定义日志记录器
func WithStructurerLogger(logger *log.Logger) LLMStructurerOption {
	return func(s *LLMStructurer) {
		s.logger = logger
	}
}

// NewLLMStructurer 创建LLM结构化器
func NewLLMStructurer(llmModel model.ToolCallingChatModel, options ...LLMStructurerOption) *LLMStructurer {
	s := &LLMStructurer{
		llmModel: llmModel,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

// llmPosition LLM输出的职位条目，要点还是纯字符串，规范化时才转成带ID的结构
type llmPosition struct {
	Company   string   `json:"company"`
	Title     string   `json:"title"`
	Location  string   `json:"location"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Current   bool     `json:"current"`
	Bullets   []string `json:"bullets"`
}

// StructureResume 对简历文本做四次独立的节提取
// 返回的档案中失败的节是空默认值，SectionResult记录每一节的成败
func (s *LLMStructurer) StructureResume(ctx context.Context, text string) (*types.ExtractedProfile, []types.SectionResult) {
	profile := &types.ExtractedProfile{}
	results := make([]types.SectionResult, 0, 4)

	results = append(results, s.extractPersonal(ctx, text, profile))
	results = append(results, s.extractExperience(ctx, text, profile))
	results = append(results, s.extractEducation(ctx, text, profile))
	results = append(results, s.extractSkills(ctx, text, profile))

	return profile, results
}

func (s *LLMStructurer) extractPersonal(ctx context.Context, text string, profile *types.ExtractedProfile) types.SectionResult {
	// 个人信息在简历头部，截断长文本降低模型负担
	snippet := text
	if len(snippet) > constants.StructureTextLimit {
		snippet = snippet[:constants.StructureTextLimit]
	}

	system := "You are a resume parser. Extract the requested fields and respond with JSON only, no commentary."
	user := fmt.Sprintf(`Extract personal information from this resume text.
Return a JSON object with exactly these keys:
{"name": "", "email": "", "phone": "", "location": "", "linkedin": "", "summary": ""}
Use an empty string for anything not present.

Resume text:
%s`, snippet)

	response, err := s.callLLM(ctx, system, user)
	if err != nil {
		return types.SectionParseFailure("personal", "", fmt.Sprintf("LLM调用失败: %v", err))
	}

	jsonStr := extractJSON(response)
	if jsonStr == "" {
		return types.SectionParseFailure("personal", response, "响应中没有可解析的JSON对象")
	}

	var personal types.PersonalInfo
	if err := json.Unmarshal([]byte(jsonStr), &personal); err != nil {
		return types.SectionParseFailure("personal", response, fmt.Sprintf("JSON解析失败: %v", err))
	}

	profile.Personal = personal
	return types.SectionOK("personal")
}

func (s *LLMStructurer) extractExperience(ctx context.Context, text string, profile *types.ExtractedProfile) types.SectionResult {
	system := "You are a resume parser. Extract the requested fields and respond with JSON only, no commentary."
	user := fmt.Sprintf(`Extract all work experience entries from this resume text.
Return a JSON array where each entry has exactly these keys:
[{"company": "", "title": "", "location": "", "start_date": "YYYY-MM", "end_date": "YYYY-MM or present", "current": false, "bullets": ["achievement 1", "achievement 2"]}]
Order entries from most recent to oldest. Return [] if there is no work experience.

Resume text:
%s`, text)

	response, err := s.callLLM(ctx, system, user)
	if err != nil {
		return types.SectionParseFailure("experience", "", fmt.Sprintf("LLM调用失败: %v", err))
	}

	jsonStr := extractJSONArray(response)
	if jsonStr == "" {
		return types.SectionParseFailure("experience", response, "响应中没有可解析的JSON数组")
	}

	var positions []llmPosition
	if err := json.Unmarshal([]byte(jsonStr), &positions); err != nil {
		return types.SectionParseFailure("experience", response, fmt.Sprintf("JSON解析失败: %v", err))
	}

	for _, p := range positions {
		pos := types.Position{
			Company:   p.Company,
			Title:     p.Title,
			Location:  p.Location,
			StartDate: p.StartDate,
			EndDate:   p.EndDate,
			Current:   p.Current,
		}
		for _, b := range p.Bullets {
			pos.Bullets = append(pos.Bullets, types.Bullet{Original: b})
		}
		profile.Experience = append(profile.Experience, pos)
	}
	return types.SectionOK("experience")
}

func (s *LLMStructurer) extractEducation(ctx context.Context, text string, profile *types.ExtractedProfile) types.SectionResult {
	system := "You are a resume parser. Extract the requested fields and respond with JSON only, no commentary."
	user := fmt.Sprintf(`Extract all education entries from this resume text.
Return a JSON array where each entry has exactly these keys:
[{"institution": "", "degree": "", "field": "", "graduation_date": "", "gpa": "", "honors": []}]
Return [] if there is no education section.

Resume text:
%s`, text)

	response, err := s.callLLM(ctx, system, user)
	if err != nil {
		return types.SectionParseFailure("education", "", fmt.Sprintf("LLM调用失败: %v", err))
	}

	jsonStr := extractJSONArray(response)
	if jsonStr == "" {
		return types.SectionParseFailure("education", response, "响应中没有可解析的JSON数组")
	}

	var education []types.Education
	if err := json.Unmarshal([]byte(jsonStr), &education); err != nil {
		return types.SectionParseFailure("education", response, fmt.Sprintf("JSON解析失败: %v", err))
	}

	profile.Education = education
	return types.SectionOK("education")
}

func (s *LLMStructurer) extractSkills(ctx context.Context, text string, profile *types.ExtractedProfile) types.SectionResult {
	system := "You are a resume parser. Extract the requested fields and respond with JSON only, no commentary."
	user := fmt.Sprintf(`Extract skills from this resume text, grouped into categories.
Return a JSON object with exactly these keys:
{"technical": [], "soft": [], "tools": [], "certifications": []}
Each value is an array of skill name strings. Use [] for empty categories.

Resume text:
%s`, text)

	response, err := s.callLLM(ctx, system, user)
	if err != nil {
		return types.SectionParseFailure("skills", "", fmt.Sprintf("LLM调用失败: %v", err))
	}

	jsonStr := extractJSON(response)
	if jsonStr == "" {
		return types.SectionParseFailure("skills", response, "响应中没有可解析的JSON对象")
	}

	var skills types.SkillSet
	if err := json.Unmarshal([]byte(jsonStr), &skills); err != nil {
		return types.SectionParseFailure("skills", response, fmt.Sprintf("JSON解析失败: %v", err))
	}

	profile.Skills = skills
	return types.SectionOK("skills")
}

// callLLM 调用LLM并对瞬时错误做有限重试
func (s *LLMStructurer) callLLM(ctx context.Context, systemContent string, userContent string) (string, error) {
	messages := []*einoschema.Message{
		{Role: "system", Content: systemContent},
		{Role: "user", Content: userContent},
	}

	maxRetries := 2
	retryDelay := 2 * time.Second

	var response *einoschema.Message
	var err error

	for retry := 0; retry <= maxRetries; retry++ {
		if retry > 0 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("上下文已取消: %w", ctx.Err())
			case <-time.After(retryDelay):
				retryDelay *= 2
				s.logger.Printf("重试LLM调用 (第%d次)", retry)
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, constants.LLMCallTimeout)
		response, err = s.llmModel.Generate(callCtx, messages)
		cancel()

		if err == nil {
			break
		}

		if !isRetryableError(err) || retry >= maxRetries {
			s.logger.Printf("LLM call final error after retries: %v", err)
			return "", fmt.Errorf("LLM Generate failed: %w", err)
		}
	}

	return response.Content, nil
}

// isRetryableError 判断错误是否应该重试
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "deadline exceeded") ||
		strings.Contains(errStr, "connection reset") ||
		strings.Contains(errStr, "EOF") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "no such host")
}

// 从文本中提取JSON对象
func extractJSON(text string) string {
	// 尝试使用正则表达式提取 ```json ... ``` 代码块中的内容
	re := regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")
	matches := re.FindStringSubmatch(text)
	if len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	// 如果正则没有匹配到，寻找第一个配对完整的大括号区间作为回退
	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}

	level := 0
	for i := start; i < len(text); i++ {
		if text[i] == '{' {
			level++
		} else if text[i] == '}' {
			level--
			if level == 0 {
				return strings.TrimSpace(text[start : i+1])
			}
		}
	}
	return ""
}

// 从文本中提取JSON数组
func extractJSONArray(text string) string {
	re := regexp.MustCompile("(?s)```json\\s*(\\[.*?\\])\\s*```")
	matches := re.FindStringSubmatch(text)
	if len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

	start := strings.Index(text, "[")
	if start == -1 {
		return ""
	}

	level := 0
	for i := start; i < len(text); i++ {
		if text[i] == '[' {
			level++
		} else if text[i] == ']' {
			level--
			if level == 0 {
				return strings.TrimSpace(text[start : i+1])
			}
		}
	}
	return ""
}
