package tailor

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	einoschema "github.com/cloudwego/eino/schema"

	"job-hunter-go/internal/constants"
	"job-hunter-go/internal/storage"
	"job-hunter-go/internal/types"
)

// ResumeTailor 针对具体岗位定制简历
// 主档案是唯一事实来源，定制结果是只读投影，唯一写回的是要点改写缓存
type ResumeTailor struct {
	llmModel model.ToolCallingChatModel
	store    *storage.Storage
	output   string
	logger   *log.Logger
}

// TailorOption 定制器的配置选项
type TailorOption func(*ResumeTailor)

// WithTailorLogger 配置自定义日志记录器
func WithTailorLogger(logger *log.Logger) TailorOption {
	return func(t *ResumeTailor) {
		t.logger = logger
	}
}

// NewResumeTailor 创建简历定制器
func NewResumeTailor(llmModel model.ToolCallingChatModel, store *storage.Storage, outputDir string, options ...TailorOption) *ResumeTailor {
	t := &ResumeTailor{
		llmModel: llmModel,
		store:    store,
		output:   outputDir,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, option := range options {
		option(t)
	}
	return t
}

// ExtractKeywords 从岗位描述中提取结构化关键词
func (t *ResumeTailor) ExtractKeywords(ctx context.Context, job *types.JobListing) (*types.JobKeywords, error) {
	system := "You are a job description analyst. Respond with JSON only, no commentary."
	user := fmt.Sprintf(`Analyze this job posting and extract keywords.
Return a JSON object with exactly these keys:
{"required_skills": [], "preferred_skills": [], "key_responsibilities": [], "industry_keywords": [], "soft_skills": [], "experience_years": "", "education_requirements": "", "company_values": []}

Job title: %s
Company: %s
Description:
%s`, job.Title, job.Company, job.Description)

	response, err := t.callLLM(ctx, system, user)
	if err != nil {
		return nil, fmt.Errorf("关键词提取调用失败: %w", err)
	}

	jsonStr := extractJSONObject(response)
	if jsonStr == "" {
		return nil, fmt.Errorf("关键词响应中没有可解析的JSON")
	}

	var keywords types.JobKeywords
	if err := json.Unmarshal([]byte(jsonStr), &keywords); err != nil {
		return nil, fmt.Errorf("关键词JSON解析失败: %w", err)
	}
	return &keywords, nil
}

// TailorBullet 针对岗位改写单条要点
// 改写结果按岗位ID缓存在要点上，同一岗位再次定制不重复调用模型
func (t *ResumeTailor) TailorBullet(ctx context.Context, bullet *types.Bullet, jobID string, keywords *types.JobKeywords) (string, error) {
	if cached, ok := bullet.TailoredVersions[jobID]; ok && cached != "" {
		return cached, nil
	}

	allSkills := append(append([]string{}, keywords.RequiredSkills...), keywords.PreferredSkills...)
	system := "You are a resume writer. Respond with the rewritten bullet text only, one line, no quotes or commentary."
	user := fmt.Sprintf(`Rewrite this resume bullet to emphasize relevance to the target job.
Keep it truthful, keep all facts and metrics, and naturally weave in matching keywords where honest.

Target keywords: %s
Original bullet: %s`, strings.Join(allSkills, ", "), bullet.Original)

	response, err := t.callLLM(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("要点改写调用失败: %w", err)
	}

	tailored := strings.TrimSpace(strings.Trim(strings.TrimSpace(response), `"`))
	if tailored == "" {
		// 模型给了空响应就保留原文，不缓存失败结果
		return bullet.Original, nil
	}

	if bullet.TailoredVersions == nil {
		bullet.TailoredVersions = map[string]string{}
	}
	bullet.TailoredVersions[jobID] = tailored
	return tailored, nil
}

// TailorSummary 针对岗位改写个人总结
func (t *ResumeTailor) TailorSummary(ctx context.Context, summary string, job *types.JobListing, keywords *types.JobKeywords) (string, error) {
	system := "You are a resume writer. Respond with the rewritten summary only, 2-3 sentences, no commentary."
	user := fmt.Sprintf(`Rewrite this professional summary for the target job. Keep it truthful and concise.

Target job: %s at %s
Key requirements: %s
Original summary: %s`,
		job.Title, job.Company, strings.Join(keywords.RequiredSkills, ", "), summary)

	response, err := t.callLLM(ctx, system, user)
	if err != nil {
		return "", fmt.Errorf("总结改写调用失败: %w", err)
	}
	tailored := strings.TrimSpace(response)
	if tailored == "" {
		return summary, nil
	}
	return tailored, nil
}

// TailorFullResume 为指定岗位生成完整的定制简历
// 主档案被加载、要点缓存被更新后写回，定制输出另存为独立JSON
func (t *ResumeTailor) TailorFullResume(ctx context.Context, jobID string) (*types.TailoredResume, error) {
	job, err := t.store.Jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, fmt.Errorf("岗位不存在: %s", jobID)
	}

	profile, err := t.store.Profile.Load()
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("主档案尚未建立，请先上传简历")
	}

	keywords, err := t.ExtractKeywords(ctx, job)
	if err != nil {
		return nil, err
	}

	summary := profile.Personal.Summary
	if summary != "" {
		if tailored, err := t.TailorSummary(ctx, summary, job, keywords); err == nil {
			summary = tailored
		} else {
			t.logger.Printf("总结改写失败，保留原文: %v", err)
		}
	}

	result := &types.TailoredResume{
		JobID:             job.ID,
		JobTitle:          job.Title,
		Company:           job.Company,
		Personal:          profile.Personal,
		Summary:           summary,
		Education:         profile.Education,
		Skills:            profile.Skills,
		SkillsHighlighted: highlightSkills(&profile.Skills, keywords),
		KeywordsExtracted: *keywords,
		CreatedAt:         time.Now().UTC().Format(time.RFC3339),
	}

	cacheDirty := false
	for i := range profile.Experience {
		pos := &profile.Experience[i]
		tp := types.TailoredPosition{
			Company:   pos.Company,
			Title:     pos.Title,
			Location:  pos.Location,
			StartDate: pos.StartDate,
			EndDate:   pos.EndDate,
		}
		for j := range pos.Bullets {
			b := &pos.Bullets[j]
			hadCache := b.TailoredVersions[job.ID] != ""
			text, err := t.TailorBullet(ctx, b, job.ID, keywords)
			if err != nil {
				t.logger.Printf("要点 %s 改写失败，保留原文: %v", b.ID, err)
				text = b.Original
			} else if !hadCache && b.TailoredVersions[job.ID] != "" {
				cacheDirty = true
			}
			tp.Bullets = append(tp.Bullets, text)
		}
		result.Experience = append(result.Experience, tp)
	}

	// 新增的改写缓存写回主档案，下次同岗位定制直接命中
	if cacheDirty {
		if err := t.store.Profile.Save(profile); err != nil {
			t.logger.Printf("改写缓存写回失败: %v", err)
		}
	}

	if err := t.SaveTailored(result); err != nil {
		return nil, err
	}
	return result, nil
}

// SaveTailored 把定制结果保存到输出目录
func (t *ResumeTailor) SaveTailored(resume *types.TailoredResume) error {
	if err := os.MkdirAll(t.output, 0o755); err != nil {
		return fmt.Errorf("创建输出目录失败: %w", err)
	}
	data, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化定制简历失败: %w", err)
	}
	path := filepath.Join(t.output, fmt.Sprintf("tailored_%s.json", resume.JobID))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("写入定制简历失败: %w", err)
	}
	return nil
}

// highlightSkills 返回档案技能与岗位要求的交集，大小写不敏感
func highlightSkills(skills *types.SkillSet, keywords *types.JobKeywords) []string {
	wanted := make(map[string]struct{})
	for _, s := range keywords.RequiredSkills {
		wanted[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}
	for _, s := range keywords.PreferredSkills {
		wanted[strings.ToLower(strings.TrimSpace(s))] = struct{}{}
	}

	var highlighted []string
	for _, cat := range types.SkillCategories {
		for _, skill := range skills.Category(cat) {
			if _, ok := wanted[strings.ToLower(strings.TrimSpace(skill))]; ok {
				highlighted = append(highlighted, skill)
			}
		}
	}
	return highlighted
}

// callLLM 单次模型调用
func (t *ResumeTailor) callLLM(ctx context.Context, systemContent string, userContent string) (string, error) {
	if t.llmModel == nil {
		return "", fmt.Errorf("LLM模型未配置")
	}

	messages := []*einoschema.Message{
		{Role: "system", Content: systemContent},
		{Role: "user", Content: userContent},
	}

	callCtx, cancel := context.WithTimeout(ctx, constants.LLMCallTimeout)
	defer cancel()

	response, err := t.llmModel.Generate(callCtx, messages)
	if err != nil {
		return "", fmt.Errorf("LLM Generate failed: %w", err)
	}
	return response.Content, nil
}

// 从文本中提取JSON对象
func extractJSONObject(text string) string {
	re := regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")
	matches := re.FindStringSubmatch(text)
	if len(matches) > 1 {
		return strings.TrimSpace(matches[1])
	}

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
