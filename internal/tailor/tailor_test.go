package tailor

import (
	"context"
	"fmt"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-hunter-go/internal/types"
)

// countingModel 记录调用次数并返回固定内容的测试模型
type countingModel struct {
	calls    int
	response string
	err      error
}

func (m *countingModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return &schema.Message{Role: schema.RoleType("assistant"), Content: m.response}, nil
}

func (m *countingModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *countingModel) BindTools(tools []*schema.ToolInfo) error { return nil }

func (m *countingModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

var _ model.ToolCallingChatModel = (*countingModel)(nil)

func TestTailorBulletCachesByJobID(t *testing.T) {
	m := &countingModel{response: "Engineered the data pipeline with Go"}
	tailorer := NewResumeTailor(m, nil, t.TempDir())

	bullet := &types.Bullet{ID: "bullet_001", Original: "Built the data pipeline"}
	keywords := &types.JobKeywords{RequiredSkills: []string{"Go"}}

	first, err := tailorer.TailorBullet(context.Background(), bullet, "job123", keywords)
	require.NoError(t, err)
	assert.Equal(t, "Engineered the data pipeline with Go", first)
	assert.Equal(t, 1, m.calls)
	assert.Equal(t, first, bullet.TailoredVersions["job123"], "改写结果应进缓存")

	// 同一岗位第二次定制命中缓存，不再调用模型
	second, err := tailorer.TailorBullet(context.Background(), bullet, "job123", keywords)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, m.calls, "缓存命中时不应产生新的模型调用")

	// 不同岗位是独立的缓存键
	_, err = tailorer.TailorBullet(context.Background(), bullet, "job456", keywords)
	require.NoError(t, err)
	assert.Equal(t, 2, m.calls)
}

func TestTailorBulletEmptyResponseKeepsOriginal(t *testing.T) {
	m := &countingModel{response: "   "}
	tailorer := NewResumeTailor(m, nil, t.TempDir())

	bullet := &types.Bullet{Original: "Built the data pipeline"}
	text, err := tailorer.TailorBullet(context.Background(), bullet, "job123", &types.JobKeywords{})
	require.NoError(t, err)
	assert.Equal(t, "Built the data pipeline", text)
	assert.Empty(t, bullet.TailoredVersions["job123"], "空响应不应污染缓存")
}

func TestExtractKeywords(t *testing.T) {
	m := &countingModel{response: "```json\n{\"required_skills\": [\"Go\", \"SQL\"], \"preferred_skills\": [], \"key_responsibilities\": [], \"industry_keywords\": [], \"soft_skills\": [], \"experience_years\": \"5+\", \"education_requirements\": \"BS\", \"company_values\": []}\n```"}
	tailorer := NewResumeTailor(m, nil, t.TempDir())

	keywords, err := tailorer.ExtractKeywords(context.Background(), &types.JobListing{
		Title:       "Backend Engineer",
		Company:     "Acme",
		Description: "We need Go and SQL.",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "SQL"}, keywords.RequiredSkills)
	assert.Equal(t, "5+", keywords.ExperienceYears)
}

func TestExtractKeywordsBadResponse(t *testing.T) {
	m := &countingModel{response: "I cannot analyze this posting."}
	tailorer := NewResumeTailor(m, nil, t.TempDir())

	_, err := tailorer.ExtractKeywords(context.Background(), &types.JobListing{Title: "X"})
	assert.Error(t, err)
}

func TestHighlightSkills(t *testing.T) {
	skills := &types.SkillSet{
		Technical: []string{"Go", "Python", "Rust"},
		Tools:     []string{"Docker"},
	}
	keywords := &types.JobKeywords{
		RequiredSkills:  []string{"go", "docker"},
		PreferredSkills: []string{"Kubernetes"},
	}

	highlighted := highlightSkills(skills, keywords)
	assert.Equal(t, []string{"Go", "Docker"}, highlighted, "交集匹配不区分大小写，保留档案里的写法")
}
