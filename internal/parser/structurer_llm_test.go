package parser

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedModel 按用户提示词内容返回预设响应的测试模型
type scriptedModel struct {
	respond func(userContent string) (string, error)
}

func (m *scriptedModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	user := ""
	for _, msg := range messages {
		if msg.Role == schema.RoleType("user") {
			user = msg.Content
		}
	}
	content, err := m.respond(user)
	if err != nil {
		return nil, err
	}
	return &schema.Message{Role: schema.RoleType("assistant"), Content: content}, nil
}

func (m *scriptedModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("not implemented")
}

func (m *scriptedModel) BindTools(tools []*schema.ToolInfo) error { return nil }

func (m *scriptedModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	return m, nil
}

var _ model.ToolCallingChatModel = (*scriptedModel)(nil)

func TestExtractJSONFromCodeBlock(t *testing.T) {
	text := "Here is the result:\n```json\n{\"name\": \"Jane\"}\n```\nDone."
	assert.Equal(t, `{"name": "Jane"}`, extractJSON(text))
}

func TestExtractJSONBraceScan(t *testing.T) {
	// 没有代码块标记时回退到大括号配对扫描
	text := `Sure! The answer is {"a": {"b": 1}, "c": 2} hope that helps`
	assert.Equal(t, `{"a": {"b": 1}, "c": 2}`, extractJSON(text))
}

func TestExtractJSONNoJSON(t *testing.T) {
	assert.Equal(t, "", extractJSON("I could not parse the resume, sorry."))
}

func TestExtractJSONArrayBracketScan(t *testing.T) {
	text := `Result: [{"company": "A"}, {"company": "B"}] end`
	assert.Equal(t, `[{"company": "A"}, {"company": "B"}]`, extractJSONArray(text))
}

func TestExtractJSONArrayFromCodeBlock(t *testing.T) {
	text := "```json\n[{\"institution\": \"U\"}]\n```"
	assert.Equal(t, `[{"institution": "U"}]`, extractJSONArray(text))
}

func TestStructureResumeAllSectionsOK(t *testing.T) {
	m := &scriptedModel{respond: func(user string) (string, error) {
		switch {
		case strings.Contains(user, "personal information"):
			return `{"name": "Jane Doe", "email": "jane@example.com", "phone": "", "location": "NYC", "linkedin": "", "summary": "Engineer"}`, nil
		case strings.Contains(user, "work experience"):
			return `[{"company": "Acme", "title": "Engineer", "location": "", "start_date": "2021-03", "end_date": "present", "current": true, "bullets": ["Did X", "Did Y"]}]`, nil
		case strings.Contains(user, "education entries"):
			return `[{"institution": "State University", "degree": "BS", "field": "CS", "graduation_date": "2018-05", "gpa": "", "honors": []}]`, nil
		default:
			return `{"technical": ["Go"], "soft": [], "tools": ["Docker"], "certifications": []}`, nil
		}
	}}

	s := NewLLMStructurer(m)
	profile, results := s.StructureResume(context.Background(), "resume text")

	require.Len(t, results, 4)
	for _, r := range results {
		assert.True(t, r.OK, "节 %s 应成功", r.Section)
	}

	assert.Equal(t, "Jane Doe", profile.Personal.Name)
	require.Len(t, profile.Experience, 1)
	assert.Equal(t, "Acme", profile.Experience[0].Company)
	require.Len(t, profile.Experience[0].Bullets, 2)
	assert.Equal(t, "Did X", profile.Experience[0].Bullets[0].Original)
	require.Len(t, profile.Education, 1)
	assert.Equal(t, []string{"Go"}, profile.Skills.Technical)
}

func TestStructureResumeSectionDegradesIndependently(t *testing.T) {
	m := &scriptedModel{respond: func(user string) (string, error) {
		if strings.Contains(user, "work experience") {
			return "I am not able to find any structured data here.", nil
		}
		if strings.Contains(user, "personal information") {
			return `{"name": "Jane Doe", "email": "", "phone": "", "location": "", "linkedin": "", "summary": ""}`, nil
		}
		if strings.Contains(user, "education entries") {
			return `[]`, nil
		}
		return `{"technical": [], "soft": [], "tools": [], "certifications": []}`, nil
	}}

	s := NewLLMStructurer(m)
	profile, results := s.StructureResume(context.Background(), "resume text")

	byName := map[string]bool{}
	rawByName := map[string]string{}
	for _, r := range results {
		byName[r.Section] = r.OK
		rawByName[r.Section] = r.RawResponse
	}

	assert.True(t, byName["personal"])
	assert.False(t, byName["experience"], "无法解析的节应标记失败")
	assert.True(t, byName["education"])
	assert.True(t, byName["skills"])

	assert.NotEmpty(t, rawByName["experience"], "失败的节应保留原始响应供诊断")
	assert.Empty(t, profile.Experience, "失败的节降级为空默认值")
	assert.Equal(t, "Jane Doe", profile.Personal.Name, "其他节不受影响")
}

func TestStructureResumeModelError(t *testing.T) {
	m := &scriptedModel{respond: func(user string) (string, error) {
		return "", fmt.Errorf("model returned http 500")
	}}

	s := NewLLMStructurer(m)
	_, results := s.StructureResume(context.Background(), "resume text")

	for _, r := range results {
		assert.False(t, r.OK, "模型调用失败时所有节都应失败")
		assert.NotEmpty(t, r.Warning)
	}
}
