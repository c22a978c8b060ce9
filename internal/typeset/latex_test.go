package typeset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-hunter-go/internal/config"
	"job-hunter-go/internal/types"
)

func TestEscapeLaTeX(t *testing.T) {
	assert.Equal(t, `R\&D \$100k \#1 50\%`, EscapeLaTeX(`R&D $100k #1 50%`))
	assert.Equal(t, `snake\_case \{braces\}`, EscapeLaTeX(`snake_case {braces}`))
	assert.Equal(t, `\textasciitilde{}user \textasciicircum{}2`, EscapeLaTeX(`~user ^2`))
	assert.Equal(t, `a\textbackslash{}b`, EscapeLaTeX(`a\b`))
	assert.Equal(t, "plain text stays", EscapeLaTeX("plain text stays"))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "Mar 2021", FormatDate("2021-03"))
	assert.Equal(t, "Dec 2019", FormatDate("2019-12"))
	assert.Equal(t, "Present", FormatDate("present"))
	assert.Equal(t, "Present", FormatDate("PRESENT"))
	assert.Equal(t, "", FormatDate(""))
	assert.Equal(t, "sometime", FormatDate("sometime"), "无法解析的日期原样返回")
}

func TestFormatDateRange(t *testing.T) {
	assert.Equal(t, "Mar 2021 -- Present", formatDateRange("2021-03", "present"))
	assert.Equal(t, "Mar 2021", formatDateRange("2021-03", ""))
	assert.Equal(t, "", formatDateRange("", ""))
}

func sampleTailored() *types.TailoredResume {
	return &types.TailoredResume{
		JobID:    "abc123def456",
		JobTitle: "Engineer",
		Company:  "Acme & Sons",
		Personal: types.PersonalInfo{
			Name:  "Jane Doe",
			Email: "jane@example.com",
		},
		Summary: "Engineer with 100% dedication",
		Experience: []types.TailoredPosition{
			{
				Company:   "R&D Labs",
				Title:     "Engineer",
				StartDate: "2021-03",
				EndDate:   "present",
				Bullets:   []string{"Grew revenue by 30%"},
			},
		},
		Skills: types.SkillSet{Technical: []string{"Go", "C#"}},
	}
}

func newTestTypesetter(t *testing.T) *Typesetter {
	t.Helper()
	return NewTypesetter(&config.TypesetConfig{
		TemplatesDir: t.TempDir(), // 空目录，强制使用内置模板
		TemplateName: "resume_template.tex",
		TempDir:      t.TempDir(),
	}, t.TempDir())
}

func TestRenderTeXEscapesUserData(t *testing.T) {
	ts := newTestTypesetter(t)

	source, err := ts.RenderTeX(sampleTailored())
	require.NoError(t, err)
	tex := string(source)

	assert.Contains(t, tex, `Jane Doe`)
	assert.Contains(t, tex, `R\&D Labs`, "公司名里的&必须转义")
	assert.Contains(t, tex, `Grew revenue by 30\%`)
	assert.Contains(t, tex, `C\#`)
	assert.Contains(t, tex, "Mar 2021 -- Present")
	assert.Contains(t, tex, `\documentclass`)
	assert.False(t, strings.Contains(tex, "<<"), "渲染结果不应残留模板分隔符")
}

func TestRenderTeXSkipsEmptySections(t *testing.T) {
	ts := newTestTypesetter(t)

	resume := &types.TailoredResume{
		JobID:    "x",
		Personal: types.PersonalInfo{Name: "Jane"},
	}
	source, err := ts.RenderTeX(resume)
	require.NoError(t, err)

	tex := string(source)
	assert.NotContains(t, tex, `\section*{Experience}`, "没有经历就不渲染经历区块")
	assert.NotContains(t, tex, `\section*{Skills}`)
}

func TestProjectSkillLines(t *testing.T) {
	data := project(sampleTailored())
	require.Len(t, data.SkillLines, 1)
	assert.Equal(t, "Technical", data.SkillLines[0].Label)
	assert.Equal(t, `Go, C\#`, data.SkillLines[0].Skills)
}
