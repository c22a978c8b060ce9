package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"job-hunter-go/internal/types"
)

func TestNormalizeAssignsStableIDs(t *testing.T) {
	extracted := &types.ExtractedProfile{
		Experience: []types.Position{
			{Company: "A", Bullets: []types.Bullet{{Original: "first"}, {Original: "second"}}},
			{Company: "B", Bullets: []types.Bullet{{Original: "third"}}},
		},
	}

	NormalizeExtracted(extracted)

	assert.Equal(t, "exp_001", extracted.Experience[0].ID)
	assert.Equal(t, "exp_002", extracted.Experience[1].ID)
	assert.Equal(t, "bullet_001", extracted.Experience[0].Bullets[0].ID)
	assert.Equal(t, "bullet_002", extracted.Experience[0].Bullets[1].ID)
	assert.Equal(t, "bullet_001", extracted.Experience[1].Bullets[0].ID, "要点ID在各经历内独立编号")
}

func TestNormalizeStripsBulletMarkers(t *testing.T) {
	extracted := &types.ExtractedProfile{
		Experience: []types.Position{
			{Bullets: []types.Bullet{
				{Original: "• Led the team"},
				{Original: "- Shipped the feature"},
				{Original: "* Cut costs by 30%"},
				{Original: "  •  Spaced out  "},
				{Original: "•"},
			}},
		},
	}

	NormalizeExtracted(extracted)

	bullets := extracted.Experience[0].Bullets
	require.Len(t, bullets, 4, "只剩符号的空要点应被丢弃")
	assert.Equal(t, "Led the team", bullets[0].Original)
	assert.Equal(t, "Shipped the feature", bullets[1].Original)
	assert.Equal(t, "Cut costs by 30%", bullets[2].Original)
	assert.Equal(t, "Spaced out", bullets[3].Original)
}

func TestNormalizePresentForcesCurrent(t *testing.T) {
	extracted := &types.ExtractedProfile{
		Experience: []types.Position{
			{EndDate: "Present"},
			{EndDate: "PRESENT", Current: false},
			{EndDate: "", Current: true},
			{EndDate: "2022-06"},
		},
	}

	NormalizeExtracted(extracted)

	assert.True(t, extracted.Experience[0].Current, "present不分大小写都应置current")
	assert.Equal(t, "present", extracted.Experience[0].EndDate, "统一为小写字面量")
	assert.True(t, extracted.Experience[1].Current)
	assert.Equal(t, "present", extracted.Experience[2].EndDate, "current为true时补齐end_date")
	assert.False(t, extracted.Experience[3].Current, "有明确结束日期的不应被改动")
}

func TestNormalizeDedupesSkills(t *testing.T) {
	extracted := &types.ExtractedProfile{
		Skills: types.SkillSet{
			Technical: []string{"Go", "go", "GO", "Python", " docker ", "Docker"},
		},
	}

	NormalizeExtracted(extracted)

	assert.Equal(t, []string{"Go", "Python", "docker"}, extracted.Skills.Technical,
		"大小写不敏感去重，保留先出现的写法")
}

func TestNormalizeFillsContainers(t *testing.T) {
	extracted := &types.ExtractedProfile{
		Experience: []types.Position{
			{Bullets: []types.Bullet{{Original: "did things"}}},
		},
		Education: []types.Education{{Institution: "U"}},
	}

	NormalizeExtracted(extracted)

	b := extracted.Experience[0].Bullets[0]
	assert.NotNil(t, b.Keywords)
	assert.NotNil(t, b.Metrics)
	assert.NotNil(t, b.TailoredVersions)
	assert.NotNil(t, extracted.Education[0].Honors)
	assert.NotNil(t, extracted.Education[0].RelevantCoursework)
}

func TestBuildFullProfileMeta(t *testing.T) {
	profile := BuildFullProfile(&types.ExtractedProfile{})

	assert.Equal(t, "1.0", profile.Meta.Version)
	assert.NotEmpty(t, profile.Meta.LastUpdated)
	assert.NotNil(t, profile.Experience, "持久化档案的容器绝不为nil")
	assert.NotNil(t, profile.Education)
	assert.NotNil(t, profile.Skills.Technical)
	assert.NotNil(t, profile.Skills.Certifications)
}
