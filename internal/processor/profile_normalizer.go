package processor

import (
	"fmt"
	"strings"
	"time"

	"job-hunter-go/internal/constants"
	"job-hunter-go/internal/types"
)

// NormalizeExtracted 把提取结果整理成内部不变量成立的形式
// 原地修改：分配稳定ID、剥离列表符号、统一present语义、去重技能
func NormalizeExtracted(profile *types.ExtractedProfile) {
	for i := range profile.Experience {
		pos := &profile.Experience[i]
		pos.ID = fmt.Sprintf("exp_%03d", i+1)

		// "present"不区分大小写，出现即视为在职
		if strings.EqualFold(strings.TrimSpace(pos.EndDate), "present") {
			pos.EndDate = "present"
			pos.Current = true
		}
		if pos.Current && pos.EndDate == "" {
			pos.EndDate = "present"
		}

		bullets := pos.Bullets[:0]
		for _, b := range pos.Bullets {
			b.Original = stripBulletMarker(b.Original)
			if b.Original == "" {
				continue
			}
			b.ID = fmt.Sprintf("bullet_%03d", len(bullets)+1)
			if b.Keywords == nil {
				b.Keywords = []string{}
			}
			if b.Metrics == nil {
				b.Metrics = map[string]string{}
			}
			if b.TailoredVersions == nil {
				b.TailoredVersions = map[string]string{}
			}
			bullets = append(bullets, b)
		}
		pos.Bullets = bullets
	}

	for i := range profile.Education {
		edu := &profile.Education[i]
		if edu.Honors == nil {
			edu.Honors = []string{}
		}
		if edu.RelevantCoursework == nil {
			edu.RelevantCoursework = []string{}
		}
	}

	for _, cat := range types.SkillCategories {
		profile.Skills.SetCategory(cat, dedupeSkills(profile.Skills.Category(cat)))
	}
}

// stripBulletMarker 去掉要点开头的列表符号和空白
func stripBulletMarker(s string) string {
	return strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(s), "•-* \t"))
}

// dedupeSkills 大小写不敏感去重，保留先出现的写法和原始顺序
func dedupeSkills(skills []string) []string {
	seen := make(map[string]struct{}, len(skills))
	result := make([]string, 0, len(skills))
	for _, skill := range skills {
		skill = strings.TrimSpace(skill)
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, skill)
	}
	return result
}

// BuildFullProfile 把规范化后的提取结果包装为带元数据的完整档案
func BuildFullProfile(extracted *types.ExtractedProfile) *types.CandidateProfile {
	profile := &types.CandidateProfile{
		Meta: types.ProfileMeta{
			Version:     constants.SchemaVersion,
			LastUpdated: time.Now().Format("2006-01-02"),
		},
		Personal:   extracted.Personal,
		Experience: extracted.Experience,
		Education:  extracted.Education,
		Skills:     extracted.Skills,
		RawText:    extracted.RawText,
	}
	if profile.Experience == nil {
		profile.Experience = []types.Position{}
	}
	if profile.Education == nil {
		profile.Education = []types.Education{}
	}
	for _, cat := range types.SkillCategories {
		if profile.Skills.Category(cat) == nil {
			profile.Skills.SetCategory(cat, []string{})
		}
	}
	return profile
}
