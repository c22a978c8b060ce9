package processor

import (
	"fmt"
	"time"

	"job-hunter-go/internal/constants"
	"job-hunter-go/internal/types"
)

// Merge 把新提取的数据按指定模式并入主档案
// 纯函数：两个输入都不被修改，返回的新档案与输入不共享可变状态
//
// replace: 丢弃主档案，用提取结果重建
// append:  按身份键去重后新增条目，不更新个人信息
// merge:   在append规则之上，用非空提取值覆盖个人信息字段
//
// 已有条目一律保持原状，其ID永不改变；新职位插在前面，新教育条目追加在后
func Merge(extracted *types.ExtractedProfile, master *types.CandidateProfile, mode types.MergeMode) *types.CandidateProfile {
	incoming := cloneExtracted(extracted)

	if master == nil || mode == types.MergeReplace {
		result := BuildFullProfile(incoming)
		assignMissingExperienceIDs(result.Experience)
		return result
	}

	result := master.Clone()
	result.Meta.Version = constants.SchemaVersion
	result.Meta.LastUpdated = time.Now().Format("2006-01-02")

	// 个人信息只在merge模式下更新，append模式不触碰已有字段
	if mode == types.MergeDefault {
		mergePersonal(&result.Personal, incoming.Personal)
	}

	result.Experience = mergeExperience(result.Experience, incoming.Experience)
	result.Education = mergeEducation(result.Education, incoming.Education)

	for _, cat := range types.SkillCategories {
		merged := append(append([]string{}, result.Skills.Category(cat)...), incoming.Skills.Category(cat)...)
		result.Skills.SetCategory(cat, dedupeSkills(merged))
	}

	return result
}

// mergePersonal 逐字段覆盖，新值为空时保留旧值
func mergePersonal(dst *types.PersonalInfo, src types.PersonalInfo) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.Email != "" {
		dst.Email = src.Email
	}
	if src.Phone != "" {
		dst.Phone = src.Phone
	}
	if src.Location != "" {
		dst.Location = src.Location
	}
	if src.LinkedIn != "" {
		dst.LinkedIn = src.LinkedIn
	}
	if src.Summary != "" {
		dst.Summary = src.Summary
	}
}

// positionKey 职位条目的身份键：(公司, 头衔, 起始日期)
// 逐字符精确比较，大小写或空白不同的条目视为不同职位
func positionKey(p types.Position) string {
	return p.Company + "\x00" + p.Title + "\x00" + p.StartDate
}

// educationKey 教育条目的身份键：(院校, 学位)，同样精确比较
func educationKey(e types.Education) string {
	return e.Institution + "\x00" + e.Degree
}

// mergeExperience 去重合并：主档案里没有的新职位插到前面，已有的连同ID保持原状
// 新条目的ID从已有最大序号继续编号，不复用
func mergeExperience(existing []types.Position, incoming []types.Position) []types.Position {
	seen := make(map[string]struct{}, len(existing))
	for _, pos := range existing {
		seen[positionKey(pos)] = struct{}{}
	}

	seq := maxExperienceSeq(existing)
	var fresh []types.Position
	for _, pos := range incoming {
		key := positionKey(pos)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		added := clonePositionValue(pos)
		seq++
		added.ID = fmt.Sprintf("exp_%03d", seq)
		fillBulletIDs(&added)
		fresh = append(fresh, added)
	}

	// 新经历通常更近，排在前面
	return append(fresh, existing...)
}

// mergeEducation 去重合并：新教育条目追加在已有条目之后
func mergeEducation(existing []types.Education, incoming []types.Education) []types.Education {
	seen := make(map[string]struct{}, len(existing))
	for _, edu := range existing {
		seen[educationKey(edu)] = struct{}{}
	}

	var fresh []types.Education
	for _, edu := range incoming {
		key := educationKey(edu)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		fresh = append(fresh, edu)
	}
	return append(existing, fresh...)
}

// maxExperienceSeq 返回已有职位ID中最大的序号，无可解析ID时为0
func maxExperienceSeq(positions []types.Position) int {
	max := 0
	for _, pos := range positions {
		var n int
		if _, err := fmt.Sscanf(pos.ID, "exp_%d", &n); err == nil && n > max {
			max = n
		}
	}
	return max
}

// assignMissingExperienceIDs 给没有ID的条目编号，已有ID的条目不动
func assignMissingExperienceIDs(positions []types.Position) {
	seq := maxExperienceSeq(positions)
	for i := range positions {
		if positions[i].ID == "" {
			seq++
			positions[i].ID = fmt.Sprintf("exp_%03d", seq)
		}
		fillBulletIDs(&positions[i])
	}
}

// fillBulletIDs 给职位内缺失的要点ID按位置编号
func fillBulletIDs(pos *types.Position) {
	for j := range pos.Bullets {
		if pos.Bullets[j].ID == "" {
			pos.Bullets[j].ID = fmt.Sprintf("bullet_%03d", j+1)
		}
	}
}

// cloneExtracted 深拷贝提取结果，合并过程绝不触碰调用方的数据
func cloneExtracted(extracted *types.ExtractedProfile) *types.ExtractedProfile {
	out := &types.ExtractedProfile{
		Personal: extracted.Personal,
		RawText:  extracted.RawText,
	}
	out.Experience = make([]types.Position, len(extracted.Experience))
	for i, pos := range extracted.Experience {
		out.Experience[i] = clonePositionValue(pos)
	}
	out.Education = make([]types.Education, len(extracted.Education))
	for i, edu := range extracted.Education {
		out.Education[i] = edu
		out.Education[i].Honors = append([]string(nil), edu.Honors...)
		out.Education[i].RelevantCoursework = append([]string(nil), edu.RelevantCoursework...)
	}
	for _, cat := range types.SkillCategories {
		out.Skills.SetCategory(cat, append([]string(nil), extracted.Skills.Category(cat)...))
	}
	return out
}

// clonePositionValue 深拷贝单个职位条目，避免合并结果与输入共享切片和映射
func clonePositionValue(pos types.Position) types.Position {
	out := pos
	out.Bullets = make([]types.Bullet, len(pos.Bullets))
	for i, b := range pos.Bullets {
		out.Bullets[i] = b
		out.Bullets[i].Keywords = append([]string(nil), b.Keywords...)
		if b.Metrics != nil {
			out.Bullets[i].Metrics = make(map[string]string, len(b.Metrics))
			for k, v := range b.Metrics {
				out.Bullets[i].Metrics[k] = v
			}
		}
		if b.TailoredVersions != nil {
			out.Bullets[i].TailoredVersions = make(map[string]string, len(b.TailoredVersions))
			for k, v := range b.TailoredVersions {
				out.Bullets[i].TailoredVersions[k] = v
			}
		}
	}
	return out
}
