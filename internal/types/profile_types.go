package types

import "strings"

// SkillCategory 技能分类名称
type SkillCategory = string

const (
	// SkillTechnical 技术技能分类
	SkillTechnical SkillCategory = "technical"
	// SkillSoft 软技能分类
	SkillSoft SkillCategory = "soft"
	// SkillTools 工具类技能分类
	SkillTools SkillCategory = "tools"
	// SkillCertifications 证书类技能分类
	SkillCertifications SkillCategory = "certifications"
)

// SkillCategories 所有技能分类的固定顺序，合并与输出均按此顺序遍历
var SkillCategories = []SkillCategory{
	SkillTechnical, SkillSoft, SkillTools, SkillCertifications,
}

// PersonalInfo 候选人联系信息，所有字段可选，缺失时为空字符串
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	LinkedIn string `json:"linkedin"`
	Summary  string `json:"summary"`
}

// Bullet 工作经历条目下的单条要点
// Original 是本地来源的原文，定制版本永远不会覆盖它
type Bullet struct {
	ID string `json:"id"` // bullet_NNN，在所属Position内唯一，创建后不再变化

	// 原始文本，所有定制改写的出发点
	Original string `json:"original"`

	// 从岗位描述中提取的关键词，定制流程使用，不跨定制运行保留
	Keywords []string `json:"keywords"`

	// 自由形式的数字事实
	Metrics map[string]string `json:"metrics"`

	// 按岗位ID缓存的改写结果，同一条目可同时携带多个岗位的版本
	TailoredVersions map[string]string `json:"tailored_versions"`
}

// Position 一段工作经历
type Position struct {
	ID        string   `json:"id"` // exp_NNN，创建时单调分配，删除不重新编号
	Company   string   `json:"company"`
	Title     string   `json:"title"`
	Location  string   `json:"location"`
	StartDate string   `json:"start_date"` // YYYY-MM 或空
	EndDate   string   `json:"end_date"`   // YYYY-MM 或字面量 "present"
	Current   bool     `json:"current"`
	Bullets   []Bullet `json:"bullets"`
}

// Education 一条教育经历
type Education struct {
	Institution        string   `json:"institution"`
	Degree             string   `json:"degree"`
	Field              string   `json:"field"`
	GraduationDate     string   `json:"graduation_date"`
	GPA                string   `json:"gpa"`
	Honors             []string `json:"honors"`
	RelevantCoursework []string `json:"relevant_coursework"`
}

// SkillSet 按分类组织的技能集合
// 每个分类内大小写不敏感去重，保留首次出现的原始大小写
type SkillSet struct {
	Technical      []string `json:"technical"`
	Soft           []string `json:"soft"`
	Tools          []string `json:"tools"`
	Certifications []string `json:"certifications"`
}

// Category 返回指定分类的技能切片
func (s *SkillSet) Category(name SkillCategory) []string {
	switch name {
	case SkillTechnical:
		return s.Technical
	case SkillSoft:
		return s.Soft
	case SkillTools:
		return s.Tools
	case SkillCertifications:
		return s.Certifications
	}
	return nil
}

// SetCategory 替换指定分类的技能切片
func (s *SkillSet) SetCategory(name SkillCategory, skills []string) {
	switch name {
	case SkillTechnical:
		s.Technical = skills
	case SkillSoft:
		s.Soft = skills
	case SkillTools:
		s.Tools = skills
	case SkillCertifications:
		s.Certifications = skills
	}
}

// ContainsFold 判断分类内是否已有大小写不敏感相等的技能
func (s *SkillSet) ContainsFold(name SkillCategory, skill string) bool {
	for _, existing := range s.Category(name) {
		if strings.EqualFold(existing, skill) {
			return true
		}
	}
	return false
}

// ProfileMeta 主档案的元信息
type ProfileMeta struct {
	Version     string `json:"version"`
	LastUpdated string `json:"last_updated"` // YYYY-MM-DD
	Notes       string `json:"notes,omitempty"`
}

// CandidateProfile 候选人主档案，持久化的唯一权威记录
// 持久化后 experience/education/skills 永远是（可能为空的）容器，绝不缺失
type CandidateProfile struct {
	Meta       ProfileMeta  `json:"meta"`
	Personal   PersonalInfo `json:"personal"`
	Experience []Position   `json:"experience"`
	Education  []Education  `json:"education"`
	Skills     SkillSet     `json:"skills"`

	// RawText 提取完全降级时保留的原始简历文本，正常路径下为空
	RawText string `json:"raw_text,omitempty"`
}

// Clone 返回档案的深拷贝，合并引擎依赖它保证不原地修改输入
func (p *CandidateProfile) Clone() *CandidateProfile {
	out := &CandidateProfile{
		Meta:     p.Meta,
		Personal: p.Personal,
		RawText:  p.RawText,
	}
	out.Experience = make([]Position, len(p.Experience))
	for i, exp := range p.Experience {
		out.Experience[i] = clonePosition(exp)
	}
	out.Education = make([]Education, len(p.Education))
	for i, edu := range p.Education {
		out.Education[i] = edu
		out.Education[i].Honors = append([]string(nil), edu.Honors...)
		out.Education[i].RelevantCoursework = append([]string(nil), edu.RelevantCoursework...)
	}
	for _, cat := range SkillCategories {
		out.Skills.SetCategory(cat, append([]string(nil), p.Skills.Category(cat)...))
	}
	return out
}

func clonePosition(exp Position) Position {
	out := exp
	out.Bullets = make([]Bullet, len(exp.Bullets))
	for i, b := range exp.Bullets {
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

// ExtractedProfile 结构化步骤的输出片段
// 各节在提取时都可以为空，规范化后才保证容器存在
type ExtractedProfile struct {
	Personal   PersonalInfo `json:"personal"`
	Experience []Position   `json:"experience"`
	Education  []Education  `json:"education"`
	Skills     SkillSet     `json:"skills"`

	// 提取失败降级时保留的原始文本，保证用户数据不丢失
	RawText string `json:"raw_text,omitempty"`
}

// MergeMode 提取结果与主档案的合并策略
type MergeMode string

const (
	// MergeReplace 丢弃主档案，用提取结果重建完整档案
	MergeReplace MergeMode = "replace"
	// MergeAppend 只新增主档案中不存在的条目，不更新个人信息
	MergeAppend MergeMode = "append"
	// MergeDefault 在append规则之上，用非空提取值覆盖个人信息字段
	MergeDefault MergeMode = "merge"
)

// ParseMergeMode 解析合并模式字符串，未知值回落为默认merge模式
func ParseMergeMode(s string) MergeMode {
	switch MergeMode(strings.ToLower(strings.TrimSpace(s))) {
	case MergeReplace:
		return MergeReplace
	case MergeAppend:
		return MergeAppend
	default:
		return MergeDefault
	}
}
