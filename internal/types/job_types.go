package types

// JobStatus 岗位申请状态
type JobStatus string

const (
	// JobStatusNew 新抓取，尚未处理
	JobStatusNew JobStatus = "new"
	// JobStatusApplied 已投递
	JobStatusApplied JobStatus = "applied"
	// JobStatusInterviewing 面试中
	JobStatusInterviewing JobStatus = "interviewing"
	// JobStatusRejected 已拒绝
	JobStatusRejected JobStatus = "rejected"
	// JobStatusOffer 已拿到offer
	JobStatusOffer JobStatus = "offer"
)

// ValidJobStatus 判断状态字符串是否合法
func ValidJobStatus(s string) bool {
	switch JobStatus(s) {
	case JobStatusNew, JobStatusApplied, JobStatusInterviewing, JobStatusRejected, JobStatusOffer:
		return true
	}
	return false
}

// JobListing 一条岗位信息
// ID 由 title+company+url 做内容哈希得到，持久化前用于去重
type JobListing struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	URL         string  `json:"url"`
	SalaryMin   float64 `json:"salary_min,omitempty"`
	SalaryMax   float64 `json:"salary_max,omitempty"`
	JobType     string  `json:"job_type,omitempty"`
	DatePosted  string  `json:"date_posted,omitempty"`
	Source      string  `json:"source,omitempty"`
	ScrapedAt   string  `json:"scraped_at"`
	Status      string  `json:"status"`
	Notes       string  `json:"notes,omitempty"`
}

// JobStats 已保存岗位的统计信息
type JobStats struct {
	Total       int            `json:"total"`
	ByStatus    map[string]int `json:"by_status"`
	BySource    map[string]int `json:"by_source"`
	LastUpdated string         `json:"last_updated,omitempty"`
}

// TailoredResume 针对单个岗位定制后的简历投影
// 只读地消费主档案，绝不写回
type TailoredResume struct {
	JobID             string              `json:"job_id"`
	JobTitle          string              `json:"job_title"`
	Company           string              `json:"company"`
	Personal          PersonalInfo        `json:"personal"`
	Summary           string              `json:"summary"`
	Experience        []TailoredPosition  `json:"experience"`
	Education         []Education         `json:"education"`
	Skills            SkillSet            `json:"skills"`
	SkillsHighlighted []string            `json:"skills_highlighted"`
	KeywordsExtracted JobKeywords         `json:"keywords_extracted"`
	CreatedAt         string              `json:"created_at"`
}

// TailoredPosition 定制输出里的一段经历，要点已展开为纯文本
type TailoredPosition struct {
	Company   string   `json:"company"`
	Title     string   `json:"title"`
	Location  string   `json:"location"`
	StartDate string   `json:"start_date"`
	EndDate   string   `json:"end_date"`
	Bullets   []string `json:"bullets"`
}

// JobKeywords 从岗位描述中提取的结构化关键词
type JobKeywords struct {
	RequiredSkills        []string `json:"required_skills"`
	PreferredSkills       []string `json:"preferred_skills"`
	KeyResponsibilities   []string `json:"key_responsibilities"`
	IndustryKeywords      []string `json:"industry_keywords"`
	SoftSkills            []string `json:"soft_skills"`
	ExperienceYears       string   `json:"experience_years"`
	EducationRequirements string   `json:"education_requirements"`
	CompanyValues         []string `json:"company_values"`
}
