package parser

import (
	"regexp"
	"strings"
	"unicode"

	"job-hunter-go/internal/constants"
	"job-hunter-go/internal/types"
)

var (
	emailPattern    = regexp.MustCompile(`[\w\.-]+@[\w\.-]+\.\w+`)
	phonePattern    = regexp.MustCompile(`[\(]?\d{3}[\)]?[-.\s]?\d{3}[-.\s]?\d{4}`)
	linkedinPattern = regexp.MustCompile(`(?i)linkedin\.com/in/[\w-]+`)
)

// FallbackExtract 不依赖模型的正则降级提取
// 只填个人信息的可识别字段，拿不准的经历和技能留空，原始文本附在结果上保证数据不丢
func FallbackExtract(text string) *types.ExtractedProfile {
	profile := &types.ExtractedProfile{RawText: text}

	if m := emailPattern.FindString(text); m != "" {
		profile.Personal.Email = m
	}
	if m := phonePattern.FindString(text); m != "" {
		profile.Personal.Phone = m
	}
	if m := linkedinPattern.FindString(text); m != "" {
		profile.Personal.LinkedIn = strings.ToLower(m)
	}
	profile.Personal.Name = guessName(text)

	return profile
}

// guessName 在前几行中找第一个像姓名的行
// 标准：非空、短于上限、不含'@'、不以数字开头
func guessName(text string) string {
	lines := strings.Split(text, "\n")
	limit := constants.NameScanLines
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, line := range lines[:limit] {
		candidate := strings.TrimSpace(line)
		if candidate == "" || len(candidate) >= constants.NameMaxLen {
			continue
		}
		if strings.Contains(candidate, "@") {
			continue
		}
		runes := []rune(candidate)
		if unicode.IsDigit(runes[0]) {
			continue
		}
		return candidate
	}
	return ""
}
