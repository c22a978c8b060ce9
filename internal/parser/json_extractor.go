package parser

import (
	"encoding/json"
	"fmt"
	"os"

	"job-hunter-go/internal/types"
)

// extractJSONPreview 读取JSON文件并返回缩进后的预览文本
// JSON不是简历页面，"提取的文本"就是它本身的格式化形式
func extractJSONPreview(path string) (string, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", fmt.Errorf("读取JSON文件失败: %w", err)
	}

	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", "", fmt.Errorf("JSON解析失败: %w", err)
	}

	pretty, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("JSON格式化失败: %w", err)
	}

	return string(pretty), "", nil
}

// LooksLikeProfile 判断JSON文件是否已经是结构化的候选人档案
// 四个顶层区块都在场时无需再走LLM结构化，直接反序列化
func LooksLikeProfile(data []byte) bool {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return false
	}
	for _, key := range []string{"personal", "experience", "education", "skills"} {
		if _, ok := probe[key]; !ok {
			return false
		}
	}
	return true
}

// DecodeProfileJSON 把已结构化的JSON文件直接反序列化为提取结果
func DecodeProfileJSON(path string) (*types.ExtractedProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取JSON文件失败: %w", err)
	}
	if !LooksLikeProfile(data) {
		return nil, fmt.Errorf("JSON缺少候选人档案必需的区块")
	}
	var profile types.ExtractedProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("候选人档案反序列化失败: %w", err)
	}
	return &profile, nil
}
