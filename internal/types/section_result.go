package types

// SectionResult 单个LLM提取调用的带标签结果
// 不用异常控制流：解析失败降级为该节的空默认值，同时保留原始响应供诊断
type SectionResult struct {
	// Section 本次调用对应的节名：personal/experience/education/skills
	Section string

	// OK 为true时本节解析成功
	OK bool

	// RawResponse 解析失败时保留的模型原始输出
	RawResponse string

	// Warning 解析失败的可读原因
	Warning string
}

// SectionOK 构造成功结果
func SectionOK(section string) SectionResult {
	return SectionResult{Section: section, OK: true}
}

// SectionParseFailure 构造解析失败结果
func SectionParseFailure(section, raw, warning string) SectionResult {
	return SectionResult{Section: section, RawResponse: raw, Warning: warning}
}
