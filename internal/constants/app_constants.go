package constants

import "time"

const (
	// SchemaVersion 主档案schema版本号
	SchemaVersion = "1.0"

	// MaxUploadSize 上传文件大小上限（5 MiB）
	MaxUploadSize = 5 * 1024 * 1024

	// NameScanLines 正则回退提取姓名时只扫描前几行
	NameScanLines = 5
	// NameMaxLen 超过该长度的行不会被当作姓名
	NameMaxLen = 50

	// StructureTextLimit 个人信息提示词携带的简历文本截断长度
	StructureTextLimit = 3000

	// LLMCallTimeout 单次模型调用的超时时间
	LLMCallTimeout = 60 * time.Second
	// LLMProbeTimeout 模型存活探测的超时时间
	LLMProbeTimeout = 5 * time.Second

	// TypesetTimeout pdflatex单次编译的超时时间
	TypesetTimeout = 60 * time.Second
)

// AllowedExtensions 上传允许的扩展名（统一小写）
var AllowedExtensions = map[string]bool{
	"pdf":  true,
	"docx": true,
	"txt":  true,
	"json": true,
}

// AdvisoryMIMETypes 扩展名对应的预期MIME类型
// 仅声明意图：MIME嗅探只是参考，从不推翻基于扩展名的放行决定
var AdvisoryMIMETypes = map[string]string{
	"pdf":  "application/pdf",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	"txt":  "text/plain",
	"json": "application/json",
}
