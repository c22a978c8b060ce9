package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"job-hunter-go/internal/constants"
)

const (
	defaultOllamaHost  = "http://localhost:11434"
	defaultOllamaModel = "llama3.1:8b"
)

// --- OpenAI兼容的请求/响应结构 ---
// Ollama的/v1/chat/completions端点兼容OpenAI格式

type openAITool struct {
	Type     string         `json:"type"` // 必须是 "function"
	Function openAIFunction `json:"function"`
}

type openAIFunction struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  interface{} `json:"parameters,omitempty"`
}

type openAIChatRequest struct {
	Model    string            `json:"model"`
	Messages []*schema.Message `json:"messages"` // Eino schema.Message的role/content字段与OpenAI格式兼容
	Stream   bool              `json:"stream"`
	Tools    []openAITool      `json:"tools,omitempty"`
}

type openAIMessage struct {
	Role      string           `json:"role"`
	Content   *string          `json:"content"` // 有tool_calls时可为null
	ToolCalls []openAIToolCall `json:"tool_calls,omitempty"`
}

type openAIToolCall struct {
	Id       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

type openAIChatChoice struct {
	Index        int           `json:"index"`
	Message      openAIMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type openAIChatResponse struct {
	Id      string             `json:"id"`
	Object  string             `json:"object"`
	Created int64              `json:"created"`
	Model   string             `json:"model"`
	Choices []openAIChatChoice `json:"choices"`
}

// OllamaChatModel 通过本地Ollama服务器的OpenAI兼容端点实现 model.ToolCallingChatModel
type OllamaChatModel struct {
	host       string
	modelName  string
	httpClient *http.Client
	boundTools []openAITool
	logger     *log.Logger
}

// OllamaOption 模型客户端的配置选项
type OllamaOption func(*OllamaChatModel)

// WithOllamaLogger 配置自定义日志记录器
func WithOllamaLogger(logger *log.Logger) OllamaOption {
	return func(m *OllamaChatModel) {
		m.logger = logger
	}
}

// WithHTTPClient 配置自定义HTTP客户端
func WithHTTPClient(client *http.Client) OllamaOption {
	return func(m *OllamaChatModel) {
		m.httpClient = client
	}
}

// NewOllamaChatModel 创建一个新的Ollama模型客户端
// Ollama本地运行不需要API密钥
func NewOllamaChatModel(host string, modelName string, options ...OllamaOption) *OllamaChatModel {
	if strings.TrimSpace(host) == "" {
		host = defaultOllamaHost
	}
	if strings.TrimSpace(modelName) == "" {
		modelName = defaultOllamaModel
	}

	m := &OllamaChatModel{
		host:       strings.TrimRight(host, "/"),
		modelName:  modelName,
		httpClient: &http.Client{},
		boundTools: make([]openAITool, 0),
		logger:     log.New(os.Stderr, "[Ollama] ", log.LstdFlags),
	}

	for _, option := range options {
		option(m)
	}

	m.logger.Printf("使用Ollama LLM客户端，host: %s, 模型: %s", m.host, m.modelName)
	return m
}

// Ping 探测Ollama服务器是否在线
// 列表端点响应很快，用短超时避免拖慢整个流水线的降级决策
func (m *OllamaChatModel) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.LLMProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.host+"/api/tags", nil)
	if err != nil {
		return fmt.Errorf("创建探测请求失败: %w", err)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ollama服务器不可达: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama服务器返回错误状态码: %d", resp.StatusCode)
	}
	return nil
}

// Generate 实现 model.ChatModel 接口
func (m *OllamaChatModel) Generate(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.Message, error) {
	for _, opt := range options {
		_ = opt // 工具配置走BindTools，其余调用选项当前没有对应的模型参数
	}

	reqPayload := openAIChatRequest{
		Model:    m.modelName,
		Messages: messages,
		Stream:   false,
	}
	if len(m.boundTools) > 0 {
		reqPayload.Tools = m.boundTools
	}

	jsonData, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}

	url := m.host + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("创建 HTTP 请求失败: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	httpResp, err := m.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("发送 HTTP 请求失败: %w", err)
	}
	defer httpResp.Body.Close()

	bodyBytes, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API 请求失败，状态 %s: %s", httpResp.Status, string(bodyBytes))
	}

	var openAIResp openAIChatResponse
	if err := json.Unmarshal(bodyBytes, &openAIResp); err != nil {
		return nil, fmt.Errorf("反序列化 API 响应失败: %w。响应体: %s", err, string(bodyBytes))
	}

	if len(openAIResp.Choices) == 0 {
		return nil, fmt.Errorf("从 API 收到空选项: %s", string(bodyBytes))
	}

	apiMessage := openAIResp.Choices[0].Message
	responseContent := ""
	if apiMessage.Content != nil {
		responseContent = *apiMessage.Content
	}

	resultMessage := &schema.Message{
		Role:    schema.RoleType(apiMessage.Role),
		Content: responseContent,
	}

	if len(apiMessage.ToolCalls) > 0 {
		resultMessage.ToolCalls = make([]schema.ToolCall, len(apiMessage.ToolCalls))
		for i, tc := range apiMessage.ToolCalls {
			resultMessage.ToolCalls[i] = schema.ToolCall{
				ID: tc.Id,
				Function: schema.FunctionCall{
					Name:      tc.Function.Name,
					Arguments: tc.Function.Arguments,
				},
			}
		}
	}

	if resultMessage.Role == "" {
		resultMessage.Role = schema.RoleType("assistant")
	}

	m.logger.Printf("模型 %s 生成完成 (用时 %.2f秒)", m.modelName, time.Since(start).Seconds())
	return resultMessage, nil
}

// Stream 实现 model.ChatModel 接口
// 简历结构化走的是一次性JSON响应，流式暂不需要
func (m *OllamaChatModel) Stream(ctx context.Context, messages []*schema.Message, options ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	return nil, fmt.Errorf("OllamaChatModel 的 Stream 方法未实现")
}

// BindTools 实现 model.ChatModel 接口
func (m *OllamaChatModel) BindTools(tools []*schema.ToolInfo) error {
	m.boundTools = make([]openAITool, 0, len(tools))
	for _, toolInfo := range tools {
		if toolInfo == nil {
			continue
		}
		m.boundTools = append(m.boundTools, openAITool{
			Type: "function",
			Function: openAIFunction{
				Name:        toolInfo.Name,
				Description: toolInfo.Desc,
			},
		})
	}
	return nil
}

// WithTools 实现 model.ToolCallingChatModel 接口
func (m *OllamaChatModel) WithTools(tools []*schema.ToolInfo) (model.ToolCallingChatModel, error) {
	if err := m.BindTools(tools); err != nil {
		return nil, err
	}
	return m, nil
}

var _ model.ToolCallingChatModel = (*OllamaChatModel)(nil)
