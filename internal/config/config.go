package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config 应用程序配置
type Config struct {
	// 服务器配置
	Server ServerConfig `yaml:"server"`

	// 日志配置
	Logger LoggerConfig `yaml:"logger"`

	// 本地推理服务(Ollama)配置
	Ollama OllamaConfig `yaml:"ollama"`

	// Tika服务器配置（PDF/DOCX主解析后端）
	Tika TikaConfig `yaml:"tika"`

	// 上传与数据目录配置
	Data DataConfig `yaml:"data"`

	// 岗位聚合服务配置
	Scraper ScraperConfig `yaml:"scraper"`

	// 排版(LaTeX)配置
	Typeset TypesetConfig `yaml:"typeset"`
}

// ServerConfig 定义服务器配置
type ServerConfig struct {
	Address string `yaml:"address"` // 例如 ":5050"
}

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level        string `yaml:"level"`         // debug, info, warn, error
	Format       string `yaml:"format"`        // json, pretty
	TimeFormat   string `yaml:"time_format"`   // 时间格式
	ReportCaller bool   `yaml:"report_caller"` // 是否报告调用位置
}

// OllamaConfig 本地推理服务配置
type OllamaConfig struct {
	Host           string `yaml:"host"`            // 例如 "http://localhost:11434"
	Model          string `yaml:"model"`           // 例如 "llama3.1:8b"
	TimeoutSeconds int    `yaml:"timeout_seconds"` // 单次调用超时(秒)
	UseAI          bool   `yaml:"use_ai"`          // 结构化默认是否启用LLM
}

// TikaConfig Tika服务器配置
type TikaConfig struct {
	ServerURL string `yaml:"server_url"`      // Tika服务器URL，留空则禁用Tika后端
	Timeout   int    `yaml:"timeout_seconds"` // 超时时间(秒)
}

// DataConfig 上传与数据目录配置
type DataConfig struct {
	UploadDir   string `yaml:"upload_dir"`   // 上传临时目录，处理后即清理
	ProfilePath string `yaml:"profile_path"` // 主档案JSON路径
	JobsDBPath  string `yaml:"jobs_db_path"` // 岗位SQLite数据库路径
	OutputDir   string `yaml:"output_dir"`   // 定制简历与PDF输出目录
}

// ScraperConfig 岗位聚合服务配置
type ScraperConfig struct {
	BaseURL         string   `yaml:"base_url"`         // 聚合服务地址
	Sites           []string `yaml:"sites"`            // 聚合站点列表
	DefaultLocation string   `yaml:"default_location"` // 默认搜索地点
	ResultsWanted   int      `yaml:"results_wanted"`   // 每站点结果数
	HoursOld        int      `yaml:"hours_old"`        // 只看多少小时内的岗位
	TimeoutSeconds  int      `yaml:"timeout_seconds"`  // 请求超时(秒)
}

// TypesetConfig 排版配置
type TypesetConfig struct {
	TemplatesDir   string `yaml:"templates_dir"`   // LaTeX模板目录
	TemplateName   string `yaml:"template_name"`   // 模板文件名
	TempDir        string `yaml:"temp_dir"`        // LaTeX临时目录
	TimeoutSeconds int    `yaml:"timeout_seconds"` // pdflatex超时(秒)
}

// LoadConfig 从文件加载配置
// 未指定路径时在常见位置查找；测试环境下找不到文件则返回默认配置
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		searchPaths := []string{
			"config.yaml",
			"./config.yaml",
			"../config.yaml",
			filepath.Join(os.Getenv("HOME"), ".job-hunter", "config.yaml"),
		}
		if execPath, err := os.Executable(); err == nil {
			searchPaths = append(searchPaths, filepath.Join(filepath.Dir(execPath), "config.yaml"))
		}
		for _, path := range searchPaths {
			if _, err := os.Stat(path); err == nil {
				configPath = path
				break
			}
		}
		if configPath == "" {
			if inTestEnv() {
				return DefaultConfig(), nil
			}
			configPath = "config.yaml"
		}
	}

	if _, err := os.Stat(configPath); err != nil {
		if inTestEnv() {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("配置文件不存在: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	// 环境变量覆盖
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		config.Ollama.Host = host
	}
	if model := os.Getenv("OLLAMA_MODEL"); model != "" {
		config.Ollama.Model = model
	}

	return config, nil
}

// inTestEnv 粗略判断当前是否运行在go test环境下
func inTestEnv() bool {
	for _, arg := range os.Args {
		if strings.Contains(arg, "test") {
			return true
		}
	}
	return false
}

// DefaultConfig 创建一份带默认值的配置，测试环境也直接使用它
func DefaultConfig() *Config {
	config := &Config{}

	config.Server.Address = ":5050"

	config.Logger.Level = "info"
	config.Logger.Format = "pretty"
	config.Logger.TimeFormat = "2006-01-02 15:04:05"
	config.Logger.ReportCaller = true

	config.Ollama.Host = "http://localhost:11434"
	config.Ollama.Model = "llama3.1:8b"
	config.Ollama.TimeoutSeconds = 60
	config.Ollama.UseAI = true

	config.Tika.ServerURL = "http://localhost:9998"
	config.Tika.Timeout = 60

	config.Data.UploadDir = "data/uploads"
	config.Data.ProfilePath = "data/master_resume.json"
	config.Data.JobsDBPath = "data/jobs.db"
	config.Data.OutputDir = "output"

	config.Scraper.BaseURL = "http://localhost:8070"
	config.Scraper.Sites = []string{"indeed", "linkedin", "glassdoor", "zip_recruiter"}
	config.Scraper.DefaultLocation = "Atlanta, GA"
	config.Scraper.ResultsWanted = 20
	config.Scraper.HoursOld = 72
	config.Scraper.TimeoutSeconds = 120

	config.Typeset.TemplatesDir = "templates"
	config.Typeset.TemplateName = "resume_template.tex"
	config.Typeset.TempDir = ".latex_temp"
	config.Typeset.TimeoutSeconds = 60

	return config
}

// CreateSampleConfig 创建一个示例配置文件
func CreateSampleConfig(filePath string) error {
	if _, err := os.Stat(filePath); err == nil {
		return fmt.Errorf("文件 '%s' 已存在，不会覆盖", filePath)
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("序列化配置失败: %w", err)
	}

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		return fmt.Errorf("写入示例配置文件 '%s' 失败: %w", filePath, err)
	}
	return nil
}
