package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfigFromFile 验证YAML配置能被正确加载并覆盖默认值
func TestLoadConfigFromFile(t *testing.T) {
	yamlContent := `
server:
  address: ":8080"
ollama:
  host: "http://ollama.internal:11434"
  model: "qwen2.5:7b"
  use_ai: false
data:
  profile_path: "/tmp/profile.json"
scraper:
  sites:
    - indeed
  results_wanted: 5
`
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	err := os.WriteFile(configPath, []byte(yamlContent), 0644)
	require.NoError(t, err, "无法写入临时配置文件")

	config, err := LoadConfig(configPath)
	require.NoError(t, err, "加载合法配置不应返回错误")
	require.NotNil(t, config)

	assert.Equal(t, ":8080", config.Server.Address)
	assert.Equal(t, "http://ollama.internal:11434", config.Ollama.Host)
	assert.Equal(t, "qwen2.5:7b", config.Ollama.Model)
	assert.False(t, config.Ollama.UseAI)
	assert.Equal(t, "/tmp/profile.json", config.Data.ProfilePath)
	assert.Equal(t, []string{"indeed"}, config.Scraper.Sites)
	assert.Equal(t, 5, config.Scraper.ResultsWanted)

	// 文件中没写的字段保留默认值
	assert.Equal(t, "http://localhost:9998", config.Tika.ServerURL, "未覆盖的字段应保留默认值")
	assert.Equal(t, "resume_template.tex", config.Typeset.TemplateName)
}

// TestLoadConfigMissingFileInTest 验证测试环境下找不到配置文件时回退默认配置
func TestLoadConfigMissingFileInTest(t *testing.T) {
	config, err := LoadConfig(filepath.Join(t.TempDir(), "no-such.yaml"))
	require.NoError(t, err, "测试环境下缺失配置文件应回退默认配置而非报错")
	require.NotNil(t, config)
	assert.Equal(t, ":5050", config.Server.Address)
	assert.True(t, config.Ollama.UseAI)
}

// TestEnvOverride 验证环境变量覆盖Ollama配置
func TestEnvOverride(t *testing.T) {
	t.Setenv("OLLAMA_HOST", "http://gpu-box:11434")
	t.Setenv("OLLAMA_MODEL", "llama3.3:70b")

	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")
	err := os.WriteFile(configPath, []byte("server:\n  address: \":5050\"\n"), 0644)
	require.NoError(t, err)

	config, err := LoadConfig(configPath)
	require.NoError(t, err)
	assert.Equal(t, "http://gpu-box:11434", config.Ollama.Host, "OLLAMA_HOST环境变量应覆盖配置")
	assert.Equal(t, "llama3.3:70b", config.Ollama.Model)
}

// TestCreateSampleConfigRefusesOverwrite 验证示例配置不会覆盖已有文件
func TestCreateSampleConfigRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	err := CreateSampleConfig(path)
	require.NoError(t, err)

	err = CreateSampleConfig(path)
	assert.Error(t, err, "已存在的配置文件不应被覆盖")
}
