package parser

import (
	"archive/zip"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileExtension(t *testing.T) {
	assert.Equal(t, "pdf", FileExtension("resume.pdf"))
	assert.Equal(t, "pdf", FileExtension("Resume.PDF"))
	assert.Equal(t, "docx", FileExtension("a.b.docx"))
	assert.Equal(t, "", FileExtension("noext"))
}

func TestExtractUnsupportedExtension(t *testing.T) {
	e := NewTextExtractor()
	_, _, err := e.Extract(context.Background(), "resume.rtf")
	require.Error(t, err, "不支持的扩展名是硬错误而非警告")
}

func TestRunChainStatusTransitions(t *testing.T) {
	e := NewTextExtractor()

	unavailable := extractStrategy{Name: "first", Run: func(ctx context.Context, path string) StrategyOutcome {
		return StrategyOutcome{Status: StrategyUnavailable, Detail: "not configured"}
	}}
	empty := extractStrategy{Name: "second", Run: func(ctx context.Context, path string) StrategyOutcome {
		return StrategyOutcome{Status: StrategyEmpty, Detail: "no text"}
	}}
	ok := extractStrategy{Name: "third", Run: func(ctx context.Context, path string) StrategyOutcome {
		return StrategyOutcome{Status: StrategyOK, Text: "hello"}
	}}

	// 前两级不可用/为空时继续尝试下一级
	text, warning := e.runChain(context.Background(), "x", []extractStrategy{unavailable, empty, ok})
	assert.Equal(t, "hello", text)
	assert.Empty(t, warning)

	// 链条耗尽返回空文本和包含诊断的警告
	text, warning = e.runChain(context.Background(), "x", []extractStrategy{unavailable, empty})
	assert.Empty(t, text)
	assert.Contains(t, warning, "may be image-based or protected")
	assert.Contains(t, warning, "first: unavailable")
	assert.Contains(t, warning, "second: empty output")
}

func TestRunChainStopsAtFirstSuccess(t *testing.T) {
	e := NewTextExtractor()
	called := false
	first := extractStrategy{Name: "a", Run: func(ctx context.Context, path string) StrategyOutcome {
		return StrategyOutcome{Status: StrategyOK, Text: "primary"}
	}}
	second := extractStrategy{Name: "b", Run: func(ctx context.Context, path string) StrategyOutcome {
		called = true
		return StrategyOutcome{Status: StrategyOK, Text: "fallback"}
	}}

	text, _ := e.runChain(context.Background(), "x", []extractStrategy{first, second})
	assert.Equal(t, "primary", text)
	assert.False(t, called, "主策略成功后不应再触发备用策略")
}

// 构造一个最小的DOCX文件用于本地提取测试
func writeMinimalDOCX(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "resume.docx")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	doc, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = doc.Write([]byte(`<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
    <w:p><w:r><w:t>Senior </w:t></w:r><w:r><w:t>Engineer</w:t></w:r></w:p>
  </w:body>
</w:document>`))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return path
}

func TestOOXMLStrategy(t *testing.T) {
	path := writeMinimalDOCX(t)

	outcome := ooxmlStrategy(context.Background(), path)
	require.Equal(t, StrategyOK, outcome.Status)
	assert.Equal(t, "Jane Doe\nSenior Engineer", outcome.Text)
}

func TestOOXMLStrategyBadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notzip.docx")
	require.NoError(t, os.WriteFile(path, []byte("plain text"), 0o644))

	outcome := ooxmlStrategy(context.Background(), path)
	assert.Equal(t, StrategyFailed, outcome.Status)
}

func TestExtractDOCXWithoutTikaFallsBack(t *testing.T) {
	path := writeMinimalDOCX(t)

	e := NewTextExtractor() // 没有配置Tika
	text, warning, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Contains(t, text, "Jane Doe")
}
