package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLooksLikeProfile(t *testing.T) {
	full := []byte(`{"personal": {}, "experience": [], "education": [], "skills": {}}`)
	assert.True(t, LooksLikeProfile(full))

	missing := []byte(`{"personal": {}, "experience": []}`)
	assert.False(t, LooksLikeProfile(missing), "缺少区块的JSON不是档案")

	array := []byte(`[1, 2, 3]`)
	assert.False(t, LooksLikeProfile(array))

	broken := []byte(`{not json`)
	assert.False(t, LooksLikeProfile(broken))
}

func TestDecodeProfileJSON(t *testing.T) {
	content := `{
		"personal": {"name": "Jane Doe", "email": "jane@example.com"},
		"experience": [{"company": "Acme", "title": "Engineer", "bullets": [{"original": "Did X"}]}],
		"education": [],
		"skills": {"technical": ["Go"]}
	}`
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	profile, err := DecodeProfileJSON(path)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", profile.Personal.Name)
	require.Len(t, profile.Experience, 1)
	assert.Equal(t, "Did X", profile.Experience[0].Bullets[0].Original)
}

func TestDecodeProfileJSONRejectsPlainJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "other.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"hello": "world"}`), 0o644))

	_, err := DecodeProfileJSON(path)
	assert.Error(t, err)
}

func TestExtractJSONPreview(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"b":1,"a":2}`), 0o644))

	text, warning, err := extractJSONPreview(path)
	require.NoError(t, err)
	assert.Empty(t, warning)
	assert.Contains(t, text, "\"a\"")
	assert.Contains(t, text, "\n", "预览应是缩进后的多行文本")
}

func TestExtractJSONPreviewInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{oops`), 0o644))

	_, _, err := extractJSONPreview(path)
	assert.Error(t, err)
}
