package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateMD5(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", CalculateMD5(nil))
	assert.Equal(t, CalculateMD5([]byte("abc")), CalculateMD5([]byte("abc")))
	assert.NotEqual(t, CalculateMD5([]byte("abc")), CalculateMD5([]byte("abd")))
}

func TestContentID(t *testing.T) {
	id := ContentID("Go Engineer", "Acme", "https://acme.example/1")
	assert.Len(t, id, 12)

	// 相同输入得到相同ID，去重依赖这一点
	assert.Equal(t, id, ContentID("Go Engineer", "Acme", "https://acme.example/1"))
	assert.NotEqual(t, id, ContentID("Go Engineer", "Acme", "https://acme.example/2"))
}
