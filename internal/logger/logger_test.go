package logger

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestInitSetsLevel(t *testing.T) {
	Init(Config{Level: "warn", Format: "json"})

	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel(), "配置的级别应生效")
	assert.Equal(t, zerolog.WarnLevel, Logger.GetLevel())
}

func TestInitInvalidLevelFallsBackToInfo(t *testing.T) {
	Init(Config{Level: "nonsense", Format: "json"})

	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel(), "未知级别应回退到info")
}

func TestCtxFallsBackToGlobal(t *testing.T) {
	Init(Config{Level: "info", Format: "json"})

	l := Ctx(context.Background())
	assert.Same(t, &Logger, l, "上下文里没有日志器时应回退到全局实例")
}

func TestWithContextRoundTrip(t *testing.T) {
	Init(Config{Level: "info", Format: "json"})

	ctx := WithContext(context.Background())
	l := Ctx(ctx)
	assert.NotNil(t, l)
	assert.Equal(t, Logger.GetLevel(), l.GetLevel())
}

func TestLeveledEvents(t *testing.T) {
	Init(Config{Level: "debug", Format: "json"})

	// 各级别的事件起始函数都应返回可用的事件
	assert.NotNil(t, Debug())
	assert.NotNil(t, Info())
	assert.NotNil(t, Warn())
	assert.NotNil(t, Error())
}
