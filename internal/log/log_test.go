package log

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSetup_DefaultLevel(t *testing.T) {
	Setup(false, false)

	ctx := context.Background()
	// Default level should be INFO.
	handler := slog.Default().Handler()
	assert.True(t, handler.Enabled(ctx, slog.LevelInfo), "INFO should be enabled in default mode")
	assert.True(t, handler.Enabled(ctx, slog.LevelWarn), "WARN should be enabled in default mode")
	assert.True(t, handler.Enabled(ctx, slog.LevelError), "ERROR should be enabled in default mode")
	assert.False(t, handler.Enabled(ctx, slog.LevelDebug), "DEBUG should not be enabled in default mode")
}

func TestSetup_VerboseLevel(t *testing.T) {
	Setup(true, false)

	ctx := context.Background()
	handler := slog.Default().Handler()
	assert.True(t, handler.Enabled(ctx, slog.LevelDebug), "DEBUG should be enabled in verbose mode")
	assert.True(t, handler.Enabled(ctx, slog.LevelInfo), "INFO should be enabled in verbose mode")
}

func TestSetup_QuietLevel(t *testing.T) {
	Setup(false, true)

	ctx := context.Background()
	handler := slog.Default().Handler()
	assert.False(t, handler.Enabled(ctx, slog.LevelInfo), "INFO should not be enabled in quiet mode")
	assert.False(t, handler.Enabled(ctx, slog.LevelDebug), "DEBUG should not be enabled in quiet mode")
	assert.True(t, handler.Enabled(ctx, slog.LevelWarn), "WARN should be enabled in quiet mode")
}

func TestSetup_QuietTakesPrecedence(t *testing.T) {
	// When both verbose and quiet are set, quiet takes precedence
	// because the switch checks quiet first.
	Setup(true, true)

	ctx := context.Background()
	handler := slog.Default().Handler()
	assert.False(t, handler.Enabled(ctx, slog.LevelDebug))
	assert.True(t, handler.Enabled(ctx, slog.LevelWarn))
}

func TestSetupWriter_RedirectsOutput(t *testing.T) {
	var buf bytes.Buffer
	SetupWriter(&buf, false, false)

	slog.Info("hello", "k", "v")
	assert.Contains(t, buf.String(), "hello")
	assert.Contains(t, buf.String(), "k=v")
}
