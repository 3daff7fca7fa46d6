package logger

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErr(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		attr := Err(errors.New("boom"))
		assert.Equal(t, "error", attr.Key)
		assert.Equal(t, "boom", attr.Value.String())
	})

	t.Run("Nil", func(t *testing.T) {
		attr := Err(nil)
		assert.Equal(t, "error", attr.Key)
		assert.Empty(t, attr.Value.String())
	})
}

func TestInitSlog(t *testing.T) {
	InitSlog()
	assert.Equal(t, slog.LevelDebug, LogLevel.Level())
	assert.Same(t, Logger, slog.Default())
}
