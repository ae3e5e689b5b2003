package logx

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestShortCaller(t *testing.T) {
	assert.Equal(t, "board.go:42", shortCaller(0, "/src/internal/domain/board.go", 42))
	assert.Equal(t, "main.go:1", shortCaller(0, "main.go", 1))
}

func TestSetupLevel(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.DebugLevel)

	Setup("warn", false)
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())

	Setup("bogus", true)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
