package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/gonkalabs/validutf8/internal/fileio"
	"github.com/gonkalabs/validutf8/internal/transcode"
)

// Cfg holds all runtime configuration loaded from environment variables.
// Command line flags override it.
type Cfg struct {
	LogLevel slog.Level // LOG_LEVEL=debug|info|warn|error

	// Default policy when -s/--skipInvalid is absent.
	// VALIDUTF8_POLICY=replace|skip|drop wins over VALIDUTF8_SKIP_INVALID=true.
	Policy transcode.Policy

	Stream     bool  // VALIDUTF8_STREAM=true transcodes without reading the whole input
	MaxInput   int64 // VALIDUTF8_MAX_INPUT=0 (bytes, bulk mode only; 0 = unlimited)
	BufferSize int   // VALIDUTF8_BUFFER_SIZE=32768 (stream mode output write chunk size)
}

// Load reads .env (if present) then environment variables and returns Cfg.
func Load() (*Cfg, error) {
	// Best-effort: load .env from current directory
	_ = godotenv.Load()

	level, err := parseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		return nil, err
	}

	policy := transcode.Replace
	if envBool("VALIDUTF8_SKIP_INVALID") {
		policy = transcode.Drop
	}
	if raw := strings.TrimSpace(os.Getenv("VALIDUTF8_POLICY")); raw != "" {
		policy, err = transcode.ParsePolicy(raw)
		if err != nil {
			return nil, fmt.Errorf("config: VALIDUTF8_POLICY: %w", err)
		}
	}

	maxInput, err := envInt("VALIDUTF8_MAX_INPUT", 0, 64)
	if err != nil {
		return nil, err
	}
	if maxInput < 0 {
		return nil, fmt.Errorf("config: VALIDUTF8_MAX_INPUT must not be negative, got %d", maxInput)
	}

	bufSize, err := envInt("VALIDUTF8_BUFFER_SIZE", fileio.DefaultBufferSize, strconv.IntSize)
	if err != nil {
		return nil, err
	}
	if bufSize <= 0 {
		return nil, fmt.Errorf("config: VALIDUTF8_BUFFER_SIZE must be positive, got %d", bufSize)
	}

	return &Cfg{
		LogLevel:   level,
		Policy:     policy,
		Stream:     envBool("VALIDUTF8_STREAM"),
		MaxInput:   maxInput,
		BufferSize: int(bufSize),
	}, nil
}

func envBool(key string) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	return raw == "1" || strings.EqualFold(raw, "true")
}

// envInt parses key as a bitSize-wide integer, so the result always fits.
func envInt(key string, def int64, bitSize int) (int64, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(raw, 10, bitSize)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

// parseLevel maps LOG_LEVEL to a slog level. Empty means info.
func parseLevel(raw string) (slog.Level, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(raw)); err != nil {
		return 0, fmt.Errorf("config: LOG_LEVEL: %w", err)
	}
	return l, nil
}
