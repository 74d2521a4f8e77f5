package logger

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var (
	once   sync.Once
	global = zerolog.New(os.Stdout).With().Timestamp().Logger()
)

// Init configures the process-wide logger. Later calls are no-ops.
func Init(level, filePath string) {
	once.Do(func() {
		writers := []io.Writer{os.Stdout}
		if filePath != "" {
			file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o664)
			if err != nil {
				_, _ = os.Stderr.WriteString("failed to open log file: " + err.Error() + "\n")
			} else {
				writers = append(writers, file)
			}
		}

		parsed, err := zerolog.ParseLevel(level)
		if err != nil || level == "" {
			parsed = zerolog.InfoLevel
		}
		global = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger().Level(parsed)
		log.Logger = global
	})
}

func L() *zerolog.Logger {
	return &global
}

// WithContext attaches a logger carrying fields to ctx.
func WithContext(ctx context.Context, fields map[string]any) context.Context {
	l := global.With().Fields(fields).Logger()
	return l.WithContext(ctx)
}

// Ctx returns the logger stored in ctx, or the global one.
func Ctx(ctx context.Context) *zerolog.Logger {
	l := zerolog.Ctx(ctx)
	if l.GetLevel() == zerolog.Disabled {
		return &global
	}
	return l
}
