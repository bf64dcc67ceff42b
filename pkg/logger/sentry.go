package logger

import (
	"context"
	"log/slog"
	"os"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string
	Environment string
	// MinLevel determines which log levels to send to Sentry
	// (e.g., slog.LevelWarn for warnings+errors).
	MinLevel slog.Level
}

// NewWithSentry creates a logger that sends logs to both stdout and
// Sentry. If DSN is empty, only stdout logging is enabled (graceful
// fallback for local dev).
func NewWithSentry(cfg SentryConfig) *slog.Logger {
	stdout := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})

	if cfg.DSN == "" {
		return slog.New(stdout)
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		EnableLogs:  true,
	}); err != nil {
		// Graceful degradation: log to stdout if Sentry init fails.
		slog.New(stdout).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return slog.New(stdout)
	}

	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel == slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}

	return slog.New(&teeHandler{
		stdout: stdout,
		sentry: sentryslog.Option{
			EventLevel: []slog.Level{slog.LevelError}, // Errors create Issues in Sentry
			LogLevel:   logLevel,                      // Logs stored for context/search
		}.NewSentryHandler(context.Background()),
	})
}

// teeHandler duplicates records to stdout and Sentry. The Sentry side
// filters by its own level configuration, so most records only reach
// stdout.
type teeHandler struct {
	stdout slog.Handler
	sentry slog.Handler
}

func (h *teeHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.stdout.Enabled(ctx, level) || h.sentry.Enabled(ctx, level)
}

func (h *teeHandler) Handle(ctx context.Context, rec slog.Record) error {
	if h.stdout.Enabled(ctx, rec.Level) {
		if err := h.stdout.Handle(ctx, rec.Clone()); err != nil {
			return err
		}
	}
	if h.sentry.Enabled(ctx, rec.Level) {
		return h.sentry.Handle(ctx, rec.Clone())
	}
	return nil
}

func (h *teeHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &teeHandler{
		stdout: h.stdout.WithAttrs(attrs),
		sentry: h.sentry.WithAttrs(attrs),
	}
}

func (h *teeHandler) WithGroup(name string) slog.Handler {
	return &teeHandler{
		stdout: h.stdout.WithGroup(name),
		sentry: h.sentry.WithGroup(name),
	}
}

var _ slog.Handler = (*teeHandler)(nil)
