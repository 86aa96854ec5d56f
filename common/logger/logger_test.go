package logger_test

import (
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"bmgrades.app/tracker/common/logger"
	"bmgrades.app/tracker/core/config"
)

var _ = Describe("Level", func() {
	DescribeTable("resolves the log level",
		func(env, level string, want slog.Level) {
			Expect(logger.Level(config.Config{Env: env, LogLevel: level})).To(Equal(want))
		},
		Entry("development defaults to debug", "development", "", slog.LevelDebug),
		Entry("production defaults to info", "production", "", slog.LevelInfo),
		Entry("explicit level wins", "development", "WARN", slog.LevelWarn),
		Entry("unknown level falls back", "production", "verbose", slog.LevelInfo),
	)
})
