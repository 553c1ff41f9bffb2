package config

import (
	"go.viam.com/rx160/logging"
)

// InitLoggingSettings applies the configured level to logger and to the global zap level. The
// command line debug flag overrides the config.
func InitLoggingSettings(logger logging.Logger, cmdLineDebugFlag bool, cfg *Config) logging.Level {
	level := cfg.Level()
	if cmdLineDebugFlag {
		level = logging.DEBUG
	}
	logger.SetLevel(level)
	logging.GlobalLogLevel.SetLevel(level.AsZap())
	logger.Infow("log level initialized", "level", level)
	return level
}
