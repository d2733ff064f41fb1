package config

import "go.uber.org/zap/zapcore"

const defaultLoggingLevel = zapcore.InfoLevel

// LoggerConfig holds the logging level for each module.
type LoggerConfig struct {
	Encoder string `mapstructure:"log-encoder"`

	AppLoggerLevel       string `mapstructure:"app"`
	StoreLoggerLevel     string `mapstructure:"store"`
	TrustLoggerLevel     string `mapstructure:"trust"`
	PipelineLoggerLevel  string `mapstructure:"pipeline"`
	SyncLoggerLevel      string `mapstructure:"sync"`
	ServerLoggerLevel    string `mapstructure:"server"`
	FetchLoggerLevel     string `mapstructure:"fetch"`
	SchedulerLoggerLevel string `mapstructure:"scheduler"`
}

// DefaultLoggingConfig logs at info level as plain text.
func DefaultLoggingConfig() LoggerConfig {
	return LoggerConfig{
		Encoder:              "console",
		AppLoggerLevel:       defaultLoggingLevel.String(),
		StoreLoggerLevel:     defaultLoggingLevel.String(),
		TrustLoggerLevel:     defaultLoggingLevel.String(),
		PipelineLoggerLevel:  defaultLoggingLevel.String(),
		SyncLoggerLevel:      defaultLoggingLevel.String(),
		ServerLoggerLevel:    defaultLoggingLevel.String(),
		FetchLoggerLevel:     defaultLoggingLevel.String(),
		SchedulerLoggerLevel: defaultLoggingLevel.String(),
	}
}
