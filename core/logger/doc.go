// Package logger provides structured logging utilities built on Go's standard slog package.
//
// It offers a small logger factory with environment presets and a set of attribute
// helpers for the values that show up in livemodel logs (model identifiers, source
// generations, replication origins, errors).
//
// # Basic Usage
//
//	import "github.com/dmitrymomot/livemodel/core/logger"
//
//	// Development: text format, debug level, stdout
//	log := logger.New(logger.WithDevelopment("myapp"))
//
//	// Production: JSON format, info level, stdout
//	log := logger.New(logger.WithProduction("myapp"))
//
//	// Custom configuration
//	log := logger.New(
//		logger.WithLevel(slog.LevelWarn),
//		logger.WithJSONFormatter(),
//		logger.WithAttr(slog.String("service", "api")),
//		logger.WithOutput(os.Stderr),
//	)
//
// Components in this module default to Discard() and accept a logger through
// their own options, so logging is opt-in.
//
// # Attributes
//
// Attribute helpers return an empty slog.Attr for nil inputs, which slog drops:
//
//	log.Warn("source failed",
//		logger.ModelID(id),
//		logger.Generation(gen),
//		logger.Error(err),
//	)
package logger
