// Package logger provides structured logging for runkit built on zerolog.
//
// Components obtain a tagged logger and log with optional field maps:
//
//	log := logger.NewDefault("runner")
//	log.Info("engine activated", logger.Fields("workers", 3))
//
// A process-wide default logger backs the package-level functions.
package logger
