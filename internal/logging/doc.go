// Package logging assembles the slog loggers used by the chaoscodec CLI.
//
// It owns the console and JSON handlers and the level parsing shared by every
// command. Library packages never construct loggers; they receive one through
// codec.WithLogger.
package logging
