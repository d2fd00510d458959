// Package ports defines the core interfaces for the application.
package ports

// Logger defines the interface for logging.
// args are alternating key/value pairs, as with log/slog.
//
//go:generate mockgen -source=logger.go -destination=mocks/mock_logger.go -package=mocks
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(err error)
}
