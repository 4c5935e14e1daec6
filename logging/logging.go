// Package logging - Structured logger construction.
package logging

import "go.uber.org/zap"

// NewLogger builds a production ready structured logger.
func NewLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "timestamp"
	return cfg.Build()
}

// WithRequest enriches the logger with the classification request id.
func WithRequest(logger *zap.Logger, requestID uint64) *zap.Logger {
	return logger.With(zap.Uint64("request_id", requestID))
}
