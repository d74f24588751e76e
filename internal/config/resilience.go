package config

import (
	"time"

	"sismed_stock/internal/retry"
)

// ResilienceConfig bounds calls to external services. Sheets reads are never
// retried: a failed read fails the request.
type ResilienceConfig struct {
	SheetRead retry.Config
}

var DefaultResilienceConfig = ResilienceConfig{
	SheetRead: retry.Single(15 * time.Second),
}

// WithSheetTimeout returns the default profile with the Sheets read timeout
// replaced. Non-positive values keep the default.
func WithSheetTimeout(timeout time.Duration) ResilienceConfig {
	cfg := DefaultResilienceConfig
	if timeout > 0 {
		cfg.SheetRead = retry.Single(timeout)
	}
	return cfg
}
