package engine

import (
	"fmt"
	"time"
)

// EngineConfig holds the decision constants. Loaded once at process start and
// shared read-only across concurrent evaluations.
type EngineConfig struct {
	// total score above which an activity is considered spam-like
	Threshold int
	// accounts/instances first observed within this window count as "new"
	RecentWindow time.Duration
	// calendar start of the known abuse campaign; instances first observed
	// after this date score as suspicious
	SpamEraStart time.Time
	// upper bound on each external reputation lookup
	FetchTimeout time.Duration
	// avatar URL substrings which indicate a server-generated placeholder
	// image rather than a custom avatar
	PlaceholderAvatarHints []string
}

func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Threshold:              50,
		RecentWindow:           4 * 24 * time.Hour,
		SpamEraStart:           time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		FetchTimeout:           15 * time.Second,
		PlaceholderAvatarHints: []string{"identicon"},
	}
}

func (c *EngineConfig) Validate() error {
	if c.Threshold <= 0 {
		return fmt.Errorf("%w: threshold must be positive, got %d", ErrConfigInvalid, c.Threshold)
	}
	if c.RecentWindow <= 0 {
		return fmt.Errorf("%w: recent window must be positive, got %s", ErrConfigInvalid, c.RecentWindow)
	}
	if c.SpamEraStart.IsZero() {
		return fmt.Errorf("%w: spam era start is unset", ErrConfigInvalid)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("%w: fetch timeout must be positive, got %s", ErrConfigInvalid, c.FetchTimeout)
	}
	return nil
}
