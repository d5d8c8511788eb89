package engine

import (
	"errors"
)

var (
	// ErrUnsupportedActivityKind is returned when an evaluation is attempted
	// for an activity kind the shape scorer has no arm for. The activity
	// variant set is closed: a new kind must be scored explicitly, never
	// silently scored zero.
	ErrUnsupportedActivityKind = errors.New("unsupported activity kind")

	// ErrConfigInvalid wraps engine configuration problems detected at
	// startup (bad threshold, windows, or allow-list).
	ErrConfigInvalid = errors.New("invalid spamdefend configuration")

	// ErrFetchUnavailable classifies a failed or timed-out profile/instance
	// lookup. These are handled fail-open inside the engine and logged, not
	// surfaced to callers.
	ErrFetchUnavailable = errors.New("reputation lookup unavailable")
)
