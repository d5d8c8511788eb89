package setstore

import (
	"context"
	"strings"
)

// SetTrustedHosts is the named set holding the static instance allow-list.
const SetTrustedHosts = "trusted-hosts"

type SetStore interface {
	InSet(ctx context.Context, name, val string) (bool, error)
}

// NormalizeHost folds a hostname for allow-list comparison. Hosts arrive from
// remote activities with arbitrary casing and sometimes a trailing dot.
func NormalizeHost(raw string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw)), ".")
}
