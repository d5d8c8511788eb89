package engine

import (
	"context"
	"time"

	"github.com/kigurumi-social/mamoru/spamdefend/setstore"
)

// scoreInstanceReputation scores how implausible the origin server looks.
// Allow-listed hosts are a hard override: they score zero with no lookup at
// all. Any server the local instance already has inbound followers from is
// implicitly trusted.
func (eng *Engine) scoreInstanceReputation(ctx context.Context, host string) int {
	trusted, err := eng.TrustedHosts.InSet(ctx, setstore.SetTrustedHosts, host)
	if err != nil {
		// an unreadable allow-list only loses the override, not the verdict
		eng.logger().Error("trusted-host lookup failed", "host", host, "err", err)
	}
	if trusted {
		return 0
	}

	ctx, cancel := context.WithTimeout(ctx, eng.Config.FetchTimeout)
	defer cancel()

	inst, err := eng.Instances.FetchInstance(ctx, host)
	if err != nil {
		fetchErrorCount.WithLabelValues("instance").Inc()
		eng.logger().Error("instance record unavailable, scoring open", "host", host, "err", err)
		return 0
	}

	if inst.FollowersCount > 0 {
		return 0
	}

	score := 0
	if time.Since(inst.FirstRetrievedAt) < eng.Config.RecentWindow {
		score += 5
	}
	if inst.FirstRetrievedAt.After(eng.Config.SpamEraStart) {
		score += 5
	}
	if inst.Description == nil || !eng.scriptPredicate()(*inst.Description) {
		score += 20
	}

	eng.logger().Info("scored instance reputation", "host", inst.Host, "score", score)

	return score
}
