package engine

import (
	"context"
	"strings"
	"time"
)

// scoreUserReputation scores how implausible the acting account looks. An
// established remote actor (anyone with followers) always scores zero; a
// brand-new account with no avatar, no display name, and no bio accumulates
// the full set of bonuses.
//
// A failed profile lookup scores zero: a lookup outage must degrade toward
// "not spam", never block legitimate remote activity.
func (eng *Engine) scoreUserReputation(ctx context.Context, actor Actor) int {
	if actor.IsLocal() {
		return 0
	}

	ctx, cancel := context.WithTimeout(ctx, eng.Config.FetchTimeout)
	defer cancel()

	profile, err := eng.Profiles.FetchProfile(ctx, actor.ID)
	if err != nil {
		fetchErrorCount.WithLabelValues("profile").Inc()
		eng.logger().Error("actor profile unavailable, scoring open",
			"actorID", actor.ID, "host", actor.HostString(), "err", err)
		return 0
	}

	if profile.FollowersCount > 0 {
		return 0
	}

	score := 0
	if time.Since(profile.CreatedAt) < eng.Config.RecentWindow {
		score += 5
	}
	if eng.hasPlaceholderAvatar(profile.AvatarURL) {
		score += 15
	}
	if profile.Name == nil || *profile.Name == profile.Username {
		score += 10
	}
	if profile.Description == nil || *profile.Description == "" {
		score += 10
	}

	eng.logger().Info("scored actor reputation",
		"name", strptr(profile.Name),
		"username", profile.Username,
		"host", strptr(profile.Host),
		"score", score)

	return score
}

func (eng *Engine) hasPlaceholderAvatar(avatarURL *string) bool {
	if avatarURL == nil {
		return true
	}
	for _, hint := range eng.Config.PlaceholderAvatarHints {
		if strings.Contains(*avatarURL, hint) {
			return true
		}
	}
	return false
}

func strptr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
