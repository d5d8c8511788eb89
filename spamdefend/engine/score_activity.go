package engine

import (
	"fmt"
)

// scoreActivityShape scores the shape of the specific activity. Pure and
// synchronous; no lookups.
func (eng *Engine) scoreActivityShape(activity Activity) (int, error) {
	switch act := activity.(type) {
	case CreateActivity:
		// mention fan-out tiers; a step function, not linear
		switch {
		case act.MentionedUsersCount <= 0:
			return 0, nil
		case act.MentionedUsersCount == 1:
			return 5, nil
		case act.MentionedUsersCount == 2:
			return 10, nil
		default:
			return 20, nil
		}
	case LikeActivity:
		// reacting to low-visibility content is more suspicious than
		// reacting to something already popular
		if act.TargetRenoteCount <= 5 {
			return 5, nil
		}
		return 0, nil
	default:
		return 0, fmt.Errorf("%w: %T", ErrUnsupportedActivityKind, activity)
	}
}
