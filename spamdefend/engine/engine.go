package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/kigurumi-social/mamoru/spamdefend/instancedir"
	"github.com/kigurumi-social/mamoru/spamdefend/profiledir"
	"github.com/kigurumi-social/mamoru/spamdefend/setstore"

	"golang.org/x/sync/errgroup"
)

// Engine combines actor reputation, instance reputation, and activity shape
// into a single spam-likeness verdict.
//
// All collaborators are injected; the engine holds no mutable state of its
// own, so a single Engine value is safe for concurrent evaluations.
type Engine struct {
	Logger       *slog.Logger
	Profiles     profiledir.Directory
	Instances    instancedir.Directory
	TrustedHosts setstore.SetStore
	Config       EngineConfig
	// reports whether text contains the target locale's script; defaults to
	// ContainsJapaneseScript when nil
	ContainsLocalScript ScriptPredicate
}

// ScoreBreakdown records how a verdict was reached. Produced per evaluation
// for audit logging; never persisted by this package.
type ScoreBreakdown struct {
	UserScore     int  `json:"userScore"`
	InstanceScore int  `json:"instanceScore"`
	ActivityScore int  `json:"activityScore"`
	Total         int  `json:"total"`
	Verdict       bool `json:"verdict"`
}

// Evaluate decides whether the given activity by the given actor is
// spam-like. The verdict is advisory: enforcement is the caller's decision.
//
// Local actors always evaluate to false with a zero breakdown. For remote
// actors all three sub-scores are computed unconditionally, with the profile
// and instance lookups issued concurrently. A failed lookup contributes a
// zero sub-score (fail-open) rather than an error; an unknown activity kind
// or invalid configuration fails the call outright.
func (eng *Engine) Evaluate(ctx context.Context, actor Actor, activity Activity) (verdict bool, breakdown *ScoreBreakdown, err error) {
	// similar to an HTTP server, we want to recover any panics from scorer execution
	defer func() {
		if r := recover(); r != nil {
			eng.logger().Error("spamdefend evaluation exception", "err", r, "actorID", actor.ID)
			err = fmt.Errorf("evaluation panic: %v", r)
		}
	}()
	start := time.Now()
	defer func() {
		evaluationDuration.Observe(time.Since(start).Seconds())
	}()

	if err := eng.Config.Validate(); err != nil {
		evaluationErrorCount.Inc()
		return false, nil, err
	}

	activityScore, err := eng.scoreActivityShape(activity)
	if err != nil {
		evaluationErrorCount.Inc()
		return false, nil, err
	}

	// local actors are exempt from every remote heuristic, the activity
	// shape included
	if actor.IsLocal() {
		bd := &ScoreBreakdown{}
		evaluationCount.WithLabelValues("false").Inc()
		return false, bd, nil
	}

	// profile and instance lookups have no ordering dependency
	var userScore, instanceScore int
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		userScore = eng.scoreUserReputation(gctx, actor)
		return nil
	})
	g.Go(func() error {
		instanceScore = eng.scoreInstanceReputation(gctx, *actor.Host)
		return nil
	})
	_ = g.Wait()

	total := userScore + instanceScore + activityScore
	bd := &ScoreBreakdown{
		UserScore:     userScore,
		InstanceScore: instanceScore,
		ActivityScore: activityScore,
		Total:         total,
		Verdict:       total > eng.Config.Threshold,
	}

	eng.logger().Info("evaluated activity",
		"actorID", actor.ID,
		"host", actor.HostString(),
		"kind", activity.ActivityKind(),
		"score", total,
		"spamlike", bd.Verdict)
	evaluationCount.WithLabelValues(strconv.FormatBool(bd.Verdict)).Inc()

	return bd.Verdict, bd, nil
}

func (eng *Engine) logger() *slog.Logger {
	if eng.Logger == nil {
		return slog.Default()
	}
	return eng.Logger
}

func (eng *Engine) scriptPredicate() ScriptPredicate {
	if eng.ContainsLocalScript == nil {
		return ContainsJapaneseScript
	}
	return eng.ContainsLocalScript
}
