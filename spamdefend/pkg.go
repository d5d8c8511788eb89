package spamdefend

import (
	"github.com/kigurumi-social/mamoru/spamdefend/engine"
	"github.com/kigurumi-social/mamoru/spamdefend/setstore"
)

type Engine = engine.Engine
type EngineConfig = engine.EngineConfig
type Actor = engine.Actor
type Activity = engine.Activity
type CreateActivity = engine.CreateActivity
type LikeActivity = engine.LikeActivity
type ScoreBreakdown = engine.ScoreBreakdown
type ScriptPredicate = engine.ScriptPredicate

var (
	ErrUnsupportedActivityKind = engine.ErrUnsupportedActivityKind
	ErrConfigInvalid           = engine.ErrConfigInvalid

	DefaultEngineConfig = engine.DefaultEngineConfig

	SetTrustedHosts = setstore.SetTrustedHosts
)
