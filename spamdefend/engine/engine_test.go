package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kigurumi-social/mamoru/spamdefend/instancedir"
	"github.com/kigurumi-social/mamoru/spamdefend/profiledir"
	"github.com/kigurumi-social/mamoru/spamdefend/setstore"

	"github.com/stretchr/testify/assert"
)

func str(s string) *string { return &s }

// a maximally-suspicious remote profile: brand new, placeholder avatar, name
// equal to username, empty bio, no followers
func freshProfile(host string) profiledir.ProfileSnapshot {
	return profiledir.ProfileSnapshot{
		Name:           str("spammer"),
		Username:       "spammer",
		Host:           &host,
		AvatarURL:      str("https://" + host + "/identicon/spammer.png"),
		Description:    str(""),
		FollowersCount: 0,
		CreatedAt:      time.Now().Add(-1 * time.Hour),
	}
}

func TestEvaluateLocalActorExempt(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng, _, _, _ := EngineTestFixture()
	actor := Actor{ID: "local123"}

	// even a high-fan-out create scores zero for a local actor
	verdict, bd, err := eng.Evaluate(ctx, actor, CreateActivity{MentionedUsersCount: 5})
	assert.NoError(err)
	assert.False(verdict)
	assert.Equal(0, bd.Total)
	assert.Equal(&ScoreBreakdown{}, bd)
}

func TestEvaluateFreshActorFreshInstance(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng, profiles, _, _ := EngineTestFixture()
	host := "spam.example.com"
	profiles.Insert("abc123", freshProfile(host))
	// host left out of the instance directory: scored as never-before-seen

	actor := Actor{ID: "abc123", Host: &host}
	verdict, bd, err := eng.Evaluate(ctx, actor, CreateActivity{MentionedUsersCount: 0})
	assert.NoError(err)
	assert.True(verdict)
	assert.Equal(40, bd.UserScore)
	assert.Equal(30, bd.InstanceScore)
	assert.Equal(0, bd.ActivityScore)
	assert.Equal(70, bd.Total)
}

func TestEvaluateTrustedHostOverride(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng, profiles, _, sets := EngineTestFixture()
	host := "spam.example.com"
	profiles.Insert("abc123", freshProfile(host))
	sets.AddToSet(setstore.SetTrustedHosts, host)

	actor := Actor{ID: "abc123", Host: &host}
	verdict, bd, err := eng.Evaluate(ctx, actor, CreateActivity{MentionedUsersCount: 0})
	assert.NoError(err)
	assert.False(verdict)
	assert.Equal(40, bd.UserScore)
	assert.Equal(0, bd.InstanceScore)
	assert.Equal(40, bd.Total)
}

func TestEvaluateEstablishedActorLike(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng, profiles, instances, _ := EngineTestFixture()
	host := "known.example.com"
	p := freshProfile(host)
	p.FollowersCount = 12
	profiles.Insert("abc123", p)
	instances.Insert(instancedir.InstanceRecord{
		Host:             host,
		FollowersCount:   400,
		FirstRetrievedAt: time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC),
	})

	actor := Actor{ID: "abc123", Host: &host}
	verdict, bd, err := eng.Evaluate(ctx, actor, LikeActivity{TargetRenoteCount: 3})
	assert.NoError(err)
	assert.False(verdict)
	assert.Equal(0, bd.UserScore)
	assert.Equal(0, bd.InstanceScore)
	assert.Equal(5, bd.ActivityScore)
	assert.Equal(5, bd.Total)
}

// Fixes the decision that a zero user score does not skip the remaining
// scorers: the breakdown stays strictly additive for every input.
func TestEvaluateNoShortCircuit(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng, profiles, _, _ := EngineTestFixture()
	host := "spam.example.com"
	p := freshProfile(host)
	p.FollowersCount = 100
	profiles.Insert("abc123", p)

	actor := Actor{ID: "abc123", Host: &host}
	verdict, bd, err := eng.Evaluate(ctx, actor, LikeActivity{TargetRenoteCount: 0})
	assert.NoError(err)
	assert.False(verdict)
	assert.Equal(0, bd.UserScore)
	assert.Equal(30, bd.InstanceScore)
	assert.Equal(5, bd.ActivityScore)
	assert.Equal(35, bd.Total)
}

func TestEvaluateThresholdBoundary(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng, profiles, _, _ := EngineTestFixture()
	host := "spam.example.com"
	profiles.Insert("abc123", freshProfile(host))
	actor := Actor{ID: "abc123", Host: &host}

	// total is 70 (user 40 + instance 30)
	eng.Config.Threshold = 70
	verdict, bd, err := eng.Evaluate(ctx, actor, CreateActivity{MentionedUsersCount: 0})
	assert.NoError(err)
	assert.Equal(70, bd.Total)
	assert.False(verdict)

	eng.Config.Threshold = 69
	verdict, _, err = eng.Evaluate(ctx, actor, CreateActivity{MentionedUsersCount: 0})
	assert.NoError(err)
	assert.True(verdict)
}

func TestEvaluateFetchFailOpen(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng, profiles, instances, _ := EngineTestFixture()
	profiles.Err = errors.New("profile backend down")
	instances.Err = errors.New("instance backend down")

	host := "spam.example.com"
	actor := Actor{ID: "abc123", Host: &host}
	verdict, bd, err := eng.Evaluate(ctx, actor, CreateActivity{MentionedUsersCount: 3})
	assert.NoError(err)
	assert.False(verdict)
	assert.Equal(0, bd.UserScore)
	assert.Equal(0, bd.InstanceScore)
	assert.Equal(20, bd.ActivityScore)
	assert.Equal(20, bd.Total)
}

type bogusActivity struct{}

func (bogusActivity) ActivityKind() string { return "bogus" }

func TestEvaluateUnsupportedActivity(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng, profiles, _, _ := EngineTestFixture()
	host := "spam.example.com"
	profiles.Insert("abc123", freshProfile(host))
	actor := Actor{ID: "abc123", Host: &host}

	verdict, bd, err := eng.Evaluate(ctx, actor, bogusActivity{})
	assert.ErrorIs(err, ErrUnsupportedActivityKind)
	assert.False(verdict)
	assert.Nil(bd)
}

func TestEvaluateConfigInvalid(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng, _, _, _ := EngineTestFixture()
	eng.Config.Threshold = 0

	host := "spam.example.com"
	actor := Actor{ID: "abc123", Host: &host}
	_, _, err := eng.Evaluate(ctx, actor, CreateActivity{})
	assert.ErrorIs(err, ErrConfigInvalid)
}

func TestEvaluateAdditive(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng, profiles, instances, _ := EngineTestFixture()
	host := "spam.example.com"
	p := freshProfile(host)
	p.Name = str("A Real Name")
	p.Description = str("hello, I am real")
	profiles.Insert("abc123", p)
	jp := "日本語の説明"
	instances.Insert(instancedir.InstanceRecord{
		Host:             host,
		FirstRetrievedAt: time.Now().Add(-30 * 24 * time.Hour),
		Description:      &jp,
	})

	actor := Actor{ID: "abc123", Host: &host}
	// user: recent (5) + identicon avatar (15) = 20; instance: post-era first
	// observation (5); activity: two mentions (10)
	verdict, bd, err := eng.Evaluate(ctx, actor, CreateActivity{MentionedUsersCount: 2})
	assert.NoError(err)
	assert.False(verdict)
	assert.Equal(20, bd.UserScore)
	assert.Equal(5, bd.InstanceScore)
	assert.Equal(10, bd.ActivityScore)
	assert.Equal(bd.UserScore+bd.InstanceScore+bd.ActivityScore, bd.Total)
}
