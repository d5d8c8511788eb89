package engine

import (
	"context"
	"testing"
	"time"

	"github.com/kigurumi-social/mamoru/spamdefend/instancedir"
	"github.com/kigurumi-social/mamoru/spamdefend/setstore"

	"github.com/stretchr/testify/assert"
	testify "github.com/stretchr/testify/assert"
)

func TestScoreInstanceTrustedHost(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng, _, instances, sets := EngineTestFixture()
	sets.AddToSet(setstore.SetTrustedHosts, "Trusted.Example.Com")
	// allow-listing bypasses the fetch entirely; make a fetch loud
	instances.Err = testify.AnError

	assert.Equal(0, eng.scoreInstanceReputation(ctx, "trusted.example.com"))
}

func TestScoreInstanceWithFollowers(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng, _, instances, _ := EngineTestFixture()
	instances.Insert(instancedir.InstanceRecord{
		Host:             "known.example.com",
		FollowersCount:   3,
		FirstRetrievedAt: time.Now(),
	})

	assert.Equal(0, eng.scoreInstanceReputation(ctx, "known.example.com"))
}

func TestScoreInstanceBonuses(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	jp := "日本の着ぐるみコミュニティのサーバーです"
	en := "a general-purpose fediverse server"
	preEra := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	fixtures := []struct {
		name     string
		rec      instancedir.InstanceRecord
		expected int
	}{
		{
			name: "unseen host, no description",
			rec: instancedir.InstanceRecord{
				Host:             "h",
				FirstRetrievedAt: time.Now(),
			},
			expected: 30,
		},
		{
			name: "recent, post-era, local-script description",
			rec: instancedir.InstanceRecord{
				Host:             "h",
				FirstRetrievedAt: time.Now(),
				Description:      &jp,
			},
			expected: 10,
		},
		{
			name: "recent, post-era, foreign description",
			rec: instancedir.InstanceRecord{
				Host:             "h",
				FirstRetrievedAt: time.Now(),
				Description:      &en,
			},
			expected: 30,
		},
		{
			name: "old server, foreign description",
			rec: instancedir.InstanceRecord{
				Host:             "h",
				FirstRetrievedAt: preEra,
				Description:      &en,
			},
			expected: 20,
		},
		{
			name: "old server, local-script description",
			rec: instancedir.InstanceRecord{
				Host:             "h",
				FirstRetrievedAt: preEra,
				Description:      &jp,
			},
			expected: 0,
		},
	}

	for _, fix := range fixtures {
		t.Run(fix.name, func(t *testing.T) {
			eng, _, instances, _ := EngineTestFixture()
			instances.Insert(fix.rec)
			assert.Equal(fix.expected, eng.scoreInstanceReputation(ctx, "h"))
		})
	}
}

func TestScoreInstanceFetchFailsOpen(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()

	eng, _, instances, _ := EngineTestFixture()
	instances.Err = testify.AnError

	assert.Equal(0, eng.scoreInstanceReputation(ctx, "down.example.com"))
}
