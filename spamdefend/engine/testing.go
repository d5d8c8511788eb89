package engine

import (
	"log/slog"

	"github.com/kigurumi-social/mamoru/spamdefend/instancedir"
	"github.com/kigurumi-social/mamoru/spamdefend/profiledir"
	"github.com/kigurumi-social/mamoru/spamdefend/setstore"
)

// EngineTestFixture returns an engine wired to in-memory mocks, plus the
// mocks themselves for seeding. Intentionally exported, for use in other
// packages.
func EngineTestFixture() (Engine, *profiledir.MockDirectory, *instancedir.MockDirectory, setstore.MemSetStore) {
	profiles := profiledir.NewMockDirectory()
	instances := instancedir.NewMockDirectory()
	sets := setstore.NewMemSetStore()
	eng := Engine{
		Logger:       slog.Default(),
		Profiles:     &profiles,
		Instances:    &instances,
		TrustedHosts: sets,
		Config:       DefaultEngineConfig(),
	}
	return eng, &profiles, &instances, sets
}
