package profiledir

import (
	"context"
)

// MockDirectory is a fake, in-memory implementation of the Directory
// interface. Only used in tests.
type MockDirectory struct {
	Profiles map[string]ProfileSnapshot
	// when non-nil, every fetch fails with this error
	Err error
}

var _ Directory = (*MockDirectory)(nil)

func NewMockDirectory() MockDirectory {
	return MockDirectory{
		Profiles: make(map[string]ProfileSnapshot),
	}
}

func (d *MockDirectory) Insert(actorID string, p ProfileSnapshot) {
	d.Profiles[actorID] = p
}

func (d *MockDirectory) FetchProfile(ctx context.Context, actorID string) (*ProfileSnapshot, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	p, ok := d.Profiles[actorID]
	if !ok {
		return nil, ErrProfileNotFound
	}
	return &p, nil
}
