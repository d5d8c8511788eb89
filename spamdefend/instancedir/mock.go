package instancedir

import (
	"context"
)

// MockDirectory is a fake, in-memory implementation of the Directory
// interface. Only used in tests.
type MockDirectory struct {
	Instances map[string]InstanceRecord
	// when non-nil, every fetch fails with this error
	Err error
}

var _ Directory = (*MockDirectory)(nil)

func NewMockDirectory() MockDirectory {
	return MockDirectory{
		Instances: make(map[string]InstanceRecord),
	}
}

func (d *MockDirectory) Insert(rec InstanceRecord) {
	d.Instances[rec.Host] = rec
}

func (d *MockDirectory) FetchInstance(ctx context.Context, host string) (*InstanceRecord, error) {
	if d.Err != nil {
		return nil, d.Err
	}
	rec, ok := d.Instances[host]
	if !ok {
		return NewUnseenRecord(host), nil
	}
	return &rec, nil
}
