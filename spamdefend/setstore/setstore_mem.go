package setstore

import (
	"context"
	"encoding/json"
	"io"
	"os"
)

type MemSetStore struct {
	Sets map[string]map[string]bool
}

func NewMemSetStore() MemSetStore {
	return MemSetStore{
		Sets: make(map[string]map[string]bool),
	}
}

func (s MemSetStore) InSet(ctx context.Context, name, val string) (bool, error) {
	set, ok := s.Sets[name]
	if !ok {
		// NOTE: currently returns false when entire set isn't found
		return false, nil
	}
	_, ok = set[NormalizeHost(val)]
	return ok, nil
}

func (s MemSetStore) AddToSet(name string, vals ...string) {
	set, ok := s.Sets[name]
	if !ok {
		set = make(map[string]bool)
		s.Sets[name] = set
	}
	for _, val := range vals {
		set[NormalizeHost(val)] = true
	}
}

// LoadFromFileJSON reads named host sets from a JSON file of the shape
// {"trusted-hosts": ["misskey.example.com", ...]}.
func (s MemSetStore) LoadFromFileJSON(p string) error {

	f, err := os.Open(p)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	raw, err := io.ReadAll(f)
	if err != nil {
		return err
	}

	var sets map[string][]string
	if err := json.Unmarshal(raw, &sets); err != nil {
		return err
	}

	for name, l := range sets {
		for _, val := range l {
			s.AddToSet(name, val)
		}
	}
	return nil
}
