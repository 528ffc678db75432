package godeco

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/a-peyrard/godeco/structs"
)

// Metadata is the mutable key-value store shared by all decorators of one
// class. It is created once per class definition, written only during the
// definition pass, then frozen for read-only use for the lifetime of the
// class.
type Metadata struct {
	inner  sync.Map
	frozen atomic.Bool
}

func newMetadata() *Metadata {
	return &Metadata{}
}

func (m *Metadata) Set(key string, value any) error {
	if m.frozen.Load() {
		return fmt.Errorf("cannot write key %s:\n\t%w", key, ErrMetadataFrozen)
	}
	m.inner.Store(key, value)
	return nil
}

func (m *Metadata) Get(key string) (value any, found bool) {
	return m.inner.Load(key)
}

// GetPath reads a nested value: the first dot-separated token is the
// metadata key, the remaining tokens traverse struct fields or map keys of
// the stored value.
func (m *Metadata) GetPath(path string) (any, error) {
	key, rest, nested := splitPath(path)
	raw, found := m.inner.Load(key)
	if !found {
		return nil, fmt.Errorf("no metadata entry for key %s", key)
	}
	if !nested {
		return raw, nil
	}

	value, err := structs.Get(raw, rest)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from metadata entry %s:\n\t%w", rest, key, err)
	}
	return value, nil
}

func (m *Metadata) Keys() []string {
	keys := make([]string, 0)
	m.inner.Range(func(key, _ any) bool {
		keys = append(keys, key.(string))
		return true
	})
	return keys
}

func (m *Metadata) Frozen() bool {
	return m.frozen.Load()
}

func (m *Metadata) freeze() {
	m.frozen.Store(true)
}

func splitPath(path string) (key, rest string, nested bool) {
	for i := 0; i < len(path); i++ {
		if path[i] == '.' {
			return path[:i], path[i+1:], true
		}
	}
	return path, "", false
}
