package fileobj

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/tidwall/btree"

	"github.com/mwantia/fileobj/data"
	"github.com/mwantia/fileobj/log"
)

// Location groups generated outputs by their toolchain role.
type Location string

const (
	LocationSourceOutput Location = "SOURCE_OUTPUT"
	LocationClassOutput  Location = "CLASS_OUTPUT"
)

// Manager hands out writable output objects and keeps them addressable for
// later inspection. Repeated requests for the same location and class name
// return the same object.
type Manager struct {
	mu  sync.RWMutex
	log *log.Logger

	outputs *btree.Map[string, *outputObject]
}

func NewManager(logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Discard()
	}

	return &Manager{
		log:     logger,
		outputs: btree.NewMap[string, *outputObject](0),
	}
}

// GetOutput returns the output object for a location and class name,
// creating an empty one on first request.
func (m *Manager) GetOutput(location Location, fullyQualifiedName string, kind data.Kind) FileObject {
	key := m.buildKey(location, fullyQualifiedName, kind)

	m.mu.Lock()
	defer m.mu.Unlock()

	if obj, exists := m.outputs.Get(key); exists {
		return obj
	}

	obj := newOutputObject(&url.URL{Scheme: "mem", Path: "/" + key}, kind)
	m.outputs.Set(key, obj)
	m.log.Debug("Created output object '%s'", key)

	return obj
}

// Lookup returns the output object for a location and class name if one was
// created before.
func (m *Manager) Lookup(location Location, fullyQualifiedName string, kind data.Kind) (FileObject, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	obj, exists := m.outputs.Get(m.buildKey(location, fullyQualifiedName, kind))
	if !exists {
		return nil, false
	}

	return obj, true
}

// List returns all output objects under a location in identity order.
func (m *Manager) List(location Location) []FileObject {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := string(location) + "/"
	objects := make([]FileObject, 0)
	m.outputs.Scan(func(key string, obj *outputObject) bool {
		if strings.HasPrefix(key, prefix) {
			objects = append(objects, obj)
		}
		return true
	})

	return objects
}

// Stats reports the published outputs under a location in identity order.
func (m *Manager) Stats(location Location) []*data.ResourceStat {
	m.mu.RLock()
	defer m.mu.RUnlock()

	prefix := string(location) + "/"
	stats := make([]*data.ResourceStat, 0)
	m.outputs.Scan(func(key string, obj *outputObject) bool {
		if strings.HasPrefix(key, prefix) {
			stats = append(stats, obj.stat())
		}
		return true
	})

	return stats
}

// Reset drops all output objects.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.outputs.Clear()
	m.log.Debug("Cleared all output objects")
}

func (m *Manager) buildKey(location Location, fullyQualifiedName string, kind data.Kind) string {
	return fmt.Sprintf("%s/%s%s", location, strings.ReplaceAll(fullyQualifiedName, ".", "/"), kind.Extension())
}
