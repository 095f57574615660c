// Package maplayer implements the collaborator that owns the shared
// waypoint collection. The waypoint authority is its only writer; rendering
// and list pushes read through copies. Durable storage also lives here:
// when a database path is configured the collection is loaded from and
// mirrored to a local sqlite file, and any storage failure degrades the
// layer to memory only instead of failing the session.
package maplayer

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/maltiez2/vsmod-mapmarkers/marker"
)

// Layer holds the live waypoint collection.
type Layer struct {
	mu        sync.RWMutex
	nextID    uint64
	waypoints []marker.Waypoint
	store     *Store
	log       zerolog.Logger
}

// New creates an empty in-memory layer.
func New(log zerolog.Logger) *Layer {
	return &Layer{log: log}
}

// NewPersistent creates a layer backed by a sqlite database at path,
// preloaded with previously stored waypoints. When the store cannot be
// opened or read the layer starts empty and keeps waypoints in memory only.
func NewPersistent(path string, log zerolog.Logger) *Layer {
	l := New(log)

	store, err := OpenStore(path, log)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("waypoint store unavailable, keeping waypoints in memory only")
		return l
	}
	stored, err := store.loadAll()
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("waypoint store unreadable, keeping waypoints in memory only")
		return l
	}

	l.store = store
	l.waypoints = stored
	for _, wp := range stored {
		if wp.ID > l.nextID {
			l.nextID = wp.ID
		}
	}
	log.Info().Int("waypoints", len(stored)).Str("path", path).Msg("waypoint store loaded")
	return l
}

// OwnedBy returns copies of the waypoints owned by the given player, in
// insertion order.
func (l *Layer) OwnedBy(playerID string) []marker.Waypoint {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var owned []marker.Waypoint
	for _, wp := range l.waypoints {
		if wp.OwnedBy == playerID {
			owned = append(owned, wp)
		}
	}
	return owned
}

// Insert stores a new waypoint, assigns it the next id, and returns it.
func (l *Layer) Insert(wp marker.Waypoint) marker.Waypoint {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.nextID++
	wp.ID = l.nextID
	l.waypoints = append(l.waypoints, wp)
	if l.store != nil {
		l.store.save(wp)
	}
	return wp
}

// Remove deletes the waypoint with the given id and reports whether it
// existed.
func (l *Layer) Remove(id uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i, wp := range l.waypoints {
		if wp.ID == id {
			l.waypoints = append(l.waypoints[:i], l.waypoints[i+1:]...)
			if l.store != nil {
				l.store.delete(id)
			}
			return true
		}
	}
	return false
}

// All returns copies of every waypoint in insertion order.
func (l *Layer) All() []marker.Waypoint {
	l.mu.RLock()
	defer l.mu.RUnlock()

	all := make([]marker.Waypoint, len(l.waypoints))
	copy(all, l.waypoints)
	return all
}

// Len returns the number of stored waypoints.
func (l *Layer) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.waypoints)
}
