// Package mapmarkers places named, colored map waypoints when players
// interact with configured block and creature types. The client side
// (Detector) watches interaction input and looks the target up in tables
// compiled from the rule configuration; the server side (Authority) owns
// every mutation of the shared waypoint collection and suppresses
// redundant markers placed near an equivalent existing one.
package mapmarkers

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/maltiez2/vsmod-mapmarkers/marker"
)

// MapLayer is the collaborator owning the shared waypoint collection. The
// authority is its only writer.
type MapLayer interface {
	// OwnedBy returns the waypoints owned by the given player.
	OwnedBy(playerID string) []marker.Waypoint
	// Insert stores a new waypoint and returns it with its assigned id.
	Insert(wp marker.Waypoint) marker.Waypoint
	// Remove deletes the waypoint with the given id. It reports whether
	// the waypoint existed.
	Remove(id uint64) bool
}

// Notifier receives the change notifications the authority emits after it
// mutates the waypoint collection.
type Notifier interface {
	// NotifyWaypointsChanged tells the player's connection to refresh its
	// view of the waypoint collection.
	NotifyWaypointsChanged(playerID string)
	// RebuildRenderedComponents asks the host to rebuild rendered map
	// components after a structural change such as a removal.
	RebuildRenderedComponents()
}

// Recorder receives a copy of every accepted mutation, for export to a
// time-series backend. Implementations must not block.
type Recorder interface {
	RecordPlacement(playerID string, wp marker.Waypoint)
	RecordRemoval(playerID string, wp marker.Waypoint)
}

// Stats is a snapshot of the authority's request counters.
type Stats struct {
	Requests     uint64 `json:"requests"`
	Inserted     uint64 `json:"inserted"`
	Deduplicated uint64 `json:"deduplicated"`
	Discarded    uint64 `json:"discarded"`
	Removed      uint64 `json:"removed"`
}

// Authority is the single writer of the shared waypoint collection. It
// receives placement and removal requests tagged with the requesting
// player's identity, applies the deduplication policy, and notifies the
// originating connection after every accepted mutation.
//
// The dedup scan and the insert it guards are a non-atomic read-then-write,
// so every request runs under the authority's mutex even when the host
// dispatches connections concurrently. Notifier and recorder calls happen
// after the mutex is released; a slow connection must not stall requests
// from other players.
type Authority struct {
	mu       sync.Mutex
	layer    MapLayer
	notifier Notifier
	recorder Recorder
	log      zerolog.Logger
	stats    Stats

	requests     metric.Int64Counter
	inserted     metric.Int64Counter
	deduplicated metric.Int64Counter
	discarded    metric.Int64Counter
	removed      metric.Int64Counter
}

// NewAuthority creates an authority writing to the given map layer. The
// layer may be nil when the host has no map layer; requests are then
// silently discarded. Counters come from the global OTel meter and are
// no-ops when no provider is installed.
func NewAuthority(layer MapLayer, notifier Notifier, log zerolog.Logger) (*Authority, error) {
	a := &Authority{
		layer:    layer,
		notifier: notifier,
		log:      log,
	}

	m := meter()
	var err error
	if a.requests, err = m.Int64Counter("waypoints.requests",
		metric.WithDescription("Waypoint placement requests received")); err != nil {
		return nil, fmt.Errorf("creating requests counter: %w", err)
	}
	if a.inserted, err = m.Int64Counter("waypoints.inserted",
		metric.WithDescription("Waypoints inserted into the shared collection")); err != nil {
		return nil, fmt.Errorf("creating inserted counter: %w", err)
	}
	if a.deduplicated, err = m.Int64Counter("waypoints.deduplicated",
		metric.WithDescription("Requests suppressed by an equivalent nearby waypoint")); err != nil {
		return nil, fmt.Errorf("creating deduplicated counter: %w", err)
	}
	if a.discarded, err = m.Int64Counter("waypoints.discarded",
		metric.WithDescription("Requests discarded because no map layer is available")); err != nil {
		return nil, fmt.Errorf("creating discarded counter: %w", err)
	}
	if a.removed, err = m.Int64Counter("waypoints.removed",
		metric.WithDescription("Waypoints removed from the shared collection")); err != nil {
		return nil, fmt.Errorf("creating removed counter: %w", err)
	}
	return a, nil
}

// SetRecorder attaches a mutation recorder. Call before the authority
// starts receiving requests.
func (a *Authority) SetRecorder(r Recorder) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.recorder = r
}

// PlaceWaypoint handles one placement request from the given player. The
// request is discarded when the map layer is unavailable, or when the
// player already owns a waypoint with the same title, icon and color whose
// XZ Chebyshev distance to the requested position is strictly less than
// the request's coverage radius. Otherwise a new waypoint owned by the
// player is inserted and the player's connection is notified. Nothing is
// ever surfaced to the player; the worst case is that no waypoint appears.
func (a *Authority) PlaceWaypoint(playerID string, pos marker.Position, app marker.Appearance) {
	wp, recorder, ok := a.insertWaypoint(playerID, pos, app)
	if !ok {
		return
	}
	if recorder != nil {
		recorder.RecordPlacement(playerID, wp)
	}
	a.notifier.NotifyWaypointsChanged(playerID)
}

// insertWaypoint runs the dedup scan and insert under the mutex and reports
// whether a waypoint was stored. The recorder reference is returned so the
// caller can invoke it outside the critical section.
func (a *Authority) insertWaypoint(playerID string, pos marker.Position, app marker.Appearance) (marker.Waypoint, Recorder, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.stats.Requests++
	a.requests.Add(context.Background(), 1)

	if a.layer == nil {
		a.stats.Discarded++
		a.discarded.Add(context.Background(), 1)
		a.log.Debug().Str("player", playerID).Msg("waypoint request discarded: no map layer")
		return marker.Waypoint{}, nil, false
	}

	color := marker.PackColor(app.Color)
	for _, wp := range a.layer.OwnedBy(playerID) {
		if wp.Title != app.Title || wp.Icon != app.Icon || wp.Color != color {
			continue
		}
		if wp.Position.ChebyshevXZ(pos) < float64(app.CoverageRadius) {
			a.stats.Deduplicated++
			a.deduplicated.Add(context.Background(), 1)
			a.log.Debug().
				Str("player", playerID).
				Str("title", app.Title).
				Uint64("existing", wp.ID).
				Msg("waypoint request deduplicated")
			return marker.Waypoint{}, nil, false
		}
	}

	wp := a.layer.Insert(marker.Waypoint{
		Position: pos,
		Title:    app.Title,
		Icon:     app.Icon,
		Color:    color,
		Pinned:   app.Pinned,
		OwnedBy:  playerID,
	})
	a.stats.Inserted++
	a.inserted.Add(context.Background(), 1, metric.WithAttributes(attribute.String("icon", wp.Icon)))
	a.log.Info().
		Str("player", playerID).
		Uint64("waypoint", wp.ID).
		Str("title", wp.Title).
		Msg("waypoint placed")
	return wp, a.recorder, true
}

// RemoveNearestWaypoint deletes the requesting player's waypoint with the
// smallest straight-line distance to the given position, rebuilds rendered
// map components, and notifies the player's connection. It is a no-op when
// the map layer is unavailable or the player owns no waypoints.
func (a *Authority) RemoveNearestWaypoint(playerID string, pos marker.Position) {
	removed, recorder, ok := a.removeNearest(playerID, pos)
	if !ok {
		return
	}
	if recorder != nil {
		recorder.RecordRemoval(playerID, removed)
	}
	a.notifier.RebuildRenderedComponents()
	a.notifier.NotifyWaypointsChanged(playerID)
}

func (a *Authority) removeNearest(playerID string, pos marker.Position) (marker.Waypoint, Recorder, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.layer == nil {
		a.stats.Discarded++
		a.discarded.Add(context.Background(), 1)
		a.log.Debug().Str("player", playerID).Msg("waypoint removal discarded: no map layer")
		return marker.Waypoint{}, nil, false
	}

	owned := a.layer.OwnedBy(playerID)
	if len(owned) == 0 {
		return marker.Waypoint{}, nil, false
	}
	nearest := owned[0]
	best := nearest.Position.DistanceTo(pos)
	for _, wp := range owned[1:] {
		if d := wp.Position.DistanceTo(pos); d < best {
			best = d
			nearest = wp
		}
	}
	if !a.layer.Remove(nearest.ID) {
		return marker.Waypoint{}, nil, false
	}
	a.stats.Removed++
	a.removed.Add(context.Background(), 1)
	a.log.Info().
		Str("player", playerID).
		Uint64("waypoint", nearest.ID).
		Str("title", nearest.Title).
		Msg("waypoint removed")
	return nearest, a.recorder, true
}

// Snapshot returns a copy of the authority's request counters.
func (a *Authority) Snapshot() Stats {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stats
}
