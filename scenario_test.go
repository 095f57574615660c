package mapmarkers

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/maltiez2/vsmod-mapmarkers/marker"
	"github.com/maltiez2/vsmod-mapmarkers/rules"
	"github.com/maltiez2/vsmod-mapmarkers/taxonomy"
)

// directSender feeds the authority in-process, standing in for the wire.
type directSender struct {
	authority *Authority
	player    string
}

func (s directSender) SendWaypointRequest(pos marker.Position, app marker.Appearance) error {
	s.authority.PlaceWaypoint(s.player, pos, app)
	return nil
}

func (s directSender) SendRemoveRequest(pos marker.Position) error {
	s.authority.RemoveNearestWaypoint(s.player, pos)
	return nil
}

func TestOreProspectingScenario(t *testing.T) {
	registry := taxonomy.NewRegistry()
	for _, code := range []string{"dirt", "stone", "gravel", "sand", "clay", "log", "ore-copper"} {
		registry.RegisterBlock(code)
	}
	stoneID, _ := registry.BlockByCode("stone")
	oreID, _ := registry.BlockByCode("ore-copper")

	ruleset := []rules.Rule{{
		Appearance: marker.Appearance{
			Title:          "Ore",
			Icon:           "star",
			Color:          "#FF0000",
			CoverageRadius: 5,
		},
		BlockPatterns: []string{"ore-*"},
	}}
	tables := rules.Compile(ruleset, registry.Blocks(), registry.Creatures())

	if _, ok := tables.Blocks[oreID]; !ok {
		t.Fatalf("expected compiled entry for ore-copper (id %d)", oreID)
	}
	if _, ok := tables.Blocks[stoneID]; ok {
		t.Fatalf("expected no compiled entry for stone (id %d)", stoneID)
	}

	layer := &testLayer{}
	authority, notifier := newTestAuthority(t, layer)
	targets := &scriptedTargets{}
	detector := NewDetector(tables, targets, directSender{authority: authority, player: "player-1"}, zerolog.Nop())

	press := func(target BlockTarget) {
		targets.block = &target
		detector.ObservePrimaryInteract(true)
		detector.ObservePrimaryInteract(false)
	}

	// First strike on the ore block places a marker.
	press(BlockTarget{ID: oreID, Position: marker.Position{X: 10, Y: 0, Z: 20}})
	if len(layer.waypoints) != 1 {
		t.Fatalf("expected first interaction to insert, got %d waypoints", len(layer.waypoints))
	}
	if layer.waypoints[0].Title != "Ore" || layer.waypoints[0].Position.X != 10 {
		t.Fatalf("unexpected waypoint: %+v", layer.waypoints[0])
	}

	// Two blocks over, still inside the coverage radius: suppressed.
	press(BlockTarget{ID: oreID, Position: marker.Position{X: 12, Y: 0, Z: 21}})
	if len(layer.waypoints) != 1 {
		t.Fatalf("expected nearby interaction to deduplicate, got %d waypoints", len(layer.waypoints))
	}

	// A separate vein further away gets its own marker.
	press(BlockTarget{ID: oreID, Position: marker.Position{X: 20, Y: 0, Z: 20}})
	if len(layer.waypoints) != 2 {
		t.Fatalf("expected distant interaction to insert, got %d waypoints", len(layer.waypoints))
	}

	// Striking stone never produces a request.
	press(BlockTarget{ID: stoneID, Position: marker.Position{X: 30, Y: 0, Z: 20}})
	if len(layer.waypoints) != 2 {
		t.Fatalf("expected stone interaction to be ignored, got %d waypoints", len(layer.waypoints))
	}

	if len(notifier.changed) != 2 {
		t.Fatalf("expected two refresh notifications, got %d", len(notifier.changed))
	}

	stats := authority.Snapshot()
	if stats.Requests != 3 || stats.Inserted != 2 || stats.Deduplicated != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
