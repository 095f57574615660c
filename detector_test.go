package mapmarkers

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/maltiez2/vsmod-mapmarkers/marker"
	"github.com/maltiez2/vsmod-mapmarkers/rules"
	"github.com/maltiez2/vsmod-mapmarkers/taxonomy"
)

type scriptedTargets struct {
	block    *BlockTarget
	creature *CreatureTarget
	player   marker.Position
}

func (s *scriptedTargets) BlockTarget() (BlockTarget, bool) {
	if s.block == nil {
		return BlockTarget{}, false
	}
	return *s.block, true
}

func (s *scriptedTargets) CreatureTarget() (CreatureTarget, bool) {
	if s.creature == nil {
		return CreatureTarget{}, false
	}
	return *s.creature, true
}

func (s *scriptedTargets) PlayerPosition() marker.Position { return s.player }

type sentRequest struct {
	pos marker.Position
	app marker.Appearance
}

type recordingSender struct {
	requests []sentRequest
	removes  []marker.Position
	err      error
}

func (s *recordingSender) SendWaypointRequest(pos marker.Position, app marker.Appearance) error {
	if s.err != nil {
		return s.err
	}
	s.requests = append(s.requests, sentRequest{pos: pos, app: app})
	return nil
}

func (s *recordingSender) SendRemoveRequest(pos marker.Position) error {
	if s.err != nil {
		return s.err
	}
	s.removes = append(s.removes, pos)
	return nil
}

func testTables() rules.Tables {
	return rules.Tables{
		Blocks: map[taxonomy.BlockID]marker.Appearance{
			7: {Title: "Ore", Icon: "star", Color: "#FF0000", CoverageRadius: 5},
		},
		Creatures: map[string]marker.Appearance{
			"wolf-male": {Title: "Wolf", Icon: "paw", Pinned: true, CoverageRadius: 24},
		},
	}
}

func TestDetectorFiresOnRisingEdgeOnly(t *testing.T) {
	targets := &scriptedTargets{block: &BlockTarget{ID: 7, Position: marker.Position{X: 10, Z: 20}}}
	sender := &recordingSender{}
	detector := NewDetector(testTables(), targets, sender, zerolog.Nop())

	detector.ObservePrimaryInteract(true)
	detector.ObservePrimaryInteract(true)
	detector.ObservePrimaryInteract(true)

	if len(sender.requests) != 1 {
		t.Fatalf("expected held input to fire once, got %d requests", len(sender.requests))
	}

	detector.ObservePrimaryInteract(false)
	detector.ObservePrimaryInteract(true)

	if len(sender.requests) != 2 {
		t.Fatalf("expected second press to fire, got %d requests", len(sender.requests))
	}
}

func TestDetectorSendsBlockRequest(t *testing.T) {
	targets := &scriptedTargets{block: &BlockTarget{ID: 7, Position: marker.Position{X: 10, Y: 64, Z: 20}}}
	sender := &recordingSender{}
	detector := NewDetector(testTables(), targets, sender, zerolog.Nop())

	detector.ObservePrimaryInteract(true)

	if len(sender.requests) != 1 {
		t.Fatalf("expected one request, got %d", len(sender.requests))
	}
	req := sender.requests[0]
	if req.pos != (marker.Position{X: 10, Y: 64, Z: 20}) {
		t.Fatalf("unexpected request position: %+v", req.pos)
	}
	if req.app.Title != "Ore" {
		t.Fatalf("unexpected appearance: %+v", req.app)
	}
}

func TestDetectorBlockTakesPriorityOverCreature(t *testing.T) {
	targets := &scriptedTargets{
		block:    &BlockTarget{ID: 7, Position: marker.Position{X: 1}},
		creature: &CreatureTarget{Code: "wolf-male", Position: marker.Position{X: 2}},
	}
	sender := &recordingSender{}
	detector := NewDetector(testTables(), targets, sender, zerolog.Nop())

	detector.ObservePrimaryInteract(true)

	if len(sender.requests) != 1 {
		t.Fatalf("expected exactly one request, got %d", len(sender.requests))
	}
	if sender.requests[0].app.Title != "Ore" {
		t.Fatalf("expected block appearance to win, got %q", sender.requests[0].app.Title)
	}
}

func TestDetectorFallsBackToCreatureOnBlockMiss(t *testing.T) {
	// Block id 99 is not in the table; the creature lookup still runs.
	targets := &scriptedTargets{
		block:    &BlockTarget{ID: 99, Position: marker.Position{X: 1}},
		creature: &CreatureTarget{Code: "wolf-male", Position: marker.Position{X: 2}},
	}
	sender := &recordingSender{}
	detector := NewDetector(testTables(), targets, sender, zerolog.Nop())

	detector.ObservePrimaryInteract(true)

	if len(sender.requests) != 1 {
		t.Fatalf("expected one request, got %d", len(sender.requests))
	}
	if sender.requests[0].app.Title != "Wolf" {
		t.Fatalf("expected creature appearance, got %q", sender.requests[0].app.Title)
	}
}

func TestDetectorIgnoresUnmappedTargets(t *testing.T) {
	targets := &scriptedTargets{
		block:    &BlockTarget{ID: 99},
		creature: &CreatureTarget{Code: "deer-doe"},
	}
	sender := &recordingSender{}
	detector := NewDetector(testTables(), targets, sender, zerolog.Nop())

	detector.ObservePrimaryInteract(true)

	if len(sender.requests) != 0 {
		t.Fatalf("expected no requests for unmapped targets, got %d", len(sender.requests))
	}
}

func TestDetectorIgnoresMissingTarget(t *testing.T) {
	sender := &recordingSender{}
	detector := NewDetector(testTables(), &scriptedTargets{}, sender, zerolog.Nop())

	detector.ObservePrimaryInteract(true)

	if len(sender.requests) != 0 {
		t.Fatalf("expected no requests without a target, got %d", len(sender.requests))
	}
}

func TestDetectorSendFailureIsSwallowed(t *testing.T) {
	targets := &scriptedTargets{block: &BlockTarget{ID: 7}}
	sender := &recordingSender{err: errors.New("connection reset")}
	detector := NewDetector(testTables(), targets, sender, zerolog.Nop())

	detector.ObservePrimaryInteract(true)

	if len(sender.requests) != 0 {
		t.Fatalf("expected no recorded requests on send failure")
	}

	// The failed edge is consumed; the next press fires again.
	sender.err = nil
	detector.ObservePrimaryInteract(false)
	detector.ObservePrimaryInteract(true)
	if len(sender.requests) != 1 {
		t.Fatalf("expected detector to keep working after a failed send")
	}
}

func TestDetectorRemoveKeySendsPlayerPosition(t *testing.T) {
	targets := &scriptedTargets{player: marker.Position{X: 42, Y: 70, Z: -3}}
	sender := &recordingSender{}
	detector := NewDetector(testTables(), targets, sender, zerolog.Nop())

	detector.ObserveRemoveKey(true)
	detector.ObserveRemoveKey(true)

	if len(sender.removes) != 1 {
		t.Fatalf("expected one removal request, got %d", len(sender.removes))
	}
	if sender.removes[0] != (marker.Position{X: 42, Y: 70, Z: -3}) {
		t.Fatalf("unexpected removal position: %+v", sender.removes[0])
	}
}
