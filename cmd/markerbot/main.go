package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	mapmarkers "github.com/maltiez2/vsmod-mapmarkers"
	"github.com/maltiez2/vsmod-mapmarkers/internal/demoworld"
	"github.com/maltiez2/vsmod-mapmarkers/internal/logging"
	"github.com/maltiez2/vsmod-mapmarkers/internal/net/ws"
	"github.com/maltiez2/vsmod-mapmarkers/marker"
	"github.com/maltiez2/vsmod-mapmarkers/rules"
	"github.com/maltiez2/vsmod-mapmarkers/taxonomy"
)

// probe stands in for the host game's targeting system: it reports whatever
// the scenario is currently aiming at. Aiming at a block clears the creature
// target and vice versa.
type probe struct {
	registry *taxonomy.Registry
	player   marker.Position

	block       mapmarkers.BlockTarget
	hasBlock    bool
	creature    mapmarkers.CreatureTarget
	hasCreature bool
}

func newProbe(registry *taxonomy.Registry) *probe {
	return &probe{registry: registry}
}

func (p *probe) aimBlock(code string, pos marker.Position) {
	id, ok := p.registry.BlockByCode(code)
	if !ok {
		fail(fmt.Errorf("unknown block code %q", code))
	}
	p.block = mapmarkers.BlockTarget{ID: id, Position: pos}
	p.hasBlock = true
	p.hasCreature = false
}

func (p *probe) aimCreature(code string, pos marker.Position) {
	p.creature = mapmarkers.CreatureTarget{Code: code, Position: pos}
	p.hasCreature = true
	p.hasBlock = false
}

func (p *probe) standAt(pos marker.Position) {
	p.player = pos
}

func (p *probe) BlockTarget() (mapmarkers.BlockTarget, bool) {
	return p.block, p.hasBlock
}

func (p *probe) CreatureTarget() (mapmarkers.CreatureTarget, bool) {
	return p.creature, p.hasCreature
}

func (p *probe) PlayerPosition() marker.Position {
	return p.player
}

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "marker server base url")
	playerID := flag.String("id", "bot-1", "player id to connect as")
	logLevel := flag.String("log", "info", "log level")
	flag.Parse()

	log := logging.New(logging.Options{Level: *logLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	registry := demoworld.NewRegistry()
	tables := rules.Compile(rules.DefaultFile().Rules(), registry.Blocks(), registry.Creatures())

	inbox := make(chan []marker.Waypoint, 64)
	client, err := dialWithRetry(ctx, *serverURL, *playerID, func(list []marker.Waypoint) {
		select {
		case inbox <- list:
		default:
		}
	}, log)
	if err != nil {
		fail(fmt.Errorf("dial: %w", err))
	}
	defer client.Close()

	aim := newProbe(registry)
	detector := mapmarkers.NewDetector(tables, aim, client, log)

	if _, err := waitForList(ctx, inbox, func([]marker.Waypoint) bool { return true }); err != nil {
		fail(fmt.Errorf("initial list: %w", err))
	}

	aim.aimBlock("ore-copper", marker.Position{X: 12, Y: 64, Z: -40})
	press(detector)
	if _, err := waitForList(ctx, inbox, hasTitle("Ore")); err != nil {
		fail(fmt.Errorf("ore waypoint: %w", err))
	}
	fmt.Println("markerbot: ore waypoint placed")

	aim.aimBlock("bush-blueberry-ripe", marker.Position{X: 90, Y: 70, Z: 15})
	press(detector)
	if _, err := waitForList(ctx, inbox, hasTitle("Berries")); err != nil {
		fail(fmt.Errorf("berry waypoint: %w", err))
	}
	fmt.Println("markerbot: berry waypoint placed")

	aim.aimCreature("wolf-male", marker.Position{X: -25, Y: 64, Z: 33})
	press(detector)
	if _, err := waitForList(ctx, inbox, hasTitle("Wolf")); err != nil {
		fail(fmt.Errorf("wolf waypoint: %w", err))
	}
	fmt.Println("markerbot: wolf waypoint placed")

	// Plain dirt claims no rule, so this press must send nothing.
	aim.aimBlock("dirt", marker.Position{X: 200, Y: 64, Z: 200})
	press(detector)

	// A second deposit inside the first one's coverage radius is suppressed
	// server-side. The gold deposit far away lands, and its refresh must
	// still show exactly two ore waypoints.
	aim.aimBlock("ore-iron", marker.Position{X: 14, Y: 66, Z: -39})
	press(detector)
	aim.aimBlock("ore-gold", marker.Position{X: 400, Y: 64, Z: 400})
	press(detector)
	list, err := waitForList(ctx, inbox, func(list []marker.Waypoint) bool {
		for _, wp := range list {
			if wp.Title == "Ore" && wp.Position.X == 400 {
				return true
			}
		}
		return false
	})
	if err != nil {
		fail(fmt.Errorf("second ore waypoint: %w", err))
	}
	if got := countTitle(list, "Ore"); got != 2 {
		fail(fmt.Errorf("expected covered ore deposit to be suppressed, got %d ore waypoints", got))
	}
	fmt.Println("markerbot: covered ore deposit suppressed")

	aim.standAt(marker.Position{X: 91, Y: 70, Z: 14})
	pressRemove(detector)
	final, err := waitForList(ctx, inbox, func(list []marker.Waypoint) bool {
		return countTitle(list, "Berries") == 0 && len(list) == 3
	})
	if err != nil {
		fail(fmt.Errorf("berry removal: %w", err))
	}
	fmt.Println("markerbot: berry waypoint removed")

	for _, wp := range final {
		fmt.Printf("markerbot: %s at (%.0f, %.0f, %.0f)\n", wp.Title, wp.Position.X, wp.Position.Y, wp.Position.Z)
	}
	fmt.Println("markerbot: scenario complete")
}

// press taps the primary-interact input: one rising edge, then release.
func press(d *mapmarkers.Detector) {
	d.ObservePrimaryInteract(true)
	d.ObservePrimaryInteract(false)
}

func pressRemove(d *mapmarkers.Detector) {
	d.ObserveRemoveKey(true)
	d.ObserveRemoveKey(false)
}

func waitForList(ctx context.Context, inbox <-chan []marker.Waypoint, predicate func([]marker.Waypoint) bool) ([]marker.Waypoint, error) {
	for {
		select {
		case list := <-inbox:
			if predicate(list) {
				return list, nil
			}
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func hasTitle(title string) func([]marker.Waypoint) bool {
	return func(list []marker.Waypoint) bool {
		return countTitle(list, title) > 0
	}
}

func countTitle(list []marker.Waypoint, title string) int {
	count := 0
	for _, wp := range list {
		if wp.Title == title {
			count++
		}
	}
	return count
}

func dialWithRetry(ctx context.Context, serverURL, playerID string, onList func([]marker.Waypoint), log zerolog.Logger) (*ws.Client, error) {
	var lastErr error
	for attempt := 0; attempt < 12; attempt++ {
		client, err := ws.Dial(serverURL, playerID, onList, log)
		if err == nil {
			return client, nil
		}
		lastErr = err
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(180 * time.Millisecond):
		}
	}
	return nil, lastErr
}

func fail(err error) {
	fmt.Println(err.Error())
	os.Exit(1)
}
