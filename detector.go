package mapmarkers

import (
	"github.com/rs/zerolog"

	"github.com/maltiez2/vsmod-mapmarkers/marker"
	"github.com/maltiez2/vsmod-mapmarkers/rules"
	"github.com/maltiez2/vsmod-mapmarkers/taxonomy"
)

// BlockTarget identifies a block under the cursor.
type BlockTarget struct {
	ID       taxonomy.BlockID
	Position marker.Position
}

// CreatureTarget identifies a creature under the cursor.
type CreatureTarget struct {
	Code     string
	Position marker.Position
}

// TargetProvider exposes the host's current interaction target and the
// player's own position.
type TargetProvider interface {
	// BlockTarget returns the block under the cursor, if any.
	BlockTarget() (BlockTarget, bool)
	// CreatureTarget returns the creature under the cursor, if any.
	CreatureTarget() (CreatureTarget, bool)
	// PlayerPosition returns the player's current world position.
	PlayerPosition() marker.Position
}

// RequestSender delivers waypoint messages toward the authoritative side.
// Sends are fire-and-forget from the detector's perspective; a failure is
// logged and the input event is otherwise unaffected.
type RequestSender interface {
	SendWaypointRequest(pos marker.Position, app marker.Appearance) error
	SendRemoveRequest(pos marker.Position) error
}

// Detector watches the player's interaction input and emits a waypoint
// request when the current target has an appearance in the compiled
// tables. It runs synchronously inside the host's input loop, never blocks
// and never consumes the input event. Not safe for concurrent use.
type Detector struct {
	tables  rules.Tables
	targets TargetProvider
	sender  RequestSender
	log     zerolog.Logger

	interactHeld bool
	removeHeld   bool
}

// NewDetector creates a detector reading the given compiled tables. The
// tables are immutable after compilation, so the detector reads them
// without synchronization.
func NewDetector(tables rules.Tables, targets TargetProvider, sender RequestSender, log zerolog.Logger) *Detector {
	return &Detector{
		tables:  tables,
		targets: targets,
		sender:  sender,
		log:     log,
	}
}

// ObservePrimaryInteract samples the primary-interact input state. Only
// the rising edge (not pressed to pressed) inspects the target; holding
// the input emits nothing further until it is released and pressed again.
func (d *Detector) ObservePrimaryInteract(pressed bool) {
	rising := pressed && !d.interactHeld
	d.interactHeld = pressed
	if !rising {
		return
	}
	d.inspectTarget()
}

// ObserveRemoveKey samples the remove-waypoint input state. On the rising
// edge it asks the server to delete the waypoint nearest to the player.
func (d *Detector) ObserveRemoveKey(pressed bool) {
	rising := pressed && !d.removeHeld
	d.removeHeld = pressed
	if !rising {
		return
	}
	if err := d.sender.SendRemoveRequest(d.targets.PlayerPosition()); err != nil {
		d.log.Warn().Err(err).Msg("waypoint removal send failed")
	}
}

// inspectTarget checks the block target first; the creature target is only
// consulted when the block target misses the compiled table. A target in
// neither table is the expected common case and is silently ignored.
func (d *Detector) inspectTarget() {
	if target, ok := d.targets.BlockTarget(); ok {
		if app, ok := d.tables.Blocks[target.ID]; ok {
			d.send(target.Position, app)
			return
		}
	}
	if target, ok := d.targets.CreatureTarget(); ok {
		if app, ok := d.tables.Creatures[target.Code]; ok {
			d.send(target.Position, app)
		}
	}
}

func (d *Detector) send(pos marker.Position, app marker.Appearance) {
	if err := d.sender.SendWaypointRequest(pos, app); err != nil {
		d.log.Warn().Err(err).Str("title", app.Title).Msg("waypoint request send failed")
		return
	}
	d.log.Debug().Str("title", app.Title).Msg("waypoint request sent")
}
