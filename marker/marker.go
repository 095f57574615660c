// Package marker holds the shared waypoint value types exchanged between the
// rule compiler, the interaction detector, and the waypoint authority.
package marker

import (
	"math"
	"strconv"
	"strings"
)

// Position is a world-space coordinate. Y is the vertical axis.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ChebyshevXZ returns the horizontal Chebyshev distance to another position:
// max(|dx|, |dz|). The vertical axis is ignored.
func (p Position) ChebyshevXZ(o Position) float64 {
	dx := math.Abs(p.X - o.X)
	dz := math.Abs(p.Z - o.Z)
	return math.Max(dx, dz)
}

// DistanceTo returns the straight-line distance to another position.
func (p Position) DistanceTo(o Position) float64 {
	dx := p.X - o.X
	dy := p.Y - o.Y
	dz := p.Z - o.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Appearance describes how a waypoint placed by a rule should look.
// Values are immutable once compiled into lookup tables.
type Appearance struct {
	Title          string  `json:"title"`
	Icon           string  `json:"icon"`
	Color          string  `json:"color"`
	Pinned         bool    `json:"pinned"`
	CoverageRadius float32 `json:"coverage"`
}

// Waypoint is a single entry in the shared map-layer collection. It is
// inserted exclusively by the waypoint authority; rendering code only reads.
type Waypoint struct {
	ID       uint64   `json:"id"`
	Position Position `json:"position"`
	Title    string   `json:"title"`
	Icon     string   `json:"icon"`
	Color    int32    `json:"color"`
	Pinned   bool     `json:"pinned"`
	OwnedBy  string   `json:"ownedBy"`
}

// PackColor converts a hex RGB string ("#FF0000" or "ff0000") to a packed
// 0xRRGGBB integer. Empty or malformed strings pack to zero.
func PackColor(hex string) int32 {
	trimmed := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(trimmed) != 6 {
		return 0
	}
	value, err := strconv.ParseUint(trimmed, 16, 32)
	if err != nil {
		return 0
	}
	return int32(value)
}
