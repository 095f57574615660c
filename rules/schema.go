package rules

import "github.com/maltiez2/vsmod-mapmarkers/marker"

// RuleDocument models one entry of the user-editable waypoint rules file. The
// struct is exported so tooling (e.g. the schema generator) can reflect over
// the configuration contract shared with players.
type RuleDocument struct {
	Title    string   `json:"title" jsonschema:"title=Waypoint title,description=Label shown on the map for waypoints placed by this rule.,minLength=1,required"`
	Icon     string   `json:"icon" jsonschema:"title=Waypoint icon,description=Icon identifier from the host game's marker icon set.,minLength=1,required"`
	Color    string   `json:"color,omitempty" jsonschema:"title=Waypoint color,description=Hex RGB color such as #FF0000. Empty uses the map default.,pattern=^(#?[0-9a-fA-F]{6})?$"`
	Pinned   bool     `json:"pinned,omitempty" jsonschema:"title=Pinned,description=Keep the waypoint visible at the map edge when off-screen."`
	Coverage float32  `json:"coverage,omitempty" jsonschema:"title=Coverage radius,description=Horizontal radius in blocks within which an identical-looking waypoint suppresses new ones.,minimum=0"`
	Blocks   []string `json:"blocks,omitempty" jsonschema:"title=Block patterns,description=Wildcard patterns matched against block codes. Earlier rules win ties."`
	Entities []string `json:"entities,omitempty" jsonschema:"title=Creature patterns,description=Wildcard patterns matched against creature-type codes. Earlier rules win ties."`
}

// File represents the contents of the waypoint rules file: an object with a
// single "waypoints" array, in authoring order.
type File struct {
	Waypoints []RuleDocument `json:"waypoints" jsonschema:"title=Waypoint rules,description=Ordered rule list; earlier rules claim patterns and codes first.,required"`
}

// Rule is the runtime form of a RuleDocument consumed by the compiler.
type Rule struct {
	Appearance       marker.Appearance
	BlockPatterns    []string
	CreaturePatterns []string
}

func (d RuleDocument) rule() Rule {
	return Rule{
		Appearance: marker.Appearance{
			Title:          d.Title,
			Icon:           d.Icon,
			Color:          d.Color,
			Pinned:         d.Pinned,
			CoverageRadius: d.Coverage,
		},
		BlockPatterns:    append([]string(nil), d.Blocks...),
		CreaturePatterns: append([]string(nil), d.Entities...),
	}
}

// Rules converts the file into the ordered rule list the compiler consumes.
func (f File) Rules() []Rule {
	out := make([]Rule, 0, len(f.Waypoints))
	for _, doc := range f.Waypoints {
		out = append(out, doc.rule())
	}
	return out
}
