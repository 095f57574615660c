// Package demoworld seeds the block and creature taxonomy the demo
// host runs with. The codes are chosen so the bundled default rules
// compile into non-empty tables.
package demoworld

import "github.com/maltiez2/vsmod-mapmarkers/taxonomy"

var blockCodes = []string{
	"dirt",
	"stone",
	"gravel",
	"sand",
	"clay",
	"log",
	"ore-copper",
	"ore-iron",
	"ore-gold",
	"looseores-copper",
	"bush-blueberry-ripe",
	"bush-blueberry-empty",
	"wildbeehive-medium",
	"wildbeehive-large",
}

var creatureCodes = []string{
	"wolf-male",
	"wolf-female",
	"deer-doe",
	"deer-stag",
}

// NewRegistry returns a registry populated with the demo taxonomy.
func NewRegistry() *taxonomy.Registry {
	reg := taxonomy.NewRegistry()
	for _, code := range blockCodes {
		reg.RegisterBlock(code)
	}
	for _, code := range creatureCodes {
		reg.RegisterCreature(code)
	}
	return reg
}
