package rules

import (
	"github.com/maltiez2/vsmod-mapmarkers/marker"
	"github.com/maltiez2/vsmod-mapmarkers/taxonomy"
)

// Tables holds the compiled per-session lookups: block id → appearance and
// creature-type code → appearance. Built once after the taxonomy is fully
// known and never mutated afterwards.
type Tables struct {
	Blocks    map[taxonomy.BlockID]marker.Appearance
	Creatures map[string]marker.Appearance
}

type patternEntry struct {
	pattern    string
	appearance marker.Appearance
}

// Compile resolves an ordered rule set against the known block and
// creature-type enumerations. For each category an intermediate
// pattern → appearance list is built in rule order, first rule to claim a
// pattern wins; then every known code is claimed by the first matching
// pattern in that insertion order. Patterns that match nothing are dropped
// silently, and a code claimed once is never overridden.
func Compile(ruleset []Rule, blocks []taxonomy.Block, creatures []string) Tables {
	blockPatterns := collectPatterns(ruleset, func(r Rule) []string { return r.BlockPatterns })
	creaturePatterns := collectPatterns(ruleset, func(r Rule) []string { return r.CreaturePatterns })

	tables := Tables{
		Blocks:    make(map[taxonomy.BlockID]marker.Appearance),
		Creatures: make(map[string]marker.Appearance),
	}

	for _, block := range blocks {
		for _, entry := range blockPatterns {
			if taxonomy.Match(entry.pattern, block.Code) {
				tables.Blocks[block.ID] = entry.appearance
				break
			}
		}
	}

	for _, code := range creatures {
		for _, entry := range creaturePatterns {
			if taxonomy.Match(entry.pattern, code) {
				tables.Creatures[code] = entry.appearance
				break
			}
		}
	}

	return tables
}

// collectPatterns flattens the rule set into pattern order: rule order first,
// pattern order within a rule second, keeping only the first occurrence of
// each pattern string.
func collectPatterns(ruleset []Rule, pick func(Rule) []string) []patternEntry {
	var entries []patternEntry
	seen := make(map[string]struct{})
	for _, rule := range ruleset {
		for _, pattern := range pick(rule) {
			if pattern == "" {
				continue
			}
			if _, dup := seen[pattern]; dup {
				continue
			}
			seen[pattern] = struct{}{}
			entries = append(entries, patternEntry{pattern: pattern, appearance: rule.Appearance})
		}
	}
	return entries
}
