package taxonomy

import "testing"

func TestRegistryAssignsDenseIDsInOrder(t *testing.T) {
	reg := NewRegistry()

	first := reg.RegisterBlock("ore-copper")
	second := reg.RegisterBlock("stone")
	again := reg.RegisterBlock("ore-copper")

	if first != 1 || second != 2 {
		t.Fatalf("expected ids 1 and 2, got %d and %d", first, second)
	}
	if again != first {
		t.Fatalf("re-registering returned %d, want %d", again, first)
	}

	blocks := reg.Blocks()
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Code != "ore-copper" || blocks[1].Code != "stone" {
		t.Fatalf("unexpected registration order: %+v", blocks)
	}
}

func TestRegistryLookups(t *testing.T) {
	reg := NewRegistry()
	id := reg.RegisterBlock("ore-tin")

	got, ok := reg.BlockByCode("ore-tin")
	if !ok || got != id {
		t.Fatalf("BlockByCode = (%d, %v), want (%d, true)", got, ok, id)
	}

	code, ok := reg.BlockCode(id)
	if !ok || code != "ore-tin" {
		t.Fatalf("BlockCode = (%q, %v), want (ore-tin, true)", code, ok)
	}

	if _, ok := reg.BlockByCode("missing"); ok {
		t.Fatalf("expected miss for unknown code")
	}
	if _, ok := reg.BlockCode(99); ok {
		t.Fatalf("expected miss for unknown id")
	}
}

func TestRegistryCreaturesDeduplicate(t *testing.T) {
	reg := NewRegistry()
	reg.RegisterCreature("wolf-male")
	reg.RegisterCreature("wolf-female")
	reg.RegisterCreature("wolf-male")

	creatures := reg.Creatures()
	if len(creatures) != 2 {
		t.Fatalf("expected 2 creatures, got %d: %v", len(creatures), creatures)
	}
	if creatures[0] != "wolf-male" || creatures[1] != "wolf-female" {
		t.Fatalf("unexpected order: %v", creatures)
	}
}
