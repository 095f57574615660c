// Package taxonomy models the host game's object registry: the enumeration of
// known block codes with their per-session numeric ids, the enumeration of
// creature-type codes, and the wildcard matcher rule patterns are written
// against.
package taxonomy

// BlockID identifies a block type for the duration of one process run. Ids
// are assigned densely in registration order and must never be persisted.
type BlockID uint32

// Block pairs a session-scoped block id with its stable string code.
type Block struct {
	ID   BlockID
	Code string
}

// Registry accumulates the known block and creature codes. It is populated
// single-threaded during session start and read-only afterwards.
type Registry struct {
	blocks       []Block
	blocksByCode map[string]BlockID
	creatures    []string
	creatureSet  map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		blocksByCode: make(map[string]BlockID),
		creatureSet:  make(map[string]struct{}),
	}
}

// RegisterBlock records a block code and assigns its session id. Registering
// the same code twice returns the original id.
func (r *Registry) RegisterBlock(code string) BlockID {
	if id, ok := r.blocksByCode[code]; ok {
		return id
	}
	id := BlockID(len(r.blocks) + 1)
	r.blocks = append(r.blocks, Block{ID: id, Code: code})
	r.blocksByCode[code] = id
	return id
}

// RegisterCreature records a creature-type code. Duplicates are ignored.
func (r *Registry) RegisterCreature(code string) {
	if _, ok := r.creatureSet[code]; ok {
		return
	}
	r.creatureSet[code] = struct{}{}
	r.creatures = append(r.creatures, code)
}

// BlockByCode resolves a block code to its session id.
func (r *Registry) BlockByCode(code string) (BlockID, bool) {
	id, ok := r.blocksByCode[code]
	return id, ok
}

// BlockCode resolves a session id back to its block code.
func (r *Registry) BlockCode(id BlockID) (string, bool) {
	idx := int(id) - 1
	if idx < 0 || idx >= len(r.blocks) {
		return "", false
	}
	return r.blocks[idx].Code, true
}

// Blocks returns the known blocks in registration order.
func (r *Registry) Blocks() []Block {
	return r.blocks
}

// Creatures returns the known creature-type codes in registration order.
func (r *Registry) Creatures() []string {
	return r.creatures
}
