package ecs

import "strconv"

// Entity is a sandbox object, normally one physics body with its transform
// and draw style. The low 32 bits hold the slot and the high 32 bits the
// generation, so a handle kept after its body is removed no longer matches.
type Entity uint64

type entityID uint32
type generation uint32

const entityIDBits = 32

func makeEntity(id entityID, gen generation) Entity {
	return Entity(uint64(gen)<<entityIDBits | uint64(id))
}

func (e Entity) id() entityID {
	return entityID(uint32(e))
}

func (e Entity) generation() generation {
	return generation(uint32(uint64(e) >> entityIDBits))
}

func (e Entity) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

// Valid reports whether e was ever issued. The zero Entity never is.
func (e Entity) Valid() bool {
	return e > 0
}
