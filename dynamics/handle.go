package dynamics

import "strconv"

// BodyHandle identifies a body slot in a world's arena. Handles stay valid
// until the body is destroyed; a handle to a destroyed body goes stale and
// lookups on it fail, even if the slot is reused.
type BodyHandle uint64

type slotIndex uint32
type generation uint32

const slotIndexBits = 32

func makeHandle(idx slotIndex, gen generation) BodyHandle {
	return BodyHandle(uint64(gen)<<slotIndexBits | uint64(idx))
}

func (h BodyHandle) index() slotIndex {
	return slotIndex(uint32(h))
}

func (h BodyHandle) generation() generation {
	return generation(uint32(uint64(h) >> slotIndexBits))
}

func (h BodyHandle) String() string {
	return strconv.FormatUint(uint64(h), 10)
}

// Valid reports whether the handle was ever issued by a world.
func (h BodyHandle) Valid() bool {
	return h > 0
}
