package dynamics

import (
	"strconv"

	"github.com/milk9111/rigid2d/vmath"
)

// ProxyID identifies a fixture proxy inside a broad phase.
type ProxyID int

// NullProxy is the ProxyID of a proxy that hasn't been created.
const NullProxy ProxyID = -1

// BroadPhase is the spatial index the kernel reports fixture bounds to.
// Implementations are driven single-threaded by the world's step loop and
// are not required to be safe for concurrent use.
type BroadPhase interface {
	// CreateProxy registers bounds and returns the proxy's id. userData is
	// handed back by pair queries; the kernel stores the fixture proxy.
	CreateProxy(aabb vmath.AABB, userData any) ProxyID

	// DestroyProxy removes a proxy.
	DestroyProxy(id ProxyID)

	// MoveProxy updates a proxy's bounds. displacement is the motion since
	// the last update, used to predict the direction of travel.
	MoveProxy(id ProxyID, aabb vmath.AABB, displacement vmath.Vec2)

	// TouchProxy marks a proxy so candidate pairs are regenerated for it
	// on the next pair query even if its bounds did not change.
	TouchProxy(id ProxyID)
}

// BruteBroadPhase is a slice-backed broad phase with no acceleration
// structure. It exists for the sandbox and for tests; a dynamic tree would
// slot in behind the same interface.
type BruteBroadPhase struct {
	proxies []bruteProxy
	free    []ProxyID
	moved   map[ProxyID]struct{}
}

type bruteProxy struct {
	aabb     vmath.AABB
	userData any
	live     bool
}

// NewBruteBroadPhase returns an empty broad phase.
func NewBruteBroadPhase() *BruteBroadPhase {
	return &BruteBroadPhase{moved: make(map[ProxyID]struct{})}
}

func (bp *BruteBroadPhase) CreateProxy(aabb vmath.AABB, userData any) ProxyID {
	fat := aabb.Extend(aabbExtension)
	if n := len(bp.free); n > 0 {
		id := bp.free[n-1]
		bp.free = bp.free[:n-1]
		bp.proxies[id] = bruteProxy{aabb: fat, userData: userData, live: true}
		bp.moved[id] = struct{}{}
		return id
	}
	bp.proxies = append(bp.proxies, bruteProxy{aabb: fat, userData: userData, live: true})
	id := ProxyID(len(bp.proxies) - 1)
	bp.moved[id] = struct{}{}
	return id
}

func (bp *BruteBroadPhase) DestroyProxy(id ProxyID) {
	if !bp.valid(id) {
		panic("dynamics: destroy of unknown proxy " + strconv.Itoa(int(id)))
	}
	bp.proxies[id] = bruteProxy{}
	bp.free = append(bp.free, id)
	delete(bp.moved, id)
}

func (bp *BruteBroadPhase) MoveProxy(id ProxyID, aabb vmath.AABB, displacement vmath.Vec2) {
	if !bp.valid(id) {
		panic("dynamics: move of unknown proxy " + strconv.Itoa(int(id)))
	}
	p := &bp.proxies[id]
	if p.aabb.Contains(aabb) {
		return
	}
	fat := aabb.Extend(aabbExtension)
	// Stretch along the direction of travel so the next few steps stay
	// inside the fat bounds.
	if displacement.X < 0 {
		fat.Lower.X += displacement.X
	} else {
		fat.Upper.X += displacement.X
	}
	if displacement.Y < 0 {
		fat.Lower.Y += displacement.Y
	} else {
		fat.Upper.Y += displacement.Y
	}
	p.aabb = fat
	bp.moved[id] = struct{}{}
}

func (bp *BruteBroadPhase) TouchProxy(id ProxyID) {
	if !bp.valid(id) {
		panic("dynamics: touch of unknown proxy " + strconv.Itoa(int(id)))
	}
	bp.moved[id] = struct{}{}
}

// ProxyCount returns the number of live proxies.
func (bp *BruteBroadPhase) ProxyCount() int {
	n := 0
	for _, p := range bp.proxies {
		if p.live {
			n++
		}
	}
	return n
}

// Bounds returns the fattened bounds of a proxy.
func (bp *BruteBroadPhase) Bounds(id ProxyID) vmath.AABB {
	if !bp.valid(id) {
		panic("dynamics: bounds of unknown proxy " + strconv.Itoa(int(id)))
	}
	return bp.proxies[id].aabb
}

// Moved reports whether a proxy has pending pair regeneration.
func (bp *BruteBroadPhase) Moved(id ProxyID) bool {
	_, ok := bp.moved[id]
	return ok
}

// ClearMoved drains the moved set. The contact manager calls this after a
// pair query.
func (bp *BruteBroadPhase) ClearMoved() {
	clear(bp.moved)
}

// QueryPairs calls fn for every overlapping pair where at least one proxy
// moved or was touched since the last ClearMoved.
func (bp *BruteBroadPhase) QueryPairs(fn func(a, b any)) {
	for id := range bp.moved {
		if !bp.valid(id) {
			continue
		}
		pa := bp.proxies[id]
		for other := range bp.proxies {
			oid := ProxyID(other)
			if oid == id || !bp.proxies[other].live {
				continue
			}
			// Avoid reporting a moved/moved pair twice.
			if _, ok := bp.moved[oid]; ok && oid < id {
				continue
			}
			if pa.aabb.Overlaps(bp.proxies[other].aabb) {
				fn(pa.userData, bp.proxies[other].userData)
			}
		}
	}
}

func (bp *BruteBroadPhase) valid(id ProxyID) bool {
	return id >= 0 && int(id) < len(bp.proxies) && bp.proxies[id].live
}

