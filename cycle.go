// Package qpdecay implements symmetry-reduced exact diagonalization of the
// one-dimensional XXZ spin chain.
//
// States are L-bit words. During enumeration a set bit means spin up; after
// the sublattice rotation a set bit means a magnon is present. Translation
// symmetry is exploited by working with orbit representatives only.
//
// References:
//   - Computational Studies of Quantum Spin Systems, Anders W. Sandvik
package qpdecay

// rotate cyclically rotates an l-bit state backward by one site,
// bringing the lowest bit to the top.
func rotate(state uint64, l int) uint64 {
	return state>>1 | (state&1)<<(l-1)
}

// periodicity returns the smallest positive number of rotations mapping
// state onto itself. It always divides l.
func periodicity(state uint64, l int) int {
	p := 1
	for r := rotate(state, l); r != state; r = rotate(r, l) {
		p++
	}
	return p
}

// representative returns the numerically smallest rotation of state.
func representative(state uint64, l int) uint64 {
	m := state
	r := state
	for i := 1; i < l; i++ {
		r = rotate(r, l)
		if r < m {
			m = r
		}
	}
	return m
}

// stateInfo classifies a state with respect to a momentum sector:
// its orbit representative, its periodicity, and the rotation count at
// which the representative is first reached.
type stateInfo struct {
	inSector bool
	rep      uint64
	period   int
	dist     int
}

func classify(state uint64, l, momentum int) stateInfo {
	info := stateInfo{rep: state, period: l}
	r := state
	for i := 1; i < l; i++ {
		r = rotate(r, l)
		if r < info.rep {
			info.rep, info.dist = r, i
		}
		if r == state && info.period == l {
			info.period = i
		}
	}
	info.inSector = momentum*info.period%l == 0
	return info
}
