package qpdecay

// nextConfiguration returns the successor of state in the fixed
// enumeration order of l-bit values with constant popcount: the lowest
// 10 bond becomes 01 and the set bits cleared below it are packed back
// in at the bottom. The second return is false when state is the last
// configuration.
func nextConfiguration(state uint64, l int) (uint64, bool) {
	count := 0
	for i := 0; i < l-1; i++ {
		if state>>i&1 == 0 {
			continue
		}
		if state>>(i+1)&1 == 0 {
			next := state &^ (uint64(1)<<(i+1) - 1)
			next |= uint64(1) << (i + 1)
			next |= uint64(1)<<count - 1
			return next, true
		}
		count++
	}
	return 0, false
}

// configurations yields every l-bit value with exactly k set bits,
// each exactly once, starting from the numerically smallest.
func configurations(l, k int) func(yield func(uint64) bool) {
	return func(yield func(uint64) bool) {
		state := uint64(1)<<k - 1
		for {
			if !yield(state) {
				return
			}
			next, ok := nextConfiguration(state, l)
			if !ok {
				return
			}
			state = next
		}
	}
}
