package qpdecay

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidSize          = errors.New("chain length must be even")
	ErrInvalidMagnetization = errors.New("magnetization out of range")
)

// Config describes one symmetry sector of the XXZ chain.
type Config struct {
	// L is the chain length. Must be even.
	L int
	// Momentum indexes the translation eigenspace, in [0, L).
	Momentum int
	// Magnetization counts flipped spins relative to balance, in [0, L/2].
	Magnetization int
	// J is the exchange coupling.
	J float64
	// Delta is the Ising anisotropy.
	Delta float64
	// Alpha scales the magnon-magnon interaction. 1 is the isotropic model.
	Alpha float64
}

// evenSiteMask is the sublattice rotation mask, with bits set at even sites.
func evenSiteMask(l int) uint64 {
	var mask uint64
	for i := 0; i < l; i += 2 {
		mask |= uint64(1) << i
	}
	return mask
}

// Basis maps momentum-sector orbit representatives to sequential indices.
// The index order is the first-seen order during enumeration, which is
// deterministic for a given Config.
type Basis struct {
	states []uint64
	index  map[uint64]int
}

// NewBasis builds the symmetry-reduced basis of cfg's sector.
// Spin configurations with L/2-Magnetization up spins are enumerated,
// rotated into magnon language, filtered by momentum membership, and
// deduplicated to their orbit representative.
func NewBasis(cfg Config) (*Basis, error) {
	if cfg.L%2 != 0 {
		return nil, errors.Wrap(ErrInvalidSize, fmt.Sprintf("%d", cfg.L))
	}
	if cfg.Magnetization < 0 || cfg.Magnetization > cfg.L/2 {
		return nil, errors.Wrap(ErrInvalidMagnetization, fmt.Sprintf("%d %d", cfg.Magnetization, cfg.L))
	}

	b := &Basis{states: make([]uint64, 0), index: make(map[uint64]int)}
	mask := evenSiteMask(cfg.L)
	magnons := cfg.L/2 - cfg.Magnetization
	for spins := range configurations(cfg.L, magnons) {
		info := classify(spins^mask, cfg.L, cfg.Momentum)
		if !info.inSector {
			continue
		}
		if _, ok := b.index[info.rep]; ok {
			continue
		}
		b.index[info.rep] = len(b.states)
		b.states = append(b.states, info.rep)
	}
	return b, nil
}

// Len returns the sector dimension.
func (b *Basis) Len() int { return len(b.states) }

// Index returns the matrix index of a representative state.
func (b *Basis) Index(state uint64) (int, bool) {
	i, ok := b.index[state]
	return i, ok
}

// State returns the representative at index i.
func (b *Basis) State(i int) uint64 { return b.states[i] }

// States returns the representatives in index order.
func (b *Basis) States() []uint64 { return b.states }
