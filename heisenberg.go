package qpdecay

import (
	"math"
	"math/cmplx"

	"golang.org/x/sync/errgroup"

	"github.com/Lilineko/AvoidedQPDecay/mat"
)

// LinearCombination is the image of one basis state under the bond
// Hamiltonian. Slot 0 holds the diagonal accumulation, slots 1..L the
// nearest-neighbor bond contributions.
type LinearCombination struct {
	States []uint64
	Coeffs []complex64
}

// Hamiltonian applies the bond Hamiltonian to a basis state in magnon
// language, mapping every generated state back onto its sector
// representative with the translation phase and orbit normalization.
// A state that is not a basis key yields the all-zero combination.
func Hamiltonian(state uint64, b *Basis, cfg Config) LinearCombination {
	lc := LinearCombination{States: make([]uint64, cfg.L+1), Coeffs: make([]complex64, cfg.L+1)}
	for i := range lc.States {
		lc.States[i] = state
	}
	if _, ok := b.Index(state); !ok {
		return lc
	}

	p := periodicity(state, cfg.L)
	phase := 2 * math.Pi * float64(cfg.Momentum) / float64(cfg.L)
	var diagonal float64
	for i := 1; i <= cfg.L; i++ {
		j := i%cfg.L + 1
		ib := state >> (i - 1) & 1
		jb := state >> (j - 1) & 1

		// Equal neighboring bits in magnon language are an exchangeable
		// spin pair. Bonds whose flipped state falls outside the sector
		// cancel when summed over the orbit and stay zero.
		if ib == jb {
			flipped := state ^ (uint64(1)<<(i-1) | uint64(1)<<(j-1))
			info := classify(flipped, cfg.L, cfg.Momentum)
			if info.inSector {
				norm := 0.5 * math.Sqrt(float64(p)/float64(info.period))
				c := complex(norm, 0) * cmplx.Exp(complex(0, phase*float64(info.dist)))
				lc.States[i] = info.rep
				lc.Coeffs[i] = complex64(c)
			}
		}

		diagonal -= (0.25 - 0.5*float64(ib+jb) + cfg.Alpha*float64(ib*jb)) * cfg.Delta
	}
	lc.Coeffs[0] = complex64(complex(diagonal, 0))

	for i := range lc.Coeffs {
		lc.Coeffs[i] *= complex64(complex(cfg.J, 0))
	}
	return lc
}

// XXZ assembles the sector Hamiltonian of the XXZ chain in basis b.
// The result is Hermitian of dimension b.Len().
func XXZ(hamiltonian mat.Matrix, b *Basis, cfg Config) {
	hamiltonian.Zeros(b.Len(), b.Len())
	for row, state := range b.States() {
		accumulate(hamiltonian, row, b, Hamiltonian(state, b, cfg))
	}
	hamiltonian.Compact()
}

func accumulate(m mat.Matrix, row int, b *Basis, lc LinearCombination) {
	for s, target := range lc.States {
		if lc.Coeffs[s] == 0 {
			continue
		}
		col, ok := b.Index(target)
		if !ok {
			continue
		}
		m.Accumulate(row, col, lc.Coeffs[s])
	}
}

// XXZParallel assembles rows across a bounded worker pool. Every worker
// accumulates into its own buffer, and the final merge is a commutative
// sum, so the result does not depend on scheduling order.
func XXZParallel(hamiltonian *mat.COO, b *Basis, cfg Config, workers int) error {
	if workers < 1 {
		workers = 1
	}
	hamiltonian.Zeros(b.Len(), b.Len())

	parts := make([]*mat.COO, workers)
	chunk := (b.Len() + workers - 1) / workers
	var g errgroup.Group
	g.SetLimit(workers)
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			part := mat.COOZeros(b.Len(), b.Len())
			for row := w * chunk; row < min((w+1)*chunk, b.Len()); row++ {
				accumulate(part, row, b, Hamiltonian(b.State(row), b, cfg))
			}
			parts[w] = part
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, part := range parts {
		hamiltonian.Merge(part)
	}
	hamiltonian.Compact()
	return nil
}
