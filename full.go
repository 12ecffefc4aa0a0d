package qpdecay

import (
	"github.com/Lilineko/AvoidedQPDecay/mat"
)

var (
	identity = mat.COOIdentity(2)
	number   = mat.M([][]complex64{
		{0, 0},
		{0, 1},
	})
	raise = mat.M([][]complex64{
		{0, 0},
		{1, 0},
	})
	lower = mat.M([][]complex64{
		{0, 1},
		{0, 0},
	})
)

// XXZFull builds the model on the full 2^L Hilbert space in magnon
// language by Kronecker products over sites. It serves as the
// brute-force reference the symmetry-reduced construction is checked
// against.
func XXZFull(hamiltonian, buf *mat.COO, cfg Config) {
	l := cfg.L
	hamiltonian.Zeros(1<<l, 1<<l)

	j := complex64(complex(cfg.J, 0))
	dj := complex64(complex(cfg.J*cfg.Delta, 0))
	a := complex64(complex(cfg.Alpha, 0))
	for i := 1; i <= l; i++ {
		k := i%l + 1

		// Exchange creates or annihilates magnon pairs on the bond.
		site(hamiltonian, buf, l, 0.5*j, map[int]*mat.COO{i: raise, k: raise})
		site(hamiltonian, buf, l, 0.5*j, map[int]*mat.COO{i: lower, k: lower})

		site(hamiltonian, buf, l, -0.25*dj, nil)
		site(hamiltonian, buf, l, 0.5*dj, map[int]*mat.COO{i: number})
		site(hamiltonian, buf, l, 0.5*dj, map[int]*mat.COO{k: number})
		site(hamiltonian, buf, l, -a*dj, map[int]*mat.COO{i: number, k: number})
	}
}

func site(hamiltonian, buf *mat.COO, l int, c complex64, ops map[int]*mat.COO) {
	buf.Scalar(1)
	// Site 1 is the least significant bit, so it is the last Kron factor.
	for s := l; s >= 1; s-- {
		op, ok := ops[s]
		if !ok {
			op = identity
		}
		buf.Kron(op)
	}
	hamiltonian.Add(c, buf)
}

// XXZFullExplicit builds the model on the full 2^L space state by
// state, with the same bond rules the reduced construction uses.
func XXZFullExplicit(hamiltonian mat.Matrix, cfg Config) {
	l := cfg.L
	hamiltonian.Zeros(1<<l, 1<<l)
	for state := uint64(0); state < uint64(1)<<l; state++ {
		var diagonal float64
		for i := 1; i <= l; i++ {
			j := i%l + 1
			ib := state >> (i - 1) & 1
			jb := state >> (j - 1) & 1

			if ib == jb {
				flipped := state ^ (uint64(1)<<(i-1) | uint64(1)<<(j-1))
				hamiltonian.Accumulate(int(state), int(flipped), complex64(complex(0.5*cfg.J, 0)))
			}

			diagonal -= (0.25 - 0.5*float64(ib+jb) + cfg.Alpha*float64(ib*jb)) * cfg.Delta
		}
		if diagonal != 0 {
			hamiltonian.Accumulate(int(state), int(state), complex64(complex(cfg.J*diagonal, 0)))
		}
	}
	hamiltonian.Compact()
}
