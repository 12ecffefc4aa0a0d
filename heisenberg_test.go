package qpdecay

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/bits"
	"math/cmplx"
	"sort"
	"testing"

	"github.com/Lilineko/AvoidedQPDecay/mat"
)

func TestXXZ(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cfg Config
		h   *mat.COO
	}{
		{
			cfg: Config{L: 4, Momentum: 0, Magnetization: 0, J: 1, Delta: 1, Alpha: 1},
			h: mat.M([][]complex64{
				{0, 1, 1},
				{1, -1, 0},
				{1, 0, -1},
			}),
		},
		// At momentum one every bond image leaves the sector.
		{
			cfg: Config{L: 4, Momentum: 1, Magnetization: 0, J: 1, Delta: 1, Alpha: 1},
			h:   mat.COOZeros(1, 1),
		},
		{
			cfg: Config{L: 2, Momentum: 0, Magnetization: 1, J: 1, Delta: 1, Alpha: 1},
			h:   mat.M([][]complex64{{0.5}}),
		},
		// The coupling scales every entry.
		{
			cfg: Config{L: 4, Momentum: 0, Magnetization: 0, J: 2, Delta: 1, Alpha: 1},
			h: mat.M([][]complex64{
				{0, 2, 2},
				{2, -2, 0},
				{2, 0, -2},
			}),
		},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%#v", test.cfg), func(t *testing.T) {
			t.Parallel()
			b, err := NewBasis(test.cfg)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			h := mat.COOZeros(b.Len(), b.Len())
			XXZ(h, b, test.cfg)
			if !h.Equal(test.h) {
				t.Fatalf("\n%s, expected \n\n%s", h, test.h)
			}
		})
	}
}

func TestHamiltonianOutsideBasis(t *testing.T) {
	t.Parallel()
	cfg := Config{L: 4, Momentum: 0, Magnetization: 0, J: 1, Delta: 1, Alpha: 1}
	b, err := NewBasis(cfg)
	if err != nil {
		t.Fatalf("%+v", err)
	}

	// 0b0110 is in the sector but is not the orbit representative, and
	// 0b0101 carries the wrong magnetization.
	for _, state := range []uint64{0b0110, 0b0101} {
		lc := Hamiltonian(state, b, cfg)
		for i, c := range lc.Coeffs {
			if c != 0 {
				t.Fatalf("%b %d %v", state, i, c)
			}
		}
	}
}

func TestXXZHermitian(t *testing.T) {
	t.Parallel()
	tests := []Config{
		{L: 6, Momentum: 1, Magnetization: 0, J: 1, Delta: 1, Alpha: 1},
		{L: 6, Momentum: 2, Magnetization: 1, J: 1, Delta: 0.5, Alpha: 0.75},
		{L: 8, Momentum: 3, Magnetization: 1, J: 1, Delta: 1, Alpha: 1},
		{L: 8, Momentum: 5, Magnetization: 2, J: 1, Delta: 2, Alpha: 0},
	}
	for _, cfg := range tests {
		t.Run(fmt.Sprintf("%#v", cfg), func(t *testing.T) {
			t.Parallel()
			b, err := NewBasis(cfg)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			h := mat.COOZeros(b.Len(), b.Len())
			XXZ(h, b, cfg)
			if !h.IsHermitian(1e-5) {
				t.Fatalf("\n%s", h)
			}

			// Each row holds at most the diagonal and one entry per bond.
			for i, row := range h.Dense() {
				count := 0
				for _, v := range row {
					if v != 0 {
						count++
					}
				}
				if count > cfg.L+1 {
					t.Fatalf("%d %d", i, count)
				}
			}
		})
	}
}

func TestXXZParallel(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cfg     Config
		workers int
	}{
		{cfg: Config{L: 6, Momentum: 2, Magnetization: 1, J: 1, Delta: 1, Alpha: 1}, workers: 1},
		{cfg: Config{L: 6, Momentum: 2, Magnetization: 1, J: 1, Delta: 1, Alpha: 1}, workers: 3},
		{cfg: Config{L: 8, Momentum: 1, Magnetization: 0, J: 1, Delta: 0.5, Alpha: 0.75}, workers: 8},
		// More workers than rows.
		{cfg: Config{L: 4, Momentum: 0, Magnetization: 0, J: 1, Delta: 1, Alpha: 1}, workers: 16},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%#v %d", test.cfg, test.workers), func(t *testing.T) {
			t.Parallel()
			b, err := NewBasis(test.cfg)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			serial := mat.COOZeros(b.Len(), b.Len())
			XXZ(serial, b, test.cfg)
			parallel := mat.COOZeros(b.Len(), b.Len())
			if err := XXZParallel(parallel, b, test.cfg, test.workers); err != nil {
				t.Fatalf("%+v", err)
			}

			sd, pd := serial.Dense(), parallel.Dense()
			for i := range sd {
				for j := range sd[i] {
					if cmplx.Abs(complex128(sd[i][j]-pd[i][j])) > 1e-6 {
						t.Fatalf("%d %d %v, expected %v", i, j, pd[i][j], sd[i][j])
					}
				}
			}
		})
	}
}

func TestGroundSector(t *testing.T) {
	t.Parallel()
	cfg := Config{L: 8, Momentum: 0, Magnetization: 0, J: 1, Delta: 1, Alpha: 1}
	b, err := NewBasis(cfg)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	h := mat.COOZeros(b.Len(), b.Len())
	XXZ(h, b, cfg)

	vvs, conv, err := mat.Ground(h, 1)
	if err != nil {
		t.Fatalf("%+v", err)
	}
	if conv.Converged != 1 {
		t.Fatalf("%#v", conv)
	}

	dense := h.EigenHerm()
	if math.Abs(real(vvs[0].Val)-real(dense[0].Val)) > 1e-3 {
		t.Fatalf("%v, expected %v", vvs[0].Val, dense[0].Val)
	}
}

// TestSectorSpectra checks that for every magnetization the momentum
// sector spectra together reproduce the spectrum of the full
// Hamiltonian restricted to the corresponding configuration space.
func TestSectorSpectra(t *testing.T) {
	t.Parallel()
	for _, l := range []int{4, 6} {
		t.Run(fmt.Sprintf("%d", l), func(t *testing.T) {
			t.Parallel()
			cfg := Config{L: l, J: 1, Delta: 1, Alpha: 1}
			full := mat.COOZeros(1, 1)
			XXZFullExplicit(full, cfg)
			dense := full.Dense()
			mask := evenSiteMask(l)

			for s := 0; s <= l/2; s++ {
				k := l/2 - s

				// Configurations with k up spins, in magnon language.
				indices := make([]int, 0)
				for state := 0; state < 1<<l; state++ {
					if bits.OnesCount64(uint64(state)^mask) == k {
						indices = append(indices, state)
					}
				}
				sub := make([][]complex64, len(indices))
				for i, si := range indices {
					sub[i] = make([]complex64, len(indices))
					for j, sj := range indices {
						sub[i][j] = dense[si][sj]
					}
				}
				fullVals := make([]float64, 0, len(indices))
				for _, vv := range mat.M(sub).EigenHerm() {
					fullVals = append(fullVals, real(vv.Val))
				}

				sectorVals := make([]float64, 0, len(indices))
				for m := 0; m < l; m++ {
					scfg := Config{L: l, Momentum: m, Magnetization: s, J: 1, Delta: 1, Alpha: 1}
					b, err := NewBasis(scfg)
					if err != nil {
						t.Fatalf("%+v", err)
					}
					h := mat.COOZeros(b.Len(), b.Len())
					XXZ(h, b, scfg)
					for _, vv := range h.EigenHerm() {
						sectorVals = append(sectorVals, real(vv.Val))
					}
				}

				if len(sectorVals) != len(fullVals) {
					t.Fatalf("%d %d, expected %d", s, len(sectorVals), len(fullVals))
				}
				sort.Float64s(fullVals)
				sort.Float64s(sectorVals)
				for i, v := range sectorVals {
					if math.Abs(v-fullVals[i]) > 1e-4 {
						t.Fatalf("%d %d %f, expected %f", s, i, v, fullVals[i])
					}
				}
			}
		})
	}
}

func TestMain(m *testing.M) {
	flag.Parse()
	log.SetFlags(log.Lmicroseconds | log.Llongfile | log.LstdFlags)

	m.Run()
}
