package qpdecay

import (
	"fmt"
	"slices"
	"testing"

	"github.com/pkg/errors"
)

func TestNewBasis(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cfg    Config
		states []uint64
	}{
		// All two-magnon orbits of the four-site chain at zero momentum.
		{cfg: Config{L: 4, Momentum: 0, Magnetization: 0}, states: []uint64{0b0011, 0, 0b1111}},
		// At momentum one only the four-periodic orbit survives.
		{cfg: Config{L: 4, Momentum: 1, Magnetization: 0}, states: []uint64{0b0011}},
		{cfg: Config{L: 2, Momentum: 0, Magnetization: 1}, states: []uint64{0b01}},
		// Empty sector.
		{cfg: Config{L: 2, Momentum: 1, Magnetization: 0}, states: []uint64{}},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%#v", test.cfg), func(t *testing.T) {
			t.Parallel()
			b, err := NewBasis(test.cfg)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if !slices.Equal(b.States(), test.states) {
				t.Fatalf("%v, expected %v", b.States(), test.states)
			}
			for i, state := range test.states {
				j, ok := b.Index(state)
				if !ok || j != i {
					t.Fatalf("%b %d %v, expected %d", state, j, ok, i)
				}
				if b.State(i) != state {
					t.Fatalf("%b, expected %b", b.State(i), state)
				}
			}
		})
	}
}

func TestNewBasisError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		cfg Config
		err error
	}{
		{cfg: Config{L: 3, Momentum: 0, Magnetization: 0}, err: ErrInvalidSize},
		{cfg: Config{L: 4, Momentum: 0, Magnetization: 3}, err: ErrInvalidMagnetization},
		{cfg: Config{L: 4, Momentum: 0, Magnetization: -1}, err: ErrInvalidMagnetization},
	}
	for _, test := range tests {
		t.Run(fmt.Sprintf("%#v", test.cfg), func(t *testing.T) {
			t.Parallel()
			if _, err := NewBasis(test.cfg); errors.Cause(err) != test.err {
				t.Fatalf("%+v, expected %v", err, test.err)
			}
		})
	}
}

func TestBasisKeys(t *testing.T) {
	t.Parallel()
	tests := []Config{
		{L: 8, Momentum: 0, Magnetization: 0},
		{L: 8, Momentum: 1, Magnetization: 0},
		{L: 8, Momentum: 3, Magnetization: 2},
		{L: 6, Momentum: 5, Magnetization: 1},
	}
	for _, cfg := range tests {
		t.Run(fmt.Sprintf("%#v", cfg), func(t *testing.T) {
			t.Parallel()
			b, err := NewBasis(cfg)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			for _, state := range b.States() {
				info := classify(state, cfg.L, cfg.Momentum)
				if info.rep != state || info.dist != 0 {
					t.Fatalf("%b %#v", state, info)
				}
				if !info.inSector {
					t.Fatalf("%b %#v", state, info)
				}
			}

			// Rebuilding yields the same index order.
			b1, err := NewBasis(cfg)
			if err != nil {
				t.Fatalf("%+v", err)
			}
			if !slices.Equal(b.States(), b1.States()) {
				t.Fatalf("%v, expected %v", b1.States(), b.States())
			}
		})
	}
}

// TestSectorDimensions checks that the momentum sectors of a
// magnetization partition the configuration space.
func TestSectorDimensions(t *testing.T) {
	t.Parallel()
	for _, l := range []int{4, 6, 8} {
		t.Run(fmt.Sprintf("%d", l), func(t *testing.T) {
			t.Parallel()
			for s := 0; s <= l/2; s++ {
				total := 0
				for m := 0; m < l; m++ {
					b, err := NewBasis(Config{L: l, Momentum: m, Magnetization: s})
					if err != nil {
						t.Fatalf("%+v", err)
					}
					total += b.Len()
				}
				if expected := binomial(l, l/2-s); total != expected {
					t.Fatalf("%d %d %d, expected %d", s, l, total, expected)
				}
			}
		})
	}
}
