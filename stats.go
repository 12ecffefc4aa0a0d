package qpdecay

import (
	"math"
	"math/bits"

	"github.com/pkg/errors"

	"github.com/Lilineko/AvoidedQPDecay/mat"
)

// Statistics are ground-state observables of one sector.
type Statistics struct {
	EigenValue             []float64
	MagnonDensity          float64
	StaggeredMagnetization float64
}

// GetStatistics computes observables from eigenpairs whose vectors are
// in basis-index coordinates. Magnon occupation is constant along a
// translation orbit, so each representative stands in for its whole
// orbit.
func GetStatistics(cfg Config, b *Basis, vvs []mat.ValVec) (Statistics, error) {
	if len(vvs) == 0 {
		return Statistics{}, errors.Errorf("no eigenpairs")
	}
	var stats Statistics
	for _, vv := range vvs {
		stats.EigenValue = append(stats.EigenValue, real(vv.Val))
	}

	ground := vvs[0]
	if len(ground.Vec) != b.Len() {
		return Statistics{}, errors.Errorf("%d %d", len(ground.Vec), b.Len())
	}
	var totalProb float64
	var magnons float64
	for i, amplitude := range ground.Vec {
		probability := real(amplitude)*real(amplitude) + imag(amplitude)*imag(amplitude)
		totalProb += probability
		magnons += probability * float64(bits.OnesCount64(b.State(i)))
	}
	if math.Abs(totalProb-1) > 1e-3 {
		return Statistics{}, errors.Errorf("%f", totalProb)
	}

	stats.MagnonDensity = magnons / float64(cfg.L)
	// The sublattice rotation maps the staggered moment onto the uniform
	// magnon imbalance.
	stats.StaggeredMagnetization = 0.5 - stats.MagnonDensity
	return stats, nil
}
