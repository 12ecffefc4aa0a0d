package mat

import (
	"math"
	"math/cmplx"

	"github.com/fumin/tensor"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// ValVec is an eigenpair.
type ValVec struct {
	Val complex128
	Vec []complex128
}

// Convergence is the eigensolver diagnostic.
type Convergence struct {
	Converged int
	Residual  float64
}

// EigenHerm computes the full spectrum of a Hermitian matrix, in
// ascending order of eigenvalue. The complex problem H = A + iB is
// embedded into the real symmetric [[A, -B], [B, A]] of twice the
// dimension, whose eigenvalues are those of H in exact pairs; every
// second one is taken.
func (m *COO) EigenHerm() []ValVec {
	n := m.rows
	if n == 0 {
		return nil
	}

	sym := mat.NewSymDense(2*n, nil)
	for _, v := range m.Data {
		re, im := float64(real(v.v)), float64(imag(v.v))
		sym.SetSym(v.row, v.col, re)
		sym.SetSym(n+v.row, n+v.col, re)
		sym.SetSym(n+v.row, v.col, im)
		sym.SetSym(v.row, n+v.col, -im)
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		panic("eig.Factorize failed")
	}
	vals := eig.Values(nil)
	vecs := mat.NewDense(2*n, 2*n, nil)
	eig.VectorsTo(vecs)

	vvs := make([]ValVec, 0, n)
	for i := 0; i < 2*n; i += 2 {
		vec := make([]complex128, 0, n)
		for j := 0; j < n; j++ {
			vec = append(vec, complex(vecs.At(j, i), vecs.At(n+j, i)))
		}
		normalize(vec)
		vvs = append(vvs, ValVec{Val: complex(vals[i], 0), Vec: vec})
	}
	return vvs
}

// Ground computes the k smallest-eigenvalue pairs of a Hermitian
// matrix. The default k=1 runs Arnoldi iteration on the shifted matrix;
// larger k and small dimensions take the dense path. A zero-dimension
// matrix yields the no-result sentinel: nil eigenpairs and a zero
// Convergence, with no error.
func Ground(m *COO, k int) ([]ValVec, Convergence, error) {
	n := m.rows
	if n == 0 {
		return nil, Convergence{}, nil
	}
	if k < 1 {
		k = 1
	}
	if k > 1 || n < 8 {
		vvs := m.EigenHerm()
		if k > len(vvs) {
			k = len(vvs)
		}
		vvs = vvs[:k:k]
		conv := Convergence{Converged: k}
		for _, vv := range vvs {
			conv.Residual = math.Max(conv.Residual, m.residual(vv))
		}
		return vvs, conv, nil
	}

	// Shift so that the smallest eigenvalue dominates in magnitude.
	shift := gerschgorinCeil(m) + 1
	h := tensor.Zeros(n, n)
	for _, v := range m.Data {
		h.SetAt([]int{v.row, v.col}, v.v)
	}
	for i := 0; i < n; i++ {
		h.SetAt([]int{i, i}, h.At(i, i)-complex(float32(shift), 0))
	}

	eigvals, eigvecs := tensor.Zeros(1), tensor.Zeros(1)
	var bufs [7]*tensor.Dense
	for i := range bufs {
		bufs[i] = tensor.Zeros(1)
	}
	if err := tensor.Arnoldi(eigvals, eigvecs, h, 1, bufs); err != nil {
		return nil, Convergence{}, errors.Wrap(err, "")
	}

	vv := ValVec{Val: complex128(eigvals.At(0)) + complex(shift, 0), Vec: make([]complex128, 0, n)}
	flat := eigvecs.Reshape(n)
	for i := 0; i < n; i++ {
		vv.Vec = append(vv.Vec, complex128(flat.At(i)))
	}
	normalize(vv.Vec)

	conv := Convergence{Residual: m.residual(vv)}
	if conv.Residual <= 1e-4*math.Max(cmplx.Abs(vv.Val), 1) {
		conv.Converged = 1
	}
	return []ValVec{vv}, conv, nil
}

// residual returns the 2-norm of Mv - lambda*v.
func (m *COO) residual(vv ValVec) float64 {
	mv := make([]complex128, m.rows)
	for _, t := range m.Data {
		mv[t.row] += complex128(t.v) * vv.Vec[t.col]
	}
	var sum float64
	for i, x := range mv {
		d := x - vv.Val*vv.Vec[i]
		sum += real(d)*real(d) + imag(d)*imag(d)
	}
	return math.Sqrt(sum)
}

// gerschgorinCeil returns an upper bound on the spectrum.
// Theorem A3, Bounds for the eigenvalues of a matrix, Kenneth R. Garren.
func gerschgorinCeil(m *COO) float64 {
	centers := make([]float64, m.rows)
	radii := make([]float64, m.rows)
	for _, v := range m.Data {
		if v.row == v.col {
			centers[v.row] = float64(real(v.v))
		} else {
			radii[v.row] += cmplx.Abs(complex128(v.v))
		}
	}

	ceil := math.Inf(-1)
	for i, c := range centers {
		ceil = math.Max(ceil, c+radii[i])
	}
	return ceil
}

func normalize(vec []complex128) {
	var norm float64
	for _, v := range vec {
		norm += real(v)*real(v) + imag(v)*imag(v)
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		return
	}
	for i := range vec {
		vec[i] /= complex(norm, 0)
	}
}
