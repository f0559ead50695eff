package constraint

import (
	"gonum.org/v1/gonum/mat"

	"github.com/solverforge/constraintcore/model"
)

// ProjectConstraint is C8: it populates EfcAR, the dual solver's projected constraint
// inertia A_R = J M^-1 Jᵀ + diag(R) (spec.md §4.8). Each constraint row is first
// back-substituted through the cached Cholesky half-factor of the mass matrix
// (mdl.Backsolve), producing one nv-vector per row regardless of whether the Jacobian
// itself is stored dense or sparse; A_R is then this set's Gram matrix plus the diagonal
// regularizer. Only callers running a dual solver (PGS, or the no-slip post-pass) need
// this — ReferenceConstraint and ConstraintUpdate do not depend on it.
func (d *Data) ProjectConstraint(mdl *model.Model) {
	if d.Nefc == 0 {
		d.EfcAR = nil
		return
	}
	x := make([][]float64, d.Nefc)
	for row := 0; row < d.Nefc; row++ {
		x[row] = mdl.Backsolve(d.denseRow(row))
	}

	ar := make([]float64, d.Nefc*d.Nefc)
	xm := mat.NewDense(d.Nefc, d.NV, flatten(x, d.NV))
	g := mat.NewDense(d.Nefc, d.Nefc, nil)
	g.Mul(xm, xm.T())
	for i := 0; i < d.Nefc; i++ {
		for j := 0; j < d.Nefc; j++ {
			ar[i*d.Nefc+j] = g.At(i, j)
		}
		ar[i*d.Nefc+i] += d.EfcR[i]
	}
	d.EfcAR = ar
}

// denseRow returns constraint row i as an nv-wide dense vector, scattering from the
// sparse (chain, values) representation when the Jacobian is stored sparse.
func (d *Data) denseRow(row int) []float64 {
	out := make([]float64, d.NV)
	if d.JacMode == model.JacobianDense {
		copy(out, d.EfcJ[row*d.NV:(row+1)*d.NV])
		return out
	}
	adr := int(d.JRowadr[row])
	n := int(d.JRownnz[row])
	for k := 0; k < n; k++ {
		out[d.JColind[adr+k]] = d.JVal[adr+k]
	}
	return out
}

func flatten(rows [][]float64, nv int) []float64 {
	out := make([]float64, len(rows)*nv)
	for i, r := range rows {
		copy(out[i*nv:(i+1)*nv], r)
	}
	return out
}
