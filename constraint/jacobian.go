package constraint

import (
	"gonum.org/v1/gonum/mat"

	"github.com/solverforge/constraintcore/model"
)

// MulJacVec computes J*v (length Nefc) from v (length NV), per spec.md §4.7. The dense
// path is a straight gonum matrix-vector multiply; the sparse path walks each row's CSR
// segment directly since a supernode run never changes the arithmetic, only how many
// rows share one column-pattern lookup.
func (d *Data) MulJacVec(v []float64) []float64 {
	out := make([]float64, d.Nefc)
	if d.Nefc == 0 {
		return out
	}
	if d.JacMode == model.JacobianDense {
		j := mat.NewDense(d.Nefc, d.NV, d.EfcJ)
		y := mat.NewVecDense(d.Nefc, nil)
		y.MulVec(j, mat.NewVecDense(d.NV, v))
		for i := 0; i < d.Nefc; i++ {
			out[i] = y.AtVec(i)
		}
		return out
	}

	for row := 0; row < d.Nefc; row++ {
		adr := int(d.JRowadr[row])
		n := int(d.JRownnz[row])
		var sum float64
		for k := 0; k < n; k++ {
			sum += d.JVal[adr+k] * v[d.JColind[adr+k]]
		}
		out[row] = sum
	}
	return out
}

// MulJacTVec computes Jᵀ*v (length NV) from v (length Nefc).
func (d *Data) MulJacTVec(v []float64) []float64 {
	out := make([]float64, d.NV)
	if d.Nefc == 0 {
		return out
	}
	if d.JacMode == model.JacobianDense {
		j := mat.NewDense(d.Nefc, d.NV, d.EfcJ)
		y := mat.NewVecDense(d.NV, nil)
		y.MulVec(j.T(), mat.NewVecDense(d.Nefc, v))
		for i := 0; i < d.NV; i++ {
			out[i] = y.AtVec(i)
		}
		return out
	}

	for row := 0; row < d.Nefc; row++ {
		adr := int(d.JRowadr[row])
		n := int(d.JRownnz[row])
		vi := v[row]
		if vi == 0 {
			continue
		}
		for k := 0; k < n; k++ {
			out[d.JColind[adr+k]] += d.JVal[adr+k] * vi
		}
	}
	return out
}
