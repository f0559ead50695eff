package model

// Mass is the cached Cholesky-like factor of the joint-space mass matrix M, produced by
// an external factorization subsystem (a Non-goal here) and consumed read-only.
//
// QLD is a flat packed array: dof i's row starts at Madr[i] and holds 1+len(ancestors(i))
// entries — the diagonal factor term first, then one L_ij term per ancestor walking from
// i's immediate parent up to the kinematic root. QLDiagSqrtInv[i] caches 1/sqrt of the
// diagonal term so C8's backsolve never takes a square root on the hot path.
type Mass struct {
	QLD           []float64
	QLDiagSqrtInv []float64
	Madr          []int
}

// Backsolve computes M^{-1/2} applied to row (length nv), per spec.md §4.8: traverse dofs
// from highest index to lowest, scale by the cached diagonal factor, then propagate the
// subtraction up each dof's ancestor chain. The result is returned dof-indexed ascending,
// same as the input — there is no separate "reverse" step needed once the array is
// indexed by dof id rather than by visitation order.
func (mdl Model) Backsolve(row []float64) []float64 {
	nv := len(row)
	buf := make([]float64, nv)
	copy(buf, row)
	x := make([]float64, nv)

	for i := nv - 1; i >= 0; i-- {
		x[i] = buf[i] * mdl.Mass.QLDiagSqrtInv[i]

		adr := mdl.Mass.Madr[i]
		k := 1
		for j := mdl.Dofs[i].ParentId; j >= 0; j = mdl.Dofs[j].ParentId {
			buf[j] -= mdl.Mass.QLD[adr+k] * x[i]
			k++
		}
	}
	return x
}
