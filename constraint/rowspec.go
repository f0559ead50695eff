package constraint

import "github.com/solverforge/constraintcore/model"

// jacRow is a single constraint-row Jacobian, in whichever layout the step's Jacobian
// mode calls for. Exactly one of Dense or (Chain, Values) is populated.
type jacRow struct {
	Dense  []float64 // length nv
	Chain  []int     // strictly increasing dof indices
	Values []float64 // same length as Chain
}

func (r jacRow) isSparse() bool { return r.Dense == nil }

// isZero reports whether every entry of the row is exactly zero — the empty-guard test
// from spec.md §4.3.
func (r jacRow) isZero() bool {
	if r.isSparse() {
		for _, v := range r.Values {
			if v != 0 {
				return false
			}
		}
		return true
	}
	for _, v := range r.Dense {
		if v != 0 {
			return false
		}
	}
	return true
}

func (r jacRow) nnz() int {
	if r.isSparse() {
		return len(r.Chain)
	}
	return 0
}

// rowSpec is one fully-computed constraint row, ready to be committed into a Data's
// arena-backed arrays. Computing rowSpecs ahead of allocation — rather than maintaining
// a hand-synced symbolic counter alongside a separate writer — is what lets this
// package guarantee precount == realized by construction instead of by code review.
type rowSpec struct {
	jac          jacRow
	pos          float64
	margin       float64
	frictionLoss float64
	typ          Type
	id           int

	// diagApprox is this row's diagonal inverse-inertia upper bound (spec.md §4.6),
	// computed by the instantiator that builds the row since that is where the
	// participating bodies/dofs/tendons are already at hand.
	diagApprox float64

	// solref/solimp are this row's reference parameters, already resolved against the
	// OVERRIDE option bit. altSolref/altSolimp/hasAlt carry a contact's solreffriction
	// pair for elliptic friction rows (j>0) that prefer it over the contact's own solref
	// whenever either of its components is non-zero (spec.md §4.6).
	solref    model.Solref
	solimp    model.Solimp
	altSolref model.Solref
	altSolimp model.Solimp
	hasAlt    bool

	// frictionRow marks dof/tendon friction-loss rows and elliptic contact rows j>0
	// (the block's tangent/torsional/rolling rows): both force K=0 during KBIP
	// assembly regardless of their resolved solref (spec.md §4.6).
	frictionRow bool
}

// rowGroup is the atomic unit of truncation on capacity exhaustion: all of a single
// equality/friction/limit/contact instance's rows, committed together or not at all.
type rowGroup []rowSpec

func groupNNZ(g rowGroup) int {
	n := 0
	for _, r := range g {
		n += r.jac.nnz()
	}
	return n
}

// denseRowAtDof builds a dense nv-wide row with a single contributing dof.
func denseRowAtDof(nv, dofIdx int, coeff float64) jacRow {
	d := make([]float64, nv)
	d[dofIdx] = coeff
	return jacRow{Dense: d}
}

func sparseRowAtDof(dofIdx int, coeff float64) jacRow {
	return jacRow{Chain: []int{dofIdx}, Values: []float64{coeff}}
}

// buildScalarRow constructs the single-dof friction/limit Jacobian row in whichever
// layout jacMode calls for.
func buildScalarRow(jacMode model.JacobianMode, nv, dofIdx int, coeff float64) jacRow {
	if jacMode == model.JacobianSparse {
		return sparseRowAtDof(dofIdx, coeff)
	}
	return denseRowAtDof(nv, dofIdx, coeff)
}

// buildTendonRow adapts a tendon's precomputed length-Jacobian row, scaled by coeff,
// into whichever layout jacMode calls for.
func buildTendonRow(jacMode model.JacobianMode, nv int, lj model.JacobianRow, coeff float64) jacRow {
	if jacMode == model.JacobianSparse {
		if lj.IsSparse() {
			vals := make([]float64, len(lj.Values))
			for i, v := range lj.Values {
				vals[i] = v * coeff
			}
			return jacRow{Chain: lj.Chain, Values: vals}
		}
		// dense source row, sparse target layout: extract nonzero columns.
		var chain []int
		var vals []float64
		for i, v := range lj.Dense {
			if v != 0 {
				chain = append(chain, i)
				vals = append(vals, v*coeff)
			}
		}
		return jacRow{Chain: chain, Values: vals}
	}

	dense := make([]float64, nv)
	if lj.IsSparse() {
		for i, c := range lj.Chain {
			dense[c] = lj.Values[i] * coeff
		}
	} else {
		for i, v := range lj.Dense {
			dense[i] = v * coeff
		}
	}
	return jacRow{Dense: dense}
}
