package constraint

import (
	"math"

	"github.com/solverforge/constraintcore/model"
)

// ReferenceConstraint is C9's reference half: efc_vel := J·qvel, then
// a_ref[i] := -B[i]·vel[i] - K[i]·I[i]·(pos[i] - margin[i]), per spec.md §4.9.
func (d *Data) ReferenceConstraint(qvel []float64) {
	vel := d.MulJacVec(qvel)
	aref := make([]float64, d.Nefc)
	for i := 0; i < d.Nefc; i++ {
		aref[i] = -d.EfcB[i]*vel[i] - d.EfcK[i]*d.EfcI[i]*(d.EfcPos[i]-d.EfcMargin[i])
	}
	copy(d.EfcVel, vel)
	copy(d.EfcAref, aref)
}

// ConstraintUpdate is C9's force/cost half: given a candidate qacc, it computes
// jar = J·qacc - a_ref, classifies every row per spec.md §4.9's equality/friction/
// non-elliptic-contact/elliptic-cone rules, and accumulates qfrc_constraint = Jᵀ·force.
// wantHessian controls whether the (expensive) 6x6 elliptic cone Hessian is populated on
// each elliptic contact's model.Contact.H; callers that only need force/cost should pass
// false.
func (d *Data) ConstraintUpdate(mdl *model.Model, qacc []float64, wantHessian bool) float64 {
	jMulQ := d.MulJacVec(qacc)
	jar := make([]float64, d.Nefc)
	for i := 0; i < d.Nefc; i++ {
		jar[i] = jMulQ[i] - d.EfcAref[i]
	}

	var totalCost float64
	row := 0
	for row < d.Nefc {
		switch d.EfcType[row] {
		case TypeEquality:
			totalCost += d.updateQuadratic(row, jar)
			row++
		case TypeFrictionDof, TypeFrictionTendon:
			totalCost += d.updateFriction(row, jar)
			row++
		case TypeLimitJoint, TypeLimitTendon, TypeContactFrictionless, TypeContactPyramidal:
			totalCost += d.updateNonElliptic(row, jar)
			row++
		case TypeContactElliptic:
			blockLen := d.ellipticBlockLen(row)
			totalCost += d.updateEllipticBlock(mdl, row, blockLen, jar, wantHessian)
			row += blockLen
		}
	}

	d.QfrcConstraint = d.MulJacTVec(d.EfcForce)
	return totalCost
}

// ellipticBlockLen counts how many consecutive rows from row share the same elliptic
// contact id, i.e. this block's width.
func (d *Data) ellipticBlockLen(row int) int {
	id := d.EfcId[row]
	n := 1
	for row+n < d.Nefc && d.EfcType[row+n] == TypeContactElliptic && d.EfcId[row+n] == id {
		n++
	}
	return n
}

func (d *Data) updateQuadratic(i int, jar []float64) float64 {
	d.EfcState[i] = StateQuadratic
	d.EfcForce[i] = -d.EfcD[i] * jar[i]
	return 0.5 * d.EfcD[i] * jar[i] * jar[i]
}

func (d *Data) updateFriction(i int, jar []float64) float64 {
	f := d.EfcFrictionLoss[i]
	r, dd, j := d.EfcR[i], d.EfcD[i], jar[i]

	switch {
	case j <= -r*f:
		d.EfcState[i] = StateLinearNeg
		d.EfcForce[i] = f
		return -0.5*r*f*f - f*j
	case j >= r*f:
		d.EfcState[i] = StateLinearPos
		d.EfcForce[i] = -f
		return -0.5*r*f*f + f*j
	default:
		d.EfcState[i] = StateQuadratic
		d.EfcForce[i] = -dd * j
		return 0.5 * dd * j * j
	}
}

func (d *Data) updateNonElliptic(i int, jar []float64) float64 {
	if jar[i] >= 0 {
		d.EfcState[i] = StateSatisfied
		d.EfcForce[i] = 0
		return 0
	}
	return d.updateQuadratic(i, jar)
}

// updateEllipticBlock implements spec.md §4.9's friction-cone classification for one
// elliptic contact block of blockLen rows starting at i0: top zone (satisfied), bottom
// zone (pure quadratic per row), and the middle cone zone with its analytic force
// formula and optional 6x6 Hessian.
func (d *Data) updateEllipticBlock(mdl *model.Model, i0, blockLen int, jar []float64, wantHessian bool) float64 {
	ct := &d.Contacts[d.EfcId[i0]]
	mu0 := ct.Friction[0]

	u := make([]float64, blockLen)
	u[0] = jar[i0] * mu0
	for k := 1; k < blockLen; k++ {
		u[k] = jar[i0+k] * ct.Friction[k-1]
	}

	n := u[0]
	var t float64
	for k := 1; k < blockLen; k++ {
		t += u[k] * u[k]
	}
	t = math.Sqrt(t)

	switch {
	case (t == 0 && n >= 0) || n >= mu0*t:
		for k := 0; k < blockLen; k++ {
			d.EfcState[i0+k] = StateSatisfied
			d.EfcForce[i0+k] = 0
		}
		return 0
	case (t == 0 && n < 0) || mu0*n+t <= 0:
		var cost float64
		for k := 0; k < blockLen; k++ {
			cost += d.updateQuadratic(i0+k, jar)
		}
		return cost
	}

	dm := d.EfcD[i0] / (mu0 * mu0 * (1 + mu0*mu0))
	deltaNT := n - mu0*t
	cost := 0.5 * dm * deltaNT * deltaNT

	f0 := -dm * deltaNT * mu0
	d.EfcState[i0] = StateCone
	d.EfcForce[i0] = f0
	for k := 1; k < blockLen; k++ {
		muK := ct.Friction[k-1]
		d.EfcState[i0+k] = StateCone
		d.EfcForce[i0+k] = -f0 / t * u[k] * muK
	}

	if wantHessian {
		d.fillConeHessian(ct, mu0, n, t, u, dm, blockLen)
	}
	return cost
}

// fillConeHessian populates ct.H, the 6x6 cone Hessian from spec.md §4.9: row 0 carries
// [1, -mu/T * U_{1..}], the upper block adds the rank-1 (mu*N/T^3) U_j U_k term plus a
// (mu^2 - mu*N/T) diagonal, then both are rescaled by diag(mu, mu_1, ...) and by D_m, and
// symmetrized.
func (d *Data) fillConeHessian(ct *model.Contact, mu0, n, t float64, u []float64, dm float64, blockLen int) {
	var h [6][6]float64
	h[0][0] = 1
	for k := 1; k < blockLen; k++ {
		h[0][k] = -mu0 / t * u[k]
		h[k][0] = h[0][k]
	}
	for k := 1; k < blockLen; k++ {
		for j := 1; j < blockLen; j++ {
			h[k][j] = (mu0 * n / (t * t * t)) * u[j] * u[k]
		}
		h[k][k] += mu0*mu0 - mu0*n/t
	}

	scale := make([]float64, blockLen)
	scale[0] = mu0
	for k := 1; k < blockLen; k++ {
		scale[k] = ct.Friction[k-1]
	}
	for k := 0; k < blockLen; k++ {
		for j := 0; j < blockLen; j++ {
			h[k][j] *= scale[k] * scale[j] * dm
		}
	}
	for k := 0; k < blockLen; k++ {
		for j := k + 1; j < blockLen; j++ {
			avg := (h[k][j] + h[j][k]) / 2
			h[k][j], h[j][k] = avg, avg
		}
	}
	ct.H = h
}
