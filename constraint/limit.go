package constraint

import (
	"math"

	"github.com/solverforge/constraintcore/model"
)

// buildLimitGroups builds the limit category in spec.md §4.4's order: joint limits
// ascending by joint index (slide/hinge emit lower-before-upper, ball emits its single
// angle row, free joints never limit), followed by tendon limits ascending by tendon
// index (lower-before-upper). Each one-sided test only emits a row once its margin-
// adjusted position has actually crossed the limit; rows that wouldn't (position still
// strictly inside range plus margin) are omitted rather than committed as slack rows.
func buildLimitGroups(mdl *model.Model, jacMode model.JacobianMode) []rowGroup {
	if mdl.Option.LimitDisabled() {
		return nil
	}

	nv := mdl.NV()
	var groups []rowGroup

	for ji, j := range mdl.Joints {
		if !j.Limited {
			continue
		}
		switch j.Type {
		case model.JointBall:
			if g := buildBallLimitGroup(mdl, jacMode, ji, j); g != nil {
				groups = append(groups, g)
			}
		case model.JointSlide, model.JointHinge:
			diag := mdl.Dofs[j.DofAdr].InvWeight
			if g := buildScalarLimitGroup(mdl, nv, jacMode, j.DofAdr, j.Value, j, diag); g != nil {
				groups = append(groups, g)
			}
		}
	}

	for ti, td := range mdl.Tendons {
		if !td.Limited {
			continue
		}
		if g := buildTendonLimitGroup(mdl, nv, jacMode, ti, td); g != nil {
			groups = append(groups, g)
		}
	}

	return groups
}

// scalarLimitRows tests a one-dimensional position (joint slide/hinge value, or tendon
// length) against [lo, hi] with margin. Following spec.md §4.4: the lower test has
// side=-1, d_side = side*(lo-value) = value-lo, row Jacobian -side*e = +e; the upper test
// has side=+1, d_side = hi-value, row Jacobian -side*e = -e. pos is d_side itself (the
// scenario "hinge at upper limit, q = range[1]+0.01" expects pos = -0.01, which is
// exactly hi-value here, not its negation).
func scalarLimitRows(nv int, jacMode model.JacobianMode, dofIdx int, value float64, lo, hi, margin float64, typ Type, id int, diag float64, solref model.Solref, solimp model.Solimp) rowGroup {
	var g rowGroup

	if dist := value - lo; dist < margin {
		g = append(g, rowSpec{
			jac:        buildScalarRow(jacMode, nv, dofIdx, 1),
			pos:        dist,
			margin:     margin,
			typ:        typ,
			id:         id,
			diagApprox: diag,
			solref:     solref,
			solimp:     solimp,
		})
	}
	if dist := hi - value; dist < margin {
		g = append(g, rowSpec{
			jac:        buildScalarRow(jacMode, nv, dofIdx, -1),
			pos:        dist,
			margin:     margin,
			typ:        typ,
			id:         id,
			diagApprox: diag,
			solref:     solref,
			solimp:     solimp,
		})
	}
	return g
}

func buildScalarLimitGroup(mdl *model.Model, nv int, jacMode model.JacobianMode, dofIdx int, value float64, j model.Joint, diag float64) rowGroup {
	solref := resolveSolref(mdl.Option, j.Solref)
	solimp := resolveSolimp(mdl.Option, j.Solimp)
	g := scalarLimitRows(nv, jacMode, dofIdx, value, j.Range[0], j.Range[1], resolveMargin(mdl.Option, j.Margin), TypeLimitJoint, dofIdx, diag, solref, solimp)
	if len(g) == 0 {
		return nil
	}
	return g
}

// buildBallLimitGroup tests the ball joint's total swing angle (the angle of its
// relative-orientation quaternion) against Range[1] as an upper bound only — ball joints
// have no meaningful lower swing limit, mirroring the one-sided cone limit a real ball
// joint stop implements. The Jacobian row couples the joint's three angular dofs along
// the negative swing axis, per spec.md §4.4's "-axis at the ball's three dofs".
func buildBallLimitGroup(mdl *model.Model, jacMode model.JacobianMode, ji int, j model.Joint) rowGroup {
	nv := mdl.NV()
	margin := resolveMargin(mdl.Option, j.Margin)
	angle := 2 * math.Acos(clamp(j.Quat.W, -1, 1))
	dist := j.Range[1] - angle
	if dist >= margin {
		return nil
	}

	sinHalf := math.Sqrt(1 - j.Quat.W*j.Quat.W)
	var axis [3]float64
	if sinHalf > model.MinVal {
		axis = [3]float64{-j.Quat.V[0] / sinHalf, -j.Quat.V[1] / sinHalf, -j.Quat.V[2] / sinHalf}
	} else {
		axis = [3]float64{-1, 0, 0}
	}

	var jac jacRow
	if jacMode == model.JacobianSparse {
		jac = jacRow{Chain: []int{j.DofAdr, j.DofAdr + 1, j.DofAdr + 2}, Values: []float64{axis[0], axis[1], axis[2]}}
	} else {
		dense := make([]float64, nv)
		dense[j.DofAdr], dense[j.DofAdr+1], dense[j.DofAdr+2] = axis[0], axis[1], axis[2]
		jac = jacRow{Dense: dense}
	}

	diag := mdl.Dofs[j.DofAdr].InvWeight + mdl.Dofs[j.DofAdr+1].InvWeight + mdl.Dofs[j.DofAdr+2].InvWeight
	return rowGroup{{
		jac: jac, pos: dist, margin: margin, typ: TypeLimitJoint, id: ji, diagApprox: diag,
		solref: resolveSolref(mdl.Option, j.Solref), solimp: resolveSolimp(mdl.Option, j.Solimp),
	}}
}

// buildTendonLimitGroup mirrors scalarLimitRows over a tendon's scalar length and its
// length-Jacobian row (∂ℓ/∂q) in place of a single dof's unit row.
func buildTendonLimitGroup(mdl *model.Model, nv int, jacMode model.JacobianMode, ti int, td model.Tendon) rowGroup {
	plusRow := buildTendonRow(jacMode, nv, td.LengthJacobian, 1)
	minusRow := buildTendonRow(jacMode, nv, td.LengthJacobian, -1)
	margin := resolveMargin(mdl.Option, td.Margin)
	solref := resolveSolref(mdl.Option, td.Solref)
	solimp := resolveSolimp(mdl.Option, td.Solimp)

	var g rowGroup
	if dist := td.Length - td.Range[0]; dist < margin {
		g = append(g, rowSpec{jac: plusRow, pos: dist, margin: margin, typ: TypeLimitTendon, id: ti, diagApprox: td.InvWeight, solref: solref, solimp: solimp})
	}
	if dist := td.Range[1] - td.Length; dist < margin {
		g = append(g, rowSpec{jac: minusRow, pos: dist, margin: margin, typ: TypeLimitTendon, id: ti, diagApprox: td.InvWeight, solref: solref, solimp: solimp})
	}
	if len(g) == 0 {
		return nil
	}
	return g
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
