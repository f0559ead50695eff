package constraint

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/solverforge/constraintcore/internal/dofchain"
	"github.com/solverforge/constraintcore/model"
)

// spatialJac is the 6-wide point-velocity Jacobian of a world point rigidly attached to
// a body: rows 0-2 are the point's linear-velocity Jacobian (one row per world axis),
// rows 3-5 are the body's angular-velocity Jacobian. Equality and contact rows are built
// by projecting this along whichever directions the constraint needs.
type spatialJac struct {
	lin [3]jacRow
	ang [3]jacRow
}

// pointSpatialJacobian computes the 6-wide spatial Jacobian of a world point rigidly
// attached to bodyId, over the dofs that influence that body (internal/dofchain.BodyChain).
// For a translational dof, the point's linear velocity picks up the dof's axis directly
// and the dof contributes nothing to angular velocity; for a rotational dof, the point's
// linear velocity picks up axis x (point - anchor) and angular velocity picks up axis
// itself — the same screw decomposition MuJoCo's mj_jac uses against xaxis/xanchor.
func pointSpatialJacobian(mdl *model.Model, jacMode model.JacobianMode, bodyId int, point mgl64.Vec3) spatialJac {
	nv := mdl.NV()
	chain := dofchain.BodyChain(*mdl, bodyId)

	var linVals, angVals [3][]float64
	for axis := 0; axis < 3; axis++ {
		linVals[axis] = make([]float64, len(chain))
		angVals[axis] = make([]float64, len(chain))
	}

	for k, d := range chain {
		dof := mdl.Dofs[d]
		var lin, ang mgl64.Vec3
		if dof.Kind == model.DofRotational {
			r := point.Sub(dof.Anchor)
			lin = dof.Axis.Cross(r)
			ang = dof.Axis
		} else {
			lin = dof.Axis
		}
		linVals[0][k], linVals[1][k], linVals[2][k] = lin[0], lin[1], lin[2]
		angVals[0][k], angVals[1][k], angVals[2][k] = ang[0], ang[1], ang[2]
	}

	var out spatialJac
	for axis := 0; axis < 3; axis++ {
		out.lin[axis] = buildChainRow(jacMode, nv, chain, linVals[axis])
		out.ang[axis] = buildChainRow(jacMode, nv, chain, angVals[axis])
	}
	return out
}

// buildChainRow lays (chain, values) pairs into whichever layout jacMode calls for,
// dropping exact zeros when building a sparse row so the column pattern stays tight.
func buildChainRow(jacMode model.JacobianMode, nv int, chain []int, values []float64) jacRow {
	if jacMode == model.JacobianDense {
		dense := make([]float64, nv)
		for k, d := range chain {
			dense[d] = values[k]
		}
		return jacRow{Dense: dense}
	}
	var outChain []int
	var outVals []float64
	for k, d := range chain {
		if values[k] != 0 {
			outChain = append(outChain, d)
			outVals = append(outVals, values[k])
		}
	}
	return jacRow{Chain: outChain, Values: outVals}
}

// addRows computes a + bSign*b, merging sparse column patterns with the same
// two-pointer sorted merge internal/dofchain uses to merge dof chains.
func addRows(nv int, jacMode model.JacobianMode, a, b jacRow, bSign float64) jacRow {
	if jacMode == model.JacobianDense {
		out := make([]float64, nv)
		for i := 0; i < nv; i++ {
			out[i] = a.Dense[i] + bSign*b.Dense[i]
		}
		return jacRow{Dense: out}
	}

	var chain []int
	var vals []float64
	i, j := 0, 0
	for i < len(a.Chain) || j < len(b.Chain) {
		switch {
		case j >= len(b.Chain) || (i < len(a.Chain) && a.Chain[i] < b.Chain[j]):
			chain = append(chain, a.Chain[i])
			vals = append(vals, a.Values[i])
			i++
		case i >= len(a.Chain) || (j < len(b.Chain) && b.Chain[j] < a.Chain[i]):
			chain = append(chain, b.Chain[j])
			vals = append(vals, bSign*b.Values[j])
			j++
		default:
			chain = append(chain, a.Chain[i])
			vals = append(vals, a.Values[i]+bSign*b.Values[j])
			i++
			j++
		}
	}
	return jacRow{Chain: chain, Values: vals}
}

func scaleRow(jacMode model.JacobianMode, nv int, r jacRow, s float64) jacRow {
	if jacMode == model.JacobianDense {
		out := make([]float64, nv)
		for i, v := range r.Dense {
			out[i] = v * s
		}
		return jacRow{Dense: out}
	}
	vals := make([]float64, len(r.Values))
	for i, v := range r.Values {
		vals[i] = v * s
	}
	chain := make([]int, len(r.Chain))
	copy(chain, r.Chain)
	return jacRow{Chain: chain, Values: vals}
}

// pairedJacobianDiff returns the spatial (linear and angular) velocity Jacobian of
// pointFirst (rigidly attached to bodyFirst) minus pointSecond (rigidly attached to
// bodySecond) — the building block for equality residual Jacobians (spec.md §9) and
// contact relative-velocity rows, matching the p_0 - p_1 sign convention those residuals
// use.
func pairedJacobianDiff(mdl *model.Model, jacMode model.JacobianMode, bodyFirst int, pointFirst mgl64.Vec3, bodySecond int, pointSecond mgl64.Vec3) spatialJac {
	nv := mdl.NV()
	first := pointSpatialJacobian(mdl, jacMode, bodyFirst, pointFirst)
	second := pointSpatialJacobian(mdl, jacMode, bodySecond, pointSecond)

	var out spatialJac
	for axis := 0; axis < 3; axis++ {
		out.lin[axis] = addRows(nv, jacMode, first.lin[axis], second.lin[axis], -1)
		out.ang[axis] = addRows(nv, jacMode, first.ang[axis], second.ang[axis], -1)
	}
	return out
}

// projectDirection linearly combines a 3-wide spatial-row set along world direction dir,
// e.g. contracting a relative-velocity Jacobian with a contact-frame axis.
func projectDirection(jacMode model.JacobianMode, nv int, set [3]jacRow, dir mgl64.Vec3) jacRow {
	r := scaleRow(jacMode, nv, set[0], dir[0])
	r = addRows(nv, jacMode, r, scaleRow(jacMode, nv, set[1], dir[1]), 1)
	r = addRows(nv, jacMode, r, scaleRow(jacMode, nv, set[2], dir[2]), 1)
	return r
}

// contactFrameRows projects a contact's relative spatial Jacobian into up to dim
// contact-aligned rows: normal, then (for dim>=3) two sliding-friction tangents, then
// (for dim>=4) the torsional row about the normal, then (for dim==6) two rolling-friction
// rows about the tangents. This mirrors the dim progression {1,3,4,6} spec.md §4.1 assigns
// to frictionless/pyramidal-sliding/sliding+torsional/sliding+torsional+rolling contacts.
func contactFrameRows(jacMode model.JacobianMode, nv int, rel spatialJac, frame mgl64.Mat3, dim int) []jacRow {
	normal := frame.Row(0)
	t1 := frame.Row(1)
	t2 := frame.Row(2)

	rows := make([]jacRow, 0, dim)
	rows = append(rows, projectDirection(jacMode, nv, rel.lin, normal))
	if dim >= 3 {
		rows = append(rows, projectDirection(jacMode, nv, rel.lin, t1))
		rows = append(rows, projectDirection(jacMode, nv, rel.lin, t2))
	}
	if dim >= 4 {
		rows = append(rows, projectDirection(jacMode, nv, rel.ang, normal))
	}
	if dim >= 6 {
		rows = append(rows, projectDirection(jacMode, nv, rel.ang, t1))
		rows = append(rows, projectDirection(jacMode, nv, rel.ang, t2))
	}
	return rows
}
