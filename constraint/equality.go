package constraint

import (
	"github.com/solverforge/constraintcore/model"
)

// buildEqualityGroups builds one rowGroup per active equality constraint, in ascending
// equality-index order, per spec.md §4.4's Connect(3)/Weld(6)/Joint-or-Tendon(1) layout.
// Each group is empty-guarded: an equality whose Jacobian row(s) are all exactly zero
// (spec.md §4.3) is dropped entirely rather than committed as a dead row.
func buildEqualityGroups(mdl *model.Model, jacMode model.JacobianMode) []rowGroup {
	if mdl.Option.EqualityDisabled() {
		return nil
	}

	var groups []rowGroup
	for id, eq := range mdl.Equalities {
		if !eq.Active {
			continue
		}
		var g rowGroup
		switch eq.Type {
		case model.EqConnect:
			g = buildConnectGroup(mdl, jacMode, id, eq)
		case model.EqWeld:
			g = buildWeldGroup(mdl, jacMode, id, eq)
		case model.EqJoint:
			g = buildJointEqualityGroup(mdl, jacMode, id, eq)
		case model.EqTendon:
			g = buildTendonEqualityGroup(mdl, jacMode, id, eq)
		}
		if g == nil || groupIsZero(g) {
			continue
		}
		groups = append(groups, g)
	}
	return groups
}

func groupIsZero(g rowGroup) bool {
	for _, r := range g {
		if !r.jac.isZero() {
			return false
		}
	}
	return true
}

// buildConnectGroup emits the 3-row point-coincidence residual p_0 - p_1, where
// p_j = x_{objId_j} + R_{objId_j} * anchor_j (model.Equality.Anchor1/Anchor2 are stored in
// each object's local frame).
func buildConnectGroup(mdl *model.Model, jacMode model.JacobianMode, id int, eq model.Equality) rowGroup {
	body1, body2 := eq.Obj1Id, eq.Obj2Id
	t1, t2 := mdl.Bodies[body1].World, mdl.Bodies[body2].World
	p1 := t1.WorldPoint(eq.Anchor1())
	p2 := t2.WorldPoint(eq.Anchor2())

	rel := pairedJacobianDiff(mdl, jacMode, body1, p1, body2, p2)
	pos := p1.Sub(p2)
	tran := mdl.Bodies[body1].InvWeightTran + mdl.Bodies[body2].InvWeightTran
	solref := resolveSolref(mdl.Option, eq.Solref)
	solimp := resolveSolimp(mdl.Option, eq.Solimp)

	g := make(rowGroup, 3)
	for axis := 0; axis < 3; axis++ {
		g[axis] = rowSpec{
			jac:        rel.lin[axis],
			pos:        pos[axis],
			typ:        TypeEquality,
			id:         id,
			diagApprox: tran,
			solref:     solref,
			solimp:     solimp,
		}
	}
	return g
}

// buildWeldGroup emits the 3 translation rows of buildConnectGroup followed by 3
// orientation-error rows. The orientation error is twice the vector part of the relative
// quaternion (object1's frame composed with the equality's stored relative pose,
// compared against object2's frame) scaled by model.Equality.TorqueScale, and its
// Jacobian is the paired angular-velocity difference.
func buildWeldGroup(mdl *model.Model, jacMode model.JacobianMode, id int, eq model.Equality) rowGroup {
	body1, body2 := eq.Obj1Id, eq.Obj2Id
	t1, t2 := mdl.Bodies[body1].World, mdl.Bodies[body2].World
	p1 := t1.WorldPoint(eq.Anchor1())
	p2 := t2.WorldPoint(eq.Anchor2())

	rel := pairedJacobianDiff(mdl, jacMode, body1, p1, body2, p2)
	pos := p1.Sub(p2)
	tran := mdl.Bodies[body1].InvWeightTran + mdl.Bodies[body2].InvWeightTran
	rot := mdl.Bodies[body1].InvWeightRot + mdl.Bodies[body2].InvWeightRot
	solref := resolveSolref(mdl.Option, eq.Solref)
	solimp := resolveSolimp(mdl.Option, eq.Solimp)

	relPose := eq.RelPose()
	target := t1.Rotation.Mul(relPose)
	errQuat := t2.Rotation.Inverse().Mul(target)
	orientErr := errQuat.V.Mul(2 * eq.TorqueScale())

	g := make(rowGroup, 6)
	for axis := 0; axis < 3; axis++ {
		g[axis] = rowSpec{jac: rel.lin[axis], pos: pos[axis], typ: TypeEquality, id: id, diagApprox: tran, solref: solref, solimp: solimp}
	}
	for axis := 0; axis < 3; axis++ {
		g[3+axis] = rowSpec{jac: rel.ang[axis], pos: orientErr[axis], typ: TypeEquality, id: id, diagApprox: rot, solref: solref, solimp: solimp}
	}
	return g
}

// buildJointEqualityGroup emits the single coupling row for a joint-joint equality: the
// residual is obj1's position minus PolyRef[0] minus a degree-4 polynomial
// (model.Equality.PolyCoef) of obj2's position minus PolyRef[1]; its Jacobian couples
// exactly the two joints' dofs. When Obj2Id is -1 the row constrains obj1 alone: the
// residual is obj1's position minus PolyRef[0] minus PolyCoef[0], and the Jacobian is
// obj1's unit dof row.
func buildJointEqualityGroup(mdl *model.Model, jacMode model.JacobianMode, id int, eq model.Equality) rowGroup {
	j1 := mdl.Joints[eq.Obj1Id]
	if eq.Obj2Id < 0 {
		return rowGroup{{
			jac: buildScalarRow(jacMode, mdl.NV(), j1.DofAdr, 1), pos: j1.Value - eq.PolyRef[0] - eq.PolyCoef[0],
			typ: TypeEquality, id: id, diagApprox: mdl.Dofs[j1.DofAdr].InvWeight,
			solref: resolveSolref(mdl.Option, eq.Solref), solimp: resolveSolimp(mdl.Option, eq.Solimp),
		}}
	}
	j2 := mdl.Joints[eq.Obj2Id]

	x := j2.Value - eq.PolyRef[1]
	poly := eq.PolyCoef
	dpoly := poly[1] + x*(2*poly[2]+x*(3*poly[3]+x*4*poly[4]))
	residual := j1.Value - eq.PolyRef[0] - (poly[0] + x*(poly[1]+x*(poly[2]+x*(poly[3]+x*poly[4]))))

	row1 := buildScalarRow(jacMode, mdl.NV(), j1.DofAdr, 1)
	row2 := buildScalarRow(jacMode, mdl.NV(), j2.DofAdr, -dpoly)
	jac := addRows(mdl.NV(), jacMode, row1, row2, 1)
	diag := mdl.Dofs[j1.DofAdr].InvWeight + mdl.Dofs[j2.DofAdr].InvWeight

	return rowGroup{{
		jac: jac, pos: residual, typ: TypeEquality, id: id, diagApprox: diag,
		solref: resolveSolref(mdl.Option, eq.Solref), solimp: resolveSolimp(mdl.Option, eq.Solimp),
	}}
}

// buildTendonEqualityGroup mirrors buildJointEqualityGroup over two tendon lengths
// instead of two joint positions.
func buildTendonEqualityGroup(mdl *model.Model, jacMode model.JacobianMode, id int, eq model.Equality) rowGroup {
	t1 := mdl.Tendons[eq.Obj1Id]
	if eq.Obj2Id < 0 {
		return rowGroup{{
			jac: buildTendonRow(jacMode, mdl.NV(), t1.LengthJacobian, 1), pos: t1.Length - eq.PolyRef[0] - eq.PolyCoef[0],
			typ: TypeEquality, id: id, diagApprox: t1.InvWeight,
			solref: resolveSolref(mdl.Option, eq.Solref), solimp: resolveSolimp(mdl.Option, eq.Solimp),
		}}
	}
	t2 := mdl.Tendons[eq.Obj2Id]

	x := t2.Length - eq.PolyRef[1]
	poly := eq.PolyCoef
	dpoly := poly[1] + x*(2*poly[2]+x*(3*poly[3]+x*4*poly[4]))
	residual := t1.Length - eq.PolyRef[0] - (poly[0] + x*(poly[1]+x*(poly[2]+x*(poly[3]+x*poly[4]))))

	row1 := buildTendonRow(jacMode, mdl.NV(), t1.LengthJacobian, 1)
	row2 := buildTendonRow(jacMode, mdl.NV(), t2.LengthJacobian, -dpoly)
	jac := addRows(mdl.NV(), jacMode, row1, row2, 1)
	diag := t1.InvWeight + t2.InvWeight

	return rowGroup{{
		jac: jac, pos: residual, typ: TypeEquality, id: id, diagApprox: diag,
		solref: resolveSolref(mdl.Option, eq.Solref), solimp: resolveSolimp(mdl.Option, eq.Solimp),
	}}
}
