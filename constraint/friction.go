package constraint

import "github.com/solverforge/constraintcore/model"

// buildFrictionGroups builds one single-row group per dof with dof_frictionloss > 0,
// in ascending dof order, followed by one single-row group per tendon with
// tendon_frictionloss > 0, in ascending tendon order — the ordering spec.md §4.4 assigns
// to the friction-loss category.
func buildFrictionGroups(mdl *model.Model, jacMode model.JacobianMode) []rowGroup {
	if mdl.Option.FrictionLossDisabled() {
		return nil
	}

	nv := mdl.NV()
	var groups []rowGroup

	for _, j := range mdl.Joints {
		if j.FrictionLoss <= 0 {
			continue
		}
		for k := 0; k < dofCountForJoint(j); k++ {
			dofIdx := j.DofAdr + k
			row := buildScalarRow(jacMode, nv, dofIdx, 1)
			groups = append(groups, rowGroup{{
				jac:          row,
				frictionLoss: j.FrictionLoss,
				typ:          TypeFrictionDof,
				id:           dofIdx,
				diagApprox:   mdl.Dofs[dofIdx].InvWeight,
				solref:       resolveSolref(mdl.Option, j.SolrefFriction),
				solimp:       resolveSolimp(mdl.Option, j.SolimpFriction),
				frictionRow:  true,
			}})
		}
	}

	for id, td := range mdl.Tendons {
		if td.FrictionLoss <= 0 {
			continue
		}
		row := buildTendonRow(jacMode, nv, td.LengthJacobian, 1)
		groups = append(groups, rowGroup{{
			jac:          row,
			frictionLoss: td.FrictionLoss,
			typ:          TypeFrictionTendon,
			id:           id,
			diagApprox:   td.InvWeight,
			solref:       resolveSolref(mdl.Option, td.SolrefFriction),
			solimp:       resolveSolimp(mdl.Option, td.SolimpFriction),
			frictionRow:  true,
		}})
	}

	return groups
}

func dofCountForJoint(j model.Joint) int {
	switch j.Type {
	case model.JointBall:
		return 3
	case model.JointFree:
		return 6
	default:
		return 1
	}
}
