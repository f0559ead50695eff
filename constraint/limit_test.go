package constraint

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/solverforge/constraintcore/model"
)

// TestBuildLimitGroups_HingeAtUpperLimit is spec.md §8 scenario 2: a limited hinge at
// q = range[1] + 0.01 with margin 0 produces exactly one row, type LIMIT_JOINT,
// pos = -0.01, and a -1 Jacobian coefficient at the joint's dof.
func TestBuildLimitGroups_HingeAtUpperLimit(t *testing.T) {
	mdl := &model.Model{
		Dofs: []model.Dof{{BodyId: 0, ParentId: -1, InvWeight: 1}},
		Joints: []model.Joint{{
			Type:    model.JointHinge,
			DofAdr:  0,
			Limited: true,
			Range:   [2]float64{0, 1},
			Margin:  0,
			Value:   1.01,
			Solref:  model.DefaultSolref,
			Solimp:  model.DefaultSolimp,
		}},
	}

	groups := buildLimitGroups(mdl, model.JacobianDense)
	if len(groups) != 1 || len(groups[0]) != 1 {
		t.Fatalf("got %d groups, want 1 group of 1 row", len(groups))
	}

	rs := groups[0][0]
	if rs.typ != TypeLimitJoint {
		t.Errorf("typ = %v, want TypeLimitJoint", rs.typ)
	}
	if rs.pos != -0.01 {
		t.Errorf("pos = %v, want -0.01", rs.pos)
	}
	if rs.jac.Dense[0] != -1 {
		t.Errorf("jac[0] = %v, want -1", rs.jac.Dense[0])
	}
}

func TestBuildLimitGroups_HingeWithinRange_NoRow(t *testing.T) {
	mdl := &model.Model{
		Dofs: []model.Dof{{BodyId: 0, ParentId: -1, InvWeight: 1}},
		Joints: []model.Joint{{
			Type:    model.JointHinge,
			DofAdr:  0,
			Limited: true,
			Range:   [2]float64{-1, 1},
			Margin:  0.1,
			Value:   0,
		}},
	}
	if groups := buildLimitGroups(mdl, model.JacobianDense); len(groups) != 0 {
		t.Fatalf("got %d groups, want 0 (well within range+margin)", len(groups))
	}
}

func TestBuildLimitGroups_BallJoint(t *testing.T) {
	mdl := &model.Model{
		Dofs: []model.Dof{
			{BodyId: 0, ParentId: -1, InvWeight: 1},
			{BodyId: 0, ParentId: 0, InvWeight: 1},
			{BodyId: 0, ParentId: 1, InvWeight: 1},
		},
		Joints: []model.Joint{{
			Type:    model.JointBall,
			DofAdr:  0,
			Limited: true,
			Range:   [2]float64{0, 0.5},
			Margin:  0,
			Quat:    mgl64.QuatRotate(0.6, mgl64.Vec3{1, 0, 0}),
		}},
	}
	groups := buildLimitGroups(mdl, model.JacobianDense)
	if len(groups) != 1 || len(groups[0]) != 1 {
		t.Fatalf("got %d groups, want 1 group of 1 row (swing exceeds range)", len(groups))
	}
	rs := groups[0][0]
	if rs.diagApprox != 3 {
		t.Errorf("diagApprox = %v, want 3 (sum of 3 unit InvWeights)", rs.diagApprox)
	}
}

func TestBuildLimitGroups_TendonBothSides(t *testing.T) {
	mdl := &model.Model{
		Dofs: []model.Dof{{BodyId: 0, ParentId: -1, InvWeight: 1}},
		Tendons: []model.Tendon{{
			LengthJacobian: model.JacobianRow{Dense: []float64{1}},
			Length:         5,
			Limited:        true,
			Range:          [2]float64{0, 3},
			Margin:         0,
			InvWeight:      2,
		}},
	}
	groups := buildLimitGroups(mdl, model.JacobianDense)
	if len(groups) != 1 || len(groups[0]) != 1 {
		t.Fatalf("got %d groups, want 1 group of 1 row (only the upper side is violated)", len(groups))
	}
	rs := groups[0][0]
	if rs.typ != TypeLimitTendon || rs.pos != -2 {
		t.Errorf("typ=%v pos=%v, want TypeLimitTendon pos=-2", rs.typ, rs.pos)
	}
}
