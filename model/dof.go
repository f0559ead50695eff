package model

import "github.com/go-gl/mathgl/mgl64"

// DofKind distinguishes a translational (prismatic/free-translation) dof, whose world
// motion subspace is a pure direction, from a rotational (hinge/ball-component/free-
// rotation) dof, whose world motion subspace is a screw axis through an anchor point.
type DofKind int

const (
	DofTranslational DofKind = iota
	DofRotational
)

// Dof is one scalar generalized-velocity coordinate. ParentId is the dof's parent in the
// kinematic elimination tree (-1 at the root), used both by the dof-chain merger (C2) and
// by the projected-inertia sparse backsolve (C8). Axis/Anchor are this step's world-frame
// motion subspace, supplied read-only by the (out-of-scope) body kinematics subsystem —
// the same role MuJoCo's xaxis/xanchor play for mj_makeConstraint.
type Dof struct {
	BodyId   int
	ParentId int

	Kind   DofKind
	Axis   mgl64.Vec3 // unit direction (translational) or rotation axis (rotational)
	Anchor mgl64.Vec3 // a world point on the rotation axis; unused for translational dofs

	// InvWeight is a diagonal upper bound on this dof's contribution to J M^-1 J^T,
	// the building block diagApprox sums across a row's participating dofs.
	InvWeight float64
}
