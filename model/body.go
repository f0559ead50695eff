package model

// Body is the static kinematic description of one rigid body: which dofs move it, and
// its parent in the kinematic tree. DofNum == 0 marks a fixed (welded-to-world) body.
type Body struct {
	ParentId int
	DofAdr   int // index of the body's first dof in Dofs, or -1 if DofNum == 0
	DofNum   int

	// Simple is true when the body's dofs are a direct, unshared range with no other
	// body's dofs interleaved beneath the same branch — the fast path described in
	// spec.md §4.2.
	Simple bool

	World Transform

	// InvWeightTran/InvWeightRot are this body's translational and rotational inverse-
	// inertia upper bounds, cached by the (out-of-scope) mass-matrix factorization
	// subsystem — the diagApprox building block for equality (Connect/Weld) and contact
	// rows, mirroring dof_invweight0's role for single-dof rows.
	InvWeightTran float64
	InvWeightRot  float64
}

// Movable reports whether the body has any dofs of its own.
func (b Body) Movable() bool { return b.DofNum > 0 }
