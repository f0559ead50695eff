package model

// JacobianRow is a single row of a velocity Jacobian, supplied by an external kinematics
// subsystem (tendon length Jacobian, in this core's case). Dense holds one value per dof
// when the source Jacobian is dense; Chain/Values hold a sparse (column, value) pair list
// when it is sparse. Exactly one representation is populated, matching whichever layout
// the producing subsystem chose.
type JacobianRow struct {
	Dense  []float64 // length nv, nil when sparse
	Chain  []int     // strictly increasing dof indices, nil when dense
	Values []float64 // same length as Chain
}

// IsSparse reports whether this row is stored as (chain, values) pairs.
func (r JacobianRow) IsSparse() bool { return r.Dense == nil }

// Tendon is the read-only description of one tendon's limit and friction parameters,
// plus its precomputed length Jacobian row (length kinematics are out of scope here).
type Tendon struct {
	LengthJacobian JacobianRow
	// Length is the tendon's current scalar length, supplied read-only each step by
	// the (out-of-scope) tendon kinematics subsystem.
	Length float64

	// InvWeight is this tendon's inverse-inertia upper bound, the diagApprox building
	// block for tendon friction/limit/equality rows.
	InvWeight float64

	Limited        bool
	Range          [2]float64
	Margin         float64
	Solref         Solref
	Solimp         Solimp
	FrictionLoss   float64
	SolrefFriction Solref
	SolimpFriction Solimp
}
