// Package model describes the read-only data a constraint core consumes: static
// kinematic structure (bodies, dofs, joints, tendons, equality definitions), per-element
// solver-reference parameters, and the cached Cholesky factor of the mass matrix.
//
// Everything here is produced by external collaborators (XML/binary compilation, tendon
// kinematics, mass-matrix factorization) and is treated as immutable for the duration of
// a step; this package only names the shape of that data.
package model

import "math"

// Numerical constants, bit-exact per the engine's reference behavior.
const (
	MinVal = 1e-15    // mjMINVAL
	MinImp = 1e-4     // mjMINIMP
	MaxImp = 1 - 1e-4 // mjMAXIMP

	NRef    = 2  // mjNREF: length of a solref tuple
	NImp    = 5  // mjNIMP: length of a solimp tuple
	NEqData = 11 // mjNEQDATA: length of an equality constraint's data blob

	// SparseAutoThreshold is the nv at or above which Jacobian == JacobianAuto
	// resolves to the sparse layout.
	SparseAutoThreshold = 60
)

// Cone selects the friction cone approximation used for contacts.
type Cone int

const (
	ConePyramidal Cone = iota
	ConeElliptic
)

// JacobianMode selects the storage layout of the constraint Jacobian.
type JacobianMode int

const (
	JacobianDense JacobianMode = iota
	JacobianSparse
	JacobianAuto
)

// Resolve returns the concrete layout JacobianAuto picks for a model with nv dofs.
func (m JacobianMode) Resolve(nv int) JacobianMode {
	if m != JacobianAuto {
		return m
	}
	if nv >= SparseAutoThreshold {
		return JacobianSparse
	}
	return JacobianDense
}

// SolverType names the outer convex-solver strategy. The core does not implement any of
// these and does not read this value; whether A_R is built is decided by the caller
// calling ProjectConstraint.
type SolverType int

const (
	SolverPGS SolverType = iota
	SolverPrimalCG
	SolverPrimalNewton
)

// Flags is a bitmask of recognized disable/enable bits read from Option.Flags. The
// CONSTRAINT/EQUALITY/FRICTIONLOSS/LIMIT/CONTACT bits are disable bits (set == off);
// REFSAFE and OVERRIDE are enable bits (set == on). Mixed polarity matches how the
// engine this spec describes actually groups them into one word.
type Flags uint32

const (
	DisableConstraint Flags = 1 << iota
	DisableEquality
	DisableFrictionLoss
	DisableLimit
	DisableContact
	EnableRefSafe
	EnableOverride
)

func (f Flags) has(bit Flags) bool { return f&bit != 0 }

// Option carries the global solver configuration, read-only for the duration of a step.
type Option struct {
	Cone             Cone
	Jacobian         JacobianMode
	Solver           SolverType
	ImpRatio         float64
	Timestep         float64
	Flags            Flags
	NoslipIterations int

	// Override values, applied to every row when EnableOverride is set.
	OverrideSolref [NRef]float64
	OverrideSolimp [NImp]float64
	OverrideMargin float64
}

func (o Option) ConstraintDisabled() bool   { return o.Flags.has(DisableConstraint) }
func (o Option) EqualityDisabled() bool     { return o.Flags.has(DisableEquality) }
func (o Option) FrictionLossDisabled() bool { return o.Flags.has(DisableFrictionLoss) }
func (o Option) LimitDisabled() bool        { return o.Flags.has(DisableLimit) }
func (o Option) ContactDisabled() bool      { return o.Flags.has(DisableContact) }
func (o Option) RefSafe() bool              { return o.Flags.has(EnableRefSafe) }
func (o Option) Override() bool             { return o.Flags.has(EnableOverride) }

// Solref is a standard 2-tuple solver reference (time constant, damping ratio) in
// "standard" mode (Solref[0] > 0) or (stiffness, damping) in "direct" mode
// (Solref[0] <= 0).
type Solref [NRef]float64

// Solimp is the 5-tuple impedance schedule (d_min, d_max, width, midpoint, power).
type Solimp [NImp]float64

// Standard reports whether this reference operates in standard (time-constant) mode.
func (s Solref) Standard() bool { return s[0] > 0 }

// DefaultSolref and DefaultSolimp are the engine's baseline values, substituted when
// sanitation rejects a malformed per-element reference.
var (
	DefaultSolref = Solref{0.02, 1.0}
	DefaultSolimp = Solimp{0.9, 0.95, 0.001, 0.5, 2.0}
)

// Model is the full read-only input to the constraint core for one step: static
// kinematic structure plus solver configuration. Nothing here is mutated by this
// package — equality activation, joint ranges, and the mass-matrix factor are all
// produced by external collaborators (XML compilation, the outer stepper, and the
// mass-matrix factorization subsystem respectively).
type Model struct {
	Bodies     []Body
	Dofs       []Dof
	Joints     []Joint
	Tendons    []Tendon
	Equalities []Equality
	Mass       Mass
	Option     Option
}

// NV returns the number of generalized-velocity dofs.
func (mdl Model) NV() int { return len(mdl.Dofs) }

// JacobianMode resolves Option.Jacobian against this model's nv.
func (mdl Model) JacobianMode() JacobianMode { return mdl.Option.Jacobian.Resolve(mdl.NV()) }

// CombineFriction geometrically averages two per-geom friction coefficients, the
// standard pairwise-combination rule for Coulomb friction.
func CombineFriction(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	return math.Sqrt(a * b)
}
