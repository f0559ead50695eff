// Package constraint implements the constraint construction and update core: given a
// model and the current step's contact list, it enumerates active scalar constraint
// rows, builds the stacked Jacobian, assembles per-row regularization and reference
// parameters, and evaluates per-row force/cost/state for a candidate acceleration.
//
// The four entry points are called once per step, in order: MakeConstraint,
// ProjectConstraint (only for dual solvers), ReferenceConstraint, and ConstraintUpdate
// (the last two may be called repeatedly by the outer solver's inner loop).
package constraint

import "fmt"

// Type is the taxonomy of a constraint row, per spec.md §3.
type Type int

const (
	TypeEquality Type = iota
	TypeFrictionDof
	TypeFrictionTendon
	TypeLimitJoint
	TypeLimitTendon
	TypeContactFrictionless
	TypeContactPyramidal
	TypeContactElliptic
)

func (t Type) String() string {
	switch t {
	case TypeEquality:
		return "EQUALITY"
	case TypeFrictionDof:
		return "FRICTION_DOF"
	case TypeFrictionTendon:
		return "FRICTION_TENDON"
	case TypeLimitJoint:
		return "LIMIT_JOINT"
	case TypeLimitTendon:
		return "LIMIT_TENDON"
	case TypeContactFrictionless:
		return "CONTACT_FRICTIONLESS"
	case TypeContactPyramidal:
		return "CONTACT_PYRAMIDAL"
	case TypeContactElliptic:
		return "CONTACT_ELLIPTIC"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// State is the per-row classification produced by ConstraintUpdate, per spec.md §4.9.
type State int

const (
	StateSatisfied State = iota
	StateQuadratic
	StateLinearNeg
	StateLinearPos
	StateCone
)

func (s State) String() string {
	switch s {
	case StateSatisfied:
		return "SATISFIED"
	case StateQuadratic:
		return "QUADRATIC"
	case StateLinearNeg:
		return "LINEARNEG"
	case StateLinearPos:
		return "LINEARPOS"
	case StateCone:
		return "CONE"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// WarningKind names the non-fatal conditions from spec.md §7.
type WarningKind int

const (
	WarnContactFull WarningKind = iota
	WarnConstraintFull
	WarnBadSolref
	WarnBadSolrefFriction
	WarnBadSolimp
)

func (k WarningKind) String() string {
	switch k {
	case WarnContactFull:
		return "CONTACTFULL"
	case WarnConstraintFull:
		return "CNSTRFULL"
	case WarnBadSolref:
		return "BADSOLREF"
	case WarnBadSolrefFriction:
		return "BADSOLREFFRICTION"
	case WarnBadSolimp:
		return "BADSOLIMP"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// Warning is a non-fatal condition recorded during construction or parameter assembly;
// the step still runs with substituted defaults or a truncated row set.
type Warning struct {
	Kind    WarningKind
	Message string
}

func (w Warning) String() string { return w.Kind.String() + ": " + w.Message }

// EngineError marks a fatal condition (spec.md §7.3). MakeConstraint returns one when the
// arena cannot hold the contact array, when the precount disagrees with the realized row
// count, or when parameter assembly walks a different number of rows than were
// committed; unknown constraint types and missing sparse chains are not checked. Unlike
// Warning, this is never recovered from within the package — it is always returned to
// the caller.
type EngineError struct {
	Message string
}

func (e *EngineError) Error() string { return "constraint: " + e.Message }

func engineErrorf(format string, args ...any) *EngineError {
	return &EngineError{Message: fmt.Sprintf(format, args...)}
}
