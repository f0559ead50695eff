package model

import "github.com/go-gl/mathgl/mgl64"

// Contact is one narrow-phase collision result, owned by the collision subsystem. The
// constraint core only mutates Exclude, EfcAddress, Mu, and H; every other field is
// read-only input.
type Contact struct {
	BodyA, BodyB int // ids into Model.Bodies

	// Frame is the contact's local basis as world-space rows: row 0 is the contact
	// normal, rows 1 and 2 are the tangent directions. Torsional and rolling rows
	// (Dim 4 and 6) use these same three rows as rotation axes.
	Frame mgl64.Mat3

	Dist          float64
	IncludeMargin float64

	// Friction holds dim-1 per-direction coefficients (dim in {1,3,4,6}).
	Friction []float64

	Solref         Solref
	Solimp         Solimp
	SolrefFriction Solref
	SolimpFriction Solimp

	// Exclude is a scratch flag: 0 = active, 3 = excluded by an empty dof chain, other
	// nonzero values are reserved for the collision subsystem's own exclusion reasons.
	Exclude int
	// EfcAddress is the row index of this contact's first constraint row, or -1 when
	// the contact produced no rows.
	EfcAddress int

	// Mu is the regularized scalar friction coefficient computed during parameter
	// assembly (C6), consumed by the outer solver.
	Mu float64
	// H is the 6x6 cone Hessian, populated by ConstraintUpdate only when requested and
	// only for elliptic contact blocks.
	H [6][6]float64
}

// Dim returns the contact's dimension: 1 for frictionless, or 1+len(Friction) otherwise.
// An elliptic contact produces Dim rows, a pyramidal one 2*(Dim-1).
func (c Contact) Dim() int { return 1 + len(c.Friction) }
