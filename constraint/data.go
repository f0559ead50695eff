package constraint

import (
	"strconv"

	"github.com/solverforge/constraintcore/internal/arena"
	"github.com/solverforge/constraintcore/model"
)

// DefaultArenaBytes is a reasonable starting capacity; callers with larger models
// should size their own arena accordingly (see arena.New).
const DefaultArenaBytes = 1 << 20

// Data is the per-step working set owned exclusively by one stepper instance for the
// duration of a step (spec.md §5). Arena holds the contact array prefix followed by
// every efc_* row array; nothing here survives a Reset, and nothing here is safe to
// mutate from more than one goroutine at a time.
type Data struct {
	arena *arena.Arena

	Contacts []model.Contact

	// Row section counts, strictly ordered: equalities, then friction, then
	// limits+contacts.
	Ne   int
	Nf   int
	Nefc int

	// Dense Jacobian, row-major nefc x nv. Populated only when JacMode ==
	// model.JacobianDense.
	EfcJ []float64

	// Sparse Jacobian, CSR-like with a supernode index. Populated only when JacMode ==
	// model.JacobianSparse.
	JRownnz   []int32
	JRowadr   []int32
	JColind   []int32
	JVal      []float64
	JRowsuper []int32
	NnzJ      int

	EfcPos          []float64
	EfcMargin       []float64
	EfcFrictionLoss []float64
	EfcType         []Type
	EfcId           []int

	EfcDiagApprox []float64
	EfcR          []float64
	EfcD          []float64

	// KBIP: stiffness, damping, impedance, impedance derivative.
	EfcK []float64
	EfcB []float64
	EfcI []float64
	EfcP []float64

	EfcVel   []float64
	EfcAref  []float64
	EfcForce []float64
	EfcState []State

	// QfrcConstraint is Jᵀ·force, populated by ConstraintUpdate (spec.md §4.9).
	QfrcConstraint []float64

	// EfcAR is the dense projected constraint inertia A_R = J M^-1 J^T + diag(R),
	// populated only by ProjectConstraint when a dual solver is active. Row-major
	// Nefc x Nefc.
	EfcAR []float64

	JacMode model.JacobianMode
	NV      int

	Warnings []Warning
}

// NewData allocates a Data backed by a fresh arena of capacityBytes.
func NewData(capacityBytes int) *Data {
	return &Data{arena: arena.New(capacityBytes)}
}

// PreviousForce returns the force vector computed by the last ConstraintUpdate call, so
// an outer solver may warm-start its next iteration from it. It aliases Data's internal
// slice; callers must not mutate it across a subsequent MakeConstraint call.
func (d *Data) PreviousForce() []float64 { return d.EfcForce }

// RowLabel renders a human-readable identity for constraint row i, for diagnostics.
func (d *Data) RowLabel(i int) string {
	return d.EfcType[i].String() + " #" + strconv.Itoa(d.EfcId[i]) + " row " + strconv.Itoa(i)
}

// Stats exposes arena occupancy for operational telemetry.
func (d *Data) Stats() arena.Stats { return d.arena.Stats() }

// reset rewinds the arena and clears the counts/slices at the start of MakeConstraint.
func (d *Data) reset(nv int, jacMode model.JacobianMode) {
	d.arena.Reset()
	d.Ne, d.Nf, d.Nefc, d.NnzJ = 0, 0, 0, 0
	d.NV = nv
	d.JacMode = jacMode
	d.Warnings = d.Warnings[:0]

	d.EfcJ = nil
	d.JRownnz, d.JRowadr, d.JColind, d.JVal, d.JRowsuper = nil, nil, nil, nil, nil
	d.EfcPos, d.EfcMargin, d.EfcFrictionLoss = nil, nil, nil
	d.EfcType, d.EfcId = nil, nil
	d.EfcDiagApprox, d.EfcR, d.EfcD = nil, nil, nil
	d.EfcK, d.EfcB, d.EfcI, d.EfcP = nil, nil, nil, nil
	d.EfcVel, d.EfcAref, d.EfcForce = nil, nil, nil
	d.EfcState = nil
	d.EfcAR = nil
	d.QfrcConstraint = nil
}
