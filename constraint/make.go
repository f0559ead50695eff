package constraint

import (
	"github.com/solverforge/constraintcore/internal/arena"
	"github.com/solverforge/constraintcore/model"
)

// MakeConstraint is C1-C6 together: the top-level entry point that takes this step's
// contact list, lays it into the arena's tagged prefix, enumerates every active
// equality/friction/limit/contact row, commits the realized Jacobian and row arrays,
// and assembles the KBIP/R/D parameters — in that order, per spec.md §5's single
// scheduling contract.
func MakeConstraint(d *Data, mdl *model.Model, contacts []model.Contact) *EngineError {
	nv := mdl.NV()
	jacMode := mdl.JacobianMode()
	d.reset(nv, jacMode)

	stored, ok := arena.AllocSlice[model.Contact](d.arena, len(contacts))
	if !ok {
		return engineErrorf("arena too small to hold %d contacts", len(contacts))
	}
	copy(stored, contacts)
	for i := range stored {
		stored[i].EfcAddress = -1
	}
	d.arena.MarkContactEnd()
	d.Contacts = stored

	if mdl.Option.ConstraintDisabled() {
		return nil
	}

	eq := buildEqualityGroups(mdl, jacMode)
	fr := buildFrictionGroups(mdl, jacMode)
	lim := buildLimitGroups(mdl, jacMode)
	ct := buildContactGroups(mdl, d.Contacts, jacMode)

	pre := precountFrom(eq, fr, lim, ct)

	committedNe, committedFr, committedLim, committedCt, err := d.commit(mdl, nv, jacMode, eq, fr, lim, ct)
	if err != nil {
		return err
	}
	truncated := len(committedNe) != len(eq) || len(committedFr) != len(fr) ||
		len(committedLim) != len(lim) || len(committedCt) != len(ct)
	if !truncated && pre.nefc() != d.Nefc {
		return engineErrorf("precount nefc=%d disagrees with realized nefc=%d", pre.nefc(), d.Nefc)
	}

	return d.assembleParams(mdl, committedNe, committedFr, committedLim, committedCt)
}
