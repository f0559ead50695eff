package constraint

import (
	"github.com/solverforge/constraintcore/internal/dofchain"
	"github.com/solverforge/constraintcore/model"
)

// buildContactGroups builds one rowGroup per contact, in the order contacts were
// supplied, per spec.md §4.4's frictionless(1)/pyramidal(2*(dim-1))/elliptic(dim) row
// counts. Contact groups are never empty-guarded: unlike equality rows, a contact's
// normal row is load-bearing even when the relative-velocity Jacobian happens to be zero
// (two bodies momentarily co-moving at the contact point still need the row present so
// the solver can push them apart). A contact whose two bodies share no influencing dofs
// (dofchain.Merge returns empty — both fixed, or somehow otherwise immobile relative to
// one another) is marked exclude=3 in place and skipped, per spec.md §4.4.
func buildContactGroups(mdl *model.Model, contacts []model.Contact, jacMode model.JacobianMode) []rowGroup {
	if mdl.Option.ContactDisabled() {
		return nil
	}

	var groups []rowGroup
	for id := range contacts {
		ct := &contacts[id]
		if ct.Exclude != 0 {
			continue
		}
		if len(dofchain.Merge(*mdl, ct.BodyA, ct.BodyB)) == 0 {
			ct.Exclude = 3
			ct.EfcAddress = -1
			continue
		}
		groups = append(groups, buildContactGroup(mdl, jacMode, id, *ct))
	}
	return groups
}

func buildContactGroup(mdl *model.Model, jacMode model.JacobianMode, id int, ct model.Contact) rowGroup {
	pointA := mdl.Bodies[ct.BodyA].World.Position
	pointB := mdl.Bodies[ct.BodyB].World.Position

	rel := pairedJacobianDiff(mdl, jacMode, ct.BodyB, pointB, ct.BodyA, pointA)
	dim := ct.Dim()
	rows := contactFrameRows(jacMode, mdl.NV(), rel, ct.Frame, dim)

	tran := mdl.Bodies[ct.BodyA].InvWeightTran + mdl.Bodies[ct.BodyB].InvWeightTran
	rot := mdl.Bodies[ct.BodyA].InvWeightRot + mdl.Bodies[ct.BodyB].InvWeightRot

	margin := resolveMargin(mdl.Option, ct.IncludeMargin)
	solref := resolveSolref(mdl.Option, ct.Solref)
	solimp := resolveSolimp(mdl.Option, ct.Solimp)
	altSolref := resolveSolref(mdl.Option, ct.SolrefFriction)
	altSolimp := resolveSolimp(mdl.Option, ct.SolimpFriction)
	hasAlt := ct.SolrefFriction[0] != 0 || ct.SolrefFriction[1] != 0

	typ := contactRowType(mdl, dim)
	switch {
	case dim == 1:
		return rowGroup{{jac: rows[0], pos: ct.Dist, margin: margin, typ: typ, id: id, diagApprox: tran, solref: solref, solimp: solimp}}
	case mdl.Option.Cone == model.ConeElliptic:
		// pos[0]=dist, margin[0]=includemargin; remaining rows (tangent/torsional/
		// rolling) carry pos=margin=0 per spec.md §4.4. diagApprox: first 3 rows use
		// tran, the rest (torsional/rolling) use rot. Rows j>0 prefer the contact's
		// solreffriction pair over its own solref whenever either component is set
		// (spec.md §4.6).
		g := make(rowGroup, dim)
		for i, r := range rows {
			diag := tran
			if i >= 3 {
				diag = rot
			}
			if i == 0 {
				g[i] = rowSpec{jac: r, pos: ct.Dist, margin: margin, typ: typ, id: id, diagApprox: diag, solref: solref, solimp: solimp}
			} else {
				g[i] = rowSpec{
					jac: r, typ: typ, id: id, diagApprox: diag,
					solref: solref, solimp: solimp,
					altSolref: altSolref, altSolimp: altSolimp, hasAlt: hasAlt,
					frictionRow: true,
				}
			}
		}
		return g
	default: // pyramidal: 2*(dim-1) rows, one +mu/-mu pair per friction direction
		g := make(rowGroup, 0, 2*(dim-1))
		normal := rows[0]
		for i := 1; i < dim; i++ {
			mu := frictionCoeffForDir(ct, i)
			plus := addRows(mdl.NV(), jacMode, normal, rows[i], mu)
			minus := addRows(mdl.NV(), jacMode, normal, rows[i], -mu)
			// k is the 0-indexed friction-direction index (excluding the normal row):
			// the two sliding-friction directions (k<2) draw on translational inverse
			// weight, torsional/rolling (k>=2) on rotational.
			k := i - 1
			diag := tran + mu*mu*tran
			if k >= 2 {
				diag = tran + mu*mu*rot
			}
			g = append(g,
				rowSpec{jac: plus, pos: ct.Dist, margin: margin, typ: typ, id: id, diagApprox: diag, solref: solref, solimp: solimp},
				rowSpec{jac: minus, pos: ct.Dist, margin: margin, typ: typ, id: id, diagApprox: diag, solref: solref, solimp: solimp},
			)
		}
		return g
	}
}

func contactRowType(mdl *model.Model, dim int) Type {
	if dim == 1 {
		return TypeContactFrictionless
	}
	if mdl.Option.Cone == model.ConeElliptic {
		return TypeContactElliptic
	}
	return TypeContactPyramidal
}

// frictionCoeffForDir picks the friction coefficient governing pyramidal direction i
// (1-indexed past the normal row): sliding friction for the two tangent directions,
// torsional for the third, rolling for the fourth and fifth.
func frictionCoeffForDir(ct model.Contact, i int) float64 {
	if i-1 < len(ct.Friction) {
		return ct.Friction[i-1]
	}
	return ct.Mu
}
