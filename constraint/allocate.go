package constraint

import (
	"github.com/solverforge/constraintcore/internal/arena"
	"github.com/solverforge/constraintcore/model"
)

// commit lays the four ordered category group-lists into the arena as the committed
// efc_* row arrays, truncating from the least essential category backward (contact,
// then limit, then friction, then equality) whole rowGroups at a time if the arena
// cannot hold the exact-size arrays — spec.md §7.1's "truncate at a block boundary,
// never mid-group" rule. Truncation records a WarnConstraintFull warning and can go all
// the way down to an empty row set: a fill with zero rows allocates nothing and always
// succeeds, so the step then runs with no constraint rows.
func (d *Data) commit(mdl *model.Model, nv int, jacMode model.JacobianMode, eq, fr, lim, ct []rowGroup) (neG, frG, limG, ctG []rowGroup, engErr *EngineError) {
	neG, frG, limG, ctG = eq, fr, lim, ct
	var truncated bool

	for {
		rows, nnz := totalRows(neG, frG, limG, ctG)
		if d.tryFill(mdl, nv, jacMode, neG, frG, limG, ctG, rows, nnz) {
			break
		}
		truncated = true
		switch {
		case len(ctG) > 0:
			ctG = ctG[:len(ctG)-1]
		case len(limG) > 0:
			limG = limG[:len(limG)-1]
		case len(frG) > 0:
			frG = frG[:len(frG)-1]
		case len(neG) > 0:
			neG = neG[:len(neG)-1]
		default:
			stats := d.arena.Stats()
			return nil, nil, nil, nil, engineErrorf("arena of %d bytes cannot hold even a single constraint row", stats.UsedBytes+stats.FreeBytes)
		}
	}

	if truncated {
		d.Warnings = append(d.Warnings, Warning{
			Kind:    WarnConstraintFull,
			Message: "constraint arena exhausted; trailing rows dropped at a group boundary",
		})
	}

	d.Ne, _ = countGroups(neG)
	d.Nf, _ = countGroups(frG)
	nl, _ := countGroups(limG)
	nc, _ := countGroups(ctG)
	d.Nefc = d.Ne + d.Nf + nl + nc
	d.NV = nv
	d.JacMode = jacMode
	return neG, frG, limG, ctG, nil
}

func totalRows(groups ...[]rowGroup) (rows, nnz int) {
	for _, gs := range groups {
		r, n := countGroups(gs)
		rows += r
		nnz += n
	}
	return rows, nnz
}

// tryFill attempts the actual arena allocation and population for the given category
// slices; it rewinds to the contact-prefix boundary first so a retry after truncation
// starts from a clean slate. Returns false if any array could not be allocated; the
// arrays this attempt already allocated stay in the arena until the next call rewinds.
func (d *Data) tryFill(mdl *model.Model, nv int, jacMode model.JacobianMode, neG, frG, limG, ctG []rowGroup, rows, nnz int) bool {
	d.arena.RewindToContactEnd()

	pos, ok := arena.AllocSlice[float64](d.arena, rows)
	if !ok {
		return false
	}
	margin, ok := arena.AllocSlice[float64](d.arena, rows)
	if !ok {
		return false
	}
	frictionLoss, ok := arena.AllocSlice[float64](d.arena, rows)
	if !ok {
		return false
	}
	typ, ok := arena.AllocSlice[Type](d.arena, rows)
	if !ok {
		return false
	}
	id, ok := arena.AllocSlice[int](d.arena, rows)
	if !ok {
		return false
	}
	diagApprox, ok := arena.AllocSlice[float64](d.arena, rows)
	if !ok {
		return false
	}
	efcR, ok := arena.AllocSlice[float64](d.arena, rows)
	if !ok {
		return false
	}
	efcD, ok := arena.AllocSlice[float64](d.arena, rows)
	if !ok {
		return false
	}
	efcK, ok := arena.AllocSlice[float64](d.arena, rows)
	if !ok {
		return false
	}
	efcB, ok := arena.AllocSlice[float64](d.arena, rows)
	if !ok {
		return false
	}
	efcI, ok := arena.AllocSlice[float64](d.arena, rows)
	if !ok {
		return false
	}
	efcP, ok := arena.AllocSlice[float64](d.arena, rows)
	if !ok {
		return false
	}
	efcVel, ok := arena.AllocSlice[float64](d.arena, rows)
	if !ok {
		return false
	}
	efcAref, ok := arena.AllocSlice[float64](d.arena, rows)
	if !ok {
		return false
	}
	efcForce, ok := arena.AllocSlice[float64](d.arena, rows)
	if !ok {
		return false
	}
	efcState, ok := arena.AllocSlice[State](d.arena, rows)
	if !ok {
		return false
	}

	var efcJ []float64
	var jRownnz, jRowadr, jColind, jRowsuper []int32
	var jVal []float64

	if jacMode == model.JacobianDense {
		var allocOk bool
		efcJ, allocOk = arena.AllocSlice[float64](d.arena, rows*nv)
		if !allocOk {
			return false
		}
	} else {
		var allocOk bool
		jRownnz, allocOk = arena.AllocSlice[int32](d.arena, rows)
		if !allocOk {
			return false
		}
		jRowadr, allocOk = arena.AllocSlice[int32](d.arena, rows)
		if !allocOk {
			return false
		}
		jRowsuper, allocOk = arena.AllocSlice[int32](d.arena, rows)
		if !allocOk {
			return false
		}
		jColind, allocOk = arena.AllocSlice[int32](d.arena, nnz)
		if !allocOk {
			return false
		}
		jVal, allocOk = arena.AllocSlice[float64](d.arena, nnz)
		if !allocOk {
			return false
		}
	}

	row := 0
	nnzOff := 0
	var prevChain []int
	for _, specs := range [][]rowGroup{neG, frG, limG, ctG} {
		for _, g := range specs {
			for _, rs := range g {
				pos[row] = rs.pos
				margin[row] = rs.margin
				frictionLoss[row] = rs.frictionLoss
				typ[row] = rs.typ
				id[row] = rs.id
				diagApprox[row] = rs.diagApprox

				if jacMode == model.JacobianDense {
					copy(efcJ[row*nv:(row+1)*nv], rs.jac.Dense)
				} else {
					n := len(rs.jac.Chain)
					jRownnz[row] = int32(n)
					jRowadr[row] = int32(nnzOff)
					copy(jColind[nnzOff:nnzOff+n], int32Slice(rs.jac.Chain))
					copy(jVal[nnzOff:nnzOff+n], rs.jac.Values)
					jRowsuper[row] = superCount(prevChain, rs.jac.Chain, row, jRowsuper)
					prevChain = rs.jac.Chain
					nnzOff += n
				}
				row++
			}
		}
	}

	d.EfcPos, d.EfcMargin, d.EfcFrictionLoss = pos, margin, frictionLoss
	d.EfcType, d.EfcId = typ, id
	d.EfcDiagApprox = diagApprox
	d.EfcR, d.EfcD, d.EfcK, d.EfcB, d.EfcI, d.EfcP = efcR, efcD, efcK, efcB, efcI, efcP
	d.EfcVel, d.EfcAref, d.EfcForce, d.EfcState = efcVel, efcAref, efcForce, efcState
	d.EfcJ = efcJ
	d.JRownnz, d.JRowadr, d.JColind, d.JVal, d.JRowsuper = jRownnz, jRowadr, jColind, jVal, jRowsuper
	d.NnzJ = nnz

	nc, _ := countGroups(ctG)
	ctStart := rows - nc
	for _, g := range ctG {
		d.Contacts[g[0].id].EfcAddress = ctStart
		ctStart += len(g)
	}
	return true
}

func int32Slice(in []int) []int32 {
	out := make([]int32, len(in))
	for i, v := range in {
		out[i] = int32(v)
	}
	return out
}

// superCount computes the running supernode length ending at row: it is 1 plus the prior
// row's count when this row's column pattern exactly matches the previous row's, or 1
// when the pattern changes, so a reader can scan back jRowsuper[row]-1 rows to learn this
// row reuses an already-seen column pattern.
func superCount(prevChain, chain []int, row int, jRowsuper []int32) int32 {
	if row == 0 || !sameChain(prevChain, chain) {
		return 1
	}
	return jRowsuper[row-1] + 1
}

func sameChain(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
