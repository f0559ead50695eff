package constraint

import (
	"math"

	"github.com/solverforge/constraintcore/model"
)

// assembleParams is C6: it walks the same four ordered group lists commit just
// realized into Data's row arrays, in the same row order, and fills in
// EfcR/EfcD/EfcK/EfcB/EfcI/EfcP. It finishes by rewriting EfcDiagApprox so that
// efc_R * I / (1-I) == efc_diagApprox holds exactly post-adjustment, per spec.md §4.6.
func (d *Data) assembleParams(mdl *model.Model, eq, fr, lim, ct []rowGroup) *EngineError {
	row := 0
	for _, g := range eq {
		for _, rs := range g {
			d.fillRowParams(mdl, row, rs)
			row++
		}
	}
	for _, g := range fr {
		for _, rs := range g {
			d.fillRowParams(mdl, row, rs)
			row++
		}
	}
	for _, g := range lim {
		for _, rs := range g {
			d.fillRowParams(mdl, row, rs)
			row++
		}
	}
	for _, g := range ct {
		blockStart := row
		for _, rs := range g {
			d.fillRowParams(mdl, row, rs)
			row++
		}
		d.coupleFrictionCone(mdl, blockStart, g)
	}

	if row != d.Nefc {
		return engineErrorf("parameter assembly realized %d rows, precount expected %d", row, d.Nefc)
	}

	for i := 0; i < d.Nefc; i++ {
		imp := d.EfcI[i]
		d.EfcDiagApprox[i] = d.EfcR[i] * imp / (1 - imp)
	}
	return nil
}

// fillRowParams computes row i's K, B, I, P, R, D from rs's already-resolved
// solref/solimp (or, for elliptic friction rows with an alternate reference, its
// altSolref/altSolimp), per spec.md §4.6.
func (d *Data) fillRowParams(mdl *model.Model, i int, rs rowSpec) {
	ref, imp := rs.solref, rs.solimp
	if rs.hasAlt {
		ref, imp = rs.altSolref, rs.altSolimp
	}

	ref = d.sanitizeSolref(mdl, ref, rs.hasAlt)
	imp = sanitizeSolimp(imp)

	I, P := impedanceProfile(rs.pos, rs.margin, imp)
	dmax := imp[1]

	var K float64
	if !rs.frictionRow {
		if ref[0] > 0 {
			K = 1 / (dmax * dmax * ref[0] * ref[0] * ref[1] * ref[1])
		} else {
			K = -ref[0] / (dmax * dmax)
		}
	}

	var B float64
	if ref[1] > 0 {
		B = 2 / (dmax * ref[0])
	} else {
		B = -ref[1] / dmax
	}

	r := math.Max(model.MinVal, (1-I)*rs.diagApprox/I)

	d.EfcK[i], d.EfcB[i], d.EfcI[i], d.EfcP[i] = K, B, I, P
	d.EfcR[i] = r
	d.EfcD[i] = 1 / r
}

// sanitizeSolref replaces a mixed-mode reference (one component positive, the other
// not) with the engine default, and — unless refsafe is disabled — clamps a standard-
// mode time constant below 2*timestep up to that floor. usedAlt only changes which
// warning is recorded.
func (d *Data) sanitizeSolref(mdl *model.Model, ref model.Solref, usedAlt bool) model.Solref {
	if (ref[0] > 0) != (ref[1] > 0) {
		kind := WarnBadSolref
		if usedAlt {
			kind = WarnBadSolrefFriction
		}
		d.Warnings = append(d.Warnings, Warning{Kind: kind, Message: "mixed-mode solref; substituting default"})
		return model.DefaultSolref
	}
	if ref[0] > 0 && mdl.Option.RefSafe() {
		if minRef := 2 * mdl.Option.Timestep; ref[0] < minRef {
			ref[0] = minRef
		}
	}
	return ref
}

func sanitizeSolimp(imp model.Solimp) model.Solimp {
	imp[0] = clamp(imp[0], model.MinImp, model.MaxImp)
	imp[1] = clamp(imp[1], model.MinImp, model.MaxImp)
	if imp[2] < 0 {
		imp[2] = 0
	}
	if imp[4] < 1 {
		imp[4] = 1
	}
	return imp
}

// impedanceProfile evaluates spec.md §4.6's smoothstep-family I(x) and its derivative P,
// branching on the flat, saturated, linear (p==1), and two power-law segments.
func impedanceProfile(pos, margin float64, imp model.Solimp) (I, P float64) {
	dmin, dmax, width, m, p := imp[0], imp[1], imp[2], imp[3], imp[4]

	if dmin == dmax || width <= model.MinVal {
		return (dmin + dmax) / 2, 0
	}

	x := math.Abs(pos-margin) / width

	var y, dy float64
	switch {
	case x >= 1:
		y, dy = 1, 0
	case x <= 0:
		y, dy = 0, 0
	case p == 1:
		y, dy = x, 1
	case x <= m:
		y = math.Pow(x, p) / math.Pow(m, p-1)
		dy = p * math.Pow(x, p-1) / math.Pow(m, p-1)
	default:
		y = 1 - math.Pow(1-x, p)/math.Pow(1-m, p-1)
		dy = p * math.Pow(1-x, p-1) / math.Pow(1-m, p-1)
	}

	I = dmin + y*(dmax-dmin)
	sign := 1.0
	if pos-margin < 0 {
		sign = -1
	}
	P = dy * sign * (dmax - dmin) / width
	return I, P
}

// coupleFrictionCone implements spec.md §4.6's friction-cone regularization for a single
// contact block [blockStart, blockStart+len(g)): it only acts when the block has more
// than a bare normal row, regularizes the contact's stored friction coefficient from the
// ratio between the impratio-scaled first friction row and the normal row, then spreads
// that regularized coefficient across the remaining rows following the elliptic or
// pyramidal layout.
func (d *Data) coupleFrictionCone(mdl *model.Model, blockStart int, g rowGroup) {
	dim := len(g)
	if dim <= 1 {
		return
	}
	ct := &d.Contacts[g[0].id]

	rn := d.EfcR[blockStart]
	r1 := rn / mdl.Option.ImpRatio
	d.EfcR[blockStart+1] = r1
	d.EfcD[blockStart+1] = 1 / r1

	mu0 := ct.Friction[0]
	mu := mu0 * math.Sqrt(r1/rn)
	ct.Mu = mu

	if g[0].typ == TypeContactElliptic {
		for j := 2; j < dim; j++ {
			muJ := ct.Friction[j-1]
			rj := r1 * mu0 * mu0 / (muJ * muJ)
			d.EfcR[blockStart+j] = rj
			d.EfcD[blockStart+j] = 1 / rj
		}
		return
	}

	// Pyramidal: every friction row (both signs of every direction) shares the same
	// regularized value, derived from the normal row's own pre-coupling R.
	for k := 0; k < dim; k++ {
		rk := 2 * mu * mu * rn
		d.EfcR[blockStart+k] = rk
		d.EfcD[blockStart+k] = 1 / rk
	}
}
