package constraint

import (
	"math"
	"testing"

	"github.com/solverforge/constraintcore/model"
)

// TestAssembleParams_Invariants checks the universal post-assembly identities from
// spec.md §8: efc_D * efc_R == 1, efc_R * I / (1-I) == efc_diagApprox (after the
// diagApprox rewrite), and I stays within [MINIMP, MAXIMP], across every row of a model
// that exercises the equality and limit categories together.
func TestAssembleParams_Invariants(t *testing.T) {
	mdl := twoFreeBodiesModel()
	mdl.Equalities = []model.Equality{{
		Type: model.EqConnect, Obj1Id: 0, Obj2Id: 1, Active: true,
		Solref: model.DefaultSolref, Solimp: model.DefaultSolimp,
	}}
	mdl.Joints = []model.Joint{{
		Type: model.JointHinge, DofAdr: 0, Limited: true, Range: [2]float64{0, 1},
		Solref: model.DefaultSolref, Solimp: model.DefaultSolimp, Value: 1.01,
	}}

	d := newTestData(t, mdl, nil)
	for i := 0; i < d.Nefc; i++ {
		if math.Abs(d.EfcD[i]*d.EfcR[i]-1) > 1e-9 {
			t.Errorf("row %d: D*R = %v, want 1", i, d.EfcD[i]*d.EfcR[i])
		}
		imp := d.EfcI[i]
		if imp < model.MinImp-1e-12 || imp > model.MaxImp+1e-12 {
			t.Errorf("row %d: I = %v, outside [%v,%v]", i, imp, model.MinImp, model.MaxImp)
		}
		got := d.EfcR[i] * imp / (1 - imp)
		if math.Abs(got-d.EfcDiagApprox[i]) > 1e-9 {
			t.Errorf("row %d: R*I/(1-I) = %v, want efc_diagApprox = %v", i, got, d.EfcDiagApprox[i])
		}
	}
}

// TestFillRowParams_RefsafeClamp is spec.md §8 scenario 6: with EnableRefSafe set and a
// standard-mode solref time constant below 2*timestep, the clamp floors it at 2*timestep
// before K is computed, rather than using the caller's too-small value directly.
func TestFillRowParams_RefsafeClamp(t *testing.T) {
	mdl := &model.Model{
		Dofs: []model.Dof{{BodyId: 0, ParentId: -1, InvWeight: 1}},
		Joints: []model.Joint{{
			Type: model.JointHinge, DofAdr: 0, Limited: true,
			Range: [2]float64{0, 1}, Value: 1.01,
			Solref: model.Solref{0.001, 1.0}, Solimp: model.DefaultSolimp,
		}},
	}
	mdl.Option.Flags = model.EnableRefSafe
	mdl.Option.Timestep = 0.01

	d := newTestData(t, mdl, nil)
	if d.Nefc != 1 {
		t.Fatalf("Nefc = %d, want 1", d.Nefc)
	}

	clampedRef0 := 2 * mdl.Option.Timestep
	dmax := model.DefaultSolimp[1]
	wantK := 1 / (dmax * dmax * clampedRef0 * clampedRef0 * 1.0 * 1.0)
	if math.Abs(d.EfcK[0]-wantK) > 1e-6 {
		t.Errorf("K = %v, want %v (clamped ref[0]=%v)", d.EfcK[0], wantK, clampedRef0)
	}
}

func TestImpedanceProfile(t *testing.T) {
	flat := model.Solimp{0.5, 0.5, 0.1, 0.5, 2}
	if I, P := impedanceProfile(0, 0, flat); I != 0.5 || P != 0 {
		t.Errorf("flat profile: I=%v P=%v, want I=0.5 P=0", I, P)
	}

	sat := model.Solimp{0.1, 0.9, 0.1, 0.5, 2}
	if I, _ := impedanceProfile(1, 0, sat); I != 0.9 {
		t.Errorf("saturated profile: I=%v, want dmax=0.9", I)
	}
	if I, _ := impedanceProfile(0, 0, sat); I != 0.1 {
		t.Errorf("unsaturated-at-zero profile: I=%v, want dmin=0.1", I)
	}

	linear := model.Solimp{0, 1, 1, 0.5, 1}
	if I, P := impedanceProfile(0.5, 0, linear); math.Abs(I-0.5) > 1e-9 || P <= 0 {
		t.Errorf("linear (p=1) profile at x=0.5: I=%v P=%v, want I=0.5 P>0", I, P)
	}
}

// TestCoupleFrictionCone_PyramidalUniformR is spec.md §4.6: every one of a pyramidal
// block's 2*(dim-1) rows, including the first +mu/-mu pair, ends up at the same
// regularized R_py -- not just the rows from index 1 onward.
func TestCoupleFrictionCone_PyramidalUniformR(t *testing.T) {
	d := &Data{}
	d.EfcR = []float64{10, 10, 10, 10}
	d.EfcD = make([]float64, 4)
	d.Contacts = []model.Contact{{Friction: []float64{0.5, 0.5}}}

	mdl := &model.Model{}
	mdl.Option.ImpRatio = 1

	g := rowGroup{
		{typ: TypeContactPyramidal, id: 0},
		{typ: TypeContactPyramidal, id: 0},
		{typ: TypeContactPyramidal, id: 0},
		{typ: TypeContactPyramidal, id: 0},
	}
	d.coupleFrictionCone(mdl, 0, g)

	for i := 1; i < 4; i++ {
		if d.EfcR[i] != d.EfcR[0] {
			t.Errorf("row %d: R = %v, want uniform with row 0's %v", i, d.EfcR[i], d.EfcR[0])
		}
		if d.EfcD[i] != 1/d.EfcR[i] {
			t.Errorf("row %d: D = %v, want 1/R = %v", i, d.EfcD[i], 1/d.EfcR[i])
		}
	}
}

func TestSanitizeSolimp_ClampsAndFloors(t *testing.T) {
	imp := sanitizeSolimp(model.Solimp{-1, 2, -0.5, 0.5, 0.3})
	if imp[0] != model.MinImp {
		t.Errorf("dmin = %v, want MinImp", imp[0])
	}
	if imp[1] != model.MaxImp {
		t.Errorf("dmax = %v, want MaxImp", imp[1])
	}
	if imp[2] != 0 {
		t.Errorf("width = %v, want 0", imp[2])
	}
	if imp[4] != 1 {
		t.Errorf("power = %v, want floored to 1", imp[4])
	}
}
