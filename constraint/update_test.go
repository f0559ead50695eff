package constraint

import (
	"math"
	"testing"

	"github.com/solverforge/constraintcore/model"
)

func frictionTestData(r, d, frictionLoss float64) *Data {
	return &Data{
		Nefc: 1, NV: 1, JacMode: model.JacobianDense,
		EfcJ:            []float64{1},
		EfcType:         []Type{TypeFrictionDof},
		EfcId:           []int{0},
		EfcFrictionLoss: []float64{frictionLoss},
		EfcR:            []float64{r},
		EfcD:            []float64{d},
		EfcAref:         []float64{0},
		EfcForce:        make([]float64, 1),
		EfcState:        make([]State, 1),
	}
}

// TestConstraintUpdate_FrictionZones exercises spec.md §4.9's three-zone friction
// classification: LINEARNEG below -r*f, LINEARPOS above +r*f, QUADRATIC in between.
func TestConstraintUpdate_FrictionZones(t *testing.T) {
	mdl := &model.Model{}
	const r, d, f = 0.5, 4.0, 2.0

	cases := []struct {
		name      string
		qacc      float64
		wantState State
		wantForce float64
		wantCost  float64
	}{
		{"linear-negative", -2, StateLinearNeg, f, 3},
		{"linear-positive", 2, StateLinearPos, -f, 3},
		{"quadratic", 0.5, StateQuadratic, -2, 0.5},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			data := frictionTestData(r, d, f)
			cost := data.ConstraintUpdate(mdl, []float64{c.qacc}, false)
			if data.EfcState[0] != c.wantState {
				t.Errorf("state = %v, want %v", data.EfcState[0], c.wantState)
			}
			if math.Abs(data.EfcForce[0]-c.wantForce) > 1e-9 {
				t.Errorf("force = %v, want %v", data.EfcForce[0], c.wantForce)
			}
			if math.Abs(cost-c.wantCost) > 1e-9 {
				t.Errorf("cost = %v, want %v", cost, c.wantCost)
			}
		})
	}
}

func ellipticTestData(d0 float64) *Data {
	return &Data{
		Nefc: 3, NV: 3, JacMode: model.JacobianDense,
		EfcJ:    []float64{1, 0, 0, 0, 1, 0, 0, 0, 1},
		EfcType: []Type{TypeContactElliptic, TypeContactElliptic, TypeContactElliptic},
		EfcId:   []int{0, 0, 0},
		EfcD:    []float64{d0, d0, d0},
		EfcAref: []float64{0, 0, 0},
		Contacts: []model.Contact{
			{Friction: []float64{1, 1}},
		},
		EfcForce: make([]float64, 3),
		EfcState: make([]State, 3),
	}
}

// TestConstraintUpdate_EllipticConeZones is spec.md §8 scenarios 4 (top zone, pure normal
// motion): N-only relative velocity classifies as SATISFIED with zero force, exercised
// alongside the bottom and middle cone zones of the same three-row elliptic block.
func TestConstraintUpdate_EllipticConeZones(t *testing.T) {
	mdl := &model.Model{}

	t.Run("top-satisfied", func(t *testing.T) {
		data := ellipticTestData(4)
		cost := data.ConstraintUpdate(mdl, []float64{1, 0, 0}, false)
		if cost != 0 {
			t.Errorf("cost = %v, want 0", cost)
		}
		for i, st := range data.EfcState {
			if st != StateSatisfied || data.EfcForce[i] != 0 {
				t.Errorf("row %d: state=%v force=%v, want StateSatisfied force=0", i, st, data.EfcForce[i])
			}
		}
	})

	t.Run("bottom-quadratic", func(t *testing.T) {
		data := ellipticTestData(4)
		cost := data.ConstraintUpdate(mdl, []float64{-1, 0, 0}, false)
		if math.Abs(cost-2) > 1e-9 {
			t.Errorf("cost = %v, want 2", cost)
		}
		if data.EfcState[0] != StateQuadratic || math.Abs(data.EfcForce[0]-4) > 1e-9 {
			t.Errorf("row 0: state=%v force=%v, want StateQuadratic force=4", data.EfcState[0], data.EfcForce[0])
		}
	})

	t.Run("middle-cone", func(t *testing.T) {
		data := ellipticTestData(4)
		cost := data.ConstraintUpdate(mdl, []float64{0, 1, 0}, false)
		if math.Abs(cost-1) > 1e-9 {
			t.Errorf("cost = %v, want 1", cost)
		}
		if data.EfcState[0] != StateCone || math.Abs(data.EfcForce[0]-2) > 1e-9 {
			t.Errorf("row 0: state=%v force=%v, want StateCone force=2", data.EfcState[0], data.EfcForce[0])
		}
		if math.Abs(data.EfcForce[1]-(-2)) > 1e-9 {
			t.Errorf("row 1: force=%v, want -2", data.EfcForce[1])
		}
		if data.EfcForce[2] != 0 {
			t.Errorf("row 2: force=%v, want 0", data.EfcForce[2])
		}
	})
}
