package dofchain

import (
	"reflect"
	"testing"

	"github.com/solverforge/constraintcore/model"
)

// buildChain constructs a simple serial chain of bodies 0..n-1, each with one dof,
// body i's parent is i-1 (body 0's parent is -1, the world).
func buildChain(n int) model.Model {
	bodies := make([]model.Body, n)
	dofs := make([]model.Dof, n)
	for i := 0; i < n; i++ {
		parent := i - 1
		bodies[i] = model.Body{ParentId: parent, DofAdr: i, DofNum: 1, Simple: parent < 0}
		dofParent := -1
		if i > 0 {
			dofParent = i - 1
		}
		dofs[i] = model.Dof{BodyId: i, ParentId: dofParent}
	}
	return model.Model{Bodies: bodies, Dofs: dofs}
}

func TestMerge_SerialChain_SharedAncestor(t *testing.T) {
	mdl := buildChain(5) // 0 <- 1 <- 2 <- 3 <- 4

	got := Merge(mdl, 4, 2)
	want := []int{0, 1, 2, 3, 4}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge(4,2) = %v, want %v", got, want)
	}
}

func TestMerge_SameBody(t *testing.T) {
	mdl := buildChain(3)
	got := Merge(mdl, 2, 2)
	want := []int{0, 1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge(2,2) = %v, want %v", got, want)
	}
}

func TestMerge_NeitherMovable(t *testing.T) {
	bodies := []model.Body{
		{ParentId: -1, DofNum: 0},
		{ParentId: -1, DofNum: 0},
	}
	mdl := model.Model{Bodies: bodies}

	got := Merge(mdl, 0, 1)
	if len(got) != 0 {
		t.Errorf("Merge of two static bodies = %v, want empty", got)
	}
}

func TestMerge_FastPath_DisjointBranches(t *testing.T) {
	// Two independent two-dof branches hanging directly off the world.
	bodies := []model.Body{
		{ParentId: -1, DofAdr: 0, DofNum: 2, Simple: true},
		{ParentId: -1, DofAdr: 2, DofNum: 2, Simple: true},
	}
	dofs := []model.Dof{
		{BodyId: 0, ParentId: -1},
		{BodyId: 0, ParentId: 0},
		{BodyId: 1, ParentId: -1},
		{BodyId: 1, ParentId: 2},
	}
	mdl := model.Model{Bodies: bodies, Dofs: dofs}

	got := Merge(mdl, 0, 1)
	want := []int{0, 1, 2, 3}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge fast path = %v, want %v", got, want)
	}
}

func TestMerge_SkipsFixedParent(t *testing.T) {
	// body 0: world-attached dof. body 1: fixed child of body 0 (no dofs).
	// body 2: fixed child of body 1 welded further, also no dofs.
	bodies := []model.Body{
		{ParentId: -1, DofAdr: 0, DofNum: 1, Simple: true},
		{ParentId: 0, DofNum: 0},
		{ParentId: 1, DofNum: 0},
	}
	dofs := []model.Dof{{BodyId: 0, ParentId: -1}}
	mdl := model.Model{Bodies: bodies, Dofs: dofs}

	got := Merge(mdl, 2, 0)
	want := []int{0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge through fixed parents = %v, want %v", got, want)
	}
}

func TestMerge_OneStaticOneMovable(t *testing.T) {
	bodies := []model.Body{
		{ParentId: -1, DofNum: 0},                          // static world-fixed body
		{ParentId: -1, DofAdr: 0, DofNum: 3, Simple: true}, // free-ish movable body
	}
	dofs := []model.Dof{
		{BodyId: 1, ParentId: -1},
		{BodyId: 1, ParentId: 0},
		{BodyId: 1, ParentId: 1},
	}
	mdl := model.Model{Bodies: bodies, Dofs: dofs}

	got := Merge(mdl, 0, 1)
	want := []int{0, 1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Merge(static, movable) = %v, want %v", got, want)
	}
}
