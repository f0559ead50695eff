package constraint

import (
	"testing"

	"github.com/solverforge/constraintcore/model"
)

// newTestData runs MakeConstraint against a fresh Data with a generous arena, failing the
// test immediately on any EngineError so every scenario test can assume success and move
// straight to inspecting the result.
func newTestData(t *testing.T, mdl *model.Model, contacts []model.Contact) *Data {
	t.Helper()
	d := NewData(DefaultArenaBytes)
	if err := MakeConstraint(d, mdl, contacts); err != nil {
		t.Fatalf("MakeConstraint failed: %v", err)
	}
	return d
}
