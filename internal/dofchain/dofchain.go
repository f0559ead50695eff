// Package dofchain implements the dof-chain merger (spec.md §4.2): given two bodies,
// the sorted-ascending set of dof indices whose motion can change their relative pose.
package dofchain

import "github.com/solverforge/constraintcore/model"

// Merge returns the sorted-ascending set of dof indices influencing the relative pose
// of bodies b1 and b2. The result is empty when neither body is movable.
func Merge(mdl model.Model, b1, b2 int) []int {
	start1 := leafDof(mdl, b1)
	start2 := leafDof(mdl, b2)

	if start1 < 0 && start2 < 0 {
		return nil
	}

	if fastPathEligible(mdl, start1) && fastPathEligible(mdl, start2) {
		return fastPath(mdl, b1, b2)
	}

	return mergeChains(mdl, start1, start2)
}

// BodyChain returns the sorted-ascending set of dof indices influencing body id's own
// world pose — the single-body degenerate case of Merge, used by the Jacobian builders
// (paired point-velocity Jacobians) to find which dofs a given anchor point depends on.
func BodyChain(mdl model.Model, id int) []int {
	start := leafDof(mdl, id)
	if start < 0 {
		return nil
	}
	var descending []int
	for i := start; i >= 0; i = mdl.Dofs[i].ParentId {
		descending = append(descending, i)
	}
	out := make([]int, len(descending))
	for k, v := range descending {
		out[len(descending)-1-k] = v
	}
	return out
}

// leafDof returns the last dof of the nearest movable ancestor of body id, walking up
// the body-parent chain and skipping fixed (dofless) parents, or -1 if no movable
// ancestor exists.
func leafDof(mdl model.Model, id int) int {
	for id >= 0 {
		b := mdl.Bodies[id]
		if b.DofNum > 0 {
			return b.DofAdr + b.DofNum - 1
		}
		id = b.ParentId
	}
	return -1
}

// fastPathEligible reports whether the chain starting at dof is a direct, unshared
// range hanging off the root: the fast concatenation path only applies when this is
// true for both bodies, since otherwise their ranges might share ancestor dofs.
func fastPathEligible(mdl model.Model, startDof int) bool {
	if startDof < 0 {
		return true // no dofs at all: trivially has nothing to share
	}
	firstDofOfBody := firstDofOfChain(mdl, startDof)
	return mdl.Dofs[firstDofOfBody].ParentId < 0
}

// firstDofOfChain walks down from startDof to the first dof of its body's contiguous
// range (the range's dofs share the same body id and are laid out adjacently).
func firstDofOfChain(mdl model.Model, startDof int) int {
	bodyId := mdl.Dofs[startDof].BodyId
	i := startDof
	for i > 0 && mdl.Dofs[i-1].BodyId == bodyId {
		i--
	}
	return i
}

func fastPath(mdl model.Model, b1, b2 int) []int {
	r1 := BodyChain(mdl, b1)
	r2 := BodyChain(mdl, b2)

	out := make([]int, 0, len(r1)+len(r2))
	i, j := 0, 0
	for i < len(r1) && j < len(r2) {
		switch {
		case r1[i] < r2[j]:
			out = append(out, r1[i])
			i++
		case r2[j] < r1[i]:
			out = append(out, r2[j])
			j++
		default:
			out = append(out, r1[i])
			i++
			j++
		}
	}
	out = append(out, r1[i:]...)
	out = append(out, r2[j:]...)
	return out
}

func bodyDofRange(mdl model.Model, bodyId int) []int {
	b := mdl.Bodies[bodyId]
	if b.DofNum == 0 {
		return nil
	}
	out := make([]int, b.DofNum)
	for k := range out {
		out[k] = b.DofAdr + k
	}
	return out
}

// mergeChains walks the two dof-parent chains from leaves to root, at each step
// emitting the larger of the two current dof indices and advancing whichever chain (or
// both, on equality) matched, then reverses the result to increasing order.
func mergeChains(mdl model.Model, i, j int) []int {
	var descending []int

	for i >= 0 || j >= 0 {
		switch {
		case j < 0 || (i >= 0 && i > j):
			descending = append(descending, i)
			i = mdl.Dofs[i].ParentId
		case i < 0 || (j >= 0 && j > i):
			descending = append(descending, j)
			j = mdl.Dofs[j].ParentId
		default: // i == j
			descending = append(descending, i)
			i = mdl.Dofs[i].ParentId
			j = mdl.Dofs[j].ParentId
		}
	}

	out := make([]int, len(descending))
	for k, v := range descending {
		out[len(descending)-1-k] = v
	}
	return out
}
