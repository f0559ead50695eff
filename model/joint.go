package model

import "github.com/go-gl/mathgl/mgl64"

// JointType names the mobility a joint provides. Free joints never produce limit rows
// (the limit builder skips them even when Limited is set); a free joint with
// FrictionLoss > 0 produces one friction row for each of its six dofs.
type JointType int

const (
	JointSlide JointType = iota
	JointHinge
	JointBall
	JointFree
)

// Joint is the read-only description of one joint's limit and friction parameters.
type Joint struct {
	Type JointType

	DofAdr  int // index of this joint's first dof
	QposAdr int // index of this joint's first generalized position

	Limited        bool
	Range          [2]float64 // [lower, upper], meaning depends on Type (see limit.go)
	Margin         float64
	Solref         Solref
	Solimp         Solimp
	FrictionLoss   float64
	SolrefFriction Solref
	SolimpFriction Solimp

	// Value is the joint's current scalar generalized position (slide/hinge), supplied
	// read-only each step by the (out-of-scope) body kinematics subsystem.
	Value float64
	// Quat is the joint's current relative orientation, used only for JointBall.
	Quat mgl64.Quat
}
