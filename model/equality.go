package model

import "github.com/go-gl/mathgl/mgl64"

// EqType names the four equality-constraint subtypes from spec.md §4.4.
type EqType int

const (
	EqConnect EqType = iota
	EqWeld
	EqJoint
	EqTendon
)

// Equality is the read-only description of one equality constraint definition.
// Data is the generic NEqData-float blob; Connect/Weld read named slices of it so call
// sites never index it directly, while still satisfying the bit-exact offsets spec.md
// §6 calls out (weld relpose at [6:10], torquescale at [10]).
type Equality struct {
	Type EqType
	// Obj1Id/Obj2Id index into Bodies for Connect/Weld, or into Joints/Tendons for
	// Joint/Tendon coupling. Obj2Id is -1 when the second object is absent.
	Obj1Id int
	Obj2Id int

	Active bool
	Solref Solref
	Solimp Solimp

	Data [NEqData]float64

	// PolyRef/PolyCoef hold the Joint/Tendon coupling reference positions and degree-4
	// polynomial coefficients (a0..a4); not part of the Data blob since spec.md gives
	// no bit-exact layout requirement for this subtype.
	PolyRef  [2]float64
	PolyCoef [5]float64
}

// Anchor1 returns the Connect/Weld anchor point in object 1's local frame.
func (e Equality) Anchor1() mgl64.Vec3 {
	return mgl64.Vec3{e.Data[0], e.Data[1], e.Data[2]}
}

// Anchor2 returns the Connect/Weld anchor point in object 2's local frame.
func (e Equality) Anchor2() mgl64.Vec3 {
	return mgl64.Vec3{e.Data[3], e.Data[4], e.Data[5]}
}

// RelPose returns the Weld relative-orientation quaternion, stored at Data[6:10].
func (e Equality) RelPose() mgl64.Quat {
	return mgl64.Quat{W: e.Data[6], V: mgl64.Vec3{e.Data[7], e.Data[8], e.Data[9]}}
}

// TorqueScale returns the Weld rotational-block scale factor, stored at Data[10].
func (e Equality) TorqueScale() float64 {
	return e.Data[10]
}
