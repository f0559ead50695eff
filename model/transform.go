package model

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a body's pose in world space, kept in the same shape as the
// teacher engine's actor.Transform since every equality/contact Jacobian row needs both
// the rotation and its cached inverse.
type Transform struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	InverseRotation mgl64.Quat
}

// Identity returns a transform with no translation and no rotation.
func Identity() Transform {
	return Transform{
		Position:        mgl64.Vec3{0, 0, 0},
		Rotation:        mgl64.QuatIdent(),
		InverseRotation: mgl64.QuatIdent(),
	}
}

// WorldPoint maps a point expressed in this transform's local frame into world space.
func (t Transform) WorldPoint(local mgl64.Vec3) mgl64.Vec3 {
	return t.Position.Add(t.Rotation.Rotate(local))
}
