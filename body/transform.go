package body

import "github.com/go-gl/mathgl/mgl64"

// Transform places a Shape in world space. Adapted from the teacher's
// actor.Transform; the rigid-body fields that hang off it there (velocity,
// sleep state, accumulated forces) belong to the simulation layer this core
// does not own (spec.md section 1, "the rigid-body data structure itself").
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Rotation: mgl64.QuatIdent()}
}

// ToWorld maps a point from the shape's local frame to world space.
func (t Transform) ToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return t.Position.Add(t.Rotation.Rotate(local))
}

// ToLocal maps a world point into the shape's local frame — the
// "world-to-local transform inverse" spec.md section 3 and 6 require Body to
// expose.
func (t Transform) ToLocal(world mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Conjugate().Rotate(world.Sub(t.Position))
}

// DirectionToLocal rotates a direction (not a point) into local space.
func (t Transform) DirectionToLocal(dir mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Conjugate().Rotate(dir)
}

// DirectionToWorld rotates a local-space direction into world space.
func (t Transform) DirectionToWorld(dir mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(dir)
}
