package body

import "github.com/go-gl/mathgl/mgl64"

// Body is the capability the narrow phase consumes from a rigid body:
// a world-space support query, a position, a world-to-local transform, and
// the two material coefficients contacts need. Nothing else — the rest of a
// simulated rigid body (mass, inertia, velocity, sleep state) lives outside
// this core (spec.md section 1, section 3, section 6).
type Body interface {
	// Support returns the farthest world-space point of the body in
	// direction dir.
	Support(dir mgl64.Vec3) mgl64.Vec3

	// Position is the body's world-space origin.
	Position() mgl64.Vec3

	// WorldToLocal maps a world point into the body's local frame (the
	// "transform_inverse" of spec.md section 3).
	WorldToLocal(world mgl64.Vec3) mgl64.Vec3

	// LocalToWorld maps a local point into world space. The forward half of
	// the transform pair; spec.md's property P6 checks this is the true
	// inverse of WorldToLocal.
	LocalToWorld(local mgl64.Vec3) mgl64.Vec3

	Restitution() float64
	Friction() float64
}

// RigidBody is the minimal Body implementation this core tests against: a
// Shape placed by a Transform, with the two contact coefficients. Adapted
// from the teacher's actor.RigidBody (actor/rigidbody.go) with everything
// related to dynamics (Material.mass, velocity, Integrate, sleeping) removed
// — the narrow phase never reads or writes it.
type RigidBody struct {
	Transform   Transform
	Shape       Shape
	restitution float64
	friction    float64
}

// NewRigidBody constructs a RigidBody at transform, with shape and the given
// contact coefficients.
func NewRigidBody(transform Transform, shape Shape, restitution, friction float64) *RigidBody {
	return &RigidBody{
		Transform:   transform,
		Shape:       shape,
		restitution: restitution,
		friction:    friction,
	}
}

// Support mirrors the teacher's RigidBody.SupportWorld: rotate the query
// direction into local space, support there, then rotate/translate the
// result back out to world space.
func (rb *RigidBody) Support(dir mgl64.Vec3) mgl64.Vec3 {
	localDir := rb.Transform.DirectionToLocal(dir)
	localSupport := rb.Shape.Support(localDir)
	return rb.Transform.ToWorld(localSupport)
}

func (rb *RigidBody) Position() mgl64.Vec3 { return rb.Transform.Position }

func (rb *RigidBody) WorldToLocal(world mgl64.Vec3) mgl64.Vec3 { return rb.Transform.ToLocal(world) }

func (rb *RigidBody) LocalToWorld(local mgl64.Vec3) mgl64.Vec3 { return rb.Transform.ToWorld(local) }

func (rb *RigidBody) Restitution() float64 { return rb.restitution }

func (rb *RigidBody) Friction() float64 { return rb.friction }
