package body

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Shape is a convex primitive expressed purely as a support function, in its
// own local frame. Adapted from the teacher's actor.ShapeInterface
// (actor/shape.go) with ComputeAABB/ComputeMass/ComputeInertia/
// GetContactFeature stripped: those serve the broad-phase and the
// multi-point manifold, both out of scope for this core (spec.md section 1).
type Shape interface {
	// Support returns the farthest local-space point of the shape in
	// direction dir.
	Support(dir mgl64.Vec3) mgl64.Vec3
}

// Sphere is a convex ball of the given radius, centered at the shape origin.
type Sphere struct {
	Radius float64
}

func (s *Sphere) Support(dir mgl64.Vec3) mgl64.Vec3 {
	if dir.LenSqr() < 1e-20 {
		return mgl64.Vec3{s.Radius, 0, 0}
	}
	return dir.Normalize().Mul(s.Radius)
}

// Box is an axis-aligned (in local space) rectangular prism described by its
// half-extents.
type Box struct {
	HalfExtents mgl64.Vec3
}

func (b *Box) Support(dir mgl64.Vec3) mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()
	if dir.X() < 0 {
		hx = -hx
	}
	if dir.Y() < 0 {
		hy = -hy
	}
	if dir.Z() < 0 {
		hz = -hz
	}
	return mgl64.Vec3{hx, hy, hz}
}

// Capsule is a sphere swept along a segment of the given half-length on the
// local Y axis. Not present in the teacher (which has Sphere/Box/Plane); it
// supplements the shape set with a rounded, non-polyhedral convex body so
// GJK/EPA are exercised against a shape whose support function isn't a
// simple vertex pick, per SPEC_FULL.md section 4.H.
type Capsule struct {
	Radius     float64
	HalfHeight float64
}

func (c *Capsule) Support(dir mgl64.Vec3) mgl64.Vec3 {
	y := 0.0
	if dir.Y() > 0 {
		y = c.HalfHeight
	} else if dir.Y() < 0 {
		y = -c.HalfHeight
	}
	segmentPoint := mgl64.Vec3{0, y, 0}

	if dir.LenSqr() < 1e-20 {
		return segmentPoint.Add(mgl64.Vec3{c.Radius, 0, 0})
	}
	return segmentPoint.Add(dir.Normalize().Mul(c.Radius))
}
