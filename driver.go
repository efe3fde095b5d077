// Package narrowphase implements GJK/EPA narrow-phase collision detection
// between two convex bodies: given their support functions it decides
// overlap and, on overlap, refines a single deepest-contact manifold (one
// normal, one point, one penetration depth). Broad-phase pruning, full
// rigid-body dynamics, and constraint solving are explicitly out of scope
// (spec.md section 1) — those live in a caller's own simulation loop.
package narrowphase

import (
	"math"

	"github.com/duskhollow/narrowphase/body"
	"github.com/duskhollow/narrowphase/epa"
	"github.com/duskhollow/narrowphase/gjk"
	"github.com/duskhollow/narrowphase/pool"
	"github.com/duskhollow/narrowphase/telemetry"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// MaxEPAIterations bounds the polytope expansion loop (spec.md section 5).
	MaxEPAIterations = 32
	// ConvergenceEpsilon is the tolerance at which EPA accepts its current
	// closest face: either the squared distance from a new support point to
	// the closest point, or how far that support point lies beyond the
	// closest face's plane, falls below it.
	ConvergenceEpsilon = 1e-8
)

// Driver runs GJK/EPA queries for one goroutine's worth of work, owning the
// Pools its Simplex and Polyhedron acquire SupportPoints and ContactDetails
// from. Do not share a Driver across goroutines — construct one per worker,
// same as the teacher's one-RigidBody-per-slot convention (spec.md section 6).
type Driver struct {
	pools *pool.Pools
}

// NewDriver returns a Driver with a fresh, empty set of pools.
func NewDriver() *Driver {
	return &Driver{pools: pool.NewPools()}
}

// Solve tests bodies a and b for overlap and, if they overlap, refines the
// single deepest contact between them. The returned ContactDetails is owned
// by the driver's pool — hand it back with ReleaseContact when done; after
// that, a later Solve call may reuse the same backing value.
func (d *Driver) Solve(a, b body.Body) (*pool.ContactDetails, bool) {
	simplex := gjk.NewSimplex(a, b, d.pools)

	for {
		outcome, _ := simplex.Step()
		switch outcome {
		case gjk.Separated:
			simplex.Release()
			return nil, false
		case gjk.Enclosed:
			contact, err := d.refine(a, b, simplex)
			if err != nil {
				telemetry.Default.Warnf("narrowphase: EPA refine failed: %v", err)
				return nil, false
			}
			return contact, true
		case gjk.Continue:
			continue
		}
	}
}

// refine runs EPA starting from GJK's enclosing tetrahedron until the
// closest-face estimate converges, then builds the final contact (spec.md
// section 4.F).
func (d *Driver) refine(a, b body.Body, simplex *gjk.Simplex) (*pool.ContactDetails, error) {
	poly, err := epa.NewPolyhedron(simplex, d.pools)
	if err != nil {
		return nil, err
	}
	defer poly.Release()

	poly.ClosestFace()

	for i := 0; i < MaxEPAIterations; i++ {
		face := poly.Face(poly.ClosestFaceID())

		var dir mgl64.Vec3
		if poly.ClosestFaceDistance() > gjk.Epsilon*gjk.Epsilon {
			dir = poly.ClosestPoint()
		} else {
			dir = face.Normal
		}
		if dir.LenSqr() < 1e-20 {
			dir = face.Normal
		}
		dir = dir.Normalize()

		sp := d.pools.SupportPoints.Acquire()
		gjk.FindSupport(a, b, dir, sp)

		gap := sp.Point.Sub(poly.ClosestPoint()).LenSqr()
		newDistance := face.Normal.Dot(sp.Point) - face.Normal.Dot(face.A.Point)
		if (gap < ConvergenceEpsilon && poly.ClosestFaceDistance() > gjk.Epsilon*gjk.Epsilon) || newDistance < ConvergenceEpsilon {
			d.pools.SupportPoints.Release(sp)
			break
		}

		if err := poly.AddVertex(sp); err != nil {
			d.pools.SupportPoints.Release(sp)
			return nil, err
		}
		poly.ClosestFace()
	}

	return d.buildContact(a, b, poly), nil
}

// buildContact interpolates the witness points of the closest face's three
// vertices by the closest point's barycentric coordinates, yielding contact
// points on each body's own surface (spec.md section 4.F).
func (d *Driver) buildContact(a, b body.Body, poly *epa.Polyhedron) *pool.ContactDetails {
	face := poly.Face(poly.ClosestFaceID())
	u, v, w := barycentric(poly.ClosestPoint(), face.A.Point, face.B.Point, face.C.Point)

	worldInA := face.A.WitnessA.Mul(u).Add(face.B.WitnessA.Mul(v)).Add(face.C.WitnessA.Mul(w))
	worldInB := face.A.WitnessB.Mul(u).Add(face.B.WitnessB.Mul(v)).Add(face.C.WitnessB.Mul(w))
	contactInA := a.WorldToLocal(worldInA)
	contactInB := b.WorldToLocal(worldInB)

	normal := poly.ClosestPoint()
	if normal.LenSqr() < 1e-20 {
		normal = b.Position().Sub(a.Position())
	}
	if normal.LenSqr() < 1e-20 {
		normal = mgl64.Vec3{0, 1, 0}
	} else {
		normal = normal.Normalize()
	}

	contact := d.pools.Contacts.Acquire()
	contact.ContactNormal = normal
	contact.ContactPointInA = contactInA
	contact.ContactPointInB = contactInB
	contact.ContactPoint = worldInA.Add(worldInB).Mul(0.5)
	contact.PenetrationDepth = math.Sqrt(poly.ClosestFaceDistance())
	contact.Restitution = (a.Restitution() + b.Restitution()) * 0.5
	contact.Friction = (a.Friction() + b.Friction()) * 0.5
	return contact
}

// ReleaseContact returns a ContactDetails obtained from Solve back to the
// driver's pool once the caller is done with it.
func (d *Driver) ReleaseContact(c *pool.ContactDetails) {
	d.pools.Contacts.Release(c)
}

// barycentric returns triangle (a,b,c)'s barycentric coordinates of point p,
// assumed to already lie in the triangle's plane (Ericson, Real-Time
// Collision Detection §3.4).
func barycentric(p, a, b, c mgl64.Vec3) (u, v, w float64) {
	v0 := b.Sub(a)
	v1 := c.Sub(a)
	v2 := p.Sub(a)

	d00 := v0.Dot(v0)
	d01 := v0.Dot(v1)
	d11 := v1.Dot(v1)
	d20 := v2.Dot(v0)
	d21 := v2.Dot(v1)

	denom := d00*d11 - d01*d01
	if math.Abs(denom) < 1e-20 {
		return 1, 0, 0
	}

	v = (d11*d20 - d01*d21) / denom
	w = (d00*d21 - d01*d20) / denom
	u = 1 - v - w
	return u, v, w
}
