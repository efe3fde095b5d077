package pool

import "github.com/go-gl/mathgl/mgl64"

// SupportPoint is a single vertex of the Minkowski difference, carrying the
// witnesses on each body that produced it. Invariant: Point == WitnessA -
// WitnessB. Exactly one SupportPoint kind is pooled ("GJK2SupportPoint" in
// spec terms); Go's generics give us that as Pool[SupportPoint] without a
// string-keyed lookup.
type SupportPoint struct {
	WitnessA mgl64.Vec3
	WitnessB mgl64.Vec3
	Point    mgl64.Vec3
}

// ContactDetails is the narrow-phase result: a single deepest contact
// between two bodies, in world and per-body local coordinates.
type ContactDetails struct {
	ContactNormal    mgl64.Vec3 // unit, conventionally A -> B
	ContactPoint     mgl64.Vec3 // world
	ContactPointInA  mgl64.Vec3 // A-local
	ContactPointInB  mgl64.Vec3 // B-local
	PenetrationDepth float64
	Restitution      float64
	Friction         float64
}

// Pools bundles the two pooled kinds a single collision query needs. A
// Driver owns one Pools value; concurrent queries on disjoint pairs each get
// their own (spec.md section 5: "each concurrent invocation has its own
// object pool").
type Pools struct {
	SupportPoints *Pool[SupportPoint]
	Contacts      *Pool[ContactDetails]
}

// NewPools constructs an empty Pools.
func NewPools() *Pools {
	return &Pools{
		SupportPoints: New[SupportPoint](),
		Contacts:      New[ContactDetails](),
	}
}
