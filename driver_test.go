package narrowphase

import (
	"math"
	"testing"

	"github.com/duskhollow/narrowphase/body"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sphereAt(pos mgl64.Vec3, radius float64) *body.RigidBody {
	return body.NewRigidBody(body.Transform{Position: pos, Rotation: mgl64.QuatIdent()}, &body.Sphere{Radius: radius}, 0.4, 0.6)
}

func boxAt(pos mgl64.Vec3, halfExtents mgl64.Vec3) *body.RigidBody {
	return body.NewRigidBody(body.Transform{Position: pos, Rotation: mgl64.QuatIdent()}, &body.Box{HalfExtents: halfExtents}, 0.4, 0.6)
}

func capsuleAt(pos mgl64.Vec3, radius, halfHeight float64) *body.RigidBody {
	return body.NewRigidBody(body.Transform{Position: pos, Rotation: mgl64.QuatIdent()}, &body.Capsule{Radius: radius, HalfHeight: halfHeight}, 0.4, 0.6)
}

func TestDriverSolveSeparatedSpheres(t *testing.T) {
	d := NewDriver()
	a := sphereAt(mgl64.Vec3{0, 0, 0}, 1)
	b := sphereAt(mgl64.Vec3{5, 0, 0}, 1)

	contact, ok := d.Solve(a, b)
	assert.False(t, ok)
	assert.Nil(t, contact)
}

func TestDriverSolveOverlappingSpheres(t *testing.T) {
	d := NewDriver()
	a := sphereAt(mgl64.Vec3{0, 0, 0}, 1)
	b := sphereAt(mgl64.Vec3{1.2, 0, 0}, 1)

	contact, ok := d.Solve(a, b)
	require.True(t, ok)
	require.NotNil(t, contact)

	// P4: unit contact normal.
	assert.InDelta(t, 1.0, contact.ContactNormal.Len(), 1e-5)
	// P5: non-negative penetration.
	assert.GreaterOrEqual(t, contact.PenetrationDepth, 0.0)
	// Exact for two equal spheres along x: overlap = 2*radius - distance.
	assert.InDelta(t, 0.8, contact.PenetrationDepth, 1e-3)

	d.ReleaseContact(contact)
}

func TestDriverSolveOverlappingBoxes(t *testing.T) {
	d := NewDriver()
	a := boxAt(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1})
	b := boxAt(mgl64.Vec3{1.5, 0, 0}, mgl64.Vec3{1, 1, 1})

	contact, ok := d.Solve(a, b)
	require.True(t, ok)
	assert.InDelta(t, 1.0, contact.ContactNormal.Len(), 1e-5)
	assert.GreaterOrEqual(t, contact.PenetrationDepth, 0.0)
}

func TestDriverSolveBoxAndSphere(t *testing.T) {
	d := NewDriver()
	a := boxAt(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1})
	b := sphereAt(mgl64.Vec3{1.5, 0, 0}, 1)

	contact, ok := d.Solve(a, b)
	require.True(t, ok)
	assert.InDelta(t, 1.0, contact.ContactNormal.Len(), 1e-5)
}

func TestDriverSolveCapsuleAndBox(t *testing.T) {
	d := NewDriver()
	a := boxAt(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1})
	b := capsuleAt(mgl64.Vec3{0, 1.7, 0}, 0.5, 1.0)

	contact, ok := d.Solve(a, b)
	require.True(t, ok)
	assert.InDelta(t, 1.0, contact.ContactNormal.Len(), 1e-5)
	assert.GreaterOrEqual(t, contact.PenetrationDepth, 0.0)
}

func TestDriverSolveDisjointCapsules(t *testing.T) {
	d := NewDriver()
	a := capsuleAt(mgl64.Vec3{0, 0, 0}, 0.5, 1.0)
	b := capsuleAt(mgl64.Vec3{0, 10, 0}, 0.5, 1.0)

	_, ok := d.Solve(a, b)
	assert.False(t, ok)
}

// TestDriverCombinesRestitutionAndFriction checks the combination rule
// documented in spec.md section 4.F: both restitution and friction are
// arithmetic means of the two bodies' coefficients.
func TestDriverCombinesRestitutionAndFriction(t *testing.T) {
	d := NewDriver()
	a := body.NewRigidBody(body.Transform{Position: mgl64.Vec3{0, 0, 0}, Rotation: mgl64.QuatIdent()}, &body.Sphere{Radius: 1}, 0.2, 0.3)
	b := body.NewRigidBody(body.Transform{Position: mgl64.Vec3{1.2, 0, 0}, Rotation: mgl64.QuatIdent()}, &body.Sphere{Radius: 1}, 0.6, 0.7)

	contact, ok := d.Solve(a, b)
	require.True(t, ok)

	assert.InDelta(t, 0.4, contact.Restitution, 1e-9)
	assert.InDelta(t, 0.5, contact.Friction, 1e-9)
}

// TestPoolBalanceAfterManyQueries exercises P9 across a mix of separated and
// overlapping pairs, run back to back on the same Driver.
func TestPoolBalanceAfterManyQueries(t *testing.T) {
	d := NewDriver()
	pairs := []struct {
		a, b body.Body
	}{
		{sphereAt(mgl64.Vec3{0, 0, 0}, 1), sphereAt(mgl64.Vec3{5, 0, 0}, 1)},
		{sphereAt(mgl64.Vec3{0, 0, 0}, 1), sphereAt(mgl64.Vec3{1, 0, 0}, 1)},
		{boxAt(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 1}), boxAt(mgl64.Vec3{0.5, 0.5, 0.5}, mgl64.Vec3{1, 1, 1})},
		{capsuleAt(mgl64.Vec3{0, 0, 0}, 0.5, 1), boxAt(mgl64.Vec3{0, 1.6, 0}, mgl64.Vec3{1, 1, 1})},
	}

	for _, p := range pairs {
		contact, ok := d.Solve(p.a, p.b)
		if ok {
			d.ReleaseContact(contact)
		}
	}

	assert.Equal(t, 0, d.pools.SupportPoints.Outstanding())
	assert.Equal(t, 0, d.pools.Contacts.Outstanding())
}

func TestLocalWorldConsistency(t *testing.T) {
	d := NewDriver()
	a := boxAt(mgl64.Vec3{2, 1, -1}, mgl64.Vec3{1, 1, 1})
	b := sphereAt(mgl64.Vec3{3.2, 1, -1}, 1)

	contact, ok := d.Solve(a, b)
	require.True(t, ok)

	// P6: transforming the A-local contact point back to world space
	// recovers A's world witness point, which lies half the penetration
	// depth from the midpoint ContactPoint, along the contact normal.
	worldFromLocal := a.LocalToWorld(contact.ContactPointInA)
	worldInA := contact.ContactPoint.Add(contact.ContactNormal.Mul(contact.PenetrationDepth / 2))
	assert.Less(t, math.Abs(worldFromLocal.Sub(worldInA).Len()), 1e-4)
}

func Example() {
	// Two spheres that overlap along the x axis.
	driver := NewDriver()
	a := sphereAt(mgl64.Vec3{0, 0, 0}, 1)
	b := sphereAt(mgl64.Vec3{1.5, 0, 0}, 1)

	contact, overlapping := driver.Solve(a, b)
	if !overlapping {
		return
	}
	defer driver.ReleaseContact(contact)
}
