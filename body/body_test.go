package body

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func createBoxBody(position mgl64.Vec3, halfExtents mgl64.Vec3) *RigidBody {
	return NewRigidBody(Transform{Position: position, Rotation: mgl64.QuatIdent()}, &Box{HalfExtents: halfExtents}, 0.5, 0.5)
}

func createSphereBody(position mgl64.Vec3, radius float64) *RigidBody {
	return NewRigidBody(Transform{Position: position, Rotation: mgl64.QuatIdent()}, &Sphere{Radius: radius}, 0.5, 0.5)
}

func TestTransformRoundTrip(t *testing.T) {
	t.Run("world-to-local then local-to-world is identity", func(t *testing.T) {
		tr := Transform{
			Position: mgl64.Vec3{1, 2, 3},
			Rotation: mgl64.QuatRotate(math.Pi/4, mgl64.Vec3{0, 1, 0}),
		}
		world := mgl64.Vec3{5, -1, 2}
		local := tr.ToLocal(world)
		back := tr.ToWorld(local)

		if back.Sub(world).Len() > 1e-9 {
			t.Errorf("expected round trip to recover %v, got %v", world, back)
		}
	})

	t.Run("identity transform is a no-op", func(t *testing.T) {
		tr := Identity()
		p := mgl64.Vec3{3, 4, 5}
		if tr.ToWorld(p) != p {
			t.Errorf("expected identity ToWorld to be a no-op, got %v", tr.ToWorld(p))
		}
	})
}

func TestSphereSupport(t *testing.T) {
	s := Sphere{Radius: 2}
	got := s.Support(mgl64.Vec3{1, 0, 0})
	want := mgl64.Vec3{2, 0, 0}
	if got.Sub(want).Len() > 1e-9 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestBoxSupport(t *testing.T) {
	b := Box{HalfExtents: mgl64.Vec3{1, 2, 3}}
	got := b.Support(mgl64.Vec3{-1, 1, -1})
	want := mgl64.Vec3{-1, 2, -3}
	if got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCapsuleSupport(t *testing.T) {
	t.Run("along the axis picks the cap plus radius", func(t *testing.T) {
		c := Capsule{Radius: 0.5, HalfHeight: 1}
		got := c.Support(mgl64.Vec3{0, 1, 0})
		want := mgl64.Vec3{0, 1.5, 0}
		if got.Sub(want).Len() > 1e-9 {
			t.Errorf("expected %v, got %v", want, got)
		}
	})

	t.Run("sideways stays at y=0", func(t *testing.T) {
		c := Capsule{Radius: 0.5, HalfHeight: 1}
		got := c.Support(mgl64.Vec3{1, 0, 0})
		if got.Y() != 0 {
			t.Errorf("expected y=0, got %v", got.Y())
		}
	})
}

func TestRigidBodySupportRoundTrip(t *testing.T) {
	body := createBoxBody(mgl64.Vec3{10, 0, 0}, mgl64.Vec3{1, 1, 1})
	got := body.Support(mgl64.Vec3{1, 0, 0})
	want := mgl64.Vec3{11, 1, 1}
	if got.Sub(want).Len() > 1e-9 {
		t.Errorf("expected %v, got %v", want, got)
	}
}
