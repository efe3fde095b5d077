// Package gjk implements the Gilbert-Johnson-Keerthi simplex evolution: the
// state machine that grows and reduces a 1-4 point simplex in the Minkowski
// difference of two convex bodies until it either encloses the origin
// (overlap) or proves it cannot (separation).
//
// Structurally this keeps the teacher's (akmonengine/feather) function
// decomposition — one function per simplex size, a support-query helper, a
// bounded iteration loop — but the arithmetic contract (witness-carrying
// SupportPoints, the exact Voronoi-region tests per simplex size, the
// pool-backed lifecycle) follows spec.md section 4.C exactly; the teacher's
// own gjk.go does not track witnesses and cannot seed EPA with them.
package gjk

import (
	"github.com/duskhollow/narrowphase/body"
	"github.com/duskhollow/narrowphase/pool"
	"github.com/duskhollow/narrowphase/telemetry"
	"github.com/go-gl/mathgl/mgl64"
)

// Outcome is the result of one Simplex.Step call.
type Outcome int

const (
	// Continue means a new support point was added; the caller should loop.
	Continue Outcome = iota
	// Separated means the Minkowski difference provably excludes the
	// origin — no collision.
	Separated
	// Enclosed means the simplex is a tetrahedron containing the origin —
	// EPA may proceed.
	Enclosed
)

const (
	// Epsilon is the shared numerical tolerance (spec.md section 5).
	Epsilon = 1e-6
	// MaxIterations bounds GJK's loop (spec.md section 5).
	MaxIterations = 20
)

// FindSupport computes the support point of A - B in direction dir and
// writes it into out (spec.md section 4.B). The farthest point of the
// Minkowski difference in dir is always farthestA(dir) - farthestB(-dir).
func FindSupport(a, b body.Body, dir mgl64.Vec3, out *pool.SupportPoint) {
	out.WitnessA = a.Support(dir)
	out.WitnessB = b.Support(dir.Mul(-1))
	out.Point = out.WitnessA.Sub(out.WitnessB)
}

// Simplex is the 1-4 point state machine GJK evolves. Points are ordered
// oldest-first; the newest point is always last (spec.md section 3).
type Simplex struct {
	ObjectA, ObjectB body.Body
	NextDirection    mgl64.Vec3
	Iterations       int

	points []*pool.SupportPoint
	pools  *pool.Pools
}

// NewSimplex starts a fresh simplex for the pair (a, b), sharing pools with
// whatever else is running against the same query.
func NewSimplex(a, b body.Body, pools *pool.Pools) *Simplex {
	direction := b.Position().Sub(a.Position())
	if direction.LenSqr() < 1e-12 {
		direction = mgl64.Vec3{1, 0, 0}
	}
	return &Simplex{
		ObjectA:       a,
		ObjectB:       b,
		NextDirection: direction,
		pools:         pools,
	}
}

// Points returns the simplex's current support points, newest last.
func (s *Simplex) Points() []*pool.SupportPoint { return s.points }

// TakeTetrahedron transfers ownership of the 4 enclosing points to the
// caller (EPA's Polyhedron) and forgets them, so Release below never
// double-frees a point that has been handed off — the GJK -> EPA ownership
// transfer spec.md section 5 requires.
func (s *Simplex) TakeTetrahedron() [4]*pool.SupportPoint {
	var out [4]*pool.SupportPoint
	copy(out[:], s.points)
	s.points = nil
	return out
}

// Release returns every point still held by the simplex to the pool. Called
// when a query tears down without reaching EPA (Separated, or an iteration
// cap).
func (s *Simplex) Release() {
	for _, p := range s.points {
		s.pools.SupportPoints.Release(p)
	}
	s.points = nil
}

// setPoints replaces the simplex's point set with pts (in the given order),
// releasing any currently-held point that isn't in pts back to the pool.
func (s *Simplex) setPoints(pts ...*pool.SupportPoint) {
	for _, held := range s.points {
		kept := false
		for _, p := range pts {
			if held == p {
				kept = true
				break
			}
		}
		if !kept {
			s.pools.SupportPoints.Release(held)
		}
	}
	s.points = append(s.points[:0:0], pts...)
}

// Step attempts to grow or reduce the simplex toward the origin. See
// spec.md section 4.C for the full contract.
func (s *Simplex) Step() (Outcome, *pool.SupportPoint) {
	if s.Iterations >= MaxIterations {
		telemetry.Default.Warnf("gjk: hit MaxIterations=%d without converging", MaxIterations)
		return Separated, nil
	}
	s.Iterations++

	sp := s.pools.SupportPoints.Acquire()
	FindSupport(s.ObjectA, s.ObjectB, s.NextDirection, sp)

	if sp.Point.Dot(s.NextDirection) < 0 {
		s.pools.SupportPoints.Release(sp)
		return Separated, nil
	}

	s.points = append(s.points, sp)

	if s.updateDirection() {
		return Enclosed, sp
	}
	return Continue, sp
}

// updateDirection dispatches by simplex size after the latest append, and
// reports whether the simplex now encloses the origin.
func (s *Simplex) updateDirection() bool {
	switch len(s.points) {
	case 1:
		s.NextDirection = s.points[0].Point.Mul(-1)
		return false
	case 2:
		return s.findFromLine()
	case 3:
		return s.findFromTriangle()
	case 4:
		return s.findFromTetrahedron()
	}
	return false
}

// findFromLine handles the 2-point simplex (segment B,A with A newest).
func (s *Simplex) findFromLine() bool {
	a := s.points[1]
	b := s.points[0]

	ab := b.Point.Sub(a.Point)
	ao := a.Point.Mul(-1)

	if ab.Dot(ao) < 0 {
		s.setPoints(a)
		s.NextDirection = ao
		return false
	}

	dir := ab.Cross(ao).Cross(ab)
	if dir.LenSqr() < Epsilon*Epsilon {
		// ab is parallel to ao: any direction perpendicular to ab will do.
		n := ab.Normalize()
		dir = n.Cross(mgl64.Vec3{1, 0, 0})
		if dir.LenSqr() < 0.1 {
			dir = n.Cross(mgl64.Vec3{0, 1, 0})
		}
	}
	s.NextDirection = dir
	return false
}

// findFromTriangle handles the 3-point simplex (triangle C,B,A with A newest).
func (s *Simplex) findFromTriangle() bool {
	a := s.points[2]
	b := s.points[1]
	c := s.points[0]

	ao := a.Point.Mul(-1)
	ab := b.Point.Sub(a.Point)
	ac := c.Point.Sub(a.Point)
	n := ab.Cross(ac)
	eAB := ab.Cross(n)
	eAC := n.Cross(ac)

	if eAC.Dot(ao) >= 0 {
		if ac.Dot(ao) >= 0 {
			s.setPoints(c, a)
			s.NextDirection = ac.Cross(ao).Cross(ac)
			return false
		}
		if ab.Dot(ao) >= 0 {
			s.setPoints(b, a)
			s.NextDirection = ab.Cross(ao).Cross(ab)
			return false
		}
		s.setPoints(a)
		return s.updateDirection()
	}

	if eAB.Dot(ao) >= 0 {
		if ab.Dot(ao) >= 0 {
			s.setPoints(b, a)
			s.NextDirection = ab.Cross(ao).Cross(ab)
			return false
		}
		s.setPoints(a)
		return s.updateDirection()
	}

	if n.Dot(ao) >= 0 {
		s.NextDirection = n
	} else {
		s.NextDirection = n.Mul(-1)
	}
	return false
}

type tetraFace struct {
	verts     [3]*pool.SupportPoint
	discarded *pool.SupportPoint
}

// findFromTetrahedron handles the 4-point simplex (tetrahedron D,C,B,A with
// A newest). This is the only case that can return true (Enclosed).
func (s *Simplex) findFromTetrahedron() bool {
	a := s.points[3]
	b := s.points[2]
	c := s.points[1]
	d := s.points[0]

	// Wind the tetrahedron outward: face (B,C,D) must face away from A.
	// Swapping B and C reverses all four faces below at once.
	if c.Point.Sub(b.Point).Cross(d.Point.Sub(b.Point)).Dot(a.Point.Sub(b.Point)) > 0 {
		s.points[1], s.points[2] = s.points[2], s.points[1]
		b, c = c, b
	}

	faces := [4]tetraFace{
		{verts: [3]*pool.SupportPoint{b, c, d}, discarded: a},
		{verts: [3]*pool.SupportPoint{a, c, b}, discarded: d},
		{verts: [3]*pool.SupportPoint{c, a, d}, discarded: b},
		{verts: [3]*pool.SupportPoint{d, a, b}, discarded: c},
	}

	bestIdx := -1
	bestVal := Epsilon
	var bestNormal mgl64.Vec3

	for i, f := range faces {
		p, q, r := f.verts[0], f.verts[1], f.verts[2]
		normal := q.Point.Sub(p.Point).Cross(r.Point.Sub(p.Point))
		if normal.LenSqr() < 1e-20 {
			continue
		}
		normal = normal.Normalize()

		centroid := p.Point.Add(q.Point).Add(r.Point).Mul(1.0 / 3.0)
		originDir := centroid.Mul(-1)
		if originDir.LenSqr() < 1e-20 {
			continue
		}
		originDir = originDir.Normalize()

		val := normal.Dot(originDir)
		if val > bestVal {
			bestVal = val
			bestIdx = i
			bestNormal = normal
		}
	}

	if bestIdx == -1 {
		return true
	}

	sel := faces[bestIdx]
	s.setPoints(sel.verts[2], sel.verts[1], sel.verts[0])
	s.NextDirection = bestNormal
	return false
}
