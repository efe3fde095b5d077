package epa

import (
	"errors"
	"math"

	"github.com/duskhollow/narrowphase/gjk"
	"github.com/duskhollow/narrowphase/pool"
	"github.com/go-gl/mathgl/mgl64"
)

// ErrInvalidSimplex is returned when NewPolyhedron is handed anything other
// than a 4-point, non-degenerate GJK simplex.
var ErrInvalidSimplex = errors.New("epa: simplex must be an enclosing tetrahedron")

// ErrMultipleSilhouetteLoops is returned when addVertex's horizon edges
// don't reduce to a single cycle — spec.md section 9's third open question:
// geometrically impossible for a convex polytope, but under numerical error
// the reorder could otherwise silently drop an edge. We reject the
// iteration rather than stitch a broken fan.
var ErrMultipleSilhouetteLoops = errors.New("epa: silhouette did not form a single cycle")

// horizonEdge is one of the boundary edges silhouette() finds: the active
// face just outside the visible region (outerFace), which neighbor slot on
// it points at the retired face (outerNeighborIdx), and the edge vertices in
// the new face's winding (reversed from the original edge).
type horizonEdge struct {
	outerFace        FaceID
	outerNeighborIdx int
	b, a             *pool.SupportPoint
}

// Polyhedron is the growing EPA polytope: a slab of Faces plus the
// silhouette scratch buffer reused across AddVertex calls.
type Polyhedron struct {
	faces []Face
	edges []horizonEdge
	pools *pool.Pools

	closestFace         FaceID
	closestFaceDistance float64 // squared distance from origin
	closestPoint        mgl64.Vec3
}

// NewPolyhedron seeds a Polyhedron from GJK's enclosing tetrahedron.
//
// The four candidate faces (B,C,D), (A,C,B), (C,A,D), (D,A,B) are exactly
// the ones findFromTetrahedron tests for visibility — findFromTetrahedron
// winds the tetrahedron outward before testing them, so by the time GJK
// returns Enclosed that labeling is already a consistently outward-wound
// tetrahedron and no extra opposite-vertex sign-flip is needed here, unlike
// the teacher's createFaceOutward (epa/polytope.go) which re-derives
// orientation from scratch each time. This resolves spec.md section 9's
// first open question: TestNewPolyhedronWindingSatisfiesFaceOrientation
// checks P7/P8 immediately after construction from a GJK-produced
// tetrahedron (see DESIGN.md).
func NewPolyhedron(simplex *gjk.Simplex, pools *pool.Pools) (*Polyhedron, error) {
	verts := simplex.TakeTetrahedron()
	d, c, b, a := verts[0], verts[1], verts[2], verts[3]
	if a == nil || b == nil || c == nil || d == nil {
		return nil, ErrInvalidSimplex
	}

	faces := []Face{
		newFace(b, c, d),
		newFace(a, c, b),
		newFace(c, a, d),
		newFace(d, a, b),
	}
	if err := wireNeighbors(faces); err != nil {
		return nil, err
	}

	return &Polyhedron{faces: faces, pools: pools}, nil
}

// wireNeighbors links every pair of faces that share an (oppositely
// directed) edge. Used only for the initial tetrahedron, where all four
// faces and their adjacency are discovered by brute-force edge comparison;
// AddVertex wires its new faces directly since their cyclic order is known.
func wireNeighbors(faces []Face) error {
	for i := range faces {
		edges := faces[i].edgeVertices()
		for ei, e := range edges {
			if faces[i].Neighbors[ei] != -1 {
				continue
			}
			matched := false
			for j := range faces {
				if j == i {
					continue
				}
				for ej, e2 := range faces[j].edgeVertices() {
					if e2[0] == e[1] && e2[1] == e[0] {
						faces[i].Neighbors[ei] = FaceID(j)
						faces[j].Neighbors[ej] = FaceID(i)
						matched = true
						break
					}
				}
				if matched {
					break
				}
			}
			if !matched {
				return ErrInvalidSimplex
			}
		}
	}
	return nil
}

// ClosestFaceID, ClosestFaceDistance, and ClosestPoint expose the result of
// the most recent ClosestFace call.
func (p *Polyhedron) ClosestFaceID() FaceID        { return p.closestFace }
func (p *Polyhedron) ClosestFaceDistance() float64 { return p.closestFaceDistance }
func (p *Polyhedron) ClosestPoint() mgl64.Vec3     { return p.closestPoint }
func (p *Polyhedron) Face(id FaceID) *Face         { return &p.faces[id] }
func (p *Polyhedron) FaceCount() int               { return len(p.faces) }

// ClosestFace scans every active face, finds the point on its triangle
// nearest the origin, and keeps the minimum (spec.md section 4.E).
func (p *Polyhedron) ClosestFace() {
	p.closestFaceDistance = math.Inf(1)
	origin := mgl64.Vec3{0, 0, 0}

	for i := range p.faces {
		f := &p.faces[i]
		if !f.Active {
			continue
		}
		cp := closestPointOnTriangle(origin, f.A.Point, f.B.Point, f.C.Point)
		d2 := cp.LenSqr()
		if d2 < p.closestFaceDistance {
			p.closestFaceDistance = d2
			p.closestFace = FaceID(i)
			p.closestPoint = cp
		}
	}
}

// AddVertex expands the polytope toward v: it silhouettes the faces visible
// from v, retires them, and re-triangulates the horizon into a fan of new
// faces meeting at v (spec.md section 4.E).
func (p *Polyhedron) AddVertex(v *pool.SupportPoint) error {
	p.edges = p.edges[:0]
	p.silhouette(p.closestFace, v, -1)

	if err := p.rotateEdgesIntoCycle(); err != nil {
		return err
	}

	newFaceIDs := make([]FaceID, len(p.edges))
	for i, e := range p.edges {
		nf := newFace(e.b, v, e.a)
		nf.Neighbors[2] = e.outerFace
		id := FaceID(len(p.faces))
		p.faces = append(p.faces, nf)
		newFaceIDs[i] = id
		p.faces[e.outerFace].Neighbors[e.outerNeighborIdx] = id
	}

	n := len(newFaceIDs)
	for i, id := range newFaceIDs {
		p.faces[id].Neighbors[0] = newFaceIDs[(i+1)%n]
		p.faces[id].Neighbors[1] = newFaceIDs[(i-1+n)%n]
	}

	return nil
}

// silhouette walks the face graph from faceID, retiring every face visible
// from point and recording the horizon edges where visibility flips.
// source is the FaceID we arrived from, or -1 at the root call.
func (p *Polyhedron) silhouette(faceID FaceID, point *pool.SupportPoint, source FaceID) {
	f := &p.faces[faceID]
	if !f.Active {
		return
	}

	if f.visibleFrom(point) {
		f.Active = false
		neighbors := f.Neighbors
		for i := 0; i < 3; i++ {
			p.silhouette(neighbors[i], point, faceID)
		}
		return
	}

	if source == -1 {
		return
	}

	neighborIdx := -1
	for i, nb := range f.Neighbors {
		if nb == source {
			neighborIdx = i
			break
		}
	}
	if neighborIdx == -1 {
		return
	}

	edges := f.edgeVertices()
	b, a := edges[neighborIdx][0], edges[neighborIdx][1]
	p.edges = append(p.edges, horizonEdge{
		outerFace:        faceID,
		outerNeighborIdx: neighborIdx,
		b:                b,
		a:                a,
	})
}

// rotateEdgesIntoCycle reorders the silhouette's horizon edges (collected in
// arbitrary traversal order) into a single closed cycle, so consecutive
// edges share a vertex: edges[i].a == edges[i-1].b.
func (p *Polyhedron) rotateEdgesIntoCycle() error {
	n := len(p.edges)
	if n < 3 {
		return ErrMultipleSilhouetteLoops
	}

	for i := 1; i < n; i++ {
		if p.edges[i].a == p.edges[i-1].b {
			continue
		}
		found := -1
		for j := i + 1; j < n; j++ {
			if p.edges[j].a == p.edges[i-1].b {
				found = j
				break
			}
		}
		if found == -1 {
			return ErrMultipleSilhouetteLoops
		}
		p.edges[i], p.edges[found] = p.edges[found], p.edges[i]
	}

	if p.edges[0].a != p.edges[n-1].b {
		return ErrMultipleSilhouetteLoops
	}
	return nil
}

// Release returns every SupportPoint still referenced by the polyhedron's
// faces back to the pool, exactly once per point even though a vertex is
// typically shared by several faces (spec.md section 3's lifecycle note).
// Contains guards against releasing a point the driver already returned to
// the pool on a different path.
func (p *Polyhedron) Release() {
	seen := make(map[*pool.SupportPoint]bool)
	for i := range p.faces {
		f := &p.faces[i]
		for _, v := range [3]*pool.SupportPoint{f.A, f.B, f.C} {
			if v == nil || seen[v] {
				continue
			}
			seen[v] = true
			if p.pools.SupportPoints.Contains(v) {
				p.pools.SupportPoints.Release(v)
			}
		}
	}
}

// closestPointOnTriangle returns the point on triangle (a,b,c) nearest p,
// using the standard seven-region projection (Ericson, Real-Time Collision
// Detection §5.1.5). This is plain vector arithmetic with no natural home in
// any pack dependency — go-gl/mathgl supplies the Vec3 ops it's built from,
// but the projection itself is textbook computational geometry, not a
// library concern, so it is hand-written here (DESIGN.md notes it and the
// driver's barycentric as the core's hand-rolled geometric routines).
func closestPointOnTriangle(p, a, b, c mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		t := d1 / (d1 - d3)
		return a.Add(ab.Mul(t))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		t := d2 / (d2 - d6)
		return a.Add(ac.Mul(t))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		t := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Mul(t))
	}

	denom := 1.0 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Mul(v)).Add(ac.Mul(w))
}
