// Package epa implements the Expanding Polytope Algorithm: given the
// tetrahedron GJK leaves behind when it proves overlap, iteratively refine
// it into the polytope face closest to the origin, which yields the
// penetration depth and contact normal.
//
// The teacher (akmonengine/feather) builds its polytope from plain
// []mgl64.Vec3 faces and tracks the silhouette boundary with an
// occurrence-counted edge list (epa/polytope.go's PolytopeBuilder). That
// model has no face adjacency graph, so it cannot express spec.md's
// silhouette() recursion or the edge-parity invariant (P8). This package
// instead slab-indexes faces by FaceID and links each one to its three
// neighbors, per spec.md section 9's design note and section 4.D/4.E.
package epa

import (
	"github.com/duskhollow/narrowphase/pool"
	"github.com/go-gl/mathgl/mgl64"
)

// FaceID indexes a Face within a Polyhedron's slab. IDs are stable for the
// lifetime of the polyhedron — a retired face stays in the slab with
// Active=false rather than being removed, so neighbor links never dangle.
type FaceID int

// Face is an oriented triangle of the polytope boundary: three vertices, a
// unit outward normal, and one neighbor per edge.
//
// Neighbors[0] shares edge A-B, Neighbors[1] shares edge B-C, Neighbors[2]
// shares edge C-A (spec.md section 3).
type Face struct {
	A, B, C   *pool.SupportPoint
	Normal    mgl64.Vec3
	Active    bool
	Neighbors [3]FaceID
}

func newFace(a, b, c *pool.SupportPoint) Face {
	normal := b.Point.Sub(a.Point).Cross(c.Point.Sub(a.Point))
	if normal.LenSqr() > 1e-20 {
		normal = normal.Normalize()
	}
	return Face{
		A:         a,
		B:         b,
		C:         c,
		Normal:    normal,
		Active:    true,
		Neighbors: [3]FaceID{-1, -1, -1},
	}
}

// classify measures the signed distance of vertex v's point from the face's
// plane. A positive value means v sees the outward side of the face.
func (f *Face) classify(v *pool.SupportPoint) float64 {
	return f.Normal.Dot(v.Point) - f.Normal.Dot(f.A.Point)
}

func (f *Face) visibleFrom(v *pool.SupportPoint) bool {
	return f.classify(v) > 0
}

// edgeVertices returns the face's three directed edges in neighbor-index
// order: (A,B), (B,C), (C,A).
func (f *Face) edgeVertices() [3][2]*pool.SupportPoint {
	return [3][2]*pool.SupportPoint{
		{f.A, f.B},
		{f.B, f.C},
		{f.C, f.A},
	}
}
