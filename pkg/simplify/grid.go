// Package simplify implements mesh decimation by uniform grid vertex
// clustering. Vertices falling into the same grid cell collapse onto a
// single representative; triangles whose corners collapse together are
// dropped. The grid resolution is searched coarsest-fit: the finest
// resolution whose output meets the requested index budget wins, which
// keeps results deterministic for a given input.
package simplify

import (
	"errors"
	"math"
)

// ErrBadStride reports a vertex buffer whose length is not a multiple
// of the stride.
var ErrBadStride = errors.New("simplify: position buffer does not match stride")

// maxResolution is the finest grid tried; below cell sizes of 1/512 of
// the mesh extent clustering stops collapsing anything useful.
const maxResolution = 512

// GridClusterer reduces index streams by vertex clustering.
type GridClusterer struct{}

// NewGridClusterer returns the default clustering simplifier.
func NewGridClusterer() *GridClusterer {
	return &GridClusterer{}
}

// Reduce returns a reduced index stream still addressing the original
// vertex buffer. positions holds stride floats per vertex with x,y,z
// first. The result meets targetIndexCount when a grid resolution
// within targetError (a relative tolerance against the mesh extent)
// can reach it; otherwise the coarsest tolerable result is returned,
// which may remain above the target.
func (g *GridClusterer) Reduce(positions []float32, stride int, indices []uint32, targetIndexCount int, targetError float64) ([]uint32, error) {
	if stride < 3 {
		return nil, ErrBadStride
	}
	if len(positions)%stride != 0 {
		return nil, ErrBadStride
	}
	if len(indices) <= targetIndexCount {
		out := make([]uint32, len(indices))
		copy(out, indices)
		return out, nil
	}

	vertexCount := len(positions) / stride
	minX, minY, minZ := math.Inf(1), math.Inf(1), math.Inf(1)
	maxX, maxY, maxZ := math.Inf(-1), math.Inf(-1), math.Inf(-1)
	for v := 0; v < vertexCount; v++ {
		x := float64(positions[v*stride])
		y := float64(positions[v*stride+1])
		z := float64(positions[v*stride+2])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
		minZ, maxZ = math.Min(minZ, z), math.Max(maxZ, z)
	}

	best := make([]uint32, len(indices))
	copy(best, indices)
	for resolution := maxResolution; resolution >= 1; resolution /= 2 {
		// Coarser cells than the tolerance permits would exceed the
		// caller's error budget; stop and keep the best so far.
		if resolution < maxResolution && 1/float64(resolution) > targetError {
			break
		}
		clustered := g.clusterAt(positions, stride, indices, vertexCount,
			minX, minY, minZ, maxX, maxY, maxZ, resolution)
		if len(clustered) == 0 {
			break
		}
		best = clustered
		if len(best) <= targetIndexCount {
			break
		}
	}
	return best, nil
}

// clusterAt snaps every vertex to a grid of the given resolution and
// rewrites the index stream onto per-cell representatives. The
// representative of a cell is the lowest vertex index that maps to it.
func (g *GridClusterer) clusterAt(positions []float32, stride int, indices []uint32, vertexCount int, minX, minY, minZ, maxX, maxY, maxZ float64, resolution int) []uint32 {
	cellX := (maxX - minX) / float64(resolution)
	cellY := (maxY - minY) / float64(resolution)
	cellZ := (maxZ - minZ) / float64(resolution)

	cellOf := func(v int) [3]int {
		var c [3]int
		if cellX > 0 {
			c[0] = min(int((float64(positions[v*stride])-minX)/cellX), resolution-1)
		}
		if cellY > 0 {
			c[1] = min(int((float64(positions[v*stride+1])-minY)/cellY), resolution-1)
		}
		if cellZ > 0 {
			c[2] = min(int((float64(positions[v*stride+2])-minZ)/cellZ), resolution-1)
		}
		return c
	}

	representative := make(map[[3]int]uint32)
	remap := make([]uint32, vertexCount)
	for v := 0; v < vertexCount; v++ {
		cell := cellOf(v)
		rep, ok := representative[cell]
		if !ok {
			rep = uint32(v)
			representative[cell] = rep
		}
		remap[v] = rep
	}

	out := make([]uint32, 0, len(indices))
	for t := 0; t+2 < len(indices); t += 3 {
		a, b, c := remap[indices[t]], remap[indices[t+1]], remap[indices[t+2]]
		if a == b || b == c || a == c {
			continue
		}
		out = append(out, a, b, c)
	}
	return out
}
