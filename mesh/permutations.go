package mesh

import "fmt"

// Cell orientation codes pack, per cell, how each local sub-entity
// ordering differs from the canonical ordering induced by ascending
// global vertex numbers. Layout, from the low bits:
//   - one bit per edge: set when the local edge direction disagrees with
//     ascending global order (2D and 3D cells);
//   - three bits per face (3D cells only), at offset NumEdges + 3*face:
//     bit 0 set when the face is reflected, bits 1-2 hold the number of
//     rotations that bring the lowest global vertex first.
//
// Elements consume these codes to reorder entity-interior DOF blocks.

// NumPermutableEntities reports how many edge bits and face bit-triples a
// cell's orientation code carries.
func NumPermutableEntities(ct CellType) (numEdges, numFaces int) {
	if ct.Dim() >= 2 {
		numEdges = ct.NumEntities(1)
	}
	if ct.Dim() == 3 {
		numFaces = ct.NumEntities(2)
	}
	return
}

// ComputeCellPermutations derives the packed orientation code of each
// cell from its global vertex numbers.
func ComputeCellPermutations(ct CellType, cells [][]int64) (codes []uint32) {
	var (
		numEdges, numFaces = NumPermutableEntities(ct)
		edges              [][]int
		faces              [][]int
	)
	if numEdges > 0 {
		edges = EntityVertices(ct, 1)
	}
	if numFaces > 0 {
		faces = EntityVertices(ct, 2)
	}
	codes = make([]uint32, len(cells))
	for k, cell := range cells {
		if len(cell) != ct.NumVertices() {
			err := fmt.Errorf("cell %d has %d vertices, want %d for %v", k, len(cell), ct.NumVertices(), ct)
			panic(err)
		}
		var code uint32
		for e, ev := range edges {
			if cell[ev[0]] > cell[ev[1]] {
				code |= 1 << e
			}
		}
		for f, fv := range faces {
			g := make([]int64, len(fv))
			for i, v := range fv {
				g[i] = cell[v]
			}
			rot, ref := faceOrientation(g)
			code |= (uint32(rot)<<1 | uint32(ref)) << (numEdges + 3*f)
		}
		codes[k] = code
	}
	return
}

// faceOrientation reduces the global vertex numbers of one face to a
// (rotation, reflection) pair. Quadrilateral faces arrive in the
// canonical listing with the fourth vertex diagonal to the first, so the
// corner cycle is (0, 1, 3, 2).
func faceOrientation(g []int64) (rot, ref int) {
	var (
		cycle []int64
	)
	switch len(g) {
	case 3:
		cycle = g
	case 4:
		cycle = []int64{g[0], g[1], g[3], g[2]}
	default:
		panic(fmt.Errorf("face with %d vertices is not supported", len(g)))
	}
	n := len(cycle)
	for i := 1; i < n; i++ {
		if cycle[i] < cycle[rot] {
			rot = i
		}
	}
	if cycle[(rot+1)%n] > cycle[(rot+n-1)%n] {
		ref = 1
	}
	return
}
