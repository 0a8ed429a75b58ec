package element

import (
	"fmt"

	"github.com/ramen-newdals/dolfinx/mesh"
	"github.com/ramen-newdals/dolfinx/utils"
)

// Orientation handling for entity-interior DOF blocks. Lagrange DOFs are
// point evaluations, so every base transformation is a permutation of
// nodes: edge reversal reverses an edge-interior block, and face
// rotation/reflection permute a face-interior lattice. The permutations
// are recovered by matching lattice coordinates under the face symmetry
// maps, which works for any degree and node spacing with symmetric
// 1D parameters.
type transformations struct {
	numEdges   int
	numFaces   int
	edgeBlocks [][]int
	faceBlocks [][]int
	faceRot    [][]int
	faceRotInv [][]int
	faceRef    [][]int
	identity   bool
}

func newTransformations(el *Lagrange) (tr transformations) {
	var (
		ct = el.cellType
		d  = el.degree
	)
	tr.numEdges, tr.numFaces = mesh.NumPermutableEntities(ct)
	tr.identity = true

	for e := 0; e < tr.numEdges; e++ {
		block := el.entityDofs[1][e]
		tr.edgeBlocks = append(tr.edgeBlocks, block)
		if len(block) > 1 {
			tr.identity = false
		}
	}

	for f := 0; f < tr.numFaces; f++ {
		block := el.entityDofs[2][f]
		var pts [][2]float64
		var rotMap func(u, v float64) (float64, float64)
		switch mesh.SubEntityType(ct, 2, f) {
		case mesh.Triangle:
			pts = triInteriorLattice(d)
			rotMap = func(u, v float64) (float64, float64) { return 1 - u - v, u }
		case mesh.Quadrilateral:
			pts = quadInteriorLattice(d, el.variant)
			rotMap = func(u, v float64) (float64, float64) { return 1 - v, u }
		}
		if len(pts) != len(block) {
			panic(fmt.Errorf("face %d lattice has %d points for a %d dof block", f, len(pts), len(block)))
		}
		refMap := func(u, v float64) (float64, float64) { return v, u }
		rot := latticePerm(pts, rotMap)
		ref := latticePerm(pts, refMap)
		tr.faceBlocks = append(tr.faceBlocks, block)
		tr.faceRot = append(tr.faceRot, rot)
		tr.faceRotInv = append(tr.faceRotInv, invertPerm(rot))
		tr.faceRef = append(tr.faceRef, ref)
		if !isIdentityPerm(rot) || !isIdentityPerm(ref) {
			tr.identity = false
		}
	}
	return
}

// latticePerm matches each lattice point against its image under the
// symmetry map.
func latticePerm(pts [][2]float64, sym func(u, v float64) (float64, float64)) (perm []int) {
	perm = make([]int, len(pts))
	for i, p := range pts {
		u, v := sym(p[0], p[1])
		ind := -1
		for j, q := range pts {
			if abs(q[0]-u) < utils.NODETOL && abs(q[1]-v) < utils.NODETOL {
				ind = j
				break
			}
		}
		if ind < 0 {
			panic(fmt.Errorf("lattice point (%v,%v) has no image under symmetry map", p[0], p[1]))
		}
		perm[i] = ind
	}
	return
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

func invertPerm(perm []int) (inv []int) {
	inv = make([]int, len(perm))
	for i, p := range perm {
		inv[p] = i
	}
	return
}

func isIdentityPerm(perm []int) bool {
	for i, p := range perm {
		if i != p {
			return false
		}
	}
	return true
}

// applyBlockPerm reorders the entries of dofs at the block positions:
// position i receives the entry from block position perm[i].
func applyBlockPerm(dofs []int32, block []int, perm []int) {
	var (
		tmp = make([]int32, len(block))
	)
	for i, ind := range block {
		tmp[i] = dofs[ind]
	}
	for i, ind := range block {
		dofs[ind] = tmp[perm[i]]
	}
}

func reverseBlock(dofs []int32, block []int) {
	for i, j := 0, len(block)-1; i < j; i, j = i+1, j-1 {
		dofs[block[i]], dofs[block[j]] = dofs[block[j]], dofs[block[i]]
	}
}

// DofTransformationsArePermutations reports whether every base DOF
// transformation is a permutation. True for nodal Lagrange elements.
func (el *Lagrange) DofTransformationsArePermutations() bool { return true }

// DofTransformationsAreIdentity reports whether every base DOF
// transformation is the identity, in which case orientation codes can be
// ignored entirely.
func (el *Lagrange) DofTransformationsAreIdentity() bool { return el.trans.identity }

// PermuteDofs applies the entity permutations selected by the packed
// cell orientation code to dofs, in place. The code layout is the one
// produced by mesh.ComputeCellPermutations: one low bit per edge, then
// three bits per face (reflection bit, then a two bit rotation count).
func (el *Lagrange) PermuteDofs(dofs []int32, cellPerm uint32) {
	var (
		tr = &el.trans
	)
	el.checkDofLen(dofs)
	for e := 0; e < tr.numEdges; e++ {
		if cellPerm>>uint(e)&1 != 0 {
			reverseBlock(dofs, tr.edgeBlocks[e])
		}
	}
	for f := 0; f < tr.numFaces; f++ {
		bits := cellPerm >> uint(tr.numEdges+3*f) & 7
		rot := int(bits >> 1)
		for r := 0; r < rot; r++ {
			applyBlockPerm(dofs, tr.faceBlocks[f], tr.faceRot[f])
		}
		if bits&1 != 0 {
			applyBlockPerm(dofs, tr.faceBlocks[f], tr.faceRef[f])
		}
	}
}

// UnpermuteDofs applies the exact inverse of PermuteDofs for the same
// orientation code.
func (el *Lagrange) UnpermuteDofs(dofs []int32, cellPerm uint32) {
	var (
		tr = &el.trans
	)
	el.checkDofLen(dofs)
	for f := 0; f < tr.numFaces; f++ {
		bits := cellPerm >> uint(tr.numEdges+3*f) & 7
		if bits&1 != 0 {
			applyBlockPerm(dofs, tr.faceBlocks[f], tr.faceRef[f])
		}
		rot := int(bits >> 1)
		for r := 0; r < rot; r++ {
			applyBlockPerm(dofs, tr.faceBlocks[f], tr.faceRotInv[f])
		}
	}
	for e := 0; e < tr.numEdges; e++ {
		if cellPerm>>uint(e)&1 != 0 {
			reverseBlock(dofs, tr.edgeBlocks[e])
		}
	}
}

func (el *Lagrange) checkDofLen(dofs []int32) {
	if len(dofs) != el.Dim() {
		panic(fmt.Errorf("dof slice has length %d, element has %d dofs", len(dofs), el.Dim()))
	}
}
