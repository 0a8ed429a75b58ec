package element

import (
	"fmt"

	"github.com/ramen-newdals/dolfinx/mesh"
	"github.com/ramen-newdals/dolfinx/utils"
)

// Reference node generation. Nodes are laid out in closure order:
// vertices first, then the interior nodes of each edge, then of each
// face, then of the cell. Entity interiors are blocks of consecutive
// DOF indices, which the orientation permutations rely on.

// interiorParams1D returns the d-1 interior parameters of a degree d
// edge on [0,1], ascending.
func interiorParams1D(d int, variant LagrangeVariant) (t []float64) {
	t = make([]float64, d-1)
	switch variant {
	case GLL:
		gl := JacobiGL(0, 0, d)
		for i := range t {
			t[i] = 0.5 * (gl.DataP[i+1] + 1)
		}
	default:
		for i := range t {
			t[i] = float64(i+1) / float64(d)
		}
	}
	return
}

// triInteriorLattice returns local (u,v) coordinates of the interior
// nodes of a degree d triangle. Simplex interiors always use the
// equispaced lattice.
func triInteriorLattice(d int) (pts [][2]float64) {
	for i := 1; i <= d-1; i++ {
		for j := 1; j <= d-1-i; j++ {
			pts = append(pts, [2]float64{float64(i) / float64(d), float64(j) / float64(d)})
		}
	}
	return
}

// quadInteriorLattice returns local (u,v) coordinates of the interior
// nodes of a degree d quadrilateral, honoring the variant spacing.
func quadInteriorLattice(d int, variant LagrangeVariant) (pts [][2]float64) {
	t := interiorParams1D(d, variant)
	for _, u := range t {
		for _, v := range t {
			pts = append(pts, [2]float64{u, v})
		}
	}
	return
}

func tetInteriorLattice(d int) (pts [][3]float64) {
	for i := 1; i <= d-1; i++ {
		for j := 1; j <= d-1-i; j++ {
			for k := 1; k <= d-1-i-j; k++ {
				pts = append(pts, [3]float64{
					float64(i) / float64(d), float64(j) / float64(d), float64(k) / float64(d),
				})
			}
		}
	}
	return
}

func hexInteriorLattice(d int, variant LagrangeVariant) (pts [][3]float64) {
	t := interiorParams1D(d, variant)
	for _, u := range t {
		for _, v := range t {
			for _, w := range t {
				pts = append(pts, [3]float64{u, v, w})
			}
		}
	}
	return
}

// CellNodes generates the reference nodes of a degree d Lagrange element
// on the unit cell, plus the entity-to-DOF association tables indexed
// [dim][entity][dof].
func CellNodes(ct mesh.CellType, d int, variant LagrangeVariant) (X utils.Matrix, entityDofs [][][]int) {
	var (
		tdim  = ct.Dim()
		verts = mesh.UnitVertices(ct)
		nodes [][]float64
	)
	entityDofs = make([][][]int, tdim+1)
	for dim := 0; dim <= tdim; dim++ {
		entityDofs[dim] = make([][]int, ct.NumEntities(dim))
	}

	addNode := func(dim, entity int, coords []float64) {
		entityDofs[dim][entity] = append(entityDofs[dim][entity], len(nodes))
		nodes = append(nodes, coords)
	}

	// Vertices
	for v := 0; v < ct.NumVertices(); v++ {
		addNode(0, v, verts.Row(v).DataP)
	}

	// Edge interiors
	if d >= 2 && tdim >= 2 {
		t := interiorParams1D(d, variant)
		for e, ev := range mesh.EntityVertices(ct, 1) {
			v0 := verts.Row(ev[0]).DataP
			v1 := verts.Row(ev[1]).DataP
			for _, ti := range t {
				coords := make([]float64, tdim)
				for i := range coords {
					coords[i] = v0[i] + ti*(v1[i]-v0[i])
				}
				addNode(1, e, coords)
			}
		}
	}

	// Face interiors
	if d >= 2 && tdim == 3 {
		for f, fv := range mesh.EntityVertices(ct, 2) {
			v0 := verts.Row(fv[0]).DataP
			v1 := verts.Row(fv[1]).DataP
			v2 := verts.Row(fv[2]).DataP
			var local [][2]float64
			switch mesh.SubEntityType(ct, 2, f) {
			case mesh.Triangle:
				local = triInteriorLattice(d)
			case mesh.Quadrilateral:
				local = quadInteriorLattice(d, variant)
			}
			for _, uv := range local {
				coords := make([]float64, tdim)
				for i := range coords {
					coords[i] = v0[i] + uv[0]*(v1[i]-v0[i]) + uv[1]*(v2[i]-v0[i])
				}
				addNode(2, f, coords)
			}
		}
	}

	// Cell interior
	if d >= 2 || tdim == 1 {
		switch ct {
		case mesh.Interval:
			if d >= 2 {
				for _, ti := range interiorParams1D(d, variant) {
					addNode(1, 0, []float64{ti})
				}
			}
		case mesh.Triangle:
			for _, uv := range triInteriorLattice(d) {
				addNode(2, 0, []float64{uv[0], uv[1]})
			}
		case mesh.Quadrilateral:
			for _, uv := range quadInteriorLattice(d, variant) {
				addNode(2, 0, []float64{uv[0], uv[1]})
			}
		case mesh.Tetrahedron:
			for _, uvw := range tetInteriorLattice(d) {
				addNode(3, 0, []float64{uvw[0], uvw[1], uvw[2]})
			}
		case mesh.Hexahedron:
			for _, uvw := range hexInteriorLattice(d, variant) {
				addNode(3, 0, []float64{uvw[0], uvw[1], uvw[2]})
			}
		}
	}

	if len(nodes) != NumBasis(ct, d) {
		err := fmt.Errorf("node generation produced %d nodes, want %d for degree %d %v",
			len(nodes), NumBasis(ct, d), d, ct)
		panic(err)
	}
	X = utils.NewMatrix(len(nodes), tdim)
	for i, coords := range nodes {
		X.SetRow(i, coords)
	}
	return
}

// entityClosureDofs assembles, per entity, the DOFs of the entity and
// all its sub-entities: the entity's vertices in listed order, then its
// edges' interiors, then its own interior block.
func entityClosureDofs(ct mesh.CellType, entityDofs [][][]int) (closure [][][]int) {
	var (
		tdim = ct.Dim()
	)
	closure = make([][][]int, tdim+1)
	for dim := 0; dim <= tdim; dim++ {
		closure[dim] = make([][]int, ct.NumEntities(dim))
		for entity := range closure[dim] {
			var dofs []int
			switch {
			case dim == 0:
				dofs = append(dofs, entityDofs[0][entity]...)
			case dim == tdim:
				for d := 0; d <= tdim; d++ {
					for _, block := range entityDofs[d] {
						dofs = append(dofs, block...)
					}
				}
			case dim == 1:
				for _, v := range mesh.EntityVertices(ct, 1)[entity] {
					dofs = append(dofs, entityDofs[0][v]...)
				}
				dofs = append(dofs, entityDofs[1][entity]...)
			case dim == 2:
				for _, v := range mesh.EntityVertices(ct, 2)[entity] {
					dofs = append(dofs, entityDofs[0][v]...)
				}
				for _, e := range mesh.EntityEdges(ct, 2)[entity] {
					dofs = append(dofs, entityDofs[1][e]...)
				}
				dofs = append(dofs, entityDofs[2][entity]...)
			}
			closure[dim][entity] = dofs
		}
	}
	return
}
