package element

import (
	"fmt"
	"math"
	"testing"

	"github.com/ramen-newdals/dolfinx/mesh"
	"github.com/ramen-newdals/dolfinx/utils"

	"github.com/stretchr/testify/assert"
)

func TestNewLagrangeValidation(t *testing.T) {
	_, err := NewLagrange(mesh.Point, 1, Equispaced)
	assert.NotNil(t, err)
	_, err = NewLagrange(mesh.Triangle, 0, Equispaced)
	assert.NotNil(t, err)
	_, err = NewLagrange(mesh.Triangle, 2, LagrangeVariant(99))
	assert.NotNil(t, err)

	el, err := NewLagrange(mesh.Triangle, 2, Equispaced)
	assert.Nil(t, err)
	assert.Equal(t, mesh.Triangle, el.CellType())
	assert.Equal(t, 2, el.Degree())
	assert.Equal(t, Equispaced, el.Variant())
	assert.Equal(t, 6, el.Dim())
}

func TestLagrangeNodeLayout(t *testing.T) {
	el, err := NewLagrange(mesh.Triangle, 2, Equispaced)
	assert.Nil(t, err)
	// Vertices first, then edge midpoints in edge order
	assert.True(t, nearVec(el.Nodes().DataP, []float64{
		0, 0,
		1, 0,
		0, 1,
		0.5, 0.5,
		0, 0.5,
		0.5, 0,
	}, 1.e-14))

	// Gauss-Lobatto interval nodes: endpoints plus the mapped roots of
	// the Legendre derivative
	el, err = NewLagrange(mesh.Interval, 4, GLL)
	assert.Nil(t, err)
	r := math.Sqrt(3. / 7.)
	assert.True(t, nearVec(el.Nodes().DataP, []float64{
		0,
		1,
		(1 - r) / 2,
		0.5,
		(1 + r) / 2,
	}, 1.e-12))
}

func TestLagrangeEntityDofs(t *testing.T) {
	el, err := NewLagrange(mesh.Triangle, 3, Equispaced)
	assert.Nil(t, err)
	ed := el.EntityDofs()
	assert.Equal(t, [][]int{{0}, {1}, {2}}, ed[0])
	assert.Equal(t, [][]int{{3, 4}, {5, 6}, {7, 8}}, ed[1])
	assert.Equal(t, [][]int{{9}}, ed[2])

	ec := el.EntityClosureDofs()
	// Edge closure: endpoint vertices then the interior pair
	assert.Equal(t, []int{1, 2, 3, 4}, ec[1][0])
	assert.Equal(t, []int{0, 2, 5, 6}, ec[1][1])
	assert.Equal(t, []int{0, 1, 7, 8}, ec[1][2])
	// Cell closure covers every DOF
	assert.Equal(t, 10, len(ec[2][0]))

	// Tet entity blocks at degree 2: one DOF per vertex and edge
	el, err = NewLagrange(mesh.Tetrahedron, 2, Equispaced)
	assert.Nil(t, err)
	ed = el.EntityDofs()
	assert.Equal(t, 4, len(ed[0]))
	assert.Equal(t, 6, len(ed[1]))
	for _, dofs := range ed[1] {
		assert.Equal(t, 1, len(dofs))
	}
	assert.Equal(t, 4, len(ed[2]))
	for _, dofs := range ed[2] {
		assert.Equal(t, 0, len(dofs))
	}
}

func TestTabulateShape(t *testing.T) {
	el, _ := NewLagrange(mesh.Triangle, 2, Equispaced)
	assert.Equal(t, [4]int{1, 4, 6, 1}, el.TabulateShape(0, 4))
	assert.Equal(t, [4]int{3, 4, 6, 1}, el.TabulateShape(1, 4))

	el, _ = NewLagrange(mesh.Tetrahedron, 1, Equispaced)
	assert.Equal(t, [4]int{4, 2, 4, 1}, el.TabulateShape(1, 2))

	el, _ = NewLagrange(mesh.Interval, 3, Equispaced)
	assert.Equal(t, [4]int{2, 5, 4, 1}, el.TabulateShape(1, 5))
}

func TestTabulateDeltaProperty(t *testing.T) {
	cases := []struct {
		ct mesh.CellType
		d  int
	}{
		{mesh.Interval, 1},
		{mesh.Interval, 3},
		{mesh.Triangle, 1},
		{mesh.Triangle, 2},
		{mesh.Triangle, 3},
		{mesh.Quadrilateral, 1},
		{mesh.Quadrilateral, 2},
		{mesh.Tetrahedron, 1},
		{mesh.Tetrahedron, 2},
		{mesh.Hexahedron, 1},
		{mesh.Hexahedron, 2},
	}
	for _, c := range cases {
		t.Run(fmt.Sprintf("%v-%d", c.ct, c.d), func(t *testing.T) {
			el, err := NewLagrange(c.ct, c.d, Equispaced)
			assert.Nil(t, err)
			B, err := el.Tabulate(0, el.Nodes())
			assert.Nil(t, err)
			n := el.Dim()
			for p := 0; p < n; p++ {
				for j := 0; j < n; j++ {
					want := 0.
					if p == j {
						want = 1.
					}
					assert.InDeltaf(t, want, B.At(0, p, j, 0), 1.e-9,
						"basis %d at node %d", j, p)
				}
			}
		})
	}
}

func TestTabulatePartitionOfUnity(t *testing.T) {
	pts := map[mesh.CellType][][]float64{
		mesh.Interval:      {{0.3}, {0.77}},
		mesh.Triangle:      {{0.2, 0.3}, {0.1, 0.05}},
		mesh.Quadrilateral: {{0.25, 0.8}, {0.5, 0.5}},
		mesh.Tetrahedron:   {{0.1, 0.2, 0.3}, {0.25, 0.25, 0.25}},
		mesh.Hexahedron:    {{0.3, 0.4, 0.5}, {0.9, 0.1, 0.5}},
	}
	for ct, cellPts := range pts {
		for d := 1; d <= 2; d++ {
			el, err := NewLagrange(ct, d, Equispaced)
			assert.Nil(t, err)
			tdim := ct.Dim()
			X := utils.NewMatrix(len(cellPts), tdim)
			for p, pt := range cellPts {
				X.SetRow(p, pt)
			}
			B, err := el.Tabulate(1, X)
			assert.Nil(t, err)
			for p := range cellPts {
				var sum float64
				for j := 0; j < el.Dim(); j++ {
					sum += B.At(0, p, j, 0)
				}
				assert.InDeltaf(t, 1, sum, 1.e-10, "%v degree %d point %d", ct, d, p)
				// Derivatives of a constant sum vanish
				for k := 0; k < tdim; k++ {
					var dsum float64
					for j := 0; j < el.Dim(); j++ {
						dsum += B.At(1+k, p, j, 0)
					}
					assert.InDeltaf(t, 0, dsum, 1.e-8, "%v degree %d point %d deriv %d", ct, d, p, k)
				}
			}
		}
	}
}

func TestTabulateInterpolatesCoordinates(t *testing.T) {
	// Degree 1 basis reproduces linear coordinates on the simplex
	el, err := NewLagrange(mesh.Triangle, 1, Equispaced)
	assert.Nil(t, err)
	X := utils.NewMatrix(3, 2, []float64{
		0.2, 0.3,
		0.6, 0.1,
		0.25, 0.5,
	})
	B, err := el.Tabulate(0, X)
	assert.Nil(t, err)
	verts := mesh.UnitVertices(mesh.Triangle)
	for p := 0; p < 3; p++ {
		for j := 0; j < 2; j++ {
			var sum float64
			for i := 0; i < 3; i++ {
				sum += B.At(0, p, i, 0) * verts.At(i, j)
			}
			assert.InDelta(t, X.At(p, j), sum, 1.e-12)
		}
	}
}

func TestTabulateUnsupportedOrder(t *testing.T) {
	el, _ := NewLagrange(mesh.Triangle, 2, Equispaced)
	_, err := el.Tabulate(2, utils.NewMatrix(1, 2))
	assert.NotNil(t, err)
	assert.Panics(t, func() { el.Tabulate(0, utils.NewMatrix(1, 3)) })
}

func nearVec(a, b []float64, tol float64) (l bool) {
	for i, val := range a {
		if !near(b[i], val, tol) {
			return false
		}
	}
	return true
}

func near(a, b float64, tolI ...float64) (l bool) {
	var (
		tol float64
	)
	if len(tolI) == 0 {
		tol = 1.e-08
	} else {
		tol = tolI[0]
	}
	bound := math.Max(tol, tol*math.Abs(a))
	if math.Abs(a-b) <= bound {
		l = true
	}
	return
}
