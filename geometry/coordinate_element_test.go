package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/ramen-newdals/dolfinx/element"
	"github.com/ramen-newdals/dolfinx/mesh"
	"github.com/ramen-newdals/dolfinx/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewCoordinateElement(t *testing.T) {
	ce, err := NewCoordinateElementFromCell(mesh.Triangle, 2, element.GLL)
	require.NoError(t, err)
	assert.Equal(t, mesh.Triangle, ce.CellShape())
	assert.Equal(t, 2, ce.Degree())
	assert.Equal(t, 6, ce.Dim())
	assert.Equal(t, element.GLL, ce.Variant())
	assert.Equal(t, [4]int{3, 5, 6, 1}, ce.TabulateShape(1, 5))

	_, err = NewCoordinateElementFromCell(mesh.Point, 1, element.Equispaced)
	assert.NotNil(t, err)
	assert.Panics(t, func() { NewCoordinateElement(nil) })
}

func TestIsAffine(t *testing.T) {
	cases := []struct {
		ct     mesh.CellType
		d      int
		affine bool
	}{
		{mesh.Interval, 1, true},
		{mesh.Triangle, 1, true},
		{mesh.Tetrahedron, 1, true},
		{mesh.Quadrilateral, 1, false},
		{mesh.Hexahedron, 1, false},
		{mesh.Interval, 3, false},
		{mesh.Triangle, 2, false},
	}
	for _, c := range cases {
		ce, err := NewCoordinateElementFromCell(c.ct, c.d, element.Equispaced)
		require.NoError(t, err)
		assert.Equalf(t, c.affine, ce.IsAffine(), "%v degree %d", c.ct, c.d)
	}
}

func TestPushForwardInterval(t *testing.T) {
	ce, err := NewCoordinateElementFromCell(mesh.Interval, 1, element.Equispaced)
	require.NoError(t, err)

	// x = 2 + 4u on the segment [2, 6]
	geom := utils.NewMatrix(2, 1, []float64{2, 6})
	x := ce.PushForward(utils.NewMatrix(3, 1, []float64{0, 1, 0.25}), geom)
	assert.True(t, nearVec(x.DataP, []float64{2, 6, 3}, 1.e-12))

	assert.Panics(t, func() { ce.PushForward(utils.NewMatrix(1, 1), utils.NewMatrix(3, 1)) })
}

func TestPushForwardCurvedTriangle(t *testing.T) {
	ce, err := NewCoordinateElementFromCell(mesh.Triangle, 2, element.Equispaced)
	require.NoError(t, err)

	// Straight sided triangle with the edge midpoint nodes nudged off
	// the chords
	geom := utils.NewMatrix(6, 2, []float64{
		1, 1,
		3, 1,
		1, 4,
		2.1, 2.6,
		1, 2.6,
		2.1, 1,
	})
	// At an element node the map reproduces that node's coordinates
	x := ce.PushForward(utils.NewMatrix(3, 2, []float64{
		0.5, 0.5,
		0, 0.5,
		0.5, 0,
	}), geom)
	assert.True(t, nearVec(x.DataP, []float64{2.1, 2.6, 1, 2.6, 2.1, 1}, 1.e-12))
}

func TestPullBackAffineTriangle(t *testing.T) {
	ce, err := NewCoordinateElementFromCell(mesh.Triangle, 1, element.Equispaced)
	require.NoError(t, err)

	// x = (1+2u, 1+3v)
	geom := utils.NewMatrix(3, 2, []float64{
		1, 1,
		3, 1,
		1, 4,
	})
	X := ce.PullBackAffine(utils.NewMatrix(4, 2, []float64{
		2, 2.5,
		1, 1,
		3, 1,
		1, 4,
	}), geom)
	assert.True(t, nearVec(X.DataP, []float64{
		0.5, 0.5,
		0, 0,
		1, 0,
		0, 1,
	}, 1.e-12))

	assert.Panics(t, func() { ce.PullBackAffine(utils.NewMatrix(1, 3), geom) })
}

func TestPullBackNonaffineInterval(t *testing.T) {
	ce, err := NewCoordinateElementFromCell(mesh.Interval, 1, element.Equispaced)
	require.NoError(t, err)
	geom := utils.NewMatrix(2, 1, []float64{2, 6})
	x := utils.NewMatrix(1, 1, []float64{3})

	// The correction norm is checked after the update, so the affine
	// solve needs one iteration to land and one to observe
	X := utils.NewMatrix(1, 1)
	require.NoError(t, ce.PullBackNonaffine(X, x, geom, 1.e-10, 2))
	assert.True(t, near(X.At(0, 0), 0.25, 1.e-10))

	// A budget of one stores the landed estimate but reports failure
	X = utils.NewMatrix(1, 1)
	err = ce.PullBackNonaffine(X, x, geom, 1.e-10, 1)
	assert.True(t, errors.Is(err, ErrPullbackConvergence))
	assert.True(t, near(X.At(0, 0), 0.25, 1.e-10))
}

func TestPullBackNonaffineChecks(t *testing.T) {
	ce, err := NewCoordinateElementFromCell(mesh.Quadrilateral, 1, element.Equispaced)
	require.NoError(t, err)
	geom := utils.NewMatrix(4, 2, []float64{
		0, 0,
		2, 0,
		0, 2,
		2, 2,
	})
	assert.Panics(t, func() {
		ce.PullBackNonaffine(utils.NewMatrix(1, 2), utils.NewMatrix(1, 3), geom, 1.e-12, 5)
	})
	assert.Panics(t, func() {
		ce.PullBackNonaffine(utils.NewMatrix(2, 2), utils.NewMatrix(1, 2), geom, 1.e-12, 5)
	})
	assert.Panics(t, func() {
		ce.PullBackNonaffine(utils.NewMatrix(1, 2), utils.NewMatrix(1, 2), utils.NewMatrix(3, 2), 1.e-12, 5)
	})

	// No points, no work
	empty := utils.Matrix{M: &mat.Dense{}}
	assert.Nil(t, ce.PullBackNonaffine(empty, empty, geom, 1.e-12, 5))
}

func TestPullBackDispatch(t *testing.T) {
	// Affine cells take the direct solve
	ce, err := NewCoordinateElementFromCell(mesh.Triangle, 1, element.Equispaced)
	require.NoError(t, err)
	geom := utils.NewMatrix(3, 2, []float64{
		1, 1,
		3, 1,
		1, 4,
	})
	x := utils.NewMatrix(1, 2, []float64{2, 2.5})
	X, err := ce.PullBack(x, geom, 1.e-12, 1)
	require.NoError(t, err)
	assert.True(t, nearVec(X.DataP, []float64{0.5, 0.5}, 1.e-12))

	// Bilinear quadrilaterals go through the Newton branch
	ce, err = NewCoordinateElementFromCell(mesh.Quadrilateral, 1, element.Equispaced)
	require.NoError(t, err)
	geom = utils.NewMatrix(4, 2, []float64{
		0, 0,
		2, 0,
		0, 2,
		2, 2,
	})
	x = utils.NewMatrix(2, 2, []float64{
		1, 0.5,
		0.3, 1.7,
	})
	X, err = ce.PullBack(x, geom, 1.e-12, 10)
	require.NoError(t, err)
	assert.True(t, nearVec(X.DataP, []float64{
		0.5, 0.25,
		0.15, 0.85,
	}, 1.e-10))
}

func TestPullBackRoundTripCurved(t *testing.T) {
	ce, err := NewCoordinateElementFromCell(mesh.Triangle, 2, element.Equispaced)
	require.NoError(t, err)
	geom := utils.NewMatrix(6, 2, []float64{
		1, 1,
		3, 1,
		1, 4,
		2.1, 2.6,
		1, 2.6,
		2.1, 1,
	})
	Xref := utils.NewMatrix(4, 2, []float64{
		0.2, 0.2,
		0.5, 0.25,
		0.25, 0.5,
		1. / 3., 1. / 3.,
	})
	x := ce.PushForward(Xref, geom)
	X, err := ce.PullBack(x, geom, 1.e-12, 10)
	require.NoError(t, err)
	assert.True(t, nearVec(X.DataP, Xref.DataP, 1.e-10))
}

func TestPullBackDegenerateCell(t *testing.T) {
	ce, err := NewCoordinateElementFromCell(mesh.Quadrilateral, 1, element.Equispaced)
	require.NoError(t, err)

	// Collapsed cell, the Jacobian is singular everywhere. The NaN
	// corrections never satisfy the tolerance and the estimate carries
	// the NaNs out
	geom := utils.NewMatrix(4, 2, []float64{
		1, 1,
		1, 1,
		1, 1,
		1, 1,
	})
	X := utils.NewMatrix(1, 2)
	err = ce.PullBackNonaffine(X, utils.NewMatrix(1, 2, []float64{1.5, 1}), geom, 1.e-12, 8)
	assert.True(t, errors.Is(err, ErrPullbackConvergence))
	assert.True(t, math.IsNaN(X.At(0, 0)))
}

func TestCreateDofLayout(t *testing.T) {
	ce, err := NewCoordinateElementFromCell(mesh.Triangle, 2, element.Equispaced)
	require.NoError(t, err)
	layout := ce.CreateDofLayout()
	assert.Equal(t, 1, layout.BlockSize())
	assert.Equal(t, 6, layout.NumDofs())
	assert.Equal(t, 1, layout.NumEntityDofs(0))
	assert.Equal(t, 1, layout.NumEntityDofs(1))
	assert.Equal(t, 0, layout.NumEntityDofs(2))
	assert.Equal(t, 1, layout.NumEntityClosureDofs(0))
	assert.Equal(t, 3, layout.NumEntityClosureDofs(1))
	assert.Equal(t, 6, layout.NumEntityClosureDofs(2))
	assert.Equal(t, []int{3}, layout.EntityDofs(1, 0))
	assert.Equal(t, []int{1, 2, 3}, layout.EntityClosureDofs(1, 0))
}

func TestDofPermutationDelegation(t *testing.T) {
	cases := []struct {
		ct    mesh.CellType
		d     int
		needs bool
	}{
		{mesh.Interval, 3, false},
		{mesh.Triangle, 2, false},
		{mesh.Triangle, 3, true},
		{mesh.Hexahedron, 2, false},
		{mesh.Tetrahedron, 3, true},
	}
	for _, c := range cases {
		ce, err := NewCoordinateElementFromCell(c.ct, c.d, element.Equispaced)
		require.NoError(t, err)
		assert.Equalf(t, c.needs, ce.NeedsDofPermutations(), "%v degree %d", c.ct, c.d)
	}

	ce, err := NewCoordinateElementFromCell(mesh.Triangle, 3, element.Equispaced)
	require.NoError(t, err)
	dofs := make([]int32, 10)
	for i := range dofs {
		dofs[i] = int32(i)
	}
	ce.PermuteDofs(dofs, 1<<2)
	assert.Equal(t, []int32{0, 1, 2, 3, 4, 5, 6, 8, 7, 9}, dofs)
	ce.UnpermuteDofs(dofs, 1<<2)
	assert.Equal(t, int32(7), dofs[7])
	assert.Equal(t, int32(8), dofs[8])
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
