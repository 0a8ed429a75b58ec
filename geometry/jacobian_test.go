package geometry

import (
	"testing"

	"github.com/ramen-newdals/dolfinx/utils"

	"github.com/stretchr/testify/assert"
)

func TestComputeJacobianAffineTriangle(t *testing.T) {
	// d/dX of the degree 1 triangle basis (1-u-v, u, v)
	dphi := utils.NewMatrix(2, 3, []float64{
		-1, 1, 0,
		-1, 0, 1,
	})
	geom := utils.NewMatrix(3, 2, []float64{
		1, 1,
		3, 1,
		1, 4,
	})
	J := ComputeJacobian(dphi, geom)
	nr, nc := J.Dims()
	assert.Equal(t, 2, nr)
	assert.Equal(t, 2, nc)
	assert.True(t, nearVec(J.DataP, []float64{2, 0, 0, 3}, 1.e-14))
	assert.True(t, near(ComputeJacobianDeterminant(J), 6))

	K := ComputeJacobianInverse(J)
	assert.True(t, nearVec(K.DataP, []float64{0.5, 0, 0, 1. / 3.}, 1.e-14))
	assert.True(t, nearVec(K.Mul(J).DataP, []float64{1, 0, 0, 1}, 1.e-14))
}

func TestComputeJacobianEmbeddedInterval(t *testing.T) {
	// Interval mapped into the plane, gdim exceeds tdim
	dphi := utils.NewMatrix(1, 2, []float64{-1, 1})
	geom := utils.NewMatrix(2, 2, []float64{
		0, 0,
		3, 4,
	})
	J := ComputeJacobian(dphi, geom)
	nr, nc := J.Dims()
	assert.Equal(t, 2, nr)
	assert.Equal(t, 1, nc)
	assert.True(t, nearVec(J.DataP, []float64{3, 4}, 1.e-14))

	// Pseudo-determinant is the stretch factor of the segment
	assert.True(t, near(ComputeJacobianDeterminant(J), 5))

	// Left pseudo-inverse recovers the parametric direction
	K := ComputeJacobianInverse(J)
	assert.True(t, nearVec(K.DataP, []float64{0.12, 0.16}, 1.e-12))
	assert.True(t, near(K.Mul(J).At(0, 0), 1))
}

func TestComputeJacobianTet(t *testing.T) {
	dphi := utils.NewMatrix(3, 4, []float64{
		-1, 1, 0, 0,
		-1, 0, 1, 0,
		-1, 0, 0, 1,
	})
	geom := utils.NewMatrix(4, 3, []float64{
		0, 0, 0,
		1, 0, 0,
		1, 1, 0,
		0, 0, 1,
	})
	J := ComputeJacobian(dphi, geom)
	assert.True(t, nearVec(J.DataP, []float64{
		1, 1, 0,
		0, 1, 0,
		0, 0, 1,
	}, 1.e-14))
	assert.True(t, near(ComputeJacobianDeterminant(J), 1))

	K := ComputeJacobianInverse(J)
	assert.True(t, nearVec(K.DataP, []float64{
		1, -1, 0,
		0, 1, 0,
		0, 0, 1,
	}, 1.e-14))
	assert.True(t, nearVec(K.Mul(J).DataP, []float64{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}, 1.e-14))
}

func TestComputeJacobianChecks(t *testing.T) {
	dphi := utils.NewMatrix(2, 3, []float64{
		-1, 1, 0,
		-1, 0, 1,
	})
	assert.Panics(t, func() { ComputeJacobian(dphi, utils.NewMatrix(4, 2)) })
	assert.Panics(t, func() { ComputeJacobian(dphi, utils.NewMatrix(3, 1)) })
	assert.Panics(t, func() { ComputeJacobianDeterminant(utils.NewMatrix(4, 4)) })
}
