package geometry

import (
	"fmt"
	"math"

	"github.com/ramen-newdals/dolfinx/utils"
)

// Jacobian kernel for the reference to physical map at a single point.
// Shapes follow the tabulation layout: dphi is (tdim x numNodes) basis
// derivatives at the point, cellGeometry is (numNodes x gdim) physical
// node coordinates.
//
// Singular Jacobians are not detected here. A singular J yields Inf/NaN
// entries in K, which the Newton solver surfaces as a convergence
// failure because NaN corrections never meet the tolerance.

// ComputeJacobian assembles the (gdim x tdim) Jacobian
// J(i,j) = sum_k dphi(j,k) * cellGeometry(k,i).
func ComputeJacobian(dphi, cellGeometry utils.Matrix) (J utils.Matrix) {
	var (
		tdim, nNodes = dphi.Dims()
		ng, gdim     = cellGeometry.Dims()
	)
	if ng != nNodes {
		panic(fmt.Errorf("cell geometry has %d nodes, basis derivatives have %d", ng, nNodes))
	}
	if gdim < tdim {
		panic(fmt.Errorf("physical dimension %d is below parametric dimension %d", gdim, tdim))
	}
	J = utils.NewMatrix(gdim, tdim)
	for i := 0; i < gdim; i++ {
		for j := 0; j < tdim; j++ {
			var sum float64
			for k := 0; k < nNodes; k++ {
				sum += dphi.At(j, k) * cellGeometry.At(k, i)
			}
			J.Set(i, j, sum)
		}
	}
	return
}

// ComputeJacobianInverse computes the (tdim x gdim) inverse map K. For
// square J this is the direct inverse; for gdim > tdim it is the left
// pseudo-inverse (J^T J)^-1 J^T.
func ComputeJacobianInverse(J utils.Matrix) (K utils.Matrix) {
	var (
		gdim, tdim = J.Dims()
	)
	if gdim == tdim {
		return squareInverse(J)
	}
	JT := J.Transpose()
	B := JT.Mul(J) // tdim x tdim normal matrix
	K = squareInverse(B).Mul(JT)
	return
}

// ComputeJacobianDeterminant returns det(J) for square J and the
// pseudo-determinant sqrt(det(J^T J)) otherwise.
func ComputeJacobianDeterminant(J utils.Matrix) float64 {
	var (
		gdim, tdim = J.Dims()
	)
	if gdim == tdim {
		return squareDeterminant(J)
	}
	return math.Sqrt(squareDeterminant(J.Transpose().Mul(J)))
}

func squareDeterminant(A utils.Matrix) float64 {
	var (
		n, _ = A.Dims()
	)
	switch n {
	case 1:
		return A.At(0, 0)
	case 2:
		return A.At(0, 0)*A.At(1, 1) - A.At(0, 1)*A.At(1, 0)
	case 3:
		return A.At(0, 0)*(A.At(1, 1)*A.At(2, 2)-A.At(1, 2)*A.At(2, 1)) -
			A.At(0, 1)*(A.At(1, 0)*A.At(2, 2)-A.At(1, 2)*A.At(2, 0)) +
			A.At(0, 2)*(A.At(1, 0)*A.At(2, 1)-A.At(1, 1)*A.At(2, 0))
	}
	panic(fmt.Errorf("determinant of %dx%d matrix is out of scope", n, n))
}

// squareInverse inverts the 1x1, 2x2 and 3x3 matrices the mapping
// produces, by cofactor expansion.
func squareInverse(A utils.Matrix) (R utils.Matrix) {
	var (
		n, _ = A.Dims()
		det  = squareDeterminant(A)
	)
	R = utils.NewMatrix(n, n)
	switch n {
	case 1:
		R.Set(0, 0, 1/det)
	case 2:
		R.Set(0, 0, A.At(1, 1)/det)
		R.Set(0, 1, -A.At(0, 1)/det)
		R.Set(1, 0, -A.At(1, 0)/det)
		R.Set(1, 1, A.At(0, 0)/det)
	case 3:
		R.Set(0, 0, (A.At(1, 1)*A.At(2, 2)-A.At(1, 2)*A.At(2, 1))/det)
		R.Set(0, 1, (A.At(0, 2)*A.At(2, 1)-A.At(0, 1)*A.At(2, 2))/det)
		R.Set(0, 2, (A.At(0, 1)*A.At(1, 2)-A.At(0, 2)*A.At(1, 1))/det)
		R.Set(1, 0, (A.At(1, 2)*A.At(2, 0)-A.At(1, 0)*A.At(2, 2))/det)
		R.Set(1, 1, (A.At(0, 0)*A.At(2, 2)-A.At(0, 2)*A.At(2, 0))/det)
		R.Set(1, 2, (A.At(0, 2)*A.At(1, 0)-A.At(0, 0)*A.At(1, 2))/det)
		R.Set(2, 0, (A.At(1, 0)*A.At(2, 1)-A.At(1, 1)*A.At(2, 0))/det)
		R.Set(2, 1, (A.At(0, 1)*A.At(2, 0)-A.At(0, 0)*A.At(2, 1))/det)
		R.Set(2, 2, (A.At(0, 0)*A.At(1, 1)-A.At(0, 1)*A.At(1, 0))/det)
	}
	return
}
