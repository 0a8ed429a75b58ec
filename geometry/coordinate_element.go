package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/ramen-newdals/dolfinx/element"
	"github.com/ramen-newdals/dolfinx/mesh"
	"github.com/ramen-newdals/dolfinx/utils"
)

// ErrPullbackConvergence reports that the Newton solve for a non-affine
// pull-back exhausted its iteration budget. Typical causes are a
// degenerate or self-intersecting cell, or a target point outside the
// cell's image. The retry policy, if any, belongs to the caller.
var ErrPullbackConvergence = errors.New("newton solver did not converge")

// ReferenceElement is the basis evaluator a CoordinateElement is built
// on. It owns the tabulation mathematics, the DOF entity association
// and the orientation permutations.
type ReferenceElement interface {
	CellType() mesh.CellType
	Degree() int
	Dim() int
	Variant() element.LagrangeVariant
	TabulateShape(nd, numPoints int) [4]int
	Tabulate(nd int, X utils.Matrix) (utils.Tensor4, error)
	EntityDofs() [][][]int
	EntityClosureDofs() [][][]int
	PermuteDofs(dofs []int32, cellPermutation uint32)
	UnpermuteDofs(dofs []int32, cellPermutation uint32)
	DofTransformationsArePermutations() bool
	DofTransformationsAreIdentity() bool
}

// CoordinateElement maps between the unit reference cell and a physical
// cell described by its node coordinates. It holds a shared read-only
// reference element and is immutable after construction: one instance
// per (cell type, degree, variant) serves all cells and all goroutines.
type CoordinateElement struct {
	elem     ReferenceElement
	isAffine bool
}

// NewCoordinateElement wraps an existing reference element.
func NewCoordinateElement(e ReferenceElement) *CoordinateElement {
	if e == nil {
		panic(fmt.Errorf("coordinate element requires a reference element"))
	}
	return &CoordinateElement{
		elem: e,
		// Only simplex cells with degree 1 geometry have a constant
		// Jacobian. Degree 1 quadrilaterals and hexahedra are bilinear.
		isAffine: e.CellType().IsSimplex() && e.Degree() == 1,
	}
}

// NewCoordinateElementFromCell builds the scalar Lagrange reference
// element of the given cell type, degree and variant internally.
func NewCoordinateElementFromCell(ct mesh.CellType, degree int, variant element.LagrangeVariant) (*CoordinateElement, error) {
	el, err := element.NewLagrange(ct, degree, variant)
	if err != nil {
		return nil, err
	}
	return NewCoordinateElement(el), nil
}

func (ce *CoordinateElement) CellShape() mesh.CellType         { return ce.elem.CellType() }
func (ce *CoordinateElement) Degree() int                      { return ce.elem.Degree() }
func (ce *CoordinateElement) Dim() int                         { return ce.elem.Dim() }
func (ce *CoordinateElement) Variant() element.LagrangeVariant { return ce.elem.Variant() }

// IsAffine reports whether the reference to physical map is affine, in
// which case the Jacobian is constant across the cell and the pull-back
// Newton iteration converges after a single correction.
func (ce *CoordinateElement) IsAffine() bool { return ce.isAffine }

// TabulateShape reports the shape a Tabulate call will produce, for
// buffer pre-allocation.
func (ce *CoordinateElement) TabulateShape(nd, numPoints int) [4]int {
	return ce.elem.TabulateShape(nd, numPoints)
}

// Tabulate evaluates basis values and derivatives up to order nd at the
// reference points X. Pure delegation to the reference element.
func (ce *CoordinateElement) Tabulate(nd int, X utils.Matrix) (utils.Tensor4, error) {
	return ce.elem.Tabulate(nd, X)
}

// CreateDofLayout derives the element-local DOF layout of the geometry:
// one DOF per node with block size 1.
func (ce *CoordinateElement) CreateDofLayout() *ElementDofLayout {
	return NewElementDofLayout(1, ce.elem.EntityDofs(), ce.elem.EntityClosureDofs())
}

// PushForward evaluates the forward map at the reference points X
// (numPoints x tdim), returning physical coordinates (numPoints x gdim).
func (ce *CoordinateElement) PushForward(X, cellGeometry utils.Matrix) (x utils.Matrix) {
	var (
		nNodes, _ = cellGeometry.Dims()
	)
	if nNodes != ce.Dim() {
		panic(fmt.Errorf("cell geometry has %d nodes, element has %d", nNodes, ce.Dim()))
	}
	basis, err := ce.elem.Tabulate(0, X)
	if err != nil {
		panic(err)
	}
	x = basis.Block(0).Mul(cellGeometry)
	return
}

// PullBackAffine inverts the map for affine cells with a single direct
// solve: the Jacobian is evaluated once at the reference origin and its
// inverse applied to every target point.
func (ce *CoordinateElement) PullBackAffine(x, cellGeometry utils.Matrix) (X utils.Matrix) {
	var (
		tdim          = ce.CellShape().Dim()
		numPoints, gd = x.Dims()
		nNodes, gdim  = cellGeometry.Dims()
	)
	if gd != gdim {
		panic(fmt.Errorf("target points have dimension %d, cell geometry %d", gd, gdim))
	}
	if nNodes != ce.Dim() {
		panic(fmt.Errorf("cell geometry has %d nodes, element has %d", nNodes, ce.Dim()))
	}
	basis, err := ce.elem.Tabulate(1, utils.NewMatrix(1, tdim))
	if err != nil {
		panic(err)
	}
	x0 := make([]float64, gdim)
	for i := 0; i < nNodes; i++ {
		for j := 0; j < gdim; j++ {
			x0[j] += cellGeometry.At(i, j) * basis.At(0, 0, i, 0)
		}
	}
	dphi := utils.NewMatrix(tdim, nNodes)
	for i := 0; i < tdim; i++ {
		for j := 0; j < nNodes; j++ {
			dphi.Set(i, j, basis.At(i+1, 0, j, 0))
		}
	}
	K := ComputeJacobianInverse(ComputeJacobian(dphi, cellGeometry))
	X = utils.NewMatrix(numPoints, tdim)
	for p := 0; p < numPoints; p++ {
		for i := 0; i < tdim; i++ {
			var sum float64
			for j := 0; j < gdim; j++ {
				sum += K.At(i, j) * (x.At(p, j) - x0[j])
			}
			X.Set(p, i, sum)
		}
	}
	return
}

// PullBackNonaffine computes reference coordinates for the physical
// points x (numPoints x gdim) on the cell described by cellGeometry
// (numNodes x gdim), writing them into the caller-allocated X
// (numPoints x tdim). Each point runs an independent Newton iteration
// from the zero initial guess, which lies on every supported reference
// cell. A point whose correction norm does not drop below tol within
// maxit iterations aborts the call with ErrPullbackConvergence; the
// point's last estimate is still stored. tol and maxit carry no
// defaults, the numerical policy is the caller's.
func (ce *CoordinateElement) PullBackNonaffine(X, x, cellGeometry utils.Matrix, tol float64, maxit int) error {
	var (
		numPoints, gd = x.Dims()
	)
	if numPoints == 0 {
		return nil
	}
	var (
		tdim         = ce.CellShape().Dim()
		nNodes, gdim = cellGeometry.Dims()
		nrX, ncX     = X.Dims()
	)
	if gd != gdim {
		panic(fmt.Errorf("target points have dimension %d, cell geometry %d", gd, gdim))
	}
	if nrX != numPoints || ncX != tdim {
		panic(fmt.Errorf("output buffer is %dx%d, want %dx%d", nrX, ncX, numPoints, tdim))
	}
	if nNodes != ce.Dim() {
		panic(fmt.Errorf("cell geometry has %d nodes, element has %d", nNodes, ce.Dim()))
	}

	var (
		Xk   = utils.NewMatrix(1, tdim)
		dphi = utils.NewMatrix(tdim, nNodes)
		xk   = make([]float64, gdim)
		dX   = make([]float64, tdim)
	)
	for p := 0; p < numPoints; p++ {
		for i := 0; i < tdim; i++ {
			Xk.Set(0, i, 0)
		}
		var k int
		for k = 0; k < maxit; k++ {
			basis, err := ce.elem.Tabulate(1, Xk)
			if err != nil {
				return err
			}

			// Current physical estimate xk = phi(Xk) applied to the node
			// coordinates
			for j := range xk {
				xk[j] = 0
			}
			for i := 0; i < nNodes; i++ {
				for j := 0; j < gdim; j++ {
					xk[j] += cellGeometry.At(i, j) * basis.At(0, 0, i, 0)
				}
			}

			for i := 0; i < tdim; i++ {
				for j := 0; j < nNodes; j++ {
					dphi.Set(i, j, basis.At(i+1, 0, j, 0))
				}
			}
			K := ComputeJacobianInverse(ComputeJacobian(dphi, cellGeometry))

			// dX = K * (x_p - x_k)
			for i := 0; i < tdim; i++ {
				dX[i] = 0
				for j := 0; j < gdim; j++ {
					dX[i] += K.At(i, j) * (x.At(p, j) - xk[j])
				}
			}
			var dX2 float64
			for i := 0; i < tdim; i++ {
				Xk.Set(0, i, Xk.At(0, i)+dX[i])
				dX2 += dX[i] * dX[i]
			}
			if math.Sqrt(dX2) < tol {
				break
			}
		}
		for i := 0; i < tdim; i++ {
			X.Set(p, i, Xk.At(0, i))
		}
		if k == maxit {
			return fmt.Errorf("pull-back of point %d of %d (maxit %d, tol %g): %w",
				p, numPoints, maxit, tol, ErrPullbackConvergence)
		}
	}
	return nil
}

// PullBack inverts the forward map for the target points x, choosing
// the direct affine solve when the element is affine and the Newton
// iteration otherwise. tol and maxit only apply to the Newton branch.
func (ce *CoordinateElement) PullBack(x, cellGeometry utils.Matrix, tol float64, maxit int) (X utils.Matrix, err error) {
	var (
		numPoints, _ = x.Dims()
		tdim         = ce.CellShape().Dim()
	)
	if ce.isAffine {
		return ce.PullBackAffine(x, cellGeometry), nil
	}
	X = utils.NewMatrix(numPoints, tdim)
	err = ce.PullBackNonaffine(X, x, cellGeometry, tol, maxit)
	return
}

// PermuteDofs delegates the orientation permutation to the reference
// element.
func (ce *CoordinateElement) PermuteDofs(dofs []int32, cellPermutation uint32) {
	ce.elem.PermuteDofs(dofs, cellPermutation)
}

// UnpermuteDofs applies the exact inverse of PermuteDofs.
func (ce *CoordinateElement) UnpermuteDofs(dofs []int32, cellPermutation uint32) {
	ce.elem.UnpermuteDofs(dofs, cellPermutation)
}

// NeedsDofPermutations reports whether orientation codes change any DOF
// ordering. The reference element's transformations must be
// permutations, anything else is unsupported here.
func (ce *CoordinateElement) NeedsDofPermutations() bool {
	if !ce.elem.DofTransformationsArePermutations() {
		panic(fmt.Errorf("reference element transformations are not permutations"))
	}
	return !ce.elem.DofTransformationsAreIdentity()
}
