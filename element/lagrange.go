package element

import (
	"fmt"

	"github.com/ramen-newdals/dolfinx/mesh"
	"github.com/ramen-newdals/dolfinx/utils"
)

// LagrangeVariant selects the node spacing of a Lagrange element.
type LagrangeVariant uint8

const (
	Unset LagrangeVariant = iota // treated as Equispaced
	Equispaced
	GLL // Gauss-Lobatto-Legendre spacing on edges and tensor cells
)

var VariantNameMap = map[string]LagrangeVariant{
	"unset":      Unset,
	"equispaced": Equispaced,
	"gll":        GLL,
}

func (v LagrangeVariant) String() string {
	switch v {
	case Unset:
		return "unset"
	case Equispaced:
		return "equispaced"
	case GLL:
		return "gll"
	}
	return "unknown"
}

func VariantFromString(name string) (v LagrangeVariant, err error) {
	var (
		ok bool
	)
	if v, ok = VariantNameMap[name]; !ok {
		err = fmt.Errorf("unknown lagrange variant: %s", name)
	}
	return
}

// Lagrange is a scalar nodal Lagrange element on the unit reference
// cell. Immutable after construction; safe for concurrent use.
type Lagrange struct {
	cellType          mesh.CellType
	degree            int
	variant           LagrangeVariant
	nodes             utils.Matrix // Np x tdim, unit cell, read only
	vInv              utils.Matrix // inverse modal Vandermonde at the nodes, read only
	entityDofs        [][][]int
	entityClosureDofs [][][]int
	trans             transformations
}

// NewLagrange builds the degree d scalar Lagrange element on the given
// cell. The nodal basis is constructed from the orthonormal modal basis
// through the inverse Vandermonde matrix at the element nodes.
func NewLagrange(ct mesh.CellType, d int, variant LagrangeVariant) (el *Lagrange, err error) {
	if ct == mesh.Point {
		return nil, fmt.Errorf("no lagrange element on cell type %v", ct)
	}
	if ct.Dim() < 1 || ct.Dim() > 3 {
		return nil, fmt.Errorf("unsupported cell type %v", ct)
	}
	if d < 1 {
		return nil, fmt.Errorf("lagrange degree must be at least 1, got %d", d)
	}
	switch variant {
	case Unset, Equispaced, GLL:
	default:
		return nil, fmt.Errorf("unknown lagrange variant: %d", variant)
	}

	nodes, entityDofs := CellNodes(ct, d, variant)
	V := Vandermonde(ct, d, biunit(nodes))
	VInv, err := V.Inverse()
	if err != nil {
		return nil, fmt.Errorf("degree %d %v element nodes are degenerate: %v", d, ct, err)
	}
	el = &Lagrange{
		cellType:          ct,
		degree:            d,
		variant:           variant,
		nodes:             nodes.SetReadOnly("ElementNodes"),
		vInv:              VInv.SetReadOnly("VInv"),
		entityDofs:        entityDofs,
		entityClosureDofs: entityClosureDofs(ct, entityDofs),
	}
	el.trans = newTransformations(el)
	return
}

func (el *Lagrange) CellType() mesh.CellType  { return el.cellType }
func (el *Lagrange) Degree() int              { return el.degree }
func (el *Lagrange) Variant() LagrangeVariant { return el.variant }
func (el *Lagrange) Nodes() utils.Matrix      { return el.nodes }

// Dim is the basis cardinality, one basis function per node.
func (el *Lagrange) Dim() int {
	nr, _ := el.nodes.Dims()
	return nr
}

func (el *Lagrange) EntityDofs() [][][]int        { return el.entityDofs }
func (el *Lagrange) EntityClosureDofs() [][][]int { return el.entityClosureDofs }

// TabulateShape reports the result shape of Tabulate as
// (derivative count, points, basis functions, value size). The
// derivative count follows the simplex-lattice count C(nd+tdim, tdim).
func (el *Lagrange) TabulateShape(nd, numPoints int) (shape [4]int) {
	var (
		tdim = el.cellType.Dim()
	)
	derivCount := 1
	for i := 1; i <= tdim; i++ {
		derivCount = derivCount * (nd + i) / i
	}
	shape = [4]int{derivCount, numPoints, el.Dim(), 1}
	return
}

// Tabulate evaluates the basis functions, and their first derivatives
// when nd == 1, at the unit-cell points X (numPoints x tdim). Block 0 of
// the result holds values; blocks 1..tdim hold d/dX_k. Derivative
// orders above 1 are not supported.
func (el *Lagrange) Tabulate(nd int, X utils.Matrix) (B utils.Tensor4, err error) {
	var (
		tdim   = el.cellType.Dim()
		np, nc = X.Dims()
	)
	if nc != tdim {
		panic(fmt.Errorf("point buffer has %d columns, want %d for %v", nc, tdim, el.cellType))
	}
	if nd < 0 || nd > 1 {
		return B, fmt.Errorf("tabulation of derivative order %d is not supported (max 1)", nd)
	}
	shape := el.TabulateShape(nd, np)
	B = utils.NewTensor4(shape[0], shape[1], shape[2], shape[3])

	R := biunit(X)
	P := Vandermonde(el.cellType, el.degree, R)
	copy(B.Block(0).DataP, P.Mul(el.vInv).DataP)
	if nd == 1 {
		dP := GradVandermonde(el.cellType, el.degree, R)
		for k := 0; k < tdim; k++ {
			// Chain rule for the unit to biunit stretch
			Dk := dP[k].Mul(el.vInv).Scale(2)
			copy(B.Block(1+k).DataP, Dk.DataP)
		}
	}
	return
}

// biunit maps unit-cell coordinate columns to biunit coordinate vectors.
func biunit(X utils.Matrix) (R []utils.Vector) {
	var (
		np, tdim = X.Dims()
	)
	R = make([]utils.Vector, tdim)
	for k := 0; k < tdim; k++ {
		data := make([]float64, np)
		for i := 0; i < np; i++ {
			data[i] = 2*X.At(i, k) - 1
		}
		R[k] = utils.NewVector(np, data)
	}
	return
}
