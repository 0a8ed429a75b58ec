package element

import (
	"fmt"
	"math"

	"github.com/ramen-newdals/dolfinx/mesh"
	"github.com/ramen-newdals/dolfinx/utils"
)

// Orthonormal modal bases on the biunit reference domains. Simplex bases
// use collapsed coordinates; tensor cells use Legendre products. These
// are the columns of the generalized Vandermonde matrices from which the
// nodal Lagrange bases are built.

func rsToab(r, s float64) (a, b float64) {
	if s != 1 {
		a = 2*(1+r)/(1-s) - 1
	} else {
		a = -1
	}
	b = s
	return
}

// RStoAB transforms biunit triangle coordinates to collapsed (a,b)
// coordinates.
func RStoAB(R, S utils.Vector) (A, B utils.Vector) {
	var (
		Np     = R.Len()
		rd, sd = R.DataP, S.DataP
	)
	ad, bd := make([]float64, Np), make([]float64, Np)
	for n, sval := range sd {
		ad[n], bd[n] = rsToab(rd[n], sval)
	}
	A, B = utils.NewVector(Np, ad), utils.NewVector(Np, bd)
	return
}

// RSTtoABC transforms biunit tetrahedron coordinates to collapsed
// (a,b,c) coordinates.
func RSTtoABC(R, S, T utils.Vector) (A, B, C utils.Vector) {
	var (
		Np         = R.Len()
		rd, sd, td = R.DataP, S.DataP, T.DataP
	)
	ad, bd, cd := make([]float64, Np), make([]float64, Np), make([]float64, Np)
	for n := 0; n < Np; n++ {
		if sd[n]+td[n] != 0 {
			ad[n] = 2*(1+rd[n])/(-sd[n]-td[n]) - 1
		} else {
			ad[n] = -1
		}
		if td[n] != 1 {
			bd[n] = 2*(1+sd[n])/(1-td[n]) - 1
		} else {
			bd[n] = -1
		}
		cd[n] = td[n]
	}
	A, B, C = utils.NewVector(Np, ad), utils.NewVector(Np, bd), utils.NewVector(Np, cd)
	return
}

// Simplex2DP evaluates the 2D orthonormal polynomial of order (i,j) on
// the biunit triangle.
func Simplex2DP(R, S utils.Vector, i, j int) (P []float64) {
	var (
		A, B = RStoAB(R, S)
		Np   = A.Len()
		bd   = B.DataP
	)
	h1 := JacobiP(A, 0, 0, i)
	h2 := JacobiP(B, float64(2*i+1), 0, j)
	P = make([]float64, Np)
	sq2 := math.Sqrt(2)
	for ii := range h1 {
		tv1 := sq2 * h1[ii] * h2[ii]
		tv2 := utils.POW(1-bd[ii], i)
		P[ii] = tv1 * tv2
	}
	return
}

// GradSimplex2DP evaluates the (r,s) derivatives of the 2D orthonormal
// polynomial of order (id,jd) on the biunit triangle.
func GradSimplex2DP(R, S utils.Vector, id, jd int) (ddr, dds []float64) {
	var (
		A, B   = RStoAB(R, S)
		ad, bd = A.DataP, B.DataP
	)
	fa := JacobiP(A, 0, 0, id)
	dfa := GradJacobiP(A, 0, 0, id)
	gb := JacobiP(B, 2*float64(id)+1, 0, jd)
	dgb := GradJacobiP(B, 2*float64(id)+1, 0, jd)
	// r-derivative
	// d/dr = da/dr d/da + db/dr d/db = (2/(1-s)) d/da = (2/(1-B)) d/da
	ddr = make([]float64, len(gb))
	for i := range ddr {
		ddr[i] = dfa[i] * gb[i]
		if id > 0 {
			ddr[i] *= utils.POW(0.5*(1-bd[i]), id-1)
		}
		// Normalize
		ddr[i] *= math.Pow(2, float64(id)+0.5)
	}
	// s-derivative
	// d/ds = ((1+A)/2)/((1-B)/2) d/da + d/db
	dds = make([]float64, len(gb))
	for i := range dds {
		dds[i] = 0.5 * dfa[i] * gb[i] * (1 + ad[i])
		if id > 0 {
			dds[i] *= utils.POW(0.5*(1-bd[i]), id-1)
		}
		tmp := dgb[i] * utils.POW(0.5*(1-bd[i]), id)
		if id > 0 {
			tmp -= 0.5 * float64(id) * gb[i] * utils.POW(0.5*(1-bd[i]), id-1)
		}
		dds[i] += fa[i] * tmp
		// Normalize
		dds[i] *= math.Pow(2, float64(id)+0.5)
	}
	return
}

// Simplex3DP evaluates the 3D orthonormal polynomial of order (i,j,k) on
// the biunit tetrahedron.
func Simplex3DP(R, S, T utils.Vector, i, j, k int) (P []float64) {
	var (
		A, B, C = RSTtoABC(R, S, T)
		Np      = A.Len()
		bd, cd  = B.DataP, C.DataP
	)
	h1 := JacobiP(A, 0, 0, i)
	h2 := JacobiP(B, float64(2*i+1), 0, j)
	h3 := JacobiP(C, float64(2*(i+j)+2), 0, k)
	P = make([]float64, Np)
	normConst := 2.0 * math.Sqrt(2.0)
	for n := 0; n < Np; n++ {
		tv1 := normConst * h1[n] * h2[n]
		tv2 := utils.POW(1-bd[n], i)
		tv3 := h3[n] * utils.POW(1-cd[n], i+j)
		P[n] = tv1 * tv2 * tv3
	}
	return
}

// GradSimplex3DP evaluates the (r,s,t) derivatives of the 3D orthonormal
// polynomial of order (id,jd,kd) on the biunit tetrahedron.
func GradSimplex3DP(R, S, T utils.Vector, id, jd, kd int) (dmodedr, dmodeds, dmodedt []float64) {
	var (
		A, B, C    = RSTtoABC(R, S, T)
		ad, bd, cd = A.DataP, B.DataP, C.DataP
		Np         = A.Len()
	)
	fa := JacobiP(A, 0, 0, id)
	gb := JacobiP(B, float64(2*id+1), 0, jd)
	hc := JacobiP(C, float64(2*(id+jd)+2), 0, kd)
	dfa := GradJacobiP(A, 0, 0, id)
	dgb := GradJacobiP(B, float64(2*id+1), 0, jd)
	dhc := GradJacobiP(C, float64(2*(id+jd)+2), 0, kd)

	dmodedr = make([]float64, Np)
	dmodeds = make([]float64, Np)
	dmodedt = make([]float64, Np)

	normFactor := math.Pow(2, float64(2*id+jd)+1.5)
	for i := 0; i < Np; i++ {
		ai, bi, ci := ad[i], bd[i], cd[i]

		// r-derivative
		V3Dr := dfa[i] * gb[i] * hc[i]
		if id > 0 {
			V3Dr *= utils.POW(0.5*(1-bi), id-1)
		}
		if id+jd > 0 {
			V3Dr *= utils.POW(0.5*(1-ci), id+jd-1)
		}

		// s-derivative
		V3Ds := 0.5 * (1 + ai) * V3Dr
		tmp := dgb[i] * utils.POW(0.5*(1-bi), id)
		if id > 0 {
			tmp -= 0.5 * float64(id) * gb[i] * utils.POW(0.5*(1-bi), id-1)
		}
		if id+jd > 0 {
			tmp *= utils.POW(0.5*(1-ci), id+jd-1)
		}
		tmp = fa[i] * tmp * hc[i]
		V3Ds += tmp

		// t-derivative
		V3Dt := 0.5*(1+ai)*V3Dr + 0.5*(1+bi)*tmp
		tmp2 := dhc[i] * utils.POW(0.5*(1-ci), id+jd)
		if id+jd > 0 {
			tmp2 -= 0.5 * float64(id+jd) * hc[i] * utils.POW(0.5*(1-ci), id+jd-1)
		}
		tmp2 = fa[i] * gb[i] * tmp2
		tmp2 *= utils.POW(0.5*(1-bi), id)
		V3Dt += tmp2

		dmodedr[i] = V3Dr * normFactor
		dmodeds[i] = V3Ds * normFactor
		dmodedt[i] = V3Dt * normFactor
	}
	return
}

// NumBasis is the modal (and nodal) basis cardinality of a degree d
// element on the given cell.
func NumBasis(ct mesh.CellType, d int) int {
	switch ct {
	case mesh.Interval:
		return d + 1
	case mesh.Triangle:
		return (d + 1) * (d + 2) / 2
	case mesh.Quadrilateral:
		return (d + 1) * (d + 1)
	case mesh.Tetrahedron:
		return (d + 1) * (d + 2) * (d + 3) / 6
	case mesh.Hexahedron:
		return (d + 1) * (d + 1) * (d + 1)
	}
	panic(fmt.Errorf("no basis for cell type %v", ct))
}

// Vandermonde builds the generalized Vandermonde matrix of the degree d
// modal basis at the biunit points R, one coordinate vector per
// parametric dimension.
func Vandermonde(ct mesh.CellType, d int, R []utils.Vector) (V utils.Matrix) {
	var (
		Np = R[0].Len()
	)
	V = utils.NewMatrix(Np, NumBasis(ct, d))
	var sk int
	switch ct {
	case mesh.Interval:
		for i := 0; i <= d; i++ {
			V.SetCol(sk, JacobiP(R[0], 0, 0, i))
			sk++
		}
	case mesh.Triangle:
		for i := 0; i <= d; i++ {
			for j := 0; j <= d-i; j++ {
				V.SetCol(sk, Simplex2DP(R[0], R[1], i, j))
				sk++
			}
		}
	case mesh.Quadrilateral:
		for i := 0; i <= d; i++ {
			for j := 0; j <= d; j++ {
				pi := JacobiP(R[0], 0, 0, i)
				pj := JacobiP(R[1], 0, 0, j)
				col := make([]float64, Np)
				for n := range col {
					col[n] = pi[n] * pj[n]
				}
				V.SetCol(sk, col)
				sk++
			}
		}
	case mesh.Tetrahedron:
		for i := 0; i <= d; i++ {
			for j := 0; j <= d-i; j++ {
				for k := 0; k <= d-i-j; k++ {
					V.SetCol(sk, Simplex3DP(R[0], R[1], R[2], i, j, k))
					sk++
				}
			}
		}
	case mesh.Hexahedron:
		for i := 0; i <= d; i++ {
			for j := 0; j <= d; j++ {
				for k := 0; k <= d; k++ {
					pi := JacobiP(R[0], 0, 0, i)
					pj := JacobiP(R[1], 0, 0, j)
					pk := JacobiP(R[2], 0, 0, k)
					col := make([]float64, Np)
					for n := range col {
						col[n] = pi[n] * pj[n] * pk[n]
					}
					V.SetCol(sk, col)
					sk++
				}
			}
		}
	default:
		panic(fmt.Errorf("no basis for cell type %v", ct))
	}
	return
}

// GradVandermonde builds the derivative Vandermonde matrices of the
// degree d modal basis at the biunit points R, one matrix per parametric
// dimension.
func GradVandermonde(ct mesh.CellType, d int, R []utils.Vector) (Vr []utils.Matrix) {
	var (
		Np = R[0].Len()
		Nb = NumBasis(ct, d)
	)
	Vr = make([]utils.Matrix, ct.Dim())
	for i := range Vr {
		Vr[i] = utils.NewMatrix(Np, Nb)
	}
	var sk int
	switch ct {
	case mesh.Interval:
		for i := 0; i <= d; i++ {
			Vr[0].SetCol(sk, GradJacobiP(R[0], 0, 0, i))
			sk++
		}
	case mesh.Triangle:
		for i := 0; i <= d; i++ {
			for j := 0; j <= d-i; j++ {
				ddr, dds := GradSimplex2DP(R[0], R[1], i, j)
				Vr[0].SetCol(sk, ddr)
				Vr[1].SetCol(sk, dds)
				sk++
			}
		}
	case mesh.Quadrilateral:
		for i := 0; i <= d; i++ {
			for j := 0; j <= d; j++ {
				pi := JacobiP(R[0], 0, 0, i)
				pj := JacobiP(R[1], 0, 0, j)
				dpi := GradJacobiP(R[0], 0, 0, i)
				dpj := GradJacobiP(R[1], 0, 0, j)
				colR := make([]float64, Np)
				colS := make([]float64, Np)
				for n := 0; n < Np; n++ {
					colR[n] = dpi[n] * pj[n]
					colS[n] = pi[n] * dpj[n]
				}
				Vr[0].SetCol(sk, colR)
				Vr[1].SetCol(sk, colS)
				sk++
			}
		}
	case mesh.Tetrahedron:
		for i := 0; i <= d; i++ {
			for j := 0; j <= d-i; j++ {
				for k := 0; k <= d-i-j; k++ {
					ddr, dds, ddt := GradSimplex3DP(R[0], R[1], R[2], i, j, k)
					Vr[0].SetCol(sk, ddr)
					Vr[1].SetCol(sk, dds)
					Vr[2].SetCol(sk, ddt)
					sk++
				}
			}
		}
	case mesh.Hexahedron:
		for i := 0; i <= d; i++ {
			for j := 0; j <= d; j++ {
				for k := 0; k <= d; k++ {
					pi := JacobiP(R[0], 0, 0, i)
					pj := JacobiP(R[1], 0, 0, j)
					pk := JacobiP(R[2], 0, 0, k)
					dpi := GradJacobiP(R[0], 0, 0, i)
					dpj := GradJacobiP(R[1], 0, 0, j)
					dpk := GradJacobiP(R[2], 0, 0, k)
					colR := make([]float64, Np)
					colS := make([]float64, Np)
					colT := make([]float64, Np)
					for n := 0; n < Np; n++ {
						colR[n] = dpi[n] * pj[n] * pk[n]
						colS[n] = pi[n] * dpj[n] * pk[n]
						colT[n] = pi[n] * pj[n] * dpk[n]
					}
					Vr[0].SetCol(sk, colR)
					Vr[1].SetCol(sk, colS)
					Vr[2].SetCol(sk, colT)
					sk++
				}
			}
		}
	default:
		panic(fmt.Errorf("no basis for cell type %v", ct))
	}
	return
}
