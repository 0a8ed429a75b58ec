package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V     *mat.VecDense
	DataP []float64 // Raw storage, shared with V
}

func NewVector(n int, dataO ...[]float64) (R Vector) {
	var (
		v *mat.VecDense
	)
	if len(dataO) != 0 {
		if len(dataO[0]) != n {
			err := fmt.Errorf("mismatch in allocation: NewVector n = %v, len(data[0]) = %v\n", n, len(dataO[0]))
			panic(err)
		}
		v = mat.NewVecDense(n, dataO[0])
	} else {
		v = mat.NewVecDense(n, make([]float64, n))
	}
	R = Vector{
		V:     v,
		DataP: v.RawVector().Data,
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (v Vector) Dims() (r, c int)         { return v.V.Dims() }
func (v Vector) At(i, j int) float64      { return v.V.At(i, j) }
func (v Vector) T() mat.Matrix            { return v.V.T() }
func (v Vector) AtVec(i int) float64      { return v.V.AtVec(i) }
func (v Vector) RawVector() blas64.Vector { return v.V.RawVector() }
func (v Vector) Len() int                 { return v.V.Len() }

// Chainable (extended) methods
func (v Vector) Copy() (R Vector) {
	var (
		data = make([]float64, v.Len())
	)
	copy(data, v.DataP)
	R = NewVector(v.Len(), data)
	return
}

func (v Vector) Set(a float64) Vector { // Changes receiver
	for i := range v.DataP {
		v.DataP[i] = a
	}
	return v
}

func (v Vector) Add(a Vector) Vector { // Changes receiver
	for i, val := range a.DataP {
		v.DataP[i] += val
	}
	return v
}

func (v Vector) Subtract(a Vector) Vector { // Changes receiver
	for i, val := range a.DataP {
		v.DataP[i] -= val
	}
	return v
}

func (v Vector) AddScalar(a float64) Vector { // Changes receiver
	for i := range v.DataP {
		v.DataP[i] += a
	}
	return v
}

func (v Vector) Scale(a float64) Vector { // Changes receiver
	for i := range v.DataP {
		v.DataP[i] *= a
	}
	return v
}

func (v Vector) Apply(f func(float64) float64) Vector { // Changes receiver
	for i, val := range v.DataP {
		v.DataP[i] = f(val)
	}
	return v
}

func (v Vector) POW(p int) Vector { // Changes receiver
	for i, val := range v.DataP {
		v.DataP[i] = POW(val, p)
	}
	return v
}

func (v Vector) Min() (min float64) {
	min = v.DataP[0]
	for _, val := range v.DataP {
		if val < min {
			min = val
		}
	}
	return
}

func (v Vector) Max() (max float64) {
	max = v.DataP[0]
	for _, val := range v.DataP {
		if val > max {
			max = val
		}
	}
	return
}

func (v Vector) Norm() (n float64) {
	for _, val := range v.DataP {
		n += val * val
	}
	n = math.Sqrt(n)
	return
}

func (v Vector) ToMatrix(nr, nc int) (R Matrix) {
	if nr*nc != v.Len() {
		err := fmt.Errorf("dimension mismatch: nr,nc = %v,%v, vector len = %v", nr, nc, v.Len())
		panic(err)
	}
	R = NewMatrix(nr, nc, v.DataP)
	return
}
