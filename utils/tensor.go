package utils

import "fmt"

// Tensor4 is a dimension-annotated flat buffer, indexed
// [i0][i1][i2][i3] over row-major storage. Used for basis tabulation
// results of shape (derivative, point, basis function, component).
type Tensor4 struct {
	DataP []float64
	Shape [4]int
}

func NewTensor4(n0, n1, n2, n3 int) (T Tensor4) {
	if n0 < 1 || n1 < 0 || n2 < 1 || n3 < 1 {
		err := fmt.Errorf("invalid tensor shape: %v,%v,%v,%v", n0, n1, n2, n3)
		panic(err)
	}
	T = Tensor4{
		DataP: make([]float64, n0*n1*n2*n3),
		Shape: [4]int{n0, n1, n2, n3},
	}
	return
}

func (t Tensor4) At(i0, i1, i2, i3 int) float64 {
	return t.DataP[t.index(i0, i1, i2, i3)]
}

func (t Tensor4) Set(i0, i1, i2, i3 int, val float64) Tensor4 {
	t.DataP[t.index(i0, i1, i2, i3)] = val
	return t
}

func (t Tensor4) index(i0, i1, i2, i3 int) (ind int) {
	ind = ((i0*t.Shape[1]+i1)*t.Shape[2] + i2) * t.Shape[3] + i3
	return
}

// Block returns the i0 slab as a (Shape[1] x Shape[2]*Shape[3]) matrix
// sharing the underlying storage.
func (t Tensor4) Block(i0 int) (R Matrix) {
	var (
		nr   = t.Shape[1]
		nc   = t.Shape[2] * t.Shape[3]
		size = nr * nc
	)
	R = NewMatrix(nr, nc, t.DataP[i0*size:(i0+1)*size])
	return
}
