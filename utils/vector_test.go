package utils

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/stretchr/testify/assert"
)

func TestVector(t *testing.T) {
	N := 3
	v1 := NewVector(N).Set(1)
	require.Equal(t, 1., v1.V.RawVector().Data[N-1])
	v1.Set(2)
	require.Equal(t, 2., v1.V.RawVector().Data[N-1])

	v2 := NewVector(N, []float64{1, 2, 3})
	v1.Add(v2)
	assert.Equal(t, []float64{3, 4, 5}, v1.DataP)
	v1.Subtract(v2).Scale(2)
	assert.Equal(t, []float64{4, 4, 4}, v1.DataP)

	// Copy decouples storage
	v3 := v2.Copy().POW(2)
	assert.Equal(t, []float64{1, 4, 9}, v3.DataP)
	assert.Equal(t, []float64{1, 2, 3}, v2.DataP)

	assert.True(t, near(v3.Min(), 1))
	assert.True(t, near(v3.Max(), 9))
	assert.True(t, near(v2.Norm(), 3.7416573867739413))

	// ToMatrix reshapes over the same storage
	A := v2.ToMatrix(3, 1)
	nr, nc := A.Dims()
	require.Equal(t, 3, nr)
	require.Equal(t, 1, nc)
	assert.True(t, near(A.At(2, 0), 3))
}
