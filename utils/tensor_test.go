package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTensor4(t *testing.T) {
	T := NewTensor4(3, 2, 4, 1)
	assert.Equal(t, [4]int{3, 2, 4, 1}, T.Shape)
	assert.Equal(t, 24, len(T.DataP))

	T.Set(2, 1, 3, 0, 42)
	assert.True(t, near(T.At(2, 1, 3, 0), 42))
	assert.True(t, near(T.DataP[23], 42))

	// Block is a writable view over one leading index
	B := T.Block(1)
	nr, nc := B.Dims()
	assert.Equal(t, 2, nr)
	assert.Equal(t, 4, nc)
	B.Set(0, 2, 7)
	assert.True(t, near(T.At(1, 0, 2, 0), 7))

	assert.Panics(t, func() { NewTensor4(0, 1, 1, 1) })
}
