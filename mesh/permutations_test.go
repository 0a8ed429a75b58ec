package mesh

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumPermutableEntities(t *testing.T) {
	ne, nf := NumPermutableEntities(Interval)
	assert.Equal(t, 0, ne)
	assert.Equal(t, 0, nf)
	ne, nf = NumPermutableEntities(Triangle)
	assert.Equal(t, 3, ne)
	assert.Equal(t, 0, nf)
	ne, nf = NumPermutableEntities(Tetrahedron)
	assert.Equal(t, 6, ne)
	assert.Equal(t, 4, nf)
	ne, nf = NumPermutableEntities(Hexahedron)
	assert.Equal(t, 12, ne)
	assert.Equal(t, 6, nf)
}

func TestFaceOrientation(t *testing.T) {
	rot, ref := faceOrientation([]int64{1, 2, 3})
	assert.Equal(t, 0, rot)
	assert.Equal(t, 0, ref)

	rot, ref = faceOrientation([]int64{3, 1, 2})
	assert.Equal(t, 1, rot)
	assert.Equal(t, 0, ref)

	rot, ref = faceOrientation([]int64{2, 1, 3})
	assert.Equal(t, 1, rot)
	assert.Equal(t, 1, ref)

	// Quad faces list the fourth vertex diagonal to the first, so the
	// ascending listing is already canonical
	rot, ref = faceOrientation([]int64{10, 20, 30, 40})
	assert.Equal(t, 0, rot)
	assert.Equal(t, 0, ref)

	rot, ref = faceOrientation([]int64{40, 10, 20, 30})
	assert.Equal(t, 1, rot)
	assert.Equal(t, 0, ref)

	rot, ref = faceOrientation([]int64{10, 30, 20, 40})
	assert.Equal(t, 0, rot)
	assert.Equal(t, 1, ref)
}

func TestComputeCellPermutations(t *testing.T) {
	// Ascending global numbering is the canonical orientation
	codes := ComputeCellPermutations(Triangle, [][]int64{{10, 20, 30}})
	assert.Equal(t, []uint32{0}, codes)

	// Swapping the first two vertices only flips the edge between them,
	// local edge 2 for a triangle
	codes = ComputeCellPermutations(Triangle, [][]int64{{20, 10, 30}})
	assert.Equal(t, []uint32{1 << 2}, codes)

	// A fully descending quad flips all four edges
	codes = ComputeCellPermutations(Quadrilateral, [][]int64{{7, 3, 5, 1}})
	assert.Equal(t, []uint32{0xF}, codes)

	codes = ComputeCellPermutations(Tetrahedron, [][]int64{
		{0, 1, 2, 3},
		{1, 0, 2, 3},
	})
	assert.Equal(t, uint32(0), codes[0])
	// Swapping vertices 0 and 1 reverses edge 5 and re-orients the two
	// faces containing both vertices
	assert.Equal(t, uint32(1<<5|3<<12|3<<15), codes[1])
}
