package mesh

import (
	"fmt"

	"github.com/james-bowman/sparse"

	"github.com/ramen-newdals/dolfinx/utils"
)

// FacetAdjacency computes cell-to-cell connectivity through shared facets.
// cells holds the global vertex numbers of each cell in canonical local
// order. The returned EToE and EToF are K x NumFacets; boundary facets
// connect back to their own (cell, facet) pair.
//
// Two facets match when the boolean facet-to-vertex product has a full
// off-diagonal entry, i.e. the facets share every vertex.
func FacetAdjacency(ct CellType, cells [][]int) (EToE, EToF utils.Matrix) {
	var (
		facets     = EntityVertices(ct, ct.Dim()-1)
		NFaces     = len(facets)
		Nfv        = len(facets[0])
		K          = len(cells)
		TotalFaces = NFaces * K
	)
	var Nv int
	for k, cell := range cells {
		if len(cell) != ct.NumVertices() {
			err := fmt.Errorf("cell %d has %d vertices, want %d for %v", k, len(cell), ct.NumVertices(), ct)
			panic(err)
		}
		for _, v := range cell {
			if v+1 > Nv {
				Nv = v + 1
			}
		}
	}
	SpFToVTmp := sparse.NewDOK(TotalFaces, Nv)
	var sk int
	for k := 0; k < K; k++ {
		for face := 0; face < NFaces; face++ {
			for _, fv := range facets[face] {
				SpFToVTmp.Set(sk, cells[k][fv], 1)
			}
			sk++
		}
	}
	SpFToV := SpFToVTmp.ToCSR()
	SpFToF := sparse.NewCSR(TotalFaces, TotalFaces, nil, nil, nil)
	SpFToF.Mul(SpFToV, SpFToV.T())

	EToE = utils.NewMatrix(K, NFaces)
	EToF = utils.NewMatrix(K, NFaces)
	for k := 0; k < K; k++ {
		for face := 0; face < NFaces; face++ {
			EToE.Set(k, face, float64(k))
			EToF.Set(k, face, float64(face))
		}
	}
	SpFToF.DoNonZero(func(i, j int, v float64) {
		if i == j || int(v) != Nfv {
			return
		}
		k1, f1 := i/NFaces, i%NFaces
		k2, f2 := j/NFaces, j%NFaces
		EToE.Set(k1, f1, float64(k2))
		EToF.Set(k1, f1, float64(f2))
	})
	return
}
