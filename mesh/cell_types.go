package mesh

import (
	"fmt"

	"github.com/ramen-newdals/dolfinx/utils"
)

// CellType labels the topological cell shapes supported by the geometry
// mapping. Reference cells follow the unit convention: interval [0,1],
// triangle {X,Y >= 0, X+Y <= 1}, quadrilateral [0,1]^2, tetrahedron
// {X,Y,Z >= 0, X+Y+Z <= 1}, hexahedron [0,1]^3.
type CellType uint8

const (
	Point CellType = iota
	Interval
	Triangle
	Quadrilateral
	Tetrahedron
	Hexahedron
)

var CellNameMap = map[string]CellType{
	"point":         Point,
	"interval":      Interval,
	"triangle":      Triangle,
	"quadrilateral": Quadrilateral,
	"quad":          Quadrilateral,
	"tetrahedron":   Tetrahedron,
	"tet":           Tetrahedron,
	"hexahedron":    Hexahedron,
	"hex":           Hexahedron,
}

func (ct CellType) String() string {
	switch ct {
	case Point:
		return "point"
	case Interval:
		return "interval"
	case Triangle:
		return "triangle"
	case Quadrilateral:
		return "quadrilateral"
	case Tetrahedron:
		return "tetrahedron"
	case Hexahedron:
		return "hexahedron"
	}
	return "unknown"
}

func CellTypeFromString(name string) (ct CellType, err error) {
	var (
		ok bool
	)
	if ct, ok = CellNameMap[name]; !ok {
		err = fmt.Errorf("unknown cell type: %s", name)
	}
	return
}

func (ct CellType) Dim() int {
	switch ct {
	case Point:
		return 0
	case Interval:
		return 1
	case Triangle, Quadrilateral:
		return 2
	case Tetrahedron, Hexahedron:
		return 3
	}
	panic(fmt.Errorf("unknown cell type: %d", ct))
}

func (ct CellType) NumVertices() int {
	switch ct {
	case Point:
		return 1
	case Interval:
		return 2
	case Triangle:
		return 3
	case Quadrilateral, Tetrahedron:
		return 4
	case Hexahedron:
		return 8
	}
	panic(fmt.Errorf("unknown cell type: %d", ct))
}

func (ct CellType) IsSimplex() bool {
	return ct == Point || ct == Interval || ct == Triangle || ct == Tetrahedron
}

// NumEntities counts the sub-entities of dimension dim, the cell itself
// included for dim == Dim().
func (ct CellType) NumEntities(dim int) int {
	if dim == ct.Dim() {
		return 1
	}
	switch dim {
	case 0:
		return ct.NumVertices()
	case 1:
		switch ct {
		case Triangle:
			return 3
		case Quadrilateral:
			return 4
		case Tetrahedron:
			return 6
		case Hexahedron:
			return 12
		}
	case 2:
		switch ct {
		case Tetrahedron:
			return 4
		case Hexahedron:
			return 6
		}
	}
	return 0
}

// EntityVertices returns the canonical vertex lists of the dim-dimensional
// sub-entities. Quadrilateral faces list their vertices so that the fourth
// is diagonally opposite the first.
func EntityVertices(ct CellType, dim int) [][]int {
	if dim == 0 {
		verts := make([][]int, ct.NumVertices())
		for i := range verts {
			verts[i] = []int{i}
		}
		return verts
	}
	if dim == ct.Dim() {
		all := make([]int, ct.NumVertices())
		for i := range all {
			all[i] = i
		}
		return [][]int{all}
	}
	switch ct {
	case Triangle:
		if dim == 1 {
			return [][]int{{1, 2}, {0, 2}, {0, 1}}
		}
	case Quadrilateral:
		if dim == 1 {
			return [][]int{{0, 1}, {0, 2}, {1, 3}, {2, 3}}
		}
	case Tetrahedron:
		switch dim {
		case 1:
			return [][]int{{2, 3}, {1, 3}, {1, 2}, {0, 3}, {0, 2}, {0, 1}}
		case 2:
			return [][]int{{1, 2, 3}, {0, 2, 3}, {0, 1, 3}, {0, 1, 2}}
		}
	case Hexahedron:
		switch dim {
		case 1:
			return [][]int{
				{0, 1}, {0, 2}, {0, 4}, {1, 3}, {1, 5}, {2, 3},
				{2, 6}, {3, 7}, {4, 5}, {4, 6}, {5, 7}, {6, 7},
			}
		case 2:
			return [][]int{
				{0, 1, 2, 3}, {0, 1, 4, 5}, {0, 2, 4, 6},
				{1, 3, 5, 7}, {2, 3, 6, 7}, {4, 5, 6, 7},
			}
		}
	}
	panic(fmt.Errorf("no dimension %d entities for cell type %v", dim, ct))
}

func SubEntityType(ct CellType, dim, index int) CellType {
	if index < 0 || index >= ct.NumEntities(dim) {
		panic(fmt.Errorf("entity index %d out of range for dimension %d of %v", index, dim, ct))
	}
	switch dim {
	case 0:
		return Point
	case 1:
		return Interval
	case 2:
		if ct == Hexahedron || ct == Quadrilateral {
			return Quadrilateral
		}
		return Triangle
	case 3:
		return ct
	}
	panic(fmt.Errorf("invalid entity dimension %d", dim))
}

// UnitVertices returns the reference vertex coordinates as a
// NumVertices x Dim matrix.
func UnitVertices(ct CellType) (R utils.Matrix) {
	var (
		coords [][]float64
	)
	switch ct {
	case Interval:
		coords = [][]float64{{0}, {1}}
	case Triangle:
		coords = [][]float64{{0, 0}, {1, 0}, {0, 1}}
	case Quadrilateral:
		coords = [][]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	case Tetrahedron:
		coords = [][]float64{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	case Hexahedron:
		coords = [][]float64{
			{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {1, 1, 0},
			{0, 0, 1}, {1, 0, 1}, {0, 1, 1}, {1, 1, 1},
		}
	default:
		panic(fmt.Errorf("no reference geometry for cell type %v", ct))
	}
	R = utils.NewMatrix(len(coords), len(coords[0]))
	for i, row := range coords {
		R.SetRow(i, row)
	}
	return
}

// EntityEdges lists, for each dim-dimensional entity, the indices of the
// cell edges contained in that entity. Derived from the vertex incidence
// tables.
func EntityEdges(ct CellType, dim int) [][]int {
	var (
		entities = EntityVertices(ct, dim)
		edges    = EntityVertices(ct, 1)
		R        = make([][]int, len(entities))
	)
	for i, ev := range entities {
		inEntity := make(map[int]bool)
		for _, v := range ev {
			inEntity[v] = true
		}
		for e, edge := range edges {
			if inEntity[edge[0]] && inEntity[edge[1]] {
				R[i] = append(R[i], e)
			}
		}
	}
	return R
}
