package geometry

import "fmt"

// ElementDofLayout records how the local DOFs of a single element
// associate with the topological entities of its reference cell.
// Indexing is entityDofs[dim][entity] = local DOF indices. The layout
// is immutable once built.
type ElementDofLayout struct {
	blockSize         int
	numDofs           int
	entityDofs        [][][]int
	entityClosureDofs [][][]int
}

// NewElementDofLayout deep-copies the entity tables so the layout stays
// valid independently of the element that produced them.
func NewElementDofLayout(blockSize int, entityDofs, entityClosureDofs [][][]int) *ElementDofLayout {
	if blockSize < 1 {
		panic(fmt.Errorf("dof layout block size %d must be at least 1", blockSize))
	}
	if len(entityDofs) != len(entityClosureDofs) {
		panic(fmt.Errorf("entity dof tables cover %d dimensions, closures %d",
			len(entityDofs), len(entityClosureDofs)))
	}
	dl := &ElementDofLayout{
		blockSize:         blockSize,
		entityDofs:        copyEntityTable(entityDofs),
		entityClosureDofs: copyEntityTable(entityClosureDofs),
	}
	for _, entities := range dl.entityDofs {
		for _, dofs := range entities {
			dl.numDofs += len(dofs)
		}
	}
	return dl
}

func copyEntityTable(t [][][]int) (c [][][]int) {
	c = make([][][]int, len(t))
	for d, entities := range t {
		c[d] = make([][]int, len(entities))
		for e, dofs := range entities {
			c[d][e] = append([]int{}, dofs...)
		}
	}
	return
}

// BlockSize is the number of DOFs sharing each layout slot.
func (dl *ElementDofLayout) BlockSize() int { return dl.blockSize }

// NumDofs is the total DOF count on one element, excluding the block
// size factor.
func (dl *ElementDofLayout) NumDofs() int { return dl.numDofs }

// NumEntityDofs reports the DOF count associated with any single entity
// of the given dimension. All entities of one dimension carry the same
// count for the Lagrange layouts built here.
func (dl *ElementDofLayout) NumEntityDofs(dim int) int {
	dl.checkDim(dim)
	if len(dl.entityDofs[dim]) == 0 {
		return 0
	}
	return len(dl.entityDofs[dim][0])
}

// NumEntityClosureDofs reports the closure DOF count for any single
// entity of the given dimension.
func (dl *ElementDofLayout) NumEntityClosureDofs(dim int) int {
	dl.checkDim(dim)
	if len(dl.entityClosureDofs[dim]) == 0 {
		return 0
	}
	return len(dl.entityClosureDofs[dim][0])
}

// EntityDofs returns the local DOFs on the interior of one entity. The
// returned slice is owned by the layout, callers must not modify it.
func (dl *ElementDofLayout) EntityDofs(dim, entity int) []int {
	dl.checkDim(dim)
	if entity < 0 || entity >= len(dl.entityDofs[dim]) {
		panic(fmt.Errorf("entity %d out of range for dimension %d with %d entities",
			entity, dim, len(dl.entityDofs[dim])))
	}
	return dl.entityDofs[dim][entity]
}

// EntityClosureDofs returns the local DOFs on the closure of one
// entity, the entity itself plus all lower dimensional entities on its
// boundary. The returned slice is owned by the layout.
func (dl *ElementDofLayout) EntityClosureDofs(dim, entity int) []int {
	dl.checkDim(dim)
	if entity < 0 || entity >= len(dl.entityClosureDofs[dim]) {
		panic(fmt.Errorf("entity %d out of range for dimension %d with %d entities",
			entity, dim, len(dl.entityClosureDofs[dim])))
	}
	return dl.entityClosureDofs[dim][entity]
}

func (dl *ElementDofLayout) checkDim(dim int) {
	if dim < 0 || dim >= len(dl.entityDofs) {
		panic(fmt.Errorf("dimension %d out of range, layout covers 0..%d",
			dim, len(dl.entityDofs)-1))
	}
}
