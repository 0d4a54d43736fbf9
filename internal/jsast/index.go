package jsast

// NodeID is the pre-order position of a node in the tree an Index was built
// from. IDs are stable for as long as the Index lives; nodes created after
// indexing have no ID.
type NodeID int

// NoNode is returned for nodes that are not part of an Index.
const NoNode NodeID = -1

// Index assigns a NodeID to every node of a tree and remembers each node's
// parent. It is a snapshot: later edits to the tree are not reflected.
type Index struct {
	ids     map[Node]NodeID
	nodes   []Node
	parents []NodeID
}

// NewIndex walks root in pre-order and numbers every node.
func NewIndex(root Node) *Index {
	idx := &Index{ids: make(map[Node]NodeID)}
	var stack []NodeID

	Apply(root, func(c *Cursor) bool {
		n := c.Node()
		id := NodeID(len(idx.nodes))
		parent := NoNode
		if len(stack) > 0 {
			parent = stack[len(stack)-1]
		}
		idx.ids[n] = id
		idx.nodes = append(idx.nodes, n)
		idx.parents = append(idx.parents, parent)
		stack = append(stack, id)
		return true
	}, func(c *Cursor) bool {
		stack = stack[:len(stack)-1]
		return true
	})

	return idx
}

// ID returns the identity of n, or NoNode when n was not indexed.
func (idx *Index) ID(n Node) NodeID {
	if id, ok := idx.ids[n]; ok {
		return id
	}
	return NoNode
}

// Node returns the node with the given identity.
func (idx *Index) Node(id NodeID) Node {
	if id < 0 || int(id) >= len(idx.nodes) {
		return nil
	}
	return idx.nodes[id]
}

// Parent returns the node that held n when the index was built.
func (idx *Index) Parent(n Node) Node {
	id := idx.ID(n)
	if id == NoNode {
		return nil
	}
	return idx.Node(idx.parents[id])
}

// Ancestors returns the chain of nodes above n, nearest first.
func (idx *Index) Ancestors(n Node) []Node {
	var out []Node
	id := idx.ID(n)
	for id != NoNode {
		id = idx.parents[id]
		if id != NoNode {
			out = append(out, idx.nodes[id])
		}
	}
	return out
}

// Len returns the number of indexed nodes.
func (idx *Index) Len() int {
	return len(idx.nodes)
}
