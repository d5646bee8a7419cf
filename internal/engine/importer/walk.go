package importer

// Walk visits root and its descendants depth-first in pre-order: a node
// before its children, children in order. It uses an explicit stack, so
// deep trees cannot exhaust the goroutine stack. A non-nil error from visit
// stops the walk and is returned.
func Walk(root *Node, visit func(*Node) error) error {
	if root == nil {
		return nil
	}

	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}

		if err := visit(n); err != nil {
			return err
		}

		// Reverse push so the first child pops first.
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return nil
}

// MeshOrder returns the mesh indices referenced by the tree in Walk order.
// A mesh referenced by several nodes appears once per reference.
func MeshOrder(root *Node) []int {
	var order []int
	_ = Walk(root, func(n *Node) error {
		order = append(order, n.Meshes...)
		return nil
	})
	return order
}
