package scene

// Enumerate returns root followed by all of its descendants in breadth-first
// order. Children within a level keep their declared order. The result is the
// canonical node order for an export run.
func Enumerate(root Node) []Node {
	if root == nil {
		return nil
	}

	nodes := []Node{root}
	queue := []Node{root}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		for _, child := range item.Children() {
			queue = append(queue, child)
			nodes = append(nodes, child)
		}
	}
	return nodes
}

// FindNode returns the first node named name in Enumerate(root) order, or nil.
func FindNode(root Node, name string) Node {
	for _, n := range Enumerate(root) {
		if n.Name() == name {
			return n
		}
	}
	return nil
}

// Names returns the names of nodes in order.
func Names(nodes []Node) []string {
	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n.Name()
	}
	return names
}
