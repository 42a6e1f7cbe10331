// Package tasktree reconstructs the task forest of a provenance from the flat
// parent-pointer rows stored in the metadata database. Pure logic - no I/O.
package tasktree

import "github.com/example/strata/internal/models"

// Node is one task with its resolved children. Children appear in the same
// order the tasks were supplied (ascending step order from the repository).
type Node struct {
	Task     models.Task
	Children []*Node
}

// Build turns a flat task list into a forest. Tasks are indexed by id in one
// pass, then each task is attached to its parent by lookup. A task whose
// parent id is unset or does not resolve within the list becomes a root -
// dangling parent pointers never fail the build. O(n) in the number of tasks.
func Build(tasks []models.Task) []*Node {
	index := make(map[int64]*Node, len(tasks))
	nodes := make([]*Node, 0, len(tasks))
	for _, t := range tasks {
		n := &Node{Task: t}
		index[t.ID] = n
		nodes = append(nodes, n)
	}

	var roots []*Node
	for _, n := range nodes {
		pid := n.Task.ParentTaskID
		if pid != 0 {
			if parent, ok := index[pid]; ok && parent != n {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}

// Count returns the total number of nodes in the forest.
func Count(roots []*Node) int {
	total := 0
	for _, r := range roots {
		total += 1 + Count(r.Children)
	}
	return total
}

// Walk visits every node depth-first, roots in order, children before
// siblings. The callback receives the node and its depth (roots are 0).
func Walk(roots []*Node, fn func(n *Node, depth int)) {
	var visit func(n *Node, depth int)
	visit = func(n *Node, depth int) {
		fn(n, depth)
		for _, c := range n.Children {
			visit(c, depth+1)
		}
	}
	for _, r := range roots {
		visit(r, 0)
	}
}
