package service

import "task_tracker/internal/domain"

// BuildForest nests tasks under their parents and returns the roots. The
// input order is kept at every level. Each task is placed at most once, so
// the walk is bounded by len(tasks) even if the parent links contain a cycle;
// tasks that cannot be reached from a root are left out.
func BuildForest(tasks []*domain.Task) []*domain.TaskNode {
	nodes := make(map[int64]*domain.TaskNode, len(tasks))
	children := make(map[int64][]*domain.TaskNode)
	roots := []*domain.TaskNode{}

	for _, t := range tasks {
		if _, dup := nodes[t.ID]; dup {
			continue
		}
		n := &domain.TaskNode{Task: *t, Children: []*domain.TaskNode{}}
		nodes[t.ID] = n
		if t.ParentID == nil {
			roots = append(roots, n)
		} else {
			children[*t.ParentID] = append(children[*t.ParentID], n)
		}
	}

	placed := make(map[int64]bool, len(nodes))
	stack := make([]*domain.TaskNode, 0, len(roots))
	for _, r := range roots {
		placed[r.ID] = true
		stack = append(stack, r)
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, c := range children[n.ID] {
			if placed[c.ID] {
				continue
			}
			placed[c.ID] = true
			n.Children = append(n.Children, c)
			stack = append(stack, c)
		}
	}
	return roots
}

// CollectSubtree returns rootID and all of its descendants in deletion order:
// every task appears after all of its own descendants, rootID last.
func CollectSubtree(tasks []*domain.Task, rootID int64) []int64 {
	children := make(map[int64][]int64)
	for _, t := range tasks {
		if t.ParentID != nil {
			children[*t.ParentID] = append(children[*t.ParentID], t.ID)
		}
	}

	type frame struct {
		id       int64
		expanded bool
	}
	seen := map[int64]bool{rootID: true}
	stack := []frame{{id: rootID}}
	order := make([]int64, 0, len(tasks))

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.expanded {
			order = append(order, top.id)
			stack = stack[:len(stack)-1]
			continue
		}
		top.expanded = true
		for _, c := range children[top.id] {
			if seen[c] {
				continue
			}
			seen[c] = true
			stack = append(stack, frame{id: c})
		}
	}
	return order
}
