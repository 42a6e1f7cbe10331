package tasktree

import (
	"testing"

	"github.com/example/strata/internal/models"
)

func task(id, parent int64, order int, op string) models.Task {
	return models.Task{ID: id, ParentTaskID: parent, StepOrder: order, Operation: op}
}

func TestBuild_Empty(t *testing.T) {
	roots := Build(nil)
	if len(roots) != 0 {
		t.Errorf("expected no roots, got %d", len(roots))
	}
}

func TestBuild_FlatList(t *testing.T) {
	tasks := []models.Task{
		task(1, 0, 1, "import"),
		task(2, 0, 2, "overlay"),
		task(3, 0, 3, "export"),
	}
	roots := Build(tasks)
	if len(roots) != 3 {
		t.Fatalf("expected 3 roots, got %d", len(roots))
	}
	for i, r := range roots {
		if r.Task.StepOrder != i+1 {
			t.Errorf("root %d has step order %d, want %d", i, r.Task.StepOrder, i+1)
		}
	}
}

func TestBuild_NestedChildren(t *testing.T) {
	tasks := []models.Task{
		task(1, 0, 1, "overlay"),
		task(2, 1, 2, "intersect"),
		task(3, 1, 3, "union"),
		task(4, 3, 4, "register"),
	}
	roots := Build(tasks)
	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}
	root := roots[0]
	if len(root.Children) != 2 {
		t.Fatalf("expected 2 children, got %d", len(root.Children))
	}
	if root.Children[0].Task.Operation != "intersect" {
		t.Errorf("first child = %q, want intersect", root.Children[0].Task.Operation)
	}
	if root.Children[1].Task.Operation != "union" {
		t.Errorf("second child = %q, want union", root.Children[1].Task.Operation)
	}
	if len(root.Children[1].Children) != 1 || root.Children[1].Children[0].Task.ID != 4 {
		t.Error("grandchild not attached under union")
	}
}

func TestBuild_SiblingsKeepStepOrder(t *testing.T) {
	// Input arrives ordered by step_order; siblings must preserve it.
	tasks := []models.Task{
		task(10, 0, 1, "root"),
		task(11, 10, 2, "a"),
		task(12, 10, 5, "b"),
		task(13, 10, 9, "c"),
	}
	roots := Build(tasks)
	children := roots[0].Children
	if len(children) != 3 {
		t.Fatalf("expected 3 children, got %d", len(children))
	}
	last := 0
	for _, c := range children {
		if c.Task.StepOrder < last {
			t.Errorf("children out of step order: %d after %d", c.Task.StepOrder, last)
		}
		last = c.Task.StepOrder
	}
}

func TestBuild_DanglingParentBecomesRoot(t *testing.T) {
	tasks := []models.Task{
		task(1, 0, 1, "root"),
		task(2, 99, 2, "orphan"), // parent outside this provenance
	}
	roots := Build(tasks)
	if len(roots) != 2 {
		t.Fatalf("expected orphan promoted to root, got %d roots", len(roots))
	}
	if roots[1].Task.Operation != "orphan" {
		t.Errorf("second root = %q, want orphan", roots[1].Task.Operation)
	}
}

func TestBuild_SelfReferenceBecomesRoot(t *testing.T) {
	tasks := []models.Task{task(7, 7, 1, "loop")}
	roots := Build(tasks)
	if len(roots) != 1 {
		t.Fatalf("self-referencing task must become a root, got %d roots", len(roots))
	}
	if len(roots[0].Children) != 0 {
		t.Error("self-referencing task must not become its own child")
	}
}

func TestCount(t *testing.T) {
	tasks := []models.Task{
		task(1, 0, 1, "a"),
		task(2, 1, 2, "b"),
		task(3, 1, 3, "c"),
		task(4, 0, 4, "d"),
	}
	if got := Count(Build(tasks)); got != 4 {
		t.Errorf("Count = %d, want 4", got)
	}
}

func TestWalk_DepthFirst(t *testing.T) {
	tasks := []models.Task{
		task(1, 0, 1, "a"),
		task(2, 1, 2, "b"),
		task(3, 2, 3, "c"),
		task(4, 0, 4, "d"),
	}
	var ops []string
	var depths []int
	Walk(Build(tasks), func(n *Node, depth int) {
		ops = append(ops, n.Task.Operation)
		depths = append(depths, depth)
	})
	wantOps := []string{"a", "b", "c", "d"}
	wantDepths := []int{0, 1, 2, 0}
	for i := range wantOps {
		if ops[i] != wantOps[i] || depths[i] != wantDepths[i] {
			t.Errorf("visit %d = (%s,%d), want (%s,%d)", i, ops[i], depths[i], wantOps[i], wantDepths[i])
		}
	}
}
