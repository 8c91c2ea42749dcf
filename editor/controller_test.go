package editor

import (
	"envgraph/core"
	"envgraph/envelope"
	"envgraph/viewport"
	"errors"
	"reflect"
	"testing"
)

// testMapper maps one value unit to one cell. Level 0 sits on row 128.
func testMapper() viewport.Mapper {
	return viewport.Mapper{
		Radius:     1,
		ScaleX:     1,
		ScaleY:     1,
		ScrollRate: 10,
		MaxHeight:  127,
		MinimumY:   0,
		MaximumY:   127,
	}
}

// newTestController returns a controller on a 200x140 view together with a
// counter of change events.
func newTestController(opts envelope.Options) (*Controller, *int) {
	g := envelope.NewGraph(opts)
	count := 0
	g.Subscribe(func(envelope.Change) { count++ })
	c := NewController(g, testMapper())
	c.Resize(200, 140)
	return c, &count
}

func screen(c *Controller, x, y int) core.Point {
	return c.Mapper().ToScreen(core.Point{X: x, Y: y})
}

func mustAdd(t *testing.T, c *Controller, ps ...core.Point) {
	t.Helper()
	c.InhibitUpdates(true)
	defer c.InhibitUpdates(false)
	for _, p := range ps {
		if _, err := c.Graph().AddNode(p); err != nil {
			t.Fatalf("AddNode(%v) failed: %v", p, err)
		}
	}
}

func TestDoubleClickAddScenario(t *testing.T) {
	c, count := newTestController(envelope.DefaultOptions())

	if err := c.OnDoubleClick(screen(c, 50, 64)); err != nil {
		t.Fatalf("OnDoubleClick failed: %v", err)
	}

	want := []core.Point{{X: 0, Y: 0}, {X: 50, Y: 64}, {X: 100, Y: 0}}
	if got := c.Graph().Nodes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Nodes = %v, want %v", got, want)
	}
	if c.GetHover() != 1 {
		t.Errorf("Expected new node 1 to be hovered, got %d", c.GetHover())
	}
	if *count != 1 {
		t.Errorf("Expected 1 change event, got %d", *count)
	}

	// A lowered cap refuses further adds without truncating
	c.SetMaxNodes(2)
	err := c.OnDoubleClick(screen(c, 80, 20))
	if !errors.Is(err, envelope.ErrCapacityExceeded) {
		t.Errorf("Expected ErrCapacityExceeded, got %v", err)
	}
	if c.Graph().GetNodeCount() != 3 {
		t.Errorf("Expected 3 nodes, got %d", c.Graph().GetNodeCount())
	}
	if *count != 1 {
		t.Errorf("Failed add emitted an event, count %d", *count)
	}
}

func TestDoubleClickAddDisabled(t *testing.T) {
	c, count := newTestController(envelope.DefaultOptions())
	c.AllowAddNodes(false)

	err := c.OnDoubleClick(screen(c, 50, 64))
	if !errors.Is(err, envelope.ErrOperationDisabled) {
		t.Errorf("Expected ErrOperationDisabled, got %v", err)
	}
	if c.Graph().GetNodeCount() != 2 || *count != 0 {
		t.Errorf("Disabled add changed the graph: %d nodes, %d events", c.Graph().GetNodeCount(), *count)
	}
}

func TestDoubleClickRemove(t *testing.T) {
	c, count := newTestController(envelope.DefaultOptions())
	mustAdd(t, c, core.Point{X: 30, Y: 50}, core.Point{X: 60, Y: 80})

	// Locked node stays
	c.AllowRemoveNode(false, core.Point{X: 30, Y: 50})
	err := c.OnDoubleClick(screen(c, 30, 50))
	if !errors.Is(err, envelope.ErrOperationDisabled) {
		t.Errorf("Expected ErrOperationDisabled, got %v", err)
	}

	// Hit region is a square: a corner cell still hits
	s := screen(c, 60, 80).Add(core.Point{X: 1, Y: -1})
	if err := c.OnDoubleClick(s); err != nil {
		t.Fatalf("OnDoubleClick on node corner failed: %v", err)
	}
	want := []core.Point{{X: 0, Y: 0}, {X: 30, Y: 50}, {X: 100, Y: 0}}
	if got := c.Graph().Nodes(); !reflect.DeepEqual(got, want) {
		t.Errorf("Nodes = %v, want %v", got, want)
	}
	if *count != 1 {
		t.Errorf("Expected 1 change event, got %d", *count)
	}

	// The minimum two nodes can not be removed
	c.AllowRemoveNode(true, envelope.AllNodes)
	c.OnDoubleClick(screen(c, 30, 50))
	err = c.OnDoubleClick(screen(c, 100, 0))
	if !errors.Is(err, envelope.ErrBelowMinimum) {
		t.Errorf("Expected ErrBelowMinimum, got %v", err)
	}
}

func TestDragInteriorClampsToNeighbours(t *testing.T) {
	tests := []struct {
		name   string
		target core.Point // Value the pointer is moved to
		want   core.Point
	}{
		{"within range", core.Point{X: 45, Y: 70}, core.Point{X: 45, Y: 70}},
		{"past right neighbour", core.Point{X: 90, Y: 50}, core.Point{X: 59, Y: 50}},
		{"past left neighbour", core.Point{X: 0, Y: 50}, core.Point{X: 1, Y: 50}},
		{"above top", core.Point{X: 40, Y: 127}, core.Point{X: 40, Y: 127}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, count := newTestController(envelope.DefaultOptions())
			mustAdd(t, c, core.Point{X: 30, Y: 50}, core.Point{X: 60, Y: 50})

			if !c.OnPointerDown(screen(c, 30, 50)) {
				t.Fatal("Expected pointer-down to hit node 1")
			}
			if c.GetMode() != ModeDragging || c.GetDragNode() != 1 {
				t.Fatalf("Expected to drag node 1, mode %v node %d", c.GetMode(), c.GetDragNode())
			}

			c.OnPointerMove(screen(c, tt.target.X, tt.target.Y))
			if *count != 0 {
				t.Errorf("Move emitted %d events before release", *count)
			}
			c.OnPointerUp(screen(c, tt.target.X, tt.target.Y))

			got, _ := c.Graph().GetNode(1)
			if got != tt.want {
				t.Errorf("Node 1 = %v, want %v", got, tt.want)
			}
			if *count != 1 {
				t.Errorf("Expected 1 change event, got %d", *count)
			}
			if c.GetMode() != ModeIdle || c.GetDragNode() != -1 {
				t.Errorf("Expected idle after release, mode %v node %d", c.GetMode(), c.GetDragNode())
			}
		})
	}
}

func TestDragNoRoomKeepsX(t *testing.T) {
	c, _ := newTestController(envelope.DefaultOptions())
	mustAdd(t, c, core.Point{X: 30, Y: 20}, core.Point{X: 30, Y: 60}, core.Point{X: 31, Y: 100})

	// Node 2 shares X with node 1 and has 31 on its right: only its level may change
	c.OnPointerDown(screen(c, 30, 60))
	c.OnPointerMove(screen(c, 50, 90))
	c.OnPointerUp(screen(c, 50, 90))

	if got, _ := c.Graph().GetNode(2); got != (core.Point{X: 30, Y: 90}) {
		t.Errorf("Node 2 = %v, want {30 90}", got)
	}
}

func TestDragKeepsClickOffset(t *testing.T) {
	c, _ := newTestController(envelope.DefaultOptions())
	mustAdd(t, c, core.Point{X: 50, Y: 50})

	// Grab the node one cell right of its centre
	grab := screen(c, 50, 50).Add(core.Point{X: 1})
	c.OnPointerDown(grab)
	c.OnPointerMove(grab.Add(core.Point{X: 5, Y: -3}))
	c.OnPointerUp(grab.Add(core.Point{X: 5, Y: -3}))

	if got, _ := c.Graph().GetNode(1); got != (core.Point{X: 55, Y: 53}) {
		t.Errorf("Node 1 = %v, want {55 53}", got)
	}
}

func TestDragFirstNode(t *testing.T) {
	c, count := newTestController(envelope.DefaultOptions())

	c.OnPointerDown(screen(c, 0, 0))
	c.OnPointerMove(screen(c, 30, 40))
	c.OnPointerUp(screen(c, 30, 40))

	if got, _ := c.Graph().GetNode(0); got != (core.Point{X: 0, Y: 40}) {
		t.Errorf("Node 0 = %v, want {0 40}", got)
	}
	if *count != 1 {
		t.Errorf("Expected 1 change event, got %d", *count)
	}

	// A locked origin does not move at all
	c.Graph().LockOrigin(true)
	c.OnPointerDown(screen(c, 0, 40))
	c.OnPointerMove(screen(c, 10, 90))
	c.OnPointerUp(screen(c, 10, 90))

	if got, _ := c.Graph().GetNode(0); got != (core.Point{X: 0, Y: 40}) {
		t.Errorf("Locked node 0 = %v, want {0 40}", got)
	}
	if *count != 1 {
		t.Errorf("Drag of a locked origin emitted an event, count %d", *count)
	}
}

func TestDragLastNode(t *testing.T) {
	c, _ := newTestController(envelope.DefaultOptions())
	mustAdd(t, c, core.Point{X: 50, Y: 50})

	c.OnPointerDown(screen(c, 100, 0))
	c.OnPointerMove(screen(c, 150, 20))
	c.OnPointerUp(screen(c, 150, 20))
	if got, _ := c.Graph().GetNode(2); got != (core.Point{X: 150, Y: 20}) {
		t.Errorf("Last node = %v, want {150 20}", got)
	}

	c.OnPointerDown(screen(c, 150, 20))
	c.OnPointerMove(screen(c, 10, 20))
	c.OnPointerUp(screen(c, 10, 20))
	if got, _ := c.Graph().GetNode(2); got != (core.Point{X: 51, Y: 20}) {
		t.Errorf("Last node = %v, want {51 20}", got)
	}
}

func TestPressWithoutMoveIsSilent(t *testing.T) {
	c, count := newTestController(envelope.DefaultOptions())

	s := screen(c, 100, 0)
	c.OnPointerDown(s)
	c.OnPointerUp(s)

	if *count != 0 {
		t.Errorf("Click without movement emitted %d events", *count)
	}
	if c.OnPointerDown(screen(c, 50, 100)) {
		t.Error("Pointer-down on empty space reported a hit")
	}
	if c.GetMode() != ModeIdle {
		t.Errorf("Expected idle, got %v", c.GetMode())
	}
}

func TestDragOutsideViewScrolls(t *testing.T) {
	opts := envelope.DefaultOptions()
	opts.EndX = 40
	c, count := newTestController(opts)
	c.Resize(60, 140)

	start := screen(c, 40, 0) // {41 128}
	c.OnPointerDown(start)

	outside := core.Point{X: 70, Y: start.Y}
	c.OnPointerMove(outside)
	if got, _ := c.Graph().GetNode(1); got.X != 57 {
		t.Fatalf("First move: node X = %d, want 57", got.X)
	}
	c.OnPointerMove(outside)
	c.OnPointerMove(outside)

	got, _ := c.Graph().GetNode(1)
	if got.X != 77 {
		t.Errorf("After scrolling: node X = %d, want 77", got.X)
	}
	if x, _ := c.Mapper().Scroll(); x != 2 {
		t.Errorf("Expected two units of scroll, got %d", x)
	}

	// Released outside the view: the node keeps its last tracked position
	c.OnPointerUp(outside)
	if again, _ := c.Graph().GetNode(1); again != got {
		t.Errorf("Release outside moved node to %v", again)
	}
	if x, _ := c.Mapper().Scroll(); x != 2 {
		t.Errorf("Scroll after release = %d, want 2", x)
	}
	if *count != 1 {
		t.Errorf("Expected 1 change event, got %d", *count)
	}
}

func TestPointerEnterFinishesDrag(t *testing.T) {
	c, count := newTestController(envelope.DefaultOptions())
	mustAdd(t, c, core.Point{X: 50, Y: 50})

	c.OnPointerDown(screen(c, 50, 50))
	c.OnPointerMove(screen(c, 55, 60))

	c.OnPointerEnter(true)
	if c.GetMode() != ModeDragging {
		t.Fatal("Entering with the button held should keep dragging")
	}

	c.OnPointerEnter(false)
	if c.GetMode() != ModeIdle {
		t.Errorf("Expected idle after re-entering without button, got %v", c.GetMode())
	}
	if *count != 1 {
		t.Errorf("Expected 1 change event, got %d", *count)
	}
}

func TestEscapeRestoresDraggedNode(t *testing.T) {
	c, count := newTestController(envelope.DefaultOptions())
	mustAdd(t, c, core.Point{X: 50, Y: 50})

	c.OnPointerDown(screen(c, 50, 50))
	c.OnPointerMove(screen(c, 70, 90))
	if err := c.Escape(); err != nil {
		t.Fatalf("Escape failed: %v", err)
	}

	if got, _ := c.Graph().GetNode(1); got != (core.Point{X: 50, Y: 50}) {
		t.Errorf("Node after escape = %v, want {50 50}", got)
	}
	if *count != 0 || c.GetMode() != ModeIdle {
		t.Errorf("Escape left mode %v with %d events", c.GetMode(), *count)
	}
}

func TestEscapeReportsLostNode(t *testing.T) {
	c, _ := newTestController(envelope.DefaultOptions())
	mustAdd(t, c, core.Point{X: 50, Y: 50})

	c.OnPointerDown(screen(c, 100, 0))
	c.OnPointerMove(screen(c, 120, 20))

	// Shrink the graph underneath the drag without going through the keys
	c.InhibitUpdates(true)
	if err := c.Graph().RemoveNode(2); err != nil {
		t.Fatalf("RemoveNode failed: %v", err)
	}
	c.InhibitUpdates(false)

	if err := c.Escape(); !errors.Is(err, envelope.ErrIndexOutOfRange) {
		t.Errorf("Expected ErrIndexOutOfRange, got %v", err)
	}
	if c.GetMode() != ModeIdle || c.GetDragNode() != -1 {
		t.Errorf("Escape left mode %v dragging %d", c.GetMode(), c.GetDragNode())
	}
}

func TestNodeKeysIgnoredWhileDragging(t *testing.T) {
	tests := []struct {
		name string
		grab core.Point
		key  rune
	}{
		{"remove last node", core.Point{X: 100, Y: 0}, 'x'},
		{"delete interior node", core.Point{X: 50, Y: 64}, 'd'},
		{"lock dragged node", core.Point{X: 50, Y: 64}, 'l'},
		{"sustain on dragged node", core.Point{X: 50, Y: 64}, 's'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, count := newTestController(envelope.DefaultOptions())
			mustAdd(t, c, core.Point{X: 50, Y: 64})

			if !c.OnPointerDown(screen(c, tt.grab.X, tt.grab.Y)) {
				t.Fatalf("Expected to grab %v", tt.grab)
			}
			dragged := c.GetDragNode()
			if _, err := c.HandleKey(tt.key); err != nil {
				t.Fatalf("HandleKey(%q) failed: %v", tt.key, err)
			}

			if n := c.Graph().GetNodeCount(); n != 3 {
				t.Errorf("Expected 3 nodes, got %d", n)
			}
			if c.GetSustain() != -1 || !c.Graph().Removable(dragged) {
				t.Errorf("Key %q changed the dragged node", tt.key)
			}
			if c.GetMode() != ModeDragging || c.GetDragNode() != dragged {
				t.Errorf("Drag lost: mode %v node %d", c.GetMode(), c.GetDragNode())
			}

			// The gesture still moves only the grabbed node
			target := core.Point{X: tt.grab.X, Y: 30}
			c.OnPointerMove(screen(c, target.X, target.Y))
			c.OnPointerUp(screen(c, target.X, target.Y))
			if got, _ := c.Graph().GetNode(dragged); got != target {
				t.Errorf("Dragged node = %v, want %v", got, target)
			}
			if *count != 1 {
				t.Errorf("Expected 1 change event, got %d", *count)
			}
		})
	}
}

func TestInhibitedDragIsSilent(t *testing.T) {
	c, count := newTestController(envelope.DefaultOptions())

	c.InhibitUpdates(true)
	c.OnPointerDown(screen(c, 100, 0))
	c.OnPointerMove(screen(c, 120, 30))
	c.OnPointerUp(screen(c, 120, 30))
	c.OnDoubleClick(screen(c, 50, 50))
	if *count != 0 {
		t.Errorf("Expected no events while inhibited, got %d", *count)
	}

	c.InhibitUpdates(false)
	c.OnDoubleClick(screen(c, 70, 70))
	if *count != 1 {
		t.Errorf("Expected 1 event after re-enabling, got %d", *count)
	}
}

func TestHover(t *testing.T) {
	c, _ := newTestController(envelope.DefaultOptions())

	c.OnPointerMove(screen(c, 100, 0))
	if c.GetHover() != 1 {
		t.Errorf("Expected hover on node 1, got %d", c.GetHover())
	}
	c.OnPointerMove(screen(c, 50, 50))
	if c.GetHover() != -1 {
		t.Errorf("Expected no hover, got %d", c.GetHover())
	}
	if !c.TakeDirty() {
		t.Error("Hover changes should mark the view dirty")
	}
	if c.TakeDirty() {
		t.Error("TakeDirty should reset the flag")
	}
}

func TestClearAbandonsDrag(t *testing.T) {
	c, count := newTestController(envelope.DefaultOptions())
	mustAdd(t, c, core.Point{X: 50, Y: 50})

	c.OnPointerDown(screen(c, 50, 50))
	c.Clear()

	if c.GetMode() != ModeIdle || c.GetDragNode() != -1 {
		t.Errorf("Clear left mode %v node %d", c.GetMode(), c.GetDragNode())
	}
	if c.Graph().GetNodeCount() != 2 {
		t.Errorf("Expected 2 nodes after clear, got %d", c.Graph().GetNodeCount())
	}
	if *count != 1 {
		t.Errorf("Expected 1 change event, got %d", *count)
	}
}

func TestMaxHeight(t *testing.T) {
	c, _ := newTestController(envelope.DefaultOptions())

	c.SetMaxHeight(63)
	if c.GetMaxHeight() != 63 {
		t.Errorf("GetMaxHeight = %d, want 63", c.GetMaxHeight())
	}
	if got := screen(c, 0, 63); got.Y != 1 {
		t.Errorf("Level 63 should sit on the top margin row, got %d", got.Y)
	}

	c.SetMaxHeight(-4)
	if c.GetMaxHeight() != 0 {
		t.Errorf("Negative max height not floored, got %d", c.GetMaxHeight())
	}
}
