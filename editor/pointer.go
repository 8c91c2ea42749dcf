package editor

import (
	"envgraph/core"
	"envgraph/envelope"
	"envgraph/geometry"
	"fmt"
)

// OnPointerDown starts dragging the node under s. It reports whether a node
// was hit.
func (c *Controller) OnPointerDown(s core.Point) bool {
	c.pointer = s
	if c.mode == ModeMenu {
		c.CloseMenu()
	}
	if c.mode == ModeDragging {
		// A second press without a release; keep the current gesture.
		return true
	}

	i := c.hitTest(s)
	if i < 0 {
		return false
	}
	p, _ := c.graph.GetNode(i)
	c.drag = dragState{
		node:   i,
		offset: s.Sub(c.mapper.ToScreen(p)),
		last:   s,
		start:  p,
	}
	c.hover = i
	c.mode = ModeDragging
	c.dirty = true
	return true
}

// OnPointerMove tracks hover and, while dragging, moves the dragged node.
// A pointer outside the drag region scrolls the view one unit towards it
// and the node follows the last position inside the region.
func (c *Controller) OnPointerMove(s core.Point) {
	c.pointer = s
	if c.mode != ModeDragging {
		if h := c.hitTest(s); h != c.hover {
			c.hover = h
			c.dirty = true
		}
		return
	}

	region := c.mapper.DragRegion()
	if region.Contains(s) {
		c.drag.last = s
	} else {
		c.mapper.EnsureVisible(s, c.Extent())
		c.drag.last = region.Clamp(s)
	}
	c.moveDragged(c.drag.last)
}

// OnPointerUp finishes a drag and announces the change when the node moved.
func (c *Controller) OnPointerUp(s core.Point) {
	c.pointer = s
	if c.mode != ModeDragging {
		return
	}
	if c.mapper.DragRegion().Contains(s) {
		c.moveDragged(s)
	}
	c.finishDrag()
}

// OnPointerEnter handles the pointer coming back into the view. A drag whose
// button was released outside the view is finished here.
func (c *Controller) OnPointerEnter(buttonDown bool) {
	if c.mode == ModeDragging && !buttonDown {
		c.finishDrag()
	}
}

func (c *Controller) finishDrag() {
	i := c.drag.node
	start := c.drag.start
	c.drag = dragState{node: -1}
	c.mode = ModeIdle
	c.dirty = true

	if p, err := c.graph.GetNode(i); err == nil && p != start {
		c.graph.Notify(envelope.ChangeDrag)
	}
	c.Refit()
}

// moveDragged places the dragged node under pointer position s, applying
// the ordering constraints.
func (c *Controller) moveDragged(s core.Point) {
	i := c.drag.node
	v := c.mapper.ToValue(s.Sub(c.drag.offset))
	v = c.constrain(i, v)
	if err := c.graph.Place(i, v); err == nil {
		c.dirty = true
	}
}

// constrain keeps a dragged node between its neighbours. The first node is
// pinned to X=0; interior nodes stay strictly inside (x[i-1], x[i+1]); the
// last node only has a lower bound.
func (c *Controller) constrain(i int, v core.Point) core.Point {
	nodes := c.graph.Nodes()
	cur := nodes[i]

	if i == 0 {
		v.X = 0
		if c.graph.OriginLocked() {
			v.Y = cur.Y
		}
		return v
	}

	lo := nodes[i-1].X + 1
	if i == len(nodes)-1 {
		v.X = geometry.Max(v.X, lo)
		return v
	}

	hi := nodes[i+1].X - 1
	if lo > hi {
		// No room between the neighbours; only the level moves.
		v.X = cur.X
	} else {
		v.X = geometry.Clamp(v.X, lo, hi)
	}
	return v
}

// OnDoubleClick removes the node under s, or adds a node at s when there is
// none and adding is allowed. Returns the failure, if any.
func (c *Controller) OnDoubleClick(s core.Point) error {
	c.pointer = s
	if c.mode == ModeMenu {
		c.CloseMenu()
	}
	if c.mode == ModeDragging {
		c.finishDrag()
	}

	if i := c.hitTest(s); i >= 0 {
		if err := c.graph.RemoveNode(i); err != nil {
			return err
		}
		c.hover = -1
		c.Refit()
		return nil
	}

	if !c.addEnabled {
		return fmt.Errorf("add at %v: %w", s, envelope.ErrOperationDisabled)
	}
	i, err := c.graph.AddNode(c.mapper.ToValue(s))
	if err != nil {
		return err
	}
	c.hover = i
	c.Refit()
	return nil
}
