// Package editor implements the interaction controller of the envelope
// graph: hit-testing, the drag state machine, double-click add/remove and
// the per-node context menu. It knows nothing about any UI toolkit; a host
// feeds it pointer positions in view cells through the On* methods.
package editor

import (
	"envgraph/core"
	"envgraph/envelope"
	"envgraph/viewport"
)

// dragState lives from pointer-down on a node until pointer-up.
type dragState struct {
	node   int        // Index of node being dragged, -1 for none
	offset core.Point // Pointer minus node centre at pointer-down
	last   core.Point // Last pointer position inside the drag region
	start  core.Point // Node value when the drag began
}

// Controller drives an envelope graph from pointer input.
type Controller struct {
	graph  *envelope.Graph
	mapper viewport.Mapper

	// UI State
	mode       Mode
	drag       dragState
	menu       *Menu
	hover      int  // Node under the pointer (-1 for none)
	pointer    core.Point
	addEnabled bool // Double-click on empty space adds a node
	dirty      bool // View needs a redraw
}

// NewController creates a controller for g using m for coordinate mapping.
func NewController(g *envelope.Graph, m viewport.Mapper) *Controller {
	return &Controller{
		graph:      g,
		mapper:     m,
		mode:       ModeIdle,
		drag:       dragState{node: -1},
		hover:      -1,
		addEnabled: true,
		dirty:      true,
	}
}

// Graph returns the node store being edited.
func (c *Controller) Graph() *envelope.Graph {
	return c.graph
}

// Mapper returns a copy of the current coordinate mapper.
func (c *Controller) Mapper() viewport.Mapper {
	return c.mapper
}

// Extent returns the virtual area needed by the current nodes. While a node
// is dragged one extra scroll unit is allowed on the right so that dragging
// past the edge can keep extending the envelope.
func (c *Controller) Extent() core.Bounds {
	ext := c.mapper.FitExtent(c.graph.Nodes())
	if c.mode == ModeDragging {
		ext.Max.X += c.mapper.ScrollRate
	}
	return ext
}

// Refit pulls the scroll position back inside the current extent.
func (c *Controller) Refit() {
	c.mapper.ClampScroll(c.Extent())
	c.dirty = true
}

// Resize records a new view size and refits.
func (c *Controller) Resize(width, height int) {
	c.mapper.SetViewSize(width, height)
	c.Refit()
}

// Scroll moves the view by whole scroll units.
func (c *Controller) Scroll(dx, dy int) {
	if c.mapper.ScrollBy(dx, dy, c.Extent()) {
		c.dirty = true
	}
}

// TakeDirty reports whether the view changed since the last call.
func (c *Controller) TakeDirty() bool {
	d := c.dirty
	c.dirty = false
	return d
}

// GetHover returns the node under the pointer, or -1.
func (c *Controller) GetHover() int {
	return c.hover
}

// GetPointer returns the last pointer position seen.
func (c *Controller) GetPointer() core.Point {
	return c.pointer
}

// GetDragNode returns the node being dragged, or -1.
func (c *Controller) GetDragNode() int {
	return c.drag.node
}

// AllowAddNodes enables or disables double-click to add.
func (c *Controller) AllowAddNodes(enable bool) {
	c.addEnabled = enable
}

// AddNodesAllowed reports whether double-click adds nodes.
func (c *Controller) AddNodesAllowed() bool {
	return c.addEnabled
}

// AllowRemoveNode enables or disables removal of the node equal to target,
// or of all nodes when target is envelope.AllNodes.
func (c *Controller) AllowRemoveNode(enable bool, target core.Point) error {
	return c.graph.AllowRemoveNode(enable, target)
}

// InhibitUpdates suppresses change notifications.
func (c *Controller) InhibitUpdates(inhibit bool) {
	c.graph.InhibitUpdates(inhibit)
}

// SetMaxNodes changes the node cap without truncating.
func (c *Controller) SetMaxNodes(n int) {
	c.graph.SetMaxNodes(n)
}

// GetMaxNodes returns the node cap.
func (c *Controller) GetMaxNodes() int {
	return c.graph.GetMaxNodes()
}

// SetMaxHeight sets the highest level kept inside the virtual area.
func (c *Controller) SetMaxHeight(h int) {
	if h < 0 {
		h = 0
	}
	c.mapper.MaxHeight = h
	c.Refit()
}

// GetMaxHeight returns the highest level kept inside the virtual area.
func (c *Controller) GetMaxHeight() int {
	return c.mapper.MaxHeight
}

// SetOrigin sets the level of the first node.
func (c *Controller) SetOrigin(y int) {
	c.graph.SetOrigin(y)
	c.dirty = true
}

// GetSustain returns the sustain node index, or -1.
func (c *Controller) GetSustain() int {
	return c.graph.GetSustain()
}

// Clear resets the graph to two nodes and abandons any gesture.
func (c *Controller) Clear() {
	c.cancel()
	c.graph.Clear()
	c.Refit()
}

// cancel drops gesture state without committing anything.
func (c *Controller) cancel() {
	c.drag = dragState{node: -1}
	c.menu = nil
	c.hover = -1
	c.mode = ModeIdle
}

// hitTest returns the node whose hit region contains s. Later nodes are
// drawn on top, so they win.
func (c *Controller) hitTest(s core.Point) int {
	nodes := c.graph.Nodes()
	for i := len(nodes) - 1; i >= 0; i-- {
		if c.mapper.Hit(s, nodes[i]) {
			return i
		}
	}
	return -1
}

// NodeAt returns the node under view cell s, or -1.
func (c *Controller) NodeAt(s core.Point) int {
	return c.hitTest(s)
}
