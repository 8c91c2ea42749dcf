// Package envelope holds the node model of an envelope graph: an ordered
// sequence of breakpoints joined by straight lines.
package envelope

import (
	"envgraph/core"
	"envgraph/geometry"
	"fmt"
	"sort"
)

// MinNodes is the smallest sequence a graph can hold.
const MinNodes = 2

// AllNodes is the target passed to AllowRemoveNode to address every node.
// Node X values are never negative, so it matches no real node.
var AllNodes = core.Point{X: -1, Y: -1}

// Options configures the limits of a Graph.
type Options struct {
	MaxNodes int // Upper bound on node count (at least MinNodes)
	MinimumY int // Lowest level a node may take
	MaximumY int // Highest level a node may take
	EndX     int // X of the final node in the default sequence
}

// DefaultOptions returns limits suitable for a 7-bit level envelope.
func DefaultOptions() Options {
	return Options{
		MaxNodes: 16,
		MinimumY: 0,
		MaximumY: 127,
		EndX:     100,
	}
}

type entry struct {
	pt    core.Point
	fixed bool // Remove disabled
}

// Graph is the node store. It is not safe for concurrent use; all calls are
// expected to come from the UI event loop.
type Graph struct {
	Notifier

	nodes        []entry
	sustain      int // Index of sustain node, -1 for none
	maxNodes     int
	minY, maxY   int
	endX         int
	originY      int
	originLocked bool
	removable    bool // Default remove policy for new nodes
}

// NewGraph creates a graph holding the default two-node sequence.
func NewGraph(opts Options) *Graph {
	if opts.MaximumY < opts.MinimumY {
		opts.MinimumY, opts.MaximumY = opts.MaximumY, opts.MinimumY
	}
	g := &Graph{
		sustain:   -1,
		maxNodes:  geometry.Max(opts.MaxNodes, MinNodes),
		minY:      opts.MinimumY,
		maxY:      opts.MaximumY,
		endX:      geometry.Max(opts.EndX, 1),
		originY:   geometry.Clamp(0, opts.MinimumY, opts.MaximumY),
		removable: true,
	}
	g.reset()
	return g
}

func (g *Graph) reset() {
	g.nodes = []entry{
		{pt: core.Point{X: 0, Y: g.originY}, fixed: !g.removable},
		{pt: core.Point{X: g.endX, Y: g.clampY(0)}, fixed: !g.removable},
	}
	g.sustain = -1
}

func (g *Graph) clampY(y int) int {
	return geometry.Clamp(y, g.minY, g.maxY)
}

func (g *Graph) clamp(p core.Point) core.Point {
	return core.Point{X: geometry.Max(p.X, 0), Y: g.clampY(p.Y)}
}

func (g *Graph) valid(index int) bool {
	return index >= 0 && index < len(g.nodes)
}

// AddNode inserts p keeping the sequence sorted by X. A node sharing the X
// of existing nodes goes after them. Y is clamped to the level bounds and a
// negative X is raised to 0. Returns the index of the new node.
func (g *Graph) AddNode(p core.Point) (int, error) {
	if len(g.nodes) >= g.maxNodes {
		return -1, fmt.Errorf("add %v: %w (max %d)", p, ErrCapacityExceeded, g.maxNodes)
	}
	p = g.clamp(p)

	index := sort.Search(len(g.nodes), func(i int) bool {
		return g.nodes[i].pt.X > p.X
	})
	g.nodes = append(g.nodes, entry{})
	copy(g.nodes[index+1:], g.nodes[index:])
	g.nodes[index] = entry{pt: p, fixed: !g.removable}

	if g.sustain >= index {
		g.sustain++
	}

	g.Notify(ChangeAdd)
	return index, nil
}

// RemoveNode deletes the node at index. The sustain marker follows its node
// and is cleared when its node is removed.
func (g *Graph) RemoveNode(index int) error {
	if !g.valid(index) {
		return fmt.Errorf("remove %d: %w", index, ErrIndexOutOfRange)
	}
	if len(g.nodes) <= MinNodes {
		return fmt.Errorf("remove %d: %w", index, ErrBelowMinimum)
	}
	if g.nodes[index].fixed {
		return fmt.Errorf("remove %d: %w", index, ErrOperationDisabled)
	}

	g.nodes = append(g.nodes[:index], g.nodes[index+1:]...)

	switch {
	case index == g.sustain:
		g.sustain = -1
	case index < g.sustain:
		g.sustain--
	}

	g.Notify(ChangeRemove)
	return nil
}

// Clear resets the graph to the default two-node sequence.
func (g *Graph) Clear() {
	g.reset()
	g.Notify(ChangeClear)
}

// SetNode overwrites the node at index. The sequence is NOT re-sorted:
// callers that break the X ordering own the consequence.
func (g *Graph) SetNode(index int, p core.Point) error {
	if err := g.Place(index, p); err != nil {
		return err
	}
	g.Notify(ChangeSet)
	return nil
}

// Place updates a node like SetNode without emitting a change. It is used
// for in-progress gestures whose commit is announced separately.
func (g *Graph) Place(index int, p core.Point) error {
	if !g.valid(index) {
		return fmt.Errorf("set %d: %w", index, ErrIndexOutOfRange)
	}
	g.nodes[index].pt = g.clamp(p)
	return nil
}

// GetNode returns the node at index.
func (g *Graph) GetNode(index int) (core.Point, error) {
	if !g.valid(index) {
		return core.Point{}, fmt.Errorf("get %d: %w", index, ErrIndexOutOfRange)
	}
	return g.nodes[index].pt, nil
}

// GetNodeCount returns the number of nodes.
func (g *Graph) GetNodeCount() int {
	return len(g.nodes)
}

// Nodes returns a copy of the node sequence.
func (g *Graph) Nodes() []core.Point {
	pts := make([]core.Point, len(g.nodes))
	for i, e := range g.nodes {
		pts[i] = e.pt
	}
	return pts
}

// SetMaxNodes changes the node cap. Existing nodes beyond the cap are kept;
// only further additions are refused.
func (g *Graph) SetMaxNodes(n int) {
	g.maxNodes = geometry.Max(n, MinNodes)
}

// GetMaxNodes returns the node cap.
func (g *Graph) GetMaxNodes() int {
	return g.maxNodes
}

// Full reports whether another node can not be added.
func (g *Graph) Full() bool {
	return len(g.nodes) >= g.maxNodes
}

// Bounds returns the level range nodes are clamped to.
func (g *Graph) Bounds() (minY, maxY int) {
	return g.minY, g.maxY
}

// SetSustain marks the node at index as the sustain node, replacing any
// previous marker.
func (g *Graph) SetSustain(index int) error {
	if !g.valid(index) {
		return fmt.Errorf("sustain %d: %w", index, ErrIndexOutOfRange)
	}
	if g.sustain == index {
		return nil
	}
	g.sustain = index
	g.Notify(ChangeSustain)
	return nil
}

// ClearSustain removes the sustain marker.
func (g *Graph) ClearSustain() {
	if g.sustain < 0 {
		return
	}
	g.sustain = -1
	g.Notify(ChangeSustain)
}

// GetSustain returns the sustain node index, or -1 when there is none.
func (g *Graph) GetSustain() int {
	return g.sustain
}

// SetOrigin sets the level of the first node.
func (g *Graph) SetOrigin(y int) {
	g.originY = g.clampY(y)
	g.nodes[0].pt = core.Point{X: 0, Y: g.originY}
	g.Notify(ChangeOrigin)
}

// GetOrigin returns the level of the first node.
func (g *Graph) GetOrigin() int {
	return g.nodes[0].pt.Y
}

// LockOrigin stops the first node's level from being dragged.
func (g *Graph) LockOrigin(lock bool) {
	g.originLocked = lock
}

// OriginLocked reports whether the first node's level is locked.
func (g *Graph) OriginLocked() bool {
	return g.originLocked
}

// AllowRemoveNode enables or disables removal of the node equal to target,
// or of every node (and those added later) when target is AllNodes.
func (g *Graph) AllowRemoveNode(enable bool, target core.Point) error {
	if target == AllNodes {
		g.removable = enable
		for i := range g.nodes {
			g.nodes[i].fixed = !enable
		}
		return nil
	}
	for i := range g.nodes {
		if g.nodes[i].pt == target {
			g.nodes[i].fixed = !enable
			return nil
		}
	}
	return fmt.Errorf("no node at %v: %w", target, ErrIndexOutOfRange)
}

// SetRemovable sets the remove-enabled flag of the node at index.
func (g *Graph) SetRemovable(index int, enable bool) error {
	if !g.valid(index) {
		return fmt.Errorf("removable %d: %w", index, ErrIndexOutOfRange)
	}
	g.nodes[index].fixed = !enable
	return nil
}

// Removable reports the remove-enabled flag of the node at index.
func (g *Graph) Removable(index int) bool {
	return g.valid(index) && !g.nodes[index].fixed
}

// CanRemove reports whether RemoveNode(index) would succeed.
func (g *Graph) CanRemove(index int) bool {
	return g.Removable(index) && len(g.nodes) > MinNodes
}
