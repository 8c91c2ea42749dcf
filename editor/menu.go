package editor

import (
	"envgraph/core"
	"envgraph/envelope"
	"fmt"
)

// Action is a context menu command
type Action int

const (
	ActionSetSustain   Action = iota // Mark node as sustain
	ActionClearSustain               // Remove the sustain marker
	ActionRemove                     // Remove node
	ActionLock                       // Disable removal of node
	ActionUnlock                     // Enable removal of node
)

// String returns the menu label of the action
func (a Action) String() string {
	switch a {
	case ActionSetSustain:
		return "Set sustain"
	case ActionClearSustain:
		return "Clear sustain"
	case ActionRemove:
		return "Remove node"
	case ActionLock:
		return "Lock node"
	case ActionUnlock:
		return "Unlock node"
	default:
		return "Unknown"
	}
}

// Menu is the context menu for one node. The host lays it out and reports
// the chosen action through Apply.
type Menu struct {
	Node    int        // Node the menu acts on
	At      core.Point // Where the menu was requested
	Actions []Action
}

// OnSecondaryClick opens the context menu for the node under s. Returns nil
// when no node is hit.
func (c *Controller) OnSecondaryClick(s core.Point) *Menu {
	c.pointer = s
	if c.mode == ModeDragging {
		return nil
	}
	i := c.hitTest(s)
	if i < 0 {
		c.CloseMenu()
		return nil
	}

	m := &Menu{Node: i, At: s}
	if c.graph.GetSustain() == i {
		m.Actions = append(m.Actions, ActionClearSustain)
	} else {
		m.Actions = append(m.Actions, ActionSetSustain)
	}
	if c.graph.CanRemove(i) {
		m.Actions = append(m.Actions, ActionRemove)
	}
	if c.graph.Removable(i) {
		m.Actions = append(m.Actions, ActionLock)
	} else {
		m.Actions = append(m.Actions, ActionUnlock)
	}

	c.menu = m
	c.mode = ModeMenu
	c.dirty = true
	return m
}

// OnSecondaryDoubleClick toggles the sustain marker on the node under s.
func (c *Controller) OnSecondaryDoubleClick(s core.Point) error {
	c.pointer = s
	c.CloseMenu()
	i := c.hitTest(s)
	if i < 0 {
		return nil
	}
	return c.toggleSustain(i)
}

func (c *Controller) toggleSustain(i int) error {
	c.dirty = true
	if c.graph.GetSustain() == i {
		c.graph.ClearSustain()
		return nil
	}
	return c.graph.SetSustain(i)
}

// GetMenu returns the open context menu, or nil.
func (c *Controller) GetMenu() *Menu {
	return c.menu
}

// CloseMenu dismisses the context menu.
func (c *Controller) CloseMenu() {
	if c.menu == nil {
		return
	}
	c.menu = nil
	c.mode = ModeIdle
	c.dirty = true
}

// Apply runs action a from the open menu and closes it.
func (c *Controller) Apply(a Action) error {
	if c.menu == nil {
		return fmt.Errorf("%v: no menu open", a)
	}
	i := c.menu.Node
	c.CloseMenu()
	return c.apply(a, i)
}

func (c *Controller) apply(a Action, i int) error {
	switch a {
	case ActionSetSustain:
		return c.graph.SetSustain(i)
	case ActionClearSustain:
		if c.graph.GetSustain() == i {
			c.graph.ClearSustain()
		}
		return nil
	case ActionRemove:
		if err := c.graph.RemoveNode(i); err != nil {
			return err
		}
		c.hover = -1
		c.Refit()
		return nil
	case ActionLock:
		return c.graph.SetRemovable(i, false)
	case ActionUnlock:
		return c.graph.SetRemovable(i, true)
	}
	return fmt.Errorf("action %d: %w", a, envelope.ErrOperationDisabled)
}
