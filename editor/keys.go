package editor

import "fmt"

// HandleKey processes a command key. Commands act on the node under the
// pointer. Returns true when the host should quit.
func (c *Controller) HandleKey(key rune) (quit bool, err error) {
	if c.mode == ModeDragging {
		switch key {
		case 's', 'x', 'd', 'l':
			// The dragged node keeps its index until pointer-up.
			return false, nil
		}
	}

	switch key {
	case 'q', 3: // q or Ctrl+C to quit
		return true, nil

	case 27: // ESC - abandon gesture
		return false, c.Escape()

	case 'a': // Toggle double-click add
		c.AllowAddNodes(!c.addEnabled)
		c.dirty = true

	case 'c': // Reset to two nodes
		c.Clear()

	case 'o': // Toggle origin lock
		c.graph.LockOrigin(!c.graph.OriginLocked())
		c.dirty = true

	case 's': // Toggle sustain on hovered node
		if c.hover >= 0 {
			return false, c.toggleSustain(c.hover)
		}

	case 'x', 'd': // Remove hovered node
		if c.hover >= 0 {
			return false, c.apply(ActionRemove, c.hover)
		}

	case 'l': // Toggle removal lock on hovered node
		if c.hover >= 0 {
			if c.graph.Removable(c.hover) {
				return false, c.apply(ActionLock, c.hover)
			}
			return false, c.apply(ActionUnlock, c.hover)
		}

	case '1', '2', '3', '4', '5': // Pick a menu entry
		if c.menu != nil {
			n := int(key - '1')
			if n >= len(c.menu.Actions) {
				return false, fmt.Errorf("menu has %d entries", len(c.menu.Actions))
			}
			return false, c.Apply(c.menu.Actions[n])
		}
	}

	return false, nil
}

// Escape closes the menu or abandons a drag, putting the node back where it
// started. Nothing is announced. The gesture ends even when the node can no
// longer be restored.
func (c *Controller) Escape() error {
	switch c.mode {
	case ModeMenu:
		c.CloseMenu()
	case ModeDragging:
		err := c.graph.Place(c.drag.node, c.drag.start)
		c.drag = dragState{node: -1}
		c.mode = ModeIdle
		c.Refit()
		if err != nil {
			return fmt.Errorf("escape: %w", err)
		}
	}
	return nil
}
