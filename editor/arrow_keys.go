package editor

// HandleArrowKey scrolls the view by one unit
func (c *Controller) HandleArrowKey(direction rune) {
	switch direction {
	case 'U': // Arrow Up
		c.Scroll(0, -1)
	case 'D': // Arrow Down
		c.Scroll(0, 1)
	case 'L': // Arrow Left
		c.Scroll(-1, 0)
	case 'R': // Arrow Right
		c.Scroll(1, 0)
	case 'H': // Home key
		c.mapper.ScrollTo(0, 0, c.Extent())
		c.dirty = true
	case 'E': // End key
		ext := c.Extent()
		c.mapper.ScrollTo(ext.Width(), 0, ext)
		c.dirty = true
	}
}
