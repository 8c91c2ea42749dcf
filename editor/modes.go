package editor

// Mode represents the current interaction state
type Mode int

const (
	ModeIdle     Mode = iota // No gesture in progress
	ModeDragging             // A node follows the pointer
	ModeMenu                 // Context menu open for a node
)

// String returns the mode name for display
func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "IDLE"
	case ModeDragging:
		return "DRAG"
	case ModeMenu:
		return "MENU"
	default:
		return "UNKNOWN"
	}
}

// GetMode returns the current mode
func (c *Controller) GetMode() Mode {
	return c.mode
}
