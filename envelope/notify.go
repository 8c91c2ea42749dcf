package envelope

// Change identifies the kind of committed mutation. Listeners should not
// depend on it for anything but diagnostics: the graph is re-read through
// its accessors.
type Change int

const (
	ChangeAdd Change = iota
	ChangeRemove
	ChangeClear
	ChangeSet
	ChangeDrag
	ChangeSustain
	ChangeOrigin
)

// String returns the change name for display
func (c Change) String() string {
	switch c {
	case ChangeAdd:
		return "add"
	case ChangeRemove:
		return "remove"
	case ChangeClear:
		return "clear"
	case ChangeSet:
		return "set"
	case ChangeDrag:
		return "drag"
	case ChangeSustain:
		return "sustain"
	case ChangeOrigin:
		return "origin"
	default:
		return "unknown"
	}
}

// Notifier fans change events out to subscribed listeners.
type Notifier struct {
	listeners []func(Change)
	inhibited bool
}

// Subscribe registers fn to be called once per committed change.
func (n *Notifier) Subscribe(fn func(Change)) {
	if fn != nil {
		n.listeners = append(n.listeners, fn)
	}
}

// InhibitUpdates suppresses notifications while the host populates the
// graph programmatically.
func (n *Notifier) InhibitUpdates(inhibit bool) {
	n.inhibited = inhibit
}

// Inhibited reports whether notifications are currently suppressed.
func (n *Notifier) Inhibited() bool {
	return n.inhibited
}

// Notify emits c to every listener unless inhibited.
func (n *Notifier) Notify(c Change) {
	if n.inhibited {
		return
	}
	for _, fn := range n.listeners {
		fn(c)
	}
}
