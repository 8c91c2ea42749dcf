// Package terminal runs the envelope editor in a tcell screen. It turns
// tcell mouse, key and resize events into controller calls and paints the
// rendered frame back onto the screen.
package terminal

import (
	"envgraph/canvas"
	"envgraph/config"
	"envgraph/core"
	"envgraph/editor"
	"envgraph/envelope"
	"envgraph/render"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// DoubleClickInterval is the longest gap between two presses of the same
// button on the same cell that still counts as a double-click.
const DoubleClickInterval = 400 * time.Millisecond

// mouseButtons are the buttons whose press and release are tracked.
const mouseButtons = tcell.ButtonPrimary | tcell.ButtonSecondary

type click struct {
	button tcell.ButtonMask
	at     core.Point
	when   time.Time
}

// Host owns the screen while the editor runs.
type Host struct {
	screen tcell.Screen
	ctrl   *editor.Controller
	styles map[canvas.Ink]tcell.Style
	log    *slog.Logger

	buttons tcell.ButtonMask // Buttons held at the last mouse event
	last    click            // Last press, for double-click detection
	message string           // Rejected operation, shown until the next input
	redraw  bool
}

// Open creates and initialises the terminal screen.
func Open() (tcell.Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialise screen: %w", err)
	}
	return s, nil
}

// NewHost binds a controller to an initialised screen. A nil logger
// discards the debug trace.
func NewHost(screen tcell.Screen, ctrl *editor.Controller, p config.Palette, log *slog.Logger) *Host {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	h := &Host{
		screen: screen,
		ctrl:   ctrl,
		styles: Styles(p),
		log:    log,
		redraw: true,
	}
	ctrl.Graph().Subscribe(h.onChange)
	return h
}

// Styles maps each ink to a tcell style using the theme colours.
func Styles(p config.Palette) map[canvas.Ink]tcell.Style {
	fg := func(c colorful.Color) tcell.Style {
		r, g, b := c.RGB255()
		return tcell.StyleDefault.Foreground(tcell.NewRGBColor(int32(r), int32(g), int32(b)))
	}
	return map[canvas.Ink]tcell.Style{
		canvas.InkNone:    tcell.StyleDefault,
		canvas.InkLine:    fg(p.Line),
		canvas.InkNode:    fg(p.Node),
		canvas.InkSustain: fg(p.Sustain).Bold(true),
		canvas.InkHover:   fg(p.Hover).Bold(true),
		canvas.InkLocked:  fg(p.Locked),
		canvas.InkMenu:    fg(p.Node),
		canvas.InkStatus:  fg(p.Status).Reverse(true),
	}
}

// onChange runs inside controller calls; the redraw is queued behind the
// current event.
func (h *Host) onChange(c envelope.Change) {
	h.log.Debug("change", "kind", c.String(), "nodes", h.ctrl.Graph().GetNodeCount())
	if err := h.screen.PostEvent(tcell.NewEventInterrupt(c)); err != nil {
		h.redraw = true
	}
}

// Run processes events until the user quits or the screen is finalised.
func (h *Host) Run() error {
	h.screen.EnableMouse()
	h.screen.EnableFocus()
	h.screen.HideCursor()

	w, ht := h.screen.Size()
	h.ctrl.Resize(w, ht-1)
	h.draw()

	for {
		ev := h.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if h.Handle(ev) {
			return nil
		}
		if h.ctrl.TakeDirty() || h.redraw {
			h.draw()
		}
	}
}

// Handle dispatches one event. Returns true when the user asked to quit.
func (h *Host) Handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		w, ht := ev.Size()
		h.ctrl.Resize(w, ht-1)
		h.screen.Sync()
		h.redraw = true
		h.log.Debug("resize", "width", w, "height", ht)

	case *tcell.EventKey:
		h.message = ""
		return h.handleKey(ev)

	case *tcell.EventMouse:
		h.handleMouse(ev)

	case *tcell.EventFocus:
		// A release outside the window is never reported; coming back in
		// means the button is up.
		if ev.Focused {
			h.buttons = 0
			h.ctrl.OnPointerEnter(false)
		}

	case *tcell.EventInterrupt:
		h.redraw = true
	}
	return false
}

func (h *Host) handleKey(ev *tcell.EventKey) bool {
	h.redraw = true
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return true
	case tcell.KeyEscape:
		h.report(h.ctrl.Escape())
	case tcell.KeyUp:
		h.ctrl.HandleArrowKey('U')
	case tcell.KeyDown:
		h.ctrl.HandleArrowKey('D')
	case tcell.KeyLeft:
		h.ctrl.HandleArrowKey('L')
	case tcell.KeyRight:
		h.ctrl.HandleArrowKey('R')
	case tcell.KeyHome:
		h.ctrl.HandleArrowKey('H')
	case tcell.KeyEnd:
		h.ctrl.HandleArrowKey('E')
	case tcell.KeyRune:
		quit, err := h.ctrl.HandleKey(ev.Rune())
		h.report(err)
		return quit
	}
	return false
}

func (h *Host) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	s := core.Point{X: x, Y: y}
	all := ev.Buttons()

	switch {
	case all&tcell.WheelUp != 0:
		h.ctrl.Scroll(0, -1)
		return
	case all&tcell.WheelDown != 0:
		h.ctrl.Scroll(0, 1)
		return
	case all&tcell.WheelLeft != 0:
		h.ctrl.Scroll(-1, 0)
		return
	case all&tcell.WheelRight != 0:
		h.ctrl.Scroll(1, 0)
		return
	}

	buttons := all & mouseButtons
	pressed := buttons &^ h.buttons
	released := h.buttons &^ buttons
	h.buttons = buttons

	if released&tcell.ButtonPrimary != 0 {
		h.ctrl.OnPointerUp(s)
	} else if pressed == 0 {
		h.ctrl.OnPointerMove(s)
	}

	if pressed != 0 {
		h.message = ""
		h.redraw = true
	}
	if pressed&tcell.ButtonPrimary != 0 {
		h.primaryDown(s, ev.When())
	}
	if pressed&tcell.ButtonSecondary != 0 {
		h.secondaryDown(s, ev.When())
	}
}

func (h *Host) primaryDown(s core.Point, when time.Time) {
	if h.isDouble(tcell.ButtonPrimary, s, when) {
		h.report(h.ctrl.OnDoubleClick(s))
		return
	}
	if menu := h.ctrl.GetMenu(); menu != nil {
		if i := render.MenuItemAt(menu, h.ctrl.Mapper().View(), s); i >= 0 {
			h.last = click{}
			h.report(h.ctrl.Apply(menu.Actions[i]))
			return
		}
	}
	h.ctrl.OnPointerDown(s)
}

func (h *Host) secondaryDown(s core.Point, when time.Time) {
	if h.isDouble(tcell.ButtonSecondary, s, when) {
		h.report(h.ctrl.OnSecondaryDoubleClick(s))
		return
	}
	h.ctrl.OnSecondaryClick(s)
}

// isDouble records a press and reports whether it completes a double-click.
func (h *Host) isDouble(b tcell.ButtonMask, s core.Point, when time.Time) bool {
	prev := h.last
	h.last = click{button: b, at: s, when: when}
	if prev.button != b || prev.at != s || when.Sub(prev.when) > DoubleClickInterval {
		return false
	}
	h.last = click{}
	return true
}

func (h *Host) report(err error) {
	if err == nil {
		return
	}
	h.message = err.Error()
	h.log.Info("rejected", "err", err)
}

func (h *Host) style(ink canvas.Ink) tcell.Style {
	if st, ok := h.styles[ink]; ok {
		return st
	}
	return tcell.StyleDefault
}

func (h *Host) draw() {
	h.redraw = false
	w, ht := h.screen.Size()
	m := render.Frame(h.ctrl, w, ht)
	if m == nil {
		return
	}
	if h.message != "" {
		row := core.Rect(0, ht-1, w, 1)
		m.FillRect(row, ' ', canvas.InkStatus)
		m.DrawText(0, ht-1, " "+h.message, canvas.InkStatus)
	}

	for y := 0; y < ht; y++ {
		for x := 0; x < w; x++ {
			cell := m.Get(core.Point{X: x, Y: y})
			if cell.Rune == 0 {
				continue
			}
			h.screen.SetContent(x, y, cell.Rune, nil, h.style(cell.Ink))
		}
	}
	h.screen.Show()
}
