// Package render draws the controller state onto a cell matrix: the curve,
// its nodes, the context menu and a status line.
package render

import (
	"envgraph/canvas"
	"envgraph/core"
	"envgraph/editor"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Node glyphs
const (
	GlyphNode    = '●'
	GlyphSustain = '◆'
	GlyphLocked  = '■'
)

// Frame renders a full screen of the given size. The bottom row holds the
// status line; the rest is the graph view.
func Frame(c *editor.Controller, width, height int) *canvas.Matrix {
	m := canvas.NewMatrix(width, height)
	if m == nil {
		return nil
	}
	Graph(m, c)
	Menu(m, c)
	m.DrawText(0, height-1, Status(c, width), canvas.InkStatus)
	return m
}

// Graph draws the segments between nodes, then the nodes on top.
func Graph(m *canvas.Matrix, c *editor.Controller) {
	mp := c.Mapper()
	g := c.Graph()
	nodes := g.Nodes()

	cells := make([]core.Point, len(nodes))
	for i, p := range nodes {
		cells[i] = mp.ToScreen(p)
	}
	for i := 1; i < len(cells); i++ {
		m.DrawLine(cells[i-1], cells[i], lineRune(cells[i-1], cells[i]), canvas.InkLine)
	}

	hot := c.GetDragNode()
	if hot < 0 {
		hot = c.GetHover()
	}
	for i, s := range cells {
		glyph, ink := rune(GlyphNode), canvas.InkNode
		switch {
		case i == g.GetSustain():
			glyph, ink = GlyphSustain, canvas.InkSustain
		case !g.Removable(i):
			glyph, ink = GlyphLocked, canvas.InkLocked
		}
		if i == hot {
			ink = canvas.InkHover
		}
		m.Set(s, glyph, ink)
	}
}

// lineRune picks a character matching the segment's slope. Screen Y grows
// downward, so a rising envelope is drawn with '╱'.
func lineRune(a, b core.Point) rune {
	dx, dy := b.X-a.X, b.Y-a.Y
	switch {
	case dy == 0:
		return '─'
	case dx == 0:
		return '│'
	case (dx > 0) == (dy < 0):
		return '╱'
	default:
		return '╲'
	}
}

func menuLabel(i int, a editor.Action) string {
	return fmt.Sprintf("%d %s", i+1, a)
}

// MenuBounds lays out the open menu next to where it was requested, moved
// inside view when it would overflow.
func MenuBounds(menu *editor.Menu, view core.Bounds) core.Bounds {
	w := 0
	for i, a := range menu.Actions {
		if n := runewidth.StringWidth(menuLabel(i, a)); n > w {
			w = n
		}
	}
	width, height := w+4, len(menu.Actions)+2

	x, y := menu.At.X+1, menu.At.Y
	if x+width > view.Max.X {
		x = menu.At.X - width
	}
	if y+height > view.Max.Y {
		y = view.Max.Y - height
	}
	if x < view.Min.X {
		x = view.Min.X
	}
	if y < view.Min.Y {
		y = view.Min.Y
	}
	return core.Rect(x, y, width, height)
}

// MenuItemAt returns the index of the menu entry under s, or -1.
func MenuItemAt(menu *editor.Menu, view core.Bounds, s core.Point) int {
	b := MenuBounds(menu, view).Inset(1)
	if !b.Contains(s) {
		return -1
	}
	return s.Y - b.Min.Y
}

// Menu draws the open context menu, if any.
func Menu(m *canvas.Matrix, c *editor.Controller) {
	menu := c.GetMenu()
	if menu == nil {
		return
	}
	w, h := m.Size()
	b := MenuBounds(menu, core.Rect(0, 0, w, h-1))
	m.FillRect(b, ' ', canvas.InkMenu)
	m.DrawBox(b, canvas.InkMenu)
	for i, a := range menu.Actions {
		m.DrawText(b.Min.X+2, b.Min.Y+1+i, menuLabel(i, a), canvas.InkMenu)
	}
}

// Status describes the graph and the pointer, cut to width cells.
func Status(c *editor.Controller, width int) string {
	g := c.Graph()
	var parts []string

	parts = append(parts, c.GetMode().String())
	parts = append(parts, fmt.Sprintf("nodes %d/%d", g.GetNodeCount(), g.GetMaxNodes()))
	if s := g.GetSustain(); s >= 0 {
		parts = append(parts, fmt.Sprintf("sustain %d", s))
	}

	node := c.GetDragNode()
	if node < 0 {
		node = c.GetHover()
	}
	if p, err := g.GetNode(node); err == nil {
		parts = append(parts, fmt.Sprintf("node %d (%d,%d)", node, p.X, p.Y))
	} else {
		v := c.Mapper().ToValue(c.GetPointer())
		parts = append(parts, fmt.Sprintf("t=%d level=%.1f", v.X, g.Level(float64(v.X))))
	}

	var flags []string
	if !c.AddNodesAllowed() {
		flags = append(flags, "add off")
	}
	if g.OriginLocked() {
		flags = append(flags, "origin locked")
	}
	if len(flags) > 0 {
		parts = append(parts, "["+strings.Join(flags, ", ")+"]")
	}

	return runewidth.Truncate(" "+strings.Join(parts, "  "), width, "…")
}
