// Package config loads the graph configuration and assembles a controller
// from it.
package config

import (
	"encoding/json"
	"envgraph/core"
	"envgraph/editor"
	"envgraph/envelope"
	"envgraph/viewport"
	"fmt"
	"os"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Config holds everything the host sets at construction time.
type Config struct {
	MaxNodes   int     `json:"maxNodes"`
	NodeRadius int     `json:"nodeRadius"`
	ScaleX     float64 `json:"scaleX"`     // Cells per time unit
	ScaleY     float64 `json:"scaleY"`     // Cells per level unit
	ScrollRate int     `json:"scrollRate"` // Cells per scroll unit
	MinimumY   int     `json:"minimumY"`
	MaximumY   int     `json:"maximumY"`
	MaxHeight  int     `json:"maxHeight"`
	EndX       int     `json:"endX"`

	Origin      int  `json:"origin"`
	LockOrigin  bool `json:"lockOrigin"`
	AllowAdd    bool `json:"allowAdd"`
	AllowRemove bool `json:"allowRemove"`

	// Initial shape, loaded with change notifications inhibited
	Nodes   []core.Point `json:"nodes,omitempty"`
	Sustain int          `json:"sustain"`

	Theme Theme `json:"theme"`
}

// Theme holds colours as hex strings ("#rrggbb").
type Theme struct {
	Line    string `json:"line"`
	Node    string `json:"node"`
	Sustain string `json:"sustain"`
	Hover   string `json:"hover"`
	Locked  string `json:"locked"`
	Status  string `json:"status"`
}

// Default returns the configuration used when no file is given. One cell
// is two time units and eight level units, so the default envelope fits an
// 80x24 terminal.
func Default() Config {
	return Config{
		MaxNodes:    16,
		NodeRadius:  1,
		ScaleX:      0.5,
		ScaleY:      0.125,
		ScrollRate:  10,
		MinimumY:    0,
		MaximumY:    127,
		MaxHeight:   127,
		EndX:        100,
		AllowAdd:    true,
		AllowRemove: true,
		Sustain:     -1,
		Theme: Theme{
			Line:    "#5fafd7",
			Node:    "#ffffff",
			Sustain: "#ffaf00",
			Hover:   "#87ff87",
			Locked:  "#af5f5f",
			Status:  "#c0c0c0",
		},
	}
}

// Load reads a JSON configuration file on top of the defaults.
func Load(filename string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(filename)
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse %s: %w", filename, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", filename, err)
	}
	return cfg, nil
}

// Validate checks the configuration is usable.
func (c Config) Validate() error {
	if c.MaxNodes < envelope.MinNodes {
		return fmt.Errorf("maxNodes must be at least %d, got %d", envelope.MinNodes, c.MaxNodes)
	}
	if c.NodeRadius < 0 {
		return fmt.Errorf("nodeRadius must not be negative, got %d", c.NodeRadius)
	}
	if c.ScaleX <= 0 || c.ScaleY <= 0 {
		return fmt.Errorf("scales must be positive, got %v x %v", c.ScaleX, c.ScaleY)
	}
	if c.ScrollRate <= 0 {
		return fmt.Errorf("scrollRate must be positive, got %d", c.ScrollRate)
	}
	if c.MinimumY > c.MaximumY {
		return fmt.Errorf("minimumY %d above maximumY %d", c.MinimumY, c.MaximumY)
	}
	if c.MaxHeight < 0 {
		return fmt.Errorf("maxHeight must not be negative, got %d", c.MaxHeight)
	}
	if c.EndX <= 0 {
		return fmt.Errorf("endX must be positive, got %d", c.EndX)
	}

	if len(c.Nodes) > 0 {
		if err := c.validateNodes(); err != nil {
			return err
		}
	}
	if c.Sustain >= 0 && c.Sustain >= c.nodeCount() {
		return fmt.Errorf("sustain %d out of range for %d nodes", c.Sustain, c.nodeCount())
	}

	_, err := c.Theme.Palette()
	return err
}

func (c Config) validateNodes() error {
	if len(c.Nodes) < envelope.MinNodes {
		return fmt.Errorf("need at least %d nodes, got %d", envelope.MinNodes, len(c.Nodes))
	}
	if len(c.Nodes) > c.MaxNodes {
		return fmt.Errorf("%d nodes exceed maxNodes %d", len(c.Nodes), c.MaxNodes)
	}
	if c.Nodes[0].X != 0 {
		return fmt.Errorf("first node must be at x=0, got %d", c.Nodes[0].X)
	}
	for i, p := range c.Nodes {
		if p.Y < c.MinimumY || p.Y > c.MaximumY {
			return fmt.Errorf("node %d level %d outside [%d, %d]", i, p.Y, c.MinimumY, c.MaximumY)
		}
		if i > 0 && p.X < c.Nodes[i-1].X {
			return fmt.Errorf("node %d at x=%d is left of node %d", i, p.X, i-1)
		}
	}
	return nil
}

func (c Config) nodeCount() int {
	if len(c.Nodes) == 0 {
		return envelope.MinNodes
	}
	return len(c.Nodes)
}

// Mapper returns the coordinate mapper for this configuration.
func (c Config) Mapper() viewport.Mapper {
	return viewport.Mapper{
		Radius:     c.NodeRadius,
		ScaleX:     c.ScaleX,
		ScaleY:     c.ScaleY,
		ScrollRate: c.ScrollRate,
		MaxHeight:  c.MaxHeight,
		MinimumY:   c.MinimumY,
		MaximumY:   c.MaximumY,
	}
}

// Build assembles a controller with the configured shape. The shape is
// loaded with updates inhibited so listeners subscribed later see no
// spurious changes.
func Build(c Config) (*editor.Controller, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	g := envelope.NewGraph(envelope.Options{
		MaxNodes: c.MaxNodes,
		MinimumY: c.MinimumY,
		MaximumY: c.MaximumY,
		EndX:     c.EndX,
	})
	g.InhibitUpdates(true)
	defer g.InhibitUpdates(false)

	g.SetOrigin(c.Origin)
	g.LockOrigin(c.LockOrigin)
	if !c.AllowRemove {
		g.AllowRemoveNode(false, envelope.AllNodes)
	}

	if len(c.Nodes) > 0 {
		// Nodes are sorted, so each addition lands at the end.
		g.SetOrigin(c.Nodes[0].Y)
		if err := g.SetNode(1, c.Nodes[1]); err != nil {
			return nil, err
		}
		for _, p := range c.Nodes[2:] {
			if _, err := g.AddNode(p); err != nil {
				return nil, err
			}
		}
	}
	if c.Sustain >= 0 {
		if err := g.SetSustain(c.Sustain); err != nil {
			return nil, err
		}
	}

	ctrl := editor.NewController(g, c.Mapper())
	ctrl.AllowAddNodes(c.AllowAdd)
	return ctrl, nil
}

// Palette is a parsed theme.
type Palette struct {
	Line, Node, Sustain, Hover, Locked, Status colorful.Color
}

// Palette parses every theme colour.
func (t Theme) Palette() (Palette, error) {
	var p Palette
	fields := []struct {
		name string
		hex  string
		dst  *colorful.Color
	}{
		{"line", t.Line, &p.Line},
		{"node", t.Node, &p.Node},
		{"sustain", t.Sustain, &p.Sustain},
		{"hover", t.Hover, &p.Hover},
		{"locked", t.Locked, &p.Locked},
		{"status", t.Status, &p.Status},
	}
	for _, f := range fields {
		c, err := colorful.Hex(f.hex)
		if err != nil {
			return p, fmt.Errorf("theme %s colour %q: %w", f.name, f.hex, err)
		}
		*f.dst = c
	}
	return p, nil
}
