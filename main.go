package main

import (
	"encoding/json"
	"envgraph/config"
	"envgraph/core"
	"envgraph/editor"
	"envgraph/terminal"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
)

func main() {
	// Define command line flags
	var (
		configFile = flag.String("config", "", "JSON configuration file")
		printNodes = flag.Bool("print", false, "Print the final nodes as JSON on exit")
		logFile    = flag.String("log", "", "Write a debug trace to this file")
		help       = flag.Bool("help", false, "Show help")
	)

	registerOverrides(flag.CommandLine)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Edit an envelope graph with the mouse.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nMouse:\n")
		fmt.Fprintf(os.Stderr, "  drag node           Move node\n")
		fmt.Fprintf(os.Stderr, "  double-click        Add node, or remove the node under the pointer\n")
		fmt.Fprintf(os.Stderr, "  right-click node    Node menu\n")
		fmt.Fprintf(os.Stderr, "  right double-click  Toggle sustain\n")
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  s  Toggle sustain    x  Remove node    l  Lock node\n")
		fmt.Fprintf(os.Stderr, "  a  Toggle adding     o  Lock origin    c  Clear\n")
		fmt.Fprintf(os.Stderr, "  arrows  Scroll       ESC  Cancel       q  Quit\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -config adsr.json\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -max-nodes 4 -print > nodes.json\n", os.Args[0])
	}

	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}

	cfg := config.Default()
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	// Flags override file values
	applyOverrides(&cfg, flag.CommandLine)

	logger, closeLog, err := openLog(*logFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	ctrl, err := run(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *printNodes {
		if err := writeNodes(os.Stdout, ctrl); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
}

// registerOverrides defines the flags that replace configuration values.
func registerOverrides(fs *flag.FlagSet) {
	fs.Int("max-nodes", 0, "Maximum number of nodes (overrides config)")
	fs.Int("end-x", 0, "Time of the end node (overrides config)")
	fs.Int("origin", 0, "Level of the origin node (overrides config)")
	fs.Bool("lock-origin", false, "Keep the origin level fixed")
	fs.Bool("no-add", false, "Disable adding nodes by double-click")
	fs.Bool("no-remove", false, "Disable removing nodes")
}

// applyOverrides copies the override flags given on the command line onto
// cfg. Flags left unset keep the file or default value.
func applyOverrides(cfg *config.Config, fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		g, ok := f.Value.(flag.Getter)
		if !ok {
			return
		}
		switch f.Name {
		case "max-nodes":
			cfg.MaxNodes = g.Get().(int)
		case "end-x":
			cfg.EndX = g.Get().(int)
		case "origin":
			cfg.Origin = g.Get().(int)
		case "lock-origin":
			cfg.LockOrigin = g.Get().(bool)
		case "no-add":
			cfg.AllowAdd = !g.Get().(bool)
		case "no-remove":
			cfg.AllowRemove = !g.Get().(bool)
		}
	})
}

// run edits the configured graph until the user quits.
func run(cfg config.Config, logger *slog.Logger) (*editor.Controller, error) {
	ctrl, err := config.Build(cfg)
	if err != nil {
		return nil, err
	}
	palette, err := cfg.Theme.Palette()
	if err != nil {
		return nil, err
	}

	screen, err := terminal.Open()
	if err != nil {
		return nil, err
	}
	defer screen.Fini()

	host := terminal.NewHost(screen, ctrl, palette, logger)
	logger.Info("start", "maxNodes", cfg.MaxNodes, "endX", cfg.EndX)
	return ctrl, host.Run()
}

// openLog returns a debug logger writing to filename, or a discarding one.
func openLog(filename string) (*slog.Logger, func(), error) {
	if filename == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := os.Create(filename)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log: %w", err)
	}
	h := slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(h), func() { f.Close() }, nil
}

// nodeDump is the -print output.
type nodeDump struct {
	Nodes   []core.Point `json:"nodes"`
	Sustain int          `json:"sustain"`
}

// writeNodes prints the graph in the same shape the config file accepts.
func writeNodes(w io.Writer, ctrl *editor.Controller) error {
	g := ctrl.Graph()
	data, err := json.MarshalIndent(nodeDump{Nodes: g.Nodes(), Sustain: g.GetSustain()}, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
