// Package main implements typectl, which builds the heap types declared in
// a manifest and prints how they were readied.
package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/ComedicChimera/olive"

	"github.com/you-not-fish/typeready/internal/config"
	"github.com/you-not-fish/typeready/internal/display"
	"github.com/you-not-fish/typeready/internal/heap"
	"github.com/you-not-fish/typeready/internal/logging"
	"github.com/you-not-fish/typeready/internal/manifest"
	"github.com/you-not-fish/typeready/internal/typeready"
	"github.com/you-not-fish/typeready/internal/types"
)

// Version information
const Version = "0.1.0-dev"

// options are the settings shared by every subcommand.
type options struct {
	configPath string // typeready.toml, looked up in the working directory if empty
	logLevel   string // overrides the configured level if set
}

func main() {
	os.Exit(execute(os.Args))
}

func execute(args []string) int {
	cli := olive.NewCLI("typectl", "typectl builds and inspects declarative heap types", true)
	cli.AddStringArg("config", "c", "the path to typeready.toml", false)
	cli.AddSelectorArg("loglevel", "ll", "the log level", false, []string{"trace", "debug", "info", "warn", "error", "off"})

	buildCmd := cli.AddSubcommand("build", "build the types of a manifest", true)
	buildCmd.AddPrimaryArg("manifest", "the path to the manifest", true)

	treeCmd := cli.AddSubcommand("tree", "print the subclass tree after building a manifest", true)
	treeCmd.AddPrimaryArg("manifest", "the path to the manifest", true)
	treeCmd.AddStringArg("root", "r", "the type at the root of the tree", false)

	slotsCmd := cli.AddSubcommand("slots", "print the slots and dict of a built type", true)
	slotsCmd.AddPrimaryArg("manifest", "the path to the manifest", true)
	slotsCmd.AddStringArg("type", "t", "the full name of the type", true)

	cli.AddSubcommand("steps", "list the readiness steps", false)
	cli.AddSubcommand("version", "print the typectl version", false)

	result, err := olive.ParseArgs(cli, args)
	if err != nil {
		display.PrintError(os.Stderr, "CLI Usage Error", err)
		return 2
	}

	var opts options
	if v, ok := result.Arguments["config"]; ok {
		opts.configPath = v.(string)
	}
	if v, ok := result.Arguments["loglevel"]; ok {
		opts.logLevel = v.(string)
	}

	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		path, _ := subResult.PrimaryArg()
		return runBuild(path, opts)
	case "tree":
		path, _ := subResult.PrimaryArg()
		root := "object"
		if v, ok := subResult.Arguments["root"]; ok {
			root = v.(string)
		}
		return runTree(path, root, opts)
	case "slots":
		path, _ := subResult.PrimaryArg()
		name, _ := subResult.Arguments["type"].(string)
		return runSlots(path, name, opts)
	case "steps":
		return runSteps()
	case "version":
		return runVersion()
	}
	display.PrintError(os.Stderr, "CLI Usage Error", fmt.Errorf("no subcommand given"))
	return 2
}

// newEngine loads the configuration, installs the logger and readies the
// universe.
func newEngine(opts options) (*typeready.Engine, error) {
	path := opts.configPath
	if path == "" {
		path = config.FileName
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	lc := cfg.LogConfig()
	if opts.logLevel != "" {
		lvl, ok := logging.ParseLevel(opts.logLevel)
		if !ok {
			return nil, fmt.Errorf("unknown log level %q", opts.logLevel)
		}
		lc.Level = lvl
	}
	lc.Out = os.Stderr
	logger := logging.Install(lc)

	e := typeready.New(cfg.EngineConfig(&logger))
	if err := e.ReadyUniverse(); err != nil {
		return nil, err
	}
	return e, nil
}

// buildManifest readies the universe and builds the manifest at path.
func buildManifest(path string, opts options) (*typeready.Engine, []*types.Type, int) {
	e, err := newEngine(opts)
	if err != nil {
		display.PrintError(os.Stderr, "Config Error", err)
		return nil, nil, 1
	}
	m, err := manifest.Load(path)
	if err != nil {
		display.PrintError(os.Stderr, "Manifest Error", err)
		return nil, nil, 1
	}
	built, err := manifest.Build(e, m, manifest.NewFuncTable())
	if err != nil {
		display.PrintError(os.Stderr, "Build Error", err)
		return nil, nil, 1
	}
	return e, built, 0
}

// runBuild builds a manifest and prints a summary of every type.
func runBuild(path string, opts options) int {
	e, built, code := buildManifest(path, opts)
	if code != 0 {
		return code
	}
	for _, t := range built {
		if err := display.Summary(os.Stdout, t); err != nil {
			display.PrintError(os.Stderr, "Output Error", err)
			return 1
		}
	}
	display.PrintInfo(os.Stdout, "Built", fmt.Sprintf("%d types from %s", len(built), path))
	if h, ok := e.Config().Heap.(*heap.Heap); ok {
		st := h.Stats()
		display.PrintInfo(os.Stdout, "Heap", fmt.Sprintf("%d live blocks, %d bytes", st.Live, st.Used))
	}
	return 0
}

// runTree builds a manifest and prints the subclass tree below root.
func runTree(path, root string, opts options) int {
	e, _, code := buildManifest(path, opts)
	if code != 0 {
		return code
	}
	t, ok := manifest.Resolve(e, root)
	if !ok {
		display.PrintError(os.Stderr, "Lookup Error", fmt.Errorf("unknown type %q", root))
		return 1
	}
	if err := display.Tree(os.Stdout, t); err != nil {
		display.PrintError(os.Stderr, "Output Error", err)
		return 1
	}
	return 0
}

// runSlots builds a manifest and prints the slots and dict of one type.
func runSlots(path, name string, opts options) int {
	e, _, code := buildManifest(path, opts)
	if code != 0 {
		return code
	}
	t, ok := manifest.Resolve(e, name)
	if !ok {
		display.PrintError(os.Stderr, "Lookup Error", fmt.Errorf("unknown type %q", name))
		return 1
	}
	for _, render := range []func() error{
		func() error { return display.Summary(os.Stdout, t) },
		func() error { return display.Slots(os.Stdout, t) },
		func() error { return display.Dict(os.Stdout, t) },
	} {
		if err := render(); err != nil {
			display.PrintError(os.Stderr, "Output Error", err)
			return 1
		}
	}
	return 0
}

func runSteps() int {
	for i, name := range typeready.StepNames() {
		fmt.Printf("%2d. %s\n", i+1, name)
	}
	return 0
}

func runVersion() int {
	fmt.Printf("typectl version %s\n", Version)
	fmt.Printf("go version %s\n", runtime.Version())
	return 0
}
