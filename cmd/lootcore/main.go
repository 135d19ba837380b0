// LootCore is a deterministic, data-driven progression economy engine.
// Usage: lootcore [--version] [--plain] [--script <file>] [--trace] [--seed <n>] <catalog_directory>
package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/nathoo/lootcore/cli"
	"github.com/nathoo/lootcore/engine"
	"github.com/nathoo/lootcore/loader"
	"github.com/nathoo/lootcore/tui"
)

// Set via -ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// config holds environment overrides. Flags win over environment.
type config struct {
	Seed    uint32 `env:"LOOTCORE_SEED"`
	SaveDir string `env:"LOOTCORE_SAVE_DIR"`
	Plain   bool   `env:"LOOTCORE_PLAIN"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading environment: %v\n", err)
		os.Exit(1)
	}

	plain := cfg.Plain
	trace := false
	seed := cfg.Seed
	seedSet := cfg.Seed != 0
	var catalogDir string
	var scriptFile string

	args := os.Args[1:]
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--version":
			fmt.Printf("lootcore %s (commit %s, built %s)\n", version, commit, date)
			return
		case "--plain":
			plain = true
		case "--trace":
			trace = true
		case "--seed":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--seed requires a number\n")
				os.Exit(1)
			}
			i++
			n, err := strconv.ParseUint(args[i], 10, 32)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Invalid seed %q: %v\n", args[i], err)
				os.Exit(1)
			}
			seed = uint32(n)
			seedSet = true
		case "--script":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "--script requires a file path\n")
				os.Exit(1)
			}
			i++
			scriptFile = args[i]
		default:
			if catalogDir == "" {
				catalogDir = args[i]
			}
		}
	}

	if catalogDir == "" {
		fmt.Fprintf(os.Stderr, "Usage: lootcore [--version] [--plain] [--script <file>] [--trace] [--seed <n>] <catalog_directory>\n")
		os.Exit(1)
	}

	if !seedSet {
		seed = uint32(time.Now().UnixNano())
	}

	// Load and compile the Lua catalog.
	defs, err := loader.Load(catalogDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading catalog: %v\n", err)
		os.Exit(1)
	}

	eng := engine.New(defs, seed)

	// Script mode: open file, force plain, echo commands.
	if scriptFile != "" {
		f, err := os.Open(scriptFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening script: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		c := cli.New(eng)
		c.In = f
		c.EchoInput = true
		c.Trace = trace
		if cfg.SaveDir != "" {
			c.SaveDir = cfg.SaveDir
		}
		c.Run()
		return
	}

	// Use plain CLI if --plain flag or stdout is not a terminal.
	if plain || !isTerminal() {
		c := cli.New(eng)
		c.Trace = trace
		if cfg.SaveDir != "" {
			c.SaveDir = cfg.SaveDir
		}
		c.Run()
		return
	}

	if err := tui.Run(eng); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// isTerminal returns true if stdout is a terminal (not piped/redirected).
func isTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
