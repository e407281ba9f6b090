package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"sync/atomic"
	"time"

	"github.com/mattjoyce/ucikit/internal/board"
	"github.com/mattjoyce/ucikit/internal/config"
	"github.com/mattjoyce/ucikit/internal/console"
	"github.com/mattjoyce/ucikit/internal/doctor"
	"github.com/mattjoyce/ucikit/internal/engine"
	"github.com/mattjoyce/ucikit/internal/events"
	"github.com/mattjoyce/ucikit/internal/log"
	"github.com/mattjoyce/ucikit/internal/search"
	"github.com/mattjoyce/ucikit/internal/session"
)

var (
	version   = "0.1.0-dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	os.Exit(runCLI(os.Args[1:]))
}

func runCLI(cliArgs []string) int {
	// GUIs start engines without arguments.
	if len(cliArgs) < 1 {
		return runEngine(nil)
	}

	cmd := cliArgs[0]
	args := cliArgs[1:]

	switch cmd {
	case "run":
		if hasHelpFlag(args) {
			printRunHelp()
			return 0
		}
		return runEngine(args)
	case "bench":
		if hasHelpFlag(args) {
			printBenchHelp()
			return 0
		}
		return runBench(args)
	case "config":
		return runConfigNoun(args)
	case "version", "--version":
		return runVersion(args)
	case "help", "--help", "-h":
		printUsage()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		return 1
	}
}

// --- ENGINE ---

func runEngine(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to configuration file (.yaml or .toml)")
	historyPath := fs.String("history", defaultHistoryPath(), "Command history file for interactive use")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}

	cfg, err := config.Resolve(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	src := console.NewStdin(*historyPath)
	defer src.Close()

	return serve(cfg, src, os.Stdout, os.Stderr, os.Exit)
}

// serve runs the protocol loop until end of input or quit and returns the
// exit code recorded by the session.
func serve(cfg *config.Config, src session.LineSource, stdout, stderr io.Writer, exit func(int)) int {
	log.Setup(log.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	logger := log.WithComponent("main")
	logger.Info("ucikit starting", "version", version, "config", cfg.SourcePath, "digest", cfg.Digest)

	hub := events.NewHub(0)
	stopWatch := watchLifecycle(hub, func(ev events.Event) {
		log.WithTask(ev.TaskID).Debug("task lifecycle", "event", ev.Kind)
	})
	defer stopWatch()

	// Faults raised by the worker record their code from its goroutine.
	var code atomic.Int32
	sess, eng, err := build(cfg, stdout, stderr, hub, func(c int) {
		code.Store(int32(c))
		exit(c)
	})
	if err != nil {
		fmt.Fprintf(stderr, "Failed to start engine: %v\n", err)
		return 1
	}
	defer sess.Close()

	if err := eng.ApplyOverrides(cfg.OptionOverrides()); err != nil {
		fmt.Fprintf(stderr, "Failed to apply options: %v\n", err)
		return 1
	}
	if cfg.Worker.AwakeOnStart {
		sess.Worker.Awake()
	}

	if err := sess.Run(context.Background(), src); err != nil {
		logger.Error("main loop failed", "error", err)
		return 1
	}
	return int(code.Load())
}

// watchLifecycle hands every worker lifecycle event on hub to sink until the
// returned func is called. The func waits for sink to drain.
func watchLifecycle(hub *events.Hub, sink func(events.Event)) func() {
	ch, cancel := hub.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range ch {
			sink(ev)
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

// build wires the engine onto a fresh session. hub may be nil when nobody
// watches task lifecycles.
func build(cfg *config.Config, stdout, stderr io.Writer, hub *events.Hub, exit func(int)) (*session.Session, *engine.Engine, error) {
	sess := session.New(session.Config{
		Out:    stdout,
		Err:    stderr,
		Exit:   exit,
		Events: hub,
	})

	applier := board.Applier{}
	searcher := search.New(applier)
	eng, err := engine.New(sess, engine.Identity{
		Name:          cfg.Engine.Name,
		Author:        cfg.Engine.Author,
		InfoPerSecond: cfg.Info.MaxPerSecond,
	}, applier, searcher, searcher)
	if err != nil {
		return nil, nil, err
	}
	return sess, eng, nil
}

func defaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".ucikit_history")
}

// --- BENCH ---

func runBench(args []string) int {
	fs := flag.NewFlagSet("bench", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to configuration file (.yaml or .toml)")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}

	cfg, err := config.Resolve(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}
	log.Setup(log.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})

	sess, eng, err := build(cfg, os.Stdout, os.Stderr, nil, os.Exit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start engine: %v\n", err)
		return 1
	}
	defer sess.Close()

	if err := eng.Bench(); err != nil {
		fmt.Fprintf(os.Stderr, "Bench failed: %v\n", err)
		return 1
	}
	return 0
}

// --- CONFIG ---

func runConfigNoun(args []string) int {
	if len(args) < 1 {
		printConfigNounHelp(os.Stderr)
		return 1
	}
	if isHelpToken(args[0]) {
		printConfigNounHelp(os.Stdout)
		return 0
	}

	action := args[0]
	actionArgs := args[1:]

	switch action {
	case "check":
		return runConfigCheck(actionArgs)
	case "digest":
		return runConfigDigest(actionArgs)
	case "show":
		return runConfigShow(actionArgs)
	default:
		fmt.Fprintf(os.Stderr, "Unknown config action: %s\n", action)
		return 1
	}
}

func runConfigCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to configuration file (.yaml or .toml)")
	jsonOut := fs.Bool("json", false, "Output results as JSON")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}

	cfg, err := config.Resolve(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	// Options are only known once the engine has registered them. Nothing
	// is applied: the registry is discarded after validation.
	sess, _, err := build(cfg, io.Discard, io.Discard, nil, func(int) {})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start engine: %v\n", err)
		return 1
	}
	defer sess.Close()

	result := doctor.New(cfg, sess.Options).Validate()

	if *jsonOut {
		out, err := doctor.FormatJSON(result)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render JSON: %v\n", err)
			return 1
		}
		fmt.Println(out)
	} else {
		fmt.Print(doctor.FormatHuman(result))
	}

	if !result.Valid {
		return 1
	}
	return 0
}

func runConfigDigest(args []string) int {
	fs := flag.NewFlagSet("digest", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: ucikit config digest <file>")
		return 1
	}

	h, err := config.ComputeBlake3Hash(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash %s: %v\n", fs.Arg(0), err)
		return 1
	}
	fmt.Printf("%s  %s\n", h, fs.Arg(0))
	return 0
}

func runConfigShow(args []string) int {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to configuration file (.yaml or .toml)")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}

	cfg, err := config.Resolve(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	if cfg.SourcePath != "" {
		fmt.Printf("source: %s\n", cfg.SourcePath)
		fmt.Printf("digest: %s\n", cfg.Digest)
	} else {
		fmt.Println("source: (defaults)")
	}
	fmt.Printf("engine.name: %s\n", cfg.Engine.Name)
	fmt.Printf("engine.author: %s\n", cfg.Engine.Author)
	fmt.Printf("log.level: %s\n", cfg.Log.Level)
	fmt.Printf("log.format: %s\n", cfg.Log.Format)
	fmt.Printf("worker.awake_on_start: %t\n", cfg.Worker.AwakeOnStart)
	fmt.Printf("info.max_per_second: %g\n", cfg.Info.MaxPerSecond)
	overrides := cfg.OptionOverrides()
	for _, name := range cfg.OptionNames() {
		fmt.Printf("options.%s: %s\n", name, overrides[name])
	}
	return 0
}

// --- VERSION ---

type versionInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

func runVersion(args []string) int {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	jsonOut := fs.Bool("json", false, "Output version metadata as JSON")
	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(os.Stderr, "Flag error: %v\n", err)
		return 1
	}
	if fs.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "Usage: ucikit version [--json]")
		return 1
	}

	info := currentVersionInfo()

	if *jsonOut {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to render version JSON: %v\n", err)
			return 1
		}
		fmt.Println(string(data))
		return 0
	}

	fmt.Printf("ucikit %s\n", info.Version)
	fmt.Printf("commit: %s\n", info.Commit)
	fmt.Printf("built_at: %s\n", info.BuildTime)
	return 0
}

func currentVersionInfo() versionInfo {
	info := versionInfo{
		Version:   strings.TrimSpace(version),
		Commit:    "unknown",
		BuildTime: "unknown",
	}

	if info.Version == "" {
		info.Version = "0.0.0-dev"
	}

	resolvedCommit := strings.TrimSpace(gitCommit)
	if resolvedCommit == "" || resolvedCommit == "unknown" {
		resolvedCommit = strings.TrimSpace(readBuildSetting("vcs.revision"))
	}
	if resolvedCommit != "" {
		info.Commit = shortenCommit(resolvedCommit)
	}

	resolvedBuildTime := strings.TrimSpace(buildDate)
	if resolvedBuildTime == "" || resolvedBuildTime == "unknown" {
		resolvedBuildTime = strings.TrimSpace(readBuildSetting("vcs.time"))
	}
	if normalized, ok := normalizeBuildTimeUTC(resolvedBuildTime); ok {
		info.BuildTime = normalized
	}

	return info
}

func shortenCommit(commit string) string {
	if len(commit) <= 12 {
		return commit
	}
	return commit[:12]
}

func normalizeBuildTimeUTC(raw string) (string, bool) {
	if raw == "" || raw == "unknown" {
		return "", false
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return "", false
	}
	return t.UTC().Format(time.RFC3339), true
}

func readBuildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}

// --- HELP ---

func isHelpToken(s string) bool {
	return s == "help" || s == "--help" || s == "-h"
}

func hasHelpFlag(args []string) bool {
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return true
		}
	}
	return false
}

func printUsage() {
	fmt.Print(`ucikit - UCI chess engine

Usage:
  ucikit [command] [flags]

With no command, ucikit speaks UCI on stdin/stdout.

Commands:
  run               Speak UCI on stdin/stdout (default)
  bench             Search the bench positions and print "<nodes> nodes <nps> nps"
  config check      Validate configuration against the engine's options
  config show       Print the resolved configuration
  config digest     Print the BLAKE3 digest of a config file
  version           Show version information
  help              Show this help message

Environment:
  UCIKIT_CONFIG       Config file used when --config is not given
  UCIKIT_LOG_LEVEL    Overrides log.level
  UCIKIT_LOG_FORMAT   Overrides log.format
  UCIKIT_ENGINE_NAME  Overrides engine.name
`)
}

func printRunHelp() {
	fmt.Print(`Usage: ucikit run [--config <file>] [--history <file>]

Reads UCI commands from stdin and writes responses to stdout. Logs go to
stderr. Option overrides from the config are applied before the first
command is read.
`)
}

func printBenchHelp() {
	fmt.Print(`Usage: ucikit bench [--config <file>]

Searches a fixed set of positions and prints "<nodes> nodes <nps> nps".
`)
}

func printConfigNounHelp(w io.Writer) {
	fmt.Fprint(w, `Usage: ucikit config <action> [flags]

Actions:
  check [--config <file>] [--json]   Validate config and option overrides
  show [--config <file>]             Print the resolved configuration
  digest <file>                      Print the BLAKE3 digest of a file
`)
}
