package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/starkandwayne/goutils/ansi"
	"github.com/voxelbrain/goptions"

	"github.com/wayneeseguin/ctrloracle/internal/config"
	"github.com/wayneeseguin/ctrloracle/internal/log"
)

// Version holds the current version of ctrloracle, overridden at build
// time via -ldflags.
var Version = "(development)"

var getopts = func(o interface{}) {
	if err := goptions.Parse(o); err != nil {
		usage()
	}
}

var exit = func(code int) { os.Exit(code) }

var usage = func() {
	goptions.PrintHelp()
	exit(1)
}

func envFlag(varname string) bool {
	val := os.Getenv(varname)
	return val != "" && strings.ToLower(val) != "false" && val != "0"
}

func main() {
	defer crashReporter()

	var options struct {
		Debug   bool   `goptions:"-D, --debug, description='Enable debugging'"`
		Trace   bool   `goptions:"-T, --trace, description='Enable trace mode debugging (very verbose)'"`
		Version bool   `goptions:"-v, --version, description='Display version information'"`
		Color   string `goptions:"--color, description='Control color output (on/off/auto, default: auto)'"`
		Action  goptions.Verbs
		Check   checkOpts  `goptions:"check"`
		Replay  replayOpts `goptions:"replay"`
		Inspect inspectOpts `goptions:"inspect"`
	}
	getopts(&options)

	if envFlag("DEBUG") || options.Debug {
		log.DebugOn = true
	}
	if envFlag("TRACE") || options.Trace {
		log.TraceOn = true
		log.DebugOn = true
	}
	log.Configure(os.Stderr, log.FormatText)

	if options.Version {
		fmt.Fprintf(os.Stdout, "%s - Version %s\n", os.Args[0], Version)
		exit(0)
		return
	}

	shouldEnableColor := false
	switch options.Color {
	case "on":
		shouldEnableColor = true
	case "off":
		shouldEnableColor = false
	case "auto", "":
		shouldEnableColor = isatty.IsTerminal(os.Stderr.Fd())
	default:
		log.PrintfStdErr("Invalid --color option: %s. Must be 'on', 'off', or 'auto'.\n", options.Color)
		exit(1)
		return
	}
	ansi.Color(shouldEnableColor)

	switch options.Action {
	case "check":
		runCheck(options.Check)
	case "replay":
		runReplay(options.Replay)
	case "inspect":
		runInspect(options.Inspect)
	default:
		usage()
		return
	}
	exit(0)
}

// crashReporter recovers a panic anywhere in main, logs a formatted stack
// trace to stderr, and exits non-zero instead of letting the runtime dump
// an unformatted panic -- supplemented from original_source/'s top-level
// exception hook, which logged the same information before re-raising.
func crashReporter() {
	if r := recover(); r != nil {
		log.PrintfStdErr(ansi.Sprintf("@R{panic:} %v\n%s\n", r, debug.Stack()))
		os.Exit(2)
	}
}

// loadConfig builds a config.Manager from an optional config-file path,
// falling back to defaults when path is empty.
func loadConfig(path string) *config.Config {
	m := config.NewManager()
	if path != "" {
		if err := m.Load(path); err != nil {
			log.Fatal(fmt.Sprintf("loading config %s: %v", path, err))
		}
	}
	return m.Config()
}
