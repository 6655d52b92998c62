// Command svd-dashboard watches microcontroller peripheral registers by name.
//
// Register names, addresses and layouts come from CMSIS-SVD (or YAML)
// descriptions; values are read from a GDB remote stub (gdbserver, OpenOCD,
// pyOCD) or from a simulated memory image.
//
// Usage:
//
//	svd-dashboard [flags] [FILE...]
//
// Flags:
//
//	-config string        Configuration file path
//	-image string         Simulated memory image (YAML)
//	-remote string        GDB remote stub address (host:port)
//	-timeout duration     Remote request timeout (default 2s)
//	-pointer-bits uint    Target pointer width (default 32)
//	-byte-order string    Target byte order: little, big (default "little")
//	-record string        Record watch events to this trace file
//	-watch value          Register to watch at startup (repeatable)
//	-log-level string     Log level: debug, info, warn, error (default "info")
//	-no-color             Disable styled output
//
// Examples:
//
//	# Watch a timer through OpenOCD
//	svd-dashboard -remote localhost:3333 -watch "TIMER0 CTRL" STM32F407.svd
//
//	# Offline, against a memory image, recording changes
//	svd-dashboard -image snapshot.yaml -record session.wlog chip.svd
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/ccalmels/gdb-dashboard-svd/cmd/svd-dashboard/interactive"
	"github.com/ccalmels/gdb-dashboard-svd/pkg/dashboard"
	wlog "github.com/ccalmels/gdb-dashboard-svd/pkg/log"
	"github.com/ccalmels/gdb-dashboard-svd/pkg/target"
)

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string     { return strings.Join(*s, ", ") }
func (s *stringList) Set(v string) error { *s = append(*s, v); return nil }

var (
	config  Config
	watches stringList
)

func init() {
	flag.StringVar(&config.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&config.Image, "image", "", "Simulated memory image (YAML)")
	flag.StringVar(&config.Remote, "remote", "", "GDB remote stub address (host:port)")
	flag.DurationVar(&config.Timeout, "timeout", target.DefaultRemoteTimeout, "Remote request timeout")
	flag.UintVar(&config.PointerBits, "pointer-bits", 32, "Target pointer width")
	flag.StringVar(&config.ByteOrder, "byte-order", "little", "Target byte order: little, big")
	flag.StringVar(&config.Record, "record", "", "Record watch events to this trace file")
	flag.Var(&watches, "watch", "Register to watch at startup, \"[/fmt] PERIPHERAL REGISTER\" (repeatable)")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.BoolVar(&config.NoColor, "no-color", false, "Disable styled output")
	flag.Usage = usage
}

func main() {
	flag.Parse()
	config.Descriptions = flag.Args()
	config.Watch = watches

	if config.ConfigFile != "" {
		file, err := loadConfigFile(config.ConfigFile)
		if err != nil {
			log.Fatalf("%v", err)
		}
		set := explicitFlags(flag.CommandLine)
		set["svd"] = flag.NArg() > 0
		config.merge(file, set)
	}

	if err := validateConfig(config); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	logger := setupLogging(config.LogLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	acc, closeAcc, err := openTarget(ctx, config)
	if err != nil {
		log.Fatalf("Failed to open target: %v", err)
	}
	defer closeAcc()

	recorder, closeRecorder, err := openRecorder(config.Record, logger)
	if err != nil {
		log.Fatalf("Failed to open trace file: %v", err)
	}
	defer closeRecorder()

	styles := dashboard.DefaultStyles()
	if config.NoColor {
		styles = dashboard.NewStyles(noColorRenderer())
	}

	module := dashboard.New(dashboard.Options{
		Accessor: acc,
		Logger:   logger,
		Recorder: recorder,
		Styles:   &styles,
	})
	logger.Debug("session started", "session", module.SessionID())

	if len(config.Descriptions) > 0 {
		if err := module.Load(config.Descriptions); err != nil {
			log.Fatalf("Failed to load descriptions: %v", err)
		}
	}
	for _, w := range config.Watch {
		if err := module.Add(w); err != nil {
			log.Printf("Warning: cannot watch %q: %v", w, err)
		}
	}

	shell, err := interactive.New(module)
	if err != nil {
		log.Fatalf("Failed to start shell: %v", err)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		shell.Close()
	}()

	shell.Run(ctx)
}

// setupLogging configures std log flags and returns the operational logger.
func setupLogging(level string) *slog.Logger {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	var lvl slog.Level
	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
		lvl = slog.LevelDebug
	case "warn":
		log.SetFlags(log.Ltime)
		lvl = slog.LevelWarn
	case "error":
		log.SetFlags(log.Ltime)
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// openTarget builds the accessor selected by the configuration.
func openTarget(ctx context.Context, c Config) (target.Accessor, func(), error) {
	noop := func() {}

	switch {
	case c.Image != "":
		mem, err := target.LoadImage(c.Image)
		if err != nil {
			return nil, noop, err
		}
		log.Printf("Target: image %s (%d-bit)", c.Image, mem.PointerBits())
		return mem, noop, nil

	case c.Remote != "":
		order, err := target.ParseByteOrder(c.ByteOrder)
		if err != nil {
			return nil, noop, err
		}
		remote, err := target.DialRemote(ctx, c.Remote, target.RemoteConfig{
			PointerBits: c.PointerBits,
			ByteOrder:   order,
			Timeout:     c.Timeout,
		})
		if err != nil {
			return nil, noop, err
		}
		log.Printf("Target: remote %s (%d-bit, %s endian)", c.Remote, c.PointerBits, order)
		return remote, func() {
			if err := remote.Close(); err != nil {
				log.Printf("Error closing remote: %v", err)
			}
		}, nil

	default:
		log.Println("Target: none, values will be unavailable")
		return target.Detached{Bits: c.PointerBits}, noop, nil
	}
}

// openRecorder sets up event recording. Debug logging echoes events too.
func openRecorder(path string, logger *slog.Logger) (wlog.Logger, func(), error) {
	echo := wlog.NewSlogAdapter(logger)
	if path == "" {
		return echo, func() {}, nil
	}

	file, err := wlog.NewFileLogger(path)
	if err != nil {
		return nil, func() {}, err
	}
	log.Printf("Recording to %s", path)
	return wlog.NewMultiLogger(echo, file), func() {
		if err := file.Close(); err != nil {
			log.Printf("Error closing trace file: %v", err)
		}
	}, nil
}

func noColorRenderer() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(os.Stdout)
	r.SetColorProfile(termenv.Ascii)
	return r
}

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] [FILE...]\n\nFlags:\n", os.Args[0])
	flag.PrintDefaults()
}
