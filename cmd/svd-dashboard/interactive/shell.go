// Package interactive provides the command line of svd-dashboard.
package interactive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"golang.org/x/term"

	"github.com/ccalmels/gdb-dashboard-svd/pkg/cmdargs"
	"github.com/ccalmels/gdb-dashboard-svd/pkg/dashboard"
)

// defaultWidth is used when stdout is not a terminal.
const defaultWidth = 80

// Shell reads commands and drives a dashboard.Module.
type Shell struct {
	module *dashboard.Module
	rl     *readline.Instance
	out    io.Writer
	width  func() int
}

// New creates a shell with line editing and tab completion.
func New(module *dashboard.Module) (*Shell, error) {
	s := &Shell{module: module, width: terminalWidth}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          s.prompt(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		AutoComplete:    &Completer{Module: module},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}
	s.rl = rl
	s.out = rl.Stdout()
	return s, nil
}

// newShell creates a shell without a terminal, for tests.
func newShell(module *dashboard.Module, out io.Writer, width int) *Shell {
	return &Shell{module: module, out: out, width: func() int { return width }}
}

func (s *Shell) prompt() string {
	return strings.ToLower(s.module.Label()) + "> "
}

// Close releases the terminal.
func (s *Shell) Close() error {
	if s.rl == nil {
		return nil
	}
	return s.rl.Close()
}

// Run starts the command loop and returns on quit, EOF or ctx cancellation.
func (s *Shell) Run(ctx context.Context) {
	defer s.Close()

	s.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.rl.SetPrompt(s.prompt())
		line, err := s.rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			fmt.Fprintln(s.out, "Exiting...")
			return
		}

		if !s.Execute(line) {
			fmt.Fprintln(s.out, "Exiting...")
			return
		}
	}
}

// Execute runs one command line. It returns false when the shell should
// exit.
func (s *Shell) Execute(line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	cmd, args, _ := strings.Cut(input, " ")
	args = strings.TrimSpace(args)

	switch strings.ToLower(cmd) {
	case "help", "?":
		s.printHelp()

	case "load", "l":
		s.cmdLoad(args)

	case "add", "a":
		s.report(s.module.Add(args))

	case "remove", "rm":
		s.report(s.module.Remove(args))

	case "clear":
		s.module.Clear()

	case "info", "i":
		s.cmdInfo(args)

	case "get", "g":
		s.cmdGet(args)

	case "refresh", "r":
		s.cmdRefresh()

	case "list", "ls":
		s.cmdList()

	case "quit", "exit", "q":
		return false

	default:
		fmt.Fprintf(s.out, "Unknown command: %s (type 'help' for commands)\n", cmd)
	}
	return true
}

func (s *Shell) report(err error) {
	if err != nil {
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
}

func (s *Shell) cmdLoad(args string) {
	paths, err := cmdargs.Tokenize(args)
	if err != nil {
		s.report(err)
		return
	}
	if err := s.module.Load(paths); err != nil {
		s.report(err)
		return
	}
	fmt.Fprintf(s.out, "Loaded %s\n", strings.Join(s.module.Catalog().DeviceNames(), ", "))
}

func (s *Shell) cmdInfo(args string) {
	lines, err := s.module.Info(args)
	if err != nil {
		s.report(err)
		return
	}
	for line := range lines {
		fmt.Fprintln(s.out, line)
	}
}

func (s *Shell) cmdGet(args string) {
	line, err := s.module.Get(args)
	if err != nil {
		s.report(err)
		return
	}
	fmt.Fprintln(s.out, line)
}

func (s *Shell) cmdRefresh() {
	lines := s.module.RefreshLines(s.width())
	if len(lines) == 0 {
		fmt.Fprintln(s.out, "No registers watched")
		return
	}
	fmt.Fprintln(s.out, s.module.Label())
	for _, line := range lines {
		fmt.Fprintln(s.out, line)
	}
}

func (s *Shell) cmdList() {
	watched := s.module.Watched()
	if len(watched) == 0 {
		fmt.Fprintln(s.out, "No registers watched")
		return
	}
	for i, w := range watched {
		fmt.Fprintf(s.out, "%2d: %s\n", i, w)
	}
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `Commands:
  load FILE...                        Load descriptions (replaces the watch list)
  add [/FMT] PERIPHERAL REGISTER      Watch a register
  remove PERIPHERAL REGISTER          Stop watching a register
  clear                               Stop watching every register
  info [PERIPHERAL [REGISTER]]        Describe devices, peripherals or registers
  get [/FMT] PERIPHERAL REGISTER      Read a register once
  refresh                             Read the watched registers
  list                                List the watched registers
  help                                Show this help
  quit                                Exit

Formats: /a address, /x hex, /u unsigned, /t binary, /_t grouped binary
`)
}

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}
