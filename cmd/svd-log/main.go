// Command svd-log is a tool for viewing and analyzing register watch traces.
//
// Trace files are written by svd-dashboard when run with the -record flag.
//
// Usage:
//
//	svd-log <command> [flags] <file.wlog>
//
// Commands:
//
//	view     View trace in human-readable format
//	export   Export trace to JSON or CSV format
//	filter   Filter trace and write to new file
//	stats    Show statistics about the trace
//
// Examples:
//
//	# View all events
//	svd-log view session.wlog
//
//	# View the changes of one register
//	svd-log view -peripheral TIMER0 -register CTRL -category change session.wlog
//
//	# Export to CSV
//	svd-log export -format csv -o session.csv session.wlog
//
//	# Keep one session and save to a new file
//	svd-log filter -session 1a2b3c4d-... -o one.wlog session.wlog
//
//	# Show statistics
//	svd-log stats session.wlog
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ccalmels/gdb-dashboard-svd/cmd/svd-log/commands"
	"github.com/ccalmels/gdb-dashboard-svd/pkg/log"
)

const usage = `svd-log - Register Watch Trace Analyzer

Usage:
  svd-log <command> [flags] <file.wlog>

Commands:
  view     View trace in human-readable format
  export   Export trace to JSON or CSV format
  filter   Filter trace and write to new file
  stats    Show statistics about the trace

Use "svd-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "view":
		runView(args)
	case "export":
		runExport(args)
	case "filter":
		runFilter(args)
	case "stats":
		runStats(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

// newFlagSet creates a flag set with the usage banner of a command.
func newFlagSet(name, summary, synopsis string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "svd-log %s - %s\n\nUsage:\n  svd-log %s\n\nFlags:\n", name, summary, synopsis)
		fs.PrintDefaults()
	}
	return fs
}

// filterFlags registers the event filter flags on fs.
func filterFlags(fs *flag.FlagSet) *commands.FilterFlags {
	var f commands.FilterFlags
	fs.StringVar(&f.Session, "session", "", "Filter by session ID")
	fs.StringVar(&f.Category, "category", "", "Filter by category (change, unavailable, command)")
	fs.StringVar(&f.Peripheral, "peripheral", "", "Filter by peripheral name")
	fs.StringVar(&f.Register, "register", "", "Filter by register name")
	fs.StringVar(&f.TimeStart, "time-start", "", "Filter by start time (RFC3339)")
	fs.StringVar(&f.TimeEnd, "time-end", "", "Filter by end time (RFC3339)")
	return &f
}

// parse parses args and returns the trace path and the filter.
func parse(fs *flag.FlagSet, args []string, ff *commands.FilterFlags) (string, log.Filter) {
	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: trace file path required")
		fs.Usage()
		os.Exit(1)
	}

	var filter log.Filter
	if ff != nil {
		var err error
		if filter, err = ff.Build(); err != nil {
			fatal(err)
		}
	}
	return fs.Arg(0), filter
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

func runView(args []string) {
	fs := newFlagSet("view", "View trace in human-readable format", "view [flags] <file.wlog>")
	ff := filterFlags(fs)

	path, filter := parse(fs, args, ff)
	if err := commands.RunView(path, filter, os.Stdout); err != nil {
		fatal(err)
	}
}

func runExport(args []string) {
	fs := newFlagSet("export", "Export trace to JSON or CSV format", "export [flags] <file.wlog>")
	format := fs.String("format", "jsonl", "Output format (jsonl, csv)")
	output := fs.String("o", "", "Output file (default: stdout)")
	ff := filterFlags(fs)

	path, filter := parse(fs, args, ff)
	if err := commands.RunExport(path, filter, *format, *output); err != nil {
		fatal(err)
	}
}

func runFilter(args []string) {
	fs := newFlagSet("filter", "Filter trace and write to new file", "filter [flags] -o <out.wlog> <file.wlog>")
	output := fs.String("o", "", "Output file (required)")
	ff := filterFlags(fs)

	path, filter := parse(fs, args, ff)
	if *output == "" {
		fmt.Fprintln(os.Stderr, "Error: output file (-o) required")
		fs.Usage()
		os.Exit(1)
	}

	if err := commands.RunFilter(path, filter, *output, os.Stdout); err != nil {
		fatal(err)
	}
}

func runStats(args []string) {
	fs := newFlagSet("stats", "Show statistics about the trace", "stats <file.wlog>")

	path, _ := parse(fs, args, nil)
	if err := commands.RunStats(path, os.Stdout); err != nil {
		fatal(err)
	}
}
