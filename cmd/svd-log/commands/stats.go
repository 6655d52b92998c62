package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/ccalmels/gdb-dashboard-svd/pkg/log"
)

// Stats holds aggregate statistics about a trace file.
type Stats struct {
	TotalEvents      int
	EventsByCategory map[log.Category]int
	Sessions         map[string]*SessionStats
	Registers        map[string]*RegisterStats
	FailedCommands   int
	TimeRange        struct {
		Start time.Time
		End   time.Time
	}
}

// SessionStats holds statistics for a single dashboard session.
type SessionStats struct {
	FirstSeen time.Time
	LastSeen  time.Time
	Events    int
	Commands  int
}

// RegisterStats holds statistics for a single watched register.
type RegisterStats struct {
	Changes     int
	Unavailable int
	Last        string
}

// CollectStats reads every event of reader.
func CollectStats(reader *log.Reader) (*Stats, error) {
	stats := &Stats{
		EventsByCategory: make(map[log.Category]int),
		Sessions:         make(map[string]*SessionStats),
		Registers:        make(map[string]*RegisterStats),
	}

	for event, err := range reader.Events() {
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByCategory[event.Category]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		sess, ok := stats.Sessions[event.SessionID]
		if !ok {
			sess = &SessionStats{FirstSeen: event.Timestamp, LastSeen: event.Timestamp}
			stats.Sessions[event.SessionID] = sess
		}
		sess.Events++
		if event.Timestamp.After(sess.LastSeen) {
			sess.LastSeen = event.Timestamp
		}

		if event.Command != nil {
			sess.Commands++
			if event.Command.Error != "" {
				stats.FailedCommands++
			}
		}

		target := event.Target()
		if target == "" {
			continue
		}
		reg, ok := stats.Registers[target]
		if !ok {
			reg = &RegisterStats{}
			stats.Registers[target] = reg
		}
		switch event.Category {
		case log.CategoryChange:
			reg.Changes++
			if event.Value != nil {
				reg.Last = event.Value.Current
			}
		case log.CategoryUnavailable:
			reg.Unavailable++
		}
	}

	return stats, nil
}

// RunStats analyzes the trace file and prints statistics.
func RunStats(path string, w io.Writer) error {
	reader, err := log.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open trace file: %w", err)
	}
	defer reader.Close()

	stats, err := CollectStats(reader)
	if err != nil {
		return err
	}
	printStats(w, stats)
	return nil
}

func printStats(w io.Writer, stats *Stats) {
	fmt.Fprintln(w, "=== Register Watch Trace Statistics ===")
	fmt.Fprintln(w)

	if stats.TotalEvents > 0 {
		fmt.Fprintf(w, "Time Range: %s to %s\n",
			stats.TimeRange.Start.Format(time.RFC3339),
			stats.TimeRange.End.Format(time.RFC3339))
		fmt.Fprintf(w, "Duration:   %s\n", stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Second))
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "Total Events: %d\n", stats.TotalEvents)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Events by Category:")
	for _, cat := range []log.Category{log.CategoryChange, log.CategoryUnavailable, log.CategoryCommand} {
		if count := stats.EventsByCategory[cat]; count > 0 {
			fmt.Fprintf(w, "  %-13s %d\n", cat.String()+":", count)
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "Sessions: %d\n", len(stats.Sessions))
	if len(stats.Sessions) > 0 {
		type sessInfo struct {
			id    string
			stats *SessionStats
		}
		sessions := make([]sessInfo, 0, len(stats.Sessions))
		for id, ss := range stats.Sessions {
			sessions = append(sessions, sessInfo{id, ss})
		}
		sort.Slice(sessions, func(i, j int) bool {
			return sessions[i].stats.FirstSeen.Before(sessions[j].stats.FirstSeen)
		})

		fmt.Fprintln(w)
		for _, s := range sessions {
			duration := s.stats.LastSeen.Sub(s.stats.FirstSeen).Round(time.Millisecond)
			fmt.Fprintf(w, "  [%s] %d events, %d commands, duration %s\n",
				shortenSessionID(s.id), s.stats.Events, s.stats.Commands, duration)
		}
	}

	if len(stats.Registers) > 0 {
		names := make([]string, 0, len(stats.Registers))
		for name := range stats.Registers {
			names = append(names, name)
		}
		sort.Strings(names)

		fmt.Fprintln(w)
		fmt.Fprintln(w, "Registers:")
		for _, name := range names {
			r := stats.Registers[name]
			fmt.Fprintf(w, "  %-24s %d changes", name, r.Changes)
			if r.Unavailable > 0 {
				fmt.Fprintf(w, ", %d unavailable", r.Unavailable)
			}
			if r.Last != "" {
				fmt.Fprintf(w, ", last %s", r.Last)
			}
			fmt.Fprintln(w)
		}
	}

	if stats.FailedCommands > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Failed Commands: %d\n", stats.FailedCommands)
	}
}
