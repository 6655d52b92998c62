package interactive

import (
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/chzyer/readline"

	"github.com/ccalmels/gdb-dashboard-svd/pkg/dashboard"
)

var commands = []string{"add", "clear", "get", "help", "info", "list", "load", "quit", "refresh", "remove"}

// Completer implements readline.AutoCompleter for the shell commands.
type Completer struct {
	Module *dashboard.Module
}

// Do returns the completions of the word before pos, as suffixes to insert,
// and the length of that word.
func (c *Completer) Do(line []rune, pos int) ([][]rune, int) {
	text := string(line[:pos])
	partial := lastWord(text)

	cmd, rest, found := strings.Cut(strings.TrimLeftFunc(text, unicode.IsSpace), " ")
	var candidates []string
	if !found {
		candidates = prefixed(commands, partial)
	} else {
		rest = strings.TrimLeftFunc(rest, unicode.IsSpace)
		candidates = c.arguments(strings.ToLower(cmd), rest, partial)
	}

	out := make([][]rune, 0, len(candidates))
	for _, cand := range candidates {
		suffix := strings.TrimPrefix(cand, partial)
		if !strings.HasSuffix(cand, string(filepath.Separator)) {
			suffix += " "
		}
		out = append(out, []rune(suffix))
	}
	return out, len([]rune(partial))
}

func (c *Completer) arguments(cmd, rest, partial string) []string {
	switch cmd {
	case "add", "a", "get", "g", "info", "i":
		return c.Module.CompleteAdd(rest, partial)
	case "remove", "rm":
		return c.Module.CompleteRemove(rest, partial)
	case "load", "l":
		return completeFiles(partial)
	default:
		return nil
	}
}

// lastWord returns the word being typed at the end of text.
func lastWord(text string) string {
	fields := strings.Fields(text)
	if len(fields) == 0 || strings.LastIndexFunc(text, unicode.IsSpace) == len(text)-1 {
		return ""
	}
	return fields[len(fields)-1]
}

func prefixed(names []string, prefix string) []string {
	var out []string
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	return out
}

// completeFiles lists the files and directories starting with partial.
// Directories end with a separator.
func completeFiles(partial string) []string {
	matches, err := filepath.Glob(partial + "*")
	if err != nil {
		return nil
	}
	for i, m := range matches {
		if fi, err := os.Stat(m); err == nil && fi.IsDir() {
			matches[i] = m + string(filepath.Separator)
		}
	}
	return matches
}

// Compile-time interface satisfaction check.
var _ readline.AutoCompleter = (*Completer)(nil)
