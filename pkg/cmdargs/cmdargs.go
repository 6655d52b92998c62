// Package cmdargs splits command arguments into positional names and a
// format option, and drives hierarchical completion of those names.
package cmdargs

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/google/shlex"

	"github.com/ccalmels/gdb-dashboard-svd/pkg/format"
)

// Completer returns the candidates for the next positional token, given the
// positional tokens already typed and the prefix of the one being typed.
type Completer func(resolved []string, prefix string) []string

// Tokenize splits raw with shell-like quoting rules.
func Tokenize(raw string) ([]string, error) {
	tokens, err := shlex.Split(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to parse arguments: %w", err)
	}
	return tokens, nil
}

// SplitOption separates the format option token, if any, from the
// positional tokens. More than one option token is an error.
func SplitOption(tokens []string) (positional []string, option string, err error) {
	positional = make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if !format.IsOption(tok) {
			positional = append(positional, tok)
			continue
		}
		if option != "" {
			return nil, "", fmt.Errorf("%w: %s and %s", format.ErrAmbiguousFormat, option, tok)
		}
		option = tok
	}
	return positional, option, nil
}

// Parse tokenizes raw, splits off the option and parses it.
func Parse(raw string) ([]string, format.Option, error) {
	tokens, err := Tokenize(raw)
	if err != nil {
		return nil, format.OptionNone, err
	}
	positional, option, err := SplitOption(tokens)
	if err != nil {
		return nil, format.OptionNone, err
	}
	if option == "" {
		return positional, format.OptionNone, nil
	}
	opt, err := format.ParseOption(option)
	if err != nil {
		return nil, format.OptionNone, err
	}
	return positional, opt, nil
}

// CompleteHierarchical returns the candidates for the token being typed at
// the end of text. word is the host's idea of that token; it is used only
// when text itself ends on a separator.
//
// A token starting with the option marker completes to the option tokens.
// Otherwise option tokens already typed are dropped and the remaining
// positional tokens are passed to positional.
func CompleteHierarchical(text, word string, positional Completer) []string {
	done, partial := splitPartial(text)
	if partial == "" {
		partial = word
	}

	if format.IsOption(partial) {
		return filterPrefix(format.Tokens(), partial)
	}
	if positional == nil {
		return nil
	}

	// Options already typed, even conflicting ones, do not count as names.
	resolved := make([]string, 0, len(done))
	for _, tok := range done {
		if !format.IsOption(tok) {
			resolved = append(resolved, tok)
		}
	}
	return positional(resolved, partial)
}

// splitPartial returns the completed tokens of text and the token being
// typed, which is empty when text ends with whitespace.
func splitPartial(text string) (done []string, partial string) {
	tokens, err := shlex.Split(text)
	if err != nil {
		// Unterminated quote while typing.
		tokens = strings.Fields(text)
	}
	if len(tokens) == 0 {
		return nil, ""
	}
	last := text[len(text)-1]
	if unicode.IsSpace(rune(last)) {
		return tokens, ""
	}
	return tokens[:len(tokens)-1], tokens[len(tokens)-1]
}

func filterPrefix(names []string, prefix string) []string {
	var out []string
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			out = append(out, n)
		}
	}
	return out
}
