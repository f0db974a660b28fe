// Package filter loads a symbol-name filter list (one pattern per line,
// "#"-prefixed comments and blank lines ignored) and matches names
// against it. Literal patterns (no wildcard metacharacters) are kept in
// a set for O(1) lookup; only patterns actually containing wildcard
// characters pay for a Match scan, mirroring the split the original
// tool's text::Filter performs for performance.
package filter

import (
	"bufio"
	"io"
	"strings"

	"kabi-tools/internal/kerrors"
	"kabi-tools/internal/wildcard"
)

// Filter matches symbol names against a loaded pattern list.
type Filter struct {
	literals  map[string]struct{}
	wildcards []string
}

func isWildcard(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[\\")
}

// New builds a Filter directly from a list of patterns.
func New(patterns []string) *Filter {
	f := &Filter{literals: make(map[string]struct{})}
	for _, p := range patterns {
		f.add(p)
	}
	return f
}

func (f *Filter) add(pattern string) {
	if isWildcard(pattern) {
		f.wildcards = append(f.wildcards, pattern)
		return
	}
	f.literals[pattern] = struct{}{}
}

// Load reads a filter-symbol-list file from r.
func Load(path string, r io.Reader) (*Filter, error) {
	f := &Filter{literals: make(map[string]struct{})}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		f.add(text)
	}
	if err := scanner.Err(); err != nil {
		return nil, kerrors.Wrap(kerrors.IO, path, err)
	}
	return f, nil
}

// Matches reports whether name satisfies any pattern in the filter. An
// empty Filter (no patterns loaded) matches everything, so that an
// absent --filter-symbol-list is equivalent to "keep all symbols".
func (f *Filter) Matches(name string) bool {
	if f == nil || (len(f.literals) == 0 && len(f.wildcards) == 0) {
		return true
	}
	if _, ok := f.literals[name]; ok {
		return true
	}
	for _, p := range f.wildcards {
		if wildcard.Match(name, p) {
			return true
		}
	}
	return false
}
