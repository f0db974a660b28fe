// Package symvers parses Module.symvers-style export summaries and
// compares two such summaries against a severity rule set.
package symvers

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"kabi-tools/internal/kerrors"
	"kabi-tools/internal/rules"
)

// Export is one exported-symbol line of a symvers file.
type Export struct {
	CRC       uint32
	Name      string
	Module    string
	GPLOnly   bool
	Namespace string
}

// ParseLine parses one non-blank symvers line:
// "0x<crc> <name> <module> EXPORT_SYMBOL[_GPL] [namespace]".
func ParseLine(path string, line int, text string) (*Export, error) {
	fields := strings.Fields(text)
	if len(fields) < 4 {
		return nil, kerrors.Atf(kerrors.MalformedSymvers, path, line, "expected at least 4 fields, got %d", len(fields))
	}

	crcStr := fields[0]
	if !strings.HasPrefix(crcStr, "0x") {
		return nil, kerrors.Atf(kerrors.MalformedSymvers, path, line, "CRC %q missing '0x' prefix", crcStr)
	}
	crc64, err := strconv.ParseUint(crcStr[2:], 16, 32)
	if err != nil {
		return nil, kerrors.Atf(kerrors.MalformedSymvers, path, line, "invalid CRC %q: %v", crcStr, err)
	}

	name := fields[1]
	module := fields[2]

	var gpl bool
	switch fields[3] {
	case "EXPORT_SYMBOL":
		gpl = false
	case "EXPORT_SYMBOL_GPL":
		gpl = true
	default:
		return nil, kerrors.Atf(kerrors.MalformedSymvers, path, line, "unknown export kind %q", fields[3])
	}

	namespace := ""
	switch {
	case len(fields) == 5:
		namespace = fields[4]
	case len(fields) > 5:
		return nil, kerrors.Atf(kerrors.MalformedSymvers, path, line, "unexpected trailing tokens after namespace")
	}

	return &Export{
		CRC:       uint32(crc64),
		Name:      name,
		Module:    module,
		GPLOnly:   gpl,
		Namespace: namespace,
	}, nil
}

// Corpus is a loaded symvers summary, keyed by exported symbol name.
type Corpus struct {
	Exports map[string]*Export
}

// Load parses a symvers file from r.
func Load(path string, r io.Reader) (*Corpus, error) {
	c := &Corpus{Exports: make(map[string]*Export)}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		exp, err := ParseLine(path, line, text)
		if err != nil {
			return nil, err
		}
		if prev, dup := c.Exports[exp.Name]; dup {
			return nil, kerrors.Atf(kerrors.MalformedSymvers, path, line,
				"duplicate export %q (previously defined with CRC 0x%08x)", exp.Name, prev.CRC)
		}
		c.Exports[exp.Name] = exp
	}
	if err := scanner.Err(); err != nil {
		return nil, kerrors.Wrap(kerrors.IO, path, err)
	}
	return c, nil
}

// ChangeKind classifies a difference found between two symvers corpora.
type ChangeKind int

const (
	Added ChangeKind = iota
	Removed
	CRCChanged
	ModuleChanged
	NamespaceChanged
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case CRCChanged:
		return "crc changed"
	case ModuleChanged:
		return "module changed"
	case NamespaceChanged:
		return "namespace changed"
	default:
		return "unknown"
	}
}

// Diff is a single difference found by Compare.
type Diff struct {
	Kind      ChangeKind
	Name      string
	Old       *Export
	New       *Export
	Tolerated bool
}

// Compare diffs newC against oldC, consulting rs (which may be nil) to
// mark non-added changes as tolerated.
func Compare(oldC, newC *Corpus, rs *rules.Rules) []Diff {
	names := make(map[string]bool)
	for n := range oldC.Exports {
		names[n] = true
	}
	for n := range newC.Exports {
		names[n] = true
	}
	sorted := make([]string, 0, len(names))
	for n := range names {
		sorted = append(sorted, n)
	}
	sort.Strings(sorted)

	var diffs []Diff
	for _, name := range sorted {
		oldExp, inOld := oldC.Exports[name]
		newExp, inNew := newC.Exports[name]

		switch {
		case !inOld && inNew:
			diffs = append(diffs, Diff{Kind: Added, Name: name, New: newExp})
		case inOld && !inNew:
			diffs = append(diffs, Diff{
				Kind: Removed, Name: name, Old: oldExp,
				Tolerated: rs.IsTolerated(name, oldExp.Module, oldExp.Namespace),
			})
		default:
			kind, changed := classify(oldExp, newExp)
			if !changed {
				continue
			}
			diffs = append(diffs, Diff{
				Kind: kind, Name: name, Old: oldExp, New: newExp,
				Tolerated: rs.IsTolerated(name, newExp.Module, newExp.Namespace),
			})
		}
	}
	return diffs
}

func classify(a, b *Export) (ChangeKind, bool) {
	switch {
	case a.CRC != b.CRC:
		return CRCChanged, true
	case a.Module != b.Module:
		return ModuleChanged, true
	case a.Namespace != b.Namespace:
		return NamespaceChanged, true
	default:
		return 0, false
	}
}

// HasFailures reports whether diffs contains any non-tolerated change
// other than a newly added export: additions never fail a comparison.
func HasFailures(diffs []Diff) bool {
	for _, d := range diffs {
		if d.Kind != Added && !d.Tolerated {
			return true
		}
	}
	return false
}

// FormatKind selects one of the compare command's output renderings.
type FormatKind string

const (
	FormatNull    FormatKind = "null"
	FormatSymbols FormatKind = "symbols"
	FormatPretty  FormatKind = "pretty"
)

// WriteDiffs renders diffs to w in the named format.
func WriteDiffs(w io.Writer, diffs []Diff, kind FormatKind) error {
	switch kind {
	case FormatNull:
		return nil
	case FormatSymbols:
		for _, d := range diffs {
			fmt.Fprintln(w, d.Name)
		}
		return nil
	case FormatPretty, "":
		for _, d := range diffs {
			tolerated := ""
			if d.Tolerated {
				tolerated = " (tolerated)"
			}
			fmt.Fprintf(w, "%s: %s%s\n", d.Name, d.Kind, tolerated)
		}
		return nil
	default:
		return fmt.Errorf("unknown symvers compare format %q", kind)
	}
}
