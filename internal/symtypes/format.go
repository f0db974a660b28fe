package symtypes

import (
	"fmt"
	"io"
)

// FormatKind selects one of the comparator's five output renderings.
type FormatKind string

const (
	FormatNull       FormatKind = "null"
	FormatSymbols    FormatKind = "symbols"
	FormatModSymbols FormatKind = "mod-symbols"
	FormatShort      FormatKind = "short"
	FormatPretty     FormatKind = "pretty"
)

// WriteDiffs renders diffs to w in the named format.
func WriteDiffs(w io.Writer, diffs []Diff, kind FormatKind, useColor bool) error {
	switch kind {
	case FormatNull:
		return nil
	case FormatSymbols:
		return writeSymbols(w, diffs, false)
	case FormatModSymbols:
		return writeSymbols(w, diffs, true)
	case FormatShort:
		return writeShort(w, diffs)
	case FormatPretty:
		return writePretty(w, diffs, useColor)
	default:
		return fmt.Errorf("unknown compare format %q", kind)
	}
}

func kindLabel(k ChangeKind) string {
	switch k {
	case AddedExport:
		return "added"
	case RemovedExport:
		return "removed"
	default:
		return "changed"
	}
}

func writeSymbols(w io.Writer, diffs []Diff, withKind bool) error {
	seen := make(map[string]bool)
	for _, d := range diffs {
		if withKind && d.Kind != ChangedType {
			continue
		}
		if seen[d.Export] {
			continue
		}
		seen[d.Export] = true
		if withKind {
			fmt.Fprintf(w, "%s %s\n", kindLabel(d.Kind), d.Export)
		} else {
			fmt.Fprintln(w, d.Export)
		}
	}
	return nil
}

func writeShort(w io.Writer, diffs []Diff) error {
	for _, d := range diffs {
		switch d.Kind {
		case AddedExport:
			fmt.Fprintf(w, "+ %s\n", d.Export)
		case RemovedExport:
			fmt.Fprintf(w, "- %s\n", d.Export)
		default:
			label := d.Name
			if len(d.Path) > 0 {
				label = d.Path[len(d.Path)-1]
			}
			fmt.Fprintf(w, "! %s: %s\n", d.Export, label)
		}
	}
	return nil
}

func writePretty(w io.Writer, diffs []Diff, useColor bool) error {
	for _, d := range diffs {
		switch d.Kind {
		case AddedExport:
			fmt.Fprintf(w, "Added export: %s\n\n", d.Export)
		case RemovedExport:
			fmt.Fprintf(w, "Removed export: %s\n\n", d.Export)
		case ChangedType:
			fmt.Fprintf(w, "Changed %s (exported as %s):\n", d.Name, d.Export)
			unifiedDiff(w, d.OldLines, d.NewLines, useColor)
			fmt.Fprintln(w)
		}
	}
	return nil
}
