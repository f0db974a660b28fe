// Package format parses the "--format=TYPE[:FILE]" flag syntax shared
// by ksymtypes and ksymvers compare commands and opens the destination
// each format entry writes to.
package format

import (
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"kabi-tools/internal/kerrors"
)

// Spec is one parsed "--format" entry: a format name and the
// destination it writes to ("-" or empty means stdout).
type Spec struct {
	Type string
	Dest string
}

// ParseSpec splits a single "--format" argument value into its type and
// destination. "pretty" means stdout; "pretty:out.txt" means a file.
func ParseSpec(arg string) Spec {
	if idx := strings.IndexByte(arg, ':'); idx >= 0 {
		return Spec{Type: arg[:idx], Dest: arg[idx+1:]}
	}
	return Spec{Type: arg, Dest: "-"}
}

// Destination is an opened output target plus whether it should be
// colorized (stdout connected to a terminal, or explicitly forced).
type Destination struct {
	io.Writer
	Color bool
	close func() error
}

// Close releases any file opened by Open.
func (d *Destination) Close() error {
	if d.close == nil {
		return nil
	}
	return d.close()
}

// Open opens spec's destination for writing, truncating an existing
// file. "-" or an empty destination opens stdout. Colorization is on for
// stdout attached to a terminal, on for any destination when forceColor
// is set, and off whenever noColor is set.
func Open(spec Spec, forceColor, noColor bool) (*Destination, error) {
	if spec.Dest == "" || spec.Dest == "-" {
		useColor := term.IsTerminal(int(os.Stdout.Fd()))
		if forceColor {
			useColor = true
		}
		if noColor {
			useColor = false
		}
		return &Destination{Writer: os.Stdout, Color: useColor}, nil
	}

	f, err := os.Create(spec.Dest)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.OutputError, spec.Dest, err)
	}
	useColor := forceColor && !noColor
	return &Destination{Writer: f, Color: useColor, close: f.Close}, nil
}
