package symtypes

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"kabi-tools/internal/kerrors"
	"kabi-tools/internal/worker"
)

// WriteSplitFile regenerates the classic per-object symtypes text for a
// single file's export closure: every non-export record reachable from
// fr's exports, in first-reference-encountered order, followed by the
// exports themselves sorted by name.
func (c *Corpus) WriteSplitFile(w io.Writer, fr *FileRecord) error {
	bw := bufio.NewWriter(w)

	roots := make([]Key, 0, len(fr.Exports))
	names := make([]string, 0, len(fr.Exports))
	for _, h := range fr.Exports {
		names = append(names, c.Interner.Resolve(h))
	}
	sort.Strings(names)
	for _, n := range names {
		roots = append(roots, Key{NS: NamespaceNone, Name: c.Interner.Intern(n)})
	}

	discovered := c.ClosureOrder(fr, roots)
	order := make([]Key, 0, len(discovered))
	for _, key := range discovered {
		if key.NS != NamespaceNone {
			order = append(order, key)
		}
	}
	order = append(order, roots...)

	for _, key := range order {
		fmt.Fprintf(bw, "%s%s", key.NS.Prefix(), c.Interner.Resolve(key.Name))
		for _, t := range c.variantTokens(fr, key) {
			bw.WriteByte(' ')
			writeToken(bw, c.Interner, t)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// SplitAll emits one classic symtypes file per File record in the
// corpus under outDir, fanned out across pool.
func (c *Corpus) SplitAll(ctx context.Context, outDir string, pool *worker.Pool) error {
	paths := make([]string, 0, len(c.Files))
	for p := range c.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	_, err := worker.Run(ctx, pool, len(paths), func(ctx context.Context, i int) (struct{}, error) {
		path := paths[i]
		fr := c.Files[path]
		dest := filepath.Join(outDir, path)
		if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
			return struct{}{}, kerrors.Wrap(kerrors.IO, dest, err)
		}
		f, err := os.Create(dest)
		if err != nil {
			return struct{}{}, kerrors.Wrap(kerrors.IO, dest, err)
		}
		defer f.Close()
		if err := c.WriteSplitFile(f, fr); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})
	return err
}
