package main

import (
	"context"
	"os"

	"kabi-tools/internal/intern"
	"kabi-tools/internal/kerrors"
	"kabi-tools/internal/symtypes"
	"kabi-tools/internal/worker"
)

// loadCorpus loads path as a directory of classic per-file symtypes
// files, or as a single consolidated symtypes file, depending on what
// path actually is.
func loadCorpus(ctx context.Context, path string, in *intern.Interner, pool *worker.Pool) (*symtypes.Corpus, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.IO, path, err)
	}
	if info.IsDir() {
		return symtypes.BuildFromDirectory(ctx, path, in, pool)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, kerrors.Wrap(kerrors.IO, path, err)
	}
	defer f.Close()
	return symtypes.ReadConsolidated(path, f, in)
}
