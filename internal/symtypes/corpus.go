package symtypes

import (
	"bufio"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"kabi-tools/internal/intern"
	"kabi-tools/internal/kerrors"
	"kabi-tools/internal/worker"
)

// Variant is one distinct token-sequence body recorded under a Key.
// Most Keys carry exactly one Variant; a second Variant appears only
// when two files define genuinely different bodies for the same
// namespaced name.
type Variant struct {
	Tokens []Token
}

// FileRecord is a consolidated corpus's per-file entry: the symbols it
// exports, plus which non-default Variant its closure resolves each
// referenced Key to.
type FileRecord struct {
	Path      string
	Exports   []intern.Handle
	VariantOf map[Key]int
}

// Corpus is an in-memory symtypes corpus: a deduplicated type table
// plus one FileRecord per source file.
type Corpus struct {
	Interner   *intern.Interner
	Types      map[Key][]Variant
	Files      map[string]*FileRecord
	exportFile map[intern.Handle]string
}

// NewCorpus creates an empty Corpus backed by in.
func NewCorpus(in *intern.Interner) *Corpus {
	return &Corpus{
		Interner:   in,
		Types:      make(map[Key][]Variant),
		Files:      make(map[string]*FileRecord),
		exportFile: make(map[intern.Handle]string),
	}
}

// fileProto is what a single parse worker produces: the records it saw,
// in file order, with no type-table mutation. Merging two fileProtos
// into the shared Corpus happens later, single-threaded, in sorted path
// order, so variant assignment stays deterministic regardless of which
// worker finishes parsing first.
type fileProto struct {
	Path    string
	Order   []Key
	Bodies  map[Key][]Token
	Exports []Key
}

func parseFile(path string, r io.Reader, in *intern.Interner) (*fileProto, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	fp := &fileProto{Path: path, Bodies: make(map[Key][]Token)}
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		words, err := splitWords(path, line, text)
		if err != nil {
			return nil, err
		}

		ns, name := ParseNamespace(words[0])
		if name == "" {
			return nil, kerrors.Atf(kerrors.MalformedRecord, path, line, "empty record name")
		}
		key := Key{NS: ns, Name: in.Intern(name)}
		if _, dup := fp.Bodies[key]; dup {
			return nil, kerrors.Atf(kerrors.MalformedRecord, path, line, "duplicate record %q in file", words[0])
		}

		tokens := make([]Token, 0, len(words)-1)
		for _, w := range words[1:] {
			tns, tname := ParseNamespace(w)
			if tns != NamespaceNone {
				tokens = append(tokens, Token{Ref: true, NS: tns, Name: in.Intern(tname)})
			} else {
				tokens = append(tokens, Token{Text: w})
			}
		}

		fp.Bodies[key] = tokens
		fp.Order = append(fp.Order, key)
		if ns == NamespaceNone {
			fp.Exports = append(fp.Exports, key)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, kerrors.Wrap(kerrors.IO, path, err)
	}
	return fp, nil
}

func (c *Corpus) mergeType(key Key, tokens []Token) int {
	variants := c.Types[key]
	for i, v := range variants {
		if tokensEqual(v.Tokens, tokens) {
			return i
		}
	}
	c.Types[key] = append(variants, Variant{Tokens: tokens})
	return len(variants)
}

func (c *Corpus) mergeFile(fp *fileProto) error {
	fr := &FileRecord{Path: fp.Path, VariantOf: make(map[Key]int)}
	for _, key := range fp.Order {
		idx := c.mergeType(key, fp.Bodies[key])
		if idx != 0 {
			fr.VariantOf[key] = idx
		}
		if key.NS == NamespaceNone {
			if owner, dup := c.exportFile[key.Name]; dup {
				return kerrors.At(kerrors.DuplicateExport, fp.Path, 0,
					"export \""+c.Interner.Resolve(key.Name)+"\" already defined in "+owner)
			}
			c.exportFile[key.Name] = fp.Path
			fr.Exports = append(fr.Exports, key.Name)
		}
	}
	c.Files[fp.Path] = fr
	return nil
}

// BuildFromDirectory walks root for "*.symtypes" files, parses them
// concurrently across pool, and merges the results into a single Corpus
// deterministically: the merge itself is single-threaded and processes
// files in sorted path order, so the resulting variant indices never
// depend on parse completion order. File records are keyed by each
// file's path relative to root.
func BuildFromDirectory(ctx context.Context, root string, in *intern.Interner, pool *worker.Pool) (*Corpus, error) {
	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(p, ".symtypes") {
			paths = append(paths, p)
		}
		return nil
	})
	if err != nil {
		return nil, kerrors.Wrap(kerrors.IO, root, err)
	}
	sort.Strings(paths)

	protos, err := worker.Run(ctx, pool, len(paths), func(ctx context.Context, i int) (*fileProto, error) {
		path := paths[i]
		f, err := os.Open(path)
		if err != nil {
			return nil, kerrors.Wrap(kerrors.IO, path, err)
		}
		defer f.Close()
		fp, err := parseFile(path, f, in)
		if err != nil {
			return nil, err
		}
		if rel, rerr := filepath.Rel(root, path); rerr == nil {
			fp.Path = filepath.ToSlash(rel)
		}
		return fp, nil
	})
	if err != nil {
		return nil, err
	}

	c := NewCorpus(in)
	for _, fp := range protos {
		if err := c.mergeFile(fp); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func lessKey(in *intern.Interner, a, b Key) bool {
	if a.NS != b.NS {
		return a.NS < b.NS
	}
	return in.Resolve(a.Name) < in.Resolve(b.Name)
}
