package symtypes

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kabi-tools/internal/intern"
	"kabi-tools/internal/kerrors"
	"kabi-tools/internal/worker"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildFromDirectorySingleFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.symtypes", "foo int foo ( s#bar * )\ns#bar struct bar { int x ; }\n")

	in := intern.New()
	c, err := BuildFromDirectory(context.Background(), dir, in, worker.New(2))
	require.NoError(t, err)

	require.Len(t, c.Files, 1)
	var fr *FileRecord
	for _, f := range c.Files {
		fr = f
	}
	require.Len(t, fr.Exports, 1)
	assert.Equal(t, "foo", in.Resolve(fr.Exports[0]))

	key := Key{NS: NamespaceStruct, Name: in.Intern("bar")}
	require.Contains(t, c.Types, key)
	assert.Len(t, c.Types[key], 1)
}

func TestBuildFromDirectoryDuplicateExportErrors(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.symtypes", "foo int foo ( void )\n")
	writeFile(t, dir, "b.symtypes", "foo int foo ( void )\n")

	in := intern.New()
	_, err := BuildFromDirectory(context.Background(), dir, in, worker.New(2))
	require.Error(t, err)
	var kerr *kerrors.Error
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, kerrors.DuplicateExport, kerr.Kind)
}

func TestBuildFromDirectoryVariantSplit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.symtypes", "foo int foo ( s#bar * )\ns#bar struct bar { int x ; }\n")
	writeFile(t, dir, "b.symtypes", "baz int baz ( s#bar * )\ns#bar struct bar { long x ; }\n")

	in := intern.New()
	c, err := BuildFromDirectory(context.Background(), dir, in, worker.New(2))
	require.NoError(t, err)

	key := Key{NS: NamespaceStruct, Name: in.Intern("bar")}
	require.Len(t, c.Types[key], 2)
}

func TestBuildFromDirectoryHonorsQuotedToken(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.symtypes", "foo int foo ( 'long long' * )\n")

	in := intern.New()
	c, err := BuildFromDirectory(context.Background(), dir, in, worker.New(2))
	require.NoError(t, err)

	key := Key{NS: NamespaceNone, Name: in.Intern("foo")}
	tokens := c.Types[key][0].Tokens
	var texts []string
	for _, tok := range tokens {
		texts = append(texts, tok.Text)
	}
	assert.Contains(t, texts, "long long")
}

func TestBuildFromDirectoryUnterminatedQuoteIsMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.symtypes", "foo int foo ( 'long long * )\n")

	in := intern.New()
	_, err := BuildFromDirectory(context.Background(), dir, in, worker.New(2))
	require.Error(t, err)
	var kerr *kerrors.Error
	require.ErrorAs(t, err, &kerr)
	assert.Equal(t, kerrors.MalformedRecord, kerr.Kind)
}

func TestClosureOrderFollowsDefaultVariant(t *testing.T) {
	in := intern.New()
	c := NewCorpus(in)
	barKey := Key{NS: NamespaceStruct, Name: in.Intern("bar")}
	fooKey := Key{NS: NamespaceNone, Name: in.Intern("foo")}
	c.Types[fooKey] = []Variant{{Tokens: []Token{{Text: "int"}, {Text: "foo"}, {Text: "("}, {Ref: true, NS: NamespaceStruct, Name: in.Intern("bar")}, {Text: "*"}, {Text: ")"}}}}
	c.Types[barKey] = []Variant{{Tokens: []Token{{Text: "struct"}, {Text: "bar"}, {Text: "{"}, {Text: "int"}, {Text: "x"}, {Text: ";"}, {Text: "}"}}}}

	fr := &FileRecord{Path: "a.symtypes", VariantOf: map[Key]int{}}
	order := c.ClosureOrder(fr, []Key{fooKey})
	assert.Contains(t, order, fooKey)
	assert.Contains(t, order, barKey)
}
