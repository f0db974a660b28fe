package symtypes

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kabi-tools/internal/intern"
	"kabi-tools/internal/worker"
)

func TestConsolidatedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.symtypes", "foo int foo ( s#bar * )\ns#bar struct bar { int x ; }\n")
	writeFile(t, dir, "b.symtypes", "baz int baz ( s#bar * )\ns#bar struct bar { long x ; }\n")

	in := intern.New()
	c, err := BuildFromDirectory(context.Background(), dir, in, worker.New(2))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.WriteConsolidated(&buf))

	loaded, err := ReadConsolidated("consolidated", bytes.NewReader(buf.Bytes()), intern.New())
	require.NoError(t, err)

	assert.Len(t, loaded.Files, 2)
	barKey := Key{NS: NamespaceStruct, Name: loaded.Interner.Intern("bar")}
	assert.Len(t, loaded.Types[barKey], 2)
}

func TestConsolidatedUnknownShortening(t *testing.T) {
	in := intern.New()
	c := NewCorpus(in)
	key := Key{NS: NamespaceStruct, Name: in.Intern("opaque")}
	c.Types[key] = []Variant{{Tokens: unknownBody(NamespaceStruct, "opaque")}}
	c.Files["a.symtypes"] = &FileRecord{Path: "a.symtypes", VariantOf: map[Key]int{}}

	var buf bytes.Buffer
	require.NoError(t, c.WriteConsolidated(&buf))
	assert.Contains(t, buf.String(), "s##opaque")

	loaded, err := ReadConsolidated("c", bytes.NewReader(buf.Bytes()), intern.New())
	require.NoError(t, err)
	loadedKey := Key{NS: NamespaceStruct, Name: loaded.Interner.Intern("opaque")}
	require.Len(t, loaded.Types[loadedKey], 1)
	assert.True(t, isUnknownBody(NamespaceStruct, "opaque", loaded.Types[loadedKey][0].Tokens))
}

func TestWriteConsolidatedOrdersTypesBeforeExports(t *testing.T) {
	in := intern.New()
	c := NewCorpus(in)
	fooKey := Key{NS: NamespaceNone, Name: in.Intern("foo")}
	barKey := Key{NS: NamespaceStruct, Name: in.Intern("bar")}
	c.Types[fooKey] = []Variant{{Tokens: []Token{{Text: "int"}, {Text: "foo"}, {Text: "("}, {Text: "void"}, {Text: ")"}}}}
	c.Types[barKey] = []Variant{{Tokens: []Token{{Text: "struct"}, {Text: "bar"}, {Text: "{"}, {Text: "int"}, {Text: "x"}, {Text: ";"}, {Text: "}"}}}}
	c.Files["a.symtypes"] = &FileRecord{Path: "a.symtypes", Exports: []intern.Handle{fooKey.Name}, VariantOf: map[Key]int{}}

	var buf bytes.Buffer
	require.NoError(t, c.WriteConsolidated(&buf))

	out := buf.String()
	barPos := indexOf(t, out, "s#bar")
	fooPos := indexOf(t, out, "foo int foo")
	assert.Less(t, barPos, fooPos, "non-export type records must precede export records")
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	t.Fatalf("%q not found in %q", needle, haystack)
	return -1
}

func TestReadConsolidatedRejectsMissingHeader(t *testing.T) {
	_, err := ReadConsolidated("c", bytes.NewReader([]byte("foo int foo ( void )\n")), intern.New())
	require.Error(t, err)
}

func TestWriteSplitFileOrdersTypesBeforeExports(t *testing.T) {
	in := intern.New()
	c := NewCorpus(in)
	fooKey := Key{NS: NamespaceNone, Name: in.Intern("foo")}
	barKey := Key{NS: NamespaceStruct, Name: in.Intern("bar")}
	c.Types[fooKey] = []Variant{{Tokens: []Token{{Text: "int"}, {Text: "foo"}, {Text: "("}, {Ref: true, NS: NamespaceStruct, Name: in.Intern("bar")}, {Text: "*"}, {Text: ")"}}}}
	c.Types[barKey] = []Variant{{Tokens: []Token{{Text: "struct"}, {Text: "bar"}, {Text: "{"}, {Text: "int"}, {Text: "x"}, {Text: ";"}, {Text: "}"}}}}
	fr := &FileRecord{Path: "a.symtypes", Exports: []intern.Handle{fooKey.Name}, VariantOf: map[Key]int{}}
	c.Files["a.symtypes"] = fr

	var buf bytes.Buffer
	require.NoError(t, c.WriteSplitFile(&buf, fr))

	out := buf.String()
	barPos := indexOf(t, out, "s#bar")
	fooPos := indexOf(t, out, "foo int foo")
	assert.Less(t, barPos, fooPos, "referenced types must be emitted before the exports that reference them")
}

func TestSplitAllRegeneratesFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "drivers/a.symtypes", "foo int foo ( s#bar * )\ns#bar struct bar { int x ; }\n")

	in := intern.New()
	c, err := BuildFromDirectory(context.Background(), dir, in, worker.New(2))
	require.NoError(t, err)

	outDir := t.TempDir()
	require.NoError(t, c.SplitAll(context.Background(), outDir, worker.New(2)))

	data, err := os.ReadFile(filepath.Join(outDir, "drivers/a.symtypes"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "foo")
	assert.Contains(t, string(data), "s#bar")
}
