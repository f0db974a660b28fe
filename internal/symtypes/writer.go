package symtypes

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"kabi-tools/internal/intern"
)

// consolidatedHeader marks a file as the single-file consolidated
// representation, distinguishing it from a classic per-object symtypes
// file on read.
const consolidatedHeader = "/* kabi-tools consolidated symtypes */"

func writeToken(bw *bufio.Writer, in *intern.Interner, t Token) {
	if t.Ref {
		bw.WriteString(t.NS.Prefix())
		bw.WriteString(in.Resolve(t.Name))
		return
	}
	bw.WriteString(t.Text)
}

// WriteConsolidated serializes the corpus as a single consolidated
// symtypes file: one record per distinct (namespace, name, variant),
// followed by one "F#" record per source file listing its exports and
// any non-default variant selections.
func (c *Corpus) WriteConsolidated(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, consolidatedHeader)

	var typeKeys, exportKeys []Key
	for k := range c.Types {
		if k.NS == NamespaceNone {
			exportKeys = append(exportKeys, k)
		} else {
			typeKeys = append(typeKeys, k)
		}
	}
	sort.Slice(typeKeys, func(i, j int) bool { return lessKey(c.Interner, typeKeys[i], typeKeys[j]) })
	sort.Slice(exportKeys, func(i, j int) bool { return c.Interner.Resolve(exportKeys[i].Name) < c.Interner.Resolve(exportKeys[j].Name) })

	for _, key := range append(typeKeys, exportKeys...) {
		variants := c.Types[key]
		name := c.Interner.Resolve(key.Name)
		for idx, v := range variants {
			suffix := ""
			if len(variants) > 1 && idx > 0 {
				suffix = fmt.Sprintf("@%d", idx)
			}
			if isUnknownBody(key.NS, name, v.Tokens) {
				fmt.Fprintf(bw, "%s#%s%s\n", key.NS.Prefix(), name, suffix)
				continue
			}
			fmt.Fprintf(bw, "%s%s%s", key.NS.Prefix(), name, suffix)
			for _, t := range v.Tokens {
				bw.WriteByte(' ')
				writeToken(bw, c.Interner, t)
			}
			bw.WriteByte('\n')
		}
	}

	paths := make([]string, 0, len(c.Files))
	for p := range c.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		fr := c.Files[p]
		fmt.Fprintf(bw, "F#%s", p)

		names := make([]string, 0, len(fr.Exports))
		for _, h := range fr.Exports {
			names = append(names, c.Interner.Resolve(h))
		}
		sort.Strings(names)
		for _, n := range names {
			fmt.Fprintf(bw, " %s", n)
		}

		vkeys := make([]Key, 0, len(fr.VariantOf))
		for k := range fr.VariantOf {
			vkeys = append(vkeys, k)
		}
		sort.Slice(vkeys, func(i, j int) bool { return lessKey(c.Interner, vkeys[i], vkeys[j]) })
		for _, k := range vkeys {
			fmt.Fprintf(bw, " %s%s@%d", k.NS.Prefix(), c.Interner.Resolve(k.Name), fr.VariantOf[k])
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}
