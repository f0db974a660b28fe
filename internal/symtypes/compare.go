package symtypes

import "sort"

// ChangeKind classifies one entry of a Compare result.
type ChangeKind int

const (
	AddedExport ChangeKind = iota
	RemovedExport
	ChangedType
)

// Diff is a single difference found between two corpora's export
// closures.
type Diff struct {
	Kind      ChangeKind
	Export    string
	Namespace Namespace
	Name      string
	// Path records the chain of record names from the export down to
	// the record that actually changed, for ChangedType diffs.
	Path     []string
	OldLines []string
	NewLines []string
}

// ExportIndex maps every exported symbol name to the FileRecord that
// defines it.
func (c *Corpus) ExportIndex() map[string]*FileRecord {
	idx := make(map[string]*FileRecord)
	for _, fr := range c.Files {
		for _, h := range fr.Exports {
			idx[c.Interner.Resolve(h)] = fr
		}
	}
	return idx
}

type pairKey struct {
	ns              Namespace
	oldName, newName string
}

type comparer struct {
	oldC, newC   *Corpus
	oldFr, newFr *FileRecord
	visited      map[pairKey]bool
	diffs        []Diff
}

func resolver(c *Corpus) func(Token) string {
	return func(t Token) string {
		if t.Ref {
			return t.NS.Prefix() + c.Interner.Resolve(t.Name)
		}
		return t.Text
	}
}

func (cm *comparer) walk(export string, oldKey, newKey Key, path []string) {
	pk := pairKey{ns: oldKey.NS, oldName: cm.oldC.Interner.Resolve(oldKey.Name), newName: cm.newC.Interner.Resolve(newKey.Name)}
	if cm.visited[pk] {
		return
	}
	cm.visited[pk] = true

	oldTokens := cm.oldC.variantTokens(cm.oldFr, oldKey)
	newTokens := cm.newC.variantTokens(cm.newFr, newKey)

	if !tokensEquivalent(cm.oldC, cm.newC, oldTokens, newTokens) {
		name := cm.oldC.Interner.Resolve(oldKey.Name)
		cm.diffs = append(cm.diffs, Diff{
			Kind:      ChangedType,
			Export:    export,
			Namespace: oldKey.NS,
			Name:      name,
			Path:      append(append([]string(nil), path...), name),
			OldLines:  formatTokens(oldKey.NS.Prefix()+name, oldTokens, resolver(cm.oldC)),
			NewLines:  formatTokens(newKey.NS.Prefix()+cm.newC.Interner.Resolve(newKey.Name), newTokens, resolver(cm.newC)),
		})
	}

	n := len(oldTokens)
	if len(newTokens) < n {
		n = len(newTokens)
	}
	nextPath := append(path, cm.oldC.Interner.Resolve(oldKey.Name))
	for i := 0; i < n; i++ {
		ot, nt := oldTokens[i], newTokens[i]
		if ot.Ref && nt.Ref && ot.NS == nt.NS {
			cm.walk(export, Key{NS: ot.NS, Name: ot.Name}, Key{NS: nt.NS, Name: nt.Name}, nextPath)
		}
	}
}

func tokensEquivalent(oldC, newC *Corpus, a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Ref != b[i].Ref {
			return false
		}
		if a[i].Ref {
			if a[i].NS != b[i].NS || oldC.Interner.Resolve(a[i].Name) != newC.Interner.Resolve(b[i].Name) {
				return false
			}
		} else if a[i].Text != b[i].Text {
			return false
		}
	}
	return true
}

// Compare diffs every exported symbol common to, added in, or removed
// from newC relative to oldC. Results are sorted by export name.
func Compare(oldC, newC *Corpus) []Diff {
	oldIdx := oldC.ExportIndex()
	newIdx := newC.ExportIndex()

	seen := make(map[string]bool)
	var names []string
	for n := range oldIdx {
		names = append(names, n)
		seen[n] = true
	}
	for n := range newIdx {
		if !seen[n] {
			names = append(names, n)
		}
	}
	sort.Strings(names)

	var diffs []Diff
	for _, name := range names {
		oldFr, inOld := oldIdx[name]
		newFr, inNew := newIdx[name]
		switch {
		case inOld && !inNew:
			diffs = append(diffs, Diff{Kind: RemovedExport, Export: name})
		case !inOld && inNew:
			diffs = append(diffs, Diff{Kind: AddedExport, Export: name})
		default:
			cm := &comparer{
				oldC: oldC, newC: newC,
				oldFr: oldFr, newFr: newFr,
				visited: make(map[pairKey]bool),
			}
			root := Key{NS: NamespaceNone, Name: oldC.Interner.Intern(name)}
			rootNew := Key{NS: NamespaceNone, Name: newC.Interner.Intern(name)}
			cm.walk(name, root, rootNew, nil)
			diffs = append(diffs, cm.diffs...)
		}
	}
	return diffs
}
