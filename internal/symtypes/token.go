// Package symtypes implements ingestion, consolidation, splitting, and
// structural comparison of kernel symtypes type descriptions.
package symtypes

import (
	"strings"

	"kabi-tools/internal/intern"
	"kabi-tools/internal/kerrors"
)

// Namespace distinguishes the different kinds of named record a
// symtypes file can describe.
type Namespace int

const (
	// NamespaceNone records are exported symbols: the top-level
	// function or variable signature a file publishes.
	NamespaceNone Namespace = iota
	NamespaceTypedef
	NamespaceEnum
	NamespaceStruct
	NamespaceUnion
	NamespaceEnumConst
	NamespaceFile
)

// Prefix returns the textual namespace marker used in symtypes text,
// e.g. "s#" for NamespaceStruct. NamespaceNone has no prefix.
func (ns Namespace) Prefix() string {
	switch ns {
	case NamespaceTypedef:
		return "t#"
	case NamespaceEnum:
		return "e#"
	case NamespaceStruct:
		return "s#"
	case NamespaceUnion:
		return "u#"
	case NamespaceEnumConst:
		return "E#"
	case NamespaceFile:
		return "F#"
	default:
		return ""
	}
}

// kindWordFor returns the C keyword a namespace's UNKNOWN placeholder
// body starts with, or "" if the namespace has no such shorthand.
func kindWordFor(ns Namespace) string {
	switch ns {
	case NamespaceStruct:
		return "struct"
	case NamespaceUnion:
		return "union"
	case NamespaceEnum:
		return "enum"
	case NamespaceTypedef:
		return "typedef"
	default:
		return ""
	}
}

func nsFor(c byte) (Namespace, bool) {
	switch c {
	case 't':
		return NamespaceTypedef, true
	case 'e':
		return NamespaceEnum, true
	case 's':
		return NamespaceStruct, true
	case 'u':
		return NamespaceUnion, true
	case 'E':
		return NamespaceEnumConst, true
	case 'F':
		return NamespaceFile, true
	}
	return NamespaceNone, false
}

// ParseNamespace splits a bare symtypes word such as "s#socket" into its
// namespace and name. A word with no recognized "<char>#" prefix is
// returned as NamespaceNone with the word unchanged.
func ParseNamespace(word string) (Namespace, string) {
	if len(word) > 1 && word[1] == '#' {
		if ns, ok := nsFor(word[0]); ok {
			return ns, word[2:]
		}
	}
	return NamespaceNone, word
}

// Key identifies a namespaced, named type record.
type Key struct {
	NS   Namespace
	Name intern.Handle
}

// Token is one element of a type record's body: either a literal piece
// of source text, or a reference to another record resolved through the
// corpus's type table.
type Token struct {
	Ref  bool
	Text string
	NS   Namespace
	Name intern.Handle
}

func tokensEqual(a, b []Token) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Ref != b[i].Ref || a[i].Text != b[i].Text || a[i].NS != b[i].NS || a[i].Name != b[i].Name {
			return false
		}
	}
	return true
}

func isUnknownBody(ns Namespace, name string, tokens []Token) bool {
	kind := kindWordFor(ns)
	if kind == "" || len(tokens) != 5 {
		return false
	}
	return !tokens[0].Ref && tokens[0].Text == kind &&
		!tokens[1].Ref && tokens[1].Text == name &&
		!tokens[2].Ref && tokens[2].Text == "{" &&
		!tokens[3].Ref && tokens[3].Text == "UNKNOWN" &&
		!tokens[4].Ref && tokens[4].Text == "}"
}

// splitWords tokenizes a line of symtypes text on whitespace. A token
// beginning with a single quote extends to the next single quote,
// keeping any embedded whitespace verbatim; there are no escape
// sequences. An unterminated quote is a MalformedRecord error naming
// path and line.
func splitWords(path string, line int, text string) ([]string, error) {
	var words []string
	var cur strings.Builder
	inWord := false
	for i := 0; i < len(text); i++ {
		switch c := text[i]; c {
		case '\'':
			end := strings.IndexByte(text[i+1:], '\'')
			if end < 0 {
				return nil, kerrors.Atf(kerrors.MalformedRecord, path, line, "unterminated quote")
			}
			cur.WriteString(text[i+1 : i+1+end])
			i += end + 1
			inWord = true
		case ' ', '\t':
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteByte(c)
			inWord = true
		}
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}

func unknownBody(ns Namespace, name string) []Token {
	return []Token{
		{Text: kindWordFor(ns)},
		{Text: name},
		{Text: "{"},
		{Text: "UNKNOWN"},
		{Text: "}"},
	}
}
