package symtypes

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"kabi-tools/internal/intern"
	"kabi-tools/internal/kerrors"
)

func parseConsolidatedKey(word string) (ns Namespace, name string, variant int, unknown bool, err error) {
	base := word
	if at := strings.LastIndexByte(base, '@'); at >= 0 {
		if n, cerr := strconv.Atoi(base[at+1:]); cerr == nil {
			variant = n
			base = base[:at]
		}
	}
	if len(base) > 1 && base[1] == '#' {
		resolved, ok := nsFor(base[0])
		if !ok {
			return 0, "", 0, false, fmt.Errorf("unknown namespace prefix in %q", word)
		}
		rest := base[2:]
		if strings.HasPrefix(rest, "#") {
			return resolved, rest[1:], variant, true, nil
		}
		return resolved, rest, variant, false, nil
	}
	return NamespaceNone, base, variant, false, nil
}

// ReadConsolidated parses the single-file consolidated representation
// produced by WriteConsolidated.
func ReadConsolidated(path string, r io.Reader, in *intern.Interner) (*Corpus, error) {
	c := NewCorpus(in)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1<<20)

	line := 0
	sawHeader := false
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if strings.HasPrefix(text, "/*") {
			sawHeader = true
			continue
		}
		words, err := splitWords(path, line, text)
		if err != nil {
			return nil, err
		}
		head := words[0]

		if strings.HasPrefix(head, "F#") {
			if err := parseFileRecordLine(c, path, line, words); err != nil {
				return nil, err
			}
			continue
		}

		ns, name, variant, unknown, perr := parseConsolidatedKey(head)
		if perr != nil {
			return nil, kerrors.Atf(kerrors.InvalidConsolidated, path, line, "%v", perr)
		}
		key := Key{NS: ns, Name: in.Intern(name)}

		var tokens []Token
		if unknown {
			tokens = unknownBody(ns, name)
		} else {
			tokens = make([]Token, 0, len(words)-1)
			for _, w := range words[1:] {
				tns, tname := ParseNamespace(w)
				if tns != NamespaceNone {
					tokens = append(tokens, Token{Ref: true, NS: tns, Name: in.Intern(tname)})
				} else {
					tokens = append(tokens, Token{Text: w})
				}
			}
		}

		variants := c.Types[key]
		for len(variants) <= variant {
			variants = append(variants, Variant{})
		}
		variants[variant] = Variant{Tokens: tokens}
		c.Types[key] = variants
	}
	if err := scanner.Err(); err != nil {
		return nil, kerrors.Wrap(kerrors.IO, path, err)
	}
	if !sawHeader {
		return nil, kerrors.At(kerrors.InvalidConsolidated, path, 1, "missing consolidated format header")
	}
	return c, nil
}

func parseFileRecordLine(c *Corpus, path string, line int, words []string) error {
	filePath := strings.TrimPrefix(words[0], "F#")
	fr := &FileRecord{Path: filePath, VariantOf: make(map[Key]int)}
	for _, w := range words[1:] {
		if strings.ContainsAny(w, "#") {
			ns, name, variant, _, err := parseConsolidatedKey(w)
			if err != nil {
				return kerrors.Atf(kerrors.InvalidConsolidated, path, line, "%v", err)
			}
			fr.VariantOf[Key{NS: ns, Name: c.Interner.Intern(name)}] = variant
			continue
		}
		h := c.Interner.Intern(w)
		if owner, dup := c.exportFile[h]; dup {
			return kerrors.Atf(kerrors.DuplicateExport, path, line,
				"export %q already defined in %s", w, owner)
		}
		c.exportFile[h] = filePath
		fr.Exports = append(fr.Exports, h)
	}
	c.Files[filePath] = fr
	return nil
}
