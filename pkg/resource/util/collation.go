package util

import (
	"fmt"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collation describes a locale-aware string ordering.
// Collator instances are created per sort because they are NOT goroutine-safe.
type Collation struct {
	Name            string
	Tag             language.Tag
	CaseInsensitive bool
	options         []collate.Option
}

// CollationBinary is the byte-wise ordering used when no collation is configured.
const CollationBinary = "binary"

// ParseCollation resolves a collation name such as "pt-BR", "en_ci" or "binary".
// A "_ci" suffix makes the ordering case-insensitive. An empty name or
// "binary" returns nil, meaning plain byte-wise comparison.
func ParseCollation(name string) (*Collation, error) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, CollationBinary) {
		return nil, nil
	}

	tagName := name
	ci := false
	if lower := strings.ToLower(name); strings.HasSuffix(lower, "_ci") {
		tagName = name[:len(name)-3]
		ci = true
	}

	tag, err := language.Parse(tagName)
	if err != nil {
		return nil, fmt.Errorf("unknown collation %q: %w", name, err)
	}

	c := &Collation{Name: name, Tag: tag, CaseInsensitive: ci}
	if ci {
		c.options = []collate.Option{collate.IgnoreCase}
	}
	return c, nil
}

// newCollator creates a new collator. Collators must not be shared.
func (c *Collation) newCollator() *collate.Collator {
	return collate.New(c.Tag, c.options...)
}

// Compare compares two strings with a fresh collator. Returns -1, 0, or 1.
func (c *Collation) Compare(a, b string) int {
	if c == nil {
		return strings.Compare(a, b)
	}
	return c.newCollator().CompareString(a, b)
}

// Comparer returns a string comparison function backed by a single collator,
// for use within one goroutine (e.g. one sort call).
func (c *Collation) Comparer() func(a, b string) int {
	if c == nil {
		return strings.Compare
	}
	col := c.newCollator()
	return col.CompareString
}
