package synthesizer

import (
	"slices"
	"strings"

	"attrdoc/internal/ast"
)

type pendingUse struct {
	key  string
	tag  Tag
	span ast.Span
}

// pendingUses is an insertion-ordered map from the raw argument string to the
// tag waiting for a trait-use statement. Re-adding a key replaces its tag but
// keeps its position.
type pendingUses struct {
	order []string
	byKey map[string]pendingUse
}

func newPendingUses() *pendingUses {
	return &pendingUses{byKey: make(map[string]pendingUse)}
}

func (p *pendingUses) put(u pendingUse) {
	if _, ok := p.byKey[u.key]; !ok {
		p.order = append(p.order, u.key)
	}
	p.byKey[u.key] = u
}

func (p *pendingUses) take(key string) pendingUse {
	u := p.byKey[key]
	delete(p.byKey, key)
	p.order = slices.DeleteFunc(p.order, func(k string) bool { return k == key })
	return u
}

func (p *pendingUses) keys() []string { return slices.Clone(p.order) }

func (p *pendingUses) len() int { return len(p.order) }

// bindTraitUses attaches each pending tag to the first trait-use statement
// importing a trait whose name ends with the tag's bare name. Keys are
// consumed on their first match; the rest are returned as dropped.
func bindTraitUses(c *ast.ClassLike, pending *pendingUses) (bound []Tag, dropped []string) {
	for _, use := range c.TraitUses() {
		for _, trait := range use.Traits {
			traitParts := reversedSegments(trait)
			for _, key := range pending.keys() {
				if !segmentSuffix(reversedSegments(bareName(key)), traitParts) {
					continue
				}
				u := pending.take(key)
				rewriteDoc(use.Comments(), []string{u.tag.Text}, ast.EmptySpan().Merge(u.span))
				u.tag.Target = use
				bound = append(bound, u.tag)
				break
			}
		}
	}
	return bound, pending.keys()
}

// bareName drops template arguments: `Foo\Bar<int>` becomes `Foo\Bar`.
func bareName(key string) string {
	if i := strings.IndexByte(key, '<'); i >= 0 {
		return key[:i]
	}
	return key
}

func reversedSegments(name string) []string {
	parts := strings.Split(name, `\`)
	slices.Reverse(parts)
	return parts
}

// segmentSuffix reports whether every segment of tag equals the segment of
// trait at the same index.
func segmentSuffix(tag, trait []string) bool {
	if len(tag) > len(trait) {
		return false
	}
	for i, part := range tag {
		if trait[i] != part {
			return false
		}
	}
	return true
}
