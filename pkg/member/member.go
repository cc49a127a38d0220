package member

import (
	"fmt"

	"github.com/aretw0/libretto/pkg/domain"
)

// Group is a set of node kinds.
type Group map[domain.Kind]struct{}

// NewGroup builds a group from the given kinds.
func NewGroup(kinds ...domain.Kind) Group {
	g := make(Group, len(kinds))
	for _, k := range kinds {
		g[k] = struct{}{}
	}
	return g
}

// Has reports whether the kind belongs to the group.
func (g Group) Has(k domain.Kind) bool {
	_, ok := g[k]
	return ok
}

// Kinds returns the group's kinds in the order of the given reference list,
// followed by any kind not in it. Used for stable error messages.
func (g Group) Kinds(order ...domain.Kind) []domain.Kind {
	out := make([]domain.Kind, 0, len(g))
	seen := make(map[domain.Kind]bool, len(g))
	for _, k := range order {
		if g.Has(k) && !seen[k] {
			out = append(out, k)
			seen[k] = true
		}
	}
	for k := range g {
		if !seen[k] {
			out = append(out, k)
		}
	}
	return out
}

// Annotation is the outcome of checking one item.
type Annotation struct {
	Matched bool
	Item    any
}

// Node returns the item as a node when it matched.
func (a Annotation) Node() (domain.Node, bool) {
	if !a.Matched {
		return nil, false
	}
	n, ok := a.Item.(domain.Node)
	return n, ok
}

// TypeMismatchError is returned by Assert.
type TypeMismatchError struct {
	Value any
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("member assertion failed: %s", domain.Describe(e.Value))
}

// Is reports whether v is a node whose kind belongs to any of the groups.
// With no groups, or only empty ones, nothing matches.
func Is(v any, groups ...Group) bool {
	n, ok := v.(domain.Node)
	if !ok || isNil(n) {
		return false
	}
	k := n.Kind()
	for _, g := range groups {
		if g.Has(k) {
			return true
		}
	}
	return false
}

// Assert returns a *TypeMismatchError when Is(v, groups...) is false.
func Assert(v any, groups ...Group) error {
	if !Is(v, groups...) {
		return &TypeMismatchError{Value: v}
	}
	return nil
}

// Filter keeps the items that match, in order.
func Filter(items []any, groups ...Group) []domain.Node {
	out := make([]domain.Node, 0, len(items))
	for _, item := range items {
		if Is(item, groups...) {
			out = append(out, item.(domain.Node))
		}
	}
	return out
}

// Annotate maps every item to its match outcome. The result has the same
// length and order as items.
func Annotate(items []any, groups ...Group) []Annotation {
	out := make([]Annotation, len(items))
	for i, item := range items {
		out[i] = Annotation{Matched: Is(item, groups...), Item: item}
	}
	return out
}
