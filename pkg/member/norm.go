package member

import "github.com/aretw0/libretto/pkg/domain"

// Norm turns a children value into an ordered sequence: nil becomes empty,
// a supported slice is spread, anything else becomes a one-element slice.
func Norm(v any) []any {
	switch c := v.(type) {
	case nil:
		return []any{}
	case []any:
		return append([]any(nil), c...)
	case []domain.Node:
		return spread(c)
	case []string:
		return spread(c)
	case []domain.Text:
		return spread(c)
	case []*domain.Element:
		return spread(c)
	case []*domain.Speaker:
		return spread(c)
	case []*domain.Popup:
		return spread(c)
	case []*domain.Scene:
		return spread(c)
	case []*domain.Translation:
		return spread(c)
	case []*domain.Page:
		return spread(c)
	default:
		return []any{v}
	}
}

func spread[T any](items []T) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = item
	}
	return out
}

// isNil catches typed nil pointers stored in a Node interface.
func isNil(n domain.Node) bool {
	switch p := n.(type) {
	case nil:
		return true
	case *domain.Element:
		return p == nil
	case *domain.Speaker:
		return p == nil
	case *domain.Popup:
		return p == nil
	case *domain.Translation:
		return p == nil
	case *domain.Scene:
		return p == nil
	case *domain.Page:
		return p == nil
	}
	return false
}
