package dsl

import (
	"fmt"
	"maps"
	"strings"

	"github.com/aretw0/libretto/pkg/domain"
	"github.com/aretw0/libretto/pkg/member"
)

// Children accepted by the factories: nil, a single value, []any,
// []domain.Node, []string or []*domain.Scene. Raw strings become Text leaves
// wherever text is allowed.
type Children = any

// SceneProps configures a Scene.
type SceneProps struct {
	Languages         []string
	AuthoringLanguage string
	Generate          domain.Generator
	Translate         domain.Translator
	Sink              domain.Sink
	Children          Children
}

// PageProps configures a Page.
type PageProps struct {
	Name     string
	Children Children
}

// SpeakerProps configures a Speaker.
type SpeakerProps struct {
	Src string
}

// PopupProps configures a Popup.
type PopupProps struct {
	Src      string
	Children Children
}

// TranslationProps configures a Translation.
// When Direction is unset it is inferred from Language if that is a
// well-formed BCP 47 tag.
type TranslationProps struct {
	Language  string
	Direction domain.Direction
	Children  Children
}

// ElementProps configures a markup Element.
type ElementProps struct {
	Tag      string
	Attrs    map[string]string
	Children Children
}

var (
	withinScene     = member.NewGroup(domain.WithinScene...)
	sceneBoundaries = member.NewGroup(domain.SceneBoundaries...)
	scenes          = member.NewGroup(domain.Scenes...)
)

// Scene validates its children against WithinScene plus SceneBoundaries and
// builds the scene.
func Scene(p SceneProps) (*domain.Scene, error) {
	languages, err := normLanguages(p.Languages)
	if err != nil {
		return nil, err
	}
	if p.Generate == nil {
		return nil, domain.ErrNoGenerator
	}
	children, err := validate(domain.KindScene, p.Children, true, withinScene, sceneBoundaries)
	if err != nil {
		return nil, err
	}
	return &domain.Scene{
		Languages:         languages,
		AuthoringLanguage: strings.TrimSpace(p.AuthoringLanguage),
		Generate:          p.Generate,
		Translate:         p.Translate,
		Sink:              p.Sink,
		Children:          children,
	}, nil
}

// Page accepts Scene children only.
func Page(p PageProps) (*domain.Page, error) {
	children, err := validate(domain.KindPage, p.Children, false, scenes)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Scene, len(children))
	for i, c := range children {
		out[i] = c.(*domain.Scene)
	}
	return &domain.Page{Name: p.Name, Scenes: out}, nil
}

// Speaker builds a Speaker. It has no children.
func Speaker(p SpeakerProps) *domain.Speaker {
	return &domain.Speaker{Src: p.Src}
}

// Popup accepts WithinScene children only.
func Popup(p PopupProps) (*domain.Popup, error) {
	children, err := validate(domain.KindPopup, p.Children, true, withinScene)
	if err != nil {
		return nil, err
	}
	return &domain.Popup{Src: p.Src, Children: children}, nil
}

// Translation accepts WithinScene children only, so translations never nest.
func Translation(p TranslationProps) (*domain.Translation, error) {
	lang := strings.TrimSpace(p.Language)
	if lang == "" {
		return nil, fmt.Errorf("translation: %w", domain.ErrEmptyLanguage)
	}
	if !p.Direction.Valid() {
		return nil, fmt.Errorf("translation %s: %w: %q", lang, domain.ErrInvalidDirection, p.Direction)
	}
	dir := p.Direction
	if dir == domain.DirectionUnset {
		dir = InferDirection(lang)
	}
	children, err := validate(domain.KindTranslation, p.Children, true, withinScene)
	if err != nil {
		return nil, err
	}
	return &domain.Translation{Language: lang, Direction: dir, Children: children}, nil
}

// Element builds a markup element whose children are WithinScene content.
func Element(p ElementProps) (*domain.Element, error) {
	tag := strings.TrimSpace(p.Tag)
	if tag == "" {
		return nil, domain.ErrEmptyTag
	}
	children, err := validate(domain.KindElement, p.Children, true, withinScene)
	if err != nil {
		return nil, err
	}
	var attrs map[string]string
	if len(p.Attrs) > 0 {
		attrs = maps.Clone(p.Attrs)
	}
	return &domain.Element{Tag: tag, Attrs: attrs, Children: children}, nil
}

// validate runs the shared containment check. Matched children are kept
// as-is; unmatched raw strings become Text when allowText is set; anything
// else fails with a ValidationError.
func validate(parent domain.Kind, children Children, allowText bool, groups ...member.Group) ([]domain.Node, error) {
	annotated := member.Annotate(member.Norm(children), groups...)
	out := make([]domain.Node, 0, len(annotated))
	for _, a := range annotated {
		if n, ok := a.Node(); ok {
			out = append(out, n)
			continue
		}
		if s, ok := a.Item.(string); ok && allowText {
			out = append(out, domain.Text(s))
			continue
		}
		return nil, &domain.ValidationError{
			Parent:  parent,
			Child:   a.Item,
			Allowed: allowed(groups),
		}
	}
	return out, nil
}

func allowed(groups []member.Group) []domain.Kind {
	order := append(append(append([]domain.Kind{}, domain.WithinScene...), domain.SceneBoundaries...), domain.Scenes...)
	merged := member.Group{}
	for _, g := range groups {
		for k := range g {
			merged[k] = struct{}{}
		}
	}
	return merged.Kinds(order...)
}

// normLanguages trims tags, rejects blanks and drops duplicates keeping the
// first occurrence.
func normLanguages(in []string) ([]string, error) {
	if len(in) == 0 {
		return nil, domain.ErrNoLanguages
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for i, raw := range in {
		lang := strings.TrimSpace(raw)
		if lang == "" {
			return nil, fmt.Errorf("scene language %d: %w", i, domain.ErrEmptyLanguage)
		}
		if seen[lang] {
			continue
		}
		seen[lang] = true
		out = append(out, lang)
	}
	return out, nil
}
