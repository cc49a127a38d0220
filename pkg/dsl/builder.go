package dsl

import (
	"fmt"

	"github.com/aretw0/libretto/pkg/domain"
)

// PageBuilder manages page construction.
type PageBuilder struct {
	name   string
	scenes []*SceneBuilder
}

// NewPage creates a new page builder.
func NewPage(name string) *PageBuilder {
	return &PageBuilder{name: name}
}

// Scene appends a new scene supporting the given languages and returns its
// builder.
func (b *PageBuilder) Scene(languages ...string) *SceneBuilder {
	sb := NewScene(languages...)
	sb.page = b
	b.scenes = append(b.scenes, sb)
	return sb
}

// Build compiles every scene and then the page.
// The first construction error is returned, prefixed with the scene index.
func (b *PageBuilder) Build() (*domain.Page, error) {
	children := make([]any, 0, len(b.scenes))
	for i, sb := range b.scenes {
		sc, err := sb.Build()
		if err != nil {
			return nil, fmt.Errorf("scene %d: %w", i, err)
		}
		children = append(children, sc)
	}
	return Page(PageProps{Name: b.name, Children: children})
}

// SceneBuilder provides a fluent API for configuring a scene.
// Child constructors record their first error; Build reports it.
type SceneBuilder struct {
	props SceneProps
	kids  []any
	err   error
	page  *PageBuilder
}

// NewScene starts a standalone scene builder.
func NewScene(languages ...string) *SceneBuilder {
	return &SceneBuilder{props: SceneProps{Languages: languages}}
}

// Authoring sets the language the scene's own text is written in.
func (s *SceneBuilder) Authoring(language string) *SceneBuilder {
	s.props.AuthoringLanguage = language
	return s
}

// Generate sets the generation capability.
func (s *SceneBuilder) Generate(g domain.Generator) *SceneBuilder {
	s.props.Generate = g
	return s
}

// Translate sets the optional translation capability.
func (s *SceneBuilder) Translate(t domain.Translator) *SceneBuilder {
	s.props.Translate = t
	return s
}

// Sink sets the raw-output options handed to the generator.
func (s *SceneBuilder) Sink(sink domain.Sink) *SceneBuilder {
	s.props.Sink = sink
	return s
}

// Add appends raw children; they are validated on Build.
func (s *SceneBuilder) Add(children ...any) *SceneBuilder {
	s.kids = append(s.kids, children...)
	return s
}

// Text appends a text leaf.
func (s *SceneBuilder) Text(text string) *SceneBuilder {
	return s.Add(domain.Text(text))
}

// Speaker appends a speaker image.
func (s *SceneBuilder) Speaker(src string) *SceneBuilder {
	return s.Add(Speaker(SpeakerProps{Src: src}))
}

// Popup appends a popup with within-scene content.
func (s *SceneBuilder) Popup(src string, children ...any) *SceneBuilder {
	p, err := Popup(PopupProps{Src: src, Children: children})
	return s.addOrFail(p, err)
}

// Element appends a markup element.
func (s *SceneBuilder) Element(tag string, attrs map[string]string, children ...any) *SceneBuilder {
	e, err := Element(ElementProps{Tag: tag, Attrs: attrs, Children: children})
	return s.addOrFail(e, err)
}

// Translation appends a translation boundary for one language.
func (s *SceneBuilder) Translation(language string, dir domain.Direction, children ...any) *SceneBuilder {
	t, err := Translation(TranslationProps{Language: language, Direction: dir, Children: children})
	return s.addOrFail(t, err)
}

// Page returns the page builder the scene belongs to, to continue the chain.
// It is nil for standalone scenes.
func (s *SceneBuilder) Page() *PageBuilder {
	return s.page
}

// Build validates the scene.
func (s *SceneBuilder) Build() (*domain.Scene, error) {
	if s.err != nil {
		return nil, s.err
	}
	props := s.props
	props.Children = s.kids
	return Scene(props)
}

func (s *SceneBuilder) addOrFail(n domain.Node, err error) *SceneBuilder {
	if err != nil {
		if s.err == nil {
			s.err = err
		}
		return s
	}
	return s.Add(n)
}

// Must panics on error. It is meant for package-level page definitions and
// tests.
func Must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
