package compiler

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/libretto/internal/dto"
	"github.com/aretw0/libretto/pkg/domain"
	"github.com/aretw0/libretto/pkg/dsl"
	"github.com/aretw0/libretto/pkg/registry"
)

// Format is the encoding of an authoring document.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file extension; anything that is
// not .json is read as YAML.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// Compiler turns authoring documents into validated page trees. Every node
// goes through the dsl factories, so document errors are the same
// ValidationErrors a Go author would get.
type Compiler struct {
	registry         *registry.Registry
	defaultGenerator string
	defaultSink      string
	maxSize          int
}

// Option configures the Compiler.
type Option func(*Compiler)

// WithDefaultGenerator sets the generator used by scenes that name none.
func WithDefaultGenerator(name string) Option {
	return func(c *Compiler) {
		c.defaultGenerator = name
	}
}

// WithMaxSize rejects documents larger than n bytes. Zero means no limit.
func WithMaxSize(n int) Option {
	return func(c *Compiler) {
		c.maxSize = n
	}
}

// WithDefaultSink gives scenes that declare no sink the file pattern.
// "{page}" in pattern is replaced with the page name.
func WithDefaultSink(pattern string) Option {
	return func(c *Compiler) {
		c.defaultSink = pattern
	}
}

// New creates a compiler resolving capabilities from reg.
func New(reg *registry.Registry, opts ...Option) *Compiler {
	c := &Compiler{registry: reg}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CompileFile reads and compiles the document at path. A document without a
// name is named after the file.
func (c *Compiler) CompileFile(path string) (*domain.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	doc, err := c.parse(data, FormatFromPath(path))
	if err == nil {
		if doc.Name == "" {
			doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		var page *domain.Page
		if page, err = c.Build(doc); err == nil {
			return page, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
}

// Compile sanitizes, parses and builds a page document.
func (c *Compiler) Compile(data []byte, format Format) (*domain.Page, error) {
	doc, err := c.parse(data, format)
	if err != nil {
		return nil, err
	}
	return c.Build(doc)
}

func (c *Compiler) parse(data []byte, format Format) (*dto.PageDocument, error) {
	data, err := Sanitize(data, c.maxSize)
	if err != nil {
		return nil, err
	}
	return Parse(data, format)
}

// Parse decodes a document without building it.
func Parse(data []byte, format Format) (*dto.PageDocument, error) {
	var raw map[string]any
	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse page: %w", err)
		}
	case FormatYAML, "":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse page: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if raw == nil {
		return nil, fmt.Errorf("failed to parse page: empty document")
	}

	var doc dto.PageDocument
	if err := decode(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode page: %w", err)
	}
	return &doc, nil
}

func decode(input any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           target,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// Build validates a decoded document bottom-up.
func (c *Compiler) Build(doc *dto.PageDocument) (*domain.Page, error) {
	scenes := make([]any, 0, len(doc.Scenes))
	for i, sd := range doc.Scenes {
		sc, err := c.buildScene(doc.Name, sd)
		if err != nil {
			return nil, fmt.Errorf("scenes[%d]: %w", i, err)
		}
		scenes = append(scenes, sc)
	}
	return dsl.Page(dsl.PageProps{Name: doc.Name, Children: scenes})
}

func (c *Compiler) buildScene(page string, sd dto.SceneDocument) (*domain.Scene, error) {
	props := dsl.SceneProps{
		Languages:         sd.Languages,
		AuthoringLanguage: sd.AuthoringLanguage,
		Sink:              domain.Sink{WriteToFile: sd.Sink.WriteToFile},
	}
	if props.Sink.WriteToFile == "" && c.defaultSink != "" {
		if page == "" {
			page = "page"
		}
		props.Sink.WriteToFile = strings.ReplaceAll(c.defaultSink, "{page}", page)
	}

	ref := sd.Generator
	if ref == nil && c.defaultGenerator != "" {
		ref = &dto.CapabilityRef{Name: c.defaultGenerator}
	}
	if ref != nil {
		if c.registry == nil {
			return nil, fmt.Errorf("generator %s: no registry", ref.Name)
		}
		gen, err := c.registry.Generator(ref.Name, ref.Params)
		if err != nil {
			return nil, err
		}
		props.Generate = gen
	}
	if sd.Translator != nil {
		if c.registry == nil {
			return nil, fmt.Errorf("translator %s: no registry", sd.Translator.Name)
		}
		tr, err := c.registry.Translator(sd.Translator.Name, sd.Translator.Params)
		if err != nil {
			return nil, err
		}
		props.Translate = tr
	}

	children, err := buildChildren(sd.Children)
	if err != nil {
		return nil, err
	}
	props.Children = children
	return dsl.Scene(props)
}

// buildChildren converts raw children. Strings and unrecognised values are
// passed through untouched for the factory to accept or reject.
func buildChildren(raw []any) ([]any, error) {
	out := make([]any, 0, len(raw))
	for i, item := range raw {
		m, ok := item.(map[string]any)
		if !ok {
			out = append(out, item)
			continue
		}
		n, err := buildNode(m)
		if err != nil {
			return nil, fmt.Errorf("children[%d]: %w", i, err)
		}
		out = append(out, n)
	}
	return out, nil
}

func buildNode(m map[string]any) (domain.Node, error) {
	var nd dto.NodeDocument
	if err := decode(m, &nd); err != nil {
		return nil, fmt.Errorf("failed to decode node: %w", err)
	}
	children, err := buildChildren(nd.Children)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(nd.Kind) {
	case "text":
		return nil, fmt.Errorf("text nodes are written as plain strings")
	case "speaker":
		return dsl.Speaker(dsl.SpeakerProps{Src: nd.Src}), nil
	case "popup":
		return dsl.Popup(dsl.PopupProps{Src: nd.Src, Children: children})
	case "element":
		return dsl.Element(dsl.ElementProps{Tag: nd.Tag, Attrs: nd.Attrs, Children: children})
	case "translation":
		return dsl.Translation(dsl.TranslationProps{
			Language:  nd.Language,
			Direction: domain.Direction(nd.Direction),
			Children:  children,
		})
	case "scene", "page":
		return nil, fmt.Errorf("%s cannot be nested", nd.Kind)
	case "":
		return nil, fmt.Errorf("node is missing kind")
	default:
		return nil, fmt.Errorf("unknown node kind %q", nd.Kind)
	}
}
