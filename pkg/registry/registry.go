package registry

import (
	"fmt"
	"slices"
	"sync"

	"github.com/mitchellh/mapstructure"

	"github.com/aretw0/libretto/pkg/domain"
)

// GeneratorFactory builds a generator from document parameters.
type GeneratorFactory func(params map[string]any) (domain.Generator, error)

// TranslatorFactory builds a translator from document parameters.
type TranslatorFactory func(params map[string]any) (domain.Translator, error)

// Registry maps the generator and translator names used in authoring
// documents to their factories.
type Registry struct {
	mu          sync.RWMutex
	generators  map[string]GeneratorFactory
	translators map[string]TranslatorFactory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		generators:  make(map[string]GeneratorFactory),
		translators: make(map[string]TranslatorFactory),
	}
}

// Register adds a generator factory to the registry.
// If a factory with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn GeneratorFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.generators[name] = fn
}

// RegisterTranslator adds a translator factory to the registry.
func (r *Registry) RegisterTranslator(name string, fn TranslatorFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.translators[name] = fn
}

// Generator looks up a factory by name and builds a generator.
// Returns an error if the name is not registered.
func (r *Registry) Generator(name string, params map[string]any) (domain.Generator, error) {
	r.mu.RLock()
	fn, ok := r.generators[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("generator not found: %s", name)
	}
	gen, err := fn(params)
	if err != nil {
		return nil, fmt.Errorf("generator %s: %w", name, err)
	}
	return gen, nil
}

// Translator looks up a translator factory by name.
func (r *Registry) Translator(name string, params map[string]any) (domain.Translator, error) {
	r.mu.RLock()
	fn, ok := r.translators[name]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("translator not found: %s", name)
	}
	tr, err := fn(params)
	if err != nil {
		return nil, fmt.Errorf("translator %s: %w", name, err)
	}
	return tr, nil
}

// Names returns the registered generator names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DecodeParams decodes document parameters into a typed struct. Scalars are
// weakly typed so that YAML "150" and 150 both decode into an int.
func DecodeParams(params map[string]any, target any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           target,
		TagName:          "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(params); err != nil {
		return fmt.Errorf("invalid params: %w", err)
	}
	return nil
}
