package dto

// PageDocument is the authoring representation of a page.
// It uses "mapstructure" tags to match the YAML/JSON keys.
type PageDocument struct {
	Name   string          `json:"name" mapstructure:"name"`
	Scenes []SceneDocument `json:"scenes" mapstructure:"scenes"`
}

// SceneDocument describes one scene. Children are left raw: each is either a
// plain string or a NodeDocument map, decoded by the compiler.
type SceneDocument struct {
	Languages         []string       `json:"languages" mapstructure:"languages"`
	AuthoringLanguage string         `json:"authoring_language" mapstructure:"authoring_language"`
	Generator         *CapabilityRef `json:"generator" mapstructure:"generator"`
	Translator        *CapabilityRef `json:"translator" mapstructure:"translator"`
	Sink              SinkDocument   `json:"sink" mapstructure:"sink"`
	Children          []any          `json:"children" mapstructure:"children"`
}

// CapabilityRef names a registered generator or translator.
type CapabilityRef struct {
	Name   string         `json:"name" mapstructure:"name"`
	Params map[string]any `json:"params" mapstructure:"params"`
}

// SinkDocument mirrors domain.Sink minus the callback.
type SinkDocument struct {
	WriteToFile string `json:"write_to_file" mapstructure:"write_to_file"`
}

// NodeDocument is a tagged record for any non-text node.
type NodeDocument struct {
	Kind      string            `json:"kind" mapstructure:"kind"`
	Src       string            `json:"src" mapstructure:"src"`
	Tag       string            `json:"tag" mapstructure:"tag"`
	Attrs     map[string]string `json:"attrs" mapstructure:"attrs"`
	Language  string            `json:"language" mapstructure:"language"`
	Direction string            `json:"direction" mapstructure:"direction"`
	Children  []any             `json:"children" mapstructure:"children"`
}
