package domain

// Node is any value that can sit in a page tree.
// Nodes are built by the dsl package and are not modified afterwards.
type Node interface {
	Kind() Kind
}

// Text is a plain text leaf.
type Text string

func (Text) Kind() Kind { return KindText }

// Element is a generic markup element such as <strong> or <em>.
type Element struct {
	Tag      string            `json:"tag" yaml:"tag"`
	Attrs    map[string]string `json:"attrs,omitempty" yaml:"attrs,omitempty"`
	Children []Node            `json:"-" yaml:"-"`
}

func (*Element) Kind() Kind { return KindElement }

// Speaker displays the narrator's image.
type Speaker struct {
	// Src is the image reference for the speaker.
	Src string `json:"src" yaml:"src"`
}

func (*Speaker) Kind() Kind { return KindSpeaker }

// Popup displays an image with content during the narration.
// Children are restricted to the WithinScene class.
type Popup struct {
	Src      string `json:"src" yaml:"src"`
	Children []Node `json:"-" yaml:"-"`
}

func (*Popup) Kind() Kind { return KindPopup }

// Direction is the writing direction of a translation.
type Direction string

const (
	DirectionUnset Direction = ""
	DirectionLTR   Direction = "ltr"
	DirectionRTL   Direction = "rtl"
)

// Valid reports whether d is one of the known directions (or unset).
func (d Direction) Valid() bool {
	switch d {
	case DirectionUnset, DirectionLTR, DirectionRTL:
		return true
	}
	return false
}

// Translation holds the content of a scene in one specific language.
// It is a boundary node: valid directly inside a Scene, never inside a
// Popup, an Element or another Translation.
type Translation struct {
	Language  string    `json:"language" yaml:"language"`
	Direction Direction `json:"direction,omitempty" yaml:"direction,omitempty"`
	Children  []Node    `json:"-" yaml:"-"`
}

func (*Translation) Kind() Kind { return KindTranslation }

// Scene is a narrated unit supporting one or more languages.
type Scene struct {
	// Languages lists the supported languages in render order.
	Languages []string

	// AuthoringLanguage is the language the scene's own text is written in.
	// Optional; when empty the first entry of Languages is assumed.
	AuthoringLanguage string

	// Generate produces the timestamped narration for one language.
	Generate Generator

	// Translate, when set, converts authoring text into languages that have
	// no Translation child.
	Translate Translator

	// Sink carries the raw-output options handed to Generate.
	Sink Sink

	Children []Node
}

func (*Scene) Kind() Kind { return KindScene }

// Authoring returns the effective authoring language.
func (s *Scene) Authoring() string {
	if s.AuthoringLanguage != "" {
		return s.AuthoringLanguage
	}
	if len(s.Languages) > 0 {
		return s.Languages[0]
	}
	return ""
}

// Translations returns the Translation children for the given language, in
// authored order.
func (s *Scene) Translations(language string) []*Translation {
	var out []*Translation
	for _, child := range s.Children {
		if tr, ok := child.(*Translation); ok && tr.Language == language {
			out = append(out, tr)
		}
	}
	return out
}

// Page is the top-level authored unit: an ordered list of scenes.
type Page struct {
	Name   string
	Scenes []*Scene
}

func (*Page) Kind() Kind { return KindPage }

// Languages returns every language declared by the page's scenes, in first
// appearance order.
func (p *Page) Languages() []string {
	seen := make(map[string]bool)
	var out []string
	for _, sc := range p.Scenes {
		for _, lang := range sc.Languages {
			if !seen[lang] {
				seen[lang] = true
				out = append(out, lang)
			}
		}
	}
	return out
}
