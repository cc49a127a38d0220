package domain

// Kind tags every node in a page tree.
type Kind string

const (
	// KindText is a plain text leaf.
	KindText Kind = "text"
	// KindElement is a markup element (tag, attributes, children).
	KindElement Kind = "element"
	// KindSpeaker shows the image of whoever is narrating.
	KindSpeaker Kind = "speaker"
	// KindPopup shows an image with content while the narration runs.
	KindPopup Kind = "popup"
	// KindTranslation is a boundary node holding content for one language.
	KindTranslation Kind = "translation"
	// KindScene is a narrated unit rendered once per supported language.
	KindScene Kind = "scene"
	// KindPage is the top-level ordered list of scenes.
	KindPage Kind = "page"
)

// String returns the capitalized display name used in error messages.
func (k Kind) String() string {
	switch k {
	case KindText:
		return "Text"
	case KindElement:
		return "Element"
	case KindSpeaker:
		return "Speaker"
	case KindPopup:
		return "Popup"
	case KindTranslation:
		return "Translation"
	case KindScene:
		return "Scene"
	case KindPage:
		return "Page"
	}
	return string(k)
}

// Containment classes. The membership validator consumes these; adding a
// node kind only means adding it to the right class.
var (
	// WithinScene lists the kinds allowed directly inside a Scene, Popup,
	// Translation or Element.
	WithinScene = []Kind{KindText, KindElement, KindSpeaker, KindPopup}

	// SceneBoundaries lists the kinds allowed directly inside a Scene only.
	SceneBoundaries = []Kind{KindTranslation}

	// Scenes is the only class a Page accepts.
	Scenes = []Kind{KindScene}
)
