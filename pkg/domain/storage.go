package domain

import "github.com/google/uuid"

// Storage is the opaque state handle created for one (scene, language)
// render. The page traversal hands it to the scene render, keeps it in the
// language's history and passes it as Previous to the next scene rendered
// in the same language. It is never modified after creation.
type Storage struct {
	id       uuid.UUID
	scene    int
	language string
}

// NewStorage returns a fresh handle for the given scene index and language.
func NewStorage(scene int, language string) *Storage {
	return &Storage{
		id:       uuid.New(),
		scene:    scene,
		language: language,
	}
}

// ID returns the handle's unique identifier.
func (s *Storage) ID() uuid.UUID { return s.id }

// Scene returns the index of the scene the handle was created for.
func (s *Storage) Scene() int { return s.scene }

// Language returns the language the handle was created for.
func (s *Storage) Language() string { return s.language }

// History maps a language to its storage handles in scene order.
type History map[string][]*Storage

// Last returns the most recent handle for the language, or nil.
func (h History) Last(language string) *Storage {
	stored := h[language]
	if len(stored) == 0 {
		return nil
	}
	return stored[len(stored)-1]
}

// Payload is what a scene render receives.
type Payload struct {
	Language string
	Storage  *Storage
	// Previous is nil on the first scene rendered in Language.
	Previous *Storage
}
