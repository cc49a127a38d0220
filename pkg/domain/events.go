package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventSceneEnter EventType = "scene_enter"
	EventSceneLeave EventType = "scene_leave"
	EventGenerate   EventType = "generate"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Page      string    `json:"page,omitempty"`
}

// SceneEvent marks entry into or exit from one (scene, language) render.
type SceneEvent struct {
	EventBase
	Scene     int    `json:"scene"`
	Language  string `json:"language"`
	StorageID string `json:"storage_id"`
}

// GenerateEvent reports the outcome of one generation call.
type GenerateEvent struct {
	EventBase
	Scene    int           `json:"scene"`
	Language string        `json:"language"`
	Input    int           `json:"input"`  // Number of tokens sent
	Output   int           `json:"output"` // Number of tokens returned
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// LifecycleHooks defines callbacks for render observability.
type LifecycleHooks struct {
	OnSceneEnter func(context.Context, *SceneEvent)
	OnSceneLeave func(context.Context, *SceneEvent)
	OnGenerate   func(context.Context, *GenerateEvent)
}
