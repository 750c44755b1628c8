// Package voice defines the speech synthesis and recognition contracts
// used by pronunciation practice. The server ships only the Null
// implementation; real engines plug in behind these interfaces.
package voice

import (
	"context"
	"errors"
	"time"
)

// ErrUnsupported is returned by implementations that do not provide the
// requested capability. Callers should degrade to text-only practice.
var ErrUnsupported = errors.New("speech capability unsupported")

// SpeechConfig controls synthesis output.
type SpeechConfig struct {
	Language string  `json:"language"`       // BCP 47 tag, e.g. "es-ES"
	Voice    string  `json:"voice,omitempty"`
	Rate     float64 `json:"rate,omitempty"`  // 1.0 = normal speed
	Pitch    float64 `json:"pitch,omitempty"` // 1.0 = normal pitch
}

// Transcript is the result of recognizing one spoken utterance.
type Transcript struct {
	Text       string        `json:"text"`
	Confidence float64       `json:"confidence"` // 0..1
	Language   string        `json:"language,omitempty"`
	Duration   time.Duration `json:"duration,omitempty"`
}

// Capabilities reports what an engine can do, per language.
type Capabilities struct {
	Synthesis   bool     `json:"synthesis"`
	Recognition bool     `json:"recognition"`
	Languages   []string `json:"languages,omitempty"`
}

// Speaker synthesizes audio for tutor prompts.
type Speaker interface {
	// Speak renders text to audio bytes (engine-defined encoding).
	Speak(ctx context.Context, text string, cfg SpeechConfig) ([]byte, error)
	Capabilities() Capabilities
}

// Listener transcribes learner speech.
type Listener interface {
	// Transcribe converts one utterance of audio into text.
	Transcribe(ctx context.Context, audio []byte, language string) (*Transcript, error)
	Capabilities() Capabilities
}

// Null implements both Speaker and Listener by reporting no
// capabilities. It keeps text-only deployments free of nil checks.
type Null struct{}

func (Null) Speak(context.Context, string, SpeechConfig) ([]byte, error) {
	return nil, ErrUnsupported
}

func (Null) Transcribe(context.Context, []byte, string) (*Transcript, error) {
	return nil, ErrUnsupported
}

func (Null) Capabilities() Capabilities { return Capabilities{} }
