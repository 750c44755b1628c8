package ai

import (
	"context"
	"errors"
	"time"

	"github.com/lingualoop/backend/internal/progression"
)

// ErrProviderUnavailable is returned when a backing model or service
// cannot be reached. Callers should fall back to the mock responder.
var ErrProviderUnavailable = errors.New("ai provider unavailable")

// Message is one turn in a conversation.
type Message struct {
	Role      string    `json:"role"` // "learner" or "tutor"
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Context carries the conversational state a responder needs to produce
// a reply pitched at the learner.
type Context struct {
	Topic    string           `json:"topic,omitempty"`
	Language string           `json:"language,omitempty"`
	Band     progression.Band `json:"band"`
	History  []Message        `json:"history,omitempty"`
}

// Correction is one suggested fix for a learner's utterance.
type Correction struct {
	Original  string `json:"original"`
	Corrected string `json:"corrected"`
	Note      string `json:"note,omitempty"`
}

// Reply is a tutor response to a learner message.
type Reply struct {
	Content     string       `json:"content"`
	Corrections []Correction `json:"corrections,omitempty"`
	Encouraged  bool         `json:"encouraged"`
}

// Metrics is a responder's assessment of a conversation transcript.
type Metrics struct {
	AccuracyRate    float64 `json:"accuracyRate"`    // 0..100
	EngagementScore float64 `json:"engagementScore"` // 0..100
	VocabularyRange int     `json:"vocabularyRange"` // distinct words observed
}

// Responder produces tutor replies and performance assessments. The
// production implementation talks to an external model; the mock keeps
// everything local and deterministic per seed.
type Responder interface {
	// GenerateReply produces the tutor's next turn for the learner's
	// message within the given context.
	GenerateReply(ctx context.Context, conv *Context, learnerMessage string) (*Reply, error)

	// AssessPerformance scores a finished conversation.
	AssessPerformance(ctx context.Context, conv *Context) (*Metrics, error)
}
