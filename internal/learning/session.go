package learning

import (
	"time"

	"github.com/google/uuid"
)

// SessionType is the kind of learning session a learner completed.
type SessionType string

const (
	SessionConversation  SessionType = "conversation"
	SessionVocabulary    SessionType = "vocabulary"
	SessionGrammar       SessionType = "grammar"
	SessionPronunciation SessionType = "pronunciation"
	SessionListening     SessionType = "listening"
)

// PerformanceMetrics is the measured outcome of one session.
type PerformanceMetrics struct {
	AccuracyRate    float64 `json:"accuracyRate"`    // 0..100
	EngagementScore float64 `json:"engagementScore"` // 0..100
	NewWords        int     `json:"newWords"`
	MistakesCount   int     `json:"mistakesCount"`
	HintsUsed       int     `json:"hintsUsed"`
}

// Session is the record of one completed learning session. Immutable
// once stored.
type Session struct {
	ID              string             `json:"id"`
	UserID          string             `json:"userId"`
	Type            SessionType        `json:"type"`
	Topic           string             `json:"topic,omitempty"`
	Language        string             `json:"language,omitempty"`
	DifficultyLevel int                `json:"difficultyLevel"` // 1..10
	DurationMinutes int                `json:"durationMinutes"`
	Metrics         PerformanceMetrics `json:"metrics"`
	CompletedAt     time.Time          `json:"completedAt"`
}

// NewSession creates a session record with a generated ID.
func NewSession(userID string, typ SessionType) *Session {
	return &Session{
		ID:     uuid.NewString(),
		UserID: userID,
		Type:   typ,
	}
}

func (s *Session) clone() *Session {
	cp := *s
	return &cp
}
