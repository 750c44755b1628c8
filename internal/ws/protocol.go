package ws

import (
	"encoding/json"
	"time"

	"github.com/lingualoop/backend/internal/progression"
)

type MessageType string

// Client-to-server message types.
const (
	MsgJoinRoom      MessageType = "join_room"
	MsgLeaveRoom     MessageType = "leave_room"
	MsgChat          MessageType = "chat"
	MsgTyping        MessageType = "typing"
	MsgSessionReport MessageType = "session_report"
)

// Server-to-client message types.
const (
	MsgWelcome             MessageType = "welcome"
	MsgRoomJoined          MessageType = "room_joined"
	MsgRoomLeft            MessageType = "room_left"
	MsgChatMessage         MessageType = "chat_message"
	MsgTypingIndicator     MessageType = "typing_indicator"
	MsgPresenceUpdate      MessageType = "presence_update"
	MsgProgressResult      MessageType = "progress_result"
	MsgAchievementUnlocked MessageType = "achievement_unlocked"
	MsgLevelUp             MessageType = "level_up"
	MsgError               MessageType = "error"
)

// WSMessage is the envelope for server-to-client messages.
type WSMessage struct {
	Type    MessageType `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// ClientMessage is the envelope for client-to-server messages. The
// payload stays raw until the type is known.
type ClientMessage struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type JoinRoomPayload struct {
	Language        string `json:"language"`
	DifficultyLevel int    `json:"difficultyLevel"`
}

type LeaveRoomPayload struct {
	RoomID string `json:"roomId"`
}

type ChatPayload struct {
	RoomID  string `json:"roomId"`
	Content string `json:"content"`
}

type TypingPayload struct {
	RoomID string `json:"roomId"`
	Typing bool   `json:"typing"`
}

// SessionReportPayload carries one finished activity from the client.
type SessionReportPayload struct {
	Kind            string   `json:"kind"`
	Topic           string   `json:"topic,omitempty"`
	Language        string   `json:"language,omitempty"`
	DurationMinutes int      `json:"durationMinutes,omitempty"`
	AccuracyRate    *float64 `json:"accuracyRate,omitempty"`
	DifficultyLevel *int     `json:"difficultyLevel,omitempty"`
	EngagementScore float64  `json:"engagementScore,omitempty"`
	NewWordsLearned int      `json:"newWordsLearned,omitempty"`
	MistakesCount   int      `json:"mistakesCount,omitempty"`
}

type WelcomePayload struct {
	UserID      string `json:"userId"`
	OnlineCount int    `json:"onlineCount"`
}

type RoomJoinedPayload struct {
	Room *RoomInfo `json:"room"`
}

type RoomLeftPayload struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
}

type ChatMessagePayload struct {
	MessageID string    `json:"messageId"`
	RoomID    string    `json:"roomId"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	SentAt    time.Time `json:"sentAt"`
}

type TypingIndicatorPayload struct {
	RoomID string `json:"roomId"`
	UserID string `json:"userId"`
	Typing bool   `json:"typing"`
}

type PresenceUpdatePayload struct {
	OnlineCount int      `json:"onlineCount"`
	OnlineUsers []string `json:"onlineUsers"`
}

// ProgressResultPayload echoes the progression outcome of a session
// report back to the submitting client.
type ProgressResultPayload struct {
	Result     *progression.UpdateResult `json:"result"`
	Level      int                       `json:"level"`
	TotalXP    int                       `json:"totalXp"`
	Streak     int                       `json:"streak"`
	Motivation string                    `json:"motivation,omitempty"`
}

type AchievementUnlockedPayload struct {
	UserID      string `json:"userId"`
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Tier        int    `json:"tier"`
	BadgeIcon   string `json:"badgeIcon,omitempty"`
}

type LevelUpPayload struct {
	UserID   string `json:"userId"`
	NewLevel int    `json:"newLevel"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
