package ws

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// difficultyTolerance is how far apart two learners' requested
// difficulty levels can be and still share a room.
const difficultyTolerance = 2

// RoomInfo is the wire representation of a practice room.
type RoomInfo struct {
	ID              string    `json:"id"`
	Language        string    `json:"language"`
	DifficultyLevel int       `json:"difficultyLevel"`
	Participants    []string  `json:"participants"`
	CreatedAt       time.Time `json:"createdAt"`
}

type room struct {
	id           string
	language     string
	difficulty   int
	participants map[string]bool
	createdAt    time.Time
}

func (r *room) info() *RoomInfo {
	users := make([]string, 0, len(r.participants))
	for u := range r.participants {
		users = append(users, u)
	}
	return &RoomInfo{
		ID:              r.id,
		Language:        r.language,
		DifficultyLevel: r.difficulty,
		Participants:    users,
		CreatedAt:       r.createdAt,
	}
}

// RoomRegistry matches learners into practice rooms by language and
// difficulty. Safe for concurrent use.
type RoomRegistry struct {
	mu      sync.Mutex
	rooms   map[string]*room
	maxSize int
	now     func() time.Time
}

// NewRoomRegistry creates a registry capping rooms at maxSize
// participants. Pass 0 for the default of 8.
func NewRoomRegistry(maxSize int) *RoomRegistry {
	if maxSize <= 0 {
		maxSize = 8
	}
	return &RoomRegistry{
		rooms:   make(map[string]*room),
		maxSize: maxSize,
		now:     time.Now,
	}
}

// Join places the user in a room for the language with a compatible
// difficulty level, creating a fresh room when none has space. A user
// already in a room is moved.
func (rr *RoomRegistry) Join(userID, language string, difficulty int) *RoomInfo {
	rr.mu.Lock()
	defer rr.mu.Unlock()

	rr.leaveLocked(userID)

	var target *room
	for _, r := range rr.rooms {
		if r.language != language || len(r.participants) >= rr.maxSize {
			continue
		}
		diff := r.difficulty - difficulty
		if diff < 0 {
			diff = -diff
		}
		if diff <= difficultyTolerance {
			target = r
			break
		}
	}
	if target == nil {
		target = &room{
			id:           uuid.NewString(),
			language:     language,
			difficulty:   difficulty,
			participants: make(map[string]bool),
			createdAt:    rr.now(),
		}
		rr.rooms[target.id] = target
	}
	target.participants[userID] = true
	return target.info()
}

// Leave removes the user from their room, dropping the room once empty.
// Returns the room ID left, or "" if the user was not in a room.
func (rr *RoomRegistry) Leave(userID string) string {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return rr.leaveLocked(userID)
}

func (rr *RoomRegistry) leaveLocked(userID string) string {
	for id, r := range rr.rooms {
		if r.participants[userID] {
			delete(r.participants, userID)
			if len(r.participants) == 0 {
				delete(rr.rooms, id)
			}
			return id
		}
	}
	return ""
}

// Participants returns the user IDs in a room, or nil for an unknown
// room.
func (rr *RoomRegistry) Participants(roomID string) []string {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	r, ok := rr.rooms[roomID]
	if !ok {
		return nil
	}
	users := make([]string, 0, len(r.participants))
	for u := range r.participants {
		users = append(users, u)
	}
	return users
}

// RoomOf returns the room the user currently occupies, or nil.
func (rr *RoomRegistry) RoomOf(userID string) *RoomInfo {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	for _, r := range rr.rooms {
		if r.participants[userID] {
			return r.info()
		}
	}
	return nil
}

// Count returns how many rooms are open.
func (rr *RoomRegistry) Count() int {
	rr.mu.Lock()
	defer rr.mu.Unlock()
	return len(rr.rooms)
}
