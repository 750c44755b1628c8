package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/lingualoop/backend/internal/adaptive"
	"github.com/lingualoop/backend/internal/ai"
	"github.com/lingualoop/backend/internal/config"
	"github.com/lingualoop/backend/internal/learning"
	"github.com/lingualoop/backend/internal/progression"
)

// Server exposes the websocket endpoint and the HTTP API.
type Server struct {
	config    *config.Config
	hub       *Hub
	rooms     *RoomRegistry
	tracker   *progression.Tracker
	sessions  *learning.Store
	responder ai.Responder

	authToken      string
	jwtSecret      string
	allowedOrigins map[string]bool
	allowedHosts   map[string]bool
	startedAt      time.Time
}

func NewServer(cfg *config.Config, hub *Hub, rooms *RoomRegistry, tracker *progression.Tracker, sessions *learning.Store, responder ai.Responder, allowedOrigins []string) *Server {
	s := &Server{
		config:         cfg,
		hub:            hub,
		rooms:          rooms,
		tracker:        tracker,
		sessions:       sessions,
		responder:      responder,
		authToken:      cfg.Auth.Token,
		jwtSecret:      cfg.Auth.JWTSecret,
		allowedOrigins: make(map[string]bool),
		allowedHosts:   make(map[string]bool),
		startedAt:      time.Now(),
	}

	for _, origin := range allowedOrigins {
		trimmed := strings.TrimSpace(origin)
		if trimmed == "" {
			continue
		}
		s.allowedOrigins[trimmed] = true
		if parsed, err := url.Parse(trimmed); err == nil && parsed.Host != "" {
			s.allowedHosts[parsed.Host] = true
		}
	}

	return s
}

func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/api/profile", s.handleProfile)
	mux.HandleFunc("/api/activity", s.handleActivity)
	mux.HandleFunc("/api/quests", s.handleQuests)
	mux.HandleFunc("/api/quests/claim", s.handleClaimQuest)
	mux.HandleFunc("/api/powerups/use", s.handleUsePowerUp)
	mux.HandleFunc("/api/leaderboard", s.handleLeaderboard)
	mux.HandleFunc("/api/league", s.handleLeague)
	mux.HandleFunc("/api/recommendation", s.handleRecommendation)
	mux.HandleFunc("/api/health", s.handleHealth)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: s.checkOrigin,
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade error: %v", err)
		return
	}

	log.Printf("WebSocket client connected: %s (%s)", userID, r.RemoteAddr)
	c := s.hub.AddClient(userID, conn)
	s.hub.SendTo(userID, WSMessage{
		Type: MsgWelcome,
		Payload: WelcomePayload{
			UserID:      userID,
			OnlineCount: s.hub.OnlineCount(),
		},
	})

	go s.readLoop(c)
}

func (s *Server) readLoop(c *client) {
	defer func() {
		if roomID := s.rooms.Leave(c.userID); roomID != "" {
			s.notifyRoomLeft(roomID, c.userID)
		}
		s.hub.RemoveClient(c)
		log.Printf("WebSocket client disconnected: %s", c.userID)
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			s.sendError(c.userID, "malformed message")
			continue
		}
		s.dispatch(c, &msg)
	}
}

func (s *Server) dispatch(c *client, msg *ClientMessage) {
	switch msg.Type {
	case MsgJoinRoom:
		var p JoinRoomPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.Language == "" {
			s.sendError(c.userID, "invalid join_room payload")
			return
		}
		info := s.rooms.Join(c.userID, p.Language, p.DifficultyLevel)
		s.hub.SendToAll(info.Participants, WSMessage{
			Type:    MsgRoomJoined,
			Payload: RoomJoinedPayload{Room: info},
		})

	case MsgLeaveRoom:
		if roomID := s.rooms.Leave(c.userID); roomID != "" {
			s.notifyRoomLeft(roomID, c.userID)
		}

	case MsgChat:
		var p ChatPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil || p.Content == "" {
			s.sendError(c.userID, "invalid chat payload")
			return
		}
		s.handleChat(c.userID, &p)

	case MsgTyping:
		var p TypingPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			s.sendError(c.userID, "invalid typing payload")
			return
		}
		s.hub.SendToAll(s.rooms.Participants(p.RoomID), WSMessage{
			Type: MsgTypingIndicator,
			Payload: TypingIndicatorPayload{
				RoomID: p.RoomID,
				UserID: c.userID,
				Typing: p.Typing,
			},
		})

	case MsgSessionReport:
		var p SessionReportPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			s.sendError(c.userID, "invalid session_report payload")
			return
		}
		s.handleSessionReport(c.userID, &p)

	default:
		s.sendError(c.userID, fmt.Sprintf("unknown message type %q", msg.Type))
	}
}

// handleChat relays the learner's message to their room. In a solo room
// the AI tutor answers instead.
func (s *Server) handleChat(userID string, p *ChatPayload) {
	participants := s.rooms.Participants(p.RoomID)
	if participants == nil {
		s.sendError(userID, "unknown room")
		return
	}

	chat := WSMessage{
		Type: MsgChatMessage,
		Payload: ChatMessagePayload{
			MessageID: uuid.NewString(),
			RoomID:    p.RoomID,
			UserID:    userID,
			Content:   p.Content,
			SentAt:    time.Now(),
		},
	}
	s.hub.SendToAll(participants, chat)

	if len(participants) > 1 || s.responder == nil {
		return
	}

	band := progression.BandBeginner
	if profile, err := s.tracker.Profile(userID); err == nil {
		band = profile.Band()
	}
	reply, err := s.responder.GenerateReply(context.Background(), &ai.Context{Band: band}, p.Content)
	if err != nil {
		log.Printf("tutor reply for %s failed: %v", userID, err)
		return
	}
	s.hub.SendTo(userID, WSMessage{
		Type: MsgChatMessage,
		Payload: ChatMessagePayload{
			MessageID: uuid.NewString(),
			RoomID:    p.RoomID,
			UserID:    "tutor",
			Content:   reply.Content,
			SentAt:    time.Now(),
		},
	})
}

func (s *Server) handleSessionReport(userID string, p *SessionReportPayload) {
	report := &progression.ActivityReport{
		Kind:            progression.ActivityKind(p.Kind),
		Topic:           p.Topic,
		DurationMinutes: p.DurationMinutes,
		AccuracyRate:    p.AccuracyRate,
		DifficultyLevel: p.DifficultyLevel,
		EngagementScore: p.EngagementScore,
		NewWordsLearned: p.NewWordsLearned,
		MistakesCount:   p.MistakesCount,
		StreakEligible:  true,
		Timestamp:       time.Now(),
	}

	res, err := s.tracker.RecordActivity(userID, report)
	if err != nil {
		s.sendError(userID, err.Error())
		return
	}
	s.recordSession(userID, p)

	profile, err := s.tracker.Profile(userID)
	if err != nil {
		log.Printf("loading profile for %s: %v", userID, err)
		return
	}
	s.hub.SendTo(userID, WSMessage{
		Type: MsgProgressResult,
		Payload: ProgressResultPayload{
			Result:     res,
			Level:      profile.Level,
			TotalXP:    profile.TotalXP,
			Streak:     profile.CurrentStreakDays,
			Motivation: progression.MotivationalMessage(profile, rand.Intn),
		},
	})
}

// recordSession mirrors a session report into the learning history used
// by the adaptive analyzer.
func (s *Server) recordSession(userID string, p *SessionReportPayload) {
	sess := learning.NewSession(userID, learning.SessionType(p.Kind))
	sess.Topic = p.Topic
	sess.Language = p.Language
	sess.DurationMinutes = p.DurationMinutes
	if p.DifficultyLevel != nil {
		sess.DifficultyLevel = *p.DifficultyLevel
	}
	if p.AccuracyRate != nil {
		sess.Metrics.AccuracyRate = *p.AccuracyRate
	}
	sess.Metrics.EngagementScore = p.EngagementScore
	sess.Metrics.NewWords = p.NewWordsLearned
	sess.Metrics.MistakesCount = p.MistakesCount
	sess.CompletedAt = time.Now()
	s.sessions.Add(sess)
}

func (s *Server) notifyRoomLeft(roomID, userID string) {
	targets := append(s.rooms.Participants(roomID), userID)
	s.hub.SendToAll(targets, WSMessage{
		Type:    MsgRoomLeft,
		Payload: RoomLeftPayload{RoomID: roomID, UserID: userID},
	})
}

func (s *Server) sendError(userID, message string) {
	s.hub.SendTo(userID, WSMessage{Type: MsgError, Payload: ErrorPayload{Message: message}})
}

// NotifyAchievement broadcasts an unlocked achievement. Wired as the
// tracker's achievement callback.
func (s *Server) NotifyAchievement(userID string, ach progression.Achievement, badge progression.Badge) {
	s.hub.Broadcast(WSMessage{
		Type: MsgAchievementUnlocked,
		Payload: AchievementUnlockedPayload{
			UserID:      userID,
			ID:          ach.ID,
			Name:        ach.Name,
			Description: ach.Description,
			Tier:        ach.Tier,
			BadgeIcon:   badge.Icon,
		},
	})
}

// NotifyLevelUp broadcasts a level-up. Wired as the tracker's level-up
// callback.
func (s *Server) NotifyLevelUp(userID string, newLevel int) {
	s.hub.Broadcast(WSMessage{
		Type:    MsgLevelUp,
		Payload: LevelUpPayload{UserID: userID, NewLevel: newLevel},
	})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	profile, err := s.tracker.Profile(userID)
	if err != nil {
		http.Error(w, "loading profile failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, profile)
}

// handleActivity accepts a session report over plain HTTP for clients
// without a websocket connection.
func (s *Server) handleActivity(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var p SessionReportPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	report := &progression.ActivityReport{
		Kind:            progression.ActivityKind(p.Kind),
		Topic:           p.Topic,
		DurationMinutes: p.DurationMinutes,
		AccuracyRate:    p.AccuracyRate,
		DifficultyLevel: p.DifficultyLevel,
		EngagementScore: p.EngagementScore,
		NewWordsLearned: p.NewWordsLearned,
		MistakesCount:   p.MistakesCount,
		StreakEligible:  true,
		Timestamp:       time.Now(),
	}
	res, err := s.tracker.RecordActivity(userID, report)
	if err != nil {
		if errors.Is(err, progression.ErrValidation) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, "recording activity failed", http.StatusInternalServerError)
		return
	}
	s.recordSession(userID, &p)
	writeJSON(w, res)
}

func (s *Server) handleQuests(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	profile, err := s.tracker.Profile(userID)
	if err != nil {
		http.Error(w, "loading profile failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, profile.Quests)
}

func (s *Server) handleClaimQuest(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		QuestID string `json:"questId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.QuestID == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	res, err := s.tracker.ClaimQuest(userID, body.QuestID)
	if err != nil {
		writeProgressionError(w, err)
		return
	}
	writeJSON(w, res)
}

func (s *Server) handleUsePowerUp(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var body struct {
		PowerUpID string `json:"powerUpId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.PowerUpID == "" {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	res, err := s.tracker.UsePowerUp(userID, body.PowerUpID)
	if err != nil {
		writeProgressionError(w, err)
		return
	}
	writeJSON(w, res)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	entries, err := s.tracker.Leaderboard()
	if err != nil {
		http.Error(w, "building leaderboard failed", http.StatusInternalServerError)
		return
	}
	if r.URL.Query().Get("view") == "position" {
		pos, err := progression.LeaderboardPositionFor(entries, userID)
		if err != nil {
			writeProgressionError(w, err)
			return
		}
		writeJSON(w, pos)
		return
	}
	writeJSON(w, entries)
}

func (s *Server) handleLeague(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	profile, err := s.tracker.Profile(userID)
	if err != nil {
		http.Error(w, "loading profile failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, progression.LeagueProgressionFor(profile))
}

func (s *Server) handleRecommendation(w http.ResponseWriter, r *http.Request) {
	userID, err := s.authenticate(r)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	profile, err := s.tracker.Profile(userID)
	if err != nil {
		http.Error(w, "loading profile failed", http.StatusInternalServerError)
		return
	}
	rec := adaptive.Analyze(profile, s.sessions.Recent(userID, 0))
	writeJSON(w, rec)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// writeProgressionError maps domain errors onto HTTP status codes.
func writeProgressionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, progression.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, progression.ErrPrecondition):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, progression.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// IssueToken mints an HS256 JWT for the user, valid for ttl. Intended
// for development and tests; production deployments issue tokens from
// their identity provider.
func IssueToken(secret, userID string, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if len(s.allowedOrigins) > 0 {
		if s.allowedOrigins[origin] {
			return true
		}
		if parsed, err := url.Parse(origin); err == nil && parsed.Host != "" {
			return s.allowedHosts[parsed.Host]
		}
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil {
		return false
	}

	host := parsed.Host
	if host == "" {
		return false
	}

	if host == r.Host {
		return true
	}

	if strings.HasPrefix(host, "localhost:") || host == "localhost" {
		return true
	}
	if strings.HasPrefix(host, "127.0.0.1:") || host == "127.0.0.1" {
		return true
	}
	if strings.HasPrefix(host, "[::1]:") || host == "::1" {
		return true
	}

	return false
}

// securityHeaders applies baseline hardening headers to every response.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		next.ServeHTTP(w, r)
	})
}

func ListenAndServe(host string, port int, mux *http.ServeMux) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	log.Printf("Server listening on %s", addr)
	return http.ListenAndServe(addr, securityHeaders(mux))
}
