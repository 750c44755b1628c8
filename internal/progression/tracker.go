package progression

import (
	"context"
	"log"
	"sync"
	"time"
)

const saveInterval = 30 * time.Second

// AchievementCallback is invoked for each newly unlocked achievement,
// with the badge minted alongside it.
type AchievementCallback func(userID string, achievement Achievement, badge Badge)

// LevelUpCallback is invoked when an update raises a learner's level.
type LevelUpCallback func(userID string, newLevel int)

// Tracker owns the live profiles for all active learners. It serializes
// updates per user, keeps quests current, and periodically persists
// dirty profiles to disk. Callbacks are dispatched outside the lock.
type Tracker struct {
	persist *Store
	engine  *Engine

	mu       sync.Mutex
	profiles map[string]*Profile
	dirty    map[string]bool

	onAchievement AchievementCallback
	onLevelUp     LevelUpCallback
}

// NewTracker creates a Tracker backed by the given store and engine.
// Profiles load lazily on first access. The caller must run Run in a
// goroutine for periodic persistence.
func NewTracker(persist *Store, engine *Engine) *Tracker {
	return &Tracker{
		persist:  persist,
		engine:   engine,
		profiles: make(map[string]*Profile),
		dirty:    make(map[string]bool),
	}
}

// OnAchievement registers a callback invoked whenever an achievement
// unlocks. Must be called before Run.
func (t *Tracker) OnAchievement(cb AchievementCallback) {
	t.onAchievement = cb
}

// OnLevelUp registers a callback invoked on level-ups. Must be called
// before Run.
func (t *Tracker) OnLevelUp(cb LevelUpCallback) {
	t.onLevelUp = cb
}

// Run periodically saves dirty profiles to disk. It blocks until ctx is
// cancelled, then performs a final save of everything dirty.
func (t *Tracker) Run(ctx context.Context) {
	ticker := time.NewTicker(saveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.saveDirty()
			return
		case <-ticker.C:
			t.saveDirty()
		}
	}
}

// profileLocked returns the live profile for a user, loading it from
// disk on first access. Caller must hold t.mu.
func (t *Tracker) profileLocked(userID string) (*Profile, error) {
	if p, ok := t.profiles[userID]; ok {
		return p, nil
	}
	p, err := t.persist.Load(userID)
	if err != nil {
		return nil, err
	}
	if RefreshQuests(p, time.Now()) {
		t.dirty[userID] = true
	}
	t.profiles[userID] = p
	return p, nil
}

// Profile returns a deep copy of the user's current profile, with
// quests refreshed for the current period.
func (t *Tracker) Profile(userID string) (*Profile, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, err := t.profileLocked(userID)
	if err != nil {
		return nil, err
	}
	if RefreshQuests(p, time.Now()) {
		t.dirty[userID] = true
	}
	return p.Clone(), nil
}

// RecordActivity applies one completed activity to the user's profile
// and advances any quest objectives the activity feeds. Achievement and
// level-up callbacks fire after the lock is released.
func (t *Tracker) RecordActivity(userID string, report *ActivityReport) (*UpdateResult, error) {
	t.mu.Lock()
	p, err := t.profileLocked(userID)
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}
	RefreshQuests(p, time.Now())

	res, err := t.engine.Apply(p, report)
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}
	t.advanceQuests(p, report)
	t.dirty[userID] = true
	t.mu.Unlock()

	t.dispatch(userID, res)
	return res, nil
}

// advanceQuests feeds an applied activity into the current quests:
// summed minutes and words, best accuracy, profile weekly XP, capped
// streak.
func (t *Tracker) advanceQuests(p *Profile, report *ActivityReport) {
	for i := range p.Quests {
		q := &p.Quests[i]
		if q.Claimed {
			continue
		}
		for j := range q.Objectives {
			obj := &q.Objectives[j]
			switch obj.Kind {
			case ObjectiveConversationMinutes:
				if report.Kind == ActivityConversation {
					obj.Current += report.DurationMinutes
				}
			case ObjectiveAccuracyRate:
				if report.AccuracyRate != nil && int(*report.AccuracyRate) > obj.Current {
					obj.Current = int(*report.AccuracyRate)
				}
			case ObjectiveVocabularyLearned:
				obj.Current += report.NewWordsLearned
			case ObjectiveWeeklyXP:
				obj.Current = p.WeeklyXP
			case ObjectiveStreakMaintained:
				streak := p.CurrentStreakDays
				if streak > obj.Target {
					streak = obj.Target
				}
				obj.Current = streak
			}
		}
		recomputeQuestProgress(q)
	}
}

// ClaimQuest pays out a completed quest for the user.
func (t *Tracker) ClaimQuest(userID, questID string) (*UpdateResult, error) {
	t.mu.Lock()
	p, err := t.profileLocked(userID)
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}
	res, err := t.engine.ClaimQuest(p, questID)
	if err != nil {
		t.mu.Unlock()
		return nil, err
	}
	t.dirty[userID] = true
	t.mu.Unlock()

	t.dispatch(userID, res)
	return res, nil
}

// UsePowerUp consumes one use of the user's power-up.
func (t *Tracker) UsePowerUp(userID, powerUpID string) (*PowerUpResult, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	p, err := t.profileLocked(userID)
	if err != nil {
		return nil, err
	}
	res, err := t.engine.UsePowerUp(p, powerUpID)
	if err != nil {
		return nil, err
	}
	t.dirty[userID] = true
	return res, nil
}

// Leaderboard builds the weekly leaderboard over every known profile
// (loaded and on disk), ranked by weekly XP.
func (t *Tracker) Leaderboard() ([]LeaderboardEntry, error) {
	users, err := t.persist.ListUsers()
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	seen := make(map[string]bool)
	var entries []LeaderboardEntry
	add := func(p *Profile) {
		if seen[p.UserID] {
			return
		}
		seen[p.UserID] = true
		entries = append(entries, LeaderboardEntry{
			UserID:   p.UserID,
			Username: p.Username,
			WeeklyXP: p.WeeklyXP,
			Level:    p.Level,
			League:   p.League,
		})
	}
	for _, p := range t.profiles {
		add(p)
	}
	for _, userID := range users {
		if seen[userID] {
			continue
		}
		p, err := t.persist.Load(userID)
		if err != nil {
			log.Printf("Skipping unreadable profile %s: %v", userID, err)
			continue
		}
		add(p)
	}
	return RankLeaderboard(entries), nil
}

// dispatch fires registered callbacks for an update result.
func (t *Tracker) dispatch(userID string, res *UpdateResult) {
	if t.onAchievement != nil {
		for i, a := range res.NewAchievements {
			var badge Badge
			if i < len(res.NewBadges) {
				badge = res.NewBadges[i]
			}
			t.onAchievement(userID, a, badge)
		}
	}
	if t.onLevelUp != nil && res.LevelUp {
		t.onLevelUp(userID, res.NewLevel)
	}
}

func (t *Tracker) saveDirty() {
	t.mu.Lock()
	var toSave []*Profile
	for userID := range t.dirty {
		if p, ok := t.profiles[userID]; ok {
			toSave = append(toSave, p.Clone())
		}
		delete(t.dirty, userID)
	}
	t.mu.Unlock()

	for _, p := range toSave {
		if err := t.persist.Save(p); err != nil {
			log.Printf("Failed to save profile %s: %v", p.UserID, err)
		}
	}
}
