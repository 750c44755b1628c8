package progression

import (
	"time"
)

// League identifies the weekly competition tier a learner sits in.
type League string

const (
	LeagueBronze   League = "bronze"
	LeagueSilver   League = "silver"
	LeagueGold     League = "gold"
	LeaguePlatinum League = "platinum"
	LeagueDiamond  League = "diamond"
)

// Rarity classifies how hard a badge is to earn.
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// ActivityKind is the kind of learning activity that earns XP.
type ActivityKind string

const (
	ActivityConversation  ActivityKind = "conversation"
	ActivityVocabulary    ActivityKind = "vocabulary"
	ActivityGrammar       ActivityKind = "grammar"
	ActivityPronunciation ActivityKind = "pronunciation"
	ActivityAchievement   ActivityKind = "achievement"
)

// ActivityReport is the telemetry for one completed learning activity.
// It is input-only: engines read it and never mutate it. Optional fields
// are pointers so "absent" is distinguishable from zero.
type ActivityReport struct {
	Kind            ActivityKind `json:"kind"`
	Topic           string       `json:"topic,omitempty"`
	DurationMinutes int          `json:"durationMinutes,omitempty"`
	AccuracyRate    *float64     `json:"accuracyRate,omitempty"`
	DifficultyLevel *int         `json:"difficultyLevel,omitempty"`
	EngagementScore float64      `json:"engagementScore,omitempty"`
	NewWordsLearned int          `json:"newWordsLearned,omitempty"`
	MistakesCount   int          `json:"mistakesCount,omitempty"`
	StreakEligible  bool         `json:"streakEligible,omitempty"`
	Timestamp       time.Time    `json:"timestamp"`
}

// Badge is a cosmetic trophy. Immutable once created; only the badge
// engine creates them when an achievement completes.
type Badge struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Icon        string    `json:"icon"`
	Category    string    `json:"category"`
	Rarity      Rarity    `json:"rarity"`
	EarnedAt    time.Time `json:"earnedAt"`
	XPReward    int       `json:"xpReward"`
}

// Achievement tracks progress toward an unlockable goal. Completed is
// monotonic: once true it never reverts.
type Achievement struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Progress    int        `json:"progress"`
	Target      int        `json:"target"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	RewardXP    int        `json:"rewardXp"`
	Tier        int        `json:"tier"` // 1..5
}

// QuestKind is the cadence on which a quest is issued.
type QuestKind string

const (
	QuestDaily   QuestKind = "daily"
	QuestWeekly  QuestKind = "weekly"
	QuestMonthly QuestKind = "monthly"
	QuestSpecial QuestKind = "special"
)

// ObjectiveKind classifies what a quest objective measures.
type ObjectiveKind string

const (
	ObjectiveConversationMinutes ObjectiveKind = "conversation_minutes"
	ObjectiveMessagesSent        ObjectiveKind = "messages_sent"
	ObjectiveAccuracyRate        ObjectiveKind = "accuracy_rate"
	ObjectiveVocabularyLearned   ObjectiveKind = "vocabulary_learned"
	ObjectiveStreakMaintained    ObjectiveKind = "streak_maintained"
	ObjectiveWeeklyXP            ObjectiveKind = "weekly_xp"
)

// QuestObjective is one measurable goal within a quest.
type QuestObjective struct {
	ID          string        `json:"id"`
	Description string        `json:"description"`
	Kind        ObjectiveKind `json:"kind"`
	Target      int           `json:"target"`
	Current     int           `json:"current"`
	Completed   bool          `json:"completed"`
}

// Quest is a time-boxed set of objectives with an XP reward. Quests are
// created fresh each period and discarded when they expire; they are
// never carried across periods.
type Quest struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	Kind            QuestKind        `json:"kind"`
	Objectives      []QuestObjective `json:"objectives"`
	RewardXP        int              `json:"rewardXp"`
	RewardItems     []string         `json:"rewardItems,omitempty"`
	ExpiresAt       time.Time        `json:"expiresAt"`
	Completed       bool             `json:"completed"`
	Claimed         bool             `json:"claimed"`
	ProgressPercent int              `json:"progressPercent"` // 0..100, derived from objectives
}

// PowerUpEffect identifies what a power-up does when used.
type PowerUpEffect string

const (
	EffectDoubleXP          PowerUpEffect = "double_xp"
	EffectStreakFreeze      PowerUpEffect = "streak_freeze"
	EffectMistakeProtection PowerUpEffect = "mistake_protection"
	EffectHintBoost         PowerUpEffect = "hint_boost"
	EffectTimeExtension     PowerUpEffect = "time_extension"
)

// PowerUp is a consumable held in a learner's inventory.
type PowerUp struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description"`
	Effect          PowerUpEffect `json:"effect"`
	DurationMinutes int           `json:"durationMinutes,omitempty"`
	UsesRemaining   int           `json:"usesRemaining"`
	ExpiresAt       *time.Time    `json:"expiresAt,omitempty"`
}

// SkillScores holds the six tracked skill dimensions, each 0..100.
// Scores move by exponential smoothing; they are never assigned
// directly after profile creation.
type SkillScores struct {
	Grammar    float64 `json:"grammar"`
	Vocabulary float64 `json:"vocabulary"`
	Listening  float64 `json:"listening"`
	Speaking   float64 `json:"speaking"`
	Reading    float64 `json:"reading"`
	Writing    float64 `json:"writing"`
}

// skillNames lists the skill dimensions in a fixed order.
var skillNames = []string{"grammar", "vocabulary", "listening", "speaking", "reading", "writing"}

// Score returns the named skill score, or 0 for an unknown name.
func (s SkillScores) Score(name string) float64 {
	switch name {
	case "grammar":
		return s.Grammar
	case "vocabulary":
		return s.Vocabulary
	case "listening":
		return s.Listening
	case "speaking":
		return s.Speaking
	case "reading":
		return s.Reading
	case "writing":
		return s.Writing
	}
	return 0
}

func (s *SkillScores) setScore(name string, v float64) {
	switch name {
	case "grammar":
		s.Grammar = v
	case "vocabulary":
		s.Vocabulary = v
	case "listening":
		s.Listening = v
	case "speaking":
		s.Speaking = v
	case "reading":
		s.Reading = v
	case "writing":
		s.Writing = v
	}
}

// Average returns the mean of the six skill scores.
func (s SkillScores) Average() float64 {
	total := 0.0
	for _, name := range skillNames {
		total += s.Score(name)
	}
	return total / float64(len(skillNames))
}

const profileVersion = 1

// Profile is the persistent progression state for one learner. A single
// logical owner mutates it at a time; the tracker enforces per-user
// serialization for concurrent callers.
type Profile struct {
	Version int `json:"version"`

	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`

	Level     int `json:"level"`
	TotalXP   int `json:"totalXp"`
	WeeklyXP  int `json:"weeklyXp"`
	MonthlyXP int `json:"monthlyXp"`

	CurrentStreakDays int       `json:"currentStreakDays"`
	LongestStreakDays int       `json:"longestStreakDays"`
	LastActivity      time.Time `json:"lastActivity,omitempty"`

	League      League      `json:"league"`
	SkillScores SkillScores `json:"skillScores"`

	TopicsMastered   []string `json:"topicsMastered,omitempty"`
	TopicsInProgress []string `json:"topicsInProgress,omitempty"`

	Badges       []Badge       `json:"badges"`
	Achievements []Achievement `json:"achievements"`
	Quests       []Quest       `json:"quests"`
	PowerUps     []PowerUp     `json:"powerUps,omitempty"`

	LastUpdated time.Time `json:"lastUpdated"`
}

// NewProfile returns a fresh level-1 bronze profile for the given user.
func NewProfile(userID string) *Profile {
	return &Profile{
		Version: profileVersion,
		UserID:  userID,
		Level:   1,
		League:  LeagueBronze,
	}
}

// HasAchievement reports whether an achievement with the given ID has
// been recorded on the profile.
func (p *Profile) HasAchievement(id string) bool {
	for i := range p.Achievements {
		if p.Achievements[i].ID == id {
			return true
		}
	}
	return false
}

// Quest returns a pointer to the quest with the given ID, or nil.
func (p *Profile) Quest(id string) *Quest {
	for i := range p.Quests {
		if p.Quests[i].ID == id {
			return &p.Quests[i]
		}
	}
	return nil
}

// PowerUp returns a pointer to the power-up with the given ID, or nil.
func (p *Profile) PowerUp(id string) *PowerUp {
	for i := range p.PowerUps {
		if p.PowerUps[i].ID == id {
			return &p.PowerUps[i]
		}
	}
	return nil
}

// HasMastered reports whether the topic is in TopicsMastered.
func (p *Profile) HasMastered(topic string) bool {
	for _, t := range p.TopicsMastered {
		if t == topic {
			return true
		}
	}
	return false
}

// Band is a coarse proficiency classification derived from skill scores.
type Band string

const (
	BandBeginner     Band = "beginner"
	BandIntermediate Band = "intermediate"
	BandAdvanced     Band = "advanced"
)

// Band classifies the learner by average skill score: 85+ advanced,
// 70+ intermediate, otherwise beginner.
func (p *Profile) Band() Band {
	avg := p.SkillScores.Average()
	switch {
	case avg >= 85:
		return BandAdvanced
	case avg >= 70:
		return BandIntermediate
	}
	return BandBeginner
}

// Clone returns a deep copy of the profile with all slices duplicated.
func (p *Profile) Clone() *Profile {
	cp := *p
	cp.TopicsMastered = append([]string(nil), p.TopicsMastered...)
	cp.TopicsInProgress = append([]string(nil), p.TopicsInProgress...)
	cp.Badges = append([]Badge(nil), p.Badges...)
	cp.PowerUps = make([]PowerUp, len(p.PowerUps))
	for i, pu := range p.PowerUps {
		if pu.ExpiresAt != nil {
			t := *pu.ExpiresAt
			pu.ExpiresAt = &t
		}
		cp.PowerUps[i] = pu
	}
	cp.Achievements = make([]Achievement, len(p.Achievements))
	for i, a := range p.Achievements {
		if a.CompletedAt != nil {
			t := *a.CompletedAt
			a.CompletedAt = &t
		}
		cp.Achievements[i] = a
	}
	cp.Quests = make([]Quest, len(p.Quests))
	for i, q := range p.Quests {
		q.Objectives = append([]QuestObjective(nil), q.Objectives...)
		q.RewardItems = append([]string(nil), q.RewardItems...)
		cp.Quests[i] = q
	}
	return &cp
}

// RewardKind classifies an entry in an update's reward bundle.
type RewardKind string

const (
	RewardXP          RewardKind = "xp"
	RewardBadge       RewardKind = "badge"
	RewardAchievement RewardKind = "achievement"
	RewardItem        RewardKind = "item"
	RewardBoost       RewardKind = "boost"
)

// Reward is one granted reward inside an UpdateResult.
type Reward struct {
	Kind        RewardKind `json:"kind"`
	Value       string     `json:"value,omitempty"`
	Amount      int        `json:"amount,omitempty"`
	Description string     `json:"description"`
	Rarity      Rarity     `json:"rarity,omitempty"`
}

// UpdateResult is the diff produced by applying one activity (or quest
// claim) to a profile. Every field is explicitly typed; callers never
// receive an open map.
type UpdateResult struct {
	XPEarned        int           `json:"xpEarned"`
	NewAchievements []Achievement `json:"newAchievements"`
	NewBadges       []Badge       `json:"newBadges"`
	LevelUp         bool          `json:"levelUp"`
	NewLevel        int           `json:"newLevel,omitempty"`
	Rewards         []Reward      `json:"rewards"`
}
