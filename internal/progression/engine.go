package progression

import (
	"fmt"
	"math"
	"time"
)

// Engine applies completed activities to a profile and derives every
// progression transition: XP, level, streak, skills, topic mastery,
// achievements and badges. It holds no profile state of its own; the
// caller owns the Profile and the engine mutates it in place, returning
// a typed diff. Engines never persist anything.
type Engine struct {
	rules  []AchievementRule
	badges *badgeMinter
	now    func() time.Time
}

// NewEngine creates an engine pre-loaded with the built-in achievement
// rule set.
func NewEngine() *Engine {
	return &Engine{
		rules:  buildAchievementRules(),
		badges: newBadgeMinter(),
		now:    time.Now,
	}
}

// Rules returns a shallow copy of the registered achievement rules.
func (e *Engine) Rules() []AchievementRule {
	out := make([]AchievementRule, len(e.rules))
	copy(out, e.rules)
	return out
}

// Apply validates the report, awards XP, updates streak/skills/topics,
// recomputes the level and evaluates achievements. The profile is
// mutated in place; the returned UpdateResult is the complete diff.
//
// The XP modifier uses the streak as it stood before this activity;
// the streak itself advances afterwards, so today's first session is
// rewarded at yesterday's streak length.
func (e *Engine) Apply(p *Profile, report *ActivityReport) (*UpdateResult, error) {
	if err := validateReport(report); err != nil {
		return nil, err
	}

	res := &UpdateResult{
		NewAchievements: []Achievement{},
		NewBadges:       []Badge{},
		Rewards:         []Reward{},
	}

	res.XPEarned = CalculateXP(report, p.CurrentStreakDays)

	e.updateStreak(p, report.Timestamp)
	e.updateSkills(p, report)
	e.updateTopics(p, report)

	p.WeeklyXP += res.XPEarned
	p.MonthlyXP += res.XPEarned
	e.addXP(p, res.XPEarned, res)

	e.checkAchievements(p, report, res)

	if report.Timestamp.After(p.LastActivity) {
		p.LastActivity = report.Timestamp
	}
	return res, nil
}

// addXP adds earned XP to the running total and recomputes the level,
// looping so that level-up bonuses which themselves cross a threshold
// trigger the next level too (a single huge grant lands on the right
// level, not one below it).
func (e *Engine) addXP(p *Profile, xp int, res *UpdateResult) {
	p.TotalXP += xp

	for {
		newLevel := LevelForXP(p.TotalXP)
		if newLevel <= p.Level {
			break
		}
		p.Level = newLevel
		res.LevelUp = true
		res.NewLevel = newLevel

		bonus := newLevel * 10
		p.TotalXP += bonus
		res.Rewards = append(res.Rewards, Reward{
			Kind:        RewardXP,
			Amount:      bonus,
			Description: fmt.Sprintf("Level %d bonus!", newLevel),
		})
	}
}

// updateStreak advances the daily streak per the session timestamp.
// Only sessions dated today move the streak: consecutive-day activity
// increments it, a gap of two or more days resets it to 1, and repeat
// sessions on the same day leave it unchanged. The longest streak is
// raised alongside the current one so the longest >= current invariant
// always holds.
func (e *Engine) updateStreak(p *Profile, sessionAt time.Time) {
	today := midnight(e.now())
	session := midnight(sessionAt)
	if !session.Equal(today) {
		return
	}

	yesterday := today.AddDate(0, 0, -1)
	if p.LastActivity.IsZero() {
		p.CurrentStreakDays = 1
	} else {
		last := midnight(p.LastActivity)
		switch {
		case last.Equal(yesterday):
			p.CurrentStreakDays++
		case !last.Equal(today):
			p.CurrentStreakDays = 1
		}
	}

	if p.CurrentStreakDays > p.LongestStreakDays {
		p.LongestStreakDays = p.CurrentStreakDays
	}
}

// skillForActivity maps activity kinds to the skill dimension they train.
var skillForActivity = map[ActivityKind]string{
	ActivityConversation:  "speaking",
	ActivityVocabulary:    "vocabulary",
	ActivityGrammar:       "grammar",
	ActivityPronunciation: "speaking",
}

// updateSkills nudges the trained skill toward the session accuracy via
// exponential smoothing: 80% existing score, 20% new evidence.
func (e *Engine) updateSkills(p *Profile, report *ActivityReport) {
	if report.AccuracyRate == nil {
		return
	}
	skill, ok := skillForActivity[report.Kind]
	if !ok {
		return
	}
	score := p.SkillScores.Score(skill)*0.8 + *report.AccuracyRate*0.2
	p.SkillScores.setScore(skill, math.Min(100, math.Max(0, score)))
}

// updateTopics promotes the session topic to mastered at 85%+ accuracy,
// otherwise records it as in progress.
func (e *Engine) updateTopics(p *Profile, report *ActivityReport) {
	topic := report.Topic
	if topic == "" || p.HasMastered(topic) {
		return
	}
	if report.AccuracyRate != nil && *report.AccuracyRate >= 85 {
		p.TopicsMastered = append(p.TopicsMastered, topic)
		for i, t := range p.TopicsInProgress {
			if t == topic {
				p.TopicsInProgress = append(p.TopicsInProgress[:i], p.TopicsInProgress[i+1:]...)
				break
			}
		}
		return
	}
	for _, t := range p.TopicsInProgress {
		if t == topic {
			return
		}
	}
	p.TopicsInProgress = append(p.TopicsInProgress, topic)
}

// checkAchievements evaluates every rule not yet present on the profile
// and appends newly completed achievements plus their badges. Re-running
// with the same inputs never duplicates an achievement ID.
func (e *Engine) checkAchievements(p *Profile, report *ActivityReport, res *UpdateResult) {
	now := e.now()
	for _, rule := range e.rules {
		if p.HasAchievement(rule.ID) {
			continue
		}
		if !rule.Condition(p, report) {
			continue
		}

		completedAt := now
		ach := Achievement{
			ID:          rule.ID,
			Name:        rule.Name,
			Description: rule.Description,
			Category:    rule.Category,
			Progress:    rule.Target,
			Target:      rule.Target,
			Completed:   true,
			CompletedAt: &completedAt,
			RewardXP:    rule.RewardXP,
			Tier:        rule.Tier,
		}
		p.Achievements = append(p.Achievements, ach)
		res.NewAchievements = append(res.NewAchievements, ach)

		badge := e.badges.mint(ach, now)
		p.Badges = append(p.Badges, badge)
		res.NewBadges = append(res.NewBadges, badge)
		res.Rewards = append(res.Rewards, Reward{
			Kind:        RewardBadge,
			Value:       badge.ID,
			Description: fmt.Sprintf("Earned %s badge!", badge.Name),
			Rarity:      badge.Rarity,
		})
	}
}

func validateReport(report *ActivityReport) error {
	switch report.Kind {
	case ActivityConversation, ActivityVocabulary, ActivityGrammar,
		ActivityPronunciation, ActivityAchievement:
	default:
		return fmt.Errorf("%w: unknown activity kind %q", ErrValidation, report.Kind)
	}
	if report.DurationMinutes < 0 {
		return fmt.Errorf("%w: negative duration %d", ErrValidation, report.DurationMinutes)
	}
	if r := report.AccuracyRate; r != nil && (*r < 0 || *r > 100) {
		return fmt.Errorf("%w: accuracy %.1f outside [0,100]", ErrValidation, *r)
	}
	if d := report.DifficultyLevel; d != nil && (*d < 1 || *d > 10) {
		return fmt.Errorf("%w: difficulty %d outside [1,10]", ErrValidation, *d)
	}
	if report.EngagementScore < 0 || report.EngagementScore > 100 {
		return fmt.Errorf("%w: engagement %.1f outside [0,100]", ErrValidation, report.EngagementScore)
	}
	if report.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrValidation)
	}
	return nil
}

// midnight truncates t to the start of its local day.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
