package progression

import "math"

// Base XP awarded per activity kind. Conversation scales with duration
// instead of using a flat base.
const (
	xpPerConversationMinute = 2
	xpVocabulary            = 10
	xpGrammar               = 15
	xpPronunciation         = 12
	xpAchievementActivity   = 50

	defaultConversationMinutes = 5

	streakBonusPerDay  = 0.02
	streakBonusCap     = 0.5
	streakBonusMinDays = 7
)

// CalculateXP computes the XP award for a completed activity. It is a
// pure, total function: malformed numeric inputs are the caller's
// responsibility and the result is never below 1.
//
// Modifiers apply in order, flooring the running total after each step:
// accuracy multiplier max(0.5, rate/100), then difficulty multiplier
// 1 + (level-5)*0.1, then the streak bonus 1 + min(0.5, days*0.02)
// when the activity is streak-eligible and the streak is at least 7 days.
func CalculateXP(report *ActivityReport, streakDays int) int {
	var xp int
	switch report.Kind {
	case ActivityConversation:
		minutes := report.DurationMinutes
		if minutes <= 0 {
			minutes = defaultConversationMinutes
		}
		xp = xpPerConversationMinute * minutes
	case ActivityVocabulary:
		xp = xpVocabulary
	case ActivityGrammar:
		xp = xpGrammar
	case ActivityPronunciation:
		xp = xpPronunciation
	case ActivityAchievement:
		xp = xpAchievementActivity
	}

	if report.AccuracyRate != nil {
		m := math.Max(0.5, *report.AccuracyRate/100)
		xp = int(math.Floor(float64(xp) * m))
	}
	if report.DifficultyLevel != nil {
		m := 1 + float64(*report.DifficultyLevel-5)*0.1
		xp = int(math.Floor(float64(xp) * m))
	}
	if report.StreakEligible && streakDays >= streakBonusMinDays {
		bonus := math.Min(streakBonusCap, float64(streakDays)*streakBonusPerDay)
		xp = int(math.Floor(float64(xp) * (1 + bonus)))
	}

	if xp < 1 {
		xp = 1
	}
	return xp
}
