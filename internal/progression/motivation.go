package progression

import "fmt"

// Message banks for the motivation picker, keyed by situation.
var (
	streakHighMessages = []string{
		"🔥 %d days strong! Your consistency is paying off.",
		"Incredible — a %d-day streak! Keep the fire burning.",
		"%d days in a row. This is how languages get learned.",
	}
	streakLostMessages = []string{
		"Every expert was once a beginner. Today is a great day to start again.",
		"A fresh start! One session today puts you back on track.",
		"Streaks come and go — what matters is showing up today.",
	}
	levelMilestoneMessages = []string{
		"Level %d! You've come a long way — onward.",
		"Milestone unlocked: level %d. Your hard work shows.",
	}
	encouragementMessages = []string{
		"Small steps every day add up to big progress.",
		"Your brain is building new connections with every session.",
		"Keep going — fluency is built one conversation at a time.",
	}
)

// MotivationalMessage picks a context-appropriate message for the
// profile. pick selects an index in [0, n); pass a seeded source for
// deterministic output in tests.
//
// Priority: active streak of a week or more, then a broken streak, then
// a fresh multiple-of-5 level milestone, then generic encouragement.
func MotivationalMessage(p *Profile, pick func(n int) int) string {
	switch {
	case p.CurrentStreakDays >= 7:
		msg := streakHighMessages[pick(len(streakHighMessages))]
		return fmt.Sprintf(msg, p.CurrentStreakDays)
	case p.CurrentStreakDays == 0 && p.LongestStreakDays > 0:
		return streakLostMessages[pick(len(streakLostMessages))]
	case p.Level > 1 && p.Level%5 == 0:
		msg := levelMilestoneMessages[pick(len(levelMilestoneMessages))]
		return fmt.Sprintf(msg, p.Level)
	}
	return encouragementMessages[pick(len(encouragementMessages))]
}
