package progression

import (
	"strings"
	"testing"
)

// pickFirst always selects the first message in a bank.
func pickFirst(int) int { return 0 }

func TestMotivationalMessage(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(p *Profile)
		contains string
	}{
		{
			name:     "long_streak_wins",
			setup:    func(p *Profile) { p.CurrentStreakDays = 12; p.Level = 5 },
			contains: "12",
		},
		{
			name:     "broken_streak",
			setup:    func(p *Profile) { p.CurrentStreakDays = 0; p.LongestStreakDays = 4 },
			contains: "beginner",
		},
		{
			name:     "level_milestone",
			setup:    func(p *Profile) { p.CurrentStreakDays = 2; p.Level = 10 },
			contains: "Level 10",
		},
		{
			name:     "generic_encouragement",
			setup:    func(p *Profile) { p.CurrentStreakDays = 2; p.Level = 3 },
			contains: "Small steps",
		},
		{
			name:     "fresh_profile_gets_encouragement_not_streak_lost",
			setup:    func(p *Profile) {},
			contains: "Small steps",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProfile("u1")
			tt.setup(p)
			got := MotivationalMessage(p, pickFirst)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("message %q does not contain %q", got, tt.contains)
			}
		})
	}
}
