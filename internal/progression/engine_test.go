package progression

import (
	"errors"
	"testing"
	"time"
)

// fixedEngine returns an engine whose clock is pinned to now.
func fixedEngine(now time.Time) *Engine {
	e := NewEngine()
	e.now = func() time.Time { return now }
	return e
}

func TestApply_Validation(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	e := fixedEngine(now)

	tests := []struct {
		name   string
		report ActivityReport
	}{
		{"unknown_kind", ActivityReport{Kind: "juggling", Timestamp: now}},
		{"negative_duration", ActivityReport{Kind: ActivityConversation, DurationMinutes: -1, Timestamp: now}},
		{"accuracy_above_100", ActivityReport{Kind: ActivityVocabulary, AccuracyRate: floatPtr(101), Timestamp: now}},
		{"accuracy_below_0", ActivityReport{Kind: ActivityVocabulary, AccuracyRate: floatPtr(-1), Timestamp: now}},
		{"difficulty_out_of_range", ActivityReport{Kind: ActivityGrammar, DifficultyLevel: intPtr(11), Timestamp: now}},
		{"engagement_out_of_range", ActivityReport{Kind: ActivityGrammar, EngagementScore: 150, Timestamp: now}},
		{"zero_timestamp", ActivityReport{Kind: ActivityGrammar}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProfile("u1")
			_, err := e.Apply(p, &tt.report)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("Apply() error = %v, want ErrValidation", err)
			}
			if p.TotalXP != 0 {
				t.Errorf("rejected report mutated profile: TotalXP = %d", p.TotalXP)
			}
		})
	}
}

func TestApply_AwardsXPAndLevels(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	e := fixedEngine(now)
	p := NewProfile("u1")

	// 100 minutes of conversation earns 200 XP: enough to pass the 100 XP
	// mark but level 2 needs 250, so the level must stay 1.
	res, err := e.Apply(p, &ActivityReport{
		Kind: ActivityConversation, DurationMinutes: 50, Timestamp: now,
	})
	if err != nil {
		t.Fatal(err)
	}
	if res.XPEarned != 100 {
		t.Errorf("XPEarned = %d, want 100", res.XPEarned)
	}
	if p.Level != 1 || res.LevelUp {
		t.Errorf("level = %d (levelUp=%v), want 1 without level-up", p.Level, res.LevelUp)
	}
	if p.WeeklyXP != 100 || p.MonthlyXP != 100 {
		t.Errorf("weekly/monthly = %d/%d, want 100/100", p.WeeklyXP, p.MonthlyXP)
	}

	// Another 200 XP crosses 250: level 2, plus the 20 XP level bonus.
	res, err = e.Apply(p, &ActivityReport{
		Kind: ActivityConversation, DurationMinutes: 100, Timestamp: now,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !res.LevelUp || res.NewLevel != 2 {
		t.Fatalf("expected level-up to 2, got levelUp=%v newLevel=%d", res.LevelUp, res.NewLevel)
	}
	if p.TotalXP != 320 { // 100 + 200 + 20 bonus
		t.Errorf("TotalXP = %d, want 320", p.TotalXP)
	}
	foundBonus := false
	for _, r := range res.Rewards {
		if r.Kind == RewardXP && r.Amount == 20 {
			foundBonus = true
		}
	}
	if !foundBonus {
		t.Error("level-up bonus reward missing")
	}
}

func TestApply_LevelBonusCanChain(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	e := fixedEngine(now)
	p := NewProfile("u1")
	p.TotalXP = 240
	p.Level = 1

	res := &UpdateResult{}
	// 205 XP lands at 445, five short of level 3; the level 2 bonus (20)
	// pushes past 450 and must trigger level 3 in the same update.
	e.addXP(p, 205, res)
	if p.Level != 3 {
		t.Errorf("level = %d, want 3 (bonus should chain)", p.Level)
	}
	if len(res.Rewards) != 2 {
		t.Errorf("got %d level bonuses, want 2", len(res.Rewards))
	}
}

func TestApply_Streak(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC) // Wednesday
	e := fixedEngine(now)

	report := func(ts time.Time) *ActivityReport {
		return &ActivityReport{Kind: ActivityVocabulary, Timestamp: ts}
	}

	t.Run("first_activity_starts_at_one", func(t *testing.T) {
		p := NewProfile("u1")
		if _, err := e.Apply(p, report(now)); err != nil {
			t.Fatal(err)
		}
		if p.CurrentStreakDays != 1 || p.LongestStreakDays != 1 {
			t.Errorf("streak = %d/%d, want 1/1", p.CurrentStreakDays, p.LongestStreakDays)
		}
	})

	t.Run("consecutive_day_increments", func(t *testing.T) {
		p := NewProfile("u1")
		p.CurrentStreakDays = 3
		p.LongestStreakDays = 5
		p.LastActivity = now.AddDate(0, 0, -1)
		if _, err := e.Apply(p, report(now)); err != nil {
			t.Fatal(err)
		}
		if p.CurrentStreakDays != 4 {
			t.Errorf("streak = %d, want 4", p.CurrentStreakDays)
		}
		if p.LongestStreakDays != 5 {
			t.Errorf("longest = %d, want 5 (unchanged)", p.LongestStreakDays)
		}
	})

	t.Run("same_day_does_not_increment", func(t *testing.T) {
		p := NewProfile("u1")
		p.CurrentStreakDays = 3
		p.LongestStreakDays = 3
		p.LastActivity = now.Add(-2 * time.Hour)
		if _, err := e.Apply(p, report(now)); err != nil {
			t.Fatal(err)
		}
		if p.CurrentStreakDays != 3 {
			t.Errorf("streak = %d, want 3", p.CurrentStreakDays)
		}
	})

	t.Run("gap_resets_to_one", func(t *testing.T) {
		p := NewProfile("u1")
		p.CurrentStreakDays = 9
		p.LongestStreakDays = 9
		p.LastActivity = now.AddDate(0, 0, -3)
		if _, err := e.Apply(p, report(now)); err != nil {
			t.Fatal(err)
		}
		if p.CurrentStreakDays != 1 {
			t.Errorf("streak = %d, want 1", p.CurrentStreakDays)
		}
		if p.LongestStreakDays != 9 {
			t.Errorf("longest = %d, want 9 (preserved)", p.LongestStreakDays)
		}
	})

	t.Run("longest_tracks_current", func(t *testing.T) {
		p := NewProfile("u1")
		p.CurrentStreakDays = 5
		p.LongestStreakDays = 5
		p.LastActivity = now.AddDate(0, 0, -1)
		if _, err := e.Apply(p, report(now)); err != nil {
			t.Fatal(err)
		}
		if p.LongestStreakDays != 6 {
			t.Errorf("longest = %d, want 6", p.LongestStreakDays)
		}
	})

	t.Run("backdated_report_leaves_streak_alone", func(t *testing.T) {
		p := NewProfile("u1")
		p.CurrentStreakDays = 4
		p.LastActivity = now.AddDate(0, 0, -1)
		if _, err := e.Apply(p, report(now.AddDate(0, 0, -2))); err != nil {
			t.Fatal(err)
		}
		if p.CurrentStreakDays != 4 {
			t.Errorf("streak = %d, want 4", p.CurrentStreakDays)
		}
	})
}

func TestApply_StreakBonusUsesPreUpdateStreak(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	e := fixedEngine(now)
	p := NewProfile("u1")
	p.CurrentStreakDays = 6 // becomes 7 during this update
	p.LongestStreakDays = 6
	p.LastActivity = now.AddDate(0, 0, -1)

	res, err := e.Apply(p, &ActivityReport{
		Kind: ActivityConversation, DurationMinutes: 10,
		StreakEligible: true, Timestamp: now,
	})
	if err != nil {
		t.Fatal(err)
	}
	// Bonus requires >= 7 days before the update, so none applies here.
	if res.XPEarned != 20 {
		t.Errorf("XPEarned = %d, want 20 (no streak bonus at pre-update streak 6)", res.XPEarned)
	}
	if p.CurrentStreakDays != 7 {
		t.Errorf("streak = %d, want 7", p.CurrentStreakDays)
	}
}

func TestApply_SkillSmoothing(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	e := fixedEngine(now)
	p := NewProfile("u1")
	p.SkillScores.Speaking = 50

	if _, err := e.Apply(p, &ActivityReport{
		Kind: ActivityConversation, DurationMinutes: 10,
		AccuracyRate: floatPtr(90), Timestamp: now,
	}); err != nil {
		t.Fatal(err)
	}
	want := 50*0.8 + 90*0.2 // 58
	if got := p.SkillScores.Speaking; got != want {
		t.Errorf("Speaking = %v, want %v", got, want)
	}
	if p.SkillScores.Grammar != 0 {
		t.Errorf("Grammar = %v, want untouched 0", p.SkillScores.Grammar)
	}
}

func TestApply_TopicMastery(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	e := fixedEngine(now)
	p := NewProfile("u1")

	// Low accuracy: topic goes in progress.
	if _, err := e.Apply(p, &ActivityReport{
		Kind: ActivityConversation, Topic: "travel",
		AccuracyRate: floatPtr(60), Timestamp: now,
	}); err != nil {
		t.Fatal(err)
	}
	if len(p.TopicsInProgress) != 1 || p.TopicsInProgress[0] != "travel" {
		t.Fatalf("TopicsInProgress = %v, want [travel]", p.TopicsInProgress)
	}

	// High accuracy: promoted to mastered and removed from in-progress.
	if _, err := e.Apply(p, &ActivityReport{
		Kind: ActivityConversation, Topic: "travel",
		AccuracyRate: floatPtr(92), Timestamp: now,
	}); err != nil {
		t.Fatal(err)
	}
	if !p.HasMastered("travel") {
		t.Error("travel not mastered at 92% accuracy")
	}
	if len(p.TopicsInProgress) != 0 {
		t.Errorf("TopicsInProgress = %v, want empty", p.TopicsInProgress)
	}
}

func TestApply_AchievementsIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	e := fixedEngine(now)
	p := NewProfile("u1")
	report := &ActivityReport{Kind: ActivityConversation, DurationMinutes: 5, Timestamp: now}

	res, err := e.Apply(p, report)
	if err != nil {
		t.Fatal(err)
	}
	if !containsAchievement(res.NewAchievements, "first_conversation") {
		t.Fatal("first_conversation not unlocked on first conversation")
	}
	if len(res.NewBadges) != len(res.NewAchievements) {
		t.Errorf("badges/achievements mismatch: %d vs %d", len(res.NewBadges), len(res.NewAchievements))
	}

	res, err = e.Apply(p, report)
	if err != nil {
		t.Fatal(err)
	}
	if containsAchievement(res.NewAchievements, "first_conversation") {
		t.Error("first_conversation unlocked twice")
	}
	count := 0
	for _, a := range p.Achievements {
		if a.ID == "first_conversation" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("first_conversation recorded %d times, want 1", count)
	}
}

func TestApply_AccuracyAchievement(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	e := fixedEngine(now)
	p := NewProfile("u1")

	res, err := e.Apply(p, &ActivityReport{
		Kind: ActivityVocabulary, AccuracyRate: floatPtr(97), Timestamp: now,
	})
	if err != nil {
		t.Fatal(err)
	}
	if !containsAchievement(res.NewAchievements, "accuracy_master") {
		t.Error("accuracy_master not unlocked at 97%")
	}
	badge := findBadge(p.Badges, "badge_accuracy_master")
	if badge == nil {
		t.Fatal("badge_accuracy_master missing")
	}
	if badge.Icon != "🎯" {
		t.Errorf("badge icon = %q, want 🎯", badge.Icon)
	}
	// Auto-awarded badges are always common regardless of the
	// achievement's tier.
	if badge.Rarity != RarityCommon {
		t.Errorf("badge rarity = %q, want %q", badge.Rarity, RarityCommon)
	}
}

func TestEngine_AutoAwardedBadgesAreCommon(t *testing.T) {
	e := fixedEngine(time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC))
	p := NewProfile("u1")
	p.CurrentStreakDays = 99
	p.LongestStreakDays = 99
	p.LastActivity = time.Date(2026, 3, 3, 20, 0, 0, 0, time.UTC)

	// Today's session extends the streak to 100, driving the tier-5
	// streak_hundred rule.
	report := &ActivityReport{
		Kind:      ActivityConversation,
		Timestamp: time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC),
	}
	if _, err := e.Apply(p, report); err != nil {
		t.Fatal(err)
	}
	badge := findBadge(p.Badges, "badge_streak_hundred")
	if badge == nil {
		t.Fatal("badge_streak_hundred missing")
	}
	if badge.Rarity != RarityCommon {
		t.Errorf("tier-5 badge rarity = %q, want %q", badge.Rarity, RarityCommon)
	}
}

func containsAchievement(as []Achievement, id string) bool {
	for _, a := range as {
		if a.ID == id {
			return true
		}
	}
	return false
}

func findBadge(bs []Badge, id string) *Badge {
	for i := range bs {
		if bs[i].ID == id {
			return &bs[i]
		}
	}
	return nil
}
