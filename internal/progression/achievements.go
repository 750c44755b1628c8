package progression

import "fmt"

// AchievementRule defines one unlockable achievement. The condition is
// evaluated against the profile as it stands after the triggering
// activity has been applied, so cumulative rules see fresh totals.
type AchievementRule struct {
	ID          string
	Name        string
	Description string
	Category    string
	Target      int
	RewardXP    int
	Tier        int
	Condition   func(p *Profile, report *ActivityReport) bool
}

// buildAchievementRules returns the built-in rule set. Rules are ordered
// roughly by how early a learner can hit them; evaluation order only
// affects the order of NewAchievements in a single update, never which
// ones unlock.
func buildAchievementRules() []AchievementRule {
	rules := []AchievementRule{
		{
			ID:          "first_conversation",
			Name:        "First Words",
			Description: "Complete your first conversation",
			Category:    "conversation",
			Target:      1,
			RewardXP:    50,
			Tier:        1,
			Condition: func(_ *Profile, report *ActivityReport) bool {
				return report.Kind == ActivityConversation
			},
		},
		{
			ID:          "streak_week",
			Name:        "Week Warrior",
			Description: "Maintain a 7-day learning streak",
			Category:    "streak",
			Target:      7,
			RewardXP:    200,
			Tier:        2,
			Condition: func(p *Profile, _ *ActivityReport) bool {
				return p.CurrentStreakDays >= 7
			},
		},
		{
			ID:          "streak_month",
			Name:        "Habit Builder",
			Description: "Maintain a 30-day learning streak",
			Category:    "streak",
			Target:      30,
			RewardXP:    750,
			Tier:        4,
			Condition: func(p *Profile, _ *ActivityReport) bool {
				return p.CurrentStreakDays >= 30
			},
		},
		{
			ID:          "streak_hundred",
			Name:        "Centurion",
			Description: "Maintain a 100-day learning streak",
			Category:    "streak",
			Target:      100,
			RewardXP:    2000,
			Tier:        5,
			Condition: func(p *Profile, _ *ActivityReport) bool {
				return p.CurrentStreakDays >= 100
			},
		},
		{
			ID:          "accuracy_master",
			Name:        "Perfectionist",
			Description: "Score 95% accuracy or better in a session",
			Category:    "accuracy",
			Target:      95,
			RewardXP:    150,
			Tier:        2,
			Condition: func(_ *Profile, report *ActivityReport) bool {
				return report.AccuracyRate != nil && *report.AccuracyRate >= 95
			},
		},
		{
			ID:          "vocab_sprint",
			Name:        "Word Collector",
			Description: "Learn 25 new words in a single session",
			Category:    "vocabulary",
			Target:      25,
			RewardXP:    120,
			Tier:        2,
			Condition: func(_ *Profile, report *ActivityReport) bool {
				return report.NewWordsLearned >= 25
			},
		},
		{
			ID:          "topics_five",
			Name:        "Explorer",
			Description: "Master 5 conversation topics",
			Category:    "general",
			Target:      5,
			RewardXP:    300,
			Tier:        3,
			Condition: func(p *Profile, _ *ActivityReport) bool {
				return len(p.TopicsMastered) >= 5
			},
		},
	}

	for _, m := range []struct {
		threshold int
		name      string
		tier      int
		xp        int
	}{
		{1000, "Rising Star", 2, 100},
		{5000, "Dedicated Learner", 3, 250},
		{10000, "Language Devotee", 4, 500},
	} {
		threshold := m.threshold
		rules = append(rules, AchievementRule{
			ID:          fmt.Sprintf("xp_%d", threshold),
			Name:        m.name,
			Description: fmt.Sprintf("Earn %d total XP", threshold),
			Category:    "general",
			Target:      threshold,
			RewardXP:    m.xp,
			Tier:        m.tier,
			Condition: func(p *Profile, _ *ActivityReport) bool {
				return p.TotalXP >= threshold
			},
		})
	}

	for _, m := range []struct {
		level int
		name  string
		tier  int
		xp    int
	}{
		{5, "Getting Serious", 2, 100},
		{10, "Double Digits", 3, 250},
		{25, "Quarter Century", 4, 600},
	} {
		level := m.level
		rules = append(rules, AchievementRule{
			ID:          fmt.Sprintf("level_%d", level),
			Name:        m.name,
			Description: fmt.Sprintf("Reach level %d", level),
			Category:    "general",
			Target:      level,
			RewardXP:    m.xp,
			Tier:        m.tier,
			Condition: func(p *Profile, _ *ActivityReport) bool {
				return p.Level >= level
			},
		})
	}

	for _, skill := range skillNames {
		skill := skill
		rules = append(rules,
			AchievementRule{
				ID:          fmt.Sprintf("skill_%s_expert", skill),
				Name:        fmt.Sprintf("%s Expert", titleCase(skill)),
				Description: fmt.Sprintf("Raise your %s score to 80", skill),
				Category:    skillCategory(skill),
				Target:      80,
				RewardXP:    200,
				Tier:        3,
				Condition: func(p *Profile, _ *ActivityReport) bool {
					return p.SkillScores.Score(skill) >= 80
				},
			},
			AchievementRule{
				ID:          fmt.Sprintf("skill_%s_master", skill),
				Name:        fmt.Sprintf("%s Master", titleCase(skill)),
				Description: fmt.Sprintf("Raise your %s score to 95", skill),
				Category:    skillCategory(skill),
				Target:      95,
				RewardXP:    500,
				Tier:        5,
				Condition: func(p *Profile, _ *ActivityReport) bool {
					return p.SkillScores.Score(skill) >= 95
				},
			},
		)
	}

	return rules
}

// skillCategory maps skill names onto badge categories; skills without a
// dedicated category fall back to "general".
func skillCategory(skill string) string {
	switch skill {
	case "grammar", "vocabulary":
		return skill
	case "speaking":
		return "conversation"
	}
	return "general"
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
