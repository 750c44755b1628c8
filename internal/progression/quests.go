package progression

import (
	"fmt"
	"time"
)

// GenerateDailyQuests returns the three daily quests for the day
// containing now. IDs embed the ISO date, so generating twice on the
// same day yields the same IDs and callers can de-duplicate by ID.
// All daily quests expire at the next local midnight.
func GenerateDailyQuests(now time.Time) []Quest {
	day := now.Format("2006-01-02")
	expires := midnight(now).AddDate(0, 0, 1)

	return []Quest{
		{
			ID:          "daily_conversation_" + day,
			Name:        "Daily Chat",
			Description: "Have a 15-minute conversation",
			Kind:        QuestDaily,
			Objectives: []QuestObjective{{
				ID:          "obj_minutes",
				Description: "Practice conversation for 15 minutes",
				Kind:        ObjectiveConversationMinutes,
				Target:      15,
			}},
			RewardXP:  100,
			ExpiresAt: expires,
		},
		{
			ID:          "daily_accuracy_" + day,
			Name:        "Sharp Shooter",
			Description: "Finish a session at 85% accuracy or better",
			Kind:        QuestDaily,
			Objectives: []QuestObjective{{
				ID:          "obj_accuracy",
				Description: "Reach 85% session accuracy",
				Kind:        ObjectiveAccuracyRate,
				Target:      85,
			}},
			RewardXP:  150,
			ExpiresAt: expires,
		},
		{
			ID:          "daily_vocabulary_" + day,
			Name:        "Word Hunter",
			Description: "Learn 10 new words",
			Kind:        QuestDaily,
			Objectives: []QuestObjective{{
				ID:          "obj_words",
				Description: "Learn 10 new words",
				Kind:        ObjectiveVocabularyLearned,
				Target:      10,
			}},
			RewardXP:  80,
			ExpiresAt: expires,
		},
	}
}

// GenerateWeeklyChallenge returns the weekly challenge for the ISO week
// containing now. The ID embeds the week's Monday, objectives are
// seeded from the profile's standing weekly XP and streak so a
// mid-week generation doesn't zero out earned progress, and the quest
// expires the following Monday at local midnight.
func GenerateWeeklyChallenge(now time.Time, p *Profile) Quest {
	monday := startOfWeek(now)

	streak := p.CurrentStreakDays
	if streak > 7 {
		streak = 7
	}

	q := Quest{
		ID:          "weekly_challenge_" + monday.Format("2006-01-02"),
		Name:        "Weekly Challenge",
		Description: "Earn 1000 XP and keep your streak alive all week",
		Kind:        QuestWeekly,
		Objectives: []QuestObjective{
			{
				ID:          "obj_weekly_xp",
				Description: "Earn 1000 XP this week",
				Kind:        ObjectiveWeeklyXP,
				Target:      1000,
				Current:     p.WeeklyXP,
			},
			{
				ID:          "obj_weekly_streak",
				Description: "Practice every day this week",
				Kind:        ObjectiveStreakMaintained,
				Target:      7,
				Current:     streak,
			},
		},
		RewardXP:    500,
		RewardItems: []string{"streak_freeze"},
		ExpiresAt:   monday.AddDate(0, 0, 7),
	}
	recomputeQuestProgress(&q)
	return q
}

// UpdateQuestObjective sets the named objective's progress to an
// absolute value (never incremental: callers report totals, and stale
// or duplicate reports converge to the same state). Progress and
// completion flags are recomputed; returns ErrNotFound when either ID
// is unknown.
func UpdateQuestObjective(p *Profile, questID, objectiveID string, value int) (*Quest, error) {
	q := p.Quest(questID)
	if q == nil {
		return nil, fmt.Errorf("%w: quest %q", ErrNotFound, questID)
	}
	var obj *QuestObjective
	for i := range q.Objectives {
		if q.Objectives[i].ID == objectiveID {
			obj = &q.Objectives[i]
			break
		}
	}
	if obj == nil {
		return nil, fmt.Errorf("%w: objective %q in quest %q", ErrNotFound, objectiveID, questID)
	}

	if value < 0 {
		value = 0
	}
	obj.Current = value
	recomputeQuestProgress(q)
	return q, nil
}

// recomputeQuestProgress rederives per-objective completion, the quest
// progress percentage (integer mean of per-objective percentages, each
// clamped to 100) and the quest Completed flag.
func recomputeQuestProgress(q *Quest) {
	if len(q.Objectives) == 0 {
		q.ProgressPercent = 0
		q.Completed = false
		return
	}
	total := 0
	allDone := true
	for i := range q.Objectives {
		obj := &q.Objectives[i]
		obj.Completed = obj.Current >= obj.Target
		pct := 100
		if obj.Target > 0 {
			pct = obj.Current * 100 / obj.Target
			if pct > 100 {
				pct = 100
			}
		}
		total += pct
		if !obj.Completed {
			allDone = false
		}
	}
	q.ProgressPercent = total / len(q.Objectives)
	q.Completed = allDone
}

// ClaimQuest pays out a completed quest: the reward XP goes through the
// normal level loop and reward items are materialized as power-ups.
// Claiming is one-shot; a second claim fails with ErrPrecondition.
func (e *Engine) ClaimQuest(p *Profile, questID string) (*UpdateResult, error) {
	q := p.Quest(questID)
	if q == nil {
		return nil, fmt.Errorf("%w: quest %q", ErrNotFound, questID)
	}
	if !q.Completed {
		return nil, fmt.Errorf("%w: quest %q is not completed", ErrPrecondition, questID)
	}
	if q.Claimed {
		return nil, fmt.Errorf("%w: quest %q already claimed", ErrPrecondition, questID)
	}
	q.Claimed = true

	res := &UpdateResult{
		XPEarned:        q.RewardXP,
		NewAchievements: []Achievement{},
		NewBadges:       []Badge{},
		Rewards: []Reward{{
			Kind:        RewardXP,
			Amount:      q.RewardXP,
			Description: fmt.Sprintf("%s reward", q.Name),
		}},
	}
	p.WeeklyXP += q.RewardXP
	p.MonthlyXP += q.RewardXP
	e.addXP(p, q.RewardXP, res)

	for _, item := range q.RewardItems {
		pu, ok := powerUpForItem(item, e.now())
		if !ok {
			continue
		}
		p.PowerUps = append(p.PowerUps, pu)
		res.Rewards = append(res.Rewards, Reward{
			Kind:        RewardItem,
			Value:       pu.ID,
			Description: fmt.Sprintf("Received %s!", pu.Name),
		})
	}

	e.checkAchievements(p, &ActivityReport{Kind: ActivityAchievement, Timestamp: e.now()}, res)
	return res, nil
}

// RefreshQuests drops expired unclaimed quests and installs any current
// daily quests and weekly challenge the profile is missing. Claimed
// quests for the current period stay so they are not re-issued. It
// reports whether the quest list changed.
func RefreshQuests(p *Profile, now time.Time) bool {
	changed := false

	kept := p.Quests[:0]
	for _, q := range p.Quests {
		if now.After(q.ExpiresAt) {
			changed = true
			continue
		}
		kept = append(kept, q)
	}
	p.Quests = kept

	for _, q := range GenerateDailyQuests(now) {
		if p.Quest(q.ID) == nil {
			p.Quests = append(p.Quests, q)
			changed = true
		}
	}
	weekly := GenerateWeeklyChallenge(now, p)
	if p.Quest(weekly.ID) == nil {
		p.Quests = append(p.Quests, weekly)
		changed = true
	}
	return changed
}

// startOfWeek returns the local midnight of the Monday of t's week.
// Sunday belongs to the week that started the previous Monday.
func startOfWeek(t time.Time) time.Time {
	day := midnight(t)
	offset := int(day.Weekday()) - 1 // Monday = 0
	if day.Weekday() == time.Sunday {
		offset = 6
	}
	return day.AddDate(0, 0, -offset)
}
