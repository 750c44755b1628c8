package progression

import (
	"errors"
	"testing"
	"time"
)

func TestGenerateDailyQuests(t *testing.T) {
	now := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)
	quests := GenerateDailyQuests(now)
	if len(quests) != 3 {
		t.Fatalf("got %d daily quests, want 3", len(quests))
	}

	wantIDs := []string{
		"daily_conversation_2026-03-04",
		"daily_accuracy_2026-03-04",
		"daily_vocabulary_2026-03-04",
	}
	for i, q := range quests {
		if q.ID != wantIDs[i] {
			t.Errorf("quest[%d].ID = %s, want %s", i, q.ID, wantIDs[i])
		}
		if q.Kind != QuestDaily {
			t.Errorf("quest[%d].Kind = %s, want daily", i, q.Kind)
		}
		wantExpiry := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
		if !q.ExpiresAt.Equal(wantExpiry) {
			t.Errorf("quest[%d] expires %v, want next midnight %v", i, q.ExpiresAt, wantExpiry)
		}
	}

	// Same day, different time: identical IDs.
	later := GenerateDailyQuests(now.Add(5 * time.Hour))
	for i := range quests {
		if quests[i].ID != later[i].ID {
			t.Errorf("daily quest IDs not stable within a day: %s vs %s", quests[i].ID, later[i].ID)
		}
	}
}

func TestGenerateWeeklyChallenge(t *testing.T) {
	p := NewProfile("u1")
	p.WeeklyXP = 300
	p.CurrentStreakDays = 9

	tests := []struct {
		name       string
		now        time.Time
		wantMonday string
	}{
		{"wednesday", time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC), "2026-03-02"},
		{"monday", time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), "2026-03-02"},
		{"sunday_belongs_to_previous_monday", time.Date(2026, 3, 8, 23, 0, 0, 0, time.UTC), "2026-03-02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := GenerateWeeklyChallenge(tt.now, p)
			wantID := "weekly_challenge_" + tt.wantMonday
			if q.ID != wantID {
				t.Errorf("ID = %s, want %s", q.ID, wantID)
			}
			if len(q.Objectives) != 2 {
				t.Fatalf("got %d objectives, want 2", len(q.Objectives))
			}
			if q.Objectives[0].Kind != ObjectiveWeeklyXP {
				t.Errorf("objective kind = %q, want %q", q.Objectives[0].Kind, ObjectiveWeeklyXP)
			}
			if q.Objectives[0].Current != 300 {
				t.Errorf("weekly XP objective seeded with %d, want 300", q.Objectives[0].Current)
			}
			if q.Objectives[1].Current != 7 { // streak capped at 7
				t.Errorf("streak objective = %d, want 7", q.Objectives[1].Current)
			}
			monday, _ := time.Parse("2006-01-02", tt.wantMonday)
			if !q.ExpiresAt.Equal(monday.AddDate(0, 0, 7)) {
				t.Errorf("ExpiresAt = %v, want next Monday", q.ExpiresAt)
			}
		})
	}
}

func TestUpdateQuestObjective(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	p := NewProfile("u1")
	p.Quests = GenerateDailyQuests(now)
	questID := "daily_conversation_2026-03-04"

	t.Run("partial_progress", func(t *testing.T) {
		q, err := UpdateQuestObjective(p, questID, "obj_minutes", 9)
		if err != nil {
			t.Fatal(err)
		}
		if q.ProgressPercent != 60 {
			t.Errorf("ProgressPercent = %d, want 60", q.ProgressPercent)
		}
		if q.Completed {
			t.Error("quest completed at 9/15 minutes")
		}
	})

	t.Run("overshoot_clamps_to_100", func(t *testing.T) {
		q, err := UpdateQuestObjective(p, questID, "obj_minutes", 40)
		if err != nil {
			t.Fatal(err)
		}
		if q.ProgressPercent != 100 {
			t.Errorf("ProgressPercent = %d, want 100", q.ProgressPercent)
		}
		if !q.Completed {
			t.Error("quest not completed when all objectives hit targets")
		}
	})

	t.Run("unknown_quest", func(t *testing.T) {
		if _, err := UpdateQuestObjective(p, "nope", "obj_minutes", 1); !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})

	t.Run("unknown_objective", func(t *testing.T) {
		if _, err := UpdateQuestObjective(p, questID, "nope", 1); !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestQuestProgress_MultiObjectiveAverage(t *testing.T) {
	q := Quest{
		Objectives: []QuestObjective{
			{ID: "a", Target: 100, Current: 100},
			{ID: "b", Target: 10, Current: 5},
		},
	}
	recomputeQuestProgress(&q)
	if q.ProgressPercent != 75 {
		t.Errorf("ProgressPercent = %d, want 75", q.ProgressPercent)
	}
	if q.Completed {
		t.Error("quest completed with an unfinished objective")
	}
}

func TestClaimQuest(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	e := fixedEngine(now)
	p := NewProfile("u1")
	p.Quests = []Quest{GenerateWeeklyChallenge(now, p)}
	questID := p.Quests[0].ID

	t.Run("incomplete_quest_fails", func(t *testing.T) {
		if _, err := e.ClaimQuest(p, questID); !errors.Is(err, ErrPrecondition) {
			t.Errorf("error = %v, want ErrPrecondition", err)
		}
	})

	// Complete both objectives.
	if _, err := UpdateQuestObjective(p, questID, "obj_weekly_xp", 1000); err != nil {
		t.Fatal(err)
	}
	if _, err := UpdateQuestObjective(p, questID, "obj_weekly_streak", 7); err != nil {
		t.Fatal(err)
	}

	t.Run("claim_pays_out", func(t *testing.T) {
		res, err := e.ClaimQuest(p, questID)
		if err != nil {
			t.Fatal(err)
		}
		if res.XPEarned != 500 {
			t.Errorf("XPEarned = %d, want 500", res.XPEarned)
		}
		if p.TotalXP < 500 {
			t.Errorf("TotalXP = %d, want at least the 500 reward", p.TotalXP)
		}
		if len(p.PowerUps) != 1 || p.PowerUps[0].Effect != EffectStreakFreeze {
			t.Errorf("PowerUps = %+v, want one streak freeze", p.PowerUps)
		}
	})

	t.Run("second_claim_fails", func(t *testing.T) {
		if _, err := e.ClaimQuest(p, questID); !errors.Is(err, ErrPrecondition) {
			t.Errorf("error = %v, want ErrPrecondition", err)
		}
	})

	t.Run("unknown_quest", func(t *testing.T) {
		if _, err := e.ClaimQuest(p, "nope"); !errors.Is(err, ErrNotFound) {
			t.Errorf("error = %v, want ErrNotFound", err)
		}
	})
}

func TestRefreshQuests(t *testing.T) {
	now := time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC)
	p := NewProfile("u1")

	if !RefreshQuests(p, now) {
		t.Fatal("first refresh reported no change")
	}
	if len(p.Quests) != 4 { // 3 daily + 1 weekly
		t.Fatalf("got %d quests, want 4", len(p.Quests))
	}

	if RefreshQuests(p, now) {
		t.Error("second refresh on same day reported a change")
	}

	// Next day: dailies replaced, weekly kept.
	nextDay := now.AddDate(0, 0, 1)
	if !RefreshQuests(p, nextDay) {
		t.Fatal("refresh on new day reported no change")
	}
	if len(p.Quests) != 4 {
		t.Fatalf("got %d quests after rollover, want 4", len(p.Quests))
	}
	if p.Quest("daily_conversation_2026-03-04") != nil {
		t.Error("expired daily quest not dropped")
	}
	if p.Quest("daily_conversation_2026-03-05") == nil {
		t.Error("new daily quest not installed")
	}
	if p.Quest("weekly_challenge_2026-03-02") == nil {
		t.Error("current weekly challenge dropped mid-week")
	}
}
