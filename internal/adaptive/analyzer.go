package adaptive

import (
	"fmt"
	"sort"

	"github.com/lingualoop/backend/internal/learning"
	"github.com/lingualoop/backend/internal/progression"
)

// recentWindow is how many of the newest sessions feed the analysis.
const recentWindow = 10

// Recommendation is the adaptive guidance for a learner's next session.
type Recommendation struct {
	DifficultyAdjustment float64  `json:"difficultyAdjustment"` // -2..+2
	RecommendedFocus     []string `json:"recommendedFocus"`
	NextTopics           []string `json:"nextTopics"`
	MotivationMessage    string   `json:"motivationMessage"`
}

// Analyze derives a recommendation from the profile and recent session
// history. It is pure: same inputs, same output. A learner with no
// history gets gentle defaults.
func Analyze(p *progression.Profile, sessions []*learning.Session) Recommendation {
	if len(sessions) == 0 {
		return Recommendation{
			DifficultyAdjustment: 0,
			RecommendedFocus:     []string{"conversation", "vocabulary"},
			NextTopics:           []string{"introductions", "daily_routines", "hobbies"},
			MotivationMessage:    "Welcome! Start with a short conversation to find your level.",
		}
	}

	recent := newestFirst(sessions)
	if len(recent) > recentWindow {
		recent = recent[:recentWindow]
	}

	var accSum, engSum float64
	for _, s := range recent {
		accSum += s.Metrics.AccuracyRate
		engSum += s.Metrics.EngagementScore
	}
	avgAccuracy := accSum / float64(len(recent))
	avgEngagement := engSum / float64(len(recent))
	velocity := sessionVelocity(recent)

	return Recommendation{
		DifficultyAdjustment: difficultyAdjustment(avgAccuracy, avgEngagement, velocity),
		RecommendedFocus:     weakAreas(recent),
		NextTopics:           nextTopics(p, recent),
		MotivationMessage:    motivation(p, avgAccuracy),
	}
}

// difficultyAdjustment maps performance to a difficulty delta.
// Comfortable learners step up, struggling learners step down, and fast
// accurate learners get a half-step nudge; the result is clamped to
// [-2, +2].
func difficultyAdjustment(accuracy, engagement, velocity float64) float64 {
	adj := 0.0
	if accuracy > 85 && engagement > 75 {
		adj++
	}
	if accuracy < 60 || engagement < 50 {
		adj--
	}
	if velocity > 2 && accuracy > 75 {
		adj += 0.5
	}
	if adj > 2 {
		adj = 2
	}
	if adj < -2 {
		adj = -2
	}
	return adj
}

// sessionVelocity is sessions per day across the analyzed window, with
// the elapsed span floored at one day.
func sessionVelocity(recent []*learning.Session) float64 {
	if len(recent) < 2 {
		return float64(len(recent))
	}
	newest := recent[0].CompletedAt
	oldest := recent[len(recent)-1].CompletedAt
	days := newest.Sub(oldest).Hours() / 24
	if days < 1 {
		days = 1
	}
	return float64(len(recent)) / days
}

// weakAreas returns the session types whose mean accuracy over the
// window is below 70, weakest first.
func weakAreas(recent []*learning.Session) []string {
	sums := make(map[learning.SessionType]float64)
	counts := make(map[learning.SessionType]int)
	for _, s := range recent {
		sums[s.Type] += s.Metrics.AccuracyRate
		counts[s.Type]++
	}

	type area struct {
		name string
		mean float64
	}
	var weak []area
	for typ, count := range counts {
		mean := sums[typ] / float64(count)
		if mean < 70 {
			weak = append(weak, area{string(typ), mean})
		}
	}
	sort.Slice(weak, func(i, j int) bool {
		if weak[i].mean != weak[j].mean {
			return weak[i].mean < weak[j].mean
		}
		return weak[i].name < weak[j].name
	})

	out := make([]string, len(weak))
	for i, a := range weak {
		out[i] = a.name
	}
	return out
}

// nextTopics suggests up to five topics from the learner's current
// band, preserving catalog order. Mastered topics and topics already
// practiced three or more times in the analyzed window are skipped.
func nextTopics(p *progression.Profile, recent []*learning.Session) []string {
	practiced := make(map[string]int)
	for _, s := range recent {
		practiced[s.Topic]++
	}

	var out []string
	for _, topic := range topicsForBand(p.Band()) {
		if p.HasMastered(topic) || practiced[topic] >= 3 {
			continue
		}
		out = append(out, topic)
		if len(out) == 5 {
			break
		}
	}
	return out
}

// motivation picks the most specific encouraging message that applies.
func motivation(p *progression.Profile, avgAccuracy float64) string {
	switch {
	case avgAccuracy >= 85:
		return fmt.Sprintf("Outstanding! %.1f%% average accuracy — ready for a bigger challenge?", avgAccuracy)
	case avgAccuracy >= 70:
		return fmt.Sprintf("Solid work at %.1f%% accuracy. Keep pushing!", avgAccuracy)
	case p.CurrentStreakDays >= 7:
		return fmt.Sprintf("A %d-day streak! Consistency beats perfection.", p.CurrentStreakDays)
	case p.TotalXP >= 1000:
		return "Over 1000 XP earned. All that practice is real progress."
	}
	return "Every session counts. Stick with it and the accuracy will come."
}

// newestFirst returns the sessions sorted by completion time descending
// without mutating the input slice.
func newestFirst(sessions []*learning.Session) []*learning.Session {
	out := append([]*learning.Session(nil), sessions...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CompletedAt.After(out[j].CompletedAt)
	})
	return out
}
