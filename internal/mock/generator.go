package mock

import (
	"context"
	"log"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/lingualoop/backend/internal/learning"
	"github.com/lingualoop/backend/internal/progression"
)

// demoLearner is one synthetic learner advancing through practice
// sessions on a fixed behavioral pattern.
type demoLearner struct {
	userID     string
	language   string
	pattern    string
	difficulty int
	accuracy   float64 // base accuracy, pattern may drift it
	engagement float64
	minutes    int
	kinds      []progression.ActivityKind
	kindIdx    int
	maxReports int
	reports    int
	retired    bool
}

var demoTopics = []string{"introductions", "daily_routines", "food_ordering", "travel_planning", "work_life"}

// Generator drives a cohort of demo learners through the real
// progression tracker so the UI has live data without human traffic.
type Generator struct {
	tracker  *progression.Tracker
	sessions *learning.Store
	interval time.Duration
	rng      *rand.Rand

	mu       sync.Mutex
	learners []*demoLearner
}

func NewGenerator(tracker *progression.Tracker, sessions *learning.Store) *Generator {
	return &Generator{
		tracker:  tracker,
		sessions: sessions,
		interval: 2 * time.Second,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Start seeds the cohort, records one warm-up session per learner so
// profiles exist immediately, and launches the tick loop.
func (g *Generator) Start(ctx context.Context) {
	g.mu.Lock()
	g.learners = []*demoLearner{
		{
			userID: "demo-maria", language: "spanish", pattern: "steady",
			difficulty: 4, accuracy: 82, engagement: 75, minutes: 10, maxReports: 120,
			kinds: []progression.ActivityKind{progression.ActivityConversation, progression.ActivityVocabulary, progression.ActivityGrammar},
		},
		{
			userID: "demo-kenji", language: "spanish", pattern: "grinder",
			difficulty: 6, accuracy: 78, engagement: 85, minutes: 25, maxReports: 60,
			kinds: []progression.ActivityKind{progression.ActivityConversation, progression.ActivityConversation, progression.ActivityPronunciation},
		},
		{
			userID: "demo-lena", language: "french", pattern: "improver",
			difficulty: 2, accuracy: 55, engagement: 60, minutes: 8, maxReports: 150,
			kinds: []progression.ActivityKind{progression.ActivityVocabulary, progression.ActivityGrammar, progression.ActivityConversation},
		},
		{
			userID: "demo-omar", language: "french", pattern: "struggler",
			difficulty: 5, accuracy: 48, engagement: 45, minutes: 12, maxReports: 40,
			kinds: []progression.ActivityKind{progression.ActivityGrammar, progression.ActivityConversation},
		},
		{
			userID: "demo-yuki", language: "japanese", pattern: "sprinter",
			difficulty: 3, accuracy: 88, engagement: 90, minutes: 5, maxReports: 200,
			kinds: []progression.ActivityKind{progression.ActivityVocabulary, progression.ActivityPronunciation, progression.ActivityVocabulary},
		},
	}
	learners := g.learners
	g.mu.Unlock()

	for _, l := range learners {
		g.record(l, 0)
	}

	go g.run(ctx)
}

func (g *Generator) run(ctx context.Context) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	tick := 0
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick++
			g.mu.Lock()
			learners := g.learners
			g.mu.Unlock()
			for _, l := range learners {
				if l.retired {
					continue
				}
				if !g.shouldPractice(l, tick) {
					continue
				}
				g.record(l, tick)
			}
		}
	}
}

// shouldPractice gates each pattern's cadence.
func (g *Generator) shouldPractice(l *demoLearner, tick int) bool {
	switch l.pattern {
	case "grinder":
		// Bursts: three ticks on, five off.
		return tick%8 < 3
	case "struggler":
		// Irregular attendance.
		return g.rng.Float64() < 0.4
	case "sprinter":
		return true
	default:
		return tick%2 == 0
	}
}

// record builds one session report for the learner and feeds it
// through the tracker and the session history.
func (g *Generator) record(l *demoLearner, tick int) {
	kind := l.kinds[l.kindIdx%len(l.kinds)]
	l.kindIdx++

	accuracy := g.accuracyFor(l, tick)
	engagement := l.engagement + float64(g.rng.Intn(11)-5)
	engagement = math.Max(0, math.Min(100, engagement))

	minutes := l.minutes + g.rng.Intn(5)
	newWords := 0
	if kind == progression.ActivityVocabulary {
		newWords = 3 + g.rng.Intn(8)
	}
	mistakes := int((100 - accuracy) / 10)

	difficulty := l.difficulty
	topic := demoTopics[(l.reports+tick)%len(demoTopics)]

	report := &progression.ActivityReport{
		Kind:            kind,
		Topic:           topic,
		DurationMinutes: minutes,
		AccuracyRate:    &accuracy,
		DifficultyLevel: &difficulty,
		EngagementScore: engagement,
		NewWordsLearned: newWords,
		MistakesCount:   mistakes,
		StreakEligible:  true,
		Timestamp:       time.Now(),
	}
	if _, err := g.tracker.RecordActivity(l.userID, report); err != nil {
		log.Printf("mock learner %s: recording activity: %v", l.userID, err)
		return
	}

	sess := learning.NewSession(l.userID, learning.SessionType(kind))
	sess.Topic = topic
	sess.Language = l.language
	sess.DifficultyLevel = difficulty
	sess.DurationMinutes = minutes
	sess.Metrics = learning.PerformanceMetrics{
		AccuracyRate:    accuracy,
		EngagementScore: engagement,
		NewWords:        newWords,
		MistakesCount:   mistakes,
	}
	sess.CompletedAt = report.Timestamp
	g.sessions.Add(sess)

	l.reports++
	if l.reports >= l.maxReports {
		l.retired = true
		log.Printf("mock learner %s retired after %d sessions", l.userID, l.reports)
	}
}

// accuracyFor applies the pattern's drift to the base accuracy.
func (g *Generator) accuracyFor(l *demoLearner, tick int) float64 {
	acc := l.accuracy
	switch l.pattern {
	case "improver":
		// Climbs half a point per session toward a 92% ceiling.
		acc = math.Min(92, l.accuracy+0.5*float64(l.reports))
	case "struggler":
		// Oscillates without improving.
		acc = l.accuracy + 8*math.Sin(float64(tick)/5.0)
	case "sprinter":
		acc = l.accuracy + float64(g.rng.Intn(7)-3)
	default:
		acc = l.accuracy + float64(g.rng.Intn(9)-4)
	}
	return math.Max(0, math.Min(100, acc))
}
