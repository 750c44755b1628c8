package ai

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/lingualoop/backend/internal/progression"
)

// Reply banks per situation. Beginner replies stay short and concrete;
// advanced ones invite longer answers.
var (
	greetingReplies = []string{
		"Hello! Great to see you. What would you like to talk about today?",
		"Hi there! Ready to practice? Tell me about your day.",
		"Welcome back! Shall we pick up where we left off?",
	}
	beginnerReplies = []string{
		"That's good! Can you tell me more, in a full sentence?",
		"Nice try! Let's practice that word again together.",
		"I understand you. Now, what did you do after that?",
	}
	intermediateReplies = []string{
		"Interesting point. What makes you think so?",
		"Well put. Could you describe that using the past tense?",
		"I see. How does that compare with how things were before?",
	}
	advancedReplies = []string{
		"That's a nuanced take. Would you say the trade-offs are worth it?",
		"Compelling argument. Play devil's advocate for a moment — what's the strongest case against it?",
		"Elaborate on the implications. How might this look in ten years?",
	}
	encouragements = []string{
		"You're expressing yourself more clearly every session.",
		"Excellent effort! Your vocabulary is growing.",
		"Great progress today.",
	}
)

// MockResponder is an offline Responder with canned reply banks and
// rule-based corrections. Deterministic for a given seed; safe for
// concurrent use.
type MockResponder struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewMockResponder creates a mock responder seeded for reproducible
// reply selection.
func NewMockResponder(seed int64) *MockResponder {
	return &MockResponder{rng: rand.New(rand.NewSource(seed))}
}

func (m *MockResponder) pick(bank []string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return bank[m.rng.Intn(len(bank))]
}

// GenerateReply returns a canned reply matched to the learner's band,
// with corrections derived from simple rules. It never fails.
func (m *MockResponder) GenerateReply(_ context.Context, conv *Context, learnerMessage string) (*Reply, error) {
	var bank []string
	switch {
	case len(conv.History) == 0 && isGreeting(learnerMessage):
		bank = greetingReplies
	case conv.Band == progression.BandAdvanced:
		bank = advancedReplies
	case conv.Band == progression.BandIntermediate:
		bank = intermediateReplies
	default:
		bank = beginnerReplies
	}

	reply := &Reply{
		Content:     m.pick(bank),
		Corrections: correctUtterance(learnerMessage),
	}
	// Offer encouragement when the learner is stringing sentences together.
	if len(strings.Fields(learnerMessage)) >= 8 {
		reply.Encouraged = true
		reply.Content += " " + m.pick(encouragements)
	}
	return reply, nil
}

// AssessPerformance scores the learner turns in the transcript with
// cheap heuristics: sentence length and vocabulary range drive both
// accuracy and engagement.
func (m *MockResponder) AssessPerformance(_ context.Context, conv *Context) (*Metrics, error) {
	words := 0
	turns := 0
	vocab := make(map[string]bool)
	corrections := 0
	for _, msg := range conv.History {
		if msg.Role != "learner" {
			continue
		}
		turns++
		for _, w := range strings.Fields(strings.ToLower(msg.Content)) {
			words++
			vocab[strings.Trim(w, ".,!?;:")] = true
		}
		corrections += len(correctUtterance(msg.Content))
	}
	if turns == 0 {
		return &Metrics{AccuracyRate: 50, EngagementScore: 30}, nil
	}

	accuracy := 95 - float64(corrections)*5
	if accuracy < 40 {
		accuracy = 40
	}
	engagement := 40 + float64(words)/float64(turns)*5
	if engagement > 100 {
		engagement = 100
	}
	return &Metrics{
		AccuracyRate:    accuracy,
		EngagementScore: engagement,
		VocabularyRange: len(vocab),
	}, nil
}

func isGreeting(msg string) bool {
	lower := strings.ToLower(strings.TrimSpace(msg))
	for _, g := range []string{"hello", "hi", "hey", "good morning", "good evening"} {
		if strings.HasPrefix(lower, g) {
			return true
		}
	}
	return false
}

// irregularPastTense corrects the most common over-regularized verbs.
var irregularPastTense = map[string]string{
	"goed":    "went",
	"eated":   "ate",
	"taked":   "took",
	"buyed":   "bought",
	"thinked": "thought",
}

// correctUtterance applies rule-based grammar fixes to a learner
// utterance: standalone lowercase "i", missing terminal punctuation and
// over-regularized past tense forms.
func correctUtterance(msg string) []Correction {
	var out []Correction
	trimmed := strings.TrimSpace(msg)
	if trimmed == "" {
		return nil
	}

	if strings.Contains(" "+trimmed+" ", " i ") {
		out = append(out, Correction{
			Original:  "i",
			Corrected: "I",
			Note:      "The pronoun \"I\" is always capitalized.",
		})
	}

	last, _ := utf8.DecodeLastRuneInString(trimmed)
	if !unicode.IsPunct(last) {
		out = append(out, Correction{
			Original:  trimmed,
			Corrected: trimmed + ".",
			Note:      "End sentences with punctuation.",
		})
	}

	for _, w := range strings.Fields(strings.ToLower(trimmed)) {
		w = strings.Trim(w, ".,!?;:")
		if fixed, ok := irregularPastTense[w]; ok {
			out = append(out, Correction{
				Original:  w,
				Corrected: fixed,
				Note:      "Irregular past tense.",
			})
		}
	}
	return out
}
