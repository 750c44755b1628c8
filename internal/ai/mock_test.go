package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/lingualoop/backend/internal/progression"
)

func TestMockResponder_GenerateReply(t *testing.T) {
	m := NewMockResponder(42)
	ctx := context.Background()

	t.Run("greeting_opens_conversation", func(t *testing.T) {
		conv := &Context{Band: progression.BandBeginner}
		reply, err := m.GenerateReply(ctx, conv, "Hello!")
		if err != nil {
			t.Fatal(err)
		}
		if !contains(greetingReplies, reply.Content) {
			t.Errorf("reply %q not from greeting bank", reply.Content)
		}
	})

	t.Run("band_selects_bank", func(t *testing.T) {
		conv := &Context{
			Band:    progression.BandAdvanced,
			History: []Message{{Role: "learner", Content: "earlier turn"}},
		}
		reply, err := m.GenerateReply(ctx, conv, "The policy has subtle implications.")
		if err != nil {
			t.Fatal(err)
		}
		if !contains(advancedReplies, reply.Content) {
			t.Errorf("reply %q not from advanced bank", reply.Content)
		}
	})

	t.Run("deterministic_per_seed", func(t *testing.T) {
		a, _ := NewMockResponder(7).GenerateReply(ctx, &Context{}, "So yesterday.")
		b, _ := NewMockResponder(7).GenerateReply(ctx, &Context{}, "So yesterday.")
		if a.Content != b.Content {
			t.Errorf("same seed produced %q and %q", a.Content, b.Content)
		}
	})
}

func TestCorrectUtterance(t *testing.T) {
	tests := []struct {
		name      string
		msg       string
		wantFixes []string // expected Corrected values, in order
	}{
		{"lowercase_i", "yesterday i walked home.", []string{"I"}},
		{"missing_punctuation", "I like coffee", []string{"I like coffee."}},
		{"irregular_past_tense", "I goed to the market.", []string{"went"}},
		{"clean_sentence", "I went to the market.", nil},
		{"multibyte_terminal_punctuation", "Hoy estudié japonés。", nil},
		{"multibyte_letter_still_needs_punctuation", "Hoy estudié japonés", []string{"Hoy estudié japonés."}},
		{"empty", "   ", nil},
		{"stacked", "yesterday i goed home", []string{"I", "yesterday i goed home.", "went"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := correctUtterance(tt.msg)
			if len(got) != len(tt.wantFixes) {
				t.Fatalf("got %d corrections %+v, want %d", len(got), got, len(tt.wantFixes))
			}
			for i, want := range tt.wantFixes {
				if got[i].Corrected != want {
					t.Errorf("correction[%d] = %q, want %q", i, got[i].Corrected, want)
				}
			}
		})
	}
}

func TestMockResponder_AssessPerformance(t *testing.T) {
	m := NewMockResponder(1)
	ctx := context.Background()

	t.Run("empty_history_low_floor", func(t *testing.T) {
		metrics, err := m.AssessPerformance(ctx, &Context{})
		if err != nil {
			t.Fatal(err)
		}
		if metrics.AccuracyRate != 50 || metrics.EngagementScore != 30 {
			t.Errorf("metrics = %+v, want 50/30 floor", metrics)
		}
	})

	t.Run("clean_long_turns_score_high", func(t *testing.T) {
		conv := &Context{History: []Message{
			{Role: "learner", Content: "I went to the market and bought fresh vegetables for dinner."},
			{Role: "tutor", Content: "Lovely! What did you cook?"},
			{Role: "learner", Content: "I cooked a big pot of soup with carrots and potatoes."},
		}}
		metrics, err := m.AssessPerformance(ctx, conv)
		if err != nil {
			t.Fatal(err)
		}
		if metrics.AccuracyRate != 95 {
			t.Errorf("AccuracyRate = %v, want 95 for clean turns", metrics.AccuracyRate)
		}
		if metrics.EngagementScore <= 40 {
			t.Errorf("EngagementScore = %v, want above the base", metrics.EngagementScore)
		}
		if metrics.VocabularyRange == 0 {
			t.Error("VocabularyRange = 0")
		}
	})

	t.Run("error_laden_turns_score_lower", func(t *testing.T) {
		conv := &Context{History: []Message{
			{Role: "learner", Content: "i goed market"},
		}}
		metrics, err := m.AssessPerformance(ctx, conv)
		if err != nil {
			t.Fatal(err)
		}
		if metrics.AccuracyRate >= 95 {
			t.Errorf("AccuracyRate = %v, want below 95", metrics.AccuracyRate)
		}
	})
}

type unavailableResponder struct{}

func (unavailableResponder) GenerateReply(context.Context, *Context, string) (*Reply, error) {
	return nil, ErrProviderUnavailable
}
func (unavailableResponder) AssessPerformance(context.Context, *Context) (*Metrics, error) {
	return nil, ErrProviderUnavailable
}

type brokenResponder struct{}

func (brokenResponder) GenerateReply(context.Context, *Context, string) (*Reply, error) {
	return nil, errors.New("boom")
}
func (brokenResponder) AssessPerformance(context.Context, *Context) (*Metrics, error) {
	return nil, errors.New("boom")
}

func TestFallback(t *testing.T) {
	ctx := context.Background()
	mock := NewMockResponder(3)

	t.Run("unavailable_primary_falls_back", func(t *testing.T) {
		f := NewFallback(unavailableResponder{}, mock)
		reply, err := f.GenerateReply(ctx, &Context{}, "Hello")
		if err != nil {
			t.Fatal(err)
		}
		if reply == nil || reply.Content == "" {
			t.Error("fallback produced no reply")
		}
		if _, err := f.AssessPerformance(ctx, &Context{}); err != nil {
			t.Errorf("assessment fallback failed: %v", err)
		}
	})

	t.Run("other_errors_pass_through", func(t *testing.T) {
		f := NewFallback(brokenResponder{}, mock)
		if _, err := f.GenerateReply(ctx, &Context{}, "Hello"); err == nil {
			t.Error("expected the primary's error to pass through")
		}
	})
}

func contains(bank []string, s string) bool {
	for _, b := range bank {
		if s == b || len(s) > len(b) && s[:len(b)] == b {
			return true
		}
	}
	return false
}
