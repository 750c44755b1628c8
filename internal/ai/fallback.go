package ai

import (
	"context"
	"errors"
	"log"
)

// Fallback wraps a primary Responder and falls back to a secondary when
// the primary reports ErrProviderUnavailable. Other errors pass through.
type Fallback struct {
	Primary   Responder
	Secondary Responder
}

// NewFallback pairs a primary responder with a secondary used when the
// primary is unavailable.
func NewFallback(primary, secondary Responder) *Fallback {
	return &Fallback{Primary: primary, Secondary: secondary}
}

func (f *Fallback) GenerateReply(ctx context.Context, conv *Context, learnerMessage string) (*Reply, error) {
	reply, err := f.Primary.GenerateReply(ctx, conv, learnerMessage)
	if errors.Is(err, ErrProviderUnavailable) {
		log.Printf("AI provider unavailable, using fallback responder: %v", err)
		return f.Secondary.GenerateReply(ctx, conv, learnerMessage)
	}
	return reply, err
}

func (f *Fallback) AssessPerformance(ctx context.Context, conv *Context) (*Metrics, error) {
	metrics, err := f.Primary.AssessPerformance(ctx, conv)
	if errors.Is(err, ErrProviderUnavailable) {
		log.Printf("AI provider unavailable, using fallback responder: %v", err)
		return f.Secondary.AssessPerformance(ctx, conv)
	}
	return metrics, err
}
