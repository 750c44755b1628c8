package progression

import (
	"fmt"
	"time"
)

// PowerUpResult describes the effect activated by using a power-up.
type PowerUpResult struct {
	Effect          PowerUpEffect `json:"effect"`
	DurationMinutes int           `json:"durationMinutes,omitempty"`
	Message         string        `json:"message"`
}

// powerUpCatalog holds the template for each grantable power-up item
// name. Granted copies get a per-grant ID and expiry.
var powerUpCatalog = map[string]PowerUp{
	"streak_freeze": {
		Name:          "Streak Freeze",
		Description:   "Protects your streak for one missed day",
		Effect:        EffectStreakFreeze,
		UsesRemaining: 1,
	},
	"double_xp": {
		Name:            "XP Surge",
		Description:     "Doubles XP earned for 30 minutes",
		Effect:          EffectDoubleXP,
		DurationMinutes: 30,
		UsesRemaining:   1,
	},
	"mistake_shield": {
		Name:          "Mistake Shield",
		Description:   "Your next mistake doesn't count against accuracy",
		Effect:        EffectMistakeProtection,
		UsesRemaining: 3,
	},
	"hint_boost": {
		Name:            "Hint Boost",
		Description:     "Extra hints during exercises for 20 minutes",
		Effect:          EffectHintBoost,
		DurationMinutes: 20,
		UsesRemaining:   1,
	},
	"time_extension": {
		Name:            "Extra Time",
		Description:     "Adds 10 minutes to timed sessions",
		Effect:          EffectTimeExtension,
		DurationMinutes: 10,
		UsesRemaining:   1,
	},
}

// powerUpForItem materializes a catalog item granted at the given time.
// Granted power-ups expire after 30 days if unused.
func powerUpForItem(item string, grantedAt time.Time) (PowerUp, bool) {
	tmpl, ok := powerUpCatalog[item]
	if !ok {
		return PowerUp{}, false
	}
	pu := tmpl
	pu.ID = fmt.Sprintf("%s_%d", item, grantedAt.UnixNano())
	expires := grantedAt.AddDate(0, 0, 30)
	pu.ExpiresAt = &expires
	return pu, true
}

// UsePowerUp consumes one use of the named power-up. Expired or spent
// power-ups fail with ErrPrecondition; unknown IDs with ErrNotFound.
// Spent entries are removed from the inventory.
func (e *Engine) UsePowerUp(p *Profile, powerUpID string) (*PowerUpResult, error) {
	pu := p.PowerUp(powerUpID)
	if pu == nil {
		return nil, fmt.Errorf("%w: power-up %q", ErrNotFound, powerUpID)
	}
	if pu.ExpiresAt != nil && e.now().After(*pu.ExpiresAt) {
		return nil, fmt.Errorf("%w: power-up %q has expired", ErrPrecondition, powerUpID)
	}
	if pu.UsesRemaining <= 0 {
		return nil, fmt.Errorf("%w: power-up %q has no uses left", ErrPrecondition, powerUpID)
	}

	pu.UsesRemaining--
	res := &PowerUpResult{
		Effect:          pu.Effect,
		DurationMinutes: pu.DurationMinutes,
		Message:         powerUpMessage(pu.Effect),
	}
	if pu.UsesRemaining == 0 {
		for i := range p.PowerUps {
			if p.PowerUps[i].ID == powerUpID {
				p.PowerUps = append(p.PowerUps[:i], p.PowerUps[i+1:]...)
				break
			}
		}
	}
	return res, nil
}

func powerUpMessage(effect PowerUpEffect) string {
	switch effect {
	case EffectDoubleXP:
		return "XP Surge active! Everything you earn is doubled."
	case EffectStreakFreeze:
		return "Streak Freeze armed. One missed day won't break your streak."
	case EffectMistakeProtection:
		return "Mistake Shield up. Your next slip won't count."
	case EffectHintBoost:
		return "Hint Boost active. Extra hints are on their way."
	case EffectTimeExtension:
		return "Extra Time granted. Take a breath."
	}
	return "Power-up activated."
}
