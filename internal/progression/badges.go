package progression

import "time"

// badgeIcons maps achievement categories to display icons.
var badgeIcons = map[string]string{
	"conversation": "💬",
	"streak":       "🔥",
	"accuracy":     "🎯",
	"vocabulary":   "📚",
	"grammar":      "✍️",
	"general":      "🏆",
}

const badgeIconFallback = "⭐"

// badgeMinter creates the badge that accompanies a completed
// achievement. Kept as a struct so the icon table can be swapped in one
// place if a client needs a different set.
type badgeMinter struct {
	icons map[string]string
}

func newBadgeMinter() *badgeMinter {
	return &badgeMinter{icons: badgeIcons}
}

// mint builds the badge for a completed achievement. Badge identity is
// derived from the achievement ID, so minting is idempotent per
// achievement. Auto-awarded badges are always common; the higher
// rarities belong to curated badges granted outside this path, and the
// achievement keeps its tier for anything that wants finer grading.
func (m *badgeMinter) mint(ach Achievement, earnedAt time.Time) Badge {
	icon, ok := m.icons[ach.Category]
	if !ok {
		icon = badgeIconFallback
	}
	return Badge{
		ID:          "badge_" + ach.ID,
		Name:        ach.Name,
		Description: ach.Description,
		Icon:        icon,
		Category:    ach.Category,
		Rarity:      RarityCommon,
		EarnedAt:    earnedAt,
		XPReward:    ach.RewardXP,
	}
}
