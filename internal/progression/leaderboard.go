package progression

import (
	"fmt"
	"sort"
)

// LeaderboardEntry is one learner's row in a league leaderboard.
type LeaderboardEntry struct {
	UserID   string `json:"userId"`
	Username string `json:"username,omitempty"`
	WeeklyXP int    `json:"weeklyXp"`
	Level    int    `json:"level"`
	League   League `json:"league"`
	Rank     int    `json:"rank"`
}

// LeaderboardPosition is one learner's rank plus a window of the
// competitors immediately around them.
type LeaderboardPosition struct {
	Rank   int                `json:"rank"`
	Total  int                `json:"total"`
	Entry  LeaderboardEntry   `json:"entry"`
	Nearby []LeaderboardEntry `json:"nearby"`
}

// RankLeaderboard sorts entries by weekly XP descending (ties broken by
// user ID for stable output) and assigns 1-based ranks. The input slice
// is sorted in place and returned.
func RankLeaderboard(entries []LeaderboardEntry) []LeaderboardEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].WeeklyXP != entries[j].WeeklyXP {
			return entries[i].WeeklyXP > entries[j].WeeklyXP
		}
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// LeaderboardPositionFor ranks the entries and returns the given user's
// position with up to two competitors on either side. Returns
// ErrNotFound when the user has no entry.
func LeaderboardPositionFor(entries []LeaderboardEntry, userID string) (*LeaderboardPosition, error) {
	ranked := RankLeaderboard(entries)
	idx := -1
	for i := range ranked {
		if ranked[i].UserID == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("%w: user %q on leaderboard", ErrNotFound, userID)
	}

	lo := idx - 2
	if lo < 0 {
		lo = 0
	}
	hi := idx + 3
	if hi > len(ranked) {
		hi = len(ranked)
	}

	return &LeaderboardPosition{
		Rank:   ranked[idx].Rank,
		Total:  len(ranked),
		Entry:  ranked[idx],
		Nearby: append([]LeaderboardEntry(nil), ranked[lo:hi]...),
	}, nil
}
