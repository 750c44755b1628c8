package progression

// leagueLadder orders the leagues from lowest to highest alongside the
// weekly XP needed to enter each. A learner in league i promotes when
// their weekly XP reaches the next threshold and risks demotion when it
// falls below 80% of their current league's entry bar.
var leagueLadder = []struct {
	League    League
	Threshold int
}{
	{LeagueBronze, 0},
	{LeagueSilver, 1000},
	{LeagueGold, 3000},
	{LeaguePlatinum, 7000},
	{LeagueDiamond, 15000},
}

// diamondCeiling caps progress display inside the top league.
const diamondCeiling = 30000

// LeagueProgression reports where a learner stands on the ladder. It is
// advisory: actual promotion and demotion happen in the weekly reset,
// driven by leaderboard placement, not by this snapshot.
type LeagueProgression struct {
	Current    League `json:"current"`
	Next       League `json:"next,omitempty"`
	XPInLeague int    `json:"xpInLeague"`
	XPToNext   int    `json:"xpToNext"`
	CanPromote bool   `json:"canPromote"`
	CanDemote  bool   `json:"canDemote"`
}

// leagueIndex returns the ladder position for a league, defaulting to
// bronze for an unknown value.
func leagueIndex(l League) int {
	for i, e := range leagueLadder {
		if e.League == l {
			return i
		}
	}
	return 0
}

// LeagueProgressionFor computes a learner's standing from their current
// league and weekly XP.
func LeagueProgressionFor(p *Profile) LeagueProgression {
	idx := leagueIndex(p.League)
	cur := leagueLadder[idx]

	prog := LeagueProgression{
		Current:    cur.League,
		XPInLeague: p.WeeklyXP - cur.Threshold,
	}
	if prog.XPInLeague < 0 {
		prog.XPInLeague = 0
	}

	if idx+1 < len(leagueLadder) {
		next := leagueLadder[idx+1]
		prog.Next = next.League
		prog.XPToNext = next.Threshold - p.WeeklyXP
		if prog.XPToNext < 0 {
			prog.XPToNext = 0
		}
		prog.CanPromote = p.WeeklyXP >= next.Threshold
	} else {
		prog.XPToNext = diamondCeiling - p.WeeklyXP
		if prog.XPToNext < 0 {
			prog.XPToNext = 0
		}
	}

	// Demotion risk: weekly XP under 80% of the current league's bar.
	prog.CanDemote = idx > 0 && float64(p.WeeklyXP) < float64(cur.Threshold)*0.8
	return prog
}
