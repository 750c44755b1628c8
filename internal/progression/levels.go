package progression

// Level cost model: reaching level n costs a cumulative
// sum_{i=0}^{n-1} (100 + i*50) XP, so each level adds 50 XP more than
// the one before it. XPThreshold(1)=100, XPThreshold(2)=250,
// XPThreshold(3)=450, and so on.
const (
	levelBaseXP = 100
	levelStepXP = 50
)

// XPThreshold returns the cumulative XP required to reach the given
// level. Levels below 1 cost nothing.
func XPThreshold(level int) int {
	if level < 1 {
		return 0
	}
	// Closed form of the arithmetic series above.
	return level*levelBaseXP + levelStepXP*level*(level-1)/2
}

// LevelForXP returns the greatest level whose threshold totalXP has
// reached, with level 1 as the floor. It is pure, total and monotonic
// non-decreasing in totalXP.
func LevelForXP(totalXP int) int {
	level := 1
	for totalXP >= XPThreshold(level+1) {
		level++
	}
	return level
}
