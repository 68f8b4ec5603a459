package user

// LevelsPerRank is how many levels a user climbs before the rank goes up.
const LevelsPerRank = 10

// NextProgress returns the level and rank after one level-up.
func NextProgress(level, rank int) (int, int) {
	level++
	if level%LevelsPerRank == 0 {
		rank++
	}
	return level, rank
}
