package common

import "math"

// LevelOf returns the level of a member holding xp. Level k starts at
// (k-1)^2 * 100 XP.
func LevelOf(xp int64) int {
	if xp <= 0 {
		return 1
	}

	n := xp / 100
	k := int64(math.Sqrt(float64(n)))
	for k*k > n {
		k--
	}
	for (k+1)*(k+1) <= n {
		k++
	}

	return int(k) + 1
}

// XPForLevel returns the cumulative XP at which level starts.
func XPForLevel(level int) int64 {
	if level <= 1 {
		return 0
	}

	l := int64(level - 1)
	return l * l * 100
}

// XPToNextLevel returns the XP still missing to reach the next level.
func XPToNextLevel(xp int64) int64 {
	return XPForLevel(LevelOf(xp)+1) - xp
}

// IsLevelUp reports whether crediting delta to reach newXP crossed a level
// boundary.
func IsLevelUp(newXP, delta int64) bool {
	return LevelOf(newXP) > LevelOf(newXP-delta)
}
