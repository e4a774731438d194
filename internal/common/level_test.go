package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelOf(t *testing.T) {
	tests := []struct {
		xp    int64
		level int
	}{
		{xp: -5, level: 1},
		{xp: 0, level: 1},
		{xp: 99, level: 1},
		{xp: 100, level: 2},
		{xp: 399, level: 2},
		{xp: 400, level: 3},
		{xp: 899, level: 3},
		{xp: 900, level: 4},
		{xp: 1_000_000, level: 101},
	}

	for _, tt := range tests {
		require.Equal(t, tt.level, LevelOf(tt.xp), "xp=%d", tt.xp)
	}
}

func TestLevelOf_Monotonic(t *testing.T) {
	prev := LevelOf(0)
	for xp := int64(1); xp <= 50_000; xp++ {
		level := LevelOf(xp)
		require.GreaterOrEqual(t, level, prev, "xp=%d", xp)
		prev = level
	}
}

func TestXPForLevel(t *testing.T) {
	require.Equal(t, int64(0), XPForLevel(1))
	require.Equal(t, int64(100), XPForLevel(2))
	require.Equal(t, int64(400), XPForLevel(3))

	for level := 1; level < 200; level++ {
		require.Equal(t, level, LevelOf(XPForLevel(level)))
		require.Equal(t, level, LevelOf(XPForLevel(level+1)-1))
	}
}

func TestXPToNextLevel(t *testing.T) {
	require.Equal(t, int64(100), XPToNextLevel(0))
	require.Equal(t, int64(1), XPToNextLevel(99))
	require.Equal(t, int64(300), XPToNextLevel(100))
}

func TestIsLevelUp(t *testing.T) {
	require.True(t, IsLevelUp(100, 1))
	require.False(t, IsLevelUp(99, 5))
	require.False(t, IsLevelUp(150, 0))
}
