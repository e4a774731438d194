package common

import "fmt"

func RedisKeyLeaderboard(communityID int64) string {
	return fmt.Sprintf("xpbot:leaderboard:%d", communityID)
}

// RedisKeyLeaderboardLoaded marks the leaderboard of a community as fully
// loaded from the database.
func RedisKeyLeaderboardLoaded(communityID int64) string {
	return fmt.Sprintf("xpbot:leaderboard:%d:loaded", communityID)
}
