package model

type GetSummaryRequest struct {
	CommunityID int64  `json:"community_id" form:"community_id"`
	StartDate   string `json:"start_date" form:"start_date"`
	EndDate     string `json:"end_date" form:"end_date"`
}

type UserXP struct {
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	XP          int64  `json:"xp"`
}

// Summary describes the activity log of a community between two local
// dates, both inclusive. Top holds XP earned inside the range, not the
// total XP of members.
type Summary struct {
	CommunityID   int64    `json:"community_id"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	TotalMessages int64    `json:"total_messages"`
	ActiveUsers   int64    `json:"active_users"`
	NewUsers      int64    `json:"new_users"`
	Top           []UserXP `json:"top"`
}

type GetSummaryResponse = Summary

type GetCampaignSummaryRequest struct {
	CommunityID int64 `json:"community_id" form:"community_id"`
}

type GetCampaignSummaryResponse = Summary

type GetLeaderboardRequest struct {
	CommunityID int64 `json:"community_id" form:"community_id"`
	Limit       int   `json:"limit" form:"limit"`
}

type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	XP          int64  `json:"xp"`
	Level       int    `json:"level"`
}

type GetLeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

type GetStatsRequest struct {
	CommunityID int64 `json:"community_id" form:"community_id"`
	UserID      int64 `json:"user_id" form:"user_id"`
}

type GetStatsResponse struct {
	UserID        int64  `json:"user_id"`
	DisplayName   string `json:"display_name"`
	XP            int64  `json:"xp"`
	Level         int    `json:"level"`
	NextLevelXP   int64  `json:"next_level_xp"`
	XPToNextLevel int64  `json:"xp_to_next_level"`
	MessagesCount int64  `json:"messages_count"`
	InvitesCount  int64  `json:"invites_count"`
	Rank          uint64 `json:"rank"`
}
