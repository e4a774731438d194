package model

// Inbound chat event types.
const (
	ChatEventMessage = "message"
	ChatEventJoin    = "join"
)

// Outbound XP event types.
const (
	XPEventLevelUp          = "level_up"
	XPEventInviteAttributed = "invite_attributed"
	XPEventDailyReport      = "daily_report"
)

type ChatEvent struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

type XPEvent struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type LevelUpEvent struct {
	CommunityID int64  `json:"community_id"`
	UserID      int64  `json:"user_id"`
	DisplayName string `json:"display_name"`
	Level       int    `json:"level"`
	XP          int64  `json:"xp"`
}

type InviteAttributedEvent struct {
	CommunityID  int64 `json:"community_id"`
	InviterID    int64 `json:"inviter_id"`
	UserID       int64 `json:"user_id"`
	InvitesCount int64 `json:"invites_count"`
}

type DailyReportEvent struct {
	Date        string             `json:"date"`
	Summary     Summary            `json:"summary"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}
