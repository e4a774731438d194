package model

import "time"

type GetOrCreateInviteLinkRequest struct {
	CommunityID int64 `json:"community_id"`
	UserID      int64 `json:"user_id"`
}

type GetOrCreateInviteLinkResponse struct {
	Token string `json:"token"`
}

type OnJoinRequest struct {
	CommunityID int64  `json:"community_id" mapstructure:"community_id"`
	UserID      int64  `json:"user_id" mapstructure:"user_id"`
	Profile     `mapstructure:",squash"`
	InviteLink  string `json:"invite_link" mapstructure:"invite_link"`

	// JoinedAt defaults to the time the request is handled.
	JoinedAt time.Time `json:"joined_at" mapstructure:"joined_at"`
}

type OnJoinResponse struct {
	Attributed bool  `json:"attributed"`
	InviterID  int64 `json:"inviter_id,omitempty"`
}

type GetInviteLeaderboardRequest struct {
	CommunityID int64 `json:"community_id" form:"community_id"`
	Limit       int   `json:"limit" form:"limit"`
}

type Inviter struct {
	Rank         int    `json:"rank"`
	UserID       int64  `json:"user_id"`
	DisplayName  string `json:"display_name"`
	InvitesCount int64  `json:"invites_count"`
}

type GetInviteLeaderboardResponse struct {
	Inviters []Inviter `json:"inviters"`
}
