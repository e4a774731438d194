package model

import "time"

// Profile is the display information the chat platform sends with every
// event. It is refreshed on each credit.
type Profile struct {
	Username  string `json:"username" mapstructure:"username"`
	FirstName string `json:"first_name" mapstructure:"first_name"`
	LastName  string `json:"last_name" mapstructure:"last_name"`
}

type OnMessageRequest struct {
	CommunityID int64  `json:"community_id" mapstructure:"community_id"`
	UserID      int64  `json:"user_id" mapstructure:"user_id"`
	Profile     `mapstructure:",squash"`
	Text        string `json:"text" mapstructure:"text"`

	// SentAt defaults to the time the request is handled.
	SentAt time.Time `json:"sent_at" mapstructure:"sent_at"`
}

type OnMessageResponse struct {
	AdmittedXP    int64  `json:"admitted_xp"`
	Reason        string `json:"reason"`
	XP            int64  `json:"xp"`
	Level         int    `json:"level"`
	LeveledUp     bool   `json:"leveled_up"`
	MessagesCount int64  `json:"messages_count"`
}

type ClaimDailyRequest struct {
	CommunityID int64 `json:"community_id"`
	UserID      int64 `json:"user_id"`
	Profile
}

type ClaimDailyResponse struct {
	Granted                  bool  `json:"granted"`
	Amount                   int64 `json:"amount"`
	XP                       int64 `json:"xp"`
	Level                    int   `json:"level"`
	LeveledUp                bool  `json:"leveled_up"`
	CooldownRemainingSeconds int64 `json:"cooldown_remaining_seconds"`
}

type AdminCreditRequest struct {
	CommunityID int64 `json:"community_id"`
	UserID      int64 `json:"user_id"`
	Amount      int64 `json:"amount"`
}

type AdminCreditResponse struct {
	XP        int64 `json:"xp"`
	Level     int   `json:"level"`
	LeveledUp bool  `json:"leveled_up"`
}
