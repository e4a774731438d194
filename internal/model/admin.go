package model

import (
	"time"

	"github.com/questx-lab/xpbot/internal/entity"
)

type AddKeywordRequest struct {
	Word  string `json:"word"`
	Mode  string `json:"mode"`
	Delta int64  `json:"delta"`
}

type AddKeywordResponse struct{}

type RemoveKeywordRequest struct {
	Word string `json:"word"`
}

type RemoveKeywordResponse struct {
	Removed bool `json:"removed"`
}

type AddAdminRequest struct {
	UserID int64 `json:"user_id"`
}

type AddAdminResponse struct{}

type RemoveAdminRequest struct {
	UserID int64 `json:"user_id"`
}

type RemoveAdminResponse struct {
	Removed bool `json:"removed"`
}

type RequestResetRequest struct {
	CommunityID int64 `json:"community_id"`
}

type RequestResetResponse struct {
	// Token must be sent back verbatim to ConfirmReset before ExpiresAt.
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`

	BackupID  string `json:"backup_id"`
	BackupURL string `json:"backup_url,omitempty"`
	// Backup is the base64 artifact, set only when it could not be uploaded.
	Backup string `json:"backup,omitempty"`
}

type ConfirmResetRequest struct {
	CommunityID int64  `json:"community_id"`
	Token       string `json:"token"`
}

type ConfirmResetResponse struct {
	ResetMembers int64 `json:"reset_members"`
}

// ResetToken is the claim set of a reset confirmation token.
type ResetToken struct {
	CommunityID int64  `json:"community_id"`
	BackupID    string `json:"backup_id"`
	RequestedBy int64  `json:"requested_by"`
}

// Backup is the pre-image of a community written before a reset.
type Backup struct {
	ID           string               `json:"id"`
	CommunityID  int64                `json:"community_id"`
	CreatedAt    time.Time            `json:"created_at"`
	Members      []entity.Member      `json:"members"`
	InviteLinks  []entity.InviteLink  `json:"invite_links"`
	InvitedUsers []entity.InvitedUser `json:"invited_users"`
}
