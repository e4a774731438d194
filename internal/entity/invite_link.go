package entity

import "time"

type InviteLink struct {
	Token       string `gorm:"primaryKey;type:varchar(255)"`
	CommunityID int64  `gorm:"uniqueIndex:idx_invite_links_owner"`
	InviterID   int64  `gorm:"uniqueIndex:idx_invite_links_owner"`
	JoinedCount int64
	CreatedAt   time.Time
}

// InvitedUser records which link brought a user into a community. A user is
// attributed at most once per community.
type InvitedUser struct {
	CommunityID int64 `gorm:"primaryKey;autoIncrement:false"`
	UserID      int64 `gorm:"primaryKey;autoIncrement:false"`
	InviterID   int64 `gorm:"index"`
	Token       string
	JoinedAt    time.Time
}
