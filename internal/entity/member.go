package entity

import (
	"database/sql"
	"time"
)

type Member struct {
	CommunityID int64 `gorm:"primaryKey;autoIncrement:false"`
	UserID      int64 `gorm:"primaryKey;autoIncrement:false"`

	Username  string
	FirstName string
	LastName  string

	// Level is written only together with XP.
	XP            int64 `gorm:"index"`
	Level         int   `gorm:"default:1"`
	MessagesCount int64
	InvitesCount  int64

	LastDailyClaim sql.NullTime

	LastXPAt       sql.NullTime
	DailyXPAccrued int64
	// DailyXPDate is the reporting day of DailyXPAccrued, in YYYY-MM-DD.
	DailyXPDate string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName returns the best human readable name of the member.
func (m Member) DisplayName() string {
	if m.Username != "" {
		return "@" + m.Username
	}

	name := m.FirstName
	if m.LastName != "" {
		if name != "" {
			name += " "
		}
		name += m.LastName
	}

	return name
}
