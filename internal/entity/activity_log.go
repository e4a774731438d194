package entity

import (
	"time"

	"github.com/questx-lab/xpbot/pkg/enum"
)

type ActivityKind string

var (
	ActivityKindMessage = enum.New(ActivityKind("message"))
	ActivityKindDaily   = enum.New(ActivityKind("daily"))
	ActivityKindInvite  = enum.New(ActivityKind("invite"))
	ActivityKindAdmin   = enum.New(ActivityKind("admin"))
)

// ActivityLog is append-only. A message which earned nothing is still
// recorded with a zero delta.
type ActivityLog struct {
	ID            int64        `gorm:"primaryKey;autoIncrement:false"`
	CommunityID   int64        `gorm:"index:idx_activity_logs_community_time,priority:1;index:idx_activity_logs_member_time,priority:1"`
	UserID        int64        `gorm:"index:idx_activity_logs_member_time,priority:2"`
	Kind          ActivityKind `gorm:"type:varchar(16)"`
	XPDelta       int64
	MessageLength int
	CreatedAt     time.Time `gorm:"index:idx_activity_logs_community_time,priority:2;index:idx_activity_logs_member_time,priority:3"`
}
