package entity

import "time"

// Community is a group chat. It is created on its first observed activity.
type Community struct {
	ID        int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
}
