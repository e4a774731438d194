package entity

import "time"

type Admin struct {
	UserID    int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedBy int64
	CreatedAt time.Time
}
