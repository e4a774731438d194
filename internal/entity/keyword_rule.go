package entity

import (
	"time"

	"github.com/questx-lab/xpbot/pkg/enum"
)

type KeywordMode string

var (
	KeywordModeBonus = enum.New(KeywordMode("bonus"))
	KeywordModeBlock = enum.New(KeywordMode("block"))
)

type KeywordRule struct {
	// Word is stored lower-cased.
	Word      string      `gorm:"primaryKey;type:varchar(255)"`
	Mode      KeywordMode `gorm:"type:varchar(16)"`
	Delta     int64
	CreatedAt time.Time
}
