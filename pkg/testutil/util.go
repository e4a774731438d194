package testutil

import (
	"context"
	"time"

	"github.com/questx-lab/xpbot/config"
	"github.com/questx-lab/xpbot/internal/entity"
	"github.com/questx-lab/xpbot/pkg/logger"
	"github.com/questx-lab/xpbot/pkg/xcontext"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	OwnerID         = int64(1)
	TestCommunityID = int64(-1001)
)

func MockConfigs() config.Configs {
	return config.Configs{
		Env:      "test",
		LogLevel: "SILENCE",
		Database: config.DatabaseConfigs{Driver: "sqlite", Path: ":memory:"},
		Auth: config.AuthConfigs{
			APIKey:  "api-key",
			OwnerID: OwnerID,
		},
		Telegram: config.TelegramConfigs{BotToken: "bot-token"},
		XP: config.XPConfigs{
			CooldownSeconds:    60,
			DailyXPCap:         100,
			InviteXP:           20,
			DailyBonusXP:       50,
			DailyClaimInterval: 24 * time.Hour,
		},
		Report: config.ReportConfigs{TopLimit: 10},
		Reset: config.ResetConfigs{
			TokenSecret:     "reset-secret",
			TokenExpiration: time.Minute,
			BackupBucket:    "backup",
			BackupPrefix:    "xpbot",
		},
		Kafka: config.KafkaConfigs{OutboundTopic: "xp_events"},
		Cron:  config.CronConfigs{Concurrency: 2},
	}
}

// MockContext returns a context with test configs, a silent logger and a
// migrated in-memory sqlite database.
func MockContext() context.Context {
	return MockContextWithConfigs(MockConfigs())
}

func MockContextWithConfigs(cfg config.Configs) context.Context {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		panic(err)
	}

	// Every connection to :memory: opens a different database.
	sqlDB, err := db.DB()
	if err != nil {
		panic(err)
	}
	sqlDB.SetMaxOpenConns(1)

	ctx := context.Background()
	ctx = xcontext.WithConfigs(ctx, cfg)
	ctx = xcontext.WithLogger(ctx, logger.NewLogger(logger.SILENCE))
	ctx = xcontext.WithDB(ctx, db)

	if err := entity.MigrateTable(ctx); err != nil {
		panic(err)
	}

	return ctx
}

func MockContextWithUserID(userID int64) context.Context {
	return xcontext.WithRequestUserID(MockContext(), userID)
}
