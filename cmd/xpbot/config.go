package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/questx-lab/xpbot/config"
)

// fileConfigs is the optional TOML file pointed by XPBOT_CONFIG_FILE.
type fileConfigs struct {
	FillerChars string        `toml:"filler_chars"`
	Keywords    []keywordSeed `toml:"keywords"`
}

type keywordSeed struct {
	Word  string `toml:"word"`
	Mode  string `toml:"mode"`
	Delta int64  `toml:"delta"`
}

func (s *srv) loadConfig() error {
	cfg := config.Configs{
		Env:      getEnv("ENV", "local"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: config.DatabaseConfigs{
			Driver:       getEnv("DB_DRIVER", "sqlite"),
			Path:         getEnv("DB_PATH", "xpbot.db"),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "3306"),
			Database:     getEnv("DB_NAME", "xpbot"),
			User:         getEnv("DB_USER", "mysql"),
			Password:     getEnv("DB_PASSWORD", "mysql"),
			QueryTimeout: parseDuration(getEnv("DB_QUERY_TIMEOUT", "10s")),
		},
		ApiServer: config.ServerConfigs{
			Host: getEnv("API_HOST", ""),
			Port: getEnv("API_PORT", "8080"),
		},
		Auth: config.AuthConfigs{
			APIKey:          getEnv("API_KEY", ""),
			OwnerID:         parseInt64(getEnv("OWNER_ID", "0")),
			InitialAdminIDs: parseInt64List(getEnv("ADMIN_IDS", "")),
		},
		Telegram: config.TelegramConfigs{
			BotToken:     getEnv("BOT_TOKEN", ""),
			APIRateLimit: parseFloat(getEnv("TELEGRAM_API_RATE_LIMIT", "20")),
		},
		XP: config.XPConfigs{
			CooldownSeconds:    parseInt(getEnv("XP_COOLDOWN_SECONDS", "60")),
			DailyXPCap:         parseInt(getEnv("XP_DAILY_CAP", "100")),
			InviteXP:           parseInt(getEnv("XP_INVITE", "20")),
			DailyBonusXP:       parseInt(getEnv("XP_DAILY_BONUS", "50")),
			DailyClaimInterval: parseDuration(getEnv("XP_DAILY_CLAIM_INTERVAL", "24h")),
		},
		Referral: config.ReferralConfigs{
			MainCommunityID: parseInt64(getEnv("MAIN_CHAT_ID", "0")),
		},
		Report: config.ReportConfigs{
			TimezoneOffset: time.Duration(parseFloat(getEnv("REPORT_TZ_OFFSET", "0")) * float64(time.Hour)),
			CampaignStart:  getEnv("CAMPAIGN_START", ""),
			CampaignEnd:    getEnv("CAMPAIGN_END", ""),
			TopLimit:       parseInt(getEnv("REPORT_TOP_LIMIT", "10")),
		},
		Reset: config.ResetConfigs{
			TokenSecret:     getEnv("RESET_TOKEN_SECRET", ""),
			TokenExpiration: parseDuration(getEnv("RESET_TOKEN_EXPIRATION", "10m")),
			BackupBucket:    getEnv("BACKUP_BUCKET", "backup"),
			BackupPrefix:    getEnv("BACKUP_PREFIX", "xpbot"),
		},
		Storage: config.S3Configs{
			Region:         getEnv("S3_REGION", "auto"),
			Endpoint:       getEnv("S3_ENDPOINT", ""),
			PublicEndpoint: getEnv("S3_PUBLIC_ENDPOINT", ""),
			AccessKey:      getEnv("S3_ACCESS_KEY", ""),
			SecretKey:      getEnv("S3_SECRET_KEY", ""),
			SSLDisabled:    parseBool(getEnv("S3_SSL_DISABLED", "false")),
		},
		Redis: config.RedisConfigs{
			Addr: getEnv("REDIS_ADDR", ""),
		},
		Kafka: config.KafkaConfigs{
			Addrs:         parseList(getEnv("KAFKA_ADDRS", "")),
			ClientID:      getEnv("KAFKA_CLIENT_ID", "xpbot"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "xpbot"),
			InboundTopic:  getEnv("KAFKA_INBOUND_TOPIC", "chat_events"),
			OutboundTopic: getEnv("KAFKA_OUTBOUND_TOPIC", "xp_events"),
		},
		Cron: config.CronConfigs{
			Concurrency: parseInt(getEnv("CRON_CONCURRENCY", "1")),
		},
		NodeID: parseInt64(getEnv("NODE_ID", "0")),
	}

	if path := getEnv("XPBOT_CONFIG_FILE", ""); path != "" {
		if _, err := toml.DecodeFile(path, &s.file); err != nil {
			return fmt.Errorf("cannot read config file %s: %w", path, err)
		}

		cfg.XP.FillerChars = s.file.FillerChars
	}

	if err := validator.New().Struct(cfg); err != nil {
		return err
	}

	s.configs = &cfg
	return nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}

	return fallback
}

func parseInt(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		panic(err)
	}

	return i
}

func parseInt64(s string) int64 {
	i, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		panic(err)
	}

	return i
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		panic(err)
	}

	return f
}

func parseBool(s string) bool {
	b, err := strconv.ParseBool(s)
	if err != nil {
		panic(err)
	}

	return b
}

func parseDuration(s string) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		panic(err)
	}

	return duration
}

func parseList(s string) []string {
	result := []string{}
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}

	return result
}

func parseInt64List(s string) []int64 {
	result := []int64{}
	for _, item := range parseList(s) {
		result = append(result, parseInt64(item))
	}

	return result
}
