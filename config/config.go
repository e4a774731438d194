package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env      string
	LogLevel string

	Database  DatabaseConfigs
	ApiServer ServerConfigs
	Auth      AuthConfigs
	Telegram  TelegramConfigs
	XP        XPConfigs
	Referral  ReferralConfigs
	Report    ReportConfigs
	Reset     ResetConfigs
	Storage   S3Configs
	Redis     RedisConfigs
	Kafka     KafkaConfigs
	Cron      CronConfigs

	// NodeID distinguishes processes when generating snowflake IDs.
	NodeID int64 `validate:"gte=0,lte=1023"`
}

type DatabaseConfigs struct {
	// Driver is either sqlite or mysql.
	Driver string `validate:"oneof=sqlite mysql"`

	// Path of the sqlite file, used only with the sqlite driver.
	Path string

	Host     string
	Port     string
	Database string
	User     string
	Password string

	QueryTimeout time.Duration `validate:"gte=0"`
}

func (d *DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type ServerConfigs struct {
	Host string
	Port string
}

func (c ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

type AuthConfigs struct {
	// APIKey is shared with the bot layer and required on every API call.
	APIKey string

	// OwnerID is the deployment owner. The owner is always an administrator
	// and is the only one allowed to manage the administrator list.
	OwnerID int64 `validate:"gte=0"`

	// InitialAdminIDs are inserted into the admin table on startup.
	InitialAdminIDs []int64
}

type TelegramConfigs struct {
	BotToken string

	// APIRateLimit is the maximum number of Bot API calls per second.
	APIRateLimit float64 `validate:"gte=0"`
}

type XPConfigs struct {
	CooldownSeconds int `validate:"gte=0"`
	DailyXPCap      int `validate:"gte=0"`
	InviteXP        int `validate:"gte=0"`

	DailyBonusXP       int           `validate:"gte=0"`
	DailyClaimInterval time.Duration `validate:"gte=0"`

	// FillerChars are low-information characters which earn nothing when a
	// message is only one of them repeated.
	FillerChars string
}

type ReferralConfigs struct {
	// MainCommunityID restricts invite links and join attribution to one
	// community. Zero means unrestricted.
	MainCommunityID int64
}

type ReportConfigs struct {
	// TimezoneOffset is the fixed offset from UTC which defines a day for
	// daily caps, summaries and scheduled jobs.
	TimezoneOffset time.Duration

	// CampaignStart and CampaignEnd are optional YYYY-MM-DD dates used only
	// for ad-hoc reporting.
	CampaignStart string
	CampaignEnd   string

	TopLimit int `validate:"gte=1,lte=100"`
}

func (c ReportConfigs) Location() *time.Location {
	return time.FixedZone("report", int(c.TimezoneOffset.Seconds()))
}

type ResetConfigs struct {
	TokenSecret     string
	TokenExpiration time.Duration `validate:"gte=0"`
	BackupBucket    string
	BackupPrefix    string
}

type S3Configs struct {
	Region         string
	Endpoint       string
	PublicEndpoint string
	AccessKey      string
	SecretKey      string
	SSLDisabled    bool
}

type RedisConfigs struct {
	Addr string
}

type KafkaConfigs struct {
	Addrs []string

	ClientID      string
	ConsumerGroup string

	InboundTopic  string
	OutboundTopic string
}

type CronConfigs struct {
	// Concurrency is the maximum number of communities processed in parallel
	// by one job run.
	Concurrency int `validate:"gte=1"`
}
