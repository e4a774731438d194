package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/xpbot/config"
	"github.com/questx-lab/xpbot/internal/common"
	"github.com/questx-lab/xpbot/internal/domain"
	"github.com/questx-lab/xpbot/internal/domain/statistic"
	"github.com/questx-lab/xpbot/internal/entity"
	"github.com/questx-lab/xpbot/internal/repository"
	"github.com/questx-lab/xpbot/pkg/api/telegram"
	"github.com/questx-lab/xpbot/pkg/kafka"
	"github.com/questx-lab/xpbot/pkg/logger"
	"github.com/questx-lab/xpbot/pkg/pubsub"
	"github.com/questx-lab/xpbot/pkg/router"
	"github.com/questx-lab/xpbot/pkg/storage"
	"github.com/questx-lab/xpbot/pkg/xcontext"
	"github.com/questx-lab/xpbot/pkg/xredis"
	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type srv struct {
	app *cli.App
	ctx context.Context

	configs *config.Configs
	file    fileConfigs

	redisClient xredis.Client
	publisher   pubsub.Publisher
	storage     storage.Storage
	endpoint    telegram.IEndpoint
	idNode      *snowflake.Node

	communityRepo   repository.CommunityRepository
	memberRepo      repository.MemberRepository
	activityLogRepo repository.ActivityLogRepository
	inviteLinkRepo  repository.InviteLinkRepository
	invitedUserRepo repository.InvitedUserRepository
	keywordRuleRepo repository.KeywordRuleRepository
	adminRepo       repository.AdminRepository

	settings *common.SettingsCache
	mutex    *common.KeyedMutex
	ledger   *domain.Ledger
	backuper *domain.Backuper

	messageDomain   domain.MessageDomain
	dailyDomain     domain.DailyDomain
	referralDomain  domain.ReferralDomain
	statisticDomain domain.StatisticDomain
	adminDomain     domain.AdminDomain

	router *router.Router
	server *http.Server
}

// before loads configs and logger for every command.
func (s *srv) before(*cli.Context) error {
	if err := s.loadConfig(); err != nil {
		return err
	}

	s.ctx = context.Background()
	s.ctx = xcontext.WithConfigs(s.ctx, *s.configs)
	s.ctx = xcontext.WithLogger(s.ctx, logger.NewLogger(logger.ParseLevel(s.configs.LogLevel)))
	return nil
}

func (s *srv) newDatabase() *gorm.DB {
	var dialector gorm.Dialector
	switch s.configs.Database.Driver {
	case "mysql":
		dialector = mysql.Open(s.configs.Database.ConnectionString())
	default:
		dialector = sqlite.Open(s.configs.Database.Path)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		panic(err)
	}

	if s.configs.Database.Driver != "mysql" {
		sqlDB, err := db.DB()
		if err != nil {
			panic(err)
		}

		// A single connection serializes sqlite writers instead of failing
		// them with "database is locked".
		sqlDB.SetMaxOpenConns(1)
	}

	return db
}

func (s *srv) loadDatabase() {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
}

func (s *srv) migrateDB() {
	if err := entity.MigrateTable(s.ctx); err != nil {
		panic(err)
	}
}

// loadRedisClient leaves the leaderboard on the database when redis is not
// configured or not reachable.
func (s *srv) loadRedisClient() {
	if s.configs.Redis.Addr == "" {
		return
	}

	client, err := xredis.NewClient(s.ctx)
	if err != nil {
		xcontext.Logger(s.ctx).Warnf("Cannot connect to redis, leaderboard falls back to database: %v", err)
		return
	}

	s.redisClient = client
}

func (s *srv) loadPublisher() {
	if len(s.configs.Kafka.Addrs) == 0 {
		xcontext.Logger(s.ctx).Warnf("No kafka broker configured, xp events are dropped")
		s.publisher = pubsub.NewNopPublisher()
		return
	}

	publisher, err := kafka.NewPublisher(s.configs.Kafka.ClientID, s.configs.Kafka.Addrs)
	if err != nil {
		panic(err)
	}

	s.publisher = publisher
}

func (s *srv) loadStorage() {
	if s.configs.Storage.Endpoint == "" {
		return
	}

	s3Storage, err := storage.NewS3Storage(s.configs.Storage)
	if err != nil {
		xcontext.Logger(s.ctx).Warnf("Cannot create storage, backups are returned inline: %v", err)
		return
	}

	s.storage = s3Storage
}

func (s *srv) loadEndpoint() {
	s.endpoint = telegram.New(s.configs.Telegram)
}

func (s *srv) loadIDNode() {
	node, err := snowflake.NewNode(s.configs.NodeID)
	if err != nil {
		panic(err)
	}

	s.idNode = node
}

func (s *srv) loadRepos() {
	s.communityRepo = repository.NewCommunityRepository()
	s.memberRepo = repository.NewMemberRepository()
	s.activityLogRepo = repository.NewActivityLogRepository()
	s.inviteLinkRepo = repository.NewInviteLinkRepository()
	s.invitedUserRepo = repository.NewInvitedUserRepository()
	s.keywordRuleRepo = repository.NewKeywordRuleRepository()
	s.adminRepo = repository.NewAdminRepository()
}

func (s *srv) loadSettings() {
	s.settings = common.NewSettingsCache(s.adminRepo, s.keywordRuleRepo)
	if err := s.seedAdmins(); err != nil {
		panic(err)
	}

	if err := s.settings.Reload(s.ctx); err != nil {
		panic(err)
	}
}

func (s *srv) loadDomains() {
	s.mutex = common.NewKeyedMutex()
	leaderboard := statistic.New(s.memberRepo, s.redisClient)

	s.ledger = domain.NewLedger(s.communityRepo, s.memberRepo, s.activityLogRepo,
		leaderboard, s.publisher, s.idNode)
	s.backuper = domain.NewBackuper(s.memberRepo, s.inviteLinkRepo, s.invitedUserRepo, s.storage)

	s.messageDomain = domain.NewMessageDomain(s.ledger, s.settings, s.mutex)
	s.dailyDomain = domain.NewDailyDomain(s.ledger, s.mutex)
	s.referralDomain = domain.NewReferralDomain(s.inviteLinkRepo, s.invitedUserRepo, s.memberRepo,
		s.ledger, s.endpoint, s.mutex, s.publisher)
	s.statisticDomain = domain.NewStatisticDomain(s.activityLogRepo, s.memberRepo, leaderboard)
	s.adminDomain = domain.NewAdminDomain(s.keywordRuleRepo, s.adminRepo, s.ledger,
		s.backuper, s.settings, s.mutex)
}

// loadAll prepares everything the api and the workers share.
func (s *srv) loadAll() {
	s.loadDatabase()
	s.migrateDB()
	s.loadRedisClient()
	s.loadPublisher()
	s.loadStorage()
	s.loadEndpoint()
	s.loadIDNode()
	s.loadRepos()
	s.loadSettings()
	s.loadDomains()
}

// waitForSignal returns a context cancelled on SIGINT or SIGTERM.
func waitForSignal(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
