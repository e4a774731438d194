package xcontext

import (
	"context"
	"net/http"
	"time"

	"github.com/questx-lab/xpbot/config"
	"github.com/questx-lab/xpbot/pkg/logger"
	"gorm.io/gorm"
)

type (
	configsKey       struct{}
	loggerKey        struct{}
	dbKey            struct{}
	dbTransactionKey struct{}
	requestUserIDKey struct{}
	httpClientKey    struct{}
)

func WithConfigs(ctx context.Context, cfg config.Configs) context.Context {
	return context.WithValue(ctx, configsKey{}, cfg)
}

func Configs(ctx context.Context) config.Configs {
	cfg := ctx.Value(configsKey{})
	if cfg == nil {
		return config.Configs{}
	}

	return cfg.(config.Configs)
}

func WithLogger(ctx context.Context, logger logger.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

func Logger(ctx context.Context) logger.Logger {
	l := ctx.Value(loggerKey{})
	if l == nil {
		return logger.NewLogger(logger.SILENCE)
	}

	return l.(logger.Logger)
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the running transaction if there is one, otherwise the root
// database handle. The returned handle is bound to ctx, so deadlines of ctx
// apply to every query.
func DB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(dbTransactionKey{}).(*gorm.DB); ok && tx != nil {
		return tx.WithContext(ctx)
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok || db == nil {
		return nil
	}

	return db.WithContext(ctx)
}

func WithDBTransaction(ctx context.Context) context.Context {
	tx := DB(ctx).Begin()
	return context.WithValue(ctx, dbTransactionKey{}, tx)
}

func WithCommitDBTransaction(ctx context.Context) error {
	tx, ok := ctx.Value(dbTransactionKey{}).(*gorm.DB)
	if !ok || tx == nil {
		return nil
	}

	return tx.Commit().Error
}

// WithRollbackDBTransaction is meant to be deferred right after
// WithDBTransaction. Rolling back an already committed transaction is a no-op.
func WithRollbackDBTransaction(ctx context.Context) {
	tx, ok := ctx.Value(dbTransactionKey{}).(*gorm.DB)
	if !ok || tx == nil {
		return
	}

	tx.Rollback()
}

func WithRequestUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, requestUserIDKey{}, userID)
}

func RequestUserID(ctx context.Context) int64 {
	id, ok := ctx.Value(requestUserIDKey{}).(int64)
	if !ok {
		return 0
	}

	return id
}

func WithHTTPClient(ctx context.Context, client *http.Client) context.Context {
	return context.WithValue(ctx, httpClientKey{}, client)
}

func HTTPClient(ctx context.Context) *http.Client {
	client, ok := ctx.Value(httpClientKey{}).(*http.Client)
	if !ok || client == nil {
		return &http.Client{Timeout: 10 * time.Second}
	}

	return client
}

// WithQueryTimeout bounds ctx by the configured datastore timeout.
func WithQueryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := Configs(ctx).Database.QueryTimeout
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, timeout)
}
