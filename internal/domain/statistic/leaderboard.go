package statistic

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/questx-lab/xpbot/internal/common"
	"github.com/questx-lab/xpbot/internal/repository"
	"github.com/questx-lab/xpbot/pkg/errorx"
	"github.com/questx-lab/xpbot/pkg/xcontext"
	"github.com/questx-lab/xpbot/pkg/xredis"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	loadBatchSize = 500

	// The sorted set outlives its loaded marker, so a marker never points to
	// an expired set.
	leaderboardTTL = 30 * time.Minute
	sortedSetTTL   = leaderboardTTL + time.Minute
)

type Position struct {
	UserID int64
	XP     int64
}

// Leaderboard ranks members of a community by their total XP. It is served
// from a redis sorted set when a redis client is available, otherwise
// straight from the database.
type Leaderboard interface {
	GetTop(ctx context.Context, communityID int64, limit int) ([]Position, error)
	GetRank(ctx context.Context, communityID, userID int64) (uint64, error)
	SetXP(ctx context.Context, communityID, userID, xp int64) error
	Drop(ctx context.Context, communityID int64) error
}

type leaderboard struct {
	memberRepo  repository.MemberRepository
	redisClient xredis.Client
}

func New(memberRepo repository.MemberRepository, redisClient xredis.Client) *leaderboard {
	return &leaderboard{memberRepo: memberRepo, redisClient: redisClient}
}

func (l *leaderboard) GetTop(ctx context.Context, communityID int64, limit int) ([]Position, error) {
	if l.redisClient == nil {
		return l.getTopFromDB(ctx, communityID, limit)
	}

	key := common.RedisKeyLeaderboard(communityID)
	if err := l.ensureLoaded(ctx, communityID); err != nil {
		return nil, err
	}

	results, err := l.redisClient.ZRevRangeWithScores(ctx, key, 0, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get revrange redis: %v", err)
		return nil, errorx.Unknown
	}

	positions := []Position{}
	for _, z := range results {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}

		userID, err := strconv.ParseInt(member, 10, 64)
		if err != nil {
			xcontext.Logger(ctx).Warnf("Invalid leaderboard member %q: %v", member, err)
			continue
		}

		positions = append(positions, Position{UserID: userID, XP: int64(z.Score)})
	}

	return positions, nil
}

// GetRank returns the 1-based rank of the user, or 0 if the user has no
// entry.
func (l *leaderboard) GetRank(ctx context.Context, communityID, userID int64) (uint64, error) {
	if l.redisClient == nil {
		return l.getRankFromDB(ctx, communityID, userID)
	}

	key := common.RedisKeyLeaderboard(communityID)
	if err := l.ensureLoaded(ctx, communityID); err != nil {
		return 0, err
	}

	rank, err := l.redisClient.ZRevRank(ctx, key, common.FormatID(userID))
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			xcontext.Logger(ctx).Errorf("Cannot get rev rank redis: %v", err)
		}
		return 0, nil
	}

	return rank + 1, nil
}

// SetXP records the committed total XP of a member. XP only grows between
// resets, so the sorted set keeps the highest score seen for each member and
// the order in which concurrent credits and loads reach redis does not
// matter.
func (l *leaderboard) SetXP(ctx context.Context, communityID, userID, xp int64) error {
	if l.redisClient == nil {
		return nil
	}

	key := common.RedisKeyLeaderboard(communityID)
	z := redis.Z{Score: float64(xp), Member: common.FormatID(userID)}
	if err := l.redisClient.ZAddGT(ctx, key, sortedSetTTL, z); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call ZAddGT redis: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (l *leaderboard) Drop(ctx context.Context, communityID int64) error {
	if l.redisClient == nil {
		return nil
	}

	err := l.redisClient.Del(ctx,
		common.RedisKeyLeaderboardLoaded(communityID), common.RedisKeyLeaderboard(communityID))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete leaderboard redis: %v", err)
		return errorx.Unknown
	}

	return nil
}

// ensureLoaded merges every member of the database into the sorted set when
// the loaded marker is missing. Scores written by SetXP in the meantime are
// never lowered.
func (l *leaderboard) ensureLoaded(ctx context.Context, communityID int64) error {
	loadedKey := common.RedisKeyLeaderboardLoaded(communityID)
	ok, err := l.redisClient.Exist(ctx, loadedKey)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot call exist redis: %v", err)
		return errorx.Unknown
	}

	if ok {
		return nil
	}

	members, err := l.memberRepo.GetList(ctx, communityID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get members: %v", err)
		return errorx.Unknown
	}

	key := common.RedisKeyLeaderboard(communityID)
	for len(members) > 0 {
		batch := common.Batch(&members, loadBatchSize)
		z := make([]redis.Z, 0, len(batch))
		for _, m := range batch {
			z = append(z, redis.Z{Score: float64(m.XP), Member: common.FormatID(m.UserID)})
		}

		if err := l.redisClient.ZAddGT(ctx, key, sortedSetTTL, z...); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot call ZAddGT redis: %v", err)
			return errorx.Unknown
		}
	}

	if err := l.redisClient.Set(ctx, loadedKey, 1, leaderboardTTL); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot set leaderboard marker: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (l *leaderboard) getTopFromDB(ctx context.Context, communityID int64, limit int) ([]Position, error) {
	members, err := l.memberRepo.GetTopByXP(ctx, communityID, limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get top members: %v", err)
		return nil, errorx.Unknown
	}

	positions := []Position{}
	for _, m := range members {
		positions = append(positions, Position{UserID: m.UserID, XP: m.XP})
	}

	return positions, nil
}

func (l *leaderboard) getRankFromDB(ctx context.Context, communityID, userID int64) (uint64, error) {
	member, err := l.memberRepo.Get(ctx, communityID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get member: %v", err)
		return 0, errorx.Unknown
	}

	higher, err := l.memberRepo.CountHigherXP(ctx, communityID, member.XP)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count members: %v", err)
		return 0, errorx.Unknown
	}

	return uint64(higher) + 1, nil
}
