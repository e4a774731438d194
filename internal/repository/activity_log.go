package repository

import (
	"context"
	"time"

	"github.com/questx-lab/xpbot/internal/entity"
	"github.com/questx-lab/xpbot/pkg/xcontext"
)

// ActivityRange selects the entries of a community in [From, To).
type ActivityRange struct {
	CommunityID int64
	From        time.Time
	To          time.Time
}

type UserXPDelta struct {
	UserID int64
	XP     int64
}

type ActivityLogRepository interface {
	Create(ctx context.Context, data *entity.ActivityLog) error
	CountByKind(ctx context.Context, r ActivityRange, kind entity.ActivityKind) (int64, error)
	CountDistinctUsers(ctx context.Context, r ActivityRange, kind entity.ActivityKind) (int64, error)
	CountNewUsers(ctx context.Context, r ActivityRange) (int64, error)
	GetTopXPDelta(ctx context.Context, r ActivityRange, limit int) ([]UserXPDelta, error)
}

type activityLogRepository struct{}

func NewActivityLogRepository() *activityLogRepository {
	return &activityLogRepository{}
}

func (r *activityLogRepository) Create(ctx context.Context, data *entity.ActivityLog) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *activityLogRepository) CountByKind(
	ctx context.Context, ar ActivityRange, kind entity.ActivityKind,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.ActivityLog{}).
		Where("community_id=? AND kind=? AND created_at>=? AND created_at<?",
			ar.CommunityID, kind, ar.From, ar.To).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *activityLogRepository) CountDistinctUsers(
	ctx context.Context, ar ActivityRange, kind entity.ActivityKind,
) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.ActivityLog{}).
		Where("community_id=? AND kind=? AND created_at>=? AND created_at<?",
			ar.CommunityID, kind, ar.From, ar.To).
		Distinct("user_id").
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

// CountNewUsers counts users whose earliest entry of any kind in the
// community falls in the range.
func (r *activityLogRepository) CountNewUsers(ctx context.Context, ar ActivityRange) (int64, error) {
	var userIDs []int64
	err := xcontext.DB(ctx).
		Model(&entity.ActivityLog{}).
		Select("user_id").
		Where("community_id=?", ar.CommunityID).
		Group("user_id").
		Having("MIN(created_at)>=? AND MIN(created_at)<?", ar.From, ar.To).
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return 0, err
	}

	return int64(len(userIDs)), nil
}

func (r *activityLogRepository) GetTopXPDelta(
	ctx context.Context, ar ActivityRange, limit int,
) ([]UserXPDelta, error) {
	var result []UserXPDelta
	err := xcontext.DB(ctx).
		Model(&entity.ActivityLog{}).
		Select("user_id, SUM(xp_delta) AS xp").
		Where("community_id=? AND created_at>=? AND created_at<?", ar.CommunityID, ar.From, ar.To).
		Group("user_id").
		Order("xp DESC, user_id ASC").
		Limit(limit).
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
