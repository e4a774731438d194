package repository

import (
	"context"
	"errors"

	"github.com/questx-lab/xpbot/internal/entity"
	"github.com/questx-lab/xpbot/pkg/xcontext"
	"gorm.io/gorm"
)

type MemberRepository interface {
	Get(ctx context.Context, communityID, userID int64) (*entity.Member, error)
	GetByUserIDs(ctx context.Context, communityID int64, userIDs []int64) ([]entity.Member, error)
	GetList(ctx context.Context, communityID int64) ([]entity.Member, error)
	GetTopByXP(ctx context.Context, communityID int64, limit int) ([]entity.Member, error)
	GetTopByInvites(ctx context.Context, communityID int64, limit int) ([]entity.Member, error)
	CountHigherXP(ctx context.Context, communityID int64, xp int64) (int64, error)
	Create(ctx context.Context, data *entity.Member) error
	Save(ctx context.Context, data *entity.Member) error
	ResetProgress(ctx context.Context, communityID int64) (int64, error)
}

type memberRepository struct{}

func NewMemberRepository() *memberRepository {
	return &memberRepository{}
}

func (r *memberRepository) Get(ctx context.Context, communityID, userID int64) (*entity.Member, error) {
	var result entity.Member
	err := xcontext.DB(ctx).
		Where("community_id=? AND user_id=?", communityID, userID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *memberRepository) GetByUserIDs(
	ctx context.Context, communityID int64, userIDs []int64,
) ([]entity.Member, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}

	var result []entity.Member
	err := xcontext.DB(ctx).
		Where("community_id=? AND user_id IN (?)", communityID, userIDs).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *memberRepository) GetList(ctx context.Context, communityID int64) ([]entity.Member, error) {
	var result []entity.Member
	err := xcontext.DB(ctx).
		Where("community_id=?", communityID).
		Order("user_id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *memberRepository) GetTopByXP(ctx context.Context, communityID int64, limit int) ([]entity.Member, error) {
	var result []entity.Member
	err := xcontext.DB(ctx).
		Where("community_id=?", communityID).
		Order("xp DESC, user_id ASC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *memberRepository) GetTopByInvites(
	ctx context.Context, communityID int64, limit int,
) ([]entity.Member, error) {
	var result []entity.Member
	err := xcontext.DB(ctx).
		Where("community_id=? AND invites_count>0", communityID).
		Order("invites_count DESC, user_id ASC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *memberRepository) CountHigherXP(ctx context.Context, communityID int64, xp int64) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).
		Model(&entity.Member{}).
		Where("community_id=? AND xp>?", communityID, xp).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *memberRepository) Create(ctx context.Context, data *entity.Member) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *memberRepository) Save(ctx context.Context, data *entity.Member) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Member{}).
		Where("community_id=? AND user_id=?", data.CommunityID, data.UserID).
		Updates(map[string]any{
			"username":         data.Username,
			"first_name":       data.FirstName,
			"last_name":        data.LastName,
			"xp":               data.XP,
			"level":            data.Level,
			"messages_count":   data.MessagesCount,
			"invites_count":    data.InvitesCount,
			"last_daily_claim": data.LastDailyClaim,
			"last_xp_at":       data.LastXPAt,
			"daily_xp_accrued": data.DailyXPAccrued,
			"daily_xp_date":    data.DailyXPDate,
		})

	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected > 1 {
		return errors.New("the number of affected rows is invalid")
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// ResetProgress zeroes the mutable progress of every member of the community
// and returns the number of members touched. Rows and profiles are kept.
func (r *memberRepository) ResetProgress(ctx context.Context, communityID int64) (int64, error) {
	tx := xcontext.DB(ctx).
		Model(&entity.Member{}).
		Where("community_id=?", communityID).
		Updates(map[string]any{
			"xp":               0,
			"level":            1,
			"messages_count":   0,
			"invites_count":    0,
			"last_daily_claim": nil,
			"last_xp_at":       nil,
			"daily_xp_accrued": 0,
			"daily_xp_date":    "",
		})

	if tx.Error != nil {
		return 0, tx.Error
	}

	return tx.RowsAffected, nil
}
