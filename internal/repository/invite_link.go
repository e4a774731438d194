package repository

import (
	"context"
	"errors"

	"github.com/questx-lab/xpbot/internal/entity"
	"github.com/questx-lab/xpbot/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InviteLinkRepository interface {
	GetByInviter(ctx context.Context, communityID, inviterID int64) (*entity.InviteLink, error)
	GetByToken(ctx context.Context, token string) (*entity.InviteLink, error)
	GetList(ctx context.Context, communityID int64) ([]entity.InviteLink, error)
	Create(ctx context.Context, data *entity.InviteLink) error
	IncreaseJoinedCount(ctx context.Context, token string) error
}

type inviteLinkRepository struct{}

func NewInviteLinkRepository() *inviteLinkRepository {
	return &inviteLinkRepository{}
}

func (r *inviteLinkRepository) GetByInviter(
	ctx context.Context, communityID, inviterID int64,
) (*entity.InviteLink, error) {
	var result entity.InviteLink
	err := xcontext.DB(ctx).
		Where("community_id=? AND inviter_id=?", communityID, inviterID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *inviteLinkRepository) GetByToken(ctx context.Context, token string) (*entity.InviteLink, error) {
	var result entity.InviteLink
	if err := xcontext.DB(ctx).Where("token=?", token).Take(&result).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *inviteLinkRepository) GetList(ctx context.Context, communityID int64) ([]entity.InviteLink, error) {
	var result []entity.InviteLink
	err := xcontext.DB(ctx).
		Where("community_id=?", communityID).
		Order("inviter_id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *inviteLinkRepository) Create(ctx context.Context, data *entity.InviteLink) error {
	return xcontext.DB(ctx).Create(data).Error
}

func (r *inviteLinkRepository) IncreaseJoinedCount(ctx context.Context, token string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.InviteLink{}).
		Where("token=?", token).
		Update("joined_count", gorm.Expr("joined_count+1"))

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

type InvitedUserRepository interface {
	Get(ctx context.Context, communityID, userID int64) (*entity.InvitedUser, error)
	GetList(ctx context.Context, communityID int64) ([]entity.InvitedUser, error)
	// Create returns false without error if the user was already attributed.
	Create(ctx context.Context, data *entity.InvitedUser) (bool, error)
}

type invitedUserRepository struct{}

func NewInvitedUserRepository() *invitedUserRepository {
	return &invitedUserRepository{}
}

func (r *invitedUserRepository) Get(ctx context.Context, communityID, userID int64) (*entity.InvitedUser, error) {
	var result entity.InvitedUser
	err := xcontext.DB(ctx).
		Where("community_id=? AND user_id=?", communityID, userID).
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *invitedUserRepository) GetList(ctx context.Context, communityID int64) ([]entity.InvitedUser, error) {
	var result []entity.InvitedUser
	err := xcontext.DB(ctx).
		Where("community_id=?", communityID).
		Order("user_id ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *invitedUserRepository) Create(ctx context.Context, data *entity.InvitedUser) (bool, error) {
	tx := xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data)
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected == 1, nil
}
