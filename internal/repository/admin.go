package repository

import (
	"context"

	"github.com/questx-lab/xpbot/internal/entity"
	"github.com/questx-lab/xpbot/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type AdminRepository interface {
	Create(ctx context.Context, data *entity.Admin) error
	Delete(ctx context.Context, userID int64) (bool, error)
	GetList(ctx context.Context) ([]entity.Admin, error)
}

type adminRepository struct{}

func NewAdminRepository() *adminRepository {
	return &adminRepository{}
}

func (r *adminRepository) Create(ctx context.Context, data *entity.Admin) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(data).Error
}

func (r *adminRepository) Delete(ctx context.Context, userID int64) (bool, error) {
	tx := xcontext.DB(ctx).Where("user_id=?", userID).Delete(&entity.Admin{})
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *adminRepository) GetList(ctx context.Context) ([]entity.Admin, error) {
	var result []entity.Admin
	if err := xcontext.DB(ctx).Order("user_id ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
