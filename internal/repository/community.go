package repository

import (
	"context"

	"github.com/questx-lab/xpbot/internal/entity"
	"github.com/questx-lab/xpbot/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type CommunityRepository interface {
	CreateIfNotExists(ctx context.Context, id int64) error
	GetList(ctx context.Context) ([]entity.Community, error)
}

type communityRepository struct{}

func NewCommunityRepository() *communityRepository {
	return &communityRepository{}
}

func (r *communityRepository) CreateIfNotExists(ctx context.Context, id int64) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entity.Community{ID: id}).Error
}

func (r *communityRepository) GetList(ctx context.Context) ([]entity.Community, error) {
	var result []entity.Community
	if err := xcontext.DB(ctx).Order("id ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
