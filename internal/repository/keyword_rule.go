package repository

import (
	"context"

	"github.com/questx-lab/xpbot/internal/entity"
	"github.com/questx-lab/xpbot/pkg/xcontext"
	"gorm.io/gorm/clause"
)

type KeywordRuleRepository interface {
	Upsert(ctx context.Context, data *entity.KeywordRule) error
	Delete(ctx context.Context, word string) (bool, error)
	GetList(ctx context.Context) ([]entity.KeywordRule, error)
}

type keywordRuleRepository struct{}

func NewKeywordRuleRepository() *keywordRuleRepository {
	return &keywordRuleRepository{}
}

func (r *keywordRuleRepository) Upsert(ctx context.Context, data *entity.KeywordRule) error {
	return xcontext.DB(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "word"}},
			DoUpdates: clause.AssignmentColumns([]string{"mode", "delta"}),
		}).
		Create(data).Error
}

func (r *keywordRuleRepository) Delete(ctx context.Context, word string) (bool, error) {
	tx := xcontext.DB(ctx).Where("word=?", word).Delete(&entity.KeywordRule{})
	if tx.Error != nil {
		return false, tx.Error
	}

	return tx.RowsAffected > 0, nil
}

func (r *keywordRuleRepository) GetList(ctx context.Context) ([]entity.KeywordRule, error) {
	var result []entity.KeywordRule
	if err := xcontext.DB(ctx).Order("word ASC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
