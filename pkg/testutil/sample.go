package testutil

import (
	"context"
	"reflect"

	"github.com/questx-lab/xpbot/internal/common"
	"github.com/questx-lab/xpbot/internal/entity"
	"github.com/questx-lab/xpbot/internal/repository"
)

// SampleMember creates a member of TestCommunityID in database. The sample
// can be overwritten by non-zero fields of init. Level always follows XP.
//
// This function returns the sample member.
func SampleMember(ctx context.Context, init entity.Member) (entity.Member, error) {
	sample := &entity.Member{
		CommunityID: TestCommunityID,
		Username:    "sample",
	}

	overwriteFields(sample, init)
	sample.Level = common.LevelOf(sample.XP)

	if err := repository.NewCommunityRepository().CreateIfNotExists(ctx, sample.CommunityID); err != nil {
		return *sample, err
	}

	if err := repository.NewMemberRepository().Create(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if !overwriteField.IsZero() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
