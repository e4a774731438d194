package entity

import (
	"context"

	"github.com/questx-lab/xpbot/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&Community{},
		&Member{},
		&ActivityLog{},
		&InviteLink{},
		&InvitedUser{},
		&KeywordRule{},
		&Admin{},
	)
}
