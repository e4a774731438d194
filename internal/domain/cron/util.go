package cron

import (
	"context"
	"time"

	"github.com/questx-lab/xpbot/internal/repository"
	"github.com/questx-lab/xpbot/pkg/dateutil"
	"github.com/questx-lab/xpbot/pkg/xcontext"
	"golang.org/x/sync/errgroup"
)

const (
	dailyJobHour   = 23
	dailyJobMinute = 59
)

func nextDailyRun(loc *time.Location) time.Time {
	return dateutil.NextDailyAt(time.Now(), loc, dailyJobHour, dailyJobMinute)
}

// forEachCommunity calls fn for every known community, at most
// Cron.Concurrency at a time. A failing community does not stop the others.
func forEachCommunity(
	ctx context.Context,
	communityRepo repository.CommunityRepository,
	fn func(ctx context.Context, communityID int64) error,
) {
	communities, err := communityRepo.GetList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get communities: %v", err)
		return
	}

	limit := xcontext.Configs(ctx).Cron.Concurrency
	if limit <= 0 {
		limit = 1
	}

	var eg errgroup.Group
	eg.SetLimit(limit)
	for _, community := range communities {
		communityID := community.ID
		eg.Go(func() error {
			if err := fn(ctx, communityID); err != nil {
				xcontext.Logger(ctx).Errorf("Cannot process community %d: %v", communityID, err)
			}

			return nil
		})
	}

	_ = eg.Wait()
}
