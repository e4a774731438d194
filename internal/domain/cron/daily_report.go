package cron

import (
	"context"
	"time"

	"github.com/questx-lab/xpbot/internal/domain"
	"github.com/questx-lab/xpbot/internal/model"
	"github.com/questx-lab/xpbot/internal/repository"
	"github.com/questx-lab/xpbot/pkg/dateutil"
	"github.com/questx-lab/xpbot/pkg/pubsub"
	"github.com/questx-lab/xpbot/pkg/xcontext"
)

// DailyReportCronJob publishes the summary of the day and the total XP
// leaderboard of every community.
type DailyReportCronJob struct {
	communityRepo   repository.CommunityRepository
	statisticDomain domain.StatisticDomain
	publisher       pubsub.Publisher
	location        *time.Location
	now             func() time.Time
}

func NewDailyReportCronJob(
	communityRepo repository.CommunityRepository,
	statisticDomain domain.StatisticDomain,
	publisher pubsub.Publisher,
	location *time.Location,
) *DailyReportCronJob {
	return &DailyReportCronJob{
		communityRepo:   communityRepo,
		statisticDomain: statisticDomain,
		publisher:       publisher,
		location:        location,
		now:             time.Now,
	}
}

func (job *DailyReportCronJob) Name() string {
	return "daily_report"
}

func (job *DailyReportCronJob) Do(ctx context.Context) {
	date := dateutil.Date(job.now(), job.location)
	forEachCommunity(ctx, job.communityRepo, func(ctx context.Context, communityID int64) error {
		return job.report(ctx, communityID, date)
	})
}

func (job *DailyReportCronJob) report(ctx context.Context, communityID int64, date string) error {
	summary, err := job.statisticDomain.Summarize(ctx, communityID, date, date)
	if err != nil {
		return err
	}

	leaderboard, err := job.statisticDomain.GetLeaderboard(ctx, &model.GetLeaderboardRequest{
		CommunityID: communityID,
		Limit:       xcontext.Configs(ctx).Report.TopLimit,
	})
	if err != nil {
		return err
	}

	domain.PublishXPEvent(ctx, job.publisher, communityID, model.XPEventDailyReport, model.DailyReportEvent{
		Date:        date,
		Summary:     *summary,
		Leaderboard: leaderboard.Leaderboard,
	})

	xcontext.Logger(ctx).Infof("Published daily report %s of community %d", date, communityID)
	return nil
}

func (job *DailyReportCronJob) RunNow() bool {
	return false
}

func (job *DailyReportCronJob) Next() time.Time {
	return nextDailyRun(job.location)
}
