package cron

import (
	"context"
	"time"

	"github.com/questx-lab/xpbot/internal/domain"
	"github.com/questx-lab/xpbot/internal/repository"
	"github.com/questx-lab/xpbot/pkg/xcontext"
)

// DailyBackupCronJob uploads a backup of every community to object storage.
type DailyBackupCronJob struct {
	communityRepo repository.CommunityRepository
	backuper      *domain.Backuper
	location      *time.Location
}

func NewDailyBackupCronJob(
	communityRepo repository.CommunityRepository,
	backuper *domain.Backuper,
	location *time.Location,
) *DailyBackupCronJob {
	return &DailyBackupCronJob{
		communityRepo: communityRepo,
		backuper:      backuper,
		location:      location,
	}
}

func (job *DailyBackupCronJob) Name() string {
	return "daily_backup"
}

func (job *DailyBackupCronJob) Do(ctx context.Context) {
	forEachCommunity(ctx, job.communityRepo, func(ctx context.Context, communityID int64) error {
		artifact, err := job.backuper.Write(ctx, communityID)
		if err != nil {
			return err
		}

		if artifact.UploadErr != nil {
			return artifact.UploadErr
		}

		xcontext.Logger(ctx).Infof("Backup %s of community %d uploaded to %s",
			artifact.ID, communityID, artifact.URL)
		return nil
	})
}

func (job *DailyBackupCronJob) RunNow() bool {
	return false
}

func (job *DailyBackupCronJob) Next() time.Time {
	return nextDailyRun(job.location)
}
