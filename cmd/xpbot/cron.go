package main

import (
	"github.com/questx-lab/xpbot/internal/domain/cron"
	"github.com/questx-lab/xpbot/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startCron(*cli.Context) error {
	s.loadAll()

	location := s.configs.Report.Location()
	cronJobManager := cron.NewCronJobManager()
	cronJobManager.Register(cron.NewDailyReportCronJob(
		s.communityRepo, s.statisticDomain, s.publisher, location))
	if s.storage != nil {
		cronJobManager.Register(cron.NewDailyBackupCronJob(s.communityRepo, s.backuper, location))
	} else {
		xcontext.Logger(s.ctx).Warnf("No storage configured, daily backup is disabled")
	}

	ctx, stop := waitForSignal(s.ctx)
	defer stop()

	go func() {
		<-ctx.Done()
		cronJobManager.Cancel(s.ctx)
	}()

	cronJobManager.Start(s.ctx)
	return nil
}
