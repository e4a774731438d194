package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/questx-lab/xpbot/internal/middleware"
	"github.com/questx-lab/xpbot/pkg/prometheus"
	"github.com/questx-lab/xpbot/pkg/router"
	"github.com/questx-lab/xpbot/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.loadAll()
	s.loadRouter()

	s.server = &http.Server{
		Addr:    s.configs.ApiServer.Address(),
		Handler: s.router.Handler(),
	}

	ctx, stop := waitForSignal(s.ctx)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot shutdown server: %v", err)
		}
	}()

	xcontext.Logger(s.ctx).Infof("Starting server on %s", s.server.Addr)
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stopped")
	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.Raw(http.MethodGet, "/metrics", prometheus.NewHandler())

	botRouter := s.router.Branch()
	botRouter.Before(middleware.Authenticate())
	botRouter.After(middleware.Logger())
	botRouter.After(middleware.Prometheus())
	{
		// Activity API
		router.POST(botRouter, "/onMessage", s.messageDomain.OnMessage)
		router.POST(botRouter, "/onJoin", s.referralDomain.OnJoin)
		router.POST(botRouter, "/claimDaily", s.dailyDomain.ClaimDaily)
		router.POST(botRouter, "/getOrCreateInviteLink", s.referralDomain.GetOrCreateInviteLink)

		// Report API
		router.GET(botRouter, "/getSummary", s.statisticDomain.GetSummary)
		router.GET(botRouter, "/getCampaignSummary", s.statisticDomain.GetCampaignSummary)
		router.GET(botRouter, "/getLeaderboard", s.statisticDomain.GetLeaderboard)
		router.GET(botRouter, "/getInviteLeaderboard", s.referralDomain.GetInviteLeaderboard)
		router.GET(botRouter, "/getStats", s.statisticDomain.GetStats)

		// Admin API
		router.POST(botRouter, "/adminCredit", s.adminDomain.AdminCredit)
		router.POST(botRouter, "/addKeyword", s.adminDomain.AddKeyword)
		router.POST(botRouter, "/removeKeyword", s.adminDomain.RemoveKeyword)
		router.POST(botRouter, "/addAdmin", s.adminDomain.AddAdmin)
		router.POST(botRouter, "/removeAdmin", s.adminDomain.RemoveAdmin)
		router.POST(botRouter, "/requestReset", s.adminDomain.RequestReset)
		router.POST(botRouter, "/confirmReset", s.adminDomain.ConfirmReset)
	}
}
