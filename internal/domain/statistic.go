package domain

import (
	"context"

	"github.com/questx-lab/xpbot/internal/common"
	"github.com/questx-lab/xpbot/internal/domain/statistic"
	"github.com/questx-lab/xpbot/internal/entity"
	"github.com/questx-lab/xpbot/internal/model"
	"github.com/questx-lab/xpbot/internal/repository"
	"github.com/questx-lab/xpbot/pkg/dateutil"
	"github.com/questx-lab/xpbot/pkg/errorx"
	"github.com/questx-lab/xpbot/pkg/xcontext"
)

const summaryTopLimit = 10

type StatisticDomain interface {
	GetSummary(context.Context, *model.GetSummaryRequest) (*model.GetSummaryResponse, error)
	GetCampaignSummary(context.Context, *model.GetCampaignSummaryRequest) (*model.GetCampaignSummaryResponse, error)
	GetLeaderboard(context.Context, *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
	GetStats(context.Context, *model.GetStatsRequest) (*model.GetStatsResponse, error)

	// Summarize is the read-only aggregate behind GetSummary, for callers
	// which already hold validated arguments.
	Summarize(ctx context.Context, communityID int64, startDate, endDate string) (*model.Summary, error)
}

type statisticDomain struct {
	activityLogRepo repository.ActivityLogRepository
	memberRepo      repository.MemberRepository
	leaderboard     statistic.Leaderboard
}

func NewStatisticDomain(
	activityLogRepo repository.ActivityLogRepository,
	memberRepo repository.MemberRepository,
	leaderboard statistic.Leaderboard,
) *statisticDomain {
	return &statisticDomain{
		activityLogRepo: activityLogRepo,
		memberRepo:      memberRepo,
		leaderboard:     leaderboard,
	}
}

func (d *statisticDomain) GetSummary(
	ctx context.Context, req *model.GetSummaryRequest,
) (*model.GetSummaryResponse, error) {
	if err := checkCommunity(req.CommunityID); err != nil {
		return nil, err
	}

	return d.Summarize(ctx, req.CommunityID, req.StartDate, req.EndDate)
}

func (d *statisticDomain) GetCampaignSummary(
	ctx context.Context, req *model.GetCampaignSummaryRequest,
) (*model.GetCampaignSummaryResponse, error) {
	if err := checkCommunity(req.CommunityID); err != nil {
		return nil, err
	}

	cfg := xcontext.Configs(ctx).Report
	if cfg.CampaignStart == "" || cfg.CampaignEnd == "" {
		return nil, errorx.New(errorx.BadRequest, "No campaign period is configured")
	}

	return d.Summarize(ctx, req.CommunityID, cfg.CampaignStart, cfg.CampaignEnd)
}

// Summarize aggregates the activity log between two local dates, both
// inclusive, of the reporting timezone.
func (d *statisticDomain) Summarize(
	ctx context.Context, communityID int64, startDate, endDate string,
) (*model.Summary, error) {
	from, to, err := dateutil.DateRange(startDate, endDate, xcontext.Configs(ctx).Report.Location())
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Invalid date range: %v", err)
	}

	ctx, cancel := xcontext.WithQueryTimeout(ctx)
	defer cancel()

	ar := repository.ActivityRange{CommunityID: communityID, From: from, To: to}
	summary := &model.Summary{
		CommunityID: communityID,
		StartDate:   startDate,
		EndDate:     endDate,
		Top:         []model.UserXP{},
	}

	summary.TotalMessages, err = d.activityLogRepo.CountByKind(ctx, ar, entity.ActivityKindMessage)
	if err != nil {
		return nil, storeError(ctx, "count messages", err)
	}

	summary.ActiveUsers, err = d.activityLogRepo.CountDistinctUsers(ctx, ar, entity.ActivityKindMessage)
	if err != nil {
		return nil, storeError(ctx, "count active users", err)
	}

	summary.NewUsers, err = d.activityLogRepo.CountNewUsers(ctx, ar)
	if err != nil {
		return nil, storeError(ctx, "count new users", err)
	}

	top, err := d.activityLogRepo.GetTopXPDelta(ctx, ar, summaryTopLimit)
	if err != nil {
		return nil, storeError(ctx, "get top xp", err)
	}

	userIDs := []int64{}
	for _, t := range top {
		userIDs = append(userIDs, t.UserID)
	}

	names, err := d.displayNames(ctx, communityID, userIDs)
	if err != nil {
		return nil, err
	}

	for _, t := range top {
		summary.Top = append(summary.Top, model.UserXP{
			UserID:      t.UserID,
			DisplayName: names[t.UserID],
			XP:          t.XP,
		})
	}

	return summary, nil
}

// GetLeaderboard ranks members by their current total XP.
func (d *statisticDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	if err := checkCommunity(req.CommunityID); err != nil {
		return nil, err
	}

	ctx, cancel := xcontext.WithQueryTimeout(ctx)
	defer cancel()

	entries, err := d.topByTotalXP(ctx, req.CommunityID,
		common.ClampLimit(req.Limit, defaultLeaderboardLimit, maxLeaderboardLimit))
	if err != nil {
		return nil, err
	}

	return &model.GetLeaderboardResponse{Leaderboard: entries}, nil
}

func (d *statisticDomain) topByTotalXP(
	ctx context.Context, communityID int64, limit int,
) ([]model.LeaderboardEntry, error) {
	positions, err := d.leaderboard.GetTop(ctx, communityID, limit)
	if err != nil {
		return nil, err
	}

	userIDs := []int64{}
	for _, p := range positions {
		userIDs = append(userIDs, p.UserID)
	}

	names, err := d.displayNames(ctx, communityID, userIDs)
	if err != nil {
		return nil, err
	}

	entries := []model.LeaderboardEntry{}
	for i, p := range positions {
		entries = append(entries, model.LeaderboardEntry{
			Rank:        i + 1,
			UserID:      p.UserID,
			DisplayName: names[p.UserID],
			XP:          p.XP,
			Level:       common.LevelOf(p.XP),
		})
	}

	return entries, nil
}

func (d *statisticDomain) GetStats(
	ctx context.Context, req *model.GetStatsRequest,
) (*model.GetStatsResponse, error) {
	if err := checkMember(req.CommunityID, req.UserID); err != nil {
		return nil, err
	}

	ctx, cancel := xcontext.WithQueryTimeout(ctx)
	defer cancel()

	members, err := d.memberRepo.GetByUserIDs(ctx, req.CommunityID, []int64{req.UserID})
	if err != nil {
		return nil, storeError(ctx, "get member", err)
	}

	// A user without activity is reported at the starting level.
	member := entity.Member{CommunityID: req.CommunityID, UserID: req.UserID, Level: 1}
	if len(members) > 0 {
		member = members[0]
	}
	rank, err := d.leaderboard.GetRank(ctx, req.CommunityID, req.UserID)
	if err != nil {
		return nil, err
	}

	return &model.GetStatsResponse{
		UserID:        member.UserID,
		DisplayName:   member.DisplayName(),
		XP:            member.XP,
		Level:         member.Level,
		NextLevelXP:   common.XPForLevel(member.Level + 1),
		XPToNextLevel: common.XPToNextLevel(member.XP),
		MessagesCount: member.MessagesCount,
		InvitesCount:  member.InvitesCount,
		Rank:          rank,
	}, nil
}

func (d *statisticDomain) displayNames(
	ctx context.Context, communityID int64, userIDs []int64,
) (map[int64]string, error) {
	members, err := d.memberRepo.GetByUserIDs(ctx, communityID, userIDs)
	if err != nil {
		return nil, storeError(ctx, "get members", err)
	}

	names := make(map[int64]string, len(members))
	for _, m := range members {
		names[m.UserID] = m.DisplayName()
	}

	return names, nil
}
