package domain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/questx-lab/xpbot/internal/entity"
	"github.com/questx-lab/xpbot/internal/model"
	"github.com/questx-lab/xpbot/pkg/errorx"
	"github.com/questx-lab/xpbot/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func seedActivities(t *testing.T, ctx context.Context, s *suite) {
	for _, userID := range []int64{1, 2, 3, 4} {
		_, err := testutil.SampleMember(ctx, entity.Member{UserID: userID, Username: "user" + string(rune('0'+userID))})
		require.NoError(t, err)
	}

	logs := []entity.ActivityLog{
		{UserID: 3, Kind: entity.ActivityKindMessage, XPDelta: 4, CreatedAt: time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC)},
		{UserID: 1, Kind: entity.ActivityKindMessage, XPDelta: 5, CreatedAt: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{UserID: 2, Kind: entity.ActivityKindInvite, XPDelta: 20, CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)},
		{UserID: 1, Kind: entity.ActivityKindMessage, XPDelta: 0, CreatedAt: time.Date(2024, 1, 1, 12, 0, 10, 0, time.UTC)},
		{UserID: 2, Kind: entity.ActivityKindMessage, XPDelta: 3, CreatedAt: time.Date(2024, 1, 2, 23, 59, 0, 0, time.UTC)},
		{UserID: 3, Kind: entity.ActivityKindMessage, XPDelta: 4, CreatedAt: time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)},
		{UserID: 4, Kind: entity.ActivityKindMessage, XPDelta: 9, CreatedAt: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
	}

	for i := range logs {
		logs[i].ID = int64(i + 1)
		logs[i].CommunityID = testutil.TestCommunityID
		require.NoError(t, s.activityLogRepo.Create(ctx, &logs[i]))
	}
}

func Test_statisticDomain_Summarize(t *testing.T) {
	ctx := testutil.MockContext()
	s := newSuite(t)
	seedActivities(t, ctx, s)

	summary, err := s.statistic.Summarize(ctx, testutil.TestCommunityID, "2024-01-01", "2024-01-02")
	require.NoError(t, err)
	require.Equal(t, int64(4), summary.TotalMessages)
	require.Equal(t, int64(3), summary.ActiveUsers)
	require.Equal(t, int64(2), summary.NewUsers)
	require.Equal(t, []model.UserXP{
		{UserID: 2, DisplayName: "@user2", XP: 23},
		{UserID: 1, DisplayName: "@user1", XP: 5},
		{UserID: 3, DisplayName: "@user3", XP: 4},
	}, summary.Top)
}

func Test_statisticDomain_Summarize_Partition(t *testing.T) {
	ctx := testutil.MockContext()
	s := newSuite(t)
	seedActivities(t, ctx, s)

	whole, err := s.statistic.Summarize(ctx, testutil.TestCommunityID, "2023-12-31", "2024-01-03")
	require.NoError(t, err)

	total := int64(0)
	for _, day := range []string{"2023-12-31", "2024-01-01", "2024-01-02", "2024-01-03"} {
		part, err := s.statistic.Summarize(ctx, testutil.TestCommunityID, day, day)
		require.NoError(t, err)
		total += part.TotalMessages
	}

	require.Equal(t, whole.TotalMessages, total)
	require.Equal(t, int64(6), whole.TotalMessages)
	require.Equal(t, int64(4), whole.NewUsers)
}

func Test_statisticDomain_Summarize_Timezone(t *testing.T) {
	cfg := testutil.MockConfigs()
	cfg.Report.TimezoneOffset = 9 * time.Hour
	ctx := testutil.MockContextWithConfigs(cfg)
	s := newSuite(t)
	seedActivities(t, ctx, s)

	// 2023-12-31 23:00 UTC is already 2024-01-01 in UTC+9.
	summary, err := s.statistic.Summarize(ctx, testutil.TestCommunityID, "2024-01-01", "2024-01-01")
	require.NoError(t, err)
	require.Equal(t, int64(3), summary.TotalMessages)
}

func Test_statisticDomain_Summarize_Empty(t *testing.T) {
	ctx := testutil.MockContext()
	s := newSuite(t)
	seedActivities(t, ctx, s)

	summary, err := s.statistic.Summarize(ctx, testutil.TestCommunityID, "2030-01-01", "2030-01-31")
	require.NoError(t, err)
	require.Equal(t, int64(0), summary.TotalMessages)
	require.Equal(t, int64(0), summary.ActiveUsers)
	require.Equal(t, int64(0), summary.NewUsers)
	require.NotNil(t, summary.Top)
	require.Len(t, summary.Top, 0)
}

func Test_statisticDomain_Summarize_InvalidRange(t *testing.T) {
	ctx := testutil.MockContext()
	s := newSuite(t)

	_, err := s.statistic.Summarize(ctx, testutil.TestCommunityID, "2024-01-02", "2024-01-01")
	require.True(t, errors.Is(err, errorx.New(errorx.BadRequest, "")))

	_, err = s.statistic.Summarize(ctx, testutil.TestCommunityID, "2024/01/01", "2024-01-02")
	require.True(t, errors.Is(err, errorx.New(errorx.BadRequest, "")))
}

func Test_statisticDomain_GetCampaignSummary(t *testing.T) {
	ctx := testutil.MockContext()
	s := newSuite(t)

	_, err := s.statistic.GetCampaignSummary(ctx, &model.GetCampaignSummaryRequest{
		CommunityID: testutil.TestCommunityID,
	})
	require.True(t, errors.Is(err, errorx.New(errorx.BadRequest, "")))

	cfg := testutil.MockConfigs()
	cfg.Report.CampaignStart = "2024-01-01"
	cfg.Report.CampaignEnd = "2024-01-02"
	ctx = testutil.MockContextWithConfigs(cfg)
	seedActivities(t, ctx, s)

	summary, err := s.statistic.GetCampaignSummary(ctx, &model.GetCampaignSummaryRequest{
		CommunityID: testutil.TestCommunityID,
	})
	require.NoError(t, err)
	require.Equal(t, int64(4), summary.TotalMessages)
}

func Test_statisticDomain_GetLeaderboard(t *testing.T) {
	ctx := testutil.MockContext()
	s := newSuite(t)

	for userID, xp := range map[int64]int64{1: 100, 2: 300, 3: 200, 4: 200} {
		_, err := testutil.SampleMember(ctx, entity.Member{UserID: userID, XP: xp})
		require.NoError(t, err)
	}

	resp, err := s.statistic.GetLeaderboard(ctx, &model.GetLeaderboardRequest{
		CommunityID: testutil.TestCommunityID, Limit: 3,
	})
	require.NoError(t, err)
	require.Len(t, resp.Leaderboard, 3)
	require.Equal(t, int64(2), resp.Leaderboard[0].UserID)
	require.Equal(t, 2, resp.Leaderboard[0].Level)
	require.Equal(t, int64(3), resp.Leaderboard[1].UserID)
	require.Equal(t, int64(4), resp.Leaderboard[2].UserID)
	require.Equal(t, 3, resp.Leaderboard[2].Rank)

	// The limit is clamped.
	resp, err = s.statistic.GetLeaderboard(ctx, &model.GetLeaderboardRequest{
		CommunityID: testutil.TestCommunityID, Limit: 1000,
	})
	require.NoError(t, err)
	require.Len(t, resp.Leaderboard, 4)
}

func Test_statisticDomain_GetStats(t *testing.T) {
	ctx := testutil.MockContext()
	s := newSuite(t)

	for userID, xp := range map[int64]int64{1: 150, 2: 450} {
		_, err := testutil.SampleMember(ctx, entity.Member{UserID: userID, XP: xp, MessagesCount: 7})
		require.NoError(t, err)
	}

	resp, err := s.statistic.GetStats(ctx, &model.GetStatsRequest{
		CommunityID: testutil.TestCommunityID, UserID: 1,
	})
	require.NoError(t, err)
	require.Equal(t, int64(150), resp.XP)
	require.Equal(t, 2, resp.Level)
	require.Equal(t, int64(400), resp.NextLevelXP)
	require.Equal(t, int64(250), resp.XPToNextLevel)
	require.Equal(t, int64(7), resp.MessagesCount)
	require.Equal(t, uint64(2), resp.Rank)

	resp, err = s.statistic.GetStats(ctx, &model.GetStatsRequest{
		CommunityID: testutil.TestCommunityID, UserID: 99,
	})
	require.NoError(t, err)
	require.Equal(t, int64(0), resp.XP)
	require.Equal(t, 1, resp.Level)
	require.Equal(t, int64(100), resp.XPToNextLevel)
	require.Equal(t, uint64(0), resp.Rank)
}
