package cron

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/xpbot/internal/domain"
	"github.com/questx-lab/xpbot/internal/domain/statistic"
	"github.com/questx-lab/xpbot/internal/entity"
	"github.com/questx-lab/xpbot/internal/model"
	"github.com/questx-lab/xpbot/internal/repository"
	"github.com/questx-lab/xpbot/pkg/storage"
	"github.com/questx-lab/xpbot/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func TestDailyReportCronJob(t *testing.T) {
	ctx := testutil.MockContext()

	communityRepo := repository.NewCommunityRepository()
	memberRepo := repository.NewMemberRepository()
	activityLogRepo := repository.NewActivityLogRepository()
	statisticDomain := domain.NewStatisticDomain(activityLogRepo, memberRepo, statistic.New(memberRepo, nil))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	now := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)
	for _, communityID := range []int64{-1001, -1002} {
		for userID, xp := range map[int64]int64{10: 40, 11: 60} {
			_, err := testutil.SampleMember(ctx, entity.Member{CommunityID: communityID, UserID: userID, XP: xp})
			require.NoError(t, err)

			require.NoError(t, activityLogRepo.Create(ctx, &entity.ActivityLog{
				ID:          node.Generate().Int64(),
				CommunityID: communityID,
				UserID:      userID,
				Kind:        entity.ActivityKindMessage,
				XPDelta:     xp,
				CreatedAt:   now.Add(-time.Hour),
			}))
		}
	}

	publisher := &testutil.MockPublisher{}
	job := NewDailyReportCronJob(communityRepo, statisticDomain, publisher, time.UTC)
	job.now = func() time.Time { return now }
	job.Do(ctx)

	packs := publisher.Packs()
	require.Len(t, packs, 2)

	for _, p := range packs {
		require.Equal(t, "xp_events", p.Topic)

		var event struct {
			Type string                 `json:"type"`
			Data model.DailyReportEvent `json:"data"`
		}
		require.NoError(t, json.Unmarshal(p.Pack.Msg, &event))
		require.Equal(t, model.XPEventDailyReport, event.Type)
		require.Equal(t, "2024-01-01", event.Data.Date)
		require.Equal(t, int64(2), event.Data.Summary.TotalMessages)
		require.Equal(t, int64(2), event.Data.Summary.ActiveUsers)
		require.Len(t, event.Data.Leaderboard, 2)
		require.Equal(t, int64(11), event.Data.Leaderboard[0].UserID)
		require.Equal(t, strconv.FormatInt(event.Data.Summary.CommunityID, 10), string(p.Pack.Key))
	}
}

func TestDailyBackupCronJob(t *testing.T) {
	ctx := testutil.MockContext()

	for _, communityID := range []int64{-1001, -1002, -1003} {
		_, err := testutil.SampleMember(ctx, entity.Member{CommunityID: communityID, UserID: 10})
		require.NoError(t, err)
	}

	uploaded := make(chan string, 3)
	mockStorage := &testutil.MockStorage{
		UploadFunc: func(ctx context.Context, obj *storage.UploadObject) (*storage.UploadResponse, error) {
			uploaded <- obj.FileName
			return &storage.UploadResponse{Url: "https://s3/" + obj.FileName, FileName: obj.FileName}, nil
		},
	}

	backuper := domain.NewBackuper(repository.NewMemberRepository(), repository.NewInviteLinkRepository(),
		repository.NewInvitedUserRepository(), mockStorage)
	job := NewDailyBackupCronJob(repository.NewCommunityRepository(), backuper, time.UTC)
	job.Do(ctx)

	close(uploaded)
	names := []string{}
	for name := range uploaded {
		names = append(names, name)
	}
	require.Len(t, names, 3)
}

func TestNextDailyRun(t *testing.T) {
	loc := time.FixedZone("report", 9*3600)
	next := nextDailyRun(loc)

	local := next.In(loc)
	require.Equal(t, 23, local.Hour())
	require.Equal(t, 59, local.Minute())
	require.True(t, next.After(time.Now()))
	require.True(t, next.Before(time.Now().Add(24*time.Hour+time.Minute)))
}
