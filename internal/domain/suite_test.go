package domain

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/xpbot/internal/common"
	"github.com/questx-lab/xpbot/internal/domain/statistic"
	"github.com/questx-lab/xpbot/internal/entity"
	"github.com/questx-lab/xpbot/internal/model"
	"github.com/questx-lab/xpbot/internal/repository"
	"github.com/questx-lab/xpbot/pkg/testutil"
	"github.com/questx-lab/xpbot/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

type suite struct {
	publisher *testutil.MockPublisher
	minter    *testutil.MockTelegramEndpoint
	storage   *testutil.MockStorage

	communityRepo   repository.CommunityRepository
	memberRepo      repository.MemberRepository
	activityLogRepo repository.ActivityLogRepository
	inviteLinkRepo  repository.InviteLinkRepository
	invitedUserRepo repository.InvitedUserRepository
	keywordRepo     repository.KeywordRuleRepository
	adminRepo       repository.AdminRepository

	settings *common.SettingsCache
	ledger   *Ledger
	backuper *Backuper

	message   *messageDomain
	daily     *dailyDomain
	referral  *referralDomain
	statistic *statisticDomain
	admin     *adminDomain
}

func newSuite(t *testing.T) *suite {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	s := &suite{
		publisher:       &testutil.MockPublisher{},
		minter:          &testutil.MockTelegramEndpoint{},
		storage:         &testutil.MockStorage{},
		communityRepo:   repository.NewCommunityRepository(),
		memberRepo:      repository.NewMemberRepository(),
		activityLogRepo: repository.NewActivityLogRepository(),
		inviteLinkRepo:  repository.NewInviteLinkRepository(),
		invitedUserRepo: repository.NewInvitedUserRepository(),
		keywordRepo:     repository.NewKeywordRuleRepository(),
		adminRepo:       repository.NewAdminRepository(),
	}

	mutex := common.NewKeyedMutex()
	leaderboard := statistic.New(s.memberRepo, nil)
	s.settings = common.NewSettingsCache(s.adminRepo, s.keywordRepo)
	s.ledger = NewLedger(s.communityRepo, s.memberRepo, s.activityLogRepo, leaderboard, s.publisher, node)

	s.message = NewMessageDomain(s.ledger, s.settings, mutex)
	s.daily = NewDailyDomain(s.ledger, mutex)
	s.referral = NewReferralDomain(s.inviteLinkRepo, s.invitedUserRepo, s.memberRepo,
		s.ledger, s.minter, mutex, s.publisher)
	s.statistic = NewStatisticDomain(s.activityLogRepo, s.memberRepo, leaderboard)
	s.backuper = NewBackuper(s.memberRepo, s.inviteLinkRepo, s.invitedUserRepo, s.storage)
	s.admin = NewAdminDomain(s.keywordRepo, s.adminRepo, s.ledger, s.backuper, s.settings, mutex)

	return s
}

func (s *suite) getMember(t *testing.T, ctx context.Context, communityID, userID int64) entity.Member {
	member, err := s.memberRepo.Get(ctx, communityID, userID)
	require.NoError(t, err)
	return *member
}

func (s *suite) events(t *testing.T, eventType string) []map[string]any {
	result := []map[string]any{}
	for _, p := range s.publisher.Packs() {
		var event model.XPEvent
		require.NoError(t, json.Unmarshal(p.Pack.Msg, &event))
		if event.Type == eventType {
			result = append(result, event.Data.(map[string]any))
		}
	}

	return result
}

func countActivities(t *testing.T, ctx context.Context, communityID int64) int64 {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.ActivityLog{}).
		Where("community_id=?", communityID).Count(&count).Error
	require.NoError(t, err)
	return count
}
