package domain

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/questx-lab/xpbot/internal/model"
	"github.com/questx-lab/xpbot/pkg/errorx"
	"github.com/questx-lab/xpbot/pkg/testutil"
	"github.com/stretchr/testify/require"
)

func mintLinks(s *suite) *int {
	calls := 0
	s.minter.CreateChatInviteLinkFunc = func(ctx context.Context, chatID int64, name string) (string, error) {
		calls++
		return fmt.Sprintf("https://t.me/+%d-%s", chatID, name), nil
	}

	return &calls
}

func Test_referralDomain_GetOrCreateInviteLink(t *testing.T) {
	ctx := testutil.MockContext()
	s := newSuite(t)
	calls := mintLinks(s)

	req := &model.GetOrCreateInviteLinkRequest{CommunityID: testutil.TestCommunityID, UserID: 10}
	first, err := s.referral.GetOrCreateInviteLink(ctx, req)
	require.NoError(t, err)
	require.Equal(t, "https://t.me/+-1001-referral:10", first.Token)

	second, err := s.referral.GetOrCreateInviteLink(ctx, req)
	require.NoError(t, err)
	require.Equal(t, first.Token, second.Token)
	require.Equal(t, 1, *calls)

	other, err := s.referral.GetOrCreateInviteLink(ctx, &model.GetOrCreateInviteLinkRequest{
		CommunityID: testutil.TestCommunityID, UserID: 11,
	})
	require.NoError(t, err)
	require.NotEqual(t, first.Token, other.Token)
	require.Equal(t, 2, *calls)
}

func Test_referralDomain_GetOrCreateInviteLink_MintFailure(t *testing.T) {
	ctx := testutil.MockContext()
	s := newSuite(t)
	s.minter.CreateChatInviteLinkFunc = func(context.Context, int64, string) (string, error) {
		return "", errors.New("Bad Request: not enough rights to manage chat invite links")
	}

	_, err := s.referral.GetOrCreateInviteLink(ctx, &model.GetOrCreateInviteLinkRequest{
		CommunityID: testutil.TestCommunityID, UserID: 10,
	})
	require.True(t, errors.Is(err, errorx.New(errorx.ChatPlatform, "")))

	_, err = s.inviteLinkRepo.GetByInviter(ctx, testutil.TestCommunityID, 10)
	require.Error(t, err)
}

func Test_referralDomain_MainCommunity(t *testing.T) {
	cfg := testutil.MockConfigs()
	cfg.Referral.MainCommunityID = -2002
	ctx := testutil.MockContextWithConfigs(cfg)
	s := newSuite(t)
	mintLinks(s)

	_, err := s.referral.GetOrCreateInviteLink(ctx, &model.GetOrCreateInviteLinkRequest{
		CommunityID: testutil.TestCommunityID, UserID: 10,
	})
	require.True(t, errors.Is(err, errorx.New(errorx.PermissionDenied, "")))

	link, err := s.referral.GetOrCreateInviteLink(ctx, &model.GetOrCreateInviteLinkRequest{
		CommunityID: -2002, UserID: 10,
	})
	require.NoError(t, err)

	resp, err := s.referral.OnJoin(ctx, &model.OnJoinRequest{
		CommunityID: testutil.TestCommunityID, UserID: 20, InviteLink: link.Token,
	})
	require.NoError(t, err)
	require.False(t, resp.Attributed)
}

func Test_referralDomain_OnJoin(t *testing.T) {
	ctx := testutil.MockContext()
	s := newSuite(t)
	mintLinks(s)

	link, err := s.referral.GetOrCreateInviteLink(ctx, &model.GetOrCreateInviteLinkRequest{
		CommunityID: testutil.TestCommunityID, UserID: 10,
	})
	require.NoError(t, err)

	join := &model.OnJoinRequest{
		CommunityID: testutil.TestCommunityID,
		UserID:      20,
		InviteLink:  link.Token,
		JoinedAt:    messageTime,
	}

	resp, err := s.referral.OnJoin(ctx, join)
	require.NoError(t, err)
	require.True(t, resp.Attributed)
	require.Equal(t, int64(10), resp.InviterID)

	inviter := s.getMember(t, ctx, testutil.TestCommunityID, 10)
	require.Equal(t, int64(20), inviter.XP)
	require.Equal(t, int64(1), inviter.InvitesCount)

	stored, err := s.inviteLinkRepo.GetByToken(ctx, link.Token)
	require.NoError(t, err)
	require.Equal(t, int64(1), stored.JoinedCount)

	invited, err := s.invitedUserRepo.Get(ctx, testutil.TestCommunityID, 20)
	require.NoError(t, err)
	require.Equal(t, int64(10), invited.InviterID)

	events := s.events(t, model.XPEventInviteAttributed)
	require.Len(t, events, 1)
	require.Equal(t, float64(10), events[0]["inviter_id"])
	require.Equal(t, float64(20), events[0]["user_id"])

	// Rejoining through the same or another link changes nothing.
	resp, err = s.referral.OnJoin(ctx, join)
	require.NoError(t, err)
	require.False(t, resp.Attributed)

	otherLink, err := s.referral.GetOrCreateInviteLink(ctx, &model.GetOrCreateInviteLinkRequest{
		CommunityID: testutil.TestCommunityID, UserID: 11,
	})
	require.NoError(t, err)
	join.InviteLink = otherLink.Token
	resp, err = s.referral.OnJoin(ctx, join)
	require.NoError(t, err)
	require.False(t, resp.Attributed)

	inviter = s.getMember(t, ctx, testutil.TestCommunityID, 10)
	require.Equal(t, int64(20), inviter.XP)
	require.Equal(t, int64(1), inviter.InvitesCount)
	require.Equal(t, int64(1), countActivities(t, ctx, testutil.TestCommunityID))
}

func Test_referralDomain_OnJoin_NoOp(t *testing.T) {
	ctx := testutil.MockContext()
	s := newSuite(t)
	mintLinks(s)

	link, err := s.referral.GetOrCreateInviteLink(ctx, &model.GetOrCreateInviteLinkRequest{
		CommunityID: testutil.TestCommunityID, UserID: 10,
	})
	require.NoError(t, err)

	testCases := []struct {
		name string
		req  *model.OnJoinRequest
	}{
		{
			name: "self invite",
			req: &model.OnJoinRequest{
				CommunityID: testutil.TestCommunityID, UserID: 10, InviteLink: link.Token,
			},
		},
		{
			name: "unknown link",
			req: &model.OnJoinRequest{
				CommunityID: testutil.TestCommunityID, UserID: 20, InviteLink: "https://t.me/+unknown",
			},
		},
		{
			name: "link of another community",
			req: &model.OnJoinRequest{
				CommunityID: -2002, UserID: 20, InviteLink: link.Token,
			},
		},
		{
			name: "no link",
			req: &model.OnJoinRequest{
				CommunityID: testutil.TestCommunityID, UserID: 20,
			},
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := s.referral.OnJoin(ctx, tt.req)
			require.NoError(t, err)
			require.False(t, resp.Attributed)
		})
	}

	_, err = s.memberRepo.Get(ctx, testutil.TestCommunityID, 10)
	require.Error(t, err)
	require.Len(t, s.events(t, model.XPEventInviteAttributed), 0)
}

func Test_referralDomain_OnJoin_ZeroInviteXP(t *testing.T) {
	cfg := testutil.MockConfigs()
	cfg.XP.InviteXP = 0
	ctx := testutil.MockContextWithConfigs(cfg)
	s := newSuite(t)
	mintLinks(s)

	link, err := s.referral.GetOrCreateInviteLink(ctx, &model.GetOrCreateInviteLinkRequest{
		CommunityID: testutil.TestCommunityID, UserID: 10,
	})
	require.NoError(t, err)

	resp, err := s.referral.OnJoin(ctx, &model.OnJoinRequest{
		CommunityID: testutil.TestCommunityID, UserID: 20, InviteLink: link.Token,
	})
	require.NoError(t, err)
	require.True(t, resp.Attributed)

	inviter := s.getMember(t, ctx, testutil.TestCommunityID, 10)
	require.Equal(t, int64(0), inviter.XP)
	require.Equal(t, int64(1), inviter.InvitesCount)
}

func Test_referralDomain_GetInviteLeaderboard(t *testing.T) {
	ctx := testutil.MockContext()
	s := newSuite(t)
	mintLinks(s)

	for inviter, joined := range map[int64][]int64{10: {20, 21}, 11: {22}} {
		link, err := s.referral.GetOrCreateInviteLink(ctx, &model.GetOrCreateInviteLinkRequest{
			CommunityID: testutil.TestCommunityID, UserID: inviter,
		})
		require.NoError(t, err)

		for _, userID := range joined {
			_, err := s.referral.OnJoin(ctx, &model.OnJoinRequest{
				CommunityID: testutil.TestCommunityID, UserID: userID, InviteLink: link.Token,
			})
			require.NoError(t, err)
		}
	}

	resp, err := s.referral.GetInviteLeaderboard(ctx, &model.GetInviteLeaderboardRequest{
		CommunityID: testutil.TestCommunityID,
	})
	require.NoError(t, err)
	require.Len(t, resp.Inviters, 2)
	require.Equal(t, int64(10), resp.Inviters[0].UserID)
	require.Equal(t, int64(2), resp.Inviters[0].InvitesCount)
	require.Equal(t, 1, resp.Inviters[0].Rank)
	require.Equal(t, int64(11), resp.Inviters[1].UserID)

	resp, err = s.referral.GetInviteLeaderboard(ctx, &model.GetInviteLeaderboardRequest{
		CommunityID: testutil.TestCommunityID, Limit: 1,
	})
	require.NoError(t, err)
	require.Len(t, resp.Inviters, 1)
}
