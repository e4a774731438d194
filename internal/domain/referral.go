package domain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/questx-lab/xpbot/internal/common"
	"github.com/questx-lab/xpbot/internal/entity"
	"github.com/questx-lab/xpbot/internal/model"
	"github.com/questx-lab/xpbot/internal/repository"
	"github.com/questx-lab/xpbot/pkg/api/telegram"
	"github.com/questx-lab/xpbot/pkg/errorx"
	"github.com/questx-lab/xpbot/pkg/pubsub"
	"github.com/questx-lab/xpbot/pkg/xcontext"
	"gorm.io/gorm"
)

const (
	defaultLeaderboardLimit = 10
	maxLeaderboardLimit     = 100
)

type ReferralDomain interface {
	GetOrCreateInviteLink(context.Context, *model.GetOrCreateInviteLinkRequest) (*model.GetOrCreateInviteLinkResponse, error)
	OnJoin(context.Context, *model.OnJoinRequest) (*model.OnJoinResponse, error)
	GetInviteLeaderboard(context.Context, *model.GetInviteLeaderboardRequest) (*model.GetInviteLeaderboardResponse, error)
}

type referralDomain struct {
	inviteLinkRepo  repository.InviteLinkRepository
	invitedUserRepo repository.InvitedUserRepository
	memberRepo      repository.MemberRepository
	ledger          *Ledger
	minter          telegram.IEndpoint
	mutex           *common.KeyedMutex
	publisher       pubsub.Publisher
}

func NewReferralDomain(
	inviteLinkRepo repository.InviteLinkRepository,
	invitedUserRepo repository.InvitedUserRepository,
	memberRepo repository.MemberRepository,
	ledger *Ledger,
	minter telegram.IEndpoint,
	mutex *common.KeyedMutex,
	publisher pubsub.Publisher,
) *referralDomain {
	return &referralDomain{
		inviteLinkRepo:  inviteLinkRepo,
		invitedUserRepo: invitedUserRepo,
		memberRepo:      memberRepo,
		ledger:          ledger,
		minter:          minter,
		mutex:           mutex,
		publisher:       publisher,
	}
}

func isMainCommunity(ctx context.Context, communityID int64) bool {
	mainID := xcontext.Configs(ctx).Referral.MainCommunityID
	return mainID == 0 || mainID == communityID
}

func (d *referralDomain) GetOrCreateInviteLink(
	ctx context.Context, req *model.GetOrCreateInviteLinkRequest,
) (*model.GetOrCreateInviteLinkResponse, error) {
	if err := checkMember(req.CommunityID, req.UserID); err != nil {
		return nil, err
	}

	if !isMainCommunity(ctx, req.CommunityID) {
		return nil, errorx.New(errorx.PermissionDenied, "Invite links are only available in the main community")
	}

	ctx, cancel := xcontext.WithQueryTimeout(ctx)
	defer cancel()

	unlock := d.mutex.Lock(common.LinkLockKey(req.CommunityID, req.UserID))
	defer unlock()

	link, err := d.inviteLinkRepo.GetByInviter(ctx, req.CommunityID, req.UserID)
	if err == nil {
		return &model.GetOrCreateInviteLinkResponse{Token: link.Token}, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeError(ctx, "get invite link", err)
	}

	token, err := d.minter.CreateChatInviteLink(ctx, req.CommunityID, fmt.Sprintf("referral:%d", req.UserID))
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot create invite link for user %d of community %d: %v",
			req.UserID, req.CommunityID, err)
		return nil, errorx.New(errorx.ChatPlatform,
			"Cannot create an invite link, the bot must be an administrator allowed to invite users")
	}

	link = &entity.InviteLink{
		Token:       token,
		CommunityID: req.CommunityID,
		InviterID:   req.UserID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := d.inviteLinkRepo.Create(ctx, link); err != nil {
		// Another process may have stored a link for this inviter first.
		existing, getErr := d.inviteLinkRepo.GetByInviter(ctx, req.CommunityID, req.UserID)
		if getErr == nil {
			return &model.GetOrCreateInviteLinkResponse{Token: existing.Token}, nil
		}

		return nil, storeError(ctx, "create invite link", err)
	}

	xcontext.Logger(ctx).Infof("Created invite link for user %d of community %d", req.UserID, req.CommunityID)
	return &model.GetOrCreateInviteLinkResponse{Token: link.Token}, nil
}

// OnJoin attributes a new member to the owner of the invite link used. A user
// is attributed at most once per community; every other case is a no-op.
func (d *referralDomain) OnJoin(
	ctx context.Context, req *model.OnJoinRequest,
) (*model.OnJoinResponse, error) {
	if err := checkMember(req.CommunityID, req.UserID); err != nil {
		return nil, err
	}

	if !isMainCommunity(ctx, req.CommunityID) || req.InviteLink == "" {
		return &model.OnJoinResponse{}, nil
	}

	ctx, cancel := xcontext.WithQueryTimeout(ctx)
	defer cancel()

	now := req.JoinedAt
	if now.IsZero() {
		now = time.Now()
	}

	unlock := d.mutex.Lock(common.JoinLockKey(req.CommunityID, req.UserID))
	defer unlock()

	// The inviter is resolved before the transaction so that its member lock
	// is never awaited while a connection is held.
	link, err := d.inviteLinkRepo.GetByToken(ctx, req.InviteLink)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			d.countAttribution("unknown_link")
			return &model.OnJoinResponse{}, nil
		}

		return nil, storeError(ctx, "get invite link", err)
	}

	if link.CommunityID != req.CommunityID {
		d.countAttribution("unknown_link")
		return &model.OnJoinResponse{}, nil
	}

	if link.InviterID == req.UserID {
		d.countAttribution("self_invite")
		return &model.OnJoinResponse{}, nil
	}

	unlockInviter := d.mutex.Lock(common.MemberLockKey(req.CommunityID, link.InviterID))
	defer unlockInviter()

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	_, err = d.invitedUserRepo.Get(ctx, req.CommunityID, req.UserID)
	if err == nil {
		d.countAttribution("already_attributed")
		return &model.OnJoinResponse{}, nil
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeError(ctx, "get invited user", err)
	}

	if err := d.inviteLinkRepo.IncreaseJoinedCount(ctx, link.Token); err != nil {
		return nil, storeError(ctx, "increase joined count", err)
	}

	created, err := d.invitedUserRepo.Create(ctx, &entity.InvitedUser{
		CommunityID: req.CommunityID,
		UserID:      req.UserID,
		InviterID:   link.InviterID,
		Token:       link.Token,
		JoinedAt:    now.UTC(),
	})
	if err != nil {
		return nil, storeError(ctx, "create invited user", err)
	}

	if !created {
		d.countAttribution("already_attributed")
		return &model.OnJoinResponse{}, nil
	}

	input := CreditInput{
		CommunityID: req.CommunityID,
		UserID:      link.InviterID,
		Delta:       int64(xcontext.Configs(ctx).XP.InviteXP),
		Kind:        entity.ActivityKindInvite,
		Now:         now,
		CountInvite: true,
	}

	result, err := d.ledger.Credit(ctx, input)
	if err != nil {
		return nil, storeError(ctx, "credit inviter", err)
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		return nil, storeError(ctx, "commit attribution", err)
	}

	d.countAttribution("attributed")
	d.ledger.AfterCommit(ctx, input, result)

	xcontext.Logger(ctx).Infof("User %d joined community %d invited by %d",
		req.UserID, req.CommunityID, link.InviterID)

	PublishXPEvent(ctx, d.publisher, req.CommunityID, model.XPEventInviteAttributed, model.InviteAttributedEvent{
		CommunityID:  req.CommunityID,
		InviterID:    link.InviterID,
		UserID:       req.UserID,
		InvitesCount: result.Member.InvitesCount,
	})

	return &model.OnJoinResponse{Attributed: true, InviterID: link.InviterID}, nil
}

func (d *referralDomain) GetInviteLeaderboard(
	ctx context.Context, req *model.GetInviteLeaderboardRequest,
) (*model.GetInviteLeaderboardResponse, error) {
	if err := checkCommunity(req.CommunityID); err != nil {
		return nil, err
	}

	ctx, cancel := xcontext.WithQueryTimeout(ctx)
	defer cancel()

	limit := common.ClampLimit(req.Limit, defaultLeaderboardLimit, maxLeaderboardLimit)
	members, err := d.memberRepo.GetTopByInvites(ctx, req.CommunityID, limit)
	if err != nil {
		return nil, storeError(ctx, "get top inviters", err)
	}

	inviters := []model.Inviter{}
	for i, m := range members {
		inviters = append(inviters, model.Inviter{
			Rank:         i + 1,
			UserID:       m.UserID,
			DisplayName:  m.DisplayName(),
			InvitesCount: m.InvitesCount,
		})
	}

	return &model.GetInviteLeaderboardResponse{Inviters: inviters}, nil
}

func (d *referralDomain) countAttribution(result string) {
	common.PromCounters[common.InviteAttributionTotal].WithLabelValues(result).Inc()
}
