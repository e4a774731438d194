package domain

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/questx-lab/xpbot/internal/common"
	"github.com/questx-lab/xpbot/internal/domain/xp"
	"github.com/questx-lab/xpbot/internal/entity"
	"github.com/questx-lab/xpbot/internal/model"
	"github.com/questx-lab/xpbot/pkg/xcontext"
)

type MessageDomain interface {
	OnMessage(context.Context, *model.OnMessageRequest) (*model.OnMessageResponse, error)
}

type messageDomain struct {
	ledger   *Ledger
	settings *common.SettingsCache
	mutex    *common.KeyedMutex
}

func NewMessageDomain(
	ledger *Ledger,
	settings *common.SettingsCache,
	mutex *common.KeyedMutex,
) *messageDomain {
	return &messageDomain{
		ledger:   ledger,
		settings: settings,
		mutex:    mutex,
	}
}

func (d *messageDomain) OnMessage(
	ctx context.Context, req *model.OnMessageRequest,
) (*model.OnMessageResponse, error) {
	if err := checkMember(req.CommunityID, req.UserID); err != nil {
		return nil, err
	}

	ctx, cancel := xcontext.WithQueryTimeout(ctx)
	defer cancel()

	now := req.SentAt
	if now.IsZero() {
		now = time.Now()
	}

	unlock := d.mutex.Lock(common.MemberLockKey(req.CommunityID, req.UserID))
	defer unlock()

	member, err := d.ledger.GetMember(ctx, req.CommunityID, req.UserID)
	if err != nil {
		return nil, storeError(ctx, "get member", err)
	}

	state := xp.MemberState{}
	if member != nil {
		if member.LastXPAt.Valid {
			state.LastXPAt = member.LastXPAt.Time
		}
		state.DailyXPAccrued = member.DailyXPAccrued
		state.DailyXPDate = member.DailyXPDate
	}

	decision := newFilter(ctx).Admit(xp.Input{
		Text:   req.Text,
		Now:    now,
		Member: state,
		Rules:  d.settings.Keywords(),
	})

	common.PromCounters[common.XPDecisionTotal].WithLabelValues(string(decision.Reason)).Inc()
	xcontext.Logger(ctx).Debugf("Message of user %d in community %d admitted %d XP (%s)",
		req.UserID, req.CommunityID, decision.Amount, decision.Reason)

	input := CreditInput{
		CommunityID:   req.CommunityID,
		UserID:        req.UserID,
		Profile:       &req.Profile,
		Delta:         decision.Amount,
		Kind:          entity.ActivityKindMessage,
		MessageLength: utf8.RuneCountInString(req.Text),
		Now:           now,
		CountMessage:  true,
		Decision:      &decision,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	result, err := d.ledger.Credit(ctx, input)
	if err != nil {
		return nil, storeError(ctx, "credit message xp", err)
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		return nil, storeError(ctx, "commit message xp", err)
	}

	d.ledger.AfterCommit(ctx, input, result)

	return &model.OnMessageResponse{
		AdmittedXP:    result.Delta,
		Reason:        string(decision.Reason),
		XP:            result.Member.XP,
		Level:         result.Member.Level,
		LeveledUp:     result.LeveledUp,
		MessagesCount: result.Member.MessagesCount,
	}, nil
}

func newFilter(ctx context.Context) *xp.Filter {
	cfg := xcontext.Configs(ctx)
	return xp.NewFilter(xp.Config{
		CooldownSeconds: cfg.XP.CooldownSeconds,
		DailyXPCap:      cfg.XP.DailyXPCap,
		FillerChars:     cfg.XP.FillerChars,
		Location:        cfg.Report.Location(),
	})
}
