package domain

import (
	"context"
	"time"

	"github.com/questx-lab/xpbot/internal/common"
	"github.com/questx-lab/xpbot/internal/entity"
	"github.com/questx-lab/xpbot/internal/model"
	"github.com/questx-lab/xpbot/pkg/xcontext"
)

const defaultDailyClaimInterval = 24 * time.Hour

type DailyDomain interface {
	ClaimDaily(context.Context, *model.ClaimDailyRequest) (*model.ClaimDailyResponse, error)
}

type dailyDomain struct {
	ledger *Ledger
	mutex  *common.KeyedMutex
	now    func() time.Time
}

func NewDailyDomain(ledger *Ledger, mutex *common.KeyedMutex) *dailyDomain {
	return &dailyDomain{ledger: ledger, mutex: mutex, now: time.Now}
}

// ClaimDaily grants the daily bonus at most once per claim interval, counted
// from the previous claim. It bypasses the abuse filter.
func (d *dailyDomain) ClaimDaily(
	ctx context.Context, req *model.ClaimDailyRequest,
) (*model.ClaimDailyResponse, error) {
	if err := checkMember(req.CommunityID, req.UserID); err != nil {
		return nil, err
	}

	ctx, cancel := xcontext.WithQueryTimeout(ctx)
	defer cancel()

	cfg := xcontext.Configs(ctx).XP
	interval := cfg.DailyClaimInterval
	if interval <= 0 {
		interval = defaultDailyClaimInterval
	}

	now := d.now()

	unlock := d.mutex.Lock(common.MemberLockKey(req.CommunityID, req.UserID))
	defer unlock()

	member, err := d.ledger.GetMember(ctx, req.CommunityID, req.UserID)
	if err != nil {
		return nil, storeError(ctx, "get member", err)
	}

	if member != nil && member.LastDailyClaim.Valid {
		next := member.LastDailyClaim.Time.Add(interval)
		if now.Before(next) {
			remaining := next.Sub(now)
			return &model.ClaimDailyResponse{
				Granted:                  false,
				XP:                       member.XP,
				Level:                    member.Level,
				CooldownRemainingSeconds: int64((remaining + time.Second - 1) / time.Second),
			}, nil
		}
	}

	input := CreditInput{
		CommunityID: req.CommunityID,
		UserID:      req.UserID,
		Profile:     &req.Profile,
		Delta:       int64(cfg.DailyBonusXP),
		Kind:        entity.ActivityKindDaily,
		Now:         now,
		ClaimDaily:  true,
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	result, err := d.ledger.Credit(ctx, input)
	if err != nil {
		return nil, storeError(ctx, "credit daily bonus", err)
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		return nil, storeError(ctx, "commit daily bonus", err)
	}

	d.ledger.AfterCommit(ctx, input, result)

	return &model.ClaimDailyResponse{
		Granted:   true,
		Amount:    result.Delta,
		XP:        result.Member.XP,
		Level:     result.Member.Level,
		LeveledUp: result.LeveledUp,
	}, nil
}
