package domain

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/questx-lab/xpbot/internal/common"
	"github.com/questx-lab/xpbot/internal/domain/statistic"
	"github.com/questx-lab/xpbot/internal/domain/xp"
	"github.com/questx-lab/xpbot/internal/entity"
	"github.com/questx-lab/xpbot/internal/model"
	"github.com/questx-lab/xpbot/internal/repository"
	"github.com/questx-lab/xpbot/pkg/pubsub"
	"github.com/questx-lab/xpbot/pkg/xcontext"
	"gorm.io/gorm"
)

type CreditInput struct {
	CommunityID int64
	UserID      int64
	// Profile refreshes the stored display names when set and not empty.
	Profile *model.Profile

	Delta         int64
	Kind          entity.ActivityKind
	MessageLength int
	Now           time.Time

	// CountMessage is set on the message path.
	CountMessage bool
	// Decision carries the cooldown and daily cap anchors of the message
	// path. They are written only when the admitted delta is positive.
	Decision *xp.Decision
	// ClaimDaily stamps the member's last daily claim with Now.
	ClaimDaily bool
	// CountInvite is set when the member brought a new user in.
	CountInvite bool
}

type CreditResult struct {
	Member    entity.Member
	Delta     int64
	LeveledUp bool
}

// Ledger is the only writer of members and activity log entries.
type Ledger struct {
	communityRepo   repository.CommunityRepository
	memberRepo      repository.MemberRepository
	activityLogRepo repository.ActivityLogRepository
	leaderboard     statistic.Leaderboard
	publisher       pubsub.Publisher
	idNode          *snowflake.Node
}

func NewLedger(
	communityRepo repository.CommunityRepository,
	memberRepo repository.MemberRepository,
	activityLogRepo repository.ActivityLogRepository,
	leaderboard statistic.Leaderboard,
	publisher pubsub.Publisher,
	idNode *snowflake.Node,
) *Ledger {
	return &Ledger{
		communityRepo:   communityRepo,
		memberRepo:      memberRepo,
		activityLogRepo: activityLogRepo,
		leaderboard:     leaderboard,
		publisher:       publisher,
		idNode:          idNode,
	}
}

// GetMember returns the member, or nil if the user has no record in the
// community yet.
func (l *Ledger) GetMember(ctx context.Context, communityID, userID int64) (*entity.Member, error) {
	member, err := l.memberRepo.Get(ctx, communityID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return member, nil
}

// Credit applies a delta to a member and appends the activity log entry. It
// must run inside the caller's transaction and under the member lock. Call
// AfterCommit once the transaction is committed.
func (l *Ledger) Credit(ctx context.Context, in CreditInput) (*CreditResult, error) {
	now := in.Now.UTC()
	delta := in.Delta
	if delta < 0 {
		delta = 0
	}

	if err := l.communityRepo.CreateIfNotExists(ctx, in.CommunityID); err != nil {
		return nil, err
	}

	member, err := l.GetMember(ctx, in.CommunityID, in.UserID)
	if err != nil {
		return nil, err
	}

	isNew := member == nil
	if isNew {
		member = &entity.Member{CommunityID: in.CommunityID, UserID: in.UserID}
	}

	oldXP := member.XP
	member.XP += delta
	member.Level = common.LevelOf(member.XP)

	if in.Profile != nil && *in.Profile != (model.Profile{}) {
		member.Username = in.Profile.Username
		member.FirstName = in.Profile.FirstName
		member.LastName = in.Profile.LastName
	}

	if in.CountMessage {
		member.MessagesCount++
	}

	if in.Decision != nil && delta > 0 {
		member.LastXPAt = sql.NullTime{Time: now, Valid: true}
		member.DailyXPAccrued = in.Decision.DailyXPAccrued
		member.DailyXPDate = in.Decision.Day
	}

	if in.ClaimDaily {
		member.LastDailyClaim = sql.NullTime{Time: now, Valid: true}
	}

	if in.CountInvite {
		member.InvitesCount++
	}

	if isNew {
		err = l.memberRepo.Create(ctx, member)
	} else {
		err = l.memberRepo.Save(ctx, member)
	}
	if err != nil {
		return nil, err
	}

	err = l.activityLogRepo.Create(ctx, &entity.ActivityLog{
		ID:            l.idNode.Generate().Int64(),
		CommunityID:   in.CommunityID,
		UserID:        in.UserID,
		Kind:          in.Kind,
		XPDelta:       delta,
		MessageLength: in.MessageLength,
		CreatedAt:     now,
	})
	if err != nil {
		return nil, err
	}

	return &CreditResult{
		Member:    *member,
		Delta:     delta,
		LeveledUp: common.LevelOf(member.XP) > common.LevelOf(oldXP),
	}, nil
}

// AfterCommit propagates a committed credit to the leaderboard cache and the
// outbound event stream.
func (l *Ledger) AfterCommit(ctx context.Context, in CreditInput, result *CreditResult) {
	if result.Delta > 0 {
		common.PromCounters[common.XPCreditedTotal].WithLabelValues(string(in.Kind)).Add(float64(result.Delta))

		if err := l.leaderboard.SetXP(ctx, in.CommunityID, in.UserID, result.Member.XP); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot update leaderboard of community %d: %v", in.CommunityID, err)
		}
	}

	if result.LeveledUp {
		xcontext.Logger(ctx).Infof("User %d of community %d reached level %d",
			in.UserID, in.CommunityID, result.Member.Level)

		PublishXPEvent(ctx, l.publisher, in.CommunityID, model.XPEventLevelUp, model.LevelUpEvent{
			CommunityID: in.CommunityID,
			UserID:      in.UserID,
			DisplayName: result.Member.DisplayName(),
			Level:       result.Member.Level,
			XP:          result.Member.XP,
		})
	}
}

// ResetCommunity zeroes the progress of every member of the community in one
// transaction and drops the cached leaderboard once it is committed.
func (l *Ledger) ResetCommunity(ctx context.Context, communityID int64) (int64, error) {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	count, err := l.memberRepo.ResetProgress(ctx, communityID)
	if err != nil {
		return 0, err
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		return 0, err
	}

	if err := l.leaderboard.Drop(ctx, communityID); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot drop leaderboard of community %d: %v", communityID, err)
	}

	return count, nil
}
