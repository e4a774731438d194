package domain

import (
	"context"
	"encoding/base64"
	"strconv"
	"strings"
	"time"

	"github.com/puzpuzpuz/xsync"
	"github.com/questx-lab/xpbot/internal/common"
	"github.com/questx-lab/xpbot/internal/entity"
	"github.com/questx-lab/xpbot/internal/model"
	"github.com/questx-lab/xpbot/internal/repository"
	"github.com/questx-lab/xpbot/pkg/enum"
	"github.com/questx-lab/xpbot/pkg/errorx"
	"github.com/questx-lab/xpbot/pkg/jwt"
	"github.com/questx-lab/xpbot/pkg/xcontext"
)

const defaultResetTokenExpiration = 10 * time.Minute

type AdminDomain interface {
	AdminCredit(context.Context, *model.AdminCreditRequest) (*model.AdminCreditResponse, error)
	AddKeyword(context.Context, *model.AddKeywordRequest) (*model.AddKeywordResponse, error)
	RemoveKeyword(context.Context, *model.RemoveKeywordRequest) (*model.RemoveKeywordResponse, error)
	AddAdmin(context.Context, *model.AddAdminRequest) (*model.AddAdminResponse, error)
	RemoveAdmin(context.Context, *model.RemoveAdminRequest) (*model.RemoveAdminResponse, error)
	RequestReset(context.Context, *model.RequestResetRequest) (*model.RequestResetResponse, error)
	ConfirmReset(context.Context, *model.ConfirmResetRequest) (*model.ConfirmResetResponse, error)
}

type adminDomain struct {
	keywordRepo repository.KeywordRuleRepository
	adminRepo   repository.AdminRepository
	ledger      *Ledger
	backuper    *Backuper
	settings    *common.SettingsCache
	mutex       *common.KeyedMutex

	// consumedBackups holds backup ids whose reset was already confirmed.
	consumedBackups *xsync.MapOf[string, time.Time]
}

func NewAdminDomain(
	keywordRepo repository.KeywordRuleRepository,
	adminRepo repository.AdminRepository,
	ledger *Ledger,
	backuper *Backuper,
	settings *common.SettingsCache,
	mutex *common.KeyedMutex,
) *adminDomain {
	return &adminDomain{
		keywordRepo:     keywordRepo,
		adminRepo:       adminRepo,
		ledger:          ledger,
		backuper:        backuper,
		settings:        settings,
		mutex:           mutex,
		consumedBackups: xsync.NewMapOf[time.Time](),
	}
}

func (d *adminDomain) AdminCredit(
	ctx context.Context, req *model.AdminCreditRequest,
) (*model.AdminCreditResponse, error) {
	if err := checkMember(req.CommunityID, req.UserID); err != nil {
		return nil, err
	}

	if err := checkAdmin(ctx, d.settings); err != nil {
		return nil, err
	}

	if req.Amount <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Amount must be a positive number")
	}

	ctx, cancel := xcontext.WithQueryTimeout(ctx)
	defer cancel()

	unlock := d.mutex.Lock(common.MemberLockKey(req.CommunityID, req.UserID))
	defer unlock()

	input := CreditInput{
		CommunityID: req.CommunityID,
		UserID:      req.UserID,
		Delta:       req.Amount,
		Kind:        entity.ActivityKindAdmin,
		Now:         time.Now(),
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	result, err := d.ledger.Credit(ctx, input)
	if err != nil {
		return nil, storeError(ctx, "credit xp", err)
	}

	if err := xcontext.WithCommitDBTransaction(ctx); err != nil {
		return nil, storeError(ctx, "commit xp", err)
	}

	d.ledger.AfterCommit(ctx, input, result)

	xcontext.Logger(ctx).Infof("Admin %d credited %d XP to user %d of community %d",
		xcontext.RequestUserID(ctx), req.Amount, req.UserID, req.CommunityID)

	return &model.AdminCreditResponse{
		XP:        result.Member.XP,
		Level:     result.Member.Level,
		LeveledUp: result.LeveledUp,
	}, nil
}

func (d *adminDomain) AddKeyword(
	ctx context.Context, req *model.AddKeywordRequest,
) (*model.AddKeywordResponse, error) {
	if err := checkAdmin(ctx, d.settings); err != nil {
		return nil, err
	}

	word := strings.ToLower(strings.TrimSpace(req.Word))
	if word == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty keyword")
	}

	mode, err := enum.ToEnum[entity.KeywordMode](strings.ToLower(req.Mode))
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid keyword mode: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Keyword mode must be bonus or block")
	}

	if mode == entity.KeywordModeBlock {
		req.Delta = 0
	}

	ctx, cancel := xcontext.WithQueryTimeout(ctx)
	defer cancel()

	err = d.keywordRepo.Upsert(ctx, &entity.KeywordRule{Word: word, Mode: mode, Delta: req.Delta})
	if err != nil {
		return nil, storeError(ctx, "save keyword", err)
	}

	if err := d.settings.Reload(ctx); err != nil {
		return nil, storeError(ctx, "reload settings", err)
	}

	return &model.AddKeywordResponse{}, nil
}

func (d *adminDomain) RemoveKeyword(
	ctx context.Context, req *model.RemoveKeywordRequest,
) (*model.RemoveKeywordResponse, error) {
	if err := checkAdmin(ctx, d.settings); err != nil {
		return nil, err
	}

	ctx, cancel := xcontext.WithQueryTimeout(ctx)
	defer cancel()

	removed, err := d.keywordRepo.Delete(ctx, strings.ToLower(strings.TrimSpace(req.Word)))
	if err != nil {
		return nil, storeError(ctx, "delete keyword", err)
	}

	if err := d.settings.Reload(ctx); err != nil {
		return nil, storeError(ctx, "reload settings", err)
	}

	return &model.RemoveKeywordResponse{Removed: removed}, nil
}

func (d *adminDomain) AddAdmin(
	ctx context.Context, req *model.AddAdminRequest,
) (*model.AddAdminResponse, error) {
	if err := checkOwner(ctx); err != nil {
		return nil, err
	}

	if req.UserID == 0 {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty user id")
	}

	ctx, cancel := xcontext.WithQueryTimeout(ctx)
	defer cancel()

	err := d.adminRepo.Create(ctx, &entity.Admin{
		UserID:    req.UserID,
		CreatedBy: xcontext.RequestUserID(ctx),
	})
	if err != nil {
		return nil, storeError(ctx, "create admin", err)
	}

	if err := d.settings.Reload(ctx); err != nil {
		return nil, storeError(ctx, "reload settings", err)
	}

	return &model.AddAdminResponse{}, nil
}

func (d *adminDomain) RemoveAdmin(
	ctx context.Context, req *model.RemoveAdminRequest,
) (*model.RemoveAdminResponse, error) {
	if err := checkOwner(ctx); err != nil {
		return nil, err
	}

	ctx, cancel := xcontext.WithQueryTimeout(ctx)
	defer cancel()

	removed, err := d.adminRepo.Delete(ctx, req.UserID)
	if err != nil {
		return nil, storeError(ctx, "delete admin", err)
	}

	if err := d.settings.Reload(ctx); err != nil {
		return nil, storeError(ctx, "reload settings", err)
	}

	return &model.RemoveAdminResponse{Removed: removed}, nil
}

// RequestReset is the first phase of a reset. It writes a backup of the
// community and returns the token required by ConfirmReset. Nothing is
// mutated.
func (d *adminDomain) RequestReset(
	ctx context.Context, req *model.RequestResetRequest,
) (*model.RequestResetResponse, error) {
	if err := checkCommunity(req.CommunityID); err != nil {
		return nil, err
	}

	if err := checkAdmin(ctx, d.settings); err != nil {
		return nil, err
	}

	engine, err := resetTokenEngine(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := xcontext.WithQueryTimeout(ctx)
	defer cancel()

	backup, err := d.backuper.Write(ctx, req.CommunityID)
	if err != nil {
		return nil, storeError(ctx, "write backup", err)
	}

	resp := &model.RequestResetResponse{BackupID: backup.ID, BackupURL: backup.URL}
	if backup.UploadErr != nil {
		xcontext.Logger(ctx).Warnf("Cannot upload backup %s, returning it inline: %v", backup.ID, backup.UploadErr)
		resp.Backup = base64.StdEncoding.EncodeToString(backup.Data)
	}

	resp.Token, err = engine.Generate(strconv.FormatInt(req.CommunityID, 10), model.ResetToken{
		CommunityID: req.CommunityID,
		BackupID:    backup.ID,
		RequestedBy: xcontext.RequestUserID(ctx),
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate reset token: %v", err)
		return nil, errorx.Unknown
	}
	resp.ExpiresAt = time.Now().Add(engine.Expiration)

	xcontext.Logger(ctx).Infof("Reset of community %d requested by %d, backup %s",
		req.CommunityID, xcontext.RequestUserID(ctx), backup.ID)

	return resp, nil
}

// ConfirmReset is the second phase of a reset. It zeroes the progress of
// every member of the community. Members, invite links, invited users and
// the activity log are kept.
func (d *adminDomain) ConfirmReset(
	ctx context.Context, req *model.ConfirmResetRequest,
) (*model.ConfirmResetResponse, error) {
	if err := checkCommunity(req.CommunityID); err != nil {
		return nil, err
	}

	if err := checkAdmin(ctx, d.settings); err != nil {
		return nil, err
	}

	engine, err := resetTokenEngine(ctx)
	if err != nil {
		return nil, err
	}

	_, claims, err := engine.Verify(req.Token)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Invalid reset token: %v", err)
		return nil, errorx.New(errorx.BadRequest, "Invalid or expired confirmation token")
	}

	if claims.CommunityID != req.CommunityID || claims.RequestedBy != xcontext.RequestUserID(ctx) {
		return nil, errorx.New(errorx.PermissionDenied, "The confirmation token was issued for another request")
	}

	if _, used := d.consumedBackups.LoadOrStore(claims.BackupID, time.Now()); used {
		return nil, errorx.New(errorx.BadRequest, "The confirmation token was already used")
	}

	ctx, cancel := xcontext.WithQueryTimeout(ctx)
	defer cancel()

	resetCount, err := d.ledger.ResetCommunity(ctx, req.CommunityID)
	if err != nil {
		d.consumedBackups.Delete(claims.BackupID)
		return nil, storeError(ctx, "reset community", err)
	}

	xcontext.Logger(ctx).Infof("Community %d was reset by %d, %d members, backup %s",
		req.CommunityID, xcontext.RequestUserID(ctx), resetCount, claims.BackupID)

	return &model.ConfirmResetResponse{ResetMembers: resetCount}, nil
}

func resetTokenEngine(ctx context.Context) (*jwt.Engine[model.ResetToken], error) {
	cfg := xcontext.Configs(ctx).Reset
	if cfg.TokenSecret == "" {
		return nil, errorx.New(errorx.Unavailable, "Reset is disabled, no token secret is configured")
	}

	expiration := cfg.TokenExpiration
	if expiration <= 0 {
		expiration = defaultResetTokenExpiration
	}

	return jwt.NewEngine[model.ResetToken](cfg.TokenSecret, expiration), nil
}
