package common

import (
	"context"
	"sync"

	"github.com/questx-lab/xpbot/internal/entity"
	"github.com/questx-lab/xpbot/internal/repository"
	"github.com/questx-lab/xpbot/pkg/xcontext"
	"golang.org/x/exp/slices"
)

// SettingsCache keeps the administrator list and keyword rules in memory.
// Mutations of either table must call Reload after their transaction
// commits.
type SettingsCache struct {
	adminRepo   repository.AdminRepository
	keywordRepo repository.KeywordRuleRepository

	mutex    sync.RWMutex
	admins   map[int64]struct{}
	keywords []entity.KeywordRule
}

func NewSettingsCache(
	adminRepo repository.AdminRepository,
	keywordRepo repository.KeywordRuleRepository,
) *SettingsCache {
	return &SettingsCache{
		adminRepo:   adminRepo,
		keywordRepo: keywordRepo,
		admins:      map[int64]struct{}{},
	}
}

func (c *SettingsCache) Reload(ctx context.Context) error {
	admins, err := c.adminRepo.GetList(ctx)
	if err != nil {
		return err
	}

	keywords, err := c.keywordRepo.GetList(ctx)
	if err != nil {
		return err
	}

	adminSet := make(map[int64]struct{}, len(admins))
	for _, a := range admins {
		adminSet[a.UserID] = struct{}{}
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.admins = adminSet
	c.keywords = keywords

	xcontext.Logger(ctx).Debugf("Settings reloaded: %d admins, %d keywords", len(admins), len(keywords))
	return nil
}

// IsAdmin reports whether userID is the configured owner or a stored
// administrator.
func (c *SettingsCache) IsAdmin(ctx context.Context, userID int64) bool {
	if userID == 0 {
		return false
	}

	if IsOwner(ctx, userID) {
		return true
	}

	c.mutex.RLock()
	defer c.mutex.RUnlock()
	_, ok := c.admins[userID]
	return ok
}

func (c *SettingsCache) Keywords() []entity.KeywordRule {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return slices.Clone(c.keywords)
}

func IsOwner(ctx context.Context, userID int64) bool {
	ownerID := xcontext.Configs(ctx).Auth.OwnerID
	return ownerID != 0 && ownerID == userID
}
