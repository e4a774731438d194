package main

import (
	"fmt"
	"strings"

	"github.com/questx-lab/xpbot/internal/entity"
	"github.com/questx-lab/xpbot/pkg/enum"
	"github.com/questx-lab/xpbot/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startSeed(*cli.Context) error {
	s.loadDatabase()
	s.migrateDB()
	s.loadRepos()

	if err := s.seedAdmins(); err != nil {
		return err
	}

	if err := s.seedKeywords(); err != nil {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Seeded %d admins and %d keywords",
		len(s.configs.Auth.InitialAdminIDs), len(s.file.Keywords))
	return nil
}

func (s *srv) seedAdmins() error {
	for _, id := range s.configs.Auth.InitialAdminIDs {
		err := s.adminRepo.Create(s.ctx, &entity.Admin{
			UserID:    id,
			CreatedBy: s.configs.Auth.OwnerID,
		})
		if err != nil {
			return fmt.Errorf("cannot seed admin %d: %w", id, err)
		}
	}

	return nil
}

func (s *srv) seedKeywords() error {
	for _, k := range s.file.Keywords {
		rule, err := newKeywordRule(k)
		if err != nil {
			return err
		}

		if err := s.keywordRuleRepo.Upsert(s.ctx, rule); err != nil {
			return fmt.Errorf("cannot seed keyword %s: %w", rule.Word, err)
		}
	}

	return nil
}

func newKeywordRule(k keywordSeed) (*entity.KeywordRule, error) {
	word := strings.ToLower(strings.TrimSpace(k.Word))
	if word == "" {
		return nil, fmt.Errorf("empty keyword")
	}

	mode, err := enum.ToEnum[entity.KeywordMode](strings.ToLower(k.Mode))
	if err != nil {
		return nil, fmt.Errorf("invalid mode of keyword %s: %w", word, err)
	}

	rule := &entity.KeywordRule{Word: word, Mode: mode, Delta: k.Delta}
	if mode == entity.KeywordModeBlock {
		rule.Delta = 0
	}

	return rule, nil
}
