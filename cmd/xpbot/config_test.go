package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/questx-lab/xpbot/internal/entity"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("MAIN_CHAT_ID", "-1001")
	t.Setenv("ADMIN_IDS", "1, 2,3")
	t.Setenv("KAFKA_ADDRS", "a:9092,b:9092")
	t.Setenv("REPORT_TZ_OFFSET", "9")

	s := &srv{}
	require.NoError(t, s.loadConfig())

	cfg := s.configs
	require.Equal(t, int64(-1001), cfg.Referral.MainCommunityID)
	require.Equal(t, []int64{1, 2, 3}, cfg.Auth.InitialAdminIDs)
	require.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Addrs)
	require.Equal(t, 9*time.Hour, cfg.Report.TimezoneOffset)
	require.Equal(t, 60, cfg.XP.CooldownSeconds)
	require.Equal(t, 100, cfg.XP.DailyXPCap)
	require.Equal(t, 50, cfg.XP.DailyBonusXP)
	require.Equal(t, 24*time.Hour, cfg.XP.DailyClaimInterval)
	require.Equal(t, "sqlite", cfg.Database.Driver)
	require.Equal(t, "chat_events", cfg.Kafka.InboundTopic)
}

func TestLoadConfig_RejectsNegative(t *testing.T) {
	t.Setenv("XP_DAILY_CAP", "-1")

	s := &srv{}
	require.Error(t, s.loadConfig())
}

func TestLoadConfig_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xpbot.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
filler_chars = "k."

[[keywords]]
word = " GM "
mode = "bonus"
delta = 3

[[keywords]]
word = "spam"
mode = "BLOCK"
delta = 10
`), 0o600))
	t.Setenv("XPBOT_CONFIG_FILE", path)

	s := &srv{}
	require.NoError(t, s.loadConfig())
	require.Equal(t, "k.", s.configs.XP.FillerChars)
	require.Len(t, s.file.Keywords, 2)

	rule, err := newKeywordRule(s.file.Keywords[0])
	require.NoError(t, err)
	require.Equal(t, "gm", rule.Word)
	require.Equal(t, entity.KeywordModeBonus, rule.Mode)
	require.Equal(t, int64(3), rule.Delta)

	rule, err = newKeywordRule(s.file.Keywords[1])
	require.NoError(t, err)
	require.Equal(t, entity.KeywordModeBlock, rule.Mode)
	require.Equal(t, int64(0), rule.Delta)

	_, err = newKeywordRule(keywordSeed{Word: "x", Mode: "boost"})
	require.Error(t, err)
}
