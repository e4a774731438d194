package xp

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/questx-lab/xpbot/internal/entity"
	"github.com/questx-lab/xpbot/pkg/dateutil"
)

type Reason string

const (
	ReasonOK         Reason = "ok"
	ReasonShort      Reason = "short"
	ReasonSymbolOnly Reason = "symbol_only"
	ReasonFiller     Reason = "filler"
	ReasonBlocked    Reason = "blocked"
	ReasonCooldown   Reason = "cooldown"
	ReasonDailyCap   Reason = "daily_cap"
)

const (
	baseXP          = 3
	charsPerXP      = 20
	minMessageRunes = 5
)

// DefaultFillerChars are laughter and acknowledgement characters commonly
// repeated as a whole message.
const DefaultFillerChars = "ㅋㅎㅠㅜㄱㅇ.~!?^ㅡ"

type Config struct {
	CooldownSeconds int
	DailyXPCap      int
	FillerChars     string
	Location        *time.Location
}

// MemberState is the part of a member the filter consults. A zero LastXPAt
// means the member never earned message XP.
type MemberState struct {
	LastXPAt       time.Time
	DailyXPAccrued int64
	DailyXPDate    string
}

type Input struct {
	Text   string
	Now    time.Time
	Member MemberState
	Rules  []entity.KeywordRule
}

type Decision struct {
	// Amount is the admitted XP, never negative.
	Amount int64
	Reason Reason

	// Day is the reporting day of Now and DailyXPAccrued the accrued XP of
	// that day once Amount is credited.
	Day            string
	DailyXPAccrued int64
}

type Filter struct {
	cfg    Config
	filler map[rune]struct{}
}

func NewFilter(cfg Config) *Filter {
	if cfg.FillerChars == "" {
		cfg.FillerChars = DefaultFillerChars
	}

	if cfg.Location == nil {
		cfg.Location = time.UTC
	}

	filler := map[rune]struct{}{}
	for _, r := range cfg.FillerChars {
		filler[r] = struct{}{}
	}

	return &Filter{cfg: cfg, filler: filler}
}

// Admit decides how much XP a message earns. It is a pure function of its
// input.
func (f *Filter) Admit(in Input) Decision {
	day := dateutil.Date(in.Now, f.cfg.Location)
	accrued := int64(0)
	if in.Member.DailyXPDate == day {
		accrued = in.Member.DailyXPAccrued
	}

	decision := Decision{Reason: ReasonOK, Day: day, DailyXPAccrued: accrued}

	amount, reason := f.contentXP(in.Text, in.Rules)
	decision.Reason = reason
	if amount == 0 {
		return decision
	}

	if f.cfg.CooldownSeconds > 0 && !in.Member.LastXPAt.IsZero() {
		cooldown := time.Duration(f.cfg.CooldownSeconds) * time.Second
		if in.Now.Sub(in.Member.LastXPAt) < cooldown {
			decision.Reason = ReasonCooldown
			return decision
		}
	}

	if f.cfg.DailyXPCap > 0 {
		remaining := int64(f.cfg.DailyXPCap) - accrued
		if remaining < 0 {
			remaining = 0
		}

		if amount > remaining {
			amount = remaining
			decision.Reason = ReasonDailyCap
		}
	}

	decision.Amount = amount
	decision.DailyXPAccrued = accrued + amount
	return decision
}

// contentXP covers everything which depends only on the text.
func (f *Filter) contentXP(text string, rules []entity.KeywordRule) (int64, Reason) {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)

	// Short and symbol-only messages earn no length XP but still go through
	// keyword rules. Filler skips keyword rules entirely.
	length := utf8.RuneCountInString(stripped)
	amount := int64(baseXP + length/charsPerXP)
	reason := ReasonOK
	switch {
	case length < minMessageRunes:
		amount, reason = 0, ReasonShort
	case isSymbolOnly(stripped):
		amount, reason = 0, ReasonSymbolOnly
	}

	if f.isFiller(stripped) {
		if reason == ReasonOK {
			reason = ReasonFiller
		}
		return 0, reason
	}

	lowerText := strings.ToLower(text)
	bonus := int64(0)
	for _, rule := range rules {
		if rule.Word == "" || !strings.Contains(lowerText, strings.ToLower(rule.Word)) {
			continue
		}

		switch rule.Mode {
		case entity.KeywordModeBlock:
			return 0, ReasonBlocked
		case entity.KeywordModeBonus:
			bonus += rule.Delta
		}
	}

	amount += bonus
	if amount < 0 {
		amount = 0
	}

	return amount, reason
}

func isSymbolOnly(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			return false
		}
	}

	return true
}

// isFiller reports whether s is a single filler rune repeated.
func (f *Filter) isFiller(s string) bool {
	first, _ := utf8.DecodeRuneInString(s)
	if _, ok := f.filler[first]; !ok {
		return false
	}

	for _, r := range s {
		if r != first {
			return false
		}
	}

	return true
}
