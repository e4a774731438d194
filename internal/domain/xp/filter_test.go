package xp

import (
	"strings"
	"testing"
	"time"

	"github.com/questx-lab/xpbot/internal/entity"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func Test_Admit_Content(t *testing.T) {
	f := NewFilter(Config{})

	tests := []struct {
		name   string
		text   string
		amount int64
		reason Reason
	}{
		{name: "47 characters", text: strings.Repeat("a", 47), amount: 5, reason: ReasonOK},
		{name: "whitespace is not counted", text: "ab  cd \n e", amount: 3, reason: ReasonOK},
		{name: "too short", text: "ab cd", amount: 0, reason: ReasonShort},
		{name: "short after stripping", text: "a  b  c  d", amount: 0, reason: ReasonShort},
		{name: "symbols only", text: "!!!??? :) <>", amount: 0, reason: ReasonSymbolOnly},
		{name: "emoji only", text: "😀😀😀😀😀😀", amount: 0, reason: ReasonSymbolOnly},
		{name: "filler laughter", text: "ㅋㅋㅋㅋㅋㅋㅋ", amount: 0, reason: ReasonFiller},
		{name: "filler with spaces", text: "ㅎㅎㅎ ㅎㅎㅎ", amount: 0, reason: ReasonFiller},
		{name: "mixed filler is text", text: "ㅋㅋㅋㅎㅎㅎ", amount: 3, reason: ReasonOK},
		{name: "repeated letter is not filler", text: "aaaaaa", amount: 3, reason: ReasonOK},
		{name: "local script counts", text: "안녕하세요 여러분", amount: 3, reason: ReasonOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := f.Admit(Input{Text: tt.text, Now: testNow})
			require.Equal(t, tt.amount, d.Amount)
			require.Equal(t, tt.reason, d.Reason)
		})
	}
}

func Test_Admit_Keywords(t *testing.T) {
	f := NewFilter(Config{})
	rules := []entity.KeywordRule{
		{Word: "moon", Mode: entity.KeywordModeBonus, Delta: 10},
		{Word: "gm", Mode: entity.KeywordModeBonus, Delta: 2},
		{Word: "scam", Mode: entity.KeywordModeBlock},
		{Word: "spam", Mode: entity.KeywordModeBonus, Delta: -50},
	}

	d := f.Admit(Input{Text: "GM everyone, to the MOON", Now: testNow, Rules: rules})
	require.Equal(t, int64(3+1+10+2), d.Amount)
	require.Equal(t, ReasonOK, d.Reason)

	d = f.Admit(Input{Text: "to the moon, this is not a scam", Now: testNow, Rules: rules})
	require.Equal(t, int64(0), d.Amount)
	require.Equal(t, ReasonBlocked, d.Reason)

	d = f.Admit(Input{Text: "no spam here please", Now: testNow, Rules: rules})
	require.Equal(t, int64(0), d.Amount)
	require.Equal(t, ReasonOK, d.Reason)

	// Keywords are not evaluated on filler messages.
	d = f.Admit(Input{
		Text:  "ㅋㅋㅋㅋㅋㅋ",
		Now:   testNow,
		Rules: []entity.KeywordRule{{Word: "ㅋ", Mode: entity.KeywordModeBonus, Delta: 5}},
	})
	require.Equal(t, int64(0), d.Amount)
	require.Equal(t, ReasonFiller, d.Reason)
}

func Test_Admit_KeywordsWithoutLengthXP(t *testing.T) {
	f := NewFilter(Config{CooldownSeconds: 30})
	rules := []entity.KeywordRule{
		{Word: "gm", Mode: entity.KeywordModeBonus, Delta: 5},
		{Word: "🚀", Mode: entity.KeywordModeBonus, Delta: 4},
		{Word: "scam", Mode: entity.KeywordModeBlock},
	}

	testCases := []struct {
		name   string
		text   string
		amount int64
		reason Reason
	}{
		{name: "short with bonus", text: "gm!", amount: 5, reason: ReasonShort},
		{name: "symbols with bonus", text: "🚀🚀🚀🚀🚀🚀", amount: 4, reason: ReasonSymbolOnly},
		{name: "short with block", text: "scam", amount: 0, reason: ReasonBlocked},
		{name: "block beats bonus", text: "gm scam", amount: 0, reason: ReasonBlocked},
		{name: "short without keyword", text: "hey", amount: 0, reason: ReasonShort},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			d := f.Admit(Input{Text: tt.text, Now: testNow, Rules: rules})
			require.Equal(t, tt.amount, d.Amount)
			require.Equal(t, tt.reason, d.Reason)
		})
	}

	// Bonus XP of a short message is still subject to the cooldown.
	state := MemberState{LastXPAt: testNow}
	d := f.Admit(Input{Text: "gm!", Now: testNow.Add(10 * time.Second), Member: state, Rules: rules})
	require.Equal(t, int64(0), d.Amount)
	require.Equal(t, ReasonCooldown, d.Reason)
}

func Test_Admit_Cooldown(t *testing.T) {
	f := NewFilter(Config{CooldownSeconds: 30})
	text := strings.Repeat("b", 20)

	d := f.Admit(Input{Text: text, Now: testNow})
	require.Equal(t, int64(4), d.Amount)

	state := MemberState{LastXPAt: testNow}
	d = f.Admit(Input{Text: text, Now: testNow.Add(29 * time.Second), Member: state})
	require.Equal(t, int64(0), d.Amount)
	require.Equal(t, ReasonCooldown, d.Reason)

	d = f.Admit(Input{Text: text, Now: testNow.Add(30 * time.Second), Member: state})
	require.Equal(t, int64(4), d.Amount)
	require.Equal(t, ReasonOK, d.Reason)
}

func Test_Admit_DailyCap(t *testing.T) {
	f := NewFilter(Config{DailyXPCap: 10})

	d := f.Admit(Input{
		Text:   strings.Repeat("c", 80),
		Now:    testNow,
		Member: MemberState{DailyXPAccrued: 8, DailyXPDate: "2024-03-10"},
	})
	require.Equal(t, int64(2), d.Amount)
	require.Equal(t, ReasonDailyCap, d.Reason)
	require.Equal(t, int64(10), d.DailyXPAccrued)
	require.Equal(t, "2024-03-10", d.Day)

	// Accrued XP of another day does not count.
	d = f.Admit(Input{
		Text:   strings.Repeat("c", 80),
		Now:    testNow,
		Member: MemberState{DailyXPAccrued: 10, DailyXPDate: "2024-03-09"},
	})
	require.Equal(t, int64(7), d.Amount)
	require.Equal(t, int64(7), d.DailyXPAccrued)
}

func Test_Admit_DailyCapNeverExceeded(t *testing.T) {
	f := NewFilter(Config{DailyXPCap: 25})

	for _, size := range []int{20, 200, 1000} {
		state := MemberState{}
		total := int64(0)
		for i := 0; i < 30; i++ {
			d := f.Admit(Input{Text: strings.Repeat("d", size), Now: testNow, Member: state})
			total += d.Amount
			state.DailyXPAccrued = d.DailyXPAccrued
			state.DailyXPDate = d.Day
		}

		require.Equal(t, int64(25), total, "size=%d", size)
	}
}

func Test_Admit_ReportingTimezone(t *testing.T) {
	// 2024-03-10 20:00 UTC is already 2024-03-11 in UTC+9.
	f := NewFilter(Config{DailyXPCap: 10, Location: time.FixedZone("kst", 9*3600)})
	now := time.Date(2024, 3, 10, 20, 0, 0, 0, time.UTC)

	d := f.Admit(Input{
		Text:   strings.Repeat("e", 20),
		Now:    now,
		Member: MemberState{DailyXPAccrued: 10, DailyXPDate: "2024-03-10"},
	})
	require.Equal(t, "2024-03-11", d.Day)
	require.Equal(t, int64(4), d.Amount)
}
