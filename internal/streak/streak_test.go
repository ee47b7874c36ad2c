package streak

import (
	"testing"
	"time"
)

var today = time.Date(2025, 6, 15, 9, 30, 0, 0, time.Local)

func daysAgo(n int) time.Time {
	return today.AddDate(0, 0, -n)
}

func TestNormalizeStripsTimeComponent(t *testing.T) {
	normalized := Normalize(today)
	if normalized.Hour() != 0 || normalized.Minute() != 0 || normalized.Second() != 0 {
		t.Fatalf("expected midnight, got %v", normalized)
	}
	if !Normalize(daysAgo(0)).Equal(normalized) {
		t.Fatal("same calendar day should normalize to the same instant")
	}
}

func TestIsTrackedToday(t *testing.T) {
	days := NewDaySet(daysAgo(1))
	if IsTrackedToday(days, today) {
		t.Fatal("yesterday's entry should not count as today")
	}

	days.Add(today)
	if !IsTrackedToday(days, today) {
		t.Fatal("expected today to be tracked")
	}
}

func TestRecentWindow(t *testing.T) {
	days := NewDaySet(daysAgo(0), daysAgo(2), daysAgo(9))

	window := RecentWindow(days, today, 10)
	if len(window) != 10 {
		t.Fatalf("expected window of 10, got %d", len(window))
	}

	// 末位是今天，首位是 9 天前
	if !window[9] {
		t.Fatal("expected last position (today) to be tracked")
	}
	if !window[7] {
		t.Fatal("expected position 7 (two days ago) to be tracked")
	}
	if !window[0] {
		t.Fatal("expected first position (nine days ago) to be tracked")
	}
	if window[8] || window[1] {
		t.Fatal("untracked days must be false")
	}

	if got := RecentWindow(days, today, 0); len(got) != 0 {
		t.Fatalf("expected empty window for n=0, got %d entries", len(got))
	}
}

func TestCurrentStreakAnchoredAtToday(t *testing.T) {
	// 今天、昨天、前天连续，三天前断开
	days := NewDaySet(daysAgo(0), daysAgo(1), daysAgo(2), daysAgo(4))
	if got := CurrentStreak(days, today); got != 3 {
		t.Fatalf("expected current streak 3, got %d", got)
	}
}

func TestCurrentStreakFallsBackToYesterday(t *testing.T) {
	days := NewDaySet(daysAgo(1))
	if got := CurrentStreak(days, today); got != 1 {
		t.Fatalf("expected current streak 1, got %d", got)
	}
}

func TestCurrentStreakEmpty(t *testing.T) {
	if got := CurrentStreak(NewDaySet(), today); got != 0 {
		t.Fatalf("expected current streak 0, got %d", got)
	}

	// 昨天和今天都没有记录时，更早的孤立记录不计入
	days := NewDaySet(daysAgo(3))
	if got := CurrentStreak(days, today); got != 0 {
		t.Fatalf("expected current streak 0, got %d", got)
	}
}

func TestLongestStreak(t *testing.T) {
	if got := LongestStreak(NewDaySet()); got != 0 {
		t.Fatalf("expected 0 for empty history, got %d", got)
	}

	// 两段：长度 3 与长度 2
	days := NewDaySet(
		daysAgo(0), daysAgo(1), daysAgo(2),
		daysAgo(5), daysAgo(6),
	)
	if got := LongestStreak(days); got != 3 {
		t.Fatalf("expected longest streak 3, got %d", got)
	}
}

func TestLongestStreakNeverBelowCurrent(t *testing.T) {
	cases := []DaySet{
		NewDaySet(),
		NewDaySet(daysAgo(0)),
		NewDaySet(daysAgo(1), daysAgo(2)),
		NewDaySet(daysAgo(0), daysAgo(1), daysAgo(3), daysAgo(4), daysAgo(5)),
	}

	for i, days := range cases {
		if LongestStreak(days) < CurrentStreak(days, today) {
			t.Fatalf("case %d: longest streak below current streak", i)
		}
	}
}

func TestSkippedDayResetsRun(t *testing.T) {
	// day1、day2 打卡，day3 跳过，day4（今天）打卡
	days := NewDaySet(daysAgo(0), daysAgo(2), daysAgo(3))
	if got := LongestStreak(days); got != 2 {
		t.Fatalf("expected longest streak 2, got %d", got)
	}
	if got := CurrentStreak(days, today); got != 1 {
		t.Fatalf("expected current streak 1, got %d", got)
	}
}
