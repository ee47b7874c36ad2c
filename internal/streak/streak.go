package streak

import "time"

// Normalize 取时间戳在其自身时区下的日历日，规整为 UTC 零点。
// 统一时区后 time.Time 才能安全地用作集合键：
// 数据库驱动读回的时间戳时区与 time.Now() 并不一致。
func Normalize(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// DaySet 表示某个习惯的全部打卡日集合，键为归一化后的日历日
// 所有统计函数都是纯函数，只读不写，便于独立测试
type DaySet map[time.Time]struct{}

// NewDaySet 从任意时间戳列表构造打卡日集合，重复日期自动合并
func NewDaySet(dates ...time.Time) DaySet {
	set := make(DaySet, len(dates))
	for _, d := range dates {
		set[Normalize(d)] = struct{}{}
	}
	return set
}

// Add 记录一个打卡日
func (s DaySet) Add(day time.Time) {
	s[Normalize(day)] = struct{}{}
}

// Has 判断指定日历日是否有打卡记录
func (s DaySet) Has(day time.Time) bool {
	_, ok := s[Normalize(day)]
	return ok
}

// IsTrackedToday 判断今天是否已打卡
func IsTrackedToday(days DaySet, today time.Time) bool {
	return days.Has(today)
}

// RecentWindow 返回最近 n 天的打卡情况，按时间顺序排列，
// 末位对应 today，首位对应 today-(n-1)；n<=0 时返回空切片
func RecentWindow(days DaySet, today time.Time, n int) []bool {
	if n <= 0 {
		return []bool{}
	}

	window := make([]bool, n)
	day := Normalize(today).AddDate(0, 0, -(n - 1))
	for i := 0; i < n; i++ {
		window[i] = days.Has(day)
		day = day.AddDate(0, 0, 1)
	}
	return window
}

// CurrentStreak 计算截至今天的连续打卡天数。
// 今天未打卡时从昨天开始回溯，遇到第一个未打卡日即停止。
func CurrentStreak(days DaySet, today time.Time) int {
	day := Normalize(today)
	if !days.Has(day) {
		day = day.AddDate(0, 0, -1)
	}

	count := 0
	for days.Has(day) {
		count++
		day = day.AddDate(0, 0, -1)
	}
	return count
}

// LongestStreak 计算整个历史中最长的连续打卡天数
func LongestStreak(days DaySet) int {
	longest := 0
	for day := range days {
		// 仅从每段连续区间的起点向后扫描，整体复杂度保持线性
		if days.Has(day.AddDate(0, 0, -1)) {
			continue
		}

		length := 1
		next := day.AddDate(0, 0, 1)
		for days.Has(next) {
			length++
			next = next.AddDate(0, 0, 1)
		}
		if length > longest {
			longest = length
		}
	}
	return longest
}
