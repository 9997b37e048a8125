package durationfmt

import "fmt"

// HoursMinutes formats a raw second count as "H小时M分钟". Seconds within the
// final minute are dropped, not rounded up. Used for book totals.
func HoursMinutes(totalSeconds int) string {
	if totalSeconds <= 0 {
		return "0分钟"
	}
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	if hours == 0 {
		return fmt.Sprintf("%d分钟", minutes)
	}
	return fmt.Sprintf("%d小时%d分钟", hours, minutes)
}

// MinutesSeconds formats a raw second count as "M分钟S秒". Used for chapter
// durations, which are short enough that seconds matter.
//
// Kept separate from HoursMinutes: the two round at different granularities.
func MinutesSeconds(totalSeconds int) string {
	if totalSeconds <= 0 {
		return "0秒"
	}
	minutes := totalSeconds / 60
	seconds := totalSeconds % 60
	if minutes == 0 {
		return fmt.Sprintf("%d秒", seconds)
	}
	return fmt.Sprintf("%d分钟%d秒", minutes, seconds)
}
