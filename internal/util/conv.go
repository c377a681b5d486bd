package util

import (
	"fmt"
	"math"
	"strconv"
)

// MustParseUint 将字符串转换为无符号整数，解析失败时返回 0
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// Round1 保留一位小数
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// FormatSeconds 将秒数格式化为 "Xh Ym" / "Xm" 形式
func FormatSeconds(seconds float64) string {
	if seconds <= 0 {
		return "0m"
	}

	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60

	if hours > 0 {
		if minutes > 0 {
			return fmt.Sprintf("%dh %dm", hours, minutes)
		}
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}

// FormatPercent 带百分号的一位小数，如 "37.5%"
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// FormatRating 五星制评分的一位小数表示
func FormatRating(v float64) string {
	return fmt.Sprintf("%.1f", v)
}
