// Package utils 缺省值填充小工具，不依赖 internal
package utils

import "time"

// CoalesceString 返回第一个非空字符串
func CoalesceString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}

// PositiveInt v <= 0 时返回 defaultVal
func PositiveInt(v, defaultVal int) int {
	if v <= 0 {
		return defaultVal
	}
	return v
}

// PositiveDuration d <= 0 时返回 defaultVal
func PositiveDuration(d, defaultVal time.Duration) time.Duration {
	if d <= 0 {
		return defaultVal
	}
	return d
}
