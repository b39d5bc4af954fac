package utils

import (
	"time"
)

// ParseDate 解析 YYYY-MM-DD 格式的日期，时区固定为 UTC，
// 保证同一天的班次和工作计划落在同一个键上
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}
