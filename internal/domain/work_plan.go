package domain

import "time"

// WorkPlan 是某一天的工作计划，按日期唯一。
// ShiftTasks 的键只能是 morning / afternoon / evening
type WorkPlan struct {
	ID           int64               `json:"id"`
	Date         time.Time           `json:"date"`
	GeneralTasks []string            `json:"generalTasks"`
	ShiftTasks   map[string][]string `json:"shiftTasks"`
	Notes        *string             `json:"notes,omitempty"`
	StartTime    *string             `json:"startTime,omitempty"`
	EndTime      *string             `json:"endTime,omitempty"`
	CreatedAt    time.Time           `json:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt"`
	Version      int32               `json:"-"`
}
