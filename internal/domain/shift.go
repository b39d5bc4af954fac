package domain

import "time"

// 工作计划中允许的班次类型，班次表本身不限制类型字符串
const (
	ShiftTypeMorning   = "morning"
	ShiftTypeAfternoon = "afternoon"
	ShiftTypeEvening   = "evening"
)

// ShiftKey 是班次的自然键，同一个 (日期, 班次类型) 至多存在一条记录
type ShiftKey struct {
	Date      time.Time
	ShiftType string
}

// Assignment 表示某个员工在一个班次中的排班记录。
// Status 和 Note 为 nil 表示未填写，和显式填写空字符串是两回事
type Assignment struct {
	EmployeeID int64    `json:"employeeId"`
	Status     *string  `json:"status,omitempty"`
	Note       *string  `json:"note,omitempty"`
	Tasks      []string `json:"tasks"`
}

type Shift struct {
	ID          int64        `json:"id"`
	Date        time.Time    `json:"date"`
	ShiftType   string       `json:"shiftType"`
	Assignments []Assignment `json:"assignments"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
	Version     int32        `json:"-"`
}

func (s *Shift) Key() ShiftKey {
	return ShiftKey{Date: s.Date, ShiftType: s.ShiftType}
}
