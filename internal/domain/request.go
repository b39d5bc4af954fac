package domain

import "time"

type RequestStatus string

// 请求状态只能从 pending 单向流转到 approved 或 rejected，不存在回退
const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

type Request struct {
	ID            int64         `json:"id"`
	EmployeeID    int64         `json:"employeeId"`
	EmployeeName  string        `json:"employeeName,omitempty"`
	RequestType   string        `json:"requestType"`
	Description   string        `json:"description"`
	Status        RequestStatus `json:"status"`
	RequestedDate *time.Time    `json:"requestedDate"`
	ApprovedBy    *int64        `json:"approvedBy"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}
