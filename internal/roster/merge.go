// Package roster 实现班次排班和工作计划的合并语义。
// 这里的函数都是从 (当前状态, 变更) 到下一个状态的纯函数，
// 读取和写回由调用方通过 ShiftStore / WorkPlanStore 完成。
package roster

import "github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"

// MergeAssignment 把一个员工的排班合并进排班列表：
// 先移除该员工已有的记录，再把新记录追加到列表末尾，
// 保证同一个员工在列表中至多出现一次。
// 重复指派会把该员工移动到列表末尾，这是沿用已有行为（见 DESIGN.md）。
func MergeAssignment(assignments []domain.Assignment, asg domain.Assignment) []domain.Assignment {
	next := make([]domain.Assignment, 0, len(assignments)+1)
	for _, a := range assignments {
		if a.EmployeeID != asg.EmployeeID {
			next = append(next, a)
		}
	}

	if asg.Tasks == nil {
		asg.Tasks = []string{}
	}

	return append(next, asg)
}

// RemoveAssignment 从排班列表中移除一个员工，
// 返回过滤后的列表以及该员工原先是否在列表中。
// 员工不在列表中不算错误，原列表原样返回。
func RemoveAssignment(assignments []domain.Assignment, employeeID int64) ([]domain.Assignment, bool) {
	next := make([]domain.Assignment, 0, len(assignments))
	removed := false
	for _, a := range assignments {
		if a.EmployeeID == employeeID {
			removed = true
			continue
		}
		next = append(next, a)
	}
	return next, removed
}

// NormalizeAssignments 用于整表替换前的规整：任务列表不允许为 nil
func NormalizeAssignments(assignments []domain.Assignment) []domain.Assignment {
	next := make([]domain.Assignment, len(assignments))
	for i, a := range assignments {
		if a.Tasks == nil {
			a.Tasks = []string{}
		}
		next[i] = a
	}
	return next
}
