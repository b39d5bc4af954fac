package roster

import (
	"slices"

	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

// ShiftTaskTypes 是工作计划中允许出现的班次类型
var ShiftTaskTypes = []string{
	domain.ShiftTypeMorning,
	domain.ShiftTypeAfternoon,
	domain.ShiftTypeEvening,
}

func IsValidShiftTaskType(shiftType string) bool {
	return slices.Contains(ShiftTaskTypes, shiftType)
}

// ApplyShiftTasks 整体替换工作计划中单个班次类型的任务列表，
// 通用任务和其他班次类型的任务保持不变。
// 调用方必须先用 IsValidShiftTaskType 校验 shiftType。
func ApplyShiftTasks(plan *domain.WorkPlan, shiftType string, tasks []string) {
	if plan.GeneralTasks == nil {
		plan.GeneralTasks = []string{}
	}
	if plan.ShiftTasks == nil {
		plan.ShiftTasks = map[string][]string{}
	}
	if tasks == nil {
		tasks = []string{}
	}
	plan.ShiftTasks[shiftType] = tasks
}
