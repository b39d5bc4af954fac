package roster

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

func TestIsValidShiftTaskType(t *testing.T) {
	require.True(t, IsValidShiftTaskType(domain.ShiftTypeMorning))
	require.True(t, IsValidShiftTaskType(domain.ShiftTypeAfternoon))
	require.True(t, IsValidShiftTaskType(domain.ShiftTypeEvening))
	require.False(t, IsValidShiftTaskType("night"))
	require.False(t, IsValidShiftTaskType(""))
}

func TestApplyShiftTasksReplacesSingleShiftType(t *testing.T) {
	plan := &domain.WorkPlan{
		GeneralTasks: []string{"交接班记录"},
		ShiftTasks: map[string][]string{
			domain.ShiftTypeMorning: {"门岗执勤"},
			domain.ShiftTypeEvening: {"视频巡查"},
		},
	}

	ApplyShiftTasks(plan, domain.ShiftTypeAfternoon, []string{"辖区巡逻"})

	// 通用任务和其他班次类型不受影响
	require.Equal(t, []string{"交接班记录"}, plan.GeneralTasks)
	require.Equal(t, []string{"门岗执勤"}, plan.ShiftTasks[domain.ShiftTypeMorning])
	require.Equal(t, []string{"视频巡查"}, plan.ShiftTasks[domain.ShiftTypeEvening])
	require.Equal(t, []string{"辖区巡逻"}, plan.ShiftTasks[domain.ShiftTypeAfternoon])
}

func TestApplyShiftTasksOverwritesExistingTasks(t *testing.T) {
	plan := &domain.WorkPlan{
		ShiftTasks: map[string][]string{
			domain.ShiftTypeMorning: {"门岗执勤", "装备清点"},
		},
	}

	ApplyShiftTasks(plan, domain.ShiftTypeMorning, []string{"内勤值守"})

	require.Equal(t, []string{"内勤值守"}, plan.ShiftTasks[domain.ShiftTypeMorning])
}

func TestApplyShiftTasksOnEmptyPlan(t *testing.T) {
	plan := &domain.WorkPlan{}

	ApplyShiftTasks(plan, domain.ShiftTypeMorning, nil)

	require.NotNil(t, plan.GeneralTasks)
	require.NotNil(t, plan.ShiftTasks)
	require.NotNil(t, plan.ShiftTasks[domain.ShiftTypeMorning])
	require.Empty(t, plan.ShiftTasks[domain.ShiftTypeMorning])
}
