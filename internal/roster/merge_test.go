package roster

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

func strPtr(s string) *string {
	return &s
}

func TestMergeAssignmentAppendsNewEmployee(t *testing.T) {
	assignments := []domain.Assignment{
		{EmployeeID: 1, Tasks: []string{"门岗执勤"}},
	}

	next := MergeAssignment(assignments, domain.Assignment{EmployeeID: 2, Tasks: []string{"辖区巡逻"}})

	require.Len(t, next, 2)
	require.Equal(t, int64(1), next[0].EmployeeID)
	require.Equal(t, int64(2), next[1].EmployeeID)
}

func TestMergeAssignmentReplacesExistingEmployee(t *testing.T) {
	assignments := []domain.Assignment{
		{EmployeeID: 1, Status: strPtr("confirmed"), Tasks: []string{"门岗执勤"}},
		{EmployeeID: 2, Tasks: []string{"辖区巡逻"}},
	}

	// 重复指派会替换原记录并把该员工移动到列表末尾
	next := MergeAssignment(assignments, domain.Assignment{EmployeeID: 1, Status: strPtr("late"), Tasks: []string{}})

	require.Len(t, next, 2)
	require.Equal(t, int64(2), next[0].EmployeeID)
	require.Equal(t, int64(1), next[1].EmployeeID)
	require.Equal(t, "late", *next[1].Status)
	require.Empty(t, next[1].Tasks)
	require.NotNil(t, next[1].Tasks)
}

func TestMergeAssignmentIsIdempotent(t *testing.T) {
	asg := domain.Assignment{EmployeeID: 7, Tasks: []string{"视频巡查"}}

	once := MergeAssignment(nil, asg)
	twice := MergeAssignment(once, asg)

	require.Equal(t, once, twice)
	require.Len(t, twice, 1)
}

func TestMergeAssignmentNormalizesNilTasks(t *testing.T) {
	next := MergeAssignment(nil, domain.Assignment{EmployeeID: 1})

	require.NotNil(t, next[0].Tasks)
	require.Empty(t, next[0].Tasks)
}

func TestMergeAssignmentKeepsOptionalFieldsAbsent(t *testing.T) {
	next := MergeAssignment(nil, domain.Assignment{EmployeeID: 1})

	// 未填写的状态和备注保持 nil，和显式的空字符串是两回事
	require.Nil(t, next[0].Status)
	require.Nil(t, next[0].Note)
}

func TestRemoveAssignment(t *testing.T) {
	assignments := []domain.Assignment{
		{EmployeeID: 1, Tasks: []string{}},
		{EmployeeID: 2, Tasks: []string{}},
	}

	next, removed := RemoveAssignment(assignments, 1)
	require.True(t, removed)
	require.Len(t, next, 1)
	require.Equal(t, int64(2), next[0].EmployeeID)
}

func TestRemoveAssignmentMissingEmployeeIsNoop(t *testing.T) {
	assignments := []domain.Assignment{
		{EmployeeID: 1, Tasks: []string{}},
	}

	next, removed := RemoveAssignment(assignments, 99)
	require.False(t, removed)
	require.Equal(t, assignments, next)
}

func TestNormalizeAssignments(t *testing.T) {
	assignments := []domain.Assignment{
		{EmployeeID: 1},
		{EmployeeID: 2, Tasks: []string{"门岗执勤"}},
	}

	next := NormalizeAssignments(assignments)
	require.NotNil(t, next[0].Tasks)
	require.Empty(t, next[0].Tasks)
	require.Equal(t, []string{"门岗执勤"}, next[1].Tasks)
}
