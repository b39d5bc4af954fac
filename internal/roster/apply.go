package roster

import (
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

var (
	// ErrConflict 表示条件写入时版本不匹配，说明有并发写入
	ErrConflict = errors.New("写入冲突")
	// ErrNotFound 表示操作要求记录存在但记录不存在
	ErrNotFound = errors.New("记录不存在")
)

// ShiftStore 是排班合并对存储层的最小要求。
// 同一个键上的 读取-合并-写回 依赖这三个方法的条件语义来保证原子性：
// InsertShift 在键已存在时必须返回 ErrConflict，
// UpdateShiftAssignments 在版本不匹配时必须返回 ErrConflict。
type ShiftStore interface {
	GetShiftByKey(key domain.ShiftKey) (*domain.Shift, error)
	InsertShift(shift *domain.Shift) error
	UpdateShiftAssignments(shift *domain.Shift) error
}

// AssignEmployee 对一个班次执行 读取-合并-写回：
// 读取当前排班列表（班次不存在视为空列表并创建），合并该员工的排班后整表写回。
// 遇到写冲突时重新读取并重放一次合并，合并是纯函数所以重放是安全的；
// 第二次冲突直接把 ErrConflict 返回给调用方。
func AssignEmployee(store ShiftStore, key domain.ShiftKey, asg domain.Assignment) (*domain.Shift, error) {
	shift, err := assignOnce(store, key, asg)
	if errors.Is(err, ErrConflict) {
		return assignOnce(store, key, asg)
	}
	return shift, err
}

func assignOnce(store ShiftStore, key domain.ShiftKey, asg domain.Assignment) (*domain.Shift, error) {
	shift, err := store.GetShiftByKey(key)
	switch {
	case errors.Is(err, ErrNotFound):
		shift = &domain.Shift{
			Date:        key.Date,
			ShiftType:   key.ShiftType,
			Assignments: MergeAssignment(nil, asg),
		}
		if err := store.InsertShift(shift); err != nil {
			return nil, err
		}
		return shift, nil
	case err != nil:
		return nil, err
	}

	shift.Assignments = MergeAssignment(shift.Assignments, asg)
	if err := store.UpdateShiftAssignments(shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// UnassignEmployee 把一个员工从班次中移除。
// 班次不存在时返回 ErrNotFound；员工本来就不在列表中不算错误，按过滤后的列表写回。
// 写冲突时和 AssignEmployee 一样重放一次。
func UnassignEmployee(store ShiftStore, key domain.ShiftKey, employeeID int64) (*domain.Shift, error) {
	shift, err := unassignOnce(store, key, employeeID)
	if errors.Is(err, ErrConflict) {
		return unassignOnce(store, key, employeeID)
	}
	return shift, err
}

func unassignOnce(store ShiftStore, key domain.ShiftKey, employeeID int64) (*domain.Shift, error) {
	shift, err := store.GetShiftByKey(key)
	if err != nil {
		return nil, err
	}

	shift.Assignments, _ = RemoveAssignment(shift.Assignments, employeeID)
	if err := store.UpdateShiftAssignments(shift); err != nil {
		return nil, err
	}
	return shift, nil
}

// WorkPlanStore 是工作计划局部更新对存储层的最小要求，
// 条件语义和 ShiftStore 相同。
type WorkPlanStore interface {
	GetWorkPlanByDate(date time.Time) (*domain.WorkPlan, error)
	InsertWorkPlan(plan *domain.WorkPlan) error
	UpdateWorkPlan(plan *domain.WorkPlan) error
}

// SaveShiftTasks 替换某一天工作计划中单个班次类型的任务列表并写回整条记录。
// 当天还没有工作计划时按空计划创建，其余字段保持不变。
// 写冲突时重放一次，第二次冲突返回 ErrConflict。
func SaveShiftTasks(store WorkPlanStore, date time.Time, shiftType string, tasks []string) (*domain.WorkPlan, error) {
	plan, err := saveShiftTasksOnce(store, date, shiftType, tasks)
	if errors.Is(err, ErrConflict) {
		return saveShiftTasksOnce(store, date, shiftType, tasks)
	}
	return plan, err
}

func saveShiftTasksOnce(store WorkPlanStore, date time.Time, shiftType string, tasks []string) (*domain.WorkPlan, error) {
	plan, err := store.GetWorkPlanByDate(date)
	switch {
	case errors.Is(err, ErrNotFound):
		plan = &domain.WorkPlan{Date: date}
		ApplyShiftTasks(plan, shiftType, tasks)
		if err := store.InsertWorkPlan(plan); err != nil {
			return nil, err
		}
		return plan, nil
	case err != nil:
		return nil, err
	}

	ApplyShiftTasks(plan, shiftType, tasks)
	if err := store.UpdateWorkPlan(plan); err != nil {
		return nil, err
	}
	return plan, nil
}
