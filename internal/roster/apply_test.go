package roster

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

// fakeShiftStore 在内存中模拟条件写入的语义：
// InsertShift 在键已存在时返回 ErrConflict，
// UpdateShiftAssignments 在版本不匹配时返回 ErrConflict。
type fakeShiftStore struct {
	mu     sync.Mutex
	shifts map[domain.ShiftKey]*domain.Shift

	// failUpdates 大于 0 时，接下来的 UpdateShiftAssignments 会制造版本冲突
	failUpdates int
}

func newFakeShiftStore() *fakeShiftStore {
	return &fakeShiftStore{shifts: make(map[domain.ShiftKey]*domain.Shift)}
}

func (s *fakeShiftStore) GetShiftByKey(key domain.ShiftKey) (*domain.Shift, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	shift, ok := s.shifts[key]
	if !ok {
		return nil, ErrNotFound
	}

	copied := *shift
	copied.Assignments = append([]domain.Assignment{}, shift.Assignments...)
	return &copied, nil
}

func (s *fakeShiftStore) InsertShift(shift *domain.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := shift.Key()
	if _, ok := s.shifts[key]; ok {
		return ErrConflict
	}

	shift.Version = 1
	copied := *shift
	copied.Assignments = append([]domain.Assignment{}, shift.Assignments...)
	s.shifts[key] = &copied
	return nil
}

func (s *fakeShiftStore) UpdateShiftAssignments(shift *domain.Shift) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := shift.Key()
	current, ok := s.shifts[key]
	if !ok {
		return ErrConflict
	}

	if s.failUpdates > 0 {
		s.failUpdates--
		return ErrConflict
	}
	if current.Version != shift.Version {
		return ErrConflict
	}

	shift.Version++
	copied := *shift
	copied.Assignments = append([]domain.Assignment{}, shift.Assignments...)
	s.shifts[key] = &copied
	return nil
}

func testKey() domain.ShiftKey {
	return domain.ShiftKey{
		Date:      time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		ShiftType: domain.ShiftTypeMorning,
	}
}

func TestAssignEmployeeCreatesMissingShift(t *testing.T) {
	store := newFakeShiftStore()

	shift, err := AssignEmployee(store, testKey(), domain.Assignment{EmployeeID: 1})
	require.NoError(t, err)
	require.Len(t, shift.Assignments, 1)
	require.Equal(t, int64(1), shift.Assignments[0].EmployeeID)
}

func TestAssignEmployeeMergesIntoExistingShift(t *testing.T) {
	store := newFakeShiftStore()

	_, err := AssignEmployee(store, testKey(), domain.Assignment{EmployeeID: 1})
	require.NoError(t, err)

	shift, err := AssignEmployee(store, testKey(), domain.Assignment{EmployeeID: 2})
	require.NoError(t, err)
	require.Len(t, shift.Assignments, 2)
}

func TestAssignEmployeeRetriesOnceOnConflict(t *testing.T) {
	store := newFakeShiftStore()
	_, err := AssignEmployee(store, testKey(), domain.Assignment{EmployeeID: 1})
	require.NoError(t, err)

	// 第一次写回冲突，重放一次后成功
	store.failUpdates = 1
	shift, err := AssignEmployee(store, testKey(), domain.Assignment{EmployeeID: 2})
	require.NoError(t, err)
	require.Len(t, shift.Assignments, 2)
}

func TestAssignEmployeeSurfacesSecondConflict(t *testing.T) {
	store := newFakeShiftStore()
	_, err := AssignEmployee(store, testKey(), domain.Assignment{EmployeeID: 1})
	require.NoError(t, err)

	// 连续两次冲突时不再重试，把冲突抛给调用方
	store.failUpdates = 2
	_, err = AssignEmployee(store, testKey(), domain.Assignment{EmployeeID: 2})
	require.ErrorIs(t, err, ErrConflict)
}

func TestConcurrentAssignsBothSurvive(t *testing.T) {
	store := newFakeShiftStore()
	_, err := AssignEmployee(store, testKey(), domain.Assignment{EmployeeID: 1})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 2)
	for _, employeeID := range []int64{7, 9} {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			_, err := AssignEmployee(store, testKey(), domain.Assignment{EmployeeID: id})
			errs <- err
		}(employeeID)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	shift, err := store.GetShiftByKey(testKey())
	require.NoError(t, err)
	require.Len(t, shift.Assignments, 3)

	seen := make(map[int64]bool)
	for _, asg := range shift.Assignments {
		seen[asg.EmployeeID] = true
	}
	require.True(t, seen[7])
	require.True(t, seen[9])
}

func TestUnassignEmployee(t *testing.T) {
	store := newFakeShiftStore()
	_, err := AssignEmployee(store, testKey(), domain.Assignment{EmployeeID: 1})
	require.NoError(t, err)
	_, err = AssignEmployee(store, testKey(), domain.Assignment{EmployeeID: 2})
	require.NoError(t, err)

	shift, err := UnassignEmployee(store, testKey(), 1)
	require.NoError(t, err)
	require.Len(t, shift.Assignments, 1)
	require.Equal(t, int64(2), shift.Assignments[0].EmployeeID)
}

func TestUnassignEmployeeMissingShift(t *testing.T) {
	store := newFakeShiftStore()

	_, err := UnassignEmployee(store, testKey(), 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUnassignEmployeeMissingEmployeeIsNoop(t *testing.T) {
	store := newFakeShiftStore()
	_, err := AssignEmployee(store, testKey(), domain.Assignment{EmployeeID: 1})
	require.NoError(t, err)

	shift, err := UnassignEmployee(store, testKey(), 99)
	require.NoError(t, err)
	require.Len(t, shift.Assignments, 1)
}

// fakeWorkPlanStore 的条件语义和 fakeShiftStore 相同
type fakeWorkPlanStore struct {
	mu    sync.Mutex
	plans map[time.Time]*domain.WorkPlan

	failUpdates int
}

func newFakeWorkPlanStore() *fakeWorkPlanStore {
	return &fakeWorkPlanStore{plans: make(map[time.Time]*domain.WorkPlan)}
}

func (s *fakeWorkPlanStore) GetWorkPlanByDate(date time.Time) (*domain.WorkPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	plan, ok := s.plans[date]
	if !ok {
		return nil, ErrNotFound
	}

	copied := *plan
	copied.GeneralTasks = append([]string{}, plan.GeneralTasks...)
	copied.ShiftTasks = make(map[string][]string, len(plan.ShiftTasks))
	for k, v := range plan.ShiftTasks {
		copied.ShiftTasks[k] = append([]string{}, v...)
	}
	return &copied, nil
}

func (s *fakeWorkPlanStore) InsertWorkPlan(plan *domain.WorkPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.plans[plan.Date]; ok {
		return ErrConflict
	}

	plan.Version = 1
	copied := *plan
	s.plans[plan.Date] = &copied
	return nil
}

func (s *fakeWorkPlanStore) UpdateWorkPlan(plan *domain.WorkPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.plans[plan.Date]
	if !ok {
		return ErrConflict
	}

	if s.failUpdates > 0 {
		s.failUpdates--
		return ErrConflict
	}
	if current.Version != plan.Version {
		return ErrConflict
	}

	plan.Version++
	copied := *plan
	s.plans[plan.Date] = &copied
	return nil
}

func TestSaveShiftTasksCreatesMissingPlan(t *testing.T) {
	store := newFakeWorkPlanStore()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	plan, err := SaveShiftTasks(store, date, domain.ShiftTypeMorning, []string{"门岗执勤"})
	require.NoError(t, err)
	require.Equal(t, []string{"门岗执勤"}, plan.ShiftTasks[domain.ShiftTypeMorning])
	require.NotNil(t, plan.GeneralTasks)
}

func TestSaveShiftTasksPreservesOtherShiftTypes(t *testing.T) {
	store := newFakeWorkPlanStore()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	_, err := SaveShiftTasks(store, date, domain.ShiftTypeMorning, []string{"门岗执勤"})
	require.NoError(t, err)

	plan, err := SaveShiftTasks(store, date, domain.ShiftTypeAfternoon, []string{"辖区巡逻"})
	require.NoError(t, err)
	require.Equal(t, []string{"门岗执勤"}, plan.ShiftTasks[domain.ShiftTypeMorning])
	require.Equal(t, []string{"辖区巡逻"}, plan.ShiftTasks[domain.ShiftTypeAfternoon])
}

func TestSaveShiftTasksRetriesOnceOnConflict(t *testing.T) {
	store := newFakeWorkPlanStore()
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	_, err := SaveShiftTasks(store, date, domain.ShiftTypeMorning, []string{"门岗执勤"})
	require.NoError(t, err)

	store.failUpdates = 1
	plan, err := SaveShiftTasks(store, date, domain.ShiftTypeEvening, []string{"视频巡查"})
	require.NoError(t, err)
	require.Equal(t, []string{"视频巡查"}, plan.ShiftTasks[domain.ShiftTypeEvening])

	store.failUpdates = 2
	_, err = SaveShiftTasks(store, date, domain.ShiftTypeEvening, []string{"内勤值守"})
	require.ErrorIs(t, err, ErrConflict)
}
