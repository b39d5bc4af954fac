package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/roster"
)

func scanWorkPlanJSON(plan *domain.WorkPlan, generalTasks []byte, shiftTasks []byte) error {
	if err := json.Unmarshal(generalTasks, &plan.GeneralTasks); err != nil {
		return err
	}
	return json.Unmarshal(shiftTasks, &plan.ShiftTasks)
}

// GetWorkPlanByDate 按日期读取工作计划，不存在时返回 roster.ErrNotFound
func (r *Repository) GetWorkPlanByDate(date time.Time) (*domain.WorkPlan, error) {
	query := `
		SELECT id, general_tasks, shift_tasks, notes, start_time, end_time, created_at, updated_at, version
		FROM work_plans WHERE date = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	plan := &domain.WorkPlan{
		Date: date,
	}

	var generalTasks, shiftTasks []byte
	dst := []any{&plan.ID, &generalTasks, &shiftTasks, &plan.Notes, &plan.StartTime, &plan.EndTime, &plan.CreatedAt, &plan.UpdatedAt, &plan.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, date).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.ErrNotFound
		}
		return nil, err
	}

	if err := scanWorkPlanJSON(plan, generalTasks, shiftTasks); err != nil {
		return nil, err
	}

	return plan, nil
}

// InsertWorkPlan 创建工作计划，日期已存在时返回 roster.ErrConflict
func (r *Repository) InsertWorkPlan(plan *domain.WorkPlan) error {
	query := `
		INSERT INTO work_plans (date, general_tasks, shift_tasks, notes, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (date) DO NOTHING
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	generalTasks, shiftTasks, err := marshalWorkPlanJSON(plan)
	if err != nil {
		return err
	}

	args := []any{plan.Date, generalTasks, shiftTasks, plan.Notes, plan.StartTime, plan.EndTime}
	dst := []any{&plan.ID, &plan.CreatedAt, &plan.UpdatedAt, &plan.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return roster.ErrConflict
		}
		return err
	}

	return nil
}

// UpdateWorkPlan 按版本号条件替换整条工作计划，
// 版本不匹配时返回 roster.ErrConflict
func (r *Repository) UpdateWorkPlan(plan *domain.WorkPlan) error {
	query := `
		UPDATE work_plans
		SET
			general_tasks = $1,
			shift_tasks = $2,
			notes = $3,
			start_time = $4,
			end_time = $5,
			updated_at = NOW(),
			version = version + 1
		WHERE date = $6 AND version = $7
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	generalTasks, shiftTasks, err := marshalWorkPlanJSON(plan)
	if err != nil {
		return err
	}

	args := []any{generalTasks, shiftTasks, plan.Notes, plan.StartTime, plan.EndTime, plan.Date, plan.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&plan.UpdatedAt, &plan.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return roster.ErrConflict
		}
		return err
	}

	return nil
}

// UpsertWorkPlan 无条件整表替换某一天的工作计划，不存在则创建
func (r *Repository) UpsertWorkPlan(plan *domain.WorkPlan) error {
	query := `
		INSERT INTO work_plans (date, general_tasks, shift_tasks, notes, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (date)
		DO UPDATE SET
			general_tasks = EXCLUDED.general_tasks,
			shift_tasks = EXCLUDED.shift_tasks,
			notes = EXCLUDED.notes,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			updated_at = NOW(),
			version = work_plans.version + 1
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	generalTasks, shiftTasks, err := marshalWorkPlanJSON(plan)
	if err != nil {
		return err
	}

	args := []any{plan.Date, generalTasks, shiftTasks, plan.Notes, plan.StartTime, plan.EndTime}
	dst := []any{&plan.ID, &plan.CreatedAt, &plan.UpdatedAt, &plan.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

// GetWorkPlansBetween 按日期区间读取工作计划，用于周视图
func (r *Repository) GetWorkPlansBetween(start time.Time, end time.Time) ([]*domain.WorkPlan, error) {
	query := `
		SELECT id, date, general_tasks, shift_tasks, notes, start_time, end_time, created_at, updated_at, version
		FROM work_plans
		WHERE date BETWEEN $1 AND $2
		ORDER BY date
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	plans := make([]*domain.WorkPlan, 0)
	for rows.Next() {
		plan := &domain.WorkPlan{}
		var generalTasks, shiftTasks []byte

		dst := []any{&plan.ID, &plan.Date, &generalTasks, &shiftTasks, &plan.Notes, &plan.StartTime, &plan.EndTime, &plan.CreatedAt, &plan.UpdatedAt, &plan.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if err := scanWorkPlanJSON(plan, generalTasks, shiftTasks); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return plans, nil
}

// DeleteWorkPlan 按日期删除工作计划，不存在时返回 roster.ErrNotFound
func (r *Repository) DeleteWorkPlan(date time.Time) (*domain.WorkPlan, error) {
	query := `
		DELETE FROM work_plans WHERE date = $1
		RETURNING id, general_tasks, shift_tasks, notes, start_time, end_time, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	plan := &domain.WorkPlan{
		Date: date,
	}

	var generalTasks, shiftTasks []byte
	dst := []any{&plan.ID, &generalTasks, &shiftTasks, &plan.Notes, &plan.StartTime, &plan.EndTime, &plan.CreatedAt, &plan.UpdatedAt, &plan.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, date).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.ErrNotFound
		}
		return nil, err
	}

	if err := scanWorkPlanJSON(plan, generalTasks, shiftTasks); err != nil {
		return nil, err
	}

	return plan, nil
}

func marshalWorkPlanJSON(plan *domain.WorkPlan) ([]byte, []byte, error) {
	if plan.GeneralTasks == nil {
		plan.GeneralTasks = []string{}
	}
	if plan.ShiftTasks == nil {
		plan.ShiftTasks = map[string][]string{}
	}

	generalTasks, err := json.Marshal(plan.GeneralTasks)
	if err != nil {
		return nil, nil, err
	}
	shiftTasks, err := json.Marshal(plan.ShiftTasks)
	if err != nil {
		return nil, nil, err
	}
	return generalTasks, shiftTasks, nil
}
