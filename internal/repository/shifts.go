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

// GetShiftByKey 按 (日期, 班次类型) 读取班次，不存在时返回 roster.ErrNotFound
func (r *Repository) GetShiftByKey(key domain.ShiftKey) (*domain.Shift, error) {
	query := `
		SELECT id, assignments, created_at, updated_at, version
		FROM shifts WHERE date = $1 AND shift_type = $2
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	shift := &domain.Shift{
		Date:      key.Date,
		ShiftType: key.ShiftType,
	}

	var assignments []byte
	dst := []any{&shift.ID, &assignments, &shift.CreatedAt, &shift.UpdatedAt, &shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, key.Date, key.ShiftType).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, roster.ErrNotFound
		}
		return nil, err
	}

	if err := json.Unmarshal(assignments, &shift.Assignments); err != nil {
		return nil, err
	}

	return shift, nil
}

// InsertShift 创建班次，键已存在时返回 roster.ErrConflict
func (r *Repository) InsertShift(shift *domain.Shift) error {
	query := `
		INSERT INTO shifts (date, shift_type, assignments)
		VALUES ($1, $2, $3)
		ON CONFLICT (date, shift_type) DO NOTHING
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	assignments, err := json.Marshal(shift.Assignments)
	if err != nil {
		return err
	}

	dst := []any{&shift.ID, &shift.CreatedAt, &shift.UpdatedAt, &shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, shift.Date, shift.ShiftType, assignments).Scan(dst...); err != nil {
		// ON CONFLICT DO NOTHING 在键已存在时不返回任何行
		if errors.Is(err, sql.ErrNoRows) {
			return roster.ErrConflict
		}
		return err
	}

	return nil
}

// UpdateShiftAssignments 按版本号条件替换排班列表，
// 版本不匹配（并发写入）时返回 roster.ErrConflict
func (r *Repository) UpdateShiftAssignments(shift *domain.Shift) error {
	query := `
		UPDATE shifts
		SET
			assignments = $1,
			updated_at = NOW(),
			version = version + 1
		WHERE date = $2 AND shift_type = $3 AND version = $4
		RETURNING updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	assignments, err := json.Marshal(shift.Assignments)
	if err != nil {
		return err
	}

	args := []any{assignments, shift.Date, shift.ShiftType, shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&shift.UpdatedAt, &shift.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return roster.ErrConflict
		}
		return err
	}

	return nil
}

// UpsertShift 无条件整表替换排班列表，不存在则创建，用于批量编辑班次
func (r *Repository) UpsertShift(shift *domain.Shift) error {
	query := `
		INSERT INTO shifts (date, shift_type, assignments)
		VALUES ($1, $2, $3)
		ON CONFLICT (date, shift_type)
		DO UPDATE SET
			assignments = EXCLUDED.assignments,
			updated_at = NOW(),
			version = shifts.version + 1
		RETURNING id, created_at, updated_at, version
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	assignments, err := json.Marshal(shift.Assignments)
	if err != nil {
		return err
	}

	dst := []any{&shift.ID, &shift.CreatedAt, &shift.UpdatedAt, &shift.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, shift.Date, shift.ShiftType, assignments).Scan(dst...); err != nil {
		return err
	}

	return nil
}

// GetShiftsBetween 按日期区间读取班次，用于周视图
func (r *Repository) GetShiftsBetween(start time.Time, end time.Time) ([]*domain.Shift, error) {
	query := `
		SELECT id, date, shift_type, assignments, created_at, updated_at, version
		FROM shifts
		WHERE date BETWEEN $1 AND $2
		ORDER BY date, shift_type
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	shifts := make([]*domain.Shift, 0)
	for rows.Next() {
		shift := &domain.Shift{}
		var assignments []byte

		dst := []any{&shift.ID, &shift.Date, &shift.ShiftType, &assignments, &shift.CreatedAt, &shift.UpdatedAt, &shift.Version}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(assignments, &shift.Assignments); err != nil {
			return nil, err
		}
		shifts = append(shifts, shift)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return shifts, nil
}
