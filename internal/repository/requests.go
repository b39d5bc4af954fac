package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

func (r *Repository) GetAllRequests() ([]*domain.Request, error) {
	query := `
		SELECT r.id, r.employee_id, e.name, r.request_type, r.description, r.status, r.requested_date, r.approved_by, r.created_at, r.updated_at
		FROM requests r
		JOIN employees e ON r.employee_id = e.id
		ORDER BY r.created_at DESC
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	requests := make([]*domain.Request, 0)
	for rows.Next() {
		request := &domain.Request{}
		dst := []any{&request.ID, &request.EmployeeID, &request.EmployeeName, &request.RequestType, &request.Description, &request.Status, &request.RequestedDate, &request.ApprovedBy, &request.CreatedAt, &request.UpdatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		requests = append(requests, request)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *Repository) GetRequestByID(id int64) (*domain.Request, error) {
	query := `
		SELECT r.employee_id, e.name, r.request_type, r.description, r.status, r.requested_date, r.approved_by, r.created_at, r.updated_at
		FROM requests r
		JOIN employees e ON r.employee_id = e.id
		WHERE r.id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	request := &domain.Request{
		ID: id,
	}

	dst := []any{&request.EmployeeID, &request.EmployeeName, &request.RequestType, &request.Description, &request.Status, &request.RequestedDate, &request.ApprovedBy, &request.CreatedAt, &request.UpdatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return request, nil
}

func (r *Repository) CreateRequest(request *domain.Request) error {
	query := `
		INSERT INTO requests (employee_id, request_type, description, requested_date, status)
		VALUES ($1, $2, $3, $4, 'pending')
		RETURNING id, status, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{request.EmployeeID, request.RequestType, request.Description, request.RequestedDate}
	dst := []any{&request.ID, &request.Status, &request.CreatedAt, &request.UpdatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

// DecideRequest 把一条待处理的请求置为 approved 或 rejected。
// WHERE status = 'pending' 保证状态只能单向流转：
// 请求不存在或已被处理时返回 sql.ErrNoRows，由调用方区分这两种情况
func (r *Repository) DecideRequest(request *domain.Request, status domain.RequestStatus, approvedBy int64) error {
	query := `
		UPDATE requests
		SET status = $1, approved_by = $2, updated_at = NOW()
		WHERE id = $3 AND status = 'pending'
		RETURNING status, approved_by, updated_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{status, approvedBy, request.ID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&request.Status, &request.ApprovedBy, &request.UpdatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteRequest(id int64) error {
	query := `
		DELETE FROM requests WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
