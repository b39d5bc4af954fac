package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

func (r *Repository) GetAllEmployees() ([]*domain.Employee, error) {
	query := `
		SELECT id, name, role, category, phone, email, is_active, created_at, updated_at
		FROM employees
		WHERE is_active = true
		ORDER BY name
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees := make([]*domain.Employee, 0)
	for rows.Next() {
		employee := &domain.Employee{}
		dst := []any{&employee.ID, &employee.Name, &employee.Role, &employee.Category, &employee.Phone, &employee.Email, &employee.IsActive, &employee.CreatedAt, &employee.UpdatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		employees = append(employees, employee)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return employees, nil
}

func (r *Repository) GetEmployeeByID(id int64) (*domain.Employee, error) {
	query := `
		SELECT name, role, category, phone, email, is_active, created_at, updated_at
		FROM employees WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	employee := &domain.Employee{
		ID: id,
	}

	dst := []any{&employee.Name, &employee.Role, &employee.Category, &employee.Phone, &employee.Email, &employee.IsActive, &employee.CreatedAt, &employee.UpdatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return employee, nil
}

func (r *Repository) CreateEmployee(employee *domain.Employee) error {
	query := `
		INSERT INTO employees (name, role, category, phone, email)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_active, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{employee.Name, employee.Role, employee.Category, employee.Phone, employee.Email}
	dst := []any{&employee.ID, &employee.IsActive, &employee.CreatedAt, &employee.UpdatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateEmployee(employee *domain.Employee) error {
	query := `
		UPDATE employees
		SET
			name = $1,
			role = $2,
			category = $3,
			phone = $4,
			email = $5,
			is_active = $6,
			updated_at = NOW()
		WHERE id = $7
		RETURNING created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{employee.Name, employee.Role, employee.Category, employee.Phone, employee.Email, employee.IsActive, employee.ID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&employee.CreatedAt, &employee.UpdatedAt); err != nil {
		return err
	}

	return nil
}

// DeactivateEmployee 软删除：员工可能被历史班次引用，所以只停用不删行
func (r *Repository) DeactivateEmployee(id int64) error {
	query := `
		UPDATE employees SET is_active = false, updated_at = NOW() WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
