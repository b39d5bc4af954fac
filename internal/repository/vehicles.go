package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

func (r *Repository) GetAllVehicles() ([]*domain.Vehicle, error) {
	query := `
		SELECT id, license_plate, vehicle_type, model, year, status, last_inspection, next_inspection, notes, created_at, updated_at
		FROM vehicles
		ORDER BY license_plate
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := make([]*domain.Vehicle, 0)
	for rows.Next() {
		vehicle := &domain.Vehicle{}
		dst := []any{&vehicle.ID, &vehicle.LicensePlate, &vehicle.VehicleType, &vehicle.Model, &vehicle.Year, &vehicle.Status, &vehicle.LastInspection, &vehicle.NextInspection, &vehicle.Notes, &vehicle.CreatedAt, &vehicle.UpdatedAt}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, vehicle)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return vehicles, nil
}

func (r *Repository) GetVehicleByID(id int64) (*domain.Vehicle, error) {
	query := `
		SELECT license_plate, vehicle_type, model, year, status, last_inspection, next_inspection, notes, created_at, updated_at
		FROM vehicles WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	vehicle := &domain.Vehicle{
		ID: id,
	}

	dst := []any{&vehicle.LicensePlate, &vehicle.VehicleType, &vehicle.Model, &vehicle.Year, &vehicle.Status, &vehicle.LastInspection, &vehicle.NextInspection, &vehicle.Notes, &vehicle.CreatedAt, &vehicle.UpdatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return vehicle, nil
}

func (r *Repository) CreateVehicle(vehicle *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (license_plate, vehicle_type, model, year, status, last_inspection, next_inspection, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{vehicle.LicensePlate, vehicle.VehicleType, vehicle.Model, vehicle.Year, vehicle.Status, vehicle.LastInspection, vehicle.NextInspection, vehicle.Notes}
	dst := []any{&vehicle.ID, &vehicle.CreatedAt, &vehicle.UpdatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(dst...); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateVehicle(vehicle *domain.Vehicle) error {
	query := `
		UPDATE vehicles
		SET
			license_plate = $1,
			vehicle_type = $2,
			model = $3,
			year = $4,
			status = $5,
			last_inspection = $6,
			next_inspection = $7,
			notes = $8,
			updated_at = NOW()
		WHERE id = $9
		RETURNING created_at, updated_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	args := []any{vehicle.LicensePlate, vehicle.VehicleType, vehicle.Model, vehicle.Year, vehicle.Status, vehicle.LastInspection, vehicle.NextInspection, vehicle.Notes, vehicle.ID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&vehicle.CreatedAt, &vehicle.UpdatedAt); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteVehicle(id int64) error {
	query := `
		DELETE FROM vehicles WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	if _, err := r.dbpool.ExecContext(ctx, query, id); err != nil {
		return err
	}

	return nil
}
