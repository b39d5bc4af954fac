package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

func (h *Handler) GetAllVehicles(w http.ResponseWriter, r *http.Request) {
	vehicles, err := h.repository.GetAllVehicles()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有车辆成功", vehicles)
}

func (h *Handler) GetVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle, ok := r.Context().Value(VehicleCtx).(*domain.Vehicle)
	if !ok {
		h.internalServerError(w, r, errors.New("无法从请求上下文中获取车辆信息"))
		return
	}

	h.successResponse(w, r, "获取车辆信息成功", vehicle)
}

func (h *Handler) CreateVehicle(w http.ResponseWriter, r *http.Request) {
	req := struct {
		LicensePlate   string     `json:"licensePlate" validate:"required"`
		VehicleType    string     `json:"vehicleType" validate:"required"`
		Model          string     `json:"model" validate:"omitempty"`
		Year           *int32     `json:"year" validate:"omitempty,gte=1980"`
		Status         string     `json:"status" validate:"required,oneof=available in_use maintenance out_of_service"`
		LastInspection *time.Time `json:"lastInspection" validate:"omitempty"`
		NextInspection *time.Time `json:"nextInspection" validate:"omitempty"`
		Notes          *string    `json:"notes" validate:"omitempty"`
	}{}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	vehicle := &domain.Vehicle{
		LicensePlate:   req.LicensePlate,
		VehicleType:    req.VehicleType,
		Model:          req.Model,
		Year:           req.Year,
		Status:         req.Status,
		LastInspection: req.LastInspection,
		NextInspection: req.NextInspection,
		Notes:          req.Notes,
	}

	if err := h.repository.CreateVehicle(vehicle); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "vehicles_license_plate_key" {
			h.badRequest(w, r, errors.New("车牌号已存在"))
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建车辆成功", vehicle)
}

func (h *Handler) UpdateVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle, ok := r.Context().Value(VehicleCtx).(*domain.Vehicle)
	if !ok {
		h.internalServerError(w, r, errors.New("无法从请求上下文中获取车辆信息"))
		return
	}

	req := struct {
		LicensePlate   string     `json:"licensePlate" validate:"required"`
		VehicleType    string     `json:"vehicleType" validate:"required"`
		Model          string     `json:"model" validate:"omitempty"`
		Year           *int32     `json:"year" validate:"omitempty,gte=1980"`
		Status         string     `json:"status" validate:"required,oneof=available in_use maintenance out_of_service"`
		LastInspection *time.Time `json:"lastInspection" validate:"omitempty"`
		NextInspection *time.Time `json:"nextInspection" validate:"omitempty"`
		Notes          *string    `json:"notes" validate:"omitempty"`
	}{}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	vehicle.LicensePlate = req.LicensePlate
	vehicle.VehicleType = req.VehicleType
	vehicle.Model = req.Model
	vehicle.Year = req.Year
	vehicle.Status = req.Status
	vehicle.LastInspection = req.LastInspection
	vehicle.NextInspection = req.NextInspection
	vehicle.Notes = req.Notes

	if err := h.repository.UpdateVehicle(vehicle); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "vehicles_license_plate_key" {
			h.badRequest(w, r, errors.New("车牌号已存在"))
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新车辆信息成功", vehicle)
}

func (h *Handler) DeleteVehicle(w http.ResponseWriter, r *http.Request) {
	vehicle, ok := r.Context().Value(VehicleCtx).(*domain.Vehicle)
	if !ok {
		h.internalServerError(w, r, errors.New("无法从请求上下文中获取车辆信息"))
		return
	}

	if err := h.repository.DeleteVehicle(vehicle.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除车辆成功", nil)
}
