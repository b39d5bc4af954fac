package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/roster"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/utils"
)

// GetWeekSchedule 返回从指定日期起 7 天内的所有班次
func (h *Handler) GetWeekSchedule(w http.ResponseWriter, r *http.Request) {
	start, err := utils.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.badRequest(w, r, errors.New("日期格式不合法，应为 YYYY-MM-DD"))
		return
	}

	shifts, err := h.repository.GetShiftsBetween(start, start.AddDate(0, 0, 6))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取周排班成功", shifts)
}

// GetShift 读取单个班次，不存在时返回 data 为 null 的成功响应，
// 前端把空班次和不存在的班次同等对待
func (h *Handler) GetShift(w http.ResponseWriter, r *http.Request) {
	date, err := utils.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.badRequest(w, r, errors.New("日期格式不合法，应为 YYYY-MM-DD"))
		return
	}
	shiftType := chi.URLParam(r, "shiftType")

	shift, err := h.repository.GetShiftByKey(domain.ShiftKey{Date: date, ShiftType: shiftType})
	if err != nil {
		switch {
		case errors.Is(err, roster.ErrNotFound):
			h.successResponse(w, r, "获取班次成功", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取班次成功", shift)
}

// SaveShift 整表保存一个班次的排班列表，不存在则创建
func (h *Handler) SaveShift(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Date        string              `json:"date" validate:"required"`
		ShiftType   string              `json:"shiftType" validate:"required"`
		Assignments []domain.Assignment `json:"assignments"`
	}{}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		h.badRequest(w, r, errors.New("日期格式不合法，应为 YYYY-MM-DD"))
		return
	}

	shift := &domain.Shift{
		Date:        date,
		ShiftType:   req.ShiftType,
		Assignments: roster.NormalizeAssignments(req.Assignments),
	}

	if err := h.repository.UpsertShift(shift); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "保存班次成功", shift)
}

// AssignEmployee 把单个员工并入班次的排班列表，
// 同一员工已有的排班记录会被替换而不是重复追加
func (h *Handler) AssignEmployee(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Date       string   `json:"date" validate:"required"`
		ShiftType  string   `json:"shiftType" validate:"required"`
		EmployeeID int64    `json:"employeeId" validate:"required"`
		Status     *string  `json:"status"`
		Note       *string  `json:"note"`
		Tasks      []string `json:"tasks"`
	}{}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		h.badRequest(w, r, errors.New("日期格式不合法，应为 YYYY-MM-DD"))
		return
	}

	asg := domain.Assignment{
		EmployeeID: req.EmployeeID,
		Status:     req.Status,
		Note:       req.Note,
		Tasks:      req.Tasks,
	}

	shift, err := roster.AssignEmployee(h.repository, domain.ShiftKey{Date: date, ShiftType: req.ShiftType}, asg)
	if err != nil {
		switch {
		case errors.Is(err, roster.ErrConflict):
			h.conflict(w, r, "班次正在被其他人编辑，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "排班成功", shift)
}

func (h *Handler) UnassignEmployee(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Date       string `json:"date" validate:"required"`
		ShiftType  string `json:"shiftType" validate:"required"`
		EmployeeID int64  `json:"employeeId" validate:"required"`
	}{}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		h.badRequest(w, r, errors.New("日期格式不合法，应为 YYYY-MM-DD"))
		return
	}

	shift, err := roster.UnassignEmployee(h.repository, domain.ShiftKey{Date: date, ShiftType: req.ShiftType}, req.EmployeeID)
	if err != nil {
		switch {
		case errors.Is(err, roster.ErrNotFound):
			h.notFound(w, r, "班次不存在")
		case errors.Is(err, roster.ErrConflict):
			h.conflict(w, r, "班次正在被其他人编辑，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "取消排班成功", shift)
}
