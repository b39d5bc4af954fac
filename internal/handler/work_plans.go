package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/roster"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/utils"
)

// GetWorkPlan 读取某一天的工作计划，不存在时返回 data 为 null 的成功响应
func (h *Handler) GetWorkPlan(w http.ResponseWriter, r *http.Request) {
	date, err := utils.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.badRequest(w, r, errors.New("日期格式不合法，应为 YYYY-MM-DD"))
		return
	}

	plan, err := h.repository.GetWorkPlanByDate(date)
	if err != nil {
		switch {
		case errors.Is(err, roster.ErrNotFound):
			h.successResponse(w, r, "获取工作计划成功", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取工作计划成功", plan)
}

// GetWeekWorkPlans 返回从指定日期起 7 天内的所有工作计划
func (h *Handler) GetWeekWorkPlans(w http.ResponseWriter, r *http.Request) {
	start, err := utils.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.badRequest(w, r, errors.New("日期格式不合法，应为 YYYY-MM-DD"))
		return
	}

	plans, err := h.repository.GetWorkPlansBetween(start, start.AddDate(0, 0, 6))
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取周工作计划成功", plans)
}

// SaveWorkPlan 整表保存某一天的工作计划，不存在则创建
func (h *Handler) SaveWorkPlan(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Date         string              `json:"date" validate:"required"`
		GeneralTasks []string            `json:"generalTasks"`
		ShiftTasks   map[string][]string `json:"shiftTasks"`
		Notes        *string             `json:"notes"`
		StartTime    *string             `json:"startTime"`
		EndTime      *string             `json:"endTime"`
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

	for shiftType := range req.ShiftTasks {
		if !roster.IsValidShiftTaskType(shiftType) {
			h.badRequest(w, r, errors.New("班次类型只能是 morning、afternoon 或 evening"))
			return
		}
	}

	plan := &domain.WorkPlan{
		Date:         date,
		GeneralTasks: req.GeneralTasks,
		ShiftTasks:   req.ShiftTasks,
		Notes:        req.Notes,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
	}

	if err := h.repository.UpsertWorkPlan(plan); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "保存工作计划成功", plan)
}

// SaveShiftTasks 只替换工作计划中单个班次类型的任务列表，
// 通用任务和其他班次类型的任务不受影响
func (h *Handler) SaveShiftTasks(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Date      string   `json:"date" validate:"required"`
		ShiftType string   `json:"shiftType" validate:"required,oneof=morning afternoon evening"`
		Tasks     []string `json:"tasks"`
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

	plan, err := roster.SaveShiftTasks(h.repository, date, req.ShiftType, req.Tasks)
	if err != nil {
		switch {
		case errors.Is(err, roster.ErrConflict):
			h.conflict(w, r, "工作计划正在被其他人编辑，请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "保存班次任务成功", plan)
}

func (h *Handler) DeleteWorkPlan(w http.ResponseWriter, r *http.Request) {
	date, err := utils.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.badRequest(w, r, errors.New("日期格式不合法，应为 YYYY-MM-DD"))
		return
	}

	if _, err := h.repository.DeleteWorkPlan(date); err != nil {
		switch {
		case errors.Is(err, roster.ErrNotFound):
			h.notFound(w, r, "工作计划不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除工作计划成功", nil)
}
