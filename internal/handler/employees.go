package handler

import (
	"errors"
	"net/http"

	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

func (h *Handler) GetAllEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.repository.GetAllEmployees()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有员工成功", employees)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	employee, ok := r.Context().Value(EmployeeCtx).(*domain.Employee)
	if !ok {
		h.internalServerError(w, r, errors.New("无法从请求上下文中获取员工信息"))
		return
	}

	h.successResponse(w, r, "获取员工信息成功", employee)
}

func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Name     string `json:"name" validate:"required"`
		Role     string `json:"role" validate:"required"`
		Category string `json:"category" validate:"required"`
		Phone    string `json:"phone" validate:"omitempty"`
		Email    string `json:"email" validate:"omitempty,email"`
	}{}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee := &domain.Employee{
		Name:     req.Name,
		Role:     req.Role,
		Category: req.Category,
		Phone:    req.Phone,
		Email:    req.Email,
	}

	if err := h.repository.CreateEmployee(employee); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建员工成功", employee)
}

func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	employee, ok := r.Context().Value(EmployeeCtx).(*domain.Employee)
	if !ok {
		h.internalServerError(w, r, errors.New("无法从请求上下文中获取员工信息"))
		return
	}

	req := struct {
		Name     string `json:"name" validate:"required"`
		Role     string `json:"role" validate:"required"`
		Category string `json:"category" validate:"required"`
		Phone    string `json:"phone" validate:"omitempty"`
		Email    string `json:"email" validate:"omitempty,email"`
		IsActive *bool  `json:"isActive" validate:"omitempty"`
	}{}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	employee.Name = req.Name
	employee.Role = req.Role
	employee.Category = req.Category
	employee.Phone = req.Phone
	employee.Email = req.Email
	if req.IsActive != nil {
		employee.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateEmployee(employee); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新员工信息成功", employee)
}

// DeleteEmployee 实际上只是停用员工，历史班次中的引用需要保留
func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	employee, ok := r.Context().Value(EmployeeCtx).(*domain.Employee)
	if !ok {
		h.internalServerError(w, r, errors.New("无法从请求上下文中获取员工信息"))
		return
	}

	if err := h.repository.DeactivateEmployee(employee.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除员工成功", nil)
}
