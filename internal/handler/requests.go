package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/utils"
)

func (h *Handler) GetAllRequests(w http.ResponseWriter, r *http.Request) {
	requests, err := h.repository.GetAllRequests()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有请求成功", requests)
}

func (h *Handler) GetRequest(w http.ResponseWriter, r *http.Request) {
	request, ok := r.Context().Value(RequestCtx).(*domain.Request)
	if !ok {
		h.internalServerError(w, r, errors.New("无法从请求上下文中获取请求信息"))
		return
	}

	h.successResponse(w, r, "获取请求成功", request)
}

func (h *Handler) CreateRequest(w http.ResponseWriter, r *http.Request) {
	req := struct {
		EmployeeID    int64   `json:"employeeId" validate:"required"`
		RequestType   string  `json:"requestType" validate:"required"`
		Description   string  `json:"description" validate:"required"`
		RequestedDate *string `json:"requestedDate"`
	}{}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	var requestedDate *time.Time
	if req.RequestedDate != nil {
		date, err := utils.ParseDate(*req.RequestedDate)
		if err != nil {
			h.badRequest(w, r, errors.New("日期格式不合法，应为 YYYY-MM-DD"))
			return
		}
		requestedDate = &date
	}

	if _, err := h.repository.GetEmployeeByID(req.EmployeeID); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.badRequest(w, r, errors.New("员工不存在"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	request := &domain.Request{
		EmployeeID:    req.EmployeeID,
		RequestType:   req.RequestType,
		Description:   req.Description,
		RequestedDate: requestedDate,
	}

	if err := h.repository.CreateRequest(request); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "提交请求成功", request)
}

// decideRequest 把请求置为最终状态。
// 条件更新没有命中时重新读取请求：请求已不存在返回 404，
// 已被其他人处理过返回 409
func (h *Handler) decideRequest(w http.ResponseWriter, r *http.Request, status domain.RequestStatus) {
	actor := h.actorFromContext(r)
	if actor == nil {
		h.internalServerError(w, r, errors.New("无法从请求上下文中获取操作者信息"))
		return
	}

	request, ok := r.Context().Value(RequestCtx).(*domain.Request)
	if !ok {
		h.internalServerError(w, r, errors.New("无法从请求上下文中获取请求信息"))
		return
	}

	if err := h.repository.DecideRequest(request, status, actor.ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			if _, err := h.repository.GetRequestByID(request.ID); err != nil {
				switch {
				case errors.Is(err, sql.ErrNoRows):
					h.notFound(w, r, "请求不存在")
				default:
					h.internalServerError(w, r, err)
				}
				return
			}
			h.conflict(w, r, "请求已被处理")
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "处理请求成功", request)
}

func (h *Handler) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	h.decideRequest(w, r, domain.RequestStatusApproved)
}

func (h *Handler) RejectRequest(w http.ResponseWriter, r *http.Request) {
	h.decideRequest(w, r, domain.RequestStatusRejected)
}

func (h *Handler) DeleteRequest(w http.ResponseWriter, r *http.Request) {
	request, ok := r.Context().Value(RequestCtx).(*domain.Request)
	if !ok {
		h.internalServerError(w, r, errors.New("无法从请求上下文中获取请求信息"))
		return
	}

	if err := h.repository.DeleteRequest(request.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除请求成功", nil)
}
