package handler

import (
	"errors"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

func (h *Handler) GetMyInfo(w http.ResponseWriter, r *http.Request) {
	actor := h.actorFromContext(r)
	if actor == nil {
		h.internalServerError(w, r, errors.New("无法从请求上下文中获取操作者信息"))
		return
	}

	h.successResponse(w, r, "获取个人信息成功", actor)
}

func (h *Handler) UpdateMyPassword(w http.ResponseWriter, r *http.Request) {
	actor := h.actorFromContext(r)
	if actor == nil {
		h.internalServerError(w, r, errors.New("无法从请求上下文中获取操作者信息"))
		return
	}

	req := struct {
		OldPassword string `json:"oldPassword" validate:"required"`
		NewPassword string `json:"newPassword" validate:"required,min=8"`
	}{}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(actor.PasswordHash), []byte(req.OldPassword)); err != nil {
		h.badRequest(w, r, errors.New("旧密码错误"))
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	actor.PasswordHash = string(passwordHash)
	if err := h.repository.UpdateUser(actor); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "密码修改成功", nil)
}
