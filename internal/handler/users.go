package handler

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/utils"
)

func (h *Handler) GetAllUserInfo(w http.ResponseWriter, r *http.Request) {
	users, err := h.repository.GetAllUsers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有用户信息成功", users)
}

func (h *Handler) GetUserInfo(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserInfoCtx).(*domain.User)
	if !ok {
		h.internalServerError(w, r, errors.New("无法从请求上下文中获取用户信息"))
		return
	}

	h.successResponse(w, r, "获取用户信息成功", user)
}

// CreateUser 创建用户并生成随机初始密码，密码通过邮件告知用户本人
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Username string      `json:"username" validate:"required,min=3,max=50"`
		FullName string      `json:"fullName" validate:"required"`
		Email    string      `json:"email" validate:"required,email"`
		Role     domain.Role `json:"role" validate:"required,oneof=admin manager user"`
	}{}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	password, err := utils.GenerateRandomPassword(h.config.NewUser.PasswordLength)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	permissions := domain.DefaultViewPermissions
	if req.Role == domain.RoleAdmin {
		permissions = domain.AllPermissions
	}

	user := &domain.User{
		Username:     req.Username,
		PasswordHash: string(passwordHash),
		FullName:     req.FullName,
		Email:        req.Email,
		Role:         req.Role,
		Permissions:  permissions,
	}

	if err := h.repository.CreateUser(user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.ConstraintName {
			case "users_username_key":
				h.badRequest(w, r, errors.New("用户名已存在"))
			case "users_email_key":
				h.badRequest(w, r, errors.New("邮箱已被使用"))
			default:
				h.internalServerError(w, r, err)
			}
		} else {
			h.internalServerError(w, r, err)
		}
		return
	}

	msg := domain.MailMessage{
		Type: "create_user",
		To:   user.Email,
		Data: domain.CreateUserMailData{
			FullName: user.FullName,
			Username: user.Username,
			Password: password,
		},
	}
	if err := h.publishMail(msg); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "创建用户成功", user)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserInfoCtx).(*domain.User)
	if !ok {
		h.internalServerError(w, r, errors.New("无法从请求上下文中获取用户信息"))
		return
	}

	req := struct {
		FullName    *string             `json:"fullName" validate:"omitempty"`
		Email       *string             `json:"email" validate:"omitempty,email"`
		Role        *domain.Role        `json:"role" validate:"omitempty,oneof=admin manager user"`
		Permissions []domain.Permission `json:"permissions" validate:"omitempty"`
		IsActive    *bool               `json:"isActive" validate:"omitempty"`
	}{}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Permissions != nil {
		for _, p := range req.Permissions {
			if !domain.IsValidPermission(p) {
				h.badRequest(w, r, errors.New("存在未知的权限"))
				return
			}
		}
		user.Permissions = req.Permissions
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateUser(user); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.ConstraintName == "users_email_key" {
			h.badRequest(w, r, errors.New("邮箱已被使用"))
			return
		}
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "更新用户信息成功", user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := h.actorFromContext(r)
	user, ok := r.Context().Value(UserInfoCtx).(*domain.User)
	if !ok {
		h.internalServerError(w, r, errors.New("无法从请求上下文中获取用户信息"))
		return
	}

	// 不允许删除自己，避免最后一个管理员把自己删掉
	if actor != nil && actor.ID == user.ID {
		h.badRequest(w, r, errors.New("不能删除自己"))
		return
	}

	if err := h.repository.DeleteUser(user.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除用户成功", nil)
}

func (h *Handler) UpdateUserPassword(w http.ResponseWriter, r *http.Request) {
	user, ok := r.Context().Value(UserInfoCtx).(*domain.User)
	if !ok {
		h.internalServerError(w, r, errors.New("无法从请求上下文中获取用户信息"))
		return
	}

	req := struct {
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

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	user.PasswordHash = string(passwordHash)
	if err := h.repository.UpdateUser(user); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "修改用户密码成功", nil)
}
