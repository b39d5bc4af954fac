package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/authz"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

type wrappedWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *wrappedWriter) WriteHeader(statusCode int) {
	w.ResponseWriter.WriteHeader(statusCode)
	w.statusCode = statusCode
}

func (h *Handler) logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := &wrappedWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(ww, r)

		slog.Info("收到请求", "method", r.Method, "path", r.URL.Path, "status", ww.statusCode, "duration", time.Since(start))
	})
}

func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.internalServerError(w, r, fmt.Errorf("panic: %v", rec))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// auth 从 cookie 中解析 JWT 并加载操作者，被停用的账号视为未登录
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("__duty_manager_token")
		if err != nil {
			h.unauthenticated(w, r, "请先登录")
			return
		}

		claims := &jwt.RegisteredClaims{}
		token, err := jwt.ParseWithClaims(cookie.Value, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("非预期的签名方法: %v", t.Header["alg"])
			}
			return []byte(h.config.JWT.Secret), nil
		})
		if err != nil || !token.Valid {
			h.unauthenticated(w, r, "登录凭证无效或已过期")
			return
		}

		userID, err := strconv.ParseInt(claims.Subject, 10, 64)
		if err != nil {
			h.unauthenticated(w, r, "登录凭证无效或已过期")
			return
		}

		actor, err := h.repository.GetUserByID(userID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.unauthenticated(w, r, "登录凭证无效或已过期")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		if !actor.IsActive {
			h.unauthenticated(w, r, "账号已被停用")
			return
		}

		ctx := context.WithValue(r.Context(), ActorCtx, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) actorFromContext(r *http.Request) *domain.User {
	actor, ok := r.Context().Value(ActorCtx).(*domain.User)
	if !ok {
		return nil
	}
	return actor
}

func (h *Handler) writeDecision(w http.ResponseWriter, r *http.Request, decision authz.Decision) bool {
	if decision.Allowed {
		return true
	}

	switch decision.Reason {
	case authz.DenyUnauthenticated:
		h.unauthenticated(w, r, "请先登录")
	default:
		h.forbidden(w, r)
	}
	return false
}

func (h *Handler) RequiredRole(roles ...domain.Role) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := authz.Authorize(h.actorFromContext(r), authz.Roles(roles...))
			if !h.writeDecision(w, r, decision) {
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) RequiredPermission(p domain.Permission) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := authz.Authorize(h.actorFromContext(r), authz.Capability(p))
			if !h.writeDecision(w, r, decision) {
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (h *Handler) userInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			h.badRequest(w, r, errors.New("用户 id 不合法"))
			return
		}

		user, err := h.repository.GetUserByID(id)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "用户不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), UserInfoCtx, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// preventOperateInitialAdmin 初始管理员不允许被修改或删除
func (h *Handler) preventOperateInitialAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := r.Context().Value(UserInfoCtx).(*domain.User)
		if !ok {
			h.internalServerError(w, r, errors.New("无法从请求上下文中获取用户信息"))
			return
		}

		if user.Username == h.config.InitialAdmin.Username {
			h.forbidden(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *Handler) employeeInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			h.badRequest(w, r, errors.New("员工 id 不合法"))
			return
		}

		employee, err := h.repository.GetEmployeeByID(id)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "员工不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), EmployeeCtx, employee)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) vehicleInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			h.badRequest(w, r, errors.New("车辆 id 不合法"))
			return
		}

		vehicle, err := h.repository.GetVehicleByID(id)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "车辆不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), VehicleCtx, vehicle)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *Handler) requestInfo(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			h.badRequest(w, r, errors.New("请求 id 不合法"))
			return
		}

		request, err := h.repository.GetRequestByID(id)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.notFound(w, r, "请求不存在")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}

		ctx := context.WithValue(r.Context(), RequestCtx, request)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
