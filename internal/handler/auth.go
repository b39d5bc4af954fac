package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/utils"
)

func (h *Handler) setTokenCookie(w http.ResponseWriter, user *domain.User) error {
	expiration := time.Duration(h.config.JWT.Expiration) * time.Second
	claims := &jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(user.ID, 10),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiration)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(h.config.JWT.Secret))
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "__duty_manager_token",
		Value:    tokenString,
		Path:     "/",
		MaxAge:   h.config.JWT.Expiration,
		HttpOnly: true,
		Secure:   h.config.Environment == "production",
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}{}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	user, err := h.repository.GetUserByUsername(req.Username)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.unauthenticated(w, r, "用户名或密码错误")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		h.unauthenticated(w, r, "用户名或密码错误")
		return
	}

	if !user.IsActive {
		h.unauthenticated(w, r, "账号已被停用")
		return
	}

	if err := h.setTokenCookie(w, user); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := h.repository.UpdateUserLastLogin(user.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "登录成功", user)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "__duty_manager_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.Environment == "production",
		SameSite: http.SameSiteLaxMode,
	})

	h.successResponse(w, r, "登出成功", nil)
}

func otpKey(username string) string {
	return fmt.Sprintf("reset-password:%s", username)
}

func (h *Handler) publishMail(msg domain.MailMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.RabbitMQ.PublishTimeout)*time.Second)
	defer cancel()

	return h.mailChannel.PublishWithContext(ctx, "", "email_queue", false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
	})
}

// RequireResetPassword 生成 OTP 并发送到用户邮箱。
// 无论用户名是否存在都返回成功，避免被用来枚举用户
func (h *Handler) RequireResetPassword(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Username string `json:"username" validate:"required"`
	}{}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	user, err := h.repository.GetUserByUsername(req.Username)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.successResponse(w, r, "如果该用户存在，重置邮件已发送", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	otp, err := utils.GenerateOTP()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	key := otpKey(user.Username)
	if err := h.redisClient.Set(ctx, key, otp, time.Duration(h.config.OTP.Expiration)*time.Second).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	msg := domain.MailMessage{
		Type: "reset_password",
		To:   user.Email,
		Data: domain.ResetPasswordMailData{
			FullName:   user.FullName,
			OTP:        otp,
			Expiration: h.config.OTP.Expiration / 60,
		},
	}
	if err := h.publishMail(msg); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "如果该用户存在，重置邮件已发送", nil)
}

func (h *Handler) ConfirmResetPassword(w http.ResponseWriter, r *http.Request) {
	req := struct {
		Username    string `json:"username" validate:"required"`
		OTP         string `json:"otp" validate:"required"`
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

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationTimeout)*time.Second)
	defer cancel()

	key := otpKey(req.Username)
	otp, err := h.redisClient.Get(ctx, key).Result()
	if err != nil {
		switch {
		case errors.Is(err, redis.Nil):
			h.badRequest(w, r, errors.New("验证码错误或已过期"))
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	if otp != req.OTP {
		h.badRequest(w, r, errors.New("验证码错误或已过期"))
		return
	}

	user, err := h.repository.GetUserByUsername(req.Username)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.badRequest(w, r, errors.New("验证码错误或已过期"))
		default:
			h.internalServerError(w, r, err)
		}
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

	// 验证码一次性使用
	if err := h.redisClient.Del(ctx, key).Err(); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "密码重置成功", nil)
}
