package handler

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	// 认证相关，凭据类接口做限流防止暴力尝试
	h.Mux.Route("/auth", func(r chi.Router) {
		r.With(httprate.LimitByIP(h.config.RateLimit.LoginPerMinute, time.Minute)).Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Use(httprate.LimitByIP(h.config.RateLimit.OTPPerMinute, time.Minute))
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Route("/my-info", func(r chi.Router) {
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
		})

		// 用户管理只对 admin 开放
		r.Route("/users", func(r chi.Router) {
			r.Use(h.RequiredRole(domain.RoleAdmin))
			r.Get("/", h.GetAllUserInfo)
			r.Post("/", h.CreateUser)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).Delete("/", h.DeleteUser)
				r.Patch("/password", h.UpdateUserPassword)
			})
		})

		r.Route("/employees", func(r chi.Router) {
			r.With(h.RequiredPermission(domain.PermEmployeesView)).Get("/", h.GetAllEmployees)
			r.With(h.RequiredPermission(domain.PermEmployeesEdit)).Post("/", h.CreateEmployee)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.employeeInfo)
				r.With(h.RequiredPermission(domain.PermEmployeesView)).Get("/", h.GetEmployee)
				r.With(h.RequiredPermission(domain.PermEmployeesEdit)).Put("/", h.UpdateEmployee)
				r.With(h.RequiredPermission(domain.PermEmployeesManage)).Delete("/", h.DeleteEmployee)
			})
		})

		r.Route("/vehicles", func(r chi.Router) {
			r.With(h.RequiredPermission(domain.PermVehiclesView)).Get("/", h.GetAllVehicles)
			r.With(h.RequiredPermission(domain.PermVehiclesEdit)).Post("/", h.CreateVehicle)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.vehicleInfo)
				r.With(h.RequiredPermission(domain.PermVehiclesView)).Get("/", h.GetVehicle)
				r.With(h.RequiredPermission(domain.PermVehiclesEdit)).Put("/", h.UpdateVehicle)
				r.With(h.RequiredPermission(domain.PermVehiclesManage)).Delete("/", h.DeleteVehicle)
			})
		})

		r.Route("/schedule", func(r chi.Router) {
			r.With(h.RequiredPermission(domain.PermScheduleView)).Get("/week/{date}", h.GetWeekSchedule)
			r.With(h.RequiredPermission(domain.PermScheduleView)).Get("/{date}/{shiftType}", h.GetShift)
			r.With(h.RequiredPermission(domain.PermScheduleEdit)).Post("/", h.SaveShift)
			r.With(h.RequiredPermission(domain.PermScheduleEdit)).Post("/assign", h.AssignEmployee)
			r.With(h.RequiredPermission(domain.PermScheduleEdit)).Delete("/unassign", h.UnassignEmployee)
		})

		r.Route("/work-plans", func(r chi.Router) {
			r.With(h.RequiredPermission(domain.PermWorkplanView)).Get("/week/{date}", h.GetWeekWorkPlans)
			r.With(h.RequiredPermission(domain.PermWorkplanEdit)).Post("/", h.SaveWorkPlan)
			r.With(h.RequiredPermission(domain.PermWorkplanEdit)).Put("/shift-tasks", h.SaveShiftTasks)
			r.With(h.RequiredPermission(domain.PermWorkplanView)).Get("/{date}", h.GetWorkPlan)
			r.With(h.RequiredPermission(domain.PermWorkplanManage)).Delete("/{date}", h.DeleteWorkPlan)
		})

		r.Route("/requests", func(r chi.Router) {
			r.With(h.RequiredPermission(domain.PermRequestsView)).Get("/", h.GetAllRequests)
			r.Post("/", h.CreateRequest) // 创建请求只要求登录
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.requestInfo)
				r.With(h.RequiredPermission(domain.PermRequestsView)).Get("/", h.GetRequest)
				r.With(h.RequiredPermission(domain.PermRequestsApprove)).Put("/approve", h.ApproveRequest)
				r.With(h.RequiredPermission(domain.PermRequestsApprove)).Put("/reject", h.RejectRequest)
				r.With(h.RequiredPermission(domain.PermRequestsManage)).Delete("/", h.DeleteRequest)
			})
		})
	})
}
