package handler

type ContextKey string

var (
	ActorCtx    ContextKey = "actor"
	UserInfoCtx ContextKey = "userInfo"
	EmployeeCtx ContextKey = "employee"
	VehicleCtx  ContextKey = "vehicle"
	RequestCtx  ContextKey = "request"
)
