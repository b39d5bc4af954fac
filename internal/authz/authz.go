// Package authz 实现纯函数式的授权判定：
// 给定操作者和操作所需的授权条件，计算出允许或拒绝，不访问任何外部状态。
package authz

import (
	"slices"

	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

type DenyReason string

const (
	// DenyUnauthenticated 表示没有有效的操作者（未登录或账号已停用）
	DenyUnauthenticated DenyReason = "unauthenticated"
	// DenyForbidden 表示操作者有效但缺少所需的角色或权限
	DenyForbidden DenyReason = "forbidden"
)

// Requirement 描述一次操作所需的授权条件：
// 要么是单个权限，要么是一组可接受的角色，两者只取其一
type Requirement struct {
	capability domain.Permission
	roles      []domain.Role
}

func Capability(p domain.Permission) Requirement {
	return Requirement{capability: p}
}

func Roles(roles ...domain.Role) Requirement {
	return Requirement{roles: roles}
}

type Decision struct {
	Allowed bool
	Reason  DenyReason
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason DenyReason) Decision {
	return Decision{Reason: reason}
}

// Authorize 判定 actor 是否允许执行需要 req 的操作。
// actor 为 nil 或者已停用时一律视为未认证；
// 角色条件要求 actor 的角色在可接受的角色集合中，admin 不例外；
// 权限条件下 admin 拥有所有权限，其他角色必须显式持有该权限。
func Authorize(actor *domain.User, req Requirement) Decision {
	if actor == nil || !actor.IsActive {
		return deny(DenyUnauthenticated)
	}

	if len(req.roles) > 0 {
		if slices.Contains(req.roles, actor.Role) {
			return allow()
		}
		return deny(DenyForbidden)
	}

	if actor.Role == domain.RoleAdmin {
		return allow()
	}
	if actor.HasPermission(req.capability) {
		return allow()
	}
	return deny(DenyForbidden)
}
