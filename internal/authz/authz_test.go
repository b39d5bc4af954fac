package authz

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/sysu-ecnc-dev/duty-manager/backend/internal/domain"
)

func activeUser(role domain.Role, perms ...domain.Permission) *domain.User {
	return &domain.User{
		ID:          1,
		Role:        role,
		Permissions: perms,
		IsActive:    true,
	}
}

func TestAuthorizeNilActor(t *testing.T) {
	decision := Authorize(nil, Capability(domain.PermScheduleView))
	require.False(t, decision.Allowed)
	require.Equal(t, DenyUnauthenticated, decision.Reason)
}

func TestAuthorizeInactiveActor(t *testing.T) {
	actor := activeUser(domain.RoleAdmin, domain.PermScheduleEdit)
	actor.IsActive = false

	// 停用的账号即使有权限也视为未认证，而不是权限不足
	decision := Authorize(actor, Capability(domain.PermScheduleEdit))
	require.False(t, decision.Allowed)
	require.Equal(t, DenyUnauthenticated, decision.Reason)

	decision = Authorize(actor, Roles(domain.RoleAdmin))
	require.False(t, decision.Allowed)
	require.Equal(t, DenyUnauthenticated, decision.Reason)
}

func TestAuthorizeAdminBypassesCapability(t *testing.T) {
	actor := activeUser(domain.RoleAdmin)
	require.Empty(t, actor.Permissions)

	for _, p := range domain.AllPermissions {
		decision := Authorize(actor, Capability(p))
		require.True(t, decision.Allowed, "admin 应该拥有权限 %s", p)
	}
}

func TestAuthorizeCapabilityRequiresExplicitGrant(t *testing.T) {
	actor := activeUser(domain.RoleUser, domain.PermScheduleView)

	decision := Authorize(actor, Capability(domain.PermScheduleView))
	require.True(t, decision.Allowed)

	decision = Authorize(actor, Capability(domain.PermScheduleEdit))
	require.False(t, decision.Allowed)
	require.Equal(t, DenyForbidden, decision.Reason)
}

func TestAuthorizeManagerHasNoImplicitPermissions(t *testing.T) {
	actor := activeUser(domain.RoleManager)

	decision := Authorize(actor, Capability(domain.PermScheduleEdit))
	require.False(t, decision.Allowed)
	require.Equal(t, DenyForbidden, decision.Reason)
}

func TestAuthorizeRoleMembership(t *testing.T) {
	manager := activeUser(domain.RoleManager)

	decision := Authorize(manager, Roles(domain.RoleAdmin, domain.RoleManager))
	require.True(t, decision.Allowed)

	decision = Authorize(manager, Roles(domain.RoleAdmin))
	require.False(t, decision.Allowed)
	require.Equal(t, DenyForbidden, decision.Reason)
}

func TestAuthorizeRoleRequirementHasNoAdminBypass(t *testing.T) {
	admin := activeUser(domain.RoleAdmin)

	// 角色条件是成员判定，admin 不在集合中同样被拒绝
	decision := Authorize(admin, Roles(domain.RoleManager))
	require.False(t, decision.Allowed)
	require.Equal(t, DenyForbidden, decision.Reason)
}
