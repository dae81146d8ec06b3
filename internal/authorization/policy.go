package authorization

import (
	"strings"

	userdomain "github.com/craftedcv/craftedcv/internal/user/domain"
)

// Action names an operation gated by the policy.
type Action string

const (
	ActionManageTemplates Action = "templates.manage"
	ActionManageSchemas   Action = "schemas.manage"
	ActionManageCoupons   Action = "coupons.manage"
	ActionManagePlans     Action = "plans.manage"
)

// Allowed is an explicit role-based policy check. Authorization is driven
// by the role claim on the caller, not by configuration-derived identity
// lists.
func Allowed(role string, action Action) bool {
	switch Action(strings.TrimSpace(string(action))) {
	case ActionManageTemplates, ActionManageSchemas, ActionManageCoupons, ActionManagePlans:
		return strings.EqualFold(strings.TrimSpace(role), userdomain.RoleAdmin)
	default:
		return false
	}
}
