package guard

import (
	"slices"

	"github.com/samandr77/microservices/portal/internal/entity"
)

type Requirement struct {
	Category string `json:"category" validate:"required"`
	Action   string `json:"action" validate:"required"`
}

// Guard passes only when every condition it carries passes.
type Guard struct {
	Permission     *Requirement      `json:"permission,omitempty"`
	AnyOf          []Requirement     `json:"any_of,omitempty" validate:"dive"`
	Roles          []entity.RoleType `json:"roles,omitempty"`
	RequireOperate bool              `json:"require_operate,omitempty"`
}

func Permission(category, action string) Guard {
	return Guard{Permission: &Requirement{Category: category, Action: action}}
}

func (g Guard) WithOperate() Guard {
	g.RequireOperate = true
	return g
}

// Allows never fails: missing access or an unset matrix is a denial.
func (g Guard) Allows(access *entity.Access) bool {
	if access == nil {
		return false
	}

	if g.Permission != nil && !access.Can(g.Permission.Category, g.Permission.Action) {
		return false
	}

	if len(g.AnyOf) > 0 && !slices.ContainsFunc(g.AnyOf, func(r Requirement) bool {
		return access.Can(r.Category, r.Action)
	}) {
		return false
	}

	if len(g.Roles) > 0 && (!access.Role.Valid() || !slices.Contains(g.Roles, access.Role)) {
		return false
	}

	if g.RequireOperate && !access.CanOperate() {
		return false
	}

	return true
}

// Render returns children when the guard allows access, otherwise the first
// fallback or the zero value.
func Render[T any](g Guard, access *entity.Access, children T, fallback ...T) T {
	if g.Allows(access) {
		return children
	}

	if len(fallback) > 0 {
		return fallback[0]
	}

	var zero T

	return zero
}
