package entity_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/samandr77/microservices/portal/internal/entity"
)

func TestCheckPermission(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name     string
		role     entity.RoleType
		category string
		action   string
		want     bool
	}{
		{"staff cannot view financials", entity.RoleStaff, entity.CategoryFinancials, entity.ActionView, false},
		{"owner views financials", entity.RolePharmacyOwner, entity.CategoryFinancials, entity.ActionView, true},
		{"staff creates orders", entity.RoleStaff, entity.CategoryOrders, entity.ActionCreate, true},
		{"staff cannot cancel orders", entity.RoleStaff, entity.CategoryOrders, entity.ActionCancel, false},
		{"supervising cannot view financials", entity.RoleSupervisingPharmacist, entity.CategoryFinancials, entity.ActionView, false},
		{"supervising dispatches orders", entity.RoleSupervisingPharmacist, entity.CategoryOrders, entity.ActionDispatch, true},
		{"superintendent exports financials", entity.RoleSuperintendentPharmacist, entity.CategoryFinancials, entity.ActionExport, true},
		{"superintendent cannot manage payouts", entity.RoleSuperintendentPharmacist, entity.CategoryFinancials, entity.ActionManagePayouts, false},
		{"owner manages payouts", entity.RolePharmacyOwner, entity.CategoryFinancials, entity.ActionManagePayouts, true},
		{"unknown category", entity.RolePharmacyOwner, "billing", entity.ActionView, false},
		{"unknown action", entity.RolePharmacyOwner, entity.CategoryOrders, "refund", false},
		{"unknown role", entity.RoleType("ADMIN"), entity.CategoryOrders, entity.ActionView, false},
	} {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := entity.MatrixFor(tt.role)
			require.Equal(t, tt.want, entity.CheckPermission(m, tt.category, tt.action))
		})
	}
}

func TestCheckPermission_NilMatrix(t *testing.T) {
	t.Parallel()

	require.False(t, entity.CheckPermission(nil, entity.CategoryOrders, entity.ActionView))
}

func TestMatrixFor_Complete(t *testing.T) {
	t.Parallel()

	owner := entity.MatrixFor(entity.RolePharmacyOwner)

	for _, role := range []entity.RoleType{
		entity.RolePharmacyOwner,
		entity.RoleSuperintendentPharmacist,
		entity.RoleSupervisingPharmacist,
		entity.RoleStaff,
		entity.RoleType("unknown"),
	} {
		m := entity.MatrixFor(role)

		require.Len(t, m, len(entity.Categories()), role)

		for _, category := range entity.Categories() {
			require.Contains(t, m, category, role)
			require.Len(t, m[category], len(owner[category]), "%s %s", role, category)
		}
	}

	for category, caps := range owner {
		for action, granted := range caps {
			require.True(t, granted, "owner %s.%s", category, action)
		}
	}
}

func TestMatrixFor_ReturnsCopy(t *testing.T) {
	t.Parallel()

	m := entity.MatrixFor(entity.RoleStaff)
	m[entity.CategoryFinancials][entity.ActionView] = true

	require.False(t, entity.CheckPermission(entity.MatrixFor(entity.RoleStaff), entity.CategoryFinancials, entity.ActionView))
}

func TestParseRoleType(t *testing.T) {
	t.Parallel()

	r, ok := entity.ParseRoleType("STAFF")
	require.True(t, ok)
	require.Equal(t, entity.RoleStaff, r)

	_, ok = entity.ParseRoleType("staff")
	require.False(t, ok)

	_, ok = entity.ParseRoleType("")
	require.False(t, ok)
}
