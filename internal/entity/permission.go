package entity

const (
	CategoryOrders     = "orders"
	CategoryFinancials = "financials"
	CategoryStaff      = "staff"
	CategoryLocations  = "locations"
	CategoryCompliance = "compliance"
	CategoryAudit      = "audit"
	CategoryGovernance = "governance"
)

const (
	ActionView            = "view"
	ActionCreate          = "create"
	ActionUpdate          = "update"
	ActionCancel          = "cancel"
	ActionDispatch        = "dispatch"
	ActionExport          = "export"
	ActionManagePayouts   = "manage_payouts"
	ActionInvite          = "invite"
	ActionRemove          = "remove"
	ActionDelete          = "delete"
	ActionVerify          = "verify"
	ActionSubmitDocuments = "submit_documents"
	ActionManage          = "manage"
)

// Capabilities maps an action name to whether it is granted.
type Capabilities map[string]bool

// Matrix maps a category to its capabilities.
type Matrix map[string]Capabilities

var rolePermissions = map[RoleType]Matrix{
	RolePharmacyOwner: {
		CategoryOrders: {
			ActionView:     true,
			ActionCreate:   true,
			ActionUpdate:   true,
			ActionCancel:   true,
			ActionDispatch: true,
		},
		CategoryFinancials: {
			ActionView:          true,
			ActionExport:        true,
			ActionManagePayouts: true,
		},
		CategoryStaff: {
			ActionView:   true,
			ActionInvite: true,
			ActionUpdate: true,
			ActionRemove: true,
		},
		CategoryLocations: {
			ActionView:   true,
			ActionCreate: true,
			ActionUpdate: true,
			ActionDelete: true,
		},
		CategoryCompliance: {
			ActionView:            true,
			ActionVerify:          true,
			ActionSubmitDocuments: true,
		},
		CategoryAudit: {
			ActionView:   true,
			ActionExport: true,
		},
		CategoryGovernance: {
			ActionView:   true,
			ActionManage: true,
		},
	},
	RoleSuperintendentPharmacist: {
		CategoryOrders: {
			ActionView:     true,
			ActionCreate:   true,
			ActionUpdate:   true,
			ActionCancel:   true,
			ActionDispatch: true,
		},
		CategoryFinancials: {
			ActionView:          true,
			ActionExport:        true,
			ActionManagePayouts: false,
		},
		CategoryStaff: {
			ActionView:   true,
			ActionInvite: true,
			ActionUpdate: true,
			ActionRemove: false,
		},
		CategoryLocations: {
			ActionView:   true,
			ActionCreate: false,
			ActionUpdate: true,
			ActionDelete: false,
		},
		CategoryCompliance: {
			ActionView:            true,
			ActionVerify:          true,
			ActionSubmitDocuments: true,
		},
		CategoryAudit: {
			ActionView:   true,
			ActionExport: true,
		},
		CategoryGovernance: {
			ActionView:   true,
			ActionManage: true,
		},
	},
	RoleSupervisingPharmacist: {
		CategoryOrders: {
			ActionView:     true,
			ActionCreate:   true,
			ActionUpdate:   true,
			ActionCancel:   true,
			ActionDispatch: true,
		},
		CategoryFinancials: {
			ActionView:          false,
			ActionExport:        false,
			ActionManagePayouts: false,
		},
		CategoryStaff: {
			ActionView:   true,
			ActionInvite: false,
			ActionUpdate: false,
			ActionRemove: false,
		},
		CategoryLocations: {
			ActionView:   true,
			ActionCreate: false,
			ActionUpdate: false,
			ActionDelete: false,
		},
		CategoryCompliance: {
			ActionView:            true,
			ActionVerify:          false,
			ActionSubmitDocuments: true,
		},
		CategoryAudit: {
			ActionView:   true,
			ActionExport: false,
		},
		CategoryGovernance: {
			ActionView:   true,
			ActionManage: false,
		},
	},
	RoleStaff: {
		CategoryOrders: {
			ActionView:     true,
			ActionCreate:   true,
			ActionUpdate:   true,
			ActionCancel:   false,
			ActionDispatch: false,
		},
		CategoryFinancials: {
			ActionView:          false,
			ActionExport:        false,
			ActionManagePayouts: false,
		},
		CategoryStaff: {
			ActionView:   false,
			ActionInvite: false,
			ActionUpdate: false,
			ActionRemove: false,
		},
		CategoryLocations: {
			ActionView:   true,
			ActionCreate: false,
			ActionUpdate: false,
			ActionDelete: false,
		},
		CategoryCompliance: {
			ActionView:            false,
			ActionVerify:          false,
			ActionSubmitDocuments: false,
		},
		CategoryAudit: {
			ActionView:   false,
			ActionExport: false,
		},
		CategoryGovernance: {
			ActionView:   false,
			ActionManage: false,
		},
	},
}

// MatrixFor returns a copy of the static matrix for the role. Unknown roles
// get every category with every action denied.
func MatrixFor(role RoleType) Matrix {
	src, ok := rolePermissions[role]
	if !ok {
		return DenyAll()
	}

	return src.Clone()
}

// DenyAll returns a complete matrix with nothing granted.
func DenyAll() Matrix {
	m := make(Matrix, len(rolePermissions[RolePharmacyOwner]))

	for category, caps := range rolePermissions[RolePharmacyOwner] {
		denied := make(Capabilities, len(caps))
		for action := range caps {
			denied[action] = false
		}

		m[category] = denied
	}

	return m
}

func (m Matrix) Clone() Matrix {
	if m == nil {
		return nil
	}

	out := make(Matrix, len(m))

	for category, caps := range m {
		c := make(Capabilities, len(caps))
		for action, granted := range caps {
			c[action] = granted
		}

		out[category] = c
	}

	return out
}

// CheckPermission reports whether the action is granted. A nil matrix or an
// unknown category or action is a denial.
func CheckPermission(m Matrix, category, action string) bool {
	if m == nil {
		return false
	}

	return m[category][action]
}

// Categories lists every category known to the matrix.
func Categories() []string {
	return []string{
		CategoryOrders,
		CategoryFinancials,
		CategoryStaff,
		CategoryLocations,
		CategoryCompliance,
		CategoryAudit,
		CategoryGovernance,
	}
}
