package entity

import "time"

// Access is what guards evaluate: the role of the current membership, the
// matrix derived from it and the governance status of the pharmacy.
type Access struct {
	Role        RoleType         `json:"role"`
	Permissions Matrix           `json:"permissions"`
	Governance  GovernanceStatus `json:"governance_status"`
}

// DeniedAccess is the state of a session whose access data is not loaded.
func DeniedAccess() Access {
	return Access{
		Permissions: DenyAll(),
		Governance:  GovernanceIncomplete,
	}
}

// NewAccess derives access from backend values. An unknown role is stored
// as unset and yields a deny-all matrix.
func NewAccess(role string, status GovernanceStatus) Access {
	r, ok := ParseRoleType(role)
	if !ok {
		r = ""
	}

	return Access{
		Role:        r,
		Permissions: MatrixFor(r),
		Governance:  status,
	}
}

func (a *Access) Can(category, action string) bool {
	if a == nil {
		return false
	}

	return CheckPermission(a.Permissions, category, action)
}

func (a *Access) CanOperate() bool {
	if a == nil {
		return false
	}

	return CanOperate(a.Governance)
}

type Session struct {
	Token     string     `json:"-"`
	User      User       `json:"user"`
	Org       OrgContext `json:"organization"`
	Access    Access     `json:"access"`
	ExpiresAt time.Time  `json:"expires_at,omitempty"`
}

func (s Session) Clone() Session {
	s.Access.Permissions = s.Access.Permissions.Clone()
	return s
}
