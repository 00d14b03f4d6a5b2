package entity

type RoleType string

const (
	RolePharmacyOwner            RoleType = "PHARMACY_OWNER"
	RoleSuperintendentPharmacist RoleType = "SUPERINTENDENT_PHARMACIST"
	RoleSupervisingPharmacist    RoleType = "SUPERVISING_PHARMACIST"
	RoleStaff                    RoleType = "STAFF"
)

var roleTypes = []RoleType{
	RolePharmacyOwner,
	RoleSuperintendentPharmacist,
	RoleSupervisingPharmacist,
	RoleStaff,
}

// ParseRoleType matches the backend value exactly. Anything else is unknown.
func ParseRoleType(s string) (RoleType, bool) {
	for _, r := range roleTypes {
		if string(r) == s {
			return r, true
		}
	}

	return RoleType(s), false
}

func (r RoleType) Valid() bool {
	_, ok := ParseRoleType(string(r))
	return ok
}
