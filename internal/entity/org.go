package entity

import "time"

// OrgContext is the pharmacy and location the user is currently acting for.
type OrgContext struct {
	UserID       string    `json:"-"`
	PharmacyID   string    `json:"pharmacy_id"`
	PharmacyName string    `json:"pharmacy_name"`
	LocationID   string    `json:"location_id,omitempty"`
	LocationName string    `json:"location_name,omitempty"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (o OrgContext) Empty() bool {
	return o.PharmacyID == ""
}

type Location struct {
	ID   string `json:"id" validate:"required"`
	Name string `json:"name"`
}

// Membership is the user's assignment to one pharmacy.
type Membership struct {
	PharmacyID       string           `json:"pharmacy_id" validate:"required"`
	PharmacyName     string           `json:"pharmacy_name"`
	Role             string           `json:"role" validate:"required"`
	GovernanceStatus GovernanceStatus `json:"governance_status"`
	Locations        []Location       `json:"locations" validate:"dive"`
}

func (m Membership) Location(id string) (Location, bool) {
	for _, l := range m.Locations {
		if l.ID == id {
			return l, true
		}
	}

	return Location{}, false
}

type User struct {
	ID          string       `json:"id" validate:"required"`
	Email       string       `json:"email"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	Memberships []Membership `json:"memberships" validate:"dive"`
}

func (u User) Membership(pharmacyID string) (Membership, bool) {
	for _, m := range u.Memberships {
		if m.PharmacyID == pharmacyID {
			return m, true
		}
	}

	return Membership{}, false
}
