package domain

import "time"

// Role classifies an account on the platform.
type Role string

const (
	RoleTenant   Role = "TENANT"
	RoleLandlord Role = "LANDLORD"
	RoleAdmin    Role = "ADMIN"
)

// SelfAssignable reports whether a client may pick this role at registration.
// ADMIN is excluded: it can only be granted out of band.
func (r Role) SelfAssignable() bool {
	return r == RoleTenant || r == RoleLandlord
}

// User models an account. PasswordHash is write-only: the json tag guarantees
// it never appears in a serialized response.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Role         Role      `json:"role"`
	Phone        string    `json:"phone"`
	Timezone     string    `json:"timezone"`
	Bio          string    `json:"bio"`
	Active       bool      `json:"-"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// ProfileUpdate carries a partial update of the editable profile fields.
// Nil means "leave unchanged". Role, username, and password are deliberately
// absent: they cannot be reached through a profile update.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Phone     *string
	Timezone  *string
	Bio       *string
}

// Empty reports whether the update carries no fields at all.
func (p ProfileUpdate) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Phone == nil &&
		p.Timezone == nil && p.Bio == nil
}
