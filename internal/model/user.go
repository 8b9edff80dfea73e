package model

import "time"

// Role names as stored in users.role and carried in the JWT "role"
// claim. Lieutenants inherit every admin-gated route; that expansion
// happens once in middleware.RequireRole, never per endpoint.
const (
	RoleAdmin      = "admin"
	RoleLieutenant = "lieutenant"
	RoleElite      = "elite"
	RoleSoldier    = "soldier"
	RoleExternal   = "external"
)

// ValidRole reports whether s is one of the five known roles.
func ValidRole(s string) bool {
	switch s {
	case RoleAdmin, RoleLieutenant, RoleElite, RoleSoldier, RoleExternal:
		return true
	}
	return false
}

// User represents a row in the `users` table. The three counters are
// only ever mutated through atomic increments (UserRepo.Credit); the
// profile fields through the admin update path.
//
// Fields:
//
//	ID                – primary key identifier of the user.
//	Email             – unique email address.
//	Username          – unique display name.
//	PasswordHash      – bcrypt hashed password.
//	Role              – one of the Role* constants.
//	MissionsCompleted – number of missions credited to this user.
//	ReportsSubmitted  – number of reports this user has submitted.
//	RankPoints        – accumulated score.
//	CreatedAt         – timestamp of creation.
//	UpdatedAt         – timestamp of last update.
type User struct {
	ID                uint64    `json:"id"`
	Email             string    `json:"email"`
	Username          string    `json:"username"`
	PasswordHash      string    `json:"-"`
	Role              string    `json:"role"`
	MissionsCompleted int       `json:"missions_completed"`
	ReportsSubmitted  int       `json:"reports_submitted"`
	RankPoints        int       `json:"rank_points"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
