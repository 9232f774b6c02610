package domain

import "time"

// Role classifies a user's privilege level. The set is closed: authorization
// decisions are looked up in roleGrants and never fall through.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
	RoleBan   Role = "ban"
)

// roleGrants maps a required role to the caller roles that satisfy it.
// ban is never a grantable qualification, so nobody satisfies it.
var roleGrants = map[Role]map[Role]bool{
	RoleUser:  {RoleUser: true, RoleAdmin: true},
	RoleAdmin: {RoleAdmin: true},
	RoleBan:   {},
}

// IsValid reports whether r is a recognized role value.
func (r Role) IsValid() bool {
	_, ok := roleGrants[r]
	return ok
}

// Satisfies reports whether a caller holding role r qualifies for an
// operation that requires the given role. Unknown required roles qualify
// no one.
func (r Role) Satisfies(required Role) bool {
	return roleGrants[required][r]
}

// User models an account in the user center.
type User struct {
	ID             int64     `json:"id"`
	Account        string    `json:"account"`
	DisplayName    string    `json:"display_name"`
	PasswordDigest string    `json:"-"`
	Role           Role      `json:"role"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	Profile        string    `json:"profile,omitempty"`
	Tags           []string  `json:"tags,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Session binds an opaque session id to a user. Account and Role are an
// advisory snapshot captured at login; role checks always re-read the user
// record, the snapshot only answers "who is asking".
type Session struct {
	ID       string    `json:"id"`
	UserID   int64     `json:"user_id"`
	Account  string    `json:"account"`
	Role     Role      `json:"role"`
	IssuedAt time.Time `json:"issued_at"`
}
