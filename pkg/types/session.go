// Package types provides the core data types shared by the SiteCraft client.
package types

// User is the profile of an authenticated account.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	IsActive  bool      `json:"is_active,omitempty"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// Session is the authenticated identity held by the client.
// User is non-nil iff Token is non-empty.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// Valid reports whether the session satisfies the token/user pairing.
func (s *Session) Valid() bool {
	if s == nil {
		return false
	}
	return s.Token != "" && s.User != nil
}

// LoginInput is the credential pair sent to /auth/login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterInput is the account profile sent to /auth/register.
// ConfirmPassword is checked locally and never leaves the client.
type RegisterInput struct {
	Username        string `json:"username" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"-" validate:"eqfield=Password"`
	FullName        string `json:"full_name" validate:"required"`
}

// ProfileUpdate holds the editable profile fields. Nil fields are left as-is.
type ProfileUpdate struct {
	Username *string `json:"username,omitempty"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	FullName *string `json:"full_name,omitempty"`
}
