package model

import "time"

// SessionUser is the read-only copy of the identity service's user.
type SessionUser struct {
	ID           string                 `json:"id" yaml:"id"`
	Email        string                 `json:"email" yaml:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty" yaml:"user_metadata,omitempty"`
	CreatedAt    time.Time              `json:"created_at" yaml:"created_at"`
}

// FullName returns user_metadata.full_name, or "" when unset.
func (u *SessionUser) FullName() string {
	if u == nil || u.UserMetadata == nil {
		return ""
	}
	name, _ := u.UserMetadata["full_name"].(string)
	return name
}

// DisplayName falls back to the email when no full name was given at sign-up.
func (u *SessionUser) DisplayName() string {
	if name := u.FullName(); name != "" {
		return name
	}
	if u == nil {
		return ""
	}
	return u.Email
}
