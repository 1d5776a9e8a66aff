package entity

import "strings"

// AuthUser is the authenticated caller for the current operation. It is
// built by the auth middleware from the verified token and passed into every
// use case explicitly; there is no process-wide current user.
type AuthUser struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
}

func (u AuthUser) IsZero() bool {
	return u.UID == ""
}

// SenderName resolves the name recorded on messages sent by this user:
// display name, else the local part of the email, else "User".
func (u AuthUser) SenderName() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	if u.Email != "" {
		if local := strings.SplitN(u.Email, "@", 2)[0]; local != "" {
			return local
		}
	}
	return "User"
}
