package pages

import "github.com/ragengine/console/internal/modules/model"

type Landing struct {
	User *model.SessionUser
}

func NewLanding(auth Auth) *Landing {
	return &Landing{User: auth.State().User}
}

func (l *Landing) SignedIn() bool { return l.User != nil }

// PrimaryAction is where the landing call-to-action leads.
func (l *Landing) PrimaryAction() (label, href string) {
	if l.SignedIn() {
		return "Go to dashboard", "/dashboard"
	}
	return "Get started", "/register"
}
