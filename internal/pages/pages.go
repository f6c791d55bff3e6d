// Package pages holds the state and actions of every screen. The web handlers and the
// CLI both drive these types; each one is built fresh per render or command and loads
// its data from the backend.
package pages

import (
	"context"

	"github.com/ragengine/console/internal/session"
)

// Auth is the part of the session store the pages use.
type Auth interface {
	State() session.State
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password, fullName string) error
	SignOut(ctx context.Context) error
	ResetPassword(ctx context.Context, email string) error
}

// Confirmer asks a yes/no question.
type Confirmer func(message string) bool

// Prompter asks for free text; ok is false when the prompt was dismissed.
type Prompter func(message string) (answer string, ok bool)

// Always is a Confirmer for non-interactive callers that already confirmed.
func Always(string) bool { return true }

func errorMessage(err error, fallback string) string {
	if err == nil || err.Error() == "" {
		return fallback
	}
	return err.Error()
}
