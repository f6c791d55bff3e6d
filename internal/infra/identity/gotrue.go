package identity

import (
	"github.com/ragengine/console/internal/modules/model"
	"github.com/supabase-community/auth-go"
	"github.com/supabase-community/auth-go/types"
)

// goTrue is the part of the Supabase auth API the provider needs, in this package's types.
type goTrue interface {
	passwordGrant(email, password string) (*Session, error)
	refreshGrant(refreshToken string) (*Session, error)
	// signup returns a nil session when e-mail confirmation is pending.
	signup(email, password string, data map[string]interface{}) (*Session, *model.SessionUser, error)
	recover(email string) error
	logout(accessToken string) error
}

type supabaseGoTrue struct {
	client auth.Client
}

// newSupabaseGoTrue targets <supabaseURL>/auth/v1 with the project's anon key.
func newSupabaseGoTrue(supabaseURL, anonKey string) *supabaseGoTrue {
	return &supabaseGoTrue{
		client: auth.New("", anonKey).WithCustomAuthURL(supabaseURL + "/auth/v1"),
	}
}

func toSessionUser(u types.User) model.SessionUser {
	return model.SessionUser{
		ID:           u.ID.String(),
		Email:        u.Email,
		UserMetadata: u.UserMetadata,
		CreatedAt:    u.CreatedAt,
	}
}

func toSession(t *types.TokenResponse) *Session {
	return &Session{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		ExpiresAt:    int64(t.ExpiresAt),
		User:         toSessionUser(t.User),
	}
}

func (g *supabaseGoTrue) passwordGrant(email, password string) (*Session, error) {
	resp, err := g.client.Token(types.TokenRequest{
		GrantType: "password",
		Email:     email,
		Password:  password,
	})
	if err != nil {
		return nil, err
	}
	return toSession(resp), nil
}

func (g *supabaseGoTrue) refreshGrant(refreshToken string) (*Session, error) {
	resp, err := g.client.Token(types.TokenRequest{
		GrantType:    "refresh_token",
		RefreshToken: refreshToken,
	})
	if err != nil {
		return nil, err
	}
	return toSession(resp), nil
}

func (g *supabaseGoTrue) signup(email, password string, data map[string]interface{}) (*Session, *model.SessionUser, error) {
	resp, err := g.client.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
		Data:     data,
	})
	if err != nil {
		return nil, nil, err
	}
	user := toSessionUser(resp.User)
	if resp.AccessToken == "" {
		return nil, &user, nil
	}
	s := &Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		ExpiresAt:    int64(resp.ExpiresAt),
		User:         user,
	}
	return s, &user, nil
}

func (g *supabaseGoTrue) recover(email string) error {
	return g.client.Recover(types.RecoverRequest{Email: email})
}

func (g *supabaseGoTrue) logout(accessToken string) error {
	return g.client.WithToken(accessToken).Logout()
}
