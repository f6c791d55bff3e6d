package pages

import (
	"context"
	"errors"
	"strings"

	"github.com/ragengine/console/internal/modules/model"
	"github.com/ragengine/console/internal/modules/service"
	"go.uber.org/zap"
)

const (
	MsgLoadSpacesFailed  = "Failed to load spaces"
	MsgCreateSpaceFailed = "Failed to create space"
)

type Dashboard struct {
	User   *model.SessionUser
	Spaces []model.Space
	Query  string
	Loaded bool
	Error  string
	Notice string

	auth   Auth
	spaces service.SpaceService
	log    *zap.Logger
}

func NewDashboard(auth Auth, spaces service.SpaceService, log *zap.Logger) *Dashboard {
	return &Dashboard{User: auth.State().User, auth: auth, spaces: spaces, log: log}
}

func (p *Dashboard) Load(ctx context.Context) error {
	spaces, err := p.spaces.List(ctx)
	p.Loaded = true
	if err != nil {
		p.log.Error("failed to load spaces", zap.Error(err))
		p.Error = MsgLoadSpacesFailed
		return err
	}
	p.Spaces = spaces
	return nil
}

// Filtered returns the spaces whose name or description contains Query, ignoring case.
func (p *Dashboard) Filtered() []model.Space {
	q := strings.ToLower(strings.TrimSpace(p.Query))
	if q == "" {
		return p.Spaces
	}
	out := make([]model.Space, 0, len(p.Spaces))
	for _, s := range p.Spaces {
		desc := ""
		if s.Description != nil {
			desc = *s.Description
		}
		if strings.Contains(strings.ToLower(s.Name), q) || strings.Contains(strings.ToLower(desc), q) {
			out = append(out, s)
		}
	}
	return out
}

// Create adds a space and returns it so the caller can navigate into it.
// A blank name returns (nil, nil) without contacting the backend.
func (p *Dashboard) Create(ctx context.Context, name string) (*model.Space, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}
	sp, err := p.spaces.Create(ctx, model.CreateSpaceInput{Name: name})
	if err != nil {
		p.log.Error("failed to create space", zap.Error(err))
		p.Error = errorMessage(err, MsgCreateSpaceFailed)
		return nil, err
	}
	p.Spaces = append(p.Spaces, *sp)
	return sp, nil
}

func (p *Dashboard) SignOut(ctx context.Context) error {
	err := p.auth.SignOut(ctx)
	if err != nil {
		p.log.Warn("sign out failed", zap.Error(err))
	}
	return err
}

// SpacePath is the entry route of a space.
func SpacePath(spaceID string) string { return "/spaces/" + spaceID }

var ErrSpaceNotFound = errors.New("space not found")

// NavItem is one entry of the space sidebar.
type NavItem struct {
	Label  string
	Icon   string
	Href   string
	Active bool
}

// SpaceLayout is the frame shared by the pages inside one space.
type SpaceLayout struct {
	User    *model.SessionUser
	Space   model.Space
	SpaceID string
	Section string
}

// LoadSpaceLayout resolves the space by scanning the user's space list.
// Any failure means the caller should send the user back to the dashboard.
func LoadSpaceLayout(ctx context.Context, auth Auth, spaces service.SpaceService, spaceID, section string, log *zap.Logger) (*SpaceLayout, error) {
	all, err := spaces.List(ctx)
	if err != nil {
		log.Error("failed to load space", zap.String("space_id", spaceID), zap.Error(err))
		return nil, err
	}
	for _, s := range all {
		if s.ID == spaceID {
			return &SpaceLayout{User: auth.State().User, Space: s, SpaceID: spaceID, Section: section}, nil
		}
	}
	return nil, ErrSpaceNotFound
}

func (l *SpaceLayout) Nav() []NavItem {
	base := SpacePath(l.SpaceID)
	items := []NavItem{
		{Label: "Chat", Icon: "chat_bubble", Href: base + "/chat"},
		{Label: "Knowledge Base", Icon: "folder", Href: base + "/documents"},
		{Label: "Settings", Icon: "settings", Href: base + "/settings"},
	}
	for i := range items {
		items[i].Active = strings.HasSuffix(items[i].Href, "/"+l.Section)
	}
	return items
}
