package awx

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ListTeams(ctx context.Context) ([]Team, error) {
	return listAll[Team](ctx, c, apiBasePath+"/teams/", nil)
}

// FindTeam returns the team with the exact name inside the given
// organization, or nil when no such team exists.
func (c *Client) FindTeam(ctx context.Context, name string, organizationID int) (*Team, error) {
	query := url.Values{}
	query.Set("name__exact", name)
	query.Set("organization", itoa(organizationID))
	return findFirst[Team](ctx, c, apiBasePath+"/teams/", query)
}

func (c *Client) CreateTeam(ctx context.Context, team TeamCreate) (*Team, error) {
	var created Team
	if err := c.do(ctx, http.MethodPost, apiBasePath+"/teams/", nil, team, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) ListTeamUsers(ctx context.Context, teamID int) ([]User, error) {
	return listAll[User](ctx, c, teamUsersPath(teamID), nil)
}

func (c *Client) AssociateTeamUser(ctx context.Context, teamID, userID int) error {
	return c.do(ctx, http.MethodPost, teamUsersPath(teamID), nil, association{ID: userID}, nil)
}

func (c *Client) DisassociateTeamUser(ctx context.Context, teamID, userID int) error {
	return c.do(ctx, http.MethodPost, teamUsersPath(teamID), nil, association{ID: userID, Disassociate: true}, nil)
}

func teamUsersPath(teamID int) string {
	return apiBasePath + "/teams/" + itoa(teamID) + "/users/"
}
