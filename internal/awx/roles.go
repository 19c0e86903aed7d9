package awx

import (
	"context"
	"net/http"
)

func (c *Client) ListRoleUsers(ctx context.Context, roleID int) ([]User, error) {
	return listAll[User](ctx, c, rolePath(roleID)+"/users/", nil)
}

func (c *Client) ListRoleTeams(ctx context.Context, roleID int) ([]Team, error) {
	return listAll[Team](ctx, c, rolePath(roleID)+"/teams/", nil)
}

// AssociateRoleTeam grants the role to the team.
func (c *Client) AssociateRoleTeam(ctx context.Context, roleID, teamID int) error {
	return c.do(ctx, http.MethodPost, rolePath(roleID)+"/teams/", nil, association{ID: teamID}, nil)
}

// DisassociateRoleTeam revokes the role from the team.
func (c *Client) DisassociateRoleTeam(ctx context.Context, roleID, teamID int) error {
	return c.do(ctx, http.MethodPost, rolePath(roleID)+"/teams/", nil, association{ID: teamID, Disassociate: true}, nil)
}

func rolePath(roleID int) string {
	return apiBasePath + "/roles/" + itoa(roleID)
}
