package awx

import (
	"context"
	"net/url"
)

func (c *Client) ListOrganizations(ctx context.Context) ([]Organization, error) {
	return listAll[Organization](ctx, c, apiBasePath+"/organizations/", nil)
}

// FindOrganization returns the organization with the exact name, or nil
// when no such organization exists.
func (c *Client) FindOrganization(ctx context.Context, name string) (*Organization, error) {
	query := url.Values{}
	query.Set("name__exact", name)
	return findFirst[Organization](ctx, c, apiBasePath+"/organizations/", query)
}

func (c *Client) ListOrganizationObjectRoles(ctx context.Context, organizationID int) ([]ObjectRole, error) {
	return listAll[ObjectRole](ctx, c, orgPath(organizationID)+"/object_roles/", nil)
}

func orgPath(id int) string {
	return apiBasePath + "/organizations/" + itoa(id)
}
