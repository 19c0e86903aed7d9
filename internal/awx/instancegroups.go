package awx

import (
	"context"
	"strconv"
)

func (c *Client) ListInstanceGroups(ctx context.Context) ([]InstanceGroup, error) {
	return listAll[InstanceGroup](ctx, c, apiBasePath+"/instance_groups/", nil)
}

func (c *Client) ListInstanceGroupObjectRoles(ctx context.Context, instanceGroupID int) ([]ObjectRole, error) {
	return listAll[ObjectRole](ctx, c, apiBasePath+"/instance_groups/"+itoa(instanceGroupID)+"/object_roles/", nil)
}

func itoa(id int) string {
	return strconv.Itoa(id)
}
