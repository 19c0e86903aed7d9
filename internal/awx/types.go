package awx

// Organization is a controller organization.
type Organization struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// InstanceGroup is a pool of execution resources in the controller.
type InstanceGroup struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Team belongs to exactly one organization and holds role grants on
// behalf of its members.
type Team struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Organization int    `json:"organization"`
}

// TeamCreate is the request body for creating a team.
type TeamCreate struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	Organization int    `json:"organization"`
}

// User is a controller user account.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// ObjectRole is a role attached to a specific resource, e.g. the "Admin"
// role of an organization or the "Use" role of an instance group.
type ObjectRole struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// page is the controller's standard paginated list envelope. Next holds
// a relative URL for the following page, or null on the last page.
type page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// association is the request body the controller expects on a related
// endpoint to attach or detach a resource by id.
type association struct {
	ID           int  `json:"id"`
	Disassociate bool `json:"disassociate,omitempty"`
}
