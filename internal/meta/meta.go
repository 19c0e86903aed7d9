package meta

const (
	// CLIName is the name of the binary and the basis for the
	// configuration directory and environment variable prefix.
	CLIName = "igsync"

	DefaultTeamPrefix         = "t-IG-USE-"
	DefaultParentOrganization = "ADMIN-AREA"
	DefaultAllowedRoles       = "admin"
	DefaultSkipInstanceGroups = "default,controlplane"
)
