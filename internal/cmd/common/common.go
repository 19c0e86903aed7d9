package common

import "fmt"

// Represents an enum of valid values for the format of the output for this CLI execution
type OutputFormat int

const (
	JSON OutputFormat = iota
	YAML
	TEXT
)

const (
	// related to the --output flag
	DefaultOutputFormat = "text"
	OutputFlagName      = "output"
	OutputFlagShort     = "o"
	OutputConfigPath    = OutputFlagName

	// related to the --profile flag
	ProfileFlagName  = "profile"
	ProfileFlagShort = "p"

	// related to the --config-file flag
	ConfigFilePathFlagName = "config-file"

	// related to the --log-level flag
	LogLevelFlagName   = "log-level"
	DefaultLogLevel    = "info"
	LogLevelConfigPath = LogLevelFlagName

	// controller connection flags, bound under the controller.* config paths
	ControllerURLFlagName   = "controller-url"
	ControllerURLConfigPath = "controller.url"

	ControllerTokenFlagName   = "controller-oauth2-token"
	ControllerTokenConfigPath = "controller.token"

	IgnoreCertsFlagName   = "ignore-certs-validation"
	IgnoreCertsConfigPath = "controller.ignore-certs-validation"

	PageSizeConfigPath = "controller.page-size"
	DefaultPageSize    = 200

	// mapping flags
	TeamPrefixFlagName   = "team-prefix"
	TeamPrefixConfigPath = "mapping.team-prefix"

	ParentOrganizationFlagName   = "parent-organization"
	ParentOrganizationConfigPath = "mapping.parent-organization"

	AllowedRolesFlagName   = "role-from-org-to-allow"
	AllowedRolesConfigPath = "mapping.role-from-org-to-allow"

	SkipInstanceGroupsFlagName   = "skip-list-instance-groups"
	SkipInstanceGroupsConfigPath = "mapping.skip-list-instance-groups"

	CleanupUseRoleFlagName   = "cleanup-use-role"
	CleanupUseRoleConfigPath = "mapping.cleanup-use-role"

	DryRunFlagName = "dry-run"
)

func (of OutputFormat) String() string {
	return [...]string{"json", "yaml", "text"}[of]
}

func OutputFormatStringToIota(format string) (OutputFormat, error) {
	switch format {
	case "json":
		return JSON, nil
	case "yaml":
		return YAML, nil
	case "text":
		return TEXT, nil
	default:
		return TEXT, fmt.Errorf("invalid output format %q, must be one of %v", format, []string{"json", "yaml", "text"})
	}
}
