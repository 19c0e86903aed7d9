package cmd

import (
	"strings"

	"github.com/awxops/igsync/internal/cmd/common"
	"github.com/awxops/igsync/internal/config"
	"github.com/awxops/igsync/internal/meta"
	"github.com/awxops/igsync/internal/reconcile"
	"github.com/spf13/cobra"
)

// AddControllerFlags registers the controller connection flags shared by
// every command that talks to the API.
func AddControllerFlags(c *cobra.Command) {
	c.Flags().String(common.ControllerURLFlagName, "",
		"Base URL of the controller.\n (config path = '"+common.ControllerURLConfigPath+"')")
	c.Flags().String(common.ControllerTokenFlagName, "",
		"The controller OAuth2 token with System Administrator privilege.\n (config path = '"+
			common.ControllerTokenConfigPath+"')")
	c.Flags().Bool(common.IgnoreCertsFlagName, false,
		"Ignore SSL certs validation.\n (config path = '"+common.IgnoreCertsConfigPath+"')")
}

// AddMappingFlags registers the flags controlling the permission mapping.
func AddMappingFlags(c *cobra.Command) {
	c.Flags().String(common.TeamPrefixFlagName, meta.DefaultTeamPrefix,
		"Team prefix used to hold the permissions.\n (config path = '"+common.TeamPrefixConfigPath+"')")
	c.Flags().String(common.ParentOrganizationFlagName, meta.DefaultParentOrganization,
		"The parent organization of the teams holding permissions.\n (config path = '"+
			common.ParentOrganizationConfigPath+"')")
	c.Flags().String(common.AllowedRolesFlagName, meta.DefaultAllowedRoles,
		"List of organization roles granting instance group use, comma (,) separated.\n (config path = '"+
			common.AllowedRolesConfigPath+"')")
	c.Flags().String(common.SkipInstanceGroupsFlagName, meta.DefaultSkipInstanceGroups,
		"Instance groups to ignore, comma (,) separated.\n (config path = '"+
			common.SkipInstanceGroupsConfigPath+"')")
	c.Flags().Bool(common.CleanupUseRoleFlagName, false,
		"Revoke use grants held by prefix-matching teams the mapping no longer produces.\n (config path = '"+
			common.CleanupUseRoleConfigPath+"')")
}

// BindControllerFlags binds the controller flags onto their config paths.
func BindControllerFlags(helper Helper) error {
	return bindFlags(helper, map[string]string{
		common.ControllerURLFlagName:   common.ControllerURLConfigPath,
		common.ControllerTokenFlagName: common.ControllerTokenConfigPath,
		common.IgnoreCertsFlagName:     common.IgnoreCertsConfigPath,
	})
}

// BindMappingFlags binds the mapping flags onto their config paths.
func BindMappingFlags(helper Helper) error {
	return bindFlags(helper, map[string]string{
		common.TeamPrefixFlagName:         common.TeamPrefixConfigPath,
		common.ParentOrganizationFlagName: common.ParentOrganizationConfigPath,
		common.AllowedRolesFlagName:       common.AllowedRolesConfigPath,
		common.SkipInstanceGroupsFlagName: common.SkipInstanceGroupsConfigPath,
		common.CleanupUseRoleFlagName:     common.CleanupUseRoleConfigPath,
	})
}

func bindFlags(helper Helper, paths map[string]string) error {
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	flags := helper.GetCmd().Flags()
	for flagName, configPath := range paths {
		f := flags.Lookup(flagName)
		if f == nil {
			continue
		}
		if err := cfg.BindFlag(configPath, f); err != nil {
			return err
		}
	}
	return nil
}

// MappingConfig reads the reconciliation parameters out of the profile
// configuration after flag binding.
func MappingConfig(cfg config.Hook) reconcile.Config {
	return reconcile.Config{
		TeamPrefix:         cfg.GetString(common.TeamPrefixConfigPath),
		ParentOrganization: cfg.GetString(common.ParentOrganizationConfigPath),
		AllowedRoles:       splitList(cfg.GetString(common.AllowedRolesConfigPath)),
		SkipInstanceGroups: splitList(cfg.GetString(common.SkipInstanceGroupsConfigPath)),
		Cleanup:            cfg.GetBool(common.CleanupUseRoleConfigPath),
	}
}

// splitList parses a comma-separated flag value, dropping empty entries
// so trailing commas are harmless.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
