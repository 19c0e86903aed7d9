package version

import (
	"fmt"

	"github.com/awxops/igsync/internal/cmd"
	"github.com/awxops/igsync/internal/meta"
	"github.com/awxops/igsync/internal/util/i18n"
	"github.com/awxops/igsync/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const (
	ShowCommitFlagName = "show-commit"
)

var (
	versionUse   = "version"
	versionShort = i18n.T("root.version.versionShort",
		fmt.Sprintf("Print the %s version", meta.CLIName))
	versionLong = normalizers.LongDesc(i18n.T("root.version.versionLong",
		`The version command prints the version and other optional information`))
	versionExample = normalizers.Examples(i18n.T("root.version.versionExamples",
		fmt.Sprintf(`
		# Print the simple version
		%[1]s version
		# Print the version and the git commit hash
		%[1]s version --show-commit
		`, meta.CLIName)))
)

// Build a new instance of the version command
func NewVersionCmd() *cobra.Command {
	rv := &cobra.Command{
		Use:     versionUse,
		Short:   versionShort,
		Long:    versionLong,
		Example: versionExample,
		Args:    cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmd.BuildHelper(c, args)

			info, err := helper.GetBuildInfo()
			if err != nil {
				return err
			}

			showCommit, err := c.Flags().GetBool(ShowCommitFlagName)
			if err != nil {
				return err
			}

			out := helper.GetStreams().Out
			if showCommit {
				fmt.Fprintf(out, "%s (%s)\n", info.Version, info.Commit)
				return nil
			}
			fmt.Fprintln(out, info.Version)
			return nil
		},
	}

	rv.Flags().Bool(ShowCommitFlagName, false, "True to show the git commit hash when built.")

	return rv
}
