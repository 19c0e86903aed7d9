package get

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/awxops/igsync/internal/awx"
	"github.com/awxops/igsync/internal/cmd"
	"github.com/awxops/igsync/internal/cmd/common"
	"github.com/awxops/igsync/internal/cmd/root/verbs"
	"github.com/awxops/igsync/internal/meta"
	"github.com/awxops/igsync/internal/util/i18n"
	"github.com/awxops/igsync/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.Get
)

var (
	getUse = Verb.String()

	getShort = i18n.T("root.verbs.get.getShort",
		"Display controller resources")

	getLong = normalizers.LongDesc(i18n.T("root.verbs.get.getLong",
		`Read-only listings of the controller resources the reconciliation
operates on.`))

	getExamples = normalizers.Examples(i18n.T("root.verbs.get.getExamples",
		fmt.Sprintf(`
		# List the controller's organizations
		%[1]s get organizations --controller-url https://awx.example.com --controller-oauth2-token $TOKEN

		# List instance groups as JSON
		%[1]s get instance-groups --controller-url https://awx.example.com --controller-oauth2-token $TOKEN -o json
		`, meta.CLIName)))
)

func NewGetCmd() *cobra.Command {
	rv := &cobra.Command{
		Use:     getUse,
		Short:   getShort,
		Long:    getLong,
		Example: getExamples,
		PersistentPreRun: func(c *cobra.Command, _ []string) {
			c.SetContext(context.WithValue(c.Context(), verbs.Verb, Verb))
		},
	}

	rv.AddCommand(newListCmd("organizations", "List the controller's organizations",
		func(helper cmd.Helper, api awx.API) (any, error) {
			return api.ListOrganizations(helper.GetContext())
		},
		func(out io.Writer, data any) {
			w := newTabWriter(out)
			fmt.Fprintln(w, "ID\tNAME")
			for _, org := range data.([]awx.Organization) {
				fmt.Fprintf(w, "%d\t%s\n", org.ID, org.Name)
			}
			w.Flush()
		}))

	rv.AddCommand(newListCmd("instance-groups", "List the controller's instance groups",
		func(helper cmd.Helper, api awx.API) (any, error) {
			return api.ListInstanceGroups(helper.GetContext())
		},
		func(out io.Writer, data any) {
			w := newTabWriter(out)
			fmt.Fprintln(w, "ID\tNAME")
			for _, group := range data.([]awx.InstanceGroup) {
				fmt.Fprintf(w, "%d\t%s\n", group.ID, group.Name)
			}
			w.Flush()
		}))

	rv.AddCommand(newListCmd("teams", "List the controller's teams",
		func(helper cmd.Helper, api awx.API) (any, error) {
			return api.ListTeams(helper.GetContext())
		},
		func(out io.Writer, data any) {
			w := newTabWriter(out)
			fmt.Fprintln(w, "ID\tNAME\tORGANIZATION")
			for _, team := range data.([]awx.Team) {
				fmt.Fprintf(w, "%d\t%s\t%d\n", team.ID, team.Name, team.Organization)
			}
			w.Flush()
		}))

	return rv
}

type listFunc func(helper cmd.Helper, api awx.API) (any, error)

type renderFunc func(out io.Writer, data any)

func newListCmd(use, short string, list listFunc, renderText renderFunc) *cobra.Command {
	rv := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		PreRunE: func(c *cobra.Command, args []string) error {
			return cmd.BindControllerFlags(cmd.BuildHelper(c, args))
		},
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmd.BuildHelper(c, args)
			return run(helper, list, renderText)
		},
	}
	cmd.AddControllerFlags(rv)
	return rv
}

func run(helper cmd.Helper, list listFunc, renderText renderFunc) error {
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	logger, err := helper.GetLogger()
	if err != nil {
		return err
	}
	outputFormat, err := helper.GetOutputFormat()
	if err != nil {
		return err
	}

	api, err := helper.GetControllerAPI(cfg, logger)
	if err != nil {
		return err
	}

	data, err := list(helper, api)
	if err != nil {
		return cmd.PrepareExecutionErrorFromErr(helper, err)
	}

	streams := helper.GetStreams()
	if outputFormat == common.TEXT {
		renderText(streams.Out, data)
		return nil
	}

	if err := cmd.PrintFormatted(outputFormat, streams.Out, data); err != nil {
		return cmd.PrepareExecutionErrorFromErr(helper, err)
	}
	return nil
}

func newTabWriter(out io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
}
