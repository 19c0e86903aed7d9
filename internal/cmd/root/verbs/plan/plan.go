package plan

import (
	"context"
	"fmt"
	"io"

	"github.com/awxops/igsync/internal/cmd"
	"github.com/awxops/igsync/internal/cmd/common"
	"github.com/awxops/igsync/internal/cmd/root/verbs"
	"github.com/awxops/igsync/internal/meta"
	"github.com/awxops/igsync/internal/reconcile"
	"github.com/awxops/igsync/internal/util/i18n"
	"github.com/awxops/igsync/internal/util/normalizers"
	"github.com/spf13/cobra"
)

const (
	Verb = verbs.Plan
)

var (
	planUse = Verb.String()

	planShort = i18n.T("root.verbs.plan.planShort",
		"Compute the reconciliation plan without applying it")

	planLong = normalizers.LongDesc(i18n.T("root.verbs.plan.planLong",
		`Compute the change plan that would reconcile the controller's instance
group use permissions with organization membership, and print it without
issuing any mutation.`))

	planExamples = normalizers.Examples(i18n.T("root.verbs.plan.planExamples",
		fmt.Sprintf(`
		# Print the plan as text
		%[1]s plan --controller-url https://awx.example.com --controller-oauth2-token $TOKEN

		# Print the plan as JSON, including cleanup revocations
		%[1]s plan --controller-url https://awx.example.com --controller-oauth2-token $TOKEN --cleanup-use-role -o json
		`, meta.CLIName)))
)

func NewPlanCmd() *cobra.Command {
	rv := &cobra.Command{
		Use:     planUse,
		Short:   planShort,
		Long:    planLong,
		Example: planExamples,
		Args:    cobra.NoArgs,
		PersistentPreRun: func(c *cobra.Command, _ []string) {
			c.SetContext(context.WithValue(c.Context(), verbs.Verb, Verb))
		},
		PreRunE: func(c *cobra.Command, args []string) error {
			helper := cmd.BuildHelper(c, args)
			if err := cmd.BindControllerFlags(helper); err != nil {
				return err
			}
			return cmd.BindMappingFlags(helper)
		},
		RunE: func(c *cobra.Command, args []string) error {
			return run(cmd.BuildHelper(c, args))
		},
	}

	cmd.AddControllerFlags(rv)
	cmd.AddMappingFlags(rv)

	return rv
}

func run(helper cmd.Helper) error {
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

	planner := reconcile.NewPlanner(api, logger, cmd.MappingConfig(cfg))
	plan, err := planner.Plan(helper.GetContext())
	if err != nil {
		return cmd.PrepareExecutionErrorFromErr(helper, err)
	}

	streams := helper.GetStreams()
	if outputFormat == common.TEXT {
		printTextPlan(streams.Out, plan)
		return nil
	}

	if err := cmd.PrintFormatted(outputFormat, streams.Out, plan); err != nil {
		return cmd.PrepareExecutionErrorFromErr(helper, err)
	}
	return nil
}

func printTextPlan(out io.Writer, plan *reconcile.Plan) {
	if plan.IsEmpty() {
		fmt.Fprintln(out, "No changes. Controller state already matches the mapping.")
		return
	}

	fmt.Fprintf(out, "Plan: %d change(s) [%s mode]\n", len(plan.Changes), plan.Metadata.Mode)
	for _, change := range plan.Changes {
		switch change.Action {
		case reconcile.ActionCreateTeam:
			fmt.Fprintf(out, "  + create team %q for organization %q\n", change.Team, change.Organization)
		case reconcile.ActionAddMember:
			fmt.Fprintf(out, "  + add %q to team %q\n", change.User, change.Team)
		case reconcile.ActionRemoveMember:
			fmt.Fprintf(out, "  - remove %q from team %q\n", change.User, change.Team)
		case reconcile.ActionGrantUse:
			fmt.Fprintf(out, "  + grant use on %q to team %q\n", change.InstanceGroup, change.Team)
		case reconcile.ActionRevokeUse:
			fmt.Fprintf(out, "  - revoke use on %q from team %q\n", change.InstanceGroup, change.Team)
		}
	}
}
