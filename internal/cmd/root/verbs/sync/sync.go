package sync

import (
	"context"
	"fmt"

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
	Verb = verbs.Sync
)

var (
	syncUse = Verb.String()

	syncShort = i18n.T("root.verbs.sync.syncShort",
		"Reconcile instance group use permissions with organization membership")

	syncLong = normalizers.LongDesc(i18n.T("root.verbs.sync.syncLong",
		`Reconcile team-held instance group use permissions on the controller.

For every organization, the users holding an allow-listed organization role
become the members of a dedicated team under the parent organization, and
that team is granted use on every instance group outside the skip list.
Only the differences between observed and desired state are applied, so
repeated runs against unchanged state perform no mutations.`))

	syncExamples = normalizers.Examples(i18n.T("root.verbs.sync.syncExamples",
		fmt.Sprintf(`
		# Reconcile permissions
		%[1]s sync --controller-url https://awx.example.com --controller-oauth2-token $TOKEN

		# Preview the changes without applying them
		%[1]s sync --controller-url https://awx.example.com --controller-oauth2-token $TOKEN --dry-run

		# Also revoke stray grants held by prefix-matching teams
		%[1]s sync --controller-url https://awx.example.com --controller-oauth2-token $TOKEN --cleanup-use-role
		`, meta.CLIName)))
)

// syncResult is the structure rendered for -o json/yaml.
type syncResult struct {
	Plan   reconcile.PlanSummary      `json:"plan"`
	Result *reconcile.ExecutionResult `json:"result"`
}

func NewSyncCmd() *cobra.Command {
	rv := &cobra.Command{
		Use:     syncUse,
		Short:   syncShort,
		Long:    syncLong,
		Example: syncExamples,
		Args:    cobra.NoArgs,
		PersistentPreRun: func(c *cobra.Command, _ []string) {
			c.SetContext(context.WithValue(c.Context(), verbs.Verb, Verb))
		},
		PreRunE: func(c *cobra.Command, args []string) error {
			return bindFlags(cmd.BuildHelper(c, args))
		},
		RunE: func(c *cobra.Command, args []string) error {
			helper := cmd.BuildHelper(c, args)
			if err := validate(helper); err != nil {
				return err
			}
			return run(helper)
		},
	}

	cmd.AddControllerFlags(rv)
	cmd.AddMappingFlags(rv)
	rv.Flags().Bool(common.DryRunFlagName, false,
		"Compute and report the changes without applying them.")

	return rv
}

func bindFlags(helper cmd.Helper) error {
	if err := cmd.BindControllerFlags(helper); err != nil {
		return err
	}
	return cmd.BindMappingFlags(helper)
}

func validate(helper cmd.Helper) error {
	cfg, err := helper.GetConfig()
	if err != nil {
		return err
	}
	mapping := cmd.MappingConfig(cfg)
	if mapping.ParentOrganization == "" {
		return &cmd.ConfigurationError{
			Err: fmt.Errorf("no parent organization configured (--%s)", common.ParentOrganizationFlagName),
		}
	}
	if len(mapping.AllowedRoles) == 0 {
		return &cmd.ConfigurationError{
			Err: fmt.Errorf("no organization roles configured (--%s)", common.AllowedRolesFlagName),
		}
	}
	return nil
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

	mapping := cmd.MappingConfig(cfg)
	planner := reconcile.NewPlanner(api, logger, mapping)
	plan, err := planner.Plan(helper.GetContext())
	if err != nil {
		return cmd.PrepareExecutionErrorFromErr(helper, err)
	}

	dryRun, err := helper.GetCmd().Flags().GetBool(common.DryRunFlagName)
	if err != nil {
		return err
	}

	executor := reconcile.NewExecutor(api, logger, dryRun)
	result, execErr := executor.Execute(helper.GetContext(), plan)
	if execErr != nil {
		return cmd.PrepareExecutionErrorFromErr(helper, execErr)
	}

	streams := helper.GetStreams()
	if outputFormat == common.TEXT {
		return printTextSummary(helper, plan, result)
	}

	if err := cmd.PrintFormatted(outputFormat, streams.Out, syncResult{Plan: plan.Summary, Result: result}); err != nil {
		return cmd.PrepareExecutionErrorFromErr(helper, err)
	}
	return nil
}

func printTextSummary(helper cmd.Helper, plan *reconcile.Plan, result *reconcile.ExecutionResult) error {
	out := helper.GetStreams().Out

	if plan.IsEmpty() {
		fmt.Fprintln(out, "No changes. Controller state already matches the mapping.")
		return nil
	}

	verb := "Applied"
	if result.DryRun {
		verb = "Planned"
	}
	fmt.Fprintf(out, "%s %d change(s):\n", verb, len(plan.Changes))
	for _, action := range []reconcile.ActionType{
		reconcile.ActionCreateTeam,
		reconcile.ActionAddMember,
		reconcile.ActionRemoveMember,
		reconcile.ActionGrantUse,
		reconcile.ActionRevokeUse,
	} {
		if count := result.ByAction[action]; count > 0 {
			fmt.Fprintf(out, "  %-13s %d\n", action, count)
		}
	}
	return nil
}
