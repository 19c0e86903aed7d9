package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/awxops/igsync/internal/awx"
)

// Executor applies a plan's changes sequentially against the controller.
// The first failing call aborts the run; there is no retry or rollback.
type Executor struct {
	client awx.API
	logger *slog.Logger
	dryRun bool

	// teams created during execution, resolved by name for the changes
	// that reference them before their ID is known
	createdTeams map[string]int
}

// ExecutionResult summarizes an executed (or previewed) plan.
type ExecutionResult struct {
	DryRun   bool               `json:"dry_run"`
	Applied  int                `json:"applied"`
	ByAction map[ActionType]int `json:"by_action"`
}

func NewExecutor(client awx.API, logger *slog.Logger, dryRun bool) *Executor {
	return &Executor{
		client:       client,
		logger:       logger,
		dryRun:       dryRun,
		createdTeams: make(map[string]int),
	}
}

// Execute runs every change in plan order. In dry-run mode changes are
// logged but no API mutation is issued.
func (e *Executor) Execute(ctx context.Context, plan *Plan) (*ExecutionResult, error) {
	result := &ExecutionResult{
		DryRun:   e.dryRun,
		ByAction: make(map[ActionType]int),
	}

	for _, change := range plan.Changes {
		e.logChange(change)
		if e.dryRun {
			result.ByAction[change.Action]++
			continue
		}
		if err := e.applyChange(ctx, plan, change); err != nil {
			return result, fmt.Errorf("applying change %s: %w", change.ID, err)
		}
		result.Applied++
		result.ByAction[change.Action]++
	}

	return result, nil
}

func (e *Executor) applyChange(ctx context.Context, plan *Plan, change PlannedChange) error {
	switch change.Action {
	case ActionCreateTeam:
		team, err := e.client.CreateTeam(ctx, awx.TeamCreate{
			Name:         change.Team,
			Description:  fmt.Sprintf("Holds instance group use permission for organization %s", change.Organization),
			Organization: plan.ParentOrganizationID,
		})
		if err != nil {
			return err
		}
		e.createdTeams[change.Team] = team.ID
		return nil

	case ActionAddMember:
		teamID, err := e.resolveTeamID(change)
		if err != nil {
			return err
		}
		return e.client.AssociateTeamUser(ctx, teamID, change.UserID)

	case ActionRemoveMember:
		teamID, err := e.resolveTeamID(change)
		if err != nil {
			return err
		}
		return e.client.DisassociateTeamUser(ctx, teamID, change.UserID)

	case ActionGrantUse:
		teamID, err := e.resolveTeamID(change)
		if err != nil {
			return err
		}
		return e.client.AssociateRoleTeam(ctx, change.UseRoleID, teamID)

	case ActionRevokeUse:
		return e.client.DisassociateRoleTeam(ctx, change.UseRoleID, change.TeamID)

	default:
		return fmt.Errorf("unknown action %q", change.Action)
	}
}

func (e *Executor) resolveTeamID(change PlannedChange) (int, error) {
	if change.TeamID != 0 {
		return change.TeamID, nil
	}
	if id, ok := e.createdTeams[change.Team]; ok {
		return id, nil
	}
	return 0, fmt.Errorf("team %q was not created earlier in the plan", change.Team)
}

func (e *Executor) logChange(change PlannedChange) {
	attrs := []any{
		slog.String("change", change.ID),
		slog.String("action", string(change.Action)),
		slog.String("team", change.Team),
	}
	if change.User != "" {
		attrs = append(attrs, slog.String("user", change.User))
	}
	if change.InstanceGroup != "" {
		attrs = append(attrs, slog.String("instance_group", change.InstanceGroup))
	}

	if e.dryRun {
		e.logger.Info("would apply change", attrs...)
		return
	}
	e.logger.Info("applying change", attrs...)
}
