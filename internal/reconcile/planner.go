package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/awxops/igsync/internal/awx"
)

// useRoleName is the controller's object role granting permission to run
// jobs against an instance group.
const useRoleName = "Use"

// Config holds the mapping parameters for a reconciliation run.
type Config struct {
	// TeamPrefix prefixes every managed team name; a team is managed if
	// and only if its name carries the prefix.
	TeamPrefix string

	// ParentOrganization owns all managed teams.
	ParentOrganization string

	// AllowedRoles are the organization role names whose holders become
	// members of the organization's managed team. Matched
	// case-insensitively against the controller's object role names.
	AllowedRoles []string

	// SkipInstanceGroups are instance group names that never receive
	// managed grants.
	SkipInstanceGroups []string

	// Cleanup revokes "use" grants held by prefix-matching teams that the
	// mapping did not produce.
	Cleanup bool
}

// Mode returns the plan mode implied by the cleanup setting.
func (c Config) Mode() PlanMode {
	if c.Cleanup {
		return PlanModeSync
	}
	return PlanModeApply
}

func (c Config) skips(instanceGroup string) bool {
	for _, name := range c.SkipInstanceGroups {
		if strings.TrimSpace(name) == instanceGroup {
			return true
		}
	}
	return false
}

func (c Config) allowsRole(roleName string) bool {
	for _, allowed := range c.AllowedRoles {
		allowed = strings.TrimSpace(allowed)
		if allowed != "" && strings.EqualFold(allowed, roleName) {
			return true
		}
	}
	return false
}

// UnknownParentOrganizationError reports a parent organization that does
// not exist on the controller.
type UnknownParentOrganizationError struct {
	Name string
}

func (e *UnknownParentOrganizationError) Error() string {
	return fmt.Sprintf("cannot find parent organization %q, please make sure it exists", e.Name)
}

// Planner reads the controller's current state and computes the change
// plan that brings team membership and instance group grants in line
// with the configured mapping.
type Planner struct {
	client awx.API
	logger *slog.Logger
	cfg    Config
}

func NewPlanner(client awx.API, logger *slog.Logger, cfg Config) *Planner {
	return &Planner{
		client: client,
		logger: logger,
		cfg:    cfg,
	}
}

// instanceGroupState is an instance group together with its resolved
// "use" role and the teams currently holding it.
type instanceGroupState struct {
	group     awx.InstanceGroup
	useRoleID int
	holders   []awx.Team
	managed   bool
}

// Plan computes the ordered change set for one reconciliation run. It
// mutates nothing; all reads go through the client.
func (p *Planner) Plan(ctx context.Context) (*Plan, error) {
	parent, err := p.client.FindOrganization(ctx, p.cfg.ParentOrganization)
	if err != nil {
		return nil, fmt.Errorf("looking up parent organization: %w", err)
	}
	if parent == nil {
		return nil, &UnknownParentOrganizationError{Name: p.cfg.ParentOrganization}
	}

	organizations, err := p.client.ListOrganizations(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing organizations: %w", err)
	}
	sort.Slice(organizations, func(i, j int) bool {
		return organizations[i].Name < organizations[j].Name
	})

	groups, err := p.observeInstanceGroups(ctx)
	if err != nil {
		return nil, err
	}

	p.logger.Info("observed controller state",
		slog.Int("organizations", len(organizations)),
		slog.Int("instance_groups", len(groups)),
	)

	plan := NewPlan(p.cfg.Mode(), parent.ID)

	// (instance group ID, team name) pairs produced by the mapping;
	// cleanup treats everything outside this set as stray.
	desiredGrants := make(map[int]map[string]bool)

	for _, org := range organizations {
		if org.ID == parent.ID {
			continue
		}
		if err := p.planOrganization(ctx, plan, parent.ID, org, groups, desiredGrants); err != nil {
			return nil, err
		}
	}

	if p.cfg.Cleanup {
		p.planCleanup(plan, groups, desiredGrants)
	}

	return plan, nil
}

// observeInstanceGroups resolves every instance group's "use" role and,
// where needed, its current holders. Holders for skip-listed groups are
// only read when cleanup will inspect them.
func (p *Planner) observeInstanceGroups(ctx context.Context) ([]instanceGroupState, error) {
	groups, err := p.client.ListInstanceGroups(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing instance groups: %w", err)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Name < groups[j].Name
	})

	states := make([]instanceGroupState, 0, len(groups))
	for _, group := range groups {
		managed := !p.cfg.skips(group.Name)
		if !managed && !p.cfg.Cleanup {
			continue
		}

		roles, err := p.client.ListInstanceGroupObjectRoles(ctx, group.ID)
		if err != nil {
			return nil, fmt.Errorf("listing object roles of instance group %q: %w", group.Name, err)
		}
		useRoleID := 0
		for _, role := range roles {
			if strings.EqualFold(role.Name, useRoleName) {
				useRoleID = role.ID
				break
			}
		}
		if useRoleID == 0 {
			return nil, fmt.Errorf("instance group %q has no %q object role", group.Name, useRoleName)
		}

		holders, err := p.client.ListRoleTeams(ctx, useRoleID)
		if err != nil {
			return nil, fmt.Errorf("listing teams holding use on instance group %q: %w", group.Name, err)
		}

		states = append(states, instanceGroupState{
			group:     group,
			useRoleID: useRoleID,
			holders:   holders,
			managed:   managed,
		})
	}
	return states, nil
}

// planOrganization emits the team, membership and grant changes for one
// organization.
func (p *Planner) planOrganization(
	ctx context.Context,
	plan *Plan,
	parentID int,
	org awx.Organization,
	groups []instanceGroupState,
	desiredGrants map[int]map[string]bool,
) error {
	teamName := p.cfg.TeamPrefix + org.Name

	eligible, err := p.eligibleUsers(ctx, org)
	if err != nil {
		return err
	}

	team, err := p.client.FindTeam(ctx, teamName, parentID)
	if err != nil {
		return fmt.Errorf("looking up team %q: %w", teamName, err)
	}

	teamID := 0
	var members []awx.User
	if team == nil {
		plan.AddChange(PlannedChange{
			Action:       ActionCreateTeam,
			Organization: org.Name,
			Team:         teamName,
		})
	} else {
		teamID = team.ID
		members, err = p.client.ListTeamUsers(ctx, team.ID)
		if err != nil {
			return fmt.Errorf("listing members of team %q: %w", teamName, err)
		}
	}

	p.planMembership(plan, org.Name, teamName, teamID, eligible, members)

	for _, state := range groups {
		if !state.managed {
			continue
		}
		if desiredGrants[state.group.ID] == nil {
			desiredGrants[state.group.ID] = make(map[string]bool)
		}
		desiredGrants[state.group.ID][teamName] = true

		if teamID != 0 && holdsRole(state.holders, teamID) {
			continue
		}
		plan.AddChange(PlannedChange{
			Action:        ActionGrantUse,
			Organization:  org.Name,
			Team:          teamName,
			TeamID:        teamID,
			InstanceGroup: state.group.Name,
			UseRoleID:     state.useRoleID,
		})
	}

	return nil
}

// planMembership mirrors the team's membership onto the eligible set.
func (p *Planner) planMembership(
	plan *Plan,
	orgName, teamName string,
	teamID int,
	eligible, members []awx.User,
) {
	memberIDs := make(map[int]bool, len(members))
	for _, member := range members {
		memberIDs[member.ID] = true
	}
	eligibleIDs := make(map[int]bool, len(eligible))
	for _, user := range eligible {
		eligibleIDs[user.ID] = true
	}

	for _, user := range eligible {
		if memberIDs[user.ID] {
			continue
		}
		plan.AddChange(PlannedChange{
			Action:       ActionAddMember,
			Organization: orgName,
			Team:         teamName,
			TeamID:       teamID,
			User:         user.Username,
			UserID:       user.ID,
		})
	}

	for _, member := range members {
		if eligibleIDs[member.ID] {
			continue
		}
		plan.AddChange(PlannedChange{
			Action:       ActionRemoveMember,
			Organization: orgName,
			Team:         teamName,
			TeamID:       teamID,
			User:         member.Username,
			UserID:       member.ID,
		})
	}
}

// planCleanup revokes "use" grants held by prefix-matching teams that
// this run's mapping did not produce. Unmanaged holders are untouched.
func (p *Planner) planCleanup(plan *Plan, groups []instanceGroupState, desiredGrants map[int]map[string]bool) {
	for _, state := range groups {
		for _, holder := range state.holders {
			if !strings.HasPrefix(holder.Name, p.cfg.TeamPrefix) {
				continue
			}
			if desiredGrants[state.group.ID][holder.Name] {
				continue
			}
			plan.AddChange(PlannedChange{
				Action:        ActionRevokeUse,
				Team:          holder.Name,
				TeamID:        holder.ID,
				InstanceGroup: state.group.Name,
				UseRoleID:     state.useRoleID,
			})
		}
	}
}

// eligibleUsers returns the union, deduplicated and ordered by username,
// of the users holding any allow-listed role on the organization.
func (p *Planner) eligibleUsers(ctx context.Context, org awx.Organization) ([]awx.User, error) {
	roles, err := p.client.ListOrganizationObjectRoles(ctx, org.ID)
	if err != nil {
		return nil, fmt.Errorf("listing object roles of organization %q: %w", org.Name, err)
	}

	seen := make(map[int]bool)
	var eligible []awx.User
	for _, role := range roles {
		if !p.cfg.allowsRole(role.Name) {
			continue
		}
		users, err := p.client.ListRoleUsers(ctx, role.ID)
		if err != nil {
			return nil, fmt.Errorf("listing %q role holders of organization %q: %w", role.Name, org.Name, err)
		}
		for _, user := range users {
			if seen[user.ID] {
				continue
			}
			seen[user.ID] = true
			eligible = append(eligible, user)
		}
	}

	sort.Slice(eligible, func(i, j int) bool {
		return eligible[i].Username < eligible[j].Username
	})
	return eligible, nil
}

func holdsRole(holders []awx.Team, teamID int) bool {
	for _, holder := range holders {
		if holder.ID == teamID {
			return true
		}
	}
	return false
}
